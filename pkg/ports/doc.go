/*
Package ports defines the boundary interfaces of the kinmap editor.

Following Hexagonal Architecture, the core depends only on these interfaces;
concrete infrastructure lives in pkg/adapters.

  - DocumentStore: persistence for serialized genogram documents (memory,
    file, redis adapters).
  - SyncClient: best-effort push of mutations to an external system-of-record
    such as a case-management backend.
  - HostNotifier: delivery of state-update frames to a hosting context when
    the editor is embedded.
  - DistributedLocker: cross-process serialization of access to a shared
    document, used by pkg/session.
*/
package ports
