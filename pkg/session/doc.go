/*
Package session implements document access orchestration.

It provides high-level abstractions for handling concurrent access to genogram
documents across multiple replicas, integrating per-document in-process locks
with distributed locking and long-term storage adapters.
*/
package session
