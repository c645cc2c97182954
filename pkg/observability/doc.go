/*
Package observability exposes Prometheus metrics for the kinmap editor.

Metrics are fed through the editor's mutation and sync-error hooks, so any
embedding (CLI, HTTP server, MCP) gets the same counters for free.
*/
package observability
