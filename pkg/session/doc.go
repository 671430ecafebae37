/*
Package session serialises access to quiz sessions.

Hosts that serve many users (HTTP, MCP) load, mutate and save a session's
state under a per-session lock. Local locks are reference counted and
dropped when unused; a ports.DistributedLocker extends the lock across
replicas sharing one store.
*/
package session
