/*
Package observability turns engine lifecycle hooks into Prometheus metrics
and structured log lines.

Hooks from several sources are merged with Combine and passed to the engine
through advisor.WithLifecycleHooks.
*/
package observability
