// Package hooks defines the notification extension points a runner fires
// during a pipeline run.
//
// Hooks are fire-and-forget: observers cannot alter control flow, and a
// panicking hook is logged and swallowed rather than failing the run.
// Compose multiple observers with Composite; embed Base to implement only
// the events you care about.
package hooks
