// Package dedupe tracks recently processed chat event IDs so redelivered
// sync events are handled at most once within a configurable window.
package dedupe
