// Package ginee ingests webhook notifications pushed by the Ginee marketplace
// integration. Every event is stored at most once, keyed by its event id, and
// accepted events are handed to downstream consumers through a Dispatcher.
package ginee
