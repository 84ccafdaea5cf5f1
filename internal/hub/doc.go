// Package hub fans events out to Server-Sent Events clients.
//
// A single goroutine (Run) owns client registration and delivery. Slow
// clients drop messages instead of stalling the hub. Messages carry an
// optional topic, the session id for session events, and clients that
// connected with ?session=<id> only receive messages for that topic.
package hub
