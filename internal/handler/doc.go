// Package handler implements the HTTP API of alertgraph.
//
// # Handlers
//
// ViewHandler renders an alert statelessly: each request fetches the alert
// metadata and network, lays the network out and returns the projected
// graph, or exports it as JSON, YAML or Graphviz DOT.
//
// SessionHandler exposes inspection sessions. A session remembers the
// loaded alert, the transparency toggle and the current selection, so a
// thin client can forward clicks and render the returned snapshot.
//
// AlertsHandler serves the filtered alert listing and forwards dashboard
// logins to the alert data service.
//
// # Response Format
//
// Success responses return JSON with status 200, 201 or 202.
// Error responses return JSON with {error, details} structure. Failures of
// the alert data service map to 404 when the alert does not exist and 502
// otherwise.
//
// # Server-Sent Events
//
// The /events endpoint streams session events. Clients may pass
// ?session=<id> to receive the events of a single session.
//
// # Middleware
//
// NewRouter wraps the mux with panic recovery, CORS, request logging and
// request metrics, in that order.
package handler
