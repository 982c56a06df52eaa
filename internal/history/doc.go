// Package history persists device state changes to SQLite.
//
// Every committed state transition flowing through the dispatcher is
// appended to the state_history table, giving dashboards and debugging
// sessions an audit trail of what changed, where, and when.
//
// The store owns its schema and creates it on construction, so no
// separate migration step is required.
package history
