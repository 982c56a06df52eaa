// Package api provides the HTTP REST API and WebSocket endpoint for
// Reiki Core.
//
// It exposes device control, registry snapshots, sensor readings, scene
// execution and state history to user interfaces (wall panels, mobile
// apps, dashboards). Real-time updates flow over the WebSocket endpoint,
// which hands each connection to the hub for routing and fan-out.
//
// The server follows the same lifecycle pattern as other infrastructure
// components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
//
// Thread Safety: All methods are safe for concurrent use from multiple goroutines.
package api
