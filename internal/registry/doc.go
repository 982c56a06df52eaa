// Package registry holds the authoritative in-memory state for every
// device instance and every room's sensor readings.
//
// Device instances are keyed by (type, location) and seeded from the
// capability tables at construction, so lookups never miss for valid pairs.
// Sensor readings track whether they came from a real node or the simulator;
// real data wins until it goes stale, then simulation takes over again.
//
// All public methods are safe for concurrent use. Returned states and
// readings are copies; callers can modify them freely.
package registry
