// Package sensor models per-room environmental readings and generates
// simulated data when no real sensor node is reporting.
//
// Rooms start on simulated data. When a hardware node pushes a reading the
// room switches to real data and the simulator leaves it alone until the
// reading goes stale, at which point simulation resumes. Device state
// changes nudge the simulated values (lights raise light level, exhaust
// fans pull humidity and VOC down) so the numbers stay plausible.
package sensor
