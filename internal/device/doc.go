// Package device defines the closed device-type and action enumerations,
// the per-type capability tables (supported rooms, allowed actions, parameter
// ranges, default state), and the pure state-transition function applied by
// the registry when a validated command lands.
//
// The capability tables are the single source of truth for what a device can
// do and where it exists. The validator, the dispatcher's "all" expansion,
// and the registry's default-state initialisation all read from them.
package device
