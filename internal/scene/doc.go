// Package scene resolves named scenes into ordered command batches.
//
// A scene is a template: each step names a device, an action, and optional
// parameters. Steps without a pinned location take the location supplied at
// resolve time, so "movie mode in the bedroom" and "movie mode in the living
// room" come from one table entry. Step order is preserved through dispatch;
// the tables are written with intent (lights dim before curtains close).
//
// A built-in table ships with the binary; a YAML file can add to or
// override it.
package scene
