// Package dispatch serializes all device mutations through a single worker
// goroutine.
//
// Callers hand in a command batch and block until the batch has been
// applied; results come back in input order, with "all" locations expanded
// in capability-table order. One invalid command never aborts the rest of
// its batch. State broadcasts go out only after the whole batch has landed,
// once per mutated (type, location) key.
package dispatch
