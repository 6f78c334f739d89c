// Package value implements the AsyncValue primitive: a single-assignment,
// reference-counted future cell holding either a typed value or an error.
//
// # States
//
// A cell is born Unconstructed and transitions exactly once to Concrete
// (via Emplace) or Error (via SetError). The transition is irreversible;
// resolving a cell twice is a programming defect and panics.
//
//	Unconstructed ──Emplace──▶ Concrete
//	              ──SetError─▶ Error
//
// # References
//
// Cells are shared by reference count. CopyRef/AddRef increment the count,
// DropRef decrements it, and the last drop releases the payload regardless
// of which goroutine resolved the cell. Continuations hold references to
// the cells they observe, never the reverse, so no cycles can form.
//
// # Continuations
//
// AndThen and RunWhenReady registered continuations run synchronously on
// the goroutine that resolves the last awaited cell (or on the registering
// goroutine when everything is already available). A continuation that does
// significant work should re-enqueue itself on a work queue rather than
// burn the resolver's stack.
package value
