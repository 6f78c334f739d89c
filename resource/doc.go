// Package resource provides the shared-facility handle table owned by a
// host.
//
// Collaborators outside the runtime (driver bindings, allocators,
// communication libraries) stash process-wide facilities here and receive
// small integer handles they can pass through op attributes instead of
// threading Go pointers through opaque work items.
//
// # Handle Table
//
//	table := resource.NewTable()
//
//	// Insert a value under a type id, get a handle
//	h := table.Insert(DeviceTypeID, dev)
//
//	// Type-checked retrieval
//	v, ok := table.GetTyped(h, DeviceTypeID)
//
//	// Lazily construct a process-wide singleton
//	v, _ := table.GetOrCreate(AllocatorTypeID, "pinned-allocator", func() any {
//	    return newPinnedAllocator()
//	})
//
// Values implementing Dropper are cleaned up when removed or when the table
// is closed at host teardown. Handles are not reference counted; ownership
// stays with the table until Remove or Close.
package resource
