// Package fs provides filesystem abstractions for testability and fault injection.
//
// The package defines two key interfaces:
//
//   - [File]: an open file with read/write/sync capabilities
//   - [FileSystem]: open, remove, rename, stat and mkdir
//
// # Implementations
//
//   - [LocalFS]: Production implementation using standard os package
//   - [FaultyFS]: Test utility for fault injection (simulate I/O errors)
//
// # Atomic writes
//
// Batch result files double as resume checkpoints, so a half-written file
// must never appear under its final name. [WriteAtomic] writes to a temporary
// sibling, syncs it and renames it into place:
//
//	err := fs.WriteAtomic(fs.Default, path, func(w io.Writer) error {
//	    return results.Write(w, records)
//	})
//
// Tests can inject [FaultyFS] to simulate failures:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule(".3", fs.Fault{FailAfterBytes: 1024})
//	// inject ffs into component under test
//
// This package intentionally does NOT include context.Context parameters.
// Local filesystem operations are non-interruptible at the syscall level.
package fs
