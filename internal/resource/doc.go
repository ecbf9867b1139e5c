// Package resource governs the two resources a classification run contends
// for: memory held by class-feature tables and disk bandwidth spent re-reading
// the training corpus.
//
//	┌──────────────────────────────────────────────┐
//	│                  Controller                  │
//	├──────────────────────┬───────────────────────┤
//	│  Memory budget       │  IO rate limiter      │
//	│  (fail-fast)         │  (token bucket)       │
//	├──────────────────────┼───────────────────────┤
//	│  Reserve             │  AcquireIO            │
//	│  AcquireMemory       │  RateLimitedReader    │
//	│  ReleaseMemory       │                       │
//	└──────────────────────┴───────────────────────┘
//
// # Memory
//
// Every batch reserves (classes+1)*(features+1)*8 bytes before allocating its
// table and releases them once the batch has been evaluated. Reservation is
// non-blocking: a batch that does not fit fails with ErrMemoryLimitExceeded.
//
//	rc := resource.NewController(resource.Config{MemoryLimitBytes: 16 << 30})
//	release, err := rc.Reserve(tableBytes)
//	if err != nil {
//	    return err
//	}
//	defer release()
//
// [SystemMemory] reports the host's physical memory and is used when no
// budget is configured.
//
// # Nil Safety
//
// All methods handle a nil Controller gracefully - they become no-ops.
package resource
