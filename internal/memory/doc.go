// Package memory sets the Go runtime's soft memory limit from the
// container's memory limit.
//
// The converter's own heap is small: uploads stream to disk and downloads
// stream from disk. Most of a container's memory goes to the FFmpeg child
// processes, which the Go runtime does not see. Without a limit the Go heap
// can still grow into the space those processes need before the garbage
// collector runs, and the container is OOM-killed mid-conversion.
//
// # Configuration
//
// [ConfigureFromEnv] reads, in order of precedence:
//
//   - GOMEMLIMIT: the standard Go variable; when set it is reported and left alone
//   - MEMORY_LIMIT: container limit in bytes or a size such as "2GiB"
//     (typically from the Kubernetes Downward API)
//   - MEMORY_RATIO: share of MEMORY_LIMIT given to the Go heap (default 0.5)
//
// Kubernetes example:
//
//	env:
//	  - name: MEMORY_LIMIT
//	    valueFrom:
//	      resourceFieldRef:
//	        resource: limits.memory
//
// Call it first in main, before significant allocations.
package memory
