/*
Package workers sizes the conversion pool in containerized environments.

# Overview

Every conversion runs an FFmpeg process, and libx264 already spreads one
encode across several threads. Running one conversion per CPU oversubscribes
the machine; running one in total leaves it idle while a single upload is
still being received.

The number of usable CPUs comes from GOMAXPROCS rather than
runtime.NumCPU(), because Go 1.25+ sets GOMAXPROCS from the container's
cgroup CPU limit while NumCPU still reports the host:

	// Wrong: Returns 64 (host CPUs), ignores container limit
	n := runtime.NumCPU()

	// Correct: Returns 2 (respects container limit in Go 1.25+)
	n := runtime.GOMAXPROCS(0)

# Basic Usage

	// Half a conversion per CPU, at most 4 at once
	n := workers.ForConversions(4)

# Manual Override

Set CONVERSION_WORKERS to a positive integer to fix the pool size. The limit
passed by the caller still applies.

	CONVERSION_WORKERS=2 ./mp4-converter
*/
package workers
