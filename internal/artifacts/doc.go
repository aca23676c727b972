// Package artifacts manages the temporary files that back a conversion job.
//
// Every path handed out by [Store.Allocate] or [Store.Persist] lives in a single
// scratch directory under a random UUID name and must eventually be passed to
// [Store.Release]. Release is idempotent and never fails the caller: deletion
// problems are logged and counted so they cannot mask a job's real outcome.
//
// [Store.Sweep] clears files orphaned by a previous process, mirroring how the
// transcode cache was cleared on demand.
package artifacts
