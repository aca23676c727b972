// Package jobs tracks the progress of in-flight conversions.
//
// A [Tracker] maps a job id to a percentage in [0, 100]. Entries are created
// when a conversion starts and removed when it ends; an unknown id reads as 0,
// which is indistinguishable from a finished job.
package jobs
