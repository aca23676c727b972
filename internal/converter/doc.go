// Package converter drives a single upload through conversion to delivery.
//
// [Orchestrator.Convert] walks the job state machine:
//
//	Received -> Validated -> Converting -> Completed | Failed
//
// The uploaded bytes are persisted as an artifact, a job is registered with
// the progress tracker under the artifact's UUID, and the transcoding engine
// runs with its progress forwarded to the tracker. On failure every artifact
// and the tracker entry are released before Convert returns. On success the
// caller owns the returned [Result] and must Close it after delivering the
// output; Close releases both artifacts and removes the tracker entry.
package converter
