package transcoder

import "fmt"

// Operations reported in TranscodeError.Op.
const (
	OpProbe    = "probe"
	OpAllocate = "allocate"
	OpStart    = "start"
	OpRun      = "run"
	OpVerify   = "verify"
)

// TranscodeError reports a failed conversion together with the engine's
// diagnostic output. The diagnostic is meant for server logs only.
type TranscodeError struct {
	Op      string
	Input   string
	Message string
	Err     error
}

func (e *TranscodeError) Error() string {
	msg := fmt.Sprintf("transcode %s failed for %s", e.Op, e.Input)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

func (e *TranscodeError) Unwrap() error {
	return e.Err
}
