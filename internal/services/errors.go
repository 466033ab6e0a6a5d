package services

import "fmt"

// PipelineErrorCode identifies which stage of the quiz generation pipeline
// rejected or failed a request.
type PipelineErrorCode string

const (
	CodeInvalidURL        PipelineErrorCode = "invalid_url"
	CodeNoTranscript      PipelineErrorCode = "no_transcript"
	CodeGenerationFailed  PipelineErrorCode = "generation_failed"
	CodeInvalidDraft      PipelineErrorCode = "invalid_draft"
	CodePersistenceFailed PipelineErrorCode = "persistence_failed"
)

// PipelineError carries a stable code alongside a user-presentable message.
// The wrapped error, if any, is for logs only and must not reach clients.
type PipelineError struct {
	Code    PipelineErrorCode
	Message string
	Err     error
}

func (e *PipelineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// ClientFault reports whether the failure is attributable to the request
// (bad URL, unusable video, unusable model output) rather than the server.
func (e *PipelineError) ClientFault() bool {
	return e.Code != CodePersistenceFailed
}

func newPipelineError(code PipelineErrorCode, message string, err error) *PipelineError {
	return &PipelineError{Code: code, Message: message, Err: err}
}
