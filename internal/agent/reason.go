package agent

import "errors"

var (
	ErrInterrupted  = errors.New("execution interrupted")
	ErrMaxSteps     = errors.New("max steps reached")
	ErrSnapshotFail = errors.New("snapshot error")
	ErrLLMFail      = errors.New("llm error")
	ErrNoModel      = errors.New("no language model configured")
)

// ExitReason is why a run stopped, as shown in the final report.
type ExitReason string

const (
	ReasonOperatorQuit ExitReason = "stopped by operator"
	ReasonMaxSteps     ExitReason = "max steps reached"
	ReasonInterrupted  ExitReason = "interrupted by user (Ctrl+C)"
	ReasonFatal        ExitReason = "fatal error"
)
