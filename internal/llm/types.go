package llm

import "context"

// Input is everything the model sees for one step.
type Input struct {
	Objective       string
	URL             string
	PreviousCommand string
	BrowserContent  string
}

// Client returns the model's next raw command line.
type Client interface {
	NextCommand(ctx context.Context, input Input) (string, error)
}
