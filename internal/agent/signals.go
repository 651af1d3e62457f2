package agent

import (
	"context"
	"os"
	"os/signal"
)

// SignalController turns Ctrl+C into context cancellation.
type SignalController struct {
	ctx  context.Context
	stop context.CancelFunc
}

func NewSignalController(parent context.Context) *SignalController {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt)
	return &SignalController{ctx: ctx, stop: stop}
}

func (s *SignalController) Context() context.Context {
	return s.ctx
}

func (s *SignalController) Interrupted() bool {
	select {
	case <-s.ctx.Done():
		return true
	default:
		return false
	}
}

func (s *SignalController) Close() {
	s.stop()
}
