package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nbenliogludev/go-browser-crawler/internal/agent"
	"github.com/nbenliogludev/go-browser-crawler/internal/config"
	"github.com/nbenliogludev/go-browser-crawler/internal/llm"
)

type RunCmd struct {
	Objective string        `short:"o" help:"What the agent should accomplish. Asked for on stdin when empty."`
	URL       string        `help:"Start URL." placeholder:"URL"`
	MaxSteps  int           `help:"Stop after this many steps."`
	Delay     time.Duration `help:"Pause between steps, e.g. 3s."`
	Yes       bool          `short:"y" help:"Run model commands without asking for confirmation."`
}

func (r *RunCmd) Run(g *Globals) error {
	s, err := openSession(g, r.apply)
	if err != nil {
		return err
	}
	defer s.Close()

	objective := strings.TrimSpace(r.Objective)
	if objective == "" {
		line, err := s.console.ReadLine(s.ctx, "Describe the objective for the agent:\n> ")
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		objective = line
	}
	if objective == "" {
		return errors.New("empty objective, nothing to do")
	}

	m := s.cfg.Model
	client, err := llm.NewOpenAIClient(llm.Config{
		APIKey:            m.APIKey,
		BaseURL:           m.BaseURL,
		Model:             m.Name,
		Temperature:       m.Temperature,
		MaxTokens:         m.MaxTokens,
		MaxContentChars:   m.MaxContentChars,
		RequestsPerMinute: m.RequestsPerMinute,
		MaxRetries:        m.MaxRetries,
		RetryBackoff:      m.RetryBackoff,
	})
	if err != nil {
		return fmt.Errorf("creating OpenAI client: %w", err)
	}

	a := agent.NewAgent(s.page, client, s.agentOptions())
	runner := agent.NewRunner(a, agent.RunOptions{
		Objective:   objective,
		StartURL:    s.cfg.StartURL,
		MaxSteps:    s.cfg.MaxSteps,
		StepDelay:   s.cfg.StepDelay,
		Confirm:     s.cfg.ConfirmCommands,
		RepeatLimit: s.cfg.RepeatLimit,
	})

	s.log.Info().Str("objective", objective).Str("model", m.Name).Msg("starting agent")
	err = runner.Run(s.ctx)
	switch {
	case err == nil:
		s.log.Info().Msg("agent finished")
		return nil
	case errors.Is(err, agent.ErrMaxSteps), errors.Is(err, agent.ErrInterrupted):
		s.log.Warn().Err(err).Msg("agent stopped")
		return nil
	default:
		return err
	}
}

func (r *RunCmd) apply(cfg *config.Config) {
	if r.URL != "" {
		cfg.StartURL = r.URL
	}
	if r.MaxSteps > 0 {
		cfg.MaxSteps = r.MaxSteps
	}
	if r.Delay > 0 {
		cfg.StepDelay = r.Delay
	}
	if r.Yes {
		cfg.ConfirmCommands = false
	}
}
