package main

import (
	"github.com/nbenliogludev/go-browser-crawler/internal/agent"
	"github.com/nbenliogludev/go-browser-crawler/internal/config"
)

type ManualCmd struct {
	URL string `help:"Start URL." placeholder:"URL"`
}

func (m *ManualCmd) Run(g *Globals) error {
	s, err := openSession(g, m.apply)
	if err != nil {
		return err
	}
	defer s.Close()

	a := agent.NewAgent(s.page, nil, s.agentOptions())
	return a.Manual(s.ctx, s.cfg.StartURL, s.cfg.StepDelay)
}

func (m *ManualCmd) apply(cfg *config.Config) {
	switch {
	case m.URL != "":
		cfg.StartURL = m.URL
	case cfg.StartURL == config.DefaultStartURL:
		cfg.StartURL = config.DefaultManualURL
	}
}
