package main

import (
	"errors"
	"io/fs"

	verrors "github.com/vango-dev/vform/internal/errors"
	"github.com/vango-dev/vform/internal/scenario"
	"github.com/vango-dev/vform/pkg/form"
)

// loadScenario reads a scenario file and maps failures to coded errors.
func loadScenario(path string) (*scenario.Scenario, error) {
	sc, err := scenario.LoadFile(path)
	switch {
	case err == nil:
		return sc, nil
	case errors.Is(err, fs.ErrNotExist):
		return nil, verrors.New("V010").
			WithDetail("No scenario at " + path).
			Wrap(err)
	case errors.Is(err, scenario.ErrInvalidScenario):
		return nil, verrors.New("V012").
			WithLocation(path, 0, 0).
			Wrap(err)
	default:
		return nil, verrors.New("V011").
			WithLocationFromYAML(path, err).
			Wrap(err)
	}
}

// formConfig compiles sc and attaches the CLI's logger.
func (g *globals) formConfig(sc *scenario.Scenario) form.Config {
	cfg := sc.Compile()
	cfg.Logger = g.logger
	return cfg
}
