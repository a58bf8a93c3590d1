package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/ersonp/filmorate/internal/application/handlers"
	"github.com/ersonp/filmorate/internal/domain/services"
	"github.com/ersonp/filmorate/internal/infrastructure/config"
	"github.com/ersonp/filmorate/internal/infrastructure/logging"
	"github.com/ersonp/filmorate/internal/infrastructure/memory"
	"github.com/ersonp/filmorate/internal/infrastructure/metrics"
)

// Deps holds high-level dependencies for commands.
// Only handlers are exposed - stores and services are internal.
type Deps struct {
	Config       *config.Config
	Logger       *logrus.Logger
	Metrics      *metrics.Metrics
	Works        *handlers.WorkHandler
	Participants *handlers.ParticipantHandler
	Seed         *handlers.SeedHandler
}

// loadConfig reads the dotenv file and then the config named by the global
// flags, falling back to the working directory.
func loadConfig() (*config.Config, error) {
	if err := config.LoadDotEnv(globalEnvFile); err != nil {
		return nil, err
	}

	var (
		cfg *config.Config
		err error
	)
	if globalConfig != "" {
		cfg, err = config.LoadFile(globalConfig)
	} else {
		var cwd string
		cwd, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
		cfg, err = config.Load(cwd)
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// newDeps wires a fresh, empty catalog. Log output goes to out.
func newDeps(cfg *config.Config, out io.Writer) (*Deps, error) {
	logger, err := logging.New(cfg.Log, out)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	works := memory.NewWorkStore()
	participants := memory.NewParticipantStore()
	relationships := services.NewRelationshipService(participants, works)

	workHandler := handlers.NewWorkHandler(works, relationships, logger)
	participantHandler := handlers.NewParticipantHandler(participants, relationships, logger)

	m := metrics.New(
		func() int { return workHandler.Count(context.Background()) },
		func() int { return participantHandler.Count(context.Background()) },
	)

	return &Deps{
		Config:       cfg,
		Logger:       logger,
		Metrics:      m,
		Works:        workHandler,
		Participants: participantHandler,
		Seed:         handlers.NewSeedHandler(workHandler, participantHandler, logger),
	}, nil
}

// withDeps loads config and builds dependencies, then calls the provided function.
func withDeps(fn func(*Deps) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	deps, err := newDeps(cfg, os.Stderr)
	if err != nil {
		return err
	}
	return fn(deps)
}
