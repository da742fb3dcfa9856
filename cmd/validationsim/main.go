// Command validationsim serves the customer validation simulation API.
package main

import (
	"fmt"
	"os"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/spf13/cobra"

	"github.com/probelab/validationsim/collaborator/anthropic"
	"github.com/probelab/validationsim/collaborator/openai"
	"github.com/probelab/validationsim/config"
	"github.com/probelab/validationsim/core"
	"github.com/probelab/validationsim/logging"
	"github.com/probelab/validationsim/persona"
	"github.com/probelab/validationsim/runner"
	"github.com/probelab/validationsim/server"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "validationsim",
		Short:         "Simulated customer validation interviews",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Serve the validation simulation HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			return runServe(cfg)
		},
	}
	root.AddCommand(serve)
	return root
}

func runServe(cfg *config.Config) error {
	logger := logging.New(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat, os.Stdout)

	collab, err := buildCollaborators(cfg)
	if err != nil {
		return err
	}

	scheme := core.TodoScheme
	if cfg.Scheme == "hypothesis" {
		scheme = core.HypothesisScheme
	}

	var catalog *persona.Catalog
	if cfg.PersonaFile != "" {
		catalog, err = persona.Load(cfg.PersonaFile)
		if err != nil {
			return err
		}
		logger.Info("persona catalog loaded", "file", cfg.PersonaFile, "personas", len(catalog.All()))
	}

	r, err := runner.New(collab, func(o *runner.Options) {
		o.Scheme = scheme
		o.Logger = logger
		o.MaxConcurrentRuns = cfg.MaxConcurrentRuns
	})
	if err != nil {
		return err
	}

	srv := server.New(r, func(o *server.Options) {
		o.Logger = logger
		o.Catalog = catalog
		o.CORSAllowOrigins = cfg.CORSAllowOrigins
	})

	logger.Info("listening", "addr", cfg.ListenAddr, "provider", cfg.Provider, "scheme", scheme.Name)
	return srv.Run(cfg.ListenAddr)
}

func buildCollaborators(cfg *config.Config) (core.Collaborators, error) {
	switch cfg.Provider {
	case "openai":
		c := openai.New(func(o *openai.Options) {
			if cfg.Model != "" {
				o.Model = cfg.Model
			}
		})
		return core.Collaborators{Planner: c, Interrogator: c, Responder: c, Synthesizer: c}, nil
	case "anthropic":
		c := anthropic.New(func(o *anthropic.Options) {
			if cfg.Model != "" {
				o.Model = anthropicsdk.Model(cfg.Model)
			}
		})
		return core.Collaborators{Planner: c, Interrogator: c, Responder: c, Synthesizer: c}, nil
	default:
		return core.Collaborators{}, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}
