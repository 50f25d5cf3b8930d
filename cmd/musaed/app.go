package main

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/musaed-ai/musaed/pkg/assistant"
	"github.com/musaed-ai/musaed/pkg/cache"
	"github.com/musaed-ai/musaed/pkg/classifier"
	"github.com/musaed-ai/musaed/pkg/codeassist"
	"github.com/musaed-ai/musaed/pkg/config"
	"github.com/musaed-ai/musaed/pkg/history"
	"github.com/musaed-ai/musaed/pkg/knowledge"
	"github.com/musaed-ai/musaed/pkg/logging"
)

const defaultConfigPath = "musaed.yaml"

// app bundles the components every command builds from one config.
type app struct {
	cfg       *config.Config
	log       zerolog.Logger
	cache     *cache.Cache
	knowledge *knowledge.Base
	assistant *assistant.Assistant
	code      *codeassist.Assistant
	history   *history.Logger
}

// loadConfig reads path, falling back to defaults only when the default
// file is absent.
func loadConfig(path string) (*config.Config, error) {
	if path == defaultConfigPath {
		return config.LoadOrDefault(path)
	}
	return config.Load(path)
}

// newApp wires the assistant from the config at path. logOut overrides the
// configured log output when non-nil.
func newApp(path string, logOut io.Writer) (*app, error) {
	cfg, err := loadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log, err := logging.New(cfg.Log, logOut)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	c := cache.New(cfg.Cache.MaxEntries, cfg.Cache.TTL)
	kb := knowledge.Default(cfg.Knowledge.Entries...)
	a := &app{
		cfg:       cfg,
		log:       log,
		cache:     c,
		knowledge: kb,
		assistant: assistant.New(c, kb, classifier.New(log), assistant.WithLogger(log)),
		code:      codeassist.New(cfg.Code.Delay, log),
	}

	if cfg.History.Enabled {
		a.history, err = history.New(cfg.History, log)
		if err != nil {
			return nil, fmt.Errorf("init history: %w", err)
		}
	}

	log.Debug().
		Int("knowledge_entries", kb.Len()).
		Int("cache_max_entries", cfg.Cache.MaxEntries).
		Bool("history", cfg.History.Enabled).
		Msg("assistant ready")
	return a, nil
}

func (a *app) Close() {
	if a.history != nil {
		_ = a.history.Close()
	}
}
