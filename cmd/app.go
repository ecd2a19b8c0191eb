package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	decisionx "github.com/tanpawarit/memagent/agent/agents/decision"
	executorx "github.com/tanpawarit/memagent/agent/agents/executor"
	contractx "github.com/tanpawarit/memagent/agent/contract"
	llmx "github.com/tanpawarit/memagent/agent/llm"
	statex "github.com/tanpawarit/memagent/agent/state"
	toolx "github.com/tanpawarit/memagent/agent/tool"
	configx "github.com/tanpawarit/memagent/pkg/config"
	tesseractx "github.com/tanpawarit/memagent/pkg/tesseract"
)

type AppConfig struct {
	statex.StoreConfig

	Mode         string        `envconfig:"MODE" default:"planning"`
	MaxSteps     int           `envconfig:"MAX_STEPS" split_words:"true" default:"8"`
	EnableOCR    bool          `envconfig:"ENABLE_OCR" split_words:"true" default:"true"`
	OCRTimeout   time.Duration `envconfig:"OCR_TIMEOUT" split_words:"true" default:"30s"`
	TimeLocation string        `envconfig:"TIME_LOCATION" split_words:"true" default:"Local"`
}

type app struct {
	cfg      *AppConfig
	store    statex.Store
	executor *executorx.Executor
}

func loadAppConfig() (*AppConfig, error) {
	cfg, err := configx.New[AppConfig]("AGENT")
	if err != nil {
		return nil, err
	}
	if m := strings.TrimSpace(modeFlag); m != "" {
		cfg.Mode = m
	}
	return cfg, nil
}

func openStore(ctx context.Context, cfg *AppConfig) (statex.Store, error) {
	pgCfg, err := configx.New[statex.PostgresConfig]("PG")
	if err != nil {
		return nil, err
	}
	store, err := statex.OpenStore(ctx, cfg.StoreConfig, *pgCfg)
	if err != nil {
		return nil, fmt.Errorf("open memory store: %w", err)
	}
	return store, nil
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := loadAppConfig()
	if err != nil {
		return nil, err
	}
	mode, err := executorx.ParseMode(cfg.Mode)
	if err != nil {
		return nil, err
	}

	llmCfg, err := configx.New[llmx.Config]("LLM")
	if err != nil {
		return nil, err
	}

	tools, err := newToolset(cfg)
	if err != nil {
		return nil, err
	}

	registry, err := decisionx.NewRegistry(ctx, *llmCfg, tools.Roster())
	if err != nil {
		return nil, err
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	exec, err := executorx.New(store, registry, tools, executorx.Config{
		Mode:     mode,
		MaxSteps: cfg.MaxSteps,
	})
	if err != nil {
		closeStore(store)
		return nil, err
	}

	log.Info().
		Str("mode", string(mode)).
		Str("backend", cfg.MemoryBackend).
		Str("model", llmCfg.Model).
		Bool("ocr", cfg.EnableOCR).
		Msg("agent ready")

	return &app{cfg: cfg, store: store, executor: exec}, nil
}

func newToolset(cfg *AppConfig) (*toolx.Toolset, error) {
	loc, err := time.LoadLocation(strings.TrimSpace(cfg.TimeLocation))
	if err != nil {
		return nil, fmt.Errorf("%w: time location %q: %v", contractx.ErrValidation, cfg.TimeLocation, err)
	}

	opts := []toolx.Option{toolx.WithLocation(loc)}
	if cfg.EnableOCR {
		ocrCfg, err := configx.New[tesseractx.Config]("OCR")
		if err != nil {
			return nil, err
		}
		opts = append(opts, toolx.WithOCR(tesseractx.New(*ocrCfg), cfg.OCRTimeout))
	}
	return toolx.NewToolset(opts...), nil
}

func (a *app) Close() {
	closeStore(a.store)
}

func closeStore(store statex.Store) {
	if c, ok := store.(statex.Closer); ok {
		if err := c.Close(); err != nil {
			log.Warn().Err(err).Msg("close memory store")
		}
	}
}
