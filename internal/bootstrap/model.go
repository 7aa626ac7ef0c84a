package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mengfanShi/MiniCPM-V/internal/conversation"
	"github.com/mengfanShi/MiniCPM-V/internal/health"
	"github.com/mengfanShi/MiniCPM-V/internal/model"
	"github.com/mengfanShi/MiniCPM-V/internal/ollama"
	"github.com/mengfanShi/MiniCPM-V/internal/runner"
	"go.uber.org/fx"
)

// Backend loads models and reports whether the serving process is reachable.
type Backend interface {
	model.Loader
	health.Backend
}

func ProvideBackend(cfg *Config, logger *slog.Logger) (Backend, error) {
	switch cfg.ModelBackend {
	case BackendRunner:
		logger.Info("using model runner", "url", cfg.RunnerURL)
		return runner.NewClient(runner.Config{
			URL:     cfg.RunnerURL,
			Timeout: cfg.InferenceTimeout,
		}), nil
	case BackendOllama:
		logger.Info("using ollama", "url", cfg.OllamaURL)
		driver, err := ollama.NewDriver(ollama.Config{
			URL:     cfg.OllamaURL,
			Timeout: cfg.InferenceTimeout,
		})
		if err != nil {
			return nil, err
		}
		return driver, nil
	default:
		return nil, fmt.Errorf("unsupported model backend %q", cfg.ModelBackend)
	}
}

func ProvideHealthBackend(b Backend) health.Backend {
	return b
}

func ProvideRegistry(lc fx.Lifecycle, cfg *Config, backend Backend, logger *slog.Logger) (*model.Registry, error) {
	if _, ok := cfg.ModelPaths[cfg.DefaultModel]; !ok {
		return nil, fmt.Errorf("default model %q has no configured path", cfg.DefaultModel)
	}

	registry := model.NewRegistry(cfg.ModelPaths, backend, logger.With("component", "registry"))
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return registry.Close()
		},
	})
	return registry, nil
}

// ProvideBuilder logs the resolved prompts so defaults and overrides are
// visible at startup.
func ProvideBuilder(cfg *Config, logger *slog.Logger) *conversation.Builder {
	b := conversation.NewBuilder(conversation.Prompts{
		Image:       cfg.ImagePrompt,
		VideoSystem: cfg.VideoSystemPrompt,
		Video:       cfg.VideoPrompt,
	})
	p := b.Prompts()
	logger.Info("conversation prompts",
		"image", p.Image,
		"video_system", p.VideoSystem,
		"video", p.Video,
	)
	return b
}

// The registry is constructed eagerly so its stop hook runs after the HTTP
// server has drained.
var ModelModule = fx.Options(
	fx.Provide(
		ProvideBackend,
		ProvideHealthBackend,
		ProvideRegistry,
		ProvideBuilder,
	),
	fx.Invoke(func(*model.Registry) {}),
)
