package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/waygateai/waygate/internal/agent"
	"github.com/waygateai/waygate/internal/channel"
	"github.com/waygateai/waygate/internal/channel/adapters/whatsapp"
	"github.com/waygateai/waygate/internal/channel/inbound"
	"github.com/waygateai/waygate/internal/config"
	"github.com/waygateai/waygate/internal/handlers"
	"github.com/waygateai/waygate/internal/logger"
	"github.com/waygateai/waygate/internal/media"
	"github.com/waygateai/waygate/internal/server"
)

func runServe() {
	fx.New(
		fx.Provide(
			provideConfig,
			provideLogger,
			provideMediaFetcher,
			provideAgentClient,
			provideWhatsAppAdapter,
			provideChannelRegistry,
			provideProcessor,
			provideServerHandler(provideWebhookHandler),
			provideServerHandler(handlers.NewStatusHandler),
			provideServer,
		),
		fx.Invoke(
			startServer,
		),
		fx.WithLogger(func(logger *slog.Logger) fxevent.Logger {
			return &fxevent.SlogLogger{Logger: logger.With(slog.String("component", "fx"))}
		}),
	).Run()
}

func provideServerHandler(fn any) any {
	return fx.Annotate(
		fn,
		fx.As(new(server.Handler)),
		fx.ResultTags(`group:"server_handlers"`),
	)
}

func provideConfig() (config.Config, error) {
	cfgPath := configPath
	if cfgPath == "" {
		cfgPath = os.Getenv("CONFIG_PATH")
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func provideLogger(cfg config.Config) *slog.Logger {
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	return logger.L
}

func provideMediaFetcher(log *slog.Logger, cfg config.Config) *media.Fetcher {
	timeout := time.Duration(cfg.Media.TimeoutSecs) * time.Second
	return media.NewFetcher(log, cfg.Twilio.AccountSID, cfg.Twilio.AuthToken, timeout, cfg.Media.MaxBytes)
}

func provideAgentClient(log *slog.Logger, cfg config.Config) (*agent.Client, error) {
	graphConfig, err := cfg.Runtime.GraphConfig()
	if err != nil {
		return nil, err
	}
	streamTimeout := time.Duration(cfg.Runtime.StreamTimeoutSecs) * time.Second
	return agent.NewClient(log, cfg.Runtime.BaseURL, cfg.Runtime.AssistantID, graphConfig, streamTimeout), nil
}

func provideWhatsAppAdapter(log *slog.Logger, cfg config.Config) *whatsapp.Adapter {
	return whatsapp.NewAdapter(log, cfg.Twilio.AuthToken)
}

func provideChannelRegistry(adapter *whatsapp.Adapter) *channel.Registry {
	registry := channel.NewRegistry()
	registry.MustRegister(adapter)
	return registry
}

func provideProcessor(log *slog.Logger, client *agent.Client, fetcher *media.Fetcher) *inbound.Processor {
	return inbound.NewProcessor(log, client, fetcher)
}

func provideWebhookHandler(log *slog.Logger, adapter *whatsapp.Adapter, processor *inbound.Processor, cfg config.Config) *whatsapp.WebhookHandler {
	return whatsapp.NewWebhookHandler(log, adapter, processor, cfg.Twilio.WebhookPath)
}

type serverParams struct {
	fx.In
	Config         config.Config
	ServerHandlers []server.Handler `group:"server_handlers"`
}

func provideServer(p serverParams) *server.Server {
	return server.NewServer(p.Config.Server.Addr, p.ServerHandlers)
}

func startServer(lc fx.Lifecycle, log *slog.Logger, srv *server.Server, cfg config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("server stopped", slog.Any("error", err))
				}
			}()
			log.Info("gateway listening",
				slog.String("addr", cfg.Server.Addr),
				slog.String("webhook_path", cfg.Twilio.WebhookPath),
			)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}
