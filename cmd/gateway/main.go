package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Carbonhell/SmartDisplay/external/awsclient"
	configloader "github.com/Carbonhell/SmartDisplay/external/config"
	discordimpl "github.com/Carbonhell/SmartDisplay/external/discord"
	"github.com/Carbonhell/SmartDisplay/external/gateway"
	registryimpl "github.com/Carbonhell/SmartDisplay/external/registry"
	repositoryimpl "github.com/Carbonhell/SmartDisplay/external/repository"
	"github.com/Carbonhell/SmartDisplay/internal/config"
	discordpkg "github.com/Carbonhell/SmartDisplay/internal/discord"
	"github.com/Carbonhell/SmartDisplay/internal/interaction"
	"github.com/samber/do/v2"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
)

func main() {
	slog.Info("startup: loading configuration")
	cfg := mustLoadConfig()
	initLogger(cfg)
	slog.Info("startup: configuration loaded", "env", cfg.Env, "event_store", cfg.EventStoreBackend)

	slog.Info("startup: building dependency graph")
	injector := setupDI(cfg)

	registerSlashCommands(cfg, injector)
	runServer(cfg, injector)
}

func mustLoadConfig() *config.Config {
	cfg, err := configloader.Load(config.RoleGateway)
	if err != nil {
		slog.Error("config validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

func initLogger(cfg *config.Config) {
	logLevel := slog.LevelInfo
	if cfg.IsDevelopment() {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))
}

func setupDI(cfg *config.Config) do.Injector {
	injector := do.New()

	do.ProvideValue(injector, cfg)
	awsclient.RegisterDI(injector)
	repositoryimpl.RegisterDI(injector)
	registryimpl.RegisterDI(injector)
	discordimpl.RegisterDI(injector)
	interaction.RegisterDI(injector)
	gateway.RegisterDI(injector)

	return injector
}

func registerSlashCommands(cfg *config.Config, injector do.Injector) {
	if !cfg.RegistersSlashCommands() {
		slog.Info("startup: DISCORD_BOT_TOKEN not set; skipping slash command registration")
		return
	}
	dc, err := do.Invoke[discordpkg.Client](injector)
	if err != nil {
		slog.Error("failed to resolve discord client", "error", err)
		return
	}
	if err := dc.UpsertGuildSlashCommands(cfg.DiscordGuildID, interaction.SlashCommandDefinitions()); err != nil {
		slog.Error("failed to upsert slash commands", "error", err, "guild_id", cfg.DiscordGuildID)
		return
	}
	slog.Info("slash commands registered", "guild_id", cfg.DiscordGuildID)
}

func runServer(cfg *config.Config, injector do.Injector) {
	srv, err := do.Invoke[*gateway.Server](injector)
	if err != nil {
		slog.Error("failed to resolve gateway server", "error", err)
		os.Exit(1)
	}

	httpServer := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	done := make(chan struct{})
	go func() {
		slog.Info("startup: interaction gateway listening", "addr", cfg.ListenAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server failed", "error", err)
		}
		close(done)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
		slog.Info("shutting down")
	case <-done:
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		slog.Error("http server shutdown failed", "error", err)
	}
}
