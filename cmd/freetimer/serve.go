package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/claude/freetimer/internal/app"
	"github.com/claude/freetimer/internal/config"
	"github.com/claude/freetimer/internal/mcp"
	"github.com/claude/freetimer/internal/server"
)

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the workout history over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signalContext()
			defer stop()

			a, err := loadApp(ctx, *configPath, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()
			log := a.Log
			log.Info("freetimer starting", "version", Version)

			addr := a.Config.Server.Addr()
			listener, err := net.Listen("tcp", addr)
			if err != nil {
				return err
			}
			if a.Config.Server.APIKey == "" {
				log.Warn("no api_key configured, delete routes are unauthenticated")
			}

			srv := server.New(a.Store, a.Stats, a.Config.Server.APIKey, a.Locale(), log)
			httpSrv := &http.Server{Handler: srv, ReadHeaderTimeout: 10 * time.Second}

			errCh := make(chan error, 1)
			go func() {
				log.Info("server starting", "addr", listener.Addr().String())
				errCh <- httpSrv.Serve(listener)
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-ctx.Done():
			}
			log.Info("shutting down")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := httpSrv.Shutdown(shutdownCtx); err != nil {
				log.Error("shutdown error", "error", err)
			}
			log.Info("server stopped")
			return nil
		},
	}
}

func newMCPCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Run the MCP server on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			// Stdout carries the protocol.
			log := app.NewLogger(cmd.ErrOrStderr(), cfg.Log)

			ctx, stop := signalContext()
			defer stop()

			a, err := app.New(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer a.Close()

			s := mcp.New(a.Store, a.Stats, a.Locale(), Version, log)
			log.Info("mcp server starting", "version", Version)
			return mcpserver.ServeStdio(s)
		},
	}
}
