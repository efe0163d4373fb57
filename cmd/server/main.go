// Package main provides the entry point for the MindWeave API server
//
// @title MindWeave API
// @version 0.3.0
// @description Personal knowledge base with a similarity-driven note graph
// @host localhost:3002
// @BasePath /
// @schemes http https
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT access token (format: "Bearer <token>")
package main

import (
	"log/slog"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/mindweave-labs/mindweave/domain/autolink"
	"github.com/mindweave-labs/mindweave/domain/files"
	"github.com/mindweave-labs/mindweave/domain/graph"
	"github.com/mindweave-labs/mindweave/domain/health"
	"github.com/mindweave-labs/mindweave/domain/notes"
	"github.com/mindweave-labs/mindweave/domain/rag"
	"github.com/mindweave-labs/mindweave/domain/scheduler"
	"github.com/mindweave-labs/mindweave/domain/tagging"
	"github.com/mindweave-labs/mindweave/domain/users"
	"github.com/mindweave-labs/mindweave/internal/config"
	"github.com/mindweave-labs/mindweave/internal/database"
	"github.com/mindweave-labs/mindweave/internal/migrate"
	"github.com/mindweave-labs/mindweave/internal/server"
	"github.com/mindweave-labs/mindweave/internal/storage"
	"github.com/mindweave-labs/mindweave/internal/vector"
	"github.com/mindweave-labs/mindweave/pkg/auth"
	"github.com/mindweave-labs/mindweave/pkg/embeddings"
	"github.com/mindweave-labs/mindweave/pkg/llm"
	"github.com/mindweave-labs/mindweave/pkg/logger"
)

func main() {
	// Load .env files if present (for local development).
	// Load() won't overwrite existing vars, Overload() will.
	_ = godotenv.Load(".env")
	_ = godotenv.Overload(".env.local")

	fx.New(
		fx.WithLogger(func(log *slog.Logger) fxevent.Logger {
			return &fxevent.SlogLogger{Logger: log}
		}),

		// Infrastructure modules
		logger.Module,
		config.Module,
		database.Module,
		migrate.Module,
		server.Module,
		storage.Module,
		vector.Module,

		// Auth module
		auth.Module,

		// AI collaborators
		embeddings.Module,
		llm.Module,

		// Domain modules
		health.Module,
		users.Module,
		graph.Module,
		notes.Module,
		autolink.Module,
		tagging.Module,
		files.Module,
		rag.Module,

		// Scheduler module (cron-based maintenance tasks)
		scheduler.Module,
	).Run()
}
