// Command surveykit-server serves the survey submission endpoint for a
// single schema document, persisting to Google Sheets when credentials are
// configured and falling back to preview responses when they are not.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goliatone/go-surveykit/internal/logging"
	"github.com/goliatone/go-surveykit/pkg/flatten"
	"github.com/goliatone/go-surveykit/pkg/httpapi"
	"github.com/goliatone/go-surveykit/pkg/model"
	"github.com/goliatone/go-surveykit/pkg/orchestrator"
	"github.com/goliatone/go-surveykit/pkg/tabular"
	"github.com/goliatone/go-surveykit/pkg/tabular/sheets"
)

func main() {
	var (
		addrFlag      = flag.String("addr", ":8383", "HTTP listen address")
		schemaFlag    = flag.String("schema", "survey.yaml", "Survey schema document (JSON or YAML)")
		logJSONFlag   = flag.String("log-json", "", "Optional JSON log file path")
		debugFlag     = flag.Bool("debug", false, "Enable debug logging")
		shutdownGrace = flag.Duration("grace", 5*time.Second, "Shutdown grace period")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *debugFlag {
		level = slog.LevelDebug
	}
	logger, err := logging.New(level, *logJSONFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	schema, err := model.LoadFile(*schemaFlag)
	if err != nil {
		logger.Error("load schema", "error", err)
		os.Exit(1)
	}
	logger.Info("schema loaded", "survey", schema.ID, "sections", len(schema.Sections))

	options := []orchestrator.Option{orchestrator.WithLogger(logger)}
	cfg := sheets.ConfigFromEnv()
	if cfg.Configured() {
		store, err := sheets.New(context.Background(), cfg)
		if err != nil {
			logger.Error("sheets store", "error", err)
			os.Exit(1)
		}
		engine, err := tabular.New(store,
			tabular.WithPriorityOrder(priorityColumns(schema)),
			tabular.WithLogger(logger),
		)
		if err != nil {
			logger.Error("sync engine", "error", err)
			os.Exit(1)
		}
		options = append(options, orchestrator.WithSyncEngine(engine))
		logger.Info("tabular store configured", "sheet", cfg.SheetName)
	} else {
		logger.Warn("tabular store not configured; submissions return previews")
	}

	orch := orchestrator.New(schema, options...)
	handler := httpapi.New(schema, orch, httpapi.WithLogger(logger))

	server := &http.Server{
		Addr:              *addrFlag,
		Handler:           handler.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", *addrFlag)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		logger.Error("server", "error", err)
		os.Exit(1)
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), *shutdownGrace)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown", "error", err)
		os.Exit(1)
	}
}

// priorityColumns seeds first-submission header order: the fixed metadata
// columns, then the schema's preferred order.
func priorityColumns(schema model.Schema) []string {
	priority := []string{
		flatten.ColumnSubmissionDate,
		flatten.ColumnSubmissionTime,
		flatten.ColumnSubmissionID,
	}
	return append(priority, schema.ColumnOrder...)
}
