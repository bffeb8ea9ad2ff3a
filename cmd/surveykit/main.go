// Command surveykit collects one survey response interactively in the
// terminal and submits it through the same pipeline the server uses.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/goliatone/go-surveykit/internal/logging"
	"github.com/goliatone/go-surveykit/pkg/flatten"
	"github.com/goliatone/go-surveykit/pkg/model"
	"github.com/goliatone/go-surveykit/pkg/orchestrator"
	"github.com/goliatone/go-surveykit/pkg/tabular"
	"github.com/goliatone/go-surveykit/pkg/tabular/sheets"
	"github.com/goliatone/go-surveykit/pkg/tui"
)

func main() {
	var (
		schemaFlag  = flag.String("schema", "survey.yaml", "Survey schema document (JSON or YAML)")
		previewFlag = flag.Bool("preview", false, "Skip persistence and print the flattened record")
	)
	flag.Parse()

	logger, err := logging.New(slog.LevelWarn, "")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	schema, err := model.LoadFile(*schemaFlag)
	if err != nil {
		logger.Error("load schema", "error", err)
		os.Exit(1)
	}

	options := []orchestrator.Option{orchestrator.WithLogger(logger)}
	if !*previewFlag {
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
		}
	}

	runner := tui.NewRunner(schema, orchestrator.New(schema, options...))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Hour)
	defer cancel()

	if _, err := runner.Run(ctx); err != nil {
		if errors.Is(err, tui.ErrAborted) {
			fmt.Fprintln(os.Stderr, "aborted")
			os.Exit(130)
		}
		logger.Error("run survey", "error", err)
		os.Exit(1)
	}
}

func priorityColumns(schema model.Schema) []string {
	priority := []string{
		flatten.ColumnSubmissionDate,
		flatten.ColumnSubmissionTime,
		flatten.ColumnSubmissionID,
	}
	return append(priority, schema.ColumnOrder...)
}
