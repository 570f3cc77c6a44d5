package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/desertwitch/atimes/internal/report"
	"github.com/desertwitch/atimes/internal/ui"
	"github.com/desertwitch/atimes/internal/walker"
)

// App ties the scan root and the established handlers together into one
// launchable application run.
type App struct {
	root      string
	recursive bool

	walkHandler   *walker.Handler
	reportHandler *report.Handler
	uiHandler     *ui.Handler
}

// NewApp returns a pointer to a new [App].
func NewApp(root string, recursive bool,
	walkHandler *walker.Handler,
	reportHandler *report.Handler,
	uiHandler *ui.Handler,
) *App {
	return &App{
		root:          root,
		recursive:     recursive,
		walkHandler:   walkHandler,
		reportHandler: reportHandler,
		uiHandler:     uiHandler,
	}
}

// Launch runs one full scan: traversal of the root, filtering to file
// entries, reporting of per-file access times and a closing summary. The
// first error of any stage aborts the run.
func (app *App) Launch(ctx context.Context) error {
	entries, err := app.walkHandler.Walk(app.root, app.recursive)
	if err != nil {
		return fmt.Errorf("(app) %w", err)
	}

	files := walker.Files(entries)

	if err := app.reportHandler.Emit(ctx, files); err != nil {
		return fmt.Errorf("(app) %w", err)
	}

	summary, err := app.reportHandler.Summary(app.root, entries)
	if err != nil {
		return fmt.Errorf("(app) %w", err)
	}
	slog.Info("Scan complete.", "summary", summary)

	return nil
}

// LaunchUI runs the command-line user interface until the user quits it.
func (app *App) LaunchUI() error {
	if err := app.uiHandler.Launch(); err != nil {
		return fmt.Errorf("(app-ui) %w", err)
	}

	return nil
}
