package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/wailsapp/wails/v2/pkg/runtime"

	"termlens/internal/services"
)

// App struct
type App struct {
	ctx     context.Context
	history services.HistoryService
	dbClose func() error
}

// NewApp creates a new App application struct
func NewApp() *App {
	return &App{}
}

// startup is called when the app starts. The context is saved
// so we can call the runtime methods
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
}

// shutdown is called when the app is closing. Clean up resources here.
func (a *App) shutdown(ctx context.Context) {
	if a.dbClose != nil {
		if err := a.dbClose(); err != nil {
			runtime.LogError(ctx, fmt.Sprintf("failed to close database: %v", err))
		} else {
			runtime.LogInfo(ctx, "database closed")
		}
		a.dbClose = nil
	}
}

// ExportRecords snapshots the record store and writes it to a JSON file
// picked through a native save dialog. It returns the chosen path, or an
// empty string when the user cancelled.
func (a *App) ExportRecords() (string, error) {
	if a.history == nil {
		return "", fmt.Errorf("history service not available")
	}

	doc, err := a.history.Export()
	if err != nil {
		return "", err
	}

	path, err := runtime.SaveFileDialog(a.ctx, runtime.SaveDialogOptions{
		Title:           "Export Records",
		DefaultFilename: fmt.Sprintf("termlens-records-%s.json", time.Now().Format("2006-01-02")),
		Filters: []runtime.FileFilter{
			{DisplayName: "JSON (*.json)", Pattern: "*.json"},
		},
	})
	if err != nil {
		return "", err
	}
	if path == "" {
		return "", nil
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		runtime.LogError(a.ctx, fmt.Sprintf("failed to write export: %v", err))
		return "", err
	}
	return path, nil
}
