package main

import (
	"context"
	"embed"
	"fmt"
	"os"
	"strings"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"github.com/wailsapp/wails/v2/pkg/options/linux"
	"gorm.io/gorm/logger"

	"termlens/internal/database"
	"termlens/internal/events"
	"termlens/internal/llm/client"
	"termlens/internal/models"
	"termlens/internal/services"
	"termlens/internal/utils"
)

//go:embed all:frontend/dist
var assets embed.FS

func main() {

	// .env is a dev convenience for seeding first-run API settings.
	_ = utils.LoadEnv()

	app := NewApp()

	db, err := database.Init(database.Config{
		LogLevel: logger.Warn,
	})
	if err != nil {
		fmt.Println("Error opening database:", err)
		return
	}

	if sqlDB, err := db.DB(); err == nil {
		app.dbClose = sqlDB.Close
	}

	//Create each service
	keyringService := services.NewKeyringService()
	chatClient := client.New()
	svc := services.NewDbServices(db, keyringService, chatClient)
	app.history = svc.History

	// Create application with options
	err = wails.Run(&options.App{
		Title:  "Termlens",
		Width:  1024,
		Height: 768,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		Linux: &linux.Options{
			WindowIsTranslucent: false,
			WebviewGpuPolicy:    linux.WebviewGpuPolicyAlways,
			ProgramName:         "Termlens",
		},
		BackgroundColour: &options.RGBA{R: 27, G: 38, B: 54, A: 1},
		OnStartup: func(ctx context.Context) {
			app.startup(ctx)
			events.EnableRuntimeEmitter()
			svc.Settings.Startup(ctx)
			svc.History.Startup(ctx)
			svc.Lookups.Startup(ctx)

			if err := seedSettingsFromEnv(svc.Settings); err != nil {
				fmt.Println("Error seeding settings from env:", err)
			}
		},
		OnShutdown: app.shutdown,
		Bind: []interface{}{
			app,
			svc.Settings,
			svc.History,
			svc.Lookups,
			keyringService,
		},
	})

	if err != nil {
		println("Error:", err.Error())
	}
}

// seedSettingsFromEnv fills in first-run settings from TERMLENS_* variables
// so developers don't have to click through the settings form. Existing
// configuration always wins.
func seedSettingsFromEnv(settings services.SettingsService) error {
	current, err := settings.Get()
	if err != nil {
		return err
	}
	if strings.TrimSpace(current.QueryAPIURL) != "" {
		return nil
	}

	url := strings.TrimSpace(os.Getenv("TERMLENS_QUERY_API_URL"))
	key := strings.TrimSpace(os.Getenv("TERMLENS_QUERY_API_KEY"))
	model := strings.TrimSpace(os.Getenv("TERMLENS_QUERY_MODEL"))
	if url == "" || key == "" || model == "" {
		return nil
	}

	_, err = settings.Save(&models.LookupSettings{
		QueryAPIURL: url,
		QueryAPIKey: key,
		QueryModel:  model,
	})
	return err
}
