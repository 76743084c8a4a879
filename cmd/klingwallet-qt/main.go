package main

import (
	"embed"
	"log"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
)

//go:embed all:frontend/dist
var assets embed.FS

func main() {
	app, err := NewApp(defaultDataDir())
	if err != nil {
		log.Fatal(err)
	}

	if err := wails.Run(&options.App{
		Title:  "Klingwallet",
		Width:  480,
		Height: 760,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		OnStartup:  app.startup,
		OnShutdown: app.shutdown,
		Bind: []interface{}{
			app,
			app.onboarding,
			app.network,
		},
	}); err != nil {
		log.Fatal(err)
	}
}
