package main

import (
	"embed"
	"os"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"

	neptinoApp "github.com/ParticlesofMind/neptino-sub001/internal/app"
)

//go:embed all:frontend/dist
var assets embed.FS

func main() {
	// `neptino -mcp` runs the headless MCP server instead of the GUI.
	for _, arg := range os.Args[1:] {
		if arg == "-mcp" || arg == "--mcp" {
			neptinoApp.ServeMCP()
			return
		}
	}

	app := neptinoApp.New()

	err := wails.Run(&options.App{
		Title:     "Neptino",
		Width:     1440,
		Height:    900,
		MinWidth:  900,
		MinHeight: 700,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		BackgroundColour: &options.RGBA{R: 248, G: 249, B: 250, A: 1},
		OnStartup:        app.Startup,
		OnShutdown:       app.Shutdown,
		Bind: []interface{}{
			app,
		},
	})

	if err != nil {
		println("Error:", err.Error())
	}
}
