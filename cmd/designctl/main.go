package main

import (
	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
)

type cli struct {
	EnvFile string `name:"env-file" default:".env" help:"Environment file loaded before flags are resolved."`

	Scaffold  scaffoldCmd  `cmd:"" help:"Add a component type to a catalog manifest."`
	Validate  validateCmd  `cmd:"" help:"Validate a canvas or workflow JSON document."`
	ExportPNG exportPNGCmd `cmd:"" name:"export-png" help:"Render a workflow JSON document to PNG."`
	Inspect   inspectCmd   `cmd:"" help:"Print a styled summary of a canvas or workflow document."`
	Serve     serveCmd     `cmd:"" help:"Start the designer HTTP server."`
}

func main() {
	loadEnv(envFileFromArgs())
	var app cli
	ctx := kong.Parse(&app,
		kong.Name("designctl"),
		kong.Description("Tooling for go-designer catalogs, canvas documents and workflow graphs."),
		kong.UsageOnError(),
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}

// loadEnv reads path when it exists. kong resolves env tags afterwards, so
// DESIGNER_* values from the file behave like exported variables.
func loadEnv(path string) {
	if path == "" {
		return
	}
	_ = godotenv.Load(path)
}
