package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
)

// Version is set at build time via -ldflags
var Version = "dev"

// AppOptions holds the parsed command line
type AppOptions struct {
	ConfigFile   string
	Input        string
	DataDir      string
	OutputFile   string
	RenderFormat string
	ResultCache  string
	HttpPort     int

	PrintOnly  bool
	RenderOnly bool
	GeoJSON    bool
	Batch      bool
	MqttMode   bool
	HttpMode   bool
}

// Application is the set of modes the CLI can dispatch to
type Application interface {
	ApplyOptions(opts AppOptions)
	RunSolve()
	RunPrint()
	RunRender()
	RunGeoJSON()
	RunBatch()
	RunService()
}

func run(args []string, out io.Writer, app Application) error {
	fs := flag.NewFlagSet("mosaic", flag.ContinueOnError)
	fs.SetOutput(out)

	var opts AppOptions
	fs.StringVar(&opts.ConfigFile, "config", "config.yaml", "Path to configuration file")
	fs.StringVar(&opts.Input, "input", "", "Puzzle file or http(s) URL (default: config input, then <data-dir>/input.txt)")
	fs.StringVar(&opts.DataDir, "data-dir", ".", "Directory holding puzzle files for --batch and the result cache")
	fs.StringVar(&opts.OutputFile, "output", "", "Output file for --render and --geojson")
	fs.StringVar(&opts.RenderFormat, "format", "", "Render format: raster, vector, or both (default: config or raster)")
	fs.StringVar(&opts.ResultCache, "result-cache", "", "Path to result cache file (default <data-dir>/.mosaic-results.json)")
	fs.IntVar(&opts.HttpPort, "http-port", 0, "HTTP server port (default: config or 8080)")
	fs.BoolVar(&opts.PrintOnly, "print", false, "Print the stitched picture with motif pixels marked and exit")
	fs.BoolVar(&opts.RenderOnly, "render", false, "Render the solved picture and exit")
	fs.BoolVar(&opts.GeoJSON, "geojson", false, "Export the assembled layout as GeoJSON and exit")
	fs.BoolVar(&opts.Batch, "batch", false, "Solve every *.txt puzzle in --data-dir concurrently")
	fs.BoolVar(&opts.MqttMode, "mqtt", false, "Run MQTT service mode: solve puzzles from the input topic and publish results")
	fs.BoolVar(&opts.HttpMode, "http", false, "Enable HTTP server for results and renders")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if opts.Input == "" && fs.NArg() > 0 {
		opts.Input = fs.Arg(0)
	}

	fmt.Fprintf(out, "mosaic version: %s\n", Version)
	app.ApplyOptions(opts)

	switch {
	case opts.MqttMode || opts.HttpMode:
		fmt.Fprintln(out, "mosaic service starting...")
		app.RunService()
	case opts.Batch:
		app.RunBatch()
	case opts.PrintOnly:
		app.RunPrint()
	case opts.RenderOnly:
		app.RunRender()
	case opts.GeoJSON:
		app.RunGeoJSON()
	default:
		app.RunSolve()
	}
	return nil
}

func main() {
	if err := run(os.Args[1:], os.Stdout, NewApp()); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}
}
