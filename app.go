package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/kwv/mosaic/mosaic"
)

const (
	defaultConfigFile  = "config.yaml"
	defaultInputFile   = "input.txt"
	defaultResultCache = ".mosaic-results.json"
)

// App encapsulates the application state and dependencies
type App struct {
	Config     *mosaic.Config
	Store      *mosaic.ResultStore
	MQTTClient *mosaic.MQTTClient
	Publisher  *mosaic.Publisher

	// Out receives the human readable reports
	Out io.Writer

	// CLI Flags (effectively dependencies)
	DataDir      string
	ConfigFile   string
	Input        string
	OutputFile   string
	RenderFormat string
	ResultCache  string
	HttpPort     int
	MqttMode     bool
	HttpMode     bool

	mu sync.Mutex
}

// NewApp creates a new App instance
func NewApp() *App {
	return &App{
		Store:      mosaic.NewResultStore(),
		Out:        os.Stdout,
		DataDir:    ".",
		ConfigFile: defaultConfigFile,
	}
}

// ApplyOptions applies CLI options to the App instance
func (a *App) ApplyOptions(opts AppOptions) {
	a.DataDir = opts.DataDir
	a.ConfigFile = opts.ConfigFile
	a.Input = opts.Input
	a.OutputFile = opts.OutputFile
	a.RenderFormat = opts.RenderFormat
	a.ResultCache = opts.ResultCache
	a.HttpPort = opts.HttpPort
	a.MqttMode = opts.MqttMode
	a.HttpMode = opts.HttpMode
}

// configPath resolves the default config file relative to data-dir
func (a *App) configPath() string {
	if a.DataDir != "" && a.DataDir != "." && a.ConfigFile == defaultConfigFile {
		return filepath.Join(a.DataDir, defaultConfigFile)
	}
	return a.ConfigFile
}

func (a *App) cachePath() string {
	if a.ResultCache != "" {
		return a.ResultCache
	}
	return filepath.Join(a.DataDir, defaultResultCache)
}

// loadConfig reads the config file once. Only an explicitly named config
// file is required; a missing default falls back to built-in settings.
func (a *App) loadConfig() (*mosaic.Config, error) {
	if a.Config != nil {
		return a.Config, nil
	}
	p := a.configPath()
	if p == "" {
		a.Config = &mosaic.Config{}
		return a.Config, nil
	}

	config, err := mosaic.LoadConfig(p)
	if err != nil {
		if _, statErr := os.Stat(p); errors.Is(statErr, fs.ErrNotExist) && a.ConfigFile == defaultConfigFile {
			log.Printf("No config at %s, using defaults", p)
			a.Config = &mosaic.Config{}
			return a.Config, nil
		}
		return nil, fmt.Errorf("failed to load config %s: %w", p, err)
	}
	log.Printf("Loaded config from %s", p)
	a.Config = config
	return config, nil
}

// resolveInput picks the puzzle source: the --input flag, then the config,
// then input.txt in the data directory.
func (a *App) resolveInput() string {
	if a.Input != "" {
		return a.Input
	}
	if a.Config != nil && a.Config.Input != "" {
		return a.Config.Input
	}
	return filepath.Join(a.DataDir, defaultInputFile)
}

// puzzleName derives a result name from a file path or URL
func puzzleName(input string) string {
	if i := strings.IndexAny(input, "?#"); i >= 0 && mosaic.IsRemoteInput(input) {
		input = input[:i]
	}
	base := path.Base(filepath.ToSlash(input))
	name := strings.TrimSuffix(base, path.Ext(base))
	if name == "" || name == "." || name == "/" {
		return "puzzle"
	}
	return name
}

// solveInput loads, solves and stores one puzzle
func (a *App) solveInput(ctx context.Context, input string) (*mosaic.Result, error) {
	motif, err := a.Config.GetMotif()
	if err != nil {
		return nil, fmt.Errorf("motif: %w", err)
	}
	tiles, err := mosaic.LoadTiles(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", input, err)
	}
	res, err := mosaic.Solve(tiles, motif)
	if err != nil {
		return nil, fmt.Errorf("solving %s: %w", input, err)
	}
	res.Name = puzzleName(input)
	a.Store.Put(res)
	return res, nil
}

// solve loads the config and solves the resolved input
func (a *App) solve(ctx context.Context) (*mosaic.Result, error) {
	if _, err := a.loadConfig(); err != nil {
		return nil, err
	}
	input := a.resolveInput()
	log.Printf("[SOLVE] Loading tiles from %s", input)
	return a.solveInput(ctx, input)
}

func printResult(w io.Writer, res *mosaic.Result) {
	fmt.Fprintf(w, "\nPuzzle: %s\n", res.Name)
	fmt.Fprintf(w, "  Tiles:          %d (%dx%d)\n", res.TileCount, res.Columns, res.Rows)
	fmt.Fprintf(w, "  Corner product: %d\n", res.Checksum)
	fmt.Fprintf(w, "  Motif:          %s x%d (orientation %s)\n", res.Motif, res.Occurrences, res.Orientation)
	fmt.Fprintf(w, "  Roughness:      %d\n", res.Roughness)
}

// RunSolve solves the configured puzzle and prints both answers
func (a *App) RunSolve() {
	res, err := a.solve(context.Background())
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	printResult(a.Out, res)
}

// writeMarkedPicture prints the oriented picture top row first, with motif
// pixels as 'O'.
func writeMarkedPicture(w io.Writer, sr *mosaic.SearchResult) error {
	var b strings.Builder
	pic := sr.Picture
	for y := pic.YMax; y >= 0; y-- {
		for x := 0; x <= pic.XMax; x++ {
			_, hit := sr.Matched[mosaic.Coord{X: x, Y: y}]
			switch {
			case hit:
				b.WriteByte('O')
			case pic.Pixel(x, y):
				b.WriteByte('#')
			default:
				b.WriteByte('.')
			}
		}
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// RunPrint solves the puzzle and dumps the marked picture
func (a *App) RunPrint() {
	res, err := a.solve(context.Background())
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	if err := writeMarkedPicture(a.Out, res.Search()); err != nil {
		log.Fatalf("Error writing picture: %v", err)
	}
	printResult(a.Out, res)
}

func writeFile(p string, write func(io.Writer) error) error {
	f, err := os.Create(p)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// render writes the raster picture and/or the vector layout and returns the
// files written.
func (a *App) render(res *mosaic.Result) ([]string, error) {
	rc := a.Config.Render
	format := a.RenderFormat
	if format == "" {
		format = rc.Format
	}
	if format == "" {
		format = "raster"
	}

	output := a.OutputFile
	if output == "" {
		output = res.Name + ".png"
	}
	base := strings.TrimSuffix(output, filepath.Ext(output))

	writeRaster := func(p string) error {
		return writeFile(p, func(w io.Writer) error { return mosaic.RenderResultPNG(w, res, rc) })
	}
	writeVector := func(p string) error {
		lr := mosaic.NewLayoutRenderer(res)
		if err := lr.ApplyConfig(rc); err != nil {
			return err
		}
		if filepath.Ext(p) == ".png" {
			return writeFile(p, lr.RenderToPNG)
		}
		return writeFile(p, lr.RenderToSVG)
	}

	var written []string
	switch format {
	case "raster":
		if err := writeRaster(output); err != nil {
			return written, fmt.Errorf("writing %s: %w", output, err)
		}
		written = append(written, output)
	case "vector":
		// A .png output gets the rasterized layout drawing; anything else is SVG.
		p := output
		if ext := filepath.Ext(p); ext != ".svg" && ext != ".png" {
			p = base + ".svg"
		}
		if err := writeVector(p); err != nil {
			return written, fmt.Errorf("writing %s: %w", p, err)
		}
		written = append(written, p)
	case "both":
		for _, job := range []struct {
			path  string
			write func(string) error
		}{
			{base + ".png", writeRaster},
			{base + ".svg", writeVector},
		} {
			if err := job.write(job.path); err != nil {
				return written, fmt.Errorf("writing %s: %w", job.path, err)
			}
			written = append(written, job.path)
		}
	default:
		return nil, fmt.Errorf("unknown render format %q (want raster, vector or both)", format)
	}
	return written, nil
}

// RunRender solves the puzzle and renders it to disk
func (a *App) RunRender() {
	res, err := a.solve(context.Background())
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	files, err := a.render(res)
	if err != nil {
		log.Fatalf("Error rendering: %v", err)
	}
	for _, f := range files {
		fmt.Fprintf(a.Out, "Saved %s\n", f)
	}
}

func (a *App) exportGeoJSON(res *mosaic.Result) (string, error) {
	output := a.OutputFile
	if output == "" {
		output = res.Name + ".geojson"
	}
	data, err := mosaic.LayoutGeoJSON(res)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(output, data, 0644); err != nil {
		return "", fmt.Errorf("writing %s: %w", output, err)
	}
	return output, nil
}

// RunGeoJSON solves the puzzle and exports its layout as GeoJSON
func (a *App) RunGeoJSON() {
	res, err := a.solve(context.Background())
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	output, err := a.exportGeoJSON(res)
	if err != nil {
		log.Fatalf("Error exporting GeoJSON: %v", err)
	}
	fmt.Fprintf(a.Out, "Saved %s\n", output)
}

type batchOutcome struct {
	File   string
	Result *mosaic.Result
	Err    error
}

// batch solves every *.txt puzzle in the data directory. Failures are
// reported per file and do not stop the other puzzles.
func (a *App) batch(ctx context.Context) ([]batchOutcome, error) {
	if _, err := a.loadConfig(); err != nil {
		return nil, err
	}
	files, err := filepath.Glob(filepath.Join(a.DataDir, "*.txt"))
	if err != nil {
		return nil, fmt.Errorf("finding puzzle files: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no puzzle files (*.txt) found in %s", a.DataDir)
	}

	outcomes := make([]batchOutcome, len(files))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, file := range files {
		g.Go(func() error {
			res, err := a.solveInput(ctx, file)
			outcomes[i] = batchOutcome{File: file, Result: res, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return outcomes, err
	}
	return outcomes, nil
}

// RunBatch solves all puzzles in the data directory concurrently
func (a *App) RunBatch() {
	outcomes, err := a.batch(context.Background())
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	failed := 0
	fmt.Fprintf(a.Out, "\n%-24s %20s %10s\n", "PUZZLE", "CORNER PRODUCT", "ROUGHNESS")
	for _, o := range outcomes {
		if o.Err != nil {
			failed++
			fmt.Fprintf(a.Out, "%-24s %s\n", filepath.Base(o.File), o.Err)
			continue
		}
		fmt.Fprintf(a.Out, "%-24s %20d %10d\n", o.Result.Name, o.Result.Checksum, o.Result.Roughness)
	}
	if failed > 0 {
		log.Fatalf("%d of %d puzzles failed", failed, len(outcomes))
	}
}

func (a *App) publisher() *mosaic.Publisher {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.Publisher
}

// handlePuzzle receives puzzles solved from the MQTT input topic
func (a *App) handlePuzzle(name string, res *mosaic.Result, err error) {
	pub := a.publisher()
	if err != nil {
		log.Printf("[MQTT] %s: %v", name, err)
		if pub != nil {
			if perr := pub.PublishError(name, err); perr != nil {
				log.Printf("[MQTT] Error publishing failure for %s: %v", name, perr)
			}
		}
		return
	}

	a.Store.Put(res)
	log.Printf("[MQTT] %s: %d tiles, corner product %d, roughness %d",
		name, res.TileCount, res.Checksum, res.Roughness)

	if pub != nil {
		if err := pub.PublishResult(res); err != nil {
			log.Printf("[MQTT] Error publishing result for %s: %v", name, err)
		}
	}
}

// RunService starts the combined MQTT and/or HTTP service
func (a *App) RunService() {
	fmt.Fprintln(a.Out, "Starting mosaic service...")

	config, err := a.loadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	cache := a.cachePath()
	a.Store = mosaic.NewResultStoreWithCache(cache)
	log.Printf("Result cache %s holds %d results", cache, a.Store.Len())

	// Solve the configured puzzle up front so the HTTP endpoints have
	// something to show.
	if a.Input != "" || config.Input != "" {
		if res, err := a.solveInput(context.Background(), a.resolveInput()); err != nil {
			log.Printf("Warning: initial puzzle: %v", err)
		} else {
			log.Printf("Solved %s: corner product %d, roughness %d", res.Name, res.Checksum, res.Roughness)
		}
	}

	if a.MqttMode {
		mqttClient, err := mosaic.InitMQTT(config, a.handlePuzzle)
		if err != nil {
			log.Fatalf("Failed to initialize MQTT: %v", err)
		}
		if mqttClient == nil {
			log.Fatal("MQTT broker not configured in config.yaml")
		}
		a.MQTTClient = mqttClient

		a.mu.Lock()
		a.Publisher = mosaic.NewPublisher(mqttClient.GetClient(), config.GetPublishPrefix())
		a.mu.Unlock()
		fmt.Fprintln(a.Out, "MQTT result publisher initialized")
	}

	port := a.HttpPort
	if port == 0 {
		port = config.GetHTTPPort()
	}
	if a.HttpMode {
		httpServer := newHTTPServer(a.Store, config)
		go func() {
			addr := fmt.Sprintf("0.0.0.0:%d", port)
			log.Printf("[HTTP] Starting server on %s", addr)
			if err := http.ListenAndServe(addr, httpServer); err != nil {
				log.Fatalf("[HTTP] Server error: %v", err)
			}
			log.Printf("[HTTP] Server stopped unexpectedly")
		}()
	}

	fmt.Fprintln(a.Out, "\nService Running")
	fmt.Fprintln(a.Out, "===============")

	if a.MqttMode {
		prefix := a.publisher().Prefix()
		fmt.Fprintln(a.Out, "\nMQTT:")
		if config.MQTT.InputTopic != "" {
			fmt.Fprintf(a.Out, "  Subscribed to: %s\n", config.MQTT.InputTopic)
		} else {
			fmt.Fprintln(a.Out, "  No input topic configured (publish only)")
		}
		fmt.Fprintf(a.Out, "  Publishing to: %s/{puzzle}\n", prefix)
		fmt.Fprintf(a.Out, "  Combined results: %s/results\n", prefix)
	}

	if a.HttpMode {
		fmt.Fprintf(a.Out, "\nHTTP endpoints (port %d):\n", port)
		fmt.Fprintln(a.Out, "  GET  /health          - Health check")
		fmt.Fprintln(a.Out, "  GET  /results         - Summaries of all solved puzzles")
		fmt.Fprintln(a.Out, "  GET  /result.json     - Full result (?name=, default latest)")
		fmt.Fprintln(a.Out, "  GET  /picture.png     - Stitched picture with motif highlighted")
		fmt.Fprintln(a.Out, "  GET  /layout.svg      - Tile layout")
		fmt.Fprintln(a.Out, "  GET  /layout.geojson  - Tile layout as GeoJSON")
		fmt.Fprintln(a.Out, "  POST /solve?name=     - Solve a puzzle from the request body")
	}

	fmt.Fprintln(a.Out, "\nPress Ctrl+C to stop")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan

	fmt.Fprintln(a.Out, "\nShutting down service...")
	if a.MQTTClient != nil {
		a.MQTTClient.Disconnect()
	}
	fmt.Fprintln(a.Out, "Service stopped")
}
