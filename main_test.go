package main

import (
	"bytes"
	"strings"
	"testing"
)

type mockApp struct {
	opts   AppOptions
	called map[string]bool
}

func newMockApp() *mockApp {
	return &mockApp{
		called: make(map[string]bool),
	}
}

func (m *mockApp) ApplyOptions(opts AppOptions) { m.opts = opts }
func (m *mockApp) RunSolve()                    { m.called["RunSolve"] = true }
func (m *mockApp) RunPrint()                    { m.called["RunPrint"] = true }
func (m *mockApp) RunRender()                   { m.called["RunRender"] = true }
func (m *mockApp) RunGeoJSON()                  { m.called["RunGeoJSON"] = true }
func (m *mockApp) RunBatch()                    { m.called["RunBatch"] = true }
func (m *mockApp) RunService()                  { m.called["RunService"] = true }

func TestRun_Flags(t *testing.T) {
	tests := []struct {
		name           string
		args           []string
		expectedCalled string
		verifyOpts     func(*testing.T, AppOptions)
	}{
		{
			name:           "Solve",
			args:           []string{"--input", "day20.txt"},
			expectedCalled: "RunSolve",
			verifyOpts: func(t *testing.T, opts AppOptions) {
				if opts.Input != "day20.txt" {
					t.Errorf("expected Input day20.txt, got %s", opts.Input)
				}
				if opts.ConfigFile != "config.yaml" {
					t.Errorf("expected default ConfigFile, got %s", opts.ConfigFile)
				}
			},
		},
		{
			name:           "PositionalInput",
			args:           []string{"--config", "alt.yaml", "puzzle.txt"},
			expectedCalled: "RunSolve",
			verifyOpts: func(t *testing.T, opts AppOptions) {
				if opts.Input != "puzzle.txt" {
					t.Errorf("expected Input puzzle.txt, got %s", opts.Input)
				}
				if opts.ConfigFile != "alt.yaml" {
					t.Errorf("expected ConfigFile alt.yaml, got %s", opts.ConfigFile)
				}
			},
		},
		{
			name:           "Print",
			args:           []string{"--print"},
			expectedCalled: "RunPrint",
			verifyOpts: func(t *testing.T, opts AppOptions) {
				if !opts.PrintOnly {
					t.Error("expected PrintOnly true")
				}
			},
		},
		{
			name:           "Render",
			args:           []string{"--render", "--output", "test.png", "--format", "both"},
			expectedCalled: "RunRender",
			verifyOpts: func(t *testing.T, opts AppOptions) {
				if opts.OutputFile != "test.png" {
					t.Errorf("expected OutputFile test.png, got %s", opts.OutputFile)
				}
				if opts.RenderFormat != "both" {
					t.Errorf("expected RenderFormat both, got %s", opts.RenderFormat)
				}
				if !opts.RenderOnly {
					t.Error("expected RenderOnly true")
				}
			},
		},
		{
			name:           "GeoJSON",
			args:           []string{"--geojson", "--output", "layout.geojson"},
			expectedCalled: "RunGeoJSON",
			verifyOpts: func(t *testing.T, opts AppOptions) {
				if !opts.GeoJSON {
					t.Error("expected GeoJSON true")
				}
			},
		},
		{
			name:           "Batch",
			args:           []string{"--batch", "--data-dir", "/tmp/puzzles"},
			expectedCalled: "RunBatch",
			verifyOpts: func(t *testing.T, opts AppOptions) {
				if opts.DataDir != "/tmp/puzzles" {
					t.Errorf("expected DataDir /tmp/puzzles, got %s", opts.DataDir)
				}
			},
		},
		{
			name:           "MqttMode",
			args:           []string{"--mqtt", "--http-port", "9090", "--result-cache", "r.json"},
			expectedCalled: "RunService",
			verifyOpts: func(t *testing.T, opts AppOptions) {
				if !opts.MqttMode {
					t.Error("expected MqttMode true")
				}
				if opts.HttpPort != 9090 {
					t.Errorf("expected HttpPort 9090, got %d", opts.HttpPort)
				}
				if opts.ResultCache != "r.json" {
					t.Errorf("expected ResultCache r.json, got %s", opts.ResultCache)
				}
			},
		},
		{
			name:           "HttpWinsOverRender",
			args:           []string{"--http", "--render"},
			expectedCalled: "RunService",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newMockApp()
			var out bytes.Buffer
			err := run(tt.args, &out, app)
			if err != nil {
				t.Fatalf("run failed: %v", err)
			}

			if !app.called[tt.expectedCalled] {
				t.Errorf("expected %s to be called", tt.expectedCalled)
			}
			if len(app.called) != 1 {
				t.Errorf("expected exactly one mode, got %v", app.called)
			}

			if tt.verifyOpts != nil {
				tt.verifyOpts(t, app.opts)
			}
		})
	}
}

func TestRun_Help(t *testing.T) {
	app := newMockApp()
	var out bytes.Buffer
	err := run([]string{"--help"}, &out, app)
	if err == nil {
		t.Error("expected error from --help, got nil")
	}
	if !strings.Contains(out.String(), "Usage of mosaic") {
		t.Errorf("expected usage info in output, got: %s", out.String())
	}
	if len(app.called) != 0 {
		t.Errorf("no mode should run after --help, got %v", app.called)
	}
}

func TestRun_UnknownFlag(t *testing.T) {
	var out bytes.Buffer
	if err := run([]string{"--calibrate"}, &out, newMockApp()); err == nil {
		t.Error("expected error for unknown flag")
	}
}

func TestRun_Default(t *testing.T) {
	app := newMockApp()
	var out bytes.Buffer
	err := run([]string{}, &out, app)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	expectedPrefix := "mosaic version: " + Version
	if !strings.Contains(out.String(), expectedPrefix) {
		t.Errorf("expected output to contain version, got: %s", out.String())
	}
	if !app.called["RunSolve"] {
		t.Error("expected RunSolve by default")
	}
	if app.opts.DataDir != "." {
		t.Errorf("expected default DataDir '.', got %s", app.opts.DataDir)
	}
}

func TestRun_ServiceBanner(t *testing.T) {
	var out bytes.Buffer
	if err := run([]string{"--http"}, &out, newMockApp()); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !strings.Contains(out.String(), "mosaic service starting...") {
		t.Errorf("expected output to contain service starting message, got: %s", out.String())
	}
}

func TestMain_Execute(t *testing.T) {
	// Smoke test to ensure version is set
	if Version == "" {
		t.Error("expected Version to be set")
	}
}
