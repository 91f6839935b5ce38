package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/kwv/mosaic/mosaic"
)

// maxPuzzleBytes caps POST /solve bodies
const maxPuzzleBytes = 10 << 20

// newHTTPServer creates an HTTP server with all endpoints
func newHTTPServer(store *mosaic.ResultStore, config *mosaic.Config) http.Handler {
	if config == nil {
		config = &mosaic.Config{}
	}
	mux := http.NewServeMux()

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		log.Printf("[HTTP] /health request from %s", r.RemoteAddr)
		status := struct {
			Status     string    `json:"status"`
			Timestamp  time.Time `json:"timestamp"`
			HasResults bool      `json:"hasResults"`
			Results    int       `json:"results"`
		}{
			Status:     "ok",
			Timestamp:  time.Now(),
			HasResults: store.Len() > 0,
			Results:    store.Len(),
		}
		writeJSON(w, http.StatusOK, status)
	})

	// Summaries of every stored result, sorted by name
	mux.HandleFunc("/results", func(w http.ResponseWriter, r *http.Request) {
		summaries := make([]mosaic.ResultSummary, 0, store.Len())
		for _, name := range store.Names() {
			if res, ok := store.Get(name); ok {
				summaries = append(summaries, res.Summarize())
			}
		}
		writeJSON(w, http.StatusOK, struct {
			Results []mosaic.ResultSummary `json:"results"`
		}{summaries})
	})

	mux.HandleFunc("/result.json", func(w http.ResponseWriter, r *http.Request) {
		res, ok := lookupResult(store, r)
		if !ok {
			http.Error(w, "No result available", http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, http.StatusOK, res)
	})

	// Stitched picture with the motif highlighted
	mux.HandleFunc("/picture.png", func(w http.ResponseWriter, r *http.Request) {
		res, ok := lookupImage(w, store, r)
		if !ok {
			return
		}
		var buf bytes.Buffer
		if err := mosaic.RenderResultPNG(&buf, res, config.Render); err != nil {
			log.Printf("[HTTP] Error rendering picture for %s: %v", res.Name, err)
			http.Error(w, "Render failed", http.StatusInternalServerError)
			return
		}
		writeImage(w, "image/png", buf.Bytes())
	})

	// Tile layout as SVG
	mux.HandleFunc("/layout.svg", func(w http.ResponseWriter, r *http.Request) {
		res, ok := lookupImage(w, store, r)
		if !ok {
			return
		}
		lr := mosaic.NewLayoutRenderer(res)
		if err := lr.ApplyConfig(config.Render); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		var buf bytes.Buffer
		if err := lr.RenderToSVG(&buf); err != nil {
			log.Printf("[HTTP] Error rendering layout for %s: %v", res.Name, err)
			http.Error(w, "Render failed", http.StatusInternalServerError)
			return
		}
		writeImage(w, "image/svg+xml", buf.Bytes())
	})

	mux.HandleFunc("/layout.geojson", func(w http.ResponseWriter, r *http.Request) {
		res, ok := lookupImage(w, store, r)
		if !ok {
			return
		}
		data, err := mosaic.LayoutGeoJSON(res)
		if err != nil {
			log.Printf("[HTTP] Error exporting GeoJSON for %s: %v", res.Name, err)
			http.Error(w, "Export failed", http.StatusInternalServerError)
			return
		}
		writeImage(w, "application/geo+json", data)
	})

	// Solve a puzzle posted as plain text
	mux.HandleFunc("/solve", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		name := r.URL.Query().Get("name")
		if name == "" {
			name = "puzzle"
		}

		motif, err := config.GetMotif()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		tiles, err := mosaic.ParseTiles(http.MaxBytesReader(w, r.Body, maxPuzzleBytes))
		if err != nil {
			http.Error(w, err.Error(), solveStatus(err))
			return
		}
		res, err := mosaic.Solve(tiles, motif)
		if err != nil {
			log.Printf("[HTTP] /solve %s: %v", name, err)
			http.Error(w, err.Error(), solveStatus(err))
			return
		}
		res.Name = name
		store.Put(res)
		log.Printf("[HTTP] Solved %s: corner product %d, roughness %d", name, res.Checksum, res.Roughness)
		writeJSON(w, http.StatusOK, res)
	})

	return mux
}

// lookupResult returns the named result, or the latest when no name is given
func lookupResult(store *mosaic.ResultStore, r *http.Request) (*mosaic.Result, bool) {
	if name := r.URL.Query().Get("name"); name != "" {
		return store.Get(name)
	}
	return store.Latest()
}

// lookupImage is lookupResult for endpoints that need the picture. Results
// restored from the cache only carry the answers.
func lookupImage(w http.ResponseWriter, store *mosaic.ResultStore, r *http.Request) (*mosaic.Result, bool) {
	res, ok := lookupResult(store, r)
	if !ok {
		http.Error(w, "No result available", http.StatusServiceUnavailable)
		return nil, false
	}
	if !res.HasImage() {
		http.Error(w, fmt.Sprintf("Result %s has no picture; solve it again", res.Name), http.StatusServiceUnavailable)
		return nil, false
	}
	return res, true
}

// solveStatus maps solver errors to HTTP status codes
func solveStatus(err error) int {
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, mosaic.ErrParse), errors.Is(err, mosaic.ErrDimensionMismatch), errors.Is(err, mosaic.ErrNoTiles):
		return http.StatusBadRequest
	case errors.Is(err, mosaic.ErrAssemblyStuck), errors.Is(err, mosaic.ErrPatternNotFound), errors.Is(err, mosaic.ErrIncompleteLayout):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[HTTP] Error encoding JSON: %v", err)
	}
}

func writeImage(w http.ResponseWriter, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "no-cache")
	if _, err := w.Write(data); err != nil {
		log.Printf("[HTTP] Error writing response: %v", err)
	}
}
