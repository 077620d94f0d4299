package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/JHay0112/raytracing/pkg/imagebuf"
	"github.com/JHay0112/raytracing/pkg/integrator"
	"github.com/JHay0112/raytracing/pkg/loaders"
	"github.com/JHay0112/raytracing/pkg/log"
	"github.com/JHay0112/raytracing/pkg/renderer"
	"github.com/JHay0112/raytracing/pkg/scene"
)

var logger = log.New("server")

// Request limits
const (
	MaxWidth   = 2000
	MaxSamples = 10000
	MaxDepth   = 1000

	shutdownTimeout = 5 * time.Second
)

// Server handles web requests for the raytracer
type Server struct {
	port     int
	sceneDir string
	workers  int
}

// NewServer creates a new web server. Scene files are discovered in sceneDir.
func NewServer(port int, sceneDir string) *Server {
	return &Server{port: port, sceneDir: sceneDir, workers: 1}
}

// SetWorkers sets the number of row workers used per render
func (s *Server) SetWorkers(workers int) {
	if workers < 1 {
		workers = 1
	}
	s.workers = workers
}

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene      string // Scene id, "file:<name>" for scene files
	Width      int    // Image width, 0 keeps the scene preset
	Samples    int    // Samples per pixel, 0 keeps the scene preset
	Depth      int    // Max bounce depth, -1 keeps the scene preset
	Seed       int64
	Integrator string
	Format     string // "png" or "ppm"
	Thumb      int    // Max thumbnail width, 0 for the full frame
}

// Handler returns the HTTP routes of the server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/inspect", s.handleInspect)
	return mux
}

// Start serves requests until ctx is cancelled
func (s *Server) Start(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", s.port),
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warningf("shutdown: %v", err)
		}
	}()

	logger.Noticef("starting web server on http://localhost:%d", s.port)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	logger.Notice("web server stopped")
	return nil
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists the built-in scenes and the scene files
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	response, err := scene.ListAllScenes(s.sceneDir)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, response)
}

// handleRender renders a scene and responds with the encoded frame
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, err := parseRenderRequest(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	sceneObj, status, err := s.createScene(req.Scene)
	if err != nil {
		writeError(w, status, err.Error())
		return
	}
	req.apply(sceneObj, s.workers)

	in, ok := integrator.ByName(req.Integrator)
	if !ok {
		writeError(w, http.StatusBadRequest, "Unknown integrator: "+req.Integrator)
		return
	}

	if sceneObj.Height() < 1 {
		writeError(w, http.StatusBadRequest, "Invalid request: frame height is zero")
		return
	}
	// Scene files carry their own width and aspect ratio, so the query caps alone don't bound the frame
	if sceneObj.Width > MaxWidth || sceneObj.Height() > MaxWidth {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("Invalid request: frame %dx%d exceeds %d pixels per side", sceneObj.Width, sceneObj.Height(), MaxWidth))
		return
	}

	rt := sceneObj.NewRaytracer()
	rt.SetIntegrator(in)
	img := imagebuf.NewWithSize(sceneObj.Width, sceneObj.Height())

	// Client disconnects cancel the request context
	stats, err := rt.Render(r.Context(), img)
	if err != nil {
		if errors.Is(err, renderer.ErrInterrupted) {
			logger.Infof("render of %s cancelled by client", req.Scene)
			return
		}
		writeError(w, http.StatusBadRequest, "Render error: "+err.Error())
		return
	}
	logger.Infof("rendered %s %dx%d in %s", req.Scene, stats.Width, stats.Height, stats.RenderTime)

	if req.Thumb > 0 {
		img = imagebuf.FromImage(img.Thumbnail(req.Thumb))
	}

	var buf bytes.Buffer
	asPNG := req.Format == "png"
	if err := img.Encode(&buf, asPNG); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to encode image: "+err.Error())
		return
	}

	if asPNG {
		w.Header().Set("Content-Type", "image/png")
	} else {
		w.Header().Set("Content-Type", "image/x-portable-pixmap")
	}
	w.Header().Set("X-Render-Time", stats.RenderTime.String())
	w.Header().Set("X-Total-Samples", strconv.Itoa(stats.TotalSamples))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// apply overrides the scene presets with the requested values
func (req *RenderRequest) apply(sceneObj *scene.Scene, workers int) {
	if req.Width > 0 {
		sceneObj.Width = req.Width
	}
	if req.Samples > 0 {
		sceneObj.SamplingConfig.SamplesPerPixel = req.Samples
	}
	if req.Depth >= 0 {
		sceneObj.SamplingConfig.MaxDepth = req.Depth
	}
	sceneObj.SamplingConfig.Seed = req.Seed
	sceneObj.SamplingConfig.Workers = workers
}

// parseRenderRequest parses request parameters
func parseRenderRequest(values url.Values) (*RenderRequest, error) {
	req := &RenderRequest{
		Scene:      "default",
		Integrator: values.Get("integrator"),
		Format:     "png",
	}

	if sceneID := values.Get("scene"); sceneID != "" {
		req.Scene = sceneID
	}

	switch format := values.Get("format"); format {
	case "", "png":
	case "ppm":
		req.Format = format
	default:
		return nil, fmt.Errorf("format must be png or ppm, got: %s", format)
	}

	var err error
	if req.Width, err = parseIntParam(values, "width", 0, 1, MaxWidth); err != nil {
		return nil, err
	}
	if req.Samples, err = parseIntParam(values, "spp", 0, 1, MaxSamples); err != nil {
		return nil, err
	}
	if req.Depth, err = parseIntParam(values, "depth", -1, 0, MaxDepth); err != nil {
		return nil, err
	}
	if req.Thumb, err = parseIntParam(values, "thumb", 0, 1, MaxWidth); err != nil {
		return nil, err
	}

	req.Seed = renderer.DefaultSamplingConfig().Seed
	if value := values.Get("seed"); value != "" {
		if req.Seed, err = strconv.ParseInt(value, 10, 64); err != nil {
			return nil, fmt.Errorf("invalid seed: %s", value)
		}
	}

	return req, nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// createScene resolves a scene id, returning the HTTP status to report on failure
func (s *Server) createScene(id string) (*scene.Scene, int, error) {
	sceneObj, err := loaders.Resolve(id, s.sceneDir)
	if err != nil {
		if errors.Is(err, scene.ErrUnknownScene) || errors.Is(err, fs.ErrNotExist) {
			return nil, http.StatusNotFound, fmt.Errorf("unknown scene: %s", id)
		}
		return nil, http.StatusBadRequest, err
	}
	return sceneObj, http.StatusOK, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warningf("failed to write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
