package server

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/df07/go-sphere-pathtracer/pkg/imageio"
	"github.com/df07/go-sphere-pathtracer/pkg/renderer"
	"github.com/df07/go-sphere-pathtracer/pkg/scene"
)

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene       string  // Scene ID
	Width       int     // Image width
	AspectRatio float64 // Width / height
	Samples     int     // Samples per pixel, 0 = scene default
	MaxDepth    int     // Bounce limit, 0 = scene default
	Seed        int64   // Base seed
	Format      string  // "png" or "ppm"
	Thumbnail   int     // PNG width, 0 = full size
}

// Height returns the image height for the request
func (req *RenderRequest) Height() int {
	return int(float64(req.Width) / req.AspectRatio)
}

var errBadRequest = errors.New("bad request")

// Request limits keep one render from monopolizing the server
const (
	maxImageWidth    = 2000
	maxImageHeight   = 2000
	maxSamples       = 10000
	maxDepth         = 100
	maxCameraSamples = 1 << 28 // width * height * samples per pixel
)

// handleRender renders a scene synchronously and returns the image
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, err := parseRenderRequest(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sceneObj, err := s.createScene(req)
	if errors.Is(err, scene.ErrUnknownScene) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if err := checkSampleBudget(req.Width, req.Height(), sceneObj.SamplingConfig.SamplesPerPixel); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	renderID := fmt.Sprintf("%s-%d", req.Scene, req.Seed)
	logger := NewWebLogger(renderID, s.console)
	raytracer := renderer.NewRaytracer(sceneObj, req.Width, req.Height(), logger)
	raytracer.SetSamplingConfig(sceneObj.SamplingConfig)
	raytracer.SetOptions(renderer.Options{Seed: req.Seed})

	// A disconnected client cancels the request context and stops the render
	img, stats, err := raytracer.RenderContext(r.Context())
	if err != nil {
		log.Printf("Render %s stopped: %v", renderID, err)
		writeError(w, http.StatusServiceUnavailable, fmt.Sprintf("Render cancelled: %v", err))
		return
	}

	var buf bytes.Buffer
	contentType := "image/png"
	switch req.Format {
	case "ppm":
		contentType = "image/x-portable-pixmap"
		err = imageio.EncodePPM(&buf, img)
	default:
		var out image.Image = img
		if req.Thumbnail > 0 {
			out = imageio.Thumbnail(img, req.Thumbnail)
		}
		err = imageio.EncodePNG(&buf, out)
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to encode image: %v", err))
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("X-Render-Time-Ms", strconv.FormatInt(stats.Elapsed.Milliseconds(), 10))
	w.Header().Set("X-Render-Samples", strconv.FormatInt(stats.TotalSamples, 10))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Printf("Failed to write image: %v", err)
	}
}

// checkSampleBudget rejects renders that would trace too many camera samples
func checkSampleBudget(width, height, samplesPerPixel int) error {
	total := int64(width) * int64(height) * int64(samplesPerPixel)
	if total > maxCameraSamples {
		return fmt.Errorf("%w: %dx%d at %d samples per pixel exceeds %d camera samples",
			errBadRequest, width, height, samplesPerPixel, maxCameraSamples)
	}
	return nil
}

// createScene builds the requested scene and applies sampling overrides
func (s *Server) createScene(req *RenderRequest) (*scene.Scene, error) {
	sceneObj, err := scene.NewScene(req.Scene, req.AspectRatio, req.Seed)
	if err != nil {
		return nil, err
	}
	if req.Samples > 0 {
		sceneObj.SamplingConfig.SamplesPerPixel = req.Samples
	}
	if req.MaxDepth > 0 {
		sceneObj.SamplingConfig.MaxDepth = req.MaxDepth
	}
	return sceneObj, nil
}

// parseRenderRequest parses and validates query parameters
func parseRenderRequest(values url.Values) (*RenderRequest, error) {
	req := &RenderRequest{Scene: "default", Format: "png"}

	if sceneID := values.Get("scene"); sceneID != "" {
		req.Scene = sceneID
	}
	if format := values.Get("format"); format != "" {
		if format != "png" && format != "ppm" {
			return nil, fmt.Errorf("%w: format must be png or ppm, got: %s", errBadRequest, format)
		}
		req.Format = format
	}

	var err error
	if req.Width, err = parseIntParam(values, "width", 400, 1, maxImageWidth); err != nil {
		return nil, err
	}
	if req.AspectRatio, err = parseFloatParam(values, "aspect", 16.0/9.0, 0.1, 10); err != nil {
		return nil, err
	}
	if req.Samples, err = parseIntParam(values, "samples", 0, 0, maxSamples); err != nil {
		return nil, err
	}
	if req.MaxDepth, err = parseIntParam(values, "depth", 0, 0, maxDepth); err != nil {
		return nil, err
	}
	if req.Thumbnail, err = parseIntParam(values, "thumbnail", 0, 0, maxImageWidth); err != nil {
		return nil, err
	}
	seed, err := parseIntParam(values, "seed", 42, 0, 1<<31-1)
	if err != nil {
		return nil, err
	}
	req.Seed = int64(seed)

	if req.Height() < 1 {
		return nil, fmt.Errorf("%w: width %d and aspect %g give an empty image", errBadRequest, req.Width, req.AspectRatio)
	}
	if req.Height() > maxImageHeight {
		return nil, fmt.Errorf("%w: height %d exceeds %d", errBadRequest, req.Height(), maxImageHeight)
	}
	if req.Samples > 0 {
		if err := checkSampleBudget(req.Width, req.Height(), req.Samples); err != nil {
			return nil, err
		}
	}
	return req, nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("%w: invalid %s: %s", errBadRequest, key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%w: %s must be between %d and %d, got: %d", errBadRequest, key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseFloatParam parses a float parameter from URL query with validation
func parseFloatParam(values url.Values, key string, defaultValue, min, max float64) (float64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: invalid %s: %s", errBadRequest, key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%w: %s must be between %g and %g, got: %g", errBadRequest, key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}
