package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path"

	"github.com/df07/go-sphere-pathtracer/pkg/config"
	"github.com/df07/go-sphere-pathtracer/pkg/core"
	"github.com/df07/go-sphere-pathtracer/pkg/imageio"
	"github.com/df07/go-sphere-pathtracer/pkg/publish"
	"github.com/df07/go-sphere-pathtracer/pkg/renderer"
	"github.com/df07/go-sphere-pathtracer/pkg/scene"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run renders one image as configured by args and the environment.
// The PPM goes to stdout unless an output file is given; progress goes to stderr.
func run(args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	if cfg.ListScenes {
		for _, info := range scene.ListScenes() {
			fmt.Fprintf(stdout, "%-12s %s\n", info.ID, info.Description)
		}
		return 0
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger := renderer.NewDefaultLogger(stderr)
	if err := render(ctx, cfg, stdout, logger, nil); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// render builds the scene, traces it and writes every configured output.
// A nil publisher is created from the S3 settings when a bucket is set.
func render(ctx context.Context, cfg config.Config, stdout io.Writer, logger core.Logger, publisher publish.Publisher) error {
	sc, err := createScene(cfg)
	if err != nil {
		return err
	}

	rt := renderer.NewRaytracer(sc, cfg.Width, cfg.Height(), logger)
	rt.SetSamplingConfig(sc.SamplingConfig)
	rt.SetOptions(renderer.Options{NumWorkers: cfg.Workers, Seed: cfg.Seed})

	img, stats, err := rt.RenderContext(ctx)
	if err != nil {
		return fmt.Errorf("render interrupted: %w", err)
	}
	logger.Printf("Traced %d samples (%.0f samples/sec)\n", stats.TotalSamples, stats.SamplesPerSecond())

	var ppm bytes.Buffer
	if err := imageio.EncodePPM(&ppm, img); err != nil {
		return fmt.Errorf("encoding image: %w", err)
	}
	if err := writeOutput(cfg.Output, stdout, ppm.Bytes()); err != nil {
		return err
	}

	var preview bytes.Buffer
	if cfg.Preview != "" {
		if err := imageio.EncodePNG(&preview, imageio.Thumbnail(img, cfg.PreviewWidth)); err != nil {
			return fmt.Errorf("encoding preview: %w", err)
		}
		if err := os.WriteFile(cfg.Preview, preview.Bytes(), 0644); err != nil {
			return fmt.Errorf("writing preview: %w", err)
		}
		logger.Printf("Preview saved as %s\n", cfg.Preview)
	}

	if publisher == nil {
		if !cfg.S3.Enabled() {
			return nil
		}
		if publisher, err = publish.NewS3Publisher(cfg.S3, logger); err != nil {
			return err
		}
	}

	prefix := path.Join("renders", cfg.Scene)
	if err := publisher.Publish(ctx, path.Join(prefix, "render.ppm"), "image/x-portable-pixmap", ppm.Bytes()); err != nil {
		return err
	}
	if preview.Len() > 0 {
		if err := publisher.Publish(ctx, path.Join(prefix, "preview.png"), "image/png", preview.Bytes()); err != nil {
			return err
		}
	}
	return nil
}

// createScene builds the configured scene and applies sampling overrides
func createScene(cfg config.Config) (*scene.Scene, error) {
	sc, err := scene.NewScene(cfg.Scene, cfg.AspectRatio, cfg.Seed)
	if err != nil {
		return nil, err
	}
	if cfg.SamplesPerPixel > 0 {
		sc.SamplingConfig.SamplesPerPixel = cfg.SamplesPerPixel
	}
	if cfg.MaxDepth > 0 {
		sc.SamplingConfig.MaxDepth = cfg.MaxDepth
	}
	return sc, nil
}

func writeOutput(filename string, stdout io.Writer, data []byte) error {
	if filename == "" || filename == "-" {
		if _, err := stdout.Write(data); err != nil {
			return fmt.Errorf("writing image: %w", err)
		}
		return nil
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("writing image: %w", err)
	}
	return nil
}
