package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/df07/go-sphere-pathtracer/pkg/publish"
)

// ErrInvalidConfig is returned when settings cannot produce a valid render
var ErrInvalidConfig = errors.New("invalid configuration")

// Config contains everything the CLI and web server need to run a render
type Config struct {
	Scene           string  // Built-in scene ID
	Width           int     // Image width in pixels
	AspectRatio     float64 // Width / height
	SamplesPerPixel int     // 0 = use the scene's recommendation
	MaxDepth        int     // 0 = use the scene's recommendation
	Workers         int     // 0 = CPU count
	Seed            int64   // Base seed for scene generation and sampling
	Output          string  // PPM destination, "-" for stdout
	Preview         string  // Optional PNG preview path
	PreviewWidth    int     // Preview width, 0 = full size
	Port            int     // Web server port
	ListScenes      bool    // Print built-in scenes and exit
	S3              publish.S3Config
}

// Height returns the image height derived from width and aspect ratio
func (c Config) Height() int {
	if c.AspectRatio <= 0 {
		return 0
	}
	return int(float64(c.Width) / c.AspectRatio)
}

// Validate rejects configurations that cannot be rendered
func (c Config) Validate() error {
	switch {
	case c.Width <= 0:
		return fmt.Errorf("%w: width must be positive, got %d", ErrInvalidConfig, c.Width)
	case c.AspectRatio <= 0:
		return fmt.Errorf("%w: aspect ratio must be positive, got %g", ErrInvalidConfig, c.AspectRatio)
	case c.Height() < 1:
		return fmt.Errorf("%w: width %d and aspect ratio %g give an empty image", ErrInvalidConfig, c.Width, c.AspectRatio)
	case c.SamplesPerPixel < 0:
		return fmt.Errorf("%w: samples per pixel must not be negative, got %d", ErrInvalidConfig, c.SamplesPerPixel)
	case c.MaxDepth < 0:
		return fmt.Errorf("%w: max depth must not be negative, got %d", ErrInvalidConfig, c.MaxDepth)
	case c.Workers < 0:
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalidConfig, c.Workers)
	case c.PreviewWidth < 0:
		return fmt.Errorf("%w: preview width must not be negative, got %d", ErrInvalidConfig, c.PreviewWidth)
	}
	return nil
}

// Defaults returns the configuration used when nothing is set
func Defaults() Config {
	return Config{
		Scene:       "default",
		Width:       400,
		AspectRatio: 16.0 / 9.0,
		Seed:        42,
		Output:      "-",
		Port:        8080,
		S3:          publish.S3Config{Region: "us-east-1"},
	}
}

// LoadEnv loads an optional .env file into the process environment.
// Variables already set in the environment win.
func LoadEnv(paths ...string) {
	_ = godotenv.Load(paths...)
}

// FromEnv overlays environment variables on top of defaults
func FromEnv(defaults Config) (Config, error) {
	cfg := defaults
	var err error

	cfg.Scene = getEnv("RT_SCENE", cfg.Scene)
	cfg.Output = getEnv("RT_OUTPUT", cfg.Output)
	cfg.Preview = getEnv("RT_PREVIEW", cfg.Preview)
	if cfg.Width, err = getEnvInt("RT_WIDTH", cfg.Width); err != nil {
		return cfg, err
	}
	if cfg.AspectRatio, err = getEnvFloat("RT_ASPECT", cfg.AspectRatio); err != nil {
		return cfg, err
	}
	if cfg.SamplesPerPixel, err = getEnvInt("RT_SAMPLES", cfg.SamplesPerPixel); err != nil {
		return cfg, err
	}
	if cfg.MaxDepth, err = getEnvInt("RT_MAX_DEPTH", cfg.MaxDepth); err != nil {
		return cfg, err
	}
	if cfg.Workers, err = getEnvInt("RT_WORKERS", cfg.Workers); err != nil {
		return cfg, err
	}
	if cfg.PreviewWidth, err = getEnvInt("RT_PREVIEW_WIDTH", cfg.PreviewWidth); err != nil {
		return cfg, err
	}
	if cfg.Port, err = getEnvInt("RT_PORT", cfg.Port); err != nil {
		return cfg, err
	}
	seed, err := getEnvInt("RT_SEED", int(cfg.Seed))
	if err != nil {
		return cfg, err
	}
	cfg.Seed = int64(seed)

	cfg.S3.Endpoint = getEnv("S3_ENDPOINT", cfg.S3.Endpoint)
	cfg.S3.Region = getEnv("S3_REGION", cfg.S3.Region)
	cfg.S3.Bucket = getEnv("S3_BUCKET", cfg.S3.Bucket)
	cfg.S3.AccessKey = getEnv("S3_ACCESS_KEY", cfg.S3.AccessKey)
	cfg.S3.SecretKey = getEnv("S3_SECRET_KEY", cfg.S3.SecretKey)

	return cfg, nil
}

// Load builds the CLI configuration: defaults, then .env and environment, then flags
func Load(args []string, output io.Writer) (Config, error) {
	LoadEnv()
	base, err := FromEnv(Defaults())
	if err != nil {
		return base, err
	}
	return ParseFlags(args, base, output)
}

// ParseFlags parses command line flags using base for default values
func ParseFlags(args []string, base Config, output io.Writer) (Config, error) {
	cfg := base
	fs := flag.NewFlagSet("raytracer", flag.ContinueOnError)
	fs.SetOutput(output)

	fs.StringVar(&cfg.Scene, "scene", base.Scene, "Scene to render: default, random, spheregrid or empty")
	fs.IntVar(&cfg.Width, "width", base.Width, "Image width in pixels")
	fs.Float64Var(&cfg.AspectRatio, "aspect", base.AspectRatio, "Aspect ratio (width / height)")
	fs.IntVar(&cfg.SamplesPerPixel, "samples", base.SamplesPerPixel, "Samples per pixel (0 = scene default)")
	fs.IntVar(&cfg.MaxDepth, "depth", base.MaxDepth, "Maximum ray bounce depth (0 = scene default)")
	fs.IntVar(&cfg.Workers, "workers", base.Workers, "Parallel workers (0 = CPU count)")
	fs.Int64Var(&cfg.Seed, "seed", base.Seed, "Random seed")
	fs.StringVar(&cfg.Output, "o", base.Output, "PPM output file, - for stdout")
	fs.StringVar(&cfg.Preview, "preview", base.Preview, "Optional PNG preview file")
	fs.IntVar(&cfg.PreviewWidth, "preview-width", base.PreviewWidth, "Preview width in pixels (0 = full size)")
	fs.IntVar(&cfg.Port, "port", base.Port, "Port for the web server")
	fs.BoolVar(&cfg.ListScenes, "list", base.ListScenes, "List available scenes and exit")

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value := getEnv(key, "")
	if value == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(value)
	if err != nil {
		return fallback, fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidConfig, key, value)
	}
	return v, nil
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	value := getEnv(key, "")
	if value == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback, fmt.Errorf("%w: %s=%q is not a number", ErrInvalidConfig, key, value)
	}
	return v, nil
}
