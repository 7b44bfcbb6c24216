package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/df07/go-sphere-pathtracer/pkg/config"
	"github.com/df07/go-sphere-pathtracer/web/server"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stderr, (*server.Server).Start))
}

// run loads the configuration and serves until start returns
func run(args []string, stderr io.Writer, start func(*server.Server) error) int {
	cfg, err := config.Load(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	webServer := server.NewServer(cfg.Port)

	log.Printf("Sphere Path Tracer Web Server")
	log.Printf("Visit http://localhost:%d/api/scenes to list scenes", cfg.Port)

	if err := start(webServer); err != nil {
		log.Printf("Error starting server: %v", err)
		return 1
	}
	return 0
}
