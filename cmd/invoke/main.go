// Command invoke runs a single serverless gateway event through the API and
// prints the response descriptor.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"io"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/pr-poehali-dev/local-cleaning-systems-site/internal/app"
	"github.com/pr-poehali-dev/local-cleaning-systems-site/internal/config"
	"github.com/pr-poehali-dev/local-cleaning-systems-site/internal/gateway"
	"github.com/pr-poehali-dev/local-cleaning-systems-site/internal/service"
)

func main() {
	eventFile := flag.String("event", "", "path to the event JSON (default stdin)")
	flag.Parse()

	var in io.Reader = os.Stdin
	if *eventFile != "" {
		f, err := os.Open(*eventFile)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to open event")
		}
		defer f.Close()
		in = f
	}

	var ev gateway.Event
	if err := json.NewDecoder(in).Decode(&ev); err != nil {
		log.Fatal().Err(err).Msg("failed to decode event")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// stdout carries only the response descriptor
	service.SetLogOutput(os.Stderr)

	ctx := context.Background()
	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start")
	}
	defer a.Close()
	a.Echo.Logger.SetOutput(os.Stderr)

	resp, err := gateway.Invoke(ctx, a.Echo, ev)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to invoke")
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(resp); err != nil {
		log.Fatal().Err(err).Msg("failed to write response")
	}
}
