// Command venuectl runs one venue search from the command line and prints
// the result as JSON. Provider and API key come from the same environment
// variables as venued.
//
// Usage:
//
//	venuectl [-provider yelp] date     -lat 40.7128 -lng -74.0060 [-radius 3000]
//	venuectl [-provider yelp] category -category bar -lat 40.7128 -lng -74.0060
//	venuectl [-provider yelp] search   -lat 40.7128 -lng -74.0060 -keyword ramen
//	venuectl [-provider yelp] details  -id <venue id>
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/couchcryptid/date-venue-service/internal/config"
	"github.com/couchcryptid/date-venue-service/internal/domain"
	"github.com/couchcryptid/date-venue-service/internal/planner"
	"github.com/couchcryptid/date-venue-service/internal/provider"
	"github.com/couchcryptid/date-venue-service/internal/venue"
)

func main() {
	_ = godotenv.Load()

	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "venuectl:", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	global := flag.NewFlagSet("venuectl", flag.ContinueOnError)
	global.SetOutput(stderr)
	providerName := global.String("provider", "", "venue provider (google, yelp, foursquare); defaults to VENUE_PROVIDER")
	verbose := global.Bool("v", false, "log provider requests to stderr")
	if err := global.Parse(args); err != nil {
		return err
	}
	if global.NArg() == 0 {
		return errors.New("missing command: date, category, search or details")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if *providerName != "" {
		cfg.Provider = domain.ProviderType(*providerName)
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	client := venue.NewClient(provider.NewFactory(logger, nil), venue.Config{
		ProviderType: cfg.Provider,
		Provider:     provider.FromConfig(cfg, cfg.Provider, nil),
	}, logger, nil)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd, cmdArgs := global.Arg(0), global.Args()[1:]
	switch cmd {
	case "date", "category":
		return runPlanner(ctx, cmd, cmdArgs, client, logger, stdout, stderr)
	case "search":
		return runSearch(ctx, cmdArgs, client, stdout, stderr)
	case "details":
		return runDetails(ctx, cmdArgs, client, stdout, stderr)
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

type pointFlags struct {
	lat, lng *float64
	radius   *int
}

func addPointFlags(fs *flag.FlagSet) pointFlags {
	return pointFlags{
		lat:    fs.Float64("lat", 0, "latitude"),
		lng:    fs.Float64("lng", 0, "longitude"),
		radius: fs.Int("radius", 0, "search radius in meters (default 5000)"),
	}
}

func runPlanner(ctx context.Context, cmd string, args []string, client *venue.Client, logger *slog.Logger, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(stderr)
	point := addPointFlags(fs)
	category := fs.String("category", "", "date category (restaurant, cafe, bar, activity)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	p := planner.New(client, logger)
	if cmd == "category" {
		c, err := domain.ParseCategory(*category)
		if err != nil {
			return err
		}
		p.SearchByCategory(ctx, c, *point.lat, *point.lng, *point.radius)
	} else {
		p.SearchVenues(ctx, *point.lat, *point.lng, *point.radius)
	}

	if msg := p.Err(); msg != "" {
		return errors.New(msg)
	}
	return printJSON(stdout, p.Venues())
}

func runSearch(ctx context.Context, args []string, client *venue.Client, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	fs.SetOutput(stderr)
	point := addPointFlags(fs)
	keyword := fs.String("keyword", "", "free-text keyword")
	category := fs.String("category", "", "unified category filter")
	price := fs.Int("price", 0, "price level 1-4")
	openNow := fs.Bool("open-now", false, "only venues open now")
	limit := fs.Int("limit", 0, "maximum results (default 20)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	params := domain.SearchParams{
		Latitude:   *point.lat,
		Longitude:  *point.lng,
		Radius:     *point.radius,
		Keyword:    *keyword,
		PriceLevel: *price,
		OpenNow:    *openNow,
		Limit:      *limit,
	}
	if *category != "" {
		c, err := domain.ParseCategory(*category)
		if err != nil {
			return err
		}
		params.Category = c
	}

	result, err := client.SearchVenues(ctx, params)
	if err != nil {
		return err
	}
	return printJSON(stdout, result)
}

func runDetails(ctx context.Context, args []string, client *venue.Client, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("details", flag.ContinueOnError)
	fs.SetOutput(stderr)
	id := fs.String("id", "", "provider venue id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	v, err := client.GetVenueDetails(ctx, *id)
	if err != nil {
		return err
	}
	if v == nil {
		return fmt.Errorf("venue %q not found", *id)
	}
	return printJSON(stdout, v)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
