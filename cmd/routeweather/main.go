// Command routeweather computes a route's weather once and prints it as a table.
//
//	routeweather -days 5 Paris Lyon Marseille
//	routeweather -route alps.yaml -html alps.html
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"route-weather/config"
	"route-weather/di"
	"route-weather/logger"
	"route-weather/models"
	"route-weather/report"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// loadRouteFile reads a {name, days, cities} YAML document
func loadRouteFile(path string) (config.ScheduledRoute, error) {
	var r config.ScheduledRoute

	data, err := os.ReadFile(path)
	if err != nil {
		return r, fmt.Errorf("failed to read route file: %w", err)
	}
	if err := yaml.Unmarshal(data, &r); err != nil {
		return r, fmt.Errorf("failed to parse route file %s: %w", path, err)
	}
	if len(r.Cities) == 0 {
		return r, fmt.Errorf("route file %s lists no cities", path)
	}
	return r, nil
}

func printTable(w io.Writer, ds *models.RouteDataset) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CITY\tDATE\tMAX °C\tMIN °C\tWIND DAY\tWIND NIGHT\tPRECIP\tVERDICT")
	for _, row := range report.Rows(ds) {
		precip := "no"
		if row.Precipitation {
			precip = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%.1f\t%.1f\t%.1f\t%.1f\t%s\t%s\n",
			row.City, row.Date, row.TempMax, row.TempMin, row.WindDay, row.WindNight, precip, row.Verdict)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "\nCentroid: %.4f, %.4f\n", ds.Centroid.Latitude, ds.Centroid.Longitude)
	return nil
}

func run() error {
	if err := godotenv.Load(); err != nil {
		logger.GetLogger().Debugw("No .env file loaded", "error", err)
	}

	configFile := flag.String("config", "config.yaml", "Path to configuration file")
	routeFile := flag.String("route", "", "YAML file with name, days and cities")
	days := flag.Int("days", 0, "Forecast horizon in days (1 or 5)")
	htmlOut := flag.String("html", "", "Write an HTML chart report to this path")
	flag.Parse()

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		return err
	}

	cities := flag.Args()
	horizonDays := cfg.Route.DefaultDays
	if *routeFile != "" {
		r, err := loadRouteFile(*routeFile)
		if err != nil {
			return err
		}
		cities = append(r.Cities, cities...)
		if r.Days != 0 {
			horizonDays = r.Days
		}
	}
	if *days != 0 {
		horizonDays = *days
	}
	horizon, err := models.ParseHorizon(horizonDays)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	container, err := di.NewContainer(ctx, cfg)
	if err != nil {
		return err
	}
	defer container.Close()

	ds, err := container.Aggregator.BuildRoute(ctx, cities, horizon)
	if err != nil {
		return err
	}

	if err := printTable(os.Stdout, ds); err != nil {
		return err
	}

	if *htmlOut != "" {
		f, err := os.Create(*htmlOut)
		if err != nil {
			return fmt.Errorf("failed to create report file: %w", err)
		}
		defer f.Close()
		if err := report.Render(f, ds); err != nil {
			return err
		}
		fmt.Printf("Report written to %s\n", *htmlOut)
	}
	return nil
}

func main() {
	err := run()
	logger.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "routeweather: %v\n", err)
		os.Exit(1)
	}
}
