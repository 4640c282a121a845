package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"route-weather/api"

	"github.com/go-resty/resty/v2"
)

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Route weather service base URL")
	days := flag.Int("days", 5, "Forecast horizon in days (1 or 5)")
	flag.Parse()

	cities := flag.Args()
	if len(cities) == 0 {
		cities = []string{"Paris", "Lyon", "Marseille"}
	}

	fmt.Println("Route Weather API Client Example")
	fmt.Println("================================")

	client := resty.New().
		SetBaseURL(*baseURL).
		SetTimeout(time.Minute)

	// List scheduled routes
	fmt.Println("\nFetching scheduled routes...")
	var routes struct {
		Routes []api.ScheduledRouteInfo `json:"routes"`
	}
	resp, err := client.R().SetResult(&routes).Get("/api/routes")
	if err != nil {
		fmt.Printf("Error fetching routes: %v\n", err)
		os.Exit(1)
	}
	if resp.IsError() {
		fmt.Printf("Error fetching routes: %s\n", resp.Status())
		os.Exit(1)
	}
	for _, r := range routes.Routes {
		fmt.Printf("  %s: %s (%d days)\n", r.Name, strings.Join(r.Cities, " -> "), r.Days)
	}

	// Compute a route on demand
	fmt.Printf("\nComputing route %s...\n", strings.Join(cities, " -> "))
	var result api.RouteResponse
	resp, err = client.R().
		SetBody(api.RouteRequest{Cities: cities, Days: *days}).
		SetResult(&result).
		Post("/api/route")
	if err != nil {
		fmt.Printf("Error computing route: %v\n", err)
		os.Exit(1)
	}
	if resp.IsError() {
		fmt.Printf("Route failed (%s): %s\n", resp.Status(), string(resp.Body()))
		os.Exit(1)
	}

	for _, row := range result.Rows {
		fmt.Printf("  %-15s %s  %5.1f / %5.1f °C  %s\n", row.City, row.Date, row.TempMax, row.TempMin, row.Verdict)
	}

	prettyJSON, _ := json.MarshalIndent(result.Route.Centroid, "", "  ")
	fmt.Printf("\nCentroid:\n%s\n", string(prettyJSON))
}
