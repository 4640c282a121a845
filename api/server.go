package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"route-weather/config"
	"route-weather/logger"
	"route-weather/models"
	"route-weather/report"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouteBuilder computes a route dataset
type RouteBuilder interface {
	BuildRoute(ctx context.Context, names []string, horizon models.Horizon) (*models.RouteDataset, error)
}

// Server represents the API server
type Server struct {
	builder        RouteBuilder
	routeStore     *RouteStore
	scheduled      []config.ScheduledRoute
	defaultHorizon models.Horizon
	requestTimeout time.Duration
	router         *mux.Router
	server         *http.Server
}

// RouteRequest is the body of POST /api/route. Cities are visited in the order
// start, end, then the remaining cities; blanks and repeats are dropped.
type RouteRequest struct {
	Start  string   `json:"start,omitempty"`
	End    string   `json:"end,omitempty"`
	Cities []string `json:"cities"`
	Days   int      `json:"days,omitempty"`
}

// names returns the raw city list in visiting order
func (r RouteRequest) names() []string {
	names := make([]string, 0, len(r.Cities)+2)
	names = append(names, r.Start, r.End)
	return append(names, r.Cities...)
}

// RouteResponse wraps a computed dataset with table rows for display
type RouteResponse struct {
	Route *models.RouteDataset `json:"route"`
	Rows  []report.Row         `json:"rows"`
}

// ScheduledRouteInfo describes a configured route and its refresh state
type ScheduledRouteInfo struct {
	config.ScheduledRoute
	Updated   *time.Time `json:"updated,omitempty"`
	LastError string     `json:"lastError,omitempty"`
}

// NewServer creates a new API server
func NewServer(builder RouteBuilder, routeStore *RouteStore, scheduled []config.ScheduledRoute, defaultHorizon models.Horizon, port int, requestTimeout time.Duration) *Server {
	router := mux.NewRouter()

	s := &Server{
		builder:        builder,
		routeStore:     routeStore,
		scheduled:      scheduled,
		defaultHorizon: defaultHorizon,
		requestTimeout: requestTimeout,
		router:         router,
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}

	router.Use(requestIDMiddleware, loggingMiddleware)

	// On-demand route computation
	router.HandleFunc("/api/route", s.handlePostRoute).Methods(http.MethodPost)
	router.HandleFunc("/api/route", s.handleGetRoute).Methods(http.MethodGet)

	// Scheduled routes
	router.HandleFunc("/api/routes", s.handleListRoutes).Methods(http.MethodGet)
	router.HandleFunc("/api/routes/{name}", s.handleGetScheduledRoute).Methods(http.MethodGet)
	router.HandleFunc("/api/routes/{name}/report", s.handleScheduledReport).Methods(http.MethodGet)

	// Health check and metrics
	router.HandleFunc("/api/health", s.handleHealthCheck).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	return s
}

// Handler exposes the router, e.g. for httptest
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start begins the API server
func (s *Server) Start() error {
	logger.GetLogger().Infow("Starting API server", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.GetLogger().Errorw("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	writeJSON(w, status, map[string]string{
		"error":     message,
		"requestId": RequestIDFromContext(r.Context()),
	})
}

// statusForError maps a route failure to an HTTP status
func statusForError(err error) int {
	switch models.KindOf(err) {
	case models.ValidationError:
		return http.StatusBadRequest
	case models.ResolutionError:
		var re *models.RouteError
		if errors.As(err, &re) && re.Raw == nil {
			// the provider answered but nothing matched
			return http.StatusNotFound
		}
		return http.StatusBadGateway
	case models.CoordinateError, models.FetchError, models.DataError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeRouteError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusForError(err)
	writeJSON(w, status, map[string]string{
		"error":     err.Error(),
		"type":      string(models.KindOf(err)),
		"city":      models.CityOf(err),
		"requestId": RequestIDFromContext(r.Context()),
	})
}

func (s *Server) buildAndRespond(w http.ResponseWriter, r *http.Request, req RouteRequest) {
	horizon := s.defaultHorizon
	if req.Days != 0 {
		h, err := models.ParseHorizon(req.Days)
		if err != nil {
			s.writeRouteError(w, r, err)
			return
		}
		horizon = h
	}

	ctx := r.Context()
	if s.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.requestTimeout)
		defer cancel()
	}

	ds, err := s.builder.BuildRoute(ctx, req.names(), horizon)
	if err != nil {
		logger.GetLogger().Warnw("Route request failed",
			"request_id", RequestIDFromContext(r.Context()),
			"city", models.CityOf(err),
			"error", err)
		s.writeRouteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, RouteResponse{Route: ds, Rows: report.Rows(ds)})
}

// handlePostRoute computes a route from a JSON body
func (s *Server) handlePostRoute(w http.ResponseWriter, r *http.Request) {
	var req RouteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}
	s.buildAndRespond(w, r, req)
}

// handleGetRoute computes a route from ?start=&end=&city=&days= query parameters
func (s *Server) handleGetRoute(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := RouteRequest{
		Start:  query.Get("start"),
		End:    query.Get("end"),
		Cities: query["city"],
	}

	if daysStr := query.Get("days"); daysStr != "" {
		days, err := strconv.Atoi(daysStr)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid days parameter: %s", daysStr))
			return
		}
		req.Days = days
	}
	s.buildAndRespond(w, r, req)
}

// handleListRoutes returns the configured routes with their refresh state
func (s *Server) handleListRoutes(w http.ResponseWriter, r *http.Request) {
	routes := make([]ScheduledRouteInfo, 0, len(s.scheduled))
	for _, sr := range s.scheduled {
		info := ScheduledRouteInfo{ScheduledRoute: sr}
		if stored, ok := s.routeStore.GetRoute(sr.Name); ok {
			updated := stored.Updated
			info.Updated = &updated
			info.LastError = stored.LastError
		}
		routes = append(routes, info)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"routes": routes,
		"count":  len(routes),
	})
}

// storedDataset looks up the latest dataset of a scheduled route, writing a 404 when absent
func (s *Server) storedDataset(w http.ResponseWriter, r *http.Request) (StoredRoute, bool) {
	name := mux.Vars(r)["name"]

	stored, exists := s.routeStore.GetRoute(name)
	if !exists || stored.Dataset == nil {
		msg := fmt.Sprintf("No data found for route: %s", name)
		if exists && stored.LastError != "" {
			msg = fmt.Sprintf("Route %s has not been computed successfully: %s", name, stored.LastError)
		}
		writeError(w, r, http.StatusNotFound, msg)
		return StoredRoute{}, false
	}
	return stored, true
}

// handleGetScheduledRoute returns the last computed dataset of a scheduled route
func (s *Server) handleGetScheduledRoute(w http.ResponseWriter, r *http.Request) {
	stored, ok := s.storedDataset(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"name":      stored.Name,
		"route":     stored.Dataset,
		"rows":      report.Rows(stored.Dataset),
		"updated":   stored.Updated,
		"lastError": stored.LastError,
	})
}

// handleScheduledReport renders the charts page of a scheduled route
func (s *Server) handleScheduledReport(w http.ResponseWriter, r *http.Request) {
	stored, ok := s.storedDataset(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := report.Render(w, stored.Dataset); err != nil {
		logger.GetLogger().Errorw("Failed to render report", "route", stored.Name, "error", err)
	}
}

// handleHealthCheck provides a simple health check endpoint
func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
