package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/WessleyAI/showroom/engine/activity"
	"github.com/WessleyAI/showroom/engine/catalog"
	"github.com/WessleyAI/showroom/engine/compare"
	"github.com/WessleyAI/showroom/engine/dataset"
	"github.com/WessleyAI/showroom/engine/domain"
	"github.com/WessleyAI/showroom/engine/pricing"
	"github.com/WessleyAI/showroom/pkg/metrics"
	"github.com/WessleyAI/showroom/pkg/mid"
	"github.com/WessleyAI/showroom/pkg/repo"
)

// maxBody caps JSON request bodies.
const maxBody = 64 << 10

var errBadRequest = errors.New("bad request")

type server struct {
	data    *dataset.Dataset
	tracker *activity.Tracker
	metrics *metrics.Metrics
	log     *slog.Logger
}

func newServer(data *dataset.Dataset, tracker *activity.Tracker, m *metrics.Metrics, log *slog.Logger) *server {
	return &server{data: data, tracker: tracker, metrics: m, log: log}
}

func (s *server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/vehicles", s.handleListVehicles)
	mux.HandleFunc("GET /api/vehicles/{id}", s.handleGetVehicle)
	mux.HandleFunc("GET /api/facets", s.handleFacets)
	mux.HandleFunc("GET /api/dealerships", s.handleDealerships)
	mux.HandleFunc("POST /api/compare", s.handleCompare)
	mux.HandleFunc("POST /api/configure", s.handleConfigure)
	mux.HandleFunc("POST /api/shipping", s.handleShipping)
	mux.HandleFunc("GET /api/activity", s.handleActivity)
	mux.Handle("GET /metrics", s.metrics.Handler())
	return mux
}

// --- Handlers ---

func (s *server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"vehicles": len(s.data.Vehicles()),
	})
}

func (s *server) handleListVehicles(w http.ResponseWriter, r *http.Request) {
	req, err := parseListRequest(r.URL.Query())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res := catalog.Search(r.Context(), s.data.Vehicles(), req)
	s.metrics.Searches.Inc()
	s.metrics.SearchHits.Observe(float64(res.Total))
	writeJSON(w, http.StatusOK, res)
}

// VehicleDetail is the JSON response for GET /api/vehicles/{id}.
type VehicleDetail struct {
	Vehicle    domain.Vehicle     `json:"vehicle"`
	Dealership *domain.Dealership `json:"dealership,omitempty"`
	Options    pricing.Options    `json:"options"`
	Teaser     int                `json:"teaser_monthly"`
	Viewing    int                `json:"viewing"`
}

func (s *server) handleGetVehicle(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, fmt.Errorf("%w: vehicle id %q", errBadRequest, r.PathValue("id")))
		return
	}
	v, err := s.data.Vehicle(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.tracker.RecordView(r.Context(), id)

	detail := VehicleDetail{
		Vehicle: v,
		Options: pricing.OptionsFor(v),
		Teaser:  pricing.SimpleMonthly(v.Price),
		Viewing: s.tracker.Views(id),
	}
	if d, ok := s.data.DealershipFor(v); ok {
		detail.Dealership = &d
	}
	writeJSON(w, http.StatusOK, detail)
}

func (s *server) handleFacets(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, catalog.BuildFacets(s.data.Vehicles()))
}

func (s *server) handleDealerships(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.data.Dealerships())
}

// CompareRequest is the JSON body for POST /api/compare.
type CompareRequest struct {
	IDs []int `json:"ids"`
}

// CompareResponse is the JSON response for POST /api/compare.
type CompareResponse struct {
	Vehicles []domain.Vehicle `json:"vehicles"`
	Rows     []compare.Row    `json:"rows"`
}

func (s *server) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req CompareRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	vehicles, err := compare.Resolve(r.Context(), s.data.Repo(), req.IDs)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	rows := compare.CompareContext(r.Context(), vehicles)
	s.metrics.Comparisons.Inc()
	s.tracker.RecordComparison(r.Context(), req.IDs)
	writeJSON(w, http.StatusOK, CompareResponse{Vehicles: vehicles, Rows: rows})
}

func (s *server) handleConfigure(w http.ResponseWriter, r *http.Request) {
	var cfg pricing.Configuration
	if err := decodeBody(w, r, &cfg); err != nil {
		s.writeError(w, r, err)
		return
	}
	v, err := s.data.Vehicle(r.Context(), cfg.VehicleID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	q, err := pricing.Configure(v, cfg)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.metrics.Quotes.WithLabelValues("configure").Inc()
	s.tracker.RecordQuote(r.Context(), v.ID)
	writeJSON(w, http.StatusOK, q)
}

// ShippingRequest is the JSON body for POST /api/shipping. The landed cost
// is computed on the vehicle's list price unless Price overrides it.
type ShippingRequest struct {
	VehicleID int `json:"vehicle_id"`
	Price     int `json:"price,omitempty"`
	pricing.ShippingRequest
}

func (s *server) handleShipping(w http.ResponseWriter, r *http.Request) {
	var req ShippingRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	v, err := s.data.Vehicle(r.Context(), req.VehicleID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	price := v.Price
	if req.Price > 0 {
		price = req.Price
	}
	q, err := pricing.QuoteShipping(price, req.ShippingRequest)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.metrics.Quotes.WithLabelValues("shipping").Inc()
	s.tracker.RecordQuote(r.Context(), v.ID)
	writeJSON(w, http.StatusOK, q)
}

func (s *server) handleActivity(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.tracker.Snapshot())
}

// --- Helpers ---

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid request body: %v", errBadRequest, err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps engine errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnknownVehicle), errors.Is(err, repo.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, errBadRequest),
		errors.Is(err, domain.ErrInvalidSelection),
		errors.Is(err, domain.ErrUnknownOption),
		errors.Is(err, pricing.ErrUnknownPayment),
		errors.Is(err, pricing.ErrInvalidTerm),
		errors.Is(err, pricing.ErrInvalidAmount),
		errors.Is(err, pricing.ErrUnknownPort),
		errors.Is(err, pricing.ErrUnknownMethod):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		s.log.Error("request failed", "path", r.URL.Path, "request_id", mid.RequestIDFrom(r.Context()), "err", err)
		msg = "internal server error"
	}
	writeJSON(w, status, map[string]string{"error": msg})
}
