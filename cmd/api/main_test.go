package main

import (
	"bytes"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/WessleyAI/showroom/engine/catalog"
	"github.com/WessleyAI/showroom/pkg/metrics"
	"github.com/WessleyAI/showroom/pkg/mid"
	"github.com/WessleyAI/showroom/pkg/resilience"
	"github.com/google/go-cmp/cmp"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg := loadConfig()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.CORSOrigin != "*" {
		t.Fatalf("expected default CORS *, got %s", cfg.CORSOrigin)
	}
	if cfg.NATSURL != "" {
		t.Fatalf("expected nats disabled by default, got %s", cfg.NATSURL)
	}
	if cfg.RateLimitRPS != 20 || cfg.RateLimitBurst != 40 {
		t.Fatalf("expected 20 rps / burst 40, got %v / %d", cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
}

func TestLoadConfig_Env(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("NATS_URL", "nats://broker:4222")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("RATE_LIMIT_BURST", "not-a-number")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := loadConfig()
	if cfg.Port != "9090" || cfg.NATSURL != "nats://broker:4222" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.RateLimitRPS != 2.5 {
		t.Fatalf("expected 2.5 rps, got %v", cfg.RateLimitRPS)
	}
	if cfg.RateLimitBurst != 40 {
		t.Fatalf("expected fallback burst 40, got %d", cfg.RateLimitBurst)
	}
	if parseLevel(cfg.LogLevel) != slog.LevelDebug {
		t.Fatalf("expected debug level, got %v", parseLevel(cfg.LogLevel))
	}
}

func TestParseLevel_Fallback(t *testing.T) {
	if got := parseLevel("loud"); got != slog.LevelInfo {
		t.Fatalf("expected info, got %v", got)
	}
	if got := parseLevel("WARN"); got != slog.LevelWarn {
		t.Fatalf("expected warn, got %v", got)
	}
}

func TestParseListRequest(t *testing.T) {
	q := url.Values{
		"q":            {" turbo "},
		"brand":        {"BMW,Audi", "Porsche"},
		"fuel":         {"Petrol"},
		"seats":        {"4, 5"},
		"feature":      {"Night Vision"},
		"min_price":    {"100000"},
		"availability": {"available"},
		"sort":         {"price-low"},
		"offset":       {"2"},
		"limit":        {"500"},
	}
	req, err := parseListRequest(q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := catalog.FilterState{
		Search:       "turbo",
		Brands:       []string{"BMW", "Audi", "Porsche"},
		FuelTypes:    []string{"Petrol"},
		Seating:      []int{4, 5},
		Features:     []string{"Night Vision"},
		Price:        &catalog.PriceRange{Min: 100000, Max: math.MaxInt},
		Availability: catalog.AvailabilityAvailable,
	}
	if diff := cmp.Diff(want, req.Filter); diff != "" {
		t.Fatalf("filter mismatch (-want +got):\n%s", diff)
	}
	if req.Sort != catalog.SortPriceLow {
		t.Fatalf("expected price-low, got %s", req.Sort)
	}
	if req.Page.Offset != 2 || req.Page.Limit != maxLimit {
		t.Fatalf("expected offset 2 limit %d, got %+v", maxLimit, req.Page)
	}
}

func TestParseListRequest_Defaults(t *testing.T) {
	req, err := parseListRequest(url.Values{"sort": {"bogus"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Sort != catalog.SortFeatured {
		t.Fatalf("expected featured for unknown sort, got %s", req.Sort)
	}
	if req.Filter.Price != nil {
		t.Fatalf("expected no price restriction, got %+v", req.Filter.Price)
	}
	if catalog.ActiveFilterCount(req.Filter) != 0 {
		t.Fatalf("expected no active filters, got %+v", req.Filter)
	}
}

func TestParseListRequest_Invalid(t *testing.T) {
	for _, q := range []url.Values{
		{"seats": {"two"}},
		{"min_price": {"-1"}},
		{"max_price": {"cheap"}},
		{"min_price": {"200"}, "max_price": {"100"}},
		{"offset": {"x"}},
	} {
		if _, err := parseListRequest(q); !errors.Is(err, errBadRequest) {
			t.Fatalf("expected bad request for %v, got %v", q, err)
		}
	}
}

func TestWithMiddleware_PanicLogCarriesRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	limiter := resilience.NewKeyedLimiter(resilience.LimiterOpts{Rate: 100, Burst: 100})
	h := withMiddleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}), loadConfig(), limiter, metrics.New(), logger)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/api/vehicles", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	id := rec.Header().Get(mid.RequestIDHeader)
	if id == "" {
		t.Fatal("expected a request id header")
	}
	if !strings.Contains(buf.String(), `"msg":"panic recovered"`) || !strings.Contains(buf.String(), `"request_id":"`+id+`"`) {
		t.Fatalf("expected the panic log to carry request id %s, got %s", id, buf.String())
	}
}
