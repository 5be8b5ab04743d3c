package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/WessleyAI/showroom/engine/activity"
	"github.com/WessleyAI/showroom/engine/catalog"
	"github.com/WessleyAI/showroom/engine/compare"
	"github.com/WessleyAI/showroom/engine/dataset"
	"github.com/WessleyAI/showroom/engine/pricing"
	"github.com/WessleyAI/showroom/pkg/metrics"
	"github.com/WessleyAI/showroom/pkg/mid"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func newTestServer(t *testing.T) (*server, http.Handler) {
	t.Helper()
	data, err := dataset.Default()
	if err != nil {
		t.Fatalf("load dataset: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := newServer(data, activity.NewTracker(nil, logger), metrics.New(), logger)
	return srv, mid.Chain(srv.routes(), mid.RequestID(), mid.Recover(logger), mid.Metrics(srv.metrics))
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = bytes.NewBufferString(body)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, r))
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return v
}

func TestHealthEndpoint(t *testing.T) {
	_, h := newTestServer(t)
	rec := do(t, h, "GET", "/api/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	resp := decode[map[string]any](t, rec)
	if resp["status"] != "ok" {
		t.Fatalf("expected status ok, got %v", resp["status"])
	}
	if rec.Header().Get(mid.RequestIDHeader) == "" {
		t.Fatal("expected a request id header")
	}
}

func TestListVehicles_All(t *testing.T) {
	srv, h := newTestServer(t)
	rec := do(t, h, "GET", "/api/vehicles", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	res := decode[catalog.Result](t, rec)
	if res.Total != len(srv.data.Vehicles()) || len(res.Vehicles) != res.Total {
		t.Fatalf("expected every vehicle, got total %d page %d", res.Total, len(res.Vehicles))
	}
	if got := testutil.ToFloat64(srv.metrics.Searches); got != 1 {
		t.Fatalf("expected 1 search counted, got %v", got)
	}
}

func TestListVehicles_FilterAndSort(t *testing.T) {
	_, h := newTestServer(t)
	rec := do(t, h, "GET", "/api/vehicles?brand=bmw,Audi&sort=price-high", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	res := decode[catalog.Result](t, rec)
	if res.Total != 2 {
		t.Fatalf("expected 2 matches, got %d", res.Total)
	}
	if res.Vehicles[0].Make != "Audi" || res.Vehicles[1].Make != "BMW" {
		t.Fatalf("expected Audi then BMW, got %s then %s", res.Vehicles[0].Make, res.Vehicles[1].Make)
	}
	if res.Active != 2 {
		t.Fatalf("expected 2 active filters, got %d", res.Active)
	}
}

func TestListVehicles_Pagination(t *testing.T) {
	_, h := newTestServer(t)
	res := decode[catalog.Result](t, do(t, h, "GET", "/api/vehicles?sort=name-asc&offset=1&limit=2", ""))
	if len(res.Vehicles) != 2 || res.Offset != 1 || res.Limit != 2 {
		t.Fatalf("unexpected page %+v", res)
	}
}

func TestListVehicles_BadParam(t *testing.T) {
	_, h := newTestServer(t)
	rec := do(t, h, "GET", "/api/vehicles?min_price=abc", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(decode[map[string]string](t, rec)["error"], "min_price") {
		t.Fatal("expected the error to name the parameter")
	}
}

func TestGetVehicle(t *testing.T) {
	srv, h := newTestServer(t)
	do(t, h, "GET", "/api/vehicles/2", "")
	rec := do(t, h, "GET", "/api/vehicles/2", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	d := decode[VehicleDetail](t, rec)
	if d.Vehicle.ID != 2 || d.Vehicle.Make != "BMW" {
		t.Fatalf("unexpected vehicle %+v", d.Vehicle)
	}
	if d.Viewing != 2 || srv.tracker.Views(2) != 2 {
		t.Fatalf("expected 2 views, got %d", d.Viewing)
	}
	if d.Teaser != pricing.SimpleMonthly(d.Vehicle.Price) {
		t.Fatalf("expected teaser %d, got %d", pricing.SimpleMonthly(d.Vehicle.Price), d.Teaser)
	}
	if len(d.Options.Colors) == 0 {
		t.Fatal("expected color options")
	}
	if d.Dealership == nil {
		t.Fatal("expected the selling dealership")
	}
}

func TestGetVehicle_Errors(t *testing.T) {
	_, h := newTestServer(t)
	if rec := do(t, h, "GET", "/api/vehicles/999", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if rec := do(t, h, "GET", "/api/vehicles/abc", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestFacetsAndDealerships(t *testing.T) {
	srv, h := newTestServer(t)
	f := decode[catalog.Facets](t, do(t, h, "GET", "/api/facets", ""))
	if f.Count != len(srv.data.Vehicles()) || len(f.Makes) == 0 {
		t.Fatalf("unexpected facets %+v", f)
	}
	rec := do(t, h, "GET", "/api/dealerships", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := decode[[]map[string]any](t, rec); len(got) != len(srv.data.Dealerships()) {
		t.Fatalf("expected %d dealerships, got %d", len(srv.data.Dealerships()), len(got))
	}
}

func TestCompare(t *testing.T) {
	srv, h := newTestServer(t)
	rec := do(t, h, "POST", "/api/compare", `{"ids":[2,7]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}
	resp := decode[CompareResponse](t, rec)
	if len(resp.Vehicles) != 2 {
		t.Fatalf("expected 2 vehicles, got %d", len(resp.Vehicles))
	}
	id, ok := compare.Winner(resp.Rows, compare.RowPrice)
	if !ok || id != 2 {
		t.Fatalf("expected the BMW to win on price, got %d (%v)", id, ok)
	}
	if srv.tracker.Snapshot().Comparisons != 1 {
		t.Fatal("expected the comparison to be tracked")
	}
	if got := testutil.ToFloat64(srv.metrics.Comparisons); got != 1 {
		t.Fatalf("expected 1 comparison counted, got %v", got)
	}
}

func TestCompare_Errors(t *testing.T) {
	_, h := newTestServer(t)
	cases := []struct {
		body string
		want int
	}{
		{`{"ids":[2]}`, http.StatusBadRequest},
		{`{"ids":[1,2,3,4,5]}`, http.StatusBadRequest},
		{`{"ids":[2,2]}`, http.StatusBadRequest},
		{`{"ids":[2,999]}`, http.StatusNotFound},
		{`not json`, http.StatusBadRequest},
		{`{"ids":[1,2],"extra":true}`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		if rec := do(t, h, "POST", "/api/compare", tc.body); rec.Code != tc.want {
			t.Fatalf("%s: expected %d, got %d", tc.body, tc.want, rec.Code)
		}
	}
}

func TestConfigure(t *testing.T) {
	srv, h := newTestServer(t)
	rec := do(t, h, "POST", "/api/configure", `{"vehicle_id":2,"payment":"finance","term_months":48,"down_payment":10000}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}
	q := decode[pricing.Quote](t, rec)
	if q.ID == "" || q.VehicleID != 2 {
		t.Fatalf("unexpected quote %+v", q)
	}
	if q.Finance == nil || q.Finance.TermMonths != 48 || q.Finance.Monthly <= 0 {
		t.Fatalf("expected a 48 month finance plan, got %+v", q.Finance)
	}
	if got := testutil.ToFloat64(srv.metrics.Quotes.WithLabelValues("configure")); got != 1 {
		t.Fatalf("expected 1 configure quote counted, got %v", got)
	}
}

func TestConfigure_Errors(t *testing.T) {
	_, h := newTestServer(t)
	cases := []struct {
		body string
		want int
	}{
		{`{"vehicle_id":999}`, http.StatusNotFound},
		{`{"vehicle_id":2,"color":"Hot Pink"}`, http.StatusBadRequest},
		{`{"vehicle_id":2,"payment":"barter"}`, http.StatusBadRequest},
		{`{"vehicle_id":2,"payment":"finance","term_months":7}`, http.StatusBadRequest},
		{`{"vehicle_id":2,"trade_in":-5}`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		if rec := do(t, h, "POST", "/api/configure", tc.body); rec.Code != tc.want {
			t.Fatalf("%s: expected %d, got %d", tc.body, tc.want, rec.Code)
		}
	}
}

func TestShipping(t *testing.T) {
	_, h := newTestServer(t)
	rec := do(t, h, "POST", "/api/shipping", `{"vehicle_id":2,"port":"london","method":"express","insurance":true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}
	q := decode[pricing.ShippingQuote](t, rec)
	want, err := pricing.QuoteShipping(110000, pricing.ShippingRequest{Port: "london", Method: "express", Insurance: true})
	if err != nil {
		t.Fatal(err)
	}
	if q.Total != want.Total {
		t.Fatalf("expected total %v, got %v", want.Total, q.Total)
	}

	if rec := do(t, h, "POST", "/api/shipping", `{"vehicle_id":2,"port":"atlantis"}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown port, got %d", rec.Code)
	}
}

func TestActivity(t *testing.T) {
	_, h := newTestServer(t)
	do(t, h, "GET", "/api/vehicles/4", "")
	do(t, h, "POST", "/api/configure", `{"vehicle_id":4}`)
	snap := decode[activity.Snapshot](t, do(t, h, "GET", "/api/activity", ""))
	if snap.TotalViews != 1 || snap.Views[4] != 1 || snap.Quotes != 1 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	if len(snap.Trending) == 0 || snap.Trending[0] != 4 {
		t.Fatalf("expected vehicle 4 trending, got %v", snap.Trending)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	_, h := newTestServer(t)
	do(t, h, "GET", "/api/health", "")
	rec := do(t, h, "GET", "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `showroom_http_requests_total{method="GET",route="GET /api/health",status="200"} 1`) {
		t.Fatalf("expected the health request to be counted, got:\n%s", body)
	}
	if !strings.Contains(body, "showroom_catalog_vehicles") {
		t.Fatal("expected the catalog gauge to be exported")
	}
}

func TestStatusFor(t *testing.T) {
	if got := statusFor(io.ErrUnexpectedEOF); got != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", got)
	}
	if got := statusFor(compare.ErrTooFew); got != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", got)
	}
}
