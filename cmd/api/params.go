package main

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/WessleyAI/showroom/engine/catalog"
)

// maxLimit caps the page size of GET /api/vehicles.
const maxLimit = 100

// parseListRequest reads the catalog filters, sort key and page from query
// parameters. List parameters may repeat or hold comma-separated values.
func parseListRequest(q url.Values) (catalog.Request, error) {
	var req catalog.Request
	f := &req.Filter
	f.Search = strings.TrimSpace(q.Get("q"))
	f.Brands = multi(q, "brand")
	f.FuelTypes = multi(q, "fuel")
	f.Transmissions = multi(q, "transmission")
	f.BodyTypes = multi(q, "body")
	f.Features = multi(q, "feature")
	f.Availability = catalog.ParseAvailability(q.Get("availability"))

	for _, s := range multi(q, "seats") {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			return req, fmt.Errorf("%w: seats %q", errBadRequest, s)
		}
		f.Seating = append(f.Seating, n)
	}

	lo, hasLo, err := intParam(q, "min_price")
	if err != nil {
		return req, err
	}
	hi, hasHi, err := intParam(q, "max_price")
	if err != nil {
		return req, err
	}
	if hasLo || hasHi {
		if !hasHi {
			hi = math.MaxInt
		}
		if lo > hi {
			return req, fmt.Errorf("%w: min_price above max_price", errBadRequest)
		}
		f.Price = &catalog.PriceRange{Min: lo, Max: hi}
	}

	// Unknown sort keys fall back to the featured order.
	req.Sort, _ = catalog.ParseSortKey(q.Get("sort"))

	if req.Page.Offset, _, err = intParam(q, "offset"); err != nil {
		return req, err
	}
	if req.Page.Limit, _, err = intParam(q, "limit"); err != nil {
		return req, err
	}
	if req.Page.Limit == 0 || req.Page.Limit > maxLimit {
		req.Page.Limit = maxLimit
	}
	return req, nil
}

func multi(q url.Values, key string) []string {
	var out []string
	for _, raw := range q[key] {
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

// intParam parses a non-negative integer parameter.
func intParam(q url.Values, key string) (int, bool, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return 0, false, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, false, fmt.Errorf("%w: %s %q", errBadRequest, key, raw)
	}
	return n, true, nil
}
