package main

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/WessleyAI/showroom/engine/activity"
	"github.com/WessleyAI/showroom/engine/catalog"
	"github.com/WessleyAI/showroom/engine/compare"
	"github.com/WessleyAI/showroom/engine/domain"
	"github.com/WessleyAI/showroom/engine/pricing"
	"github.com/WessleyAI/showroom/pkg/fn"
	"github.com/WessleyAI/showroom/pkg/natsutil"
	"github.com/WessleyAI/showroom/pkg/repo"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newListCmd(a *app) *cobra.Command {
	var (
		f            catalog.FilterState
		sortKey      string
		availability string
		minPrice     int
		maxPrice     int
		offset       int
		limit        int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List vehicles matching the given filters",
		Example: `  showroomctl list --brand BMW,Audi --sort price-low
  showroomctl list --fuel Electric --min-price 100000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := a.dataset()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("min-price") || cmd.Flags().Changed("max-price") {
				if !cmd.Flags().Changed("max-price") {
					maxPrice = math.MaxInt
				}
				f.Price = &catalog.PriceRange{Min: minPrice, Max: maxPrice}
			}
			f.Availability = catalog.ParseAvailability(availability)
			key, ok := catalog.ParseSortKey(sortKey)
			if !ok && sortKey != "" {
				printNote(cmd.ErrOrStderr(), "unknown sort %q, using %s", sortKey, key)
			}

			res := catalog.Search(cmd.Context(), data.Vehicles(), catalog.Request{
				Filter: f,
				Sort:   key,
				Page:   repo.ListOpts{Offset: offset, Limit: limit},
			})
			w := cmd.OutOrStdout()
			if res.Total == 0 {
				printNote(w, "No vehicles match the current filters.")
				return nil
			}
			t := newTable(nil, "ID", "Vehicle", "Year", "Price", "Fuel", "Seats", "Rating", "Status")
			for _, v := range res.Vehicles {
				t.Row(
					strconv.Itoa(v.ID),
					v.Name(),
					strconv.Itoa(v.Year),
					compare.FormatPrice(v.Price),
					v.FuelType(),
					strconv.Itoa(v.SeatCount()),
					strconv.FormatFloat(v.RatingOr(domain.DefaultRating), 'f', 1, 64),
					availabilityLabel(v),
				)
			}
			fmt.Fprintln(w, t.Render())
			printNote(w, "%d of %d vehicles, %d active filters, sorted by %s", len(res.Vehicles), res.Total, res.Active, key)
			return nil
		},
	}
	fl := cmd.Flags()
	fl.StringVarP(&f.Search, "search", "q", "", "match make, model or category")
	fl.StringSliceVar(&f.Brands, "brand", nil, "makes to include")
	fl.StringSliceVar(&f.FuelTypes, "fuel", nil, "fuel types to include")
	fl.StringSliceVar(&f.Transmissions, "transmission", nil, "transmissions to include")
	fl.StringSliceVar(&f.BodyTypes, "body", nil, "body types to include")
	fl.IntSliceVar(&f.Seating, "seats", nil, "seat counts to include")
	fl.StringSliceVar(&f.Features, "feature", nil, "features every vehicle must have")
	fl.IntVar(&minPrice, "min-price", 0, "lowest price")
	fl.IntVar(&maxPrice, "max-price", 0, "highest price")
	fl.StringVar(&availability, "availability", "all", "all, available or sold-out")
	fl.StringVarP(&sortKey, "sort", "s", string(catalog.SortFeatured), "sort order")
	fl.IntVar(&offset, "offset", 0, "skip this many matches")
	fl.IntVar(&limit, "limit", 0, "show at most this many (0 for all)")
	return cmd
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one vehicle in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := a.vehicle(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			printTitle(w, "%s", v.Title())
			t := newTable(nil, "", "")
			t.Row("Price", fmt.Sprintf("%s (or %s/mo)", compare.FormatPrice(v.Price), compare.FormatPrice(pricing.SimpleMonthly(v.Price))))
			t.Row("Category", v.Category)
			t.Row("Engine", v.Engine)
			t.Row("Power", fmt.Sprintf("%d hp / %d lb-ft", v.Horsepower, v.Torque))
			t.Row("0-60 mph", v.Acceleration)
			t.Row("Fuel", v.FuelType())
			t.Row("Transmission", v.Transmission)
			t.Row("Drivetrain", v.Drivetrain)
			t.Row("Seats", strconv.Itoa(v.SeatCount()))
			t.Row("Mileage", humanizeMiles(v.Mileage))
			t.Row("Status", availabilityLabel(v))
			t.Row("Dealership", strings.TrimSpace(v.Dealership.Name+" "+v.Dealership.Location))
			fmt.Fprintln(w, t.Render())
			for _, c := range v.Features.Categories() {
				printNote(w, "%s: %s", c, strings.Join(v.Features.Get(c), ", "))
			}
			return nil
		},
	}
}

func newCompareCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "compare <id> <id> [id] [id]",
		Short: "Compare two to four vehicles side by side",
		Args:  cobra.RangeArgs(compare.MinVehicles, compare.MaxVehicles),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := a.dataset()
			if err != nil {
				return err
			}
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			vehicles, err := compare.Resolve(cmd.Context(), data.Repo(), ids)
			if err != nil {
				return err
			}
			rows := compare.CompareContext(cmd.Context(), vehicles)

			headers := []string{"Specification"}
			for _, v := range vehicles {
				headers = append(headers, v.Name())
			}
			t := newTable(func(row, col int) bool {
				w := rows[row].WinnerID
				return col > 0 && w != nil && *w == vehicles[col-1].ID
			}, headers...)
			for _, r := range rows {
				t.Row(append([]string{r.Label}, r.Values...)...)
			}
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, t.Render())
			for _, key := range []string{compare.RowPrice, compare.RowHorsepower, compare.RowAcceleration} {
				if id, ok := compare.Winner(rows, key); ok {
					printNote(w, "best %s: %s", key, nameOf(vehicles, id))
				}
			}
			return nil
		},
	}
}

func newQuoteCmd(a *app) *cobra.Command {
	var cfg pricing.Configuration
	var payment string
	cmd := &cobra.Command{
		Use:   "quote <id>",
		Short: "Price a configured vehicle",
		Example: `  showroomctl quote 2 --color "Alpine White" --package "Executive Package"
  showroomctl quote 4 --payment lease --term 36 --down 10000`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := a.vehicle(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			cfg.VehicleID = v.ID
			cfg.Payment = pricing.PaymentMethod(strings.ToLower(payment))
			q, err := pricing.Configure(v, cfg)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			printTitle(w, "%s quote %s", q.Vehicle, q.ID)
			t := newTable(nil, "Item", "Choice", "Amount")
			for _, it := range q.Items {
				t.Row(it.Kind, it.Name, compare.FormatPrice(it.Amount))
			}
			if q.TradeIn > 0 {
				t.Row("trade-in", "", "-"+compare.FormatPrice(q.TradeIn))
			}
			t.Row("total", "", compare.FormatPrice(q.Total))
			fmt.Fprintln(w, t.Render())
			if p := q.Finance; p != nil {
				printNote(w, "%s: %s/mo for %d months at %.2f%% APR, %s down, %s paid in total",
					p.Method, dollars(p.Monthly), p.TermMonths, p.APR, compare.FormatPrice(p.DownPayment), dollars(p.TotalPaid))
			}
			return nil
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&cfg.Color, "color", "", "paint color (default: first offered)")
	fl.StringVar(&cfg.Interior, "interior", "", "interior trim")
	fl.StringVar(&cfg.Wheels, "wheels", "", "wheel set")
	fl.StringSliceVar(&cfg.Packages, "package", nil, "option packages")
	fl.StringVar(&payment, "payment", string(pricing.PaymentCash), "cash, finance or lease")
	fl.IntVar(&cfg.DownPayment, "down", 0, "down payment")
	fl.IntVar(&cfg.TermMonths, "term", 0, "financing term in months")
	fl.IntVar(&cfg.TradeIn, "trade-in", 0, "trade-in credit")
	return cmd
}

func newShipCmd(a *app) *cobra.Command {
	var req pricing.ShippingRequest
	cmd := &cobra.Command{
		Use:   "ship <id>",
		Short: "Estimate landed cost at a destination port",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := a.vehicle(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			q, err := pricing.QuoteShipping(v.Price, req)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			printTitle(w, "%s to %s, %s (%s weeks)", v.Name(), q.Port.Name, q.Method.Name, q.Method.Transit)
			t := newTable(nil, "Charge", "Amount")
			t.Row("Vehicle", compare.FormatPrice(v.Price))
			t.Row("Freight", dollars(q.Freight))
			t.Row("Insurance", dollars(q.Insurance))
			t.Row("Door delivery", dollars(q.DoorDelivery))
			t.Row("Import duty", dollars(q.ImportDuty))
			t.Row("VAT", dollars(q.VAT))
			t.Row("Total", dollars(q.Total))
			fmt.Fprintln(w, t.Render())
			return nil
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&req.Port, "port", "nyc", "destination port")
	fl.StringVar(&req.Method, "method", "standard", "standard, express or premium")
	fl.BoolVar(&req.Insurance, "insurance", false, "insure the shipment")
	fl.BoolVar(&req.DoorDelivery, "door", false, "deliver to the door")
	return cmd
}

func newActivityCmd(a *app) *cobra.Command {
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Show live showroom activity from a running API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.natsURL == "" {
				return fmt.Errorf("activity: --nats or NATS_URL is required")
			}
			nc, err := natsutil.Connect(a.natsURL, "showroomctl", a.logger(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			defer nc.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			snap, err := activity.FetchSnapshot(ctx, nc)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			printTitle(w, "Activity since %s", snap.Since.Local().Format(time.DateTime))
			printNote(w, "%d views, %d comparisons, %d quotes", snap.TotalViews, snap.Comparisons, snap.Quotes)
			if len(snap.Trending) == 0 {
				return nil
			}
			var byID map[int]domain.Vehicle
			if data, err := a.dataset(); err == nil {
				byID = fn.IndexBy(data.Vehicles(), func(v domain.Vehicle) int { return v.ID })
			}
			t := newTable(nil, "ID", "Vehicle", "Views")
			for _, id := range snap.Trending {
				t.Row(strconv.Itoa(id), byID[id].Name(), strconv.Itoa(snap.Views[id]))
			}
			fmt.Fprintln(w, t.Render())
			return nil
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", natsutil.DefaultRequestTimeout, "how long to wait for a server")
	return cmd
}

// --- Helpers ---

func (a *app) vehicle(ctx context.Context, arg string) (domain.Vehicle, error) {
	data, err := a.dataset()
	if err != nil {
		return domain.Vehicle{}, err
	}
	id, err := strconv.Atoi(arg)
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("vehicle id %q: not a number", arg)
	}
	return data.Vehicle(ctx, id)
}

func parseIDs(args []string) ([]int, error) {
	ids := make([]int, 0, len(args))
	for _, s := range args {
		id, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("vehicle id %q: not a number", s)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func nameOf(vehicles []domain.Vehicle, id int) string {
	for _, v := range vehicles {
		if v.ID == id {
			return v.Name()
		}
	}
	return strconv.Itoa(id)
}

func availabilityLabel(v domain.Vehicle) string {
	if v.Available {
		return "available"
	}
	return "sold out"
}

func humanizeMiles(n int) string {
	if n == 0 {
		return "new"
	}
	return humanize.Comma(int64(n)) + " mi"
}
