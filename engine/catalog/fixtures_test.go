package catalog

import (
	"github.com/WessleyAI/showroom/engine/domain"
	"github.com/WessleyAI/showroom/pkg/fn"
)

func fleet() []domain.Vehicle {
	return []domain.Vehicle{
		{
			ID: 1, Make: "Mercedes-Benz", Model: "S-Class", Year: 2024, Price: 125000,
			Category: "Luxury Sedan", Mileage: 0, Transmission: "9-Speed Automatic", Fuel: "Hybrid",
			MPG: &domain.FuelEconomy{City: 28, Highway: 35, Combined: 31}, Seats: 5,
			Rating: domain.Rating(4.9), Available: true,
			Features: domain.NewFeatures(map[string][]string{
				"safety":     {"Night Vision", "Adaptive Cruise Control"},
				"technology": {"Head-Up Display"},
			}),
		},
		{
			ID: 2, Make: "BMW", Model: "M5", Year: 2024, Price: 110000,
			Category: "Performance Sedan", Mileage: 150, Transmission: "8-Speed Automatic", Fuel: "Gasoline",
			MPG: &domain.FuelEconomy{City: 18, Highway: 25, Combined: 21}, Seats: 5,
			Rating: domain.Rating(4.8), Available: true,
			Features: domain.FeatureList("Head-Up Display", "Apple CarPlay"),
		},
		{
			ID: 3, Make: "Porsche", Model: "911 Turbo S", Year: 2024, Price: 230000,
			Category: "Sports Car", Mileage: 500, Transmission: "8-Speed PDK", Fuel: "Gasoline",
			MPG: &domain.FuelEconomy{Combined: 21}, Seats: 4, Available: true,
		},
		{
			ID: 4, Make: "Tesla", Model: "Model S Plaid", Year: 2024, Price: 108000,
			Category: "Electric Sedan", Transmission: "Single-Speed", ElectricRange: 405,
			Rating: domain.Rating(4.7), Available: true,
		},
		{
			ID: 5, Make: "Ferrari", Model: "F8 Tributo", Year: 2023, Price: 380000,
			Category: "Supercar", Mileage: 250, Transmission: "7-Speed Dual-Clutch", Fuel: "Gasoline",
			MPG: &domain.FuelEconomy{Combined: 16}, Seats: 2, Rating: domain.Rating(5.0), Available: false,
		},
		{
			ID: 6, Make: "Audi", Model: "RS Q8", Year: 2024, Price: 125000,
			Category: "Performance SUV", Mileage: 750, Transmission: "8-Speed Tiptronic", Fuel: "Mild Hybrid",
			MPG: &domain.FuelEconomy{Combined: 17}, Seats: 5, Rating: domain.Rating(4.8), Available: true,
		},
	}
}

func ids(vs []domain.Vehicle) []int {
	return fn.Map(vs, func(v domain.Vehicle) int { return v.ID })
}
