package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/sumit-fleet/fleet-booking/internal/config"
	"github.com/sumit-fleet/fleet-booking/internal/pricing"
	"github.com/sumit-fleet/fleet-booking/internal/quotes"
)

// Scenario is one offline pricing case. Distances are supplied so no
// provider is called.
type Scenario struct {
	Name       string
	Pickup     string
	Dropoff    string
	DistanceKm float64
	LoadTons   float64
	TruckType  string
	TripDate   string
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	assembler := quotes.NewAssembler(pricing.ParamsFromConfig(cfg.Pricing), cfg.Pricing.Location())

	scenarios := []Scenario{
		{"Intra-city hop", "Mumbai", "Thane", 32, 4, "10W", ""},
		{"Short haul", "Mumbai", "Pune", 149, 10, "12W", ""},
		{"Regional", "Bengaluru", "Chennai", 346, 12, "16W", ""},
		{"Long haul", "Mumbai", "Delhi", 1280, 15, "12W", ""},
		{"Heavy long haul", "Kolkata", "Hyderabad", 1490, 28, "22W", ""},
		{"Unknown class", "Jaipur", "Ahmedabad", 660, 9, "40W", ""},
	}

	fmt.Println("================================================================================")
	fmt.Println("QUOTE ENGINE - OFFLINE SCENARIOS")
	fmt.Printf("Diesel %.2f INR/l, opex %.2f INR/km, margin %.0f%%\n",
		cfg.Pricing.DieselPerLitre, cfg.Pricing.OpexPerKm, cfg.Pricing.MarginPct*100)
	fmt.Println("================================================================================")
	fmt.Println()

	results := make([]map[string]interface{}, 0, len(scenarios))

	fmt.Println("┌──────────────────────┬─────────┬────────┬───────┬──────────┬───────────┬────────┐")
	fmt.Println("│ Scenario             │ Km      │ Tons   │ Truck │ Premium% │ Quote INR │ Hours  │")
	fmt.Println("├──────────────────────┼─────────┼────────┼───────┼──────────┼───────────┼────────┤")

	for _, s := range scenarios {
		q := assembler.Assemble(quotes.AssembleInput{
			DistanceKm: s.DistanceKm,
			LoadTons:   s.LoadTons,
			TruckType:  s.TruckType,
			TripDate:   s.TripDate,
			Notes:      quotes.Notes{NoEntry: quotes.NoEntryNote(s.Pickup, s.Dropoff)},
		})

		name := s.Name
		if len(name) > 20 {
			name = name[:17] + "..."
		}
		fmt.Printf("│ %-20s │ %7.0f │ %6.1f │ %-5s │ %7.2f%% │ %9.0f │ %6.1f │\n",
			name, q.Distance, s.LoadTons, q.TruckProfile.Key, q.PremiumPct*100, q.Price, q.Time)

		results = append(results, map[string]interface{}{
			"scenario": s.Name,
			"pickup":   s.Pickup,
			"dropoff":  s.Dropoff,
			"quote":    q,
		})
	}

	fmt.Println("└──────────────────────┴─────────┴────────┴───────┴──────────┴───────────┴────────┘")
	fmt.Println()

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		log.Fatalf("encode results: %v", err)
	}
}
