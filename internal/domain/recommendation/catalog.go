package recommendation

import (
	"context"

	audittypes "github.com/wattwise/HomeAudit-Intelligence/pkg/types/audit"
)

// CatalogProvider supplies candidate products for a recommendation type.
// Implementations may be backed by a database or a cache; StaticCatalog is
// the built-in fallback.
type CatalogProvider interface {
	ProductsFor(ctx context.Context, recType string, limit int) ([]audittypes.Product, error)
}

// StaticCatalog is the compiled-in product set, used when no external
// catalog is wired or as a fallback when one fails.
type StaticCatalog struct{}

// NewStaticCatalog returns the built-in catalog.
func NewStaticCatalog() *StaticCatalog { return &StaticCatalog{} }

var staticProducts = map[string][]audittypes.Product{
	TypeHVACUpgrade: {
		{Name: "XR16 High-Efficiency Heat Pump", Brand: "Trane", Category: "hvac", PriceUSD: 6400, Efficiency: "HSPF 9.5"},
		{Name: "Infinity 98 Gas Furnace", Brand: "Carrier", Category: "hvac", PriceUSD: 5200, Efficiency: "AFUE 98.5"},
		{Name: "S9V2 Two-Stage Furnace", Brand: "Lennox", Category: "hvac", PriceUSD: 4100, Efficiency: "AFUE 96"},
	},
	TypeLightingUpgrade: {
		{Name: "A19 LED Bulb 60W Equivalent 24-Pack", Brand: "Philips", Category: "lighting", PriceUSD: 54, Efficiency: "9W LED"},
		{Name: "BR30 LED Flood 12-Pack", Brand: "Cree", Category: "lighting", PriceUSD: 72, Efficiency: "11W LED"},
		{Name: "Smart LED Starter Kit", Brand: "GE", Category: "lighting", PriceUSD: 119, Efficiency: "10W LED"},
	},
	TypeInsulation: {
		{Name: "R-38 Blown-In Attic Insulation", Brand: "Owens Corning", Category: "insulation", PriceUSD: 1350, Efficiency: "R-38"},
		{Name: "R-15 Wall Batt Insulation", Brand: "Johns Manville", Category: "insulation", PriceUSD: 680, Efficiency: "R-15"},
		{Name: "Spray Foam Kit 600 BF", Brand: "Froth-Pak", Category: "insulation", PriceUSD: 790, Efficiency: "R-6.5/in"},
	},
	TypeWindows: {
		{Name: "Tuscany Series Double-Pane Vinyl Window", Brand: "Milgard", Category: "windows", PriceUSD: 520, Efficiency: "U-0.29"},
		{Name: "E-Series Triple-Pane Window", Brand: "Andersen", Category: "windows", PriceUSD: 940, Efficiency: "U-0.18"},
		{Name: "Low-E Insulated Replacement Window", Brand: "Pella", Category: "windows", PriceUSD: 610, Efficiency: "U-0.27"},
	},
	TypeDehumidifier: {
		{Name: "50-Pint Energy Star Dehumidifier", Brand: "Frigidaire", Category: "dehumidifier", PriceUSD: 249, Efficiency: "Energy Star"},
		{Name: "Whole-Home Ducted Dehumidifier", Brand: "Aprilaire", Category: "dehumidifier", PriceUSD: 1350, Efficiency: "5.8 L/kWh"},
		{Name: "70-Pint Dehumidifier with Pump", Brand: "hOmeLabs", Category: "dehumidifier", PriceUSD: 319, Efficiency: "Energy Star"},
	},
}

// ProductsFor returns up to limit products for the recommendation type.
// Unknown types yield an empty slice, never an error.
func (c *StaticCatalog) ProductsFor(_ context.Context, recType string, limit int) ([]audittypes.Product, error) {
	products := staticProducts[recType]
	if limit > 0 && len(products) > limit {
		products = products[:limit]
	}
	out := make([]audittypes.Product, len(products))
	copy(out, products)
	return out, nil
}
