package recommendation

import (
	"context"

	"github.com/wattwise/HomeAudit-Intelligence/internal/infrastructure/monitoring/logging"
	audittypes "github.com/wattwise/HomeAudit-Intelligence/pkg/types/audit"
)

// MaxProductsPerRecommendation bounds the product list attached to any
// single recommendation.
const MaxProductsPerRecommendation = 3

// Matcher attaches catalog products to recommendations.  Matching is purely
// additive: it never mutates a recommendation's type, priority, or financial
// fields, and a catalog failure leaves the recommendation intact with no
// products.
type Matcher struct {
	catalog  CatalogProvider
	fallback CatalogProvider
	log      logging.Logger
}

// NewMatcher constructs a Matcher over the given catalog.  A nil catalog
// means only the built-in static catalog is consulted.
func NewMatcher(catalog CatalogProvider, log logging.Logger) *Matcher {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Matcher{catalog: catalog, fallback: NewStaticCatalog(), log: log}
}

// Match fills the Products field of each recommendation in place.  The
// maintenance recommendation never receives products.
func (m *Matcher) Match(ctx context.Context, recs []audittypes.Recommendation) {
	for i := range recs {
		if recs[i].Type == TypeMaintain {
			continue
		}
		recs[i].Products = m.productsFor(ctx, recs[i].Type)
	}
}

func (m *Matcher) productsFor(ctx context.Context, recType string) []audittypes.Product {
	if m.catalog != nil {
		products, err := m.catalog.ProductsFor(ctx, recType, MaxProductsPerRecommendation)
		if err == nil && len(products) > 0 {
			return products
		}
		if err != nil {
			m.log.Warn("catalog lookup failed, using built-in products",
				logging.String("type", recType),
				logging.Err(err))
		}
	}

	products, err := m.fallback.ProductsFor(ctx, recType, MaxProductsPerRecommendation)
	if err != nil {
		return nil
	}
	return products
}
