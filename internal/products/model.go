package products

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/annam-erp/annam-erp/internal/shared"
)

// Sentinel errors for the product registry.
var (
	ErrVariantNotFound = fmt.Errorf("%w: product variant", shared.ErrNotFound)
	ErrVariantHasMoves = fmt.Errorf("%w: variant has inventory movements", shared.ErrInvalidState)
	ErrDuplicateSKU    = fmt.Errorf("%w: duplicate sku", shared.ErrValidation)
)

// Variant is a sellable product variant. Inventory balances, movements,
// and receipt items reference variants by id.
type Variant struct {
	ID        int64
	SKU       string
	Name      string
	SearchKey string
	Unit      string
	SalePrice decimal.Decimal
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
