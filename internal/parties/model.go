package parties

import (
	"fmt"
	"time"

	"github.com/annam-erp/annam-erp/internal/shared"
)

// Sentinel errors for the party registry.
var (
	ErrPartyNotFound = fmt.Errorf("%w: party", shared.ErrNotFound)
	ErrPartyHasDebts = fmt.Errorf("%w: party has debt entries", shared.ErrInvalidState)
)

// Party is a customer or supplier counterpart on documents and in the
// debt ledgers. The kind decides which table the record lives in.
type Party struct {
	ID        int64
	Name      string
	SearchKey string
	Phone     string
	IsActive  bool
	CreatedAt time.Time
}
