package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/annam-erp/annam-erp/internal/coa"
	"github.com/annam-erp/annam-erp/internal/debt"
	"github.com/annam-erp/annam-erp/internal/documents"
	"github.com/annam-erp/annam-erp/internal/inventory"
	"github.com/annam-erp/annam-erp/internal/ledger"
	"github.com/annam-erp/annam-erp/internal/parties"
	"github.com/annam-erp/annam-erp/internal/products"
	"github.com/annam-erp/annam-erp/internal/reports"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *Config
	AccountHandler   *coa.Handler
	LedgerHandler    *ledger.Handler
	InventoryHandler *inventory.Handler
	DebtHandler      *debt.Handler
	DocumentHandler  *documents.Handler
	ReportHandler    *reports.Handler
	PartyHandler     *parties.Handler
	ProductHandler   *products.Handler
}

// NewRouter assembles the chi router with the full middleware stack.
func NewRouter(p RouterParams) http.Handler {
	r := chi.NewRouter()
	for _, mw := range MiddlewareStack(p.Logger, p.Config) {
		r.Use(mw)
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api/v1", func(api chi.Router) {
		p.AccountHandler.Mount(api)
		p.LedgerHandler.Mount(api)
		p.InventoryHandler.Mount(api)
		p.DebtHandler.Mount(api)
		p.DocumentHandler.Mount(api)
		p.ReportHandler.Mount(api)
		p.PartyHandler.Mount(api)
		p.ProductHandler.Mount(api)
	})

	return r
}
