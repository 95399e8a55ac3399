/*
seed.go - Demo catalog loader for testing and demonstrations

PURPOSE:

	Populates the store with a realistic storefront catalog and a small
	buyer directory for demos and manual testing. Idempotent it is not:
	loading twice duplicates the catalog, so only use it against a fresh
	store in development environments.

USAGE VIA API:

	POST /api/seed

SEE ALSO:
  - handlers.go: the rest of the API surface
  - cmd/server/main.go: the -seed flag loads this at startup
*/
package api

import (
	"context"
	"net/http"

	"github.com/storefront/inventory-engine/ledger"
)

// =============================================================================
// DEMO CATALOG
// =============================================================================

type seedProduct struct {
	name      string
	category  string
	unitPrice float64
	stock     int
}

var demoProducts = []seedProduct{
	{"Premium Emulsion Paint", "Paint", 4500, 120},
	{"Weather-Resistant Exterior", "Paint", 6500, 80},
	{"Steel Claw Hammer", "Tools", 1850, 45},
	{"Copper Wire Bundle", "Electrical", 4000, 200},
	{"PVC Conduit Pipe 20mm", "Electrical", 950, 30},
	{"Wood Primer Sealer", "Paint", 2200, 60},
}

type seedParty struct {
	kind    ledger.PartyKind
	name    string
	phone   string
	company string
}

var demoParties = []seedParty{
	{ledger.KindBuyer, "Rahul Sharma", "9811001100", ""},
	{ledger.KindBuyer, "Meena Traders", "9822002200", "Meena Traders Pvt Ltd"},
	{ledger.KindSupplier, "Apex Paint Distributors", "9833003300", "Apex Distributors"},
	{ledger.KindSupplier, "Unity Hardware Supply", "9844004400", "Unity Supply Co"},
}

// SeedDemo loads the demo catalog and directory into the store.
func (h *Handler) SeedDemo(w http.ResponseWriter, r *http.Request) {
	if err := h.loadDemoData(r.Context()); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "seeded"})
}

// LoadDemoData is the startup-time entry point for the -seed flag.
func (h *Handler) LoadDemoData(ctx context.Context) error {
	return h.loadDemoData(ctx)
}

func (h *Handler) loadDemoData(ctx context.Context) error {
	for _, sp := range demoProducts {
		price, err := ledger.NewMoney(sp.unitPrice)
		if err != nil {
			return err
		}
		qty, err := ledger.NewQuantity(sp.stock)
		if err != nil {
			return err
		}
		_, err = h.Store.CreateProduct(ctx, ledger.Product{
			Name:      sp.name,
			Category:  sp.category,
			UnitPrice: price,
			TotalQty:  qty,
		})
		if err != nil {
			return err
		}
	}

	for _, p := range demoParties {
		_, err := h.Store.CreateParty(ctx, ledger.Party{
			Kind:        p.kind,
			Name:        p.name,
			Phone:       p.phone,
			CompanyName: p.company,
		})
		if err != nil {
			return err
		}
	}
	return nil
}
