package cart

import (
	"fmt"

	"github.com/Kalzeracode/ingressosc/internal/catalog"
)

// Availability reports the live free units for a ticket type. The inventory
// ledger satisfies it.
type Availability interface {
	Available(id string) (int, bool)
}

// Validation collects every violation found in a cart; it never stops at
// the first problem so the UI can surface all of them at once.
type Validation struct {
	IsValid bool     `json:"isValid"`
	Errors  []string `json:"errors"`
}

// ValidateAgainstCatalog checks each line against the catalog and live
// availability: the ticket must exist, the quantity must not exceed the
// remaining availability, and it must respect the per-purchase maximum.
func ValidateAgainstCatalog(lines []Line, cat *catalog.Catalog, avail Availability) Validation {
	var errs []string
	for _, line := range lines {
		ticket, ok := cat.Ticket(line.TicketID)
		if !ok {
			errs = append(errs, fmt.Sprintf("ticket %s not found", line.TicketID))
			continue
		}
		if avail != nil {
			if free, ok := avail.Available(line.TicketID); ok && line.Quantity > free {
				errs = append(errs, fmt.Sprintf("only %d %s tickets available", free, ticket.Name))
			}
		}
		if line.Quantity > ticket.MaxPerPurchase {
			errs = append(errs, fmt.Sprintf("maximum %d %s tickets per purchase", ticket.MaxPerPurchase, ticket.Name))
		}
	}
	return Validation{IsValid: len(errs) == 0, Errors: errs}
}
