package repo

import (
	"context"

	"github.com/google/uuid"

	"github.com/momeni/isolation-levels/pkg/core/model"
)

type ListingsConnQueryer interface {
	ListingsQueryer

	// Reset deletes all invoices and listings rows and seeds the given
	// fixture again. Running it twice in a row yields the same rows.
	Reset(ctx context.Context, l model.Listing, i model.Invoice) error

	// PurchaseState reads back the buyer of the listingID listing and
	// the recipient of its invoice for the final state assertions.
	PurchaseState(ctx context.Context, listingID uuid.UUID) (buyer, recipient *string, err error)
}

type ListingsTxQueryer interface {
	ListingsQueryer
}

type ListingsQueryer interface {
	// SetBuyer updates the buyer of the listingID listing.
	SetBuyer(ctx context.Context, listingID uuid.UUID, buyer string) error

	// SetRecipient updates the recipient of the invoice which belongs
	// to the listingID listing.
	SetRecipient(ctx context.Context, listingID uuid.UUID, recipient string) error
}

type Listings interface {
	Conn(Conn) ListingsConnQueryer
	Tx(Tx) ListingsTxQueryer
}
