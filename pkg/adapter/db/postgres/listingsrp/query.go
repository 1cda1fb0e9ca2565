package listingsrp

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/momeni/isolation-levels/pkg/adapter/db/postgres"
	"github.com/momeni/isolation-levels/pkg/core/model"
)

type gListing struct {
	ID    uuid.UUID `gorm:"primaryKey;type:uuid"`
	Buyer *string
}

func (gl *gListing) TableName() string {
	return "listings"
}

type gInvoice struct {
	ID        uuid.UUID `gorm:"primaryKey;type:uuid"`
	ListingID uuid.UUID `gorm:"type:uuid"`
	Recipient *string
}

func (gi *gInvoice) TableName() string {
	return "invoices"
}

// Reset deletes all invoices and listings rows and seeds the given
// fixture again, so scenarios always start from the same known row
// set with nil buyer and recipient values.
func Reset[Q postgres.Queryer](ctx context.Context, q Q, l model.Listing, i model.Invoice) error {
	gdb := q.GORM(ctx)
	if err := gdb.Exec("DELETE FROM invoices").Error; err != nil {
		return fmt.Errorf("deleting invoices: %w", err)
	}
	if err := gdb.Exec("DELETE FROM listings").Error; err != nil {
		return fmt.Errorf("deleting listings: %w", err)
	}
	gl := &gListing{ID: l.ID, Buyer: l.Buyer}
	if err := gdb.Create(gl).Error; err != nil {
		return fmt.Errorf("seeding listing: %w", err)
	}
	gi := &gInvoice{ID: i.ID, ListingID: i.ListingID, Recipient: i.Recipient}
	if err := gdb.Create(gi).Error; err != nil {
		return fmt.Errorf("seeding invoice: %w", err)
	}
	return nil
}

// SetBuyer updates the buyer of the listingID listing.
func SetBuyer[Q postgres.Queryer](ctx context.Context, q Q, listingID uuid.UUID, buyer string) error {
	gdb := q.GORM(ctx)
	tt := gdb.Model(&gListing{}).Where("id=?", listingID).Update(
		"buyer", buyer,
	)
	if err := tt.Error; err != nil {
		return fmt.Errorf("query: %w", err)
	}
	if n := tt.RowsAffected; n != 1 {
		return fmt.Errorf("expected one row, but got %d", n)
	}
	return nil
}

// SetRecipient updates the recipient of the invoice which belongs to
// the listingID listing.
func SetRecipient[Q postgres.Queryer](ctx context.Context, q Q, listingID uuid.UUID, recipient string) error {
	gdb := q.GORM(ctx)
	tt := gdb.Model(&gInvoice{}).Where("listing_id=?", listingID).Update(
		"recipient", recipient,
	)
	if err := tt.Error; err != nil {
		return fmt.Errorf("query: %w", err)
	}
	if n := tt.RowsAffected; n != 1 {
		return fmt.Errorf("expected one row, but got %d", n)
	}
	return nil
}

// PurchaseState reads back the buyer of the listingID listing and the
// recipient of its invoice, so the final state of a dirty writes case
// can be asserted.
func PurchaseState[Q postgres.Queryer](ctx context.Context, q Q, listingID uuid.UUID) (buyer, recipient *string, err error) {
	gdb := q.GORM(ctx)
	var gl gListing
	if err := gdb.Where("id=?", listingID).Take(&gl).Error; err != nil {
		return nil, nil, fmt.Errorf("listing query: %w", err)
	}
	var gi gInvoice
	err = gdb.Where("listing_id=?", listingID).Take(&gi).Error
	if err != nil {
		return nil, nil, fmt.Errorf("invoice query: %w", err)
	}
	return gl.Buyer, gi.Recipient, nil
}
