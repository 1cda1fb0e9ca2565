package listingsrp

import (
	"context"

	"github.com/google/uuid"
	"github.com/momeni/isolation-levels/pkg/adapter/db/postgres"
	"github.com/momeni/isolation-levels/pkg/core/model"
	"github.com/momeni/isolation-levels/pkg/core/repo"
)

type Repo struct {
}

func New() *Repo {
	return &Repo{}
}

type connQueryer struct {
	*postgres.Conn
}

func (listings *Repo) Conn(c repo.Conn) repo.ListingsConnQueryer {
	cc := c.(*postgres.Conn)
	return connQueryer{Conn: cc}
}

func (cq connQueryer) Reset(ctx context.Context, l model.Listing, i model.Invoice) error {
	return Reset(ctx, cq.Conn, l, i)
}

func (cq connQueryer) PurchaseState(ctx context.Context, listingID uuid.UUID) (buyer, recipient *string, err error) {
	return PurchaseState(ctx, cq.Conn, listingID)
}

func (cq connQueryer) SetBuyer(ctx context.Context, listingID uuid.UUID, buyer string) error {
	return SetBuyer(ctx, cq.Conn, listingID, buyer)
}

func (cq connQueryer) SetRecipient(ctx context.Context, listingID uuid.UUID, recipient string) error {
	return SetRecipient(ctx, cq.Conn, listingID, recipient)
}

type txQueryer struct {
	*postgres.Tx
}

func (listings *Repo) Tx(tx repo.Tx) repo.ListingsTxQueryer {
	tt := tx.(*postgres.Tx)
	return txQueryer{Tx: tt}
}

func (tq txQueryer) SetBuyer(ctx context.Context, listingID uuid.UUID, buyer string) error {
	return SetBuyer(ctx, tq.Tx, listingID, buyer)
}

func (tq txQueryer) SetRecipient(ctx context.Context, listingID uuid.UUID, recipient string) error {
	return SetRecipient(ctx, tq.Tx, listingID, recipient)
}
