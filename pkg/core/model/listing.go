package model

import "github.com/google/uuid"

// Listing represents an item which is offered for sale. The Buyer is
// nil until someone purchases the listing.
type Listing struct {
	ID    uuid.UUID
	Buyer *string
}

// Invoice represents the bill which is issued for a listing purchase.
// Its Recipient must match the Buyer of the corresponding listing,
// assuming that concurrent purchase attempts are isolated properly.
type Invoice struct {
	ID        uuid.UUID
	ListingID uuid.UUID
	Recipient *string
}
