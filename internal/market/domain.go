package market

import "time"

// Address identifies an account. The empty string is the zero account,
// used as the "no seller" / "no buyer" sentinel inside records.
type Address string

// ZeroAddress is the zero-account sentinel.
const ZeroAddress Address = ""

// AssetKind selects the transfer semantics of a listed asset.
type AssetKind string

const (
	// KindUnique is an asset with exactly one owner per token id.
	KindUnique AssetKind = "unique"
	// KindMulti is an asset where a token id has a divisible quantity.
	KindMulti AssetKind = "multi"
)

// Sale is a fixed-price listing. A sale with Seller == ZeroAddress is
// inactive: either never created or already bought/cancelled.
type Sale struct {
	Kind    AssetKind `json:"kind,omitempty"`
	TokenID uint64    `json:"token_id"`
	Amount  uint64    `json:"amount"`
	Price   uint64    `json:"price"`
	Seller  Address   `json:"seller"`
}

// Active reports whether the sale record is live.
func (s Sale) Active() bool {
	return s.Seller != ZeroAddress
}

// Auction is an English-auction listing. Price holds the starting price
// until the first bid, then the current highest bid. Buyer is the current
// highest bidder. An auction with Seller == ZeroAddress is inactive.
type Auction struct {
	Kind      AssetKind `json:"kind,omitempty"`
	TokenID   uint64    `json:"token_id"`
	Amount    uint64    `json:"amount"`
	Price     uint64    `json:"price"`
	Seller    Address   `json:"seller"`
	Buyer     Address   `json:"buyer"`
	BidsCount uint64    `json:"bids_count"`
	EndTime   time.Time `json:"end_time"`
}

// Active reports whether the auction record is live.
func (a Auction) Active() bool {
	return a.Seller != ZeroAddress
}
