package market

import "errors"

// ErrInactiveSale is returned when a sale id does not reference a live sale.
var ErrInactiveSale = errors.New("inactive sale")

// ErrInactiveAuction is returned when an auction id does not reference a live auction.
var ErrInactiveAuction = errors.New("inactive auction")

// ErrNotSeller is returned when someone other than the seller tries to cancel.
var ErrNotSeller = errors.New("forbidden: not seller")

// ErrUnsuitableBidPrice is returned when a bid does not strictly exceed the current price.
var ErrUnsuitableBidPrice = errors.New("unsuitable bid price")

// ErrAuctionNotFinishable is returned when finishing is attempted before the
// auction duration has elapsed.
var ErrAuctionNotFinishable = errors.New("auction can't be finished yet")

// ErrInvalidPrice is returned when a listing price violates the zero-price policy.
var ErrInvalidPrice = errors.New("price must be greater than zero")

// ErrInvalidAmount is returned when a multi-supply listing specifies zero units.
var ErrInvalidAmount = errors.New("amount must be greater than zero")
