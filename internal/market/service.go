package market

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultAuctionDuration is the time lock between listing an auction
	// and the earliest moment it can be finished.
	DefaultAuctionDuration = 3 * 24 * time.Hour

	// DefaultMinBidsToClear is the number of bids an auction needs to
	// settle to the highest bidder. Below the threshold the auction is
	// void: a lone uncontested bid is not price discovery.
	DefaultMinBidsToClear = 2
)

// Config carries marketplace policy and wiring.
type Config struct {
	// Addr is the account the marketplace holds custody under.
	Addr Address

	// AuctionDuration overrides DefaultAuctionDuration when non-zero.
	AuctionDuration time.Duration

	// MinBidsToClear overrides DefaultMinBidsToClear when non-zero.
	MinBidsToClear uint64

	// AllowZeroPrice permits listings at price zero. Off by default.
	AllowZeroPrice bool

	// Clock overrides time.Now, used by tests to advance auctions.
	Clock func() time.Time
}

// Marketplace custodies assets on behalf of sellers and runs fixed-price
// sales and English auctions over them, settling payment in the pay token.
//
// Every state-changing operation is serialized behind a single mutex and
// either applies in full or leaves no effect: fallible transfers (the ones
// pulling funds or assets from a third party) always run before any record
// mutation, and transfers out of the marketplace's own custody cannot fail
// while the custody invariant holds.
type Marketplace struct {
	mu     sync.Mutex
	addr   Address
	unique UniqueAsset
	multi  MultiAsset
	pay    PayToken
	logger *zap.Logger
	now    func() time.Time

	auctionDuration time.Duration
	minBidsToClear  uint64
	allowZeroPrice  bool

	tokensCount   uint64
	salesCount    uint64
	auctionsCount uint64
	sales         map[uint64]Sale
	auctions      map[uint64]Auction
}

// New creates a Marketplace bound to its asset and payment contracts.
func New(cfg Config, unique UniqueAsset, multi MultiAsset, pay PayToken, logger *zap.Logger) *Marketplace {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.AuctionDuration == 0 {
		cfg.AuctionDuration = DefaultAuctionDuration
	}
	if cfg.MinBidsToClear == 0 {
		cfg.MinBidsToClear = DefaultMinBidsToClear
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}

	return &Marketplace{
		addr:            cfg.Addr,
		unique:          unique,
		multi:           multi,
		pay:             pay,
		logger:          logger,
		now:             cfg.Clock,
		auctionDuration: cfg.AuctionDuration,
		minBidsToClear:  cfg.MinBidsToClear,
		allowZeroPrice:  cfg.AllowZeroPrice,
		sales:           map[uint64]Sale{},
		auctions:        map[uint64]Auction{},
	}
}

// Addr returns the account the marketplace holds custody under.
func (m *Marketplace) Addr() Address {
	return m.addr
}

// CreateItem mints a new unique-supply token to the caller and returns its id.
// The marketplace must be the delegated minter on the asset contract.
func (m *Marketplace) CreateItem(caller Address, uri string) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.tokensCount++
	tokenID := m.tokensCount

	if err := m.unique.Mint(m.addr, caller, uri, tokenID); err != nil {
		m.tokensCount--
		return 0, err
	}

	m.logger.Info("item created", zap.Uint64("token_id", tokenID), zap.String("owner", string(caller)))
	return tokenID, nil
}

// CreateItems mints amount units of a new multi-supply token to the caller.
func (m *Marketplace) CreateItems(caller Address, amount uint64, uri string) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.tokensCount++
	tokenID := m.tokensCount

	if err := m.multi.Mint(m.addr, caller, amount, uri, tokenID); err != nil {
		m.tokensCount--
		return 0, err
	}

	m.logger.Info("items created",
		zap.Uint64("token_id", tokenID),
		zap.Uint64("amount", amount),
		zap.String("owner", string(caller)),
	)
	return tokenID, nil
}

// ListItem puts a unique-supply token up for fixed-price sale, taking the
// token into marketplace custody, and returns the sale id.
func (m *Marketplace) ListItem(seller Address, tokenID, price uint64) (uint64, error) {
	return m.list(KindUnique, seller, tokenID, price, 0)
}

// ListItems puts amount units of a multi-supply token up for fixed-price sale.
func (m *Marketplace) ListItems(seller Address, tokenID, price, amount uint64) (uint64, error) {
	if amount == 0 {
		return 0, ErrInvalidAmount
	}
	return m.list(KindMulti, seller, tokenID, price, amount)
}

func (m *Marketplace) list(kind AssetKind, seller Address, tokenID, price, amount uint64) (uint64, error) {
	if price == 0 && !m.allowZeroPrice {
		return 0, ErrInvalidPrice
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.transferAsset(kind, seller, m.addr, tokenID, amount); err != nil {
		return 0, err
	}

	id := m.salesCount
	m.sales[id] = Sale{Kind: kind, TokenID: tokenID, Amount: amount, Price: price, Seller: seller}
	m.salesCount++

	m.logger.Info("item listed",
		zap.Uint64("sale_id", id),
		zap.Uint64("token_id", tokenID),
		zap.Uint64("price", price),
		zap.Uint64("amount", amount),
		zap.String("seller", string(seller)),
	)
	return id, nil
}

// BuyItem settles a fixed-price sale: price moves from the buyer to the
// seller, the escrowed asset moves to the buyer, the record is deleted.
func (m *Marketplace) BuyItem(buyer Address, saleID uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.sales[saleID]
	if !s.Active() {
		return ErrInactiveSale
	}

	// The payment pull is the only leg that can fail. The asset leaves
	// marketplace custody only after it succeeded.
	if err := m.pay.Transfer(m.addr, buyer, s.Seller, s.Price); err != nil {
		return err
	}
	if err := m.transferAsset(s.Kind, m.addr, buyer, s.TokenID, s.Amount); err != nil {
		return err
	}

	delete(m.sales, saleID)

	m.logger.Info("item bought",
		zap.Uint64("sale_id", saleID),
		zap.Uint64("token_id", s.TokenID),
		zap.Uint64("price", s.Price),
		zap.String("seller", string(s.Seller)),
		zap.String("buyer", string(buyer)),
	)
	return nil
}

// Cancel returns a listed asset to its seller and deletes the sale.
// Only the recorded seller may cancel.
func (m *Marketplace) Cancel(caller Address, saleID uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.sales[saleID]
	if !s.Active() {
		return ErrInactiveSale
	}
	if s.Seller != caller {
		return ErrNotSeller
	}

	if err := m.transferAsset(s.Kind, m.addr, s.Seller, s.TokenID, s.Amount); err != nil {
		return err
	}

	delete(m.sales, saleID)

	m.logger.Info("sale cancelled", zap.Uint64("sale_id", saleID), zap.Uint64("token_id", s.TokenID))
	return nil
}

// ListItemOnAuction puts a unique-supply token up for auction at the given
// starting price and returns the auction id. The auction can be finished
// once the configured duration has elapsed.
func (m *Marketplace) ListItemOnAuction(seller Address, tokenID, startPrice uint64) (uint64, error) {
	return m.listOnAuction(KindUnique, seller, tokenID, startPrice, 0)
}

// ListItemsOnAuction puts amount units of a multi-supply token up for auction.
func (m *Marketplace) ListItemsOnAuction(seller Address, tokenID, startPrice, amount uint64) (uint64, error) {
	if amount == 0 {
		return 0, ErrInvalidAmount
	}
	return m.listOnAuction(KindMulti, seller, tokenID, startPrice, amount)
}

func (m *Marketplace) listOnAuction(kind AssetKind, seller Address, tokenID, startPrice, amount uint64) (uint64, error) {
	if startPrice == 0 && !m.allowZeroPrice {
		return 0, ErrInvalidPrice
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.transferAsset(kind, seller, m.addr, tokenID, amount); err != nil {
		return 0, err
	}

	id := m.auctionsCount
	m.auctions[id] = Auction{
		Kind:    kind,
		TokenID: tokenID,
		Amount:  amount,
		Price:   startPrice,
		Seller:  seller,
		EndTime: m.now().Add(m.auctionDuration),
	}
	m.auctionsCount++

	m.logger.Info("item listed on auction",
		zap.Uint64("auction_id", id),
		zap.Uint64("token_id", tokenID),
		zap.Uint64("start_price", startPrice),
		zap.Uint64("amount", amount),
		zap.String("seller", string(seller)),
	)
	return id, nil
}

// MakeBid escrows the bidder's price with the marketplace and refunds the
// displaced bidder, if any, in the same step. A bid must strictly exceed
// the current price.
func (m *Marketplace) MakeBid(bidder Address, auctionID, price uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	a := m.auctions[auctionID]
	if !a.Active() {
		return ErrInactiveAuction
	}
	if price <= a.Price {
		return ErrUnsuitableBidPrice
	}

	// Pull the new escrow first; only then release the displaced one,
	// so a rejected bidder never touches stored state.
	if err := m.pay.Transfer(m.addr, bidder, m.addr, price); err != nil {
		return err
	}
	if a.BidsCount > 0 {
		if err := m.pay.Transfer(m.addr, m.addr, a.Buyer, a.Price); err != nil {
			return err
		}
	}

	a.Price = price
	a.Buyer = bidder
	a.BidsCount++
	m.auctions[auctionID] = a

	m.logger.Info("bid made",
		zap.Uint64("auction_id", auctionID),
		zap.Uint64("price", price),
		zap.Uint64("bids_count", a.BidsCount),
		zap.String("bidder", string(bidder)),
	)
	return nil
}

// FinishAuction settles an auction after its time lock. With enough bids
// the asset goes to the highest bidder and the escrowed price to the
// seller; otherwise the asset returns to the seller and a lone bidder is
// refunded. The record is deleted either way.
func (m *Marketplace) FinishAuction(auctionID uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	a := m.auctions[auctionID]
	if !a.Active() {
		return ErrInactiveAuction
	}
	if m.now().Before(a.EndTime) {
		return ErrAuctionNotFinishable
	}

	cleared := a.BidsCount >= m.minBidsToClear
	if cleared {
		if err := m.transferAsset(a.Kind, m.addr, a.Buyer, a.TokenID, a.Amount); err != nil {
			return err
		}
		if err := m.pay.Transfer(m.addr, m.addr, a.Seller, a.Price); err != nil {
			return err
		}
	} else {
		if err := m.transferAsset(a.Kind, m.addr, a.Seller, a.TokenID, a.Amount); err != nil {
			return err
		}
		if a.BidsCount > 0 {
			if err := m.pay.Transfer(m.addr, m.addr, a.Buyer, a.Price); err != nil {
				return err
			}
		}
	}

	delete(m.auctions, auctionID)

	m.logger.Info("auction finished",
		zap.Uint64("auction_id", auctionID),
		zap.Uint64("token_id", a.TokenID),
		zap.Uint64("bids_count", a.BidsCount),
		zap.Bool("cleared", cleared),
	)
	return nil
}

// Sale returns the sale record for the id, or a zero (inactive) record if
// the id was never allocated or the sale already terminated.
func (m *Marketplace) Sale(saleID uint64) Sale {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sales[saleID]
}

// Auction returns the auction record for the id, or a zero (inactive) record.
func (m *Marketplace) Auction(auctionID uint64) Auction {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.auctions[auctionID]
}

// SalesCount returns the number of sales ever created, which is also the
// next sale id.
func (m *Marketplace) SalesCount() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.salesCount
}

// AuctionsCount returns the number of auctions ever created.
func (m *Marketplace) AuctionsCount() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.auctionsCount
}

// transferAsset dispatches on asset kind; amount is ignored for unique assets.
func (m *Marketplace) transferAsset(kind AssetKind, from, to Address, tokenID, amount uint64) error {
	if kind == KindMulti {
		return m.multi.Transfer(m.addr, from, to, tokenID, amount)
	}
	return m.unique.Transfer(m.addr, from, to, tokenID)
}
