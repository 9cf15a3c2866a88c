package token

import (
	"sync"

	"nftmarket/internal/market"
)

// MultiToken is an in-memory multi-supply asset: every token id has a
// quantity distributed across holders. Minting is delegated to a single
// minter account set by the deployer.
type MultiToken struct {
	mu        sync.Mutex
	symbol    string
	owner     market.Address
	minter    market.Address
	balances  map[uint64]map[market.Address]uint64
	uris      map[uint64]string
	operators map[market.Address]map[market.Address]bool
	journal   *Journal
}

// NewMultiToken deploys a MultiToken owned by the given account.
func NewMultiToken(symbol string, owner market.Address, journal *Journal) *MultiToken {
	return &MultiToken{
		symbol:    symbol,
		owner:     owner,
		balances:  map[uint64]map[market.Address]uint64{},
		uris:      map[uint64]string{},
		operators: map[market.Address]map[market.Address]bool{},
		journal:   journal,
	}
}

// SetMinter delegates minting to addr. Deployer only.
func (t *MultiToken) SetMinter(caller, addr market.Address) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if caller != t.owner {
		return ErrOnlyOwner
	}
	t.minter = addr
	return nil
}

// Minter returns the delegated minting account.
func (t *MultiToken) Minter() market.Address {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.minter
}

// Mint credits amount units of tokenID to to. Minter only.
func (t *MultiToken) Mint(caller, to market.Address, amount uint64, uri string, tokenID uint64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if caller != t.minter {
		return ErrOnlyMinter
	}
	if t.balances[tokenID] == nil {
		t.balances[tokenID] = map[market.Address]uint64{}
	}
	t.balances[tokenID][to] += amount
	t.uris[tokenID] = uri
	t.journal.record(t.symbol, market.ZeroAddress, to, tokenID, amount)
	return nil
}

// BalanceOf returns how many units of tokenID the account holds.
func (t *MultiToken) BalanceOf(owner market.Address, tokenID uint64) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.balances[tokenID][owner]
}

// TokenURI returns the metadata URI of tokenID.
func (t *MultiToken) TokenURI(tokenID uint64) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	uri, ok := t.uris[tokenID]
	if !ok {
		return "", ErrUnknownToken
	}
	return uri, nil
}

// SetApprovalForAll lets operator transfer any of the caller's holdings.
func (t *MultiToken) SetApprovalForAll(caller, operator market.Address, approved bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.operators[caller] == nil {
		t.operators[caller] = map[market.Address]bool{}
	}
	t.operators[caller][operator] = approved
}

// Transfer moves amount units of tokenID between accounts. The caller
// must be the holder or an operator of the holder, and the holder must
// have at least amount units.
func (t *MultiToken) Transfer(caller, from, to market.Address, tokenID, amount uint64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if caller != from && !t.operators[from][caller] {
		return ErrNotOwnerOrNotApproved
	}
	holders := t.balances[tokenID]
	if holders[from] < amount {
		return ErrInsufficientFunds
	}

	if holders == nil {
		holders = map[market.Address]uint64{}
		t.balances[tokenID] = holders
	}
	holders[from] -= amount
	holders[to] += amount
	t.journal.record(t.symbol, from, to, tokenID, amount)
	return nil
}
