package token

import (
	"sync"

	"nftmarket/internal/market"
)

// UniqueToken is an in-memory unique-supply asset: every token id has
// exactly one owner. Minting is delegated to a single minter account set
// by the deployer.
type UniqueToken struct {
	mu        sync.Mutex
	name      string
	symbol    string
	owner     market.Address
	minter    market.Address
	owners    map[uint64]market.Address
	uris      map[uint64]string
	approved  map[uint64]market.Address
	operators map[market.Address]map[market.Address]bool
	journal   *Journal
}

// NewUniqueToken deploys a UniqueToken owned by the given account.
func NewUniqueToken(name, symbol string, owner market.Address, journal *Journal) *UniqueToken {
	return &UniqueToken{
		name:      name,
		symbol:    symbol,
		owner:     owner,
		owners:    map[uint64]market.Address{},
		uris:      map[uint64]string{},
		approved:  map[uint64]market.Address{},
		operators: map[market.Address]map[market.Address]bool{},
		journal:   journal,
	}
}

// Name returns the token name.
func (u *UniqueToken) Name() string {
	return u.name
}

// Symbol returns the token symbol.
func (u *UniqueToken) Symbol() string {
	return u.symbol
}

// SetMinter delegates minting to addr. Deployer only.
func (u *UniqueToken) SetMinter(caller, addr market.Address) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if caller != u.owner {
		return ErrOnlyOwner
	}
	u.minter = addr
	return nil
}

// Minter returns the delegated minting account.
func (u *UniqueToken) Minter() market.Address {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.minter
}

// Mint creates tokenID owned by to. Minter only.
func (u *UniqueToken) Mint(caller, to market.Address, uri string, tokenID uint64) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if caller != u.minter {
		return ErrOnlyMinter
	}
	if _, exists := u.owners[tokenID]; exists {
		return ErrTokenExists
	}

	u.owners[tokenID] = to
	u.uris[tokenID] = uri
	u.journal.record(u.symbol, market.ZeroAddress, to, tokenID, 0)
	return nil
}

// OwnerOf returns the owner of tokenID.
func (u *UniqueToken) OwnerOf(tokenID uint64) (market.Address, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	owner, ok := u.owners[tokenID]
	if !ok {
		return market.ZeroAddress, ErrUnknownToken
	}
	return owner, nil
}

// TokenURI returns the metadata URI of tokenID.
func (u *UniqueToken) TokenURI(tokenID uint64) (string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	uri, ok := u.uris[tokenID]
	if !ok {
		return "", ErrUnknownToken
	}
	return uri, nil
}

// Approve lets spender transfer tokenID once. Caller must own the token
// or be an operator of the owner.
func (u *UniqueToken) Approve(caller, spender market.Address, tokenID uint64) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	owner, ok := u.owners[tokenID]
	if !ok {
		return ErrUnknownToken
	}
	if caller != owner && !u.operators[owner][caller] {
		return ErrNotOwnerOrNotApproved
	}
	u.approved[tokenID] = spender
	return nil
}

// SetApprovalForAll lets operator transfer any of the caller's tokens.
func (u *UniqueToken) SetApprovalForAll(caller, operator market.Address, approved bool) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.operators[caller] == nil {
		u.operators[caller] = map[market.Address]bool{}
	}
	u.operators[caller][operator] = approved
}

// Transfer moves tokenID from one account to another, clearing any
// per-token approval. The caller must be the owner, the approved spender,
// or an operator of the owner.
func (u *UniqueToken) Transfer(caller, from, to market.Address, tokenID uint64) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	owner, ok := u.owners[tokenID]
	if !ok || owner != from {
		return ErrNotOwnerOrNotApproved
	}
	if caller != from && u.approved[tokenID] != caller && !u.operators[from][caller] {
		return ErrNotOwnerOrNotApproved
	}

	u.owners[tokenID] = to
	delete(u.approved, tokenID)
	u.journal.record(u.symbol, from, to, tokenID, 0)
	return nil
}
