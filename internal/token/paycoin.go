package token

import (
	"math"
	"sync"

	"nftmarket/internal/market"
)

// MaxAllowance marks an unlimited allowance that is not decremented on use.
const MaxAllowance = math.MaxUint64

// PayCoin is an in-memory fungible payment token. The deployer may mint;
// anyone may approve spenders and transfer their own balance.
type PayCoin struct {
	mu         sync.Mutex
	symbol     string
	owner      market.Address
	balances   map[market.Address]uint64
	allowances map[market.Address]map[market.Address]uint64
	journal    *Journal
}

// NewPayCoin deploys a PayCoin owned by the given account.
func NewPayCoin(symbol string, owner market.Address, journal *Journal) *PayCoin {
	return &PayCoin{
		symbol:     symbol,
		owner:      owner,
		balances:   map[market.Address]uint64{},
		allowances: map[market.Address]map[market.Address]uint64{},
		journal:    journal,
	}
}

// Mint credits amount to an account. Deployer only.
func (p *PayCoin) Mint(caller, to market.Address, amount uint64) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if caller != p.owner {
		return ErrOnlyOwner
	}
	p.balances[to] += amount
	p.journal.record(p.symbol, market.ZeroAddress, to, 0, amount)
	return nil
}

// Approve lets spender move up to amount from the owner's balance.
// MaxAllowance never decrements.
func (p *PayCoin) Approve(owner, spender market.Address, amount uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.allowances[owner] == nil {
		p.allowances[owner] = map[market.Address]uint64{}
	}
	p.allowances[owner][spender] = amount
}

// Allowance returns what spender may still move from owner's balance.
func (p *PayCoin) Allowance(owner, spender market.Address) uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.allowances[owner][spender]
}

// BalanceOf returns the account's balance.
func (p *PayCoin) BalanceOf(owner market.Address) uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.balances[owner]
}

// Transfer moves amount from one account to another. A caller other than
// the source needs a sufficient allowance.
func (p *PayCoin) Transfer(caller, from, to market.Address, amount uint64) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	allowed := p.allowances[from][caller]
	if caller != from && allowed < amount {
		return ErrInsufficientAllowance
	}
	if p.balances[from] < amount {
		return ErrInsufficientFunds
	}

	if caller != from && allowed != MaxAllowance {
		if p.allowances[from] == nil {
			p.allowances[from] = map[market.Address]uint64{}
		}
		p.allowances[from][caller] = allowed - amount
	}
	p.balances[from] -= amount
	p.balances[to] += amount
	p.journal.record(p.symbol, from, to, 0, amount)
	return nil
}
