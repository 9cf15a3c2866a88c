package market

// UniqueAsset is the capability the marketplace consumes from a
// unique-supply asset contract. The caller argument is the account
// performing the transfer, checked against ownership and approvals by
// the contract itself.
type UniqueAsset interface {
	OwnerOf(tokenID uint64) (Address, error)
	Transfer(caller, from, to Address, tokenID uint64) error
	Mint(caller, to Address, uri string, tokenID uint64) error
}

// MultiAsset is the capability the marketplace consumes from a
// multi-supply asset contract.
type MultiAsset interface {
	BalanceOf(owner Address, tokenID uint64) uint64
	Transfer(caller, from, to Address, tokenID, amount uint64) error
	Mint(caller, to Address, amount uint64, uri string, tokenID uint64) error
}

// PayToken moves fungible value between parties. Transfers on behalf of
// another account require an allowance granted to the caller.
type PayToken interface {
	BalanceOf(owner Address) uint64
	Transfer(caller, from, to Address, amount uint64) error
}
