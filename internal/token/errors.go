package token

import "errors"

// ErrInsufficientFunds is returned when an account's balance cannot cover a transfer.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrInsufficientAllowance is returned when a spender lacks allowance for a transfer.
var ErrInsufficientAllowance = errors.New("insufficient allowance")

// ErrNotOwnerOrNotApproved is returned when the caller lacks custody of or
// transfer approval over the asset being moved.
var ErrNotOwnerOrNotApproved = errors.New("not owner or not approved")

// ErrOnlyOwner is returned when a deployer-only action is attempted by someone else.
var ErrOnlyOwner = errors.New("only owner")

// ErrOnlyMinter is returned when minting is attempted by anyone but the delegated minter.
var ErrOnlyMinter = errors.New("only minter")

// ErrUnknownToken is returned when a token id has never been minted.
var ErrUnknownToken = errors.New("unknown token")

// ErrTokenExists is returned when minting a unique token id twice.
var ErrTokenExists = errors.New("token already minted")
