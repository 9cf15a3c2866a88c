package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nftmarket/internal/market"
)

const (
	owner = market.Address("owner")
	user1 = market.Address("user1")
	user2 = market.Address("user2")

	testURI = "ipfs://item-metadata"
)

func TestUniqueTokenSetMinter(t *testing.T) {
	u := NewUniqueToken("Unique", "UNQ", owner, NewJournal())

	require.NoError(t, u.SetMinter(owner, user1))
	assert.Equal(t, user1, u.Minter())

	assert.ErrorIs(t, u.SetMinter(user1, user1), ErrOnlyOwner)
}

func TestUniqueTokenMint(t *testing.T) {
	j := NewJournal()
	u := NewUniqueToken("Unique", "UNQ", owner, j)
	require.NoError(t, u.SetMinter(owner, user1))

	require.NoError(t, u.Mint(user1, user1, testURI, 1))

	holder, err := u.OwnerOf(1)
	require.NoError(t, err)
	assert.Equal(t, user1, holder)

	uri, err := u.TokenURI(1)
	require.NoError(t, err)
	assert.Equal(t, testURI, uri)

	// Mints show up as transfers from the zero account.
	ev, ok := j.Last()
	require.True(t, ok)
	assert.NotEmpty(t, ev.ID)
	assert.Equal(t, market.ZeroAddress, ev.From)
	assert.Equal(t, user1, ev.To)
	assert.Equal(t, uint64(1), ev.TokenID)

	assert.ErrorIs(t, u.Mint(owner, user1, testURI, 2), ErrOnlyMinter)
	assert.ErrorIs(t, u.Mint(user1, user1, testURI, 1), ErrTokenExists)
}

func TestUniqueTokenTransfer(t *testing.T) {
	u := NewUniqueToken("Unique", "UNQ", owner, NewJournal())
	require.NoError(t, u.SetMinter(owner, owner))
	require.NoError(t, u.Mint(owner, user1, testURI, 1))

	assert.ErrorIs(t, u.Transfer(user2, user1, user2, 1), ErrNotOwnerOrNotApproved)
	assert.ErrorIs(t, u.Transfer(user1, user2, user1, 1), ErrNotOwnerOrNotApproved)
	assert.ErrorIs(t, u.Transfer(user1, user1, user2, 99), ErrNotOwnerOrNotApproved)

	require.NoError(t, u.Transfer(user1, user1, user2, 1))
	holder, err := u.OwnerOf(1)
	require.NoError(t, err)
	assert.Equal(t, user2, holder)
}

func TestUniqueTokenApprove(t *testing.T) {
	u := NewUniqueToken("Unique", "UNQ", owner, NewJournal())
	require.NoError(t, u.SetMinter(owner, owner))
	require.NoError(t, u.Mint(owner, user1, testURI, 1))

	assert.ErrorIs(t, u.Approve(user2, user2, 1), ErrNotOwnerOrNotApproved)
	assert.ErrorIs(t, u.Approve(user1, user2, 99), ErrUnknownToken)

	require.NoError(t, u.Approve(user1, user2, 1))
	require.NoError(t, u.Transfer(user2, user1, user2, 1))

	// A transfer consumes the per-token approval.
	require.NoError(t, u.Mint(owner, user1, testURI, 2))
	require.NoError(t, u.Approve(user1, user2, 2))
	require.NoError(t, u.Transfer(user2, user1, owner, 2))
	assert.ErrorIs(t, u.Transfer(user2, owner, user2, 2), ErrNotOwnerOrNotApproved)
}

func TestUniqueTokenOperator(t *testing.T) {
	u := NewUniqueToken("Unique", "UNQ", owner, NewJournal())
	require.NoError(t, u.SetMinter(owner, owner))
	require.NoError(t, u.Mint(owner, user1, testURI, 1))

	u.SetApprovalForAll(user1, user2, true)
	require.NoError(t, u.Transfer(user2, user1, user2, 1))

	u.SetApprovalForAll(user2, user1, false)
	assert.ErrorIs(t, u.Transfer(user1, user2, user1, 1), ErrNotOwnerOrNotApproved)
}

func TestUniqueTokenMetadata(t *testing.T) {
	u := NewUniqueToken("Market Unique", "MUQ", owner, NewJournal())
	assert.Equal(t, "Market Unique", u.Name())
	assert.Equal(t, "MUQ", u.Symbol())

	_, err := u.OwnerOf(1)
	assert.ErrorIs(t, err, ErrUnknownToken)
	_, err = u.TokenURI(1)
	assert.ErrorIs(t, err, ErrUnknownToken)
}
