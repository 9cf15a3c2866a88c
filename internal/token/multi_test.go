package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMultiTokenSetMinter(t *testing.T) {
	m := NewMultiToken("MMT", owner, NewJournal())

	require.NoError(t, m.SetMinter(owner, user1))
	assert.Equal(t, user1, m.Minter())

	assert.ErrorIs(t, m.SetMinter(user2, user2), ErrOnlyOwner)
}

func TestMultiTokenMint(t *testing.T) {
	j := NewJournal()
	m := NewMultiToken("MMT", owner, j)
	require.NoError(t, m.SetMinter(owner, owner))

	require.NoError(t, m.Mint(owner, user1, 3, testURI, 1))
	assert.Equal(t, uint64(3), m.BalanceOf(user1, 1))

	uri, err := m.TokenURI(1)
	require.NoError(t, err)
	assert.Equal(t, testURI, uri)

	ev, ok := j.Last()
	require.True(t, ok)
	assert.Equal(t, uint64(1), ev.TokenID)
	assert.Equal(t, uint64(3), ev.Amount)

	assert.ErrorIs(t, m.Mint(user1, user1, 1, testURI, 2), ErrOnlyMinter)

	// Minting the same id again adds supply.
	require.NoError(t, m.Mint(owner, user2, 2, testURI, 1))
	assert.Equal(t, uint64(2), m.BalanceOf(user2, 1))
}

func TestMultiTokenTransfer(t *testing.T) {
	m := NewMultiToken("MMT", owner, NewJournal())
	require.NoError(t, m.SetMinter(owner, owner))
	require.NoError(t, m.Mint(owner, user1, 5, testURI, 1))

	assert.ErrorIs(t, m.Transfer(user2, user1, user2, 1, 1), ErrNotOwnerOrNotApproved)
	assert.ErrorIs(t, m.Transfer(user1, user1, user2, 1, 6), ErrInsufficientFunds)

	require.NoError(t, m.Transfer(user1, user1, user2, 1, 2))
	assert.Equal(t, uint64(3), m.BalanceOf(user1, 1))
	assert.Equal(t, uint64(2), m.BalanceOf(user2, 1))
}

func TestMultiTokenOperator(t *testing.T) {
	m := NewMultiToken("MMT", owner, NewJournal())
	require.NoError(t, m.SetMinter(owner, owner))
	require.NoError(t, m.Mint(owner, user1, 5, testURI, 1))

	m.SetApprovalForAll(user1, user2, true)
	require.NoError(t, m.Transfer(user2, user1, user2, 1, 5))
	assert.Equal(t, uint64(5), m.BalanceOf(user2, 1))

	m.SetApprovalForAll(user1, user2, false)
	require.NoError(t, m.Transfer(user2, user2, user1, 1, 1))
	assert.ErrorIs(t, m.Transfer(user2, user1, user2, 1, 1), ErrNotOwnerOrNotApproved)
}
