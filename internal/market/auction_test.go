package market_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nftmarket/internal/market"
	"nftmarket/internal/token"
)

func TestListItemOnAuction(t *testing.T) {
	f := newFixture(t, market.Config{})

	tokenID, err := f.mp.CreateItem(ownerAddr, metadataURI)
	require.NoError(t, err)

	auctionID, err := f.mp.ListItemOnAuction(ownerAddr, tokenID, price)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), auctionID)
	assert.Equal(t, uint64(1), f.mp.AuctionsCount())

	holder, err := f.unique.OwnerOf(tokenID)
	require.NoError(t, err)
	assert.Equal(t, marketAddr, holder)

	a := f.mp.Auction(auctionID)
	assert.Equal(t, market.KindUnique, a.Kind)
	assert.Equal(t, tokenID, a.TokenID)
	assert.Equal(t, uint64(0), a.Amount)
	assert.Equal(t, price, a.Price)
	assert.Equal(t, ownerAddr, a.Seller)
	assert.Equal(t, market.ZeroAddress, a.Buyer)
	assert.Equal(t, uint64(0), a.BidsCount)
	assert.Equal(t, f.clock.Now().Add(market.DefaultAuctionDuration), a.EndTime)
}

func TestListItemsOnAuction(t *testing.T) {
	f := newFixture(t, market.Config{})

	tokenID, err := f.mp.CreateItems(ownerAddr, 10, metadataURI)
	require.NoError(t, err)

	auctionID, err := f.mp.ListItemsOnAuction(ownerAddr, tokenID, price, 10)
	require.NoError(t, err)

	assert.Equal(t, uint64(0), f.multi.BalanceOf(ownerAddr, tokenID))
	assert.Equal(t, uint64(10), f.multi.BalanceOf(marketAddr, tokenID))

	a := f.mp.Auction(auctionID)
	assert.Equal(t, market.KindMulti, a.Kind)
	assert.Equal(t, uint64(10), a.Amount)
}

func TestListItemsOnAuctionZeroAmount(t *testing.T) {
	f := newFixture(t, market.Config{})

	tokenID, err := f.mp.CreateItems(ownerAddr, 10, metadataURI)
	require.NoError(t, err)

	_, err = f.mp.ListItemsOnAuction(ownerAddr, tokenID, price, 0)
	assert.ErrorIs(t, err, market.ErrInvalidAmount)
	assert.Equal(t, uint64(0), f.mp.AuctionsCount())
	assert.Equal(t, uint64(10), f.multi.BalanceOf(ownerAddr, tokenID))
}

func TestMakeBid(t *testing.T) {
	f := newFixture(t, market.Config{})

	tokenID, err := f.mp.CreateItem(ownerAddr, metadataURI)
	require.NoError(t, err)
	auctionID, err := f.mp.ListItemOnAuction(ownerAddr, tokenID, price)
	require.NoError(t, err)

	// A bid must strictly exceed the current price.
	assert.ErrorIs(t, f.mp.MakeBid(user1Addr, auctionID, price), market.ErrUnsuitableBidPrice)
	assert.Equal(t, uint64(0), f.mp.Auction(auctionID).BidsCount)
	assert.Equal(t, seedBalance, f.pay.BalanceOf(user1Addr))

	require.NoError(t, f.mp.MakeBid(user1Addr, auctionID, price+1))
	assert.Equal(t, price+1, f.pay.BalanceOf(marketAddr), "escrow equals the current highest bid")
	assert.Equal(t, seedBalance-(price+1), f.pay.BalanceOf(user1Addr))

	a := f.mp.Auction(auctionID)
	assert.Equal(t, price+1, a.Price)
	assert.Equal(t, user1Addr, a.Buyer)
	assert.Equal(t, uint64(1), a.BidsCount)

	// The displaced bidder is refunded in the same step.
	require.NoError(t, f.mp.MakeBid(user2Addr, auctionID, price+2))
	assert.Equal(t, price+2, f.pay.BalanceOf(marketAddr))
	assert.Equal(t, seedBalance, f.pay.BalanceOf(user1Addr))
	assert.Equal(t, seedBalance-(price+2), f.pay.BalanceOf(user2Addr))

	a = f.mp.Auction(auctionID)
	assert.Equal(t, price+2, a.Price)
	assert.Equal(t, user2Addr, a.Buyer)
	assert.Equal(t, uint64(2), a.BidsCount)

	assert.ErrorIs(t, f.mp.MakeBid(user1Addr, 99, price*10), market.ErrInactiveAuction)
}

func TestMakeBidInsufficientFunds(t *testing.T) {
	f := newFixture(t, market.Config{})

	tokenID, err := f.mp.CreateItem(ownerAddr, metadataURI)
	require.NoError(t, err)
	auctionID, err := f.mp.ListItemOnAuction(ownerAddr, tokenID, price)
	require.NoError(t, err)
	require.NoError(t, f.mp.MakeBid(user1Addr, auctionID, price+1))

	before := f.mp.Auction(auctionID)
	err = f.mp.MakeBid(pauperAddr, auctionID, price+2)
	assert.ErrorIs(t, err, token.ErrInsufficientFunds)

	assert.Equal(t, before, f.mp.Auction(auctionID), "rejected bid must not change stored state")
	assert.Equal(t, price+1, f.pay.BalanceOf(marketAddr), "rejected bid must not touch the escrow")
}

func TestFinishAuctionTooEarly(t *testing.T) {
	f := newFixture(t, market.Config{})

	tokenID, err := f.mp.CreateItem(ownerAddr, metadataURI)
	require.NoError(t, err)
	auctionID, err := f.mp.ListItemOnAuction(ownerAddr, tokenID, price)
	require.NoError(t, err)

	assert.ErrorIs(t, f.mp.FinishAuction(auctionID), market.ErrAuctionNotFinishable)

	f.clock.Advance(market.DefaultAuctionDuration - time.Second)
	assert.ErrorIs(t, f.mp.FinishAuction(auctionID), market.ErrAuctionNotFinishable)
	assert.True(t, f.mp.Auction(auctionID).Active())
}

func TestFinishAuctionCleared(t *testing.T) {
	f := newFixture(t, market.Config{})

	tokenID, err := f.mp.CreateItem(ownerAddr, metadataURI)
	require.NoError(t, err)
	auctionID, err := f.mp.ListItemOnAuction(ownerAddr, tokenID, price)
	require.NoError(t, err)

	require.NoError(t, f.mp.MakeBid(user1Addr, auctionID, price+1))
	require.NoError(t, f.mp.MakeBid(user2Addr, auctionID, price+2))

	f.clock.Advance(market.DefaultAuctionDuration)
	require.NoError(t, f.mp.FinishAuction(auctionID))

	holder, err := f.unique.OwnerOf(tokenID)
	require.NoError(t, err)
	assert.Equal(t, user2Addr, holder)
	assert.Equal(t, seedBalance+price+2, f.pay.BalanceOf(ownerAddr))
	assert.Equal(t, seedBalance-(price+2), f.pay.BalanceOf(user2Addr))
	assert.Equal(t, seedBalance, f.pay.BalanceOf(user1Addr))
	assert.Equal(t, uint64(0), f.pay.BalanceOf(marketAddr), "no escrow may remain after settlement")

	assert.Equal(t, market.Auction{}, f.mp.Auction(auctionID))
	assert.ErrorIs(t, f.mp.FinishAuction(auctionID), market.ErrInactiveAuction)
}

func TestFinishAuctionSingleBidVoid(t *testing.T) {
	f := newFixture(t, market.Config{})

	tokenID, err := f.mp.CreateItems(ownerAddr, 10, metadataURI)
	require.NoError(t, err)
	auctionID, err := f.mp.ListItemsOnAuction(ownerAddr, tokenID, price, 10)
	require.NoError(t, err)

	require.NoError(t, f.mp.MakeBid(user1Addr, auctionID, price*2))

	f.clock.Advance(market.DefaultAuctionDuration)
	require.NoError(t, f.mp.FinishAuction(auctionID))

	// One bid is not price discovery: the auction voids, everyone is made whole.
	assert.Equal(t, uint64(10), f.multi.BalanceOf(ownerAddr, tokenID))
	assert.Equal(t, uint64(0), f.multi.BalanceOf(marketAddr, tokenID))
	assert.Equal(t, seedBalance, f.pay.BalanceOf(user1Addr))
	assert.Equal(t, seedBalance, f.pay.BalanceOf(ownerAddr))
	assert.Equal(t, uint64(0), f.pay.BalanceOf(marketAddr))
	assert.False(t, f.mp.Auction(auctionID).Active())
}

func TestFinishAuctionNoBids(t *testing.T) {
	f := newFixture(t, market.Config{})

	tokenID, err := f.mp.CreateItem(ownerAddr, metadataURI)
	require.NoError(t, err)
	auctionID, err := f.mp.ListItemOnAuction(ownerAddr, tokenID, price)
	require.NoError(t, err)

	f.clock.Advance(market.DefaultAuctionDuration)
	require.NoError(t, f.mp.FinishAuction(auctionID))

	holder, err := f.unique.OwnerOf(tokenID)
	require.NoError(t, err)
	assert.Equal(t, ownerAddr, holder)
	assert.Equal(t, seedBalance, f.pay.BalanceOf(ownerAddr))
	assert.False(t, f.mp.Auction(auctionID).Active())
}

func TestFinishAuctionClearThreshold(t *testing.T) {
	f := newFixture(t, market.Config{MinBidsToClear: 1})

	tokenID, err := f.mp.CreateItem(ownerAddr, metadataURI)
	require.NoError(t, err)
	auctionID, err := f.mp.ListItemOnAuction(ownerAddr, tokenID, price)
	require.NoError(t, err)
	require.NoError(t, f.mp.MakeBid(user1Addr, auctionID, price+1))

	f.clock.Advance(market.DefaultAuctionDuration)
	require.NoError(t, f.mp.FinishAuction(auctionID))

	// With the threshold lowered to one bid, the lone bidder wins.
	holder, err := f.unique.OwnerOf(tokenID)
	require.NoError(t, err)
	assert.Equal(t, user1Addr, holder)
	assert.Equal(t, seedBalance+price+1, f.pay.BalanceOf(ownerAddr))
}

func TestAuctionDurationConfigurable(t *testing.T) {
	f := newFixture(t, market.Config{AuctionDuration: time.Hour})

	tokenID, err := f.mp.CreateItem(ownerAddr, metadataURI)
	require.NoError(t, err)
	auctionID, err := f.mp.ListItemOnAuction(ownerAddr, tokenID, price)
	require.NoError(t, err)

	assert.ErrorIs(t, f.mp.FinishAuction(auctionID), market.ErrAuctionNotFinishable)
	f.clock.Advance(time.Hour)
	require.NoError(t, f.mp.FinishAuction(auctionID))
}

func TestAuctionIDsNotReused(t *testing.T) {
	f := newFixture(t, market.Config{})

	tokenID, err := f.mp.CreateItem(ownerAddr, metadataURI)
	require.NoError(t, err)
	auctionID, err := f.mp.ListItemOnAuction(ownerAddr, tokenID, price)
	require.NoError(t, err)

	f.clock.Advance(market.DefaultAuctionDuration)
	require.NoError(t, f.mp.FinishAuction(auctionID))

	nextID, err := f.mp.ListItemOnAuction(ownerAddr, tokenID, price)
	require.NoError(t, err)
	assert.Equal(t, auctionID+1, nextID)
	assert.False(t, f.mp.Auction(auctionID).Active())
}
