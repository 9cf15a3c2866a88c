package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"nftmarket/internal/market"
	"nftmarket/internal/token"
)

// marketHandler holds the marketplace engine and its token contracts and
// implements the HTTP handlers for every marketplace operation. Caller
// identity is an explicit request field: authentication is out of scope.
type marketHandler struct {
	market  *market.Marketplace
	unique  *token.UniqueToken
	multi   *token.MultiToken
	pay     *token.PayCoin
	journal *token.Journal
	logger  *zap.Logger
}

// NewMarketHandler creates a new marketplace handler.
func NewMarketHandler(mp *market.Marketplace, unique *token.UniqueToken, multi *token.MultiToken, pay *token.PayCoin, journal *token.Journal, logger *zap.Logger) *marketHandler {
	return &marketHandler{
		market:  mp,
		unique:  unique,
		multi:   multi,
		pay:     pay,
		journal: journal,
		logger:  logger,
	}
}

// handleCreateItem handles POST /items. A zero amount mints a unique-supply
// token, a positive amount mints a multi-supply one.
func (h *marketHandler) handleCreateItem(c *gin.Context) {
	var req struct {
		Caller string `json:"caller"`
		URI    string `json:"uri"`
		Amount uint64 `json:"amount"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	var (
		tokenID uint64
		err     error
	)
	if req.Amount > 0 {
		tokenID, err = h.market.CreateItems(market.Address(req.Caller), req.Amount, req.URI)
	} else {
		tokenID, err = h.market.CreateItem(market.Address(req.Caller), req.URI)
	}
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"token_id": tokenID})
}

// handleListSale handles POST /sales.
func (h *marketHandler) handleListSale(c *gin.Context) {
	var req struct {
		Caller  string `json:"caller"`
		TokenID uint64 `json:"token_id"`
		Price   uint64 `json:"price"`
		Amount  uint64 `json:"amount"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	var (
		saleID uint64
		err    error
	)
	if req.Amount > 0 {
		saleID, err = h.market.ListItems(market.Address(req.Caller), req.TokenID, req.Price, req.Amount)
	} else {
		saleID, err = h.market.ListItem(market.Address(req.Caller), req.TokenID, req.Price)
	}
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"sale_id": saleID})
}

// handleBuyItem handles POST /sales/:id/buy.
func (h *marketHandler) handleBuyItem(c *gin.Context) {
	saleID, ok := parseID(c)
	if !ok {
		return
	}

	var req struct {
		Caller string `json:"caller"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	if err := h.market.BuyItem(market.Address(req.Caller), saleID); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"sale_id": saleID})
}

// handleCancelSale handles POST /sales/:id/cancel.
func (h *marketHandler) handleCancelSale(c *gin.Context) {
	saleID, ok := parseID(c)
	if !ok {
		return
	}

	var req struct {
		Caller string `json:"caller"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	if err := h.market.Cancel(market.Address(req.Caller), saleID); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"sale_id": saleID})
}

// handleGetSale handles GET /sales/:id. Unknown and terminated sales both
// come back as the zero record.
func (h *marketHandler) handleGetSale(c *gin.Context) {
	saleID, ok := parseID(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, h.market.Sale(saleID))
}

// handleListAuction handles POST /auctions.
func (h *marketHandler) handleListAuction(c *gin.Context) {
	var req struct {
		Caller     string `json:"caller"`
		TokenID    uint64 `json:"token_id"`
		StartPrice uint64 `json:"start_price"`
		Amount     uint64 `json:"amount"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	var (
		auctionID uint64
		err       error
	)
	if req.Amount > 0 {
		auctionID, err = h.market.ListItemsOnAuction(market.Address(req.Caller), req.TokenID, req.StartPrice, req.Amount)
	} else {
		auctionID, err = h.market.ListItemOnAuction(market.Address(req.Caller), req.TokenID, req.StartPrice)
	}
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"auction_id": auctionID})
}

// handleMakeBid handles POST /auctions/:id/bids.
func (h *marketHandler) handleMakeBid(c *gin.Context) {
	auctionID, ok := parseID(c)
	if !ok {
		return
	}

	var req struct {
		Caller string `json:"caller"`
		Price  uint64 `json:"price"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	if err := h.market.MakeBid(market.Address(req.Caller), auctionID, req.Price); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"auction_id": auctionID, "price": req.Price})
}

// handleFinishAuction handles POST /auctions/:id/finish.
func (h *marketHandler) handleFinishAuction(c *gin.Context) {
	auctionID, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.market.FinishAuction(auctionID); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"auction_id": auctionID})
}

// handleGetAuction handles GET /auctions/:id.
func (h *marketHandler) handleGetAuction(c *gin.Context) {
	auctionID, ok := parseID(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, h.market.Auction(auctionID))
}

// handleCounts handles GET /counts.
func (h *marketHandler) handleCounts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"sales_count":    h.market.SalesCount(),
		"auctions_count": h.market.AuctionsCount(),
	})
}

// handleEvents handles GET /events, exposing the token transfer journal.
func (h *marketHandler) handleEvents(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"events": h.journal.Events()})
}

// handleBalance handles GET /balances/:addr for the pay token.
func (h *marketHandler) handleBalance(c *gin.Context) {
	addr := market.Address(c.Param("addr"))
	c.JSON(http.StatusOK, gin.H{"address": addr, "balance": h.pay.BalanceOf(addr)})
}

// handleSetMinter handles POST /minter, delegating minting authority on one
// of the asset contracts.
func (h *marketHandler) handleSetMinter(c *gin.Context) {
	var req struct {
		Caller string `json:"caller"`
		Kind   string `json:"kind"`
		Addr   string `json:"addr"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	var err error
	switch market.AssetKind(req.Kind) {
	case market.KindUnique:
		err = h.unique.SetMinter(market.Address(req.Caller), market.Address(req.Addr))
	case market.KindMulti:
		err = h.multi.SetMinter(market.Address(req.Caller), market.Address(req.Addr))
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown asset kind"})
		return
	}
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"kind": req.Kind, "minter": req.Addr})
}

// handleApprovePay handles POST /approvals/pay: the caller allows the
// marketplace to spend up to amount of their pay token.
func (h *marketHandler) handleApprovePay(c *gin.Context) {
	var req struct {
		Caller string `json:"caller"`
		Amount uint64 `json:"amount"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	h.pay.Approve(market.Address(req.Caller), h.market.Addr(), req.Amount)
	c.JSON(http.StatusOK, gin.H{"spender": h.market.Addr(), "amount": req.Amount})
}

// handleApproveAssets handles POST /approvals/assets: the caller makes the
// marketplace an operator on both asset contracts so it can take listings
// into custody.
func (h *marketHandler) handleApproveAssets(c *gin.Context) {
	var req struct {
		Caller   string `json:"caller"`
		Approved bool   `json:"approved"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	caller := market.Address(req.Caller)
	h.unique.SetApprovalForAll(caller, h.market.Addr(), req.Approved)
	h.multi.SetApprovalForAll(caller, h.market.Addr(), req.Approved)
	c.JSON(http.StatusOK, gin.H{"operator": h.market.Addr(), "approved": req.Approved})
}

func (h *marketHandler) writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, market.ErrInactiveSale),
		errors.Is(err, market.ErrInactiveAuction),
		errors.Is(err, token.ErrUnknownToken):
		status = http.StatusNotFound
	case errors.Is(err, market.ErrNotSeller),
		errors.Is(err, token.ErrOnlyOwner),
		errors.Is(err, token.ErrOnlyMinter),
		errors.Is(err, token.ErrNotOwnerOrNotApproved):
		status = http.StatusForbidden
	case errors.Is(err, market.ErrUnsuitableBidPrice),
		errors.Is(err, market.ErrInvalidPrice),
		errors.Is(err, market.ErrInvalidAmount),
		errors.Is(err, token.ErrTokenExists):
		status = http.StatusBadRequest
	case errors.Is(err, market.ErrAuctionNotFinishable):
		status = http.StatusConflict
	case errors.Is(err, token.ErrInsufficientFunds),
		errors.Is(err, token.ErrInsufficientAllowance):
		status = http.StatusPaymentRequired
	default:
		h.logger.Error("unexpected marketplace error", zap.Error(err))
	}

	c.JSON(status, gin.H{"error": err.Error()})
}

func parseID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}
