package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"nftmarket/internal/market"
	"nftmarket/internal/token"
)

// InitRoutes registers every marketplace endpoint on the given gin engine.
func InitRoutes(e *gin.Engine, mp *market.Marketplace, unique *token.UniqueToken, multi *token.MultiToken, pay *token.PayCoin, journal *token.Journal, logger *zap.Logger) {
	h := NewMarketHandler(mp, unique, multi, pay, journal, logger)

	e.POST("/items", h.handleCreateItem)

	e.POST("/sales", h.handleListSale)
	e.GET("/sales/:id", h.handleGetSale)
	e.POST("/sales/:id/buy", h.handleBuyItem)
	e.POST("/sales/:id/cancel", h.handleCancelSale)

	e.POST("/auctions", h.handleListAuction)
	e.GET("/auctions/:id", h.handleGetAuction)
	e.POST("/auctions/:id/bids", h.handleMakeBid)
	e.POST("/auctions/:id/finish", h.handleFinishAuction)

	e.GET("/counts", h.handleCounts)
	e.GET("/events", h.handleEvents)
	e.GET("/balances/:addr", h.handleBalance)

	e.POST("/minter", h.handleSetMinter)
	e.POST("/approvals/pay", h.handleApprovePay)
	e.POST("/approvals/assets", h.handleApproveAssets)

	e.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
}
