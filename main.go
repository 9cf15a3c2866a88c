package main

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"nftmarket/api"
	"nftmarket/internal/config"
	"nftmarket/internal/market"
	"nftmarket/internal/token"
)

func main() {
	cfg := config.Load()

	var logger *zap.Logger
	var err error
	if cfg.Debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		panic(fmt.Errorf("error creating logger: %v", err))
	}
	defer logger.Sync()

	owner := market.Address(cfg.OwnerAddr)
	marketAddr := market.Address(cfg.MarketAddr)

	// Deploy the token contracts and the marketplace bound to them, then
	// delegate minting to the marketplace.
	journal := token.NewJournal()
	unique := token.NewUniqueToken("Market Unique", "MUQ", owner, journal)
	multi := token.NewMultiToken("MMT", owner, journal)
	pay := token.NewPayCoin("PAY", owner, journal)

	mp := market.New(market.Config{
		Addr:            marketAddr,
		AuctionDuration: cfg.AuctionDuration,
		MinBidsToClear:  cfg.MinBidsToClear,
		AllowZeroPrice:  cfg.AllowZeroPrice,
	}, unique, multi, pay, logger)

	if err := unique.SetMinter(owner, marketAddr); err != nil {
		logger.Fatal("can't delegate unique-asset minting", zap.Error(err))
	}
	if err := multi.SetMinter(owner, marketAddr); err != nil {
		logger.Fatal("can't delegate multi-asset minting", zap.Error(err))
	}

	// Seed dev accounts with pay-token balance and marketplace approvals.
	seeded := append([]string{cfg.OwnerAddr}, cfg.SeedAccounts...)
	for _, acct := range seeded {
		addr := market.Address(acct)
		if err := pay.Mint(owner, addr, cfg.SeedBalance); err != nil {
			logger.Fatal("can't seed account", zap.String("account", acct), zap.Error(err))
		}
		pay.Approve(addr, marketAddr, token.MaxAllowance)
		unique.SetApprovalForAll(addr, marketAddr, true)
		multi.SetApprovalForAll(addr, marketAddr, true)
	}

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	api.InitRoutes(r, mp, unique, multi, pay, journal, logger)

	logger.Info("marketplace listening",
		zap.String("addr", cfg.ListenAddr),
		zap.String("market_addr", cfg.MarketAddr),
		zap.Duration("auction_duration", cfg.AuctionDuration),
	)
	if err := r.Run(cfg.ListenAddr); err != nil {
		panic(fmt.Errorf("error trying to start server: %v", err))
	}
}
