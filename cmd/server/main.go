package main

import (
	"context"
	"log"
	"math/big"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	ledgerhttp "nix/api/http"
	"nix/config"
	"nix/domain/order"
	"nix/infra/kafka"
	"nix/infra/outbox"
	"nix/infra/sequence"
	"nix/infra/token"
	"nix/infra/wal"
	"nix/jobs/broadcaster"
	"nix/service"
	"nix/snapshot"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	logger, err := initLogger(cfg.Environment)
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	// ---------------- Journal ----------------

	journal, err := wal.Open(wal.Config{
		Dir:             cfg.JournalDir,
		SegmentSize:     4 * 1024 * 1024,
		SegmentDuration: time.Minute,
	})
	if err != nil {
		logger.Fatal("journal init failed", zap.Error(err))
	}
	defer journal.Close()

	// ---------------- Outbox ----------------

	ob, err := outbox.Open(cfg.OutboxDir)
	if err != nil {
		logger.Fatal("outbox init failed", zap.Error(err))
	}
	defer ob.Close()

	// ---------------- Domain ----------------

	operator := common.HexToAddress(cfg.Operator)

	weth := token.NewFungible("Wrapped ETH", "WETH", 18, operator, weiUnits(300))
	weth.SetOperator(operator)

	gateway := order.NewGateway(operator, weth)
	for _, addr := range cfg.Collections {
		if !common.IsHexAddress(addr) {
			logger.Fatal("invalid collection address", zap.String("addr", addr))
		}
		nft := token.NewNonFungible("", "")
		nft.SetOperator(operator)
		gateway.RegisterCollection(common.HexToAddress(addr), nft)
	}

	store := order.NewStore()
	life := order.NewLifecycle(store)
	engine := order.NewEngine(store, life, gateway)

	// ---------------- Snapshot + Replay ----------------

	snapSeq, err := snapshot.Load(filepath.Join(cfg.SnapshotDir, snapshot.FileName), store)
	if err != nil {
		logger.Fatal("snapshot load failed", zap.Error(err))
	}

	seq := sequence.New(0)
	if err := service.Replay(cfg.JournalDir, snapSeq, life, seq); err != nil {
		logger.Fatal("journal replay failed", zap.Error(err))
	}
	logger.Info("state restored",
		zap.Uint64("snapshotSeq", snapSeq),
		zap.Uint64("lastSeq", seq.Current()),
		zap.Int("orders", store.Len()),
	)

	// ---------------- Fill feed ----------------

	var feed *kafka.Producer
	if cfg.FillFeed {
		feed = kafka.NewProducer(cfg.KafkaBrokers, cfg.FillsTopic)
		defer feed.Close()
	}

	// ---------------- Service ----------------

	svc := service.NewLedgerService(
		store,
		life,
		engine,
		journal,
		ob,
		feed,
		seq,
		nil,
		logger,
	)

	// ---------------- Background Jobs ----------------

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.SnapshotInterval > 0 {
		svc.StartSnapshotJob(ctx, cfg.SnapshotDir, cfg.SnapshotInterval)
	}

	if cfg.Broadcast {
		bc, err := broadcaster.New(ob, cfg.KafkaBrokers, cfg.EventsTopic, 250*time.Millisecond, logger)
		if err != nil {
			logger.Fatal("broadcaster init failed", zap.Error(err))
		}
		defer bc.Close()
		bc.Start(ctx)
	}

	// ---------------- HTTP ----------------

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	ledgerhttp.NewLedgerHandler(e, svc)

	go func() {
		if err := e.Start(cfg.Addr); err != nil {
			logger.Info("http server stopped", zap.Error(err))
		}
	}()
	logger.Info("nix ledger running", zap.String("addr", cfg.Addr))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown failed", zap.Error(err))
	}
}

func weiUnits(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))
}

func initLogger(env string) (*zap.Logger, error) {
	if env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
