// stockwatch 消费订单事件,检查涉及商品的库存并对低库存告警
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	appitem "github.com/xiebiao/shopdesk/internal/application/item"
	"github.com/xiebiao/shopdesk/internal/infrastructure/config"
	"github.com/xiebiao/shopdesk/internal/infrastructure/messaging"
	"github.com/xiebiao/shopdesk/internal/infrastructure/persistence/gormdb"
	"github.com/xiebiao/shopdesk/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "stockwatch: %+v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "load config")
	}
	if !cfg.MQ.Enabled {
		return errors.New("mq.enabled is false, nothing to consume")
	}

	lg, err := logger.New(logger.Config{
		Level:        cfg.Log.Level,
		Format:       cfg.Log.Format,
		Output:       cfg.Log.Output,
		EnableCaller: cfg.Log.EnableCaller,
	})
	if err != nil {
		return err
	}
	defer func() { _ = lg.Sync() }()
	lg = lg.Named("stockwatch")

	db, err := gormdb.NewDB(cfg, lg)
	if err != nil {
		return err
	}
	defer func() { _ = gormdb.Close(db) }()

	watcher := appitem.NewLowStockWatcher(gormdb.NewItemRepository(db), cfg.Inventory.LowStockThreshold)

	consumer, err := messaging.NewConsumer(cfg, lg)
	if err != nil {
		return err
	}
	defer func() { _ = consumer.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	lg.Info("Watching order events",
		zap.String("queue", consumer.Queue()),
		zap.Int("threshold", cfg.Inventory.LowStockThreshold),
	)
	return consumer.Consume(ctx, messaging.NewOrderEventHandler(consumer.Queue(), watcher, lg))
}
