package main

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"go.uber.org/zap"

	"bookingsite/internal/config"
	"bookingsite/internal/database"
	"bookingsite/internal/domain/booking"
	"bookingsite/internal/events"
	"bookingsite/internal/pkg/clock"
	"bookingsite/internal/pkg/logger"
)

// One-shot expiry sweep for external schedulers.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	zl, err := logger.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = zl.Sync() }()

	db, err := database.Connect(cfg.DatabaseURL, zl)
	if err != nil {
		zl.Fatal("db connect failed", zap.Error(err))
	}

	var pub events.Publisher = events.NopPublisher{}
	if brokers := cfg.KafkaBrokerList(); len(brokers) > 0 {
		kp, err := events.NewKafkaPublisher(brokers, cfg.KafkaTopic, zl)
		if err != nil {
			zl.Fatal("kafka publisher", zap.Error(err), zap.String("brokers", strings.Join(brokers, ",")))
		}
		pub = kp
	}
	defer func() { _ = pub.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	sweeper := booking.NewSweeper(booking.NewRepository(db), pub, clock.Real{}, zl)
	released, err := sweeper.ReleaseExpiredHolds(ctx)
	if err != nil {
		zl.Fatal("sweep failed", zap.Error(err))
	}

	fmt.Printf("released=%d\n", released)
}
