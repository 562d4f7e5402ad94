package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"diceparty/internal/command"
	"diceparty/internal/config"
	"diceparty/internal/events"
	"diceparty/internal/notifier"
	"diceparty/internal/store"
	"diceparty/internal/worker"
)

// main runs the timeout worker as its own process: it consumes lifecycle
// events off the same Kafka topic cmd/server publishes to, holds each
// Disconnected event for the reconnect grace window, and then invokes
// CheckSessionTimeout, matching the separate-Lambda split in the original
// design (one Lambda per websocket action, a second triggered by a delay
// queue). It notifies through notifier.CloudNotifier rather than a Hub,
// since this process has no live websocket connections of its own.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	itemStore, err := store.Open(
		cfg.Database.URL,
		cfg.Database.MaxOpenConns,
		cfg.Database.MaxIdleConns,
		time.Duration(cfg.Database.ConnMaxLifetime)*time.Second,
	)
	if err != nil {
		log.Fatalf("Failed to initialize item store: %v", err)
	}

	eventPublisher := events.NewKafkaPublisher(events.KafkaConfig{
		BootstrapServers: cfg.Kafka.BootstrapServers,
		APIKey:           cfg.Kafka.APIKey,
		APISecret:        cfg.Kafka.APISecret,
		Topic:            cfg.Kafka.Topic,
	})

	cloudNotifier := notifier.NewCloudNotifier(cfg.AWS.APIGatewayURL)
	svc := command.New(itemStore, cloudNotifier, eventPublisher, cfg.Environment)

	timeoutWorker := worker.New(svc)
	delayedQueue := worker.NewDelayedQueue()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	timeoutWorker.Start(ctx, delayedQueue.Triggers())

	subscriber := events.NewKafkaSubscriber(events.KafkaConfig{
		BootstrapServers: cfg.Kafka.BootstrapServers,
		APIKey:           cfg.Kafka.APIKey,
		APISecret:        cfg.Kafka.APISecret,
		Topic:            cfg.Kafka.Topic,
	}, "diceparty-timeout-worker")

	log.Println("Timeout worker consuming lifecycle events...")
	go consumeLoop(ctx, subscriber, delayedQueue)

	<-ctx.Done()
	log.Println("Shutting down timeout worker...")

	timeoutWorker.Stop()

	if err := subscriber.Close(); err != nil {
		log.Printf("Error closing event subscriber: %v", err)
	}
	if err := eventPublisher.Close(); err != nil {
		log.Printf("Error closing event publisher: %v", err)
	}

	log.Println("Timeout worker exited")
}

func consumeLoop(ctx context.Context, subscriber *events.KafkaSubscriber, delayedQueue *worker.DelayedQueue) {
	for {
		evt, err := subscriber.ReadEvent(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("Error reading lifecycle event: %v", err)
			continue
		}
		delayedQueue.Ingest(evt)
	}
}
