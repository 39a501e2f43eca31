package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/andrewp05/ecommerce-fabric/internal/config"
	"github.com/andrewp05/ecommerce-fabric/internal/consumer"
	"github.com/andrewp05/ecommerce-fabric/internal/discovery"
	"github.com/andrewp05/ecommerce-fabric/internal/feed"
	"github.com/andrewp05/ecommerce-fabric/internal/handlers"
	"github.com/andrewp05/ecommerce-fabric/internal/messaging"
	"github.com/andrewp05/ecommerce-fabric/internal/publisher"
)

const serviceName = "ecommerce-producer"

func main() {
	cfg, err := config.Load("8091")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to RabbitMQ. This is the only process-fatal condition.
	rabbitMQ, err := messaging.NewRabbitMQ(cfg.Broker.Host, cfg.Broker.Port, cfg.Broker.User, cfg.Broker.Password)
	if err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}
	defer rabbitMQ.Close()

	if err := rabbitMQ.DeclareTopology(); err != nil {
		log.Fatalf("Failed to declare topology: %v", err)
	}

	logFeed := feed.New(cfg.FeedCapacity)
	eventPublisher := publisher.New(rabbitMQ, logFeed, time.Duration(cfg.PublishTimeoutMs)*time.Millisecond)

	// The producer observes the shared purchases queue and logs each
	// purchase; it keeps no catalog projection.
	go startPurchaseConsumer(rabbitMQ, logFeed)

	// Register with Consul when configured
	if cfg.ConsulAddr != "" {
		consul, err := discovery.NewConsulClient(cfg.ConsulAddr)
		if err != nil {
			log.Fatalf("Failed to connect to Consul: %v", err)
		}
		serviceID, err := consul.RegisterRole(serviceName, cfg.HTTPPort)
		if err != nil {
			log.Fatalf("Failed to register service: %v", err)
		}

		// Deregister on shutdown
		go func() {
			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
			<-sigChan
			log.Println("Shutting down...")
			consul.Deregister(serviceID)
			os.Exit(0)
		}()
	}

	producerHandler := handlers.NewProducerHandler(eventPublisher, logFeed)

	// Setup router
	router := gin.Default()

	router.GET("/health", producerHandler.HealthCheck)
	router.POST("/products", producerHandler.PublishProduct)
	router.POST("/offers", producerHandler.PublishOffer)
	router.GET("/vocabulary", producerHandler.GetVocabulary)
	router.GET("/log", producerHandler.GetLog)

	// Start server
	log.Printf("🚀 %s starting on http://localhost:%s", serviceName, cfg.HTTPPort)
	router.Run(":" + cfg.HTTPPort)
}

func startPurchaseConsumer(mq *messaging.RabbitMQ, logFeed *feed.Feed) {
	messages, err := mq.Consume(messaging.PurchasesQueue)
	if err != nil {
		log.Fatalf("Failed to consume purchases: %v", err)
	}

	purchaseConsumer := consumer.NewPurchaseConsumer(nil, logFeed)
	purchaseConsumer.ProcessPurchases(messages)
}
