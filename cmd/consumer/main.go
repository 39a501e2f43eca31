package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/andrewp05/ecommerce-fabric/internal/catalog"
	"github.com/andrewp05/ecommerce-fabric/internal/config"
	"github.com/andrewp05/ecommerce-fabric/internal/consumer"
	"github.com/andrewp05/ecommerce-fabric/internal/discovery"
	"github.com/andrewp05/ecommerce-fabric/internal/feed"
	"github.com/andrewp05/ecommerce-fabric/internal/handlers"
	"github.com/andrewp05/ecommerce-fabric/internal/messaging"
	"github.com/andrewp05/ecommerce-fabric/internal/publisher"
	"github.com/andrewp05/ecommerce-fabric/internal/purchase"
)

const serviceName = "ecommerce-consumer"

func main() {
	cfg, err := config.Load("8092")
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

	projection := catalog.New()
	logFeed := feed.New(cfg.FeedCapacity)
	offersFeed := feed.New(cfg.FeedCapacity)

	eventPublisher := publisher.New(rabbitMQ, logFeed, time.Duration(cfg.PublishTimeoutMs)*time.Millisecond)
	coordinator := purchase.NewCoordinator(projection, eventPublisher)

	// One delivery loop per subscribed queue.
	go startListingConsumer(rabbitMQ, projection, logFeed)
	go startPurchaseConsumer(rabbitMQ, projection, logFeed)
	go startOfferConsumer(rabbitMQ, offersFeed, logFeed)

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

	consumerHandler := handlers.NewConsumerHandler(projection, coordinator, offersFeed, logFeed)

	// Setup router
	router := gin.Default()

	router.GET("/health", consumerHandler.HealthCheck)
	router.GET("/products", consumerHandler.ListProducts)
	router.GET("/products/:name", consumerHandler.GetProduct)
	router.POST("/purchases", consumerHandler.CreatePurchase)
	router.GET("/offers", consumerHandler.ListOffers)
	router.GET("/log", consumerHandler.GetLog)

	// Start server
	log.Printf("🚀 %s starting on http://localhost:%s", serviceName, cfg.HTTPPort)
	router.Run(":" + cfg.HTTPPort)
}

func startListingConsumer(mq *messaging.RabbitMQ, projection *catalog.Projection, logFeed *feed.Feed) {
	messages, err := mq.Consume(messaging.ProductsQueue)
	if err != nil {
		log.Fatalf("Failed to consume listings: %v", err)
	}

	catalogConsumer := consumer.NewCatalogConsumer(projection, logFeed)
	catalogConsumer.ProcessListings(messages)
}

func startPurchaseConsumer(mq *messaging.RabbitMQ, projection *catalog.Projection, logFeed *feed.Feed) {
	messages, err := mq.Consume(messaging.PurchasesQueue)
	if err != nil {
		log.Fatalf("Failed to consume purchases: %v", err)
	}

	purchaseConsumer := consumer.NewPurchaseConsumer(projection, logFeed)
	purchaseConsumer.ProcessPurchases(messages)
}

func startOfferConsumer(mq *messaging.RabbitMQ, offersFeed, logFeed *feed.Feed) {
	// Each live subscriber gets its own private fanout queue.
	queueName, err := mq.DeclareOffersQueue()
	if err != nil {
		log.Fatalf("Failed to declare offers queue: %v", err)
	}

	messages, err := mq.Consume(queueName)
	if err != nil {
		log.Fatalf("Failed to consume offers: %v", err)
	}

	offerConsumer := consumer.NewOfferConsumer(offersFeed, logFeed)
	offerConsumer.ProcessOffers(messages)
}
