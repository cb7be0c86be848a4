package main

import (
	"log"
	"os"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"

	"github.com/layer-3/facegate/adapters/events"
	"github.com/layer-3/facegate/adapters/store"
	"github.com/layer-3/facegate/ports"
	"github.com/layer-3/facegate/service"
	httptransport "github.com/layer-3/facegate/transport/http"
)

func main() {
	secret := os.Getenv("SECRET_KEY")
	if secret == "" {
		secret = "change_me"
	}

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":8000"
	}

	logger := watermill.NewStdLogger(false, false)

	var revocations ports.RevocationList
	var publisher message.Publisher

	// With Redis configured, revocations and session events are shared
	// across instances; without it everything stays in process.
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		opts, err := redis.ParseURL(redisURL)
		if err != nil {
			log.Fatalf("Failed to parse Redis URL: %v", err)
		}

		redisClient := redis.NewClient(opts)
		revocations = store.NewRedisStore(redisClient)

		publisher, err = redisstream.NewPublisher(
			redisstream.PublisherConfig{
				Client: redisClient,
			},
			logger,
		)
		if err != nil {
			log.Fatalf("Failed to create Redis publisher: %v", err)
		}
	} else {
		revocations = store.NewMemoryRevocations()
		publisher = gochannel.NewGoChannel(gochannel.Config{}, logger)
	}

	eventPub := events.NewWatermillPublisher(publisher)
	verifier := service.NewVerifier([]byte(secret), revocations, eventPub)

	router := httptransport.SetupRouter(verifier)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
