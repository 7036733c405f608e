package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"crewcal/config"
	"crewcal/utils"
)

// MongoClient is the global MongoDB client backing the availability store.
var MongoClient *mongo.Client

// InitDB connects to the availability store and verifies the link with a
// ping. It aborts startup on failure; the service is useless without its
// store.
func InitDB() {
	logger := utils.GetLogger()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(config.AppConfig.DatabaseURL))
	if err != nil {
		logger.Fatal("availability store connection failed", zap.Error(err))
	}
	if err := client.Ping(ctx, nil); err != nil {
		logger.Fatal("availability store unreachable", zap.Error(err))
	}
	MongoClient = client
	logger.Info("availability store connected")
}
