package main

import (
	"context"
	"log"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/orderstack/commerce-services/internal/auth"
	"github.com/orderstack/commerce-services/internal/aws"
	"github.com/orderstack/commerce-services/internal/config"
	"github.com/orderstack/commerce-services/internal/handlers"
)

func setupRouter(cfg handlers.HandlerConfig, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(auth.Middleware(logger))

	// health
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	handlers.RegisterProductsRoutes(r, cfg)

	return r
}

func main() {
	cfg := config.Load()

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()

	clients, err := aws.NewAWSClients(context.Background(), cfg.Region)
	if err != nil {
		logger.Fatal("failed to init aws clients", zap.Error(err))
	}

	metrics := aws.NewMetrics(clients.CloudWatch, cfg.ServiceName, map[string]string{
		"service":     cfg.ServiceName,
		"domain":      cfg.Domain,
		"country":     cfg.Country,
		"environment": cfg.Environment,
	}, logger)

	handlerCfg := handlers.HandlerConfig{
		DynamoDBClient: clients.DynamoDB,
		TableName:      cfg.TableName,
		Logger:         logger,
		Metrics:        metrics,
		Production:     cfg.Production(),
	}

	r := setupRouter(handlerCfg, logger)

	// RUN_LOCAL=true runs a plain HTTP server for development.
	if cfg.RunLocal {
		addr := ":8080"
		logger.Info("running local server", zap.String("addr", addr))
		if err := r.Run(addr); err != nil {
			logger.Fatal("failed to run local server", zap.Error(err))
		}
		return
	}

	adapter := ginadapter.New(r)

	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (interface{}, error) {
		return adapter.ProxyWithContext(ctx, req)
	})
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	if cfg.Production() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
