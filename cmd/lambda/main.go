// Package main is the entry point for the translation proxy Lambda function.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"github.com/pricofy/youdao-translate/internal/app"
	"github.com/pricofy/youdao-translate/internal/config"
	"github.com/pricofy/youdao-translate/internal/handler"
	"github.com/pricofy/youdao-translate/internal/logging"
)

func main() {
	// Fail fast: credentials are validated before the runtime accepts events.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("Starting translation Lambda", zap.String("config", cfg.String()))

	e := &entry{
		handler: app.NewHandler(cfg, logger),
		warmer:  NewWarmer(os.Getenv("AWS_LAMBDA_FUNCTION_NAME"), newLambdaInvoker, logger.Named("warmup")),
		logger:  logger,
	}
	lambda.Start(e.handleRequest)
}

type entry struct {
	handler *handler.Handler
	warmer  *Warmer
	logger  *zap.Logger
}

// eventProbe tells API Gateway REST (v1) events from HTTP API (v2) events.
type eventProbe struct {
	Version    string `json:"version"`
	HTTPMethod string `json:"httpMethod"`
}

func (e *entry) handleRequest(ctx context.Context, event json.RawMessage) (interface{}, error) {
	// Warmup detection (MUST be first - before any other processing)
	if warmup, ok := IsWarmupEvent(event); ok {
		return e.warmer.Handle(ctx, warmup), nil
	}

	var probe eventProbe
	if err := json.Unmarshal(event, &probe); err != nil {
		e.logger.Error("Unrecognized event", zap.Error(err))
		return nil, fmt.Errorf("failed to parse event: %w", err)
	}

	if probe.HTTPMethod != "" && probe.Version != "2.0" {
		var req events.APIGatewayProxyRequest
		if err := json.Unmarshal(event, &req); err != nil {
			return nil, fmt.Errorf("failed to parse REST API event: %w", err)
		}
		return e.handler.HandleRESTAPI(ctx, req)
	}

	var req events.APIGatewayV2HTTPRequest
	if err := json.Unmarshal(event, &req); err != nil {
		return nil, fmt.Errorf("failed to parse HTTP API event: %w", err)
	}
	return e.handler.HandleHTTPAPI(ctx, req)
}
