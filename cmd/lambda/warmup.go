// Package main contains the Lambda warmup handler for preventing cold starts.
// CloudWatch Events trigger this handler periodically to keep Lambda instances warm.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	lambdasdk "github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"go.uber.org/zap"
)

const (
	// WarmupSource identifies warmup events from CloudWatch
	WarmupSource = "warmup"

	// WarmupDelay ensures instances overlap to create true concurrency
	WarmupDelay = 75 * time.Millisecond

	// MaxWarmupConcurrency caps self-invocations per warmup event
	MaxWarmupConcurrency = 50
)

// WarmupEvent represents the CloudWatch Event payload for warmup
type WarmupEvent struct {
	Source      string `json:"source"`
	Concurrency int    `json:"concurrency"`
}

// WarmupResponse is the response returned by warmup operations
type WarmupResponse struct {
	StatusCode int        `json:"statusCode"`
	Body       WarmupBody `json:"body"`
}

// WarmupBody reports how many instances were kept warm.
type WarmupBody struct {
	Status          string `json:"status"`
	InstancesWarmed int    `json:"instancesWarmed"`
}

// IsWarmupEvent checks if the event is a warmup event
func IsWarmupEvent(event json.RawMessage) (*WarmupEvent, bool) {
	var probe struct {
		Source      string   `json:"source"`
		Concurrency *float64 `json:"concurrency"`
	}
	if err := json.Unmarshal(event, &probe); err != nil {
		return nil, false
	}
	if probe.Source != WarmupSource {
		return nil, false
	}

	warmup := &WarmupEvent{Source: probe.Source}
	if probe.Concurrency != nil && *probe.Concurrency > 0 {
		warmup.Concurrency = int(*probe.Concurrency)
	}
	if warmup.Concurrency > MaxWarmupConcurrency {
		warmup.Concurrency = MaxWarmupConcurrency
	}

	return warmup, true
}

// Invoker is the part of the Lambda API the warmer uses.
type Invoker interface {
	Invoke(ctx context.Context, params *lambdasdk.InvokeInput, optFns ...func(*lambdasdk.Options)) (*lambdasdk.InvokeOutput, error)
}

// InvokerFactory builds an Invoker lazily, only when a warmup fans out.
type InvokerFactory func(ctx context.Context) (Invoker, error)

// Warmer answers warmup events and fans out to sibling instances.
type Warmer struct {
	functionName string
	newInvoker   InvokerFactory
	delay        time.Duration
	logger       *zap.Logger
}

// NewWarmer creates a Warmer for the named function.
func NewWarmer(functionName string, newInvoker InvokerFactory, logger *zap.Logger) *Warmer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Warmer{
		functionName: functionName,
		newInvoker:   newInvoker,
		delay:        WarmupDelay,
		logger:       logger,
	}
}

// Handle processes a warmup event and optionally self-invokes
// to maintain multiple warm instances.
func (w *Warmer) Handle(ctx context.Context, warmup *WarmupEvent) WarmupResponse {
	instancesWarmed := 1 // This instance counts as 1

	if warmup.Concurrency > 0 {
		if err := w.selfInvoke(ctx, warmup.Concurrency); err != nil {
			w.logger.Warn("Warmup self-invocation failed",
				zap.Int("concurrency", warmup.Concurrency), zap.Error(err))
		} else {
			instancesWarmed += warmup.Concurrency
		}
	}

	// Brief delay to ensure instances overlap
	time.Sleep(w.delay)

	return WarmupResponse{
		StatusCode: 200,
		Body: WarmupBody{
			Status:          "warm",
			InstancesWarmed: instancesWarmed,
		},
	}
}

// selfInvoke invokes this Lambda function N times asynchronously
// to create additional warm instances.
func (w *Warmer) selfInvoke(ctx context.Context, count int) error {
	if w.functionName == "" {
		return fmt.Errorf("function name is not set")
	}

	client, err := w.newInvoker(ctx)
	if err != nil {
		return fmt.Errorf("failed to create Lambda client: %w", err)
	}

	// Child invocations carry concurrency=0 to prevent infinite loops
	payload, err := json.Marshal(WarmupEvent{Source: WarmupSource})
	if err != nil {
		return err
	}

	var wg sync.WaitGroup
	var invokeErr error
	var errMu sync.Mutex

	for i := 0; i < count; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			_, err := client.Invoke(ctx, &lambdasdk.InvokeInput{
				FunctionName:   aws.String(w.functionName),
				InvocationType: types.InvocationTypeEvent, // Async invocation
				Payload:        payload,
			})

			if err != nil {
				errMu.Lock()
				if invokeErr == nil {
					invokeErr = err
				}
				errMu.Unlock()
			}
		}()
	}

	wg.Wait()
	return invokeErr
}

func newLambdaInvoker(ctx context.Context) (Invoker, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return lambdasdk.NewFromConfig(cfg), nil
}
