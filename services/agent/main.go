// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/awnumar/memguard"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/binturaid/iflas-agent/services/agent/advisor"
	"github.com/binturaid/iflas-agent/services/agent/expert"
	"github.com/binturaid/iflas-agent/services/agent/observability"
	"github.com/binturaid/iflas-agent/services/agent/routes"
	"github.com/binturaid/iflas-agent/services/llm"

	// --- OpenTelemetry imports ---
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

func initTracer() (func(context.Context), error) {
	ctx := context.Background()

	otelEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otelEndpoint == "" {
		otelEndpoint = "iflas-otel-collector:4317"
	}
	conn, err := grpc.NewClient(otelEndpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, err
	}
	traceExporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		return nil, err
	}
	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceNameKey.String("iflas-agent-service")))
	if err != nil {
		return nil, err
	}
	bsp := sdktrace.NewBatchSpanProcessor(traceExporter)
	traceProvider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(bsp))
	otel.SetTracerProvider(traceProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.
		TraceContext{}, propagation.Baggage{}))

	return func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, time.Second*5)
		defer cancel()
		if err := traceExporter.Shutdown(ctx); err != nil {
			slog.Error("failed to shutdown OTLP exporter", "error", err)
		}
	}, nil
}

// expertCredential seals the knowledge-base API key into a memguard
// enclave and scrubs the environment copy. The plaintext only exists again
// inside the expert client for the duration of a single request.
func expertCredential() *memguard.Enclave {
	key := os.Getenv("EXPERT_API_KEY")
	if key == "" {
		slog.Warn("EXPERT_API_KEY not set, retrieval calls will be unauthenticated")
		return nil
	}
	_ = os.Unsetenv("EXPERT_API_KEY")
	return memguard.NewEnclave([]byte(key))
}

func main() {
	port := os.Getenv("AGENT_PORT")
	if port == "" {
		port = "12310"
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Signals flow through the graceful-shutdown path below, so the locked
	// credential buffers get wiped on SIGINT/SIGTERM as well as normal exit.
	defer memguard.Purge()

	// --- Init the tracer ---
	cleanup, err := initTracer()
	if err != nil {
		log.Fatalf("failed to setup the OTLP tracer: %v", err)
	}
	defer cleanup(context.Background())

	observability.InitMetrics()

	log.Println("Configuring the reasoning engine client")
	var llmClient llm.LLMClient
	switch os.Getenv("LLM_BACKEND_TYPE") {
	case "ollama":
		llmClient, err = llm.NewOllamaClient()
		slog.Info("Using Ollama reasoning backend")
	case "openai", "openrouter", "":
		llmClient, err = llm.NewOpenAIClient()
		slog.Info("Using OpenAI-compatible reasoning backend")
	default:
		slog.Warn("LLM_BACKEND_TYPE not recognized, defaulting to OpenAI-compatible")
		llmClient, err = llm.NewOpenAIClient()
	}
	if err != nil {
		log.Fatalf("Failed to initialize the reasoning engine client: %v", err)
	}

	// Session dependencies: the expert client owns the shared connection
	// pool and the sealed credential for the lifetime of the process.
	expertClient := expert.NewClient(expertCredential())
	toolset := advisor.NewToolset(advisor.ExpertTool(expertClient))

	var classifier advisor.ScopeClassifier
	switch os.Getenv("SCOPE_CLASSIFIER") {
	case "keyword":
		classifier = advisor.NewKeywordScopeClassifier()
		slog.Info("Using the rule-based scope classifier")
	default:
		classifier = advisor.NewLLMScopeClassifier(llmClient)
		slog.Info("Using the LLM-backed scope classifier")
	}

	var reformulator advisor.QueryReformulator = advisor.NewLLMReformulator(llmClient)
	if os.Getenv("QUERY_REFORMULATOR") == "passthrough" {
		reformulator = advisor.PassthroughReformulator{}
		slog.Info("Sending questions to the knowledge base verbatim")
	}

	cfg := advisor.ConfigFromEnv()
	service := advisor.NewAdvisor(classifier, reformulator, toolset, llmClient, cfg)

	router := gin.Default()
	router.Use(otelgin.Middleware("iflas-agent-service"))
	routes.SetupRoutes(router, service)

	server := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Println("Starting the consultation agent server on port ", port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down the consultation agent server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("Server exited with error: %v", err)
	}
}
