package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/xaya/xaya-mcp-server/internal/adapter"
	"github.com/xaya/xaya-mcp-server/internal/api/middleware"
	"github.com/xaya/xaya-mcp-server/internal/api/server"
	"github.com/xaya/xaya-mcp-server/internal/config"
	"github.com/xaya/xaya-mcp-server/internal/logger"
	"github.com/xaya/xaya-mcp-server/internal/providers/ethereum"
	"github.com/xaya/xaya-mcp-server/internal/providers/subgraph"
	"github.com/xaya/xaya-mcp-server/internal/resolver"
	"github.com/xaya/xaya-mcp-server/internal/tools"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:     cfg.Debug,
		SentryDSN: cfg.SentryDSN,
		Tags: map[string]string{
			"service": "mcp-server",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.Info("Starting Xaya MCP server")

	// Connect to the EVM node and discover the contract wiring
	dialer := adapter.NewEthClientDialer()
	ethClient, err := dialer.Dial(ctx, cfg.Chain.RPCURL)
	if err != nil {
		logger.Fatal("Failed to connect to EVM node",
			zap.Error(err), zap.String("rpc_url", cfg.Chain.RPCURL))
	}

	chain, err := ethereum.Dial(ctx, ethClient, cfg.Chain.DelegationContract, cfg.Chain.CallTimeout)
	if err != nil {
		logger.Fatal("Failed to set up Xaya contracts", zap.Error(err))
	}
	defer chain.Close()

	// Set up the index client
	index := subgraph.NewClient(subgraph.Config{
		URL:               cfg.Index.URL,
		PageSize:          cfg.Index.PageSize,
		RequestsPerSecond: cfg.Index.RequestsPerSecond,
		Burst:             cfg.Index.Burst,
	}, adapter.NewHTTPClient(cfg.Index.QueryTimeout), adapter.NewJSON(), adapter.NewBase64())
	logger.Info("Connected to index", zap.String("url", cfg.Index.URL))

	// Create the resolver on top of the two backends
	res := resolver.New(resolver.Config{
		SubQueryTimeout:    cfg.Resolver.SubQueryTimeout,
		RetryAttempts:      cfg.Resolver.RetryAttempts,
		RetryBackoff:       cfg.Resolver.RetryBackoff,
		PoolSize:           cfg.Resolver.PoolSize,
		QueueSize:          cfg.Resolver.QueueSize,
		StalenessThreshold: cfg.Index.StalenessThreshold,
	}, chain, index, adapter.NewClock())
	defer res.Close()

	// MCP server over streamable HTTP
	mcpServer := tools.NewServer(res, adapter.NewJSON())
	mcpAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.MCPPort)
	mcpHTTP := mcpServer.StreamableHTTP()

	errCh := make(chan error, 2)
	go func() {
		logger.Info("Starting MCP server", zap.String("address", mcpAddr))
		if err := mcpHTTP.Start(mcpAddr); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("mcp server: %w", err)
		}
	}()

	// REST mirror
	srv := server.New(server.Config{
		Debug:        cfg.Debug,
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
		Auth: middleware.AuthConfig{
			JWTPublicKey: cfg.Auth.JWTPublicKey,
			APIKeys:      cfg.Auth.APIKeys,
		},
	}, res)
	go func() {
		if err := srv.Start(); err != nil {
			errCh <- fmt.Errorf("api server: %w", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.Info("Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	case err := <-errCh:
		logger.Error(err)
		cancel()
	}

	// Create shutdown context with timeout (don't use canceled ctx)
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	logger.Info("Shutting down...")

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error(fmt.Errorf("API server forced to shutdown: %w", err))
	}
	if err := mcpHTTP.Shutdown(shutdownCtx); err != nil {
		logger.Error(fmt.Errorf("MCP server forced to shutdown: %w", err))
	}

	logger.Info("Xaya MCP server stopped")
}
