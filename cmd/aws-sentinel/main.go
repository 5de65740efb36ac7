package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/cloudsentry/aws-sentinel/configs"
	"github.com/cloudsentry/aws-sentinel/internal/app"
	"github.com/cloudsentry/aws-sentinel/internal/audit"
	"github.com/cloudsentry/aws-sentinel/internal/backend/awscloud"
	"github.com/cloudsentry/aws-sentinel/internal/config"
	"github.com/cloudsentry/aws-sentinel/internal/guard"
	"github.com/cloudsentry/aws-sentinel/internal/guard/limits"
	"github.com/cloudsentry/aws-sentinel/internal/log"
	"github.com/cloudsentry/aws-sentinel/internal/policy"
	"github.com/cloudsentry/aws-sentinel/internal/redaction"
	"github.com/cloudsentry/aws-sentinel/internal/render"
	"github.com/cloudsentry/aws-sentinel/internal/runtime"
	"github.com/cloudsentry/aws-sentinel/internal/startup"
)

const defaultPolicyName = "policy.yaml"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger := log.New(cfg.LogLevel)

	pol, err := loadPolicy(cfg)
	if err != nil {
		logger.Error("load policy failed", "error", err)
		os.Exit(1)
	}

	redactor, err := buildRedactor(pol)
	if err != nil {
		logger.Error("build redaction engine failed", "error", err)
		os.Exit(1)
	}

	baseCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Warn("shutdown requested", "signal", sig.String())
		cancel()
	}()

	client, err := awscloud.New(baseCtx, awscloud.Options{
		Region:          cfg.AWSRegion,
		AccessKeyID:     cfg.AWSAccessKeyID,
		SecretAccessKey: cfg.AWSSecretAccessKey,
	})
	if err != nil {
		logger.Error("aws client setup failed", "error", err)
		os.Exit(1)
	}

	if !cfg.SkipPreflight {
		if err := startup.Preflight(baseCtx, client, logger); err != nil {
			logger.Error("preflight failed", "error", err)
			os.Exit(1)
		}
	}

	var guards guard.Chain
	if pol.Limits.Enabled {
		perTool := make(map[string]limits.Budget, len(pol.Limits.Tools))
		for tool, budget := range pol.Limits.Tools {
			perTool[tool] = limits.Budget{MaxTotal: budget.MaxTotal, RatePerMinute: budget.RatePerMinute}
		}
		guards.Guards = append(guards.Guards, limits.New("limits", limits.Budget{
			MaxTotal:      pol.Limits.MaxTotal,
			RatePerMinute: pol.Limits.RatePerMinute,
		}, perTool))
	}

	builder := runtime.Builder{
		Logger:   logger,
		Audit:    audit.New(logger),
		Backend:  client,
		Redactor: redactor,
		Guards:   guards,
	}
	server, err := builder.Build(pol)
	if err != nil {
		logger.Error("build server failed", "error", err)
		os.Exit(1)
	}

	logger.Info("server starting",
		"name", pol.Server.Name,
		"version", pol.Server.Version,
		"transport", pol.Server.Transport,
		"region", cfg.AWSRegion,
	)

	switch pol.Server.Transport {
	case "stdio":
		if err := runStdio(baseCtx, server); err != nil {
			logger.Error("runtime error", "error", err)
			os.Exit(1)
		}
	default:
		if err := runHTTP(baseCtx, cfg, pol, server, logger); err != nil {
			logger.Error("runtime error", "error", err)
			os.Exit(1)
		}
	}
}

func loadPolicy(cfg config.Config) (*policy.Policy, error) {
	var rendered []byte
	var err error
	if cfg.PolicyPath != "" {
		rendered, err = render.RenderFile(cfg.PolicyPath)
	} else {
		raw, loadErr := configs.Load(defaultPolicyName)
		if loadErr != nil {
			return nil, loadErr
		}
		rendered, err = render.RenderBytes(defaultPolicyName, raw)
	}
	if err != nil {
		return nil, err
	}
	return policy.Load(rendered)
}

func buildRedactor(pol *policy.Policy) (*redaction.Engine, error) {
	if len(pol.Redaction.Patterns) == 0 {
		return redaction.NewEngine(), nil
	}
	patterns := make([]redaction.Pattern, 0, len(pol.Redaction.Patterns))
	for _, item := range pol.Redaction.Patterns {
		pattern, err := redaction.CompilePattern(item.Name, item.Regex, item.Replacement)
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, pattern)
	}
	return redaction.NewEngine(redaction.Profile{Name: "custom", Patterns: patterns}), nil
}

func runStdio(ctx context.Context, server *mcp.Server) error {
	return server.Run(ctx, &mcp.StdioTransport{})
}

func runHTTP(ctx context.Context, envCfg config.Config, pol *policy.Policy, server *mcp.Server, logger *slog.Logger) error {
	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return server
	}, &mcp.StreamableHTTPOptions{
		Stateless: pol.Server.HTTP.Stateless,
	})

	application, err := app.New(ctx, pol.Server, handler, logger, envCfg.ShutdownTimeout)
	if err != nil {
		return err
	}

	return application.Run(ctx)
}
