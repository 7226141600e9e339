package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/sudo-tiz/dns-compare-go/internal/config"
	"github.com/sudo-tiz/dns-compare-go/internal/resolver"
	"github.com/sudo-tiz/dns-compare-go/internal/tasks"
)

// NewWorkerCommand creates the worker subcommand for running standalone Redis workers
func NewWorkerCommand() *cobra.Command {
	var configPath string
	var redisURL string
	var concurrency int
	var metricsPort int
	var enableMetrics bool
	var dnsTimeout int

	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Start a standalone comparison worker",
		Long:  `Start a standalone worker that processes comparison tasks from the Redis queue. Requires Redis to be configured.`,
		Example: `  # Start worker with default settings
  dnscompare worker --redis redis://localhost:6379/0

  # Start worker with custom concurrency
  dnscompare worker --redis redis://localhost:6379/0 --concurrency 8

  # Start worker with metrics enabled (useful for single worker or dev)
  dnscompare worker --redis redis://localhost:6379/0 --enable-metrics`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWorker(cmd, configPath, redisURL, concurrency, metricsPort, enableMetrics, dnsTimeout)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", os.Getenv("CONFIG_PATH"), "Path to config file")
	cmd.Flags().StringVarP(&redisURL, "redis", "r", os.Getenv("REDIS_URL"), "Redis URL (required)")
	cmd.Flags().IntVarP(&concurrency, "concurrency", "n", 0, "Number of concurrent workers (default: from config or 4)")
	cmd.Flags().IntVarP(&metricsPort, "metrics-port", "m", 9091, "Port for Prometheus metrics endpoint (if enabled)")
	cmd.Flags().BoolVarP(&enableMetrics, "enable-metrics", "M", false, "Enable metrics HTTP endpoint (useful for single worker, avoid port conflicts with multiple workers)")
	cmd.Flags().IntVar(&dnsTimeout, "dns-timeout", 0, "DNS query timeout in seconds (default: from config or 2)")

	_ = cmd.MarkFlagRequired("redis")

	return cmd
}

func runWorker(cmd *cobra.Command, configPath, redisURL string, concurrency, metricsPort int,
	enableMetrics bool, dnsTimeout int) error {

	if configPath == "" {
		configPath = DefaultConfigPath
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	config.ApplyIntOverride(cmd.Flags().Changed("dns-timeout"), dnsTimeout, &cfg.DNS.Timeout, config.DefaultDNSTimeout)
	config.ApplyIntOverride(cmd.Flags().Changed("concurrency"), concurrency, &cfg.Worker.MaxWorkers, 4)

	if redisURL == "" {
		return fmt.Errorf("redis URL is required for worker")
	}

	redisAddr := redisURL
	if u, err := url.Parse(redisURL); err == nil && u.Host != "" {
		redisAddr = u.Host
	}

	// Start metrics server (optional)
	if enableMetrics {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			addr := fmt.Sprintf(":%d", metricsPort)
			slog.Info("Worker metrics server enabled", "address", addr)

			srv := &http.Server{
				Addr:         addr,
				Handler:      mux,
				ReadTimeout:  10 * time.Second,
				WriteTimeout: 10 * time.Second,
				IdleTimeout:  60 * time.Second,
			}

			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				slog.Error("Metrics server error", "error", err)
			}
		}()
	} else {
		slog.Info("Worker metrics disabled (use --enable-metrics to enable)")
	}

	dnsTimeoutDuration := time.Duration(cfg.GetDNSTimeout()) * time.Second
	slog.Info("DNS query timeout configured", "timeout", dnsTimeoutDuration)

	// Results are cached in Redis so the API can serve them without the queue.
	resultsClient := tasks.NewClient(redisAddr, 24*time.Hour)
	defer func() {
		if err := resultsClient.Close(); err != nil {
			slog.Error("Tasks client close error", "error", err)
		}
	}()

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TaskTypeCompare, func(ctx context.Context, t *asynq.Task) error {
		return handleCompareTask(ctx, t, dnsTimeoutDuration, resultsClient)
	})

	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: redisAddr},
		asynq.Config{
			Concurrency: cfg.GetMaxWorkers(),
		},
	)

	// Run worker in background and wait for signal
	go func() {
		if err := srv.Run(mux); err != nil {
			slog.Error("Worker run failed", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	srv.Shutdown()
	return nil
}

// handleCompareTask runs one comparison task and stores the result both via
// Asynq's native ResultWriter and the Redis result cache the API reads.
func handleCompareTask(_ context.Context, t *asynq.Task, dnsTimeout time.Duration, resultsClient *tasks.Client) error {
	var payload tasks.ComparePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return err
	}

	// Independent context: the run must not die with the task's own context.
	taskCtx := context.Background()

	querier := resolver.New(dnsTimeout, payload.Request.TLSInsecureSkipVerify)
	results, err := tasks.ExecuteCompare(taskCtx, payload.Request, querier)
	if err != nil {
		slog.Error("Comparison run failed", "task_id", payload.TaskID, "error", err)
		return err
	}

	resultData, err := json.Marshal(results)
	if err != nil {
		slog.Error("Failed to marshal result", "task_id", payload.TaskID, "error", err)
		return err
	}

	if _, err := t.ResultWriter().Write(resultData); err != nil {
		slog.Error("Failed to write result", "task_id", payload.TaskID, "error", err)
		return fmt.Errorf("failed to write result: %w", err)
	}

	if err := resultsClient.CacheResult(taskCtx, payload.TaskID, results); err != nil {
		slog.Error("Failed to cache result", "task_id", payload.TaskID, "error", err)
		return fmt.Errorf("failed to cache result: %w", err)
	}

	slog.Info("Task completed", "task_id", payload.TaskID,
		"pairs", len(results.Details),
		"duration_seconds", fmt.Sprintf("%.3f", results.Duration))
	return nil
}
