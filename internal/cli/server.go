package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/sudo-tiz/dns-compare-go/internal/app"
	"github.com/sudo-tiz/dns-compare-go/internal/config"
)

// NewServerCommand creates the server subcommand.
// Starts in-memory workers if Redis not configured.
func NewServerCommand() *cobra.Command {
	var configPath string
	var redisURL string
	var host string
	var port string

	// DNS config flags
	var dnsTimeout int
	var maxEntriesPerReq int

	// Rate limiting flags
	var rateLimitRPS int
	var rateLimitBurst int

	// Server timeout flags
	var readTimeout int
	var writeTimeout int
	var idleTimeout int

	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the comparison API server",
		Long:  `Start the HTTP API server for asynchronous comparison runs. Automatically runs tasks in-process if Redis is not configured.`,
		Example: `  # Start with default config
  dnscompare server

  # Start with Redis backend
  dnscompare server --redis redis://localhost:6379/0

  # Start with custom config
  dnscompare server --config /path/to/config.yaml

  # Start on custom host/port
  dnscompare server --host 0.0.0.0 --port 8080`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServer(cmd, configPath, redisURL, host, port,
				dnsTimeout, maxEntriesPerReq, rateLimitRPS, rateLimitBurst,
				readTimeout, writeTimeout, idleTimeout)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", os.Getenv("CONFIG_PATH"), "Path to config file")
	cmd.Flags().StringVarP(&redisURL, "redis", "r", os.Getenv("REDIS_URL"), "Redis URL (optional, enables distributed workers)")
	cmd.Flags().StringVarP(&host, "host", "H", os.Getenv("DNS_COMPARE_HOST"), "Server host (default: from config or 0.0.0.0)")
	cmd.Flags().StringVarP(&port, "port", "P", os.Getenv("DNS_COMPARE_PORT"), "Server port (default: from config or 5000)")

	// DNS configuration
	cmd.Flags().IntVar(&dnsTimeout, "dns-timeout", 0, "DNS query timeout in seconds (default: from config or 2)")
	cmd.Flags().IntVar(&maxEntriesPerReq, "max-entries", 0, "Maximum entries per request (default: from config or 100)")

	// Rate limiting
	cmd.Flags().IntVar(&rateLimitRPS, "rate-limit-rps", 0, "Rate limit requests per second (0 = disable, default: from config or 10)")
	cmd.Flags().IntVar(&rateLimitBurst, "rate-limit-burst", 0, "Rate limit burst size (default: from config or 20)")

	// HTTP server timeouts
	cmd.Flags().IntVar(&readTimeout, "read-timeout", 0, "HTTP read timeout in seconds (default: from config or 15)")
	cmd.Flags().IntVar(&writeTimeout, "write-timeout", 0, "HTTP write timeout in seconds (default: from config or 15)")
	cmd.Flags().IntVar(&idleTimeout, "idle-timeout", 0, "HTTP idle timeout in seconds (default: from config or 60)")

	return cmd
}

func runServer(cmd *cobra.Command, configPath, redisURL, host, port string,
	dnsTimeout, maxEntriesPerReq, rateLimitRPS, rateLimitBurst,
	readTimeout, writeTimeout, idleTimeout int) error {

	if configPath == "" {
		configPath = DefaultConfigPath
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	// Apply CLI flag overrides with defaults
	config.ApplyIntOverride(cmd.Flags().Changed("dns-timeout"), dnsTimeout, &cfg.DNS.Timeout, config.DefaultDNSTimeout)
	config.ApplyIntOverride(cmd.Flags().Changed("max-entries"), maxEntriesPerReq, &cfg.DNS.MaxEntriesPerReq, 100)
	config.ApplyIntOverride(cmd.Flags().Changed("rate-limit-rps"), rateLimitRPS, &cfg.RateLimiting.RequestsPerSecond, 10)
	config.ApplyIntOverride(cmd.Flags().Changed("rate-limit-burst"), rateLimitBurst, &cfg.RateLimiting.BurstSize, 20)
	config.ApplyIntOverride(cmd.Flags().Changed("read-timeout"), readTimeout, &cfg.Server.ReadTimeout, 15)
	config.ApplyIntOverride(cmd.Flags().Changed("write-timeout"), writeTimeout, &cfg.Server.WriteTimeout, 15)
	config.ApplyIntOverride(cmd.Flags().Changed("idle-timeout"), idleTimeout, &cfg.Server.IdleTimeout, 60)

	config.ApplyStringOverride(host, &cfg.Server.Host, "0.0.0.0")
	config.ApplyStringOverride(port, &cfg.Server.Port, "5000")

	// Log configuration status
	if cfg.GetSecondary() == "" {
		slog.Warn("No resolvers configured - requests must name both nameservers explicitly", "path", configPath)
	} else {
		slog.Info("Configuration loaded", "path", configPath,
			"primary", cfg.GetPrimary(), "secondary", cfg.GetSecondary())
	}

	if redisURL == "" {
		slog.Info("Redis not configured - starting in memory mode (no task persistence)")
	} else {
		slog.Info("Redis configured", "url", redisURL)
	}

	apiApp, err := app.NewAPIApp(cfg, redisURL)
	if err != nil {
		slog.Error("Failed to create API app", "error", err)
		return err
	}

	addr := cfg.GetServerHost() + ":" + cfg.GetServerPort()

	go func() {
		slog.Info("Starting comparison API server", "address", addr)
		if err := apiApp.Run(addr); err != nil {
			slog.Error("API app run failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return apiApp.Shutdown(ctx)
}
