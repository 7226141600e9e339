package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/sudo-tiz/dns-compare-go/internal/config"
	"github.com/sudo-tiz/dns-compare-go/internal/input"
	"github.com/sudo-tiz/dns-compare-go/internal/normalize"
	"github.com/sudo-tiz/dns-compare-go/internal/report"
	"github.com/sudo-tiz/dns-compare-go/internal/resolver"
	"github.com/sudo-tiz/dns-compare-go/internal/runner"
)

// NewCompareCommand creates the 'compare' subcommand, the sequential
// primary-vs-secondary run.
func NewCompareCommand() *cobra.Command {
	var (
		configPath string
		primary    string
		secondary  string
		file       string
		quiet      bool
		noColor    bool
		insecure   bool
		timeout    int
	)

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare DNS responses for a list of domains",
		Long:  `Query every domain/record-type pair in the input file against the primary and the secondary nameserver, one query at a time, and print a classified report per pair.`,
		Example: `  # Compare OpenDNS (default primary) against Quad9
  dnscompare compare -s 9.9.9.9 -f domains.txt

  # Quiet mode: only warnings and errors
  dnscompare compare -s 9.9.9.9 -f domains.txt -q

  # Encrypted secondary
  dnscompare compare -s tls://dns.quad9.net -f domains.txt

  # Input file format, one domain per line:
  #   example.org A,MX,CNAME`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCompare(cmd, configPath, primary, secondary, file,
				quiet, noColor, insecure, timeout)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file")
	cmd.Flags().StringVarP(&primary, "primary", "p", "", "IP or target of the primary nameserver (default: "+config.DefaultPrimary+", OpenDNS)")
	cmd.Flags().StringVarP(&secondary, "secondary", "s", "", "IP or target of the nameserver to compare against")
	cmd.Flags().StringVarP(&file, "file", "f", "", "Newline separated list of domains with record types to query")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Only display warnings and errors")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colorized output")
	cmd.Flags().BoolVarP(&insecure, "insecure", "i", false, "Skip TLS certificate verification")
	cmd.Flags().IntVar(&timeout, "timeout", 0, "Per-query timeout in seconds (default: from config or 2)")

	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runCompare(cmd *cobra.Command, configPath, primary, secondary, file string,
	quiet, noColor, insecure bool, timeout int) error {

	if configPath == "" {
		configPath = DefaultConfigPath
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	config.ApplyStringOverride(primary, &cfg.Resolvers.Primary, config.DefaultPrimary)
	config.ApplyStringOverride(secondary, &cfg.Resolvers.Secondary, "")
	config.ApplyIntOverride(cmd.Flags().Changed("timeout"), timeout, &cfg.DNS.Timeout, config.DefaultDNSTimeout)
	if quiet {
		cfg.Report.Quiet = true
	}
	if noColor {
		cfg.Report.NoColor = true
	}

	if cfg.Resolvers.Secondary == "" {
		return fmt.Errorf("secondary nameserver is required (-s flag)")
	}

	primaryTarget, err := normalize.Target(cfg.Resolvers.Primary)
	if err != nil {
		return fmt.Errorf("invalid primary nameserver (-p flag): %w", err)
	}
	secondaryTarget, err := normalize.Target(cfg.Resolvers.Secondary)
	if err != nil {
		return fmt.Errorf("invalid secondary nameserver (-s flag): %w", err)
	}

	// The whole file parses before the first query goes out.
	entries, err := input.ParseFile(file)
	if err != nil {
		return err
	}

	client := resolver.New(time.Duration(cfg.GetDNSTimeout())*time.Second, insecure)
	reporter := report.New(cmd.OutOrStdout(), primaryTarget, secondaryTarget,
		cfg.Report.Quiet, !cfg.Report.NoColor)

	r := runner.New(client, primaryTarget, secondaryTarget)
	if err := r.Run(cmd.Context(), entries, reporter.Report); err != nil {
		return err
	}

	reporter.Summary()
	return nil
}
