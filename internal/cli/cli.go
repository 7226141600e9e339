// Package cli provides the command-line interface for dnscompare.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const (
	// PackageVersion is the current version of the CLI
	PackageVersion = "1.0.0"

	// DefaultConfigPath is used when no --config flag is given
	DefaultConfigPath = "conf/config.yaml"
)

// NewRootCmd creates the root CLI command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "dnscompare",
		Short:   "Compare DNS responses between two nameservers",
		Long:    `Compares DNS record responses returned by a primary and a secondary nameserver for a file-supplied list of domains and record types, reporting matches, mismatches and query failures. Supports UDP/TCP (Do53), DNS-over-TLS (DoT), DNS-over-HTTPS (DoH) and DNS-over-QUIC (DoQ) targets.`,
		Version: PackageVersion,
		// Fatal errors are reported once by Execute, without usage text.
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(NewCompareCommand())
	rootCmd.AddCommand(NewServerCommand())
	rootCmd.AddCommand(NewWorkerCommand())
	return rootCmd
}

// Execute runs the CLI. All fatal errors funnel through here: helpers return
// errors instead of exiting, and this single handler decides the exit code.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
