package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ludaludaed/atomic-shared-pointer/cmd/stress"
)

const (
	Version = "0.3.1"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "asp",
		Short: "atomic shared pointer toolbox",
		Long: fmt.Sprintf(`asp (v%s)

Tooling for the atomic-shared-pointer library: concurrent stress runs
against the lock-free containers built on it, with multiset
verification and reclamation metrics.`, Version),
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of asp",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("asp v%s\n", Version)
		},
	}
)

func init() {
	// Add Commands
	RootCmd.AddCommand(stress.StressCmd)
	RootCmd.AddCommand(versionCmd)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
