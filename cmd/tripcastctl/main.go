// tripcastctl is the operator CLI for a running tripcast overlay server.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	serverAddr string
	reqTimeout time.Duration
)

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "tripcastctl",
		Short:         "Inspect and control a tripcast overlay server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&serverAddr, "server", "s", "http://localhost:8090", "Base URL of the overlay server.")
	root.PersistentFlags().DurationVar(&reqTimeout, "timeout", 5*time.Second, "Timeout for a single request.")

	root.AddCommand(
		newStatusCommand(),
		newCommandsCommand(),
		newInvokeCommand(),
	)

	return root
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "tripcastctl: %v\n", err)
		os.Exit(1)
	}
}
