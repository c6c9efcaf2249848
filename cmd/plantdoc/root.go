package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Brownie44l1/zirave-ai/internal/client"
)

const defaultServer = "http://localhost:8000"

// NewRootCmd creates the root command with every subcommand attached.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "plantdoc",
		Short:         "Client for the plant diagnosis API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	server := os.Getenv("PLANTDOC_SERVER")
	if server == "" {
		server = defaultServer
	}
	cmd.PersistentFlags().String("server", server, "Base URL of the diagnosis service")
	cmd.PersistentFlags().Duration("timeout", 30*time.Second, "Request timeout")

	cmd.AddCommand(newHealthCmd())
	cmd.AddCommand(newDiagnoseCmd())
	cmd.AddCommand(newImageCmd())
	cmd.AddCommand(newDiseasesCmd())
	cmd.AddCommand(newTypesCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func clientFromFlags(cmd *cobra.Command) (*client.Client, error) {
	server, err := cmd.Flags().GetString("server")
	if err != nil {
		return nil, err
	}
	timeout, err := cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}
	return client.New(server, client.WithTimeout(timeout)), nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
