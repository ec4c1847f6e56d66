// Dossier: agent-evaluation quiz MCP server
//
// An MCP server that runs a three-phase personality quiz in any MCP host.
// Answers are scored against weighted categories and traits, reviewed
// between phases and graded into a classified dossier.
//
// Usage:
//
//	dossier serve       # Start MCP server (stdio transport)
//	dossier simulate    # Grade random runs and summarize the outcomes
//	dossier version     # Print the version
package main

import (
	"fmt"
	"os"

	dossierserver "github.com/HendryAvila/dossier/internal/server"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRoot().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRoot() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "dossier",
		Short: "Agent-evaluation quiz MCP server",
		Long: `Dossier runs a three-phase agent-evaluation quiz over MCP.

Add to your AI tool's MCP config:

  {
    "mcpServers": {
      "dossier": {
        "command": "dossier",
        "args": ["serve"]
      }
    }
  }`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "",
		"config file (default: config.yaml in the data directory)")

	root.AddCommand(
		serveCmd(&configPath),
		simulateCmd(&configPath),
		versionCmd(),
	)
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "dossier v%s\n", dossierserver.Version)
		},
	}
}
