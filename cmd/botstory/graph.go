package main

import (
	"fmt"
	"os"

	"github.com/jvm123/botstory/internal/cli"
	"github.com/jvm123/botstory/internal/presentation/graph"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the story graph visualization",
	Long:  `Inspects the story definition and outputs a Mermaid diagram (graph TD) of its branches, trigger words and slot chains.`,
	Run: func(cmd *cobra.Command, args []string) {
		opts := botOptions(cmd)

		reg, _, err := cli.NewRegistry(opts.ConfigPath, cli.CreateLogger(opts.Debug))
		if err != nil {
			fmt.Printf("Error loading story: %v\n", err)
			os.Exit(1)
		}

		fmt.Print(graph.GenerateMermaid(reg, nil))
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
