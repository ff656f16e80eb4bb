package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "botstory",
	Short: "botstory is a slot-filling dialog engine",
	Long: `botstory runs multi-turn conversations over declarative story
definitions: branches with typed slots, trigger words and canned
small-talk exchanges.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "YAML story definition (empty runs the built-in demo)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging to stderr")
}
