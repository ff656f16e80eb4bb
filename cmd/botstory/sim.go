package main

import (
	"fmt"
	"os"

	"github.com/jvm123/botstory/internal/cli"
	"github.com/spf13/cobra"
)

var simCmd = &cobra.Command{
	Use:   "sim <transcript>",
	Short: "Replay a conversation transcript",
	Long: `Feeds a transcript file to the bot line by line and prints each
exchange. A blank line starts a fresh session.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		opts := botOptions(cmd)
		if err := cli.RunSim(opts, args[0]); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(simCmd)
	simCmd.Flags().String("corpus", "", "sqlite corpus of additional trained exchanges")
}
