package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jvm123/botstory"
	"github.com/jvm123/botstory/internal/cli"
	"github.com/jvm123/botstory/pkg/respond"
	"github.com/spf13/cobra"
)

var trainCmd = &cobra.Command{
	Use:   "train <corpus.db>",
	Short: "Build the response corpus",
	Long: `Writes the default small-talk exchanges plus the story's canned
exchanges into a sqlite corpus, replacing any previous content. The
corpus can then be served to chat sessions with --corpus.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		opts := botOptions(cmd)

		reg, _, err := cli.NewRegistry(opts.ConfigPath, cli.CreateLogger(opts.Debug))
		if err != nil {
			fmt.Printf("Error loading story: %v\n", err)
			os.Exit(1)
		}

		store, err := respond.OpenCorpus(args[0])
		if err != nil {
			fmt.Printf("Error opening corpus: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()

		pairs := append(botstory.DefaultExchanges(), reg.TrainingData()...)
		if err := store.Replace(context.Background(), pairs); err != nil {
			fmt.Printf("Error writing corpus: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Trained %d exchanges into %s\n", len(pairs)/2, args[0])
	},
}

func init() {
	rootCmd.AddCommand(trainCmd)
}
