package main

import (
	"fmt"
	"os"

	"github.com/jvm123/botstory/internal/cli"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	Long:  `Runs a single conversation on the terminal, with quick-reply hints and markdown rendering.`,
	Run: func(cmd *cobra.Command, args []string) {
		opts := botOptions(cmd)
		if err := cli.RunChat(opts); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

// botOptions collects the persistent bot flags. The corpus flag is
// local to the commands that run a responder, so it is read only when
// the command defines it.
func botOptions(cmd *cobra.Command) cli.BotOptions {
	configPath, _ := cmd.Flags().GetString("config")
	debug, _ := cmd.Flags().GetBool("debug")

	corpusPath := ""
	if cmd.Flags().Lookup("corpus") != nil {
		corpusPath, _ = cmd.Flags().GetString("corpus")
	}

	return cli.BotOptions{
		ConfigPath: configPath,
		CorpusPath: corpusPath,
		Debug:      debug,
	}
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().String("corpus", "", "sqlite corpus of additional trained exchanges")
}
