package main

import (
	"fmt"
	"strings"

	"github.com/jvm123/botstory"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of botstory",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("botstory version %s\n", strings.TrimSpace(botstory.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
