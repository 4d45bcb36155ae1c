package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "aacdec",
	Short: "A fixed-point AAC decoder.",
	Long:  "A CLI tool to inspect AAC-LC and HE-AAC streams and decode them to WAV.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogger(cmd.ErrOrStderr())
	},
	SilenceUsage: true,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

var quiet bool
var verbose bool

func init() {
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Only report errors")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Report decoder debug messages")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
