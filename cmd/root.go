package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "fieldassist",
	Short: "Equipment troubleshooting assistant with documentation retrieval",
	Long: `Fieldassist answers equipment troubleshooting questions by extracting
structured context from a technician's message, retrieving the relevant
manual sections from an indexed corpus, and synthesizing an answer with
citations and safety warnings. It asks a clarifying question when the
message is too ambiguous to act on.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".fieldassist.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
