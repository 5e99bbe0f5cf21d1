package cmd

import (
	"github.com/spf13/cobra"

	"github.com/fieldserve/fieldassist/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize fieldassist configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure fieldassist and generates a .fieldassist.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard()
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
