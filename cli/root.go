package cli

import (
	"github.com/spf13/cobra"

	"github.com/shareconf/shareconf/pkg/logger"
)

// RootCmd builds the shareconf command tree.
func RootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "shareconf",
		Short: "Shareconf - publish and clone configuration templates",
		Long: "Shareconf abstracts environment-specific and secret values out of a " +
			"configuration into a shareable template, and resolves templates back " +
			"into concrete configurations for a new owner.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logLevel, logJSON, logSource, err := logger.GetLoggerConfig(cmd)
			if err != nil {
				return err
			}
			return logger.SetupLogger(logLevel, logJSON, logSource)
		},
	}

	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Emit logs as JSON")
	rootCmd.PersistentFlags().Bool("log-source", false, "Include caller information in logs")

	rootCmd.AddCommand(AbstractCmd())
	rootCmd.AddCommand(ResolveCmd())
	rootCmd.AddCommand(ValidateCmd())
	return rootCmd
}
