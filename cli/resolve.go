package cli

import (
	"github.com/spf13/cobra"

	"github.com/shareconf/shareconf/engine/core"
	"github.com/shareconf/shareconf/engine/resolve"
	"github.com/shareconf/shareconf/pkg/logger"
)

// ResolveCmd clones a template into a concrete configuration.
func ResolveCmd() *cobra.Command {
	var (
		templatePath  string
		variablesPath string
		outPath       string
		valuesFiles   []string
		envFiles      []string
		sets          []string
	)
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Materialize a template into a concrete configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			log := logger.FromContext(cmd.Context())
			template, err := loadTree(templatePath)
			if err != nil {
				return err
			}
			defs, err := loadDefinitions(variablesPath)
			if err != nil {
				return err
			}
			mapping, err := loadMapping(valuesFiles, envFiles, sets)
			if err != nil {
				return err
			}
			result, err := resolve.ResolveVariables(template, defs, mapping)
			if err != nil {
				log.Error("cannot clone", "reason", core.RedactError(err))
				return err
			}
			if err := writeTree(outPath, result.Config); err != nil {
				return err
			}
			log.Info("configuration written",
				"out", outPath,
				"applied_defaults", result.AppliedDefaults,
			)
			return nil
		},
	}
	cmd.Flags().StringVarP(&templatePath, "template", "t", "", "Template file (JSON or YAML)")
	cmd.Flags().StringVarP(&variablesPath, "variables", "V", "", "Variable definitions file")
	cmd.Flags().StringVarP(&outPath, "out", "o", "config.yaml", "Output configuration file")
	cmd.Flags().StringArrayVar(&valuesFiles, "values", nil, "Values file with NAME: value pairs (repeatable)")
	cmd.Flags().StringArrayVar(&envFiles, "env-file", nil, "Dotenv file supplying variable values (repeatable)")
	cmd.Flags().StringArrayVar(&sets, "set", nil, "Inline NAME=value override (repeatable)")
	_ = cmd.MarkFlagRequired("template")
	_ = cmd.MarkFlagRequired("variables")
	return cmd
}
