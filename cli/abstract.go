package cli

import (
	"github.com/spf13/cobra"

	"github.com/shareconf/shareconf/engine/abstract"
	"github.com/shareconf/shareconf/engine/core"
	"github.com/shareconf/shareconf/pkg/logger"
)

// AbstractCmd publishes a concrete configuration as a template.
func AbstractCmd() *cobra.Command {
	var (
		configPath       string
		declarationsPath string
		templatePath     string
		variablesPath    string
	)
	cmd := &cobra.Command{
		Use:   "abstract",
		Short: "Turn a concrete configuration into a shareable template",
		RunE: func(cmd *cobra.Command, _ []string) error {
			log := logger.FromContext(cmd.Context())
			tree, err := loadTree(configPath)
			if err != nil {
				return err
			}
			decls, err := loadDeclarations(declarationsPath)
			if err != nil {
				return err
			}
			result, err := abstract.AbstractVariables(tree, decls)
			if err != nil {
				log.Error("cannot publish", "reason", core.RedactError(err))
				return err
			}
			if err := writeTree(templatePath, result.Template); err != nil {
				return err
			}
			if err := writeDefinitions(variablesPath, result.Definitions); err != nil {
				return err
			}
			log.Info("template written",
				"template", templatePath,
				"variables", len(result.Definitions),
			)
			return nil
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Concrete configuration file (JSON or YAML)")
	cmd.Flags().StringVarP(&declarationsPath, "declarations", "d", "", "Declared variable positions file")
	cmd.Flags().StringVarP(&templatePath, "out-template", "t", "template.yaml", "Output template file")
	cmd.Flags().StringVarP(&variablesPath, "out-variables", "V", "variables.yaml", "Output variable definitions file")
	_ = cmd.MarkFlagRequired("config")
	_ = cmd.MarkFlagRequired("declarations")
	return cmd
}
