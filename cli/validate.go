package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/shareconf/shareconf/engine/resolve"
	"github.com/shareconf/shareconf/pkg/logger"
)

// ValidateCmd reports every mapping problem without attempting resolution.
func ValidateCmd() *cobra.Command {
	var (
		variablesPath string
		valuesFiles   []string
		envFiles      []string
		sets          []string
	)
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a variable mapping against a template's definitions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			log := logger.FromContext(cmd.Context())
			defs, err := loadDefinitions(variablesPath)
			if err != nil {
				return err
			}
			mapping, err := loadMapping(valuesFiles, envFiles, sets)
			if err != nil {
				return err
			}
			problems := resolve.ValidateVariableMapping(defs, mapping)
			if len(problems) == 0 {
				log.Info("mapping is valid", "variables", len(defs))
				return nil
			}
			out, err := yaml.Marshal(map[string]any{"problems": problems})
			if err != nil {
				return err
			}
			_, _ = cmd.OutOrStdout().Write(out)
			return fmt.Errorf("%d variable problem(s)", len(problems))
		},
	}
	cmd.Flags().StringVarP(&variablesPath, "variables", "V", "", "Variable definitions file")
	cmd.Flags().StringArrayVar(&valuesFiles, "values", nil, "Values file with NAME: value pairs (repeatable)")
	cmd.Flags().StringArrayVar(&envFiles, "env-file", nil, "Dotenv file supplying variable values (repeatable)")
	cmd.Flags().StringArrayVar(&sets, "set", nil, "Inline NAME=value override (repeatable)")
	_ = cmd.MarkFlagRequired("variables")
	return cmd
}
