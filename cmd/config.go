package cmd

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func (a *app) configCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Prints the effective configuration",
		Long: `Prints the configuration after defaults, the config file, environment variables and flags
have been applied. The output is valid YAML and can be saved as launchgen.yml.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			encoder := yaml.NewEncoder(a.stdout)
			encoder.SetIndent(2)

			err := encoder.Encode(a.cfg)
			if err != nil {
				return eris.Wrap(err, "Failed to encode config")
			}

			return encoder.Close()
		},
	}
}
