package main

import (
	"encoding/json"

	"github.com/Aidin1998/algohost/internal/invoke"
	"github.com/Aidin1998/algohost/internal/manifest"
	"github.com/spf13/cobra"
)

var validateOpenAPI bool

var validateCmd = &cobra.Command{
	Use:   "validate <manifest>",
	Short: "Check a service manifest",
	Long: `Load and validate a service manifest. Implementations that are declared
but not compiled into this binary are reported as warnings.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := manifest.Load(args[0])
		if err != nil {
			return err
		}

		if validateOpenAPI {
			doc, err := m.OpenAPI(version)
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(doc, "", "  ")
			if err != nil {
				return err
			}
			cmd.Println(string(out))
			return nil
		}

		for _, impl := range m.Implementations {
			if _, ok := invoke.Default.Lookup(impl.ID); !ok {
				cmd.Printf("warning: implementation %q is not registered\n", impl.ID)
			}
		}
		cmd.Printf("%s: ok (%d parameters, %d implementations)\n",
			m.ServiceName, len(m.Parameters), len(m.Implementations))
		return nil
	},
}

func init() {
	validateCmd.Flags().BoolVar(&validateOpenAPI, "openapi", false, "print the OpenAPI document instead of a summary")
	rootCmd.AddCommand(validateCmd)
}
