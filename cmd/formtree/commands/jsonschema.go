package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reoring/formtree/jsonschema"
	"github.com/reoring/formtree/schemafile"
)

func newJSONSchemaCommand(_ *app) *cobra.Command {
	return &cobra.Command{
		Use:   "jsonschema <schema.yaml>",
		Short: "Print the JSON Schema projection of a schema file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := schemafile.LoadFile(args[0])
			if err != nil {
				return err
			}
			b, err := jsonschema.Marshal(s)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return err
		},
	}
}
