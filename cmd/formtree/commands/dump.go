package commands

import (
	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
)

var dumper = spew.ConfigState{Indent: "  ", SortKeys: true, DisablePointerAddresses: true, DisableCapacities: true}

func newDumpCommand(a *app) *cobra.Command {
	var (
		tf   treeFlags
		path string
	)

	cmd := &cobra.Command{
		Use:   "dump [input]",
		Short: "Print the native values bound from an input document",
		Example: `  formtree dump -s signup.yaml signup.json
  formtree dump -s signup.yaml --path .addresses.0 signup.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			el, err := a.load(cmd, tf, args)
			if err != nil {
				return err
			}
			if path != "" {
				if el, err = el.ElSep(path, a.cfg.PathSep); err != nil {
					return err
				}
			}
			dumper.Fdump(cmd.OutOrStdout(), el.Value())
			return nil
		},
	}

	tf.register(cmd)
	cmd.Flags().StringVar(&path, "path", "", "dump only the element at this path")

	return cmd
}
