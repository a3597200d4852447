package commands

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

func newFlattenCommand(a *app) *cobra.Command {
	var (
		tf     treeFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "flatten [input]",
		Short: "Print the flat name/text pairs of an input document",
		Example: `  # Flatten a JSON document into a query string
  formtree flatten -s signup.yaml signup.json

  # Round-trip a query string, printing JSON pairs
  formtree flatten -s signup.yaml -f query -o json < form.qs`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			el, err := a.load(cmd, tf, args)
			if err != nil {
				return err
			}
			pairs := el.FlattenSep(a.cfg.FlatSep)
			out := cmd.OutOrStdout()
			switch output {
			case "query":
				parts := make([]string, 0, len(pairs))
				for _, p := range pairs {
					parts = append(parts, url.QueryEscape(p.Key)+"="+url.QueryEscape(p.Value))
				}
				_, err = fmt.Fprintln(out, strings.Join(parts, "&"))
			case "json":
				rows := make([][2]string, 0, len(pairs))
				for _, p := range pairs {
					rows = append(rows, [2]string{p.Key, p.Value})
				}
				var b []byte
				if b, err = json.Marshal(rows); err == nil {
					_, err = fmt.Fprintln(out, string(b))
				}
			case "lines":
				for _, p := range pairs {
					if _, err = fmt.Fprintf(out, "%s=%s\n", p.Key, p.Value); err != nil {
						break
					}
				}
			default:
				return fmt.Errorf("unknown output %q", output)
			}
			return err
		},
	}

	tf.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "query", "output: query, json or lines")

	return cmd
}
