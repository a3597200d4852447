package commands

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/reoring/formtree"
	"github.com/reoring/formtree/i18n"
)

type report struct {
	Valid  bool            `json:"valid"`
	Issues formtree.Issues `json:"issues"`
}

func newValidateCommand(a *app) *cobra.Command {
	var tf treeFlags

	cmd := &cobra.Command{
		Use:   "validate [input]",
		Short: "Validate an input document and print a JSON report",
		Long: `Validate binds the input to the schema, runs every validator and prints
{"valid": bool, "issues": [...]}. The exit status is non-zero when the input
is invalid. Each validator run is logged at debug level.`,
		Example: `  formtree validate -s signup.yaml signup.json
  FORMTREE_LOG_LEVEL=debug formtree validate -s signup.yaml -f query < form.qs`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			el, err := a.load(cmd, tf, args)
			if err != nil {
				return err
			}
			catalog, _ := i18n.Lookup(a.cfg.Lang)
			ok := el.ValidateWith(formtree.ValidateOpt{State: catalog, Observer: func(ev formtree.ValidationEvent) {
				a.log.Debug().
					Str("path", ev.Element.FQName(a.cfg.PathSep)).
					Str("validator", ev.Validator).
					Bool("descending", ev.Descending).
					Stringer("result", ev.Result).
					Msg("Validator ran")
			}})
			rep := report{Valid: ok, Issues: formtree.CollectIssuesSep(el, a.cfg.PathSep)}
			if rep.Issues == nil {
				rep.Issues = formtree.Issues{}
			}
			b, err := json.MarshalIndent(rep, "", "  ")
			if err != nil {
				return err
			}
			if _, err := fmt.Fprintln(cmd.OutOrStdout(), string(b)); err != nil {
				return err
			}
			if !ok {
				a.log.Info().Int("issues", len(rep.Issues)).Msg("Input is invalid")
				return ErrInvalid
			}
			return nil
		},
	}

	tf.register(cmd)

	return cmd
}
