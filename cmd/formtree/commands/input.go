package commands

import (
	"bytes"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/reoring/formtree"
	"github.com/reoring/formtree/internal/jsondup"
	"github.com/reoring/formtree/schemafile"
)

// input is a decoded document: either a nested value or flat pairs.
type input struct {
	value  any
	flat   []formtree.FlatPair
	isFlat bool
}

// readInput reads path ("-" or empty for stdin) in format. An empty format is
// picked from the file extension, defaulting to JSON. strict rejects JSON
// objects that repeat a key.
func readInput(cmd *cobra.Command, path, format string, strict bool) (input, error) {
	var (
		data []byte
		err  error
	)
	if path == "" || path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return input{}, fmt.Errorf("read input: %w", err)
	}
	if format == "" {
		format = formatFor(path)
	}
	if strict && format == "json" {
		if err := jsondup.Check(bytes.NewReader(data)); err != nil {
			return input{}, err
		}
	}
	return decodeInput(data, format)
}

func formatFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	case ".query", ".qs":
		return "query"
	}
	return "json"
}

func decodeInput(data []byte, format string) (input, error) {
	switch format {
	case "json":
		var v any
		dec := json.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(&v); err != nil {
			return input{}, fmt.Errorf("decode json: %w", err)
		}
		return input{value: v}, nil
	case "yaml":
		var v any
		if err := yaml.Unmarshal(data, &v); err != nil {
			return input{}, fmt.Errorf("decode yaml: %w", err)
		}
		return input{value: v}, nil
	case "query":
		vals, err := url.ParseQuery(strings.TrimSpace(string(data)))
		if err != nil {
			return input{}, fmt.Errorf("decode query: %w", err)
		}
		return input{flat: formtree.PairsFromValues(vals), isFlat: true}, nil
	}
	return input{}, fmt.Errorf("unknown input format %q", format)
}

// treeFlags are the flags shared by commands that bind input to a schema.
type treeFlags struct {
	schema string
	format string
	strict bool
}

func (f *treeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.schema, "schema", "s", "", "schema YAML file")
	cmd.Flags().StringVarP(&f.format, "format", "f", "", "input format: json, yaml or query (default from extension)")
	cmd.Flags().BoolVar(&f.strict, "strict", false, "reject JSON input with duplicate object keys")
	_ = cmd.MarkFlagRequired("schema")
}

// load builds the schema's element and binds the input at args[0] to it.
func (a *app) load(cmd *cobra.Command, f treeFlags, args []string) (*formtree.Element, error) {
	s, err := schemafile.LoadFile(f.schema)
	if err != nil {
		return nil, err
	}
	path := ""
	if len(args) > 0 {
		path = args[0]
	}
	in, err := readInput(cmd, path, f.format, f.strict)
	if err != nil {
		return nil, err
	}
	el := s.New()
	if in.isFlat {
		el.SetFlatSep(in.flat, a.cfg.FlatSep)
		a.log.Debug().Int("pairs", len(in.flat)).Msg("Bound flat input")
		return el, nil
	}
	ok, err := el.Set(in.value)
	if err != nil {
		return nil, fmt.Errorf("bind input: %w", err)
	}
	a.log.Debug().Bool("converted", ok).Str("schema", s.String()).Msg("Bound input")
	return el, nil
}
