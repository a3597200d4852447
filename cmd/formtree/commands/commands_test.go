package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const formSchema = `
name: form
kind: dict
children:
  - name: name
    kind: string
    validators: [{type: present}]
  - name: age
    kind: integer
    optional: true
  - name: tags
    kind: list
    optional: true
    member: {name: tag, kind: string}
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCommand("test", "none", "today")
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestFlatten(t *testing.T) {
	schema := writeFile(t, "form.yaml", formSchema)
	input := writeFile(t, "in.json", `{"name": "Ann", "age": 30, "tags": ["a", "b"]}`)

	out, _, err := run(t, "", "flatten", "-s", schema, input)
	require.NoError(t, err)
	assert.Equal(t, "form_name=Ann&form_age=30&form_tags_0_tag=a&form_tags_1_tag=b\n", out)

	out, _, err = run(t, "", "flatten", "-s", schema, "-o", "json", "--flat-sep", ".", input)
	require.NoError(t, err)
	var rows [][2]string
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	assert.Equal(t, [2]string{"form.name", "Ann"}, rows[0])
	assert.Len(t, rows, 4)
}

func TestFlatten_EnvSeparator(t *testing.T) {
	t.Setenv("FORMTREE_FLAT_SEP", "-")
	schema := writeFile(t, "form.yaml", formSchema)

	out, _, err := run(t, "form-name=Bo&form-tags-0-tag=x", "flatten", "-s", schema, "-f", "query", "-o", "lines")
	require.NoError(t, err)
	assert.Equal(t, "form-name=Bo\nform-age=\nform-tags-0-tag=x\n", out)
}

func TestValidate(t *testing.T) {
	schema := writeFile(t, "form.yaml", formSchema)

	out, _, err := run(t, "name: Bo\n", "validate", "-s", schema, "-f", "yaml")
	require.NoError(t, err)
	var rep report
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.True(t, rep.Valid)
	assert.Empty(t, rep.Issues)

	out, _, err = run(t, `{"name": ""}`, "validate", "-s", schema)
	assert.ErrorIs(t, err, ErrInvalid)
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.False(t, rep.Valid)
	require.NotEmpty(t, rep.Issues)
	assert.Equal(t, ".name", rep.Issues[0].Path)
	assert.Equal(t, "/name", rep.Issues[0].Pointer)
	assert.Equal(t, "name may not be blank.", rep.Issues[0].Message)
}

func TestValidate_Lang(t *testing.T) {
	schema := writeFile(t, "form.yaml", formSchema)

	out, _, err := run(t, `{"name": ""}`, "validate", "-s", schema, "--lang", "ja")
	assert.ErrorIs(t, err, ErrInvalid)
	var rep report
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	require.NotEmpty(t, rep.Issues)
	assert.Equal(t, "nameは必須です。", rep.Issues[0].Message)

	_, _, err = run(t, "{}", "validate", "-s", schema, "--lang", "fr")
	assert.Error(t, err)
}

func TestValidate_DebugLogsValidatorRuns(t *testing.T) {
	schema := writeFile(t, "form.yaml", formSchema)

	_, logs, err := run(t, "form_name=Bo", "validate", "-s", schema, "-f", "query",
		"--log-level", "debug", "--log-format", "json")
	require.NoError(t, err)
	assert.Contains(t, logs, `"validator":"Present"`)
	assert.Contains(t, logs, `"path":".name"`)
}

func TestValidate_StrictRejectsDuplicateKeys(t *testing.T) {
	schema := writeFile(t, "form.yaml", formSchema)
	doc := `{"name": "a", "name": "b"}`

	_, _, err := run(t, doc, "validate", "-s", schema)
	require.NoError(t, err)

	_, _, err = run(t, doc, "validate", "-s", schema, "--strict")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/name")
}

func TestJSONSchema(t *testing.T) {
	schema := writeFile(t, "form.yaml", formSchema)

	out, _, err := run(t, "", "jsonschema", schema)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "object", doc["type"])
	assert.Equal(t, []any{"name"}, doc["required"])
}

func TestDump(t *testing.T) {
	schema := writeFile(t, "form.yaml", formSchema)

	out, _, err := run(t, `{"name": "Ann", "tags": ["a"]}`, "dump", "-s", schema, "--path", ".tags")
	require.NoError(t, err)
	assert.Contains(t, out, `(string) (len=1) "a"`)

	_, _, err = run(t, `{"name": "Ann"}`, "dump", "-s", schema, "--path", ".nope")
	assert.Error(t, err)
}

func TestConfigErrors(t *testing.T) {
	schema := writeFile(t, "form.yaml", formSchema)

	_, _, err := run(t, "{}", "validate", "-s", schema, "--log-level", "loud")
	assert.Error(t, err)

	_, _, err = run(t, "{}", "validate", "-s", schema, "--flat-sep", "")
	assert.Error(t, err)

	_, _, err = run(t, "{}", "validate")
	assert.Error(t, err)

	_, _, err = run(t, "{}", "validate", "-s", schema, "-f", "toml")
	assert.Error(t, err)
}
