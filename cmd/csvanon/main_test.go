package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mmrzaf/csvanon/internal/config"
	"github.com/mmrzaf/csvanon/internal/directive"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type cliResult struct {
	stdout string
	stderr string
	err    error
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		ProfilesDir: t.TempDir(),
		LogLevel:    "info",
		Delimiter:   ",",
	}
}

func runCLI(t *testing.T, cfg *config.Config, stdin string, args ...string) cliResult {
	t.Helper()
	cmd := newRootCmd(cfg)
	var stdout, stderr bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return cliResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func parseCSV(t *testing.T, s string, delim rune) [][]string {
	t.Helper()
	r := csv.NewReader(strings.NewReader(s))
	r.Comma = delim
	r.FieldsPerRecord = -1
	recs, err := r.ReadAll()
	require.NoError(t, err)
	return recs
}

func TestRoot_AnonymizesFile(t *testing.T) {
	input := writeTemp(t, "people.csv", "id;name;email\n1;Ada;ada@corp.test\n2;Bob;bob@corp.test\n")

	res := runCLI(t, testConfig(t), "", "--header", "-d", ";", input, "2:internet.safe_email", "1:name.name")
	require.NoError(t, res.err, res.stderr)

	recs := parseCSV(t, res.stdout, ';')
	require.Len(t, recs, 3)
	assert.Equal(t, []string{"id", "name", "email"}, recs[0])
	assert.Equal(t, "1", recs[1][0])
	assert.NotEqual(t, "Ada", recs[1][1])
	assert.NotEqual(t, "ada@corp.test", recs[1][2])

	assert.Contains(t, res.stderr, `"msg":"run.completed"`)
	assert.Contains(t, res.stderr, `"rows":2`)
	assert.Contains(t, res.stderr, `"cells":4`)
}

func TestRoot_ReadsStdinAndQuiet(t *testing.T) {
	res := runCLI(t, testConfig(t), "a,b\nc,d\n", "-q", "-", "0:boolean")
	require.NoError(t, res.err)

	recs := parseCSV(t, res.stdout, ',')
	require.Len(t, recs, 2)
	assert.Contains(t, []string{"true", "false"}, recs[0][0])
	assert.Equal(t, "d", recs[1][1])
	assert.Empty(t, res.stderr)
}

func TestRoot_Errors(t *testing.T) {
	cfg := testConfig(t)

	res := runCLI(t, cfg, "a,b\n", "-", "1:name.nickname")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), `unknown minor name kind "nickname"`)

	res = runCLI(t, cfg, "a,b\n", "-", "1:name.name", "1:name.title")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "rewrite directives contained 1 duplicate column(s)")

	res = runCLI(t, cfg, "a,b\n", "-", "4:lorem.word")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "invalid column index 4 - row 1 has only 2 columns")

	res = runCLI(t, cfg, "", filepath.Join(t.TempDir(), "missing.csv"), "0:boolean")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "could not open")

	res = runCLI(t, cfg, "")
	assert.Error(t, res.err, "an input file is required")
}

func TestRoot_NoDirectivesCopiesInput(t *testing.T) {
	input := writeTemp(t, "plain.csv", "a,b,c\n1,2\n\"x,y\",z,w\n")

	res := runCLI(t, testConfig(t), "", input)
	require.NoError(t, res.err, res.stderr)

	assert.Equal(t, "a,b,c\n1,2\n\"x,y\",z,w\n", res.stdout)
	assert.Contains(t, res.stderr, `"rows":3`)
	assert.Contains(t, res.stderr, `"cells":0`)
}

func TestRoot_AllSpecs(t *testing.T) {
	res := runCLI(t, testConfig(t), "", "--all-specs")
	require.NoError(t, res.err)
	assert.Empty(t, res.stdout)
	assert.Equal(t, directive.Specs(), strings.Split(strings.TrimSpace(res.stderr), "\n"))
}

func TestSpecsFormats(t *testing.T) {
	cfg := testConfig(t)

	res := runCLI(t, cfg, "", "specs", "--format", "json")
	require.NoError(t, res.err)
	var groups []directive.Group
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &groups))
	assert.Equal(t, directive.Combinations(), groups)

	res = runCLI(t, cfg, "", "specs", "--format", "yaml")
	require.NoError(t, res.err)
	groups = nil
	require.NoError(t, yaml.Unmarshal([]byte(res.stdout), &groups))
	assert.Len(t, groups, len(directive.Combinations()))

	res = runCLI(t, cfg, "", "specs")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "MAJOR")
	assert.Contains(t, res.stdout, "safe_email")

	res = runCLI(t, cfg, "", "specs", "--format", "xml")
	assert.Error(t, res.err)
}

func TestProfileCommands(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.WriteFile(filepath.Join(cfg.ProfilesDir, "contacts.yaml"), []byte(`
name: contacts
header: true
memoize: true
directives:
  - 0:name.name
`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.ProfilesDir, "broken.yaml"), []byte(`
name: broken
directives:
  - 0:name.name
  - 0:name.last_name
`), 0o644))

	res := runCLI(t, cfg, "", "profile", "list", "--format", "json")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, `"contacts"`)

	res = runCLI(t, cfg, "", "profile", "show", "contacts")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "0:name.name")

	res = runCLI(t, cfg, "", "profile", "validate", "contacts")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Profile 'contacts' is valid")

	res = runCLI(t, cfg, "", "profile", "validate", "broken.yaml")
	assert.Error(t, res.err)

	res = runCLI(t, cfg, "who,where\nAda,Paris\nAda,Rome\n", "-q", "--profile", "contacts", "-")
	require.NoError(t, res.err)
	recs := parseCSV(t, res.stdout, ',')
	require.Len(t, recs, 3)
	assert.Equal(t, []string{"who", "where"}, recs[0])
	assert.Equal(t, recs[1][0], recs[2][0])
	assert.NotEqual(t, "Ada", recs[1][0])
}

func TestRunsCommands(t *testing.T) {
	cfg := testConfig(t)
	cfg.RunsDB = filepath.Join(t.TempDir(), "state", "runs.db")

	res := runCLI(t, cfg, "x\ny\n", "-q", "--seed", "5", "-", "0:id.uuid")
	require.NoError(t, res.err)

	res = runCLI(t, cfg, "", "runs", "list", "--format", "json", "--since", "1h")
	require.NoError(t, res.err)
	var list []struct {
		ID     string `json:"id"`
		Status string `json:"status"`
		Seed   int64  `json:"seed"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "success", list[0].Status)
	assert.Equal(t, int64(5), list[0].Seed)

	res = runCLI(t, cfg, "", "runs", "show", list[0].ID)
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "rows: 2")
	assert.Contains(t, res.stdout, "cells: 2")

	res = runCLI(t, cfg, "", "runs", "list")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "STATUS")

	noDB := testConfig(t)
	res = runCLI(t, noDB, "", "runs", "list")
	assert.ErrorIs(t, res.err, errNoRunsDB)
}
