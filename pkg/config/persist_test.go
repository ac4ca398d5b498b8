package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvSetProjectID(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "replace_existing",
			in:   "# cloud\nTC_SERVER=https://x\nTC_PROJECT_ID='old'\nUPDATE_CRITERIA_TYPE=days\n",
			want: "# cloud\nTC_SERVER=https://x\nTC_PROJECT_ID='new'\nUPDATE_CRITERIA_TYPE=days\n",
		},
		{
			name: "replace_only_first",
			in:   "TC_PROJECT_ID=a\nTC_PROJECT_ID=b\n",
			want: "TC_PROJECT_ID='new'\nTC_PROJECT_ID=b\n",
		},
		{
			name: "replace_exported_with_crlf",
			in:   "export TC_PROJECT_ID = old\r\nTC_SITE=acme\r\n",
			want: "TC_PROJECT_ID='new'\r\nTC_SITE=acme\r\n",
		},
		{
			name: "append_when_absent",
			in:   "TC_SERVER=https://x\n",
			want: "TC_SERVER=https://x\nTC_PROJECT_ID='new'\n",
		},
		{
			name: "append_without_trailing_newline",
			in:   "TC_SERVER=https://x",
			want: "TC_SERVER=https://x\nTC_PROJECT_ID='new'\n",
		},
		{
			name: "similar_key_is_not_touched",
			in:   "TC_PROJECT_ID_OLD=x\n",
			want: "TC_PROJECT_ID_OLD=x\nTC_PROJECT_ID='new'\n",
		},
		{
			name: "empty_file",
			in:   "",
			want: "TC_PROJECT_ID='new'\n",
		},
	}

	f := &EnvFormat{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.SetProjectID(testContext(t), "properties.env", []byte(tt.in), "new")
			require.NoError(t, err, "SetProjectID should succeed")
			assert.Equal(t, tt.want, string(got), "file content should match")
		})
	}
}

func TestYAMLSetProjectID(t *testing.T) {
	in := `# migration settings
source:
  server: https://tableau.example.com # on-prem
destination:
  server: https://10ax.online.tableau.com
`
	got, err := (&YAMLFormat{}).SetProjectID(testContext(t), "c.yaml", []byte(in), "proj-9")
	require.NoError(t, err, "SetProjectID should succeed")

	out := string(got)
	assert.Contains(t, out, "# migration settings", "head comment should survive")
	assert.Contains(t, out, "# on-prem", "line comment should survive")
	assert.Contains(t, out, `project_id: "proj-9"`, "project id should be added")

	values, err := (&YAMLFormat{}).Parse(testContext(t), "c.yaml", got)
	require.NoError(t, err, "result should parse")
	assert.Equal(t, "proj-9", values[KeyProjectID], "project id should round trip")
	assert.Equal(t, "https://tableau.example.com", values["TS_SERVER"], "other values should survive")
}

func TestHCLSetProjectID(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{
			name: "existing_block",
			in: `# cloud target
destination {
  server     = "https://10ax.online.tableau.com"
  project_id = "old"
}
`,
		},
		{
			name: "missing_block",
			in: `source {
  server = "https://tableau.example.com"
}
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := (&HCLFormat{}).SetProjectID(testContext(t), "c.hcl", []byte(tt.in), "proj-9")
			require.NoError(t, err, "SetProjectID should succeed")

			values, err := (&HCLFormat{}).Parse(testContext(t), "c.hcl", got)
			require.NoError(t, err, "result should parse")
			assert.Equal(t, "proj-9", values[KeyProjectID], "project id should be set")
		})
	}
}

func TestConfigSetProjectID(t *testing.T) {
	path := writeFile(t, "properties.env", validEnv)

	cfg, err := Load(testContext(t), path, noEnv)
	require.NoError(t, err, "Load should succeed")

	next, err := cfg.SetProjectID(testContext(t), "proj-2")
	require.NoError(t, err, "SetProjectID should succeed")

	assert.Equal(t, "proj-1", cfg.ProjectID, "original config should be unchanged")
	assert.Equal(t, "proj-2", next.ProjectID, "returned config should carry the new id")

	reloaded, err := Load(testContext(t), path, noEnv)
	require.NoError(t, err, "reload should succeed")
	assert.Equal(t, "proj-2", reloaded.ProjectID, "file should carry the new id")

	data, err := os.ReadFile(path)
	require.NoError(t, err, "reading file")
	assert.Contains(t, string(data), "# Tableau Server\n", "comments should survive")
	assert.Contains(t, string(data), "UPDATE_CRITERIA_VALUE=6\n", "unrelated lines should survive")
}

func TestConfigSetProjectIDWithoutFile(t *testing.T) {
	cfg := &Config{}
	_, err := cfg.SetProjectID(testContext(t), "x")
	require.Error(t, err, "SetProjectID should fail without a backing file")
}
