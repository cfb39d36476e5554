package format

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type sample struct {
	ID        string  `json:"id"`
	ProjectID *string `json:"projectId,omitempty"`
	Done      bool    `json:"completed"`
}

func TestWriteJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, map[string]any{"data": sample{ID: "task-a"}}, "json", false))
	assert.Equal(t, "{\"data\":{\"id\":\"task-a\",\"completed\":false}}\n", buf.String())

	buf.Reset()
	require.NoError(t, Write(&buf, map[string]any{"data": 1}, "", true))
	assert.Equal(t, "{\n  \"data\": 1\n}\n", buf.String())
}

func TestWriteYAMLUsesJSONTags(t *testing.T) {
	t.Parallel()

	pid := "proj-a"
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, map[string]any{"data": []sample{{ID: "task-a", ProjectID: &pid, Done: true}}}, "yaml", false))
	out := buf.String()
	assert.Contains(t, out, "projectId: proj-a")
	assert.NotContains(t, out, "ProjectID")

	var back map[string][]map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &back))
	require.Len(t, back["data"], 1)
	assert.Equal(t, true, back["data"][0]["completed"])
	assert.Equal(t, "task-a", back["data"][0]["id"])
}

func TestWriteUnknownFormat(t *testing.T) {
	t.Parallel()

	err := Write(&bytes.Buffer{}, nil, "edn", false)
	assert.EqualError(t, err, "unknown format: edn (want one of json, yaml)")
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]string{"": JSON, " JSON ": JSON, "yml": YAML, "YAML": YAML} {
		got, err := Normalize(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestWriteJSONKeepsHTML(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, map[string]string{"content": "fix <b> & ship"}, false))
	assert.Equal(t, "{\"content\":\"fix <b> & ship\"}\n", buf.String())
}
