package serializer

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rows struct{}

func (rows) TableHeader() []string { return []string{"CODE", "MESSAGE"} }
func (rows) TableRows() [][]string {
	return [][]string{{"SYNC", "push failed"}, {"UNRESOLVED_TEXTURE", "minecraft:stick"}}
}

func TestWriterFormats(t *testing.T) {
	data := sample{Name: "cover", Scale: 2}

	tests := []struct {
		format Format
		check  func(t *testing.T, out string)
	}{
		{FormatJSON, func(t *testing.T, out string) {
			var got sample
			require.NoError(t, json.Unmarshal([]byte(out), &got))
			assert.Equal(t, data.Name, got.Name)
		}},
		{FormatYAML, func(t *testing.T, out string) {
			assert.Contains(t, out, "name: cover")
		}},
		{FormatTable, func(t *testing.T, out string) {
			assert.Contains(t, out, "FIELD")
			assert.Contains(t, out, "Scale")
		}},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			var buf bytes.Buffer
			w := NewWriter(tt.format, &buf)
			require.NoError(t, w.Serialize(context.Background(), data))
			tt.check(t, buf.String())
		})
	}
}

func TestWriterUnknownFormatDefaultsToJSON(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(Format("xml"), &buf)
	require.NoError(t, w.Serialize(context.Background(), map[string]int{"a": 1}))
	assert.True(t, strings.HasPrefix(strings.TrimSpace(buf.String()), "{"))
}

func TestWriterTabular(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewWriter(FormatTable, &buf).Serialize(context.Background(), rows{}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "CODE"))
	assert.Contains(t, lines[3], "minecraft:stick")
}

func TestNewFileWriterOrStdout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	w := NewFileWriterOrStdout(FormatYAML, path)
	require.NoError(t, w.Serialize(context.Background(), sample{Name: "x"}))
	require.NoError(t, w.Close())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "name: x")
}

func TestWriteJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "data_map.json")
	require.NoError(t, WriteJSONFile(path, map[string]any{"minecraft:stick": map[string]string{"0": "RP/textures/items/stick"}}))

	got, err := FromFile[map[string]map[string]string](path)
	require.NoError(t, err)
	assert.Equal(t, "RP/textures/items/stick", (*got)["minecraft:stick"]["0"])

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWriteYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg", "settings.yaml")
	require.NoError(t, WriteYAMLFile(path, sample{Name: "s", Scale: 4}))

	got, err := FromFile[sample](path)
	require.NoError(t, err)
	assert.Equal(t, 4, got.Scale)
}
