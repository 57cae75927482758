package loader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leapstack-labs/sketchlink/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadDiagram(t *testing.T) {
	input := `{
  "id": "overview",
  "boxes": [
    {"id": "b1", "text": "Logic"},
    {"id": "b2", "text": "Core", "parent": "b1"}
  ],
  "connections": [{"from": "b2", "to": "b1"}]
}`

	d, err := ReadDiagram(strings.NewReader(input), "test.json")
	require.NoError(t, err)

	assert.Equal(t, "overview", d.ID)
	require.Len(t, d.Boxes, 2)
	assert.Equal(t, "b1", d.Boxes[1].ParentID)
	assert.True(t, d.Connected("b2", "b1"))
}

func TestReadDiagram_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "not json", input: `boxes:`},
		{name: "unknown field", input: `{"boxes": [], "shapes": []}`},
		{name: "missing id", input: `{"boxes": [{"text": "x"}]}`},
		{name: "duplicate id", input: `{"boxes": [{"id": "a"}, {"id": "a"}]}`},
		{name: "unknown parent", input: `{"boxes": [{"id": "a", "parent": "z"}]}`},
		{name: "dangling line", input: `{"boxes": [{"id": "a"}], "connections": [{"from": "a", "to": "z"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadDiagram(strings.NewReader(tt.input), "test.json")
			assert.ErrorIs(t, err, core.ErrMalformedInput)
		})
	}
}

func TestReadModel_YAML(t *testing.T) {
	input := `
type: code
entities:
  - id: app
    name: app
    kind: package
    relations:
      - {kind: contains, target: app.core}
  - id: app.core
    kind: package
    relations:
      - {kind: depends, target: app}
`

	m, err := ReadModel(strings.NewReader(input), "model.yaml")
	require.NoError(t, err)

	assert.Equal(t, core.ModelTypeCode, m.Type)
	require.Len(t, m.Entities, 2)
	assert.Equal(t, "app.core", m.Entities[1].EntityName(), "name defaults to id")
	assert.True(t, m.Contains("app", "app.core"))
	assert.True(t, m.DependsOn("app.core", "app"))
}

func TestReadModel_JSON(t *testing.T) {
	input := `{"type": "architecture", "entities": [{"id": "e1", "name": "Logic"}, {"id": "i1", "name": "API", "kind": "interface"}]}`

	m, err := ReadModel(strings.NewReader(input), "model.json")
	require.NoError(t, err)

	assert.Equal(t, core.ModelTypeArchitecture, m.Type)
	item, ok := m.Entities[1].(*core.ArchitectureItem)
	require.True(t, ok)
	assert.False(t, item.IsComponent())
}

func TestReadModel_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ``},
		{name: "unknown type", input: `type: database`},
		{name: "unknown field", input: "type: code\nowner: me"},
		{name: "wrong kind for type", input: "type: code\nentities: [{id: a, kind: component}]"},
		{name: "unknown relation kind", input: "type: architecture\nentities: [{id: a, relations: [{kind: uses, target: a}]}]"},
		{name: "dangling relation", input: "type: architecture\nentities: [{id: a, relations: [{kind: depends, target: b}]}]"},
		{name: "duplicate id", input: "type: architecture\nentities: [{id: a}, {id: a}]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadModel(strings.NewReader(tt.input), "model.yaml")
			assert.ErrorIs(t, err, core.ErrMalformedInput)
		})
	}
}

func TestLoadFiles(t *testing.T) {
	dir := t.TempDir()
	diagramPath := filepath.Join(dir, "d.json")
	modelPath := filepath.Join(dir, "m.yaml")
	require.NoError(t, os.WriteFile(diagramPath, []byte(`{"boxes": [{"id": "a", "text": "A"}]}`), 0o600))
	require.NoError(t, os.WriteFile(modelPath, []byte("type: architecture\nentities: [{id: a, name: A}]\n"), 0o600))

	d, err := LoadDiagram(diagramPath)
	require.NoError(t, err)
	assert.Equal(t, diagramPath, d.ID, "id defaults to the source")

	m, err := LoadModel(modelPath)
	require.NoError(t, err)
	assert.Len(t, m.Entities, 1)

	_, err = LoadDiagram(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, core.ErrMalformedInput)
}
