// Package loader reads diagrams and models from disk.
//
// Diagrams are JSON documents; models are YAML (or JSON, which YAML
// accepts). Both decoders reject unknown fields so that typos surface as
// malformed input instead of silently dropped data.
package loader

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/leapstack-labs/sketchlink/pkg/core"
	"gopkg.in/yaml.v3"
)

type diagramFile struct {
	ID          string            `json:"id"`
	Boxes       []*core.Box       `json:"boxes"`
	Connections []core.Connection `json:"connections"`
}

// ReadDiagram decodes a diagram document. source names the input in errors.
func ReadDiagram(r io.Reader, source string) (*core.Diagram, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var f diagramFile
	if err := dec.Decode(&f); err != nil {
		return nil, core.NewMalformedInputError(source, "invalid diagram: %v", err)
	}

	seen := make(map[string]bool, len(f.Boxes))
	for i, b := range f.Boxes {
		if b == nil || b.ID == "" {
			return nil, core.NewMalformedInputError(source, "box %d has no id", i)
		}
		if seen[b.ID] {
			return nil, core.NewMalformedInputError(source, "duplicate box id %q", b.ID)
		}
		seen[b.ID] = true
	}
	for _, b := range f.Boxes {
		if b.HasParent() && !seen[b.ParentID] {
			return nil, core.NewMalformedInputError(source, "box %q has unknown parent %q", b.ID, b.ParentID)
		}
	}
	for _, c := range f.Connections {
		if !seen[c.From] || !seen[c.To] {
			return nil, core.NewMalformedInputError(source, "line %s -> %s references an unknown box", c.From, c.To)
		}
	}

	id := f.ID
	if id == "" {
		id = source
	}
	return core.NewDiagram(id, f.Boxes, f.Connections), nil
}

// LoadDiagram reads the diagram file at path.
func LoadDiagram(path string) (*core.Diagram, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the command line
	if err != nil {
		return nil, fmt.Errorf("failed to read diagram %s: %w", path, err)
	}
	return ReadDiagram(bytes.NewReader(data), path)
}

type modelFile struct {
	Type     string       `yaml:"type"`
	Entities []entityYAML `yaml:"entities"`
}

type entityYAML struct {
	ID        string          `yaml:"id"`
	Name      string          `yaml:"name"`
	Kind      string          `yaml:"kind"`
	Relations []core.Relation `yaml:"relations"`
}

// ReadModel decodes a model document. source names the input in errors.
func ReadModel(r io.Reader, source string) (*core.Model, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f modelFile
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, core.NewMalformedInputError(source, "empty model document")
		}
		return nil, core.NewMalformedInputError(source, "invalid model: %v", err)
	}

	t, err := core.ParseModelType(strings.ToLower(strings.TrimSpace(f.Type)))
	if err != nil {
		return nil, core.NewMalformedInputError(source, "%v", err)
	}

	entities := make([]core.Entity, 0, len(f.Entities))
	seen := make(map[string]bool, len(f.Entities))
	for i, e := range f.Entities {
		if e.ID == "" {
			return nil, core.NewMalformedInputError(source, "entity %d has no id", i)
		}
		if seen[e.ID] {
			return nil, core.NewMalformedInputError(source, "duplicate entity id %q", e.ID)
		}
		seen[e.ID] = true

		name := e.Name
		if name == "" {
			name = e.ID
		}
		entity, err := newEntity(t, e.ID, name, core.EntityKind(e.Kind), e.Relations)
		if err != nil {
			return nil, core.NewMalformedInputError(source, "entity %q: %v", e.ID, err)
		}
		entities = append(entities, entity)
	}

	for _, e := range entities {
		for _, r := range e.EntityRelations() {
			if !seen[r.Target] {
				return nil, core.NewMalformedInputError(source, "entity %q relates to unknown entity %q", e.EntityID(), r.Target)
			}
		}
	}

	return core.NewModel(t, entities), nil
}

// LoadModel reads the model file at path.
func LoadModel(path string) (*core.Model, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the command line
	if err != nil {
		return nil, fmt.Errorf("failed to read model %s: %w", path, err)
	}
	return ReadModel(bytes.NewReader(data), path)
}

func newEntity(t core.ModelType, id, name string, kind core.EntityKind, rels []core.Relation) (core.Entity, error) {
	for _, r := range rels {
		switch r.Kind {
		case core.RelationContains, core.RelationDependsOn:
		default:
			return nil, fmt.Errorf("unknown relation kind %q", r.Kind)
		}
	}

	switch t {
	case core.ModelTypeArchitecture:
		switch kind {
		case "", core.KindComponent, core.KindInterface:
		default:
			return nil, fmt.Errorf("kind %q is not an architecture kind", kind)
		}
		return &core.ArchitectureItem{ID: id, Name: name, Kind: kind, Relations: rels}, nil
	case core.ModelTypeCode:
		switch kind {
		case core.KindPackage, core.KindUnit, core.KindType:
		default:
			return nil, fmt.Errorf("kind %q is not a code kind", kind)
		}
		return &core.CodeItem{ID: id, Name: name, Kind: kind, Relations: rels}, nil
	default:
		panic(core.NewUnsupportedTypeError("model type", string(t)))
	}
}
