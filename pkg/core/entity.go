package core

// RelationKind is the semantic kind of a relation between two entities.
type RelationKind string

// Relation kinds.
const (
	// RelationContains marks the target as nested in the source
	// (composite component, package -> subpackage, package -> unit).
	RelationContains RelationKind = "contains"
	// RelationDependsOn marks the source as using the target.
	RelationDependsOn RelationKind = "depends"
)

// Relation is a directed relation from an entity to another entity of the same model.
type Relation struct {
	Kind   RelationKind `json:"kind" yaml:"kind"`
	Target string       `json:"target" yaml:"target"`
}

// EntityKind classifies an entity inside its model.
type EntityKind string

// Architecture entity kinds.
const (
	KindComponent EntityKind = "component"
	KindInterface EntityKind = "interface"
)

// Code entity kinds.
const (
	KindPackage EntityKind = "package"
	KindUnit    EntityKind = "unit"
	KindType    EntityKind = "type"
)

// Entity is a model element: either an *ArchitectureItem or a *CodeItem.
// The set is closed; switch on the concrete type and treat anything else
// as an UnsupportedTypeError.
type Entity interface {
	EntityID() string
	EntityName() string
	EntityKind() EntityKind
	EntityRelations() []Relation

	isEntity()
}

// ArchitectureItem is an element of an architecture model.
type ArchitectureItem struct {
	ID        string
	Name      string
	Kind      EntityKind
	Relations []Relation
}

func (a *ArchitectureItem) EntityID() string            { return a.ID }
func (a *ArchitectureItem) EntityName() string          { return a.Name }
func (a *ArchitectureItem) EntityKind() EntityKind      { return a.Kind }
func (a *ArchitectureItem) EntityRelations() []Relation { return a.Relations }
func (a *ArchitectureItem) isEntity()                   {}

// IsComponent reports whether the item is a component (as opposed to an interface).
func (a *ArchitectureItem) IsComponent() bool {
	return a.Kind == "" || a.Kind == KindComponent
}

// CodeItem is an element of a code model.
type CodeItem struct {
	ID        string
	Name      string
	Kind      EntityKind
	Relations []Relation
}

func (c *CodeItem) EntityID() string            { return c.ID }
func (c *CodeItem) EntityName() string          { return c.Name }
func (c *CodeItem) EntityKind() EntityKind      { return c.Kind }
func (c *CodeItem) EntityRelations() []Relation { return c.Relations }
func (c *CodeItem) isEntity()                   {}

// IsPackage reports whether the item is a package.
func (c *CodeItem) IsPackage() bool {
	return c.Kind == KindPackage
}
