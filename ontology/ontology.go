// Package ontology defines the input data model for constraint resolution:
// node identifiers, the class/property node sum type, and the read-only
// ontology context a parser produces.
//
// A Context and the accompanying class-hierarchy graph are built once and
// never mutated afterwards; every resolver, index, and selection stage is a
// pure function of them.
package ontology

import (
	"github.com/c360studio/semindex/constraint"
)

// NodeID is an opaque IRI identifying a class or property. Globally unique
// within one ontology.
type NodeID string

func (id NodeID) String() string { return string(id) }

// Kind discriminates the node sum type.
type Kind string

const (
	// KindClass is an ontology class.
	KindClass Kind = "class"

	// KindProperty is an ontology property (object or datatype).
	KindProperty Kind = "property"
)

// Node is the tagged union of class and property nodes. Class nodes carry
// directly declared property constraints; property nodes carry their
// domain, range, and functional flag. Immutable once constructed.
type Node struct {
	ID    NodeID
	Kind  Kind
	Label string

	// Comment is the rdfs:comment of the node, carried into knowledge
	// units as the class definition.
	Comment string

	// Properties holds the constraints declared directly on a class,
	// from rdfs:domain declarations and materialized restrictions.
	Properties []constraint.PropertyConstraint

	// Property-node fields.
	Domain     NodeID
	Range      NodeID
	Functional bool
}

// NewClass constructs a class node.
func NewClass(id NodeID, label string, properties ...constraint.PropertyConstraint) Node {
	return Node{ID: id, Kind: KindClass, Label: label, Properties: properties}
}

// NewProperty constructs a property node.
func NewProperty(id NodeID, label string, domain, rng NodeID, functional bool) Node {
	return Node{ID: id, Kind: KindProperty, Label: label, Domain: domain, Range: rng, Functional: functional}
}

// IsClass reports whether the node is a class.
func (n Node) IsClass() bool { return n.Kind == KindClass }

// Context is the read-only companion of the class-hierarchy graph: node
// data, universally applicable property constraints, explicit disjointness
// declarations, and the property hierarchy.
type Context struct {
	nodes           map[NodeID]Node
	universal       []constraint.PropertyConstraint
	disjointWith    map[NodeID]map[NodeID]bool
	propertyParents map[NodeID]map[NodeID]bool
}

// NewContext creates an empty context.
func NewContext() *Context {
	return &Context{
		nodes:           make(map[NodeID]Node),
		disjointWith:    make(map[NodeID]map[NodeID]bool),
		propertyParents: make(map[NodeID]map[NodeID]bool),
	}
}

// AddNode registers a node, replacing any previous node with the same ID.
func (c *Context) AddNode(n Node) { c.nodes[n.ID] = n }

// Node looks up node data by ID.
func (c *Context) Node(id NodeID) (Node, bool) {
	n, ok := c.nodes[id]
	return n, ok
}

// HasNode reports whether the context carries data for the ID.
func (c *Context) HasNode(id NodeID) bool {
	_, ok := c.nodes[id]
	return ok
}

// Len returns the number of registered nodes.
func (c *Context) Len() int { return len(c.nodes) }

// AddUniversal registers a constraint that applies to every class, such as
// a property with no domain or with owl:Thing as its domain.
func (c *Context) AddUniversal(pc constraint.PropertyConstraint) {
	c.universal = append(c.universal, pc)
}

// Universal returns the universally applicable constraints.
func (c *Context) Universal() []constraint.PropertyConstraint { return c.universal }

// DeclareDisjoint records an explicit pairwise disjointness declaration.
// The relation is stored symmetrically.
func (c *Context) DeclareDisjoint(a, b NodeID) {
	if c.disjointWith[a] == nil {
		c.disjointWith[a] = make(map[NodeID]bool)
	}
	if c.disjointWith[b] == nil {
		c.disjointWith[b] = make(map[NodeID]bool)
	}
	c.disjointWith[a][b] = true
	c.disjointWith[b][a] = true
}

// ExplicitlyDisjoint reports whether a and b were declared disjoint.
func (c *Context) ExplicitlyDisjoint(a, b NodeID) bool {
	return c.disjointWith[a][b]
}

// DisjointWith returns the classes explicitly declared disjoint with id.
func (c *Context) DisjointWith(id NodeID) []NodeID {
	set := c.disjointWith[id]
	if len(set) == 0 {
		return nil
	}
	out := make([]NodeID, 0, len(set))
	for other := range set {
		out = append(out, other)
	}
	return out
}

// DeclarePropertyParent records a property-hierarchy edge
// (child rdfs:subPropertyOf parent).
func (c *Context) DeclarePropertyParent(child, parent NodeID) {
	if c.propertyParents[child] == nil {
		c.propertyParents[child] = make(map[NodeID]bool)
	}
	c.propertyParents[child][parent] = true
}

// PropertyParents returns the direct parents of a property.
func (c *Context) PropertyParents(id NodeID) []NodeID {
	set := c.propertyParents[id]
	if len(set) == 0 {
		return nil
	}
	out := make([]NodeID, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	return out
}
