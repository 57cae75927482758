// Package graph provides labeled directed multigraphs over diagram boxes and
// model entities, and the transforms that build them.
//
// Unlike a dependency DAG, these graphs accept cycles, self-loops and
// parallel edges: hand-drawn diagrams contain all three.
package graph

import (
	"fmt"
)

// Label is the semantic relation an edge encodes.
type Label string

// Edge labels shared by diagram and model graphs.
const (
	LabelContainment Label = "contains"
	LabelDependency  Label = "depends"
)

// Vertex wraps a represented element. Identity is the pointer: two vertices
// wrapping equal values are still distinct nodes.
type Vertex[T any] struct {
	index int
	Value T
}

// Index returns the insertion position of the vertex in its graph.
func (v *Vertex[T]) Index() int {
	return v.index
}

// Edge is a labeled directed edge.
type Edge[T any] struct {
	From  *Vertex[T]
	To    *Vertex[T]
	Label Label
}

// Graph is a labeled directed multigraph.
type Graph[T any] struct {
	vertices []*Vertex[T]
	edges    []Edge[T]
	out      map[*Vertex[T]][]Edge[T]
	in       map[*Vertex[T]][]Edge[T]
}

// New creates a new empty graph.
func New[T any]() *Graph[T] {
	return &Graph[T]{
		out: make(map[*Vertex[T]][]Edge[T]),
		in:  make(map[*Vertex[T]][]Edge[T]),
	}
}

// AddVertex adds a vertex wrapping value and returns it.
func (g *Graph[T]) AddVertex(value T) *Vertex[T] {
	v := &Vertex[T]{index: len(g.vertices), Value: value}
	g.vertices = append(g.vertices, v)
	g.out[v] = nil
	g.in[v] = nil
	return v
}

// AddEdge adds a directed edge from -> to with the given label.
func (g *Graph[T]) AddEdge(from, to *Vertex[T], label Label) error {
	if !g.Has(from) {
		return fmt.Errorf("source vertex %v does not belong to the graph", from)
	}
	if !g.Has(to) {
		return fmt.Errorf("target vertex %v does not belong to the graph", to)
	}

	e := Edge[T]{From: from, To: to, Label: label}
	g.edges = append(g.edges, e)
	g.out[from] = append(g.out[from], e)
	g.in[to] = append(g.in[to], e)
	return nil
}

// Has reports whether v is a vertex of g.
func (g *Graph[T]) Has(v *Vertex[T]) bool {
	if v == nil {
		return false
	}
	_, ok := g.out[v]
	return ok
}

// Vertices returns the vertices in insertion order.
func (g *Graph[T]) Vertices() []*Vertex[T] {
	return g.vertices
}

// Edges returns the edges in insertion order.
func (g *Graph[T]) Edges() []Edge[T] {
	return g.edges
}

// In returns the edges entering v.
func (g *Graph[T]) In(v *Vertex[T]) []Edge[T] {
	return g.in[v]
}

// OutDegree counts the edges with the given label leaving v.
func (g *Graph[T]) OutDegree(v *Vertex[T], label Label) int {
	return countLabel(g.out[v], label)
}

// InDegree counts the edges with the given label entering v.
func (g *Graph[T]) InDegree(v *Vertex[T], label Label) int {
	return countLabel(g.in[v], label)
}

// VertexCount returns the number of vertices in the graph.
func (g *Graph[T]) VertexCount() int {
	return len(g.vertices)
}

// EdgeCount returns the number of edges in the graph.
func (g *Graph[T]) EdgeCount() int {
	return len(g.edges)
}

// Find returns the first vertex whose value satisfies match.
func (g *Graph[T]) Find(match func(T) bool) (*Vertex[T], bool) {
	for _, v := range g.vertices {
		if match(v.Value) {
			return v, true
		}
	}
	return nil, false
}

func countLabel[T any](edges []Edge[T], label Label) int {
	n := 0
	for _, e := range edges {
		if e.Label == label {
			n++
		}
	}
	return n
}
