// Package core defines the shared language of the sketchlink system.
//
// This package contains:
//   - Diagram elements (Diagram, Box, Connection)
//   - Model elements (Model, Entity, ArchitectureItem, CodeItem, Relation)
//   - Shared enumerations (ModelType, Severity)
//   - Error types shared by the pipeline stages
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
