// Package rules provides the built-in consistency rules.
//
// Rules shared by every model type:
//
//   - NM01: Same Name - Linked box and entity must carry the same name
//   - LK01: Linked Boxes - Every box must be linked to an entity
//   - CN01: Exact Connections - Lines between linked boxes mirror entity dependencies
//   - HR01: Box Parent - A box nested in a linked box links to an entity nested in its entity
//
// Architecture models only:
//
//   - RP01: Represented Entities - Every component must appear in the diagram
//
// Code models only:
//
//   - PK01: Complete Subpackages - A package drawn with one empty subpackage box shows all subpackages
package rules
