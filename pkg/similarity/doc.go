// Package similarity provides the text similarity functions used to compare
// diagram labels with model entity names.
//
// Every function maps a pair of strings to a score in [0,1], 1 meaning
// identical. Inputs are compared after case folding and with separators
// removed, so "Logic Component", "logic_component" and "LogicComponent" are
// treated alike. A string without letters or digits scores 0 against
// anything, itself included.
//
// Weighted is the word-rarity aware similarity shared by the matching
// stages: words that occur in few entity names dominate the score, words
// that occur everywhere ("Component", "Service") count little.
package similarity
