// Package document models global configuration documents as a tagged value
// tree (null, string, int, float, bool, list and insertion-ordered map) so
// that merging and placeholder substitution can be written as plain
// recursive transforms instead of reflection over map[string]any.
package document
