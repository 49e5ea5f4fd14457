// Package application wires the settings loader, its cache and the test file
// collector together, keeping the main package focused on CLI parsing and
// output.
package application
