// Package changes detects changed protocol buffer definitions and Bazel build
// descriptions between a base revision and the current working tree.
package changes
