// Package rebuild dispatches Bazel builds and protoc regeneration for
// changed protocol buffer definitions and drives the full pipeline from
// revision resolution through the generated-file audit.
package rebuild
