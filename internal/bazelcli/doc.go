// Package bazelcli provides a typed client for the Bazel build tool invoked
// through execshell. Build output is never parsed; only the process exit
// status is consumed.
package bazelcli
