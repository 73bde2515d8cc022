// Package protoccli provides a typed client for the protocol buffer compiler
// invoked through execshell. Generated files land in the source tree; the
// client consumes only the process exit status.
package protoccli
