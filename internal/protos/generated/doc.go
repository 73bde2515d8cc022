// Package generated audits the working tree for untracked generated
// artifacts and reports every offending path as a failure.
package generated
