// Package revision resolves the base revision a proto rebuild should diff
// against, falling back through well-known upstream references and
// substituting the merge base when the candidate is not an ancestor of HEAD.
package revision
