// Package gitrepo wraps git invocations behind a RepositoryManager that
// exposes the repository queries the rebuild pipeline depends on.
package gitrepo
