// Package shared declares the collaborator interfaces and path helpers used
// across the proto rebuild pipeline services.
package shared
