// Package ui renders command lifecycle events for human consumption when the
// console log format is selected.
package ui
