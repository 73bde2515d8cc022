package revision

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
)

const (
	fatalErrorMarkerConstant       = "ERROR:"
	fatalErrorLineTemplateConstant = "%s %v\n"
)

var fatalErrorMarkerColor = color.New(color.FgRed)

// IsFatalResolutionError reports whether the error names an invalid explicit
// revision or an exhausted fallback chain.
func IsFatalResolutionError(candidateError error) bool {
	var invalidRevisionError InvalidRevisionError
	var noDefaultRevisionError NoDefaultRevisionError
	return errors.As(candidateError, &invalidRevisionError) || errors.As(candidateError, &noDefaultRevisionError)
}

// ReportFatalResolutionError prints a red-marked diagnostic line for fatal
// resolution errors and reports whether anything was written.
func ReportFatalResolutionError(errorWriter io.Writer, candidateError error) bool {
	if errorWriter == nil || !IsFatalResolutionError(candidateError) {
		return false
	}
	fmt.Fprintf(errorWriter, fatalErrorLineTemplateConstant, fatalErrorMarkerColor.Sprint(fatalErrorMarkerConstant), candidateError)
	return true
}
