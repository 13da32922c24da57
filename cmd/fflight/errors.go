package main

import (
	"fmt"
	"io"

	"github.com/backmassage/fflight/internal/fferr"
	"github.com/backmassage/fflight/internal/term"
)

// printError writes the error message and, when one exists, its recovery
// suggestion on a separate line.
func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "%sfflight:%s %v\n", term.Red, term.NC, err)
	if hint, ok := fferr.SuggestionOf(err); ok {
		fmt.Fprintf(w, "%shint:%s %s\n", term.Yellow, term.NC, hint)
	}
}
