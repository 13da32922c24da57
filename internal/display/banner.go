package display

import (
	"fmt"
	"io"

	"github.com/backmassage/fflight/internal/term"
)

// PrintBanner writes the name banner, in cyan when colors are enabled.
func PrintBanner(w io.Writer) {
	fmt.Fprint(w, term.Cyan)
	fmt.Fprint(w, ` __  __ _ _       _     _
 / _|/ _| (_) __ _| |__ | |_
| |_| |_| | |/ _`+"`"+` | '_ \| __|
|  _|  _| | | (_| | | | | |_
|_| |_| |_|_|\__, |_| |_|\__|
             |___/
`)
	fmt.Fprint(w, term.NC)
}
