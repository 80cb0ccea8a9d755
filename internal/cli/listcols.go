package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/hpctools/ldf/pkg/cols"
)

// printColumnList writes the --list-cols table: every column with its
// name, aliases, default marker and description.
func printColumnList(w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "name\tdefault\taliases\tdescription")
	fmt.Fprintln(tw, "----\t-------\t-------\t-----------")
	for _, c := range cols.All {
		def := ""
		if c.IsDefault() {
			def = "x"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			c.Name(), def, strings.Join(c.Aliases(), ", "), c.Description())
	}
	tw.Flush()
}
