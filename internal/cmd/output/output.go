package output

import (
	"io"

	"github.com/agentstation/dremio/internal/cmd/table"
)

// Write renders data in format. Table formats render the result of
// tabular when it is non-nil; structured formats always render data as is.
func Write(w io.Writer, format Format, data any, tabular func(wide bool) table.Data) error {
	formatter := NewFormatter(format)

	switch format {
	case FormatTable, FormatWide, "":
		if tabular != nil {
			return formatter.Format(w, tabular(format == FormatWide))
		}
	}
	return formatter.Format(w, data)
}
