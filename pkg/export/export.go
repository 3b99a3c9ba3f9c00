package export

// Table is the tabular shape shared by the summary exporters. Rows are
// positional and must match the column order.
type Table struct {
	Title   string
	Columns []string
	Rows    [][]string
}
