package export

// RGB is a fill colour for table headers.
type RGB struct {
	R, G, B int
}

// Table is one titled section of a report document.
type Table struct {
	Title      string
	HeaderFill RGB
	Headers    []string
	Rows       [][]string
}

// Document describes a report as a title, a subtitle line and a vertical
// stack of tables.
type Document struct {
	Title    string
	Subtitle string
	Tables   []Table
}
