package excel

// RawRowData represents one data row as header -> trimmed cell text
type RawRowData map[string]string

// RawData represents a whole tabular file before typing
type RawData struct {
	Headers []string     // Column headers, in file order
	Rows    []RawRowData // Data rows, in file order
}

// HasColumn reports whether the header row contains name
func (d *RawData) HasColumn(name string) bool {
	for _, h := range d.Headers {
		if h == name {
			return true
		}
	}
	return false
}

// MissingColumns returns the names from required that are not headers
func (d *RawData) MissingColumns(required []string) []string {
	var missing []string
	for _, name := range required {
		if !d.HasColumn(name) {
			missing = append(missing, name)
		}
	}
	return missing
}
