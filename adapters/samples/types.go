package samples

// ReadOptions selects which part of a tabular file becomes series
type ReadOptions struct {
	Sheet     string   // xlsx sheet, empty means the first sheet
	Columns   []string // columns to read, empty means every numeric column
	Delimiter rune     // csv field delimiter, 0 means ','
}

// DefaultReadOptions returns options that read every numeric column of the
// first sheet
func DefaultReadOptions() ReadOptions {
	return ReadOptions{Delimiter: ','}
}

// table is a header row plus raw data rows, shared by the csv and xlsx paths
type table struct {
	Headers []string
	Rows    [][]string
}
