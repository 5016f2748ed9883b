package spreadsheet

import "fmt"

// HeaderPolicy decides how imported columns are named
type HeaderPolicy interface {
	headerPolicy()
}

// FirstRowAsHeaders takes names from the first row, which is not imported as data
type FirstRowAsHeaders struct{}

// GeneratedNames names columns "Column 1", "Column 2", ...
type GeneratedNames struct{}

// Names uses the given names; columns beyond the list get generated names
type Names []string

func (FirstRowAsHeaders) headerPolicy() {}
func (GeneratedNames) headerPolicy()    {}
func (Names) headerPolicy()             {}

func generatedName(column int) string {
	return fmt.Sprintf("Column %d", column+1)
}

// columnNames resolves the names of count columns. firstRow reads the header
// cell of a column.
func columnNames(count int, policy HeaderPolicy, firstRow func(column int) string) ([]string, error) {
	names := make([]string, count)
	for i := range names {
		switch p := policy.(type) {
		case FirstRowAsHeaders:
			names[i] = firstRow(i)
		case Names:
			if i < len(p) {
				names[i] = p[i]
			}
		case GeneratedNames:
		default:
			return nil, fmt.Errorf("unknown header policy %T", policy)
		}
		if names[i] == "" {
			names[i] = generatedName(i)
		}
	}
	return names, nil
}
