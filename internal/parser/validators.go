package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/leengari/lquery/internal/parser/ast"
)

// parseNumber turns a NUMBER token into an INT literal, or a FLOAT literal
// when it has a fraction or exponent
func parseNumber(lit string) (ast.Value, error) {
	if !strings.ContainsAny(lit, ".eE") {
		i, err := strconv.ParseInt(lit, 10, 64)
		if err == nil {
			return ast.Int(i), nil
		}
		if errors.Is(err, strconv.ErrRange) {
			return nil, fmt.Errorf("integer literal %s out of range", lit)
		}
	}
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid number: %s", lit)
	}
	return ast.Float(f), nil
}

// validateSortKeys rejects a column listed twice
func validateSortKeys(specs []SortSpec) error {
	seen := make(map[string]bool, len(specs))
	for _, s := range specs {
		if seen[s.Column] {
			return fmt.Errorf("column %q listed more than once in sort keys", s.Column)
		}
		seen[s.Column] = true
	}
	return nil
}
