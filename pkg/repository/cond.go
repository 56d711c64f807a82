package repository

import (
	"fmt"
	"strings"
)

// Op is a comparison operator understood by every adapter.
type Op string

const (
	OpEq       Op = "="
	OpNe       Op = "<>"
	OpContains Op = "ILIKE"
)

// Cond is a single column predicate. Conditions passed together are ANDed.
type Cond struct {
	Column string
	Op     Op
	Value  any
}

// Eq matches rows where column equals value.
func Eq(column string, value any) Cond {
	return Cond{Column: column, Op: OpEq, Value: value}
}

// Ne matches rows where column differs from value.
func Ne(column string, value any) Cond {
	return Cond{Column: column, Op: OpNe, Value: value}
}

// Contains matches rows whose text column contains substr, ignoring case.
func Contains(column, substr string) Cond {
	return Cond{Column: column, Op: OpContains, Value: substr}
}

// buildWhere renders conditions as a SQL boolean expression with $N
// placeholders numbered from start.
//
// Example:
//
//	buildWhere([]Cond{Eq("name", "Soup"), Eq("is_deleted", false)}, 1)
//	=> "name = $1 AND is_deleted = $2", ["Soup", false]
func buildWhere(conds []Cond, start int) (string, []any, error) {
	if len(conds) == 0 {
		return "TRUE", nil, nil
	}

	clauses := make([]string, 0, len(conds))
	args := make([]any, 0, len(conds))
	argIndex := start

	for _, c := range conds {
		switch c.Op {
		case OpEq, OpNe:
			clauses = append(clauses, fmt.Sprintf("%s %s $%d", c.Column, c.Op, argIndex))
			args = append(args, c.Value)
		case OpContains:
			clauses = append(clauses, fmt.Sprintf("%s ILIKE $%d", c.Column, argIndex))
			args = append(args, "%"+EscapeLike(fmt.Sprint(c.Value))+"%")
		default:
			return "", nil, fmt.Errorf("unsupported operator %q on column %s", c.Op, c.Column)
		}
		argIndex++
	}

	return strings.Join(clauses, " AND "), args, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike escapes LIKE wildcards so s is matched literally.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}
