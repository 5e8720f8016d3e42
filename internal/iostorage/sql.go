package iostorage

import (
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

func quoteIdent(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

func quoteIdents(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = quoteIdent(n)
	}
	return out
}

// multiInsertSQL builds a multi-row INSERT statement with numbered
// placeholders: one row of placeholders per record in the chunk. Values
// are always bound parameters; identifiers are quoted.
func multiInsertSQL(tableName string, columns []string, rowCount int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "INSERT INTO %s (%s) VALUES ",
		quoteIdent(tableName),
		strings.Join(quoteIdents(columns), ", "))

	n := len(columns)
	for r := 0; r < rowCount; r++ {
		if r > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('(')
		for c := 0; c < n; c++ {
			if c > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "$%d", r*n+c+1)
		}
		b.WriteByte(')')
	}
	return b.String()
}

// upsertSQL builds a single-row INSERT ... ON CONFLICT statement that
// updates every non-key column from EXCLUDED on conflict over the unique
// column set.
func upsertSQL(tableName string, columns, uniqueColumns []string) string {
	unique := make(map[string]bool, len(uniqueColumns))
	for _, c := range uniqueColumns {
		unique[c] = true
	}

	var sets []string
	for _, c := range columns {
		if !unique[c] {
			sets = append(sets,
				fmt.Sprintf("%s = EXCLUDED.%s", quoteIdent(c), quoteIdent(c)))
		}
	}

	placeholders := make([]string, len(columns))
	for i := range columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	return fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) DO UPDATE SET %s",
		quoteIdent(tableName),
		strings.Join(quoteIdents(columns), ", "),
		strings.Join(placeholders, ", "),
		strings.Join(quoteIdents(uniqueColumns), ", "),
		strings.Join(sets, ", "))
}

// flattenRows concatenates row values into one argument list matching the
// placeholder numbering of multiInsertSQL.
func flattenRows(rows [][]any) []any {
	if len(rows) == 0 {
		return nil
	}
	args := make([]any, 0, len(rows)*len(rows[0]))
	for _, row := range rows {
		args = append(args, row...)
	}
	return args
}
