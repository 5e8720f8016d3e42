package schema

import (
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

// quoteIdent quotes a table or column identifier for safe inclusion in
// DDL. Identifiers originate from descriptors, never from the wire, but
// they are still quoted rather than interpolated raw.
func quoteIdent(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

// TableDDL returns the idempotent CREATE TABLE statement for the
// descriptor. Column order follows descriptor order; table-level
// constraints are appended after the columns.
func (d Descriptor) TableDDL() string {
	frags := make([]string, 0, len(d.Columns)+len(d.Constraints))

	for _, col := range d.Columns {
		frag := fmt.Sprintf("    %s %s", quoteIdent(col.Name), col.Type)
		if col.PrimaryKey {
			frag += " PRIMARY KEY"
		} else if !col.Nullable {
			frag += " NOT NULL"
		}
		if col.Default != "" {
			frag += " DEFAULT " + col.Default
		}
		frags = append(frags, frag)
	}

	for _, c := range d.Constraints {
		frags = append(frags, "    "+c)
	}

	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n%s\n);",
		quoteIdent(d.TableName),
		strings.Join(frags, ",\n"))
}

// IndexDDL returns one idempotent CREATE INDEX statement per declared
// index.
func (d Descriptor) IndexDDL() []string {
	stmts := make([]string, 0, len(d.Indexes))
	for _, idx := range d.Indexes {
		cols := make([]string, len(idx.Columns))
		for i, c := range idx.Columns {
			cols[i] = quoteIdent(c)
		}

		using := ""
		if idx.Method != "" {
			using = " USING " + idx.Method
		}

		stmts = append(stmts, fmt.Sprintf(
			"CREATE INDEX IF NOT EXISTS %s ON %s%s (%s);",
			quoteIdent(idx.Name),
			quoteIdent(d.TableName),
			using,
			strings.Join(cols, ", ")))
	}
	return stmts
}
