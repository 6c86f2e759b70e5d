package agent

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/poiesic/answerit/ai"
)

// maxSQLRows caps how many rows a generated query may return to the model.
const maxSQLRows = 50

// DatabaseQueryTool answers questions about structured records by
// translating them into read-only SQL against a SQLite database. The
// generated statement must be a single SELECT; anything else is refused.
type DatabaseQueryTool struct {
	db        *sql.DB
	completer ai.Completer
	schema    string
	logger    *slog.Logger
}

// NewDatabaseQueryTool opens the SQLite database at path and introspects
// its schema for SQL generation.
func NewDatabaseQueryTool(path string, completer ai.Completer) (*DatabaseQueryTool, error) {
	if completer == nil {
		return nil, ErrCompleterRequired
	}

	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	schema, err := loadSchema(db)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &DatabaseQueryTool{
		db:        db,
		completer: completer,
		schema:    schema,
		logger:    slog.Default().With("component", "database-tool"),
	}, nil
}

// Close releases the database handle.
func (t *DatabaseQueryTool) Close() error {
	return t.db.Close()
}

func (t *DatabaseQueryTool) Name() string { return ToolDatabaseQuery }

func (t *DatabaseQueryTool) Invoke(ctx context.Context, input ToolInput) (string, error) {
	if t.schema == "" {
		return "No database information available", nil
	}

	raw, err := t.completer.CompleteJSON(ctx, buildSQLPrompt(input.Query, t.schema))
	if err != nil {
		return "", fmt.Errorf("error querying database: %w", err)
	}

	var parsed struct {
		SQL string `json:"sql"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return "", fmt.Errorf("error parsing generated SQL: %w", err)
	}

	statement := strings.TrimSpace(parsed.SQL)
	if statement == "" {
		return "The question cannot be answered from the available database", nil
	}
	if !strings.HasPrefix(strings.ToUpper(statement), "SELECT") {
		t.logger.Warn("generated statement is not a SELECT, refusing", "sql", statement)
		return "", fmt.Errorf("generated statement is not a SELECT")
	}

	t.logger.Debug("running generated query", "sql", statement)
	return t.runQuery(ctx, statement)
}

// runQuery executes the statement and renders rows as tab-separated text
// with a header line.
func (t *DatabaseQueryTool) runQuery(ctx context.Context, statement string) (string, error) {
	rows, err := t.db.QueryContext(ctx, statement)
	if err != nil {
		return "", fmt.Errorf("error querying database: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return "", fmt.Errorf("error reading result columns: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(strings.Join(columns, "\t"))

	values := make([]any, len(columns))
	pointers := make([]any, len(columns))
	for i := range values {
		pointers[i] = &values[i]
	}

	count := 0
	for rows.Next() && count < maxSQLRows {
		if err := rows.Scan(pointers...); err != nil {
			return "", fmt.Errorf("error scanning result row: %w", err)
		}
		sb.WriteString("\n")
		for i, v := range values {
			if i > 0 {
				sb.WriteString("\t")
			}
			sb.WriteString(renderValue(v))
		}
		count++
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("error iterating result rows: %w", err)
	}

	if count == 0 {
		return "No data found", nil
	}
	return fmt.Sprintf("Found %d rows:\n%s", count, sb.String()), nil
}

func renderValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// loadSchema collects the CREATE statements of all user tables.
func loadSchema(db *sql.DB) (string, error) {
	rows, err := db.Query(
		`SELECT sql FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' AND sql IS NOT NULL ORDER BY name`)
	if err != nil {
		return "", fmt.Errorf("failed to read database schema: %w", err)
	}
	defer rows.Close()

	var statements []string
	for rows.Next() {
		var ddl string
		if err := rows.Scan(&ddl); err != nil {
			return "", fmt.Errorf("failed to read database schema: %w", err)
		}
		statements = append(statements, ddl)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("failed to read database schema: %w", err)
	}
	return strings.Join(statements, "\n\n"), nil
}
