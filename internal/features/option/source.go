package option

import (
	"context"
	"database/sql"
	"fmt"

	"store-console/pkg/policy"

	"github.com/d5/tengo/v2"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
)

// fetchSource materializes the option list of one dropdown source.
func fetchSource(ctx context.Context, source DropdownSource) ([]policy.Option, error) {
	switch source.Type {
	case SourceStatic:
		if source.Options == nil {
			return []policy.Option{}, nil
		}
		return source.Options, nil
	case SourceTable:
		return fetchTableOptions(ctx, source)
	case SourceScript:
		return runOptionScript(source)
	default:
		return nil, fmt.Errorf("unknown dropdown source type: %s", source.Type)
	}
}

func fetchTableOptions(ctx context.Context, source DropdownSource) ([]policy.Option, error) {
	cfg := source.Table
	if cfg == nil {
		return nil, fmt.Errorf("table source %s has no table config", source.Name)
	}

	driver := cfg.Driver
	if driver == "postgresql" {
		driver = "postgres"
	}

	db, err := sql.Open(driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open option database: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping option database: %w", err)
	}

	idCol := cfg.IDColumn
	if idCol == "" {
		idCol = "id"
	}
	nameCol := cfg.NameColumn
	if nameCol == "" {
		nameCol = "name"
	}

	query := fmt.Sprintf("SELECT %s, %s FROM %s ORDER BY %s", idCol, nameCol, cfg.Table, nameCol)
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query option table: %w", err)
	}
	defer rows.Close()

	options := []policy.Option{}
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("failed to scan option row: %w", err)
		}
		options = append(options, policy.Option{ID: id, Name: name})
	}
	return options, rows.Err()
}

// runOptionScript evaluates a stored tengo script that must assign an
// array of {id, name} maps to the "options" variable.
func runOptionScript(source DropdownSource) ([]policy.Option, error) {
	script := tengo.NewScript([]byte(source.Script))

	if err := script.Add("keys", toInterfaceSlice(source.ConditionKeys)); err != nil {
		return nil, fmt.Errorf("failed to bind script input: %w", err)
	}

	compiled, err := script.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to run option script: %w", err)
	}

	raw := compiled.Get("options").Array()
	options := []policy.Option{}
	for _, entry := range raw {
		m, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}
		options = append(options, policy.Option{
			ID:   fmt.Sprintf("%v", m["id"]),
			Name: fmt.Sprintf("%v", m["name"]),
		})
	}
	return options, nil
}

func toInterfaceSlice(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
