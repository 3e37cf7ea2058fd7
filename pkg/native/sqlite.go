package native

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"ember/interpreter-go/pkg/runtime"
)

// sqliteOpen opens (or creates) a database file and hands back a connection
// namespace with exec, query and close bound to it. ":memory:" works too.
func sqliteOpen(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	path, err := pathArg(args)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	return connectionValue(db), nil
}

func connectionValue(db *sql.DB) runtime.NativeModuleValue {
	return module("sqlite.connection", map[string]runtime.NativeFunc{
		"exec": func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			return sqliteExec(db, args)
		},
		"query": func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			return sqliteQuery(db, args)
		},
		"close": func(_ *runtime.NativeCallContext, _ []runtime.Value) (runtime.Value, error) {
			if err := db.Close(); err != nil {
				return nil, err
			}
			return runtime.VoidValue{}, nil
		},
	})
}

func statementArgs(args []runtime.Value) (string, []any, error) {
	if len(args) < 1 || len(args) > 2 {
		return "", nil, errors.New("Expected 1 or 2 arguments (sql, params)")
	}
	query, err := ToString(args[0])
	if err != nil {
		return "", nil, err
	}
	if len(args) == 1 {
		return query, nil, nil
	}

	var elements []runtime.Value
	switch l := args[1].(type) {
	case *runtime.ListValue:
		elements = l.Elements
	case *runtime.ListMutableValue:
		elements = l.Snapshot()
	default:
		return "", nil, errors.New("Expected List of parameters")
	}
	params := make([]any, len(elements))
	for i, el := range elements {
		p, err := sqlParam(el)
		if err != nil {
			return "", nil, err
		}
		params[i] = p
	}
	return query, params, nil
}

func sqlParam(v runtime.Value) (any, error) {
	switch v := v.(type) {
	case runtime.IntValue:
		return v.Val, nil
	case runtime.FloatValue:
		return v.Val, nil
	case runtime.BoolValue:
		return v.Val, nil
	case runtime.StringValue:
		return v.Val, nil
	case runtime.VoidValue:
		return nil, nil
	default:
		return nil, fmt.Errorf("Unsupported SQL parameter: %s", v.Kind())
	}
}

// sqliteExec runs a statement and reports the number of rows it touched.
func sqliteExec(db *sql.DB, args []runtime.Value) (runtime.Value, error) {
	query, params, err := statementArgs(args)
	if err != nil {
		return nil, err
	}
	res, err := db.Exec(query, params...)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	return runtime.IntValue{Val: affected}, nil
}

// sqliteQuery returns the result set as a List of Dicts keyed by column name.
func sqliteQuery(db *sql.DB, args []runtime.Value) (runtime.Value, error) {
	query, params, err := statementArgs(args)
	if err != nil {
		return nil, err
	}
	rows, err := db.Query(query, params...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out []runtime.Value
	for rows.Next() {
		cells := make([]any, len(columns))
		dests := make([]any, len(columns))
		for i := range cells {
			dests[i] = &cells[i]
		}
		if err := rows.Scan(dests...); err != nil {
			return nil, err
		}
		entries := make([]runtime.DictEntry, len(columns))
		for i, col := range columns {
			entries[i] = runtime.DictEntry{
				Key:   runtime.StringValue{Val: col},
				Value: columnValue(cells[i]),
			}
		}
		out = append(out, &runtime.DictValue{Entries: entries})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &runtime.ListValue{Elements: out}, nil
}

func columnValue(cell any) runtime.Value {
	switch cell := cell.(type) {
	case nil:
		return runtime.VoidValue{}
	case int64:
		return runtime.IntValue{Val: cell}
	case float64:
		return runtime.FloatValue{Val: cell}
	case bool:
		return runtime.BoolValue{Val: cell}
	case string:
		return runtime.StringValue{Val: cell}
	case []byte:
		return runtime.StringValue{Val: string(cell)}
	case time.Time:
		return runtime.StringValue{Val: cell.Format(time.RFC3339)}
	default:
		return runtime.StringValue{Val: fmt.Sprint(cell)}
	}
}

func sqliteModule() runtime.NativeModuleValue {
	return module("sqlite", map[string]runtime.NativeFunc{
		"open": sqliteOpen,
	})
}
