// Package queries embeds SQL query files for the SQL store.
package queries

import (
	"embed"
	"strings"
)

// PostgresFS embeds PostgreSQL query files.
//
//go:embed postgres/*.sql
var PostgresFS embed.FS

// MySQLFS embeds MySQL query files.
//
//go:embed mysql/*.sql
var MySQLFS embed.FS

// Queries holds parsed SQL queries by name.
type Queries struct {
	Schema string

	InsertUser        string
	SelectUserByID    string
	SelectUserByEmail string

	InsertTodo          string
	SelectTodo          string
	UpdateTodoCompleted string
	DeleteTodo          string
	SelectTodosByOwner  string

	InsertSession         string
	SelectSession         string
	DeleteSession         string
	DeleteExpiredSessions string
}

// LoadPostgres loads PostgreSQL queries from embedded files.
func LoadPostgres() (*Queries, error) {
	return loadQueries(PostgresFS, "postgres")
}

// LoadMySQL loads MySQL queries from embedded files.
func LoadMySQL() (*Queries, error) {
	return loadQueries(MySQLFS, "mysql")
}

func loadQueries(fs embed.FS, dir string) (*Queries, error) {
	q := &Queries{}

	schema, err := fs.ReadFile(dir + "/schema.sql")
	if err != nil {
		return nil, err
	}
	q.Schema = string(schema)

	users, err := fs.ReadFile(dir + "/users.sql")
	if err != nil {
		return nil, err
	}
	parsed := parseNamedQueries(string(users))
	q.InsertUser = parsed["InsertUser"]
	q.SelectUserByID = parsed["SelectUserByID"]
	q.SelectUserByEmail = parsed["SelectUserByEmail"]

	todos, err := fs.ReadFile(dir + "/todos.sql")
	if err != nil {
		return nil, err
	}
	parsed = parseNamedQueries(string(todos))
	q.InsertTodo = parsed["InsertTodo"]
	q.SelectTodo = parsed["SelectTodo"]
	q.UpdateTodoCompleted = parsed["UpdateTodoCompleted"]
	q.DeleteTodo = parsed["DeleteTodo"]
	q.SelectTodosByOwner = parsed["SelectTodosByOwner"]

	sessions, err := fs.ReadFile(dir + "/sessions.sql")
	if err != nil {
		return nil, err
	}
	parsed = parseNamedQueries(string(sessions))
	q.InsertSession = parsed["InsertSession"]
	q.SelectSession = parsed["SelectSession"]
	q.DeleteSession = parsed["DeleteSession"]
	q.DeleteExpiredSessions = parsed["DeleteExpiredSessions"]

	return q, nil
}

// parseNamedQueries parses SQL content with -- name: comments.
func parseNamedQueries(content string) map[string]string {
	result := make(map[string]string)

	parts := strings.Split(content, "-- name:")

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		// First line is the query name, rest is the SQL
		lines := strings.SplitN(part, "\n", 2)
		if len(lines) < 2 {
			continue
		}

		name := strings.TrimSpace(lines[0])
		query := strings.TrimSpace(lines[1])
		if name != "" && query != "" {
			result[name] = query
		}
	}

	return result
}
