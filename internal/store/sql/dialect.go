// Package sql provides SQL database storage for gotodo.
package sql

import (
	"strings"

	"github.com/aloks98/gotodo/internal/store/sql/queries"
)

// Dialect represents a SQL database dialect.
type Dialect string

const (
	// PostgreSQL dialect.
	PostgreSQL Dialect = "postgres"
	// MySQL dialect.
	MySQL Dialect = "mysql"
)

// Default table prefix used in the embedded SQL files.
const defaultTablePrefix = "gotodo_"

// dialectQueries contains SQL queries for one dialect.
type dialectQueries struct {
	schema string

	insertUser        string
	selectUserByID    string
	selectUserByEmail string

	insertTodo          string
	selectTodo          string
	updateTodoCompleted string
	deleteTodo          string
	selectTodosByOwner  string

	insertSession         string
	selectSession         string
	deleteSession         string
	deleteExpiredSessions string
}

// getDialectQueries returns the queries for a dialect with the given table
// prefix applied.
func getDialectQueries(d Dialect, tablePrefix string) *dialectQueries {
	var q *queries.Queries
	var err error
	switch d {
	case MySQL:
		q, err = queries.LoadMySQL()
	default:
		q, err = queries.LoadPostgres()
	}
	if err != nil {
		panic("failed to load embedded queries: " + err.Error())
	}

	dq := &dialectQueries{
		schema: q.Schema,

		insertUser:        q.InsertUser,
		selectUserByID:    q.SelectUserByID,
		selectUserByEmail: q.SelectUserByEmail,

		insertTodo:          q.InsertTodo,
		selectTodo:          q.SelectTodo,
		updateTodoCompleted: q.UpdateTodoCompleted,
		deleteTodo:          q.DeleteTodo,
		selectTodosByOwner:  q.SelectTodosByOwner,

		insertSession:         q.InsertSession,
		selectSession:         q.SelectSession,
		deleteSession:         q.DeleteSession,
		deleteExpiredSessions: q.DeleteExpiredSessions,
	}

	if tablePrefix != defaultTablePrefix {
		dq = applyTablePrefix(dq, tablePrefix)
	}

	return dq
}

// applyTablePrefix replaces the default table prefix with a custom one in all
// queries.
func applyTablePrefix(dq *dialectQueries, prefix string) *dialectQueries {
	replace := func(s string) string {
		return strings.ReplaceAll(s, defaultTablePrefix, prefix)
	}

	return &dialectQueries{
		schema: replace(dq.schema),

		insertUser:        replace(dq.insertUser),
		selectUserByID:    replace(dq.selectUserByID),
		selectUserByEmail: replace(dq.selectUserByEmail),

		insertTodo:          replace(dq.insertTodo),
		selectTodo:          replace(dq.selectTodo),
		updateTodoCompleted: replace(dq.updateTodoCompleted),
		deleteTodo:          replace(dq.deleteTodo),
		selectTodosByOwner:  replace(dq.selectTodosByOwner),

		insertSession:         replace(dq.insertSession),
		selectSession:         replace(dq.selectSession),
		deleteSession:         replace(dq.deleteSession),
		deleteExpiredSessions: replace(dq.deleteExpiredSessions),
	}
}
