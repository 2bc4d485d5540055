package sql

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/aloks98/gotodo/internal/apperr"
	"github.com/aloks98/gotodo/internal/store"
)

// Store implements store.Store using a SQL database.
type Store struct {
	db      *sql.DB
	dialect Dialect
	queries *dialectQueries
}

// Config holds SQL store configuration.
type Config struct {
	// Dialect specifies the database type (postgres, mysql).
	Dialect Dialect

	// DB is an existing database connection.
	// If provided, DSN is ignored.
	DB *sql.DB

	// DSN is the data source name for connecting to the database.
	DSN string

	// TablePrefix is the prefix for all table names.
	// Defaults to "gotodo_" if empty.
	TablePrefix string

	// MaxOpenConns sets the maximum number of open connections.
	MaxOpenConns int

	// MaxIdleConns sets the maximum number of idle connections.
	MaxIdleConns int

	// ConnMaxLifetime sets the maximum lifetime of a connection.
	ConnMaxLifetime time.Duration
}

// New creates a new SQL store.
func New(cfg *Config) (*Store, error) {
	var db *sql.DB
	var err error

	if cfg.DB != nil {
		db = cfg.DB
	} else {
		db, err = sql.Open(getDriverName(cfg.Dialect), cfg.DSN)
		if err != nil {
			return nil, err
		}

		if cfg.MaxOpenConns > 0 {
			db.SetMaxOpenConns(cfg.MaxOpenConns)
		}
		if cfg.MaxIdleConns > 0 {
			db.SetMaxIdleConns(cfg.MaxIdleConns)
		}
		if cfg.ConnMaxLifetime > 0 {
			db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
		}
	}

	tablePrefix := cfg.TablePrefix
	if tablePrefix == "" {
		tablePrefix = defaultTablePrefix
	}

	return &Store{
		db:      db,
		dialect: cfg.Dialect,
		queries: getDialectQueries(cfg.Dialect, tablePrefix),
	}, nil
}

// getDriverName returns the driver name for the dialect.
func getDriverName(d Dialect) string {
	switch d {
	case MySQL:
		return "mysql"
	default:
		return "pgx"
	}
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies the database connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Migrate creates the database schema.
func (s *Store) Migrate(ctx context.Context) error {
	// Split schema by semicolon for multiple statements
	statements := strings.Split(s.queries.schema, ";")
	for _, stmt := range statements {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// CreateUser persists a new user.
func (s *Store) CreateUser(ctx context.Context, user *store.User) error {
	_, err := s.db.ExecContext(ctx, s.queries.insertUser,
		user.ID, user.FirstName, user.LastName, user.Email,
		user.PasswordHash, user.CreatedAt)
	if isDuplicateKey(err) {
		return apperr.ErrEmailTaken
	}
	return err
}

// GetUserByID retrieves a user by ID.
func (s *Store) GetUserByID(ctx context.Context, id string) (*store.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, s.queries.selectUserByID, id))
}

// GetUserByEmail retrieves a user by email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*store.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, s.queries.selectUserByEmail, email))
}

func (s *Store) scanUser(row *sql.Row) (*store.User, error) {
	var u store.User
	err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email,
		&u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateTodo persists a new todo.
func (s *Store) CreateTodo(ctx context.Context, todo *store.Todo) error {
	_, err := s.db.ExecContext(ctx, s.queries.insertTodo,
		todo.ID, todo.Title, todo.DueDate, todo.Completed,
		todo.OwnerID, todo.CreatedAt)
	return err
}

// GetTodo retrieves a todo by ID.
func (s *Store) GetTodo(ctx context.Context, id string) (*store.Todo, error) {
	return scanTodo(s.db.QueryRowContext(ctx, s.queries.selectTodo, id))
}

// SetTodoCompleted sets the completed flag and returns the updated todo.
// The update is not conditional on the current value, so setting a flag to
// its current state succeeds without touching RowsAffected semantics (MySQL
// reports zero affected rows for no-op updates).
func (s *Store) SetTodoCompleted(ctx context.Context, id string, completed bool) (*store.Todo, error) {
	if _, err := s.db.ExecContext(ctx, s.queries.updateTodoCompleted, completed, id); err != nil {
		return nil, err
	}
	return s.GetTodo(ctx, id)
}

// DeleteTodo removes a todo.
func (s *Store) DeleteTodo(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, s.queries.deleteTodo, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListTodosByOwner returns the owner's todos in creation order.
func (s *Store) ListTodosByOwner(ctx context.Context, ownerID string) ([]*store.Todo, error) {
	rows, err := s.db.QueryContext(ctx, s.queries.selectTodosByOwner, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*store.Todo
	for rows.Next() {
		var t store.Todo
		if err := rows.Scan(&t.ID, &t.Title, &t.DueDate, &t.Completed,
			&t.OwnerID, &t.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &t)
	}
	return result, rows.Err()
}

// SaveSession persists a new session.
func (s *Store) SaveSession(ctx context.Context, session *store.Session) error {
	_, err := s.db.ExecContext(ctx, s.queries.insertSession,
		session.ID, session.UserID, session.CSRFToken,
		session.IssuedAt, session.ExpiresAt)
	return err
}

// GetSession retrieves a session by ID.
func (s *Store) GetSession(ctx context.Context, id string) (*store.Session, error) {
	var sess store.Session
	err := s.db.QueryRowContext(ctx, s.queries.selectSession, id).
		Scan(&sess.ID, &sess.UserID, &sess.CSRFToken, &sess.IssuedAt, &sess.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

// DeleteSession removes a session.
func (s *Store) DeleteSession(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, s.queries.deleteSession, id)
	return err
}

// DeleteExpiredSessions removes sessions past their lifetime.
func (s *Store) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, s.queries.deleteExpiredSessions, time.Now())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func scanTodo(row *sql.Row) (*store.Todo, error) {
	var t store.Todo
	err := row.Scan(&t.ID, &t.Title, &t.DueDate, &t.Completed,
		&t.OwnerID, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// isDuplicateKey reports whether err is a unique-constraint violation from
// either supported driver.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1062
	}
	return false
}

// Verify Store implements store.Store interface
var _ store.Store = (*Store)(nil)
