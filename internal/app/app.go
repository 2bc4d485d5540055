// Package app assembles the application: storage backend selection,
// session manager, services, and template loading.
package app

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/aloks98/gotodo/internal/cleanup"
	"github.com/aloks98/gotodo/internal/ratelimit"
	"github.com/aloks98/gotodo/internal/session"
	"github.com/aloks98/gotodo/internal/store"
	"github.com/aloks98/gotodo/internal/store/memory"
	"github.com/aloks98/gotodo/internal/store/redis"
	storesql "github.com/aloks98/gotodo/internal/store/sql"
	"github.com/aloks98/gotodo/internal/todo"
	"github.com/aloks98/gotodo/internal/users"
	"github.com/aloks98/gotodo/internal/web"

	// pgx registers its database/sql driver on import.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// App is the main application container.
type App struct {
	Config    *Config
	Store     store.Store
	Todos     *todo.Service
	Users     *users.Service
	Sessions  *session.Manager
	Handler   *web.Handler
	Templates *template.Template

	// redisSessions is set when sessions live in Redis rather than the
	// primary store.
	redisSessions *redis.Store

	sweeper      *cleanup.Worker
	loginLimiter *ratelimit.MemoryLimiter
}

// Login throttling: attempts per client address per window.
const (
	loginRateLimit  = 10
	loginRateWindow = time.Minute
)

// New creates a new App instance and runs migrations against the
// configured backend.
func New(cfg *Config) (*App, error) {
	st, err := openStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	if err := st.Migrate(context.Background()); err != nil {
		st.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	a := &App{Config: cfg, Store: st}

	sessionStore := store.SessionStore(st)
	if cfg.RedisAddr != "" {
		rs, err := redis.New(&redis.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		if err != nil {
			st.Close()
			return nil, fmt.Errorf("open redis: %w", err)
		}
		if err := rs.Ping(context.Background()); err != nil {
			rs.Close()
			st.Close()
			return nil, fmt.Errorf("ping redis: %w", err)
		}
		a.redisSessions = rs
		sessionStore = rs
		log.Printf("Sessions stored in redis at %s", cfg.RedisAddr)
	}

	a.Sessions, err = session.NewManager(sessionStore, cfg.SessionSecret)
	if err != nil {
		a.closeStores()
		return nil, err
	}

	a.Templates, err = loadTemplates(cfg.TemplatesPath)
	if err != nil {
		a.closeStores()
		return nil, fmt.Errorf("load templates: %w", err)
	}

	a.Todos = todo.NewService(st)
	a.Users = users.NewService(st, nil)
	a.Handler = web.New(a.Todos, a.Users, a.Sessions, a.Templates)

	a.loginLimiter = ratelimit.NewMemoryLimiter(loginRateLimit, loginRateWindow)
	a.Handler.SetLoginLimiter(a.loginLimiter)

	a.sweeper = cleanup.NewWorker(&cleanup.Config{Sessions: sessionStore})
	a.sweeper.Start()

	log.Printf("Application initialized (backend=%s)", cfg.Backend)
	return a, nil
}

// Close shuts down the application.
func (a *App) Close() error {
	if a.sweeper != nil {
		a.sweeper.Stop()
	}
	if a.loginLimiter != nil {
		a.loginLimiter.Close()
	}
	return a.closeStores()
}

func (a *App) closeStores() error {
	if a.redisSessions != nil {
		if err := a.redisSessions.Close(); err != nil {
			log.Printf("close redis: %v", err)
		}
	}
	return a.Store.Close()
}

// openStore builds the primary store for the configured backend.
func openStore(cfg *Config) (store.Store, error) {
	switch cfg.Backend {
	case "", "memory":
		return memory.New(), nil
	case "postgres":
		return storesql.New(&storesql.Config{
			Dialect:      storesql.PostgreSQL,
			DSN:          cfg.DatabaseDSN,
			TablePrefix:  cfg.TablePrefix,
			MaxOpenConns: 10,
		})
	case "mysql":
		return storesql.New(&storesql.Config{
			Dialect:      storesql.MySQL,
			DSN:          cfg.DatabaseDSN,
			TablePrefix:  cfg.TablePrefix,
			MaxOpenConns: 10,
		})
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}

// loadTemplates loads all HTML templates under the templates directory,
// keyed by their path relative to the root.
func loadTemplates(root string) (*template.Template, error) {
	tmpl := template.New("")

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".html" {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		name, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Errorf("failed to parse %s: %w", name, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tmpl, nil
}
