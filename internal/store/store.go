// Package store persists linked projects and dispatch outcomes to Postgres.
// Persistence is optional: a nil *Store is a no-op everywhere, so callers
// never branch on whether a DSN was configured.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	_ "github.com/jackc/pgx/v5/stdlib"

	"nexus/internal/dispatch"
	"nexus/internal/types"
)

type Store struct {
	db *sql.DB

	schemaOnce sync.Once
	schemaErr  error

	actionCache *lru.Cache[string, []types.LinkedAction]
}

func NewPostgres(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", strings.TrimSpace(dsn))
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	cache, err := lru.New[string, []types.LinkedAction](1024)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db, actionCache: cache}, nil
}

// NewFromEnv reads ACTION_STORE_PG_DSN. An empty DSN or a failed connection
// yields a nil store, never an error: the pipeline runs fine without
// persistence.
func NewFromEnv() *Store {
	dsn := strings.TrimSpace(os.Getenv("ACTION_STORE_PG_DSN"))
	if dsn == "" {
		return nil
	}
	s, err := NewPostgres(dsn)
	if err != nil {
		return nil
	}
	return s
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) ensureSchema(ctx context.Context) error {
	if s == nil || s.db == nil {
		return nil
	}
	s.schemaOnce.Do(func() {
		_, s.schemaErr = s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS linked_projects (
  project_name TEXT PRIMARY KEY,
  updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS linked_actions (
  id SERIAL PRIMARY KEY,
  project_name TEXT NOT NULL REFERENCES linked_projects (project_name),
  action_index INT NOT NULL,
  description TEXT NOT NULL,
  department TEXT NOT NULL DEFAULT '',
  urgency TEXT NOT NULL DEFAULT '',
  people TEXT NOT NULL DEFAULT '[]',
  depends_on TEXT NOT NULL DEFAULT '[]',
  response_type TEXT NOT NULL DEFAULT 'none',
  UNIQUE (project_name, action_index)
);
CREATE INDEX IF NOT EXISTS idx_linked_actions_project ON linked_actions (project_name);

CREATE TABLE IF NOT EXISTS dispatch_log (
  id SERIAL PRIMARY KEY,
  project_name TEXT NOT NULL,
  action_description TEXT NOT NULL,
  channel TEXT NOT NULL,
  status TEXT NOT NULL,
  ref_id TEXT NOT NULL DEFAULT '',
  error TEXT NOT NULL DEFAULT '',
  created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
);
`)
	})
	return s.schemaErr
}

// SaveLinkedProjects replaces each project's stored actions wholesale:
// upsert the project row, drop its old actions, insert the new set. Partial
// updates are never left behind; each project saves in its own transaction.
func (s *Store) SaveLinkedProjects(ctx context.Context, projects []types.LinkedProject) error {
	if s == nil || s.db == nil {
		return nil
	}
	if err := s.ensureSchema(ctx); err != nil {
		return fmt.Errorf("store: ensure schema: %w", err)
	}
	for _, p := range projects {
		if err := s.saveProject(ctx, p); err != nil {
			return fmt.Errorf("store: save %q: %w", p.Name, err)
		}
		if s.actionCache != nil {
			s.actionCache.Remove(p.Name)
		}
	}
	return nil
}

func (s *Store) saveProject(ctx context.Context, p types.LinkedProject) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
INSERT INTO linked_projects (project_name, updated_at)
VALUES ($1, NOW())
ON CONFLICT (project_name) DO UPDATE SET updated_at = NOW()`, p.Name); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM linked_actions WHERE project_name = $1`, p.Name); err != nil {
		return err
	}
	for i, a := range p.Actions {
		people, _ := json.Marshal(a.People)
		dependsOn, _ := json.Marshal(a.DependsOn)
		if _, err := tx.ExecContext(ctx, `
INSERT INTO linked_actions (
  project_name, action_index, description, department, urgency,
  people, depends_on, response_type
)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
			p.Name, i, a.Description, a.Department, string(a.Urgency),
			string(people), string(dependsOn), string(a.ResponseType)); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ListActions returns a project's stored actions in list order, read through
// an LRU cache invalidated by SaveLinkedProjects.
func (s *Store) ListActions(ctx context.Context, projectName string) ([]types.LinkedAction, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	if s.actionCache != nil {
		if cached, ok := s.actionCache.Get(projectName); ok {
			return cached, nil
		}
	}
	if err := s.ensureSchema(ctx); err != nil {
		return nil, fmt.Errorf("store: ensure schema: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT description, department, urgency, people, depends_on, response_type
FROM linked_actions WHERE project_name = $1 ORDER BY action_index`, projectName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]types.LinkedAction, 0, 16)
	for rows.Next() {
		var (
			a                 types.LinkedAction
			people, dependsOn string
		)
		if err := rows.Scan(&a.Description, &a.Department, &a.Urgency,
			&people, &dependsOn, &a.ResponseType); err != nil {
			return nil, err
		}
		_ = json.Unmarshal([]byte(people), &a.People)
		_ = json.Unmarshal([]byte(dependsOn), &a.DependsOn)
		if a.DependsOn == nil {
			a.DependsOn = []int{}
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if s.actionCache != nil {
		s.actionCache.Add(projectName, out)
	}
	return out, nil
}

// RecordDispatch appends one log row per channel attempt.
func (s *Store) RecordDispatch(ctx context.Context, result *dispatch.DispatchResult) error {
	if s == nil || s.db == nil || result == nil {
		return nil
	}
	if err := s.ensureSchema(ctx); err != nil {
		return fmt.Errorf("store: ensure schema: %w", err)
	}
	insert := func(project, desc, channel string, status dispatch.Status, refID, errMsg string) error {
		_, err := s.db.ExecContext(ctx, `
INSERT INTO dispatch_log (project_name, action_description, channel, status, ref_id, error)
VALUES ($1,$2,$3,$4,$5,$6)`, project, desc, channel, string(status), refID, errMsg)
		return err
	}
	for _, t := range result.Tickets {
		if err := insert(t.Project, t.ActionDescription, "ticket", t.Status, t.TicketID, t.Error); err != nil {
			return fmt.Errorf("store: record ticket: %w", err)
		}
	}
	for _, e := range result.Emails {
		if err := insert(e.Project, e.ActionDescription, "email", e.Status, e.MessageID, e.Error); err != nil {
			return fmt.Errorf("store: record email: %w", err)
		}
	}
	for _, c := range result.Calls {
		if err := insert(c.Project, c.ActionDescription, "call", c.Status, c.CallID, c.Error); err != nil {
			return fmt.Errorf("store: record call: %w", err)
		}
	}
	return nil
}
