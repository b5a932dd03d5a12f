package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/liliqgyurova/toolplanner/internal/engine"
)

// Store wraps the Postgres catalog database. It implements engine.Catalog.
type Store struct {
	DB *sql.DB
}

func NewWithDSN(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &Store{DB: db}, nil
}

func (s *Store) Close() error { return s.DB.Close() }

const toolColumns = `id, name, description, tags, links, COALESCE(icon_url, ''), COALESCE(rating, 0)`

func scanTool(row interface{ Scan(...interface{}) error }) (engine.ToolRecord, error) {
	var t engine.ToolRecord
	var tags pq.StringArray
	var links []byte
	if err := row.Scan(&t.ID, &t.Name, &t.Description, &tags, &links, &t.IconURL, &t.Rating); err != nil {
		return engine.ToolRecord{}, err
	}
	t.Tags = []string(tags)
	if len(links) > 0 {
		if err := json.Unmarshal(links, &t.Links); err != nil {
			return engine.ToolRecord{}, fmt.Errorf("decode links for %s: %w", t.Name, err)
		}
	}
	return t, nil
}

// ListAllTools returns the full catalog snapshot in insertion order.
func (s *Store) ListAllTools(ctx context.Context) ([]engine.ToolRecord, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT `+toolColumns+` FROM ai_tools ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list tools: %w", err)
	}
	defer rows.Close()

	var out []engine.ToolRecord
	for rows.Next() {
		t, err := scanTool(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tool: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// FindToolByName looks up a single tool by exact name.
func (s *Store) FindToolByName(ctx context.Context, name string) (engine.ToolRecord, bool, error) {
	row := s.DB.QueryRowContext(ctx, `SELECT `+toolColumns+` FROM ai_tools WHERE name = $1`, name)
	t, err := scanTool(row)
	if err == sql.ErrNoRows {
		return engine.ToolRecord{}, false, nil
	}
	if err != nil {
		return engine.ToolRecord{}, false, fmt.Errorf("find tool %s: %w", name, err)
	}
	return t, true, nil
}

// ListToolsByTag returns tools carrying the exact (already normalized) tag.
func (s *Store) ListToolsByTag(ctx context.Context, tag string) ([]engine.ToolRecord, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT `+toolColumns+` FROM ai_tools WHERE $1 = ANY(tags) ORDER BY id`, tag)
	if err != nil {
		return nil, fmt.Errorf("list tools by tag: %w", err)
	}
	defer rows.Close()

	var out []engine.ToolRecord
	for rows.Next() {
		t, err := scanTool(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tool: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// CreateTool inserts a catalog record and returns its id.
func (s *Store) CreateTool(ctx context.Context, t engine.ToolRecord) (int64, error) {
	links, err := json.Marshal(t.Links)
	if err != nil {
		return 0, fmt.Errorf("encode links: %w", err)
	}
	if t.Links == nil {
		links = []byte("{}")
	}
	var id int64
	err = s.DB.QueryRowContext(ctx,
		`INSERT INTO ai_tools (name, description, tags, links, icon_url, rating)
		 VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, 0))
		 RETURNING id`,
		t.Name, t.Description, pq.Array(t.Tags), links, t.IconURL, t.Rating,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert tool %s: %w", t.Name, err)
	}
	return id, nil
}

// UpdateToolDescription backfills the description column (enrichment).
func (s *Store) UpdateToolDescription(ctx context.Context, id int64, description string) error {
	_, err := s.DB.ExecContext(ctx, `UPDATE ai_tools SET description = $2 WHERE id = $1`, id, description)
	if err != nil {
		return fmt.Errorf("update tool %d description: %w", id, err)
	}
	return nil
}

// CreateUser stores a new account with a bcrypt password hash.
func (s *Store) CreateUser(ctx context.Context, email, passwordHash string) error {
	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash) VALUES ($1, $2, $3)`,
		uuid.NewString(), email, passwordHash,
	)
	return err
}

// GetUserByEmail returns the user's id and password hash.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (string, string, error) {
	var id, hash string
	err := s.DB.QueryRowContext(ctx,
		`SELECT id, password_hash FROM users WHERE email = $1`, email,
	).Scan(&id, &hash)
	if err != nil {
		return "", "", err
	}
	return id, hash, nil
}

// Translations returns the display-text overrides for a language.
func (s *Store) Translations(ctx context.Context, lang string) (map[string]string, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT key, value FROM translations WHERE lang = $1`, lang)
	if err != nil {
		return nil, fmt.Errorf("list translations: %w", err)
	}
	defer rows.Close()

	out := map[string]string{}
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scan translation: %w", err)
		}
		out[k] = v
	}
	return out, rows.Err()
}

// UpsertTranslation stores one display-text override.
func (s *Store) UpsertTranslation(ctx context.Context, lang, key, value string) error {
	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO translations (lang, key, value) VALUES ($1, $2, $3)
		 ON CONFLICT (lang, key) DO UPDATE SET value = EXCLUDED.value`,
		lang, key, value,
	)
	if err != nil {
		return fmt.Errorf("upsert translation %s/%s: %w", lang, key, err)
	}
	return nil
}
