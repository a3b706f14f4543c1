package store

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/localsoul/localsoul/internal/catalog"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Postgres is a pgx-backed Store. Each logical operation runs in its own
// transaction scope.
type Postgres struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects, runs pending migrations, and returns the store.
func OpenPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	if err := migrate(dsn); err != nil {
		return nil, fmt.Errorf("%w: migrate: %v", ErrStorage, err)
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: open pool: %v", ErrStorage, err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: ping: %v", ErrStorage, err)
	}
	return &Postgres{pool: pool}, nil
}

func migrate(dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.Up(db, "migrations")
}

func (p *Postgres) PutTurn(ctx context.Context, turn Turn) error {
	sources := turn.Sources
	if sources == nil {
		sources = []Citation{}
	}
	payload, err := json.Marshal(sources)
	if err != nil {
		return fmt.Errorf("%w: encode sources: %v", ErrStorage, err)
	}

	return p.inTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO chat_turns (id, role, content, created_at, city, mode, sources)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (id) DO UPDATE SET
				role = EXCLUDED.role,
				content = EXCLUDED.content,
				created_at = EXCLUDED.created_at,
				city = EXCLUDED.city,
				mode = EXCLUDED.mode,
				sources = EXCLUDED.sources`,
			turn.ID, string(turn.Role), turn.Content, turn.Timestamp.UTC(),
			string(turn.City), string(turn.Mode), payload)
		return err
	}, "put turn")
}

func (p *Postgres) History(ctx context.Context, city catalog.City, mode catalog.Mode) ([]Turn, error) {
	var out []Turn
	err := p.inTx(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `
			SELECT id, role, content, created_at, city, mode, sources
			FROM chat_turns
			WHERE city = $1 AND mode = $2
			ORDER BY created_at ASC, id ASC`,
			string(city), string(mode))
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var (
				t         Turn
				role      string
				cityCol   string
				modeCol   string
				createdAt time.Time
				sources   []byte
			)
			if err := rows.Scan(&t.ID, &role, &t.Content, &createdAt, &cityCol, &modeCol, &sources); err != nil {
				return err
			}
			t.Role = Role(role)
			t.Timestamp = createdAt.UTC()
			t.City = catalog.City(cityCol)
			t.Mode = catalog.Mode(modeCol)
			if len(sources) > 0 {
				if err := json.Unmarshal(sources, &t.Sources); err != nil {
					return err
				}
			}
			if len(t.Sources) == 0 {
				t.Sources = nil
			}
			out = append(out, t)
		}
		return rows.Err()
	}, "history")
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []Turn{}
	}
	return out, nil
}

func (p *Postgres) ClearHistory(ctx context.Context, city catalog.City, mode catalog.Mode) error {
	return p.inTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `DELETE FROM chat_turns WHERE city = $1 AND mode = $2`,
			string(city), string(mode))
		return err
	}, "clear history")
}

func (p *Postgres) Setting(ctx context.Context, key string) (string, bool, error) {
	var value string
	found := false
	err := p.inTx(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `SELECT value FROM settings WHERE key = $1`, key).Scan(&value)
		if err == pgx.ErrNoRows {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return nil
	}, "get setting")
	if err != nil {
		return "", false, err
	}
	return value, found, nil
}

func (p *Postgres) PutSetting(ctx context.Context, key, value string) error {
	return p.inTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO settings (key, value) VALUES ($1, $2)
			ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`,
			key, value)
		return err
	}, "put setting")
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}

func (p *Postgres) inTx(ctx context.Context, fn func(pgx.Tx) error, op string) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: %s: begin: %v", ErrStorage, op, err)
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrStorage, op, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: %s: commit: %v", ErrStorage, op, err)
	}
	return nil
}
