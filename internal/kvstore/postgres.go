package kvstore

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres keeps values in the ui_state table (see migrations/).
type Postgres struct {
	db *pgxpool.Pool
}

func NewPostgres(db *pgxpool.Pool) *Postgres {
	return &Postgres{db: db}
}

func (p *Postgres) Get(ctx context.Context, key string) ([]byte, bool, error) {
	const q = `
SELECT value
FROM ui_state
WHERE key = $1
`
	var v string
	if err := p.db.QueryRow(ctx, q, key).Scan(&v); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return []byte(v), true, nil
}

func (p *Postgres) Set(ctx context.Context, key string, value []byte) error {
	const q = `
INSERT INTO ui_state (key, value)
VALUES ($1, $2)
ON CONFLICT (key) DO UPDATE SET
  value = EXCLUDED.value,
  updated_at = NOW()
`
	_, err := p.db.Exec(ctx, q, key, string(value))
	return err
}

func (p *Postgres) Remove(ctx context.Context, key string) error {
	const q = `DELETE FROM ui_state WHERE key = $1`
	_, err := p.db.Exec(ctx, q, key)
	return err
}
