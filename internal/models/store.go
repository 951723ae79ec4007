package models

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

const (
	insertSample = `INSERT INTO samples(pm02,rco2,atmp,rhum,wifi,recorded_at) VALUES($1,$2,$3,$4,$5,$6) RETURNING id`
	selectSince  = `SELECT id,pm02,rco2,atmp,rhum,wifi,recorded_at FROM samples WHERE recorded_at >= $1 ORDER BY id`
)

type Store struct{ DB *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{DB: db} }

// Append inserts one sample and returns it with the assigned id.
func (s *Store) Append(ctx context.Context, in Sample) (*Sample, error) {
	out := in
	err := s.DB.QueryRowContext(ctx, insertSample, in.PM02, in.RCO2, in.ATMP, in.RHUM, in.WiFi, in.Timestamp).Scan(&out.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: insert sample: %w", ErrPersistence, err)
	}
	return &out, nil
}

// Since returns every sample recorded at or after cutoff in insertion order.
func (s *Store) Since(ctx context.Context, cutoff time.Time) ([]Sample, error) {
	rows, err := s.DB.QueryContext(ctx, selectSince, cutoff)
	if err != nil {
		return nil, fmt.Errorf("%w: select samples: %w", ErrPersistence, err)
	}
	defer rows.Close()
	var out []Sample
	for rows.Next() {
		var sm Sample
		if err := rows.Scan(&sm.ID, &sm.PM02, &sm.RCO2, &sm.ATMP, &sm.RHUM, &sm.WiFi, &sm.Timestamp); err != nil {
			return nil, fmt.Errorf("%w: scan sample: %w", ErrPersistence, err)
		}
		out = append(out, sm)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate samples: %w", ErrPersistence, err)
	}
	return out, nil
}

