package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/guthdx/statuswatch/internal/domain"
	"github.com/guthdx/statuswatch/internal/repo"
)

var _ repo.ServiceStore = (*Store)(nil)
var _ repo.CheckStore = (*Store)(nil)

// Store adapts the engine's store ports to Postgres. Expected schema:
//
//	services(id text pk, name text, type text, url text, group_name text)
//	status_checks(service_id text, status text, response_time bigint null,
//	              error_message text null, checked_at timestamptz)
//
// The services table is written by the external registry; this adapter
// only reads it. status_checks is append-only.
type Store struct {
	pool *pgxpool.Pool
	log  *zap.Logger
}

func New(ctx context.Context, dsn string, log *zap.Logger) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}
	ctxPing, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctxPing); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return &Store{pool: pool, log: log}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// ---- ServiceStore ----

func (s *Store) List(ctx context.Context) ([]domain.Service, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, type, url, COALESCE(group_name, '')
		   FROM services
		  ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	defer rows.Close()

	var out []domain.Service
	for rows.Next() {
		var id, name, typ, url, group string
		if err := rows.Scan(&id, &name, &typ, &url, &group); err != nil {
			return nil, fmt.Errorf("scan service: %w", err)
		}
		st, err := domain.ParseServiceType(typ)
		if err != nil {
			// Registry rows the engine cannot probe are skipped, not fatal.
			s.log.Warn("skipping service with unrecognized type",
				zap.String("service_id", id), zap.String("type", typ))
			continue
		}
		out = append(out, domain.Service{
			ID:    domain.ServiceID(id),
			Name:  name,
			Type:  st,
			URL:   url,
			Group: group,
		})
	}
	return out, rows.Err()
}

// ---- CheckStore ----

func (s *Store) Append(ctx context.Context, rec *domain.CheckRecord) error {
	var msg *string
	if rec.ErrorMessage != "" {
		msg = &rec.ErrorMessage
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO status_checks
		   (service_id, status, response_time, error_message, checked_at)
		 VALUES
		   ($1, $2, $3, $4, $5)`,
		string(rec.ServiceID), string(rec.Status), rec.ResponseTimeMS, msg, rec.CheckedAt,
	)
	if err != nil {
		return fmt.Errorf("insert check: %w", err)
	}
	return nil
}

func (s *Store) Latest(ctx context.Context, id domain.ServiceID) (*domain.CheckRecord, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT service_id, status, response_time, error_message, checked_at
		   FROM status_checks
		  WHERE service_id = $1
		  ORDER BY checked_at DESC
		  LIMIT 1`, string(id))

	rec, err := scanCheck(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest check: %w", err)
	}
	return rec, nil
}

func (s *Store) Recent(ctx context.Context, id domain.ServiceID, limit int) ([]domain.CheckRecord, error) {
	if limit <= 0 {
		limit = 3
	}
	rows, err := s.pool.Query(ctx,
		`SELECT service_id, status, response_time, error_message, checked_at
		   FROM status_checks
		  WHERE service_id = $1
		  ORDER BY checked_at DESC
		  LIMIT $2`, string(id), limit)
	if err != nil {
		return nil, fmt.Errorf("recent checks: %w", err)
	}
	defer rows.Close()
	return collectChecks(rows)
}

func (s *Store) Window(ctx context.Context, id domain.ServiceID, since time.Time) ([]domain.CheckRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT service_id, status, response_time, error_message, checked_at
		   FROM status_checks
		  WHERE service_id = $1
		    AND checked_at > $2
		  ORDER BY checked_at ASC`, string(id), since)
	if err != nil {
		return nil, fmt.Errorf("window checks: %w", err)
	}
	defer rows.Close()
	return collectChecks(rows)
}

func scanCheck(row pgx.Row) (*domain.CheckRecord, error) {
	var (
		serviceID string
		rawStatus string
		respMS    *int64
		errMsg    *string
		checkedAt time.Time
	)
	if err := row.Scan(&serviceID, &rawStatus, &respMS, &errMsg, &checkedAt); err != nil {
		return nil, err
	}
	status, err := domain.ParseStatus(rawStatus)
	if err != nil {
		return nil, err
	}
	rec := &domain.CheckRecord{
		ServiceID:      domain.ServiceID(serviceID),
		Status:         status,
		ResponseTimeMS: respMS,
		CheckedAt:      checkedAt,
	}
	if errMsg != nil {
		rec.ErrorMessage = *errMsg
	}
	return rec, nil
}

func collectChecks(rows pgx.Rows) ([]domain.CheckRecord, error) {
	var out []domain.CheckRecord
	for rows.Next() {
		rec, err := scanCheck(rows)
		if err != nil {
			return nil, fmt.Errorf("scan check: %w", err)
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}
