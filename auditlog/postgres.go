package auditlog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/opencustody/vault"
)

// DBConfig locates the audit database.
type DBConfig struct {
	Host     string
	Port     int
	Name     string
	User     string
	Password string
	SSLMode  string
}

// BuildConnString builds a PostgreSQL connection string from cfg.
func BuildConnString(cfg DBConfig) string {
	// URL-encode password to handle special characters
	escapedPassword := url.QueryEscape(cfg.Password)

	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "prefer"
	}

	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User,
		escapedPassword,
		cfg.Host,
		cfg.Port,
		cfg.Name,
		sslMode,
	)
}

// Connect creates a connection pool for the audit database.
func Connect(ctx context.Context, cfg DBConfig) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, BuildConnString(cfg))
	if err != nil {
		return nil, fmt.Errorf("connect audit db: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping audit db: %w", err)
	}
	return pool, nil
}

// eventRow is the flattened shape written to the audit_events table.
type eventRow struct {
	id      string
	kind    string
	at      any
	payload []byte
}

// rowOf flattens an event into its table row. The full record is kept as a
// JSON payload so new event fields never need a migration.
func rowOf(e vault.Event) (eventRow, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return eventRow{}, err
	}
	return eventRow{
		id:      e.ID().String(),
		kind:    string(e.What()),
		at:      e.When(),
		payload: payload,
	}, nil
}

// PGSink batches audit events into the audit_events table. It implements
// vault.Sink: Record buffers the row and Flush writes the batch; a full
// buffer flushes on its own.
type PGSink struct {
	db        *pgxpool.Pool
	logger    *slog.Logger
	batchSize int

	mu    sync.Mutex
	batch []eventRow
}

// NewPGSink creates a sink over db flushing every batchSize events. A nil
// logger uses slog.Default.
func NewPGSink(db *pgxpool.Pool, batchSize int, logger *slog.Logger) *PGSink {
	if logger == nil {
		logger = slog.Default()
	}
	if batchSize <= 0 {
		batchSize = 64
	}
	return &PGSink{
		db:        db,
		logger:    logger,
		batchSize: batchSize,
		batch:     make([]eventRow, 0, batchSize),
	}
}

func (s *PGSink) Record(e vault.Event) {
	row, err := rowOf(e)
	if err != nil {
		s.logger.Error("audit row dropped", "event", e.What(), "err", err)
		return
	}

	s.mu.Lock()
	s.batch = append(s.batch, row)
	full := len(s.batch) >= s.batchSize
	s.mu.Unlock()

	if full {
		if err := s.Flush(context.Background()); err != nil {
			s.logger.Error("audit flush failed", "err", err)
		}
	}
}

// Flush writes every buffered row. Rows stay buffered when the write fails.
func (s *PGSink) Flush(ctx context.Context) error {
	s.mu.Lock()
	rows := s.batch
	s.batch = make([]eventRow, 0, s.batchSize)
	s.mu.Unlock()

	if len(rows) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, r := range rows {
		batch.Queue(
			`INSERT INTO audit_events (id, kind, at, payload) VALUES ($1, $2, $3, $4) ON CONFLICT (id) DO NOTHING`,
			r.id, r.kind, r.at, r.payload,
		)
	}

	if err := s.db.SendBatch(ctx, batch).Close(); err != nil {
		s.mu.Lock()
		s.batch = append(rows, s.batch...)
		s.mu.Unlock()
		return fmt.Errorf("write audit batch: %w", err)
	}
	return nil
}

// Close flushes what is buffered. The pool itself belongs to the caller.
func (s *PGSink) Close(ctx context.Context) error {
	return s.Flush(ctx)
}
