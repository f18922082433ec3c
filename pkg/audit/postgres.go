package audit

import (
	"context"
	"embed"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/intellia-hq/mailroom/pkg/db"
)

//go:embed migrations/*.sql
var migrations embed.FS

// recordTimeout bounds each insert so a stuck database cannot stall the
// operation being audited.
const recordTimeout = 3 * time.Second

// Postgres writes audit events to an audit_events table.
type Postgres struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

// NewPostgres creates a Postgres sink. Call Migrate first to ensure the
// schema exists.
func NewPostgres(pool *pgxpool.Pool, log *slog.Logger) *Postgres {
	return &Postgres{pool: pool, log: log}
}

// Migrate applies the audit schema migrations.
func Migrate(ctx context.Context, pool *pgxpool.Pool, log *slog.Logger) error {
	return db.Migrate(ctx, pool, migrations, "audit_schema_migrations", log)
}

// Record inserts the event. Failures are logged and swallowed: auditing is
// best-effort by contract.
func (p *Postgres) Record(ctx context.Context, e Event) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
	defer cancel()

	at := e.At
	if at.IsZero() {
		at = time.Now()
	}

	_, err := p.pool.Exec(ctx,
		`INSERT INTO audit_events (kind, email, detail, occurred_at) VALUES ($1, $2, $3, $4)`,
		e.Kind, e.Email, e.Detail, at,
	)
	if err != nil {
		p.log.WarnContext(ctx, "audit record failed",
			slog.String("kind", e.Kind),
			slog.String("error", err.Error()),
		)
	}
}

var _ Sink = (*Postgres)(nil)
