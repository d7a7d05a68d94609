package pgsql

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/SscSPs/hr_admin_app/internal/core/domain"
	portsrepo "github.com/SscSPs/hr_admin_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ChangeChannel is the NOTIFY channel fed by the notify_hr_change trigger.
const ChangeChannel = "hr_changes"

const (
	changeSubscriberBuffer = 64
	relistenDelay          = 2 * time.Second
)

// PgxChangeFeed streams trigger notifications to subscribers. Each
// subscriber holds one pooled connection in LISTEN mode.
type PgxChangeFeed struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func newPgxChangeFeed(pool *pgxpool.Pool) *PgxChangeFeed {
	return &PgxChangeFeed{pool: pool, logger: slog.Default().With("component", "change_feed")}
}

var _ portsrepo.ChangeFeed = (*PgxChangeFeed)(nil)

func (f *PgxChangeFeed) Subscribe(ctx context.Context) (<-chan domain.ChangeEvent, error) {
	conn, err := f.listen(ctx)
	if err != nil {
		return nil, err
	}
	ch := make(chan domain.ChangeEvent, changeSubscriberBuffer)
	go f.pump(ctx, conn, ch)
	return ch, nil
}

func (f *PgxChangeFeed) listen(ctx context.Context) (*pgxpool.Conn, error) {
	conn, err := f.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := conn.Exec(ctx, "LISTEN "+ChangeChannel); err != nil {
		conn.Release()
		return nil, err
	}
	return conn, nil
}

func (f *PgxChangeFeed) pump(ctx context.Context, conn *pgxpool.Conn, ch chan<- domain.ChangeEvent) {
	defer close(ch)
	defer func() {
		if conn != nil {
			// A connection interrupted mid-wait is closed by pgx; Release discards it.
			_, _ = conn.Exec(context.Background(), "UNLISTEN "+ChangeChannel)
			conn.Release()
		}
	}()

	for {
		n, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			f.logger.Warn("change feed connection lost, re-listening", slog.String("error", err.Error()))
			conn.Release()
			conn = nil
			for conn == nil {
				select {
				case <-ctx.Done():
					return
				case <-time.After(relistenDelay):
				}
				if conn, err = f.listen(ctx); err != nil {
					f.logger.Warn("change feed re-listen failed", slog.String("error", err.Error()))
					conn = nil
				}
			}
			continue
		}
		ev, err := parseNotification(n.Payload)
		if err != nil {
			f.logger.Warn("dropping malformed change notification", slog.String("payload", n.Payload), slog.String("error", err.Error()))
			continue
		}
		select {
		case ch <- ev:
		default:
		}
	}
}

func parseNotification(payload string) (domain.ChangeEvent, error) {
	var ev domain.ChangeEvent
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		return ev, err
	}
	if ev.Table == "" || ev.Op == "" {
		return ev, errors.New("notification is missing table or op")
	}
	ev.At = ev.At.UTC()
	return ev, nil
}
