package sessions

import (
	"bytes"
	"context"
	"database/sql"
	"time"

	"github.com/dmitrijs2005/gophvote/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/gophvote/internal/common"
	"github.com/dmitrijs2005/gophvote/internal/logging"
)

// ChangeFeed notifies subscribers when another connection (usually another
// gvote process) commits a new session cache document.
//
// Each subscription pins one connection and polls PRAGMA data_version, which
// moves only when a different connection commits. The document is then
// re-read and a notification is sent only if it changed.
type ChangeFeed struct {
	db       *sql.DB
	key      string
	interval time.Duration
	logger   logging.Logger
}

func NewChangeFeed(db *sql.DB, interval time.Duration, logger logging.Logger) *ChangeFeed {
	return &ChangeFeed{db: db, key: common.SessionsKey, interval: interval, logger: logger}
}

// Subscribe starts polling. The returned cancel func stops the poller and
// releases its connection; it blocks until both are done.
func (f *ChangeFeed) Subscribe() (<-chan struct{}, func()) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan struct{}, 1)
	done := make(chan struct{})

	go func() {
		defer close(done)
		f.poll(ctx, ch)
	}()

	return ch, func() {
		cancel()
		<-done
	}
}

func (f *ChangeFeed) poll(ctx context.Context, ch chan<- struct{}) {
	conn, err := f.db.Conn(ctx)
	if err != nil {
		if ctx.Err() == nil {
			f.logger.Error(ctx, "change feed: cannot pin connection", "error", err)
		}
		return
	}
	defer conn.Close()

	version, err := dataVersion(ctx, conn)
	if err != nil {
		f.logger.Warn(ctx, "change feed: data_version", "error", err)
	}
	last, _ := metadata.NewSQLiteRepository(conn).Get(ctx, f.key)

	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		v, err := dataVersion(ctx, conn)
		if err != nil {
			if ctx.Err() == nil {
				f.logger.Warn(ctx, "change feed: data_version", "error", err)
			}
			continue
		}
		if v == version {
			continue
		}
		version = v

		current, err := metadata.NewSQLiteRepository(conn).Get(ctx, f.key)
		if err != nil {
			if ctx.Err() == nil {
				f.logger.Warn(ctx, "change feed: reread", "error", err)
			}
			continue
		}
		if bytes.Equal(current, last) {
			continue
		}
		last = current

		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func dataVersion(ctx context.Context, conn *sql.Conn) (int64, error) {
	var v int64
	err := conn.QueryRowContext(ctx, `PRAGMA data_version`).Scan(&v)
	return v, err
}
