// Package history keeps an operator transcript of answered questions in
// SQLite. It is write-mostly: answers are never read back into the
// assistant's cache.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/musaed-ai/musaed/pkg/config"
	"github.com/musaed-ai/musaed/pkg/models"
)

// Logger writes and queries transcript entries.
type Logger struct {
	db   *sql.DB
	cfg  config.HistoryConfig
	log  zerolog.Logger
	done chan struct{}
	wg   sync.WaitGroup
}

// New opens the transcript database, creates the schema and starts the
// retention loop.
func New(cfg config.HistoryConfig, log zerolog.Logger) (*Logger, error) {
	db, err := sql.Open("sqlite", cfg.DBPath+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_time_format=sqlite")
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate history db: %w", err)
	}

	l := &Logger{
		db:   db,
		cfg:  cfg,
		log:  log.With().Str("component", "history").Logger(),
		done: make(chan struct{}),
	}

	l.wg.Add(1)
	go l.retentionLoop()

	return l, nil
}

func migrate(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS history (
		request_id       TEXT PRIMARY KEY,
		channel          TEXT NOT NULL,
		question         TEXT NOT NULL,
		answer           TEXT NOT NULL,
		source           TEXT NOT NULL,
		category         TEXT,
		response_time_us INTEGER NOT NULL,
		created_at       DATETIME NOT NULL DEFAULT (datetime('now'))
	)`)
	if err != nil {
		return err
	}
	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_history_created ON history(created_at)`)
	if err != nil {
		return err
	}
	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_history_source ON history(source)`)
	return err
}

// Log inserts an entry. A nil Logger discards it.
func (l *Logger) Log(ctx context.Context, entry models.HistoryEntry) error {
	if l == nil || l.db == nil {
		return nil
	}

	question := truncate(entry.Question, l.cfg.MaxBodySize)
	answer := truncate(entry.Answer, l.cfg.MaxBodySize)
	if entry.RequestID == "" {
		entry.RequestID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := l.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO history
		(request_id, channel, question, answer, source, category, response_time_us, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.RequestID, entry.Channel, question, answer,
		string(entry.Source), string(entry.Category), entry.ResponseTimeUs, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("history log: %w", err)
	}
	return nil
}

// Record logs ans from channel. Failures are logged, not returned, so a
// broken transcript never blocks an answer.
func (l *Logger) Record(ctx context.Context, channel string, ans models.Answer) {
	if l == nil {
		return
	}
	err := l.Log(ctx, models.HistoryEntry{
		Channel:        channel,
		Question:       ans.Question,
		Answer:         ans.Text,
		Source:         ans.Source,
		Category:       ans.Category,
		ResponseTimeUs: ans.ResponseTime.Microseconds(),
	})
	if err != nil {
		l.log.Warn().Err(err).Str("channel", channel).Msg("record answer")
	}
}

// Query returns entries matching opts, newest first.
func (l *Logger) Query(ctx context.Context, opts models.HistoryQueryOpts) ([]models.HistoryEntry, error) {
	q := `SELECT request_id, channel, question, answer, source, category, response_time_us, created_at
		FROM history WHERE 1=1`
	var args []any

	if opts.RequestID != "" {
		q += " AND request_id = ?"
		args = append(args, opts.RequestID)
	}
	if opts.Channel != "" {
		q += " AND channel = ?"
		args = append(args, opts.Channel)
	}
	if opts.Source != "" {
		q += " AND source = ?"
		args = append(args, string(opts.Source))
	}
	if !opts.Since.IsZero() {
		q += " AND created_at >= ?"
		args = append(args, opts.Since)
	}

	q += " ORDER BY created_at DESC"

	limit := opts.Limit
	if limit <= 0 {
		limit = 100
	}
	q += " LIMIT ?"
	args = append(args, limit)

	rows, err := l.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var entries []models.HistoryEntry
	for rows.Next() {
		var e models.HistoryEntry
		var source string
		var category sql.NullString
		if err := rows.Scan(
			&e.RequestID, &e.Channel, &e.Question, &e.Answer,
			&source, &category, &e.ResponseTimeUs, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		e.Source = models.Source(source)
		e.Category = models.Category(category.String)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Stats returns counts grouped by source and day.
func (l *Logger) Stats(ctx context.Context) ([]models.HistoryStat, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT source, date(created_at) AS day, count(*) AS cnt
		 FROM history GROUP BY source, day ORDER BY day DESC, source`)
	if err != nil {
		return nil, fmt.Errorf("history stats: %w", err)
	}
	defer rows.Close()

	var stats []models.HistoryStat
	for rows.Next() {
		var s models.HistoryStat
		var source string
		var day sql.NullString
		if err := rows.Scan(&source, &day, &s.Count); err != nil {
			return nil, fmt.Errorf("scan history stat: %w", err)
		}
		s.Source = models.Source(source)
		s.Day = day.String
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

// Cleanup deletes entries older than the retention period.
func (l *Logger) Cleanup(ctx context.Context) (int64, error) {
	if l.cfg.RetentionDays <= 0 {
		return 0, nil
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -l.cfg.RetentionDays)
	res, err := l.db.ExecContext(ctx, `DELETE FROM history WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("history cleanup: %w", err)
	}
	return res.RowsAffected()
}

// Close stops the retention goroutine and closes the database.
func (l *Logger) Close() error {
	close(l.done)
	l.wg.Wait()
	return l.db.Close()
}

func (l *Logger) retentionLoop() {
	defer l.wg.Done()
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-l.done:
			return
		case <-ticker.C:
			n, err := l.Cleanup(context.Background())
			if err != nil {
				l.log.Warn().Err(err).Msg("retention cleanup")
				continue
			}
			if n > 0 {
				l.log.Info().Int64("deleted", n).Msg("retention cleanup")
			}
		}
	}
}

func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	// Cut on a rune boundary.
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}
