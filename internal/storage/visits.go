package storage

import (
	"context"
	"fmt"
	"time"
)

// timeLayout is how timestamps are stored so that range comparisons can be
// done on the text column.
const timeLayout = "2006-01-02 15:04:05"

// Visit is one privacy-conscious page view.
type Visit struct {
	ID        int64     `json:"id"`
	HashedIP  string    `json:"hashed_ip"` // Hashed instead of raw IP for privacy
	UserAgent string    `json:"user_agent"`
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
}

// PathCount is the number of views a path received.
type PathCount struct {
	Path  string `json:"path"`
	Views int64  `json:"views"`
}

// VisitStats summarises the visitors table.
type VisitStats struct {
	TotalVisitors    int64       `json:"total_visitors"`
	UniqueVisitors   int64       `json:"unique_visitors"`
	VisitorsToday    int64       `json:"visitors_today"`
	VisitorsThisWeek int64       `json:"visitors_this_week"`
	ThemeToggles     int64       `json:"theme_toggles"`
	TopPaths         []PathCount `json:"top_paths"`
	RecentVisitors   []Visit     `json:"recent_visitors"`
}

// ThemeTogglePath is the route whose hits are counted as theme toggles.
const ThemeTogglePath = "/theme/toggle"

// RecordVisit stores one visit.
func (d *DB) RecordVisit(ctx context.Context, v Visit) error {
	_, err := d.ExecContext(ctx, `
		INSERT INTO visitors (hashed_ip, user_agent, path, timestamp)
		VALUES (?, ?, ?, ?)
	`, v.HashedIP, v.UserAgent, v.Path, v.Timestamp.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("recording visit: %w", err)
	}
	return nil
}

// CleanupVisits deletes visits older than cutoff and returns how many went.
func (d *DB) CleanupVisits(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := d.ExecContext(ctx, `DELETE FROM visitors WHERE timestamp < ?`,
		cutoff.UTC().Format(timeLayout))
	if err != nil {
		return 0, fmt.Errorf("cleaning up visits: %w", err)
	}
	n, _ := result.RowsAffected()
	return n, nil
}

// Stats computes the dashboard numbers as of now.
func (d *DB) Stats(ctx context.Context, now time.Time) (*VisitStats, error) {
	now = now.UTC()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	weekAgo := now.AddDate(0, 0, -7)

	stats := &VisitStats{}
	counts := []struct {
		dst   *int64
		query string
		args  []any
	}{
		{&stats.TotalVisitors, `SELECT COUNT(*) FROM visitors`, nil},
		{&stats.UniqueVisitors, `SELECT COUNT(DISTINCT hashed_ip) FROM visitors`, nil},
		{&stats.VisitorsToday, `SELECT COUNT(*) FROM visitors WHERE timestamp >= ?`, []any{midnight.Format(timeLayout)}},
		{&stats.VisitorsThisWeek, `SELECT COUNT(*) FROM visitors WHERE timestamp >= ?`, []any{weekAgo.Format(timeLayout)}},
		{&stats.ThemeToggles, `SELECT COUNT(*) FROM visitors WHERE path = ?`, []any{ThemeTogglePath}},
	}
	for _, c := range counts {
		if err := d.QueryRowContext(ctx, c.query, c.args...).Scan(c.dst); err != nil {
			return nil, fmt.Errorf("counting visitors: %w", err)
		}
	}

	rows, err := d.QueryContext(ctx, `
		SELECT path, COUNT(*) AS views
		FROM visitors
		GROUP BY path
		ORDER BY views DESC, path ASC
		LIMIT 10
	`)
	if err != nil {
		return nil, fmt.Errorf("querying top paths: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var pc PathCount
		if err := rows.Scan(&pc.Path, &pc.Views); err != nil {
			continue
		}
		stats.TopPaths = append(stats.TopPaths, pc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading top paths: %w", err)
	}

	stats.RecentVisitors, err = d.RecentVisits(ctx, 50)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// RecentVisits returns the newest visits first.
func (d *DB) RecentVisits(ctx context.Context, limit int) ([]Visit, error) {
	rows, err := d.QueryContext(ctx, `
		SELECT id, hashed_ip, COALESCE(user_agent, ''), COALESCE(path, ''), timestamp
		FROM visitors
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying visits: %w", err)
	}
	defer rows.Close()

	var visits []Visit
	for rows.Next() {
		var v Visit
		var ts string
		if err := rows.Scan(&v.ID, &v.HashedIP, &v.UserAgent, &v.Path, &ts); err != nil {
			continue
		}
		v.Timestamp, _ = time.Parse(timeLayout, ts)
		visits = append(visits, v)
	}
	return visits, rows.Err()
}
