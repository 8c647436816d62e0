package store

import (
	"database/sql"
	"fmt"
	"time"
)

func today() string {
	return time.Now().UTC().Format("2006-01-02")
}

// IncrementToday bumps today's count for the given sentence by one,
// creating the row on first use.
func (s *Store) IncrementToday(sentenceID string) error {
	_, err := s.db.Exec(
		`INSERT INTO daily_stats (day, sentence_id, count) VALUES (?, ?, 1)
		 ON CONFLICT(day, sentence_id) DO UPDATE SET count = count + 1`,
		today(), sentenceID,
	)
	if err != nil {
		return fmt.Errorf("increment stat: %w", err)
	}
	return nil
}

// GetToday returns today's per-sentence counts. The active-time sentinel row
// is never included.
func (s *Store) GetToday() ([]DailyStat, error) {
	return s.queryStats(
		`SELECT day, sentence_id, count FROM daily_stats
		 WHERE day = ? AND sentence_id != ?
		 ORDER BY count DESC, sentence_id`,
		today(), ActiveTimeID,
	)
}

// GetRange returns per-sentence counts for the last n days including today,
// excluding the active-time sentinel.
func (s *Store) GetRange(days int) ([]DailyStat, error) {
	if days < 1 {
		days = 1
	}
	from := time.Now().UTC().AddDate(0, 0, 1-days).Format("2006-01-02")
	return s.queryStats(
		`SELECT day, sentence_id, count FROM daily_stats
		 WHERE day >= ? AND sentence_id != ?
		 ORDER BY day, count DESC, sentence_id`,
		from, ActiveTimeID,
	)
}

// SetCount overwrites a day's count for a sentence (manual correction).
func (s *Store) SetCount(day, sentenceID string, count int64) error {
	if count < 0 {
		count = 0
	}
	_, err := s.db.Exec(
		`INSERT INTO daily_stats (day, sentence_id, count) VALUES (?, ?, ?)
		 ON CONFLICT(day, sentence_id) DO UPDATE SET count = excluded.count`,
		day, sentenceID, count,
	)
	if err != nil {
		return fmt.Errorf("set count: %w", err)
	}
	return nil
}

// ResetAllStats deletes every stats row, the active-time rows included.
func (s *Store) ResetAllStats() error {
	_, err := s.db.Exec(`DELETE FROM daily_stats`)
	return err
}

// IncrementActiveTime adds secs to today's active-time total and returns the
// new total.
func (s *Store) IncrementActiveTime(secs int64) (int64, error) {
	if secs <= 0 {
		return s.GetActiveTime()
	}
	_, err := s.db.Exec(
		`INSERT INTO daily_stats (day, sentence_id, count) VALUES (?, ?, ?)
		 ON CONFLICT(day, sentence_id) DO UPDATE SET count = count + excluded.count`,
		today(), ActiveTimeID, secs,
	)
	if err != nil {
		return 0, fmt.Errorf("increment active time: %w", err)
	}
	return s.GetActiveTime()
}

// GetActiveTime returns today's accumulated active seconds.
func (s *Store) GetActiveTime() (int64, error) {
	var total sql.NullInt64
	err := s.db.QueryRow(
		`SELECT count FROM daily_stats WHERE day = ? AND sentence_id = ?`,
		today(), ActiveTimeID,
	).Scan(&total)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get active time: %w", err)
	}
	return total.Int64, nil
}

// GetDailyTotals sums tap counts per day over the last n days including
// today, sentinel excluded. Days with no taps are absent.
func (s *Store) GetDailyTotals(days int) (map[string]int64, error) {
	if days < 1 {
		days = 1
	}
	from := time.Now().UTC().AddDate(0, 0, 1-days).Format("2006-01-02")
	rows, err := s.db.Query(
		`SELECT day, COALESCE(SUM(count), 0) FROM daily_stats
		 WHERE day >= ? AND sentence_id != ?
		 GROUP BY day ORDER BY day`,
		from, ActiveTimeID,
	)
	if err != nil {
		return nil, fmt.Errorf("daily totals: %w", err)
	}
	defer rows.Close()

	totals := make(map[string]int64)
	for rows.Next() {
		var day string
		var total int64
		if err := rows.Scan(&day, &total); err != nil {
			return nil, err
		}
		totals[day] = total
	}
	return totals, rows.Err()
}

func (s *Store) queryStats(query string, args ...any) ([]DailyStat, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query stats: %w", err)
	}
	defer rows.Close()

	var stats []DailyStat
	for rows.Next() {
		var ds DailyStat
		if err := rows.Scan(&ds.Day, &ds.SentenceID, &ds.Count); err != nil {
			return nil, err
		}
		stats = append(stats, ds)
	}
	return stats, rows.Err()
}
