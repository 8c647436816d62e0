package store

import "time"

type Category struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

type Sentence struct {
	ID          string
	Text        string
	CategoryIDs []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DailyStat is one per-day, per-sentence interaction count. Day is a
// "2006-01-02" calendar date in UTC.
type DailyStat struct {
	Day        string
	SentenceID string
	Count      int64
}

type Setting struct {
	Key   string
	Value string
}
