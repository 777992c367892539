package models

import "time"

// Teacher is one roster entry. Rows are keyed by the (name, school) pair and
// only ever updated in place, never duplicated or deleted.
type Teacher struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	School    string    `db:"school" json:"school"`
	SourceURL string    `db:"source_url" json:"source_url,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// TeacherSummary is the public search row.
type TeacherSummary struct {
	ID     int64  `db:"id" json:"id"`
	Name   string `db:"name" json:"name"`
	School string `db:"school" json:"school"`
}

// TeacherStats are aggregates over approved reviews only, computed on every
// read. Nil averages mean "no data", never 0.0.
type TeacherStats struct {
	ReviewCount       int      `db:"review_count" json:"review_count"`
	AvgOverall        *float64 `db:"avg_overall" json:"avg_overall"`
	AvgClarity        *float64 `db:"avg_clarity" json:"avg_clarity"`
	AvgDifficulty     *float64 `db:"avg_difficulty" json:"avg_difficulty"`
	WouldTakeAgainPct *float64 `db:"would_take_again_pct" json:"would_take_again_pct"`
}

// TeacherProfile joins a teacher with its aggregates for the detail endpoint.
type TeacherProfile struct {
	Teacher
	TeacherStats
}

// TopTeacher is one row of the approved-only ranking.
type TopTeacher struct {
	ID          int64   `db:"id" json:"id"`
	Name        string  `db:"name" json:"name"`
	School      string  `db:"school" json:"school"`
	ReviewCount int     `db:"review_count" json:"review_count"`
	AvgOverall  float64 `db:"avg_overall" json:"avg_overall"`
}
