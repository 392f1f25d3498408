package main

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

// UsageStore keeps per-day aggregate counters only. Ticket content and
// individual decisions are never persisted.
type UsageStore struct {
	db *sql.DB
}

func OpenUsageStore(path string) (*UsageStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	schema := `
	CREATE TABLE IF NOT EXISTS daily_usage (
		day              TEXT PRIMARY KEY,
		classifications  INTEGER NOT NULL DEFAULT 0,
		technical        INTEGER NOT NULL DEFAULT 0,
		operational      INTEGER NOT NULL DEFAULT 0,
		assessments_used INTEGER NOT NULL DEFAULT 0,
		input_tokens     INTEGER NOT NULL DEFAULT 0,
		output_tokens    INTEGER NOT NULL DEFAULT 0
	);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	return &UsageStore{db: db}, nil
}

func (s *UsageStore) Close() error {
	return s.db.Close()
}

type DailyUsage struct {
	Day             string `json:"day"`
	Classifications int    `json:"classifications"`
	Technical       int    `json:"technical"`
	Operational     int    `json:"operational"`
	AssessmentsUsed int    `json:"assessments_used"`
	InputTokens     int64  `json:"input_tokens"`
	OutputTokens    int64  `json:"output_tokens"`
}

func (s *UsageStore) RecordClassification(day string, decision Category, assessmentUsed bool, usage LLMUsage) error {
	technical, operational, assessed := 0, 0, 0
	if decision == CategoryTechnical {
		technical = 1
	} else {
		operational = 1
	}
	if assessmentUsed {
		assessed = 1
	}

	_, err := s.db.Exec(
		`INSERT INTO daily_usage (day, classifications, technical, operational, assessments_used, input_tokens, output_tokens)
		 VALUES (?, 1, ?, ?, ?, ?, ?)
		 ON CONFLICT(day) DO UPDATE SET
			classifications  = classifications + 1,
			technical        = technical + excluded.technical,
			operational      = operational + excluded.operational,
			assessments_used = assessments_used + excluded.assessments_used,
			input_tokens     = input_tokens + excluded.input_tokens,
			output_tokens    = output_tokens + excluded.output_tokens`,
		day, technical, operational, assessed, usage.InputTokens, usage.OutputTokens,
	)
	return err
}

func (s *UsageStore) DayUsage(day string) (DailyUsage, error) {
	u := DailyUsage{Day: day}
	err := s.db.QueryRow(
		`SELECT classifications, technical, operational, assessments_used, input_tokens, output_tokens
		 FROM daily_usage WHERE day = ?`, day,
	).Scan(&u.Classifications, &u.Technical, &u.Operational, &u.AssessmentsUsed, &u.InputTokens, &u.OutputTokens)
	if err == sql.ErrNoRows {
		return u, nil
	}
	return u, err
}

func (s *UsageStore) RecentUsage(days int) ([]DailyUsage, error) {
	rows, err := s.db.Query(
		`SELECT day, classifications, technical, operational, assessments_used, input_tokens, output_tokens
		 FROM daily_usage ORDER BY day DESC LIMIT ?`, days,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DailyUsage
	for rows.Next() {
		var u DailyUsage
		if err := rows.Scan(&u.Day, &u.Classifications, &u.Technical, &u.Operational, &u.AssessmentsUsed, &u.InputTokens, &u.OutputTokens); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
