package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Итоги разрешения адреса, сохраняемые в журнале
const (
	LookupOutcomeSingle    = "single"
	LookupOutcomeAmbiguous = "ambiguous"
	LookupOutcomeNotFound  = "not_found"
	LookupOutcomeError     = "error"
)

// Источники запросов
const (
	LookupSourceSkill = "skill"
	LookupSourceAPI   = "api"
)

const (
	defaultLookupLimit = 50
	maxLookupLimit     = 500
)

// ErrInvalidLookup запись журнала не прошла проверку
var ErrInvalidLookup = errors.New("invalid address lookup record")

var validOutcomes = map[string]bool{
	LookupOutcomeSingle:    true,
	LookupOutcomeAmbiguous: true,
	LookupOutcomeNotFound:  true,
	LookupOutcomeError:     true,
}

// LookupRecord одна попытка разрешить адрес
type LookupRecord struct {
	ID             string    `json:"id"`
	Source         string    `json:"source"`
	Query          string    `json:"query"`
	Outcome        string    `json:"outcome"`
	Addresses      []string  `json:"addresses"`
	PlaceID        string    `json:"place_id,omitempty"`
	CandidateCount int       `json:"candidate_count"`
	ErrorMessage   string    `json:"error_message,omitempty"`
	DurationMs     int64     `json:"duration_ms"`
	CreatedAt      time.Time `json:"created_at"`
}

// LookupFilter параметры выборки журнала
type LookupFilter struct {
	Outcome string
	Limit   int
	Offset  int
}

// LookupStats агрегаты по журналу
type LookupStats struct {
	Total         int            `json:"total"`
	ByOutcome     map[string]int `json:"by_outcome"`
	BySource      map[string]int `json:"by_source"`
	AmbiguityRate float64        `json:"ambiguity_rate"`
	AvgDurationMs float64        `json:"avg_duration_ms"`
	LastLookupAt  *time.Time     `json:"last_lookup_at,omitempty"`
}

// RecordLookup сохраняет запись журнала. Пустые ID и CreatedAt заполняются.
func (db *LookupDB) RecordLookup(ctx context.Context, record *LookupRecord) error {
	if record == nil {
		return fmt.Errorf("%w: nil record", ErrInvalidLookup)
	}
	if !validOutcomes[record.Outcome] {
		return fmt.Errorf("%w: unknown outcome %q", ErrInvalidLookup, record.Outcome)
	}
	if record.Source == "" {
		record.Source = LookupSourceAPI
	}
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = db.now()
	}
	record.CreatedAt = record.CreatedAt.UTC()
	if record.Addresses == nil {
		record.Addresses = []string{}
	}

	addresses, err := json.Marshal(record.Addresses)
	if err != nil {
		return fmt.Errorf("failed to marshal addresses: %w", err)
	}

	_, err = db.conn.ExecContext(ctx, `
		INSERT INTO address_lookups (
			id, source, query, outcome, addresses, place_id,
			candidate_count, error_message, duration_ms, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		record.ID, record.Source, record.Query, record.Outcome, string(addresses),
		nullIfEmpty(record.PlaceID), record.CandidateCount, nullIfEmpty(record.ErrorMessage),
		record.DurationMs, record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert address lookup: %w", err)
	}

	return nil
}

// ListLookups возвращает записи журнала, новые первыми
func (db *LookupDB) ListLookups(ctx context.Context, filter LookupFilter) ([]*LookupRecord, error) {
	return db.listLookups(ctx, filter, maxLookupLimit)
}

func (db *LookupDB) listLookups(ctx context.Context, filter LookupFilter, maxLimit int) ([]*LookupRecord, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultLookupLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	var (
		where []string
		args  []interface{}
	)
	if filter.Outcome != "" {
		where = append(where, "outcome = ?")
		args = append(args, filter.Outcome)
	}

	query := `
		SELECT id, source, query, outcome, addresses, place_id,
			candidate_count, error_message, duration_ms, created_at
		FROM address_lookups`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query address lookups: %w", err)
	}
	defer rows.Close()

	records := make([]*LookupRecord, 0)
	for rows.Next() {
		record, err := scanLookup(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate address lookups: %w", err)
	}

	return records, nil
}

// GetLookupStats считает агрегаты по всему журналу
func (db *LookupDB) GetLookupStats(ctx context.Context) (*LookupStats, error) {
	stats := &LookupStats{
		ByOutcome: make(map[string]int),
		BySource:  make(map[string]int),
	}

	if err := db.countBy(ctx, "outcome", stats.ByOutcome); err != nil {
		return nil, err
	}
	if err := db.countBy(ctx, "source", stats.BySource); err != nil {
		return nil, err
	}
	for _, count := range stats.ByOutcome {
		stats.Total += count
	}

	if stats.Total == 0 {
		return stats, nil
	}

	resolved := stats.ByOutcome[LookupOutcomeSingle] + stats.ByOutcome[LookupOutcomeAmbiguous]
	if resolved > 0 {
		stats.AmbiguityRate = float64(stats.ByOutcome[LookupOutcomeAmbiguous]) / float64(resolved)
	}

	var avg sql.NullFloat64
	if err := db.conn.QueryRowContext(ctx, `SELECT AVG(duration_ms) FROM address_lookups`).Scan(&avg); err != nil {
		return nil, fmt.Errorf("failed to compute average duration: %w", err)
	}
	stats.AvgDurationMs = avg.Float64

	var last time.Time
	err := db.conn.QueryRowContext(ctx,
		`SELECT created_at FROM address_lookups ORDER BY created_at DESC LIMIT 1`).Scan(&last)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to get last lookup time: %w", err)
	}
	if err == nil {
		stats.LastLookupAt = &last
	}

	return stats, nil
}

func (db *LookupDB) countBy(ctx context.Context, column string, into map[string]int) error {
	rows, err := db.conn.QueryContext(ctx,
		fmt.Sprintf(`SELECT %s, COUNT(*) FROM address_lookups GROUP BY %s`, column, column))
	if err != nil {
		return fmt.Errorf("failed to count lookups by %s: %w", column, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			key   string
			count int
		)
		if err := rows.Scan(&key, &count); err != nil {
			return fmt.Errorf("failed to scan lookup count: %w", err)
		}
		into[key] = count
	}
	return rows.Err()
}

func scanLookup(rows *sql.Rows) (*LookupRecord, error) {
	var (
		record       LookupRecord
		addresses    string
		placeID      sql.NullString
		errorMessage sql.NullString
	)
	err := rows.Scan(
		&record.ID, &record.Source, &record.Query, &record.Outcome, &addresses, &placeID,
		&record.CandidateCount, &errorMessage, &record.DurationMs, &record.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan address lookup: %w", err)
	}

	if err := json.Unmarshal([]byte(addresses), &record.Addresses); err != nil {
		return nil, fmt.Errorf("failed to unmarshal addresses for lookup %s: %w", record.ID, err)
	}
	record.PlaceID = placeID.String
	record.ErrorMessage = errorMessage.String

	return &record, nil
}

func nullIfEmpty(value string) interface{} {
	if value == "" {
		return nil
	}
	return value
}
