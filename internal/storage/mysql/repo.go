package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"tripzy/internal/domain"
)

func valDate(s string) any {
	if s == "" {
		return nil
	}
	return s
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) SaveItinerary(ctx context.Context, it domain.Itinerary) (int64, error) {
	days, err := json.Marshal(it.Days)
	if err != nil {
		return 0, fmt.Errorf("marshal itinerary days: %w", err)
	}
	res, err := r.db.ExecContext(ctx, insertItinerarySQL,
		it.UserID,
		it.Title,
		it.Destination,
		valDate(it.StartDate),
		valDate(it.EndDate),
		it.Budget,
		string(days),
		it.TotalCost,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *Repo) GetItinerary(ctx context.Context, id int64) (domain.Itinerary, error) {
	it, err := scanItinerary(r.db.QueryRowContext(ctx, getItinerarySQL, id))
	if err == sql.ErrNoRows {
		return domain.Itinerary{}, fmt.Errorf("itinerary %d: %w", id, domain.ErrNotFound)
	}
	return it, err
}

func (r *Repo) ListItineraries(ctx context.Context, userID string, limit int) ([]domain.Itinerary, error) {
	rows, err := r.db.QueryContext(ctx, listItinerariesSQL, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Itinerary
	for rows.Next() {
		it, err := scanItinerary(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

type rowScanner interface{ Scan(dest ...any) error }

func scanItinerary(row rowScanner) (domain.Itinerary, error) {
	var it domain.Itinerary
	var start, end, days sql.NullString
	err := row.Scan(
		&it.ID,
		&it.UserID,
		&it.Title,
		&it.Destination,
		&start,
		&end,
		&it.Budget,
		&days,
		&it.TotalCost,
		&it.CreatedAt,
	)
	if err != nil {
		return domain.Itinerary{}, err
	}
	it.StartDate = start.String
	it.EndDate = end.String
	if days.Valid && days.String != "" && days.String != "null" {
		if err := json.Unmarshal([]byte(days.String), &it.Days); err != nil {
			return domain.Itinerary{}, fmt.Errorf("unmarshal itinerary days: %w", err)
		}
	}
	return it, nil
}
