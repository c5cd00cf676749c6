package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"hotel_finder/internal/domain"
)

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// InsertSearch stores the search and its hotels atomically.
func (r *Repo) InsertSearch(ctx context.Context, rec domain.SearchRecord) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, insertSearchSQL,
		rec.ID,
		rec.SessionID,
		string(rec.Command),
		rec.City,
		rec.CheckIn.Format("2006-01-02"),
		rec.CheckOut.Format("2006-01-02"),
		rec.CreatedAt.UTC(),
	); err != nil {
		return fmt.Errorf("insert search: %w", err)
	}

	if len(rec.Hotels) > 0 {
		values := make([]string, 0, len(rec.Hotels))
		args := make([]any, 0, len(rec.Hotels)*6) // 6 params per row
		for i, h := range rec.Hotels {
			values = append(values, "(?,?,?,?,?,?)")
			args = append(args,
				rec.ID,
				i,
				string(h.ID),
				h.Name,
				h.Price.Amount,
				h.Price.Currency,
			)
		}
		if _, err = tx.ExecContext(ctx, insertHotelsPrefix+strings.Join(values, ","), args...); err != nil {
			return fmt.Errorf("insert search hotels: %w", err)
		}
	}
	return tx.Commit()
}

// ListSearches returns the session's searches, newest first.
func (r *Repo) ListSearches(ctx context.Context, sessionID string, limit int) ([]domain.SearchRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx, listSearchesSQL, sessionID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.SearchRecord
	index := map[string]int{}
	for rows.Next() {
		var rec domain.SearchRecord
		var command string
		if err := rows.Scan(&rec.ID, &rec.SessionID, &command, &rec.City,
			&rec.CheckIn, &rec.CheckOut, &rec.CreatedAt); err != nil {
			return nil, err
		}
		rec.Command = domain.RankingFunction(command)
		index[rec.ID] = len(out)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	if err := r.attachHotels(ctx, out, index); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) attachHotels(ctx context.Context, recs []domain.SearchRecord, index map[string]int) error {
	args := make([]any, 0, len(recs))
	for _, rec := range recs {
		args = append(args, rec.ID)
	}
	q := listHotelsPrefix + strings.TrimSuffix(strings.Repeat("?,", len(recs)), ",") + listHotelsSuffix
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var searchID, propID string
		var h domain.HotelSummary
		if err := rows.Scan(&searchID, &propID, &h.Name, &h.Price.Amount, &h.Price.Currency); err != nil {
			return err
		}
		h.ID = domain.PropertyID(propID)
		if i, ok := index[searchID]; ok {
			recs[i].Hotels = append(recs[i].Hotels, h)
		}
	}
	return rows.Err()
}
