package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/protorh/protorh-api/internal/core/domain"
	"github.com/protorh/protorh-api/internal/core/ports"
)

const (
	requestColumns = `id, user_id, content, registration_date, visibility, close,
	last_action, content_history, delete_date`

	historyDateLayout = "2006-01-02"
)

// historyRow is the stored shape of one content_history element.
type historyRow struct {
	Author  int64  `json:"author"`
	Content string `json:"content"`
	Date    string `json:"date"`
}

// HRRequestStore implements ports.HRRequestStore on the requests_rh table.
// content_history is a jsonb array rewritten together with content inside a
// transaction that holds the row lock.
type HRRequestStore struct {
	db *sql.DB
}

var _ ports.HRRequestStore = (*HRRequestStore)(nil)

func NewHRRequestStore(db *sql.DB) *HRRequestStore {
	return &HRRequestStore{db: db}
}

func (s *HRRequestStore) Create(ctx context.Context, ownerID int64, content string, today time.Time) (*domain.HRRequest, error) {
	req := domain.NewHRRequest(ownerID, content, today)
	history, err := encodeHistory(req.History)
	if err != nil {
		return nil, err
	}

	err = s.db.QueryRowContext(ctx, `
		insert into requests_rh (user_id, content, registration_date, visibility, close,
			last_action, content_history)
		values ($1, $2, $3, $4, $5, $6, $7)
		returning id
	`, req.OwnerID, req.Content, req.CreatedAt, req.Visibility, req.Closed, req.LastActionAt, history).Scan(&req.ID)
	if err != nil {
		return nil, fmt.Errorf("insert hr request: %w", err)
	}
	return req, nil
}

// AppendEdit locks the row, appends to the decoded history and writes content,
// history and last_action back in one statement before committing. Any
// failure rolls the whole edit back.
func (s *HRRequestStore) AppendEdit(ctx context.Context, id int64, content string, author domain.AuthorID, today time.Time) (*domain.HRRequest, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	req, err := scanRequest(tx.QueryRowContext(ctx,
		`select `+requestColumns+` from requests_rh where id = $1 for update`, id))
	if err != nil {
		return nil, err
	}
	if err := req.ApplyEdit(content, author, today); err != nil {
		return nil, err
	}

	history, err := encodeHistory(req.History)
	if err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `
		update requests_rh
		set content = $2, content_history = $3, last_action = $4
		where id = $1
	`, id, req.Content, history, req.LastActionAt); err != nil {
		return nil, fmt.Errorf("append hr request edit: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return req, nil
}

// SoftClose keeps the first delete_date so that closing again only moves
// last_action.
func (s *HRRequestStore) SoftClose(ctx context.Context, id int64, today time.Time) (*domain.HRRequest, error) {
	return scanRequest(s.db.QueryRowContext(ctx, `
		update requests_rh
		set visibility = false, close = true, last_action = $2,
			delete_date = coalesce(delete_date, $2)
		where id = $1
		returning `+requestColumns, id, today))
}

func (s *HRRequestStore) Get(ctx context.Context, id int64) (*domain.HRRequest, error) {
	return scanRequest(s.db.QueryRowContext(ctx, `select `+requestColumns+` from requests_rh where id = $1`, id))
}

func (s *HRRequestStore) List(ctx context.Context) ([]domain.HRRequest, error) {
	rows, err := s.db.QueryContext(ctx, `select `+requestColumns+` from requests_rh order by id`)
	if err != nil {
		return nil, fmt.Errorf("select hr requests: %w", err)
	}
	defer rows.Close()

	var out []domain.HRRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *req)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanRequest(row rowScanner) (*domain.HRRequest, error) {
	var (
		req      domain.HRRequest
		history  []byte
		deleteAt sql.NullTime
	)
	err := row.Scan(
		&req.ID, &req.OwnerID, &req.Content, &req.CreatedAt, &req.Visibility,
		&req.Closed, &req.LastActionAt, &history, &deleteAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrHRRequestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan hr request: %w", err)
	}

	if deleteAt.Valid {
		d := deleteAt.Time
		req.DeletedAt = &d
	}
	req.History, err = decodeHistory(history)
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func encodeHistory(entries []domain.HistoryEntry) (string, error) {
	rows := make([]historyRow, len(entries))
	for i, e := range entries {
		rows[i] = historyRow{Author: int64(e.Author), Content: e.Content, Date: e.At.Format(historyDateLayout)}
	}
	b, err := json.Marshal(rows)
	if err != nil {
		return "", fmt.Errorf("encode history: %w", err)
	}
	return string(b), nil
}

func decodeHistory(raw []byte) ([]domain.HistoryEntry, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var rows []historyRow
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	entries := make([]domain.HistoryEntry, len(rows))
	for i, r := range rows {
		at, err := time.Parse(historyDateLayout, r.Date)
		if err != nil {
			return nil, fmt.Errorf("decode history date: %w", err)
		}
		entries[i] = domain.HistoryEntry{Author: domain.AuthorID(r.Author), Content: r.Content, At: at}
	}
	return entries, nil
}
