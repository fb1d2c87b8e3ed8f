package out

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"cradle/internal/modules/records/domain"
	recordsout "cradle/internal/modules/records/port/out"
	apperrors "cradle/internal/platform/errors"
	"cradle/internal/platform/tx"
)

// SQLiteRecordStore persists the five record kinds in the shared device
// database. Every list query filters on user_id through the (user_id, ...)
// indexes created by sqlitedb.Schema.
type SQLiteRecordStore struct {
	db *sql.DB
	tx *tx.SQLite
}

func NewSQLiteRecordStore(db *sql.DB) recordsout.RecordStore {
	return &SQLiteRecordStore{db: db, tx: tx.NewSQLite(db)}
}

type scanner interface {
	Scan(dest ...any) error
}

// rangeClause renders q for a table whose time column is started_at.
func rangeClause(q domain.RangeQuery) (string, []any) {
	var b strings.Builder
	args := []any{}
	if q.Since != nil {
		b.WriteString(" AND started_at >= ?")
		args = append(args, *q.Since)
	}
	if q.Before != nil {
		b.WriteString(" AND started_at < ?")
		args = append(args, *q.Before)
	}
	b.WriteString(" ORDER BY started_at DESC, id DESC")
	if q.Limit > 0 {
		b.WriteString(" LIMIT ?")
		args = append(args, q.Limit)
	}
	return b.String(), args
}

// upsert runs a conditional INSERT ... ON CONFLICT DO UPDATE ... WHERE owner
// matches, so the ownership check and the write are one statement.
func (s *SQLiteRecordStore) upsert(ctx context.Context, op, actorID, ownerID, stmt string, args ...any) (bool, error) {
	if actorID == "" || ownerID != actorID {
		return false, nil
	}
	res, err := s.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return false, apperrors.Storage(fmt.Errorf("%s: %w", op, err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, apperrors.Storage(fmt.Errorf("%s rows affected: %w", op, err))
	}
	return n > 0, nil
}

func nullableInt64(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	out := v.Int64
	return &out
}

func notFound(err error, sentinel error, op string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return sentinel
	}
	return apperrors.Storage(fmt.Errorf("%s: %w", op, err))
}

const kickColumns = `id, user_id, started_at, ended_at, taps, kick_count, goal_reached`

func scanKick(row scanner) (domain.KickSession, error) {
	var (
		k       domain.KickSession
		endedAt sql.NullInt64
		taps    string
	)
	if err := row.Scan(&k.ID, &k.UserID, &k.StartedAt, &endedAt, &taps, &k.KickCount, &k.GoalReached); err != nil {
		return domain.KickSession{}, err
	}
	k.EndedAt = nullableInt64(endedAt)
	k.Taps = []domain.Tap{}
	if taps != "" {
		if err := json.Unmarshal([]byte(taps), &k.Taps); err != nil {
			return domain.KickSession{}, fmt.Errorf("decode taps for %s: %w", k.ID, err)
		}
	}
	return k, nil
}

func (s *SQLiteRecordStore) ListKickSessions(ctx context.Context, userID string, q domain.RangeQuery) ([]domain.KickSession, error) {
	clause, args := rangeClause(q)
	rows, err := s.db.QueryContext(ctx, `SELECT `+kickColumns+` FROM kick_sessions WHERE user_id = ?`+clause, append([]any{userID}, args...)...)
	if err != nil {
		return nil, apperrors.Storage(fmt.Errorf("list kick sessions: %w", err))
	}
	defer rows.Close()
	out := []domain.KickSession{}
	for rows.Next() {
		k, err := scanKick(rows)
		if err != nil {
			return nil, apperrors.Storage(fmt.Errorf("scan kick session: %w", err))
		}
		out = append(out, k)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage(fmt.Errorf("iterate kick sessions: %w", err))
	}
	return out, nil
}

// ActiveKickSession returns the newest open session. Duplicate open sessions
// left by an interrupted write are tolerated: the first match wins.
func (s *SQLiteRecordStore) ActiveKickSession(ctx context.Context, userID string) (domain.KickSession, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+kickColumns+` FROM kick_sessions WHERE user_id = ? AND ended_at IS NULL ORDER BY started_at DESC, id DESC LIMIT 1`, userID)
	k, err := scanKick(row)
	if err != nil {
		return domain.KickSession{}, notFound(err, apperrors.ErrNoActiveSession, "active kick session")
	}
	return k, nil
}

func (s *SQLiteRecordStore) GetKickSession(ctx context.Context, id string) (domain.KickSession, error) {
	k, err := scanKick(s.db.QueryRowContext(ctx, `SELECT `+kickColumns+` FROM kick_sessions WHERE id = ?`, id))
	if err != nil {
		return domain.KickSession{}, notFound(err, apperrors.ErrNotFound, "get kick session")
	}
	return k, nil
}

func (s *SQLiteRecordStore) SaveKickSession(ctx context.Context, actorID string, k domain.KickSession) (bool, error) {
	taps := k.Taps
	if taps == nil {
		taps = []domain.Tap{}
	}
	encoded, err := json.Marshal(taps)
	if err != nil {
		return false, fmt.Errorf("encode taps: %w", err)
	}
	const stmt = `
INSERT INTO kick_sessions (id, user_id, started_at, ended_at, taps, kick_count, goal_reached)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  started_at=excluded.started_at,
  ended_at=excluded.ended_at,
  taps=excluded.taps,
  kick_count=excluded.kick_count,
  goal_reached=excluded.goal_reached
WHERE kick_sessions.user_id = excluded.user_id;`
	return s.upsert(ctx, "save kick session", actorID, k.UserID, stmt,
		k.ID, k.UserID, k.StartedAt, k.EndedAt, string(encoded), k.KickCount, k.GoalReached)
}

const contractionSessionColumns = `id, user_id, started_at, ended_at, contraction_count, avg_duration, avg_interval, alert_triggered`

func scanContractionSession(row scanner) (domain.ContractionSession, error) {
	var (
		c                       domain.ContractionSession
		endedAt, avgDur, avgInt sql.NullInt64
	)
	if err := row.Scan(&c.ID, &c.UserID, &c.StartedAt, &endedAt, &c.ContractionCount, &avgDur, &avgInt, &c.AlertTriggered); err != nil {
		return domain.ContractionSession{}, err
	}
	c.EndedAt = nullableInt64(endedAt)
	c.AvgDuration = nullableInt64(avgDur)
	c.AvgInterval = nullableInt64(avgInt)
	return c, nil
}

func (s *SQLiteRecordStore) ListContractionSessions(ctx context.Context, userID string, q domain.RangeQuery) ([]domain.ContractionSession, error) {
	clause, args := rangeClause(q)
	rows, err := s.db.QueryContext(ctx, `SELECT `+contractionSessionColumns+` FROM contraction_sessions WHERE user_id = ?`+clause, append([]any{userID}, args...)...)
	if err != nil {
		return nil, apperrors.Storage(fmt.Errorf("list contraction sessions: %w", err))
	}
	defer rows.Close()
	out := []domain.ContractionSession{}
	for rows.Next() {
		c, err := scanContractionSession(rows)
		if err != nil {
			return nil, apperrors.Storage(fmt.Errorf("scan contraction session: %w", err))
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage(fmt.Errorf("iterate contraction sessions: %w", err))
	}
	return out, nil
}

func (s *SQLiteRecordStore) ActiveContractionSession(ctx context.Context, userID string) (domain.ContractionSession, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+contractionSessionColumns+` FROM contraction_sessions WHERE user_id = ? AND ended_at IS NULL ORDER BY started_at DESC, id DESC LIMIT 1`, userID)
	c, err := scanContractionSession(row)
	if err != nil {
		return domain.ContractionSession{}, notFound(err, apperrors.ErrNoActiveSession, "active contraction session")
	}
	return c, nil
}

func (s *SQLiteRecordStore) GetContractionSession(ctx context.Context, id string) (domain.ContractionSession, error) {
	c, err := scanContractionSession(s.db.QueryRowContext(ctx, `SELECT `+contractionSessionColumns+` FROM contraction_sessions WHERE id = ?`, id))
	if err != nil {
		return domain.ContractionSession{}, notFound(err, apperrors.ErrNotFound, "get contraction session")
	}
	return c, nil
}

func (s *SQLiteRecordStore) SaveContractionSession(ctx context.Context, actorID string, c domain.ContractionSession) (bool, error) {
	const stmt = `
INSERT INTO contraction_sessions (id, user_id, started_at, ended_at, contraction_count, avg_duration, avg_interval, alert_triggered)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  started_at=excluded.started_at,
  ended_at=excluded.ended_at,
  contraction_count=excluded.contraction_count,
  avg_duration=excluded.avg_duration,
  avg_interval=excluded.avg_interval,
  alert_triggered=excluded.alert_triggered
WHERE contraction_sessions.user_id = excluded.user_id;`
	return s.upsert(ctx, "save contraction session", actorID, c.UserID, stmt,
		c.ID, c.UserID, c.StartedAt, c.EndedAt, c.ContractionCount, c.AvgDuration, c.AvgInterval, c.AlertTriggered)
}

const contractionColumns = `id, user_id, session_id, started_at, ended_at, duration, interval`

func scanContraction(row scanner) (domain.Contraction, error) {
	var (
		c                           domain.Contraction
		endedAt, duration, interval sql.NullInt64
	)
	if err := row.Scan(&c.ID, &c.UserID, &c.SessionID, &c.StartedAt, &endedAt, &duration, &interval); err != nil {
		return domain.Contraction{}, err
	}
	c.EndedAt = nullableInt64(endedAt)
	c.Duration = nullableInt64(duration)
	c.Interval = nullableInt64(interval)
	return c, nil
}

func (s *SQLiteRecordStore) queryContractions(ctx context.Context, query string, args ...any) ([]domain.Contraction, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Storage(fmt.Errorf("list contractions: %w", err))
	}
	defer rows.Close()
	out := []domain.Contraction{}
	for rows.Next() {
		c, err := scanContraction(rows)
		if err != nil {
			return nil, apperrors.Storage(fmt.Errorf("scan contraction: %w", err))
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage(fmt.Errorf("iterate contractions: %w", err))
	}
	return out, nil
}

func (s *SQLiteRecordStore) ListContractions(ctx context.Context, userID, sessionID string) ([]domain.Contraction, error) {
	return s.queryContractions(ctx,
		`SELECT `+contractionColumns+` FROM contractions WHERE user_id = ? AND session_id = ? ORDER BY started_at ASC, id ASC`,
		userID, sessionID)
}

func (s *SQLiteRecordStore) ListAllContractions(ctx context.Context, userID string) ([]domain.Contraction, error) {
	return s.queryContractions(ctx,
		`SELECT `+contractionColumns+` FROM contractions WHERE user_id = ? ORDER BY started_at ASC, id ASC`,
		userID)
}

func (s *SQLiteRecordStore) GetContraction(ctx context.Context, id string) (domain.Contraction, error) {
	c, err := scanContraction(s.db.QueryRowContext(ctx, `SELECT `+contractionColumns+` FROM contractions WHERE id = ?`, id))
	if err != nil {
		return domain.Contraction{}, notFound(err, apperrors.ErrNotFound, "get contraction")
	}
	return c, nil
}

func (s *SQLiteRecordStore) SaveContraction(ctx context.Context, actorID string, c domain.Contraction) (bool, error) {
	const stmt = `
INSERT INTO contractions (id, user_id, session_id, started_at, ended_at, duration, interval)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  session_id=excluded.session_id,
  started_at=excluded.started_at,
  ended_at=excluded.ended_at,
  duration=excluded.duration,
  interval=excluded.interval
WHERE contractions.user_id = excluded.user_id;`
	return s.upsert(ctx, "save contraction", actorID, c.UserID, stmt,
		c.ID, c.UserID, c.SessionID, c.StartedAt, c.EndedAt, c.Duration, c.Interval)
}

const feedingColumns = `id, user_id, type, started_at, ended_at, duration, volume_ml, notes`

func scanFeeding(row scanner) (domain.FeedingRecord, error) {
	var (
		r                           domain.FeedingRecord
		kind                        string
		endedAt, duration, volumeMl sql.NullInt64
		notes                       sql.NullString
	)
	if err := row.Scan(&r.ID, &r.UserID, &kind, &r.StartedAt, &endedAt, &duration, &volumeMl, &notes); err != nil {
		return domain.FeedingRecord{}, err
	}
	r.Type = domain.FeedingType(kind)
	r.EndedAt = nullableInt64(endedAt)
	r.Duration = nullableInt64(duration)
	if volumeMl.Valid {
		v := int(volumeMl.Int64)
		r.VolumeMl = &v
	}
	if notes.Valid {
		n := notes.String
		r.Notes = &n
	}
	return r, nil
}

func (s *SQLiteRecordStore) ListFeedings(ctx context.Context, userID string, q domain.RangeQuery) ([]domain.FeedingRecord, error) {
	clause, args := rangeClause(q)
	rows, err := s.db.QueryContext(ctx, `SELECT `+feedingColumns+` FROM feeding_records WHERE user_id = ?`+clause, append([]any{userID}, args...)...)
	if err != nil {
		return nil, apperrors.Storage(fmt.Errorf("list feedings: %w", err))
	}
	defer rows.Close()
	out := []domain.FeedingRecord{}
	for rows.Next() {
		r, err := scanFeeding(rows)
		if err != nil {
			return nil, apperrors.Storage(fmt.Errorf("scan feeding: %w", err))
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage(fmt.Errorf("iterate feedings: %w", err))
	}
	return out, nil
}

func (s *SQLiteRecordStore) OpenFeeding(ctx context.Context, userID string) (domain.FeedingRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+feedingColumns+` FROM feeding_records WHERE user_id = ? AND ended_at IS NULL AND type != ? ORDER BY started_at DESC, id DESC LIMIT 1`,
		userID, string(domain.FeedBottle))
	r, err := scanFeeding(row)
	if err != nil {
		return domain.FeedingRecord{}, notFound(err, apperrors.ErrNoActiveSession, "open feeding")
	}
	return r, nil
}

func (s *SQLiteRecordStore) GetFeeding(ctx context.Context, id string) (domain.FeedingRecord, error) {
	r, err := scanFeeding(s.db.QueryRowContext(ctx, `SELECT `+feedingColumns+` FROM feeding_records WHERE id = ?`, id))
	if err != nil {
		return domain.FeedingRecord{}, notFound(err, apperrors.ErrNotFound, "get feeding")
	}
	return r, nil
}

func (s *SQLiteRecordStore) SaveFeeding(ctx context.Context, actorID string, r domain.FeedingRecord) (bool, error) {
	const stmt = `
INSERT INTO feeding_records (id, user_id, type, started_at, ended_at, duration, volume_ml, notes)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  type=excluded.type,
  started_at=excluded.started_at,
  ended_at=excluded.ended_at,
  duration=excluded.duration,
  volume_ml=excluded.volume_ml,
  notes=excluded.notes
WHERE feeding_records.user_id = excluded.user_id;`
	return s.upsert(ctx, "save feeding", actorID, r.UserID, stmt,
		r.ID, r.UserID, string(r.Type), r.StartedAt, r.EndedAt, r.Duration, r.VolumeMl, r.Notes)
}

const bagColumns = `id, user_id, category, name, checked, is_custom, sort_order, created_at`

func scanBagItem(row scanner) (domain.HospitalBagItem, error) {
	var (
		it       domain.HospitalBagItem
		category string
	)
	if err := row.Scan(&it.ID, &it.UserID, &category, &it.Name, &it.Checked, &it.IsCustom, &it.SortOrder, &it.CreatedAt); err != nil {
		return domain.HospitalBagItem{}, err
	}
	it.Category = domain.BagCategory(category)
	return it, nil
}

func (s *SQLiteRecordStore) ListBagItems(ctx context.Context, userID string) ([]domain.HospitalBagItem, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+bagColumns+` FROM hospital_bag_items WHERE user_id = ? ORDER BY sort_order ASC, created_at ASC`, userID)
	if err != nil {
		return nil, apperrors.Storage(fmt.Errorf("list bag items: %w", err))
	}
	defer rows.Close()
	out := []domain.HospitalBagItem{}
	for rows.Next() {
		it, err := scanBagItem(rows)
		if err != nil {
			return nil, apperrors.Storage(fmt.Errorf("scan bag item: %w", err))
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage(fmt.Errorf("iterate bag items: %w", err))
	}
	return out, nil
}

func (s *SQLiteRecordStore) GetBagItem(ctx context.Context, id string) (domain.HospitalBagItem, error) {
	it, err := scanBagItem(s.db.QueryRowContext(ctx, `SELECT `+bagColumns+` FROM hospital_bag_items WHERE id = ?`, id))
	if err != nil {
		return domain.HospitalBagItem{}, notFound(err, apperrors.ErrNotFound, "get bag item")
	}
	return it, nil
}

func (s *SQLiteRecordStore) SaveBagItem(ctx context.Context, actorID string, it domain.HospitalBagItem) (bool, error) {
	const stmt = `
INSERT INTO hospital_bag_items (id, user_id, category, name, checked, is_custom, sort_order, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  category=excluded.category,
  name=excluded.name,
  checked=excluded.checked,
  is_custom=excluded.is_custom,
  sort_order=excluded.sort_order
WHERE hospital_bag_items.user_id = excluded.user_id;`
	return s.upsert(ctx, "save bag item", actorID, it.UserID, stmt,
		it.ID, it.UserID, string(it.Category), it.Name, it.Checked, it.IsCustom, it.SortOrder, it.CreatedAt)
}

func (s *SQLiteRecordStore) DeleteBagItem(ctx context.Context, actorID, id string) (bool, error) {
	if actorID == "" {
		return false, nil
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM hospital_bag_items WHERE id = ? AND user_id = ?`, id, actorID)
	if err != nil {
		return false, apperrors.Storage(fmt.Errorf("delete bag item: %w", err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, apperrors.Storage(fmt.Errorf("delete bag item rows affected: %w", err))
	}
	return n > 0, nil
}

// ClearUser removes every record owned by userID and nothing else, in one
// transaction.
func (s *SQLiteRecordStore) ClearUser(ctx context.Context, userID string) error {
	if userID == "" {
		return fmt.Errorf("%w: user id is required", apperrors.ErrInvalidInput)
	}
	return s.tx.Within(ctx, func(ctx context.Context) error {
		db := tx.From(ctx, s.db)
		for _, table := range []string{"kick_sessions", "contractions", "contraction_sessions", "feeding_records", "hospital_bag_items"} {
			if _, err := db.ExecContext(ctx, `DELETE FROM `+table+` WHERE user_id = ?`, userID); err != nil {
				return apperrors.Storage(fmt.Errorf("clear %s: %w", table, err))
			}
		}
		return nil
	})
}
