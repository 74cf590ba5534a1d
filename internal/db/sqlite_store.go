package db

import (
	"database/sql"
	"errors"
	"fmt"

	sqlite3 "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/aliskandarani/raai/internal/api"
)

// SQLiteStore implements api.Store on a single SQLite file. The database is
// the only point of serialization for conflicting writes; every multi-row
// write below runs in one transaction.
type SQLiteStore struct {
	db  *sql.DB
	log *zap.SugaredLogger
}

func NewSQLiteStore(db *sql.DB, log *zap.SugaredLogger) (*SQLiteStore, error) {
	if db == nil {
		return nil, errors.New("nil db")
	}
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	}
	for _, stmt := range pragmas {
		if _, err := db.Exec(stmt); err != nil {
			return nil, fmt.Errorf("apply sqlite pragma %q: %w", stmt, err)
		}
	}
	return &SQLiteStore{db: db, log: log}, nil
}

var _ api.Store = (*SQLiteStore)(nil)

func boolToInt64(v bool) int64 {
	if v {
		return 1
	}
	return 0
}

func int64ToBool(v int64) bool { return v != 0 }

func toNullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func fromNullFloat(nf sql.NullFloat64) *float64 {
	if !nf.Valid {
		return nil
	}
	v := nf.Float64
	return &v
}

func toNullInt(i int) sql.NullInt64 {
	if i == 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(i), Valid: true}
}

func isUniqueViolation(err error) bool {
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.ExtendedCode == sqlite3.ErrConstraintUnique ||
			se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

// rollback is deferred-safe: ErrTxDone after a commit is expected.
func (s *SQLiteStore) rollback(tx *sql.Tx) {
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		s.log.Warnw("sqlite store: rollback", "err", err)
	}
}

// --- admins ---

func (s *SQLiteStore) AddAdmin(a *api.Admin) error {
	_, err := s.db.Exec(
		`INSERT INTO admins (id, email, pass_hash, created_at) VALUES (?, ?, ?, ?)`,
		a.ID, a.Email, a.PassHash, a.CreatedAt,
	)
	return err
}

func (s *SQLiteStore) FindAdminByEmail(email string) (*api.Admin, error) {
	row := s.db.QueryRow(
		`SELECT id, email, pass_hash, created_at FROM admins WHERE email = ? COLLATE NOCASE`,
		email,
	)
	a := &api.Admin{}
	if err := row.Scan(&a.ID, &a.Email, &a.PassHash, &a.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return a, nil
}

// --- surveys ---

func (s *SQLiteStore) InsertSurvey(sv *api.Survey) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer s.rollback(tx)

	_, err = tx.Exec(
		`INSERT INTO surveys (id, title_ar, title_en, description_ar, description_en, customer_type, created_by, created_at, is_archived)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sv.ID, sv.TitleAr, sv.TitleEn, sv.DescriptionAr, sv.DescriptionEn,
		sv.CustomerType, sv.CreatedBy, sv.CreatedAt, boolToInt64(sv.IsArchived),
	)
	if err != nil {
		return err
	}
	if err := insertQuestionsTx(tx, sv.Questions); err != nil {
		return err
	}
	return tx.Commit()
}

func insertQuestionsTx(tx *sql.Tx, qs []*api.Question) error {
	for _, q := range qs {
		_, err := tx.Exec(
			`INSERT INTO questions (id, survey_id, type, content_ar, content_en, required, order_num, category_ar, category_en, star_count, min_value, max_value, step_value)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			q.ID, q.SurveyID, q.Type, q.ContentAr, q.ContentEn, boolToInt64(q.Required),
			q.OrderNum, q.CategoryAr, q.CategoryEn, toNullInt(q.StarCount),
			toNullFloat(q.MinValue), toNullFloat(q.MaxValue), toNullFloat(q.Step),
		)
		if err != nil {
			return err
		}
		for _, opt := range q.Options {
			_, err := tx.Exec(
				`INSERT INTO options (id, question_id, text_ar, text_en, order_num) VALUES (?, ?, ?, ?, ?)`,
				opt.ID, opt.QuestionID, opt.TextAr, opt.TextEn, opt.OrderNum,
			)
			if err != nil {
				return err
			}
		}
		for _, m := range q.RangeMappings {
			minPct, maxPct := 0.0, 0.0
			if m.MinPercentage != nil {
				minPct = *m.MinPercentage
			}
			if m.MaxPercentage != nil {
				maxPct = *m.MaxPercentage
			}
			_, err := tx.Exec(
				`INSERT INTO star_range_mappings (id, question_id, stars, min_percentage, max_percentage) VALUES (?, ?, ?, ?, ?)`,
				m.ID, m.QuestionID, m.Stars, minPct, maxPct,
			)
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *SQLiteStore) GetSurvey(id string) (*api.Survey, error) {
	row := s.db.QueryRow(
		`SELECT id, title_ar, title_en, description_ar, description_en, customer_type, created_by, created_at, is_archived
		 FROM surveys WHERE id = ?`, id,
	)
	sv := &api.Survey{}
	var archived int64
	if err := row.Scan(&sv.ID, &sv.TitleAr, &sv.TitleEn, &sv.DescriptionAr, &sv.DescriptionEn,
		&sv.CustomerType, &sv.CreatedBy, &sv.CreatedAt, &archived); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	sv.IsArchived = int64ToBool(archived)
	qs, err := s.listQuestions(id)
	if err != nil {
		return nil, err
	}
	sv.Questions = qs
	return sv, nil
}

func (s *SQLiteStore) listQuestions(surveyID string) ([]*api.Question, error) {
	rows, err := s.db.Query(
		`SELECT id, survey_id, type, content_ar, content_en, required, order_num, category_ar, category_en, star_count, min_value, max_value, step_value
		 FROM questions WHERE survey_id = ? ORDER BY order_num`, surveyID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var qs []*api.Question
	for rows.Next() {
		q := &api.Question{}
		var required int64
		var starCount sql.NullInt64
		var minV, maxV, step sql.NullFloat64
		if err := rows.Scan(&q.ID, &q.SurveyID, &q.Type, &q.ContentAr, &q.ContentEn, &required,
			&q.OrderNum, &q.CategoryAr, &q.CategoryEn, &starCount, &minV, &maxV, &step); err != nil {
			return nil, err
		}
		q.Required = int64ToBool(required)
		q.StarCount = int(starCount.Int64)
		q.MinValue = fromNullFloat(minV)
		q.MaxValue = fromNullFloat(maxV)
		q.Step = fromNullFloat(step)
		qs = append(qs, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, q := range qs {
		if err := s.fillQuestionConfig(q); err != nil {
			return nil, err
		}
	}
	return qs, nil
}

func (s *SQLiteStore) fillQuestionConfig(q *api.Question) error {
	switch q.Type {
	case "multiple_choice":
		rows, err := s.db.Query(
			`SELECT id, question_id, text_ar, text_en, order_num FROM options WHERE question_id = ? ORDER BY order_num`, q.ID,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			opt := &api.Option{}
			if err := rows.Scan(&opt.ID, &opt.QuestionID, &opt.TextAr, &opt.TextEn, &opt.OrderNum); err != nil {
				return err
			}
			q.Options = append(q.Options, opt)
		}
		return rows.Err()
	case "star_rating":
		rows, err := s.db.Query(
			`SELECT id, question_id, stars, min_percentage, max_percentage FROM star_range_mappings WHERE question_id = ? ORDER BY stars`, q.ID,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			m := &api.RangeMapping{}
			var minPct, maxPct float64
			if err := rows.Scan(&m.ID, &m.QuestionID, &m.Stars, &minPct, &maxPct); err != nil {
				return err
			}
			m.MinPercentage = &minPct
			m.MaxPercentage = &maxPct
			q.RangeMappings = append(q.RangeMappings, m)
		}
		return rows.Err()
	}
	return nil
}

func (s *SQLiteStore) UpdateSurveyMeta(sv *api.Survey) error {
	_, err := s.db.Exec(
		`UPDATE surveys SET title_ar = ?, title_en = ?, description_ar = ?, description_en = ?, customer_type = ?, is_archived = ?
		 WHERE id = ?`,
		sv.TitleAr, sv.TitleEn, sv.DescriptionAr, sv.DescriptionEn, sv.CustomerType,
		boolToInt64(sv.IsArchived), sv.ID,
	)
	return err
}

func (s *SQLiteStore) ReplaceQuestions(surveyID string, qs []*api.Question) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer s.rollback(tx)

	if _, err := tx.Exec(`DELETE FROM questions WHERE survey_id = ?`, surveyID); err != nil {
		return err
	}
	if err := insertQuestionsTx(tx, qs); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLiteStore) AppendQuestions(surveyID string, qs []*api.Question) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer s.rollback(tx)

	if err := insertQuestionsTx(tx, qs); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLiteStore) SetArchived(id string, archived bool) (bool, error) {
	res, err := s.db.Exec(`UPDATE surveys SET is_archived = ? WHERE id = ?`, boolToInt64(archived), id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (s *SQLiteStore) DeleteSurvey(id string) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM surveys WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (s *SQLiteStore) ListSurveys(customerType, search string) ([]*api.Survey, error) {
	query := `SELECT s.id, s.title_ar, s.title_en, s.description_ar, s.description_en, s.customer_type, s.created_by, s.created_at, s.is_archived,
	                 COUNT(r.id) AS response_count
	          FROM surveys s LEFT JOIN responses r ON r.survey_id = s.id`
	var where []string
	var args []any
	if customerType != "" {
		where = append(where, "s.customer_type = ?")
		args = append(args, customerType)
	}
	if search != "" {
		where = append(where, "(s.title_ar LIKE ? OR s.title_en LIKE ?)")
		like := "%" + search + "%"
		args = append(args, like, like)
	}
	for i, cond := range where {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " GROUP BY s.id ORDER BY s.created_at DESC, s.id"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*api.Survey
	for rows.Next() {
		sv := &api.Survey{}
		var archived int64
		if err := rows.Scan(&sv.ID, &sv.TitleAr, &sv.TitleEn, &sv.DescriptionAr, &sv.DescriptionEn,
			&sv.CustomerType, &sv.CreatedBy, &sv.CreatedAt, &archived, &sv.ResponseCount); err != nil {
			return nil, err
		}
		sv.IsArchived = int64ToBool(archived)
		out = append(out, sv)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) CountResponses(surveyID string) (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM responses WHERE survey_id = ?`, surveyID).Scan(&n)
	return n, err
}

// --- responses ---

func (s *SQLiteStore) InsertResponse(r *api.Response) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer s.rollback(tx)

	_, err = tx.Exec(
		`INSERT INTO responses (id, survey_id, session_id, submitted_at, email, gender, age_range, education_level, nationality, hajj_number)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.SurveyID, r.SessionID, r.SubmittedAt,
		r.Email, r.Gender, r.AgeRange, r.EducationLevel, r.Nationality, r.HajjNumber,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return api.ErrDuplicateResponse
		}
		return err
	}
	for _, a := range r.Answers {
		_, err := tx.Exec(
			`INSERT INTO answers (id, response_id, question_id, value) VALUES (?, ?, ?, ?)`,
			a.ID, a.ResponseID, a.QuestionID, a.Value,
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) HasResponse(surveyID, sessionID string) (bool, error) {
	var n int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM responses WHERE survey_id = ? AND session_id = ?`, surveyID, sessionID,
	).Scan(&n)
	return n > 0, err
}

func (s *SQLiteStore) GetResponse(id string) (*api.Response, error) {
	row := s.db.QueryRow(
		`SELECT id, survey_id, session_id, submitted_at, email, gender, age_range, education_level, nationality, hajj_number
		 FROM responses WHERE id = ?`, id,
	)
	r := &api.Response{}
	if err := row.Scan(&r.ID, &r.SurveyID, &r.SessionID, &r.SubmittedAt,
		&r.Email, &r.Gender, &r.AgeRange, &r.EducationLevel, &r.Nationality, &r.HajjNumber); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	answers, err := s.listAnswers(`SELECT id, response_id, question_id, value FROM answers WHERE response_id = ?`, id)
	if err != nil {
		return nil, err
	}
	r.Answers = answers[r.ID]
	return r, nil
}

func (s *SQLiteStore) DeleteResponse(id string) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM responses WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (s *SQLiteStore) ListResponses(surveyID string) ([]*api.Response, error) {
	rows, err := s.db.Query(
		`SELECT id, survey_id, session_id, submitted_at, email, gender, age_range, education_level, nationality, hajj_number
		 FROM responses WHERE survey_id = ? ORDER BY submitted_at, id`, surveyID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*api.Response
	for rows.Next() {
		r := &api.Response{}
		if err := rows.Scan(&r.ID, &r.SurveyID, &r.SessionID, &r.SubmittedAt,
			&r.Email, &r.Gender, &r.AgeRange, &r.EducationLevel, &r.Nationality, &r.HajjNumber); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	answers, err := s.listAnswers(
		`SELECT a.id, a.response_id, a.question_id, a.value
		 FROM answers a JOIN responses r ON r.id = a.response_id
		 WHERE r.survey_id = ?`, surveyID,
	)
	if err != nil {
		return nil, err
	}
	for _, r := range out {
		r.Answers = answers[r.ID]
	}
	return out, nil
}

func (s *SQLiteStore) listAnswers(query string, args ...any) (map[string][]*api.Answer, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string][]*api.Answer{}
	for rows.Next() {
		a := &api.Answer{}
		if err := rows.Scan(&a.ID, &a.ResponseID, &a.QuestionID, &a.Value); err != nil {
			return nil, err
		}
		out[a.ResponseID] = append(out[a.ResponseID], a)
	}
	return out, rows.Err()
}

// --- audit ---

func (s *SQLiteStore) AddAudit(e api.AuditEntry) {
	_, err := s.db.Exec(
		`INSERT INTO audit_log (time, actor, action, target, note) VALUES (?, ?, ?, ?, ?)`,
		e.Time, e.Actor, e.Action, e.Target, e.Note,
	)
	if err != nil {
		s.log.Warnw("sqlite store: add audit", "err", err)
	}
}

func (s *SQLiteStore) ListAudit() ([]api.AuditEntry, error) {
	rows, err := s.db.Query(`SELECT time, actor, action, target, note FROM audit_log ORDER BY time DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []api.AuditEntry
	for rows.Next() {
		var e api.AuditEntry
		if err := rows.Scan(&e.Time, &e.Actor, &e.Action, &e.Target, &e.Note); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
