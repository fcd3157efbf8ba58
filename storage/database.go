package storage

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	_ "github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/nanotronics/survey-server/log"
	"github.com/nanotronics/survey-server/model"
)

type databaseStore struct {
	db       *sql.DB
	fallback *fileStore
}

func openDatabase(url string) (db *sql.DB, err error) {
	db, err = sql.Open("postgres", url)
	if err != nil {
		return nil, errors.Wrap(err, "db.open")
	}

	// db tuning options
	db.SetMaxOpenConns(15)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err = db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "db.ping")
	}

	if err = migrateDB(db); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "db.migrate")
	}

	return db, nil
}

func (s *databaseStore) Kind() string {
	return KindDatabase
}

// Save inserts the record inside a transaction. On any failure the
// transaction rolls back and the save is re-attempted on the file
// store, so the submission is never dropped.
func (s *databaseStore) Save(ctx context.Context, rec *model.SurveyResponse) (string, error) {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	id, err := s.insert(ctx, rec)
	if err != nil {
		log.Errorf("storage.db.save: %s, falling back to file", err)
		return s.fallback.Save(ctx, rec)
	}

	rec.ID = id
	return strconv.FormatInt(id, 10), nil
}

func (s *databaseStore) insert(ctx context.Context, rec *model.SurveyResponse) (id int64, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, errors.Wrap(err, "begin_tx")
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO survey_responses (
			created_at, client_timestamp, client_ip, user_agent,
			q1_time_known,
			q2_first_thought, q2_tags,
			q3_experience,
			q4_likes, q4_why,
			q5_improvements, q5_comment,
			q6_staff_rating,
			q7_products_updated, q7_comment,
			q8_desired_products, q8_other,
			q9_brand_personality, q9_tags,
			q10_trust, q10_comment,
			q11_communicate, q11_other,
			raw_data
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
			$13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24
		)
		RETURNING id`,
		rec.CreatedAt,
		nullString(rec.ClientTimestamp),
		nullString(rec.ClientIP),
		nullString(rec.UserAgent),
		nullString(rec.Q1TimeKnown),
		nullString(rec.Q2FirstThought),
		nullString(rec.Q2Tags),
		nullString(rec.Q3Experience),
		nullString(rec.Q4Likes),
		nullString(rec.Q4Why),
		nullString(rec.Q5Improvements),
		nullString(rec.Q5Comment),
		nullInt(rec.Q6StaffRating),
		nullInt(rec.Q7ProductsUpdated),
		nullString(rec.Q7Comment),
		nullString(rec.Q8DesiredProducts),
		nullString(rec.Q8Other),
		nullString(rec.Q9BrandPersonality),
		nullString(rec.Q9Tags),
		nullInt(rec.Q10Trust),
		nullString(rec.Q10Comment),
		nullString(rec.Q11Communicate),
		nullString(rec.Q11Other),
		nullString(rec.RawData),
	).Scan(&id)
	if err != nil {
		return 0, errors.Wrap(err, "insert")
	}

	if err = tx.Commit(); err != nil {
		return 0, errors.Wrap(err, "commit")
	}
	return id, nil
}

func (s *databaseStore) List(ctx context.Context) ([]map[string]any, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT
			id, created_at,
			COALESCE(client_timestamp, ''), COALESCE(client_ip, ''), COALESCE(user_agent, ''),
			COALESCE(q1_time_known, ''),
			COALESCE(q2_first_thought, ''), COALESCE(q2_tags, ''),
			COALESCE(q3_experience, ''),
			COALESCE(q4_likes, ''), COALESCE(q4_why, ''),
			COALESCE(q5_improvements, ''), COALESCE(q5_comment, ''),
			q6_staff_rating,
			q7_products_updated, COALESCE(q7_comment, ''),
			COALESCE(q8_desired_products, ''), COALESCE(q8_other, ''),
			COALESCE(q9_brand_personality, ''), COALESCE(q9_tags, ''),
			q10_trust, COALESCE(q10_comment, ''),
			COALESCE(q11_communicate, ''), COALESCE(q11_other, '')
		FROM survey_responses
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, errors.Wrap(err, "query")
	}
	defer rows.Close()

	responses := []map[string]any{}
	for rows.Next() {
		var rec model.SurveyResponse
		var q6, q7Slider, q10Trust sql.NullInt64

		err = rows.Scan(
			&rec.ID, &rec.CreatedAt,
			&rec.ClientTimestamp, &rec.ClientIP, &rec.UserAgent,
			&rec.Q1TimeKnown,
			&rec.Q2FirstThought, &rec.Q2Tags,
			&rec.Q3Experience,
			&rec.Q4Likes, &rec.Q4Why,
			&rec.Q5Improvements, &rec.Q5Comment,
			&q6,
			&q7Slider, &rec.Q7Comment,
			&rec.Q8DesiredProducts, &rec.Q8Other,
			&rec.Q9BrandPersonality, &rec.Q9Tags,
			&q10Trust, &rec.Q10Comment,
			&rec.Q11Communicate, &rec.Q11Other,
		)
		if err != nil {
			return nil, errors.Wrap(err, "scan")
		}

		rec.Q6StaffRating = intPtr(q6)
		rec.Q7ProductsUpdated = intPtr(q7Slider)
		rec.Q10Trust = intPtr(q10Trust)

		responses = append(responses, rec.ToMap())
	}
	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(err, "rows")
	}

	return responses, nil
}

func (s *databaseStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *databaseStore) Close() error {
	return s.db.Close()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(i *int64) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *i, Valid: true}
}

func intPtr(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	return &n.Int64
}
