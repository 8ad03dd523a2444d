package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/godruoyi/go-snowflake"
	_ "github.com/lib/pq"
)

var ErrNotFound = errors.New("not found")

type Repository interface {
	CreateUser(ctx context.Context, login, email, password string) (int, error)
	GetBylogin(ctx context.Context, login string) (int, string, error)
	SaveAnalysis(ctx context.Context, a Analysis) (Analysis, error)
	ListAnalyses(ctx context.Context, userID, limit int) ([]Analysis, error)
	GetAnalysis(ctx context.Context, userID int, id uint64) (Analysis, error)
}

// Analysis is a saved beam configuration with the headline numbers of its
// last run. Input is the beam request exactly as the client sent it.
type Analysis struct {
	ID              uint64          `json:"id,string"`
	UserID          int             `json:"user_id"`
	Title           string          `json:"title"`
	Support         string          `json:"support"`
	Input           json.RawMessage `json:"input"`
	MaxMomentKNM    float64         `json:"max_moment_knm"`
	MaxShearKN      float64         `json:"max_shear_kn"`
	MaxDeflectionMM float64         `json:"max_deflection_mm"`
	CreatedAt       time.Time       `json:"created_at"`
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id SERIAL PRIMARY KEY,
	login TEXT UNIQUE NOT NULL,
	email TEXT UNIQUE NOT NULL,
	password TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS analyses (
	id BIGINT PRIMARY KEY,
	user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	title TEXT NOT NULL DEFAULT '',
	support TEXT NOT NULL,
	input JSONB NOT NULL,
	max_moment_knm DOUBLE PRECISION NOT NULL,
	max_shear_kn DOUBLE PRECISION NOT NULL,
	max_deflection_mm DOUBLE PRECISION NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS analyses_user_created ON analyses (user_id, created_at DESC);
`

// Open connects to Postgres and checks the connection.
func Open(ctx context.Context, connStr string) (*sql.DB, error) {
	connStr = normalizeDSN(connStr)
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err = db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// normalizeDSN appends sslmode=require when the DSN does not choose a mode.
func normalizeDSN(connStr string) string {
	if connStr == "" {
		return "user=postgres dbname=postgres password=password sslmode=disable"
	}
	if strings.Contains(connStr, "sslmode=") {
		return connStr
	}
	if strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://") {
		if strings.Contains(connStr, "?") {
			return connStr + "&sslmode=require"
		}
		return connStr + "?sslmode=require"
	}
	return connStr + " sslmode=require"
}

type PostgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserDB(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) Migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, schema)
	return err
}

func (r *PostgresUserRepository) CreateUser(ctx context.Context, login, email, password string) (int, error) {
	var id int
	query := "INSERT INTO users (login, email, password) VALUES ($1, $2, $3) RETURNING id"
	err := r.db.QueryRowContext(ctx, query, login, email, password).Scan(&id)
	return id, err
}

func (r *PostgresUserRepository) GetBylogin(ctx context.Context, login string) (int, string, error) {
	var id int
	var hash string

	query := "SELECT id, password FROM users WHERE login=$1"

	err := r.db.QueryRowContext(ctx, query, login).Scan(&id, &hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, "", ErrNotFound
		}
		return 0, "", err
	}
	return id, hash, nil
}

func (r *PostgresUserRepository) SaveAnalysis(ctx context.Context, a Analysis) (Analysis, error) {
	if a.ID == 0 {
		a.ID = snowflake.ID()
	}
	query := `INSERT INTO analyses (id, user_id, title, support, input, max_moment_knm, max_shear_kn, max_deflection_mm)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING created_at`
	err := r.db.QueryRowContext(ctx, query, int64(a.ID), a.UserID, a.Title, a.Support, string(a.Input),
		a.MaxMomentKNM, a.MaxShearKN, a.MaxDeflectionMM).Scan(&a.CreatedAt)
	return a, err
}

func (r *PostgresUserRepository) ListAnalyses(ctx context.Context, userID, limit int) ([]Analysis, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	query := `SELECT id, user_id, title, support, input, max_moment_knm, max_shear_kn, max_deflection_mm, created_at
		FROM analyses WHERE user_id=$1 ORDER BY created_at DESC LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Analysis
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *PostgresUserRepository) GetAnalysis(ctx context.Context, userID int, id uint64) (Analysis, error) {
	query := `SELECT id, user_id, title, support, input, max_moment_knm, max_shear_kn, max_deflection_mm, created_at
		FROM analyses WHERE user_id=$1 AND id=$2`
	a, err := scanAnalysis(r.db.QueryRowContext(ctx, query, userID, int64(id)))
	if errors.Is(err, sql.ErrNoRows) {
		return Analysis{}, ErrNotFound
	}
	return a, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(s scanner) (Analysis, error) {
	var a Analysis
	var id int64
	var input []byte
	err := s.Scan(&id, &a.UserID, &a.Title, &a.Support, &input, &a.MaxMomentKNM, &a.MaxShearKN, &a.MaxDeflectionMM, &a.CreatedAt)
	if err != nil {
		return Analysis{}, err
	}
	a.ID = uint64(id)
	a.Input = json.RawMessage(input)
	return a, nil
}
