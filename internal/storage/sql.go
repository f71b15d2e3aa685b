package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"caserun/internal/domain"

	"github.com/go-sql-driver/mysql"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS caserun_runs (
		run_id VARCHAR(36) NOT NULL PRIMARY KEY,
		total INT NOT NULL,
		passed INT NOT NULL,
		failed INT NOT NULL,
		duration_seconds DOUBLE NOT NULL,
		created_at DATETIME(6) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS caserun_results (
		run_id VARCHAR(36) NOT NULL,
		position INT NOT NULL,
		name VARCHAR(255) NOT NULL,
		outcome VARCHAR(16) NOT NULL,
		reason TEXT NOT NULL,
		duration_ns BIGINT NOT NULL,
		resolved BOOLEAN NOT NULL DEFAULT FALSE,
		PRIMARY KEY (run_id, position)
	)`,
	`CREATE TABLE IF NOT EXISTS caserun_attachments (
		run_id VARCHAR(36) NOT NULL,
		position INT NOT NULL,
		name VARCHAR(255) NOT NULL,
		case_name VARCHAR(255) NOT NULL,
		media_type VARCHAR(128) NOT NULL,
		lifetime VARCHAR(32) NOT NULL,
		payload LONGBLOB,
		PRIMARY KEY (run_id, position)
	)`,
}

// SQLStorage stores runs in MySQL
type SQLStorage struct {
	db *sql.DB
}

// OpenSQL connects to the MySQL database named in dsn
func OpenSQL(dsn string) (*SQLStorage, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse database dsn: %w", err)
	}
	cfg.ParseTime = true

	db, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database server: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database server: %w", err)
	}
	return &SQLStorage{db: db}, nil
}

// EnsureDatabase creates the database named in dsn if it does not exist yet
func EnsureDatabase(ctx context.Context, dsn string) error {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return fmt.Errorf("parse database dsn: %w", err)
	}
	dbName := cfg.DBName
	if !isValidDatabaseName(dbName) {
		return fmt.Errorf("invalid database name: %q", dbName)
	}

	// Connect to the server without selecting the database
	cfg.DBName = ""
	db, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return fmt.Errorf("failed to connect to database server: %w", err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s`", dbName)); err != nil {
		return fmt.Errorf("create database %s: %w", dbName, err)
	}
	return nil
}

// Migrate creates the result tables
func (s *SQLStorage) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

// Close closes the database handle
func (s *SQLStorage) Close() error {
	return s.db.Close()
}

// Save inserts a run with its results and attachments in one transaction
func (s *SQLStorage) Save(output *domain.RunOutput, attachments []domain.Attachment) error {
	ctx := context.Background()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertRun(ctx, tx, output); err != nil {
		return err
	}
	for i, a := range attachments {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO caserun_attachments (run_id, position, name, case_name, media_type, lifetime, payload) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			output.Meta.RunID, i, a.Name, a.Case, a.MediaType, string(a.Lifetime), a.Payload)
		if err != nil {
			return fmt.Errorf("insert attachment %s: %w", a.Name, err)
		}
	}
	return tx.Commit()
}

// SaveOutput replaces the run row and its results, keeping stored attachments
func (s *SQLStorage) SaveOutput(output *domain.RunOutput) error {
	ctx := context.Background()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM caserun_results WHERE run_id = ?`, output.Meta.RunID); err != nil {
		return fmt.Errorf("delete results: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM caserun_runs WHERE run_id = ?`, output.Meta.RunID); err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	if err := insertRun(ctx, tx, output); err != nil {
		return err
	}
	return tx.Commit()
}

func insertRun(ctx context.Context, tx *sql.Tx, output *domain.RunOutput) error {
	createdAt, err := time.Parse(time.RFC3339, output.Meta.Timestamp)
	if err != nil {
		createdAt = time.Now()
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO caserun_runs (run_id, total, passed, failed, duration_seconds, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		output.Meta.RunID, output.Meta.Total, output.Meta.Passed, output.Meta.Failed, output.Meta.DurationSeconds, createdAt)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	resolved := resolvedNames(output.Failures)
	for i, r := range output.Results {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO caserun_results (run_id, position, name, outcome, reason, duration_ns, resolved) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			output.Meta.RunID, i, r.Name, string(r.Outcome), r.Reason, r.Duration.Nanoseconds(), resolved[r.Name])
		if err != nil {
			return fmt.Errorf("insert result %s: %w", r.Name, err)
		}
	}
	return nil
}

// Load reads the most recent run
func (s *SQLStorage) Load() (*domain.RunOutput, error) {
	ctx := context.Background()
	var (
		output    domain.RunOutput
		createdAt time.Time
	)
	row := s.db.QueryRowContext(ctx,
		`SELECT run_id, total, passed, failed, duration_seconds, created_at FROM caserun_runs ORDER BY created_at DESC LIMIT 1`)
	err := row.Scan(&output.Meta.RunID, &output.Meta.Total, &output.Meta.Passed, &output.Meta.Failed, &output.Meta.DurationSeconds, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.New("no stored runs")
	}
	if err != nil {
		return nil, fmt.Errorf("load run: %w", err)
	}
	output.Meta.Timestamp = createdAt.Format(time.RFC3339)
	output.Meta.Duration = time.Duration(output.Meta.DurationSeconds * float64(time.Second)).String()

	rows, err := s.db.QueryContext(ctx,
		`SELECT name, outcome, reason, duration_ns, resolved FROM caserun_results WHERE run_id = ? ORDER BY position`, output.Meta.RunID)
	if err != nil {
		return nil, fmt.Errorf("load results: %w", err)
	}
	defer rows.Close()

	output.Failures = []domain.Failure{}
	for rows.Next() {
		var (
			r        domain.TestResult
			outcome  string
			nanos    int64
			resolved bool
		)
		if err := rows.Scan(&r.Name, &outcome, &r.Reason, &nanos, &resolved); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		r.Outcome = domain.Outcome(outcome)
		r.Duration = time.Duration(nanos)
		output.Results = append(output.Results, r)
		if !r.Passed() {
			output.Failures = append(output.Failures, domain.Failure{Name: r.Name, Reason: r.Reason, Resolved: resolved})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load results: %w", err)
	}

	attRows, err := s.db.QueryContext(ctx,
		`SELECT name, case_name, media_type, lifetime, LENGTH(payload) FROM caserun_attachments WHERE run_id = ? ORDER BY position`, output.Meta.RunID)
	if err != nil {
		return nil, fmt.Errorf("load attachments: %w", err)
	}
	defer attRows.Close()
	for attRows.Next() {
		var (
			rec      domain.AttachmentRecord
			lifetime string
			size     sql.NullInt64
		)
		if err := attRows.Scan(&rec.Name, &rec.Case, &rec.MediaType, &lifetime, &size); err != nil {
			return nil, fmt.Errorf("scan attachment: %w", err)
		}
		rec.Lifetime = domain.Lifetime(lifetime)
		rec.Size = int(size.Int64)
		output.Attachments = append(output.Attachments, rec)
	}
	return &output, attRows.Err()
}

func resolvedNames(failures []domain.Failure) map[string]bool {
	m := make(map[string]bool, len(failures))
	for _, f := range failures {
		if f.Resolved {
			m[f.Name] = true
		}
	}
	return m
}

// isValidDatabaseName validates database name (basic check)
func isValidDatabaseName(name string) bool {
	if len(name) == 0 || len(name) > 64 {
		return false
	}
	invalidChars := []string{"'", "\"", "`", ";", "--", "/*", "*/", "DROP", "DELETE", "TRUNCATE"}
	upperName := strings.ToUpper(name)
	for _, char := range invalidChars {
		if strings.Contains(upperName, char) {
			return false
		}
	}
	return true
}
