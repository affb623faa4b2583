package history

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/kartoza/mof-predictor/internal/models"
	_ "github.com/mattn/go-sqlite3"
)

// DefaultLimit and MaxLimit bound List
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// ErrNotFound is returned by Get for an unknown record ID
var ErrNotFound = errors.New("prediction not found")

const schema = `CREATE TABLE IF NOT EXISTS predictions (
	id TEXT PRIMARY KEY,
	filename TEXT NOT NULL,
	file_size INTEGER NOT NULL,
	h INTEGER NOT NULL,
	k INTEGER NOT NULL,
	l INTEGER NOT NULL,
	youngs_modulus REAL NOT NULL,
	shap_json TEXT NOT NULL,
	created_at TEXT NOT NULL
)`

// Store persists completed predictions in a SQLite database
type Store struct {
	db *sql.DB
}

// Open opens or creates the history database at path
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	if path == ":memory:" {
		// every pooled connection would otherwise see its own empty database
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create history schema: %w", err)
	}

	log.Printf("Prediction history: %s", path)
	return &Store{db: db}, nil
}

// Record appends a completed prediction
func (s *Store) Record(filename string, fileSize int64, resp *models.PredictResponse) error {
	_, err := s.Add(&models.PredictionRecord{
		Filename:      filename,
		FileSize:      fileSize,
		MillerIndices: resp.MillerIndices,
		YoungsModulus: resp.YoungsModulus,
		ShapValues:    resp.ShapValues,
	})
	return err
}

// Add stores a record, assigning its ID and creation time
func (s *Store) Add(rec *models.PredictionRecord) (*models.PredictionRecord, error) {
	shapJSON, err := json.Marshal(rec.ShapValues)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal shap values: %w", err)
	}

	rec.ID = uuid.New().String()
	rec.CreatedAt = time.Now().UTC().Format(time.RFC3339)

	_, err = s.db.Exec(
		`INSERT INTO predictions (id, filename, file_size, h, k, l, youngs_modulus, shap_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Filename, rec.FileSize,
		rec.MillerIndices.H, rec.MillerIndices.K, rec.MillerIndices.L,
		rec.YoungsModulus, string(shapJSON), rec.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert prediction: %w", err)
	}

	return rec, nil
}

// List returns up to limit records, newest first. Non-positive limits use
// DefaultLimit and larger ones are capped at MaxLimit.
func (s *Store) List(limit int) ([]*models.PredictionRecord, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	rows, err := s.db.Query(
		`SELECT id, filename, file_size, h, k, l, youngs_modulus, shap_json, created_at
		 FROM predictions ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query predictions: %w", err)
	}
	defer rows.Close()

	records := make([]*models.PredictionRecord, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Get returns the record with the given ID
func (s *Store) Get(id string) (*models.PredictionRecord, error) {
	row := s.db.QueryRow(
		`SELECT id, filename, file_size, h, k, l, youngs_modulus, shap_json, created_at
		 FROM predictions WHERE id = ?`, id)

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return rec, err
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(sc scanner) (*models.PredictionRecord, error) {
	var rec models.PredictionRecord
	var shapJSON string

	err := sc.Scan(
		&rec.ID, &rec.Filename, &rec.FileSize,
		&rec.MillerIndices.H, &rec.MillerIndices.K, &rec.MillerIndices.L,
		&rec.YoungsModulus, &shapJSON, &rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan prediction: %w", err)
	}

	if err := json.Unmarshal([]byte(shapJSON), &rec.ShapValues); err != nil {
		return nil, fmt.Errorf("failed to parse shap values: %w", err)
	}
	return &rec, nil
}
