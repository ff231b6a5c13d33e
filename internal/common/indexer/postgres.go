package indexer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"regexp"

	"github.com/lib/pq"

	"github.com/project-tktt/jobscout/internal/domain"
)

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// PostgresIndexer stores jobs in PostgreSQL, one row per link
type PostgresIndexer struct {
	db        *sql.DB
	tableName string
}

// NewPostgresIndexer opens a connection pool and makes sure the table exists
func NewPostgresIndexer(connStr string, tableName string) (*PostgresIndexer, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("open postgres connection: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	indexer, err := NewPostgresIndexerWithDB(db, tableName)
	if err != nil {
		db.Close()
		return nil, err
	}
	return indexer, nil
}

// NewPostgresIndexerWithDB wraps an existing pool
func NewPostgresIndexerWithDB(db *sql.DB, tableName string) (*PostgresIndexer, error) {
	if !tableNamePattern.MatchString(tableName) {
		return nil, fmt.Errorf("invalid table name %q", tableName)
	}

	indexer := &PostgresIndexer{
		db:        db,
		tableName: pq.QuoteIdentifier(tableName),
	}

	if err := indexer.ensureTable(); err != nil {
		return nil, fmt.Errorf("ensure table: %w", err)
	}
	return indexer, nil
}

// ensureTable creates the jobs table if it doesn't exist
func (i *PostgresIndexer) ensureTable() error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id BIGSERIAL PRIMARY KEY,
			title TEXT NOT NULL,
			link TEXT NOT NULL UNIQUE,
			published_date TEXT,
			source TEXT NOT NULL,
			company TEXT,
			description TEXT,
			location TEXT,
			location_category TEXT,
			job_role TEXT,
			experience_level TEXT,
			scraped_at TIMESTAMP WITH TIME ZONE,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`, i.tableName)

	_, err := i.db.Exec(query)
	return err
}

// Upsert inserts new links and ignores links already stored, so fields
// curated in the database are never overwritten by a re-scrape.
// A failing row is logged and does not stop the batch.
func (i *PostgresIndexer) Upsert(ctx context.Context, jobs []*domain.Job) (UpsertResult, error) {
	res := UpsertResult{Sent: len(jobs)}
	if len(jobs) == 0 {
		return res, nil
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (
			title, link, published_date, source, company,
			description, location, location_category, job_role, experience_level,
			scraped_at
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9, $10,
			$11
		)
		ON CONFLICT (link) DO NOTHING
		RETURNING link
	`, i.tableName)

	stmt, err := i.db.PrepareContext(ctx, query)
	if err != nil {
		return res, fmt.Errorf("prepare statement: %w", err)
	}
	defer stmt.Close()

	var lastErr error
	for _, job := range jobs {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		var link string
		err := stmt.QueryRowContext(ctx,
			job.Title, job.Link, job.PublishedDate, job.Source, job.Company,
			job.Description, job.Location, job.LocationCategory, job.JobRole, job.ExperienceLevel,
			job.ScrapedAt,
		).Scan(&link)

		switch {
		case errors.Is(err, sql.ErrNoRows):
			// link already stored
		case err != nil:
			log.Printf("[Store] Error saving job %s: %v", job.Link, err)
			res.Failed++
			lastErr = err
		default:
			res.Inserted = append(res.Inserted, job)
		}
	}

	if res.Failed == res.Sent {
		return res, fmt.Errorf("all %d rows failed: %w", res.Sent, lastErr)
	}
	return res, nil
}

// Close closes the database connection
func (i *PostgresIndexer) Close() error {
	return i.db.Close()
}
