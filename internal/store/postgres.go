package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/ahmetcoskunkizilkaya/portfolio-backend/internal/models"
)

const documentRowID = 1

const upsertDocumentSQL = `INSERT INTO content_documents (id, body, updated_at) VALUES (?, ?, ?)
ON CONFLICT (id) DO UPDATE SET body = EXCLUDED.body, updated_at = EXCLUDED.updated_at`

// PostgresBackend stores the document as a single jsonb row.
type PostgresBackend struct {
	db *gorm.DB
}

func NewPostgresBackend(db *gorm.DB) *PostgresBackend {
	return &PostgresBackend{db: db}
}

func (p *PostgresBackend) Name() string { return "postgres" }

func (p *PostgresBackend) Read(ctx context.Context) (*models.Document, error) {
	var row models.ContentDocument
	err := p.db.WithContext(ctx).First(&row, documentRowID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewDocument(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("query content document: %w", err)
	}

	var doc models.Document
	if err := json.Unmarshal(row.Body, &doc); err != nil {
		return nil, fmt.Errorf("decode content document: %w", err)
	}
	doc.Normalize()
	return &doc, nil
}

func (p *PostgresBackend) Write(ctx context.Context, doc *models.Document) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	err = p.db.WithContext(ctx).
		Exec(upsertDocumentSQL, documentRowID, datatypes.JSON(body), time.Now().UTC()).
		Error
	if err != nil {
		return fmt.Errorf("upsert content document: %w", err)
	}
	return nil
}

func (p *PostgresBackend) Ping(ctx context.Context) error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
