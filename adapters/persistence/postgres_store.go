package persistence

import (
	"context"
	"encoding/json"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/khoahotran/portfolio/internal/domain/content"
	"github.com/khoahotran/portfolio/pkg/apperror"
	"github.com/khoahotran/portfolio/pkg/logger"
)

// PostgresStore keeps every collection in one JSONB table keyed by
// (collection, id). See migrations/000001_create_documents.up.sql.
type PostgresStore struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresStore(db *pgxpool.Pool, logger logger.Logger) *PostgresStore {
	return &PostgresStore{db: db, logger: logger}
}

var psqlDocument = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const documentsTable = "documents"

func scanDocument(row pgx.Row, l logger.Logger) (content.Document, error) {
	var d content.Document
	var dataBytes []byte

	if err := row.Scan(&d.Collection, &d.ID, &dataBytes); err != nil {
		return d, err
	}
	if err := json.Unmarshal(dataBytes, &d.Data); err != nil {
		l.Warn("Failed to unmarshal document data", zap.String("path", d.Path()), zap.Error(err))
		d.Data = content.Record{}
	}
	return d, nil
}

func (r *PostgresStore) ListDocuments(ctx context.Context, collection string) ([]content.Document, error) {
	sql, args, err := psqlDocument.Select("collection", "id", "data").
		From(documentsTable).
		Where(sq.Eq{"collection": collection}).
		OrderBy("created_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build list documents query", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, apperror.NewInternal("failed to query documents", err)
	}
	defer rows.Close()

	docs := make([]content.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows, r.logger)
		if err != nil {
			return nil, apperror.NewInternal("failed to scan document row", err)
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewInternal("error iterating document rows", err)
	}
	return docs, nil
}

func (r *PostgresStore) GetDocument(ctx context.Context, collection, id string) (content.Document, error) {
	sql, args, err := psqlDocument.Select("collection", "id", "data").
		From(documentsTable).
		Where(sq.Eq{"collection": collection, "id": id}).
		ToSql()
	if err != nil {
		return content.Document{}, apperror.NewInternal("failed to build get document query", err)
	}

	d, err := scanDocument(r.db.QueryRow(ctx, sql, args...), r.logger)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return content.Document{}, apperror.NewNotFound("document", collection+"/"+id)
		}
		return content.Document{}, apperror.NewInternal("failed to get document", err)
	}
	return d, nil
}

func (r *PostgresStore) DeleteDocument(ctx context.Context, doc content.Document) error {
	sql, args, err := psqlDocument.Delete(documentsTable).
		Where(sq.Eq{"collection": doc.Collection, "id": doc.ID}).
		ToSql()
	if err != nil {
		return apperror.NewInternal("failed to build delete document query", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return apperror.NewInternal("failed to delete document", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("document", doc.Path())
	}
	return nil
}

func (r *PostgresStore) InsertDocument(ctx context.Context, collection string, record content.Record) (content.Document, error) {
	dataBytes, err := json.Marshal(record)
	if err != nil {
		return content.Document{}, apperror.NewInvalidInput("record is not JSON encodable", err)
	}

	doc := content.Document{Collection: collection, ID: uuid.NewString(), Data: record}
	sql, args, err := psqlDocument.Insert(documentsTable).
		Columns("collection", "id", "data").
		Values(doc.Collection, doc.ID, dataBytes).
		ToSql()
	if err != nil {
		return content.Document{}, apperror.NewInternal("failed to build insert document query", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return content.Document{}, apperror.NewInternal("failed to insert document", err)
	}
	return doc, nil
}

func (r *PostgresStore) PutNamedDocument(ctx context.Context, path string, record content.Record) error {
	collection, id, err := content.SplitPath(path)
	if err != nil {
		return apperror.NewInvalidInput(err.Error(), err)
	}
	dataBytes, err := json.Marshal(record)
	if err != nil {
		return apperror.NewInvalidInput("record is not JSON encodable", err)
	}

	sql, args, err := psqlDocument.Insert(documentsTable).
		Columns("collection", "id", "data").
		Values(collection, id, dataBytes).
		Suffix("ON CONFLICT (collection, id) DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()").
		ToSql()
	if err != nil {
		return apperror.NewInternal("failed to build upsert document query", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return apperror.NewInternal("failed to upsert document", err)
	}
	return nil
}
