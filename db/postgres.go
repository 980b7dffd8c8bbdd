package db

import (
	"context"
	"database/sql"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"todo-api/models"
)

var todoColumns = []string{"todo_id", "user_id", "name", "due_date", "done", "created_at", "attachment_url"}

// PostgresStore keeps todos in a single table keyed by todo_id, with an
// index on user_id for per-user listing.
type PostgresStore struct {
	db    *sqlx.DB
	table string
	psql  sq.StatementBuilderType
}

func NewPostgresStore(db *sqlx.DB, table string) *PostgresStore {
	return &PostgresStore{
		db:    db,
		table: table,
		psql:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (s *PostgresStore) Create(ctx context.Context, item models.TodoItem) error {
	query, args, err := s.psql.Insert(s.table).
		Columns(todoColumns...).
		Values(item.TodoID, item.UserID, item.Name, item.DueDate, item.Done, item.CreatedAt, item.AttachmentURL).
		ToSql()
	if err != nil {
		return models.NewStorageError("create", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return models.NewStorageError("create", err)
	}
	return nil
}

func (s *PostgresStore) GetByID(ctx context.Context, todoID string) (models.TodoItem, bool, error) {
	query, args, err := s.psql.Select(todoColumns...).
		From(s.table).
		Where(sq.Eq{"todo_id": todoID}).
		ToSql()
	if err != nil {
		return models.TodoItem{}, false, models.NewStorageError("get", err)
	}

	var item models.TodoItem
	if err := s.db.GetContext(ctx, &item, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.TodoItem{}, false, nil
		}
		return models.TodoItem{}, false, models.NewStorageError("get", err)
	}
	return item, true, nil
}

func (s *PostgresStore) ListByUser(ctx context.Context, userID string) ([]models.TodoItem, error) {
	query, args, err := s.psql.Select(todoColumns...).
		From(s.table).
		Where(sq.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return nil, models.NewStorageError("list", err)
	}

	items := []models.TodoItem{}
	if err := s.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, models.NewStorageError("list", err)
	}
	return items, nil
}

func (s *PostgresStore) Update(ctx context.Context, todoID string, update models.TodoUpdate) error {
	query, args, err := s.psql.Update(s.table).
		Set("name", update.Name).
		Set("due_date", update.DueDate).
		Set("done", update.Done).
		Where(sq.Eq{"todo_id": todoID}).
		ToSql()
	if err != nil {
		return models.NewStorageError("update", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return models.NewStorageError("update", err)
	}
	return nil
}

func (s *PostgresStore) UpdateAttachmentURL(ctx context.Context, todoID, url string) error {
	query, args, err := s.psql.Update(s.table).
		Set("attachment_url", url).
		Where(sq.Eq{"todo_id": todoID}).
		ToSql()
	if err != nil {
		return models.NewStorageError("update attachment", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return models.NewStorageError("update attachment", err)
	}
	return nil
}

// Delete removes the row. Zero rows affected is not an error.
func (s *PostgresStore) Delete(ctx context.Context, todoID string) error {
	query, args, err := s.psql.Delete(s.table).
		Where(sq.Eq{"todo_id": todoID}).
		ToSql()
	if err != nil {
		return models.NewStorageError("delete", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return models.NewStorageError("delete", err)
	}
	return nil
}
