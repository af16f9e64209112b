package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tradehub/internal/domain"
)

type MessageRepo struct {
	pool *pgxpool.Pool
}

func NewMessageRepo(pool *pgxpool.Pool) *MessageRepo {
	return &MessageRepo{pool: pool}
}

func (r *MessageRepo) Create(ctx context.Context, msg *domain.Message) error {
	query := `
		INSERT INTO messages (id, room, text, media, author_username, author_role, author_id, is_edited, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.pool.Exec(ctx, query,
		msg.ID, msg.Room, msg.Text, msg.Media,
		msg.AuthorUsername, msg.AuthorRole, msg.AuthorID, msg.IsEdited, msg.CreatedAt,
	)
	return err
}

func (r *MessageRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Message, error) {
	query := `
		SELECT id, room, text, media, author_username, author_role, author_id, is_edited, created_at
		FROM messages
		WHERE id = $1`
	var msg domain.Message
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&msg.ID, &msg.Room, &msg.Text, &msg.Media,
		&msg.AuthorUsername, &msg.AuthorRole, &msg.AuthorID, &msg.IsEdited, &msg.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

func (r *MessageRepo) ListByRoom(ctx context.Context, room domain.Room, limit int) ([]domain.Message, error) {
	query := fmt.Sprintf(`
		SELECT id, room, text, media, author_username, author_role, author_id, is_edited, created_at
		FROM messages
		WHERE room = $1
		ORDER BY created_at ASC
		LIMIT %d`, limit)

	rows, err := r.pool.Query(ctx, query, room)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var msg domain.Message
		if err := rows.Scan(
			&msg.ID, &msg.Room, &msg.Text, &msg.Media,
			&msg.AuthorUsername, &msg.AuthorRole, &msg.AuthorID, &msg.IsEdited, &msg.CreatedAt,
		); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}

	return messages, rows.Err()
}

func (r *MessageRepo) Update(ctx context.Context, msg *domain.Message) error {
	query := `UPDATE messages SET text = $1, is_edited = $2 WHERE id = $3`
	_, err := r.pool.Exec(ctx, query, msg.Text, msg.IsEdited, msg.ID)
	return err
}

func (r *MessageRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM messages WHERE id = $1`, id)
	return err
}
