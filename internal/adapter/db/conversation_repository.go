package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"taskpilot/internal/core/domain"
	"taskpilot/internal/core/ports"
)

type ConversationRepository struct {
	db *sqlx.DB
}

var _ ports.ConversationRepository = (*ConversationRepository)(nil)

func NewConversationRepository(db *sqlx.DB) *ConversationRepository {
	return &ConversationRepository{db: db}
}

type conversationRow struct {
	ID        string         `db:"id"`
	UserID    string         `db:"user_id"`
	Title     sql.NullString `db:"title"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}

type messageRow struct {
	ID             uint64         `db:"id"`
	ConversationID string         `db:"conversation_id"`
	Role           string         `db:"role"`
	Content        string         `db:"content"`
	ToolCalls      sql.NullString `db:"tool_calls"`
	CreatedAt      time.Time      `db:"created_at"`
}

func (r *ConversationRepository) Create(ctx context.Context, userID string, title *string) (domain.Conversation, error) {
	now := time.Now().UTC()
	conv := domain.Conversation{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO conversations (id, user_id, title, created_at, updated_at) VALUES (?, ?, ?, ?, ?);`,
		conv.ID, conv.UserID, nullString(title), now, now,
	)
	if err != nil {
		return domain.Conversation{}, err
	}
	return conv, nil
}

func (r *ConversationRepository) GetByID(ctx context.Context, conversationID string) (domain.Conversation, error) {
	var row conversationRow
	err := r.db.GetContext(ctx, &row, `SELECT * FROM conversations WHERE id = ?;`, conversationID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Conversation{}, domain.ErrConversationNotFound
	}
	if err != nil {
		return domain.Conversation{}, err
	}
	return mapConversationRow(row), nil
}

func (r *ConversationRepository) List(ctx context.Context, userID string, limit int) ([]domain.Conversation, error) {
	var rows []conversationRow
	err := r.db.SelectContext(ctx, &rows,
		`SELECT * FROM conversations WHERE user_id = ? ORDER BY updated_at DESC LIMIT ?;`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}

	conversations := make([]domain.Conversation, 0, len(rows))
	for _, row := range rows {
		conversations = append(conversations, mapConversationRow(row))
	}
	return conversations, nil
}

func (r *ConversationRepository) Delete(ctx context.Context, conversationID string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Messages reference the conversation; remove them first.
	if _, err := tx.ExecContext(ctx, `DELETE FROM messages WHERE conversation_id = ?;`, conversationID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM conversations WHERE id = ?;`, conversationID); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *ConversationRepository) AddMessage(ctx context.Context, conversationID string, role domain.MessageRole, content string, toolCalls *string) (domain.Message, error) {
	now := time.Now().UTC()
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.Message{}, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO messages (conversation_id, role, content, tool_calls, created_at) VALUES (?, ?, ?, ?, ?);`,
		conversationID, string(role), content, nullString(toolCalls), now,
	)
	if err != nil {
		return domain.Message{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Message{}, err
	}

	// Keep the conversation sorted by recency in listings.
	if _, err := tx.ExecContext(ctx, `UPDATE conversations SET updated_at = ? WHERE id = ?;`, now, conversationID); err != nil {
		return domain.Message{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Message{}, err
	}

	return domain.Message{
		ID:             uint64(id),
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
		ToolCalls:      toolCalls,
		CreatedAt:      now,
	}, nil
}

func (r *ConversationRepository) ListMessages(ctx context.Context, conversationID string, limit int) ([]domain.Message, error) {
	var rows []messageRow
	err := r.db.SelectContext(ctx, &rows,
		`SELECT * FROM messages WHERE conversation_id = ? ORDER BY created_at ASC, id ASC LIMIT ?;`,
		conversationID, limit,
	)
	if err != nil {
		return nil, err
	}

	messages := make([]domain.Message, 0, len(rows))
	for _, row := range rows {
		msg := domain.Message{
			ID:             row.ID,
			ConversationID: row.ConversationID,
			Role:           domain.MessageRole(row.Role),
			Content:        row.Content,
			CreatedAt:      row.CreatedAt,
		}
		if row.ToolCalls.Valid {
			value := row.ToolCalls.String
			msg.ToolCalls = &value
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

func mapConversationRow(row conversationRow) domain.Conversation {
	conv := domain.Conversation{
		ID:        row.ID,
		UserID:    row.UserID,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
	if row.Title.Valid {
		value := row.Title.String
		conv.Title = &value
	}
	return conv
}

func nullString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
