package postgres

import (
	"context"
	"fmt"

	"github.com/aryanchaturvedi13/Social-Media-Management/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const messageColumns = `m.id, m.sender_id, m.receiver_id, m.content, m.media_url, m.post_id, m.sent_at`

type MessageRepo struct {
	pool *pgxpool.Pool
}

func NewMessageRepo(pool *pgxpool.Pool) *MessageRepo {
	return &MessageRepo{pool: pool}
}

func scanMessage(row pgx.Row, m *domain.Message, extra ...any) error {
	dest := append([]any{&m.ID, &m.SenderID, &m.ReceiverID, &m.Content, &m.MediaURL, &m.PostID, &m.SentAt}, extra...)
	return row.Scan(dest...)
}

func (r *MessageRepo) Create(ctx context.Context, msg domain.NewMessage) (*domain.SentMessage, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var sent domain.SentMessage
	err = scanMessage(tx.QueryRow(ctx, `
		INSERT INTO messages AS m (id, sender_id, receiver_id, content, media_url, post_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+messageColumns,
		uuid.NewString(), msg.SenderID, msg.ReceiverID, msg.Content, msg.MediaURL, msg.PostID,
	), &sent.Message)
	switch {
	case isForeignKeyViolation(err, "messages_post_id_fkey"):
		return nil, domain.ErrPostNotFound
	case isForeignKeyViolation(err, ""):
		return nil, domain.ErrUserNotFound
	case err != nil:
		return nil, fmt.Errorf("failed to insert message: %w", err)
	}

	sender, err := getUserSummary(ctx, tx, msg.SenderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load sender: %w", err)
	}
	sent.Sender = *sender

	receiver, err := getUserSummary(ctx, tx, msg.ReceiverID)
	if err != nil {
		return nil, fmt.Errorf("failed to load receiver: %w", err)
	}
	sent.Receiver = *receiver

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit message: %w", err)
	}
	return &sent, nil
}

func (r *MessageRepo) ListForUser(ctx context.Context, userID string) ([]domain.ConversationMessage, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+messageColumns+`, p.id, p.username, p.avatar_url
		FROM messages m
		JOIN users p ON p.id = CASE WHEN m.sender_id = $1 THEN m.receiver_id ELSE m.sender_id END
		WHERE m.sender_id = $1 OR m.receiver_id = $1
		ORDER BY m.sent_at DESC, m.id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}

	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.ConversationMessage, error) {
		var cm domain.ConversationMessage
		err := scanMessage(row, &cm.Message, &cm.Partner.ID, &cm.Partner.Username, &cm.Partner.AvatarURL)
		return cm, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan conversations: %w", err)
	}
	return out, nil
}

func (r *MessageRepo) ListBetween(ctx context.Context, userID, partnerID string) ([]domain.Message, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+messageColumns+`
		FROM messages m
		WHERE (m.sender_id = $1 AND m.receiver_id = $2)
		   OR (m.sender_id = $2 AND m.receiver_id = $1)
		ORDER BY m.sent_at ASC, m.id ASC`, userID, partnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list thread: %w", err)
	}

	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Message, error) {
		var m domain.Message
		err := scanMessage(row, &m)
		return m, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan thread: %w", err)
	}
	return out, nil
}
