package repository

import (
	"Courier/internal/pkg/cassandra"
	"context"

	"github.com/gocql/gocql"
)

const (
	selectUnreadCQL    = `SELECT conversation_id, unread FROM unread_count WHERE conversation_id = ? AND user_id = ?`
	decrementUnreadCQL = `UPDATE unread_count SET unread = unread - ? WHERE conversation_id = ? AND user_id = ?`
)

type UnreadRepo interface {
	GetUnread(ctx context.Context, convID, userID gocql.UUID) (int64, error)
	Decrement(ctx context.Context, convID, userID gocql.UUID, delta int64) error
}

type unreadRepoImpl struct {
	session cassandra.Session
}

func NewUnreadRepo(session cassandra.Session) UnreadRepo {
	return &unreadRepoImpl{session: session}
}

// GetUnread 没有计数行时视为 0
func (s *unreadRepoImpl) GetUnread(ctx context.Context, convID, userID gocql.UUID) (int64, error) {
	rows, err := s.session.Execute(ctx, selectUnreadCQL, []interface{}{convID, userID}, nil)
	if err != nil {
		return 0, err
	}
	if rows.Len() == 0 {
		return 0, nil
	}
	return cassandra.Int64(rows.First(), "unread"), nil
}

// Decrement counter 列只能做相对更新，并发到达的新消息计数不会被覆盖
func (s *unreadRepoImpl) Decrement(ctx context.Context, convID, userID gocql.UUID, delta int64) error {
	_, err := s.session.Execute(ctx, decrementUnreadCQL, []interface{}{delta, convID, userID}, nil)
	return err
}
