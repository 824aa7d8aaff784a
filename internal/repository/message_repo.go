package repository

import (
	"Courier/internal/model"
	"Courier/internal/pkg/cassandra"
	"context"

	"github.com/gocql/gocql"
)

const (
	selectMessagesCQL       = `SELECT message_id, content, message_type, sender_id, sender_type, is_deleted FROM message WHERE conversation_id = ?`
	selectMessagesBeforeCQL = selectMessagesCQL + ` AND message_id < ?`

	selectAcksCQL = `SELECT message_id, COUNT(is_delivered) AS delivered_count, COUNT(is_seen) AS seen_count
		FROM message_acknowledgement_status WHERE conversation_id = ? AND message_id IN ? GROUP BY message_id`
)

type MessageRepo interface {
	ListMessages(ctx context.Context, convID gocql.UUID, pageSize int, pageState []byte, before *gocql.UUID) ([]*model.Message, []byte, error)
	GetAcknowledgements(ctx context.Context, convID gocql.UUID, messageIDs []gocql.UUID) (map[string]*model.MessageAck, error)
}

type messageRepoImpl struct {
	session cassandra.Session
}

func NewMessageRepo(session cassandra.Session) MessageRepo {
	return &messageRepoImpl{session: session}
}

// ListMessages 按 message_id 倒序取一页消息；before 不为空时只取更早的消息
func (s *messageRepoImpl) ListMessages(ctx context.Context, convID gocql.UUID, pageSize int, pageState []byte, before *gocql.UUID) ([]*model.Message, []byte, error) {
	query := selectMessagesCQL
	args := []interface{}{convID}
	if before != nil {
		query = selectMessagesBeforeCQL
		args = append(args, *before)
	}

	rows, err := s.session.Execute(ctx, query, args, &cassandra.QueryOptions{PageSize: pageSize, PageState: pageState})
	if err != nil {
		return nil, nil, err
	}

	messages := make([]*model.Message, 0, rows.Len())
	for _, row := range rows.Rows {
		id := cassandra.UUID(row, "message_id")
		messages = append(messages, &model.Message{
			MessageID:   id,
			MessageTime: id.Time(),
			Content:     cassandra.String(row, "content"),
			MessageType: cassandra.String(row, "message_type"),
			SenderID:    cassandra.UUID(row, "sender_id"),
			SenderType:  cassandra.String(row, "sender_type"),
			IsDeleted:   cassandra.Bool(row, "is_deleted"),
		})
	}
	return messages, rows.PageState, nil
}

// GetAcknowledgements 按消息聚合送达/已读数，没有回执的消息不出现在结果中
func (s *messageRepoImpl) GetAcknowledgements(ctx context.Context, convID gocql.UUID, messageIDs []gocql.UUID) (map[string]*model.MessageAck, error) {
	res := make(map[string]*model.MessageAck)
	if len(messageIDs) == 0 {
		return res, nil
	}

	rows, err := s.session.Execute(ctx, selectAcksCQL, []interface{}{convID, messageIDs}, nil)
	if err != nil {
		return nil, err
	}
	for _, row := range rows.Rows {
		id := cassandra.UUID(row, "message_id")
		res[id.String()] = &model.MessageAck{
			MessageID:      id,
			DeliveredCount: cassandra.Int64(row, "delivered_count"),
			SeenCount:      cassandra.Int64(row, "seen_count"),
		}
	}
	return res, nil
}
