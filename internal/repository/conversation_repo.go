package repository

import (
	"Courier/internal/model"
	"Courier/internal/pkg/cassandra"
	"Courier/internal/pkg/consts"
	"context"

	"github.com/gocql/gocql"
)

const (
	conversationColumns = "conversation_id, user_id, conversation_type, conversation_user_type, other_user_id, is_blocked, " +
		"last_message_id, last_message_content, last_message_sender_id, last_message_type"

	selectChannelIDByOwnerCQL = `SELECT conversation_id FROM conversations_by_time WHERE user_id = ? AND conversation_type = ?`
	selectChannelByOwnerCQL   = `SELECT ` + conversationColumns + ` FROM conversations_by_time WHERE user_id = ? AND conversation_type = ?`
	claimDefaultChannelCQL    = `INSERT INTO sp_default_channels (user_id, conversation_id) VALUES (?, ?) IF NOT EXISTS`

	insertChannelCQL = `INSERT INTO conversations (conversation_id, user_id, conversation_type, conversation_user_type,
		last_message_id, last_message_content, last_message_sender_id, last_message_type) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	selectByPairCQL = `SELECT ` + conversationColumns + ` FROM conversation_by_pairs WHERE user_id = ? AND other_user_id = ?`

	insertPairRowCQL = `INSERT INTO conversations (conversation_id, user_id, other_user_id, conversation_type, conversation_user_type, is_blocked)
		VALUES (?, ?, ?, ?, ?, false)`

	selectByIDCQL      = `SELECT ` + conversationColumns + ` FROM conversations WHERE conversation_id = ? AND user_id = ?`
	selectBlockFlagCQL = `SELECT conversation_id, is_blocked FROM conversations WHERE conversation_id = ? AND user_id = ?`
	updateBlockFlagCQL = `UPDATE conversations SET is_blocked = ? WHERE conversation_id = ? AND user_id = ?`
)

type ConversationRepo interface {
	GetChannelIDByOwner(ctx context.Context, ownerID gocql.UUID) (*gocql.UUID, error)
	GetChannelByOwner(ctx context.Context, ownerID gocql.UUID) (*model.Conversation, error)
	ClaimDefaultChannel(ctx context.Context, ownerID, convID gocql.UUID) (gocql.UUID, bool, error)
	CreateChannel(ctx context.Context, conv *model.Conversation) error

	GetSingleByPair(ctx context.Context, userID, otherUserID gocql.UUID) (*model.Conversation, error)
	CreatePair(ctx context.Context, mine, theirs *model.Conversation) error
	GetByID(ctx context.Context, convID, userID gocql.UUID) (*model.Conversation, error)

	GetBlockFlag(ctx context.Context, convID, userID gocql.UUID) (bool, bool, error)
	SetBlocked(ctx context.Context, convID, userID gocql.UUID, blocked bool) error
}

type conversationRepoImpl struct {
	session cassandra.Session
}

func NewConversationRepo(session cassandra.Session) ConversationRepo {
	return &conversationRepoImpl{session: session}
}

// GetChannelIDByOwner 查询服务商拥有的频道 ID，不存在时返回 nil
func (s *conversationRepoImpl) GetChannelIDByOwner(ctx context.Context, ownerID gocql.UUID) (*gocql.UUID, error) {
	rows, err := s.session.Execute(ctx, selectChannelIDByOwnerCQL,
		[]interface{}{ownerID, consts.ConversationTypeChannel}, &cassandra.QueryOptions{PageSize: 1})
	if err != nil {
		return nil, err
	}
	if rows.Len() == 0 {
		return nil, nil
	}
	return cassandra.NullableUUID(rows.First(), "conversation_id"), nil
}

// GetChannelByOwner 查询服务商频道整行
func (s *conversationRepoImpl) GetChannelByOwner(ctx context.Context, ownerID gocql.UUID) (*model.Conversation, error) {
	rows, err := s.session.Execute(ctx, selectChannelByOwnerCQL,
		[]interface{}{ownerID, consts.ConversationTypeChannel}, &cassandra.QueryOptions{PageSize: 1})
	if err != nil {
		return nil, err
	}
	return firstConversation(rows), nil
}

// ClaimDefaultChannel 用 LWT 为服务商占用默认频道 ID。
// 未生效时返回已被占用的 ID，调用方应沿用该 ID
func (s *conversationRepoImpl) ClaimDefaultChannel(ctx context.Context, ownerID, convID gocql.UUID) (gocql.UUID, bool, error) {
	applied, existing, err := s.session.ExecuteCAS(ctx, claimDefaultChannelCQL, []interface{}{ownerID, convID})
	if err != nil {
		return gocql.UUID{}, false, err
	}
	if applied {
		return convID, true, nil
	}
	return cassandra.UUID(existing, "conversation_id"), false, nil
}

// CreateChannel 写入频道行，相同主键重复写入是幂等的
func (s *conversationRepoImpl) CreateChannel(ctx context.Context, conv *model.Conversation) error {
	_, err := s.session.Execute(ctx, insertChannelCQL, []interface{}{
		conv.ConversationID, conv.UserID, conv.ConversationType, conv.ConversationUserType,
		conv.LastMessageID, conv.LastMessageContent, conv.LastMessageSenderID, conv.LastMessageType,
	}, nil)
	return err
}

// GetSingleByPair 查询 userID 视角下与 otherUserID 的单聊
// 频道行没有 other_user_id，不会进入 conversation_by_pairs
func (s *conversationRepoImpl) GetSingleByPair(ctx context.Context, userID, otherUserID gocql.UUID) (*model.Conversation, error) {
	rows, err := s.session.Execute(ctx, selectByPairCQL,
		[]interface{}{userID, otherUserID}, &cassandra.QueryOptions{PageSize: 1})
	if err != nil {
		return nil, err
	}
	conv := firstConversation(rows)
	if conv == nil || conv.ConversationType != consts.ConversationTypeSingle {
		return nil, nil
	}
	return conv, nil
}

// CreatePair 同一批次写入双方的会话行，两行同属 conversation_id 分区
func (s *conversationRepoImpl) CreatePair(ctx context.Context, mine, theirs *model.Conversation) error {
	stmts := make([]cassandra.Statement, 0, 2)
	for _, c := range []*model.Conversation{mine, theirs} {
		stmts = append(stmts, cassandra.Statement{
			Query: insertPairRowCQL,
			Args:  []interface{}{c.ConversationID, c.UserID, c.OtherUserID, c.ConversationType, c.ConversationUserType},
		})
	}
	return s.session.Batch(ctx, stmts)
}

// GetByID 查询某一参与方的会话行
func (s *conversationRepoImpl) GetByID(ctx context.Context, convID, userID gocql.UUID) (*model.Conversation, error) {
	rows, err := s.session.Execute(ctx, selectByIDCQL, []interface{}{convID, userID}, nil)
	if err != nil {
		return nil, err
	}
	return firstConversation(rows), nil
}

// GetBlockFlag 返回 (is_blocked, 行是否存在)
func (s *conversationRepoImpl) GetBlockFlag(ctx context.Context, convID, userID gocql.UUID) (bool, bool, error) {
	rows, err := s.session.Execute(ctx, selectBlockFlagCQL, []interface{}{convID, userID}, nil)
	if err != nil {
		return false, false, err
	}
	if rows.Len() == 0 {
		return false, false, nil
	}
	return cassandra.Bool(rows.First(), "is_blocked"), true, nil
}

// SetBlocked 更新指定参与方行的 is_blocked
func (s *conversationRepoImpl) SetBlocked(ctx context.Context, convID, userID gocql.UUID, blocked bool) error {
	_, err := s.session.Execute(ctx, updateBlockFlagCQL, []interface{}{blocked, convID, userID}, nil)
	return err
}

func firstConversation(rows *cassandra.Rows) *model.Conversation {
	row := rows.First()
	if row == nil {
		return nil
	}
	return &model.Conversation{
		ConversationID:       cassandra.UUID(row, "conversation_id"),
		UserID:               cassandra.UUID(row, "user_id"),
		ConversationType:     cassandra.String(row, "conversation_type"),
		ConversationUserType: cassandra.String(row, "conversation_user_type"),
		OtherUserID:          cassandra.NullableUUID(row, "other_user_id"),
		IsBlocked:            cassandra.Bool(row, "is_blocked"),
		LastMessageID:        cassandra.NullableUUID(row, "last_message_id"),
		LastMessageContent:   cassandra.NullableString(row, "last_message_content"),
		LastMessageSenderID:  cassandra.NullableUUID(row, "last_message_sender_id"),
		LastMessageType:      cassandra.NullableString(row, "last_message_type"),
	}
}
