package model

import "github.com/gocql/gocql"

// Conversation 会话行，单聊每个参与方各一行，频道只有服务商一行
type Conversation struct {
	ConversationID       gocql.UUID  `json:"conversation_id"`
	UserID               gocql.UUID  `json:"user_id"`                // 行所有者
	ConversationType     string      `json:"conversation_type"`      // single / channel
	ConversationUserType string      `json:"conversation_user_type"` // 行所有者角色
	OtherUserID          *gocql.UUID `json:"other_user_id"`          // 对手方，频道为空
	IsBlocked            bool        `json:"is_blocked"`
	LastMessageID        *gocql.UUID `json:"last_message_id"`
	LastMessageContent   *string     `json:"last_message_content"`
	LastMessageSenderID  *gocql.UUID `json:"last_message_sender_id"`
	LastMessageType      *string     `json:"last_message_type"`
}

// ConversationView 合并双方视角后的单聊会话
type ConversationView struct {
	Conversation
	IsOtherUserBlocked bool `json:"is_other_user_blocked"`
}

// ConversationSummary 会话列表项，附带未读数与被拉黑状态
type ConversationSummary struct {
	Conversation
	UnreadCount      int64 `json:"unread_count"`
	IsBlockedByOther bool  `json:"is_blocked_by_other"`
}

// Requester 当前请求用户
type Requester struct {
	UserID gocql.UUID
	Role   string
}

// ProviderProfile 创建默认频道所需的服务商资料
type ProviderProfile struct {
	Name string `json:"name"`
}
