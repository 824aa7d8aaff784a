package model

import (
	"time"

	"github.com/gocql/gocql"
)

// Message 会话内的一条消息，按 message_id 倒序存储
type Message struct {
	MessageID   gocql.UUID `json:"message_id"`
	MessageTime time.Time  `json:"message_time"` // 由 timeuuid 推导
	Content     string     `json:"content"`
	MessageType string     `json:"message_type"`
	SenderID    gocql.UUID `json:"sender_id"`
	SenderType  string     `json:"sender_type"`
	IsDeleted   bool       `json:"is_deleted"`
}

// MessagePage 一页消息及下一页的游标
type MessagePage struct {
	Messages  []*Message `json:"messages"`
	PageState string     `json:"page_state"`
}

// MessageAck 单条消息的送达/已读回执统计
type MessageAck struct {
	MessageID      gocql.UUID `json:"message_id"`
	DeliveredCount int64      `json:"delivered_count"`
	SeenCount      int64      `json:"seen_count"`
}
