package dto

// CreateConversationDTO 发起单聊
type CreateConversationDTO struct {
	OtherUserID string `json:"other_user_id" validate:"required,uuid"`
}

// ConversationSummaryDTO 批量获取会话列表项
type ConversationSummaryDTO struct {
	ConversationIDs []string `json:"conversation_ids" validate:"required,max=100,dive,uuid"`
}

// MessageAcksDTO 批量获取消息回执
type MessageAcksDTO struct {
	MessageIDs []string `json:"message_ids" validate:"max=200,dive,uuid"`
}

// ChangeBlockStatusDTO 拉黑/取消拉黑
type ChangeBlockStatusDTO struct {
	Blocked *bool `json:"blocked" validate:"required"`
}

// GetMessagesQuery 历史消息分页参数
type GetMessagesQuery struct {
	PageSize  int    `form:"page_size" validate:"omitempty,min=1,max=100"`
	PageState string `form:"page_state"`
	Before    string `form:"before" validate:"omitempty,uuid"`
}

// ChannelIDDTO 默认频道 ID
type ChannelIDDTO struct {
	ChannelID string `json:"channel_id"`
}

// UnreadCountDTO 会话未读数
type UnreadCountDTO struct {
	ConversationID string `json:"conversation_id"`
	UnreadCount    int64  `json:"unread_count"`
}
