package handler

import (
	"Courier/internal/api/dto"
	"Courier/internal/api/middleware"
	"Courier/internal/model"
	"Courier/internal/pkg/response"
	"Courier/internal/pkg/util"
	"Courier/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
)

type IMHandler struct {
	conversationSvc service.ConversationService
	messageSvc      service.MessageService
}

func NewIMHandler(conversationSvc service.ConversationService, messageSvc service.MessageService) *IMHandler {
	return &IMHandler{
		conversationSvc: conversationSvc,
		messageSvc:      messageSvc,
	}
}

// GetDefaultChannelID 获取服务商默认频道 ID
func (s *IMHandler) GetDefaultChannelID(c *gin.Context) {
	providerID, ok := uuidParam(c, "provider_id")
	if !ok {
		return
	}

	channelID, err := s.conversationSvc.GetDefaultChannelID(c.Request.Context(), providerID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ChannelIDDTO{ChannelID: channelID})
}

// GetDefaultChannel 获取服务商默认频道
func (s *IMHandler) GetDefaultChannel(c *gin.Context) {
	providerID, ok := uuidParam(c, "provider_id")
	if !ok {
		return
	}

	channel, err := s.conversationSvc.GetDefaultChannel(c.Request.Context(), providerID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, channel)
}

// GetOrCreateConversation 获取或创建与对方的单聊
func (s *IMHandler) GetOrCreateConversation(c *gin.Context) {
	var req dto.CreateConversationDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err := util.ValidateDTO(&req); err != nil {
		response.Error(c, err)
		return
	}
	otherUserID, _ := gocql.ParseUUID(req.OtherUserID)

	conv, err := s.conversationSvc.GetOrCreateConversation(c.Request.Context(), requesterOf(c), otherUserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, conv)
}

// GetConversationWithUser 查询与指定用户的单聊
func (s *IMHandler) GetConversationWithUser(c *gin.Context) {
	otherUserID, ok := uuidParam(c, "user_id")
	if !ok {
		return
	}

	conv, err := s.conversationSvc.GetConversationBetweenTwoUsers(c.Request.Context(), currentUserID(c), otherUserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, conv)
}

// GetConversation 按 ID 获取当前用户视角的会话
func (s *IMHandler) GetConversation(c *gin.Context) {
	convID, ok := uuidParam(c, "conversation_id")
	if !ok {
		return
	}

	conv, err := s.conversationSvc.GetConversationByID(c.Request.Context(), convID, currentUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, conv)
}

// GetConversationSummaries 会话列表项：未读数与被拉黑状态
func (s *IMHandler) GetConversationSummaries(c *gin.Context) {
	var req dto.ConversationSummaryDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err := util.ValidateDTO(&req); err != nil {
		response.Error(c, err)
		return
	}
	convIDs, err := util.ParseUUIDs(req.ConversationIDs)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	summaries, err := s.conversationSvc.GetConversationSummaries(c.Request.Context(), currentUserID(c), convIDs)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, summaries)
}

// GetMessages 历史消息，最新在前
func (s *IMHandler) GetMessages(c *gin.Context) {
	convID, ok := uuidParam(c, "conversation_id")
	if !ok {
		return
	}
	var query dto.GetMessagesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err := util.ValidateDTO(&query); err != nil {
		response.Error(c, err)
		return
	}

	var before *gocql.UUID
	if query.Before != "" {
		id, err := gocql.ParseUUID(query.Before)
		if err != nil {
			response.Error(c, service.ErrParamInvalid)
			return
		}
		before = &id
	}

	page, err := s.messageSvc.GetMessages(c.Request.Context(), convID, query.PageSize, query.PageState, before)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, page)
}

// GetMessagesAcknowledgements 批量查询消息回执
func (s *IMHandler) GetMessagesAcknowledgements(c *gin.Context) {
	convID, ok := uuidParam(c, "conversation_id")
	if !ok {
		return
	}
	var req dto.MessageAcksDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err := util.ValidateDTO(&req); err != nil {
		response.Error(c, err)
		return
	}
	messageIDs, err := util.ParseUUIDs(req.MessageIDs)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	acks, err := s.messageSvc.GetMessagesAcknowledgements(c.Request.Context(), convID, messageIDs)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, acks)
}

// ChangeBlockStatus 拉黑或取消拉黑会话对方
func (s *IMHandler) ChangeBlockStatus(c *gin.Context) {
	convID, ok := uuidParam(c, "conversation_id")
	if !ok {
		return
	}
	var req dto.ChangeBlockStatusDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err := util.ValidateDTO(&req); err != nil {
		response.Error(c, err)
		return
	}

	err := s.conversationSvc.ChangeBlockStatusByConversationID(c.Request.Context(), convID, currentUserID(c), *req.Blocked)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// ClearUnreadCount 清空当前用户在会话中的未读数
func (s *IMHandler) ClearUnreadCount(c *gin.Context) {
	convID, ok := uuidParam(c, "conversation_id")
	if !ok {
		return
	}

	userID := currentUserID(c)
	if err := s.conversationSvc.ClearUnreadCount(c.Request.Context(), convID, userID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.UnreadCountDTO{ConversationID: convID.String(), UnreadCount: 0})
}

// uuidParam 解析路径参数，失败时已写回错误响应
func uuidParam(c *gin.Context, name string) (gocql.UUID, bool) {
	id, err := gocql.ParseUUID(c.Param(name))
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return gocql.UUID{}, false
	}
	return id, true
}

func currentUserID(c *gin.Context) gocql.UUID {
	if v, ok := c.Get(middleware.UserIDKey); ok {
		if id, ok := v.(gocql.UUID); ok {
			return id
		}
	}
	return gocql.UUID{}
}

func requesterOf(c *gin.Context) *model.Requester {
	return &model.Requester{
		UserID: currentUserID(c),
		Role:   c.GetString(middleware.RoleKey),
	}
}
