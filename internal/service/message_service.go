package service

import (
	"Courier/internal/model"
	"Courier/internal/pkg/consts"
	"Courier/internal/pkg/util"
	"Courier/internal/repository"
	"context"

	"github.com/gocql/gocql"
)

// MessageService 历史消息与回执查询
type MessageService interface {
	GetMessages(ctx context.Context, convID gocql.UUID, pageSize int, pageToken string, before *gocql.UUID) (*model.MessagePage, error)
	GetMessagesAcknowledgements(ctx context.Context, convID gocql.UUID, messageIDs []gocql.UUID) (map[string]*model.MessageAck, error)
}

type messageServiceImpl struct {
	messageRepo repository.MessageRepo
}

func NewMessageService(messageRepo repository.MessageRepo) MessageService {
	return &messageServiceImpl{messageRepo: messageRepo}
}

// GetMessages 最新的消息在前；翻页时需原样带回上一页的 pageToken 与 before
func (s *messageServiceImpl) GetMessages(ctx context.Context, convID gocql.UUID, pageSize int, pageToken string, before *gocql.UUID) (*model.MessagePage, error) {
	pageState, err := util.DecodeCursor(pageToken)
	if err != nil {
		return nil, ErrParamInvalid
	}

	messages, next, err := s.messageRepo.ListMessages(ctx, convID, normalizePageSize(pageSize), pageState, before)
	if err != nil {
		return nil, err
	}
	return &model.MessagePage{
		Messages:  messages,
		PageState: util.EncodeCursor(next),
	}, nil
}

// GetMessagesAcknowledgements 没有回执的消息不在结果中，调用方按 0 处理
func (s *messageServiceImpl) GetMessagesAcknowledgements(ctx context.Context, convID gocql.UUID, messageIDs []gocql.UUID) (map[string]*model.MessageAck, error) {
	if len(messageIDs) == 0 {
		return map[string]*model.MessageAck{}, nil
	}
	return s.messageRepo.GetAcknowledgements(ctx, convID, messageIDs)
}

func normalizePageSize(pageSize int) int {
	if pageSize <= 0 {
		return consts.DefaultMessagePageSize
	}
	if pageSize > consts.MaxMessagePageSize {
		return consts.MaxMessagePageSize
	}
	return pageSize
}
