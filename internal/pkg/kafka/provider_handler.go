package kafka

import (
	"Courier/internal/model"
	"Courier/internal/service"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
	"github.com/gocql/gocql"
	"github.com/pkg/errors"
)

// ProviderVerifiedEvent 服务商通过平台审核事件
type ProviderVerifiedEvent struct {
	ServiceProviderID string `json:"service_provider_id"`
	Name              string `json:"name"`
}

// ProviderHandler 消费审核通过事件，为服务商创建默认频道
type ProviderHandler struct {
	conversationSvc service.ConversationService
}

func NewProviderHandler(conversationSvc service.ConversationService) *ProviderHandler {
	return &ProviderHandler{conversationSvc: conversationSvc}
}

func (s *ProviderHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("provider consumer setup")
	return nil
}

func (s *ProviderHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("provider consumer cleanup")
	return nil
}

func (s *ProviderHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("provider consume claim", "topic", claim.Topic(), "partition", claim.Partition())
	return pullMessageBatch(session, claim, s.logic)
}

// logic 格式错误的消息记录后跳过，不参与重试
func (s *ProviderHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	providerID, profile, err := decodeProviderEvent(msg.Value)
	if err != nil {
		log.WarnContext(ctx, "skip malformed provider event", "offset", msg.Offset, "err", err)
		return nil
	}

	s.conversationSvc.EnsureDefaultChannel(ctx, providerID, profile)
	return nil
}

func decodeProviderEvent(value []byte) (gocql.UUID, *model.ProviderProfile, error) {
	var event ProviderVerifiedEvent
	if err := json.Unmarshal(value, &event); err != nil {
		return gocql.UUID{}, nil, errors.WithMessage(err, "decode provider event")
	}

	providerID, err := gocql.ParseUUID(event.ServiceProviderID)
	if err != nil {
		return gocql.UUID{}, nil, errors.WithMessagef(err, "invalid service_provider_id %q", event.ServiceProviderID)
	}

	return providerID, &model.ProviderProfile{Name: event.Name}, nil
}
