package kafka

import (
	"Courier/internal/api/config"
	"Courier/internal/service"
	"context"
	"errors"
	log "log/slog"

	"github.com/IBM/sarama"
)

// ConsumerManager 管理 Kafka 消费者
type ConsumerManager struct {
	providerConsumer sarama.ConsumerGroup
	providerHandler  sarama.ConsumerGroupHandler
	providerTopic    string
}

// NewConsumerManager 构造函数
func NewConsumerManager(cfg *config.Config, conversationSvc service.ConversationService) (*ConsumerManager, error) {
	saramaCfg := newSaramaConfig(cfg.Kafka)

	providerConsumer, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.KafkaProviderConsumer.GroupID, saramaCfg)
	if err != nil {
		return nil, err
	}

	return &ConsumerManager{
		providerConsumer: providerConsumer,
		providerHandler:  NewProviderHandler(conversationSvc),
		providerTopic:    cfg.KafkaProviderConsumer.Topic,
	}, nil
}

// Start 启动消费者并阻塞到 ctx 取消
func (m *ConsumerManager) Start(ctx context.Context) error {
	go func() {
		for err := range m.providerConsumer.Errors() {
			log.Error("provider consumer error", "err", err)
		}
	}()

	go func() {
		log.Info("Provider consumer started", "topic", m.providerTopic)
		for {
			if err := m.providerConsumer.Consume(ctx, []string{m.providerTopic}, m.providerHandler); err != nil {
				if errors.Is(err, sarama.ErrClosedConsumerGroup) {
					return
				}
				log.Error("Error from consumer", "err", err)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	<-ctx.Done()
	log.Info("Kafka Manager shutting down...")

	if err := m.providerConsumer.Close(); err != nil {
		log.Error("Failed to close provider consumer", "err", err)
		return err
	}
	return nil
}
