package wire

import (
	"Courier/internal/api"
	"Courier/internal/api/config"
	"Courier/internal/api/handler"
	"Courier/internal/pkg/cassandra"
	"Courier/internal/pkg/kafka"
	"Courier/internal/pkg/mongo"
	"Courier/internal/pkg/redis"
	"Courier/internal/repository"
	"Courier/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router       *gin.Engine
	KafkaManager *kafka.ConsumerManager // 未启用审核事件消费时为 nil
}

func BuildApplication(
	cqlSession *gocql.Session,
	store *redis.Store,
	mongoDB *mongodriver.Database,
	cfg *config.Config,
) (*ApplicationContainer, error) {
	session := cassandra.NewSession(cqlSession)

	conversationRepo := repository.NewConversationRepo(session)
	messageRepo := repository.NewMessageRepo(session)
	unreadRepo := repository.NewUnreadRepo(session)
	userRepo := mongo.NewUserRepo(mongoDB)

	conversationService := service.NewConversationService(conversationRepo, unreadRepo, userRepo, store)
	messageService := service.NewMessageService(messageRepo)

	handlers := &api.HandlersGroup{
		IMHandler: handler.NewIMHandler(conversationService, messageService),
	}

	router := api.SetupRouter(handlers, cfg, store)

	app := &ApplicationContainer{Router: router}
	if cfg.KafkaProviderConsumer.Enable {
		kafkaMgr, err := kafka.NewConsumerManager(cfg, conversationService)
		if err != nil {
			return nil, err
		}
		app.KafkaManager = kafkaMgr
	}
	return app, nil
}
