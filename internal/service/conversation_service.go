package service

import (
	"Courier/internal/model"
	"Courier/internal/pkg/consts"
	"Courier/internal/pkg/mongo"
	"Courier/internal/pkg/util"
	"Courier/internal/repository"
	"context"
	log "log/slog"

	"github.com/gocql/gocql"
	"golang.org/x/sync/errgroup"
)

// Cache 默认频道 ID 的缓存，GetValue 未命中时返回空串
type Cache interface {
	GetValue(ctx context.Context, key string) (string, error)
	SetValue(ctx context.Context, key string, value interface{}) error
}

// ConversationService 会话解析、聚合与状态变更
type ConversationService interface {
	EnsureDefaultChannel(ctx context.Context, providerID gocql.UUID, profile *model.ProviderProfile)
	GetDefaultChannelID(ctx context.Context, providerID gocql.UUID) (string, error)
	GetDefaultChannel(ctx context.Context, providerID gocql.UUID) (*model.Conversation, error)
	GetConversationBetweenTwoUsers(ctx context.Context, userID, otherUserID gocql.UUID) (*model.Conversation, error)
	CreateConversationBetweenTwoUsers(ctx context.Context, requester *model.Requester, otherUserID gocql.UUID) (*model.ConversationView, error)
	GetOrCreateConversation(ctx context.Context, requester *model.Requester, otherUserID gocql.UUID) (*model.Conversation, error)
	GetConversationByID(ctx context.Context, convID, userID gocql.UUID) (*model.Conversation, error)

	GetConversationsBlockStatus(ctx context.Context, convs []*model.Conversation) (map[string]bool, error)
	GetUnreadCount(ctx context.Context, userID, convID gocql.UUID) (int64, error)
	GetUnreadCounts(ctx context.Context, userID gocql.UUID, convIDs []gocql.UUID) ([]int64, error)
	GetConversationSummaries(ctx context.Context, userID gocql.UUID, convIDs []gocql.UUID) ([]*model.ConversationSummary, error)

	ChangeBlockStatusByConversationID(ctx context.Context, convID, userID gocql.UUID, blocked bool) error
	ClearUnreadCount(ctx context.Context, convID, userID gocql.UUID) error
}

type conversationServiceImpl struct {
	convRepo   repository.ConversationRepo
	unreadRepo repository.UnreadRepo
	userRepo   mongo.UserRepo
	cache      Cache
	newID      func() gocql.UUID
}

func NewConversationService(
	convRepo repository.ConversationRepo,
	unreadRepo repository.UnreadRepo,
	userRepo mongo.UserRepo,
	cache Cache,
) ConversationService {
	return &conversationServiceImpl{
		convRepo:   convRepo,
		unreadRepo: unreadRepo,
		userRepo:   userRepo,
		cache:      cache,
		newID:      gocql.TimeUUID,
	}
}

// EnsureDefaultChannel 服务商审核通过后创建默认频道。
// 失败只记录日志不向上返回，避免聊天子系统故障阻塞服务商入驻流程
func (s *conversationServiceImpl) EnsureDefaultChannel(ctx context.Context, providerID gocql.UUID, profile *model.ProviderProfile) {
	if err := s.ensureDefaultChannel(ctx, providerID, profile); err != nil {
		log.ErrorContext(ctx, "create default channel failed", "provider_id", providerID.String(), "err", err)
	}
}

func (s *conversationServiceImpl) ensureDefaultChannel(ctx context.Context, providerID gocql.UUID, profile *model.ProviderProfile) error {
	existing, err := s.convRepo.GetChannelIDByOwner(ctx, providerID)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	// 并发创建时只有一个 ID 能占位成功，落败方沿用胜出方的 ID 补写频道行
	convID, applied, err := s.convRepo.ClaimDefaultChannel(ctx, providerID, s.newID())
	if err != nil {
		return err
	}
	if !applied {
		log.InfoContext(ctx, "default channel already claimed",
			"provider_id", providerID.String(), "conversation_id", convID.String())
	}

	var name string
	if profile != nil {
		name = profile.Name
	}
	content := consts.SPAdminVerifiedMessage(name)
	msgType := consts.MessageTypeNotification
	channel := &model.Conversation{
		ConversationID:       convID,
		UserID:               providerID,
		ConversationType:     consts.ConversationTypeChannel,
		ConversationUserType: consts.RoleServiceProvider,
		LastMessageID:        &convID,
		LastMessageContent:   &content,
		LastMessageSenderID:  &providerID,
		LastMessageType:      &msgType,
	}
	if err = s.convRepo.CreateChannel(ctx, channel); err != nil {
		return err
	}

	return s.cache.SetValue(ctx, channelCacheKey(providerID), convID.String())
}

// GetDefaultChannelID 先读缓存，未命中时回源并回填；不会创建频道
func (s *conversationServiceImpl) GetDefaultChannelID(ctx context.Context, providerID gocql.UUID) (string, error) {
	key := channelCacheKey(providerID)
	channelID, err := s.cache.GetValue(ctx, key)
	if err != nil {
		return "", err
	}
	if channelID != "" {
		return channelID, nil
	}

	id, err := s.convRepo.GetChannelIDByOwner(ctx, providerID)
	if err != nil {
		return "", err
	}
	if id == nil {
		return "", ErrChannelNotFound
	}

	channelID = id.String()
	if err = s.cache.SetValue(ctx, key, channelID); err != nil {
		return "", err
	}
	return channelID, nil
}

// GetDefaultChannel 获取默认频道整行，不经过缓存
func (s *conversationServiceImpl) GetDefaultChannel(ctx context.Context, providerID gocql.UUID) (*model.Conversation, error) {
	conv, err := s.convRepo.GetChannelByOwner(ctx, providerID)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, ErrChannelNotFound
	}
	return conv, nil
}

func (s *conversationServiceImpl) GetConversationBetweenTwoUsers(ctx context.Context, userID, otherUserID gocql.UUID) (*model.Conversation, error) {
	conv, err := s.convRepo.GetSingleByPair(ctx, userID, otherUserID)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, ErrConversationNotFound
	}
	return conv, nil
}

// CreateConversationBetweenTwoUsers 校验对方存在后批量写入双方的会话行
func (s *conversationServiceImpl) CreateConversationBetweenTwoUsers(ctx context.Context, requester *model.Requester, otherUserID gocql.UUID) (*model.ConversationView, error) {
	if requester == nil || requester.UserID == otherUserID {
		return nil, ErrParamInvalid
	}
	otherRole, ok := counterpartRole(requester.Role)
	if !ok {
		return nil, ErrParamInvalid
	}

	exists, err := s.userRepo.Exists(ctx, otherRole, otherUserID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrCounterpartNotFound
	}

	convID := s.newID()
	userID := requester.UserID
	mine := &model.Conversation{
		ConversationID:       convID,
		UserID:               userID,
		ConversationType:     consts.ConversationTypeSingle,
		ConversationUserType: requester.Role,
		OtherUserID:          &otherUserID,
	}
	theirs := &model.Conversation{
		ConversationID:       convID,
		UserID:               otherUserID,
		ConversationType:     consts.ConversationTypeSingle,
		ConversationUserType: otherRole,
		OtherUserID:          &userID,
	}
	if err = s.convRepo.CreatePair(ctx, mine, theirs); err != nil {
		return nil, err
	}

	return &model.ConversationView{Conversation: *mine}, nil
}

// GetOrCreateConversation 已存在时返回请求方视角的会话行，否则新建
func (s *conversationServiceImpl) GetOrCreateConversation(ctx context.Context, requester *model.Requester, otherUserID gocql.UUID) (*model.Conversation, error) {
	if requester == nil {
		return nil, ErrParamInvalid
	}
	conv, err := s.convRepo.GetSingleByPair(ctx, requester.UserID, otherUserID)
	if err != nil {
		return nil, err
	}
	if conv != nil {
		return conv, nil
	}

	view, err := s.CreateConversationBetweenTwoUsers(ctx, requester, otherUserID)
	if err != nil {
		return nil, err
	}
	return &view.Conversation, nil
}

func (s *conversationServiceImpl) GetConversationByID(ctx context.Context, convID, userID gocql.UUID) (*model.Conversation, error) {
	conv, err := s.convRepo.GetByID(ctx, convID, userID)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, ErrConversationNotFound
	}
	return conv, nil
}

type blockFlag struct {
	convID  string
	blocked bool
	found   bool
}

// GetConversationsBlockStatus 批量读取对方行上的 is_blocked，即请求方是否被对方拉黑。
// 频道没有对方，跳过
func (s *conversationServiceImpl) GetConversationsBlockStatus(ctx context.Context, convs []*model.Conversation) (map[string]bool, error) {
	targets := make([]*model.Conversation, 0, len(convs))
	for _, c := range convs {
		if c != nil && c.OtherUserID != nil {
			targets = append(targets, c)
		}
	}

	flags, err := util.Gather(ctx, targets, func(ctx context.Context, c *model.Conversation) (blockFlag, error) {
		blocked, found, err := s.convRepo.GetBlockFlag(ctx, c.ConversationID, *c.OtherUserID)
		return blockFlag{convID: c.ConversationID.String(), blocked: blocked, found: found}, err
	})
	if err != nil {
		return nil, err
	}

	res := make(map[string]bool, len(flags))
	for _, f := range flags {
		if f.found {
			res[f.convID] = f.blocked
		}
	}
	return res, nil
}

// GetUnreadCount 没有计数行时返回 0
func (s *conversationServiceImpl) GetUnreadCount(ctx context.Context, userID, convID gocql.UUID) (int64, error) {
	return s.unreadRepo.GetUnread(ctx, convID, userID)
}

// GetUnreadCounts 结果顺序与 convIDs 一致
func (s *conversationServiceImpl) GetUnreadCounts(ctx context.Context, userID gocql.UUID, convIDs []gocql.UUID) ([]int64, error) {
	return util.Gather(ctx, convIDs, func(ctx context.Context, convID gocql.UUID) (int64, error) {
		return s.GetUnreadCount(ctx, userID, convID)
	})
}

// GetConversationSummaries 拉取请求方的会话行并补充未读数与被拉黑状态，不存在的会话被忽略
func (s *conversationServiceImpl) GetConversationSummaries(ctx context.Context, userID gocql.UUID, convIDs []gocql.UUID) ([]*model.ConversationSummary, error) {
	rows, err := util.Gather(ctx, convIDs, func(ctx context.Context, convID gocql.UUID) (*model.Conversation, error) {
		return s.convRepo.GetByID(ctx, convID, userID)
	})
	if err != nil {
		return nil, err
	}

	convs := make([]*model.Conversation, 0, len(rows))
	ids := make([]gocql.UUID, 0, len(rows))
	for _, c := range rows {
		if c != nil {
			convs = append(convs, c)
			ids = append(ids, c.ConversationID)
		}
	}

	var (
		blockMap map[string]bool
		counts   []int64
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		blockMap, err = s.GetConversationsBlockStatus(gCtx, convs)
		return err
	})
	g.Go(func() error {
		var err error
		counts, err = s.GetUnreadCounts(gCtx, userID, ids)
		return err
	})
	if err = g.Wait(); err != nil {
		return nil, err
	}

	res := make([]*model.ConversationSummary, 0, len(convs))
	for i, c := range convs {
		res = append(res, &model.ConversationSummary{
			Conversation:     *c,
			UnreadCount:      counts[i],
			IsBlockedByOther: blockMap[c.ConversationID.String()],
		})
	}
	return res, nil
}

// ChangeBlockStatusByConversationID 拉黑状态记录在被拉黑方的行上，对方据此判断自己是否被拉黑。
// 会话不存在或为频道时静默忽略
func (s *conversationServiceImpl) ChangeBlockStatusByConversationID(ctx context.Context, convID, userID gocql.UUID, blocked bool) error {
	conv, err := s.convRepo.GetByID(ctx, convID, userID)
	if err != nil {
		return err
	}
	if conv == nil || conv.ConversationType != consts.ConversationTypeSingle || conv.OtherUserID == nil {
		return nil
	}
	return s.convRepo.SetBlocked(ctx, convID, *conv.OtherUserID, blocked)
}

// ClearUnreadCount 按读到的值做相对扣减，不覆盖期间新到消息的增量
func (s *conversationServiceImpl) ClearUnreadCount(ctx context.Context, convID, userID gocql.UUID) error {
	unread, err := s.unreadRepo.GetUnread(ctx, convID, userID)
	if err != nil {
		return err
	}
	if unread == 0 {
		return nil
	}
	return s.unreadRepo.Decrement(ctx, convID, userID, unread)
}

func channelCacheKey(providerID gocql.UUID) string {
	return consts.SPDefaultChannelKey + providerID.String()
}

func counterpartRole(role string) (string, bool) {
	switch role {
	case consts.RoleCustomer:
		return consts.RoleServiceProvider, true
	case consts.RoleServiceProvider:
		return consts.RoleCustomer, true
	}
	return "", false
}
