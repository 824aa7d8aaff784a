package service

import (
	"Courier/internal/model"
	"Courier/internal/pkg/consts"
	"context"
	"errors"
	"testing"

	"github.com/gocql/gocql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type convFixture struct {
	svc    *conversationServiceImpl
	convs  *fakeConversationRepo
	unread *fakeUnreadRepo
	users  *fakeUserRepo
	cache  *fakeCache
}

func newConvFixture() *convFixture {
	f := &convFixture{
		convs:  newFakeConversationRepo(),
		unread: newFakeUnreadRepo(),
		users:  newFakeUserRepo(),
		cache:  newFakeCache(),
	}
	f.svc = NewConversationService(f.convs, f.unread, f.users, f.cache).(*conversationServiceImpl)
	return f
}

// seedPair 直接写入一对单聊行
func (f *convFixture) seedPair(customerID, providerID gocql.UUID) gocql.UUID {
	convID := gocql.TimeUUID()
	f.convs.put(&model.Conversation{
		ConversationID:       convID,
		UserID:               customerID,
		ConversationType:     consts.ConversationTypeSingle,
		ConversationUserType: consts.RoleCustomer,
		OtherUserID:          &providerID,
	})
	f.convs.put(&model.Conversation{
		ConversationID:       convID,
		UserID:               providerID,
		ConversationType:     consts.ConversationTypeSingle,
		ConversationUserType: consts.RoleServiceProvider,
		OtherUserID:          &customerID,
	})
	return convID
}

func (f *convFixture) seedChannel(providerID gocql.UUID) gocql.UUID {
	convID := gocql.TimeUUID()
	f.convs.put(&model.Conversation{
		ConversationID:       convID,
		UserID:               providerID,
		ConversationType:     consts.ConversationTypeChannel,
		ConversationUserType: consts.RoleServiceProvider,
	})
	return convID
}

func TestEnsureDefaultChannel(t *testing.T) {
	ctx := context.Background()

	t.Run("创建频道并写入缓存", func(t *testing.T) {
		f := newConvFixture()
		providerID := gocql.TimeUUID()

		f.svc.EnsureDefaultChannel(ctx, providerID, &model.ProviderProfile{Name: "Acme"})

		chs := f.convs.channelsOf(providerID)
		require.Len(t, chs, 1)
		ch := chs[0]
		assert.Equal(t, consts.ConversationTypeChannel, ch.ConversationType)
		assert.Equal(t, consts.RoleServiceProvider, ch.ConversationUserType)
		assert.Nil(t, ch.OtherUserID)
		require.NotNil(t, ch.LastMessageContent)
		assert.Contains(t, *ch.LastMessageContent, "Acme")
		require.NotNil(t, ch.LastMessageType)
		assert.Equal(t, consts.MessageTypeNotification, *ch.LastMessageType)
		require.NotNil(t, ch.LastMessageSenderID)
		assert.Equal(t, providerID, *ch.LastMessageSenderID)

		assert.Equal(t, ch.ConversationID.String(), f.cache.values[channelCacheKey(providerID)])
	})

	t.Run("重复调用保持幂等", func(t *testing.T) {
		f := newConvFixture()
		providerID := gocql.TimeUUID()

		f.svc.EnsureDefaultChannel(ctx, providerID, &model.ProviderProfile{Name: "Acme"})
		f.svc.EnsureDefaultChannel(ctx, providerID, &model.ProviderProfile{Name: "Acme"})

		assert.Len(t, f.convs.channelsOf(providerID), 1)
		assert.Equal(t, 1, f.convs.callCount("CreateChannel"))
		assert.Equal(t, 1, f.cache.sets)
	})

	t.Run("占位失败时沿用胜出方的 ID", func(t *testing.T) {
		f := newConvFixture()
		providerID := gocql.TimeUUID()
		winner := gocql.TimeUUID()
		f.convs.claims[providerID] = winner

		f.svc.EnsureDefaultChannel(ctx, providerID, nil)

		chs := f.convs.channelsOf(providerID)
		require.Len(t, chs, 1)
		assert.Equal(t, winner, chs[0].ConversationID)
		assert.Equal(t, winner.String(), f.cache.values[channelCacheKey(providerID)])
	})

	t.Run("存储失败时不写缓存也不向上传播", func(t *testing.T) {
		f := newConvFixture()
		f.convs.err = errors.New("unavailable")

		assert.NotPanics(t, func() {
			f.svc.EnsureDefaultChannel(ctx, gocql.TimeUUID(), &model.ProviderProfile{Name: "Acme"})
		})
		assert.Equal(t, 0, f.cache.sets)
	})
}

func TestGetDefaultChannelID(t *testing.T) {
	ctx := context.Background()

	t.Run("首次回源后命中缓存", func(t *testing.T) {
		f := newConvFixture()
		providerID := gocql.TimeUUID()
		convID := f.seedChannel(providerID)

		first, err := f.svc.GetDefaultChannelID(ctx, providerID)
		require.NoError(t, err)
		second, err := f.svc.GetDefaultChannelID(ctx, providerID)
		require.NoError(t, err)

		assert.Equal(t, convID.String(), first)
		assert.Equal(t, first, second)
		assert.Equal(t, 1, f.convs.callCount("GetChannelIDByOwner"))
		assert.Equal(t, 1, f.cache.sets)
	})

	t.Run("频道不存在", func(t *testing.T) {
		f := newConvFixture()

		_, err := f.svc.GetDefaultChannelID(ctx, gocql.TimeUUID())
		assert.ErrorIs(t, err, ErrChannelNotFound)
		assert.Equal(t, 0, f.cache.sets)
	})

	t.Run("缓存错误直接返回", func(t *testing.T) {
		f := newConvFixture()
		f.cache.getErr = errors.New("redis down")

		_, err := f.svc.GetDefaultChannelID(ctx, gocql.TimeUUID())
		assert.Error(t, err)
		assert.Equal(t, 0, f.convs.callCount("GetChannelIDByOwner"))
	})
}

func TestGetDefaultChannel(t *testing.T) {
	ctx := context.Background()
	f := newConvFixture()
	providerID := gocql.TimeUUID()
	convID := f.seedChannel(providerID)

	ch, err := f.svc.GetDefaultChannel(ctx, providerID)
	require.NoError(t, err)
	assert.Equal(t, convID, ch.ConversationID)

	_, err = f.svc.GetDefaultChannel(ctx, gocql.TimeUUID())
	assert.ErrorIs(t, err, ErrChannelNotFound)
}

func TestCreateConversationBetweenTwoUsers(t *testing.T) {
	ctx := context.Background()

	t.Run("写入镜像的两行", func(t *testing.T) {
		f := newConvFixture()
		customerID, providerID := gocql.TimeUUID(), gocql.TimeUUID()
		f.users.add(consts.RoleServiceProvider, providerID)

		view, err := f.svc.CreateConversationBetweenTwoUsers(ctx,
			&model.Requester{UserID: customerID, Role: consts.RoleCustomer}, providerID)
		require.NoError(t, err)

		assert.Equal(t, customerID, view.UserID)
		require.NotNil(t, view.OtherUserID)
		assert.Equal(t, providerID, *view.OtherUserID)
		assert.Equal(t, consts.ConversationTypeSingle, view.ConversationType)
		assert.False(t, view.IsBlocked)
		assert.False(t, view.IsOtherUserBlocked)
		assert.Nil(t, view.LastMessageID)

		mine := f.convs.row(view.ConversationID, customerID)
		theirs := f.convs.row(view.ConversationID, providerID)
		require.NotNil(t, mine)
		require.NotNil(t, theirs)
		assert.Equal(t, consts.RoleCustomer, mine.ConversationUserType)
		assert.Equal(t, consts.RoleServiceProvider, theirs.ConversationUserType)
		assert.Equal(t, customerID, *theirs.OtherUserID)
		assert.Equal(t, 1, f.convs.callCount("CreatePair"))
	})

	t.Run("对方不存在", func(t *testing.T) {
		f := newConvFixture()

		_, err := f.svc.CreateConversationBetweenTwoUsers(ctx,
			&model.Requester{UserID: gocql.TimeUUID(), Role: consts.RoleCustomer}, gocql.TimeUUID())
		assert.ErrorIs(t, err, ErrCounterpartNotFound)
		assert.Equal(t, 0, f.convs.callCount("CreatePair"))
	})

	t.Run("对方角色必须相反", func(t *testing.T) {
		f := newConvFixture()
		otherCustomer := gocql.TimeUUID()
		f.users.add(consts.RoleCustomer, otherCustomer)

		_, err := f.svc.CreateConversationBetweenTwoUsers(ctx,
			&model.Requester{UserID: gocql.TimeUUID(), Role: consts.RoleCustomer}, otherCustomer)
		assert.ErrorIs(t, err, ErrCounterpartNotFound)
	})

	t.Run("非法请求", func(t *testing.T) {
		f := newConvFixture()
		self := gocql.TimeUUID()

		_, err := f.svc.CreateConversationBetweenTwoUsers(ctx, nil, self)
		assert.ErrorIs(t, err, ErrParamInvalid)
		_, err = f.svc.CreateConversationBetweenTwoUsers(ctx,
			&model.Requester{UserID: self, Role: consts.RoleCustomer}, self)
		assert.ErrorIs(t, err, ErrParamInvalid)
		_, err = f.svc.CreateConversationBetweenTwoUsers(ctx,
			&model.Requester{UserID: self, Role: "admin"}, gocql.TimeUUID())
		assert.ErrorIs(t, err, ErrParamInvalid)
	})

	t.Run("用户库错误", func(t *testing.T) {
		f := newConvFixture()
		f.users.err = errors.New("mongo down")

		_, err := f.svc.CreateConversationBetweenTwoUsers(ctx,
			&model.Requester{UserID: gocql.TimeUUID(), Role: consts.RoleCustomer}, gocql.TimeUUID())
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrCounterpartNotFound)
	})
}

func TestGetOrCreateConversation(t *testing.T) {
	ctx := context.Background()
	f := newConvFixture()
	customerID, providerID := gocql.TimeUUID(), gocql.TimeUUID()
	f.users.add(consts.RoleServiceProvider, providerID)
	requester := &model.Requester{UserID: customerID, Role: consts.RoleCustomer}

	created, err := f.svc.GetOrCreateConversation(ctx, requester, providerID)
	require.NoError(t, err)
	again, err := f.svc.GetOrCreateConversation(ctx, requester, providerID)
	require.NoError(t, err)

	assert.Equal(t, created.ConversationID, again.ConversationID)
	assert.Equal(t, 1, f.convs.callCount("CreatePair"))

	found, err := f.svc.GetConversationBetweenTwoUsers(ctx, providerID, customerID)
	require.NoError(t, err)
	assert.Equal(t, created.ConversationID, found.ConversationID)

	_, err = f.svc.GetConversationBetweenTwoUsers(ctx, customerID, gocql.TimeUUID())
	assert.ErrorIs(t, err, ErrConversationNotFound)
}

func TestGetConversationByID(t *testing.T) {
	ctx := context.Background()
	f := newConvFixture()
	customerID, providerID := gocql.TimeUUID(), gocql.TimeUUID()
	convID := f.seedPair(customerID, providerID)

	conv, err := f.svc.GetConversationByID(ctx, convID, providerID)
	require.NoError(t, err)
	assert.Equal(t, providerID, conv.UserID)

	_, err = f.svc.GetConversationByID(ctx, convID, gocql.TimeUUID())
	assert.ErrorIs(t, err, ErrConversationNotFound)
}

func TestGetConversationsBlockStatus(t *testing.T) {
	ctx := context.Background()
	f := newConvFixture()
	customerID, providerID := gocql.TimeUUID(), gocql.TimeUUID()
	pairID := f.seedPair(customerID, providerID)
	channelID := f.seedChannel(providerID)
	f.convs.row(pairID, customerID).IsBlocked = true

	convs := []*model.Conversation{
		f.convs.row(pairID, providerID),
		f.convs.row(channelID, providerID),
		nil,
	}
	res, err := f.svc.GetConversationsBlockStatus(ctx, convs)
	require.NoError(t, err)

	assert.Equal(t, map[string]bool{pairID.String(): true}, res)
	assert.Equal(t, 1, f.convs.callCount("GetBlockFlag"))

	f.convs.err = errors.New("timeout")
	_, err = f.svc.GetConversationsBlockStatus(ctx, convs)
	assert.Error(t, err)
}

func TestUnreadCounts(t *testing.T) {
	ctx := context.Background()
	userID := gocql.TimeUUID()
	a, b, c := gocql.TimeUUID(), gocql.TimeUUID(), gocql.TimeUUID()

	t.Run("无计数行返回 0", func(t *testing.T) {
		f := newConvFixture()
		n, err := f.svc.GetUnreadCount(ctx, userID, a)
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("结果顺序与输入一致", func(t *testing.T) {
		f := newConvFixture()
		f.unread.counts[rowKey(a, userID)] = 3
		f.unread.counts[rowKey(c, userID)] = 7

		counts, err := f.svc.GetUnreadCounts(ctx, userID, []gocql.UUID{a, b, c})
		require.NoError(t, err)
		assert.Equal(t, []int64{3, 0, 7}, counts)
	})

	t.Run("任一失败整体失败", func(t *testing.T) {
		f := newConvFixture()
		f.unread.err = errors.New("read timeout")
		f.unread.failOn = &b

		_, err := f.svc.GetUnreadCounts(ctx, userID, []gocql.UUID{a, b, c})
		assert.Error(t, err)
	})
}

func TestGetConversationSummaries(t *testing.T) {
	ctx := context.Background()
	f := newConvFixture()
	customerID, providerA, providerB := gocql.TimeUUID(), gocql.TimeUUID(), gocql.TimeUUID()
	convA := f.seedPair(customerID, providerA)
	convB := f.seedPair(customerID, providerB)
	f.convs.row(convA, providerA).IsBlocked = true
	f.unread.counts[rowKey(convB, customerID)] = 4

	res, err := f.svc.GetConversationSummaries(ctx, customerID, []gocql.UUID{convA, gocql.TimeUUID(), convB})
	require.NoError(t, err)
	require.Len(t, res, 2)

	assert.Equal(t, convA, res[0].ConversationID)
	assert.True(t, res[0].IsBlockedByOther)
	assert.Zero(t, res[0].UnreadCount)

	assert.Equal(t, convB, res[1].ConversationID)
	assert.False(t, res[1].IsBlockedByOther)
	assert.Equal(t, int64(4), res[1].UnreadCount)
}

func TestChangeBlockStatusByConversationID(t *testing.T) {
	ctx := context.Background()

	t.Run("标记写在对方行上", func(t *testing.T) {
		f := newConvFixture()
		customerID, providerID := gocql.TimeUUID(), gocql.TimeUUID()
		convID := f.seedPair(customerID, providerID)

		require.NoError(t, f.svc.ChangeBlockStatusByConversationID(ctx, convID, customerID, true))
		assert.True(t, f.convs.row(convID, providerID).IsBlocked)
		assert.False(t, f.convs.row(convID, customerID).IsBlocked)

		// 对方视角下被拉黑
		res, err := f.svc.GetConversationsBlockStatus(ctx, []*model.Conversation{f.convs.row(convID, customerID)})
		require.NoError(t, err)
		assert.True(t, res[convID.String()])

		require.NoError(t, f.svc.ChangeBlockStatusByConversationID(ctx, convID, customerID, false))
		assert.False(t, f.convs.row(convID, providerID).IsBlocked)
	})

	t.Run("频道与不存在的会话忽略", func(t *testing.T) {
		f := newConvFixture()
		providerID := gocql.TimeUUID()
		channelID := f.seedChannel(providerID)

		require.NoError(t, f.svc.ChangeBlockStatusByConversationID(ctx, channelID, providerID, true))
		require.NoError(t, f.svc.ChangeBlockStatusByConversationID(ctx, gocql.TimeUUID(), providerID, true))
		assert.Equal(t, 0, f.convs.callCount("SetBlocked"))
		assert.False(t, f.convs.row(channelID, providerID).IsBlocked)
	})
}

func TestClearUnreadCount(t *testing.T) {
	ctx := context.Background()
	f := newConvFixture()
	convID, userID := gocql.TimeUUID(), gocql.TimeUUID()
	f.unread.counts[rowKey(convID, userID)] = 5

	require.NoError(t, f.svc.ClearUnreadCount(ctx, convID, userID))
	n, err := f.svc.GetUnreadCount(ctx, userID, convID)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, 1, f.unread.decrements)

	require.NoError(t, f.svc.ClearUnreadCount(ctx, convID, userID))
	assert.Equal(t, 1, f.unread.decrements)
}
