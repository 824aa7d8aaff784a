package service

import (
	"Courier/internal/model"
	"Courier/internal/pkg/consts"
	"context"
	"sort"
	"strconv"
	"sync"

	"github.com/gocql/gocql"
)

func rowKey(convID, userID gocql.UUID) string {
	return convID.String() + "|" + userID.String()
}

type fakeConversationRepo struct {
	mu     sync.Mutex
	rows   map[string]*model.Conversation
	claims map[gocql.UUID]gocql.UUID
	calls  map[string]int
	err    error
}

func newFakeConversationRepo() *fakeConversationRepo {
	return &fakeConversationRepo{
		rows:   make(map[string]*model.Conversation),
		claims: make(map[gocql.UUID]gocql.UUID),
		calls:  make(map[string]int),
	}
}

func (r *fakeConversationRepo) put(c *model.Conversation) {
	cp := *c
	r.rows[rowKey(c.ConversationID, c.UserID)] = &cp
}

func (r *fakeConversationRepo) row(convID, userID gocql.UUID) *model.Conversation {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rows[rowKey(convID, userID)]
}

func (r *fakeConversationRepo) channelsOf(ownerID gocql.UUID) []*model.Conversation {
	var out []*model.Conversation
	for _, c := range r.rows {
		if c.UserID == ownerID && c.ConversationType == consts.ConversationTypeChannel {
			out = append(out, c)
		}
	}
	return out
}

func (r *fakeConversationRepo) callCount(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[name]
}

func (r *fakeConversationRepo) GetChannelIDByOwner(_ context.Context, ownerID gocql.UUID) (*gocql.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls["GetChannelIDByOwner"]++
	if r.err != nil {
		return nil, r.err
	}
	if chs := r.channelsOf(ownerID); len(chs) > 0 {
		id := chs[0].ConversationID
		return &id, nil
	}
	return nil, nil
}

func (r *fakeConversationRepo) GetChannelByOwner(_ context.Context, ownerID gocql.UUID) (*model.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls["GetChannelByOwner"]++
	if r.err != nil {
		return nil, r.err
	}
	if chs := r.channelsOf(ownerID); len(chs) > 0 {
		return chs[0], nil
	}
	return nil, nil
}

func (r *fakeConversationRepo) ClaimDefaultChannel(_ context.Context, ownerID, convID gocql.UUID) (gocql.UUID, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls["ClaimDefaultChannel"]++
	if r.err != nil {
		return gocql.UUID{}, false, r.err
	}
	if existing, ok := r.claims[ownerID]; ok {
		return existing, false, nil
	}
	r.claims[ownerID] = convID
	return convID, true, nil
}

func (r *fakeConversationRepo) CreateChannel(_ context.Context, conv *model.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls["CreateChannel"]++
	if r.err != nil {
		return r.err
	}
	r.put(conv)
	return nil
}

func (r *fakeConversationRepo) GetSingleByPair(_ context.Context, userID, otherUserID gocql.UUID) (*model.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls["GetSingleByPair"]++
	if r.err != nil {
		return nil, r.err
	}
	for _, c := range r.rows {
		if c.UserID == userID && c.OtherUserID != nil && *c.OtherUserID == otherUserID &&
			c.ConversationType == consts.ConversationTypeSingle {
			return c, nil
		}
	}
	return nil, nil
}

func (r *fakeConversationRepo) CreatePair(_ context.Context, mine, theirs *model.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls["CreatePair"]++
	if r.err != nil {
		return r.err
	}
	r.put(mine)
	r.put(theirs)
	return nil
}

func (r *fakeConversationRepo) GetByID(_ context.Context, convID, userID gocql.UUID) (*model.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls["GetByID"]++
	if r.err != nil {
		return nil, r.err
	}
	return r.rows[rowKey(convID, userID)], nil
}

func (r *fakeConversationRepo) GetBlockFlag(_ context.Context, convID, userID gocql.UUID) (bool, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls["GetBlockFlag"]++
	if r.err != nil {
		return false, false, r.err
	}
	c, ok := r.rows[rowKey(convID, userID)]
	if !ok {
		return false, false, nil
	}
	return c.IsBlocked, true, nil
}

func (r *fakeConversationRepo) SetBlocked(_ context.Context, convID, userID gocql.UUID, blocked bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls["SetBlocked"]++
	if r.err != nil {
		return r.err
	}
	c, ok := r.rows[rowKey(convID, userID)]
	if !ok {
		c = &model.Conversation{ConversationID: convID, UserID: userID}
		r.rows[rowKey(convID, userID)] = c
	}
	c.IsBlocked = blocked
	return nil
}

type fakeUnreadRepo struct {
	mu         sync.Mutex
	counts     map[string]int64
	decrements int
	err        error
	failOn     *gocql.UUID
}

func newFakeUnreadRepo() *fakeUnreadRepo {
	return &fakeUnreadRepo{counts: make(map[string]int64)}
}

func (r *fakeUnreadRepo) GetUnread(_ context.Context, convID, userID gocql.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil && (r.failOn == nil || *r.failOn == convID) {
		return 0, r.err
	}
	return r.counts[rowKey(convID, userID)], nil
}

func (r *fakeUnreadRepo) Decrement(_ context.Context, convID, userID gocql.UUID, delta int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.decrements++
	r.counts[rowKey(convID, userID)] -= delta
	return nil
}

type fakeUserRepo struct {
	users map[string]map[gocql.UUID]bool
	err   error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]map[gocql.UUID]bool{
		consts.RoleCustomer:        {},
		consts.RoleServiceProvider: {},
	}}
}

func (r *fakeUserRepo) add(role string, id gocql.UUID) {
	r.users[role][id] = true
}

func (r *fakeUserRepo) Exists(_ context.Context, role string, userID gocql.UUID) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	return r.users[role][userID], nil
}

type fakeCache struct {
	mu     sync.Mutex
	values map[string]string
	gets   int
	sets   int
	getErr error
	setErr error
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: make(map[string]string)}
}

func (c *fakeCache) GetValue(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if c.getErr != nil {
		return "", c.getErr
	}
	return c.values[key], nil
}

func (c *fakeCache) SetValue(_ context.Context, key string, value interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	if c.setErr != nil {
		return c.setErr
	}
	c.values[key] = value.(string)
	return nil
}

// fakeMessageRepo 以偏移量模拟驱动分页状态
type fakeMessageRepo struct {
	messages  map[gocql.UUID][]*model.Message
	acks      map[string]*model.MessageAck
	ackCalls  int
	lastLimit int
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{
		messages: make(map[gocql.UUID][]*model.Message),
		acks:     make(map[string]*model.MessageAck),
	}
}

func (r *fakeMessageRepo) add(convID gocql.UUID, m *model.Message) {
	list := append(r.messages[convID], m)
	sort.Slice(list, func(i, j int) bool {
		return list[i].MessageTime.After(list[j].MessageTime)
	})
	r.messages[convID] = list
}

func (r *fakeMessageRepo) ListMessages(_ context.Context, convID gocql.UUID, pageSize int, pageState []byte, before *gocql.UUID) ([]*model.Message, []byte, error) {
	r.lastLimit = pageSize
	var filtered []*model.Message
	for _, m := range r.messages[convID] {
		if before == nil || m.MessageTime.Before(before.Time()) {
			filtered = append(filtered, m)
		}
	}

	offset := 0
	if len(pageState) > 0 {
		offset, _ = strconv.Atoi(string(pageState))
	}
	if offset > len(filtered) {
		offset = len(filtered)
	}
	end := offset + pageSize
	if end >= len(filtered) {
		return filtered[offset:], nil, nil
	}
	return filtered[offset:end], []byte(strconv.Itoa(end)), nil
}

func (r *fakeMessageRepo) GetAcknowledgements(_ context.Context, _ gocql.UUID, messageIDs []gocql.UUID) (map[string]*model.MessageAck, error) {
	r.ackCalls++
	res := make(map[string]*model.MessageAck)
	for _, id := range messageIDs {
		if a, ok := r.acks[id.String()]; ok {
			res[id.String()] = a
		}
	}
	return res, nil
}
