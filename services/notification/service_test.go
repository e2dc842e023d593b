package notification

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"

	"carhive/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeNotificationRepo is an in-memory NotificationRepository with the same
// atomicity guarantees the Mongo implementation gets from $inc.
type fakeNotificationRepo struct {
	mu            sync.Mutex
	notifications map[string]models.Notification
	counters      map[string]int64
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{
		notifications: make(map[string]models.Notification),
		counters:      make(map[string]int64),
	}
}

func (r *fakeNotificationRepo) Create(_ context.Context, n models.Notification) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	r.notifications[n.ID] = n
	return n.ID, nil
}

func (r *fakeNotificationRepo) GetByID(_ context.Context, id string) (*models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n, ok := r.notifications[id]; ok {
		return &n, nil
	}
	return nil, nil
}

func (r *fakeNotificationRepo) GetByUser(_ context.Context, userID string, _, _ int64) ([]models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Notification
	for _, n := range r.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeNotificationRepo) CountUnread(_ context.Context, userID string, ids []string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, id := range ids {
		if n, ok := r.notifications[id]; ok && n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) SetRead(_ context.Context, userID string, ids []string, read bool) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var changed int64
	for _, id := range ids {
		n, ok := r.notifications[id]
		if !ok || n.UserID != userID || n.IsRead == read {
			continue
		}
		n.IsRead = read
		r.notifications[id] = n
		changed++
	}
	return changed, nil
}

func (r *fakeNotificationRepo) DeleteMany(_ context.Context, userID string, ids []string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var deleted int64
	for _, id := range ids {
		if n, ok := r.notifications[id]; ok && n.UserID == userID {
			delete(r.notifications, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *fakeNotificationRepo) GetCounter(_ context.Context, userID string) (*models.NotificationCounter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return &models.NotificationCounter{UserID: userID, Count: r.counters[userID]}, nil
}

func (r *fakeNotificationRepo) IncrementCounter(_ context.Context, userID string, delta int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counters[userID] += delta
	return r.counters[userID], nil
}

func (r *fakeNotificationRepo) counterRows() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.counters)
}

// unreadCount recomputes the invariant's right-hand side from the records.
func (r *fakeNotificationRepo) unreadCount(userID string) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, n := range r.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count
}

type fakeUserRepo struct {
	users map[string]models.User
}

func (r *fakeUserRepo) Create(_ context.Context, u models.User) (string, error) { return u.ID, nil }
func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	if u, ok := r.users[id]; ok {
		return &u, nil
	}
	return nil, nil
}
func (r *fakeUserRepo) GetByEmail(_ context.Context, _ string) (*models.User, error) {
	return nil, nil
}
func (r *fakeUserRepo) Update(_ context.Context, _ models.User) error { return nil }

func (r *fakeUserRepo) SetFCMToken(_ context.Context, _ string, _ string) error { return nil }

func (r *fakeUserRepo) DeleteByID(_ context.Context, _ string) error { return nil }

type recordingMailer struct {
	mu   sync.Mutex
	sent []string
	fail bool
}

func (m *recordingMailer) Send(to, _, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("smtp unavailable")
	}
	m.sent = append(m.sent, to)
	return nil
}

type recordingPush struct {
	mu   sync.Mutex
	sent []string
	fail bool
}

func (p *recordingPush) Send(_ context.Context, token, _, _ string, _ map[string]string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return "", errors.New("fcm unavailable")
	}
	p.sent = append(p.sent, token)
	return "ticket-1", nil
}

func newService(repo *fakeNotificationRepo, users *fakeUserRepo, mailer *recordingMailer, push *recordingPush) *DefaultNotificationService {
	return &DefaultNotificationService{
		Repo:   repo,
		Users:  users,
		Mailer: mailer,
		Push:   push,
	}
}

func testUsers() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]models.User{
		"u1": {
			ID:          "u1",
			Email:       "u1@example.com",
			EnableEmail: true,
			FCMToken:    "token-u1",
		},
	}}
}

func TestNotifyCreatesRecordAndIncrementsCounter(t *testing.T) {
	repo := newFakeNotificationRepo()
	mailer := &recordingMailer{}
	push := &recordingPush{}
	svc := newService(repo, testUsers(), mailer, push)

	require.NoError(t, svc.Notify(context.Background(), "u1", "booking updated", "b1"))

	count, err := svc.UnreadCount(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.Equal(t, repo.unreadCount("u1"), count)
	assert.Equal(t, []string{"u1@example.com"}, mailer.sent)
	assert.Equal(t, []string{"token-u1"}, push.sent)
}

func TestNotifySurvivesDeliveryFailure(t *testing.T) {
	repo := newFakeNotificationRepo()
	svc := newService(repo, testUsers(), &recordingMailer{fail: true}, &recordingPush{fail: true})

	require.NoError(t, svc.Notify(context.Background(), "u1", "booking updated", ""))

	count, err := svc.UnreadCount(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count, "delivery failure must not roll back the counter")
}

// Walks the canonical counter-invariant sequence: 3 dispatches, mark 2 read,
// re-mark the same 2, delete the last unread one.
func TestCounterInvariantSequence(t *testing.T) {
	ctx := context.Background()
	repo := newFakeNotificationRepo()
	svc := newService(repo, testUsers(), &recordingMailer{}, &recordingPush{})

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.Notify(ctx, "u1", fmt.Sprintf("message %d", i), ""))
	}
	notifications, err := svc.GetNotifications(ctx, "u1", 1)
	require.NoError(t, err)
	require.Len(t, notifications, 3)

	count, _ := svc.UnreadCount(ctx, "u1")
	assert.Equal(t, int64(3), count)

	firstTwo := []string{notifications[0].ID, notifications[1].ID}

	changed, err := svc.MarkAsRead(ctx, "u1", firstTwo)
	require.NoError(t, err)
	assert.Equal(t, int64(2), changed)
	count, _ = svc.UnreadCount(ctx, "u1")
	assert.Equal(t, int64(1), count)

	// Marking already-read notifications again must not double-decrement.
	changed, err = svc.MarkAsRead(ctx, "u1", firstTwo)
	require.NoError(t, err)
	assert.Equal(t, int64(0), changed)
	count, _ = svc.UnreadCount(ctx, "u1")
	assert.Equal(t, int64(1), count)

	deleted, err := svc.Delete(ctx, "u1", []string{notifications[2].ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
	count, _ = svc.UnreadCount(ctx, "u1")
	assert.Equal(t, int64(0), count)
	assert.Equal(t, repo.unreadCount("u1"), count)
}

func TestMarkAsUnreadRestoresCounter(t *testing.T) {
	ctx := context.Background()
	repo := newFakeNotificationRepo()
	svc := newService(repo, testUsers(), &recordingMailer{}, &recordingPush{})

	require.NoError(t, svc.Notify(ctx, "u1", "m", ""))
	notifications, _ := svc.GetNotifications(ctx, "u1", 1)
	ids := []string{notifications[0].ID}

	_, err := svc.MarkAsRead(ctx, "u1", ids)
	require.NoError(t, err)

	changed, err := svc.MarkAsUnread(ctx, "u1", ids)
	require.NoError(t, err)
	assert.Equal(t, int64(1), changed)

	count, _ := svc.UnreadCount(ctx, "u1")
	assert.Equal(t, int64(1), count)
}

func TestDeleteOnlyDecrementsForUnread(t *testing.T) {
	ctx := context.Background()
	repo := newFakeNotificationRepo()
	svc := newService(repo, testUsers(), &recordingMailer{}, &recordingPush{})

	require.NoError(t, svc.Notify(ctx, "u1", "a", ""))
	require.NoError(t, svc.Notify(ctx, "u1", "b", ""))
	notifications, _ := svc.GetNotifications(ctx, "u1", 1)

	_, err := svc.MarkAsRead(ctx, "u1", []string{notifications[0].ID})
	require.NoError(t, err)

	// Deleting one read and one unread notification decrements by exactly one.
	deleted, err := svc.Delete(ctx, "u1", []string{notifications[0].ID, notifications[1].ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	count, _ := svc.UnreadCount(ctx, "u1")
	assert.Equal(t, int64(0), count)
}

func TestConcurrentNotifiesDoNotLoseUpdates(t *testing.T) {
	ctx := context.Background()
	repo := newFakeNotificationRepo()
	svc := newService(repo, testUsers(), &recordingMailer{}, &recordingPush{})

	const n = 50
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			_ = svc.Notify(ctx, "u1", fmt.Sprintf("message %d", i), "")
		}(i)
	}
	wg.Wait()

	count, err := svc.UnreadCount(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(n), count)
	assert.Equal(t, 1, repo.counterRows(), "concurrent upserts must not create duplicate counter rows")
	assert.Equal(t, repo.unreadCount("u1"), count)
}
