package services

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/IT22889256/PAF/internal/logger"
	"github.com/IT22889256/PAF/internal/repos"
	"github.com/IT22889256/PAF/internal/sse"
	"github.com/IT22889256/PAF/internal/types"
)

// captureEmitter records emitted messages instead of pushing them to a hub.
type captureEmitter struct {
	mu   sync.Mutex
	msgs []sse.SSEMessage
}

func (e *captureEmitter) Emit(ctx context.Context, msg sse.SSEMessage) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.msgs = append(e.msgs, msg)
}

func (e *captureEmitter) messages() []sse.SSEMessage {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]sse.SSEMessage, len(e.msgs))
	copy(out, e.msgs)
	return out
}

func (e *captureEmitter) reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.msgs = nil
}

type testEnv struct {
	db      *gorm.DB
	log     *logger.Logger
	emitter *captureEmitter

	userRepo         repos.UserRepo
	postRepo         repos.PostRepo
	communityRepo    repos.CommunityRepo
	messageRepo      repos.MessageRepo
	notificationRepo repos.NotificationRepo
	planRepo         repos.LearningPlanRepo

	notifications NotificationService
	users         UserService
	posts         PostService
	communities   CommunityService
	plans         LearningPlanService
}

var testDBSeq atomic.Int64

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	log, err := logger.New("development")
	require.NoError(t, err)

	dsn := fmt.Sprintf("file:svc_test_%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&types.User{},
		&types.Post{},
		&types.Community{},
		&types.CommunityMessage{},
		&types.Notification{},
		&types.LearningPlan{},
	))

	env := &testEnv{
		db:               db,
		log:              log,
		emitter:          &captureEmitter{},
		userRepo:         repos.NewUserRepo(db, log),
		postRepo:         repos.NewPostRepo(db, log),
		communityRepo:    repos.NewCommunityRepo(db, log),
		messageRepo:      repos.NewMessageRepo(db, log),
		notificationRepo: repos.NewNotificationRepo(db, log),
		planRepo:         repos.NewLearningPlanRepo(db, log),
	}
	env.notifications = NewNotificationService(db, log, env.notificationRepo, env.userRepo, env.emitter)
	env.users = NewUserService(db, log, env.userRepo, env.notifications)
	env.posts = NewPostService(db, log, env.postRepo, env.userRepo, env.notifications)
	env.communities = NewCommunityService(db, log, env.communityRepo, env.messageRepo, env.userRepo, env.emitter)
	env.plans = NewLearningPlanService(db, log, env.planRepo)
	return env
}

func (env *testEnv) createUser(t *testing.T, name string) *types.User {
	t.Helper()
	now := time.Now().UTC()
	user := &types.User{
		ID:        uuid.New(),
		Name:      name,
		Email:     fmt.Sprintf("%s@example.com", uuid.New()),
		Password:  "hashed",
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, env.userRepo.Create(context.Background(), nil, user))
	return user
}

func (env *testEnv) notificationsFor(t *testing.T, userID uuid.UUID) []*types.Notification {
	t.Helper()
	list, err := env.notificationRepo.ListByRecipient(context.Background(), nil, userID)
	require.NoError(t, err)
	return list
}
