package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"sevasetu/internal/auth"
	"sevasetu/internal/certificates"
	"sevasetu/internal/models"
	"sevasetu/internal/testutil"
)

const testSecret = "test-secret"

type fakeRenderer struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (r *fakeRenderer) Render(ctx context.Context, data certificates.Data) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return []byte("%PDF-fake"), nil
}

type recordingPublisher struct {
	mu      sync.Mutex
	updates [][]LeaderboardEntry
}

func (p *recordingPublisher) PublishLeaderboard(entries []LeaderboardEntry) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.updates = append(p.updates, entries)
}

type fixture struct {
	db        *gorm.DB
	svc       *Service
	tokens    *auth.TokenService
	renderer  *fakeRenderer
	publisher *recordingPublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.OpenDB(t)
	store, err := certificates.NewDiskStorage(t.TempDir())
	require.NoError(t, err)

	renderer := &fakeRenderer{}
	publisher := &recordingPublisher{}
	tokens := auth.NewTokenService(testSecret, 12*time.Hour)
	logger := testutil.Logger()

	svc := New(db, tokens, certificates.NewIssuer(renderer, store, logger), Options{
		Publisher: publisher,
		Logger:    logger,
	})
	return &fixture{db: db, svc: svc, tokens: tokens, renderer: renderer, publisher: publisher}
}

func (f *fixture) user(t *testing.T, name string, role models.Role, mutate ...func(*models.User)) auth.Identity {
	t.Helper()

	u := models.User{
		Name:         name,
		Email:        models.NormalizeEmail(name + "@example.org"),
		PasswordHash: "unused",
		Role:         role,
		City:         "Pune",
		State:        "MH",
		Verified:     role.VerifiedOnSignup(),
	}
	for _, m := range mutate {
		m(&u)
	}
	require.NoError(t, f.db.Create(&u).Error)
	return auth.Identity{UserID: u.ID, Role: u.Role}
}

func (f *fixture) task(t *testing.T, ngo auth.Identity, title string) models.Task {
	t.Helper()
	task, err := f.svc.CreateTask(context.Background(), ngo, TaskInput{Title: title})
	require.NoError(t, err)
	return *task
}

func (f *fixture) submission(t *testing.T, volunteer auth.Identity, task models.Task) models.Submission {
	t.Helper()
	sub, err := f.svc.SubmitProof(context.Background(), volunteer, task.ID, "https://proof.example.org/"+task.Title)
	require.NoError(t, err)
	return *sub
}

func (f *fixture) points(t *testing.T, id auth.Identity) int {
	t.Helper()
	var u models.User
	require.NoError(t, f.db.First(&u, id.UserID).Error)
	return u.Points
}

func (f *fixture) count(t *testing.T, model interface{}, query ...interface{}) int64 {
	t.Helper()
	var n int64
	q := f.db.Model(model)
	if len(query) > 0 {
		q = q.Where(query[0], query[1:]...)
	}
	require.NoError(t, q.Count(&n).Error)
	return n
}

func withPoints(p int) func(*models.User) {
	return func(u *models.User) { u.Points = p }
}

func verified(u *models.User) { u.Verified = true }

func requireKind(t *testing.T, err error, kind Kind) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, kind, KindOf(err), err.Error())
}
