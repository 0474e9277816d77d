package rest

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/petkeeper/internal/common"
	"github.com/dmitrijs2005/petkeeper/internal/logging"
	"github.com/dmitrijs2005/petkeeper/internal/server/models"
	"github.com/dmitrijs2005/petkeeper/internal/server/services"
	"github.com/dmitrijs2005/petkeeper/internal/server/validation"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

// --- users ---

type account struct {
	user     *models.User
	password string
}

type fakeUsers struct {
	mu         sync.Mutex
	accounts   map[string]*account // by email
	sessions   map[string]string   // access token -> user id
	refresh    map[string]string   // refresh token -> user id
	resolveErr error
	seq        int
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{
		accounts: map[string]*account{},
		sessions: map[string]string{},
		refresh:  map[string]string{},
	}
}

func (f *fakeUsers) Register(_ context.Context, email, password string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.accounts[email]; ok {
		return nil, common.ErrorAlreadyExists
	}
	u := &models.User{ID: uuid.NewString(), Email: email, PasswordHash: "hashed:" + password, CreatedAt: time.Now()}
	f.accounts[email] = &account{user: u, password: password}
	return u, nil
}

func (f *fakeUsers) issue(u *models.User) *services.TokenPair {
	f.seq++
	pair := &services.TokenPair{
		AccessToken:  "access-" + u.ID + "-" + strconv.Itoa(f.seq),
		RefreshToken: "refresh-" + u.ID + "-" + strconv.Itoa(f.seq),
	}
	f.sessions[pair.AccessToken] = u.ID
	f.refresh[pair.RefreshToken] = u.ID
	return pair
}

func (f *fakeUsers) Login(_ context.Context, email, password string) (*models.User, *services.TokenPair, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.accounts[email]
	if !ok || a.password != password {
		return nil, nil, common.ErrorUnauthorized
	}
	return a.user, f.issue(a.user), nil
}

func (f *fakeUsers) Logout(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.refresh, token)
	return nil
}

func (f *fakeUsers) RefreshToken(_ context.Context, token string) (*services.TokenPair, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, ok := f.refresh[token]
	if !ok {
		return nil, common.ErrInvalidToken
	}
	delete(f.refresh, token)
	for _, a := range f.accounts {
		if a.user.ID == id {
			return f.issue(a.user), nil
		}
	}
	return nil, common.ErrInvalidToken
}

func (f *fakeUsers) ResolveSession(_ context.Context, token string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.resolveErr != nil {
		return nil, f.resolveErr
	}
	id, ok := f.sessions[token]
	if !ok {
		return nil, common.ErrInvalidToken
	}
	for _, a := range f.accounts {
		if a.user.ID == id {
			return a.user, nil
		}
	}
	return nil, common.ErrorUnauthorized
}

func (f *fakeUsers) DeleteAccount(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for email, a := range f.accounts {
		if a.user.ID == userID {
			delete(f.accounts, email)
			return nil
		}
	}
	return common.ErrorNotFound
}

// --- pets ---

type fakePets struct {
	byID        map[string]*models.Pet
	imagesReady bool
}

func newFakePets() *fakePets {
	return &fakePets{byID: map[string]*models.Pet{}}
}

func (f *fakePets) Create(_ context.Context, ownerID string, p *models.Pet) (*models.Pet, error) {
	p.ID = uuid.NewString()
	p.OwnerID = ownerID
	f.byID[p.ID] = p
	return p, nil
}

func (f *fakePets) Get(_ context.Context, ownerID, id string) (*models.Pet, error) {
	p, ok := f.byID[id]
	if !ok || p.OwnerID != ownerID {
		return nil, services.ErrPetNotFound
	}
	return p, nil
}

func (f *fakePets) Update(ctx context.Context, ownerID, id string, upd models.PetUpdate) (*models.Pet, error) {
	p, err := f.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if upd.PetName != nil {
		p.PetName = *upd.PetName
	}
	return p, nil
}

func (f *fakePets) Delete(ctx context.Context, ownerID, id string) (*models.Pet, error) {
	p, err := f.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	delete(f.byID, id)
	return p, nil
}

func (f *fakePets) List(_ context.Context, ownerID string) ([]*models.Pet, error) {
	out := []*models.Pet{}
	for _, p := range f.byID {
		if p.OwnerID == ownerID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePets) ImageUploadURL(ctx context.Context, ownerID, id string) (string, string, error) {
	if !f.imagesReady {
		return "", "", common.ErrorNotConfigured
	}
	p, err := f.Get(ctx, ownerID, id)
	if err != nil {
		return "", "", err
	}
	p.PetImg = "pets/" + ownerID + "/" + id + "/img"
	return "https://s3.test/put/" + p.PetImg, p.PetImg, nil
}

func (f *fakePets) ImageDownloadURL(ctx context.Context, ownerID, id string) (string, error) {
	if !f.imagesReady {
		return "", common.ErrorNotConfigured
	}
	p, err := f.Get(ctx, ownerID, id)
	if err != nil {
		return "", err
	}
	if p.PetImg == "" {
		return "", services.ErrNoImage
	}
	return "https://s3.test/get/" + p.PetImg, nil
}

// --- reminders ---

type fakeReminders struct {
	pets *fakePets
	byID map[string]*models.Reminder
	err  error
}

func (f *fakeReminders) Create(ctx context.Context, userID string, m *models.Reminder) (*models.Reminder, error) {
	if _, err := f.pets.Get(ctx, userID, m.PetID); err != nil {
		return nil, err
	}
	m.ID = uuid.NewString()
	m.UserID = userID
	f.byID[m.ID] = m
	return m, nil
}

func (f *fakeReminders) List(ctx context.Context, userID, petID string) ([]*models.Reminder, error) {
	if f.err != nil {
		return nil, f.err
	}
	if petID != "" {
		if _, err := f.pets.Get(ctx, userID, petID); err != nil {
			return nil, err
		}
	}
	out := []*models.Reminder{}
	for _, m := range f.byID {
		if m.UserID == userID && (petID == "" || m.PetID == petID) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeReminders) Get(_ context.Context, userID, id string) (*models.Reminder, error) {
	m, ok := f.byID[id]
	if !ok || m.UserID != userID {
		return nil, services.ErrReminderNotFound
	}
	return m, nil
}

func (f *fakeReminders) Delete(ctx context.Context, userID, id string) (*models.Reminder, error) {
	m, err := f.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	delete(f.byID, id)
	return m, nil
}

// --- harness ---

type testEnv struct {
	server    *Server
	handler   http.Handler
	users     *fakeUsers
	pets      *fakePets
	reminders *fakeReminders
	throttle  *LoginThrottle
}

func discardLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	v, err := validation.New()
	require.NoError(t, err)

	pets := newFakePets()
	env := &testEnv{
		users:     newFakeUsers(),
		pets:      pets,
		reminders: &fakeReminders{pets: pets, byID: map[string]*models.Reminder{}},
		throttle:  NewLoginThrottle(3, 15*time.Minute, 10*time.Minute),
	}
	env.server = NewServer(Options{
		Address:   "127.0.0.1:0",
		Logger:    discardLogger(),
		Users:     env.users,
		Pets:      env.pets,
		Reminders: env.reminders,
		Validator: v,
		Cookies: CookieSettings{
			Name:     "jwt",
			Secure:   true,
			SameSite: http.SameSiteNoneMode,
			MaxAge:   time.Hour,
		},
		Throttle: env.throttle,
	})
	env.handler = env.server.Handler()
	return env
}

type requestOption func(*http.Request)

func withCookie(token string) requestOption {
	return func(r *http.Request) { r.AddCookie(&http.Cookie{Name: "jwt", Value: token}) }
}

func withBearer(token string) requestOption {
	return func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }
}

func withRemoteAddr(addr string) requestOption {
	return func(r *http.Request) { r.RemoteAddr = addr }
}

func withHeader(key, value string) requestOption {
	return func(r *http.Request) { r.Header.Set(key, value) }
}

func (e *testEnv) do(method, target, body string, opts ...requestOption) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, rd)
	req.Header.Set("Content-Type", "application/json")
	for _, opt := range opts {
		opt(req)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

// login registers a user and returns a session token for it.
func (e *testEnv) login(t *testing.T, email string) (string, *services.TokenPair) {
	t.Helper()
	_, err := e.users.Register(context.Background(), email, "secret1")
	require.NoError(t, err)
	u, pair, err := e.users.Login(context.Background(), email, "secret1")
	require.NoError(t, err)
	return u.ID, pair
}
