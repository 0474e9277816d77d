package services

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/petkeeper/internal/common"
	"github.com/dmitrijs2005/petkeeper/internal/dbx"
	"github.com/dmitrijs2005/petkeeper/internal/server/models"
	"github.com/dmitrijs2005/petkeeper/internal/server/repositories/pets"
	"github.com/dmitrijs2005/petkeeper/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/petkeeper/internal/server/repositories/reminders"
	"github.com/dmitrijs2005/petkeeper/internal/server/repositories/users"
	"github.com/stretchr/testify/require"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return db, mock
}

// --- users ---

type fakeUsersRepo struct {
	mu        sync.Mutex
	byID      map[string]*models.User
	getErr    error
	createErr error
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byID: map[string]*models.User{}}
}

func (f *fakeUsersRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return nil, common.ErrorAlreadyExists
		}
	}
	cp := *u
	cp.CreatedAt = time.Now()
	f.byID[u.ID] = &cp
	return &cp, nil
}

func (f *fakeUsersRepo) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, u := range f.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetUserByID(_ context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsersRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.byID, id)
	return nil
}

// --- pets ---

type fakePetsRepo struct {
	byID map[string]*models.Pet
	err  error
}

func newFakePetsRepo() *fakePetsRepo {
	return &fakePetsRepo{byID: map[string]*models.Pet{}}
}

func (f *fakePetsRepo) Create(_ context.Context, p *models.Pet) (*models.Pet, error) {
	if f.err != nil {
		return nil, f.err
	}
	cp := *p
	f.byID[p.ID] = &cp
	return &cp, nil
}

func (f *fakePetsRepo) owned(ownerID, id string) (*models.Pet, error) {
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.byID[id]
	if !ok || p.OwnerID != ownerID {
		return nil, common.ErrorNotFound
	}
	return p, nil
}

func (f *fakePetsRepo) Update(_ context.Context, ownerID, id string, upd models.PetUpdate) (*models.Pet, error) {
	p, err := f.owned(ownerID, id)
	if err != nil {
		return nil, err
	}
	if upd.PetName != nil {
		p.PetName = *upd.PetName
	}
	if upd.PetImg != nil {
		p.PetImg = *upd.PetImg
	}
	if upd.Weight != nil {
		p.Weight = *upd.Weight
	}
	cp := *p
	return &cp, nil
}

func (f *fakePetsRepo) Delete(_ context.Context, ownerID, id string) (*models.Pet, error) {
	p, err := f.owned(ownerID, id)
	if err != nil {
		return nil, err
	}
	delete(f.byID, id)
	return p, nil
}

func (f *fakePetsRepo) Get(_ context.Context, ownerID, id string) (*models.Pet, error) {
	p, err := f.owned(ownerID, id)
	if err != nil {
		return nil, err
	}
	cp := *p
	return &cp, nil
}

func (f *fakePetsRepo) ListByOwner(_ context.Context, ownerID string) ([]*models.Pet, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*models.Pet
	for _, p := range f.byID {
		if p.OwnerID == ownerID {
			out = append(out, p)
		}
	}
	return out, nil
}

// --- reminders ---

type fakeRemindersRepo struct {
	byID map[string]*models.Reminder
	err  error
}

func newFakeRemindersRepo() *fakeRemindersRepo {
	return &fakeRemindersRepo{byID: map[string]*models.Reminder{}}
}

func (f *fakeRemindersRepo) Create(_ context.Context, m *models.Reminder) (*models.Reminder, error) {
	if f.err != nil {
		return nil, f.err
	}
	cp := *m
	f.byID[m.ID] = &cp
	return &cp, nil
}

func (f *fakeRemindersRepo) List(_ context.Context, userID, petID string) ([]*models.Reminder, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*models.Reminder
	for _, m := range f.byID {
		if m.UserID == userID && (petID == "" || m.PetID == petID) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeRemindersRepo) Get(_ context.Context, userID, id string) (*models.Reminder, error) {
	m, ok := f.byID[id]
	if !ok || m.UserID != userID {
		return nil, common.ErrorNotFound
	}
	return m, nil
}

func (f *fakeRemindersRepo) Delete(ctx context.Context, userID, id string) (*models.Reminder, error) {
	m, err := f.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	delete(f.byID, id)
	return m, nil
}

// --- refresh tokens ---

// failingRefreshRepo wraps a real store and injects errors.
type failingRefreshRepo struct {
	refreshtokens.Repository
	createErr  error
	consumeErr error
}

func (f *failingRefreshRepo) Create(ctx context.Context, userID, token string, exp time.Time) error {
	if f.createErr != nil {
		return f.createErr
	}
	return f.Repository.Create(ctx, userID, token, exp)
}

func (f *failingRefreshRepo) Consume(ctx context.Context, token string) (*models.RefreshToken, error) {
	if f.consumeErr != nil {
		return nil, f.consumeErr
	}
	return f.Repository.Consume(ctx, token)
}

// --- manager ---

type fakeRepoManager struct {
	users     *fakeUsersRepo
	pets      *fakePetsRepo
	reminders *fakeRemindersRepo
	refresh   refreshtokens.Repository
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		users:     newFakeUsersRepo(),
		pets:      newFakePetsRepo(),
		reminders: newFakeRemindersRepo(),
		refresh:   refreshtokens.NewMemoryRepository(),
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error    { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository                 { return m.users }
func (m *fakeRepoManager) Pets(dbx.DBTX) pets.Repository                   { return m.pets }
func (m *fakeRepoManager) Reminders(dbx.DBTX) reminders.Repository         { return m.reminders }
func (m *fakeRepoManager) RefreshTokens(dbx.DBTX) refreshtokens.Repository { return m.refresh }
