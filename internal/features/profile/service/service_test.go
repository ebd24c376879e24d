package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "userprofile-backend/internal/common/errors"
	"userprofile-backend/internal/crypto"
	"userprofile-backend/internal/features/profile/cache"
	"userprofile-backend/internal/features/profile/models"
	"userprofile-backend/internal/features/profile/repository"
)

// fakeRepo is an in-memory ProfileRepository that counts store reads.
type fakeRepo struct {
	mu       sync.Mutex
	docs     map[string]map[string]interface{}
	order    []string
	nextID   int
	getCalls int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{docs: make(map[string]map[string]interface{})}
}

func (r *fakeRepo) AddDocument(_ context.Context, fields map[string]interface{}) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	id := fmt.Sprintf("doc-%d", r.nextID)
	stored := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		stored[k] = v
	}
	r.docs[id] = stored
	r.order = append(r.order, id)
	return id, nil
}

func (r *fakeRepo) GetDocument(_ context.Context, id string) (*repository.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.getCalls++
	fields, ok := r.docs[id]
	if !ok {
		return nil, repository.ErrDocumentNotFound
	}
	return &repository.Document{ID: id, Fields: fields}, nil
}

func (r *fakeRepo) UpdateDocument(_ context.Context, id string, fields map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[id]
	if !ok {
		return repository.ErrDocumentNotFound
	}
	for k, v := range fields {
		doc[k] = v
	}
	return nil
}

func (r *fakeRepo) DeleteDocument(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.docs, id)
	for i, known := range r.order {
		if known == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *fakeRepo) QueryEqual(_ context.Context, field, value string) ([]repository.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []repository.Document
	for _, id := range r.order {
		if r.docs[id][field] == value {
			out = append(out, repository.Document{ID: id, Fields: r.docs[id]})
		}
	}
	return out, nil
}

func (r *fakeRepo) ListAll(_ context.Context) ([]repository.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]repository.Document, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, repository.Document{ID: id, Fields: r.docs[id]})
	}
	return out, nil
}

func (r *fakeRepo) reads() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.getCalls
}

func (r *fakeRepo) storedField(id, field string) interface{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.docs[id][field]
}

type fixture struct {
	svc       ProfileService
	repo      *fakeRepo
	encryptor *crypto.Service
}

func newFixture(t *testing.T, cacheTTL time.Duration) *fixture {
	t.Helper()
	encryptor, err := crypto.New()
	require.NoError(t, err)
	repo := newFakeRepo()
	return &fixture{
		svc:       NewProfileService(repo, cache.NewMemory(1000, cacheTTL), encryptor),
		repo:      repo,
		encryptor: encryptor,
	}
}

func createAlice(t *testing.T, f *fixture) *models.Profile {
	t.Helper()
	profile, err := f.svc.CreateProfile(context.Background(), &models.CreateProfileRequest{
		Username:             "alice",
		Email:                "a@x.io",
		SocialSecurityNumber: "111-22-3333",
	})
	require.NoError(t, err)
	return profile
}

func TestCreateProfile(t *testing.T) {
	t.Parallel()
	f := newFixture(t, time.Minute)

	profile := createAlice(t, f)

	assert.NotEmpty(t, profile.ID)
	assert.Equal(t, "alice", profile.Username)
	assert.Equal(t, "a@x.io", profile.Email)
	assert.Empty(t, profile.SocialSecurityNumber, "snapshot must not carry the SSN")

	stored, ok := f.repo.storedField(profile.ID, repository.FieldSSN).(string)
	require.True(t, ok)
	assert.NotEqual(t, "111-22-3333", stored, "SSN must be stored as ciphertext")

	plaintext, err := f.encryptor.Decrypt(stored)
	require.NoError(t, err)
	assert.Equal(t, "111-22-3333", plaintext)
}

func TestCreateProfile_DuplicateUsername(t *testing.T) {
	t.Parallel()
	f := newFixture(t, time.Minute)
	createAlice(t, f)

	_, err := f.svc.CreateProfile(context.Background(), &models.CreateProfileRequest{
		Username:             "alice",
		Email:                "other@x.io",
		SocialSecurityNumber: "000-00-0000",
	})
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.True(t, appErr.IsAlreadyExists())
	assert.NotContains(t, appErr.Message, "000-00-0000")
}

func TestCreateProfile_DuplicateEmail(t *testing.T) {
	t.Parallel()
	f := newFixture(t, time.Minute)
	createAlice(t, f)

	_, err := f.svc.CreateProfile(context.Background(), &models.CreateProfileRequest{
		Username:             "bob",
		Email:                "a@x.io",
		SocialSecurityNumber: "000-00-0000",
	})
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.True(t, appErr.IsAlreadyExists())
}

func TestGetProfile_NotFound(t *testing.T) {
	t.Parallel()
	f := newFixture(t, time.Minute)

	_, err := f.svc.GetProfile(context.Background(), "does-not-exist")
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.True(t, appErr.IsNotFound())
}

func TestGetProfile_ReadThroughCache(t *testing.T) {
	t.Parallel()
	f := newFixture(t, time.Minute)
	created := createAlice(t, f)
	ctx := context.Background()

	first, err := f.svc.GetProfile(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", first.Username)
	assert.Empty(t, first.SocialSecurityNumber)

	second, err := f.svc.GetProfile(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	assert.Equal(t, 1, f.repo.reads(), "second read within the TTL must come from the cache")
}

func TestGetProfile_ExpiredEntryReadsStoreAgain(t *testing.T) {
	t.Parallel()
	f := newFixture(t, 50*time.Millisecond)
	created := createAlice(t, f)
	ctx := context.Background()

	_, err := f.svc.GetProfile(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, 1, f.repo.reads())

	time.Sleep(120 * time.Millisecond)

	_, err = f.svc.GetProfile(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, f.repo.reads(), "expired entry must trigger a fresh store read")
}

func TestUpdateProfile(t *testing.T) {
	t.Parallel()
	f := newFixture(t, time.Minute)
	created := createAlice(t, f)
	ctx := context.Background()

	ciphertextBefore := f.repo.storedField(created.ID, repository.FieldSSN)

	// Warm the cache so the update has something to invalidate.
	_, err := f.svc.GetProfile(ctx, created.ID)
	require.NoError(t, err)

	updated, err := f.svc.UpdateProfile(ctx, created.ID, &models.UpdateProfileRequest{
		Username: "alice2",
		Email:    "a2@x.io",
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "alice2", updated.Username)
	assert.Equal(t, "a2@x.io", updated.Email)

	assert.Equal(t, ciphertextBefore, f.repo.storedField(created.ID, repository.FieldSSN),
		"update must not touch the stored ciphertext")

	got, err := f.svc.GetProfile(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice2", got.Username, "stale cache entry must be invalidated on update")
}

func TestUpdateProfile_NotFound(t *testing.T) {
	t.Parallel()
	f := newFixture(t, time.Minute)

	_, err := f.svc.UpdateProfile(context.Background(), "ghost", &models.UpdateProfileRequest{
		Username: "x", Email: "x@x.io",
	})
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.True(t, appErr.IsNotFound())
}

func TestDeleteProfile(t *testing.T) {
	t.Parallel()
	f := newFixture(t, time.Minute)
	created := createAlice(t, f)
	ctx := context.Background()

	// Warm the cache; a delete must not leave the entry readable.
	_, err := f.svc.GetProfile(ctx, created.ID)
	require.NoError(t, err)

	result, err := f.svc.DeleteProfile(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "User deleted successfully.", result)

	_, err = f.svc.GetProfile(ctx, created.ID)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.True(t, appErr.IsNotFound())
}

func TestDeleteProfile_NotFound(t *testing.T) {
	t.Parallel()
	f := newFixture(t, time.Minute)

	_, err := f.svc.DeleteProfile(context.Background(), "ghost")
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.True(t, appErr.IsNotFound())
}

func TestListProfiles_NoSearchReturnsAll(t *testing.T) {
	t.Parallel()
	f := newFixture(t, time.Minute)
	createAlice(t, f)
	_, err := f.svc.CreateProfile(context.Background(), &models.CreateProfileRequest{
		Username: "bob", Email: "b@x.io", SocialSecurityNumber: "222-33-4444",
	})
	require.NoError(t, err)

	for _, search := range []string{"", "   "} {
		profiles, err := f.svc.ListProfiles(context.Background(), search)
		require.NoError(t, err)
		require.Len(t, profiles, 2)
		for _, p := range profiles {
			assert.Empty(t, p.SocialSecurityNumber)
		}
	}
}

func TestListProfiles_EmptyStore(t *testing.T) {
	t.Parallel()
	f := newFixture(t, time.Minute)

	profiles, err := f.svc.ListProfiles(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, profiles)
}

func TestListProfiles_SearchExactMatch(t *testing.T) {
	t.Parallel()
	f := newFixture(t, time.Minute)
	created := createAlice(t, f)

	byUsername, err := f.svc.ListProfiles(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, byUsername, 1)
	assert.Equal(t, created.ID, byUsername[0].ID)

	byEmail, err := f.svc.ListProfiles(context.Background(), "a@x.io")
	require.NoError(t, err)
	require.Len(t, byEmail, 1)
	assert.Equal(t, created.ID, byEmail[0].ID)

	// Prefix and substring forms must not match.
	_, err = f.svc.ListProfiles(context.Background(), "ali")
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.True(t, appErr.IsNotFound())
}

func TestListProfiles_SearchNoMatch(t *testing.T) {
	t.Parallel()
	f := newFixture(t, time.Minute)
	createAlice(t, f)

	_, err := f.svc.ListProfiles(context.Background(), "ghost")
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.True(t, appErr.IsNotFound())
}
