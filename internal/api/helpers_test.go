package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/wanderlist/api/internal/api"
	"github.com/wanderlist/api/internal/destination"
	"github.com/wanderlist/api/internal/external"
	"github.com/wanderlist/api/internal/identity"
)

const (
	callerID   = "user-123"
	callerTok  = "valid-token"
	strangerID = "user-456"
)

// ---- mock implementations ----

type mockRepo struct {
	listFn   func(ctx context.Context, userID string) ([]destination.Destination, error)
	getFn    func(ctx context.Context, userID string, id uuid.UUID) (destination.Destination, error)
	createFn func(ctx context.Context, d destination.Destination) (destination.Destination, error)
	updateFn func(ctx context.Context, d destination.Destination) (destination.Destination, error)
	deleteFn func(ctx context.Context, userID string, id uuid.UUID) error
	searchFn func(ctx context.Context, userID string, f destination.SearchFilter) ([]destination.Destination, error)
}

func (m *mockRepo) ListByUser(ctx context.Context, userID string) ([]destination.Destination, error) {
	return m.listFn(ctx, userID)
}
func (m *mockRepo) GetByID(ctx context.Context, userID string, id uuid.UUID) (destination.Destination, error) {
	return m.getFn(ctx, userID, id)
}
func (m *mockRepo) Create(ctx context.Context, d destination.Destination) (destination.Destination, error) {
	return m.createFn(ctx, d)
}
func (m *mockRepo) Update(ctx context.Context, d destination.Destination) (destination.Destination, error) {
	return m.updateFn(ctx, d)
}
func (m *mockRepo) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	return m.deleteFn(ctx, userID, id)
}
func (m *mockRepo) Search(ctx context.Context, userID string, f destination.SearchFilter) ([]destination.Destination, error) {
	return m.searchFn(ctx, userID, f)
}

type mockStore struct {
	presignFn func(ctx context.Context, key, contentType string) (string, error)
	removeFn  func(ctx context.Context, key string) error
	publicFn  func(key string) string
}

func (m *mockStore) PresignUpload(ctx context.Context, key, contentType string) (string, error) {
	return m.presignFn(ctx, key, contentType)
}
func (m *mockStore) Remove(ctx context.Context, key string) error { return m.removeFn(ctx, key) }
func (m *mockStore) PublicURL(key string) string                  { return m.publicFn(key) }

type mockAuth struct {
	signUpFn    func(ctx context.Context, email, password, fullName string) (identity.Credentials, error)
	signInFn    func(ctx context.Context, email, password string) (identity.Credentials, error)
	signOutFn   func(ctx context.Context, token string) error
	userFn      func(ctx context.Context, token string) (identity.User, error)
	sendResetFn func(ctx context.Context, email, redirectTo string) error
}

func (m *mockAuth) SignUp(ctx context.Context, email, password, fullName string) (identity.Credentials, error) {
	return m.signUpFn(ctx, email, password, fullName)
}
func (m *mockAuth) SignIn(ctx context.Context, email, password string) (identity.Credentials, error) {
	return m.signInFn(ctx, email, password)
}
func (m *mockAuth) SignOut(ctx context.Context, token string) error {
	return m.signOutFn(ctx, token)
}
func (m *mockAuth) UserFromToken(ctx context.Context, token string) (identity.User, error) {
	return m.userFn(ctx, token)
}
func (m *mockAuth) SendPasswordReset(ctx context.Context, email, redirectTo string) error {
	return m.sendResetFn(ctx, email, redirectTo)
}

type mockCatalog struct {
	fetchAllFn func(ctx context.Context) ([]external.Country, error)
	byCodeFn   func(ctx context.Context, code string) (external.Country, error)
}

func (m *mockCatalog) FetchAll(ctx context.Context) ([]external.Country, error) {
	return m.fetchAllFn(ctx)
}
func (m *mockCatalog) FetchByCode(ctx context.Context, code string) (external.Country, error) {
	return m.byCodeFn(ctx, code)
}

type mockPhotos struct {
	searchFn func(ctx context.Context, query string, page, perPage int) (external.PhotoPage, error)
}

func (m *mockPhotos) Search(ctx context.Context, query string, page, perPage int) (external.PhotoPage, error) {
	return m.searchFn(ctx, query, page, perPage)
}

type mockCountryCache struct {
	getFn func(ctx context.Context) ([]external.Country, error)
	setFn func(ctx context.Context, countries []external.Country) error
}

func (m *mockCountryCache) Get(ctx context.Context) ([]external.Country, error) {
	return m.getFn(ctx)
}
func (m *mockCountryCache) Set(ctx context.Context, countries []external.Country) error {
	return m.setFn(ctx, countries)
}

type mockPinger struct{ err error }

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

// ---- test environment ----

// env bundles all mocks with working defaults: the caller's token resolves
// to callerID, the cache always misses, and storage always succeeds.
// Individual tests override the functions they care about.
type env struct {
	repo      *mockRepo
	store     *mockStore
	auth      *mockAuth
	countries *mockCatalog
	photos    *mockPhotos
	cache     *mockCountryCache
	opts      api.Options
	db, redis *mockPinger
}

func newEnv() *env {
	return &env{
		repo: &mockRepo{},
		store: &mockStore{
			presignFn: func(_ context.Context, key, _ string) (string, error) {
				return "https://storage.example.com/presigned/" + key, nil
			},
			removeFn: func(_ context.Context, _ string) error { return nil },
			publicFn: func(key string) string { return "https://storage.example.com/wanderlist-images/" + key },
		},
		auth: &mockAuth{
			userFn: func(_ context.Context, token string) (identity.User, error) {
				if token == callerTok {
					return identity.User{ID: callerID, Email: "caller@example.com"}, nil
				}
				return identity.User{}, identity.ErrTokenInvalid
			},
		},
		countries: &mockCatalog{},
		photos:    &mockPhotos{},
		cache: &mockCountryCache{
			getFn: func(_ context.Context) ([]external.Country, error) { return nil, nil },
			setFn: func(_ context.Context, _ []external.Country) error { return nil },
		},
		opts:  api.Options{FrontendURL: "https://app.example.com", PhotosConfigured: true},
		db:    &mockPinger{},
		redis: &mockPinger{},
	}
}

func (e *env) router() http.Handler {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := api.NewHandlers(e.repo, e.store, e.auth, e.countries, e.photos, e.cache, e.opts, log)
	return api.NewRouter(h, e.auth, []string{"*"}, e.db, e.redis, log)
}

// do runs a request against the router. A non-nil body is JSON-encoded;
// a non-empty token is sent as a bearer header.
func (e *env) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router().ServeHTTP(w, req)
	return w
}

// decodeBody unmarshals a response recorder body into T.
func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&v))
	return v
}

// errBody is the uniform error response shape.
type errBody struct {
	Error   string `json:"error"`
	Details []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"details"`
}
