package api

import (
	"context"

	"github.com/google/uuid"

	"github.com/wanderlist/api/internal/destination"
	"github.com/wanderlist/api/internal/external"
	"github.com/wanderlist/api/internal/identity"
)

// DestinationRepo defines the persistence operations needed by handlers.
// Every operation is scoped by the owning user's id.
type DestinationRepo interface {
	ListByUser(ctx context.Context, userID string) ([]destination.Destination, error)
	GetByID(ctx context.Context, userID string, id uuid.UUID) (destination.Destination, error)
	Create(ctx context.Context, d destination.Destination) (destination.Destination, error)
	Update(ctx context.Context, d destination.Destination) (destination.Destination, error)
	Delete(ctx context.Context, userID string, id uuid.UUID) error
	Search(ctx context.Context, userID string, f destination.SearchFilter) ([]destination.Destination, error)
}

// ObjectStore defines the object storage operations needed by handlers.
type ObjectStore interface {
	PresignUpload(ctx context.Context, key, contentType string) (string, error)
	Remove(ctx context.Context, key string) error
	PublicURL(key string) string
}

// TokenVerifier resolves a bearer token to its user. Satisfied by the
// identity client; the auth middleware depends on nothing more.
type TokenVerifier interface {
	UserFromToken(ctx context.Context, token string) (identity.User, error)
}

// IdentityProvider defines the full auth operations needed by the auth handlers.
type IdentityProvider interface {
	TokenVerifier
	SignUp(ctx context.Context, email, password, fullName string) (identity.Credentials, error)
	SignIn(ctx context.Context, email, password string) (identity.Credentials, error)
	SignOut(ctx context.Context, token string) error
	SendPasswordReset(ctx context.Context, email, redirectTo string) error
}

// CountryCatalog defines the country metadata lookups needed by handlers.
type CountryCatalog interface {
	FetchAll(ctx context.Context) ([]external.Country, error)
	FetchByCode(ctx context.Context, code string) (external.Country, error)
}

// PhotoSearch defines the photo search operation needed by handlers.
type PhotoSearch interface {
	Search(ctx context.Context, query string, page, perPage int) (external.PhotoPage, error)
}

// CountryCache defines the catalog cache operations needed by handlers.
// A miss is nil, nil; cache failures must never fail a request.
type CountryCache interface {
	Get(ctx context.Context) ([]external.Country, error)
	Set(ctx context.Context, countries []external.Country) error
}
