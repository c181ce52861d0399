package search

import (
	"context"

	"github.com/Dagingo/clip-finder/internal/clip"
)

// Resolver turns user-facing names into platform ids.
// A name the platform does not know is reported with found == false, not an error.
type Resolver interface {
	TopCategoryIDs(ctx context.Context) ([]string, error)
	CategoryID(ctx context.Context, name string) (id string, found bool, err error)
	ChannelID(ctx context.Context, name string) (id string, found bool, err error)
}

// ClipSource fetches one page of clips for a query.
type ClipSource interface {
	FetchClips(ctx context.Context, q clip.Query) ([]clip.Record, error)
}

// Platform is the remote clip platform as the search engine sees it.
type Platform interface {
	Resolver
	ClipSource
}

// Credential supplies the bearer token the platform calls need.
type Credential interface {
	BearerToken() (string, error)
}
