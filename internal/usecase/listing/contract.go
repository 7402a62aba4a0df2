package listing

import (
	"context"

	"github.com/homico/browse/internal/domain/listing"
)

// Backend fetches professional listings from the marketplace.
type Backend interface {
	Professionals(ctx context.Context, q listing.Query) (listing.Page, error)
}
