package health

import "context"

// CachePinger checks listing cache availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}

// BackendChecker checks marketplace backend availability.
type BackendChecker interface {
	HealthCheck(ctx context.Context) error
}
