package targets

import (
	"context"

	"github.com/samvad-hq/orca-public-api/internal/domain"
	"github.com/samvad-hq/orca-public-api/pkg/orca"
)

// Fetcher retrieves a snapshot for a target.
type Fetcher interface {
	Kind() string
	Fetch(ctx context.Context, t Target) (domain.Snapshot, error)
}

// FetcherRegistry resolves the fetcher implementation for a given target.
type FetcherRegistry interface {
	FetcherFor(t Target) (Fetcher, error)
}

// API is the subset of *orca.Client the fetchers call.
type API interface {
	GetProtocolInfo(ctx context.Context, chain string) (*orca.ProtocolInfo, error)
	GetTokenInfo(ctx context.Context, chain string) (*orca.TokenInfo, error)
	GetCirculatingSupply(ctx context.Context, chain string) (*orca.CirculatingSupply, error)
	GetTotalSupply(ctx context.Context, chain string) (*orca.TotalSupply, error)
	GetPool(ctx context.Context, chain, address string) (*orca.Page[orca.Whirlpool], error)
	GetLockInfo(ctx context.Context, chain, address string) ([]orca.LockInfo, error)
}

var _ API = (*orca.Client)(nil)
