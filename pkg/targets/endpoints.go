package targets

import (
	"context"
	"fmt"
	"time"

	"github.com/samvad-hq/orca-public-api/internal/domain"
)

type fetchFunc func(ctx context.Context, api API, t Target) (any, error)

// endpointFetcher calls one API endpoint and turns the result into a snapshot.
type endpointFetcher struct {
	kind  string
	api   API
	fetch fetchFunc
	now   func() time.Time
}

func newEndpointFetcher(kind string, api API, fn fetchFunc) *endpointFetcher {
	return &endpointFetcher{kind: kind, api: api, fetch: fn, now: time.Now}
}

func (f *endpointFetcher) Kind() string { return f.kind }

func (f *endpointFetcher) Fetch(ctx context.Context, t Target) (domain.Snapshot, error) {
	if t.Kind != f.kind {
		return domain.Snapshot{}, fmt.Errorf("%s fetcher received incompatible target kind %q", f.kind, t.Kind)
	}
	if f.api == nil {
		return domain.Snapshot{}, fmt.Errorf("%s fetcher has no api client", f.kind)
	}

	result, err := f.fetch(ctx, f.api, t)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("fetch %s for target %s: %w", f.kind, t.ID, err)
	}
	return buildSnapshot(t, result, f.now())
}

// NewProtocolFetcher snapshots protocol-wide totals.
func NewProtocolFetcher(api API) Fetcher {
	return newEndpointFetcher(KindProtocol, api, func(ctx context.Context, api API, t Target) (any, error) {
		return api.GetProtocolInfo(ctx, t.Chain)
	})
}

// NewTokenInfoFetcher snapshots protocol token details.
func NewTokenInfoFetcher(api API) Fetcher {
	return newEndpointFetcher(KindTokenInfo, api, func(ctx context.Context, api API, t Target) (any, error) {
		return api.GetTokenInfo(ctx, t.Chain)
	})
}

// NewCirculatingSupplyFetcher snapshots the circulating token supply.
func NewCirculatingSupplyFetcher(api API) Fetcher {
	return newEndpointFetcher(KindCirculatingSupply, api, func(ctx context.Context, api API, t Target) (any, error) {
		return api.GetCirculatingSupply(ctx, t.Chain)
	})
}

// NewTotalSupplyFetcher snapshots the total token supply.
func NewTotalSupplyFetcher(api API) Fetcher {
	return newEndpointFetcher(KindTotalSupply, api, func(ctx context.Context, api API, t Target) (any, error) {
		return api.GetTotalSupply(ctx, t.Chain)
	})
}

// NewPoolFetcher snapshots a single whirlpool; an empty page is an error.
func NewPoolFetcher(api API) Fetcher {
	return newEndpointFetcher(KindPool, api, func(ctx context.Context, api API, t Target) (any, error) {
		page, err := api.GetPool(ctx, t.Chain, t.Address)
		if err != nil {
			return nil, err
		}
		if len(page.Data) == 0 {
			return nil, fmt.Errorf("pool %s not found on %s", t.Address, t.Chain)
		}
		return page.Data[0], nil
	})
}

// NewLockFetcher snapshots the locked liquidity of the pool at the target address.
func NewLockFetcher(api API) Fetcher {
	return newEndpointFetcher(KindLock, api, func(ctx context.Context, api API, t Target) (any, error) {
		return api.GetLockInfo(ctx, t.Chain, t.Address)
	})
}
