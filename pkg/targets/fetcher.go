package targets

import (
	"fmt"
	"strings"
	"sync"
)

// fetcherRegistry implements FetcherRegistry.
type fetcherRegistry struct {
	fetchersByID   map[string]Fetcher
	fetchersByKind map[string]Fetcher
	mu             sync.RWMutex
}

// NewFetcherRegistry builds a registry with kind-based fetchers and optional
// overrides for specific target ids.
func NewFetcherRegistry(kindFetchers map[string]Fetcher, idFetchers map[string]Fetcher) FetcherRegistry {
	reg := &fetcherRegistry{
		fetchersByID:   make(map[string]Fetcher),
		fetchersByKind: make(map[string]Fetcher),
	}
	for kind, f := range kindFetchers {
		register(reg, reg.fetchersByKind, kind, f)
	}
	for id, f := range idFetchers {
		register(reg, reg.fetchersByID, id, f)
	}
	return reg
}

func register(r *fetcherRegistry, into map[string]Fetcher, key string, f Fetcher) {
	if f == nil {
		return
	}
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return
	}

	r.mu.Lock()
	into[key] = f
	r.mu.Unlock()
}

// FetcherFor selects the fetcher for the given target based on its id or kind.
func (r *fetcherRegistry) FetcherFor(t Target) (Fetcher, error) {
	if r == nil {
		return nil, fmt.Errorf("fetcher registry is nil")
	}
	if strings.TrimSpace(t.ID) == "" {
		return nil, fmt.Errorf("target id is empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if f, ok := r.fetchersByID[strings.ToLower(strings.TrimSpace(t.ID))]; ok {
		return f, nil
	}
	if kind := strings.ToLower(strings.TrimSpace(t.Kind)); kind != "" {
		if f, ok := r.fetchersByKind[kind]; ok {
			return f, nil
		}
	}

	return nil, fmt.Errorf("no fetcher registered for target %q (kind %q)", t.ID, t.Kind)
}

// DefaultFetcherRegistry wires one fetcher per supported kind over api.
func DefaultFetcherRegistry(api API) FetcherRegistry {
	return NewFetcherRegistry(map[string]Fetcher{
		KindProtocol:          NewProtocolFetcher(api),
		KindTokenInfo:         NewTokenInfoFetcher(api),
		KindCirculatingSupply: NewCirculatingSupplyFetcher(api),
		KindTotalSupply:       NewTotalSupplyFetcher(api),
		KindPool:              NewPoolFetcher(api),
		KindLock:              NewLockFetcher(api),
	}, nil)
}
