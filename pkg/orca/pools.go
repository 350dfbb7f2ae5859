package orca

import (
	"context"
	"strings"
)

// GetPools lists whirlpools on chain with optional filters.
func (c *Client) GetPools(ctx context.Context, chain string, params PoolsParams) (*Page[Whirlpool], error) {
	chain, err := requireArg("chain", chain)
	if err != nil {
		return nil, err
	}
	if err := validateParams(params); err != nil {
		return nil, err
	}
	var out Page[Whirlpool]
	if err := c.getJSON(ctx, c.endpoint(chain, "pools"), params.values(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchPools searches whirlpools by token symbol, mint or pool address.
func (c *Client) SearchPools(ctx context.Context, chain string, params SearchPoolsParams) (*Page[Whirlpool], error) {
	chain, err := requireArg("chain", chain)
	if err != nil {
		return nil, err
	}
	params.Query = strings.TrimSpace(params.Query)
	if err := validateParams(params); err != nil {
		return nil, err
	}
	var out Page[Whirlpool]
	if err := c.getJSON(ctx, c.endpoint(chain, "pools", "search"), params.values(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetPool returns the whirlpool at address.
func (c *Client) GetPool(ctx context.Context, chain, address string) (*Page[Whirlpool], error) {
	chain, err := requireArg("chain", chain)
	if err != nil {
		return nil, err
	}
	address, err = requireArg("address", address)
	if err != nil {
		return nil, err
	}
	var out Page[Whirlpool]
	if err := c.getJSON(ctx, c.endpoint(chain, "pools", address), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetLockInfo returns the locked liquidity entries for the whirlpool at address.
func (c *Client) GetLockInfo(ctx context.Context, chain, address string) ([]LockInfo, error) {
	chain, err := requireArg("chain", chain)
	if err != nil {
		return nil, err
	}
	address, err = requireArg("address", address)
	if err != nil {
		return nil, err
	}
	var out []LockInfo
	if err := c.getJSON(ctx, c.endpoint(chain, "lock", address), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
