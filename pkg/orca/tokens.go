package orca

import (
	"context"
	"net/url"
)

// GetTokens lists tokens on chain. Follow Meta.Next to page forward.
func (c *Client) GetTokens(ctx context.Context, chain string, params TokensParams) (*Page[Token], error) {
	chain, err := requireArg("chain", chain)
	if err != nil {
		return nil, err
	}
	if err := validateParams(params); err != nil {
		return nil, err
	}
	var out Page[Token]
	if err := c.getJSON(ctx, c.endpoint(chain, "tokens"), params.values(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchTokens returns tokens matching query.
func (c *Client) SearchTokens(ctx context.Context, chain, query string) (*Page[Token], error) {
	chain, err := requireArg("chain", chain)
	if err != nil {
		return nil, err
	}
	query, err = requireArg("query", query)
	if err != nil {
		return nil, err
	}
	var out Page[Token]
	if err := c.getJSON(ctx, c.endpoint(chain, "tokens", "search"), url.Values{"q": {query}}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetToken returns the token identified by its mint address.
func (c *Client) GetToken(ctx context.Context, chain, mint string) (*Page[Token], error) {
	chain, err := requireArg("chain", chain)
	if err != nil {
		return nil, err
	}
	mint, err = requireArg("mint", mint)
	if err != nil {
		return nil, err
	}
	var out Page[Token]
	if err := c.getJSON(ctx, c.endpoint(chain, "tokens", mint), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
