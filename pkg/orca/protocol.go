package orca

import "context"

// GetProtocolInfo returns protocol-wide TVL, volume, fees and revenue for chain.
func (c *Client) GetProtocolInfo(ctx context.Context, chain string) (*ProtocolInfo, error) {
	chain, err := requireArg("chain", chain)
	if err != nil {
		return nil, err
	}
	var out ProtocolInfo
	if err := c.getJSON(ctx, c.endpoint(chain, "protocol"), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetTokenInfo returns details about the protocol token on chain.
func (c *Client) GetTokenInfo(ctx context.Context, chain string) (*TokenInfo, error) {
	chain, err := requireArg("chain", chain)
	if err != nil {
		return nil, err
	}
	var out TokenInfo
	if err := c.getJSON(ctx, c.endpoint(chain, "protocol", "token"), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetCirculatingSupply returns the circulating supply of the protocol token.
func (c *Client) GetCirculatingSupply(ctx context.Context, chain string) (*CirculatingSupply, error) {
	chain, err := requireArg("chain", chain)
	if err != nil {
		return nil, err
	}
	var out CirculatingSupply
	if err := c.getJSON(ctx, c.endpoint(chain, "protocol", "token", "circulating_supply"), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetTotalSupply returns the total supply of the protocol token.
func (c *Client) GetTotalSupply(ctx context.Context, chain string) (*TotalSupply, error) {
	chain, err := requireArg("chain", chain)
	if err != nil {
		return nil, err
	}
	var out TotalSupply
	if err := c.getJSON(ctx, c.endpoint(chain, "protocol", "token", "total_supply"), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
