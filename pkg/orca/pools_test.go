package orca

import (
	"context"
	"errors"
	"net/http"
	"testing"
)

const poolsPageBody = `{
	"data": [
		{
			"address": "Czfq3xZZDmsdGdUyrNLtRhGc47cXcZtLG4crryfu44zE",
			"feeGrowthGlobalA": "1",
			"feeGrowthGlobalB": "2",
			"feeRate": 400,
			"liquidity": "123456",
			"protocolFeeOwedA": "0",
			"protocolFeeOwedB": "0",
			"protocolFeeRate": 1300,
			"rewardLastUpdatedTimestamp": "2025-05-09T00:00:00Z",
			"sqrtPrice": "7525054153423406903",
			"tickCurrentIndex": -18215,
			"tickSpacing": 4,
			"tickSpacingSeed": "4",
			"tokenMintA": "So11111111111111111111111111111111111111112",
			"tokenMintB": "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v",
			"tokenVaultA": "vaultA",
			"tokenVaultB": "vaultB",
			"updatedAt": "2025-05-09T00:04:50Z",
			"updatedSlot": 338000000,
			"whirlpoolBump": "255",
			"whirlpoolsConfig": "2LecshUwdy9xi7meFgHtFJQNSKk4KdTrcpvaB56dP2NQ",
			"writeVersion": "1",
			"adaptiveFee": null,
			"adaptiveFeeEnabled": false,
			"addressLookupTable": "",
			"feeTierIndex": 4,
			"hasWarning": false,
			"lockedLiquidityPercent": [{"lockedPercentage": "0.7", "name": "Whirlpool-Lock"}],
			"poolType": "whirlpool",
			"price": "161.2",
			"rewards": [
				{
					"authority": "auth",
					"emissions_per_second_x64": "0",
					"growth_global_x64": "0",
					"mint": "mint",
					"vault": "vault",
					"active": true,
					"emissionsPerSecond": "0"
				}
			],
			"stats": {
				"24h": {"fees": "10", "rewards": "0", "volume": "2500", "yieldOverTvl": "0.01"}
			},
			"tokenA": {"address": "So11111111111111111111111111111111111111112", "decimals": 9, "imageUrl": "", "name": "Wrapped SOL", "programId": "prog", "symbol": "SOL", "tags": "[]"},
			"tokenB": {"address": "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v", "decimals": 6, "imageUrl": "", "name": "USD Coin", "programId": "prog", "symbol": "USDC", "tags": "[]"},
			"tokenBalanceA": "1",
			"tokenBalanceB": "2",
			"tradeEnableTimestamp": "0",
			"tvlUsdc": "1000000",
			"yieldOverTvl": "0.02"
		}
	],
	"meta": {"next": null, "previous": null}
}`

func TestGetPoolsEncodesFilters(t *testing.T) {
	stub := &recordingClient{resp: stubResponse{status: http.StatusOK, body: []byte(poolsPageBody)}}
	client := New(WithHTTPClient(stub), WithBaseURL("https://example.test"))

	page, err := client.GetPools(context.Background(), "solana", PoolsParams{
		SortBy:       "tvl",
		HasRewards:   Bool(true),
		MinTVL:       Float64(1000),
		Size:         10,
		Token:        []uint64{1, 2},
		TokensBothOf: []string{"SOL", "USDC"},
		Stats:        []TimePeriod{Period5m, Period24h},
	})
	if err != nil {
		t.Fatalf("GetPools: %v", err)
	}
	if stub.url != "https://example.test/solana/pools" {
		t.Fatalf("unexpected url %q", stub.url)
	}
	q := stub.query
	if q.Get("sortBy") != "tvl" || q.Get("hasRewards") != "true" || q.Get("minTvl") != "1000" || q.Get("size") != "10" {
		t.Fatalf("unexpected scalar params %v", q)
	}
	if got := q["token"]; len(got) != 2 || got[0] != "1" || got[1] != "2" {
		t.Fatalf("unexpected token params %v", got)
	}
	if got := q["stats"]; len(got) != 2 || got[0] != "5m" || got[1] != "24h" {
		t.Fatalf("unexpected stats params %v", got)
	}
	if _, ok := q["hasWarning"]; ok {
		t.Fatalf("unset filters must be omitted")
	}

	if len(page.Data) != 1 {
		t.Fatalf("expected 1 pool, got %d", len(page.Data))
	}
	pool := page.Data[0]
	if pool.TickCurrentIndex != -18215 || pool.FeeRate != 400 || pool.TokenB.Symbol != "USDC" {
		t.Fatalf("unexpected pool %+v", pool)
	}
	if pool.AdaptiveFee != nil {
		t.Fatalf("expected nil adaptive fee")
	}
	if pool.Stats[Period24h].Volume != "2500" {
		t.Fatalf("unexpected 24h stats %+v", pool.Stats)
	}
	if len(pool.LockedLiquidityPercent) != 1 || len(pool.Rewards) != 1 || !pool.Rewards[0].Active {
		t.Fatalf("unexpected nested slices %+v", pool)
	}
}

func TestGetPoolsRejectsUnknownPeriod(t *testing.T) {
	stub := &recordingClient{}
	_, err := New(WithHTTPClient(stub)).GetPools(context.Background(), "solana", PoolsParams{
		Stats: []TimePeriod{"7d"},
	})
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
	if stub.calls != 0 {
		t.Fatalf("expected no request")
	}
}

func TestSearchPoolsRequiresQuery(t *testing.T) {
	stub := &recordingClient{}
	_, err := New(WithHTTPClient(stub)).SearchPools(context.Background(), "solana", SearchPoolsParams{Query: "  "})
	var verrs *ValidationErrors
	if !errors.As(err, &verrs) || verrs.Errors[0].Field != "q" {
		t.Fatalf("expected q validation error, got %v", err)
	}
}

func TestSearchPools(t *testing.T) {
	srv := newTestServer(t, "/solana/pools/search", http.StatusOK, `{"data": [], "meta": {"next": null, "previous": null}}`)
	page, err := New(WithBaseURL(srv.URL)).SearchPools(context.Background(), "solana", SearchPoolsParams{
		Query:        "sol",
		VerifiedOnly: Bool(true),
	})
	if err != nil {
		t.Fatalf("SearchPools: %v", err)
	}
	if len(page.Data) != 0 {
		t.Fatalf("expected empty page")
	}
}

func TestGetPoolAndLockInfo(t *testing.T) {
	const addr = "Czfq3xZZDmsdGdUyrNLtRhGc47cXcZtLG4crryfu44zE"

	poolSrv := newTestServer(t, "/solana/pools/"+addr, http.StatusOK, poolsPageBody)
	page, err := New(WithBaseURL(poolSrv.URL)).GetPool(context.Background(), "solana", addr)
	if err != nil {
		t.Fatalf("GetPool: %v", err)
	}
	if len(page.Data) != 1 || page.Data[0].Address != addr {
		t.Fatalf("unexpected pool page %+v", page)
	}

	lockSrv := newTestServer(t, "/solana/lock/"+addr, http.StatusOK, `[{"lockedPercentage": "0.7", "name": "Whirlpool-Lock"}]`)
	locks, err := New(WithBaseURL(lockSrv.URL)).GetLockInfo(context.Background(), "solana", addr)
	if err != nil {
		t.Fatalf("GetLockInfo: %v", err)
	}
	if len(locks) != 1 || locks[0].Name != "Whirlpool-Lock" {
		t.Fatalf("unexpected lock info %+v", locks)
	}

	if _, err := New(WithBaseURL(lockSrv.URL)).GetLockInfo(context.Background(), "solana", ""); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected invalid argument for empty address, got %v", err)
	}
}
