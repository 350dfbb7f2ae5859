package orca

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/samvad-hq/orca-public-api/pkg/httpclient"
)

const protocolInfoBody = `{
	"fees24hUsdc": "317428.0521046",
	"revenue24hUsdc": "41265.646773",
	"tvl": "230551269.0085",
	"volume24hUsdc": "552567794.7830"
}`

// newTestServer serves body with status for exactly one path.
func newTestServer(t *testing.T, path string, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if r.URL.Path != path {
			t.Errorf("expected path %q, got %q", path, r.URL.Path)
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

type stubResponse struct {
	body   []byte
	status int
}

func (s stubResponse) Body() []byte    { return s.body }
func (s stubResponse) StatusCode() int { return s.status }

// recordingClient captures requests and returns a canned response or error.
type recordingClient struct {
	calls   int
	url     string
	query   url.Values
	headers map[string]string
	resp    httpclient.Response
	err     error
}

func (r *recordingClient) Get(_ context.Context, rawURL string, query url.Values, headers map[string]string) (httpclient.Response, error) {
	r.calls++
	r.url = rawURL
	r.query = query
	r.headers = headers
	if r.err != nil {
		return nil, r.err
	}
	return r.resp, nil
}

func TestGetProtocolInfoParsesAllFields(t *testing.T) {
	srv := newTestServer(t, "/solana/protocol", http.StatusOK, protocolInfoBody)
	client := New(WithBaseURL(srv.URL))

	info, err := client.GetProtocolInfo(context.Background(), "solana")
	if err != nil {
		t.Fatalf("GetProtocolInfo: %v", err)
	}
	want := ProtocolInfo{
		Fees24hUSDC:    "317428.0521046",
		Revenue24hUSDC: "41265.646773",
		TVL:            "230551269.0085",
		Volume24hUSDC:  "552567794.7830",
	}
	if *info != want {
		t.Fatalf("unexpected protocol info %+v", *info)
	}
}

func TestGetProtocolInfoMalformedJSON(t *testing.T) {
	srv := newTestServer(t, "/solana/protocol", http.StatusOK, `{"tvl": "1",`)
	client := New(WithBaseURL(srv.URL))

	_, err := client.GetProtocolInfo(context.Background(), "solana")
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("expected decode error, got %v", err)
	}
	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) || !strings.HasSuffix(decodeErr.URL, "/solana/protocol") {
		t.Fatalf("expected DecodeError carrying url, got %#v", err)
	}
}

func TestGetProtocolInfoSchemaMismatch(t *testing.T) {
	srv := newTestServer(t, "/solana/protocol", http.StatusOK, `{"tvl": 12.5}`)
	client := New(WithBaseURL(srv.URL))

	if _, err := client.GetProtocolInfo(context.Background(), "solana"); !errors.Is(err, ErrDecode) {
		t.Fatalf("expected decode error for numeric tvl, got %v", err)
	}
}

func TestGetProtocolInfoHTTPErrorStatus(t *testing.T) {
	srv := newTestServer(t, "/solana/protocol", http.StatusServiceUnavailable, `{"error":"maintenance"}`)
	client := New(WithBaseURL(srv.URL))

	_, err := client.GetProtocolInfo(context.Background(), "solana")
	if !errors.Is(err, ErrStatus) {
		t.Fatalf("expected status error, got %v", err)
	}
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected *StatusError, got %T", err)
	}
	if statusErr.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", statusErr.StatusCode)
	}
	if !strings.Contains(statusErr.Body, "maintenance") {
		t.Fatalf("expected body snippet, got %q", statusErr.Body)
	}
	if errors.Is(err, ErrDecode) {
		t.Fatalf("status error must not be reported as decode error")
	}
}

func TestGetProtocolInfoTransportError(t *testing.T) {
	boom := errors.New("connection refused")
	stub := &recordingClient{err: boom}
	client := New(WithHTTPClient(stub))

	_, err := client.GetProtocolInfo(context.Background(), "solana")
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("expected transport error, got %v", err)
	}
	if !errors.Is(err, boom) {
		t.Fatalf("expected underlying error to be preserved, got %v", err)
	}
}

func TestGetProtocolInfoRejectsEmptyChain(t *testing.T) {
	stub := &recordingClient{resp: stubResponse{status: http.StatusOK, body: []byte(protocolInfoBody)}}
	client := New(WithHTTPClient(stub))

	for _, chain := range []string{"", "   "} {
		if _, err := client.GetProtocolInfo(context.Background(), chain); !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("chain %q: expected invalid argument, got %v", chain, err)
		}
	}
	if stub.calls != 0 {
		t.Fatalf("expected no network calls, got %d", stub.calls)
	}
}

func TestGetProtocolInfoCancelledContext(t *testing.T) {
	srv := newTestServer(t, "/solana/protocol", http.StatusOK, protocolInfoBody)
	client := New(WithBaseURL(srv.URL))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := client.GetProtocolInfo(ctx, "solana")
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("expected transport error for cancelled context, got %v", err)
	}
}

func TestNewDefaultsAndOverrides(t *testing.T) {
	stub := &recordingClient{resp: stubResponse{status: http.StatusOK, body: []byte(protocolInfoBody)}}
	client := New(
		WithHTTPClient(stub),
		WithBaseURL("https://example.test/v2/"),
		WithHeaders(map[string]string{"user-agent": "custom/1.0", "X-Empty": " "}),
	)

	if got := client.BaseURL(); got != "https://example.test/v2" {
		t.Fatalf("expected trailing slash trimmed, got %q", got)
	}
	if _, err := client.GetProtocolInfo(context.Background(), " eclipse "); err != nil {
		t.Fatalf("GetProtocolInfo: %v", err)
	}
	if stub.url != "https://example.test/v2/eclipse/protocol" {
		t.Fatalf("unexpected url %q", stub.url)
	}
	if stub.headers["User-Agent"] != "custom/1.0" {
		t.Fatalf("expected user agent override, got %q", stub.headers["User-Agent"])
	}
	if stub.headers["Accept"] != "application/json" {
		t.Fatalf("expected default accept header, got %q", stub.headers["Accept"])
	}
	if _, ok := stub.headers["X-Empty"]; ok {
		t.Fatalf("empty header values must be skipped")
	}

	if got := New().BaseURL(); got != DefaultBaseURL {
		t.Fatalf("expected default base url, got %q", got)
	}
}

func TestEndpointEscapesSegments(t *testing.T) {
	client := New(WithBaseURL("https://example.test"))
	if got := client.endpoint("solana", "tokens", "a/b c"); got != "https://example.test/solana/tokens/a%2Fb%20c" {
		t.Fatalf("unexpected endpoint %q", got)
	}
}

func TestResponseSnippetBoundsBody(t *testing.T) {
	if got := responseSnippet(nil); got != "<empty>" {
		t.Fatalf("expected <empty>, got %q", got)
	}
	long := strings.Repeat("x", 600)
	if got := responseSnippet([]byte(long)); len(got) != 515 {
		t.Fatalf("expected truncated snippet, got length %d", len(got))
	}
}

func TestGetProtocolInfoRejectsBodiesMissingFields(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"empty object", `{}`},
		{"null", `null`},
		{"padded null", " null\n"},
		{"error object", `{"error":"not found"}`},
		{"missing tvl", `{"fees24hUsdc":"1","revenue24hUsdc":"2","volume24hUsdc":"3"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stub := &recordingClient{resp: stubResponse{status: http.StatusOK, body: []byte(tc.body)}}
			info, err := New(WithHTTPClient(stub)).GetProtocolInfo(context.Background(), "solana")
			if !errors.Is(err, ErrDecode) {
				t.Fatalf("expected decode error, got info=%+v err=%v", info, err)
			}
			if info != nil {
				t.Fatalf("expected nil result, got %+v", info)
			}
		})
	}
}

func TestSchemaErrorsNameTheJSONKey(t *testing.T) {
	stub := &recordingClient{resp: stubResponse{status: http.StatusOK, body: []byte(`{"fees24hUsdc":"1","revenue24hUsdc":"2","volume24hUsdc":"3"}`)}}
	_, err := New(WithHTTPClient(stub)).GetProtocolInfo(context.Background(), "solana")

	var verrs *ValidationErrors
	if !errors.As(err, &verrs) || len(verrs.Errors) != 1 || verrs.Errors[0].Field != "tvl" {
		t.Fatalf("expected tvl to be reported, got %v", err)
	}
}

func TestListBodiesAreCheckedPerItem(t *testing.T) {
	cases := []struct {
		name string
		call func(*Client) error
		body string
	}{
		{
			name: "lock entry without percentage",
			body: `[{"lockedPercentage":"0.7","name":"a"},{"name":"b"}]`,
			call: func(c *Client) error { _, err := c.GetLockInfo(context.Background(), "solana", "pool"); return err },
		},
		{
			name: "lock null",
			body: `null`,
			call: func(c *Client) error { _, err := c.GetLockInfo(context.Background(), "solana", "pool"); return err },
		},
		{
			name: "page without data",
			body: `{"meta":{"next":null,"previous":null}}`,
			call: func(c *Client) error { _, err := c.GetPool(context.Background(), "solana", "pool"); return err },
		},
		{
			name: "pool without address",
			body: `{"data":[{"tokenMintA":"a","tokenMintB":"b"}],"meta":{}}`,
			call: func(c *Client) error { _, err := c.GetPool(context.Background(), "solana", "pool"); return err },
		},
		{
			name: "token without address",
			body: `{"data":[{"decimals":9}],"meta":{}}`,
			call: func(c *Client) error { _, err := c.GetToken(context.Background(), "solana", "mint"); return err },
		},
		{
			name: "supply error object",
			body: `{"error":"not found"}`,
			call: func(c *Client) error { _, err := c.GetTotalSupply(context.Background(), "solana"); return err },
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stub := &recordingClient{resp: stubResponse{status: http.StatusOK, body: []byte(tc.body)}}
			if err := tc.call(New(WithHTTPClient(stub))); !errors.Is(err, ErrDecode) {
				t.Fatalf("expected decode error, got %v", err)
			}
		})
	}
}

func TestEmptyListBodiesAreAccepted(t *testing.T) {
	stub := &recordingClient{resp: stubResponse{status: http.StatusOK, body: []byte(`[]`)}}
	locks, err := New(WithHTTPClient(stub)).GetLockInfo(context.Background(), "solana", "pool")
	if err != nil || len(locks) != 0 {
		t.Fatalf("expected empty lock list, got %v %v", locks, err)
	}
}
