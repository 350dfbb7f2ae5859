package publishers

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, name, raw string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	return path
}

func TestLoadRegistryEnabledFilter(t *testing.T) {
	path := writeFile(t, "publishers.yaml", `
publishers:
  - id: http1
    type: http
    enabled: false
    http:
      url: https://example.com
  - id: http2
    type: HTTP
    http:
      url: " https://example.com/2 "
      method: put
      headers:
        X-Token: abc
        "": dropped
`)

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	enabled := reg.Enabled()
	if len(enabled) != 1 || enabled[0].ID != "http2" {
		t.Fatalf("expected only http2 enabled, got %#v", enabled)
	}
	cfg, ok := reg.ByID("http2")
	if !ok {
		t.Fatalf("ByID(http2) not found")
	}
	if cfg.Type != TypeHTTP || cfg.HTTP.URL != "https://example.com/2" || cfg.HTTP.Method != "PUT" {
		t.Fatalf("config not sanitized: %#v", cfg.HTTP)
	}
	if cfg.HTTP.TimeoutSeconds != httpDefaultTimeoutSeconds {
		t.Fatalf("expected default timeout, got %d", cfg.HTTP.TimeoutSeconds)
	}
	if len(cfg.HTTP.Headers) != 1 || cfg.HTTP.Headers["X-Token"] != "abc" {
		t.Fatalf("unexpected headers %#v", cfg.HTTP.Headers)
	}
}

func TestLoadRegistryAWSAndPubSubYAML(t *testing.T) {
	path := writeFile(t, "publishers.yml", `
publishers:
  - id: queue
    type: sqs
    sqs:
      uri: https://sqs.us-east-1.amazonaws.com/000000000000/orca
      region: us-east-1
      access_key_id: AKIA
      secret_access_key: secret
      endpoint: http://localhost:4566
  - id: topic
    type: sns
    sns:
      topic_arn: arn:aws:sns:us-east-1:000000000000:orca
      region: us-east-1
  - id: gcp
    type: pubsub
    pubsub:
      project_id: orca-watch
      topic: snapshots
`)

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	queue, _ := reg.ByID("queue")
	if queue.SQS.AccessKeyID != "AKIA" || queue.SQS.Endpoint != "http://localhost:4566" {
		t.Fatalf("inline aws auth not decoded: %#v", queue.SQS)
	}
	if len(reg.All()) != 3 {
		t.Fatalf("expected 3 publishers, got %d", len(reg.All()))
	}
}

func TestLoadRegistryJSON(t *testing.T) {
	path := writeFile(t, "publishers.json", `{"publishers":[{"id":"gcp","type":"pubsub","pubsub":{"project_id":"p","topic":"t"}}]}`)

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	cfg, ok := reg.ByID("gcp")
	if !ok || cfg.PubSub.Topic != "t" {
		t.Fatalf("unexpected config %#v", cfg)
	}
}

func TestLoadRegistryRejectsDuplicates(t *testing.T) {
	path := writeFile(t, "publishers.yaml", `
publishers:
  - id: hook
    type: http
    http: {url: https://a}
  - id: hook
    type: http
    http: {url: https://b}
`)
	_, err := LoadRegistry(path)
	if err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Fatalf("expected duplicate id error, got %v", err)
	}
}

func TestLoadRegistryRejectsEmpty(t *testing.T) {
	if _, err := LoadRegistry(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
	path := writeFile(t, "publishers.yaml", "publishers: []\n")
	if _, err := LoadRegistry(path); err == nil {
		t.Fatalf("expected error for empty publishers list")
	}
}

func TestValidatePublisherConfig(t *testing.T) {
	cases := []struct {
		name string
		cfg  PublisherConfig
	}{
		{"missing id", PublisherConfig{Type: TypeHTTP, HTTP: &HTTPPublisherConfig{URL: "u"}}},
		{"missing http block", PublisherConfig{ID: "h1", Type: TypeHTTP}},
		{"missing sqs region", PublisherConfig{ID: "q", Type: TypeSQS, SQS: &SQSPublisherConfig{QueueURL: "u"}}},
		{"half aws keys", PublisherConfig{ID: "q", Type: TypeSNS, SNS: &SNSPublisherConfig{
			TopicARN: "arn", Region: "us-east-1", AWSAuth: AWSAuth{AccessKeyID: "only"},
		}}},
		{"missing pubsub topic", PublisherConfig{ID: "g", Type: TypePubSub, PubSub: &PubSubPublisherConfig{ProjectID: "p"}}},
		{"unknown type", PublisherConfig{ID: "k", Type: "kafka"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := validatePublisherConfig(sanitizePublisherConfig(tc.cfg)); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}
