package datagov

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestFilterByArea(t *testing.T) {
	records := []map[string]any{
		{"Number": "Bugis - Total", "Count": "1200"},
		{"Number": "Tiong Bahru - Total", "Count": "800"},
		{"Number": "bugis males", "Count": "560"},
		{"Count": "no label"},
	}

	got := FilterByArea(records, "Bugis")
	if len(got) != 2 {
		t.Fatalf("FilterByArea returned %d rows, want 2", len(got))
	}
	for _, row := range got {
		label := row["Number"].(string)
		if !strings.Contains(strings.ToLower(label), "bugis") {
			t.Errorf("unexpected row %q", label)
		}
	}

	if rows := FilterByArea(records, ""); rows != nil {
		t.Errorf("empty area should return nil, got %v", rows)
	}
}

func TestRecordsCachesPerResource(t *testing.T) {
	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if got := r.URL.Query().Get("resource_id"); got != "res-1" {
			t.Errorf("resource_id = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success": true, "result": {"records": [{"Number": "Bugis - Total"}]}}`))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, CacheTTL: time.Minute})

	for i := 0; i < 3; i++ {
		records, err := client.Records(context.Background(), "res-1")
		if err != nil {
			t.Fatalf("Records: %v", err)
		}
		if len(records) != 1 {
			t.Fatalf("got %d records, want 1", len(records))
		}
	}

	if hits.Load() != 1 {
		t.Errorf("server hit %d times, want 1 (cached)", hits.Load())
	}
}

func TestRecordsFailureStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	if _, err := client.Records(context.Background(), "res-1"); err == nil {
		t.Fatal("expected error on non-200 status")
	}
}

func TestRenderRowsLimits(t *testing.T) {
	records := []map[string]any{
		{"Number": "a"},
		{"Number": "b"},
		{"Number": "c"},
	}

	out := RenderRows(records, 2)
	if lines := strings.Split(out, "\n"); len(lines) != 2 {
		t.Fatalf("got %d lines, want 2:\n%s", len(lines), out)
	}
	if RenderRows(nil, 5) != "" {
		t.Error("nil records should render empty")
	}
}
