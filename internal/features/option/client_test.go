package option

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"store-console/pkg/policy"
)

func TestFetchOptionsDirectShape(t *testing.T) {
	var gotKeys string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKeys = r.URL.Query().Get("keys")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"conditions": {"region": [{"id": "n", "name": "North"}, {"id": "s", "name": "South"}]}}`))
	}))
	defer server.Close()

	client := NewUpstreamClient(server.URL)
	result, err := client.FetchOptions(context.Background(), []string{"region", "department"})
	if err != nil {
		t.Fatalf("FetchOptions() error = %v", err)
	}

	if gotKeys != "region,department" {
		t.Errorf("request keys = %q, want comma-joined batch", gotKeys)
	}

	want := []policy.Option{{ID: "n", Name: "North"}, {ID: "s", Name: "South"}}
	if !reflect.DeepEqual(result["region"], want) {
		t.Errorf("region options = %v, want %v", result["region"], want)
	}
	if result["department"] == nil || len(result["department"]) != 0 {
		t.Errorf("unresolved key must map to an empty list, got %v", result["department"])
	}
}

func TestFetchOptionsTableFallbackShape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"tables": {
				"regions": {
					"conditions": [{"condition_key": "region"}],
					"data": [{"id": 1, "name": "North"}]
				}
			}
		}`))
	}))
	defer server.Close()

	client := NewUpstreamClient(server.URL)
	result, err := client.FetchOptions(context.Background(), []string{"region"})
	if err != nil {
		t.Fatalf("FetchOptions() error = %v", err)
	}

	// Numeric ids are normalized to strings.
	want := []policy.Option{{ID: "1", Name: "North"}}
	if !reflect.DeepEqual(result["region"], want) {
		t.Errorf("region options = %v, want %v", result["region"], want)
	}
}

func TestFetchOptionsPrefersDirectShape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"conditions": {"region": [{"id": "direct", "name": "Direct"}]},
			"tables": {
				"regions": {
					"conditions": [{"condition_key": "region"}],
					"data": [{"id": "table", "name": "Table"}]
				}
			}
		}`))
	}))
	defer server.Close()

	client := NewUpstreamClient(server.URL)
	result, err := client.FetchOptions(context.Background(), []string{"region"})
	if err != nil {
		t.Fatalf("FetchOptions() error = %v", err)
	}

	if len(result["region"]) != 1 || result["region"][0].ID != "direct" {
		t.Errorf("direct mapping must win over the table fallback, got %v", result["region"])
	}
}

func TestFetchOptionsNoKeysIsNoOp(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer server.Close()

	client := NewUpstreamClient(server.URL)
	result, err := client.FetchOptions(context.Background(), nil)
	if err != nil {
		t.Fatalf("FetchOptions() error = %v", err)
	}
	if len(result) != 0 {
		t.Errorf("result = %v, want empty", result)
	}
	if requests != 0 {
		t.Errorf("no keys must issue no request, got %d", requests)
	}
}

func TestFetchOptionsServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewUpstreamClient(server.URL)
	if _, err := client.FetchOptions(context.Background(), []string{"region"}); err == nil {
		t.Fatalf("expected an error for a failed batch")
	}
}
