package option

import (
	"context"
	"fmt"
	"reflect"
	"testing"

	"store-console/pkg/policy"

	"go.uber.org/zap"
)

type MockSourceRepo struct {
	Sources []DropdownSource
	Finds   int
}

func (m *MockSourceRepo) Create(ctx context.Context, source *DropdownSource) error { return nil }
func (m *MockSourceRepo) List(ctx context.Context) ([]DropdownSource, error) {
	return m.Sources, nil
}
func (m *MockSourceRepo) FindByConditionKeys(ctx context.Context, keys []string) ([]DropdownSource, error) {
	m.Finds++
	wanted := make(map[string]bool)
	for _, k := range keys {
		wanted[k] = true
	}
	var out []DropdownSource
	for _, s := range m.Sources {
		for _, k := range s.ConditionKeys {
			if wanted[k] {
				out = append(out, s)
				break
			}
		}
	}
	return out, nil
}
func (m *MockSourceRepo) Delete(ctx context.Context, id string) error { return nil }

type MockUpstream struct {
	Calls    int
	LastKeys []string
	Result   map[string][]policy.Option
	Err      error
}

func (m *MockUpstream) FetchOptions(ctx context.Context, keys []string) (map[string][]policy.Option, error) {
	m.Calls++
	m.LastKeys = keys
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Result, nil
}

func TestResolveOptionsEmptyKeysNoUpstreamCall(t *testing.T) {
	upstream := &MockUpstream{}
	service := NewOptionService(&MockSourceRepo{}, upstream, zap.NewNop())

	result, err := service.ResolveOptions(context.Background(), nil)
	if err != nil {
		t.Fatalf("ResolveOptions() error = %v", err)
	}
	if len(result) != 0 {
		t.Errorf("result = %v, want empty map", result)
	}
	if upstream.Calls != 0 {
		t.Errorf("no keys must not reach upstream, calls = %d", upstream.Calls)
	}
}

func TestResolveOptionsLocalSourceCoversKey(t *testing.T) {
	repo := &MockSourceRepo{Sources: []DropdownSource{{
		Name:          "regions",
		Type:          SourceStatic,
		ConditionKeys: []string{"region"},
		Options:       []policy.Option{{ID: "n", Name: "North"}},
		IsActive:      true,
	}}}
	upstream := &MockUpstream{Result: map[string][]policy.Option{
		"department": {{ID: "d1", Name: "Sales"}},
	}}
	service := NewOptionService(repo, upstream, zap.NewNop())

	result, err := service.ResolveOptions(context.Background(), []string{"region", "department"})
	if err != nil {
		t.Fatalf("ResolveOptions() error = %v", err)
	}

	if !reflect.DeepEqual(result["region"], []policy.Option{{ID: "n", Name: "North"}}) {
		t.Errorf("region = %v", result["region"])
	}
	if !reflect.DeepEqual(result["department"], []policy.Option{{ID: "d1", Name: "Sales"}}) {
		t.Errorf("department = %v", result["department"])
	}
	// Only the key the local sources did not cover goes upstream.
	if !reflect.DeepEqual(upstream.LastKeys, []string{"department"}) {
		t.Errorf("upstream keys = %v, want [department]", upstream.LastKeys)
	}
	if upstream.Calls != 1 {
		t.Errorf("upstream calls = %d, want one batched request", upstream.Calls)
	}
}

func TestResolveOptionsUpstreamFailureIsSingleError(t *testing.T) {
	upstream := &MockUpstream{Err: fmt.Errorf("connection refused")}
	service := NewOptionService(&MockSourceRepo{}, upstream, zap.NewNop())

	if _, err := service.ResolveOptions(context.Background(), []string{"region", "department"}); err == nil {
		t.Fatalf("expected the batch failure to surface as one error")
	}
	if upstream.Calls != 1 {
		t.Errorf("upstream calls = %d, want 1", upstream.Calls)
	}
}

func TestResolveOptionsServesSecondLookupFromCache(t *testing.T) {
	repo := &MockSourceRepo{Sources: []DropdownSource{{
		Name:          "regions",
		Type:          SourceStatic,
		ConditionKeys: []string{"region"},
		Options:       []policy.Option{{ID: "n", Name: "North"}},
		IsActive:      true,
	}}}
	service := NewOptionService(repo, nil, zap.NewNop())

	if _, err := service.ResolveOptions(context.Background(), []string{"region"}); err != nil {
		t.Fatalf("ResolveOptions() error = %v", err)
	}
	result, err := service.ResolveOptions(context.Background(), []string{"region"})
	if err != nil {
		t.Fatalf("ResolveOptions() error = %v", err)
	}

	if !reflect.DeepEqual(result["region"], []policy.Option{{ID: "n", Name: "North"}}) {
		t.Errorf("region = %v", result["region"])
	}
	if repo.Finds != 1 {
		t.Errorf("repo lookups = %d, want the second resolve served from cache", repo.Finds)
	}
}

func TestRefreshDeliversNewValuesToNextResolve(t *testing.T) {
	repo := &MockSourceRepo{Sources: []DropdownSource{{
		Name:          "regions",
		Type:          SourceStatic,
		ConditionKeys: []string{"region"},
		Options:       []policy.Option{{ID: "n", Name: "North"}},
		IsActive:      true,
	}}}
	service := NewOptionService(repo, nil, zap.NewNop())

	if _, err := service.ResolveOptions(context.Background(), []string{"region"}); err != nil {
		t.Fatalf("ResolveOptions() error = %v", err)
	}

	// The backing source changes; the cached list hides it until the
	// refresher runs.
	repo.Sources[0].Options = []policy.Option{{ID: "n", Name: "North"}, {ID: "s", Name: "South"}}

	stale, err := service.ResolveOptions(context.Background(), []string{"region"})
	if err != nil {
		t.Fatalf("ResolveOptions() error = %v", err)
	}
	if len(stale["region"]) != 1 {
		t.Fatalf("pre-refresh resolve = %v, want the cached single option", stale["region"])
	}

	if err := service.RefreshCached(context.Background()); err != nil {
		t.Fatalf("RefreshCached() error = %v", err)
	}

	fresh, err := service.ResolveOptions(context.Background(), []string{"region"})
	if err != nil {
		t.Fatalf("ResolveOptions() error = %v", err)
	}
	want := []policy.Option{{ID: "n", Name: "North"}, {ID: "s", Name: "South"}}
	if !reflect.DeepEqual(fresh["region"], want) {
		t.Errorf("post-refresh resolve = %v, want %v", fresh["region"], want)
	}
}

func TestDeleteSourceInvalidatesCache(t *testing.T) {
	repo := &MockSourceRepo{Sources: []DropdownSource{{
		Name:          "regions",
		Type:          SourceStatic,
		ConditionKeys: []string{"region"},
		Options:       []policy.Option{{ID: "n", Name: "North"}},
		IsActive:      true,
	}}}
	service := NewOptionService(repo, nil, zap.NewNop())

	if _, err := service.ResolveOptions(context.Background(), []string{"region"}); err != nil {
		t.Fatalf("ResolveOptions() error = %v", err)
	}

	repo.Sources = nil
	if err := service.DeleteSource(context.Background(), "regions"); err != nil {
		t.Fatalf("DeleteSource() error = %v", err)
	}

	result, err := service.ResolveOptions(context.Background(), []string{"region"})
	if err != nil {
		t.Fatalf("ResolveOptions() error = %v", err)
	}
	if len(result["region"]) != 0 {
		t.Errorf("deleted source still served from cache: %v", result["region"])
	}
}

func TestResolveOptionsNoUpstreamConfigured(t *testing.T) {
	service := NewOptionService(&MockSourceRepo{}, nil, zap.NewNop())

	result, err := service.ResolveOptions(context.Background(), []string{"region"})
	if err != nil {
		t.Fatalf("ResolveOptions() error = %v", err)
	}
	if result["region"] == nil || len(result["region"]) != 0 {
		t.Errorf("unresolvable key must map to an empty list, got %v", result["region"])
	}
}
