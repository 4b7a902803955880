package export

import (
	"testing"
	"time"

	"store-console/internal/features/advpermission"
	"store-console/pkg/policy"

	"go.mongodb.org/mongo-driver/bson"
)

func TestBuildRowsFlattensPolicies(t *testing.T) {
	updated := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	policies := []advpermission.RolePolicy{
		{
			ModuleKey:  "storefront",
			FeatureKey: "orders",
			UpdatedAt:  updated,
			Compiled: []policy.CompiledPermission{
				{
					PermissionKey: "visible_components",
					IsActive:      true,
					Components: []policy.CompiledComponent{
						{ComponentKey: "c1", IsActive: true},
						{ComponentKey: "c2", IsActive: true},
					},
				},
				{
					PermissionKey: "special_actions",
					IsActive:      true,
					Actions:       []int{11, 12},
					Conditions: []policy.CompiledCondition{
						{ConditionKey: "region", Values: []string{"north", "south"}, IsActive: true},
					},
				},
			},
		},
	}

	rows := buildRows(policies)
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}

	if rows[0].Components != "c1, c2" {
		t.Errorf("components = %q, want %q", rows[0].Components, "c1, c2")
	}
	if rows[1].Actions != "11, 12" {
		t.Errorf("actions = %q, want %q", rows[1].Actions, "11, 12")
	}
	if rows[1].Conditions != "region=north|south" {
		t.Errorf("conditions = %q, want %q", rows[1].Conditions, "region=north|south")
	}
	if rows[0].ModuleKey != "storefront" || rows[1].FeatureKey != "orders" {
		t.Error("module/feature keys not carried onto rows")
	}
}

func TestBuildRowsAfterBsonRoundTrip(t *testing.T) {
	stored := advpermission.RolePolicy{
		ModuleKey:  "storefront",
		FeatureKey: "orders",
		Compiled: []policy.CompiledPermission{
			{
				PermissionKey: "visible_components",
				IsActive:      true,
				Components: []policy.CompiledComponent{
					{ComponentKey: "c1", IsActive: true},
					{ComponentKey: "c2", IsActive: true},
				},
			},
			{
				PermissionKey: "special_actions",
				IsActive:      true,
				Components:    []string{"c1"},
				Actions:       []int{11},
			},
		},
	}

	raw, err := bson.Marshal(stored)
	if err != nil {
		t.Fatalf("bson.Marshal: %v", err)
	}
	var decoded advpermission.RolePolicy
	if err := bson.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("bson.Unmarshal: %v", err)
	}

	rows := buildRows([]advpermission.RolePolicy{decoded})
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0].Components != "c1, c2" {
		t.Errorf("decoded rich components = %q, want %q", rows[0].Components, "c1, c2")
	}
	if rows[1].Components != "c1" {
		t.Errorf("decoded plain components = %q, want %q", rows[1].Components, "c1")
	}
}

func TestFormatComponentsPlainKeyList(t *testing.T) {
	got := formatComponents([]string{"c1", "c2"})
	if got != "c1, c2" {
		t.Errorf("formatComponents = %q, want %q", got, "c1, c2")
	}
	if formatComponents(nil) != "" {
		t.Error("nil components should format as empty")
	}
}
