package policy

import (
	"encoding/json"
	"strings"
	"testing"
)

func sampleBundle() Bundle {
	return Bundle{
		ModuleKey:   "storefront",
		FeatureKey:  "orders",
		ModuleName:  "Storefront",
		FeatureName: "Orders",
		Components: []Component{
			{ID: "c1", Name: "Order List", PermissionKey: KeyVisibleComponents, Checked: false},
			{ID: "c2", Name: "Order Timeline", PermissionKey: KeyVisibleComponents, Checked: true},
		},
		SpecialActions: []SpecialAction{
			{ID: "refund_order", Name: "Refund Order", PermissionID: 11, Checked: true},
			{ID: "export_report", Name: "Export Report", PermissionID: 12},
		},
		DataAccessConditions: []DataAccessCondition{
			{ConditionKey: "region", Name: "Region", SelectedValues: []string{"north"}},
			{ConditionKey: "department", Name: "Department"},
		},
		PermissionsWithConditions: []Permission{
			{ID: 1, PermissionKey: KeyVisibleComponents, Name: "Visible Components", IsActive: true,
				Conditions: []DataAccessCondition{{ConditionKey: "region", Name: "Region", SelectedValues: []string{"north"}}}},
			{ID: 2, PermissionKey: KeySpecialActions, Name: "Special Actions", IsActive: true},
		},
	}
}

func TestLoadPreservesPersistedChecks(t *testing.T) {
	state := Load(sampleBundle())

	if state.Components[0].Checked {
		t.Errorf("c1 should stay unchecked")
	}
	if !state.Components[1].Checked {
		t.Errorf("c2 persisted check was reset")
	}
	if !state.SpecialActions[0].Checked {
		t.Errorf("refund_order persisted check was reset")
	}
	if state.SpecialActions[1].Checked {
		t.Errorf("export_report should default to unchecked")
	}
}

func TestLoadSeedsDropdowns(t *testing.T) {
	state := Load(sampleBundle())

	dd, ok := state.Dropdowns["region"]
	if !ok {
		t.Fatalf("region dropdown missing")
	}
	if len(dd.SelectedValues) != 1 || dd.SelectedValues[0] != "north" {
		t.Errorf("region selected values = %v, want [north]", dd.SelectedValues)
	}
	if dd.Options == nil || len(dd.Options) != 0 {
		t.Errorf("options must start as an empty list, got %v", dd.Options)
	}

	dept, ok := state.Dropdowns["department"]
	if !ok {
		t.Fatalf("department dropdown missing")
	}
	if dept.SelectedValues == nil || len(dept.SelectedValues) != 0 {
		t.Errorf("unset selected values must load as empty list, got %v", dept.SelectedValues)
	}
}

func TestLoadShowAllDefault(t *testing.T) {
	tests := []struct {
		name       string
		components []Component
		want       bool
	}{
		{
			name:       "empty components never show all",
			components: nil,
			want:       false,
		},
		{
			name: "partially checked",
			components: []Component{
				{ID: "c1", Checked: true},
				{ID: "c2", Checked: false},
			},
			want: false,
		},
		{
			name: "all checked",
			components: []Component{
				{ID: "c1", Checked: true},
				{ID: "c2", Checked: true},
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := Load(Bundle{Components: tt.components})
			if state.ShowAllComponents != tt.want {
				t.Errorf("ShowAllComponents = %v, want %v", state.ShowAllComponents, tt.want)
			}
		})
	}
}

func TestLoadMalformedBundleDegrades(t *testing.T) {
	state := Load(Bundle{})

	if state.Components == nil || state.SpecialActions == nil || state.Conditions == nil || state.Permissions == nil {
		t.Errorf("nil bundle collections must degrade to empty slices")
	}
	if state.Dropdowns == nil {
		t.Errorf("dropdown map must be initialized")
	}
	if got := Compile(state); len(got) != 0 {
		t.Errorf("empty state should compile to nothing, got %v", got)
	}
}

func TestConditionKeysDistinct(t *testing.T) {
	state := Load(Bundle{
		DataAccessConditions: []DataAccessCondition{
			{ConditionKey: "region"},
			{ConditionKey: "department"},
			{ConditionKey: "region"},
			{ConditionKey: ""},
		},
	})

	keys := state.ConditionKeys()
	if len(keys) != 2 || keys[0] != "region" || keys[1] != "department" {
		t.Errorf("ConditionKeys() = %v, want [region department]", keys)
	}
}

func TestApplyOptionsFillsEveryKey(t *testing.T) {
	state := Load(sampleBundle())

	state = state.ApplyOptions(map[string][]Option{
		"region": {{ID: "1", Name: "North"}},
		// department intentionally absent from the resolver result
	})

	if got := state.Dropdowns["region"].Options; len(got) != 1 || got[0].Name != "North" {
		t.Errorf("region options = %v", got)
	}
	if got := state.Dropdowns["department"].Options; got == nil || len(got) != 0 {
		t.Errorf("unresolved key must get an empty list, got %v", got)
	}
}

func TestStateSerializesWithCamelCaseKeys(t *testing.T) {
	state := Load(sampleBundle())

	raw, err := json.Marshal(state)
	if err != nil {
		t.Fatalf("json.Marshal: %v", err)
	}
	body := string(raw)

	for _, key := range []string{
		`"moduleKey"`,
		`"featureKey"`,
		`"showAllComponents"`,
		`"components"`,
		`"specialActions"`,
		`"dataAccessConditions"`,
		`"permissionsWithConditions"`,
		`"dropdowns"`,
	} {
		if !strings.Contains(body, key) {
			t.Errorf("serialized state missing %s", key)
		}
	}
	if strings.Contains(body, `"ShowAllComponents"`) || strings.Contains(body, `"Dropdowns"`) {
		t.Error("serialized state leaked PascalCase field names")
	}
}
