package policy

import (
	"reflect"
	"testing"
)

func TestShowAllComponents(t *testing.T) {
	state := Load(sampleBundle())

	on := state.SetShowAllComponents(true)
	for _, c := range on.Components {
		if !c.Checked {
			t.Errorf("component %s not checked after show-all", c.ID)
		}
	}

	// Individual toggles are inert while the master switch is on.
	toggled := on.ToggleComponent("c1")
	if !toggled.Components[0].Checked {
		t.Errorf("toggle must have no effect while show-all is on")
	}

	// Turning show-all off leaves the checks as last set.
	off := on.SetShowAllComponents(false)
	for _, c := range off.Components {
		if !c.Checked {
			t.Errorf("show-all off must not force components off")
		}
	}
}

func TestToggleComponentIsIsolated(t *testing.T) {
	state := Load(sampleBundle())

	next := state.ToggleComponent("c1")
	if !next.Components[0].Checked {
		t.Errorf("c1 not toggled on")
	}
	if next.Components[1].Checked != state.Components[1].Checked {
		t.Errorf("toggling c1 must not touch c2")
	}
	if state.Components[0].Checked {
		t.Errorf("original state was mutated")
	}

	again := next.ToggleComponent("c1")
	if again.Components[0].Checked {
		t.Errorf("second toggle must flip c1 back off")
	}
}

func TestToggleSpecialAction(t *testing.T) {
	state := Load(sampleBundle())

	next := state.ToggleSpecialAction("export_report")
	if !next.SpecialActions[1].Checked {
		t.Errorf("export_report not toggled on")
	}
	if !next.SpecialActions[0].Checked {
		t.Errorf("toggling export_report must not touch refund_order")
	}
}

// Join consistency: after any sequence of SetConditionValues calls the
// selected values for a key are identical across the dropdown, every
// matching raw condition, and every embedded permission condition.
func TestSetConditionValuesJoinConsistency(t *testing.T) {
	state := Load(sampleBundle())

	sequences := [][]string{
		{"north", "south"},
		{"east"},
		{},
		{"all", "north"},
	}

	for _, vals := range sequences {
		state = state.SetConditionValues("region", vals)

		want := state.Dropdowns["region"].SelectedValues
		if !reflect.DeepEqual(want, dedupe(vals)) {
			t.Fatalf("dropdown values = %v, want %v", want, vals)
		}
		for _, c := range state.Conditions {
			if c.ConditionKey == "region" && !reflect.DeepEqual(c.SelectedValues, want) {
				t.Errorf("raw condition out of sync: %v != %v", c.SelectedValues, want)
			}
		}
		for _, p := range state.Permissions {
			for _, c := range p.Conditions {
				if c.ConditionKey == "region" && !reflect.DeepEqual(c.SelectedValues, want) {
					t.Errorf("permission %s condition out of sync: %v != %v", p.PermissionKey, c.SelectedValues, want)
				}
			}
		}
	}
}

func TestSetConditionValuesDeduplicates(t *testing.T) {
	state := Load(sampleBundle())

	state = state.SetConditionValues("region", []string{"north", "north", "south"})
	got := state.Dropdowns["region"].SelectedValues
	if !reflect.DeepEqual(got, []string{"north", "south"}) {
		t.Errorf("values = %v, want [north south]", got)
	}
}

// The sentinel "all" is deliberately non-exclusive: it may coexist with
// explicit ids in stored state, and only the label collapses in the UI.
func TestSentinelAllIsNotExclusive(t *testing.T) {
	state := Load(sampleBundle())

	state = state.SetConditionValues("region", []string{ValueAll, "north"})
	got := state.Dropdowns["region"].SelectedValues
	if !reflect.DeepEqual(got, []string{"all", "north"}) {
		t.Errorf("values = %v, selecting %q must not clear explicit ids", got, ValueAll)
	}
}

func TestSetConditionValuesUnknownKey(t *testing.T) {
	state := Load(sampleBundle())

	next := state.SetConditionValues("warehouse", []string{"w1"})
	if _, ok := next.Dropdowns["warehouse"]; ok {
		t.Errorf("unknown key must not create a dropdown")
	}
	if !reflect.DeepEqual(next.Dropdowns["region"].SelectedValues, state.Dropdowns["region"].SelectedValues) {
		t.Errorf("unknown key must leave other conditions untouched")
	}
}
