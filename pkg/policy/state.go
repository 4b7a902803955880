package policy

// The state machine: pure transitions over State. Every method returns
// a new State; the caller's copy is never mutated. Transitions are
// total: toggled ids are always drawn from the loaded collections, so
// unknown ids are simply no-ops.

// clone makes a deep copy of the state so transitions can mutate freely.
func (s State) clone() State {
	next := s
	next.Components = append([]Component{}, s.Components...)
	next.SpecialActions = append([]SpecialAction{}, s.SpecialActions...)
	next.Conditions = cloneConditions(s.Conditions)

	next.Permissions = make([]Permission, len(s.Permissions))
	for i, p := range s.Permissions {
		p.Conditions = cloneConditions(p.Conditions)
		next.Permissions[i] = p
	}

	next.Dropdowns = make(map[string]ConditionDropdown, len(s.Dropdowns))
	for key, dd := range s.Dropdowns {
		dd.SelectedValues = cloneValues(dd.SelectedValues)
		dd.Options = append([]Option{}, dd.Options...)
		next.Dropdowns[key] = dd
	}
	return next
}

// SetShowAllComponents flips the master toggle. Turning it on checks
// every component; turning it off leaves the individual checks as last
// set by the user, so the toggle acts as an accelerator rather than an
// exclusive mode.
func (s State) SetShowAllComponents(on bool) State {
	next := s.clone()
	next.ShowAllComponents = on
	if on {
		for i := range next.Components {
			next.Components[i].Checked = true
		}
	}
	return next
}

// ToggleComponent flips exactly one component's checked flag. While the
// master toggle is on, components are not individually editable and the
// call has no effect.
func (s State) ToggleComponent(id string) State {
	if s.ShowAllComponents {
		return s.clone()
	}
	next := s.clone()
	for i := range next.Components {
		if next.Components[i].ID == id {
			next.Components[i].Checked = !next.Components[i].Checked
			break
		}
	}
	return next
}

// ToggleSpecialAction flips exactly one special action's checked flag.
func (s State) ToggleSpecialAction(id string) State {
	next := s.clone()
	for i := range next.SpecialActions {
		if next.SpecialActions[i].ID == id {
			next.SpecialActions[i].Checked = !next.SpecialActions[i].Checked
			break
		}
	}
	return next
}

// SetConditionValues replaces the selected values for one condition key
// and propagates the replacement to the dropdown, to every raw
// condition sharing the key, and to the embedded condition inside every
// permission referencing it. All three views of the key end the call
// identical.
//
// Values are treated as an ordered set: duplicates are dropped, first
// occurrence wins. The sentinel "all" is stored like any other value
// and may coexist with explicit ids.
func (s State) SetConditionValues(conditionKey string, values []string) State {
	next := s.clone()
	vals := dedupe(values)

	if dd, ok := next.Dropdowns[conditionKey]; ok {
		dd.SelectedValues = cloneValues(vals)
		next.Dropdowns[conditionKey] = dd
	}
	for i := range next.Conditions {
		if next.Conditions[i].ConditionKey == conditionKey {
			next.Conditions[i].SelectedValues = cloneValues(vals)
		}
	}
	for i := range next.Permissions {
		for j := range next.Permissions[i].Conditions {
			if next.Permissions[i].Conditions[j].ConditionKey == conditionKey {
				next.Permissions[i].Conditions[j].SelectedValues = cloneValues(vals)
			}
		}
	}
	return next
}

func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
