package policy

// Compile transforms the final selection state into the wire-format
// permission list the backend persists. It is deterministic and
// side-effect free; given a well-formed State there is no error path.
//
// An entirely empty selection (no component and no special action
// checked) compiles to an empty list, which callers treat as "no
// change" rather than a policy with every permission explicitly absent.
func Compile(s State) []CompiledPermission {
	var checkedComponents []Component
	for _, c := range s.Components {
		if c.Checked {
			checkedComponents = append(checkedComponents, c)
		}
	}
	var checkedActions []SpecialAction
	for _, a := range s.SpecialActions {
		if a.Checked {
			checkedActions = append(checkedActions, a)
		}
	}

	if len(checkedComponents) == 0 && len(checkedActions) == 0 {
		return []CompiledPermission{}
	}

	compiled := make([]CompiledPermission, 0, len(s.Permissions))
	seen := make(map[string]bool)

	for _, p := range s.Permissions {
		if p.PermissionKey == "" || seen[p.PermissionKey] {
			continue
		}
		seen[p.PermissionKey] = true

		cp := CompiledPermission{
			PermissionKey: p.PermissionKey,
			IsActive:      true,
		}

		switch p.PermissionKey {
		case KeyVisibleComponents:
			keys := make([]string, 0, len(checkedComponents))
			for _, c := range checkedComponents {
				keys = append(keys, c.PermissionKey)
			}
			cp.Components = keys
		case KeySpecialActions:
			ids := make([]int, 0, len(checkedActions))
			for _, a := range checkedActions {
				ids = append(ids, a.PermissionID)
			}
			cp.Actions = ids
		}

		// A condition with zero selected values must never reach the
		// backend: an empty condition would read as "deny all", the
		// opposite of "not configured".
		var conds []CompiledCondition
		for _, c := range p.Conditions {
			dd, ok := s.Dropdowns[c.ConditionKey]
			if !ok || dd.ConditionKey == "" || len(dd.SelectedValues) == 0 {
				continue
			}
			conds = append(conds, CompiledCondition{
				ConditionKey: dd.ConditionKey,
				Values:       cloneValues(dd.SelectedValues),
				IsActive:     true,
			})
		}
		if len(conds) > 0 {
			cp.Conditions = conds
		}

		compiled = append(compiled, cp)
	}

	// Checked components are attached in their rich form to every
	// compiled permission, replacing the plain key list written above
	// for "visible_components". The overwrite order is part of the
	// backend contract; see the pinning test before touching it.
	if len(checkedComponents) > 0 {
		rich := make([]CompiledComponent, 0, len(checkedComponents))
		for _, c := range checkedComponents {
			rich = append(rich, CompiledComponent{ComponentKey: c.ID, IsActive: true})
		}
		for i := range compiled {
			compiled[i].Components = rich
		}
	}

	// Checked special actions not modeled as permission objects in the
	// schema are promoted to first-class permissions.
	for _, a := range checkedActions {
		if a.ID == "" || seen[a.ID] {
			continue
		}
		seen[a.ID] = true
		compiled = append(compiled, CompiledPermission{
			PermissionKey: a.ID,
			IsActive:      true,
		})
	}

	out := make([]CompiledPermission, 0, len(compiled))
	for _, cp := range compiled {
		if cp.Conditions != nil && allValuesEmpty(cp.Conditions) {
			continue
		}
		out = append(out, cp)
	}
	return out
}

func allValuesEmpty(conds []CompiledCondition) bool {
	for _, c := range conds {
		if len(c.Values) > 0 {
			return false
		}
	}
	return true
}
