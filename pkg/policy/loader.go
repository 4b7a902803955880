package policy

// Load normalizes a schema bundle into the engine's selection state.
//
// Checked flags carried by the bundle reflect the role's persisted
// configuration and are preserved as-is; a missing flag decodes to
// false. Malformed bundles (nil collections) degrade to empty
// collections rather than failing, since the hosting dialog renders
// "no X available" empty states.
func Load(bundle Bundle) State {
	s := State{
		ModuleKey:      bundle.ModuleKey,
		FeatureKey:     bundle.FeatureKey,
		ModuleName:     bundle.ModuleName,
		FeatureName:    bundle.FeatureName,
		Components:     make([]Component, len(bundle.Components)),
		SpecialActions: make([]SpecialAction, len(bundle.SpecialActions)),
		Conditions:     make([]DataAccessCondition, len(bundle.DataAccessConditions)),
		Permissions:    make([]Permission, len(bundle.PermissionsWithConditions)),
		Dropdowns:      make(map[string]ConditionDropdown),
	}

	copy(s.Components, bundle.Components)
	copy(s.SpecialActions, bundle.SpecialActions)

	for i, c := range bundle.DataAccessConditions {
		c.SelectedValues = cloneValues(c.SelectedValues)
		s.Conditions[i] = c

		s.Dropdowns[c.ConditionKey] = ConditionDropdown{
			ConditionKey:   c.ConditionKey,
			Name:           c.Name,
			Description:    c.Description,
			SelectedValues: cloneValues(c.SelectedValues),
			Options:        []Option{},
		}
	}

	for i, p := range bundle.PermissionsWithConditions {
		p.Conditions = cloneConditions(p.Conditions)
		s.Permissions[i] = p
	}

	// The master toggle mirrors "every component is checked", which would
	// be vacuously true for an empty component list; an empty list means
	// there is nothing to show all of.
	s.ShowAllComponents = len(s.Components) > 0 && allChecked(s.Components)

	return s
}

// ConditionKeys returns the distinct condition keys present in the
// loaded schema, in first-seen order. This is the input to the batched
// option lookup.
func (s State) ConditionKeys() []string {
	seen := make(map[string]bool)
	keys := make([]string, 0, len(s.Conditions))
	for _, c := range s.Conditions {
		if c.ConditionKey == "" || seen[c.ConditionKey] {
			continue
		}
		seen[c.ConditionKey] = true
		keys = append(keys, c.ConditionKey)
	}
	return keys
}

// ApplyOptions distributes resolved option lists back to each dropdown.
// Keys the resolver reported nothing for get an empty list so callers
// never need to null-check.
func (s State) ApplyOptions(options map[string][]Option) State {
	next := s.clone()
	for key, dd := range next.Dropdowns {
		opts := options[key]
		if opts == nil {
			opts = []Option{}
		}
		dd.Options = append([]Option{}, opts...)
		next.Dropdowns[key] = dd
	}
	return next
}

func allChecked(components []Component) bool {
	for _, c := range components {
		if !c.Checked {
			return false
		}
	}
	return true
}

func cloneValues(values []string) []string {
	if values == nil {
		return []string{}
	}
	return append([]string{}, values...)
}

func cloneConditions(conditions []DataAccessCondition) []DataAccessCondition {
	out := make([]DataAccessCondition, len(conditions))
	for i, c := range conditions {
		c.SelectedValues = cloneValues(c.SelectedValues)
		out[i] = c
	}
	return out
}
