// Copyright 2019 Michael J. Fromberger. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package rules

import "fmt"

// Registry is the complete, immutable table of compatibility rules: the
// union of every per-entity catalog in this package.
// Its order has no semantic meaning -- diag.Sort is what makes output
// deterministic -- but it is assembled in catalog order for readability
// when dumped for debugging.
var Registry = buildRegistry()

func buildRegistry() []Rule {
	var all []Rule
	all = append(all, fileRules...)
	all = append(all, messageRules...)
	all = append(all, fieldRules...)
	all = append(all, enumRules...)
	all = append(all, serviceRules...)
	if err := checkRegistry(all); err != nil {
		panic("rules: " + err.Error())
	}
	return all
}

// checkRegistry is a startup self-test: every ID is non-empty and unique,
// every rule has at least one recognized category, and the table has not
// silently lost a catalog.
func checkRegistry(all []Rule) error {
	seen := make(map[string]bool, len(all))
	for _, r := range all {
		if r.ID == "" {
			return fmt.Errorf("rule with empty id")
		}
		if seen[r.ID] {
			return fmt.Errorf("duplicate rule id %q", r.ID)
		}
		seen[r.ID] = true
		if len(r.Categories) == 0 {
			return fmt.Errorf("rule %q has no categories", r.ID)
		}
		for _, c := range r.Categories {
			if !ValidCategory(c) {
				return fmt.Errorf("rule %q has unrecognized category %q", r.ID, c)
			}
		}
		if r.Fn == nil {
			return fmt.Errorf("rule %q has no comparison function", r.ID)
		}
	}
	const wantRules = 70 // 20 file + 14 message + 20 field + 9 enum + 7 service
	if len(all) != wantRules {
		return fmt.Errorf("registry has %d rules, want %d", len(all), wantRules)
	}
	return nil
}

// ByID returns the rule with the given ID, or false if no such rule is
// registered.
func ByID(id string) (Rule, bool) {
	for _, r := range Registry {
		if r.ID == id {
			return r, true
		}
	}
	return Rule{}, false
}

// InCategory returns every registered rule that belongs to category c.
func InCategory(c Category) []Rule {
	var out []Rule
	for _, r := range Registry {
		if r.InCategory(c) {
			out = append(out, r)
		}
	}
	return out
}

// DefaultEnabledInCategory returns the default-enabled rules belonging to
// category c, the set the selector unions across every requested
// category.
func DefaultEnabledInCategory(c Category) []Rule {
	var out []Rule
	for _, r := range InCategory(c) {
		if r.DefaultEnabled {
			out = append(out, r)
		}
	}
	return out
}
