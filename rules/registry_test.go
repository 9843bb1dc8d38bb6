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

package rules_test

import (
	"testing"

	"github.com/creachadair/protocompat/rules"
)

func TestRegistryIntegrity(t *testing.T) {
	seen := make(map[string]bool)
	for _, r := range rules.Registry {
		if r.ID == "" {
			t.Fatalf("found rule with empty id")
		}
		if seen[r.ID] {
			t.Fatalf("duplicate rule id %q", r.ID)
		}
		seen[r.ID] = true
		if len(r.Categories) == 0 {
			t.Errorf("rule %q has no categories", r.ID)
		}
		for _, c := range r.Categories {
			if !rules.ValidCategory(c) {
				t.Errorf("rule %q has unrecognized category %q", r.ID, c)
			}
		}
		if r.Fn == nil {
			t.Errorf("rule %q has nil Fn", r.ID)
		}
	}
	if len(rules.Registry) < 60 {
		t.Errorf("registry has %d rules, want at least 60", len(rules.Registry))
	}
}

func TestByID(t *testing.T) {
	r, ok := rules.ByID("FIELD_NO_DELETE")
	if !ok {
		t.Fatalf("ByID(FIELD_NO_DELETE) not found")
	}
	if r.ID != "FIELD_NO_DELETE" {
		t.Errorf("ByID returned rule with id %q", r.ID)
	}
	if _, ok := rules.ByID("NOT_A_REAL_RULE"); ok {
		t.Errorf("ByID found a rule that should not exist")
	}
}

func TestDefaultEnabledInCategory(t *testing.T) {
	fileWireJSON := rules.DefaultEnabledInCategory(rules.CategoryWireJSON)
	if len(fileWireJSON) == 0 {
		t.Fatalf("expected at least one default-enabled WIRE_JSON rule")
	}
	for _, r := range fileWireJSON {
		if !r.DefaultEnabled {
			t.Errorf("rule %q returned by DefaultEnabledInCategory but not default-enabled", r.ID)
		}
		if !r.InCategory(rules.CategoryWireJSON) {
			t.Errorf("rule %q returned for WIRE_JSON but not in that category", r.ID)
		}
	}
}
