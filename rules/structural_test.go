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

	"github.com/creachadair/protocompat/canonical"
	"github.com/creachadair/protocompat/rules"
)

func fileWithField(typ canonical.Type) *canonical.File {
	return &canonical.File{Messages: []*canonical.Message{{
		Name: "T",
		Fields: []*canonical.Field{
			{Number: 1, Name: "x", JSONName: "x", Type: typ},
		},
	}}}
}

func runRule(t *testing.T, id string, prev, curr *canonical.File) []string {
	t.Helper()
	sel := &rules.Selector{UseRules: []string{id}}
	changes, err := sel.Run(prev, curr, &rules.Context{})
	if err != nil {
		t.Fatalf("Run(%s): %v", id, err)
	}
	var ids []string
	for _, c := range changes {
		ids = append(ids, c.RuleID)
	}
	return ids
}

func TestWireCompatibleType(t *testing.T) {
	tests := []struct {
		name       string
		prev, curr canonical.Type
		wantChange bool
	}{
		{"int32 to int64", canonical.Type{Kind: canonical.KindInt32}, canonical.Type{Kind: canonical.KindInt64}, false},
		{"uint32 to bool", canonical.Type{Kind: canonical.KindUint32}, canonical.Type{Kind: canonical.KindBool}, false},
		{"sint32 to sint64", canonical.Type{Kind: canonical.KindSint32}, canonical.Type{Kind: canonical.KindSint64}, false},
		{"int32 to sint32", canonical.Type{Kind: canonical.KindInt32}, canonical.Type{Kind: canonical.KindSint32}, true},
		{"int32 to string", canonical.Type{Kind: canonical.KindInt32}, canonical.Type{Kind: canonical.KindString}, true},
		{"fixed32 to float", canonical.Type{Kind: canonical.KindFixed32}, canonical.Type{Kind: canonical.KindFloat}, false},
		{"fixed32 to fixed64", canonical.Type{Kind: canonical.KindFixed32}, canonical.Type{Kind: canonical.KindFixed64}, true},
		{"string to bytes", canonical.Type{Kind: canonical.KindString}, canonical.Type{Kind: canonical.KindBytes}, false},
		{"renamed message referent",
			canonical.Type{Kind: canonical.KindMessage, Name: "A"},
			canonical.Type{Kind: canonical.KindMessage, Name: "B"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := runRule(t, "FIELD_WIRE_COMPATIBLE_TYPE", fileWithField(tc.prev), fileWithField(tc.curr))
			if (len(got) > 0) != tc.wantChange {
				t.Errorf("changes = %v, wantChange = %v", got, tc.wantChange)
			}
		})
	}
}

func TestWireJSONCompatibleTypeRejectsStringBytes(t *testing.T) {
	got := runRule(t, "FIELD_WIRE_JSON_COMPATIBLE_TYPE",
		fileWithField(canonical.Type{Kind: canonical.KindString}),
		fileWithField(canonical.Type{Kind: canonical.KindBytes}))
	if len(got) == 0 {
		t.Errorf("string to bytes passed under the JSON-strict variant, want a change")
	}
}

func messageWithReserved(ranges []canonical.ReservedRange, fieldNums ...int32) *canonical.File {
	m := &canonical.Message{Name: "T", ReservedRanges: ranges}
	for _, n := range fieldNums {
		m.Fields = append(m.Fields, &canonical.Field{
			Number: n, Name: "f", JSONName: "f", Type: canonical.Type{Kind: canonical.KindString},
		})
	}
	return &canonical.File{Messages: []*canonical.Message{m}}
}

func TestReservedRangeNarrowing(t *testing.T) {
	prev := messageWithReserved([]canonical.ReservedRange{{Start: 2, End: 5}})

	t.Run("dropped entirely", func(t *testing.T) {
		got := runRule(t, "MESSAGE_RESERVED_RANGE_NO_DELETE", prev, messageWithReserved(nil))
		if len(got) == 0 {
			t.Errorf("dropping a reserved range reported no change")
		}
	})
	t.Run("still reserved", func(t *testing.T) {
		got := runRule(t, "MESSAGE_RESERVED_RANGE_NO_DELETE", prev,
			messageWithReserved([]canonical.ReservedRange{{Start: 1, End: 6}}))
		if len(got) != 0 {
			t.Errorf("widened reservation reported changes: %v", got)
		}
	})
	t.Run("consumed by live fields", func(t *testing.T) {
		got := runRule(t, "MESSAGE_RESERVED_RANGE_NO_DELETE", prev,
			messageWithReserved(nil, 2, 3, 4))
		if len(got) != 0 {
			t.Errorf("reserved numbers occupied by fields reported changes: %v", got)
		}
	})
	t.Run("partially reopened", func(t *testing.T) {
		got := runRule(t, "MESSAGE_RESERVED_RANGE_NO_DELETE", prev,
			messageWithReserved([]canonical.ReservedRange{{Start: 2, End: 4}}))
		if len(got) == 0 {
			t.Errorf("reopening part of a reserved range reported no change")
		}
	})
}

func TestEnumOpennessTransition(t *testing.T) {
	enumFile := func(closed bool) *canonical.File {
		return &canonical.File{Enums: []*canonical.Enum{{
			Name:   "E",
			Values: []*canonical.EnumValue{{Number: 0, Name: "E_UNSPECIFIED"}},
			Closed: closed,
		}}}
	}
	if got := runRule(t, "ENUM_SAME_TYPE", enumFile(true), enumFile(false)); len(got) == 0 {
		t.Errorf("closed to open transition reported no change")
	}
	if got := runRule(t, "ENUM_SAME_TYPE", enumFile(false), enumFile(false)); len(got) != 0 {
		t.Errorf("unchanged openness reported changes: %v", got)
	}
}

func TestSuffixLockFlagsLostSuffix(t *testing.T) {
	prev := &canonical.File{Services: []*canonical.Service{{Name: "WidgetAPI"}}}
	curr := &canonical.File{Services: []*canonical.Service{{Name: "WidgetService"}}}

	ctx := &rules.Context{ServiceNoChangeSuffixes: []string{"API"}}
	sel := &rules.Selector{UseRules: []string{"SERVICE_NO_CHANGE_SUFFIX"}}
	changes, err := sel.Run(prev, curr, ctx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(changes) == 0 {
		t.Errorf("renaming WidgetAPI away reported no change with the API suffix locked")
	}

	// Without the lock configured the rule is inert.
	quiet, err := sel.Run(prev, curr, &rules.Context{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(quiet) != 0 {
		t.Errorf("suffix rule fired without configured suffixes: %v", quiet)
	}
}
