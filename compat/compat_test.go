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

package compat_test

import (
	"testing"

	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/creachadair/protocompat/compat"
)

func strp(s string) *string { return &s }
func i32p(n int32) *int32   { return &n }

func field(name string, num int32, typ descriptorpb.FieldDescriptorProto_Type) *descriptorpb.FieldDescriptorProto {
	return &descriptorpb.FieldDescriptorProto{Name: strp(name), Number: i32p(num), Type: typ.Enum()}
}

func fileWithMessage(fields ...*descriptorpb.FieldDescriptorProto) *descriptorpb.FileDescriptorProto {
	return &descriptorpb.FileDescriptorProto{
		Name:        strp("t.proto"),
		Syntax:      strp("proto3"),
		MessageType: []*descriptorpb.DescriptorProto{{Name: strp("T"), Field: fields}},
	}
}

// TestVerdicts exercises the basic verdict outcomes: identical input is
// green, purely additive change is yellow, and removals or retypings are
// red with the expected rule attached.
func TestVerdicts(t *testing.T) {
	tests := []struct {
		name      string
		prev, cur *descriptorpb.FileDescriptorProto
		want      compat.Verdict
		wantRule  string // "" means no rule id is asserted
	}{
		{
			name: "identical",
			prev: fileWithMessage(field("name", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING)),
			cur:  fileWithMessage(field("name", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING)),
			want: compat.Green,
		},
		{
			name: "additive field",
			prev: fileWithMessage(field("name", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING)),
			cur: fileWithMessage(
				field("name", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING),
				field("id", 2, descriptorpb.FieldDescriptorProto_TYPE_INT32),
			),
			want: compat.Yellow,
		},
		{
			name: "retyped field",
			prev: fileWithMessage(field("name", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING)),
			cur:  fileWithMessage(field("name", 1, descriptorpb.FieldDescriptorProto_TYPE_INT64)),
			want: compat.Red, wantRule: "FIELD_SAME_TYPE",
		},
		{
			name: "deleted field",
			prev: fileWithMessage(field("name", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING)),
			cur:  fileWithMessage(),
			want: compat.Red, wantRule: "FIELD_NO_DELETE",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			verdict, changes, err := compat.Compare(tc.prev, tc.cur, nil)
			if err != nil {
				t.Fatalf("Compare: %v", err)
			}
			if verdict != tc.want {
				t.Errorf("Compare() verdict = %v, want %v (changes=%v)", verdict, tc.want, changes)
			}
			if tc.wantRule != "" {
				var found bool
				for _, c := range changes {
					if c.RuleID == tc.wantRule {
						found = true
					}
				}
				if !found {
					t.Errorf("expected rule id %q among changes, got %v", tc.wantRule, changes)
				}
			}
		})
	}
}

func TestEnumValueDeletionIsRed(t *testing.T) {
	enumType := func(values ...*descriptorpb.EnumValueDescriptorProto) *descriptorpb.FileDescriptorProto {
		return &descriptorpb.FileDescriptorProto{
			Name:     strp("e.proto"),
			Syntax:   strp("proto3"),
			EnumType: []*descriptorpb.EnumDescriptorProto{{Name: strp("E"), Value: values}},
		}
	}
	prev := enumType(
		&descriptorpb.EnumValueDescriptorProto{Name: strp("A"), Number: i32p(0)},
		&descriptorpb.EnumValueDescriptorProto{Name: strp("B"), Number: i32p(1)},
	)
	cur := enumType(&descriptorpb.EnumValueDescriptorProto{Name: strp("A"), Number: i32p(0)})

	verdict, changes, err := compat.Compare(prev, cur, nil)
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if verdict != compat.Red {
		t.Fatalf("verdict = %v, want Red", verdict)
	}
	var found bool
	for _, c := range changes {
		if c.RuleID == "ENUM_VALUE_NO_DELETE" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected ENUM_VALUE_NO_DELETE among changes, got %v", changes)
	}
}

func TestServiceRequestTypeChangeIsRed(t *testing.T) {
	svc := func(inputType string) *descriptorpb.FileDescriptorProto {
		return &descriptorpb.FileDescriptorProto{
			Name:   strp("s.proto"),
			Syntax: strp("proto3"),
			Service: []*descriptorpb.ServiceDescriptorProto{{
				Name: strp("S"),
				Method: []*descriptorpb.MethodDescriptorProto{{
					Name: strp("F"), InputType: strp(inputType), OutputType: strp(".Rsp"),
				}},
			}},
		}
	}
	verdict, changes, err := compat.Compare(svc(".Req"), svc(".Req2"), nil)
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if verdict != compat.Red {
		t.Fatalf("verdict = %v, want Red", verdict)
	}
	var found bool
	for _, c := range changes {
		if c.RuleID == "RPC_SAME_REQUEST_TYPE" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected RPC_SAME_REQUEST_TYPE among changes, got %v", changes)
	}
}

func TestReservedNumberReuseIsYellow(t *testing.T) {
	prev := &descriptorpb.FileDescriptorProto{
		Name:   strp("t.proto"),
		Syntax: strp("proto3"),
		MessageType: []*descriptorpb.DescriptorProto{{
			Name:          strp("T"),
			ReservedRange: []*descriptorpb.DescriptorProto_ReservedRange{{Start: i32p(2), End: i32p(3)}},
			Field:         []*descriptorpb.FieldDescriptorProto{field("name", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING)},
		}},
	}
	cur := fileWithMessage(
		field("name", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING),
		field("x", 2, descriptorpb.FieldDescriptorProto_TYPE_STRING),
	)
	verdict, changes, err := compat.Compare(prev, cur, nil)
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if verdict != compat.Yellow {
		t.Errorf("verdict = %v, want Yellow (changes=%v)", verdict, changes)
	}
}

func TestDefaultCollapsingIsGreen(t *testing.T) {
	withoutDefault := fileWithMessage(field("name", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING))
	withDefault := &descriptorpb.FileDescriptorProto{
		Name:   strp("t.proto"),
		Syntax: strp("proto3"),
		MessageType: []*descriptorpb.DescriptorProto{{
			Name: strp("T"),
			Field: []*descriptorpb.FieldDescriptorProto{
				{Name: strp("name"), Number: i32p(1), Type: descriptorpb.FieldDescriptorProto_TYPE_STRING.Enum(), DefaultValue: strp("")},
			},
		}},
	}
	verdict, _, err := compat.Compare(withoutDefault, withDefault, nil)
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if verdict != compat.Green {
		t.Errorf("verdict = %v, want Green", verdict)
	}
}

func TestCompareAllPreservesOrder(t *testing.T) {
	pairs := []compat.Pair{
		{Name: "p1", Previous: fileWithMessage(field("a", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING)), Current: fileWithMessage(field("a", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING))},
		{Name: "p2", Previous: fileWithMessage(field("a", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING)), Current: fileWithMessage()},
	}
	results := (compat.Spec{}).CompareAll(pairs)
	if len(results) != 2 {
		t.Fatalf("CompareAll returned %d results, want 2", len(results))
	}
	if results[0].Name != "p1" || results[0].Verdict != compat.Green {
		t.Errorf("results[0] = %+v, want Green p1", results[0])
	}
	if results[1].Name != "p2" || results[1].Verdict != compat.Red {
		t.Errorf("results[1] = %+v, want Red p2", results[1])
	}
}
