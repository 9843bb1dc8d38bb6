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

package normalize_test

import (
	"testing"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/creachadair/protocompat/canonical"
	"github.com/creachadair/protocompat/normalize"
)

func strp(s string) *string { return &s }
func i32p(n int32) *int32   { return &n }

func mustNormalize(t *testing.T, fd *descriptorpb.FileDescriptorProto) *canonical.File {
	t.Helper()
	cf, err := normalize.File(fd)
	if err != nil {
		t.Fatalf("normalize.File: %v", err)
	}
	return cf
}

func TestFileDefaultsToProto2Syntax(t *testing.T) {
	fd := &descriptorpb.FileDescriptorProto{Name: strp("x.proto")}
	cf := mustNormalize(t, fd)
	if cf.Syntax != "proto2" {
		t.Errorf("Syntax = %q, want proto2", cf.Syntax)
	}
}

func TestFieldOrderIndependentAfterNormalize(t *testing.T) {
	fd1 := &descriptorpb.FileDescriptorProto{
		Name:    strp("x.proto"),
		Syntax:  strp("proto3"),
		Package: strp("acme"),
		MessageType: []*descriptorpb.DescriptorProto{{
			Name: strp("T"),
			Field: []*descriptorpb.FieldDescriptorProto{
				{Name: strp("b"), Number: i32p(2), Type: descriptorpb.FieldDescriptorProto_TYPE_INT32.Enum()},
				{Name: strp("a"), Number: i32p(1), Type: descriptorpb.FieldDescriptorProto_TYPE_STRING.Enum()},
			},
		}},
	}
	fd2 := &descriptorpb.FileDescriptorProto{
		Name:    strp("x.proto"),
		Syntax:  strp("proto3"),
		Package: strp("acme"),
		MessageType: []*descriptorpb.DescriptorProto{{
			Name: strp("T"),
			Field: []*descriptorpb.FieldDescriptorProto{
				{Name: strp("a"), Number: i32p(1), Type: descriptorpb.FieldDescriptorProto_TYPE_STRING.Enum()},
				{Name: strp("b"), Number: i32p(2), Type: descriptorpb.FieldDescriptorProto_TYPE_INT32.Enum()},
			},
		}},
	}
	cf1 := mustNormalize(t, fd1)
	cf2 := mustNormalize(t, fd2)
	if !canonical.Equal(cf1, cf2) {
		t.Errorf("field declaration order changed the fingerprint")
	}
}

func TestJSONNameDefaultsToLowerCamelCase(t *testing.T) {
	fd := &descriptorpb.FileDescriptorProto{
		Name:   strp("x.proto"),
		Syntax: strp("proto3"),
		MessageType: []*descriptorpb.DescriptorProto{{
			Name: strp("T"),
			Field: []*descriptorpb.FieldDescriptorProto{
				{Name: strp("some_field_name"), Number: i32p(1), Type: descriptorpb.FieldDescriptorProto_TYPE_STRING.Enum()},
			},
		}},
	}
	cf := mustNormalize(t, fd)
	got := cf.MessageByName("T").Fields[0].JSONName
	if got != "someFieldName" {
		t.Errorf("JSONName = %q, want someFieldName", got)
	}
}

func TestExplicitDefaultEqualToProtoDefaultCollapses(t *testing.T) {
	without := &descriptorpb.FileDescriptorProto{
		Name:   strp("x.proto"),
		Syntax: strp("proto2"),
		MessageType: []*descriptorpb.DescriptorProto{{
			Name: strp("T"),
			Field: []*descriptorpb.FieldDescriptorProto{
				{Name: strp("name"), Number: i32p(1), Label: descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
					Type: descriptorpb.FieldDescriptorProto_TYPE_STRING.Enum()},
			},
		}},
	}
	with := &descriptorpb.FileDescriptorProto{
		Name:   strp("x.proto"),
		Syntax: strp("proto2"),
		MessageType: []*descriptorpb.DescriptorProto{{
			Name: strp("T"),
			Field: []*descriptorpb.FieldDescriptorProto{
				{Name: strp("name"), Number: i32p(1), Label: descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
					Type: descriptorpb.FieldDescriptorProto_TYPE_STRING.Enum(), DefaultValue: strp("")},
			},
		}},
	}
	cf1 := mustNormalize(t, without)
	cf2 := mustNormalize(t, with)
	if !canonical.Equal(cf1, cf2) {
		t.Errorf("explicit empty-string default changed the fingerprint, want default-collapsing")
	}
}

func TestSyntheticOneofBecomesOptionalNotOneof(t *testing.T) {
	fd := &descriptorpb.FileDescriptorProto{
		Name:   strp("x.proto"),
		Syntax: strp("proto3"),
		MessageType: []*descriptorpb.DescriptorProto{{
			Name: strp("T"),
			Field: []*descriptorpb.FieldDescriptorProto{
				{Name: strp("x"), Number: i32p(1), Type: descriptorpb.FieldDescriptorProto_TYPE_STRING.Enum(),
					Proto3Optional: proto.Bool(true), OneofIndex: i32p(0)},
			},
			OneofDecl: []*descriptorpb.OneofDescriptorProto{{Name: strp("_x")}},
		}},
	}
	cf := mustNormalize(t, fd)
	f := cf.MessageByName("T").Fields[0]
	if !f.Synthetic {
		t.Errorf("Synthetic = false, want true for a proto3 optional field")
	}
	if f.OneofName != "" {
		t.Errorf("OneofName = %q, want empty for a synthetic oneof", f.OneofName)
	}
	if f.Cardinality != canonical.CardinalityOptional {
		t.Errorf("Cardinality = %v, want Optional", f.Cardinality)
	}
}

func TestMessageReservedRangeEndIsExclusive(t *testing.T) {
	fd := &descriptorpb.FileDescriptorProto{
		Name:   strp("x.proto"),
		Syntax: strp("proto3"),
		MessageType: []*descriptorpb.DescriptorProto{{
			Name:          strp("T"),
			ReservedRange: []*descriptorpb.DescriptorProto_ReservedRange{{Start: i32p(2), End: i32p(4)}},
		}},
	}
	cf := mustNormalize(t, fd)
	m := cf.MessageByName("T")
	if !m.ReservesNumber(2) || !m.ReservesNumber(3) || m.ReservesNumber(4) {
		t.Errorf("reserved range did not normalize to the half-open form [2, 4)")
	}
}

func TestEnumReservedRangeEndIsInclusiveInSource(t *testing.T) {
	fd := &descriptorpb.FileDescriptorProto{
		Name:   strp("x.proto"),
		Syntax: strp("proto3"),
		EnumType: []*descriptorpb.EnumDescriptorProto{{
			Name:          strp("E"),
			Value:         []*descriptorpb.EnumValueDescriptorProto{{Name: strp("A"), Number: i32p(0)}},
			ReservedRange: []*descriptorpb.EnumDescriptorProto_EnumReservedRange{{Start: i32p(2), End: i32p(3)}},
		}},
	}
	cf := mustNormalize(t, fd)
	e := cf.EnumByName("E")
	if !e.ReservesNumber(2) || !e.ReservesNumber(3) || e.ReservesNumber(4) {
		t.Errorf("enum reserved range with inclusive End=3 did not normalize to cover {2,3} only")
	}
}

func TestEditionsDefaultFieldPresenceIsExplicit(t *testing.T) {
	fd := &descriptorpb.FileDescriptorProto{
		Name:    strp("x.proto"),
		Syntax:  strp("editions"),
		Edition: descriptorpb.Edition_EDITION_2023.Enum(),
		MessageType: []*descriptorpb.DescriptorProto{{
			Name: strp("T"),
			Field: []*descriptorpb.FieldDescriptorProto{
				{Name: strp("x"), Number: i32p(1), Type: descriptorpb.FieldDescriptorProto_TYPE_STRING.Enum()},
			},
		}},
	}
	cf := mustNormalize(t, fd)
	got := cf.MessageByName("T").Fields[0].Cardinality
	if got != canonical.CardinalityOptional {
		t.Errorf("Cardinality = %v, want Optional under edition 2023's default explicit presence", got)
	}
}

func TestEditionsImplicitPresenceOverrideIsSingular(t *testing.T) {
	fd := &descriptorpb.FileDescriptorProto{
		Name:    strp("x.proto"),
		Syntax:  strp("editions"),
		Edition: descriptorpb.Edition_EDITION_2023.Enum(),
		Options: &descriptorpb.FileOptions{
			Features: &descriptorpb.FeatureSet{FieldPresence: descriptorpb.FeatureSet_IMPLICIT.Enum()},
		},
		MessageType: []*descriptorpb.DescriptorProto{{
			Name: strp("T"),
			Field: []*descriptorpb.FieldDescriptorProto{
				{Name: strp("x"), Number: i32p(1), Type: descriptorpb.FieldDescriptorProto_TYPE_STRING.Enum()},
			},
		}},
	}
	cf := mustNormalize(t, fd)
	got := cf.MessageByName("T").Fields[0].Cardinality
	if got != canonical.CardinalitySingular {
		t.Errorf("Cardinality = %v, want Singular when the file overrides field_presence to IMPLICIT", got)
	}
}
