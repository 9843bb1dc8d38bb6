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

import "github.com/creachadair/protocompat/canonical"

func cardinalityString(c canonical.Cardinality) string { return c.String() }

// fieldRules holds the no-delete and same-property rules over individual
// message fields.
var fieldRules = []Rule{
	{ID: "FIELD_NO_DELETE", Categories: []Category{CategoryWire, CategoryWireJSON}, DefaultEnabled: true,
		Fn: fieldNoDelete("")},
	{ID: "FIELD_NO_DELETE_UNLESS_NUMBER_RESERVED", Categories: []Category{CategoryWire, CategoryWireJSON}, DefaultEnabled: false,
		Fn: fieldNoDelete("number")},
	{ID: "FIELD_NO_DELETE_UNLESS_NAME_RESERVED", Categories: []Category{CategoryWire, CategoryWireJSON}, DefaultEnabled: false,
		Fn: fieldNoDelete("name")},

	{ID: "FIELD_SAME_TYPE", Categories: []Category{CategoryWire, CategoryWireJSON}, DefaultEnabled: true,
		Fn: fieldSameType()},
	{ID: "FIELD_WIRE_COMPATIBLE_TYPE", Categories: []Category{CategoryWire}, DefaultEnabled: false,
		Fn: fieldWireCompatibleType(false)},
	{ID: "FIELD_WIRE_JSON_COMPATIBLE_TYPE", Categories: []Category{CategoryWireJSON}, DefaultEnabled: false,
		Fn: fieldWireCompatibleType(true)},

	{ID: "FIELD_SAME_CARDINALITY", Categories: []Category{CategoryWire, CategoryWireJSON}, DefaultEnabled: true,
		Fn: fieldSameProperty("cardinality", func(f *canonical.Field) string { return cardinalityString(f.Cardinality) })},
	{ID: "FIELD_SAME_NAME", Categories: []Category{CategoryWireJSON}, DefaultEnabled: true,
		Fn: fieldSameProperty("name", func(f *canonical.Field) string { return f.Name })},
	{ID: "FIELD_SAME_JSON_NAME", Categories: []Category{CategoryWireJSON}, DefaultEnabled: true,
		Fn: fieldSameProperty("json_name", func(f *canonical.Field) string { return f.JSONName })},
	{ID: "FIELD_SAME_DEFAULT", Categories: []Category{CategoryWire, CategoryWireJSON}, DefaultEnabled: true,
		Fn: fieldSameProperty("default", func(f *canonical.Field) string { return f.Options.Default })},
	{ID: "FIELD_SAME_CTYPE", Categories: []Category{CategoryFile}, DefaultEnabled: true,
		Fn: fieldSameProperty("ctype", func(f *canonical.Field) string { return f.Options.CType })},
	{ID: "FIELD_SAME_JSTYPE", Categories: []Category{CategoryFile}, DefaultEnabled: true,
		Fn: fieldSameProperty("jstype", func(f *canonical.Field) string { return f.Options.JSType })},
	{ID: "FIELD_SAME_CPP_STRING_TYPE", Categories: []Category{CategoryFile}, DefaultEnabled: true,
		Fn: fieldSameProperty("cpp_string_type", func(f *canonical.Field) string { return f.Options.CppStringType })},
	{ID: "FIELD_SAME_JAVA_UTF8_VALIDATION", Categories: []Category{CategoryFile}, DefaultEnabled: true,
		Fn: fieldSameProperty("java_utf8_validation", func(f *canonical.Field) string { return f.Options.JavaUtf8Validation })},
	{ID: "FIELD_SAME_ONEOF", Categories: []Category{CategoryWire, CategoryWireJSON}, DefaultEnabled: true,
		Fn: fieldSameProperty("oneof", fieldOneofKey)},
	{ID: "FIELD_SAME_PACKED", Categories: []Category{CategoryWire}, DefaultEnabled: true,
		Fn: fieldSameProperty("packed", func(f *canonical.Field) string { return boolStr(f.Options.Packed) })},
	{ID: "FIELD_SAME_LAZY", Categories: []Category{CategoryFile}, DefaultEnabled: true,
		Fn: fieldSameProperty("lazy", func(f *canonical.Field) string { return boolStr(f.Options.Lazy) })},

	{ID: "EXTENSION_SAME_TYPE", Categories: []Category{CategoryWire, CategoryWireJSON}, DefaultEnabled: true,
		Fn: extensionSameType()},
	{ID: "EXTENSION_SAME_JSON_NAME", Categories: []Category{CategoryWireJSON}, DefaultEnabled: true,
		Fn: extensionSameProperty("json_name", func(f *canonical.Field) string { return f.JSONName })},
	{ID: "EXTENSION_MESSAGE_NO_DELETE", Categories: []Category{CategoryWire, CategoryWireJSON}, DefaultEnabled: true,
		Fn: extensionMessageNoDelete()},
}

// fieldOneofKey treats every synthetic proto3-optional wrapper as "no
// oneof", so a proto2-to-proto3 migration that preserves field numbers
// and types does not trip FIELD_SAME_ONEOF.
func fieldOneofKey(f *canonical.Field) string {
	if f.Synthetic {
		return ""
	}
	return f.OneofName
}
