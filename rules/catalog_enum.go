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

// enumRules holds the no-delete, same-property, and structural rules
// scoped to enums and enum values.
var enumRules = []Rule{
	{ID: "ENUM_VALUE_NO_DELETE", Categories: []Category{CategoryWire, CategoryWireJSON}, DefaultEnabled: true,
		Fn: enumValueNoDelete("")},
	{ID: "ENUM_VALUE_NO_DELETE_UNLESS_NUMBER_RESERVED", Categories: []Category{CategoryWire, CategoryWireJSON}, DefaultEnabled: false,
		Fn: enumValueNoDelete("number")},
	{ID: "ENUM_VALUE_NO_DELETE_UNLESS_NAME_RESERVED", Categories: []Category{CategoryWire, CategoryWireJSON}, DefaultEnabled: false,
		Fn: enumValueNoDelete("name")},
	{ID: "ENUM_VALUE_SAME_NAME", Categories: []Category{CategoryWire, CategoryWireJSON}, DefaultEnabled: true,
		Fn: enumValueSameProperty("name", func(v *canonical.EnumValue) string { return v.Name })},
	{ID: "ENUM_SAME_TYPE", Categories: []Category{CategoryWire, CategoryWireJSON}, DefaultEnabled: true,
		Fn: enumSameType()},
	{ID: "ENUM_RESERVED_RANGE_NO_DELETE", Categories: []Category{CategoryWire}, DefaultEnabled: true,
		Fn: enumReservedRangeNoDelete()},
	{ID: "ENUM_SUFFIXES_NO_CHANGE", Categories: []Category{CategoryWireJSON}, DefaultEnabled: true,
		Fn: enumSuffixesNoChange()},
	{ID: "ENUM_SAME_ALLOW_ALIAS", Categories: []Category{CategoryWire}, DefaultEnabled: true,
		Fn: enumSameAllowAlias()},
	{ID: "ENUM_NO_CHANGE_SUFFIX", Categories: []Category{CategoryFile, CategoryPackage}, DefaultEnabled: true,
		Fn: enumNoChangeSuffix()},
}
