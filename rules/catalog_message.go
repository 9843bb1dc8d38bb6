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

import "github.com/creachadair/protocompat/diag"

// messageRules holds the no-delete and structural rules for messages, and
// the dual FILE/PACKAGE-scoped no-delete rules for every other top-level
// entity kind. Because this engine only ever sees one file pair at a
// time, the FILE and PACKAGE variants detect the identical condition.
var messageRules = []Rule{
	{ID: "FILE_MESSAGE_NO_DELETE", Categories: []Category{CategoryFile}, DefaultEnabled: true,
		Fn: noDeleteTopLevel(diag.EntityMessage, messageNames, "message")},
	{ID: "PACKAGE_MESSAGE_NO_DELETE", Categories: []Category{CategoryPackage}, DefaultEnabled: true,
		Fn: noDeleteTopLevel(diag.EntityMessage, messageNames, "message")},
	{ID: "FILE_ENUM_NO_DELETE", Categories: []Category{CategoryFile}, DefaultEnabled: true,
		Fn: noDeleteTopLevel(diag.EntityEnum, enumNames, "enum")},
	{ID: "PACKAGE_ENUM_NO_DELETE", Categories: []Category{CategoryPackage}, DefaultEnabled: true,
		Fn: noDeleteTopLevel(diag.EntityEnum, enumNames, "enum")},
	{ID: "FILE_SERVICE_NO_DELETE", Categories: []Category{CategoryFile}, DefaultEnabled: true,
		Fn: noDeleteTopLevel(diag.EntityService, serviceNames, "service")},
	{ID: "PACKAGE_SERVICE_NO_DELETE", Categories: []Category{CategoryPackage}, DefaultEnabled: true,
		Fn: noDeleteTopLevel(diag.EntityService, serviceNames, "service")},
	{ID: "FILE_EXTENSION_NO_DELETE", Categories: []Category{CategoryFile}, DefaultEnabled: true,
		Fn: noDeleteTopLevel(diag.EntityExtension, extensionNames, "extension")},
	{ID: "PACKAGE_EXTENSION_NO_DELETE", Categories: []Category{CategoryPackage}, DefaultEnabled: true,
		Fn: noDeleteTopLevel(diag.EntityExtension, extensionNames, "extension")},

	{ID: "MESSAGE_SAME_MAP_ENTRY", Categories: []Category{CategoryWire, CategoryWireJSON}, DefaultEnabled: true,
		Fn: messageSameMapEntry()},
	{ID: "MESSAGE_SAME_MESSAGE_SET_WIRE_FORMAT", Categories: []Category{CategoryWire}, DefaultEnabled: true,
		Fn: messageSameMessageSetWireFormat()},
	{ID: "MESSAGE_SAME_NO_STANDARD_DESCRIPTOR_ACCESSOR", Categories: []Category{CategoryFile}, DefaultEnabled: true,
		Fn: messageSameNoStandardDescriptorAccessor()},
	{ID: "MESSAGE_RESERVED_RANGE_NO_DELETE", Categories: []Category{CategoryWire}, DefaultEnabled: true,
		Fn: messageReservedRangeNoDelete()},
	{ID: "ONEOF_NO_DELETE", Categories: []Category{CategoryWire}, DefaultEnabled: true,
		Fn: oneofNoDelete()},

	// Opt-in suffix locks: no-ops unless the caller's configuration
	// populates the corresponding Context field, so they're safe to
	// leave default-enabled.
	{ID: "MESSAGE_NO_CHANGE_SUFFIX", Categories: []Category{CategoryFile, CategoryPackage}, DefaultEnabled: true,
		Fn: messageNoChangeSuffix()},
}
