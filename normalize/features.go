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

package normalize

import (
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"
)

// editionDefaults returns the baseline FeatureSet for a given edition
// string, used as the root of the file -> message -> field inheritance
// chain. Only edition "2023" is known to this registry; any other edition string
// (including proto2/proto3, which never carry an edition at all) resolves
// to the same baseline, since proto2/proto3 files express their presence
// and wire-format choices directly rather than through features.
func editionDefaults(edition string) *descriptorpb.FeatureSet {
	fs := &descriptorpb.FeatureSet{
		FieldPresence:         descriptorpb.FeatureSet_EXPLICIT.Enum(),
		EnumType:              descriptorpb.FeatureSet_OPEN.Enum(),
		RepeatedFieldEncoding: descriptorpb.FeatureSet_PACKED.Enum(),
		Utf8Validation:        descriptorpb.FeatureSet_VERIFY.Enum(),
		MessageEncoding:       descriptorpb.FeatureSet_LENGTH_PREFIXED.Enum(),
		JsonFormat:            descriptorpb.FeatureSet_ALLOW.Enum(),
	}
	return fs
}

// proto3Defaults and proto2Defaults approximate the legacy syntaxes as
// FeatureSet values so the rest of this package can treat every syntax
// uniformly once normalization reaches the field level.
func proto3Defaults() *descriptorpb.FeatureSet {
	fs := editionDefaults("2023")
	fs.FieldPresence = descriptorpb.FeatureSet_IMPLICIT.Enum()
	fs.EnumType = descriptorpb.FeatureSet_OPEN.Enum()
	return fs
}

func proto2Defaults() *descriptorpb.FeatureSet {
	fs := editionDefaults("2023")
	fs.FieldPresence = descriptorpb.FeatureSet_EXPLICIT.Enum()
	fs.EnumType = descriptorpb.FeatureSet_CLOSED.Enum()
	return fs
}

// baseFeatures picks the inheritance root for a file, per its syntax.
func baseFeatures(syntax, edition string) *descriptorpb.FeatureSet {
	switch syntax {
	case "proto3":
		return proto3Defaults()
	case "editions":
		return editionDefaults(edition)
	default:
		return proto2Defaults()
	}
}

// resolveFeatures merges child on top of parent: any field child sets
// explicitly overrides the inherited value, and every other field falls
// through from parent. This mirrors the file -> message -> field/enum
// override chain in the descriptor.proto FeatureSet contract.
func resolveFeatures(parent *descriptorpb.FeatureSet, child *descriptorpb.FeatureSet) *descriptorpb.FeatureSet {
	out := proto.Clone(parent).(*descriptorpb.FeatureSet)
	if child != nil {
		proto.Merge(out, child)
	}
	return out
}

// isClosedEnum reports whether an enum governed by the given effective
// FeatureSet rejects unknown values at decode time.
func isClosedEnum(fs *descriptorpb.FeatureSet) bool {
	return fs.GetEnumType() == descriptorpb.FeatureSet_CLOSED
}

// isImplicitPresence reports whether a field governed by the given
// effective FeatureSet has proto3-style implicit presence (no
// has_x() / no wire detection of "set to default").
func isImplicitPresence(fs *descriptorpb.FeatureSet) bool {
	return fs.GetFieldPresence() == descriptorpb.FeatureSet_IMPLICIT
}
