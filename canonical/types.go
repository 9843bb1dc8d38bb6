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

// Package canonical defines the order-independent, comment-free,
// defaults-normalized value representation of a Protobuf file -- its
// "canonical form" -- along with a deterministic byte encoding of that
// form and the SHA-256 fingerprint derived from it.
//
// Values in this package are constructed once by the normalize package and
// never mutated afterward. Every collection keyed by some identifier (field
// number, enum value number, message/enum/service/method/oneof name) is
// stored pre-sorted by that key, so two canonical forms describing the same
// schema always compare byte-identical regardless of the declaration order
// in the source file that produced them.
package canonical

// Kind identifies the scalar or structural kind of a field's type, mirroring
// the variants of a Protobuf FieldDescriptorProto.Type with group and
// message/enum folded in as named references rather than raw wire types.
type Kind uint8

// Kind values. The numeric assignment is part of the byte encoding (it is
// not a protobuf wire value), so it must never change across releases --
// see the serializer's stability requirement.
const (
	KindDouble Kind = iota
	KindFloat
	KindInt64
	KindUint64
	KindInt32
	KindFixed64
	KindFixed32
	KindBool
	KindString
	KindGroup
	KindMessage
	KindBytes
	KindUint32
	KindEnum
	KindSfixed32
	KindSfixed64
	KindSint32
	KindSint64
)

// Type is a field's type as a tagged variant: a scalar kind, or a
// reference to a message, enum, or (proto2) group by fully-qualified
// name.
type Type struct {
	Kind Kind
	// Name is the fully-qualified referent name. It is only meaningful when
	// Kind is KindMessage, KindEnum, or KindGroup; it is empty otherwise.
	Name string
}

// Equal reports whether t and o describe the same type.
func (t Type) Equal(o Type) bool { return t.Kind == o.Kind && t.Name == o.Name }

// IsReference reports whether t refers to another declared type by name
// (message, enum, or group), as opposed to a scalar.
func (t Type) IsReference() bool {
	return t.Kind == KindMessage || t.Kind == KindEnum || t.Kind == KindGroup
}

// Cardinality is the normalized field multiplicity. Proto3 implicit
// presence (no label at all) is distinguished from proto2/proto3-explicit
// "optional" so that rules can compare like with like, while still treating
// a proto3 synthetic-oneof optional field as equivalent to a proto2
// optional field.
type Cardinality uint8

const (
	// CardinalitySingular is a proto3 field with implicit presence: no
	// "optional" keyword, no oneof.
	CardinalitySingular Cardinality = iota
	// CardinalityOptional covers proto2 "optional" and proto3 "optional"
	// (synthetic oneof) fields alike.
	CardinalityOptional
	// CardinalityRequired is a proto2 "required" field.
	CardinalityRequired
	// CardinalityRepeated is any repeated field, including map fields.
	CardinalityRepeated
)

func (c Cardinality) String() string {
	switch c {
	case CardinalitySingular:
		return "singular"
	case CardinalityOptional:
		return "optional"
	case CardinalityRequired:
		return "required"
	case CardinalityRepeated:
		return "repeated"
	default:
		return "unknown"
	}
}

// ReservedRange is a canonical non-overlapping half-open interval [Start,
// End) of reserved field or enum-value numbers. A single reserved number n
// is represented as {Start: n, End: n+1}.
type ReservedRange struct {
	Start int32
	End   int32
}

// FieldOptions holds the subset of FieldOptions that participates in
// semantic comparison. CType, JSType, Lazy, and Deprecated left at their
// protobuf-defined default are stored as their zero value. Packed is the
// exception: it holds the effective packing, not the raw option.
type FieldOptions struct {
	CType  string // "", "CORD", or "STRING_PIECE"; "" means default STRING
	JSType string // "", "JS_STRING", or "JS_NUMBER"; "" means default JS_NORMAL
	// Packed is the field's effective wire packing: what the encoder
	// actually emits for a repeated packable scalar once the explicit
	// option, the syntax default, and any editions repeated_field_encoding
	// feature have all been applied. Always false for non-repeated and
	// non-packable fields. Storing the resolved value rather than the raw
	// option collapses redundant explicit settings and lets comparisons
	// see through a proto2-to-proto3 migration that preserves the actual
	// wire layout.
	Packed     bool
	Lazy       bool
	Deprecated bool
	// CppStringType and JavaUtf8Validation are the editions-era successors
	// to CType and the proto2 java_string_check_utf8 file option.
	// CppStringType is always empty: the normalizer does not decode the
	// features.(pb.cpp).string_type extension. JavaUtf8Validation is the
	// field's own FeatureSet.utf8_validation override. Empty means the
	// field sets no override.
	CppStringType      string
	JavaUtf8Validation string
	// Default is the protobuf-textual form of the field's default value.
	// An empty string means "no default specified".
	Default string
}

// Field is a single message field, or the body of an extension field.
type Field struct {
	Number      int32
	Name        string
	JSONName    string
	Cardinality Cardinality
	Type        Type
	// OneofName is the name of the containing oneof, or "" if the field is
	// not part of one.
	OneofName string
	// Synthetic marks a compiler-generated oneof wrapping a single proto3
	// "optional" field. Rule comparisons treat it as ordinary Optional
	// cardinality, not as oneof membership.
	Synthetic bool
	Options   FieldOptions
}

// Oneof is a named field grouping. The canonical form carries no
// per-oneof data beyond its name and options, since membership is
// recorded on each Field.
type Oneof struct {
	Name       string
	Deprecated bool
}

// MessageOptions holds the message-level options that participate in
// comparison.
type MessageOptions struct {
	MapEntry                     bool
	MessageSetWireFormat         bool
	NoStandardDescriptorAccessor bool
	Deprecated                   bool
}

// Message is a Protobuf message, with all descendants (fields, nested
// messages, nested enums, nested extensions, oneofs) pre-sorted by their
// respective keys.
type Message struct {
	// Name is the fully-qualified message name (including package and any
	// enclosing message names), used as the cross-tree lookup key.
	Name             string
	Fields           []*Field // sorted by Number
	Nested           []*Message
	NestedEnums      []*Enum
	NestedExtensions []*Extension
	Oneofs           []*Oneof // sorted by Name
	ReservedRanges   []ReservedRange
	ReservedNames    []string // sorted
	Options          MessageOptions
}

// FieldByNumber returns the field with the given number, or nil.
func (m *Message) FieldByNumber(n int32) *Field {
	// Fields are sorted by Number, but a linear scan keeps this package
	// free of a binary-search helper for what are, in practice, small
	// slices; correctness is favored over micro-optimization here.
	for _, f := range m.Fields {
		if f.Number == n {
			return f
		}
	}
	return nil
}

// ReservesNumber reports whether n falls in any reserved range.
func (m *Message) ReservesNumber(n int32) bool {
	for _, r := range m.ReservedRanges {
		if n >= r.Start && n < r.End {
			return true
		}
	}
	return false
}

// ReservesName reports whether name is reserved.
func (m *Message) ReservesName(name string) bool {
	for _, r := range m.ReservedNames {
		if r == name {
			return true
		}
	}
	return false
}

// EnumValue is a single named value of an Enum.
type EnumValue struct {
	Number     int32
	Name       string
	Deprecated bool
}

// Enum is a Protobuf enum type.
type Enum struct {
	Name           string
	Values         []*EnumValue // sorted by Number
	ReservedRanges []ReservedRange
	ReservedNames  []string // sorted
	AllowAlias     bool
	Deprecated     bool
	// Closed reports whether unknown values are rejected at decode time:
	// true for proto2 and for editions files whose effective
	// features.enum_type resolves to CLOSED; false for proto3 and
	// editions-open enums.
	Closed bool
}

// ValueByNumber returns the first value with the given number, or nil.
func (e *Enum) ValueByNumber(n int32) *EnumValue {
	for _, v := range e.Values {
		if v.Number == n {
			return v
		}
	}
	return nil
}

// ReservesName reports whether name is reserved on the enum.
func (e *Enum) ReservesName(name string) bool {
	for _, r := range e.ReservedNames {
		if r == name {
			return true
		}
	}
	return false
}

// ReservesNumber reports whether n falls in any reserved range of the enum.
func (e *Enum) ReservesNumber(n int32) bool {
	for _, r := range e.ReservedRanges {
		if n >= r.Start && n < r.End {
			return true
		}
	}
	return false
}

// Method is a single RPC method of a Service.
type Method struct {
	Name             string
	InputType        string
	OutputType       string
	ClientStreaming  bool
	ServerStreaming  bool
	IdempotencyLevel string // "" (IDEMPOTENCY_UNKNOWN), "NO_SIDE_EFFECTS", or "IDEMPOTENT"
	Deprecated       bool
}

// Service is a Protobuf service, with methods sorted by name.
type Service struct {
	Name       string
	Methods    []*Method // sorted by Name
	Deprecated bool
}

// MethodByName returns the method with the given name, or nil.
func (s *Service) MethodByName(name string) *Method {
	for _, m := range s.Methods {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// Extension is a top-level or nested extension field declaration, keyed by
// (Extendee, Field.Number).
type Extension struct {
	Extendee string
	Field    *Field
}

// FileOptions holds the file-level options that participate in comparison.
type FileOptions struct {
	JavaPackage          string
	JavaOuterClassname   string
	JavaMultipleFiles    bool
	JavaStringCheckUtf8  bool
	OptimizeFor          string // "" (SPEED), "CODE_SIZE", or "LITE_RUNTIME"
	GoPackage            string
	CcGenericServices    bool
	JavaGenericServices  bool
	PyGenericServices    bool
	CcEnableArenas       bool
	ObjcClassPrefix      string
	CsharpNamespace      string
	SwiftPrefix          string
	PhpClassPrefix       string
	PhpNamespace         string
	PhpMetadataNamespace string
	RubyPackage          string
	Deprecated           bool
	// Features carries the file-level editions FeatureSet overrides that
	// are not already captured structurally (enum openness and field
	// presence are baked into Enum.Closed and Field.Cardinality instead).
	// It takes part in the fingerprint; no rule compares it directly.
	Features FeatureOverrides
}

// FeatureOverrides records the subset of an editions FeatureSet that
// rule comparisons need as explicit values rather than as a derived
// structural bit. Every field is the empty string when the file does
// not override the corresponding feature at this level (i.e. it
// inherits from its edition's baseline).
type FeatureOverrides struct {
	FieldPresence         string // "", "EXPLICIT", "IMPLICIT", or "LEGACY_REQUIRED"
	EnumType              string // "", "OPEN", or "CLOSED"
	RepeatedFieldEncoding string // "", "PACKED", or "EXPANDED"
	Utf8Validation        string // "", "VERIFY", or "NONE"
	MessageEncoding       string // "", "LENGTH_PREFIXED", or "DELIMITED"
	JSONFormat            string // "", "ALLOW", or "LEGACY_BEST_EFFORT"
}

// File is the canonical form of an entire .proto file, as produced by the
// normalize package from a resolved descriptorpb.FileDescriptorProto.
type File struct {
	// Syntax is "proto2", "proto3", or "editions". Defaults to "proto2"
	// when the source descriptor left it unset.
	Syntax string
	// Edition is non-empty only when Syntax == "editions".
	Edition      string
	Package      string
	Dependencies []string // sorted
	Options      FileOptions
	Messages     []*Message // sorted by Name
	Enums        []*Enum    // sorted by Name
	Services     []*Service // sorted by Name
	Extensions   []*Extension
}

// MessageByName returns the top-level message with the given fully-qualified
// name, or nil.
func (f *File) MessageByName(name string) *Message {
	for _, m := range f.Messages {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// EnumByName returns the top-level enum with the given fully-qualified name,
// or nil.
func (f *File) EnumByName(name string) *Enum {
	for _, e := range f.Enums {
		if e.Name == name {
			return e
		}
	}
	return nil
}

// ServiceByName returns the service with the given name, or nil.
func (f *File) ServiceByName(name string) *Service {
	for _, s := range f.Services {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// AllMessages returns every message in the file, top-level and nested,
// in a stable depth-first order.
func (f *File) AllMessages() []*Message {
	var out []*Message
	var walk func(m *Message)
	walk = func(m *Message) {
		out = append(out, m)
		for _, n := range m.Nested {
			walk(n)
		}
	}
	for _, m := range f.Messages {
		walk(m)
	}
	return out
}

// AllEnums returns every enum in the file, top-level and nested (including
// enums nested in nested messages), in a stable order.
func (f *File) AllEnums() []*Enum {
	out := append([]*Enum{}, f.Enums...)
	for _, m := range f.AllMessages() {
		out = append(out, m.NestedEnums...)
	}
	return out
}

// AllExtensions returns every extension in the file, top-level and nested.
func (f *File) AllExtensions() []*Extension {
	out := append([]*Extension{}, f.Extensions...)
	for _, m := range f.AllMessages() {
		out = append(out, m.NestedExtensions...)
	}
	return out
}
