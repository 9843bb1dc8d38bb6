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

// Package normalize converts a resolved descriptorpb.FileDescriptorProto
// into its canonical.File form. The conversion is lossy by design: source
// locations, comments, declaration order, and redundant explicit defaults
// are all discarded, leaving only the semantic content that the rule
// engine and the fingerprint care about.
//
// Normalize does not itself resolve type references or validate the
// schema; it trusts that the descriptorpb.FileDescriptorProto it is given
// already has every TypeName fully qualified, which is the contract of
// the compiler front end that produced the descriptor.
package normalize

import (
	"sort"
	"strings"

	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/creachadair/protocompat/canonical"
)

// File converts fd into its canonical form. The only error it reports is a
// field whose type is not a recognized FieldDescriptorProto type. Options
// are read through their typed fields only; an option extension it cannot
// interpret is ignored, not reported. It never reports schema-validity
// errors, which are the parser's responsibility.
func File(fd *descriptorpb.FileDescriptorProto) (*canonical.File, error) {
	syntax := fd.GetSyntax()
	if syntax == "" {
		syntax = "proto2"
	}
	edition := ""
	if syntax == "editions" {
		edition = fd.GetEdition().String()
	}

	fileFeatures := resolveFeatures(baseFeatures(syntax, edition), fd.GetOptions().GetFeatures())

	n := &normalizer{syntax: syntax}

	out := &canonical.File{
		Syntax:       syntax,
		Edition:      edition,
		Package:      fd.GetPackage(),
		Dependencies: sortedCopy(fd.GetDependency()),
		Options:      n.fileOptions(fd.GetOptions()),
	}

	for _, m := range fd.GetMessageType() {
		cm, err := n.message(qualify(out.Package, m.GetName()), m, fileFeatures)
		if err != nil {
			return nil, err
		}
		out.Messages = append(out.Messages, cm)
	}
	for _, e := range fd.GetEnumType() {
		ce, err := n.enum(qualify(out.Package, e.GetName()), e, fileFeatures)
		if err != nil {
			return nil, err
		}
		out.Enums = append(out.Enums, ce)
	}
	for _, s := range fd.GetService() {
		out.Services = append(out.Services, n.service(s))
	}
	for _, x := range fd.GetExtension() {
		cf, err := n.field(x, fileFeatures, "")
		if err != nil {
			return nil, err
		}
		out.Extensions = append(out.Extensions, &canonical.Extension{
			Extendee: trimLeadingDot(x.GetExtendee()),
			Field:    cf,
		})
	}

	sort.Slice(out.Messages, func(i, j int) bool { return out.Messages[i].Name < out.Messages[j].Name })
	sort.Slice(out.Enums, func(i, j int) bool { return out.Enums[i].Name < out.Enums[j].Name })
	sort.Slice(out.Services, func(i, j int) bool { return out.Services[i].Name < out.Services[j].Name })
	sort.Slice(out.Extensions, func(i, j int) bool {
		if out.Extensions[i].Extendee != out.Extensions[j].Extendee {
			return out.Extensions[i].Extendee < out.Extensions[j].Extendee
		}
		return out.Extensions[i].Field.Number < out.Extensions[j].Field.Number
	})
	return out, nil
}

// normalizer carries the handful of values every conversion step needs,
// so the walking functions below don't have to thread them individually.
type normalizer struct {
	syntax string
}

func qualify(pkg, name string) string {
	if pkg == "" {
		return name
	}
	return pkg + "." + name
}

func trimLeadingDot(s string) string { return strings.TrimPrefix(s, ".") }

func sortedCopy(ss []string) []string {
	if len(ss) == 0 {
		return nil
	}
	out := append([]string(nil), ss...)
	sort.Strings(out)
	return out
}

func (n *normalizer) message(qname string, m *descriptorpb.DescriptorProto, parentFeatures *descriptorpb.FeatureSet) (*canonical.Message, error) {
	msgFeatures := resolveFeatures(parentFeatures, m.GetOptions().GetFeatures())

	out := &canonical.Message{
		Name: qname,
		Options: canonical.MessageOptions{
			MapEntry:                     m.GetOptions().GetMapEntry(),
			MessageSetWireFormat:         m.GetOptions().GetMessageSetWireFormat(),
			NoStandardDescriptorAccessor: m.GetOptions().GetNoStandardDescriptorAccessor(),
			Deprecated:                   m.GetOptions().GetDeprecated(),
		},
		ReservedRanges: mergeRanges(messageReservedRanges(m)),
		ReservedNames:  sortedCopy(m.GetReservedName()),
	}

	synthetic := syntheticOneofs(m)
	for i, o := range m.GetOneofDecl() {
		if synthetic[int32(i)] {
			continue
		}
		out.Oneofs = append(out.Oneofs, &canonical.Oneof{
			Name:       o.GetName(),
			Deprecated: false,
		})
	}
	sort.Slice(out.Oneofs, func(i, j int) bool { return out.Oneofs[i].Name < out.Oneofs[j].Name })

	for _, f := range m.GetField() {
		cf, err := n.field(f, msgFeatures, oneofNameFor(f, m, synthetic))
		if err != nil {
			return nil, err
		}
		out.Fields = append(out.Fields, cf)
	}
	sort.Slice(out.Fields, func(i, j int) bool { return out.Fields[i].Number < out.Fields[j].Number })

	for _, nm := range m.GetNestedType() {
		cnm, err := n.message(qualify(qname, nm.GetName()), nm, msgFeatures)
		if err != nil {
			return nil, err
		}
		out.Nested = append(out.Nested, cnm)
	}
	sort.Slice(out.Nested, func(i, j int) bool { return out.Nested[i].Name < out.Nested[j].Name })

	for _, ne := range m.GetEnumType() {
		cne, err := n.enum(qualify(qname, ne.GetName()), ne, msgFeatures)
		if err != nil {
			return nil, err
		}
		out.NestedEnums = append(out.NestedEnums, cne)
	}
	sort.Slice(out.NestedEnums, func(i, j int) bool { return out.NestedEnums[i].Name < out.NestedEnums[j].Name })

	for _, x := range m.GetExtension() {
		cf, err := n.field(x, msgFeatures, "")
		if err != nil {
			return nil, err
		}
		out.NestedExtensions = append(out.NestedExtensions, &canonical.Extension{
			Extendee: trimLeadingDot(x.GetExtendee()),
			Field:    cf,
		})
	}
	sort.Slice(out.NestedExtensions, func(i, j int) bool {
		if out.NestedExtensions[i].Extendee != out.NestedExtensions[j].Extendee {
			return out.NestedExtensions[i].Extendee < out.NestedExtensions[j].Extendee
		}
		return out.NestedExtensions[i].Field.Number < out.NestedExtensions[j].Field.Number
	})

	return out, nil
}

// syntheticOneofs returns the indices of m's oneof declarations that were
// synthesized by the compiler to wrap a single proto3 "optional" field,
// identified by the proto3_optional marker on the member field rather
// than by the "_"-prefixed naming convention, which a user oneof could
// legally share.
func syntheticOneofs(m *descriptorpb.DescriptorProto) map[int32]bool {
	out := make(map[int32]bool)
	for _, f := range m.GetField() {
		if f.GetProto3Optional() && f.OneofIndex != nil {
			out[f.GetOneofIndex()] = true
		}
	}
	return out
}

func oneofNameFor(f *descriptorpb.FieldDescriptorProto, m *descriptorpb.DescriptorProto, synthetic map[int32]bool) string {
	if f.OneofIndex == nil {
		return ""
	}
	idx := f.GetOneofIndex()
	if idx < 0 || int(idx) >= len(m.GetOneofDecl()) || synthetic[idx] {
		return ""
	}
	return m.GetOneofDecl()[idx].GetName()
}

func messageReservedRanges(m *descriptorpb.DescriptorProto) []canonical.ReservedRange {
	out := make([]canonical.ReservedRange, 0, len(m.GetReservedRange()))
	for _, r := range m.GetReservedRange() {
		// DescriptorProto.ReservedRange.End is already exclusive.
		out = append(out, canonical.ReservedRange{Start: r.GetStart(), End: r.GetEnd()})
	}
	return out
}

func enumReservedRanges(e *descriptorpb.EnumDescriptorProto) []canonical.ReservedRange {
	out := make([]canonical.ReservedRange, 0, len(e.GetReservedRange()))
	for _, r := range e.GetReservedRange() {
		// EnumDescriptorProto.EnumReservedRange.End is inclusive, unlike
		// the message variant; normalize both to the same half-open form.
		out = append(out, canonical.ReservedRange{Start: r.GetStart(), End: r.GetEnd() + 1})
	}
	return out
}

// mergeRanges sorts rs by start and merges any adjacent or overlapping
// ranges into one, so equivalent reservations written differently in
// source compare equal.
func mergeRanges(rs []canonical.ReservedRange) []canonical.ReservedRange {
	if len(rs) == 0 {
		return nil
	}
	sort.Slice(rs, func(i, j int) bool { return rs[i].Start < rs[j].Start })
	out := []canonical.ReservedRange{rs[0]}
	for _, r := range rs[1:] {
		last := &out[len(out)-1]
		if r.Start <= last.End {
			if r.End > last.End {
				last.End = r.End
			}
			continue
		}
		out = append(out, r)
	}
	return out
}

func (n *normalizer) enum(qname string, e *descriptorpb.EnumDescriptorProto, parentFeatures *descriptorpb.FeatureSet) (*canonical.Enum, error) {
	features := resolveFeatures(parentFeatures, e.GetOptions().GetFeatures())
	out := &canonical.Enum{
		Name:           qname,
		ReservedRanges: mergeRanges(enumReservedRanges(e)),
		ReservedNames:  sortedCopy(e.GetReservedName()),
		AllowAlias:     e.GetOptions().GetAllowAlias(),
		Deprecated:     e.GetOptions().GetDeprecated(),
		Closed:         isClosedEnum(features),
	}
	for _, v := range e.GetValue() {
		out.Values = append(out.Values, &canonical.EnumValue{
			Number:     v.GetNumber(),
			Name:       v.GetName(),
			Deprecated: v.GetOptions().GetDeprecated(),
		})
	}
	sort.Slice(out.Values, func(i, j int) bool { return out.Values[i].Number < out.Values[j].Number })
	return out, nil
}

func (n *normalizer) service(s *descriptorpb.ServiceDescriptorProto) *canonical.Service {
	out := &canonical.Service{
		Name:       s.GetName(),
		Deprecated: s.GetOptions().GetDeprecated(),
	}
	for _, m := range s.GetMethod() {
		idempotency := ""
		if lvl := m.GetOptions().GetIdempotencyLevel(); lvl != descriptorpb.MethodOptions_IDEMPOTENCY_UNKNOWN {
			idempotency = lvl.String()
		}
		out.Methods = append(out.Methods, &canonical.Method{
			Name:             m.GetName(),
			InputType:        trimLeadingDot(m.GetInputType()),
			OutputType:       trimLeadingDot(m.GetOutputType()),
			ClientStreaming:  m.GetClientStreaming(),
			ServerStreaming:  m.GetServerStreaming(),
			IdempotencyLevel: idempotency,
			Deprecated:       m.GetOptions().GetDeprecated(),
		})
	}
	sort.Slice(out.Methods, func(i, j int) bool { return out.Methods[i].Name < out.Methods[j].Name })
	return out
}

// field converts a single FieldDescriptorProto, which serves fields,
// extensions, and map-entry synthetic fields alike. oneofName is the
// already-resolved, already-synthetic-filtered containing oneof name (or
// "" if the field is not part of a user-visible oneof).
func (n *normalizer) field(f *descriptorpb.FieldDescriptorProto, features *descriptorpb.FeatureSet, oneofName string) (*canonical.Field, error) {
	typ, err := fieldType(f)
	if err != nil {
		return nil, errorf(f.GetName(), "resolving type: %w", err)
	}

	jsonName := f.GetJsonName()
	if jsonName == "" {
		jsonName = lowerCamelCase(f.GetName())
	}

	cardinality, synthetic := n.cardinality(f, features, oneofName)

	opts := f.GetOptions()
	return &canonical.Field{
		Number:      f.GetNumber(),
		Name:        f.GetName(),
		JSONName:    jsonName,
		Cardinality: cardinality,
		Type:        typ,
		OneofName:   oneofName,
		Synthetic:   synthetic,
		Options: canonical.FieldOptions{
			CType:              ctypeString(opts.GetCtype()),
			JSType:             jstypeString(opts.GetJstype()),
			Packed:             n.effectivePacked(f, typ, cardinality, features),
			Lazy:               opts.GetLazy(),
			Deprecated:         opts.GetDeprecated(),
			CppStringType:      cppStringTypeOverride(opts.GetFeatures()),
			JavaUtf8Validation: javaUtf8ValidationOverride(opts.GetFeatures()),
			Default:            f.GetDefaultValue(),
		},
	}, nil
}

// effectivePacked resolves what the wire encoder would actually do for a
// repeated field: the explicit packed option wins when present, otherwise
// proto3 packs packable scalars by default, editions follow the effective
// repeated_field_encoding feature, and proto2 does not pack. Non-repeated
// and length-delimited fields are never packed.
func (n *normalizer) effectivePacked(f *descriptorpb.FieldDescriptorProto, typ canonical.Type, card canonical.Cardinality, features *descriptorpb.FeatureSet) bool {
	if card != canonical.CardinalityRepeated || !packableKind(typ.Kind) {
		return false
	}
	if opts := f.GetOptions(); opts != nil && opts.Packed != nil {
		return opts.GetPacked()
	}
	switch n.syntax {
	case "proto3":
		return true
	case "editions":
		return features.GetRepeatedFieldEncoding() == descriptorpb.FeatureSet_PACKED
	default:
		return false
	}
}

// packableKind reports whether a repeated field of kind k may use the
// packed wire encoding: every scalar except the length-delimited ones.
func packableKind(k canonical.Kind) bool {
	switch k {
	case canonical.KindString, canonical.KindBytes, canonical.KindMessage, canonical.KindGroup:
		return false
	}
	return true
}

func ctypeString(c descriptorpb.FieldOptions_CType) string {
	if c == descriptorpb.FieldOptions_STRING {
		return ""
	}
	return c.String()
}

func jstypeString(j descriptorpb.FieldOptions_JSType) string {
	if j == descriptorpb.FieldOptions_JS_NORMAL {
		return ""
	}
	return j.String()
}

func cppStringTypeOverride(fs *descriptorpb.FeatureSet) string {
	// descriptorpb does not (yet) expose the pb.cpp.string_type extension
	// as a typed field; a file using it carries the override in an
	// unrecognized extension on FeatureSet, which this build does not
	// decode. Same-property comparisons over this attribute therefore see
	// "" for every file until a cpp feature extension is wired in; see
	// DESIGN.md.
	return ""
}

func javaUtf8ValidationOverride(fs *descriptorpb.FeatureSet) string {
	if fs == nil {
		return ""
	}
	if fs.Utf8Validation != nil {
		return fs.GetUtf8Validation().String()
	}
	return ""
}

// cardinality determines the normalized cardinality of a field, plus
// whether it is the sole member of a compiler-synthesized proto3
// "optional" oneof.
func (n *normalizer) cardinality(f *descriptorpb.FieldDescriptorProto, features *descriptorpb.FeatureSet, oneofName string) (canonical.Cardinality, bool) {
	switch f.GetLabel() {
	case descriptorpb.FieldDescriptorProto_LABEL_REPEATED:
		return canonical.CardinalityRepeated, false
	case descriptorpb.FieldDescriptorProto_LABEL_REQUIRED:
		return canonical.CardinalityRequired, false
	}

	if f.GetProto3Optional() {
		return canonical.CardinalityOptional, true
	}
	if oneofName != "" {
		return canonical.CardinalityOptional, false
	}
	switch n.syntax {
	case "proto3":
		return canonical.CardinalitySingular, false
	case "editions":
		if isImplicitPresence(features) {
			return canonical.CardinalitySingular, false
		}
		return canonical.CardinalityOptional, false
	default: // proto2
		return canonical.CardinalityOptional, false
	}
}

func fieldType(f *descriptorpb.FieldDescriptorProto) (canonical.Type, error) {
	name := trimLeadingDot(f.GetTypeName())
	switch f.GetType() {
	case descriptorpb.FieldDescriptorProto_TYPE_DOUBLE:
		return canonical.Type{Kind: canonical.KindDouble}, nil
	case descriptorpb.FieldDescriptorProto_TYPE_FLOAT:
		return canonical.Type{Kind: canonical.KindFloat}, nil
	case descriptorpb.FieldDescriptorProto_TYPE_INT64:
		return canonical.Type{Kind: canonical.KindInt64}, nil
	case descriptorpb.FieldDescriptorProto_TYPE_UINT64:
		return canonical.Type{Kind: canonical.KindUint64}, nil
	case descriptorpb.FieldDescriptorProto_TYPE_INT32:
		return canonical.Type{Kind: canonical.KindInt32}, nil
	case descriptorpb.FieldDescriptorProto_TYPE_FIXED64:
		return canonical.Type{Kind: canonical.KindFixed64}, nil
	case descriptorpb.FieldDescriptorProto_TYPE_FIXED32:
		return canonical.Type{Kind: canonical.KindFixed32}, nil
	case descriptorpb.FieldDescriptorProto_TYPE_BOOL:
		return canonical.Type{Kind: canonical.KindBool}, nil
	case descriptorpb.FieldDescriptorProto_TYPE_STRING:
		return canonical.Type{Kind: canonical.KindString}, nil
	case descriptorpb.FieldDescriptorProto_TYPE_GROUP:
		return canonical.Type{Kind: canonical.KindGroup, Name: name}, nil
	case descriptorpb.FieldDescriptorProto_TYPE_MESSAGE:
		return canonical.Type{Kind: canonical.KindMessage, Name: name}, nil
	case descriptorpb.FieldDescriptorProto_TYPE_BYTES:
		return canonical.Type{Kind: canonical.KindBytes}, nil
	case descriptorpb.FieldDescriptorProto_TYPE_UINT32:
		return canonical.Type{Kind: canonical.KindUint32}, nil
	case descriptorpb.FieldDescriptorProto_TYPE_ENUM:
		return canonical.Type{Kind: canonical.KindEnum, Name: name}, nil
	case descriptorpb.FieldDescriptorProto_TYPE_SFIXED32:
		return canonical.Type{Kind: canonical.KindSfixed32}, nil
	case descriptorpb.FieldDescriptorProto_TYPE_SFIXED64:
		return canonical.Type{Kind: canonical.KindSfixed64}, nil
	case descriptorpb.FieldDescriptorProto_TYPE_SINT32:
		return canonical.Type{Kind: canonical.KindSint32}, nil
	case descriptorpb.FieldDescriptorProto_TYPE_SINT64:
		return canonical.Type{Kind: canonical.KindSint64}, nil
	default:
		return canonical.Type{}, errorf(f.GetName(), "unrecognized field type %v", f.GetType())
	}
}

// lowerCamelCase implements the same name -> JSON-name default as protoc:
// every "_<letter>" becomes the upper-cased letter with the underscore
// dropped; every other rune is copied as-is.
func lowerCamelCase(name string) string {
	var b strings.Builder
	upcaseNext := false
	for _, r := range name {
		if r == '_' {
			upcaseNext = true
			continue
		}
		if upcaseNext {
			b.WriteRune(toUpperASCII(r))
			upcaseNext = false
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func toUpperASCII(r rune) rune {
	if r >= 'a' && r <= 'z' {
		return r - ('a' - 'A')
	}
	return r
}

func (n *normalizer) fileOptions(o *descriptorpb.FileOptions) canonical.FileOptions {
	return canonical.FileOptions{
		JavaPackage:          o.GetJavaPackage(),
		JavaOuterClassname:   o.GetJavaOuterClassname(),
		JavaMultipleFiles:    o.GetJavaMultipleFiles(),
		JavaStringCheckUtf8:  o.GetJavaStringCheckUtf8(),
		OptimizeFor:          optimizeForString(o.GetOptimizeFor()),
		GoPackage:            o.GetGoPackage(),
		CcGenericServices:    o.GetCcGenericServices(),
		JavaGenericServices:  o.GetJavaGenericServices(),
		PyGenericServices:    o.GetPyGenericServices(),
		CcEnableArenas:       o.GetCcEnableArenas(),
		ObjcClassPrefix:      o.GetObjcClassPrefix(),
		CsharpNamespace:      o.GetCsharpNamespace(),
		SwiftPrefix:          o.GetSwiftPrefix(),
		PhpClassPrefix:       o.GetPhpClassPrefix(),
		PhpNamespace:         o.GetPhpNamespace(),
		PhpMetadataNamespace: o.GetPhpMetadataNamespace(),
		RubyPackage:          o.GetRubyPackage(),
		Deprecated:           o.GetDeprecated(),
		Features:             fileFeatureOverrides(o.GetFeatures()),
	}
}

func optimizeForString(v descriptorpb.FileOptions_OptimizeMode) string {
	if v == descriptorpb.FileOptions_SPEED {
		return ""
	}
	return v.String()
}

// fileFeatureOverrides records only the feature fields the file
// explicitly overrides (i.e. that are non-nil on the raw FeatureSet),
// leaving every other field "" to mean "inherits the edition default".
func fileFeatureOverrides(fs *descriptorpb.FeatureSet) canonical.FeatureOverrides {
	var out canonical.FeatureOverrides
	if fs == nil {
		return out
	}
	if fs.FieldPresence != nil {
		out.FieldPresence = fs.GetFieldPresence().String()
	}
	if fs.EnumType != nil {
		out.EnumType = fs.GetEnumType().String()
	}
	if fs.RepeatedFieldEncoding != nil {
		out.RepeatedFieldEncoding = fs.GetRepeatedFieldEncoding().String()
	}
	if fs.Utf8Validation != nil {
		out.Utf8Validation = fs.GetUtf8Validation().String()
	}
	if fs.MessageEncoding != nil {
		out.MessageEncoding = fs.GetMessageEncoding().String()
	}
	if fs.JsonFormat != nil {
		out.JSONFormat = fs.GetJsonFormat().String()
	}
	return out
}
