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

package canonical

import (
	"encoding/binary"
)

// Serialize renders f into a deterministic byte encoding: collections are
// emitted in the order they are already
// stored in (which the normalize package guarantees is sorted by key),
// every string is length-prefixed, every numeric key and enum discriminant
// is a fixed-width little-endian integer, and each optional string option
// of a field is preceded by a one-byte presence marker. Other optional
// strings (file options, edition, idempotency level) carry no marker; they
// are written as plain length-prefixed strings, with "" standing for unset.
//
// Two Files that describe the same schema, modulo declaration order,
// always produce identical output from Serialize. This is the contract
// the Fingerprint function and the verdict layer's equality shortcut both
// depend on.
func Serialize(f *File) []byte {
	w := new(encoder)
	w.writeFile(f)
	return w.buf
}

// presence markers for optional strings. One is written as a standalone
// byte at the position of each optional value; markAbsent is never followed
// by a value and markPresent always is, so "absent" and "present" encode
// differently. The same byte values also occur elsewhere in the stream
// (writeBool emits 0x00 and 0x01); a marker is identified by its position.
const (
	markAbsent  byte = 0x00
	markPresent byte = 0x01
)

// encoder accumulates the canonical byte stream. It has no error return
// because every write is to an in-memory buffer; there is nothing that can
// fail.
type encoder struct {
	buf []byte
}

func (w *encoder) writeByte(b byte) { w.buf = append(w.buf, b) }

func (w *encoder) writeBool(b bool) {
	if b {
		w.writeByte(1)
	} else {
		w.writeByte(0)
	}
}

// writeU32 writes v as a fixed-width little-endian uint32. It is used for
// every length, count, and enum discriminant in the encoding, so that all
// "numeric key" fields in the stream share one width and one byte order.
func (w *encoder) writeU32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

func (w *encoder) writeI32(v int32) { w.writeU32(uint32(v)) }

// writeString writes a UTF-8 string as a 4-byte little-endian length
// followed by the raw bytes of s.
func (w *encoder) writeString(s string) {
	w.writeU32(uint32(len(s)))
	w.buf = append(w.buf, s...)
}

// writeOptString writes an optional string: absent is a single marker
// byte, present is the marker followed by the string itself. Every caller
// passes ok = (s != ""), so an empty value and an unset one both encode as
// absent.
func (w *encoder) writeOptString(ok bool, s string) {
	if !ok {
		w.writeByte(markAbsent)
		return
	}
	w.writeByte(markPresent)
	w.writeString(s)
}

func (w *encoder) writeFieldOptions(o FieldOptions) {
	w.writeOptString(o.CType != "", o.CType)
	w.writeOptString(o.JSType != "", o.JSType)
	w.writeBool(o.Packed)
	w.writeBool(o.Lazy)
	w.writeBool(o.Deprecated)
	w.writeOptString(o.CppStringType != "", o.CppStringType)
	w.writeOptString(o.JavaUtf8Validation != "", o.JavaUtf8Validation)
	w.writeOptString(o.Default != "", o.Default)
}

func (w *encoder) writeType(t Type) {
	w.writeU32(uint32(t.Kind))
	w.writeString(t.Name)
}

func (w *encoder) writeField(f *Field) {
	w.writeI32(f.Number)
	w.writeString(f.Name)
	w.writeString(f.JSONName)
	w.writeU32(uint32(f.Cardinality))
	w.writeType(f.Type)
	w.writeString(f.OneofName)
	w.writeBool(f.Synthetic)
	w.writeFieldOptions(f.Options)
}

func (w *encoder) writeOneof(o *Oneof) {
	w.writeString(o.Name)
	w.writeBool(o.Deprecated)
}

func (w *encoder) writeReservedRanges(rs []ReservedRange) {
	w.writeU32(uint32(len(rs)))
	for _, r := range rs {
		w.writeI32(r.Start)
		w.writeI32(r.End)
	}
}

func (w *encoder) writeStrings(ss []string) {
	w.writeU32(uint32(len(ss)))
	for _, s := range ss {
		w.writeString(s)
	}
}

func (w *encoder) writeMessageOptions(o MessageOptions) {
	w.writeBool(o.MapEntry)
	w.writeBool(o.MessageSetWireFormat)
	w.writeBool(o.NoStandardDescriptorAccessor)
	w.writeBool(o.Deprecated)
}

func (w *encoder) writeMessage(m *Message) {
	w.writeString(m.Name)
	w.writeU32(uint32(len(m.Fields)))
	for _, f := range m.Fields {
		w.writeField(f)
	}
	w.writeU32(uint32(len(m.Oneofs)))
	for _, o := range m.Oneofs {
		w.writeOneof(o)
	}
	w.writeReservedRanges(m.ReservedRanges)
	w.writeStrings(m.ReservedNames)
	w.writeMessageOptions(m.Options)
	w.writeU32(uint32(len(m.Nested)))
	for _, n := range m.Nested {
		w.writeMessage(n)
	}
	w.writeU32(uint32(len(m.NestedEnums)))
	for _, e := range m.NestedEnums {
		w.writeEnum(e)
	}
	w.writeU32(uint32(len(m.NestedExtensions)))
	for _, x := range m.NestedExtensions {
		w.writeExtension(x)
	}
}

func (w *encoder) writeEnumValue(v *EnumValue) {
	w.writeI32(v.Number)
	w.writeString(v.Name)
	w.writeBool(v.Deprecated)
}

func (w *encoder) writeEnum(e *Enum) {
	w.writeString(e.Name)
	w.writeU32(uint32(len(e.Values)))
	for _, v := range e.Values {
		w.writeEnumValue(v)
	}
	w.writeReservedRanges(e.ReservedRanges)
	w.writeStrings(e.ReservedNames)
	w.writeBool(e.AllowAlias)
	w.writeBool(e.Deprecated)
	w.writeBool(e.Closed)
}

func (w *encoder) writeMethod(m *Method) {
	w.writeString(m.Name)
	w.writeString(m.InputType)
	w.writeString(m.OutputType)
	w.writeBool(m.ClientStreaming)
	w.writeBool(m.ServerStreaming)
	w.writeString(m.IdempotencyLevel)
	w.writeBool(m.Deprecated)
}

func (w *encoder) writeService(s *Service) {
	w.writeString(s.Name)
	w.writeU32(uint32(len(s.Methods)))
	for _, m := range s.Methods {
		w.writeMethod(m)
	}
	w.writeBool(s.Deprecated)
}

func (w *encoder) writeExtension(x *Extension) {
	w.writeString(x.Extendee)
	w.writeField(x.Field)
}

func (w *encoder) writeFileOptions(o FileOptions) {
	w.writeString(o.JavaPackage)
	w.writeString(o.JavaOuterClassname)
	w.writeBool(o.JavaMultipleFiles)
	w.writeBool(o.JavaStringCheckUtf8)
	w.writeString(o.OptimizeFor)
	w.writeString(o.GoPackage)
	w.writeBool(o.CcGenericServices)
	w.writeBool(o.JavaGenericServices)
	w.writeBool(o.PyGenericServices)
	w.writeBool(o.CcEnableArenas)
	w.writeString(o.ObjcClassPrefix)
	w.writeString(o.CsharpNamespace)
	w.writeString(o.SwiftPrefix)
	w.writeString(o.PhpClassPrefix)
	w.writeString(o.PhpNamespace)
	w.writeString(o.PhpMetadataNamespace)
	w.writeString(o.RubyPackage)
	w.writeBool(o.Deprecated)
	w.writeFeatureOverrides(o.Features)
}

func (w *encoder) writeFeatureOverrides(f FeatureOverrides) {
	w.writeString(f.FieldPresence)
	w.writeString(f.EnumType)
	w.writeString(f.RepeatedFieldEncoding)
	w.writeString(f.Utf8Validation)
	w.writeString(f.MessageEncoding)
	w.writeString(f.JSONFormat)
}

func (w *encoder) writeFile(f *File) {
	w.writeString(f.Syntax)
	w.writeString(f.Edition)
	w.writeString(f.Package)
	w.writeStrings(f.Dependencies)
	w.writeFileOptions(f.Options)
	w.writeU32(uint32(len(f.Messages)))
	for _, m := range f.Messages {
		w.writeMessage(m)
	}
	w.writeU32(uint32(len(f.Enums)))
	for _, e := range f.Enums {
		w.writeEnum(e)
	}
	w.writeU32(uint32(len(f.Services)))
	for _, s := range f.Services {
		w.writeService(s)
	}
	w.writeU32(uint32(len(f.Extensions)))
	for _, x := range f.Extensions {
		w.writeExtension(x)
	}
}
