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

import (
	"fmt"

	"github.com/creachadair/protocompat/canonical"
	"github.com/creachadair/protocompat/diag"
)

// This file implements the structural rules that don't fit the no-delete
// / same-property / monotone molds: reserved range narrowing, enum
// openness transitions, and the wire-compatible type groupings.

// messageReservedRangeNoDelete reports a message that un-reserved a
// previously reserved field number without giving it a new occupant:
// narrowing a reserved range reopens numbers that may already be live in
// deployed data. A reserved number that became an actual declared field
// is fine; the reservation did its job.
func messageReservedRangeNoDelete() Func {
	return func(previous, current *canonical.File, ctx *Context) []diag.Change {
		currMsgs := messageByName(current)
		var out []diag.Change
		for name, pm := range messageByName(previous) {
			cm, ok := currMsgs[name]
			if !ok {
				continue
			}
			for _, r := range pm.ReservedRanges {
				if rangeAccountedFor(r, cm.ReservesNumber, func(n int32) bool { return cm.FieldByNumber(n) != nil }) {
					continue
				}
				cur, prev := locPair(ctx, diag.EntityMessage, name)
				out = append(out, diag.Change{
					Message:          fmt.Sprintf("message %q narrowed reserved range [%d, %d)", name, r.Start, r.End),
					LocationCurrent:  cur,
					LocationPrevious: prev,
				})
			}
		}
		return out
	}
}

func enumReservedRangeNoDelete() Func {
	return func(previous, current *canonical.File, ctx *Context) []diag.Change {
		currEnums := enumByName(current)
		var out []diag.Change
		for name, pe := range enumByName(previous) {
			ce, ok := currEnums[name]
			if !ok {
				continue
			}
			for _, r := range pe.ReservedRanges {
				if rangeAccountedFor(r, ce.ReservesNumber, func(n int32) bool { return ce.ValueByNumber(n) != nil }) {
					continue
				}
				cur, prev := locPair(ctx, diag.EntityEnum, name)
				out = append(out, diag.Change{
					Message:          fmt.Sprintf("enum %q narrowed reserved range [%d, %d)", name, r.Start, r.End),
					LocationCurrent:  cur,
					LocationPrevious: prev,
				})
			}
		}
		return out
	}
}

// rangeAccountedFor reports whether every number in r is either still
// reserved or occupied by a live declaration in current.
func rangeAccountedFor(r canonical.ReservedRange, reserved func(int32) bool, occupied func(int32) bool) bool {
	for n := r.Start; n < r.End; n++ {
		if !reserved(n) && !occupied(n) {
			return false
		}
	}
	return true
}

// enumSameType reports a closed/open transition on a matched enum:
// decoders built against the old enum's openness may reject or mishandle
// values from the new one.
func enumSameType() Func {
	return enumSameOption("openness", func(e *canonical.Enum) bool { return e.Closed })
}

// enumSuffixesNoChange checks that the enum's zero-numbered value -- the
// one proto3 uses as the implicit default and editions/proto2 decoders
// fall back to for an absent field -- keeps its name. Renaming it changes
// what every unset or out-of-range field value renders as in JSON and
// text output even though the wire bytes are unchanged.
func enumSuffixesNoChange() Func {
	return enumValueSameProperty("zero value name", func(v *canonical.EnumValue) string {
		if v.Number != 0 {
			return ""
		}
		return v.Name
	})
}

// messageSameMapEntry reports a message whose map_entry option flipped:
// a message can't become or stop being the synthetic map-entry wrapper
// without changing the field that references it from a map to a regular
// repeated message field, or vice versa.
func messageSameMapEntry() Func {
	return messageSameOption("map_entry", func(m *canonical.Message) bool { return m.Options.MapEntry })
}

func messageSameMessageSetWireFormat() Func {
	return messageSameOption("message_set_wire_format", func(m *canonical.Message) bool { return m.Options.MessageSetWireFormat })
}

func messageSameNoStandardDescriptorAccessor() Func {
	return messageSameOption("no_standard_descriptor_accessor", func(m *canonical.Message) bool {
		return m.Options.NoStandardDescriptorAccessor
	})
}

// wireGroup classifies a scalar Kind into the set of kinds that share a
// wire-format encoding, per the protobuf wire-compatibility table. Two
// fields whose kinds fall in the same group decode identically off the
// wire even though their declared types differ -- e.g. int32 read as
// int64 sign-extends correctly and vice versa.
func wireGroup(k canonical.Kind) int {
	switch k {
	case canonical.KindInt32, canonical.KindInt64, canonical.KindUint32, canonical.KindUint64, canonical.KindBool:
		return 1 // varint
	case canonical.KindSint32, canonical.KindSint64:
		return 2 // zigzag varint
	case canonical.KindFixed32, canonical.KindSfixed32, canonical.KindFloat:
		return 3 // 32-bit fixed
	case canonical.KindFixed64, canonical.KindSfixed64, canonical.KindDouble:
		return 4 // 64-bit fixed
	case canonical.KindString, canonical.KindBytes:
		return 5 // length-delimited scalar
	case canonical.KindMessage, canonical.KindGroup:
		return 6 // length-delimited submessage
	case canonical.KindEnum:
		return 1 // enums are varints on the wire
	default:
		return 0
	}
}

// fieldWireCompatibleType is the permissive alternative to
// FIELD_SAME_TYPE: it accepts a type change within the same wire group
// (int32 to int64 is fine, int32 to string is not).
// It does not accept a change in referent name
// for message/enum/group fields, since that is a different type even
// though the wire group matches.
func fieldWireCompatibleType(jsonStrict bool) Func {
	return func(previous, current *canonical.File, ctx *Context) []diag.Change {
		currMsgs := messageByName(current)
		var out []diag.Change
		for name, pm := range messageByName(previous) {
			cm, ok := currMsgs[name]
			if !ok {
				continue
			}
			for _, pf := range pm.Fields {
				cf := cm.FieldByNumber(pf.Number)
				if cf == nil {
					continue
				}
				if wireCompatible(pf.Type, cf.Type, jsonStrict) {
					continue
				}
				qname := name + "." + pf.Name
				cur, prev := locPair(ctx, diag.EntityField, qname)
				out = append(out, diag.Change{
					Message:          fmt.Sprintf("field %q on message %q changed type incompatibly on the wire", pf.Name, name),
					LocationCurrent:  cur,
					LocationPrevious: prev,
				})
			}
		}
		return out
	}
}

// wireCompatible reports whether two types decode compatibly. jsonStrict
// additionally requires string and bytes not be interchanged, since JSON
// renders them differently (bytes as base64, string as text).
func wireCompatible(a, b canonical.Type, jsonStrict bool) bool {
	if a.Equal(b) {
		return true
	}
	if a.IsReference() || b.IsReference() {
		return false // a referent name change is never "the same type family"
	}
	if jsonStrict && (a.Kind == canonical.KindString || a.Kind == canonical.KindBytes) {
		return a.Kind == b.Kind
	}
	return wireGroup(a.Kind) != 0 && wireGroup(a.Kind) == wireGroup(b.Kind)
}

func enumSameAllowAlias() Func {
	return enumSameOption("allow_alias", func(e *canonical.Enum) bool { return e.AllowAlias })
}

// fieldSameType is the strict counterpart to fieldWireCompatibleType: any
// change to a field's declared type, including a renamed referent, is
// reported, regardless of wire-format family.
func fieldSameType() Func {
	return func(previous, current *canonical.File, ctx *Context) []diag.Change {
		currMsgs := messageByName(current)
		var out []diag.Change
		for name, pm := range messageByName(previous) {
			cm, ok := currMsgs[name]
			if !ok {
				continue
			}
			for _, pf := range pm.Fields {
				cf := cm.FieldByNumber(pf.Number)
				if cf == nil || pf.Type.Equal(cf.Type) {
					continue
				}
				qname := name + "." + pf.Name
				cur, prev := locPair(ctx, diag.EntityField, qname)
				out = append(out, diag.Change{
					Message:          fmt.Sprintf("field %q on message %q changed type", pf.Name, name),
					LocationCurrent:  cur,
					LocationPrevious: prev,
				})
			}
		}
		return out
	}
}

// messageNoChangeSuffix, enumNoChangeSuffix, and serviceNoChangeSuffix
// implement the opt-in suffix locks: a
// renamed top-level entity that loses a configured suffix is flagged,
// even though plain renaming is otherwise permitted for entities that
// aren't matched by name across previous/current (this engine matches
// entities by name, so a suffix-losing rename already looks like a
// delete-plus-add to every other rule; these three exist to give that
// specific failure mode its own diagnostic when the caller has opted
// into suffix locking).
func messageNoChangeSuffix() Func {
	return func(previous, current *canonical.File, ctx *Context) []diag.Change {
		if len(ctx.MessageNoChangeSuffixes) == 0 {
			return nil
		}
		return noChangeSuffixNames(messageNames(previous), messageNames(current), ctx.MessageNoChangeSuffixes, diag.EntityMessage, "message", ctx)
	}
}

func enumNoChangeSuffix() Func {
	return func(previous, current *canonical.File, ctx *Context) []diag.Change {
		if len(ctx.EnumNoChangeSuffixes) == 0 {
			return nil
		}
		return noChangeSuffixNames(enumNames(previous), enumNames(current), ctx.EnumNoChangeSuffixes, diag.EntityEnum, "enum", ctx)
	}
}

func serviceNoChangeSuffix() Func {
	return func(previous, current *canonical.File, ctx *Context) []diag.Change {
		if len(ctx.ServiceNoChangeSuffixes) == 0 {
			return nil
		}
		return noChangeSuffixNames(serviceNames(previous), serviceNames(current), ctx.ServiceNoChangeSuffixes, diag.EntityService, "service", ctx)
	}
}

// noChangeSuffixNames flags a previous name matched against a configured
// suffix that disappeared from current entirely (i.e. nothing sharing
// that same suffix-stripped stem survived under the same suffix).
func noChangeSuffixNames(prevNames, currNames map[string]struct{}, suffixes []string, kind diag.EntityKind, label string, ctx *Context) []diag.Change {
	var out []diag.Change
	for name := range prevNames {
		sfx := matchedSuffix(name, suffixes)
		if sfx == "" {
			continue
		}
		if _, ok := currNames[name]; ok {
			continue
		}
		cur, prev := locPair(ctx, kind, name)
		out = append(out, diag.Change{
			Message:          fmt.Sprintf("%s %q with locked suffix %q was removed or renamed", label, name, sfx),
			LocationCurrent:  cur,
			LocationPrevious: prev,
		})
	}
	return out
}

// extensionSameType is fieldSameType's extension counterpart.
func extensionSameType() Func {
	return func(previous, current *canonical.File, ctx *Context) []diag.Change {
		currExts := extensionByKey(current)
		var out []diag.Change
		for key, px := range extensionByKey(previous) {
			cx, ok := currExts[key]
			if !ok || px.Field.Type.Equal(cx.Field.Type) {
				continue
			}
			cur, prev := locPair(ctx, diag.EntityExtension, key)
			out = append(out, diag.Change{
				Message:          fmt.Sprintf("extension %q changed type", key),
				LocationCurrent:  cur,
				LocationPrevious: prev,
			})
		}
		return out
	}
}
