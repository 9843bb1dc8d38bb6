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

// This file implements each recurring rule shape (no-delete,
// same-property, monotone file change) once, as generic builders. Every
// entry in the catalog_*.go tables instantiates one of these with
// entity-specific accessors rather than hand-rolling its own comparison
// loop.

// noDeleteTopLevel builds a rule that requires every name present in
// previous's namesFn to still be present in current's, for entities
// matched purely by a file-wide key with no containing scope: messages and
// enums by fully-qualified name (nested ones included), services by name,
// and extensions by (extendee, number).
func noDeleteTopLevel(kind diag.EntityKind, namesFn func(*canonical.File) map[string]struct{}, label string) Func {
	return func(previous, current *canonical.File, ctx *Context) []diag.Change {
		curr := namesFn(current)
		var out []diag.Change
		for name := range namesFn(previous) {
			if _, ok := curr[name]; ok {
				continue
			}
			cur, prev := locPair(ctx, kind, name)
			out = append(out, diag.Change{
				Message:          fmt.Sprintf("previously present %s %q was deleted", label, name),
				LocationCurrent:  cur,
				LocationPrevious: prev,
			})
		}
		return out
	}
}

func messageNames(f *canonical.File) map[string]struct{} {
	out := map[string]struct{}{}
	for name := range messageByName(f) {
		out[name] = struct{}{}
	}
	return out
}

func enumNames(f *canonical.File) map[string]struct{} {
	out := map[string]struct{}{}
	for name := range enumByName(f) {
		out[name] = struct{}{}
	}
	return out
}

func serviceNames(f *canonical.File) map[string]struct{} {
	out := map[string]struct{}{}
	for name := range serviceByName(f) {
		out[name] = struct{}{}
	}
	return out
}

func extensionNames(f *canonical.File) map[string]struct{} {
	out := map[string]struct{}{}
	for key := range extensionByKey(f) {
		out[key] = struct{}{}
	}
	return out
}

// fieldNoDelete builds the three field-deletion variants: reserveMode ""
// requires the number to still be a field; "number" and "name"
// additionally accept the number or the field's old name landing in
// current's reserved set instead.
func fieldNoDelete(reserveMode string) Func {
	return func(previous, current *canonical.File, ctx *Context) []diag.Change {
		currMsgs := messageByName(current)
		var out []diag.Change
		for name, pm := range messageByName(previous) {
			cm, ok := currMsgs[name]
			if !ok {
				continue // FILE_/PACKAGE_MESSAGE_NO_DELETE already report this
			}
			for _, pf := range pm.Fields {
				if cm.FieldByNumber(pf.Number) != nil {
					continue
				}
				switch reserveMode {
				case "number":
					if cm.ReservesNumber(pf.Number) {
						continue
					}
				case "name":
					if cm.ReservesName(pf.Name) {
						continue
					}
				}
				qname := name + "." + pf.Name
				cur, prev := locPair(ctx, diag.EntityField, qname)
				out = append(out, diag.Change{
					Message:          fmt.Sprintf("field %d (%q) on message %q was deleted", pf.Number, pf.Name, name),
					LocationCurrent:  cur,
					LocationPrevious: prev,
				})
			}
		}
		return out
	}
}

// enumValueNoDelete mirrors fieldNoDelete for enum values.
func enumValueNoDelete(reserveMode string) Func {
	return func(previous, current *canonical.File, ctx *Context) []diag.Change {
		currEnums := enumByName(current)
		var out []diag.Change
		for name, pe := range enumByName(previous) {
			ce, ok := currEnums[name]
			if !ok {
				continue
			}
			for _, pv := range pe.Values {
				if ce.ValueByNumber(pv.Number) != nil {
					continue
				}
				switch reserveMode {
				case "number":
					if ce.ReservesNumber(pv.Number) {
						continue
					}
				case "name":
					if ce.ReservesName(pv.Name) {
						continue
					}
				}
				qname := name + "." + pv.Name
				cur, prev := locPair(ctx, diag.EntityEnumValue, qname)
				out = append(out, diag.Change{
					Message:          fmt.Sprintf("enum value %d (%q) on enum %q was deleted", pv.Number, pv.Name, name),
					LocationCurrent:  cur,
					LocationPrevious: prev,
				})
			}
		}
		return out
	}
}

// methodNoDelete requires every method of a still-present service to
// survive, matched by name within the service.
func methodNoDelete() Func {
	return func(previous, current *canonical.File, ctx *Context) []diag.Change {
		currSvcs := serviceByName(current)
		var out []diag.Change
		for name, ps := range serviceByName(previous) {
			cs, ok := currSvcs[name]
			if !ok {
				continue
			}
			for _, pm := range ps.Methods {
				if cs.MethodByName(pm.Name) != nil {
					continue
				}
				qname := name + "." + pm.Name
				cur, prev := locPair(ctx, diag.EntityMethod, qname)
				out = append(out, diag.Change{
					Message:          fmt.Sprintf("rpc %q on service %q was deleted", pm.Name, name),
					LocationCurrent:  cur,
					LocationPrevious: prev,
				})
			}
		}
		return out
	}
}

// oneofNoDelete requires every oneof of a still-present message to
// survive, matched by name.
func oneofNoDelete() Func {
	return func(previous, current *canonical.File, ctx *Context) []diag.Change {
		currMsgs := messageByName(current)
		var out []diag.Change
		for name, pm := range messageByName(previous) {
			cm, ok := currMsgs[name]
			if !ok {
				continue
			}
			currOneofs := map[string]struct{}{}
			for _, o := range cm.Oneofs {
				currOneofs[o.Name] = struct{}{}
			}
			for _, po := range pm.Oneofs {
				if _, ok := currOneofs[po.Name]; ok {
					continue
				}
				qname := name + "." + po.Name
				cur, prev := locPair(ctx, diag.EntityOneof, qname)
				out = append(out, diag.Change{
					Message:          fmt.Sprintf("oneof %q on message %q was deleted", po.Name, name),
					LocationCurrent:  cur,
					LocationPrevious: prev,
				})
			}
		}
		return out
	}
}

// extensionMessageNoDelete requires that the message extended by a
// previously-declared extension still exists in current: an extension
// pointing at a deleted message can never be registered again.
func extensionMessageNoDelete() Func {
	return func(previous, current *canonical.File, ctx *Context) []diag.Change {
		currMsgs := messageByName(current)
		var out []diag.Change
		for key, px := range extensionByKey(previous) {
			if _, ok := currMsgs[px.Extendee]; ok {
				continue
			}
			if _, stillDeclared := extensionByKey(current)[key]; stillDeclared {
				continue // the extendee message moved; FILE_/PACKAGE_MESSAGE_NO_DELETE will report it
			}
			cur, prev := locPair(ctx, diag.EntityExtension, key)
			out = append(out, diag.Change{
				Message:          fmt.Sprintf("extension of %q at field %d was deleted along with its extendee message", px.Extendee, px.Field.Number),
				LocationCurrent:  cur,
				LocationPrevious: prev,
			})
		}
		return out
	}
}

// fieldSameProperty builds a same-property rule over a single
// string-valued field attribute, matched by field number within a message
// matched by name.
func fieldSameProperty(attr string, get func(*canonical.Field) string) Func {
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
				pv, cv := get(pf), get(cf)
				if pv == cv {
					continue
				}
				qname := name + "." + pf.Name
				cur, prev := locPair(ctx, diag.EntityField, qname)
				out = append(out, diag.Change{
					Message:          fmt.Sprintf("field %q on message %q changed %s from %q to %q", pf.Name, name, attr, pv, cv),
					LocationCurrent:  cur,
					LocationPrevious: prev,
				})
			}
		}
		return out
	}
}

// extensionSameProperty mirrors fieldSameProperty for extension fields,
// matched by (extendee, number) instead of (message, number).
func extensionSameProperty(attr string, get func(*canonical.Field) string) Func {
	return func(previous, current *canonical.File, ctx *Context) []diag.Change {
		currExts := extensionByKey(current)
		var out []diag.Change
		for key, px := range extensionByKey(previous) {
			cx, ok := currExts[key]
			if !ok {
				continue
			}
			pv, cv := get(px.Field), get(cx.Field)
			if pv == cv {
				continue
			}
			cur, prev := locPair(ctx, diag.EntityExtension, key)
			out = append(out, diag.Change{
				Message:          fmt.Sprintf("extension %q changed %s from %q to %q", key, attr, pv, cv),
				LocationCurrent:  cur,
				LocationPrevious: prev,
			})
		}
		return out
	}
}

// enumValueSameProperty builds a same-property rule over an enum value
// attribute, matched by number within an enum matched by name.
func enumValueSameProperty(attr string, get func(*canonical.EnumValue) string) Func {
	return func(previous, current *canonical.File, ctx *Context) []diag.Change {
		currEnums := enumByName(current)
		var out []diag.Change
		for name, pe := range enumByName(previous) {
			ce, ok := currEnums[name]
			if !ok {
				continue
			}
			for _, pv := range pe.Values {
				cv := ce.ValueByNumber(pv.Number)
				if cv == nil {
					continue
				}
				a, b := get(pv), get(cv)
				if a == b {
					continue
				}
				qname := name + "." + pv.Name
				cur, prev := locPair(ctx, diag.EntityEnumValue, qname)
				out = append(out, diag.Change{
					Message:          fmt.Sprintf("enum value %d on enum %q changed %s from %q to %q", pv.Number, name, attr, a, b),
					LocationCurrent:  cur,
					LocationPrevious: prev,
				})
			}
		}
		return out
	}
}

// methodSameProperty builds a same-property rule over a method attribute,
// matched by name within a service matched by name.
func methodSameProperty(attr string, get func(*canonical.Method) string) Func {
	return func(previous, current *canonical.File, ctx *Context) []diag.Change {
		currSvcs := serviceByName(current)
		var out []diag.Change
		for name, ps := range serviceByName(previous) {
			cs, ok := currSvcs[name]
			if !ok {
				continue
			}
			for _, pm := range ps.Methods {
				cm := cs.MethodByName(pm.Name)
				if cm == nil {
					continue
				}
				a, b := get(pm), get(cm)
				if a == b {
					continue
				}
				qname := name + "." + pm.Name
				cur, prev := locPair(ctx, diag.EntityMethod, qname)
				out = append(out, diag.Change{
					Message:          fmt.Sprintf("rpc %q on service %q changed %s from %q to %q", pm.Name, name, attr, a, b),
					LocationCurrent:  cur,
					LocationPrevious: prev,
				})
			}
		}
		return out
	}
}

// messageSameOption builds a same-property rule over a message-level
// boolean option, matched by message name.
func messageSameOption(attr string, get func(*canonical.Message) bool) Func {
	return func(previous, current *canonical.File, ctx *Context) []diag.Change {
		currMsgs := messageByName(current)
		var out []diag.Change
		for name, pm := range messageByName(previous) {
			cm, ok := currMsgs[name]
			if !ok {
				continue
			}
			a, b := get(pm), get(cm)
			if a == b {
				continue
			}
			cur, prev := locPair(ctx, diag.EntityMessage, name)
			out = append(out, diag.Change{
				Message:          fmt.Sprintf("message %q changed %s from %s to %s", name, attr, boolStr(a), boolStr(b)),
				LocationCurrent:  cur,
				LocationPrevious: prev,
			})
		}
		return out
	}
}

// enumSameOption builds a same-property rule over an enum-level boolean
// option, matched by enum name.
func enumSameOption(attr string, get func(*canonical.Enum) bool) Func {
	return func(previous, current *canonical.File, ctx *Context) []diag.Change {
		currEnums := enumByName(current)
		var out []diag.Change
		for name, pe := range enumByName(previous) {
			ce, ok := currEnums[name]
			if !ok {
				continue
			}
			a, b := get(pe), get(ce)
			if a == b {
				continue
			}
			cur, prev := locPair(ctx, diag.EntityEnum, name)
			out = append(out, diag.Change{
				Message:          fmt.Sprintf("enum %q changed %s from %s to %s", name, attr, boolStr(a), boolStr(b)),
				LocationCurrent:  cur,
				LocationPrevious: prev,
			})
		}
		return out
	}
}

// monotoneFile builds a whole-file change rule over a single
// string-valued file attribute: previous and current are compared
// directly, with no entity matching required since there is exactly one
// file on each side.
func monotoneFile(attr string, get func(*canonical.File) string) Func {
	return func(previous, current *canonical.File, ctx *Context) []diag.Change {
		a, b := get(previous), get(current)
		if a == b {
			return nil
		}
		cur, prev := locPair(ctx, diag.EntityFile, current.Package)
		return []diag.Change{{
			Message:          fmt.Sprintf("file option %s changed from %q to %q", attr, a, b),
			LocationCurrent:  cur,
			LocationPrevious: prev,
		}}
	}
}

// monotoneFileBool is monotoneFile specialized for boolean attributes.
func monotoneFileBool(attr string, get func(*canonical.File) bool) Func {
	return monotoneFile(attr, func(f *canonical.File) string { return boolStr(get(f)) })
}
