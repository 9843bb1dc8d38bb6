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

// messageByName indexes every message in f, top-level and nested, by its
// fully-qualified name.
func messageByName(f *canonical.File) map[string]*canonical.Message {
	out := map[string]*canonical.Message{}
	for _, m := range f.AllMessages() {
		out[m.Name] = m
	}
	return out
}

// enumByName indexes every enum in f, top-level and nested, by name.
func enumByName(f *canonical.File) map[string]*canonical.Enum {
	out := map[string]*canonical.Enum{}
	for _, e := range f.AllEnums() {
		out[e.Name] = e
	}
	return out
}

// serviceByName indexes f's services by name. Services are never nested.
func serviceByName(f *canonical.File) map[string]*canonical.Service {
	out := map[string]*canonical.Service{}
	for _, s := range f.Services {
		out[s.Name] = s
	}
	return out
}

// extensionKey returns the (extendee, number) composite key used to match
// extension declarations across the two files.
func extensionKey(x *canonical.Extension) string {
	return fmt.Sprintf("%s#%d", x.Extendee, x.Field.Number)
}

func extensionByKey(f *canonical.File) map[string]*canonical.Extension {
	out := map[string]*canonical.Extension{}
	for _, x := range f.AllExtensions() {
		out[extensionKey(x)] = x
	}
	return out
}

func loc(path string, kind diag.EntityKind, qname string) diag.Location {
	return diag.Location{FilePath: path, EntityKind: kind, QualifiedName: qname}
}

func locPair(ctx *Context, kind diag.EntityKind, qname string) (diag.Location, *diag.Location) {
	cur := loc(ctx.CurrentPath, kind, qname)
	prev := loc(ctx.PreviousPath, kind, qname)
	return cur, &prev
}

func boolStr(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
