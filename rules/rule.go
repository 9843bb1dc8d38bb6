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

// Package rules holds the static table of named compatibility rules and
// the selector that resolves a configuration into the effective rule set
// for a file pair.
//
// A Rule is a pure function from a pair of canonical files to a slice of
// diagnostics; the table itself is built once, at package init, from the
// pattern constructors in patterns.go and the per-entity catalogs beside
// this file. Nothing in this package mutates after init.
package rules

import (
	"github.com/creachadair/protocompat/canonical"
	"github.com/creachadair/protocompat/diag"
)

// Category is one of the four coarse-grained groups used to select rules
// in bulk.
type Category string

// The four recognized categories.
const (
	CategoryFile     Category = "FILE"
	CategoryPackage  Category = "PACKAGE"
	CategoryWire     Category = "WIRE"
	CategoryWireJSON Category = "WIRE_JSON"
)

// AllCategories lists every recognized category, in the canonical order
// used when validating configuration input.
var AllCategories = []Category{CategoryFile, CategoryPackage, CategoryWire, CategoryWireJSON}

// ValidCategory reports whether c is one of the four recognized
// categories.
func ValidCategory(c Category) bool {
	for _, x := range AllCategories {
		if x == c {
			return true
		}
	}
	return false
}

// Context carries the handful of values a rule needs beyond the two
// canonical trees themselves: specifically, the file paths to stamp onto
// emitted locations, since a canonical.File deliberately has no notion of
// "which file on disk".
type Context struct {
	PreviousPath string
	CurrentPath  string

	// Suffix locks for the *_NO_CHANGE_SUFFIX rules: when non-empty, a
	// service, or a message or enum at any nesting depth, whose previous
	// fully-qualified name ends with one of these
	// suffixes must survive under that exact name. Empty disables the
	// corresponding check.
	ServiceNoChangeSuffixes []string
	MessageNoChangeSuffixes []string
	EnumNoChangeSuffixes    []string
}

// matchedSuffix returns the first entry of suffixes that name ends with,
// or "" if none match.
func matchedSuffix(name string, suffixes []string) string {
	for _, sfx := range suffixes {
		if len(name) >= len(sfx) && name[len(name)-len(sfx):] == sfx {
			return sfx
		}
	}
	return ""
}

// Func is the shape every rule implementation has: a pure comparison of a
// previous and current file that emits zero or more changes. Rule
// functions report findings, never errors; a panicking Func is a bug the
// test suite is responsible for catching, not a condition this package
// recovers from.
type Func func(previous, current *canonical.File, ctx *Context) []diag.Change

// Rule is one entry in the registry: a stable identifier, the categories
// it belongs to, whether it is part of Buf's default rule set, and the
// comparison function itself.
type Rule struct {
	ID             string
	Categories     []Category
	DefaultEnabled bool
	Fn             Func
}

// InCategory reports whether r belongs to c.
func (r Rule) InCategory(c Category) bool {
	for _, x := range r.Categories {
		if x == c {
			return true
		}
	}
	return false
}

// run invokes the rule and stamps every emitted change with this rule's
// ID and category tags, so individual Func implementations don't have to
// repeat that bookkeeping. A change carries the rule's full category set
// regardless of which category selected the rule.
func (r Rule) run(previous, current *canonical.File, ctx *Context) []diag.Change {
	out := r.Fn(previous, current, ctx)
	cats := make([]string, len(r.Categories))
	for i, c := range r.Categories {
		cats[i] = string(c)
	}
	for i := range out {
		out[i].RuleID = r.ID
		out[i].Categories = cats
	}
	return out
}
