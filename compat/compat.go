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

// Package compat ties the normalizer, rule engine, and verdict synthesis
// together into a single entry point: given two file descriptors, decide
// whether the current one is a backward compatible evolution of the
// previous one.
package compat

import (
	"fmt"

	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/creachadair/protocompat/canonical"
	"github.com/creachadair/protocompat/diag"
	"github.com/creachadair/protocompat/normalize"
	"github.com/creachadair/protocompat/rules"
)

// Verdict is the three-level outcome of comparing two schema versions.
type Verdict string

const (
	Green  Verdict = "green"  // fingerprints equal: no semantic change at all
	Yellow Verdict = "yellow" // different but backward compatible
	Red    Verdict = "red"    // breaking
)

// verdictRules is the rule set used for verdict synthesis: every
// category, not just the breaking command's narrower FILE+WIRE_JSON
// default.
var verdictRules = []rules.Category{rules.CategoryFile, rules.CategoryPackage, rules.CategoryWire, rules.CategoryWireJSON}

// Pair is one previous/current comparison input, named so CompareAll
// can report which pair a result belongs to.
type Pair struct {
	Name     string
	Previous *descriptorpb.FileDescriptorProto
	Current  *descriptorpb.FileDescriptorProto
}

// Result is the outcome of comparing one Pair.
type Result struct {
	Name    string
	Verdict Verdict
	Changes []diag.Change
	Err     error
}

// Compare normalizes previous and current, and returns the verdict
// together with the diagnostics that justify it. ctx
// may be nil; when non-nil its PreviousPath/CurrentPath are stamped onto
// emitted locations and its suffix-lock fields (if set) are honored.
func Compare(previous, current *descriptorpb.FileDescriptorProto, ctx *rules.Context) (Verdict, []diag.Change, error) {
	prevFile, err := normalize.File(previous)
	if err != nil {
		return "", nil, fmt.Errorf("normalizing previous: %w", err)
	}
	currFile, err := normalize.File(current)
	if err != nil {
		return "", nil, fmt.Errorf("normalizing current: %w", err)
	}
	return CompareCanonical(prevFile, currFile, ctx)
}

// CompareCanonical is Compare's variant for callers that already hold
// canonical.File values, e.g. a fingerprint cache that skips
// renormalizing unchanged files.
func CompareCanonical(prevFile, currFile *canonical.File, ctx *rules.Context) (Verdict, []diag.Change, error) {
	if canonical.Equal(prevFile, currFile) {
		return Green, nil, nil
	}

	if ctx == nil {
		ctx = &rules.Context{}
	}
	sel := &rules.Selector{UseCategories: verdictRules}
	changes, err := sel.Run(prevFile, currFile, ctx)
	if err != nil {
		return "", nil, err
	}
	if len(changes) == 0 {
		return Yellow, nil, nil
	}
	return Red, changes, nil
}

// Breaking runs the caller-selected rule set (e.g. the config-resolved
// FILE+WIRE_JSON breaking default) rather than the fixed verdict set,
// and returns only the diagnostics -- the "breaking" CLI subcommand's
// underlying operation.
func Breaking(previous, current *descriptorpb.FileDescriptorProto, sel *rules.Selector, ctx *rules.Context) ([]diag.Change, error) {
	prevFile, err := normalize.File(previous)
	if err != nil {
		return nil, fmt.Errorf("normalizing previous: %w", err)
	}
	currFile, err := normalize.File(current)
	if err != nil {
		return nil, fmt.Errorf("normalizing current: %w", err)
	}
	if ctx == nil {
		ctx = &rules.Context{}
	}
	return sel.Run(prevFile, currFile, ctx)
}
