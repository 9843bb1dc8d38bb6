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
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/creachadair/mds/mapset"

	"github.com/creachadair/protocompat/canonical"
	"github.com/creachadair/protocompat/diag"
)

// ErrConfigConflict reports that a Selector was given both UseCategories
// and UseRules, a combination that is rejected rather than resolved by
// union.
var ErrConfigConflict = errors.New("rules: use_categories and use_rules are mutually exclusive")

// ErrUnknownRule reports that a Selector's UseRules or ExceptRules named
// a rule ID not present in Registry.
var ErrUnknownRule = errors.New("rules: unknown rule id")

// ErrUnknownCategory reports that a Selector's UseCategories named a
// category outside the four recognized ones.
var ErrUnknownCategory = errors.New("rules: unknown category")

// RuleSet is the resolved set of rule IDs a Selector evaluates. It is
// aliased to mapset.Set so callers needing set algebra on top of a
// Selector's output (e.g. diffing two configurations) don't need to
// import mapset themselves.
type RuleSet = mapset.Set[string]

// Selector resolves a breaking-rule configuration into the effective
// rule set for a file pair, and applies that set to produce a sorted,
// deduplicated diagnostics list.
type Selector struct {
	UseCategories          []Category
	UseRules               []string
	ExceptRules            []string
	Ignore                 []string // glob patterns against location_current.file_path
	IgnoreOnly             map[string][]string
	IgnoreUnstablePackages bool
}

var unstablePackageSegment = regexp.MustCompile(`^(v\d+(alpha|beta)?\d*|unstable)$`)

// EffectiveRules resolves the selector's configuration into the ordered
// list of rules it will run: the union of default-enabled rules from the
// requested categories, or the explicitly named rules, minus the
// exceptions.
func (s *Selector) EffectiveRules() ([]Rule, error) {
	if len(s.UseCategories) > 0 && len(s.UseRules) > 0 {
		return nil, ErrConfigConflict
	}
	for _, c := range s.UseCategories {
		if !ValidCategory(c) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownCategory, c)
		}
	}

	var ids []string
	if len(s.UseRules) > 0 {
		for _, id := range s.UseRules {
			if _, ok := ByID(id); !ok {
				return nil, fmt.Errorf("%w: %s", ErrUnknownRule, id)
			}
			ids = append(ids, id)
		}
	} else {
		cats := s.UseCategories
		if len(cats) == 0 {
			cats = []Category{CategoryFile, CategoryWireJSON} // the default breaking set
		}
		set := mapset.New[string]()
		for _, c := range cats {
			for _, r := range DefaultEnabledInCategory(c) {
				set.Add(r.ID)
			}
		}
		for id := range set {
			ids = append(ids, id)
		}
	}

	except := mapset.New(s.ExceptRules...)
	for _, id := range s.ExceptRules {
		if _, ok := ByID(id); !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownRule, id)
		}
	}

	var out []Rule
	for _, id := range ids {
		if except.Has(id) {
			continue
		}
		r, _ := ByID(id)
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Run evaluates every effective rule against the given file pair,
// applies the ignore-glob and ignore-unstable-packages filters, de-
// duplicates any (rule_id, location) pair that survived being selected
// through more than one category, and returns the changes in the total
// order diag.Sort defines.
func (s *Selector) Run(previous, current *canonical.File, ctx *Context) ([]diag.Change, error) {
	effective, err := s.EffectiveRules()
	if err != nil {
		return nil, err
	}

	seen := make(map[uint64]bool)
	var out []diag.Change
	for _, r := range effective {
		for _, ch := range r.run(previous, current, ctx) {
			if s.ignores(ch) {
				continue
			}
			key := dedupeKey(ch)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, ch)
		}
	}
	diag.Sort(out)
	return out, nil
}

// dedupeKey hashes the (rule_id, location) pair with xxhash: a rule
// selected via more than one category must still fire at most once per
// file pair.
func dedupeKey(ch diag.Change) uint64 {
	h := xxhash.New()
	h.WriteString(ch.RuleID)
	h.WriteString("\x00")
	h.WriteString(string(ch.LocationCurrent.EntityKind))
	h.WriteString("\x00")
	h.WriteString(ch.LocationCurrent.QualifiedName)
	return h.Sum64()
}

func (s *Selector) ignores(ch diag.Change) bool {
	path := ch.LocationCurrent.FilePath
	for _, pattern := range s.Ignore {
		if globMatch(pattern, path) {
			return true
		}
	}
	for _, pattern := range s.IgnoreOnly[ch.RuleID] {
		if globMatch(pattern, path) {
			return true
		}
	}
	if s.IgnoreUnstablePackages {
		for _, seg := range strings.Split(ch.LocationCurrent.QualifiedName, ".") {
			if unstablePackageSegment.MatchString(seg) {
				return true
			}
		}
	}
	return false
}

// globMatch supports "**" to match any number of path segments, in
// addition to filepath.Match's single-segment "*" and "?".
func globMatch(pattern, name string) bool {
	if !strings.Contains(pattern, "**") {
		ok, _ := filepath.Match(pattern, name)
		return ok
	}
	parts := strings.Split(pattern, "**")
	rest := name
	for i, part := range parts {
		part = strings.Trim(part, "/")
		if part == "" {
			continue
		}
		idx := strings.Index(rest, part)
		if idx < 0 {
			return false
		}
		if i == 0 && idx != 0 {
			return false
		}
		rest = rest[idx+len(part):]
	}
	return true
}
