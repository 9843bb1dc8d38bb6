// Copyright 2021 Michael J. Fromberger. All Rights Reserved.
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

// Package config loads and validates the YAML breaking-rule
// configuration shared by the subcommands of the protocompat
// command-line tool.
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	yaml "gopkg.in/yaml.v3"

	"github.com/creachadair/protocompat/rules"
)

// Settings represents the stored configuration for the protocompat tool.
type Settings struct {
	// Context value governing the execution of the tool. Excluded from
	// (un)marshaling.
	Context context.Context `json:"-" yaml:"-"`

	Version  string         `yaml:"version"`
	Breaking BreakingConfig `yaml:"breaking"`
}

// BreakingConfig is the "breaking:" block of the config file: rule
// selection, exceptions, path filters, and the optional suffix-lock and
// per-rule ignore knobs.
type BreakingConfig struct {
	UseCategories          []string `yaml:"use_categories"`
	UseRules               []string `yaml:"use_rules"`
	ExceptRules            []string `yaml:"except_rules"`
	Ignore                 []string `yaml:"ignore"`
	IgnoreUnstablePackages bool     `yaml:"ignore_unstable_packages"`

	// IgnoreOnly maps a rule id to glob patterns that silence only that
	// rule for matching files, a per-rule generalization of Ignore.
	IgnoreOnly map[string][]string `yaml:"ignore_only"`

	ServiceNoChangeSuffixes []string `yaml:"service_no_change_suffixes"`
	MessageNoChangeSuffixes []string `yaml:"message_no_change_suffixes"`
	EnumNoChangeSuffixes    []string `yaml:"enum_no_change_suffixes"`
}

// Load reads and parses the config file at path. A missing file is not
// an error: it returns Settings with only Version set to "v1", which
// resolves to the FILE + WIRE_JSON default rule set.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Settings{Version: "v1"}, nil
	} else if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	if err := checkKnownKeys(raw); err != nil {
		return nil, err
	}

	cfg := &Settings{Version: "v1"}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	if cfg.Version != "v1" {
		return nil, fmt.Errorf("config: unsupported version %q, want %q", cfg.Version, "v1")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var topLevelKeys = map[string]bool{"version": true, "breaking": true}
var breakingKeys = map[string]bool{
	"use_categories": true, "use_rules": true, "except_rules": true,
	"ignore": true, "ignore_unstable_packages": true, "ignore_only": true,
	"service_no_change_suffixes": true, "message_no_change_suffixes": true,
	"enum_no_change_suffixes": true,
}

func checkKnownKeys(raw map[string]any) error {
	for k := range raw {
		if !topLevelKeys[k] {
			return fmt.Errorf("config: unknown key %q", k)
		}
	}
	if b, ok := raw["breaking"]; ok {
		bm, ok := b.(map[string]any)
		if !ok {
			return fmt.Errorf("config: %q must be a mapping", "breaking")
		}
		for k := range bm {
			if !breakingKeys[k] {
				return fmt.Errorf("config: unknown key %q", "breaking."+k)
			}
		}
	}
	return nil
}

// Validate checks the cross-field constraints: category names are
// recognized, use_categories and use_rules are mutually exclusive, named
// rule ids exist, and every glob pattern parses.
func (s *Settings) Validate() error {
	b := s.Breaking
	if len(b.UseCategories) > 0 && len(b.UseRules) > 0 {
		return fmt.Errorf("config: breaking.use_categories and breaking.use_rules are mutually exclusive")
	}
	for _, c := range b.UseCategories {
		if !rules.ValidCategory(rules.Category(c)) {
			return fmt.Errorf("config: unrecognized category %q", c)
		}
	}
	for _, id := range b.UseRules {
		if _, ok := rules.ByID(id); !ok {
			return fmt.Errorf("config: unknown rule id %q in use_rules", id)
		}
	}
	for _, id := range b.ExceptRules {
		if _, ok := rules.ByID(id); !ok {
			return fmt.Errorf("config: unknown rule id %q in except_rules", id)
		}
	}
	for id, globs := range b.IgnoreOnly {
		if _, ok := rules.ByID(id); !ok {
			return fmt.Errorf("config: unknown rule id %q in ignore_only", id)
		}
		for _, g := range globs {
			if _, err := filepath.Match(g, "x"); err != nil {
				return fmt.Errorf("config: malformed glob %q for rule %q: %w", g, id, err)
			}
		}
	}
	for _, g := range b.Ignore {
		if _, err := filepath.Match(g, "x"); err != nil {
			return fmt.Errorf("config: malformed glob %q: %w", g, err)
		}
	}
	return nil
}

// Selector builds the rules.Selector this configuration resolves to.
func (s *Settings) Selector() *rules.Selector {
	b := s.Breaking
	cats := make([]rules.Category, len(b.UseCategories))
	for i, c := range b.UseCategories {
		cats[i] = rules.Category(c)
	}
	return &rules.Selector{
		UseCategories:          cats,
		UseRules:               b.UseRules,
		ExceptRules:            b.ExceptRules,
		Ignore:                 b.Ignore,
		IgnoreOnly:             b.IgnoreOnly,
		IgnoreUnstablePackages: b.IgnoreUnstablePackages,
	}
}

// RuleContext builds the rules.Context carrying this configuration's
// suffix-lock settings, to be merged with the per-comparison file paths
// by the caller.
func (s *Settings) RuleContext() rules.Context {
	b := s.Breaking
	return rules.Context{
		ServiceNoChangeSuffixes: b.ServiceNoChangeSuffixes,
		MessageNoChangeSuffixes: b.MessageNoChangeSuffixes,
		EnumNoChangeSuffixes:    b.EnumNoChangeSuffixes,
	}
}
