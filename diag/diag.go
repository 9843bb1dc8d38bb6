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

// Package diag defines the located change record the rule engine emits,
// and the deterministic ordering and JSON encoding that make a run of
// diagnostics reproducible byte-for-byte.
package diag

import "sort"

// EntityKind identifies the kind of schema entity a Location points at.
type EntityKind string

// Entity kinds. These names appear verbatim in JSON diagnostics output,
// so they are part of this module's external contract.
const (
	EntityFile      EntityKind = "file"
	EntityMessage   EntityKind = "message"
	EntityField     EntityKind = "field"
	EntityOneof     EntityKind = "oneof"
	EntityEnum      EntityKind = "enum"
	EntityEnumValue EntityKind = "enum_value"
	EntityService   EntityKind = "service"
	EntityMethod    EntityKind = "method"
	EntityExtension EntityKind = "extension"
)

// Position is a source line/column, populated only when the descriptor
// parser supplied source-code info for the entity in question.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Location pins a Change to a specific declaration in a specific file.
type Location struct {
	FilePath      string     `json:"file_path"`
	EntityKind    EntityKind `json:"entity_kind"`
	QualifiedName string     `json:"entity_qualified_name"`
	Position      *Position  `json:"position,omitempty"`
}

// Change is a single diagnostic emitted by one rule comparing one entity
// pair between a previous and a current canonical file.
type Change struct {
	RuleID           string    `json:"rule_id"`
	Categories       []string  `json:"categories"`
	Message          string    `json:"message"`
	LocationCurrent  Location  `json:"current_location"`
	LocationPrevious *Location `json:"previous_location,omitempty"`
}

// Sort orders changes by
// (rule_id, location_current.entity_qualified_name, location_current.position).
// It is the single choke point responsible for diagnostics determinism;
// every caller that returns a []Change to a user must route it through
// here first.
func Sort(changes []Change) {
	sort.SliceStable(changes, func(i, j int) bool {
		a, b := changes[i], changes[j]
		if a.RuleID != b.RuleID {
			return a.RuleID < b.RuleID
		}
		if a.LocationCurrent.QualifiedName != b.LocationCurrent.QualifiedName {
			return a.LocationCurrent.QualifiedName < b.LocationCurrent.QualifiedName
		}
		return lessPosition(a.LocationCurrent.Position, b.LocationCurrent.Position)
	})
}

func lessPosition(a, b *Position) bool {
	if a == nil || b == nil {
		return a != nil // present sorts before absent, arbitrarily but stably
	}
	if a.Line != b.Line {
		return a.Line < b.Line
	}
	return a.Column < b.Column
}

// Report is the top-level JSON document the CLI's --format json emits.
type Report struct {
	Changes []Change `json:"changes"`
}
