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

package compat

import (
	"github.com/creachadair/taskgroup"

	"github.com/creachadair/protocompat/rules"
)

// Spec configures a batch comparison run. Comparisons are referentially
// transparent, so pairs can be evaluated concurrently without any
// coordination beyond bounding the number in flight.
type Spec struct {
	// Concurrency bounds how many pairs are normalized and compared at
	// once. Zero or a negative value means the default bound of 64.
	Concurrency int
}

// CompareAll compares every pair independently and returns one Result
// per input, in the same order, regardless of whether individual pairs
// error -- a normalization failure on one pair never prevents the
// others from completing, since every error is local to the
// comparability of its own inputs.
func (s Spec) CompareAll(pairs []Pair) []Result {
	results := make([]Result, len(pairs))
	limit := s.Concurrency
	if limit <= 0 {
		limit = 64
	}
	g, run := taskgroup.New(nil).Limit(limit)
	for i, p := range pairs {
		run(func() error {
			v, changes, err := Compare(p.Previous, p.Current, &rules.Context{
				PreviousPath: p.Name,
				CurrentPath:  p.Name,
			})
			results[i] = Result{Name: p.Name, Verdict: v, Changes: changes, Err: err}
			return nil
		})
	}
	g.Wait()
	return results
}
