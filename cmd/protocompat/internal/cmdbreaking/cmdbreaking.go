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

// Package cmdbreaking implements the "breaking" subcommand: report the
// compatibility rule diagnostics between two descriptor files, exiting 1
// if any were found.
package cmdbreaking

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/creachadair/command"

	"github.com/creachadair/protocompat/cmd/protocompat/internal/descio"
	"github.com/creachadair/protocompat/compat"
	"github.com/creachadair/protocompat/config"
	"github.com/creachadair/protocompat/diag"
	"github.com/creachadair/protocompat/rules"
)

var flags struct {
	Format        string
	UseCategories string
}

var Command = &command.C{
	Name:  "breaking",
	Usage: "<previous-descriptor> <current-descriptor>",
	Help:  "Report backward-incompatible changes between two descriptor files",

	SetFlags: func(_ *command.Env, fs *flag.FlagSet) {
		fs.StringVar(&flags.Format, "format", "text", "Output format: text or json")
		fs.StringVar(&flags.UseCategories, "use-categories", "", "Comma-separated category override")
	},

	Run: func(env *command.Env, args []string) error {
		if len(args) != 2 {
			return env.Usagef("expected exactly two descriptor file arguments")
		}
		prevFD, err := descio.Load(args[0])
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(2)
		}
		currFD, err := descio.Load(args[1])
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(2)
		}

		cfg := env.Config.(*config.Settings)
		sel := cfg.Selector()
		if flags.UseCategories != "" {
			var cats []rules.Category
			for _, c := range strings.Split(flags.UseCategories, ",") {
				cats = append(cats, rules.Category(strings.TrimSpace(c)))
			}
			sel.UseCategories = cats
			sel.UseRules = nil
		}

		ctx := cfg.RuleContext()
		ctx.PreviousPath, ctx.CurrentPath = args[0], args[1]
		changes, err := compat.Breaking(prevFD, currFD, sel, &ctx)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(2)
		}

		if len(changes) == 0 {
			return nil
		}
		if flags.Format == "json" {
			printJSON(env, changes)
		} else {
			printText(env, changes)
		}
		os.Exit(1)
		return nil
	},
}

func printText(env *command.Env, changes []diag.Change) {
	for _, c := range changes {
		fmt.Fprintf(env, "%s: %s: %s\n", c.LocationCurrent.FilePath, c.RuleID, c.Message)
	}
}

func printJSON(env *command.Env, changes []diag.Change) {
	// The summary block is additive alongside the documented changes
	// schema: a per-category count of the findings below it.
	summary := make(map[string]int)
	for _, c := range changes {
		for _, cat := range c.Categories {
			summary[cat]++
		}
	}
	bits, err := json.MarshalIndent(struct {
		Changes []diag.Change  `json:"changes"`
		Summary map[string]int `json:"summary"`
	}{changes, summary}, "", "  ")
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(2)
	}
	fmt.Fprintln(env, string(bits))
}
