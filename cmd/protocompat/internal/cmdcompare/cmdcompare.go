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

// Package cmdcompare implements the "compare" subcommand: print the
// three-level verdict for two descriptor files.
package cmdcompare

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/creachadair/command"

	"github.com/creachadair/protocompat/cmd/protocompat/internal/descio"
	"github.com/creachadair/protocompat/compat"
	"github.com/creachadair/protocompat/config"
	"github.com/creachadair/protocompat/diag"
)

var flags struct {
	Format string
}

var Command = &command.C{
	Name:  "compare",
	Usage: "<previous-descriptor> <current-descriptor>",
	Help:  "Print the compatibility verdict (green, yellow, or red) for two descriptor files",

	SetFlags: func(_ *command.Env, fs *flag.FlagSet) {
		fs.StringVar(&flags.Format, "format", "text", "Output format: text or json")
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
		ctx := cfg.RuleContext()
		ctx.PreviousPath, ctx.CurrentPath = args[0], args[1]

		verdict, changes, err := compat.Compare(prevFD, currFD, &ctx)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(2)
		}

		if flags.Format == "json" {
			bits, _ := json.MarshalIndent(struct {
				Verdict string      `json:"verdict"`
				Report  diag.Report `json:"report"`
			}{string(verdict), diag.Report{Changes: changes}}, "", "  ")
			fmt.Fprintln(env, string(bits))
		} else {
			fmt.Fprintln(env, verdict)
		}

		if verdict == compat.Red {
			os.Exit(1)
		}
		return nil
	},
}
