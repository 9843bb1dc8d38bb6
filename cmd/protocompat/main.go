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

package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"path/filepath"

	"github.com/creachadair/command"

	"github.com/creachadair/protocompat/cmd/protocompat/internal/cmdbreaking"
	"github.com/creachadair/protocompat/cmd/protocompat/internal/cmdcompare"
	"github.com/creachadair/protocompat/cmd/protocompat/internal/cmdfingerprint"
	"github.com/creachadair/protocompat/config"
)

var configPath = "$HOME/.config/protocompat/config.yml"

func main() {
	root := &command.C{
		Name: filepath.Base(os.Args[0]),
		Usage: `<command> [arguments]
help [<command>]`,
		Help: `Check protobuf schema changes for backward compatibility.`,

		SetFlags: func(env *command.Env, fs *flag.FlagSet) {
			if cf, ok := os.LookupEnv("PROTOCOMPAT_CONFIG"); ok && cf != "" {
				configPath = cf
			}
			fs.StringVar(&configPath, "config", configPath, "Configuration file path")
		},

		Init: func(env *command.Env) error {
			cfg, err := config.Load(os.ExpandEnv(configPath))
			if err != nil {
				return err
			}
			cfg.Context = context.Background()
			env.Config = cfg
			return nil
		},

		Commands: []*command.C{
			cmdbreaking.Command,
			cmdcompare.Command,
			cmdfingerprint.Command,
			command.HelpCommand(nil),
		},
	}
	if err := command.Run(root.NewEnv(nil), os.Args[1:]); err != nil {
		if errors.Is(err, command.ErrUsage) {
			os.Exit(2)
		}
		log.Printf("Error: %v", err)
		os.Exit(1)
	}
}
