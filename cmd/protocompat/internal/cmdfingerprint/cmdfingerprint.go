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

// Package cmdfingerprint implements the "fingerprint" subcommand: print
// the canonical SHA-256 fingerprint of a descriptor file, optionally
// memoized in an on-disk cache.
package cmdfingerprint

import (
	"crypto/sha256"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/creachadair/atomicfile"
	"github.com/creachadair/command"
	"github.com/golang/snappy"

	"github.com/creachadair/protocompat/canonical"
	"github.com/creachadair/protocompat/cmd/protocompat/internal/descio"
	"github.com/creachadair/protocompat/normalize"
)

var flags struct {
	CachePath string
}

var Command = &command.C{
	Name:  "fingerprint",
	Usage: "<descriptor-file>",
	Help:  "Print the canonical fingerprint of a descriptor file",

	SetFlags: func(_ *command.Env, fs *flag.FlagSet) {
		fs.StringVar(&flags.CachePath, "cache", "", "Optional fingerprint cache file path")
	},

	Run: func(env *command.Env, args []string) error {
		if len(args) != 1 {
			return env.Usagef("expected exactly one descriptor file argument")
		}
		data, err := os.ReadFile(args[0])
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(2)
		}
		contentKey := fmt.Sprintf("%x", sha256.Sum256(data))

		var cache *fingerprintCache
		if flags.CachePath != "" {
			cache, err = loadCache(flags.CachePath)
			if err != nil {
				fmt.Fprintln(os.Stderr, "Error:", err)
				os.Exit(2)
			}
			if hex, ok := cache.entries[contentKey]; ok {
				fmt.Fprintln(env, hex)
				return nil
			}
		}

		fd, err := descio.Load(args[0])
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(2)
		}
		cf, err := normalize.File(fd)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(2)
		}
		hex := canonical.ComputeFingerprint(cf).String()
		fmt.Fprintln(env, hex)

		if cache != nil {
			cache.entries[contentKey] = hex
			if err := cache.save(flags.CachePath); err != nil {
				fmt.Fprintln(os.Stderr, "Error:", err)
				os.Exit(2)
			}
		}
		return nil
	},
}

// fingerprintCache is a content-hash -> fingerprint-hex memoization
// table, persisted snappy-compressed and written atomically so a
// crashed or concurrent CLI invocation never observes a half-written
// cache file.
type fingerprintCache struct {
	entries map[string]string
}

func loadCache(path string) (*fingerprintCache, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &fingerprintCache{entries: make(map[string]string)}, nil
	} else if err != nil {
		return nil, fmt.Errorf("reading cache: %w", err)
	}
	raw, err := snappy.Decode(nil, data)
	if err != nil {
		return nil, fmt.Errorf("decompressing cache: %w", err)
	}
	entries := make(map[string]string)
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("decoding cache: %w", err)
	}
	return &fingerprintCache{entries: entries}, nil
}

func (c *fingerprintCache) save(path string) error {
	raw, err := json.Marshal(c.entries)
	if err != nil {
		return fmt.Errorf("encoding cache: %w", err)
	}
	compressed := snappy.Encode(nil, raw)
	return atomicfile.WriteData(path, compressed, 0600)
}
