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

// Package descio loads a FileDescriptorProto from disk for the
// protocompat subcommands. This module never parses .proto source text
// itself, only the resolved descriptor a compiler front end produced.
package descio

import (
	"bytes"
	"fmt"
	"os"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"
)

// Load reads path and decodes it as a FileDescriptorProto. Files
// beginning with '{' are treated as protojson; anything else is treated
// as the binary wire format, the same sniff a front end doing file2json-
// style conversion would do.
func Load(path string) (*descriptorpb.FileDescriptorProto, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	fd := new(descriptorpb.FileDescriptorProto)
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		if err := protojson.Unmarshal(data, fd); err != nil {
			return nil, fmt.Errorf("decoding %s as JSON: %w", path, err)
		}
		return fd, nil
	}
	if err := proto.Unmarshal(data, fd); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return fd, nil
}
