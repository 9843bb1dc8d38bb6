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

package normalize

import "fmt"

// Error reports a structural problem found while converting a
// descriptorpb.FileDescriptorProto into a canonical.File: a field whose
// type is not a recognized FieldDescriptorProto type. It carries the name
// of the offending declaration so a caller can report a location without
// this package needing to know anything about source positions.
type Error struct {
	// Path names the declaration with the problem. For a field it is the
	// field's own unqualified name, e.g. "id"; the enclosing message and
	// package are not included.
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("normalize %s: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func errorf(path, format string, args ...any) *Error {
	return &Error{Path: path, Err: fmt.Errorf(format, args...)}
}
