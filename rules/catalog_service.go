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

import "github.com/creachadair/protocompat/canonical"

// serviceRules holds the no-delete and same-property rules scoped to
// services and their RPC methods.
var serviceRules = []Rule{
	{ID: "RPC_NO_DELETE", Categories: []Category{CategoryWire}, DefaultEnabled: true,
		Fn: methodNoDelete()},
	{ID: "RPC_SAME_REQUEST_TYPE", Categories: []Category{CategoryWire}, DefaultEnabled: true,
		Fn: methodSameProperty("request type", func(m *canonical.Method) string { return m.InputType })},
	{ID: "RPC_SAME_RESPONSE_TYPE", Categories: []Category{CategoryWire}, DefaultEnabled: true,
		Fn: methodSameProperty("response type", func(m *canonical.Method) string { return m.OutputType })},
	{ID: "RPC_SAME_CLIENT_STREAMING", Categories: []Category{CategoryWire}, DefaultEnabled: true,
		Fn: methodSameProperty("client streaming", func(m *canonical.Method) string { return boolStr(m.ClientStreaming) })},
	{ID: "RPC_SAME_SERVER_STREAMING", Categories: []Category{CategoryWire}, DefaultEnabled: true,
		Fn: methodSameProperty("server streaming", func(m *canonical.Method) string { return boolStr(m.ServerStreaming) })},
	{ID: "RPC_SAME_IDEMPOTENCY_LEVEL", Categories: []Category{CategoryFile}, DefaultEnabled: true,
		Fn: methodSameProperty("idempotency level", func(m *canonical.Method) string { return m.IdempotencyLevel })},
	{ID: "SERVICE_NO_CHANGE_SUFFIX", Categories: []Category{CategoryFile, CategoryPackage}, DefaultEnabled: true,
		Fn: serviceNoChangeSuffix()},
}
