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

// fileRules holds the whole-file comparison family: syntax, package, and
// every option in canonical.FileOptions. None of these affect wire
// bytes, so they carry only the FILE category.
var fileRules = []Rule{
	{ID: "FILE_SAME_SYNTAX", Categories: []Category{CategoryFile}, DefaultEnabled: true,
		Fn: monotoneFile("syntax", func(f *canonical.File) string { return f.Syntax })},
	{ID: "FILE_SAME_PACKAGE", Categories: []Category{CategoryFile}, DefaultEnabled: true,
		Fn: monotoneFile("package", func(f *canonical.File) string { return f.Package })},
	{ID: "FILE_SAME_DEPRECATED", Categories: []Category{CategoryFile}, DefaultEnabled: true,
		Fn: monotoneFileBool("deprecated", func(f *canonical.File) bool { return f.Options.Deprecated })},
	{ID: "FILE_SAME_JAVA_PACKAGE", Categories: []Category{CategoryFile}, DefaultEnabled: true,
		Fn: monotoneFile("java_package", func(f *canonical.File) string { return f.Options.JavaPackage })},
	{ID: "FILE_SAME_JAVA_OUTER_CLASSNAME", Categories: []Category{CategoryFile}, DefaultEnabled: true,
		Fn: monotoneFile("java_outer_classname", func(f *canonical.File) string { return f.Options.JavaOuterClassname })},
	{ID: "FILE_SAME_JAVA_MULTIPLE_FILES", Categories: []Category{CategoryFile}, DefaultEnabled: true,
		Fn: monotoneFileBool("java_multiple_files", func(f *canonical.File) bool { return f.Options.JavaMultipleFiles })},
	{ID: "FILE_SAME_JAVA_STRING_CHECK_UTF8", Categories: []Category{CategoryFile}, DefaultEnabled: true,
		Fn: monotoneFileBool("java_string_check_utf8", func(f *canonical.File) bool { return f.Options.JavaStringCheckUtf8 })},
	{ID: "FILE_SAME_OPTIMIZE_FOR", Categories: []Category{CategoryFile}, DefaultEnabled: true,
		Fn: monotoneFile("optimize_for", func(f *canonical.File) string { return f.Options.OptimizeFor })},
	{ID: "FILE_SAME_GO_PACKAGE", Categories: []Category{CategoryFile}, DefaultEnabled: true,
		Fn: monotoneFile("go_package", func(f *canonical.File) string { return f.Options.GoPackage })},
	{ID: "FILE_SAME_CC_GENERIC_SERVICES", Categories: []Category{CategoryFile}, DefaultEnabled: true,
		Fn: monotoneFileBool("cc_generic_services", func(f *canonical.File) bool { return f.Options.CcGenericServices })},
	{ID: "FILE_SAME_JAVA_GENERIC_SERVICES", Categories: []Category{CategoryFile}, DefaultEnabled: true,
		Fn: monotoneFileBool("java_generic_services", func(f *canonical.File) bool { return f.Options.JavaGenericServices })},
	{ID: "FILE_SAME_PY_GENERIC_SERVICES", Categories: []Category{CategoryFile}, DefaultEnabled: true,
		Fn: monotoneFileBool("py_generic_services", func(f *canonical.File) bool { return f.Options.PyGenericServices })},
	{ID: "FILE_SAME_CC_ENABLE_ARENAS", Categories: []Category{CategoryFile}, DefaultEnabled: true,
		Fn: monotoneFileBool("cc_enable_arenas", func(f *canonical.File) bool { return f.Options.CcEnableArenas })},
	{ID: "FILE_SAME_OBJC_CLASS_PREFIX", Categories: []Category{CategoryFile}, DefaultEnabled: true,
		Fn: monotoneFile("objc_class_prefix", func(f *canonical.File) string { return f.Options.ObjcClassPrefix })},
	{ID: "FILE_SAME_CSHARP_NAMESPACE", Categories: []Category{CategoryFile}, DefaultEnabled: true,
		Fn: monotoneFile("csharp_namespace", func(f *canonical.File) string { return f.Options.CsharpNamespace })},
	{ID: "FILE_SAME_SWIFT_PREFIX", Categories: []Category{CategoryFile}, DefaultEnabled: true,
		Fn: monotoneFile("swift_prefix", func(f *canonical.File) string { return f.Options.SwiftPrefix })},
	{ID: "FILE_SAME_PHP_CLASS_PREFIX", Categories: []Category{CategoryFile}, DefaultEnabled: true,
		Fn: monotoneFile("php_class_prefix", func(f *canonical.File) string { return f.Options.PhpClassPrefix })},
	{ID: "FILE_SAME_PHP_NAMESPACE", Categories: []Category{CategoryFile}, DefaultEnabled: true,
		Fn: monotoneFile("php_namespace", func(f *canonical.File) string { return f.Options.PhpNamespace })},
	{ID: "FILE_SAME_PHP_METADATA_NAMESPACE", Categories: []Category{CategoryFile}, DefaultEnabled: true,
		Fn: monotoneFile("php_metadata_namespace", func(f *canonical.File) string { return f.Options.PhpMetadataNamespace })},
	{ID: "FILE_SAME_RUBY_PACKAGE", Categories: []Category{CategoryFile}, DefaultEnabled: true,
		Fn: monotoneFile("ruby_package", func(f *canonical.File) string { return f.Options.RubyPackage })},
}
