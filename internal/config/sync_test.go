// SPDX-License-Identifier: MPL-2.0

package config

import (
	"reflect"
	"strings"
	"testing"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// These tests keep the Go structs and the embedded CUE schema aligned: a
// field present on one side only would be silently ignored at load time.

func cueFields(t *testing.T, def string) map[string]bool {
	t.Helper()

	schema := cuecontext.New().CompileString(configSchema)
	if schema.Err() != nil {
		t.Fatalf("compile schema: %v", schema.Err())
	}
	val := schema.LookupPath(cue.ParsePath(def))
	if val.Err() != nil {
		t.Fatalf("lookup %s: %v", def, val.Err())
	}

	iter, err := val.Fields(cue.Definitions(false), cue.Optional(true))
	if err != nil {
		t.Fatalf("iterate %s: %v", def, err)
	}
	fields := make(map[string]bool)
	for iter.Next() {
		sel := iter.Selector()
		if sel.IsDefinition() || sel.LabelType().IsHidden() {
			continue
		}
		fields[strings.TrimSuffix(sel.String(), "?")] = true
	}
	return fields
}

func goFields(typ reflect.Type) map[string]bool {
	fields := make(map[string]bool)
	for i := range typ.NumField() {
		name, _, _ := strings.Cut(typ.Field(i).Tag.Get("json"), ",")
		if name == "" || name == "-" {
			continue
		}
		fields[name] = true
	}
	return fields
}

func TestSchemaSync(t *testing.T) {
	t.Parallel()

	tests := []struct {
		def string
		typ reflect.Type
	}{
		{"#Config", reflect.TypeFor[Config]()},
		{"#UIConfig", reflect.TypeFor[UIConfig]()},
		{"#SpinnerConfig", reflect.TypeFor[SpinnerConfig]()},
		{"#LogConfig", reflect.TypeFor[LogConfig]()},
	}

	for _, tt := range tests {
		t.Run(tt.def, func(t *testing.T) {
			t.Parallel()

			fromCUE := cueFields(t, tt.def)
			fromGo := goFields(tt.typ)
			for name := range fromCUE {
				if !fromGo[name] {
					t.Errorf("%s: CUE field %q has no Go counterpart", tt.def, name)
				}
			}
			for name := range fromGo {
				if !fromCUE[name] {
					t.Errorf("%s: Go field %q is missing from the schema", tt.def, name)
				}
			}
		})
	}
}
