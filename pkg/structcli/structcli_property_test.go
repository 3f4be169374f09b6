//go:build property
// +build property

package structcli

import (
	"strings"
	"testing"
	"unicode"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestNameProperties tests option name derivation properties
func TestNameProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("option names are stable", prop.ForAll(
		func(field string) bool {
			name := optionName(field)
			return optionName(name) == name
		},
		gen.RegexMatch(`^[A-Za-z][A-Za-z0-9_]{0,20}$`),
	))

	properties.Property("option names are lower kebab case", prop.ForAll(
		func(field string) bool {
			name := optionName(field)
			if strings.HasPrefix(name, "-") || strings.HasSuffix(name, "-") || strings.Contains(name, "--") {
				return false
			}
			for _, r := range name {
				if unicode.IsUpper(r) || r == '_' {
					return false
				}
			}
			return true
		},
		gen.RegexMatch(`^[A-Za-z][A-Za-z0-9_]{0,20}$`),
	))

	properties.Property("metavars have no dashes", prop.ForAll(
		func(field string) bool {
			return !strings.Contains(metavar(optionName(field)), "-")
		},
		gen.RegexMatch(`^[A-Za-z][A-Za-z0-9]{0,20}$`),
	))

	properties.TestingRun(t)
}

// TestRequiredProperties tests the requiredness rule
func TestRequiredProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("explicit requiredness wins", prop.ForAll(
		func(optional, explicit, hasDefault bool) bool {
			return InferRequired(optional, &explicit, hasDefault) == explicit
		},
		gen.Bool(), gen.Bool(), gen.Bool(),
	))

	properties.Property("a default is never implicitly required", prop.ForAll(
		func(optional bool) bool {
			return !InferRequired(optional, nil, true)
		},
		gen.Bool(),
	))

	properties.Property("without a default only optional hints are optional", prop.ForAll(
		func(optional bool) bool {
			return InferRequired(optional, nil, false) == !optional
		},
		gen.Bool(),
	))

	properties.TestingRun(t)
}

// TestDistributeProperties tests positional argument distribution
func TestDistributeProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("required arguments consume exactly their arity", prop.ForAll(
		func(count int, values []string) bool {
			params := make([]*Param, count)
			for i := range params {
				params[i] = &Param{Kind: KindArgument, Metavar: "ARG", Nargs: 1, Required: true}
			}

			assigned, rest, err := distribute(params, values)
			if len(values) < count {
				return err != nil
			}
			if err != nil || len(rest) != len(values)-count {
				return false
			}
			for i, p := range params {
				if len(assigned[p]) != 1 || assigned[p][0] != values[i] {
					return false
				}
			}
			return true
		},
		gen.IntRange(0, 5),
		gen.SliceOf(gen.AlphaString()),
	))

	properties.Property("a variadic argument leaves nothing over", prop.ForAll(
		func(values []string) bool {
			first := &Param{Kind: KindArgument, Metavar: "FIRST", Nargs: 1, Required: true}
			rest := &Param{Kind: KindArgument, Metavar: "REST", Nargs: -1}

			assigned, left, err := distribute([]*Param{first, rest}, values)
			if len(values) == 0 {
				return err != nil
			}
			return err == nil && len(left) == 0 && len(assigned[rest]) == len(values)-1
		},
		gen.SliceOf(gen.AlphaString()),
	))

	properties.TestingRun(t)
}
