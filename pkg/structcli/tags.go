package structcli

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Struct tag keys.
const (
	tagFlag     = "flag"
	tagArg      = "arg"
	tagDesc     = "desc"
	tagDefault  = "default"
	tagRequired = "required"
	tagType     = "type"
	tagChoices  = "choices"
	tagNargs    = "nargs"
	tagEnv      = "env"
	tagHidden   = "hidden"
	tagPrefix   = "prefix"
)

// DontPass used as a default declares the parameter as having a default
// while leaving the field at its prototype value when nothing is supplied.
const DontPass = "-"

// ParamKind distinguishes options from positional arguments.
type ParamKind int

const (
	KindOption ParamKind = iota
	KindArgument
)

// String returns the string representation of the kind.
func (k ParamKind) String() string {
	switch k {
	case KindOption:
		return "option"
	case KindArgument:
		return "argument"
	default:
		return "unknown"
	}
}

// Decl is the parameter declaration read from a field's tags. Empty values
// mean "not declared"; inference fills them in later.
type Decl struct {
	Kind       ParamKind
	Name       string
	Short      string
	Help       string
	Default    string
	HasDefault bool
	Required   *bool
	TypeName   string
	Choices    []string
	Nargs      int
	Env        string
	Hidden     bool
}

// parseDecl reads a parameter declaration from tag. ok is false when the
// field declares no parameter at all.
func parseDecl(tag reflect.StructTag) (decl Decl, ok bool, err error) {
	flagValue, isFlag := tag.Lookup(tagFlag)
	argValue, isArg := tag.Lookup(tagArg)

	switch {
	case isFlag && isArg:
		return Decl{}, false, fmt.Errorf("field cannot be both a flag and an argument")
	case isFlag:
		decl.Kind = KindOption
		if err := parseFlagNames(flagValue, &decl); err != nil {
			return Decl{}, false, err
		}
	case isArg:
		decl.Kind = KindArgument
		decl.Name = strings.TrimSpace(argValue)
		if strings.ContainsAny(decl.Name, " \t=,") {
			return Decl{}, false, fmt.Errorf("invalid argument name %q", argValue)
		}
	default:
		return Decl{}, false, nil
	}

	decl.Help = tag.Get(tagDesc)
	decl.Default, decl.HasDefault = tag.Lookup(tagDefault)
	decl.TypeName = strings.TrimSpace(tag.Get(tagType))
	decl.Env = strings.TrimSpace(tag.Get(tagEnv))

	if raw, has := tag.Lookup(tagRequired); has {
		required, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return Decl{}, false, fmt.Errorf("invalid required value %q", raw)
		}
		decl.Required = &required
	}

	if raw, has := tag.Lookup(tagChoices); has {
		for _, choice := range strings.Split(raw, "|") {
			if choice = strings.TrimSpace(choice); choice != "" {
				decl.Choices = append(decl.Choices, choice)
			}
		}
		if len(decl.Choices) == 0 {
			return Decl{}, false, fmt.Errorf("choices tag lists no values")
		}
	}

	if raw, has := tag.Lookup(tagNargs); has {
		if decl.Kind != KindArgument {
			return Decl{}, false, fmt.Errorf("nargs is only supported on arguments")
		}
		nargs, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil || nargs == 0 || nargs < -1 {
			return Decl{}, false, fmt.Errorf("invalid nargs value %q (expected a positive count or -1)", raw)
		}
		decl.Nargs = nargs
	}

	if raw, has := tag.Lookup(tagHidden); has {
		if decl.Kind != KindOption {
			return Decl{}, false, fmt.Errorf("hidden is only supported on flags")
		}
		hidden, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return Decl{}, false, fmt.Errorf("invalid hidden value %q", raw)
		}
		decl.Hidden = hidden
	}

	if decl.Env != "" && decl.Kind != KindOption {
		return Decl{}, false, fmt.Errorf("env is only supported on flags")
	}

	return decl, true, nil
}

// parseFlagNames splits "long,s" into the long name and shorthand.
func parseFlagNames(value string, decl *Decl) error {
	parts := strings.Split(value, ",")
	if len(parts) > 2 {
		return fmt.Errorf("invalid flag tag %q (expected \"long,s\")", value)
	}

	decl.Name = strings.TrimPrefix(strings.TrimSpace(parts[0]), "--")
	if strings.HasPrefix(decl.Name, "-") || strings.ContainsAny(decl.Name, " \t=") {
		return fmt.Errorf("invalid flag name %q", parts[0])
	}

	if len(parts) == 2 {
		decl.Short = strings.TrimPrefix(strings.TrimSpace(parts[1]), "-")
		if decl.Short != "" && len(decl.Short) != 1 {
			return fmt.Errorf("flag shorthand %q must be a single character", parts[1])
		}
	}

	return nil
}
