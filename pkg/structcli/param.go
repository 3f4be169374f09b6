package structcli

import (
	"reflect"
	"strings"

	"github.com/spf13/pflag"
)

// Param is the fully resolved descriptor of one CLI parameter.
type Param struct {
	Kind       ParamKind
	Field      string
	Name       string
	Short      string
	Metavar    string
	Type       ParamType
	Required   bool
	Optional   bool
	Multiple   bool
	Nargs      int
	Help       string
	Default    string
	HasDefault bool
	Env        string
	Hidden     bool

	index    []int
	elemType reflect.Type
	defaults []any
	keep     bool
	value    *paramValue
	flag     *pflag.Flag
	viperKey string
}

// Display returns the parameter as it appears on the command line:
// "--name" for options and the metavar for arguments.
func (p *Param) Display() string {
	if p.Kind == KindArgument {
		return p.Metavar
	}
	return "--" + p.Name
}

// Flag returns the registered pflag flag, or nil for arguments and
// bindings built without a command.
func (p *Param) Flag() *pflag.Flag {
	return p.flag
}

// Variadic reports whether the argument takes all remaining values.
func (p *Param) Variadic() bool {
	return p.Kind == KindArgument && p.Nargs < 0
}

func (p *Param) usage() string {
	parts := make([]string, 0, 3)
	if p.Help != "" {
		parts = append(parts, p.Help)
	}
	if p.Multiple {
		parts = append(parts, "(can be repeated)")
	}
	if p.Required {
		parts = append(parts, "(required)")
	}
	return strings.Join(parts, " ")
}

// usageToken renders the argument for a usage line.
func (p *Param) usageToken() string {
	token := p.Metavar
	if p.Nargs != 1 {
		token += "..."
	}
	if !p.Required {
		token = "[" + token + "]"
	}
	return token
}

// paramValue adapts a ParamType to pflag.Value. Converted values are kept
// so reconstruction never parses twice.
type paramValue struct {
	param   *Param
	raw     []string
	values  []any
	changed bool
}

func newParamValue(p *Param) *paramValue {
	v := &paramValue{param: p}
	if p.HasDefault && !p.keep {
		v.raw = splitDefault(p)
		v.values = append([]any(nil), p.defaults...)
	}
	return v
}

func (v *paramValue) String() string {
	if len(v.raw) == 0 {
		return ""
	}
	if v.param.Multiple {
		return "[" + strings.Join(v.raw, ",") + "]"
	}
	return v.raw[len(v.raw)-1]
}

func (v *paramValue) Set(s string) error {
	converted, err := v.param.Type.Convert(s)
	if err != nil {
		return err
	}

	if !v.changed {
		v.raw, v.values = nil, nil
	}
	v.changed = true

	if v.param.Multiple {
		v.raw = append(v.raw, s)
		v.values = append(v.values, converted)
		return nil
	}

	v.raw = []string{s}
	v.values = []any{converted}
	return nil
}

func (v *paramValue) Type() string {
	return v.param.Type.Name()
}

// splitDefault returns the raw default values of p. Repeatable parameters
// take a comma separated list.
func splitDefault(p *Param) []string {
	if !p.HasDefault || p.keep {
		return nil
	}
	if !p.Multiple {
		return []string{p.Default}
	}
	if strings.TrimSpace(p.Default) == "" {
		return nil
	}
	parts := strings.Split(p.Default, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
