package structcli

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	clierrors "github.com/conneroisu/structcli/internal/errors"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Binder is implemented by every *Binding[T].
type Binder interface {
	Name() string
	Params() []*Param
	Describe() []ParamInfo
	state() *binding
}

// HandlerFunc receives the reconstructed records of an invocation.
type HandlerFunc func(cmd *cobra.Command, inv *Invocation) error

// Invocation holds the records reconstructed for one command execution.
type Invocation struct {
	// Args are the positional arguments no binding consumed.
	Args []string

	named      map[string]any
	positional []any
	values     map[*binding]any
	flags      map[string]string
}

// Record returns the record injected under name.
func (inv *Invocation) Record(name string) (any, bool) {
	v, ok := inv.named[name]
	return v, ok
}

// Positional returns the unnamed records in binding order.
func (inv *Invocation) Positional() []any {
	return inv.positional
}

// Flags returns the flags of the command that no binding owns, keyed by
// name.
func (inv *Invocation) Flags() map[string]string {
	return inv.flags
}

// Get returns the record injected under name as a T.
func Get[T any](inv *Invocation, name string) (T, error) {
	var zero T
	v, ok := inv.named[name]
	if !ok {
		return zero, clierrors.NewInternalError(clierrors.ErrCodeInternalError,
			fmt.Sprintf("no record named %q", name), nil).
			WithSuggestions(clierrors.Suggest(name, inv.names())...)
	}
	rec, ok := v.(T)
	if !ok {
		return zero, clierrors.NewInternalError(clierrors.ErrCodeInternalError,
			fmt.Sprintf("record %q is %T, not %s", name, v, reflect.TypeFor[T]()), nil)
	}
	return rec, nil
}

// Lookup returns the first record of type T, positional records first.
func Lookup[T any](inv *Invocation) (T, bool) {
	for _, v := range inv.positional {
		if rec, ok := v.(T); ok {
			return rec, true
		}
	}
	for _, v := range inv.named {
		if rec, ok := v.(T); ok {
			return rec, true
		}
	}
	var zero T
	return zero, false
}

func (inv *Invocation) names() []string {
	names := make([]string, 0, len(inv.named))
	for name := range inv.named {
		names = append(names, name)
	}
	return names
}

// From returns the record b reconstructed in inv, or the zero value when b
// took no part in it.
func (b *Binding[T]) From(inv *Invocation) T {
	if v, ok := inv.values[b.core].(T); ok {
		return v
	}
	var zero T
	return zero
}

// Build reconstructs T from the parsed flags of cmd and args. It returns
// the arguments no parameter consumed.
func (b *Binding[T]) Build(cmd *cobra.Command, args []string) (T, []string, error) {
	inv, err := Invoke(cmd, args, b)
	if err != nil {
		var zero T
		return zero, nil, err
	}
	return b.From(inv), inv.Args, nil
}

// Command binds T to cmd and makes fn its handler.
func Command[T any](cmd *cobra.Command, fn func(cmd *cobra.Command, rec T, args []string) error, opts ...Option) (*Binding[T], error) {
	b, err := Bind[T](cmd, opts...)
	if err != nil {
		return nil, err
	}

	err = Run(cmd, func(cmd *cobra.Command, inv *Invocation) error {
		return fn(cmd, b.From(inv), inv.Args)
	}, b)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Run installs fn as the handler of cmd. It wires the positional arguments
// of every binder into cmd's argument validation and usage line; arguments
// left over are checked by the validator cmd already had, and rejected when
// it had none.
func Run(cmd *cobra.Command, fn HandlerFunc, binders ...Binder) error {
	if _, err := collect(binders); err != nil {
		return err
	}

	args := arguments(binders)
	prev := cmd.Args
	cmd.Args = func(c *cobra.Command, values []string) error {
		_, rest, err := distribute(args, values)
		if err != nil {
			return err
		}
		if prev != nil {
			return prev(c, rest)
		}
		if len(rest) > 0 {
			return clierrors.NewUsageError(clierrors.ErrCodeArgs,
				fmt.Sprintf("unexpected extra arguments %s", strings.Join(quote(rest), " ")))
		}
		return nil
	}

	if len(args) > 0 && !strings.Contains(strings.TrimSpace(cmd.Use), " ") {
		tokens := make([]string, 0, len(args))
		for _, p := range args {
			tokens = append(tokens, p.usageToken())
		}
		cmd.Use = strings.TrimSpace(cmd.Use) + " " + strings.Join(tokens, " ")
	}

	cmd.RunE = func(c *cobra.Command, values []string) error {
		inv, err := Invoke(c, values, binders...)
		if err != nil {
			return err
		}
		return fn(c, inv)
	}
	return nil
}

// Invoke reconstructs every binder's record from the parsed state of cmd
// and args.
func Invoke(cmd *cobra.Command, args []string, binders ...Binder) (*Invocation, error) {
	cores, err := collect(binders)
	if err != nil {
		return nil, err
	}

	assigned, rest, err := distribute(arguments(binders), args)
	if err != nil {
		return nil, err
	}

	inv := &Invocation{
		Args:   rest,
		named:  make(map[string]any),
		values: make(map[*binding]any, len(cores)),
		flags:  unownedFlags(cmd, cores),
	}

	ctx := commandContext(cmd)
	for _, b := range cores {
		rec, err := b.construct(ctx, assigned)
		if err != nil {
			return nil, err
		}

		v := rec.Interface()
		inv.values[b] = v
		if b.name != "" {
			inv.named[b.name] = v
		} else {
			inv.positional = append(inv.positional, v)
		}
	}

	return inv, nil
}

// collect unwraps binders and checks they can share one command.
func collect(binders []Binder) ([]*binding, error) {
	cores := make([]*binding, 0, len(binders))
	names := make(map[string]bool)
	variadic := ""

	for _, binder := range binders {
		b := binder.state()
		if b.name != "" {
			if names[b.name] {
				return nil, clierrors.NewRegistrationError(clierrors.ErrCodeDuplicateParam,
					fmt.Sprintf("two records are injected as %q", b.name), nil)
			}
			names[b.name] = true
		}

		for _, p := range b.params {
			if !p.Variadic() {
				continue
			}
			if variadic != "" {
				return nil, clierrors.NewRegistrationError(clierrors.ErrCodeArgs,
					fmt.Sprintf("only one variadic argument is allowed, found %s and %s", variadic, p.Metavar), nil).
					WithField(b.record.Name(), p.Field)
			}
			variadic = p.Metavar
		}

		cores = append(cores, b)
	}
	return cores, nil
}

func arguments(binders []Binder) []*Param {
	var args []*Param
	for _, binder := range binders {
		for _, p := range binder.state().params {
			if p.Kind == KindArgument {
				args = append(args, p)
			}
		}
	}
	return args
}

// distribute hands positional values to arguments left to right. Optional
// arguments only take values that later required arguments do not need, and
// a variadic argument takes everything else.
func distribute(params []*Param, values []string) (map[*Param][]string, []string, error) {
	need := make([]int, len(params)+1)
	for i := len(params) - 1; i >= 0; i-- {
		need[i] = need[i+1]
		if params[i].Required {
			need[i] += max(params[i].Nargs, 1)
		}
	}

	assigned := make(map[*Param][]string, len(params))
	pos := 0
	for i, p := range params {
		spare := len(values) - pos - need[i+1]
		n := 0
		switch {
		case p.Nargs < 0:
			n = max(spare, 0)
			if n == 0 && p.Required {
				return nil, nil, missingArgument(p)
			}
		case spare >= p.Nargs:
			n = p.Nargs
		case p.Required:
			return nil, nil, missingArgument(p)
		}
		if n > 0 {
			assigned[p] = values[pos : pos+n]
			pos += n
		}
	}

	return assigned, values[pos:], nil
}

func missingArgument(p *Param) error {
	return clierrors.NewUsageError(clierrors.ErrCodeMissingParameter,
		fmt.Sprintf("missing argument %s", p.Metavar)).WithParam(p.Metavar)
}

// construct builds the record starting from a copy of the prototype, so
// handlers may modify what they receive.
func (b *binding) construct(ctx context.Context, assigned map[*Param][]string) (reflect.Value, error) {
	rec := reflect.New(b.record).Elem()
	if b.proto.IsValid() {
		rec = cloneValue(b.proto)
	}

	for _, p := range b.params {
		values, source, err := b.resolve(p, assigned)
		if err != nil {
			return reflect.Value{}, err
		}

		if values == nil {
			if p.Required {
				return reflect.Value{}, clierrors.NewUsageError(clierrors.ErrCodeMissingParameter,
					fmt.Sprintf("missing %s %s", p.Kind, p.Display())).
					WithField(b.record.Name(), p.Field).
					WithParam(p.Display())
			}
			continue
		}

		if err := assignField(rec, p, values); err != nil {
			return reflect.Value{}, clierrors.WrapConversion(err, p.Display(),
				fmt.Sprintf("cannot store %s", p.Display()))
		}

		b.log.Debug(ctx, "reconstructed parameter",
			"field", p.Field,
			"param", p.Display(),
			"source", source)
	}

	return rec, nil
}

// resolve returns the converted values of p and where they came from: the
// command line, viper, or the declared default. nil means no value.
func (b *binding) resolve(p *Param, assigned map[*Param][]string) ([]any, string, error) {
	if p.Kind == KindArgument {
		if raw, ok := assigned[p]; ok {
			values, err := convertAll(p, raw)
			return values, "argument", err
		}
		return b.defaults(p)
	}

	if p.value != nil && p.value.changed {
		return p.value.values, "flag", nil
	}

	if v := b.opts.viper; v != nil && p.viperKey != "" && v.IsSet(p.viperKey) {
		raw := viperStrings(v.Get(p.viperKey), p.Multiple)
		if !p.Multiple && len(raw) > 1 {
			return nil, "", clierrors.NewConversionError(clierrors.ErrCodeConversion,
				fmt.Sprintf("%s takes a single value, configuration has %d", p.Display(), len(raw)), nil).
				WithParam(p.Display()).
				WithContext("key", p.viperKey)
		}

		values, err := convertAll(p, raw)
		if err != nil {
			return nil, "", clierrors.WrapWithContext(err, clierrors.ErrorTypeConversion, clierrors.ErrCodeConversion,
				"invalid configuration value", map[string]interface{}{"key": p.viperKey})
		}
		return values, "config", nil
	}

	return b.defaults(p)
}

func (b *binding) defaults(p *Param) ([]any, string, error) {
	if !p.HasDefault || p.keep || p.defaults == nil {
		return nil, "", nil
	}
	return p.defaults, "default", nil
}

func convertAll(p *Param, raw []string) ([]any, error) {
	values := make([]any, 0, len(raw))
	for _, s := range raw {
		v, err := p.Type.Convert(s)
		if err != nil {
			return nil, clierrors.WrapConversion(err, p.Display(),
				fmt.Sprintf("invalid value %q for %s", s, p.Display())).
				WithContext("value", s)
		}
		values = append(values, v)
	}
	return values, nil
}

// viperStrings flattens a viper value into command-line strings. Scalars
// of repeatable options are split on commas, as environment variables are.
func viperStrings(raw any, multiple bool) []string {
	switch v := raw.(type) {
	case nil:
		return nil
	case []string:
		return v
	case []any:
		return cast.ToStringSlice(v)
	}

	s := cast.ToString(raw)
	if !multiple {
		return []string{s}
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// unownedFlags collects the flags of cmd that none of bs registered.
func unownedFlags(cmd *cobra.Command, bs []*binding) map[string]string {
	flags := make(map[string]string)
	if cmd == nil {
		return flags
	}

	owned := make(map[*pflag.Flag]bool)
	for _, b := range bs {
		for _, p := range b.params {
			if p.flag != nil {
				owned[p.flag] = true
			}
		}
	}

	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if owned[f] || f.Name == "help" {
			return
		}
		flags[f.Name] = f.Value.String()
	})
	return flags
}

func commandContext(cmd *cobra.Command) context.Context {
	if cmd != nil && cmd.Context() != nil {
		return cmd.Context()
	}
	return context.Background()
}

func quote(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = fmt.Sprintf("%q", v)
	}
	return out
}
