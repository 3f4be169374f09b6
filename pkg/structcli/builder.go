package structcli

import (
	"context"
	"fmt"
	"reflect"

	clierrors "github.com/conneroisu/structcli/internal/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Binding attaches struct type T to a cobra command.
type Binding[T any] struct {
	core *binding
}

// binding is the type-erased state shared by every Binding[T].
type binding struct {
	name   string
	record reflect.Type
	params []*Param
	proto  reflect.Value
	cmd    *cobra.Command
	opts   *options
	log    Logger
}

// Bind introspects T, resolves its parameters and registers the options
// with cmd. Arguments are wired by Run. A nil cmd only resolves the
// parameters, which is what Describe uses.
func Bind[T any](cmd *cobra.Command, opts ...Option) (*Binding[T], error) {
	record := reflect.TypeFor[T]()
	if record.Kind() != reflect.Struct {
		return nil, clierrors.NewDeclarationError(clierrors.ErrCodeNotStruct,
			fmt.Sprintf("%v is not a struct type", record))
	}

	o := newOptions(opts)
	b := &binding{
		name:   o.name,
		record: record,
		opts:   o,
		log:    o.logger.WithComponent("structcli").With("record", record.Name()),
	}

	if err := b.setPrototype(o.prototype); err != nil {
		return nil, err
	}

	fields, err := Fields(record)
	if err != nil {
		return nil, err
	}

	r := resolver{overrides: o.overrides, fieldTypes: o.fieldTypes}
	for _, f := range fields {
		p, err := b.buildParam(r, f)
		if err != nil {
			return nil, err
		}
		b.params = append(b.params, p)
	}

	if err := b.checkNames(); err != nil {
		return nil, err
	}

	if cmd != nil {
		if err := b.register(cmd); err != nil {
			return nil, err
		}
	}

	return &Binding[T]{core: b}, nil
}

// MustBind is Bind for package-level command definitions; it panics on
// declaration errors.
func MustBind[T any](cmd *cobra.Command, opts ...Option) *Binding[T] {
	b, err := Bind[T](cmd, opts...)
	if err != nil {
		panic(err)
	}
	return b
}

// Name returns the name the record is injected under, or "" when it is
// passed positionally.
func (b *Binding[T]) Name() string { return b.core.name }

// Params returns the resolved parameters in declaration order.
func (b *Binding[T]) Params() []*Param { return b.core.params }

// Describe returns a serializable description of every parameter.
func (b *Binding[T]) Describe() []ParamInfo { return b.core.describe() }

// Reset forgets the values parsed by a previous execution so the command
// can be executed again, as tests do.
func (b *Binding[T]) Reset() {
	for _, p := range b.core.params {
		if p.value == nil {
			continue
		}
		*p.value = *newParamValue(p)
		p.flag.Changed = false
	}
}

func (b *Binding[T]) state() *binding { return b.core }

func (b *binding) setPrototype(prototype any) error {
	if prototype == nil {
		return nil
	}

	v := reflect.ValueOf(prototype)
	if v.Kind() == reflect.Pointer && v.Type().Elem() == b.record {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	if v.Type() != b.record {
		return clierrors.NewDeclarationError(clierrors.ErrCodeInvalidDefault,
			fmt.Sprintf("prototype must be %s or *%s, got %s", b.record, b.record, v.Type()))
	}

	b.proto = cloneValue(v)
	return nil
}

// buildParam turns one introspected field into a fully specified Param.
func (b *binding) buildParam(r resolver, f Field) (*Param, error) {
	decl := f.Decl
	hint, optional, multiple := r.hint(f.Type)

	p := &Param{
		Kind:     decl.Kind,
		Field:    f.Name,
		Short:    decl.Short,
		Help:     decl.Help,
		Env:      decl.Env,
		Hidden:   decl.Hidden,
		Multiple: multiple,
		Nargs:    1,
		index:    f.Index,
		elemType: hint,
	}

	name := decl.Name
	if name == "" {
		name = optionName(goName(f.Name))
	}

	switch decl.Kind {
	case KindOption:
		p.Name = joinName(name, b.opts.prefix, f.Prefix)
		p.Optional = optional || multiple
	case KindArgument:
		p.Name = name
		p.Metavar = metavar(name)
		if err := b.argumentArity(p, f, decl.Nargs); err != nil {
			return nil, err
		}
		p.Optional = optional || p.Nargs < 0
	}

	pt, err := r.paramType(b.record, f, hint)
	if err != nil {
		return nil, err
	}
	p.Type = pt

	if decl.HasDefault {
		p.HasDefault = true
		p.Default = decl.Default
		if decl.Default == DontPass {
			p.keep = true
		} else if err := b.convertDefault(p, f); err != nil {
			return nil, err
		}
	}

	// Boolean options are switches: absent means off.
	if p.Kind == KindOption && !p.Multiple && hint.Kind() == reflect.Bool && !p.HasDefault {
		p.HasDefault = true
		p.keep = true
	}

	p.Required = InferRequired(p.Optional, decl.Required, p.HasDefault)

	b.log.Debug(context.Background(), "resolved parameter",
		"field", f.Name,
		"param", p.Display(),
		"type", p.Type.Name(),
		"required", p.Required)

	return p, nil
}

func (b *binding) argumentArity(p *Param, f Field, nargs int) error {
	switch {
	case p.Multiple && nargs == 0:
		p.Nargs = -1
	case p.Multiple && nargs == 1:
		return clierrors.NewDeclarationError(clierrors.ErrCodeInvalidTag,
			"nargs 1 requires a non-slice field").WithField(b.record.Name(), f.Name)
	case p.Multiple:
		p.Nargs = nargs
	case nargs != 0 && nargs != 1:
		return clierrors.NewDeclarationError(clierrors.ErrCodeInvalidTag,
			fmt.Sprintf("nargs %d requires a slice field", nargs)).WithField(b.record.Name(), f.Name)
	}
	return nil
}

// convertDefault parses the declared default and checks it fits the field.
func (b *binding) convertDefault(p *Param, f Field) error {
	raw := splitDefault(p)
	p.defaults = make([]any, 0, len(raw))
	for _, s := range raw {
		v, err := p.Type.Convert(s)
		if err == nil {
			err = checkAssignable(p.elemType, v)
		}
		if err != nil {
			return clierrors.Wrap(err, clierrors.ErrorTypeDeclaration, clierrors.ErrCodeInvalidDefault,
				fmt.Sprintf("invalid default %q", p.Default)).
				WithField(b.record.Name(), f.Name).
				WithParam(p.Display())
		}
		p.defaults = append(p.defaults, v)
	}

	if p.Kind == KindArgument && p.Nargs > 1 && len(p.defaults) != 0 && len(p.defaults) != p.Nargs {
		return clierrors.NewDeclarationError(clierrors.ErrCodeInvalidDefault,
			fmt.Sprintf("default must list %d values", p.Nargs)).
			WithField(b.record.Name(), f.Name)
	}
	return nil
}

// checkNames rejects options of one record that collide with each other.
func (b *binding) checkNames() error {
	seen := make(map[string]string)
	for _, p := range b.params {
		if p.Kind != KindOption {
			continue
		}
		for _, key := range []string{"--" + p.Name, "-" + p.Short} {
			if key == "-" {
				continue
			}
			if other, ok := seen[key]; ok {
				return clierrors.NewRegistrationError(clierrors.ErrCodeDuplicateParam,
					fmt.Sprintf("%s is also declared by %s", key, other), nil).
					WithField(b.record.Name(), p.Field).
					WithParam(key)
			}
			seen[key] = p.Field
		}
	}
	return nil
}

// register adds every option to cmd's flag set.
func (b *binding) register(cmd *cobra.Command) error {
	b.cmd = cmd
	fs := cmd.Flags()
	if b.opts.persistent {
		fs = cmd.PersistentFlags()
	}

	for _, p := range b.params {
		if p.Kind != KindOption {
			continue
		}
		if err := b.checkFree(cmd, p); err != nil {
			return err
		}

		p.value = newParamValue(p)
		p.flag = fs.VarPF(p.value, p.Name, p.Short, p.usage())
		p.flag.Hidden = p.Hidden
		if !p.Multiple && p.elemType.Kind() == reflect.Bool {
			p.flag.NoOptDefVal = "true"
		}

		if err := b.bindSource(cmd, p); err != nil {
			return err
		}

		b.log.Debug(context.Background(), "registered option",
			"command", cmd.Name(),
			"flag", p.Name,
			"persistent", b.opts.persistent)
	}

	return nil
}

// checkFree reports a name or shorthand already defined on cmd or inherited
// from its parents.
func (b *binding) checkFree(cmd *cobra.Command, p *Param) error {
	sets := []*pflag.FlagSet{cmd.Flags()}
	for c := cmd; c != nil; c = c.Parent() {
		sets = append(sets, c.PersistentFlags())
	}

	for _, fs := range sets {
		taken := ""
		switch {
		case fs.Lookup(p.Name) != nil:
			taken = "--" + p.Name
		case p.Short != "" && fs.ShorthandLookup(p.Short) != nil:
			taken = "-" + p.Short
		}
		if taken != "" {
			return clierrors.NewRegistrationError(clierrors.ErrCodeDuplicateParam,
				fmt.Sprintf("%s is already defined on command %q", taken, cmd.Name()), nil).
				WithField(b.record.Name(), p.Field).
				WithParam(taken)
		}
	}
	return nil
}

// bindSource marks the option required with cobra, or binds it into viper
// so environment and config values can satisfy it.
func (b *binding) bindSource(cmd *cobra.Command, p *Param) error {
	v := b.opts.viper
	if v == nil {
		if !p.Required {
			return nil
		}
		var err error
		if b.opts.persistent {
			err = cmd.MarkPersistentFlagRequired(p.Name)
		} else {
			err = cmd.MarkFlagRequired(p.Name)
		}
		if err != nil {
			return clierrors.NewRegistrationError(clierrors.ErrCodeInternalError,
				"failed to mark flag required", err).WithParam(p.Display())
		}
		return nil
	}

	p.viperKey = p.Name
	if b.opts.viperPrefix != "" {
		p.viperKey = b.opts.viperPrefix + "." + p.Name
	}

	if err := v.BindPFlag(p.viperKey, p.flag); err != nil {
		return clierrors.NewRegistrationError(clierrors.ErrCodeInternalError,
			"failed to bind flag to viper", err).WithParam(p.Display())
	}
	if p.Env != "" {
		if err := v.BindEnv(p.viperKey, p.Env); err != nil {
			return clierrors.NewRegistrationError(clierrors.ErrCodeInternalError,
				"failed to bind environment variable", err).WithParam(p.Display())
		}
	}
	return nil
}

// Describe resolves the parameters of T without a command.
func Describe[T any](opts ...Option) ([]ParamInfo, error) {
	b, err := Bind[T](nil, opts...)
	if err != nil {
		return nil, err
	}
	return b.Describe(), nil
}
