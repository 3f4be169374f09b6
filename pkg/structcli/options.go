package structcli

import (
	"github.com/conneroisu/structcli/internal/logging"
	"github.com/spf13/viper"
)

// Logger is the structured logger structcli reports to.
type Logger = logging.Logger

// Option configures a binding.
type Option func(*options)

type options struct {
	name        string
	overrides   Inferences
	fieldTypes  map[string]ParamType
	prototype   any
	viper       *viper.Viper
	viperPrefix string
	persistent  bool
	prefix      string
	logger      Logger
}

func newOptions(opts []Option) *options {
	o := &options{
		logger: logging.NewNopLogger(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

// WithName injects the record into the invocation under name instead of
// passing it positionally.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithTypeInferences overrides the process-wide inference table for this
// binding only. A nil ParamType hides a global mapping.
func WithTypeInferences(inferences Inferences) Option {
	return func(o *options) {
		if o.overrides == nil {
			o.overrides = make(Inferences, len(inferences))
		}
		for typ, pt := range inferences {
			o.overrides[typ] = pt
		}
	}
}

// WithFieldType sets the parameter type of one field, named by its Go
// field path (e.g. "LogFile" or "Database.Host"). It takes precedence over
// tags and inference.
func WithFieldType(field string, pt ParamType) Option {
	return func(o *options) {
		if o.fieldTypes == nil {
			o.fieldTypes = make(map[string]ParamType)
		}
		o.fieldTypes[field] = pt
	}
}

// WithDefaults sets the prototype record that reconstruction starts from.
// prototype must be the bound struct type or a pointer to it.
func WithDefaults(prototype any) Option {
	return func(o *options) {
		o.prototype = prototype
	}
}

// WithViper makes every option of the binding readable from v (environment
// and config file) under keyPrefix.name when it is not given on the
// command line.
func WithViper(v *viper.Viper, keyPrefix string) Option {
	return func(o *options) {
		o.viper = v
		o.viperPrefix = keyPrefix
	}
}

// Persistent registers the options as persistent flags, inherited by
// subcommands.
func Persistent() Option {
	return func(o *options) {
		o.persistent = true
	}
}

// WithPrefix prefixes every parameter name of the binding.
func WithPrefix(prefix string) Option {
	return func(o *options) {
		o.prefix = prefix
	}
}

// WithLogger sets the logger used for debug output. Logging is off by
// default.
func WithLogger(logger Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}
