package structcli

import (
	"encoding"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ParamType converts the command-line form of a value into a Go value.
// Name is what help output shows as the value placeholder.
type ParamType interface {
	Name() string
	Convert(value string) (any, error)
}

// Path is a filesystem path. Fields of this type infer PathType.
type Path string

// String returns the path as a plain string.
func (p Path) String() string { return string(p) }

// Built-in parameter types.
var (
	String   ParamType = stringType{}
	Bool     ParamType = boolType{}
	Int      ParamType = intType{typ: reflect.TypeFor[int]()}
	Int64    ParamType = intType{typ: reflect.TypeFor[int64]()}
	Uint     ParamType = uintType{typ: reflect.TypeFor[uint]()}
	Float    ParamType = floatType{typ: reflect.TypeFor[float64]()}
	Duration ParamType = durationType{}
	UUID     ParamType = uuidType{}
)

type stringType struct{}

func (stringType) Name() string { return "string" }

func (stringType) Convert(value string) (any, error) { return value, nil }

type boolType struct{}

func (boolType) Name() string { return "bool" }

func (boolType) Convert(value string) (any, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "t", "yes", "y", "on":
		return true, nil
	case "0", "false", "f", "no", "n", "off":
		return false, nil
	default:
		return nil, fmt.Errorf("%q is not a valid boolean", value)
	}
}

// intType parses signed integers into typ, which may be any named type
// of a signed integer kind.
type intType struct {
	typ reflect.Type
}

func (t intType) Name() string { return t.typ.Kind().String() }

func (t intType) Convert(value string) (any, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(value), 10, t.typ.Bits())
	if err != nil {
		return nil, numberError(value, "integer", t.typ, err)
	}
	return reflect.ValueOf(n).Convert(t.typ).Interface(), nil
}

type uintType struct {
	typ reflect.Type
}

func (t uintType) Name() string { return t.typ.Kind().String() }

func (t uintType) Convert(value string) (any, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(value), 10, t.typ.Bits())
	if err != nil {
		return nil, numberError(value, "unsigned integer", t.typ, err)
	}
	return reflect.ValueOf(n).Convert(t.typ).Interface(), nil
}

type floatType struct {
	typ reflect.Type
}

func (t floatType) Name() string { return "float" }

func (t floatType) Convert(value string) (any, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), t.typ.Bits())
	if err != nil {
		return nil, numberError(value, "float", t.typ, err)
	}
	return reflect.ValueOf(f).Convert(t.typ).Interface(), nil
}

func numberError(value, what string, typ reflect.Type, err error) error {
	if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
		return fmt.Errorf("%q is out of range for %s", value, typ.Kind())
	}
	return fmt.Errorf("%q is not a valid %s", value, what)
}

type durationType struct{}

func (durationType) Name() string { return "duration" }

func (durationType) Convert(value string) (any, error) {
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return nil, fmt.Errorf("%q is not a valid duration", value)
	}
	return d, nil
}

type uuidType struct{}

func (uuidType) Name() string { return "uuid" }

func (uuidType) Convert(value string) (any, error) {
	id, err := uuid.Parse(strings.TrimSpace(value))
	if err != nil {
		return nil, fmt.Errorf("%q is not a valid UUID", value)
	}
	return id, nil
}

// DefaultDateTimeFormats are the layouts DateTime accepts when Formats is
// empty, tried in order.
var DefaultDateTimeFormats = []string{
	"2006-01-02",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// DateTime parses a time.Time using the first matching layout. Values
// without a zone are interpreted in Location (UTC when nil).
type DateTime struct {
	Formats  []string
	Location *time.Location
}

func (DateTime) Name() string { return "datetime" }

func (d DateTime) Convert(value string) (any, error) {
	formats := d.Formats
	if len(formats) == 0 {
		formats = DefaultDateTimeFormats
	}
	loc := d.Location
	if loc == nil {
		loc = time.UTC
	}

	value = strings.TrimSpace(value)
	for _, layout := range formats {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return nil, fmt.Errorf("%q does not match the formats %s", value, strings.Join(formats, ", "))
}

// PathType accepts a filesystem path and optionally checks it on disk.
// FileOnly and DirOnly only reject paths that exist with the wrong kind.
type PathType struct {
	MustExist bool
	FileOnly  bool
	DirOnly   bool
}

func (p PathType) Name() string {
	switch {
	case p.FileOnly:
		return "file"
	case p.DirOnly:
		return "directory"
	default:
		return "path"
	}
}

func (p PathType) Convert(value string) (any, error) {
	if value == "" {
		return nil, fmt.Errorf("path must not be empty")
	}

	info, err := os.Stat(value)
	switch {
	case err != nil && os.IsNotExist(err):
		if p.MustExist {
			return nil, fmt.Errorf("path %q does not exist", value)
		}
	case err != nil:
		return nil, fmt.Errorf("cannot access path %q: %w", value, err)
	case p.FileOnly && info.IsDir():
		return nil, fmt.Errorf("path %q is a directory", value)
	case p.DirOnly && !info.IsDir():
		return nil, fmt.Errorf("path %q is a file", value)
	}

	return Path(value), nil
}

// Choice accepts one of a fixed set of strings and returns the canonical
// spelling from Choices.
type Choice struct {
	Choices    []string
	IgnoreCase bool
}

func (c Choice) Name() string { return strings.Join(c.Choices, "|") }

func (c Choice) Convert(value string) (any, error) {
	for _, choice := range c.Choices {
		if value == choice || (c.IgnoreCase && strings.EqualFold(value, choice)) {
			return choice, nil
		}
	}
	return nil, fmt.Errorf("%q is not one of %s", value, strings.Join(c.Choices, ", "))
}

// IntRange accepts integers between Min and Max inclusive.
type IntRange struct {
	Min, Max int64
}

func (IntRange) Name() string { return "int" }

func (r IntRange) Convert(value string) (any, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%q is not a valid integer", value)
	}
	if n < r.Min || n > r.Max {
		return nil, fmt.Errorf("%d is not in the range %d to %d", n, r.Min, r.Max)
	}
	return n, nil
}

var textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()

// TextType parses values through the encoding.TextUnmarshaler implemented
// by a pointer to its type.
type TextType struct {
	typ reflect.Type
}

// NewTextType returns a TextType for t, or false when *t does not
// implement encoding.TextUnmarshaler.
func NewTextType(t reflect.Type) (TextType, bool) {
	if t == nil || !reflect.PointerTo(t).Implements(textUnmarshalerType) {
		return TextType{}, false
	}
	return TextType{typ: t}, true
}

func (t TextType) Name() string {
	if name := t.typ.Name(); name != "" {
		return strings.ToLower(name)
	}
	return "value"
}

func (t TextType) Convert(value string) (any, error) {
	ptr := reflect.New(t.typ)
	if err := ptr.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(value)); err != nil {
		return nil, fmt.Errorf("%q is not a valid %s: %w", value, t.Name(), err)
	}
	return ptr.Elem().Interface(), nil
}

// kindType falls back to the underlying kind of t for named basic types
// such as `type Level string`.
func kindType(t reflect.Type) (ParamType, bool) {
	switch t.Kind() {
	case reflect.String:
		return stringType{}, true
	case reflect.Bool:
		return boolType{}, true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return intType{typ: t}, true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return uintType{typ: t}, true
	case reflect.Float32, reflect.Float64:
		return floatType{typ: t}, true
	default:
		return nil, false
	}
}
