package structcli

import (
	"fmt"
	"reflect"
	"sort"
	"sync"
	"time"

	clierrors "github.com/conneroisu/structcli/internal/errors"
	"github.com/google/uuid"
)

// Inferences maps Go types to the parameter type used when a field does
// not name one explicitly.
type Inferences map[reflect.Type]ParamType

// inferenceTable is the process-wide inference registry.
type inferenceTable struct {
	mu     sync.RWMutex
	byType Inferences
	byName map[string]ParamType
}

var defaultTable = newInferenceTable()

func newInferenceTable() *inferenceTable {
	t := &inferenceTable{
		byType: make(Inferences),
		byName: make(map[string]ParamType),
	}

	for _, typ := range []reflect.Type{
		reflect.TypeFor[string](),
		reflect.TypeFor[bool](),
		reflect.TypeFor[int](),
		reflect.TypeFor[int8](),
		reflect.TypeFor[int16](),
		reflect.TypeFor[int32](),
		reflect.TypeFor[int64](),
		reflect.TypeFor[uint](),
		reflect.TypeFor[uint8](),
		reflect.TypeFor[uint16](),
		reflect.TypeFor[uint32](),
		reflect.TypeFor[uint64](),
		reflect.TypeFor[float32](),
		reflect.TypeFor[float64](),
	} {
		pt, _ := kindType(typ)
		t.byType[typ] = pt
		t.byName[typ.Name()] = pt
	}

	t.byType[reflect.TypeFor[time.Duration]()] = Duration
	t.byType[reflect.TypeFor[time.Time]()] = DateTime{}
	t.byType[reflect.TypeFor[uuid.UUID]()] = UUID
	t.byType[reflect.TypeFor[Path]()] = PathType{}

	t.byName["float"] = Float
	t.byName["duration"] = Duration
	t.byName["datetime"] = DateTime{}
	t.byName["uuid"] = UUID
	t.byName["path"] = PathType{}
	t.byName["file"] = PathType{FileOnly: true}
	t.byName["dir"] = PathType{DirOnly: true}

	return t
}

func (t *inferenceTable) lookup(typ reflect.Type) (ParamType, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	pt, ok := t.byType[typ]
	return pt, ok
}

func (t *inferenceTable) register(typ reflect.Type, pt ParamType) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if pt == nil {
		delete(t.byType, typ)
		return
	}
	t.byType[typ] = pt
}

func (t *inferenceTable) snapshot() Inferences {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(Inferences, len(t.byType))
	for k, v := range t.byType {
		out[k] = v
	}
	return out
}

func (t *inferenceTable) named(name string) (ParamType, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	pt, ok := t.byName[name]
	return pt, ok
}

func (t *inferenceTable) registerName(name string, pt ParamType) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if pt == nil {
		delete(t.byName, name)
		return
	}
	t.byName[name] = pt
}

func (t *inferenceTable) names() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	names := make([]string, 0, len(t.byName))
	for name := range t.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RegisterTypeInference maps typ to pt for every binding created afterwards.
// A nil pt removes the mapping.
func RegisterTypeInference(typ reflect.Type, pt ParamType) {
	defaultTable.register(typ, pt)
}

// RegisterType is RegisterTypeInference for a type parameter.
func RegisterType[T any](pt ParamType) {
	RegisterTypeInference(reflect.TypeFor[T](), pt)
}

// LookupTypeInference returns the process-wide mapping for typ.
func LookupTypeInference(typ reflect.Type) (ParamType, bool) {
	return defaultTable.lookup(typ)
}

// TypeInferences returns a copy of the process-wide inference table.
func TypeInferences() Inferences {
	return defaultTable.snapshot()
}

// RegisterParamType makes pt available to the type:"name" tag. A nil pt
// removes the name.
func RegisterParamType(name string, pt ParamType) {
	defaultTable.registerName(name, pt)
}

// ParamTypeByName returns the parameter type registered under name.
func ParamTypeByName(name string) (ParamType, bool) {
	return defaultTable.named(name)
}

// ParamTypeNames lists the names usable in type:"..." tags.
func ParamTypeNames() []string {
	return defaultTable.names()
}

// resolver resolves parameter types for one binding.
type resolver struct {
	overrides  Inferences
	fieldTypes map[string]ParamType
}

func (r resolver) lookup(typ reflect.Type) (ParamType, bool) {
	if pt, ok := r.overrides[typ]; ok {
		return pt, pt != nil
	}
	return defaultTable.lookup(typ)
}

// scalar reports whether typ is resolved as a single value even if it is
// a slice, e.g. net.IP.
func (r resolver) scalar(typ reflect.Type) bool {
	if _, ok := r.lookup(typ); ok {
		return true
	}
	_, ok := NewTextType(typ)
	return ok
}

// hint unwraps a field type into the type that drives inference.
// Pointers make the parameter optional, slices make it repeatable.
func (r resolver) hint(typ reflect.Type) (hint reflect.Type, optional, multiple bool) {
	hint = typ
	if hint.Kind() == reflect.Pointer {
		optional = true
		hint = hint.Elem()
	}
	if hint.Kind() == reflect.Slice && !r.scalar(hint) {
		multiple = true
		hint = hint.Elem()
	}
	return hint, optional, multiple
}

// paramType picks the parameter type for a field: explicit overrides first,
// then the inference table, then TextUnmarshaler, then the basic kind.
func (r resolver) paramType(record reflect.Type, f Field, hint reflect.Type) (ParamType, error) {
	if pt, ok := r.fieldTypes[f.Name]; ok && pt != nil {
		return pt, nil
	}

	if name := f.Decl.TypeName; name != "" {
		if pt, ok := ParamTypeByName(name); ok {
			return pt, nil
		}
		return nil, clierrors.NewDeclarationError(clierrors.ErrCodeUnknownType,
			fmt.Sprintf("unknown parameter type %q", name)).
			WithField(record.Name(), f.Name).
			WithSuggestions(clierrors.Suggest(name, ParamTypeNames())...)
	}

	if len(f.Decl.Choices) > 0 {
		if hint.Kind() != reflect.String {
			return nil, clierrors.NewDeclarationError(clierrors.ErrCodeInvalidTag,
				"choices tag requires a string field").WithField(record.Name(), f.Name)
		}
		return Choice{Choices: f.Decl.Choices}, nil
	}

	if pt, ok := r.lookup(hint); ok {
		return pt, nil
	}

	if pt, ok := NewTextType(hint); ok {
		return pt, nil
	}

	if pt, ok := kindType(hint); ok {
		return pt, nil
	}

	return nil, clierrors.NewInferenceError(clierrors.ErrCodeTypeInference,
		fmt.Sprintf("could not infer parameter type for %s; set an explicit type", hint)).
		WithField(record.Name(), f.Name)
}
