package structcli

import (
	"fmt"
	"reflect"
	"sync"

	clierrors "github.com/conneroisu/structcli/internal/errors"
)

// Field is one parameter declaration found on a struct type.
type Field struct {
	// Name is the dotted Go path of the field, e.g. "Database.Host".
	Name string
	// Index is the reflect index path from the record to the field.
	Index []int
	// Type is the declared Go type of the field (the type hint).
	Type reflect.Type
	// Decl is the declaration read from the field's tags.
	Decl Decl
	// Prefix is the option name prefix collected from enclosing prefix tags.
	Prefix string
}

var fieldCache sync.Map // reflect.Type -> []Field

// Fields returns the parameter declarations of struct type t in declaration
// order, with embedded structs flattened in place. Results are cached per
// type; the returned slice is a copy.
func Fields(t reflect.Type) ([]Field, error) {
	if t == nil || t.Kind() != reflect.Struct {
		return nil, clierrors.NewDeclarationError(clierrors.ErrCodeNotStruct,
			fmt.Sprintf("%v is not a struct type", t))
	}

	if cached, ok := fieldCache.Load(t); ok {
		return copyFields(cached.([]Field)), nil
	}

	var fields []Field
	onPath := map[reflect.Type]bool{t: true}
	if err := walkFields(t, t, nil, "", "", onPath, &fields); err != nil {
		return nil, err
	}

	actual, _ := fieldCache.LoadOrStore(t, fields)
	return copyFields(actual.([]Field)), nil
}

// FieldsOf is Fields for a type parameter.
func FieldsOf[T any]() ([]Field, error) {
	return Fields(reflect.TypeFor[T]())
}

// walkFields appends the declarations of t to out. onPath holds the struct
// types being walked, so pointer embedding cycles are caught.
func walkFields(record, t reflect.Type, index []int, path, prefix string, onPath map[reflect.Type]bool, out *[]Field) error {
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		fieldIndex := append(append([]int(nil), index...), i)
		fieldPath := sf.Name
		if path != "" {
			fieldPath = path + "." + sf.Name
		}

		decl, ok, err := parseDecl(sf.Tag)
		if err != nil {
			return clierrors.NewDeclarationError(clierrors.ErrCodeInvalidTag, err.Error()).
				WithField(record.Name(), fieldPath)
		}

		if ok {
			if !sf.IsExported() {
				return clierrors.NewDeclarationError(clierrors.ErrCodeInvalidTag,
					"parameter fields must be exported").WithField(record.Name(), fieldPath)
			}
			*out = append(*out, Field{
				Name:   fieldPath,
				Index:  fieldIndex,
				Type:   sf.Type,
				Decl:   decl,
				Prefix: prefix,
			})
			continue
		}

		nestedPrefix, hasPrefix := sf.Tag.Lookup(tagPrefix)
		if hasPrefix {
			nestedPrefix = joinPrefix(prefix, nestedPrefix)
		} else {
			nestedPrefix = prefix
		}

		switch {
		case sf.Anonymous && sf.Type.Kind() == reflect.Struct:
			if err := walkFields(record, sf.Type, fieldIndex, fieldPath, nestedPrefix, onPath, out); err != nil {
				return err
			}
		case sf.Anonymous && sf.Type.Kind() == reflect.Pointer && sf.Type.Elem().Kind() == reflect.Struct:
			elem := sf.Type.Elem()
			if onPath[elem] {
				return clierrors.NewDeclarationError(clierrors.ErrCodeInvalidTag,
					fmt.Sprintf("%s embeds itself through *%s", record.Name(), elem.Name())).
					WithField(record.Name(), fieldPath)
			}

			var nested []Field
			onPath[elem] = true
			err := walkFields(record, elem, fieldIndex, fieldPath, nestedPrefix, onPath, &nested)
			delete(onPath, elem)
			if err != nil {
				return err
			}
			if len(nested) > 0 {
				return clierrors.NewDeclarationError(clierrors.ErrCodeInvalidTag,
					"embedded struct pointers cannot declare parameters; embed the struct by value").
					WithField(record.Name(), fieldPath)
			}
		case hasPrefix:
			if sf.Type.Kind() != reflect.Struct {
				return clierrors.NewDeclarationError(clierrors.ErrCodeInvalidTag,
					"prefix tag requires a struct field").WithField(record.Name(), fieldPath)
			}
			if !sf.IsExported() {
				return clierrors.NewDeclarationError(clierrors.ErrCodeInvalidTag,
					"parameter fields must be exported").WithField(record.Name(), fieldPath)
			}
			if err := walkFields(record, sf.Type, fieldIndex, fieldPath, nestedPrefix, onPath, out); err != nil {
				return err
			}
		}
	}

	return nil
}

func joinPrefix(outer, inner string) string {
	switch {
	case outer == "":
		return inner
	case inner == "":
		return outer
	default:
		return outer + "-" + inner
	}
}

func copyFields(fields []Field) []Field {
	out := make([]Field, len(fields))
	copy(out, fields)
	return out
}
