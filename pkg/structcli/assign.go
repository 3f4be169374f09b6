package structcli

import (
	"fmt"
	"reflect"
)

// assignField stores converted values into the field of rec described by p,
// allocating optional pointers and building slices as needed.
func assignField(rec reflect.Value, p *Param, values []any) error {
	target := rec.FieldByIndex(p.index)

	if target.Kind() == reflect.Pointer && p.Optional {
		ptr := reflect.New(target.Type().Elem())
		if err := assignTarget(ptr.Elem(), p, values); err != nil {
			return err
		}
		target.Set(ptr)
		return nil
	}

	return assignTarget(target, p, values)
}

func assignTarget(target reflect.Value, p *Param, values []any) error {
	if !p.Multiple {
		if len(values) == 0 {
			return nil
		}
		return assignValue(target, values[len(values)-1])
	}

	slice := reflect.MakeSlice(target.Type(), 0, len(values))
	for _, v := range values {
		elem := reflect.New(target.Type().Elem()).Elem()
		if err := assignValue(elem, v); err != nil {
			return err
		}
		slice = reflect.Append(slice, elem)
	}
	target.Set(slice)
	return nil
}

// assignValue sets dst from a converted value. Numeric values are converted
// across widths with an overflow check; other values must be assignable or
// share dst's kind.
func assignValue(dst reflect.Value, v any) error {
	src := reflect.ValueOf(v)
	if !src.IsValid() {
		return fmt.Errorf("cannot assign nil to %s", dst.Type())
	}

	if src.Type().AssignableTo(dst.Type()) {
		dst.Set(src)
		return nil
	}

	switch dst.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		switch {
		case src.CanInt():
			n := src.Int()
			if dst.OverflowInt(n) {
				return fmt.Errorf("value %d overflows %s", n, dst.Type())
			}
			dst.SetInt(n)
			return nil
		case src.CanUint():
			u := src.Uint()
			if u > 1<<63-1 || dst.OverflowInt(int64(u)) {
				return fmt.Errorf("value %d overflows %s", u, dst.Type())
			}
			dst.SetInt(int64(u))
			return nil
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		switch {
		case src.CanUint():
			u := src.Uint()
			if dst.OverflowUint(u) {
				return fmt.Errorf("value %d overflows %s", u, dst.Type())
			}
			dst.SetUint(u)
			return nil
		case src.CanInt():
			n := src.Int()
			if n < 0 || dst.OverflowUint(uint64(n)) {
				return fmt.Errorf("value %d overflows %s", n, dst.Type())
			}
			dst.SetUint(uint64(n))
			return nil
		}
	case reflect.Float32, reflect.Float64:
		switch {
		case src.CanFloat():
			f := src.Float()
			if dst.OverflowFloat(f) {
				return fmt.Errorf("value %g overflows %s", f, dst.Type())
			}
			dst.SetFloat(f)
			return nil
		case src.CanInt():
			dst.SetFloat(float64(src.Int()))
			return nil
		}
	}

	if src.Kind() == dst.Kind() && src.Type().ConvertibleTo(dst.Type()) {
		dst.Set(src.Convert(dst.Type()))
		return nil
	}

	return fmt.Errorf("cannot assign %s to %s", src.Type(), dst.Type())
}

// checkAssignable reports whether v could be stored in a value of type t.
func checkAssignable(t reflect.Type, v any) error {
	return assignValue(reflect.New(t).Elem(), v)
}

// cloneValue returns a deep copy of v that shares no pointers, slices or
// maps with it. Unexported struct fields are copied shallowly.
func cloneValue(v reflect.Value) reflect.Value {
	c := cloner{seen: make(map[cloneKey]reflect.Value)}
	return c.clone(v)
}

type cloneKey struct {
	ptr uintptr
	typ reflect.Type
}

type cloner struct {
	seen map[cloneKey]reflect.Value
}

func (c cloner) clone(v reflect.Value) reflect.Value {
	out := reflect.New(v.Type()).Elem()

	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			return out
		}
		key := cloneKey{v.Pointer(), v.Type()}
		if p, ok := c.seen[key]; ok {
			return p
		}
		p := reflect.New(v.Type().Elem())
		c.seen[key] = p
		p.Elem().Set(c.clone(v.Elem()))
		return p
	case reflect.Slice:
		if v.IsNil() {
			return out
		}
		s := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		for i := 0; i < v.Len(); i++ {
			s.Index(i).Set(c.clone(v.Index(i)))
		}
		return s
	case reflect.Map:
		if v.IsNil() {
			return out
		}
		m := reflect.MakeMapWithSize(v.Type(), v.Len())
		iter := v.MapRange()
		for iter.Next() {
			m.SetMapIndex(c.clone(iter.Key()), c.clone(iter.Value()))
		}
		return m
	case reflect.Array:
		for i := 0; i < v.Len(); i++ {
			out.Index(i).Set(c.clone(v.Index(i)))
		}
	case reflect.Struct:
		out.Set(v)
		for i := 0; i < v.NumField(); i++ {
			if f := out.Field(i); f.CanSet() {
				f.Set(c.clone(v.Field(i)))
			}
		}
	case reflect.Interface:
		if !v.IsNil() {
			out.Set(c.clone(v.Elem()))
		}
	default:
		out.Set(v)
	}

	return out
}
