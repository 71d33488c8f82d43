package value

import "reflect"

// Equals is the structural deep-equality predicate required by
// DedupObservable: two mappings are equal when they
// share the same key set and equal values recursively, two sequences
// are equal when they have equal length and pairwise equal elements,
// primitives compare with strict equality, and functions compare by
// identity (reflect.Value.Pointer).
//
// This is the package's "auxiliary: equals" collaborator named in
// given a real implementation here because (unlike Config
// and the schema validator) nothing outside this module could supply
// it.
func Equals(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return equalsValue(reflect.ValueOf(a), reflect.ValueOf(b))
}

func equalsValue(a, b reflect.Value) bool {
	if a.Kind() == reflect.Interface {
		a = a.Elem()
	}
	if b.Kind() == reflect.Interface {
		b = b.Elem()
	}
	if !a.IsValid() || !b.IsValid() {
		return a.IsValid() == b.IsValid()
	}
	if a.Kind() != b.Kind() {
		return false
	}

	switch a.Kind() {
	case reflect.Func:
		if a.IsNil() || b.IsNil() {
			return a.IsNil() && b.IsNil()
		}
		return a.Pointer() == b.Pointer()
	case reflect.Ptr:
		if a.IsNil() || b.IsNil() {
			return a.IsNil() && b.IsNil()
		}
		return equalsValue(a.Elem(), b.Elem())
	case reflect.Map:
		if a.IsNil() != b.IsNil() {
			return false
		}
		if a.Len() != b.Len() {
			return false
		}
		iter := a.MapRange()
		for iter.Next() {
			bv := b.MapIndex(iter.Key())
			if !bv.IsValid() {
				return false
			}
			if !equalsValue(iter.Value(), bv) {
				return false
			}
		}
		return true
	case reflect.Slice:
		if a.IsNil() != b.IsNil() {
			return false
		}
		fallthrough
	case reflect.Array:
		if a.Len() != b.Len() {
			return false
		}
		for i := 0; i < a.Len(); i++ {
			if !equalsValue(a.Index(i), b.Index(i)) {
				return false
			}
		}
		return true
	case reflect.Struct:
		if a.NumField() != b.NumField() {
			return false
		}
		for i := 0; i < a.NumField(); i++ {
			if !equalsValue(a.Field(i), b.Field(i)) {
				return false
			}
		}
		return true
	default:
		if !a.Type().Comparable() {
			return reflect.DeepEqual(a.Interface(), b.Interface())
		}
		return a.Interface() == b.Interface()
	}
}
