package repository

import (
	"reflect"
	"strings"
)

// fieldByColumn returns the struct field whose `db` tag names column.
// v must be an addressable struct value for the result to be settable.
func fieldByColumn(v reflect.Value, column string) (reflect.Value, bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("db")
		name, _, _ := strings.Cut(tag, ",")
		if name == "" || name == "-" {
			continue
		}
		if name == column {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}

func idField[T any](entity *T) (int64, bool) {
	f, ok := fieldByColumn(reflect.ValueOf(entity).Elem(), IDColumn)
	if !ok || !f.CanInt() {
		return 0, false
	}
	return f.Int(), true
}

// assign sets the column of dst to value, converting between numeric kinds.
func assign(dst reflect.Value, column string, value any) bool {
	f, ok := fieldByColumn(dst, column)
	if !ok || !f.CanSet() {
		return false
	}

	v := reflect.ValueOf(value)
	switch {
	case !v.IsValid():
		f.Set(reflect.Zero(f.Type()))
	case v.Type() == f.Type():
		f.Set(v)
	case isInt(v.Kind()) && isInt(f.Kind()):
		f.SetInt(v.Int())
	default:
		return false
	}
	return true
}

// equalValues compares a stored field with a condition value.
// Integers of different widths compare by value.
func equalValues(field reflect.Value, value any) bool {
	v := reflect.ValueOf(value)
	if !v.IsValid() {
		return field.IsZero()
	}
	if isInt(field.Kind()) && isInt(v.Kind()) {
		return field.Int() == v.Int()
	}
	return reflect.DeepEqual(field.Interface(), value)
}

func isInt(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}
