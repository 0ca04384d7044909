/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package crudstore

import (
	"reflect"

	"github.com/suparena/crudstore/resourcemodels"
)

// blankCopy returns a copy of def that shares no slices or maps with it.
// Slice fields come back empty and non-nil.
func blankCopy[T any](def T) T {
	if r, ok := any(def).(resourcemodels.Record); ok {
		if r == nil {
			return def
		}
		return any(blankRecord(r)).(T)
	}

	out := def
	blankValue(reflect.ValueOf(&out).Elem())
	return out
}

func blankRecord(r map[string]any) resourcemodels.Record {
	out := make(resourcemodels.Record, len(r))
	for k, v := range r {
		out[k] = blankAny(v)
	}
	return out
}

func blankAny(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case resourcemodels.Record:
		return blankRecord(x)
	case map[string]any:
		return map[string]any(blankRecord(x))
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice:
		return reflect.MakeSlice(rv.Type(), 0, 0).Interface()
	case reflect.Array:
		return reflect.Zero(rv.Type()).Interface()
	}
	return v
}

func blankValue(v reflect.Value) {
	switch v.Kind() {
	case reflect.Slice:
		if v.CanSet() {
			v.Set(reflect.MakeSlice(v.Type(), 0, 0))
		}
	case reflect.Map:
		if v.CanSet() && !v.IsNil() {
			m := reflect.MakeMapWithSize(v.Type(), v.Len())
			iter := v.MapRange()
			for iter.Next() {
				m.SetMapIndex(iter.Key(), iter.Value())
			}
			v.Set(m)
		}
	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			if f := v.Field(i); f.CanSet() {
				blankValue(f)
			}
		}
	}
}
