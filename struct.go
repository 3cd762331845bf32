// github.com/pdfdom/pdfcore - a library for reading and writing PDF files
// Copyright (C) 2021  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package pdf

// This file implements a small struct-tag based mapping between Go structs
// and PDF dictionaries, used throughout the package to decode things like
// the document catalog or the encryption dictionary without writing
// boilerplate field-by-field extraction code for every structure.
//
// Supported struct tags (comma-separated, field name "pdf"):
//
//	optional     the field may be absent from the dictionary
//	extra        (map[string]string fields only) collects all dictionary
//	             entries not claimed by another field
//	allowstring  (Name fields only) also accept a String value in the
//	             dictionary, converting it to a Name

import (
	"fmt"
	"math"
	"reflect"
	"strings"
	"time"

	"golang.org/x/text/language"
)

// AsDict converts a struct (given as a pointer) into a PDF dictionary,
// using the struct's "pdf" tags to control the conversion.
func AsDict(ptr any) Dict {
	v := reflect.ValueOf(ptr)
	for v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	t := v.Type()

	d := Dict{}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.PkgPath != "" {
			continue
		}

		optional, extra, _ := parseFieldTag(f)
		fv := v.Field(i)

		if extra {
			if fv.Kind() == reflect.Map {
				iter := fv.MapRange()
				for iter.Next() {
					d[Name(fmt.Sprint(iter.Key().Interface()))] =
						TextString(fmt.Sprint(iter.Value().Interface()))
				}
			}
			continue
		}

		obj, isZero := encodeField(fv)
		if obj == nil {
			continue
		}
		if optional && isZero {
			continue
		}
		d[Name(f.Name)] = obj
	}
	return d
}

func parseFieldTag(f reflect.StructField) (optional, extra, allowString bool) {
	tag := f.Tag.Get("pdf")
	if tag == "" {
		return false, false, false
	}
	for _, opt := range strings.Split(tag, ",") {
		switch opt {
		case "optional":
			optional = true
		case "extra":
			extra = true
		case "allowstring":
			allowString = true
		}
	}
	return
}

// encodeField converts the value of a single struct field to an Object,
// and reports whether the value is the "empty"/zero value for its type
// (which is relevant for fields tagged "optional").
func encodeField(fv reflect.Value) (Object, bool) {
	switch x := fv.Interface().(type) {
	case TextString:
		return x, x == ""
	case Date:
		return x, time.Time(x).IsZero()
	case language.Tag:
		if x == language.Und {
			return nil, true
		}
		return TextString(x.String()), false
	case Version:
		if x < V1_0 || x >= tooHighVersion {
			return nil, true
		}
		s, err := x.ToString()
		if err != nil {
			return nil, true
		}
		return Name(s), false
	case bool:
		return Boolean(x), !x
	}

	if fv.Kind() == reflect.Interface {
		if fv.IsNil() {
			return nil, true
		}
		obj, _ := fv.Interface().(Object)
		return obj, false
	}

	obj, ok := fv.Interface().(Object)
	if !ok {
		return nil, true
	}
	return obj, fv.IsZero()
}

// DecodeDict fills in the fields of a struct (given as a pointer) from a
// PDF dictionary, using the struct's "pdf" tags to control the conversion.
// Fields without an "optional" tag must be present in dict, with a value of
// the correct type; all other fields are left at their zero value if
// absent.
func DecodeDict(r Getter, ptr any, dict Dict) error {
	v := reflect.ValueOf(ptr).Elem()
	t := v.Type()

	declared := make(map[string]bool)
	var extraField reflect.Value
	hasExtra := false

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.PkgPath != "" {
			continue
		}

		optional, extra, allowString := parseFieldTag(f)
		fv := v.Field(i)

		if extra {
			hasExtra = true
			extraField = fv
			continue
		}

		declared[f.Name] = true

		raw, present := dict[Name(f.Name)]
		if !present || raw == nil {
			if optional {
				continue
			}
			return &MalformedFileError{
				Err: fmt.Errorf("missing required field %q", f.Name),
			}
		}

		if err := decodeField(r, fv, raw, allowString); err != nil {
			return Wrap(err, f.Name)
		}
	}

	if hasExtra && extraField.IsValid() && extraField.Kind() == reflect.Map {
		m := reflect.MakeMap(extraField.Type())
		for k, val := range dict {
			if declared[string(k)] {
				continue
			}
			ts, err := textStringFrom(r, val)
			if err != nil {
				continue
			}
			m.SetMapIndex(reflect.ValueOf(string(k)), reflect.ValueOf(string(ts)))
		}
		extraField.Set(m)
	}

	return nil
}

func decodeField(r Getter, fv reflect.Value, raw Object, allowString bool) error {
	switch fv.Interface().(type) {
	case TextString:
		ts, err := textStringFrom(r, raw)
		if err != nil {
			return err
		}
		fv.Set(reflect.ValueOf(ts))
		return nil

	case Date:
		d, err := dateFrom(r, raw)
		if err != nil {
			return err
		}
		fv.Set(reflect.ValueOf(d))
		return nil

	case language.Tag:
		ts, err := textStringFrom(r, raw)
		if err != nil {
			return err
		}
		if ts == "" {
			return nil
		}
		tag, err := language.Parse(string(ts))
		if err != nil {
			return err
		}
		fv.Set(reflect.ValueOf(tag))
		return nil

	case Version:
		resolved, err := resolveLoose(r, raw)
		if err != nil {
			return err
		}
		ver, err := versionFrom(resolved)
		if err != nil {
			return err
		}
		fv.Set(reflect.ValueOf(ver))
		return nil

	case Reference:
		ref, ok := raw.(Reference)
		if !ok {
			return fmt.Errorf("expected Reference but got %T", raw)
		}
		fv.Set(reflect.ValueOf(ref))
		return nil

	case bool:
		b, err := GetBoolean(r, raw)
		if err != nil {
			return err
		}
		fv.SetBool(bool(b))
		return nil
	}

	resolved, err := Resolve(r, raw)
	if err != nil {
		return err
	}
	if resolved == nil {
		return nil
	}

	if allowString {
		if s, ok := resolved.(String); ok {
			resolved = Name(s)
		}
	}

	rv := reflect.ValueOf(resolved)
	if rv.Type().AssignableTo(fv.Type()) {
		fv.Set(rv)
		return nil
	}
	if fv.Kind() == reflect.Interface && rv.Type().Implements(fv.Type()) {
		fv.Set(rv)
		return nil
	}
	return fmt.Errorf("expected %s but got %T", fv.Type(), resolved)
}

func resolveLoose(r Getter, obj Object) (Object, error) {
	if _, ok := obj.(Reference); ok {
		if r == nil {
			return obj, nil
		}
		resolved, err := Resolve(r, obj)
		if err != nil {
			return nil, err
		}
		return resolved, nil
	}
	return obj, nil
}

func textStringFrom(r Getter, raw Object) (TextString, error) {
	if raw == nil {
		return "", nil
	}
	if ts, ok := raw.(asTextStringer); ok {
		return ts.AsTextString(), nil
	}
	resolved, err := Resolve(r, raw)
	if err != nil {
		return "", err
	}
	if resolved == nil {
		return "", nil
	}
	if ts, ok := resolved.(asTextStringer); ok {
		return ts.AsTextString(), nil
	}
	return "", fmt.Errorf("expected text string but got %T", resolved)
}

func dateFrom(r Getter, raw Object) (Date, error) {
	var zero Date
	if raw == nil {
		return zero, nil
	}
	if d, ok := raw.(asDater); ok {
		return d.AsDate()
	}
	resolved, err := Resolve(r, raw)
	if err != nil {
		return zero, err
	}
	if resolved == nil {
		return zero, nil
	}
	if d, ok := resolved.(asDater); ok {
		return d.AsDate()
	}
	if ts, ok := resolved.(asTextStringer); ok {
		return String(ts.AsTextString()).AsDate()
	}
	return zero, fmt.Errorf("expected date but got %T", resolved)
}

func versionFrom(raw Object) (Version, error) {
	switch x := raw.(type) {
	case Name:
		return ParseVersion(string(x))
	case String:
		return ParseVersion(string(x))
	case TextString:
		return ParseVersion(string(x))
	case Real:
		return versionFromFloat(float64(x))
	case Version:
		return x, nil
	default:
		return 0, fmt.Errorf("invalid type for PDF version: %T", raw)
	}
}

func versionFromFloat(x float64) (Version, error) {
	major := int(x)
	minor := int(math.Round((x - float64(major)) * 10))
	return ParseVersion(fmt.Sprintf("%d.%d", major, minor))
}

// AsString returns a human-readable representation of a PDF object, for use
// in diagnostics and error messages.
func AsString(obj Object) string {
	if obj == nil {
		return "null"
	}
	if ts, ok := obj.(asTextStringer); ok {
		return string(ts.AsTextString())
	}
	return FormatString(obj)
}
