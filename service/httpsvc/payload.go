/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package httpsvc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"sort"
	"strconv"

	pkgerrors "github.com/pkg/errors"

	"github.com/suparena/crudstore/resourcemodels"
)

// File is an upload carried inside a record. A payload holding a File is
// always sent as multipart/form-data.
type File struct {
	Name        string
	ContentType string
	Content     []byte
}

// CleanEmpty drops nil, empty and placeholder values ("null", "undefined",
// `""`) from payload. Nested objects are cleaned recursively and dropped
// when nothing is left. Arrays are kept as they are.
func CleanEmpty(payload map[string]any) map[string]any {
	out := make(map[string]any, len(payload))
	for k, v := range payload {
		switch x := v.(type) {
		case map[string]any:
			if nested := CleanEmpty(x); len(nested) > 0 {
				out[k] = nested
			}
			continue
		case resourcemodels.Record:
			if nested := CleanEmpty(x); len(nested) > 0 {
				out[k] = nested
			}
			continue
		}
		if !isEmptyValue(v) {
			out[k] = v
		}
	}
	return out
}

func isEmptyValue(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == "" || x == "null" || x == "undefined" || x == `""`
	case *File:
		return x == nil
	}
	return false
}

// HasFiles reports whether v holds a File at any depth
func HasFiles(v any) bool {
	switch x := v.(type) {
	case File, *File:
		return true
	case map[string]any:
		for _, e := range x {
			if HasFiles(e) {
				return true
			}
		}
	case resourcemodels.Record:
		return HasFiles(map[string]any(x))
	case []any:
		for _, e := range x {
			if HasFiles(e) {
				return true
			}
		}
	case []File, []*File:
		return true
	}
	return false
}

// toPayload turns a record into a generic object
func toPayload(record any) (map[string]any, error) {
	switch r := record.(type) {
	case resourcemodels.Record:
		return r, nil
	case map[string]any:
		return r, nil
	}

	raw, err := json.Marshal(record)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "encoding record")
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var out map[string]any
	if err := dec.Decode(&out); err != nil {
		return nil, pkgerrors.Wrap(err, "record is not a JSON object")
	}
	return out, nil
}

// encodeMultipart writes payload as form fields. Nested objects become
// a[b] and arrays a[0], the way PHP backends read them. Extra fields are
// appended after the payload.
func encodeMultipart(payload map[string]any, extra map[string]string) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	if err := writeFields(w, "", payload); err != nil {
		return nil, "", err
	}
	for _, k := range sortedKeys(extra) {
		if err := w.WriteField(k, extra[k]); err != nil {
			return nil, "", pkgerrors.Wrapf(err, "writing field %s", k)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", pkgerrors.Wrap(err, "closing multipart body")
	}
	return buf, w.FormDataContentType(), nil
}

func writeFields(w *multipart.Writer, prefix string, obj map[string]any) error {
	for _, k := range sortedKeys(obj) {
		key := k
		if prefix != "" {
			key = prefix + "[" + k + "]"
		}
		if err := writeValue(w, key, obj[k]); err != nil {
			return err
		}
	}
	return nil
}

func writeValue(w *multipart.Writer, key string, v any) error {
	switch x := v.(type) {
	case nil:
		return nil
	case map[string]any:
		return writeFields(w, key, x)
	case resourcemodels.Record:
		return writeFields(w, key, x)
	case []any:
		for i, e := range x {
			if err := writeValue(w, key+"["+strconv.Itoa(i)+"]", e); err != nil {
				return err
			}
		}
		return nil
	case []string:
		for i, e := range x {
			if err := w.WriteField(key+"["+strconv.Itoa(i)+"]", e); err != nil {
				return pkgerrors.Wrapf(err, "writing field %s", key)
			}
		}
		return nil
	case File:
		return writeFile(w, key, &x)
	case *File:
		return writeFile(w, key, x)
	case []File:
		for i := range x {
			if err := writeFile(w, key+"["+strconv.Itoa(i)+"]", &x[i]); err != nil {
				return err
			}
		}
		return nil
	case bool:
		return w.WriteField(key, strconv.FormatBool(x))
	case string:
		return w.WriteField(key, x)
	default:
		return w.WriteField(key, fmt.Sprint(x))
	}
}

func writeFile(w *multipart.Writer, key string, f *File) error {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, key, f.Name))
	ct := f.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	h.Set("Content-Type", ct)

	part, err := w.CreatePart(h)
	if err != nil {
		return pkgerrors.Wrapf(err, "creating part %s", key)
	}
	if _, err := part.Write(f.Content); err != nil {
		return pkgerrors.Wrapf(err, "writing file %s", f.Name)
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
