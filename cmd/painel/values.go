/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"

	pkgerrors "github.com/pkg/errors"

	"github.com/suparena/crudstore/errors"
)

// parseValue decodes raw as JSON when possible and keeps it as a string otherwise
func parseValue(raw string) any {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil || dec.More() {
		return raw
	}
	return v
}

// parseAssignments turns key=value pairs into a record
func parseAssignments(pairs []string) (Record, error) {
	rec := Record{}
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, errors.NewValidationError("set", "expected key=value, got "+pair)
		}
		rec[key] = parseValue(value)
	}
	return rec, nil
}

// parseData reads a JSON object given inline or as @file
func parseData(data string) (Record, error) {
	if data == "" {
		return Record{}, nil
	}
	raw := []byte(data)
	if strings.HasPrefix(data, "@") {
		b, err := os.ReadFile(strings.TrimPrefix(data, "@"))
		if err != nil {
			return nil, pkgerrors.Wrap(err, "reading data file")
		}
		raw = b
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var rec Record
	if err := dec.Decode(&rec); err != nil {
		return nil, errors.NewValidationError("data", "not a JSON object: "+err.Error())
	}
	if rec == nil {
		rec = Record{}
	}
	return rec, nil
}

// recordInput merges --data and --set, the latter winning
func recordInput(data string, pairs []string) (Record, error) {
	rec, err := parseData(data)
	if err != nil {
		return nil, err
	}
	set, err := parseAssignments(pairs)
	if err != nil {
		return nil, err
	}
	for k, v := range set {
		rec[k] = v
	}
	return rec, nil
}
