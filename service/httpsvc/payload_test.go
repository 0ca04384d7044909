/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package httpsvc

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanEmpty(t *testing.T) {
	tests := []struct {
		name string
		in   map[string]any
		want map[string]any
	}{
		{
			name: "placeholders dropped",
			in:   map[string]any{"a": "", "b": "null", "c": "undefined", "d": `""`, "e": nil, "f": "ok"},
			want: map[string]any{"f": "ok"},
		},
		{
			name: "zero values kept",
			in:   map[string]any{"n": 0, "b": false, "list": []any{}},
			want: map[string]any{"n": 0, "b": false, "list": []any{}},
		},
		{
			name: "emptied nested object dropped",
			in:   map[string]any{"endereco": map[string]any{"rua": "", "numero": nil}, "nome": "x"},
			want: map[string]any{"nome": "x"},
		},
		{
			name: "nested object cleaned",
			in:   map[string]any{"endereco": Record{"rua": "Central", "cep": ""}},
			want: map[string]any{"endereco": map[string]any{"rua": "Central"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanEmpty(tt.in))
		})
	}
}

func TestHasFiles(t *testing.T) {
	assert.False(t, HasFiles(map[string]any{"a": "b", "c": []any{1, 2}}))
	assert.True(t, HasFiles(map[string]any{"a": map[string]any{"b": &File{Name: "x"}}}))
	assert.True(t, HasFiles(Record{"anexos": []any{File{Name: "x"}}}))
}

func TestToPayloadKeepsNumbers(t *testing.T) {
	type item struct {
		ID    int64  `json:"id"`
		Label string `json:"label"`
	}
	p, err := toPayload(item{ID: 9007199254740993, Label: "x"})
	require.NoError(t, err)
	assert.Equal(t, json.Number("9007199254740993"), p["id"])
	assert.Equal(t, "x", p["label"])
}
