/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/crudstore/errors"
)

type seenRequest struct {
	method string
	path   string
	query  map[string][]string
	body   []byte
}

// panelAPI is a small in-memory version of the panel API
type panelAPI struct {
	mu   sync.Mutex
	seen []seenRequest
}

func (p *panelAPI) requests(method, path string) []seenRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []seenRequest
	for _, r := range p.seen {
		if r.method == method && r.path == path {
			out = append(out, r)
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (p *panelAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	p.mu.Lock()
	p.seen = append(p.seen, seenRequest{method: r.Method, path: r.URL.Path, query: r.URL.Query(), body: body})
	p.mu.Unlock()

	clientes := []map[string]any{
		{"id": 1, "razao_social": "Alfa Ltda", "nome_fantasia": "Alfa", "cnpj": "11"},
		{"id": 2, "razao_social": "Beta SA", "nome_fantasia": "Beta", "cnpj": "22"},
	}

	switch r.Method + " " + r.URL.Path {
	case "GET /api/cliente":
		page := r.URL.Query().Get("page")
		switch page {
		case "1":
			writeJSON(w, 200, map[string]any{"data": clientes[:1], "total": 2, "page": 1})
		case "2":
			writeJSON(w, 200, map[string]any{"data": clientes[1:], "total": 2, "page": 2})
		default:
			writeJSON(w, 200, map[string]any{"data": []any{}, "total": 2, "page": 3})
		}
	case "GET /api/cliente/pesquisarpor/razao_social/Beta":
		writeJSON(w, 200, map[string]any{"data": clientes[1:], "total": 1, "page": 1})
	case "GET /api/cliente/1":
		writeJSON(w, 200, clientes[0])
	case "POST /api/cliente":
		var rec map[string]any
		_ = json.Unmarshal(body, &rec)
		rec["id"] = 3
		writeJSON(w, 201, rec)
	case "PUT /api/cliente/1":
		var rec map[string]any
		_ = json.Unmarshal(body, &rec)
		writeJSON(w, 200, rec)
	case "DELETE /api/cliente/1":
		w.WriteHeader(http.StatusNoContent)
	case "PATCH /api/proposta/7":
		writeJSON(w, 200, map[string]any{"id": 7, "status": "aprovada"})
	case "GET /api/proposta/listar/clientes":
		writeJSON(w, 200, []map[string]any{{"id": 1, "nome": "Alfa Ltda"}})
	case "POST /api/funcionario":
		writeJSON(w, 422, map[string]any{"message": "dados inválidos", "errors": map[string][]string{"cpf": {"obrigatório"}}})
	case "GET /api/cargo":
		writeJSON(w, 500, map[string]any{"message": "boom"})
	default:
		writeJSON(w, 404, map[string]any{"message": "not found"})
	}
}

type result struct {
	err    error
	stdout string
	stderr string
}

func setupEnv(t *testing.T) *panelAPI {
	t.Helper()
	api := &panelAPI{}
	ts := httptest.NewServer(api)
	t.Cleanup(ts.Close)

	t.Setenv("PAINEL_API_URL", ts.URL)
	t.Setenv("PAINEL_BACKEND", "http")
	t.Setenv("PAINEL_MAX_RETRIES", "0")
	t.Setenv("PAINEL_RESOURCES", "")
	t.Setenv("LOG_LEVEL", "fatal")
	return api
}

func execute(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	var stdout, stderr bytes.Buffer
	a := newApp(&stdout, &stderr, strings.NewReader(stdin))
	args = append([]string{"--env-file", filepath.Join(t.TempDir(), ".env")}, args...)
	err := run(context.Background(), a, args)
	return result{err: err, stdout: stdout.String(), stderr: stderr.String()}
}

func decodeRecords(t *testing.T, out string) []map[string]any {
	t.Helper()
	var recs []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &recs))
	return recs
}

func TestList(t *testing.T) {
	t.Run("first page", func(t *testing.T) {
		api := setupEnv(t)
		res := execute(t, "", "list", "cliente")
		require.NoError(t, res.err, res.stderr)

		assert.Contains(t, res.stdout, "Alfa Ltda")
		assert.NotContains(t, res.stdout, "Beta SA")

		reqs := api.requests("GET", "/api/cliente")
		require.Len(t, reqs, 1)
		assert.Equal(t, []string{"razao_social"}, reqs[0].query["sort_by"])
		assert.Equal(t, []string{"asc"}, reqs[0].query["sort_order"])
		assert.Equal(t, []string{"10"}, reqs[0].query["per_page"])
	})

	t.Run("all pages", func(t *testing.T) {
		api := setupEnv(t)
		res := execute(t, "", "list", "cliente", "--all", "-o", "json")
		require.NoError(t, res.err, res.stderr)

		recs := decodeRecords(t, res.stdout)
		require.Len(t, recs, 2)
		assert.Equal(t, "Beta SA", recs[1]["razao_social"])
		assert.Len(t, api.requests("GET", "/api/cliente"), 3)
	})

	t.Run("sorted", func(t *testing.T) {
		api := setupEnv(t)
		res := execute(t, "", "list", "cliente", "--sort", "cnpj", "--desc")
		require.NoError(t, res.err, res.stderr)

		reqs := api.requests("GET", "/api/cliente")
		require.Len(t, reqs, 1)
		assert.Equal(t, []string{"cnpj"}, reqs[0].query["sort_by"])
		assert.Equal(t, []string{"desc"}, reqs[0].query["sort_order"])
	})

	t.Run("csv columns", func(t *testing.T) {
		setupEnv(t)
		res := execute(t, "", "list", "cliente", "-o", "csv", "--columns", "id,cnpj")
		require.NoError(t, res.err, res.stderr)
		assert.Equal(t, "\ufeffid;cnpj\n1;11\n", res.stdout)
	})

	t.Run("load failure", func(t *testing.T) {
		setupEnv(t)
		res := execute(t, "", "list", "cargo")
		require.Error(t, res.err)
		assert.True(t, errors.IsRetryable(res.err))
		assert.Contains(t, res.stderr, "loading crud/cargo")
	})

	t.Run("unknown resource", func(t *testing.T) {
		setupEnv(t)
		res := execute(t, "", "list", "nada")
		require.Error(t, res.err)
		assert.True(t, errors.IsNotFound(res.err))
		assert.Contains(t, res.stderr, "available resources")
	})
}

func TestSearch(t *testing.T) {
	api := setupEnv(t)
	res := execute(t, "", "search", "cliente", "razao_social", "Beta", "-o", "json")
	require.NoError(t, res.err, res.stderr)

	recs := decodeRecords(t, res.stdout)
	require.Len(t, recs, 1)
	assert.Equal(t, "Beta SA", recs[0]["razao_social"])
	assert.Len(t, api.requests("GET", "/api/cliente/pesquisarpor/razao_social/Beta"), 1)
}

func TestGet(t *testing.T) {
	setupEnv(t)
	res := execute(t, "", "get", "cliente", "1", "-o", "json")
	require.NoError(t, res.err, res.stderr)

	recs := decodeRecords(t, res.stdout)
	require.Len(t, recs, 1)
	assert.Equal(t, "Alfa", recs[0]["nome_fantasia"])
}

func TestCreate(t *testing.T) {
	t.Run("sends cleaned defaults", func(t *testing.T) {
		api := setupEnv(t)
		res := execute(t, "", "create", "cliente", "--set", "razao_social=Gama", "--set", "nome_fantasia=G", "-o", "json")
		require.NoError(t, res.err, res.stderr)

		reqs := api.requests("POST", "/api/cliente")
		require.Len(t, reqs, 1)
		var sent map[string]any
		require.NoError(t, json.Unmarshal(reqs[0].body, &sent))
		assert.Equal(t, map[string]any{"razao_social": "Gama", "nome_fantasia": "G"}, sent)

		recs := decodeRecords(t, res.stdout)
		require.Len(t, recs, 1)
		assert.Equal(t, float64(3), recs[0]["id"])
		assert.Contains(t, res.stderr, "Foi criado com sucesso!")
	})

	t.Run("validation failure", func(t *testing.T) {
		setupEnv(t)
		res := execute(t, "", "create", "funcionario", "--data", `{"nome":"Ana"}`)
		require.Error(t, res.err)
		assert.True(t, errors.IsValidationError(res.err))
		assert.Contains(t, res.stderr, "cpf: obrigatório")
		assert.NotContains(t, res.stderr, "api error")
	})

	t.Run("bad assignment", func(t *testing.T) {
		setupEnv(t)
		res := execute(t, "", "create", "cliente", "--set", "razao_social")
		require.Error(t, res.err)
		assert.True(t, errors.IsValidationError(res.err))
	})
}

func TestUpdate(t *testing.T) {
	api := setupEnv(t)
	res := execute(t, "", "update", "cliente", "1", "--set", "nome_fantasia=Alfa Nova", "-o", "json")
	require.NoError(t, res.err, res.stderr)

	reqs := api.requests("PUT", "/api/cliente/1")
	require.Len(t, reqs, 1)
	var sent map[string]any
	require.NoError(t, json.Unmarshal(reqs[0].body, &sent))
	assert.Equal(t, "Alfa Nova", sent["nome_fantasia"])
	assert.Equal(t, "Alfa Ltda", sent["razao_social"])
	assert.Contains(t, res.stderr, "Foi atualizado com sucesso!")
}

func TestPatch(t *testing.T) {
	api := setupEnv(t)
	res := execute(t, "", "patch", "proposta", "7", "status", "aprovada", "-o", "json")
	require.NoError(t, res.err, res.stderr)

	reqs := api.requests("PATCH", "/api/proposta/7")
	require.Len(t, reqs, 1)
	assert.JSONEq(t, `{"field":"status","value":"aprovada"}`, string(reqs[0].body))
	assert.Equal(t, "aprovada", decodeRecords(t, res.stdout)[0]["status"])
}

func TestDelete(t *testing.T) {
	t.Run("assume yes", func(t *testing.T) {
		api := setupEnv(t)
		res := execute(t, "", "delete", "cliente", "1", "--yes")
		require.NoError(t, res.err, res.stderr)
		assert.Len(t, api.requests("DELETE", "/api/cliente/1"), 1)
		assert.Contains(t, res.stderr, "Foi excluído com sucesso!")
	})

	t.Run("confirmed on prompt", func(t *testing.T) {
		api := setupEnv(t)
		res := execute(t, "sim\n", "delete", "cliente", "1")
		require.NoError(t, res.err, res.stderr)
		assert.Contains(t, res.stderr, "Deseja realmente excluir este item?")
		assert.Len(t, api.requests("DELETE", "/api/cliente/1"), 1)
	})

	t.Run("declined", func(t *testing.T) {
		api := setupEnv(t)
		res := execute(t, "n\n", "delete", "cliente", "1")
		require.NoError(t, res.err, res.stderr)
		assert.Empty(t, api.requests("DELETE", "/api/cliente/1"))
	})
}

func TestLookup(t *testing.T) {
	api := setupEnv(t)
	res := execute(t, "", "lookup", "proposta", "clientes", "--search", "Alf", "-o", "json")
	require.NoError(t, res.err, res.stderr)

	reqs := api.requests("GET", "/api/proposta/listar/clientes")
	require.Len(t, reqs, 1)
	assert.Equal(t, []string{"Alf"}, reqs[0].query["search"])
	assert.Equal(t, "Alfa Ltda", decodeRecords(t, res.stdout)[0]["nome"])
}

func TestResources(t *testing.T) {
	api := setupEnv(t)
	res := execute(t, "", "resources")
	require.NoError(t, res.err, res.stderr)

	assert.Contains(t, res.stdout, "crud/cliente")
	assert.Contains(t, res.stdout, "PermissoesService")
	assert.Empty(t, api.seen)
}

func TestVersion(t *testing.T) {
	res := execute(t, "", "version")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "painel version")
}

func TestParseValue(t *testing.T) {
	assert.Equal(t, "abc", parseValue("abc"))
	assert.Equal(t, json.Number("12"), parseValue("12"))
	assert.Equal(t, true, parseValue("true"))
	assert.Equal(t, []any{"a"}, parseValue(`["a"]`))
	assert.Equal(t, "1 2", parseValue("1 2"))
}
