/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package resources

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/crudstore"
	"github.com/suparena/crudstore/errors"
	"github.com/suparena/crudstore/registry"
	"github.com/suparena/crudstore/resourcemodels"
	"github.com/suparena/crudstore/service/ddb"
	"github.com/suparena/crudstore/service/httpsvc"
)

func TestBuiltin(t *testing.T) {
	set, err := Builtin()
	require.NoError(t, err)

	assert.Contains(t, set.Names(), "cliente")
	assert.Contains(t, set.Names(), "proposta")
	assert.Contains(t, set.Names(), "funcionario")

	for _, d := range set.Resources {
		t.Run(d.Name, func(t *testing.T) {
			assert.True(t, crudstore.IsCRUDID(d.StoreID))
			assert.NotEmpty(t, d.ServiceName)
			assert.NotEmpty(t, d.SortKey)
			assert.NotEmpty(t, d.Columns)
		})
	}
}

func TestBuiltinDefaults(t *testing.T) {
	set, err := Builtin()
	require.NoError(t, err)

	t.Run("cliente", func(t *testing.T) {
		d, err := set.Get("cliente")
		require.NoError(t, err)
		assert.Equal(t, "ClienteService", d.ServiceName)
		assert.Equal(t, "crud/cliente", d.StoreID)
		assert.Equal(t, "razao_social", d.SortKey)
		assert.Equal(t, resourcemodels.Record{"razao_social": "", "nome_fantasia": "", "cnpj": ""}, d.Default)
	})

	t.Run("proposta keeps nulls and lists", func(t *testing.T) {
		d, err := set.Get("proposta")
		require.NoError(t, err)
		v, ok := d.Default["consultor_id"]
		assert.True(t, ok)
		assert.Nil(t, v)
		assert.Equal(t, []any{}, d.Default["servicos"])

		l, ok := d.Lookup("clientes")
		require.True(t, ok)
		assert.Equal(t, "listar/clientes", l.Path)
	})

	t.Run("permissions endpoint differs from name", func(t *testing.T) {
		d, err := set.Get("permissions")
		require.NoError(t, err)
		assert.Equal(t, "permission", d.Endpoint)
		assert.Equal(t, "PermissoesService", d.ServiceName)
	})

	t.Run("unknown resource", func(t *testing.T) {
		_, err := set.Get("nada")
		assert.True(t, errors.IsNotFound(err))
	})
}

func TestParseDerivesNames(t *testing.T) {
	set, err := Parse([]byte(`
resources:
  - name: cargo
    sort_key: nome
`))
	require.NoError(t, err)

	d, err := set.Get("cargo")
	require.NoError(t, err)
	assert.Equal(t, "cargo", d.Endpoint)
	assert.Equal(t, "CargoService", d.ServiceName)
	assert.Equal(t, "crud/cargo", d.StoreID)
	assert.NotNil(t, d.Default)
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name  string
		input string
		check func(error) bool
	}{
		{"empty set", "resources: []", func(err error) bool { return errors.IsConfiguration(err) }},
		{"malformed", "resources: [", func(err error) bool { return errors.IsConfiguration(err) }},
		{"missing sort key", "resources:\n  - name: cargo\n", errors.IsValidationError},
		{"store id without marker", "resources:\n  - name: cargo\n    sort_key: nome\n    store: cargo\n", errors.IsValidationError},
		{"lookup without path", "resources:\n  - name: cargo\n    sort_key: nome\n    lookups: [{name: x}]\n", errors.IsValidationError},
		{"duplicate name", "resources:\n  - {name: cargo, sort_key: nome}\n  - {name: cargo, sort_key: nome}\n", errors.IsAlreadyExists},
		{"duplicate service", "resources:\n  - {name: a, sort_key: nome, service: XService}\n  - {name: b, sort_key: nome, service: XService}\n", errors.IsAlreadyExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			require.Error(t, err)
			assert.True(t, tt.check(err), "unexpected error: %v", err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resources.yaml")
	require.NoError(t, os.WriteFile(path, []byte("resources:\n  - {name: escopo, sort_key: nome, per_page: 20}\n"), 0o600))

	set, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"escopo"}, set.Names())

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestStoreConfig(t *testing.T) {
	set, err := Builtin()
	require.NoError(t, err)
	d, err := set.Get("departamento")
	require.NoError(t, err)

	cfg := d.StoreConfig()
	assert.Equal(t, "crud/departamento", cfg.ID)
	assert.Equal(t, "DepartamentoService", cfg.ServiceName)
	assert.Equal(t, "nome", cfg.SortKeyDefault)

	cfg.DefaultValue["nome"] = "changed"
	assert.Equal(t, "", d.Default["nome"])
}

type nopAPI struct {
	ddb.API
}

func TestServices(t *testing.T) {
	set, err := Builtin()
	require.NoError(t, err)

	t.Run("http", func(t *testing.T) {
		reg := registry.New()
		require.NoError(t, reg.Preload(context.Background(), set.HTTPServices(httpsvc.NewClient("http://localhost"))...))

		for _, d := range set.Resources {
			svc, err := registry.Lookup[resourcemodels.Record](reg, d.ServiceName)
			require.NoError(t, err)
			assert.Equal(t, d.Endpoint, svc.(*httpsvc.Service[resourcemodels.Record]).Endpoint())
		}
	})

	t.Run("dynamodb", func(t *testing.T) {
		reg := registry.New()
		require.NoError(t, reg.Preload(context.Background(), set.DynamoDBServices(nopAPI{}, "panel")...))
		assert.Len(t, reg.Names(), len(set.Resources))

		s, err := crudstore.New(set.Resources[0].StoreConfig(), reg)
		require.NoError(t, err)
		assert.Equal(t, set.Resources[0].StoreID, s.ID())
	})

	t.Run("dynamodb without table fails preload", func(t *testing.T) {
		reg := registry.New()
		err := reg.Preload(context.Background(), set.DynamoDBServices(nopAPI{}, "")...)
		assert.True(t, errors.IsConfiguration(err))
		assert.False(t, reg.Ready())
	})
}
