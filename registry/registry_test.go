/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry_test

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/crudstore/errors"
	"github.com/suparena/crudstore/registry"
	"github.com/suparena/crudstore/resourcemodels"
	"github.com/suparena/crudstore/service/mock"
)

type cargo struct {
	ID   string
	Nome string
}

func TestPreloadWithoutDefinitionsFails(t *testing.T) {
	reg := registry.New()

	err := reg.Preload(context.Background())
	require.ErrorIs(t, err, errors.ErrNoServices)
	assert.False(t, reg.Ready())
}

func TestPreloadResolvesConcurrently(t *testing.T) {
	reg := registry.New()
	var inFlight, peak int32

	load := func(svc any) registry.LoadFunc {
		return func(ctx context.Context) (any, error) {
			n := atomic.AddInt32(&inFlight, 1)
			for {
				p := atomic.LoadInt32(&peak)
				if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
					break
				}
			}
			time.Sleep(20 * time.Millisecond)
			atomic.AddInt32(&inFlight, -1)
			return svc, nil
		}
	}

	err := reg.Preload(context.Background(),
		registry.Definition{Name: "ClienteService", Load: load(mock.NewRecords())},
		registry.Definition{Name: "CargoService", Load: load(mock.New(func(c cargo) string { return c.ID }))},
	)
	require.NoError(t, err)
	assert.True(t, reg.Ready())
	assert.Equal(t, []string{"CargoService", "ClienteService"}, reg.Names())
	assert.EqualValues(t, 2, atomic.LoadInt32(&peak), "loaders should run in parallel")
}

func TestPreloadIsAllOrNothing(t *testing.T) {
	reg := registry.New()

	err := reg.Preload(context.Background(),
		registry.Static("ClienteService", mock.NewRecords()),
		registry.Definition{Name: "CargoService", Load: func(context.Context) (any, error) {
			return nil, fmt.Errorf("endpoint unreachable")
		}},
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading service CargoService")

	_, err = reg.Get("ClienteService")
	assert.True(t, errors.IsServiceNotFound(err), "a failed preload must not install anything")
}

func TestPreloadRejectsDuplicateNames(t *testing.T) {
	reg := registry.New()

	err := reg.Preload(context.Background(),
		registry.Static("ClienteService", mock.NewRecords()),
		registry.Static("ClienteService", mock.NewRecords()),
	)
	assert.ErrorIs(t, err, errors.ErrAlreadyExists)
}

func TestGetUnknownService(t *testing.T) {
	reg := registry.New()
	require.NoError(t, reg.Register("ClienteService", mock.NewRecords()))

	_, err := reg.Get("FornecedorService")
	require.Error(t, err)
	assert.True(t, errors.IsServiceNotFound(err))
	assert.Equal(t, "service FornecedorService not found", err.Error())
}

func TestRegisterDuplicate(t *testing.T) {
	reg := registry.New()
	require.NoError(t, reg.Register("ClienteService", mock.NewRecords()))

	err := reg.Register("ClienteService", mock.NewRecords())
	assert.ErrorIs(t, err, errors.ErrAlreadyExists)
}

func TestLookupTyped(t *testing.T) {
	reg := registry.New()
	require.NoError(t, reg.Register("ClienteService", mock.NewRecords()))

	t.Run("matching type", func(t *testing.T) {
		svc, err := registry.Lookup[resourcemodels.Record](reg, "ClienteService")
		require.NoError(t, err)
		assert.NotNil(t, svc)
	})

	t.Run("wrong type", func(t *testing.T) {
		_, err := registry.Lookup[cargo](reg, "ClienteService")
		assert.ErrorIs(t, err, errors.ErrServiceType)
		assert.True(t, errors.IsConfiguration(err))
	})

	t.Run("missing", func(t *testing.T) {
		_, err := registry.Lookup[cargo](reg, "CargoService")
		assert.True(t, errors.IsServiceNotFound(err))
	})
}
