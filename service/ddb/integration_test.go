//go:build integration
// +build integration

/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"os"
	"testing"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/crudstore/errors"
	"github.com/suparena/crudstore/resourcemodels"
)

func setupIntegrationService(t *testing.T) *Service {
	t.Helper()
	if err := godotenv.Load(); err != nil {
		t.Log("No .env file found, proceeding with environment variables")
	}

	table := os.Getenv("AWS_DDB_TABLE")
	if table == "" {
		t.Skip("AWS_DDB_TABLE not set, skipping integration test")
	}

	client, err := NewDynamoDBClient(context.Background(), ClientConfig{
		Region:    os.Getenv("AWS_REGION"),
		AccessKey: os.Getenv("AWS_ACCESS_KEY"),
		SecretKey: os.Getenv("AWS_SECRET_KEY"),
		Endpoint:  os.Getenv("AWS_DDB_ENDPOINT"),
	})
	require.NoError(t, err)

	svc, err := New(client, table, "integration_cliente")
	require.NoError(t, err)
	return svc
}

func TestIntegrationLifecycle(t *testing.T) {
	svc := setupIntegrationService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, Record{"razao_social": "Acme Integração", "filiais": []any{}}, resourcemodels.WriteOptions{})
	require.NoError(t, err)
	id := created.ID()
	t.Cleanup(func() { _ = svc.Destroy(context.Background(), id) })

	got, err := svc.Fetch(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Acme Integração", got["razao_social"])

	page, err := svc.Search(ctx, resourcemodels.SearchQuery{Field: "razao_social", Value: "integração", Page: 1})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, page.Total, 1)

	patched, err := svc.Patch(ctx, id, "razao_social", "Acme Renomeada")
	require.NoError(t, err)
	assert.Equal(t, "Acme Renomeada", patched["razao_social"])

	require.NoError(t, svc.Destroy(ctx, id))
	_, err = svc.Fetch(ctx, id)
	assert.True(t, errors.IsNotFound(err))
}
