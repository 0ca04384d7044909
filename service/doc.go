/*
Package service defines the Resource Service contract consumed by stores.

The main interface is Service[T], uniform across resources:

	type Service[T any] interface {
	    FetchAll(ctx context.Context, query resourcemodels.ListQuery) (*resourcemodels.Page[T], error)
	    Fetch(ctx context.Context, id string) (T, error)
	    Create(ctx context.Context, record T, opts resourcemodels.WriteOptions) (T, error)
	    Update(ctx context.Context, record T, id string, opts resourcemodels.WriteOptions) (T, error)
	    Destroy(ctx context.Context, id string) error
	    Search(ctx context.Context, query resourcemodels.SearchQuery) (*resourcemodels.Page[T], error)
	}

Optional capabilities are separate interfaces (Patcher, Looker) checked with a type assertion.

Implementations:
  - httpsvc: the panel's HTTP API
  - ddb: DynamoDB single-table backend
  - mock: in-memory implementation for testing
*/
package service
