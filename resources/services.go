/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package resources

import (
	"context"

	"github.com/suparena/crudstore/registry"
	"github.com/suparena/crudstore/resourcemodels"
	"github.com/suparena/crudstore/service/ddb"
	"github.com/suparena/crudstore/service/httpsvc"
)

// HTTPServices returns one registry definition per resource, served by the panel API
func (s *Set) HTTPServices(client *httpsvc.Client) []registry.Definition {
	defs := make([]registry.Definition, 0, len(s.Resources))
	for _, d := range s.Resources {
		var opts []httpsvc.ServiceOption
		if d.Public {
			opts = append(opts, httpsvc.Public())
		}
		defs = append(defs, registry.Static(d.ServiceName, httpsvc.New[resourcemodels.Record](client, d.Endpoint, opts...)))
	}
	return defs
}

// DynamoDBServices returns one registry definition per resource, each stored
// in its own partition of table
func (s *Set) DynamoDBServices(api ddb.API, table string, opts ...ddb.Option) []registry.Definition {
	defs := make([]registry.Definition, 0, len(s.Resources))
	for _, d := range s.Resources {
		d := d
		resourceOpts := opts
		if d.PerPage > 0 {
			resourceOpts = append(append([]ddb.Option{}, opts...), ddb.WithPerPage(d.PerPage))
		}
		defs = append(defs, registry.Definition{
			Name: d.ServiceName,
			Load: func(context.Context) (any, error) {
				return ddb.New(api, table, d.Name, resourceOpts...)
			},
		})
	}
	return defs
}
