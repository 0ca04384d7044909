/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"sort"
	"strings"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/suparena/crudstore"
	"github.com/suparena/crudstore/config"
	"github.com/suparena/crudstore/export"
	"github.com/suparena/crudstore/notify"
	"github.com/suparena/crudstore/registry"
	"github.com/suparena/crudstore/resourcemodels"
	"github.com/suparena/crudstore/resources"
	"github.com/suparena/crudstore/service/ddb"
	"github.com/suparena/crudstore/service/httpsvc"
)

type Record = resourcemodels.Record

// app holds the flags and the wiring shared by every command
type app struct {
	out    io.Writer
	errOut io.Writer
	in     io.Reader

	configPath    string
	envFile       string
	resourcesPath string
	format        string
	columns       []string
	assumeYes     bool

	cfg      *config.Config
	log      *logrus.Entry
	defs     *resources.Set
	registry *registry.Registry
	catalog  *crudstore.Catalog

	console    *notify.Console
	snackbar   *notify.Snackbar
	validation *notify.ValidationDialog
}

func newApp(out, errOut io.Writer, in io.Reader) *app {
	return &app{
		out:        out,
		errOut:     errOut,
		in:         in,
		envFile:    ".env",
		snackbar:   notify.NewSnackbar(),
		validation: notify.NewValidationDialog(),
	}
}

// loadConfig reads the configuration and the resource definitions
func (a *app) loadConfig() error {
	if err := config.LoadDotEnv(a.envFile); err != nil {
		return err
	}
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	logger, err := cfg.Log.NewLogger(a.errOut)
	if err != nil {
		return err
	}
	a.log = logrus.NewEntry(logger).WithField("app", "painel")

	path := a.resourcesPath
	if path == "" {
		path = cfg.Resources
	}
	if path == "" {
		a.defs, err = resources.Builtin()
	} else {
		a.defs, err = resources.Load(path)
	}
	return err
}

// setup preloads every resource service and builds one store per resource
func (a *app) setup(ctx context.Context) error {
	if err := a.loadConfig(); err != nil {
		return err
	}

	defs, err := a.serviceDefinitions(ctx)
	if err != nil {
		return err
	}
	a.registry = registry.New(registry.WithLogger(a.log))
	if err := a.registry.Preload(ctx, defs...); err != nil {
		return err
	}

	a.console = &notify.Console{Out: a.errOut, In: a.in, AssumeYes: a.assumeYes}
	failures := notify.NewRouter(a.snackbar, a.validation)

	a.catalog = crudstore.NewCatalog()
	for _, d := range a.defs.Resources {
		storeCfg := d.StoreConfig()
		if storeCfg.ItemsPerPage == 0 {
			storeCfg.ItemsPerPage = a.cfg.PerPage
		}
		s, err := crudstore.New(storeCfg, a.registry,
			crudstore.WithLogger(a.log.WithField("store", storeCfg.ID)),
			crudstore.WithSuccessNotifier(a.console),
			crudstore.WithConfirmer(a.console),
			crudstore.WithFailureNotifier(failures),
		)
		if err != nil {
			return err
		}
		if err := crudstore.Register(a.catalog, s); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) serviceDefinitions(ctx context.Context) ([]registry.Definition, error) {
	switch a.cfg.Backend {
	case config.BackendDynamoDB:
		client, err := ddb.NewDynamoDBClient(ctx, ddb.ClientConfig{
			Region:    a.cfg.DynamoDB.Region,
			AccessKey: a.cfg.DynamoDB.AccessKey,
			SecretKey: a.cfg.DynamoDB.SecretKey,
			Endpoint:  a.cfg.DynamoDB.Endpoint,
		})
		if err != nil {
			return nil, err
		}
		return a.defs.DynamoDBServices(client, a.cfg.DynamoDB.Table,
			ddb.WithLogger(a.log),
			ddb.WithRetry(a.cfg.API.MaxRetries, httpsvc.DefaultRetryBackoff),
		), nil
	default:
		opts := []httpsvc.Option{
			httpsvc.WithTimeout(a.cfg.API.Timeout),
			httpsvc.WithToken(a.cfg.API.Token),
			httpsvc.WithRetry(a.cfg.API.MaxRetries, httpsvc.DefaultRetryBackoff),
			httpsvc.WithLogger(a.log),
		}
		if a.cfg.API.RateLimit > 0 {
			opts = append(opts, httpsvc.WithRateLimit(a.cfg.API.RateLimit, a.cfg.API.RateBurst))
		}
		if a.cfg.API.Public {
			for i := range a.defs.Resources {
				a.defs.Resources[i].Public = true
			}
		}
		return a.defs.HTTPServices(httpsvc.NewClient(a.cfg.API.BaseURL, opts...)), nil
	}
}

// store returns the definition and the store of resource
func (a *app) store(resource string) (resources.Definition, *crudstore.Store[Record], error) {
	d, err := a.defs.Get(resource)
	if err != nil {
		return resources.Definition{}, nil, pkgerrors.Wrapf(err, "available resources: %s", strings.Join(a.defs.Names(), ", "))
	}
	s, err := crudstore.Get[Record](a.catalog, d.StoreID)
	if err != nil {
		return resources.Definition{}, nil, err
	}
	return d, s, nil
}

// output renders items with the selected format and columns
func (a *app) output(items []Record, cols []string) error {
	format, err := export.ParseFormat(a.format)
	if err != nil {
		return err
	}
	opts := export.Options{Columns: cols}
	if len(a.columns) > 0 {
		opts.Columns = a.columns
	}
	if format == export.FormatCSV {
		opts.BOM = true
	}
	err = export.Write(a.out, format, items, opts)
	if stderrors.Is(err, export.ErrNoData) {
		fmt.Fprintln(a.errOut, err)
		return nil
	}
	return err
}

// report prints what the failure router collected. It returns true when
// something was shown.
func (a *app) report() bool {
	shown := false
	if st := a.snackbar.State(); st.Show {
		fmt.Fprintf(a.errOut, "error: %s\n", st.Text)
		a.snackbar.Close()
		shown = true
	}
	if st := a.validation.State(); st.Show {
		fields := make([]string, 0, len(st.Fields))
		for f := range st.Fields {
			fields = append(fields, f)
		}
		sort.Strings(fields)
		fmt.Fprintln(a.errOut, "error: validation failed")
		for _, f := range fields {
			fmt.Fprintf(a.errOut, "  %s: %s\n", f, strings.Join(st.Fields[f], "; "))
		}
		a.validation.Hide()
		shown = true
	}
	return shown
}
