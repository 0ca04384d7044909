/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	pkgerrors "github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/suparena/crudstore"
	"github.com/suparena/crudstore/errors"
	"github.com/suparena/crudstore/resourcemodels"
	"github.com/suparena/crudstore/service"
	"github.com/suparena/crudstore/service/httpsvc"
)

// Setup levels requested by a command through its annotations
const (
	setupKey    = "setup"
	setupNone   = "none"
	setupConfig = "config"
)

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "painel",
		Short:         "Manage the resources of the administration panel",
		Version:       crudstore.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			switch cmd.Annotations[setupKey] {
			case setupNone:
				return nil
			case setupConfig:
				return a.loadConfig()
			default:
				return a.setup(cmd.Context())
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.configPath, "config", "c", "", "path to YAML configuration file")
	pf.StringVar(&a.envFile, "env-file", ".env", "dotenv file loaded before the configuration")
	pf.StringVar(&a.resourcesPath, "resources", "", "resource definitions file, the builtin set when empty")
	pf.StringVarP(&a.format, "output", "o", "table", "output format: table, markdown, csv or json")
	pf.StringSliceVar(&a.columns, "columns", nil, "columns to show, comma separated")

	root.AddCommand(
		newListCommand(a),
		newSearchCommand(a),
		newGetCommand(a),
		newCreateCommand(a),
		newUpdateCommand(a),
		newPatchCommand(a),
		newDeleteCommand(a),
		newLookupCommand(a),
		newResourcesCommand(a),
		newVersionCommand(a),
	)
	return root
}

// pageSignal records what the store told the pager
type pageSignal int

const (
	signalNone pageSignal = iota
	signalLoaded
	signalComplete
	signalError
)

// loadPages runs first and keeps loading until pages were buffered, the
// sequence is exhausted or a load fails. With all set it only stops on the
// last two.
func loadPages(ctx context.Context, s *crudstore.Store[Record], first func(context.Context, crudstore.Pager), pages int, all bool) error {
	var signal pageSignal
	pager := crudstore.PagerFuncs{
		OnLoaded:   func() { signal = signalLoaded },
		OnComplete: func() { signal = signalComplete },
		OnError:    func() { signal = signalError },
	}

	first(ctx, pager)
	for n := 1; ; n++ {
		switch signal {
		case signalError:
			return pkgerrors.Wrapf(s.LastError(), "loading %s", s.ID())
		case signalNone, signalComplete:
			return nil
		}
		if !all && n >= pages {
			return nil
		}
		signal = signalNone
		s.LoadMore(ctx, pager)
	}
}

func newListCommand(a *app) *cobra.Command {
	var (
		pages  int
		all    bool
		sortBy string
		desc   bool
	)
	cmd := &cobra.Command{
		Use:   "list <resource>",
		Short: "List records of a resource",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, s, err := a.store(args[0])
			if err != nil {
				return err
			}

			first := s.FetchItems
			if sortBy != "" {
				order := resourcemodels.OrderBy{Key: sortBy, Order: resourcemodels.OrderAsc}
				if desc {
					order.Order = resourcemodels.OrderDesc
				}
				first = func(ctx context.Context, p crudstore.Pager) {
					s.OnOrderBy(ctx, p, []resourcemodels.OrderBy{order})
				}
			}
			if err := loadPages(cmd.Context(), s, first, pages, all); err != nil {
				return err
			}
			a.log.WithField("total", s.TotalItems()).Debug("list loaded")
			return a.output(s.Items(), d.Columns)
		},
	}
	cmd.Flags().IntVar(&pages, "pages", 1, "number of pages to load")
	cmd.Flags().BoolVar(&all, "all", false, "load every page")
	cmd.Flags().StringVar(&sortBy, "sort", "", "sort column, the resource default when empty")
	cmd.Flags().BoolVar(&desc, "desc", false, "sort descending")
	return cmd
}

func newSearchCommand(a *app) *cobra.Command {
	var (
		pages        int
		all          bool
		relationship string
	)
	cmd := &cobra.Command{
		Use:   "search <resource> <field> <value>",
		Short: "Search records of a resource by field",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, s, err := a.store(args[0])
			if err != nil {
				return err
			}
			term := resourcemodels.SearchTerm{Field: args[1], Search: args[2], Relationship: relationship}
			if !term.Valid() {
				return errors.NewValidationError("search", "field and value are required")
			}
			s.SetSearchTerm(term)
			if err := loadPages(cmd.Context(), s, s.Search, pages, all); err != nil {
				return err
			}
			return a.output(s.Items(), d.Columns)
		},
	}
	cmd.Flags().IntVar(&pages, "pages", 1, "number of pages to load")
	cmd.Flags().BoolVar(&all, "all", false, "load every page")
	cmd.Flags().StringVar(&relationship, "relationship", "", "relationship the field belongs to")
	return cmd
}

func newGetCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <resource> <id>",
		Short: "Show one record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, s, err := a.store(args[0])
			if err != nil {
				return err
			}
			rec, err := s.FetchItem(cmd.Context(), args[1])
			if err != nil {
				return err
			}
			return a.output([]Record{rec}, nil)
		},
	}
}

// writeFlags are the input flags of create and update
type writeFlags struct {
	data      string
	set       []string
	files     []string
	multipart bool
}

func (w *writeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&w.data, "data", "", "record as a JSON object, or @file")
	cmd.Flags().StringArrayVar(&w.set, "set", nil, "field=value, repeatable; JSON values keep their type")
	cmd.Flags().StringArrayVar(&w.files, "file", nil, "field=path of a file to upload, repeatable")
	cmd.Flags().BoolVar(&w.multipart, "multipart", false, "send as multipart/form-data")
}

func (w *writeFlags) input() (Record, error) {
	rec, err := recordInput(w.data, w.set)
	if err != nil {
		return nil, err
	}
	for _, spec := range w.files {
		field, path, ok := strings.Cut(spec, "=")
		if !ok || field == "" || path == "" {
			return nil, errors.NewValidationError("file", "expected field=path, got "+spec)
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, pkgerrors.Wrapf(err, "reading %s", path)
		}
		rec[field] = httpsvc.File{
			Name:        filepath.Base(path),
			ContentType: mime.TypeByExtension(filepath.Ext(path)),
			Content:     content,
		}
	}
	return rec, nil
}

func merge(dst, src Record) Record {
	out := dst.Clone()
	if out == nil {
		out = Record{}
	}
	for k, v := range src {
		out[k] = v
	}
	return out
}

func newCreateCommand(a *app) *cobra.Command {
	var w writeFlags
	cmd := &cobra.Command{
		Use:   "create <resource>",
		Short: "Create a record from the resource defaults and the given fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, s, err := a.store(args[0])
			if err != nil {
				return err
			}
			in, err := w.input()
			if err != nil {
				return err
			}
			s.SetData(merge(s.Data(), in))
			created, err := s.Save(cmd.Context(), w.multipart)
			if err != nil {
				return err
			}
			return a.output([]Record{created}, nil)
		},
	}
	w.register(cmd)
	return cmd
}

func newUpdateCommand(a *app) *cobra.Command {
	var w writeFlags
	cmd := &cobra.Command{
		Use:   "update <resource> <id>",
		Short: "Change fields of a record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, s, err := a.store(args[0])
			if err != nil {
				return err
			}
			in, err := w.input()
			if err != nil {
				return err
			}
			current, err := s.FetchItem(cmd.Context(), args[1])
			if err != nil {
				return err
			}
			rec := merge(current, in)
			if rec.ID() == "" {
				rec["id"] = args[1]
			}
			s.SetData(rec)
			updated, err := s.Update(cmd.Context(), w.multipart)
			if err != nil {
				return err
			}
			return a.output([]Record{updated}, nil)
		},
	}
	w.register(cmd)
	return cmd
}

func newPatchCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "patch <resource> <id> <field> <value>",
		Short: "Change a single field of a record, such as a proposal status",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, s, err := a.store(args[0])
			if err != nil {
				return err
			}
			rec, err := s.PatchItem(cmd.Context(), args[1], args[2], parseValue(args[3]))
			if err != nil {
				return err
			}
			if len(rec) == 0 {
				return nil
			}
			return a.output([]Record{rec}, nil)
		},
	}
}

func newDeleteCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <resource> <id>",
		Short: "Delete a record after confirmation",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, s, err := a.store(args[0])
			if err != nil {
				return err
			}
			return s.DialogDestroy(cmd.Context(), args[1])
		},
	}
	cmd.Flags().BoolVarP(&a.assumeYes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func newLookupCommand(a *app) *cobra.Command {
	var search string
	cmd := &cobra.Command{
		Use:   "lookup <resource> <name|path>",
		Short: "Show an auxiliary option list of a resource",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, s, err := a.store(args[0])
			if err != nil {
				return err
			}
			path := args[1]
			if l, ok := d.Lookup(path); ok {
				path = l.Path
			}
			looker, ok := s.Service().(service.Looker)
			if !ok {
				return pkgerrors.Wrapf(errors.ErrUnsupported, "lookups of %s", d.Name)
			}
			options, err := looker.Lookup(cmd.Context(), path, search)
			if err != nil {
				return err
			}
			return a.output(options, nil)
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "filter sent to the server")
	return cmd
}

func newResourcesCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:         "resources",
		Short:       "List the configured resources",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{setupKey: setupConfig},
		RunE: func(cmd *cobra.Command, _ []string) error {
			items := make([]Record, 0, len(a.defs.Resources))
			for _, d := range a.defs.Resources {
				lookups := make([]string, 0, len(d.Lookups))
				for _, l := range d.Lookups {
					lookups = append(lookups, l.Name)
				}
				items = append(items, Record{
					"name":     d.Name,
					"endpoint": d.Endpoint,
					"service":  d.ServiceName,
					"store":    d.StoreID,
					"sort_key": d.SortKey,
					"lookups":  lookups,
				})
			}
			return a.output(items, []string{"name", "endpoint", "service", "store", "sort_key", "lookups"})
		},
	}
}

func newVersionCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Show version information",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{setupKey: setupNone},
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintf(a.out, "painel version %s\n", crudstore.GetVersionInfo())
			return nil
		},
	}
}
