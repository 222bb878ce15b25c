package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	admin "github.com/goliatone/go-cms-admin"
	"github.com/goliatone/go-cms-admin/internal/export"
	"github.com/goliatone/go-cms-admin/internal/transport"
	"github.com/spf13/cobra"
)

func newResourcesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "resources",
		Short: "List the built-in resource pages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range admin.Resources() {
				fmt.Fprintln(a.out, name)
			}
			return nil
		},
	}
}

func newListCmd(a *app) *cobra.Command {
	var (
		query    string
		page     int
		pageSize int
	)
	cmd := &cobra.Command{
		Use:   "list <resource>",
		Short: "Print one page of a resource table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			module, err := a.module(ctx)
			if err != nil {
				return err
			}
			controller, err := admin.NewResourcePage(module, args[0])
			if err != nil {
				return err
			}
			defer controller.Unmount()

			if err := controller.Load(ctx); err != nil {
				return err
			}
			if pageSize > 0 {
				if err := controller.SetPageSize(ctx, pageSize); err != nil {
					return err
				}
			}
			controller.SetQuery(ctx, query)
			controller.GotoPage(ctx, page-1)

			fmt.Fprintln(a.out, renderTable(controller.View(ctx)))
			return nil
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "Filter rows containing this text")
	cmd.Flags().IntVarP(&page, "page", "p", 1, "One-based page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "Rows per page (defaults to ADMIN_TABLE_PAGE_SIZE)")
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <resource> <id>",
		Short: "Delete one record after confirmation",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := parseID(args[1])
			if err != nil {
				return err
			}
			module, err := a.module(ctx)
			if err != nil {
				return err
			}
			controller, err := admin.NewResourcePage(module, args[0])
			if err != nil {
				return err
			}
			defer controller.Unmount()

			if err := controller.RequestDelete(id); err != nil {
				return err
			}
			if !yes && !confirm(a, fmt.Sprintf("Delete %s record %d? [y/N] ", args[0], id)) {
				controller.CancelDelete(id)
				return nil
			}
			return controller.ConfirmDelete(ctx, id)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func confirm(a *app, prompt string) bool {
	fmt.Fprint(a.out, prompt)
	answer, err := bufio.NewReader(a.in).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

func newExportCmd(a *app) *cobra.Command {
	var format, out string
	cmd := &cobra.Command{
		Use:   "export <resource>",
		Short: "Export every record of a resource to PDF or XLSX",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			parsed, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			if out != "" {
				a.exportDir = out
			}
			module, err := a.module(ctx)
			if err != nil {
				return err
			}
			controller, err := admin.NewResourcePage(module, args[0])
			if err != nil {
				return err
			}
			defer controller.Unmount()

			if err := controller.Load(ctx); err != nil {
				return err
			}
			result, err := controller.Export(ctx, parsed)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, result.Location)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", string(export.FormatXLSX), "Export format: pdf or xlsx")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output directory (overrides --export-dir)")
	return cmd
}

func newSaveCmd(a *app, updating bool) *cobra.Command {
	var (
		fields []string
		files  []string
	)
	use, short, nargs := "create <resource>", "Create a record", 1
	if updating {
		use, short, nargs = "update <resource> <id>", "Update a record", 2
	}
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(nargs),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var id int64
			if updating {
				parsed, err := parseID(args[1])
				if err != nil {
					return err
				}
				id = parsed
			}
			payload, err := buildPayload(fields, files)
			if err != nil {
				return err
			}
			module, err := a.module(ctx)
			if err != nil {
				return err
			}
			controller, err := admin.NewResourcePage(module, args[0])
			if err != nil {
				return err
			}
			defer controller.Unmount()

			if err := controller.Save(ctx, id, payload); err != nil {
				if apiErr, ok := transport.AsError(err); ok && apiErr.Kind == transport.KindValidation {
					for field, msg := range apiErr.FieldMessages() {
						fmt.Fprintf(a.err, "  %s: %s\n", field, msg)
					}
				}
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&fields, "field", nil, "Field value as key=value (repeatable)")
	cmd.Flags().StringArrayVar(&files, "file", nil, "File upload as key=path (repeatable)")
	return cmd
}

func buildPayload(fields, files []string) (transport.Payload, error) {
	payload := transport.Payload{Fields: map[string]string{}}
	for _, raw := range fields {
		key, value, ok := strings.Cut(raw, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return payload, fmt.Errorf("invalid --field %q, expected key=value", raw)
		}
		payload.Fields[strings.TrimSpace(key)] = value
	}
	for _, raw := range files {
		key, path, ok := strings.Cut(raw, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return payload, fmt.Errorf("invalid --file %q, expected key=path", raw)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return payload, fmt.Errorf("read %s: %w", path, err)
		}
		if payload.Files == nil {
			payload.Files = map[string]transport.FileField{}
		}
		payload.Files[strings.TrimSpace(key)] = transport.FileField{Name: filepath.Base(path), Data: data}
	}
	return payload, nil
}

func newSignInCmd(a *app) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "signin",
		Short: "Sign in and print the issued token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			module, err := a.module(ctx)
			if err != nil {
				return err
			}
			if err := module.SignIn(ctx, email, password); err != nil {
				return err
			}
			fmt.Fprintln(a.out, module.Client().Token())
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid record id %q", raw)
	}
	return id, nil
}
