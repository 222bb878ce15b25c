package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	admin "github.com/goliatone/go-cms-admin"
	"github.com/goliatone/go-cms-admin/internal/export"
	adminhttp "github.com/goliatone/go-cms-admin/internal/http"
	"github.com/goliatone/go-cms-admin/internal/logging"
	"github.com/goliatone/go-cms-admin/internal/records"
	"github.com/goliatone/go-cms-admin/internal/resources"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "admin-devserver: %v\n", err)
		os.Exit(1)
	}
}

type serverOptions struct {
	addr       string
	envFiles   []string
	driver     string
	dsn        string
	uploadsDir string
	seed       bool
	email      string
	password   string
	token      string
}

func newRootCommand() *cobra.Command {
	opts := serverOptions{}
	cmd := &cobra.Command{
		Use:          "admin-devserver",
		Short:        "Serve the built-in resources from a local database",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&opts.addr, "addr", ":8080", "Listen address")
	flags.StringVar(&opts.driver, "driver", "", "Storage driver: sqlite or postgres (overrides ADMIN_STORAGE_DRIVER)")
	flags.StringVar(&opts.dsn, "dsn", "", "Storage DSN (overrides ADMIN_STORAGE_DSN)")
	flags.StringSliceVar(&opts.envFiles, "env-file", nil, "Dotenv files to load before reading ADMIN_* variables")
	flags.StringVar(&opts.uploadsDir, "uploads-dir", "", "Directory receiving multipart uploads (disabled when empty)")
	flags.BoolVar(&opts.seed, "seed", true, "Seed empty resources with sample records")
	flags.StringVar(&opts.email, "signin-email", "", "Require sign-in with this email")
	flags.StringVar(&opts.password, "signin-password", "", "Password paired with --signin-email")
	flags.StringVar(&opts.token, "signin-token", "dev-token", "Token issued on sign-in")
	return cmd
}

func run(ctx context.Context, opts serverOptions) error {
	cfg, err := admin.LoadConfig(ctx, opts.envFiles...)
	if err != nil {
		return err
	}
	if opts.driver != "" {
		cfg.Storage.Driver = opts.driver
	}
	if opts.dsn != "" {
		cfg.Storage.DSN = opts.dsn
	}
	module, err := admin.New(cfg)
	if err != nil {
		return err
	}
	logger := logging.ModuleLogger(module.Container().LoggerProvider(), "admin.devserver")

	db, err := records.Open(cfg.Storage.Driver, cfg.Storage.DSN)
	if err != nil {
		return err
	}
	defer db.Close()

	handler, err := newHandler(ctx, db, module, opts)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              opts.addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("devserver listening", "addr", opts.addr, "driver", cfg.Storage.Driver, "resources", resources.Names())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// newHandler migrates db and mounts every built-in page on a fresh mux.
func newHandler(ctx context.Context, db *bun.DB, module *admin.Module, opts serverOptions) (http.Handler, error) {
	provider := module.Container().LoggerProvider()
	store, err := records.NewStore(db, records.WithLogger(logging.RecordsLogger(provider)))
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		return nil, err
	}

	apiOpts := []adminhttp.Option{
		adminhttp.WithBasePath(module.Config().API.Prefix),
		adminhttp.WithLogger(logging.ModuleLogger(provider, "admin.http")),
	}
	if opts.uploadsDir != "" {
		apiOpts = append(apiOpts, adminhttp.WithUploads(export.DirSink{Dir: opts.uploadsDir}, "/uploads"))
	}
	if opts.email != "" {
		apiOpts = append(apiOpts, adminhttp.WithSignIn(adminhttp.SignIn{
			Email:    opts.email,
			Password: opts.password,
			Token:    opts.token,
		}))
	}
	api := adminhttp.NewAPI(store, apiOpts...)

	var seeder adminhttp.Seeder
	if opts.seed {
		seeder = store
	}
	if err := api.MountPages(ctx, seeder, resources.Pages(module.PageOptions())); err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	if err := api.Register(mux); err != nil {
		return nil, err
	}
	if opts.uploadsDir != "" {
		mux.HandleFunc("GET /uploads/{resource}/{name}", serveUpload(opts.uploadsDir))
	}
	return mux, nil
}

// serveUpload maps a public upload path onto the flat file the upload sink
// wrote for it.
func serveUpload(dir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := filepath.Base(r.PathValue("resource") + "_" + r.PathValue("name"))
		http.ServeFile(w, r, filepath.Join(dir, name))
	}
}
