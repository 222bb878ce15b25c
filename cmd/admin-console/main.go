package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	admin "github.com/goliatone/go-cms-admin"
	"github.com/goliatone/go-cms-admin/internal/notify"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rootCmd := newRootCommand(newApp(os.Stdin, os.Stdout, os.Stderr))
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "admin-console: %v\n", err)
		os.Exit(1)
	}
}

// app holds the streams and settings shared by every subcommand.
type app struct {
	in  io.Reader
	out io.Writer
	err io.Writer

	envFiles  []string
	apiURL    string
	token     string
	exportDir string
}

func newApp(in io.Reader, out, errOut io.Writer) *app {
	return &app{in: in, out: out, err: errOut}
}

// module loads config from the environment, applies flag overrides and
// builds the admin module.
func (a *app) module(ctx context.Context) (*admin.Module, error) {
	cfg, err := admin.LoadConfig(ctx, a.envFiles...)
	if err != nil {
		return nil, err
	}
	if a.apiURL != "" {
		cfg.API.BaseURL = a.apiURL
	}
	if a.token != "" {
		cfg.API.Token = a.token
	}
	if a.exportDir != "" {
		cfg.Export.Dir = a.exportDir
	}
	return admin.New(cfg, admin.WithNotifier(notify.Writer(a.err)))
}

func newRootCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin-console",
		Short: "Manage CMS resources from the terminal",
		Long: `admin-console lists, exports, creates, updates and deletes CMS records through the
backend REST API, using the same list controller as the admin console pages.`,
		SilenceUsage: true,
	}
	cmd.SetIn(a.in)
	cmd.SetOut(a.out)
	cmd.SetErr(a.err)

	flags := cmd.PersistentFlags()
	flags.StringSliceVar(&a.envFiles, "env-file", nil, "Dotenv files to load before reading ADMIN_* variables")
	flags.StringVar(&a.apiURL, "api", "", "Backend base URL (overrides ADMIN_API_BASE_URL)")
	flags.StringVar(&a.token, "token", "", "Bearer token (overrides ADMIN_API_TOKEN)")
	flags.StringVar(&a.exportDir, "export-dir", "", "Directory receiving exports (overrides ADMIN_EXPORT_DIR)")

	cmd.AddCommand(
		newResourcesCmd(a),
		newListCmd(a),
		newDeleteCmd(a),
		newExportCmd(a),
		newSaveCmd(a, false),
		newSaveCmd(a, true),
		newSignInCmd(a),
	)
	return cmd
}
