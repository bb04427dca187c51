// Package mvc is the myblog command line: it serves the blog and manages
// the Badger database behind it.
package mvc

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"myblog/app/config"
	"myblog/app/logger"
	"myblog/app/repositories"
)

// Version is overridden at link time with -ldflags "-X myblog/mvc.Version=...".
var Version = "1.0.0"

func Execute() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// rootOptions carries the persistent flags shared by every subcommand.
type rootOptions struct {
	configPath string
}

func (o *rootOptions) load(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, nil, err
	}
	log := logger.NewWithWriter(cmd.ErrOrStderr(), cfg.Env, cfg.Log.Level)
	return cfg, log, nil
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "myblog",
		Short:        "A small blog: posts, comments and staff moderation",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Config file (default ./config/config.yaml if present)")

	cmd.AddCommand(
		serveCmd(opts),
		initCmd(opts),
		cleanCmd(opts),
		backupCmd(opts),
		restoreCmd(opts),
		createUserCmd(opts),
		versionCmd(),
	)
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "myblog version %s\n", Version)
		},
	}
}

func openStore(cfg *config.Config, log *slog.Logger) (*repositories.Store, error) {
	return repositories.Open(repositories.Options{
		Path:       cfg.Database.Path,
		InMemory:   cfg.Database.InMemory,
		SyncWrites: cfg.Database.SyncWrites,
		Logger:     log,
	})
}

// confirm asks a yes/no question on the command's input. Anything but
// y or yes is a no.
func confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N] ", question)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
