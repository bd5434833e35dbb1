package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/bastiangx/axserve/internal/cli"
	"github.com/bastiangx/axserve/internal/logger"
	"github.com/bastiangx/axserve/internal/lsp"
	"github.com/bastiangx/axserve/internal/utils"
	"github.com/bastiangx/axserve/pkg/catalog"
	"github.com/bastiangx/axserve/pkg/config"
	"github.com/bastiangx/axserve/pkg/language"
	"github.com/bastiangx/axserve/pkg/server"
	"github.com/bastiangx/axserve/pkg/suggest"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// app carries what the persistent flags resolve to.
type app struct {
	configFile string
	debug      bool

	cfg     *config.Config
	cfgPath string
	catalog *catalog.Catalog
}

// needsConfig reports whether cmd reads the config file.
func needsConfig(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "help", "completion", "__complete", "version", "langconfig", "list", "rebuild":
		return false
	}
	return true
}

func newRootCmd() *cobra.Command {
	a := &app{catalog: catalog.Default()}

	rootCmd := &cobra.Command{
		Use:   AppName,
		Short: "AXServe - AXS script completion",
		Long: `AXServe offers autocompletion for AXS scripts.

It runs as a MessagePack IPC server for editor plugins, as a Language Server
Protocol server, or as an interactive prompt for trying completions.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if a.debug {
				log.SetLevel(log.DebugLevel)
			}
			if err := catalog.Validate(a.catalog); err != nil {
				return fmt.Errorf("catalog is inconsistent: %w", err)
			}
			if !needsConfig(cmd) {
				logger.Setup("", a.debug)
				return nil
			}

			cfg, path, err := config.LoadConfigWithPriority(a.configFile)
			if err != nil {
				return err
			}
			a.cfg, a.cfgPath = cfg, path
			logger.Setup(cfg.Log.Level, a.debug)
			log.Debugf("Using config: %s", config.GetActiveConfigPath(path))
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), a, a.cfg.Server.Watch)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&a.configFile, "config", "", "config file (default: [UserConfigDir]/axserve/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&a.debug, "debug", "d", false, "Toggle debug mode")

	rootCmd.AddCommand(newServeCmd(a))
	rootCmd.AddCommand(newLSPCmd(a))
	rootCmd.AddCommand(newReplCmd(a))
	rootCmd.AddCommand(newListCmd(a))
	rootCmd.AddCommand(newLangConfigCmd())
	rootCmd.AddCommand(newConfigCmd(a))
	rootCmd.AddCommand(newVersionCmd(a))

	return rootCmd
}

func newServeCmd(a *app) *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MessagePack IPC server on stdin/stdout",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), a, watch || a.cfg.Server.Watch)
		},
	}
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Reload the config file when it changes")
	return cmd
}

func runServe(parent context.Context, a *app, watch bool) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	srv := server.NewServer(os.Stdin, os.Stdout, server.Options{
		Catalog:    a.catalog,
		Config:     a.cfg,
		ConfigPath: a.cfgPath,
		Logger:     logger.New("ipc"),
	})
	showStartupInfo(a)

	eg, egctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		defer cancel()
		return srv.Start(egctx)
	})
	if w := newWatcher(a, watch, srv.ApplyConfig); w != nil {
		eg.Go(func() error { return w.Run(egctx) })
	}
	return eg.Wait()
}

func newLSPCmd(a *app) *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server",
		Long: `Start the LSP server for editor integration.

The server communicates over stdin/stdout using JSON-RPC and offers
completion and hover for AXS documents.`,
		Example: `  # Start LSP server (usually called by an editor)
  axserve lsp`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			srv := lsp.NewServer(os.Stdin, os.Stdout, lsp.Options{
				Catalog: a.catalog,
				Config:  a.cfg,
				Logger:  logger.New("lsp"),
				Version: Version,
			})
			if w := newWatcher(a, watch || a.cfg.Server.Watch, srv.ApplyConfig); w != nil {
				go func() {
					if err := w.Run(ctx); err != nil {
						log.Error("config watcher stopped", "error", err)
					}
				}()
			}
			return srv.Run()
		},
	}
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Reload the config file when it changes")
	return cmd
}

// newWatcher returns nil when watching is off or there is no file to watch.
func newWatcher(a *app, watch bool, apply func(*config.Config)) *config.Watcher {
	if !watch {
		return nil
	}
	if a.cfgPath == "" {
		log.Warn("No config file in use, --watch ignored")
		return nil
	}
	return config.NewWatcher(a.cfgPath, apply, logger.New("config"))
}

func newReplCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "repl",
		Aliases: []string{"cli"},
		Short:   "Try completions interactively",
		Long: `Read line prefixes from stdin and print what would be offered.

Each line is taken as the text before the cursor. Useful for testing and
debugging before wiring an editor.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			log.Debug("Input info:", "prompt", a.cfg.CLI.Prompt, "maxPrefix", a.cfg.Server.MaxPrefix, "color", a.cfg.CLI.Color)
			h := cli.NewInputHandler(suggest.NewCompleter(a.catalog), a.cfg)
			return h.Start()
		},
	}
}

func newListCmd(a *app) *cobra.Command {
	var (
		names      []string
		prefix     string
		ignoreCase bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the functions of the catalog",
		Example: `  # Every function
  axserve list

  # Form builders starting with create_
  axserve list --ns form --prefix create_`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := cli.ListOptions{Prefix: prefix, IgnoreCase: ignoreCase}
			for _, name := range names {
				ns, ok := catalog.ParseNamespace(name)
				if !ok {
					return fmt.Errorf("unknown namespace %q", name)
				}
				if !slices.Contains(opts.Namespaces, ns) {
					opts.Namespaces = append(opts.Namespaces, ns)
				}
			}
			cli.RenderCatalog(cmd.OutOrStdout(), a.catalog, opts)
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&names, "ns", nil, "Namespaces to list (ax, form, menu, command)")
	cmd.Flags().StringVarP(&prefix, "prefix", "p", "", "Only names starting with this prefix")
	cmd.Flags().BoolVarP(&ignoreCase, "ignore-case", "i", false, "Match the prefix case-insensitively")
	_ = cmd.RegisterFlagCompletionFunc("ns", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		out := make([]string, 0, len(catalog.Namespaces))
		for _, ns := range catalog.Namespaces {
			out = append(out, ns.String())
		}
		return out, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

func newLangConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "langconfig",
		Short: "Print the AXS language configuration as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := json.MarshalIndent(language.AXS(), "", "  ")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		},
	}
}

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or reset the config file",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file in use",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), config.GetActiveConfigPath(a.cfgPath))
			return err
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "rebuild",
		Short: "Overwrite the default config file with the built-in defaults",
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := config.RebuildConfigFile()
			if err != nil {
				return fmt.Errorf("rebuild config: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), path)
			return err
		},
	})
	return cmd
}

func newVersionCmd(a *app) *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			out := log.NewWithOptions(cmd.OutOrStdout(), log.Options{
				ReportCaller:    false,
				ReportTimestamp: false,
				Prefix:          "",
			})

			styles := log.DefaultStyles()
			styles.Values["version"] = lipgloss.NewStyle().Bold(true).
				Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}).
				Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})
			styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
				Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
			out.SetStyles(styles)

			out.Print("")
			out.Print("[ AXServe ] Completions for AXS scripts")
			out.Print("", "version", Version)
			out.Print("")
			out.Print("use -h or --help to see available commands")
			out.Print("Github Repo", "gh", gh)

			if !verbose {
				return
			}
			out.Print("")
			info := utils.NewPathResolver(config.AppName).GetRuntimeInfo()
			keys := make([]string, 0, len(info))
			for k := range info {
				keys = append(keys, k)
			}
			slices.Sort(keys)
			for _, k := range keys {
				out.Print(k, "value", info[k])
			}
			cli.RenderStats(cmd.OutOrStdout(), a.catalog.Stats())
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Also print runtime paths and catalog sizes")
	return cmd
}

// showStartupInfo displays some basic info about the init process.
func showStartupInfo(a *app) {
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)
	defer log.SetLevel(currentLevel)

	log.Infof("AXServe %s", Version)
	log.Infof("Process ID: [ %d ]", os.Getpid())
	log.Infof("config: ( %s )", config.GetActiveConfigPath(a.cfgPath))
	stats := a.catalog.Stats()
	log.Info("catalog", "ax", stats["ax"], "form", stats["form"], "menu", stats["menu"], "command", stats["command"])
	log.Info("status: ready")
}
