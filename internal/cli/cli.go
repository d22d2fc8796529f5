package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/bowerimport/pkg/bower"
	"github.com/matzehuels/bowerimport/pkg/buildinfo"
	"github.com/matzehuels/bowerimport/pkg/cache"
	"github.com/matzehuels/bowerimport/pkg/config"
	"github.com/matzehuels/bowerimport/pkg/convert"
	"github.com/matzehuels/bowerimport/pkg/mainfile"
	"github.com/matzehuels/bowerimport/pkg/output"
	"github.com/matzehuels/bowerimport/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "bowerimport"

	// answersSubdir holds remembered prompt answers inside the cache directory.
	answersSubdir = "answers"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Prompter answers interactive questions. Nil selects a terminal or
	// line prompter on stdin.
	Prompter mainfile.Prompter
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "bowerimport converts bower packages into AMD modules",
		Long: `bowerimport turns every installed bower dependency of a project into an AMD
module next to the package: plain scripts are shimmed, AMD modules with
relative dependencies get an adapter, and self-contained AMD modules are copied.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.projectCommand())
	root.AddCommand(c.singleCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.answersCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Shared Flags
// =============================================================================

// projectFlags are the flags shared by commands that operate on a project.
type projectFlags struct {
	lister    string
	directory string
	ignore    []string
	noAnswers bool
}

func (f *projectFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.lister, "lister", config.ListerBower, "how to list dependencies: bower (run bower list) or dir (read bower.json)")
	cmd.Flags().StringVar(&f.directory, "directory", "", "components directory for --lister dir (default from .bowerrc)")
	cmd.Flags().StringSliceVar(&f.ignore, "ignore", nil, "additional package names to skip")
	cmd.Flags().BoolVar(&f.noAnswers, "no-answers", false, "do not read or store remembered prompt answers")
}

// loadConfig reads bowerimport.toml from dir and applies explicitly set flags.
func (f *projectFlags) loadConfig(cmd *cobra.Command, dir string) (config.Config, error) {
	cfg, err := config.Load(dir)
	if err != nil {
		return cfg, err
	}
	if cmd.Flags().Changed("lister") {
		cfg.Lister = f.lister
	}
	if cmd.Flags().Changed("directory") {
		cfg.Directory = f.directory
	}
	if f.noAnswers {
		cfg.Answers = false
	}
	cfg.Ignore = append(cfg.Ignore, f.ignore...)
	return cfg, cfg.Validate()
}

// =============================================================================
// Factories
// =============================================================================

// session bundles the collaborators of one command invocation.
type session struct {
	cfg       config.Config
	store     cache.Cache
	converter *convert.Converter
	logger    *log.Logger
}

func (s *session) Close() error {
	return s.store.Close()
}

// newSession wires resolver, converter and writer for cfg.
func (c *CLI) newSession(ctx context.Context, cfg config.Config, dryRun bool) *session {
	logger := loggerFromContext(ctx)
	store := newAnswerStore(cfg.Answers, logger)
	answers := cache.NewAnswers(store, cache.DefaultAnswerTTL)
	prompter := c.prompter()

	conv := convert.New(convert.Config{
		Resolver: mainfile.NewResolver(prompter, answers, logger),
		Writer: output.NewWriter(
			output.WithMungeSuffix(cfg.MungeSuffix),
			output.WithDryRun(dryRun),
			output.WithLogger(logger),
		),
		Prompter: prompter,
		Answers:  answers,
		Ignore:   cfg.Ignore,
		Logger:   logger,
	})
	return &session{cfg: cfg, store: store, converter: conv, logger: logger}
}

// runner creates a pipeline runner listing the project in dir.
func (s *session) runner(dir string) *pipeline.Runner {
	var lister bower.Lister
	switch s.cfg.Lister {
	case config.ListerDir:
		lister = bower.NewDirLister(dir, s.cfg.Directory)
	default:
		lister = bower.NewExecLister(s.cfg.Bower, dir, s.cfg.Offline)
	}
	return pipeline.NewRunner(lister, s.converter, s.logger)
}

func (c *CLI) prompter() mainfile.Prompter {
	if c.Prompter != nil {
		return c.Prompter
	}
	return newPrompter(os.Stdin, os.Stderr)
}

// newAnswerStore opens the persistent answer cache, falling back to a null
// cache when persistence is disabled or unavailable.
func newAnswerStore(enabled bool, logger *log.Logger) cache.Cache {
	if !enabled {
		return cache.NewNullCache()
	}
	dir, err := answersDir()
	if err != nil {
		return cache.NewNullCache()
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		logger.Debug("answer cache unavailable", "dir", dir, "err", err)
		return cache.NewNullCache()
	}
	return fc
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/bowerimport/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// answersDir returns where prompt answers are remembered.
func answersDir() (string, error) {
	dir, err := cacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, answersSubdir), nil
}

// projectDir returns the first argument or the working directory.
func projectDir(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}
