package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"heartrain/cmd/heartrain/anim"
	"heartrain/cmd/heartrain/ui"
	"heartrain/internal/config"
	"heartrain/internal/doccheck"
	"heartrain/internal/logging"
	"heartrain/internal/report"
	"heartrain/internal/store"
	"heartrain/internal/theme"
)

// Build identification, set via -ldflags at release time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	// Global flags
	verbose    bool
	configPath string

	// Animation flags
	fps         int
	duration    time.Duration
	seed        int64
	noIntro     bool
	largeHearts bool
	themeFile   string

	// status flags
	statusRaw    bool
	statusOutput string
	statusWidth  int

	// stats flags
	statsLimit int

	// theme init flags
	themeForce bool

	logger  *zap.Logger
	userCfg *config.UserConfig
)

// rootCmd runs the animation when invoked without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "heartrain",
	Short: "A terminal rain of hearts, with a status report to match",
	Long: `heartrain rains glyph hearts down your terminal: a short boot
sequence, then an endless pink drizzle that twinkles as it falls.
Ctrl+C exits with a farewell.

The subcommands manage the other half of the project: a relationship
status report that files feelings the way software files issues.

Run without arguments to start the rain.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var cfgErr error
		if configPath != "" {
			userCfg, cfgErr = config.Load(configPath)
		} else {
			userCfg, cfgErr = config.LoadDefault()
		}
		if userCfg == nil {
			userCfg = &config.UserConfig{}
		}

		var err error
		logger, _, err = logging.New(logging.Options{
			Verbose: verbose,
			ToFile:  userCfg.LogToFile || verbose,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		if cfgErr != nil {
			logger.Warn("config unusable, using defaults", zap.Error(cfgErr))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runAnimation,
}

// statusCmd renders the relationship status report.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Render the relationship status report",
	Long: `Generates the status report document: current service health,
the open issue tracker, the roadmap, and the tech stack. When past
animation sessions exist their lifetime metrics are folded in.

By default the document renders styled for the terminal; --raw prints
the markdown source and --output writes it to a file.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

// checkCmd verifies document-format guarantees.
var checkCmd = &cobra.Command{
	Use:   "check [file...]",
	Short: "Verify status documents keep their format promises",
	Long: `Checks that a document parses as markdown, is non-empty, carries
only static text and emoji, contains no code blocks, and renders
identically twice. With no arguments the freshly generated status
report is checked; with file arguments each file is checked
concurrently and reported in argument order.

Exits 2 when any check fails.`,
	RunE: runCheck,
}

// statsCmd summarizes recorded animation sessions.
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show statistics from past animation runs",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

// themeCmd groups theme file management.
var themeCmd = &cobra.Command{
	Use:   "theme",
	Short: "Manage the rain's theme file",
}

var themeInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default theme file for editing",
	Long: `Writes the built-in theme (glyph pools, palette, messages, spawn
weights, speeds) as YAML so it can be edited. The animation watches the
file and reloads it live.`,
	Args: cobra.NoArgs,
	RunE: runThemeInit,
}

var themePathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the theme file location",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(resolveThemePath())
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build identification",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("heartrain %s (commit %s, built %s)\n", version, commit, date)
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: $XDG_CONFIG_HOME/heartrain/config.json)")

	// Animation flags
	rootCmd.Flags().IntVar(&fps, "fps", config.DefaultFPS, fmt.Sprintf("Animation frame rate (1-%d)", config.MaxFPS))
	rootCmd.Flags().DurationVar(&duration, "duration", 0, "Stop after this long (0 runs until interrupted)")
	rootCmd.Flags().Int64Var(&seed, "seed", 0, "Random seed (0 picks one from the clock)")
	rootCmd.Flags().BoolVar(&noIntro, "no-intro", false, "Skip the boot screen")
	rootCmd.Flags().BoolVar(&largeHearts, "large-hearts", false, "Mix double-width emoji hearts into the rain")
	rootCmd.Flags().StringVar(&themeFile, "theme", "", "Theme file (default: $XDG_CONFIG_HOME/heartrain/theme.yaml)")

	statusCmd.Flags().BoolVar(&statusRaw, "raw", false, "Print raw markdown instead of rendering")
	statusCmd.Flags().StringVarP(&statusOutput, "output", "o", "", "Write the document to a file")
	statusCmd.Flags().IntVar(&statusWidth, "width", 0, "Render width (0 uses the default)")

	statsCmd.Flags().IntVar(&statsLimit, "limit", 10, "Number of recent sessions to list")

	themeInitCmd.Flags().BoolVar(&themeForce, "force", false, "Overwrite an existing theme file")
	themeCmd.AddCommand(themeInitCmd)
	themeCmd.AddCommand(themePathCmd)

	// Add commands to root
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(themeCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// resolveThemePath applies flag > config > default precedence.
func resolveThemePath() string {
	if themeFile != "" {
		return themeFile
	}
	return userCfg.GetThemeFile()
}

// runAnimation starts the rain and blocks until it ends.
func runAnimation(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown. Ctrl+C arrives as a key while the terminal
	// is raw; this catches signals sent from outside.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Info("received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
	}()

	resolvedFPS := userCfg.GetFPS()
	if cmd.Flags().Changed("fps") {
		resolvedFPS = config.ClampFPS(fps)
	}
	large := userCfg.LargeHearts
	if cmd.Flags().Changed("large-hearts") {
		large = largeHearts
	}
	intro := userCfg.GetIntroDuration()
	if noIntro {
		intro = 0
	}

	themePath := resolveThemePath()
	var th *theme.Theme
	watchPath := ""
	if loaded, err := theme.Load(themePath); err == nil {
		th = loaded
		watchPath = themePath
	} else if !errors.Is(err, os.ErrNotExist) {
		logger.Warn("theme unusable, using the built-in",
			zap.String("path", themePath),
			zap.Error(err),
		)
	}

	opts := anim.Options{
		FPS:         resolvedFPS,
		Intro:       intro,
		Duration:    duration,
		Seed:        seed,
		LargeHearts: large,
		SpawnChance: userCfg.GetMaxSpawnChance(),
		SpawnRamp:   userCfg.GetSpawnRamp(),
		Theme:       th,
		ThemePath:   watchPath,
		Log:         logger,
	}

	if s, err := store.Open(userCfg.GetDatabasePath()); err != nil {
		logger.Warn("session store unavailable", zap.Error(err))
	} else {
		defer s.Close()
		opts.Store = s
	}

	return anim.RunAnimation(ctx, opts)
}

// runStatus builds the status document and prints or saves it.
func runStatus(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	opts := report.BuildOptions{GeneratedAt: time.Now()}

	if th, err := theme.Load(resolveThemePath()); err == nil {
		opts.Theme = th
	}

	// Fold in lifetime metrics when any sessions exist.
	if s, err := store.Open(userCfg.GetDatabasePath()); err == nil {
		if totals, terr := s.Totals(ctx); terr == nil && totals.Sessions > 0 {
			opts.Totals = &totals
		}
		s.Close()
	}

	doc, err := report.Build(opts)
	if err != nil {
		return fmt.Errorf("failed to build status report: %w", err)
	}

	if statusOutput != "" {
		if err := os.WriteFile(statusOutput, doc, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", statusOutput, err)
		}
		logger.Info("status report written",
			zap.String("path", statusOutput),
			zap.Int("bytes", len(doc)),
		)
		return nil
	}
	if statusRaw {
		fmt.Print(string(doc))
		return nil
	}
	fmt.Print(report.RenderTerminal(doc, statusWidth))
	return nil
}

// runCheck verifies documents and exits 2 on any failed check.
func runCheck(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		doc, err := report.Build(report.BuildOptions{GeneratedAt: time.Now()})
		if err != nil {
			return fmt.Errorf("failed to build status report: %w", err)
		}
		rep := doccheck.Run(doc)
		rep.Path = "(generated)"
		fmt.Print(rep.String())
		failed := !rep.OK()
		fmt.Println(checkSummary(ui.DefaultStyles(), failed))
		exitOnFailure(failed)
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reports := make([]doccheck.Report, len(args))
	g, ctx := errgroup.WithContext(ctx)
	for i, path := range args {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			src, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}
			rep := doccheck.Run(src)
			rep.Path = path
			reports[i] = rep
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	failed := false
	for _, rep := range reports {
		fmt.Print(rep.String())
		if !rep.OK() {
			failed = true
		}
	}
	fmt.Println(checkSummary(ui.DefaultStyles(), failed))
	exitOnFailure(failed)
	return nil
}

// checkSummary is the one-line verdict printed after the per-check report.
func checkSummary(styles ui.Styles, failed bool) string {
	if failed {
		return styles.Error.Render("checks failed")
	}
	return styles.Success.Render("all checks passed")
}

// exitOnFailure flushes the log and exits 2 when failed is set. Check
// violations are a distinct exit code from runtime errors.
func exitOnFailure(failed bool) {
	if !failed {
		return
	}
	if logger != nil {
		_ = logger.Sync()
	}
	os.Exit(2)
}

// runStats prints lifetime totals and the most recent sessions.
func runStats(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s, err := store.Open(userCfg.GetDatabasePath())
	if err != nil {
		return fmt.Errorf("failed to open session store: %w", err)
	}
	defer s.Close()

	totals, err := s.Totals(ctx)
	if err != nil {
		return fmt.Errorf("failed to aggregate sessions: %w", err)
	}

	var recent []store.Session
	if totals.Sessions > 0 {
		recent, err = s.RecentSessions(ctx, statsLimit)
		if err != nil {
			return fmt.Errorf("failed to list sessions: %w", err)
		}
	}

	fmt.Print(renderStats(ui.DefaultStyles(), totals, recent))
	return nil
}

// renderStats formats lifetime totals and the recent session list. Labels
// stay unstyled so their column padding survives ANSI-capable terminals.
func renderStats(styles ui.Styles, totals store.Totals, recent []store.Session) string {
	if totals.Sessions == 0 {
		return styles.Muted.Render("No sessions recorded yet. Run heartrain to make it rain.") + "\n"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Sessions:       %d\n", totals.Sessions)
	fmt.Fprintf(&sb, "Time in rain:   %s\n", totals.TotalDuration.Round(time.Second))
	fmt.Fprintf(&sb, "Hearts rained:  %d\n", totals.TotalHearts)
	fmt.Fprintf(&sb, "Peak on screen: %d\n", totals.MaxPeak)
	fmt.Fprintf(&sb, "Longest run:    %s\n", totals.Longest.Round(time.Second))

	if len(recent) == 0 {
		return sb.String()
	}

	sb.WriteString("\n" + styles.RenderDivider(32) + "\n")
	sb.WriteString(styles.Bold.Render("Recent sessions:") + "\n")
	for _, sess := range recent {
		marker := ""
		if !sess.CleanExit {
			marker = "  " + styles.Warning.Render("(interrupted)")
		}
		fmt.Fprintf(&sb, "  %s  %8s  %6d hearts  seed %d%s\n",
			sess.StartedAt.Local().Format("2006-01-02 15:04"),
			sess.Duration.Round(time.Second),
			sess.HeartsSpawned,
			sess.Seed,
			marker)
	}
	return sb.String()
}

// runThemeInit writes the built-in theme out for editing.
func runThemeInit(cmd *cobra.Command, args []string) error {
	path := resolveThemePath()
	if _, err := os.Stat(path); err == nil && !themeForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if err := theme.Default().Save(path); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}
