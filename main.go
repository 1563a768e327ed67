// Package main provides the entry point for the vox voice assistant.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	gap "github.com/muesli/go-app-paths"
	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/voxcli/vox/internal/cache"
	"github.com/voxcli/vox/speech"
	"github.com/voxcli/vox/tts"
	"github.com/voxcli/vox/tts/engines"
)

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile string
	echoMode   bool
	hiMode     bool
	sayText    string
	checkMode  bool
	debug      bool

	keyword = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#04B575"}).Render
	italic  = lipgloss.NewStyle().Italic(true).Render

	rootCmd = &cobra.Command{
		Use:   "vox",
		Short: "Talk to a language model and hear it talk back",
		Long: paragraph(
			fmt.Sprintf("\nSpeak into the microphone, %s. Replies are printed and read aloud.", keyword("get spoken answers")),
		),
		SilenceErrors: false,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		RunE:          execute,
	}
)

// envConfig holds the handful of settings read straight from the
// environment rather than the config file.
type envConfig struct {
	Debug   bool   `env:"VOX_DEBUG"`
	LogFile string `env:"VOX_LOG_FILE"`
}

// paragraph wraps help text the way the terminal expects.
func paragraph(s string) string {
	return wordwrap.String(s, min(80, terminalWidth()))
}

func terminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}

// newRenderer builds the glamour renderer used for agent replies.
func newRenderer() (*glamour.TermRenderer, error) {
	style := viper.GetString("style")
	width := terminalWidth()
	if width > 120 {
		width = 120
	}
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		style = "notty"
	}

	options := []glamour.TermRendererOption{
		glamour.WithColorProfile(lipgloss.ColorProfile()),
		glamour.WithWordWrap(width),
	}
	if style == "auto" {
		options = append(options, glamour.WithAutoStyle())
	} else {
		options = append(options, glamour.WithStandardStyle(style))
	}
	return glamour.NewTermRenderer(options...)
}

// newSpeaker wires the cache and engine chain into a Speaker.
func newSpeaker() (*tts.Speaker, func() error) {
	cacheDir := viper.GetString("cache.dir")
	if cacheDir == "" {
		scope := gap.NewScope(gap.User, "vox")
		if dir, err := scope.CacheDir(); err == nil {
			cacheDir = filepath.Join(dir, "synthesis")
		}
	}

	memBudget := viper.GetInt64("cache.memory_max_mb") << 20
	diskBudget := viper.GetInt64("cache.disk_max_mb") << 20

	store, err := cache.New(memBudget, cacheDir, diskBudget)
	if err != nil {
		log.Warn("synthesis cache unavailable, continuing without", "error", err)
		store = nil
	}

	var engineCache engines.Cache
	closeCache := func() error { return nil }
	if store != nil {
		engineCache = store
		closeCache = store.Close
	}

	chain := engines.Default(viper.GetString("language"), engineCache)
	return tts.NewSpeaker(chain), closeCache
}

func execute(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	if checkMode {
		if err := speech.SelfCheck(); err != nil {
			return err
		}
		fmt.Println("All normalization checks passed.")
		return nil
	}

	speaker, closeCache := newSpeaker()
	defer closeCache() //nolint:errcheck

	if sayText != "" {
		fmt.Println(speech.Normalize(sayText))
		speaker.Say(ctx, sayText)
		return nil
	}

	if echoMode {
		return runEchoLoop(ctx, speaker)
	}
	return runAgentMode(ctx, speaker, hiMode)
}

func main() {
	closer, err := setupLog()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if err := rootCmd.Execute(); err != nil {
		_ = closer()
		os.Exit(1)
	}
	_ = closer()
}

// setupLog configures the logger: warnings to stderr by default, debug
// level with --debug or VOX_DEBUG, optionally duplicated to a file.
func setupLog() (func() error, error) {
	cfg, err := env.ParseAs[envConfig]()
	if err != nil {
		return nil, fmt.Errorf("error parsing environment: %w", err)
	}

	log.SetOutput(os.Stderr)
	log.SetLevel(log.WarnLevel)
	if debug || cfg.Debug {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	}

	if cfg.LogFile == "" {
		return func() error { return nil }, nil
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("error opening log file: %w", err)
	}
	log.SetOutput(io.MultiWriter(os.Stderr, f))
	return f.Close, nil
}

func init() {
	tryLoadConfigFromDefaultPlaces()
	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	rootCmd.InitDefaultCompletionCmd()

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", fmt.Sprintf("config file (default %s)", viper.GetViper().ConfigFileUsed()))
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.Flags().BoolVar(&echoMode, "echo", false, "echo mode: repeat back what was heard, no agent")
	rootCmd.Flags().BoolVar(&hiMode, "hi", false, "send 'hi' twice to verify agent connectivity, then exit")
	rootCmd.Flags().StringVar(&sayText, "say", "", "normalize and speak TEXT, then exit")
	rootCmd.Flags().BoolVar(&checkMode, "check", false, "run the normalizer self-check and exit")

	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))

	viper.SetDefault("style", "auto")
	viper.SetDefault("language", "en")
	viper.SetDefault("agent.url", "")
	viper.SetDefault("agent.config", "agent_config.yaml")
	viper.SetDefault("recognizer.endpoint", "")
	viper.SetDefault("recognizer.key", "")
	viper.SetDefault("recognizer.language", "en-US")
	viper.SetDefault("cache.dir", "")
	viper.SetDefault("cache.memory_max_mb", 16)
	viper.SetDefault("cache.disk_max_mb", 100)

	rootCmd.AddCommand(readCmd, configCmd, manCmd)
}

func tryLoadConfigFromDefaultPlaces() {
	scope := gap.NewScope(gap.User, "vox")
	dirs, err := scope.ConfigDirs()
	if err != nil {
		fmt.Println("Could not find configuration directory.")
		os.Exit(1)
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, "vox")}, dirs...)
	}

	if c := os.Getenv("VOX_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}

	for _, v := range dirs {
		viper.AddConfigPath(v)
	}

	viper.SetConfigName("vox")
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("vox")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			log.Warn("Could not parse configuration file", "err", err)
		}
	}

	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug("Using configuration file", "path", used)
		return
	}

	configFile = filepath.Join(dirs[0], "vox.yml")
	if err := ensureConfigFile(); err != nil {
		log.Error("Could not create default configuration", "error", err)
	}
}
