// Package cli implements the riskdesk command line.
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tOgg1/riskdesk/internal/api"
	"github.com/tOgg1/riskdesk/internal/config"
	"github.com/tOgg1/riskdesk/internal/logging"
	"github.com/tOgg1/riskdesk/internal/notify"
	"github.com/tOgg1/riskdesk/internal/selection"
)

const tuiAnnotation = "riskdesk/tui"

// rootOptions are the persistent flags shared by every command.
type rootOptions struct {
	configFile string
	logLevel   string
	output     string
	baseURL    string

	profileName string
	profileID   string
	topicID     string
	navFile     string
}

// session is the per-process state every command works against. One
// selection store is shared by all consumers.
type session struct {
	cfg      *config.Config
	client   *api.Client
	store    *selection.Store
	notifier *notify.Notifier
	hints    selection.Hints
	log      zerolog.Logger
	logFile  *os.File
}

type app struct {
	opts    rootOptions
	session *session

	// isTTY decides whether the bare root command opens the TUI.
	isTTY func() bool
	// runTUI launches the terminal UI.
	runTUI func(*session) error
}

func newApp() *app {
	return &app{
		isTTY:  hasTTY,
		runTUI: runTUI,
	}
}

// Execute runs the riskdesk command line.
func Execute(version string) error {
	if hasRobotHelpFlag(os.Args[1:]) {
		return writeRobotHelp(os.Stdout, version)
	}
	a := newApp()
	defer a.close()
	return newRootCmd(version, a).Execute()
}

func newRootCmd(version string, a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "riskdesk",
		Short: "Pick a profile, browse its topics, and manage the companies they track",
		Long: "riskdesk browses and creates topics under a profile against the risk API.\n" +
			"Run without arguments in a terminal to open the interactive UI.",
		SilenceUsage:      true,
		SilenceErrors:     true,
		Version:           version,
		Args:              cobra.NoArgs,
		PersistentPreRunE: a.open,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.isTTY() {
				return cmd.Help()
			}
			return a.runTUI(a.session)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.opts.configFile, "config", "", "config file (default $XDG_CONFIG_HOME/riskdesk/config.yaml)")
	flags.StringVar(&a.opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.StringVarP(&a.opts.output, "output", "o", formatTable, "output format (table, json, yaml)")
	flags.StringVar(&a.opts.baseURL, "base-url", "", "API root, e.g. http://localhost:3000/api")
	flags.StringVar(&a.opts.profileName, "profile", "", "profile name to scope to")
	flags.StringVar(&a.opts.profileID, "profile-id", "", "profile id to scope to")
	flags.StringVar(&a.opts.topicID, "topic-id", "", "topic id to select")
	flags.StringVar(&a.opts.navFile, "nav", "", "navigation bundle (YAML or JSON) with selection hints")
	flags.Bool("robot-help", false, "Machine-readable help output")

	cmd.AddCommand(
		a.newProfilesCmd(),
		a.newTopicsCmd(),
		a.newCompaniesCmd(),
		a.newUICmd(),
		newSurfaceCmd(cmd),
	)
	return cmd
}

// wantsTUI reports whether cmd will take over the terminal.
func (a *app) wantsTUI(cmd *cobra.Command) bool {
	if cmd.Annotations[tuiAnnotation] == "true" {
		return true
	}
	return !cmd.HasParent() && a.isTTY()
}

func (a *app) open(cmd *cobra.Command, _ []string) error {
	if a.session != nil {
		return nil
	}
	if _, err := parseFormat(a.opts.output); err != nil {
		return err
	}

	loader := config.NewLoader()
	if a.opts.configFile != "" {
		loader.SetConfigFile(a.opts.configFile)
	}
	if a.opts.baseURL != "" {
		loader.Set("api.base_url", a.opts.baseURL)
	}
	if a.opts.logLevel != "" {
		loader.Set("logging.level", a.opts.logLevel)
	}
	cfg, err := loader.Load()
	if err != nil {
		return err
	}

	s := &session{cfg: cfg}
	if err := s.initLogging(cmd.ErrOrStderr(), a.wantsTUI(cmd)); err != nil {
		return err
	}
	s.log = logging.Component("cli")
	if used := loader.ConfigFileUsed(); used != "" {
		s.log.Debug().Str("path", used).Msg("loaded config file")
	}

	s.client, err = api.NewClient(api.Config{BaseURL: cfg.API.BaseURL, Timeout: cfg.API.Timeout})
	if err != nil {
		s.closeLog()
		return err
	}
	s.store = selection.NewStore()
	s.notifier = notify.New(notify.WithLogger(logging.Component("notify")))

	s.hints, err = a.hints()
	if err != nil {
		s.close()
		return err
	}
	s.log.Debug().Str("base_url", logging.RedactURL(s.client.BaseURL())).Msg("session ready")

	cmdLog := logging.Logger.With().Str("command", cmd.CommandPath()).Logger()
	cmd.SetContext(logging.WithContext(cmd.Context(), cmdLog))
	a.session = s
	return nil
}

// hints merges the selection flags over the navigation bundle.
func (a *app) hints() (selection.Hints, error) {
	flags := selection.Hints{
		ProfileName: a.opts.profileName,
		ProfileID:   a.opts.profileID,
		TopicID:     a.opts.topicID,
	}
	if strings.TrimSpace(a.opts.navFile) == "" {
		return flags.Normalize(), nil
	}
	bundle, err := selection.LoadHints(a.opts.navFile)
	if err != nil {
		return selection.Hints{}, err
	}
	return flags.Merge(bundle), nil
}

func (a *app) close() {
	if a.session == nil {
		return
	}
	a.session.close()
	a.session = nil
}

// initLogging sends logs to stderr, or to a file when the TUI owns the
// terminal.
func (s *session) initLogging(stderr io.Writer, tui bool) error {
	logCfg := logging.Config{
		Level:        s.cfg.Logging.Level,
		Format:       s.cfg.Logging.Format,
		Output:       stderr,
		EnableCaller: s.cfg.Logging.EnableCaller,
	}

	path := s.cfg.Logging.File
	if path == "" && tui {
		path = config.DefaultLogFile()
	}
	if path != "" {
		file, err := logging.OpenFile(path)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		s.logFile = file
		logCfg.Output = file
		logCfg.Format = "json"
	}
	logging.Init(logCfg)
	return nil
}

func (s *session) close() {
	if s.notifier != nil {
		s.notifier.Close()
	}
	s.closeLog()
}

func (s *session) closeLog() {
	if s.logFile != nil {
		_ = s.logFile.Close()
		s.logFile = nil
	}
}
