package cli

import (
	"errors"
	"time"

	"github.com/alexanderramin/cadence/internal/service"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// App holds the services and process settings used by CLI commands.
type App struct {
	Plan     service.PlanService
	Create   service.CreateService
	Sync     service.SyncService
	Schedule service.ScheduleService
	History  service.HistoryService

	Flags GlobalFlags

	// Confirm gates tracker writes. Nil means writes proceed unprompted.
	Confirm func(prompt string) (bool, error)
	Now     func() time.Time
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

// GlobalFlags are the persistent flags main needs before the command tree
// is built.
type GlobalFlags struct {
	ConfigPath  string
	LogLevel    string
	MetricsFile string
	Yes         bool
}

func (g *GlobalFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&g.ConfigPath, "config", "", "Path to cadence.yaml (default ./cadence.yaml or ~/.cadence/cadence.yaml)")
	fs.StringVar(&g.LogLevel, "log-level", "", "Override the configured log level")
	fs.StringVar(&g.MetricsFile, "metrics-file", "", "Write Prometheus metrics in textfile format after the run")
	fs.BoolVarP(&g.Yes, "yes", "y", false, "Skip the confirmation prompt for --apply")
}

// ParseGlobalFlags reads the persistent flags from raw arguments, ignoring
// everything else, so config and logging exist before commands run.
func ParseGlobalFlags(args []string) (GlobalFlags, error) {
	var g GlobalFlags
	fs := pflag.NewFlagSet("cadence", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.Usage = func() {}
	g.register(fs)
	if err := fs.Parse(args); err != nil && !errors.Is(err, pflag.ErrHelp) {
		return g, err
	}
	return g, nil
}

// NewRootCmd creates the top-level "cadence" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "cadence",
		Short:         "Backlog date planner for Azure Boards and GitHub",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	fs := pflag.NewFlagSet("global", pflag.ContinueOnError)
	app.Flags.register(fs)
	root.PersistentFlags().AddFlagSet(fs)

	root.AddCommand(
		newPlanCmd(app),
		newCreateCmd(app),
		newSyncTargetsCmd(app),
		newScheduleCmd(app),
		newHistoryCmd(app),
	)

	return root
}
