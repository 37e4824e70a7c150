package cmd

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"ddcswitch/internal/config"
	"ddcswitch/internal/monitor"
	"ddcswitch/internal/notify"
	"ddcswitch/internal/report"
	"ddcswitch/internal/switcher"
	"ddcswitch/internal/vcp"
	"ddcswitch/internal/wake"
)

var (
	version = "dev"

	cfgFile     string
	backendName string
	withCaps    bool
	dryRun      bool
	verbosity   int
	jsonOutput  bool
	tableOutput bool
	notifyFlag  bool
	wakeFlag    bool
)

// SetVersion sets the application version (called from main).
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

var rootCmd = &cobra.Command{
	Use:   "ddcswitch [monitor[=input[,input...]] ...]",
	Short: "Change display monitor input sources via DDC/CI",
	Long: `ddcswitch enumerates display monitors and changes their input sources
over DDC/CI.

Each argument selects monitors by name substring or by index:
  ddcswitch                      list all monitors
  ddcswitch Dell                 list monitors whose name contains "Dell"
  ddcswitch Dell=hdmi1           switch them to HDMI 1
  ddcswitch Dell=dp1,usbc2       toggle between DisplayPort 1 and USB-C 2
  ddcswitch U27=dp1,usbc2 P32=hdmi1,usbc2
                                 toggle both monitors in lockstep

Input sources are names (dp1, dp2, hdmi1, hdmi2, usbc1, usbc2) or raw
VCP codes. With multiple toggle arguments, all monitors advance to the
position the first monitor toggled to, even when their current inputs
disagree.`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRoot,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is ~/.config/ddcswitch/config.yaml)")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "show verbose information")

	rootCmd.Flags().StringVarP(&backendName, "backend", "b", "", "filter by the backend name")
	rootCmd.Flags().BoolVarP(&withCaps, "capabilities", "c", false, "get capabilities from the display monitors")
	rootCmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "dry-run (prevent actual changes)")
	rootCmd.Flags().BoolVar(&jsonOutput, "json", false, "output the monitor list as JSON")
	rootCmd.Flags().BoolVar(&tableOutput, "table", false, "output the monitor list as a table")
	rootCmd.Flags().BoolVar(&notifyFlag, "notify", false, "send a desktop notification after switching")
	rootCmd.Flags().BoolVar(&wakeFlag, "wake", false, "wake the system before switching")

	rootCmd.AddCommand(versionCmd)
}

func debugf(format string, args ...any) {
	if verbosity > 0 {
		log.Printf(format, args...)
	}
}

func loadConfig() (config.Config, error) {
	path := cfgFile
	if path == "" {
		var err error
		if path, err = config.Path(); err != nil {
			debugf("Config path unavailable: %v", err)
			return config.Default(), nil
		}
	}
	return config.Load(path)
}

func runRoot(cmd *cobra.Command, args []string) error {
	log.SetFlags(0)

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("backend") && cfg.Backend != "" {
		backendName = cfg.Backend
	}
	if !cmd.Flags().Changed("notify") {
		notifyFlag = cfg.Notify
	}
	if !cmd.Flags().Changed("wake") {
		wakeFlag = cfg.Wake
	}

	names := vcp.DefaultNames()
	for alias, code := range cfg.Aliases {
		names.Add(alias, vcp.Value(code))
	}

	hasSet := false
	for _, arg := range args {
		if switcher.ParseToken(arg).IsSet() {
			hasSet = true
			break
		}
	}
	if hasSet && wakeFlag && !dryRun {
		wake.Displays()
		time.Sleep(100 * time.Millisecond)
	}

	start := time.Now()
	snapshot := monitor.NewDirectory().Detect(monitor.DetectOptions{
		Backend:          backendName,
		WithCapabilities: withCaps,
		Debugf:           debugf,
	})
	defer monitor.Close(snapshot)
	debugf("Discovery elapsed: %v", time.Since(start))

	if len(snapshot) == 0 {
		return fmt.Errorf("no display monitors found")
	}

	if len(args) == 0 {
		all := make([]*monitor.Monitor, len(snapshot))
		for i := range snapshot {
			all[i] = &snapshot[i]
		}
		return printList(all)
	}

	runner := &switcher.Runner{
		Names:  names,
		DryRun: dryRun,
		Settle: time.Duration(cfg.SettleMS) * time.Millisecond,
		Debugf: debugf,
	}
	outcomes := runner.Run(snapshot, args)

	var listed []*monitor.Monitor
	for _, o := range outcomes {
		if o.Op == switcher.OpList && o.Monitor != nil {
			listed = append(listed, o.Monitor)
		}
	}
	if len(listed) > 0 {
		if err := printList(listed); err != nil {
			return err
		}
	}

	if notifyFlag && !dryRun {
		if err := notify.Switched(report.Summary(outcomes)); err != nil {
			debugf("Notification failed: %v", err)
		}
	}

	if report.WriteFailures(os.Stderr, outcomes) {
		return fmt.Errorf("one or more operations failed")
	}
	debugf("Elapsed: %v", time.Since(start))
	return nil
}

func printList(listed []*monitor.Monitor) error {
	switch {
	case jsonOutput:
		values := make([]monitor.Monitor, len(listed))
		for i, m := range listed {
			values[i] = *m
		}
		return report.WriteJSON(os.Stdout, values)
	case tableOutput:
		report.WriteTable(os.Stdout, listed)
	default:
		report.WriteList(os.Stdout, listed)
	}
	return nil
}
