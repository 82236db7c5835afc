package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/renato0307/vigia/internal/app"
	"github.com/renato0307/vigia/internal/k8s"
	"github.com/renato0307/vigia/internal/k8s/dummy"
	"github.com/renato0307/vigia/internal/logging"
	"github.com/renato0307/vigia/internal/types"
	"github.com/renato0307/vigia/internal/ui"
)

var (
	kubeconfigFlag string
	contextFlag    string
	themeFlag      string
	tickRateFlag   time.Duration
	poolSizeFlag   int
	logFileFlag    string
	logLevelFlag   string
	logFormatFlag  string
	dummyFlag      bool
)

var rootCmd = &cobra.Command{
	Use:   "vigia",
	Short: "Terminal dashboard for Kubernetes clusters",
	Long: `vigia watches the state of one or more Kubernetes clusters and lets
you browse, filter and act on it from the terminal. Resources are kept in
sync through list/watch streams; the UI reads from the local cache and
never blocks on the network.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().StringVar(&kubeconfigFlag, "kubeconfig", "", "path to kubeconfig file (default: $KUBECONFIG, then ~/.kube/config)")
	rootCmd.Flags().StringVar(&contextFlag, "context", "", "kubeconfig context to start on (default: current-context)")
	rootCmd.Flags().StringVar(&themeFlag, "theme", "charm", "color theme: "+strings.Join(ui.AvailableThemes(), ", "))
	rootCmd.Flags().DurationVar(&tickRateFlag, "tick-rate", 0, "refresh cadence for resource screens (default 250ms, floor 50ms)")
	rootCmd.Flags().IntVar(&poolSizeFlag, "pool-size", 10, "maximum number of warm context connections to keep")
	rootCmd.Flags().StringVar(&logFileFlag, "log-file", "", "log file path (empty disables logging; stdout is not an option, the UI owns it)")
	rootCmd.Flags().StringVar(&logLevelFlag, "log-level", "info", "log level: debug, info, warn, error")
	rootCmd.Flags().StringVar(&logFormatFlag, "log-format", "text", "log format: text, json")
	rootCmd.Flags().BoolVar(&dummyFlag, "dummy", false, "use built-in fixture data instead of connecting to a cluster")
}

func run(cmd *cobra.Command, args []string) error {
	// client-go logs watch errors through klog; route everything away from
	// the terminal before the TUI takes over.
	klog.InitFlags(nil)
	flag.Set("logtostderr", "false")
	flag.Set("stderrthreshold", "FATAL")
	flag.Set("v", "0")
	defer klog.Flush()

	if err := logging.Init(logging.Config{
		FilePath:   logFileFlag,
		Level:      logging.ParseLevel(logLevelFlag),
		Format:     logging.ParseFormat(logFormatFlag),
		MaxSizeMB:  10,
		MaxBackups: 3,
		MaxAgeDays: 7,
	}); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer logging.Shutdown()

	theme := ui.GetTheme(themeFlag)

	var appCtx *types.AppContext
	if dummyFlag {
		provider := dummy.NewProvider()
		appCtx = types.NewAppContext(theme, provider, provider, provider)
	} else {
		pool, err := connectPool()
		if err != nil {
			return err
		}
		defer pool.Close()
		appCtx = types.NewAppContext(theme, pool, pool, pool)
	}

	model := app.NewModel(appCtx, app.Config{TickRate: tickRateFlag})

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}

// connectPool builds the context pool and activates the starting context.
// Blocking is fine here: the TUI has not started yet, so progress can go
// straight to stdout.
func connectPool() (*k8s.Pool, error) {
	kubeconfig, err := k8s.DefaultKubeconfigPath(kubeconfigFlag)
	if err != nil {
		return nil, err
	}

	pool, err := k8s.NewPool(kubeconfig, poolSizeFlag)
	if err != nil {
		return nil, err
	}

	contextName := contextFlag
	if contextName == "" {
		contextName, err = k8s.GetCurrentContext(kubeconfig)
		if err != nil {
			return nil, fmt.Errorf("failed to read current context: %w", err)
		}
		if contextName == "" {
			return nil, fmt.Errorf("no current context in %s; pass --context", kubeconfig)
		}
	}

	fmt.Printf("Connecting to context %s...\n", contextName)

	progress := make(chan k8s.ContextLoadProgress, 8)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for p := range progress {
			fmt.Println(p.Message)
		}
	}()

	err = pool.SwitchContext(contextName, progress)
	close(progress)
	<-done
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect to context %s: %w", contextName, err)
	}

	return pool, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
