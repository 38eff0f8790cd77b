package commands

import (
	"github.com/spf13/cobra"

	"github.com/born-ml/born-ext/internal/app"
	"github.com/born-ml/born-ext/internal/config"
)

var (
	configPath string
	logLevel   string
	backend    string
	appCtx     *app.App
)

// Execute runs the root command.
func Execute() error {
	return execute(newRootCmd())
}

// execute runs root and closes the app whether or not the command failed.
func execute(root *cobra.Command) error {
	defer closeApp()
	return root.Execute()
}

func closeApp() {
	if appCtx != nil {
		appCtx.Close()
		appCtx = nil
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "born-ext",
		Short:        "Native user-defined operators for Born",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if logLevel != "" {
				cfg.Log.Level = logLevel
			}
			if backend != "" {
				cfg.Backend = backend
			}
			appCtx, err = app.New(cfg)
			return err
		},
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&backend, "backend", "", "compute backend override (cpu, webgpu)")

	root.AddCommand(versionCmd(), opsCmd(), runCmd(), gradcheckCmd())
	return root
}
