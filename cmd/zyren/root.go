package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zyren-ai/zyren/internal/config"
	"github.com/zyren-ai/zyren/internal/logging"
)

// app carries what every subcommand shares once flags are parsed.
type app struct {
	v          *viper.Viper
	configFile string
	settings   *config.Settings
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}
	root := &cobra.Command{
		Use:          "zyren",
		Short:        "Round predictor, chat assistant and image generator",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "config file (default zyren.yaml in . or $HOME/.config/zyren)")
	pf.String("log-level", "", "log level: debug, info, warn, error")
	pf.String("log-format", "", "log format: text or json")
	_ = a.v.BindPFlag("log.level", pf.Lookup("log-level"))
	_ = a.v.BindPFlag("log.format", pf.Lookup("log-format"))

	root.AddCommand(newServeCmd(a), newPredictCmd(a), newVersionCmd())
	return root
}

func (a *app) load(cmd *cobra.Command) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	s, err := config.Load(a.v, a.configFile)
	if err != nil {
		return err
	}
	// Level was checked by Load.
	level, _ := logging.ParseLevel(s.Log.Level)
	logging.Init(level, s.Log.Format, cmd.ErrOrStderr())
	a.settings = s
	return nil
}
