package main

import (
	"fmt"

	"github.com/errorfreetext/errorfree/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// cli holds state shared by all subcommands.
type cli struct {
	v          *viper.Viper
	configFile string
}

func newRootCmd() *cobra.Command {
	return buildRootCmd(&cli{v: viper.New()})
}

func buildRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:          "errorfree",
		Short:        "Asynchronous spelling correction service",
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&c.configFile, "config", "", "config file path (default: ./errorfree.yaml)")
	root.PersistentFlags().String("log-level", "info", "log level: debug | info | warn | error")
	bindFlag(c.v, "server.log_level", root.PersistentFlags(), "log-level")

	root.AddCommand(newServeCmd(c))
	root.AddCommand(newMigrateCmd(c))
	root.AddCommand(newVersionCmd())
	return root
}

// loadConfig reads configuration. A flag set on the command line wins over
// the config file and the environment.
func (c *cli) loadConfig() (*config.Config, error) {
	cfg, err := config.LoadFrom(c.v, c.configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

func bindFlag(v *viper.Viper, key string, fs *pflag.FlagSet, name string) {
	if err := v.BindPFlag(key, fs.Lookup(name)); err != nil {
		panic(fmt.Sprintf("bindFlag %q → %q: %v", name, key, err))
	}
}
