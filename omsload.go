package main


import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"oms-loadtest/core/configs"
	"oms-loadtest/core/configs/parsers"
	"oms-loadtest/util"
)


var rootCmd = &cobra.Command{
	Use:   "omsload",
	Short: "Load generator for order management servers",
	Long: `omsload opens one TCP session per simulated user and sends fixed size ` +
		`binary orders to an order management server, measuring the round ` +
		`trip of every order. It can also play the server side for local runs.`,
	SilenceUsage: true,
}


var (
	configPath  string
	envFiles    []string
	verbosity   string
	noColor     bool
)


func init() {
	var flags = rootCmd.PersistentFlags()

	flags.StringVarP(&configPath, "config", "c", "",
		"read the configuration from this YAML file")
	flags.StringSliceVar(&envFiles, "env-file", nil,
		"load environment variables from these dotenv files " +
		"(default .env)")
	flags.StringVarP(&verbosity, "verbose", "v", "",
		"log level (silent, fatal, error, warning, info, debug, trace)")
	flags.BoolVar(&noColor, "no-color", false,
		"disable colors in the summary")
}

// Read the configuration from, by order of precedence, the command flags,
// the environment, the configuration file and the defaults.
//
func loadConfig(cmd *cobra.Command, override func(*configs.Config)) (*configs.Config, error) {
	var config *configs.Config
	var err error

	err = parsers.LoadEnvFiles(envFiles...)
	if err != nil {
		return nil, err
	}

	config, err = parsers.ParseConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("cannot parse config: %w", err)
	}

	err = parsers.ApplyEnv(config)
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("verbose") {
		config.Log.Level = verbosity
	}

	if noColor {
		config.Log.Color = false
	}

	if override != nil {
		override(config)
	}

	err = setVerbosity(config.Log.Level)
	if err != nil {
		return nil, err
	}

	return config, nil
}

func setVerbosity(name string) error {
	var level util.LogLevel = util.LOG_INFO
	var err error

	if len(name) > 0 {
		level, err = util.ParseLogLevel(name)
		if err != nil {
			return err
		}
	}

	util.SetLogger(util.NewConsoleLogger(os.Stderr, "omsload", level))

	return nil
}

func main() {
	var err error = rootCmd.Execute()

	if err != nil {
		os.Exit(1)
	}
}
