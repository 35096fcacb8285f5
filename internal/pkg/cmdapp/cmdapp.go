package cmdapp

import (
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/heirko/go-contrib/logrusHelper"
	"github.com/pkg/errors"

	"github.com/spf13/cobra"
)

var configFile string

// InitApplication prepares the config layer. Environment variables map to
// config keys, GATEWAY_URL is found with the key gateway.url. A config file
// is loaded before the first command runs
func InitApplication(rootCommand *cobra.Command) {
	Config.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	Config.AutomaticEnv()
	cobra.OnInitialize(initConfig)
	rootCommand.PersistentFlags().StringVarP(&configFile, "config", "c", "",
		"config file (default is config.yaml next to the executable)")
}

func initConfig() {
	explicit := configFile != ""
	if explicit {
		Config.SetConfigFile(configFile)
	} else {
		Config.AddConfigPath(executableDir())
		Config.SetConfigName("config")
	}
	if err := Config.ReadInConfig(); err != nil {
		if explicit {
			Log.Error("Can't read config: ", err)
			panic(1)
		}
		Log.Warn("Can't read config: ", err)
	}
	initLog()
	if f := Config.ConfigFileUsed(); f != "" {
		Log.Info("Config loaded from: ", f)
	}
}

func executableDir() string {
	ex, err := os.Executable()
	if err != nil {
		Log.Error("Can't get the app directory: ", err)
		panic(1)
	}
	return filepath.Dir(ex)
}

func initLog() {
	Config.SetDefault("logger", map[string]interface{}{
		"level":                              "info",
		"formatter.name":                     "text",
		"formatter.options.full_timestamp":   true,
		"formatter.options.timestamp_format": "2006-01-02T15:04:05.000",
	})
	c := logrusHelper.UnmarshalConfiguration(Config.Sub("logger"))
	if err := logrusHelper.SetConfig(Log, c); err != nil {
		Log.Error("Can't init log ", err)
	}
}

//Execute runs the command, a panic is logged and ends the process
func Execute(cmd *cobra.Command) {
	defer func() {
		if r := recover(); r != nil {
			Log.Error(r)
			os.Exit(1)
		}
	}()
	if err := cmd.Execute(); err != nil {
		panic(err)
	}
}

//CheckOrPanic panics if err != nil
func CheckOrPanic(err error, msg string) {
	if err == nil {
		return
	}
	if msg != "" {
		err = errors.Wrap(err, msg)
	}
	panic(err)
}

//NewSignalChannel returns a channel delivering interrupt and terminate signals
func NewSignalChannel() chan os.Signal {
	fc := make(chan os.Signal, 2)
	signal.Notify(fc, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	return fc
}
