package cmdapp

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

//Config is the viper backed configuration shared by all commands
var Config = viper.New()

//Log is the application wide logger
var Log = logrus.New()
