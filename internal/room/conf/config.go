package conf

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the standalone room server settings.
type Config struct {
	ListenAddr    string
	LogFile       string
	LogLevel      string
	HeartbeatSec  int
	BotMinDelayMs int
	BotMaxDelayMs int
	TargetPoints  int
}

var DefaultConf = &Config{
	ListenAddr:    ":8350",
	LogLevel:      "info",
	HeartbeatSec:  30,
	BotMinDelayMs: 800,
	BotMaxDelayMs: 2500,
	TargetPoints:  10,
}

// ConfInit reads the config file and merges it over the defaults.
func ConfInit(filename string, printConf bool) (*Config, error) {
	out := &Config{}
	*out = *DefaultConf

	defer func() {
		if printConf {
			if data, err := json.Marshal(out); err == nil {
				fmt.Println("the real config value is: ", string(data))
			} else {
				fmt.Println(err)
			}
		}
	}()

	if filename == "" {
		return out, nil
	}

	c := viper.New()

	c.SetConfigType(strings.TrimPrefix(filepath.Ext(filename), "."))
	c.SetConfigFile(filename)
	if err := c.ReadInConfig(); err != nil {
		return nil, err
	}

	if err := c.Unmarshal(out); err != nil {
		return nil, err
	}

	return out, nil
}
