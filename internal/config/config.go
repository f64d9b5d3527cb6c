package config

import (
	"github.com/kelseyhightower/envconfig"
	"time"
)

type Configuration struct {
	Server struct {
		Host string `envconfig:"SERVER_HOST"`
		Port string `envconfig:"SERVER_PORT" default:"8080"`
	}
	Database struct {
		// empty Address runs the trainer without puzzle set storage
		Address      string `envconfig:"MONGO_ADDRESS"`
		DatabaseName string `envconfig:"MONGO_DATABASE" default:"bughouse"`
		Collection   string `envconfig:"MONGO_COLLECTION" default:"puzzles"`
	}
	Trainer struct {
		ReplyDelay  time.Duration `envconfig:"TRAINER_REPLY_DELAY" default:"1s"`
		StartRating int           `envconfig:"TRAINER_START_RATING" default:"1500"`
	}
	Log struct {
		Level  string `envconfig:"LOG_LEVEL" default:"info"`
		Pretty bool   `envconfig:"LOG_PRETTY"`
	}
}

func InitConfig() (*Configuration, error) {
	config := &Configuration{}
	err := envconfig.Process("", config)
	return config, err
}

func (c *Configuration) StorageEnabled() bool {
	return c.Database.Address != ""
}

func (c *Configuration) ListenAddress() string {
	return c.Server.Host + ":" + c.Server.Port
}
