package config

import (
	"fmt"
	"time"

	"github.com/campusperks/points-services/pointsgateway/pkg/mq"
	"github.com/campusperks/points-services/pointsgateway/pkg/mysql"
	"github.com/spf13/viper"
)

type Config struct {
	API      API          `mapstructure:"api"`
	Database mysql.Config `mapstructure:"database"`
	RabbitMQ mq.Config    `mapstructure:"rabbitmq"`
	Auth     Auth         `mapstructure:"auth"`
	Worker   Worker       `mapstructure:"worker"`
}

type API struct {
	Port string `mapstructure:"port"`
}

type Auth struct {
	JWTSecret string `mapstructure:"jwt_secret"`
}

type Worker struct {
	PollInterval time.Duration `mapstructure:"poll_interval"`
	BatchSize    int           `mapstructure:"batch_size"`
	Prefetch     int           `mapstructure:"prefetch"`
}

func Load() (cfg *Config, err error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AddConfigPath("./config")

	err = viper.ReadInConfig()
	if err != nil {
		return cfg, fmt.Errorf("failed to load config: %w", err)
	}

	err = viper.Unmarshal(&cfg)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}
