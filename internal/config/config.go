package config

import (
	"log"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

type DisputeConfig struct {
	Env               string `yaml:"env"`
	HTTPServer        `yaml:"http_server"`
	DisputeDB         `yaml:"dispute_db"`
	LogConfig         `yaml:"log_config"`
	KafkaService      `yaml:"kafka-service"`
	SettlementService `yaml:"settlement-service"`
	Adjudicator       `yaml:"adjudicator"`
	Metrics           `yaml:"metrics"`
}

type HTTPServer struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

type DisputeDB struct {
	Dsn            string `yaml:"dsn"`
	MigrationsPath string `yaml:"migrations_path"`
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	LogOutput string `yaml:"log_output"`
}

type KafkaService struct {
	Host         string `yaml:"host"`
	Port         string `yaml:"port"`
	DisputeTopic string `yaml:"dispute_topic"`
}

type SettlementService struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

type Adjudicator struct {
	BaseURL        string `yaml:"base_url"`
	APIKey         string `yaml:"api_key" env:"GEMINI_API_KEY"`
	Model          string `yaml:"model"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type Metrics struct {
	Address string `yaml:"address"`
}

func MustLoad() *DisputeConfig {

	// Processing env config variable and file
	configPath := os.Getenv("DISPUTE_CONFIG_PATH")

	if configPath == "" {
		log.Fatalf("DISPUTE_CONFIG_PATH was not found\n")
	}

	if _, err := os.Stat(configPath); err != nil {
		log.Fatalf("failed to find config file: %v\n", err)
	}

	// YAML to struct object
	var cfg DisputeConfig
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("failed to read config file: %v", err)
	}

	return &cfg
}
