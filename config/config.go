package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Kafka     KafkaConfig     `yaml:"kafka"`
	Inventory InventoryConfig `yaml:"inventory"`
	Booking   BookingConfig   `yaml:"booking"`
	Worker    WorkerConfig    `yaml:"worker"`
}

type HTTPConfig struct {
	Address string `yaml:"address"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers            []string `yaml:"brokers"`
	NotificationsTopic string   `yaml:"notifications_topic"`
	GroupID            string   `yaml:"group_id"`
}

// InventoryConfig points at the remote flight-inventory service.
type InventoryConfig struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type BookingConfig struct {
	FlightLockTTLSeconds   int `yaml:"flight_lock_ttl_seconds"`
	FlightLockRetries      int `yaml:"flight_lock_retries"`
	FlightLockRetryDelayMs int `yaml:"flight_lock_retry_delay_ms"`
}

type WorkerConfig struct {
	SweepIntervalMinutes int `yaml:"sweep_interval_minutes"`
	SweepMinAgeMinutes   int `yaml:"sweep_min_age_minutes"`
}

// SweepInterval returns how often the reconciliation sweep runs, defaulting
// when the config omits it so the ticker never gets a zero period.
func (w WorkerConfig) SweepInterval() time.Duration {
	if w.SweepIntervalMinutes <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(w.SweepIntervalMinutes) * time.Minute
}

// SweepMinAge returns how long a booking must sit in PENDING before the
// sweep may mark it FAILED.
func (w WorkerConfig) SweepMinAge() time.Duration {
	if w.SweepMinAgeMinutes <= 0 {
		return 10 * time.Minute
	}
	return time.Duration(w.SweepMinAgeMinutes) * time.Minute
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}
