// Package config содержит функции для загрузки конфигурации приложения
package config

import (
	"errors"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Значения по умолчанию
const (
	DefaultInitialVolume = 100
	DefaultLogLevel      = "info"
	DefaultLogFile       = "~/.go-playlist.log"
	DefaultSampleRate    = 44100
)

// Config структура для хранения конфигурации приложения
type Config struct {
	PlaylistFile  string `yaml:"playlist_file"`  // Пустое значение - встроенный плейлист
	InitialVolume int    `yaml:"initial_volume"` // Начальное положение ползунка громкости, 0..100
	LogLevel      string `yaml:"log_level"`
	LogFile       string `yaml:"log_file"`
	SampleRate    int    `yaml:"sample_rate"`

	// Настройки хранилища для источников s3://
	AwsAccessKey string `yaml:"aws_access_key"`
	AwsSecretKey string `yaml:"aws_secret_key"`
	AwsRegion    string `yaml:"aws_region"`
	AwsEndpoint  string `yaml:"aws_endpoint"`
}

// Default возвращает конфигурацию со значениями по умолчанию
func Default() *Config {
	config := &Config{InitialVolume: -1}
	config.applyDefaults()
	return config
}

// LoadConfig загружает конфигурацию приложения из указанного файла.
// Отсутствующий файл не считается ошибкой: используются значения по умолчанию.
func LoadConfig(filePath string) (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	path := strings.Replace(filePath, "~", home, 1)

	config := &Config{InitialVolume: -1}

	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	if err == nil {
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, err
		}
	}

	config.applyDefaults()

	// Раскрываем тильду в путях
	config.PlaylistFile = strings.Replace(config.PlaylistFile, "~", home, 1)
	config.LogFile = strings.Replace(config.LogFile, "~", home, 1)

	return config, nil
}

// HasS3 сообщает, заданы ли настройки хранилища S3
func (c *Config) HasS3() bool {
	return c.AwsRegion != "" || c.AwsEndpoint != ""
}

func (c *Config) applyDefaults() {
	if c.InitialVolume < 0 {
		c.InitialVolume = DefaultInitialVolume
	}
	if c.InitialVolume > 100 {
		c.InitialVolume = 100
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.LogFile == "" {
		c.LogFile = DefaultLogFile
	}
	if c.SampleRate <= 0 {
		c.SampleRate = DefaultSampleRate
	}
}
