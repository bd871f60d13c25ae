package config

import (
	"errors"
	"fmt"
	"strings"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/viper"
)

type Config struct {
	DBHost          string
	DBPort          string
	DBUser          string
	DBPassword      string
	DBName          string
	DBSchema        string
	DBAdminUser     string
	DBAdminPassword string

	Port        int
	IsProd      bool
	CertPath    string
	CORSOrigins []string
}

// New returns a viper instance reading the environment, with defaults.
// A .env file in the working directory is loaded into the environment first.
func New() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SCHEMA", "public")
	v.SetDefault("PORT", 8080)
	v.SetDefault("IS_PROD", false)
	v.SetDefault("CORS_ORIGINS", "*")

	return v
}

func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		DBHost:          v.GetString("DB_HOST"),
		DBPort:          v.GetString("DB_PORT"),
		DBUser:          v.GetString("DB_USERNAME"),
		DBPassword:      v.GetString("DB_PASSWORD"),
		DBName:          v.GetString("DB_DATABASE"),
		DBSchema:        v.GetString("DB_SCHEMA"),
		DBAdminUser:     v.GetString("DB_ADMIN_USER"),
		DBAdminPassword: v.GetString("DB_ADMIN_PASSWORD"),
		Port:            v.GetInt("PORT"),
		IsProd:          v.GetBool("IS_PROD"),
		CertPath:        v.GetString("CERT_PATH"),
		CORSOrigins:     splitList(v.GetString("CORS_ORIGINS")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.DBUser == "" {
		return errors.New("DB_USERNAME environment variable is required")
	}
	if c.DBPassword == "" {
		return errors.New("DB_PASSWORD environment variable is required")
	}
	if c.DBName == "" {
		return errors.New("DB_DATABASE environment variable is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", c.Port)
	}
	if c.IsProd && c.CertPath == "" {
		return errors.New("CERT_PATH environment variable is required when IS_PROD is set")
	}
	return nil
}

// AdminCredentials falls back to the application user when no admin user
// is configured.
func (c *Config) AdminCredentials() (string, string) {
	if c.DBAdminUser == "" {
		return c.DBUser, c.DBPassword
	}
	return c.DBAdminUser, c.DBAdminPassword
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
