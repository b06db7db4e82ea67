package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/questbelief/backend/pkg/storage"
)

type Configs struct {
	Env string

	Database  DatabaseConfigs
	ApiServer ServerConfigs
	Auth      AuthConfigs
	Storage   storage.S3Configs
	Redis     RedisConfigs
	Quest     QuestConfigs
	File      FileConfigs
}

type DatabaseConfigs struct {
	Host     string
	Port     string
	Database string
	User     string
	Password string
}

func (d *DatabaseConfigs) ConnectionString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type ServerConfigs struct {
	Host string
	Port string
	Cert string
	Key  string
}

type AuthConfigs struct {
	AccessTokenName string
	TokenSecret     string
	TokenExpiration time.Duration
}

type RedisConfigs struct {
	Addr string
}

type QuestConfigs struct {
	// Composition of the daily assignment.
	DailyEasyQuests   int
	DailyMediumQuests int
	DailyHardQuests   int
}

type FileConfigs struct {
	UploadURLExpiration   time.Duration
	DownloadURLExpiration time.Duration
	MaxPhotosPerProof     int
	MaxVoicesPerProof     int
}

// Load reads the TOML file pointed to by CONFIG (if any) over the
// defaults, then applies environment overrides for the deploy-specific
// fields.
func Load() (Configs, error) {
	cfg := defaultConfigs()

	if path := os.Getenv("CONFIG"); path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Configs{}, err
		}
	}

	cfg.Env = getEnv("ENV", cfg.Env)
	cfg.Database.Host = getEnv("MYSQL_HOST", cfg.Database.Host)
	cfg.Database.Port = getEnv("MYSQL_PORT", cfg.Database.Port)
	cfg.Database.Database = getEnv("MYSQL_DATABASE", cfg.Database.Database)
	cfg.Database.User = getEnv("MYSQL_USER", cfg.Database.User)
	cfg.Database.Password = getEnv("MYSQL_PASSWORD", cfg.Database.Password)
	cfg.ApiServer.Host = getEnv("HOST", cfg.ApiServer.Host)
	cfg.ApiServer.Port = getEnv("PORT", cfg.ApiServer.Port)
	cfg.Auth.TokenSecret = getEnv("TOKEN_SECRET", cfg.Auth.TokenSecret)
	cfg.Redis.Addr = getEnv("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Storage.Region = getEnv("STORAGE_REGION", cfg.Storage.Region)
	cfg.Storage.Endpoint = getEnv("STORAGE_ENDPOINT", cfg.Storage.Endpoint)
	cfg.Storage.AccessKey = getEnv("STORAGE_ACCESS_KEY", cfg.Storage.AccessKey)
	cfg.Storage.SecretKey = getEnv("STORAGE_SECRET_KEY", cfg.Storage.SecretKey)
	cfg.Storage.Bucket = getEnv("STORAGE_BUCKET", cfg.Storage.Bucket)

	return cfg, nil
}

func defaultConfigs() Configs {
	return Configs{
		Env: "local",
		Database: DatabaseConfigs{
			Host:     "localhost",
			Port:     "3306",
			Database: "questbelief",
			User:     "root",
		},
		ApiServer: ServerConfigs{
			Host: "localhost",
			Port: "8080",
		},
		Auth: AuthConfigs{
			AccessTokenName: "access_token",
			TokenExpiration: 24 * time.Hour,
		},
		Redis: RedisConfigs{
			Addr: "localhost:6379",
		},
		Quest: QuestConfigs{
			DailyEasyQuests:   2,
			DailyMediumQuests: 2,
			DailyHardQuests:   1,
		},
		File: FileConfigs{
			UploadURLExpiration:   time.Hour,
			DownloadURLExpiration: time.Hour,
			MaxPhotosPerProof:     5,
			MaxVoicesPerProof:     2,
		},
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return fallback
}
