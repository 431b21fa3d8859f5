package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

func Default() Configs {
	return Configs{
		Env:      "local",
		LogLevel: "info",
		Database: DatabaseConfigs{
			Host:     "localhost",
			Port:     "3306",
			Database: "facepass",
			User:     "root",
			LogLevel: "error",
		},
		ApiServer: APIServerConfigs{
			Port:           "8080",
			AllowedOrigins: []string{"*"},
		},
		Auth: AuthConfigs{
			Session: TokenConfigs{
				Name:       "session_token",
				Expiration: Duration{24 * time.Hour},
			},
		},
		Session: SessionConfigs{
			Name: "facepass_session",
		},
		Storage: S3Configs{
			Region: "us-east-1",
			Prefix: "faces",
		},
		Rekognition: RekognitionConfigs{
			Enabled:        true,
			Region:         "us-east-1",
			CollectionID:   "facepass-faces",
			MatchThreshold: 90,
			MaxFaces:       5,
			QualityFilter:  "AUTO",
			Timeout:        Duration{10 * time.Second},
		},
		File: FileConfigs{
			MaxSize: 5 * 1024 * 1024,
		},
		Redis: RedisConfigs{
			KeyPrefix: "facepass",
		},
		Kafka: KafkaConfigs{
			Topic:   "point_awarded",
			GroupID: "facepass",
		},
		Leaderboard: LeaderboardConfigs{
			DefaultLimit: 50,
			MaxLimit:     500,
			CacheTTL:     Duration{10 * time.Second},
		},
		RateLimit: RateLimitConfigs{
			PhotoRequestsPerMinute: 30,
			PhotoBurst:             10,
		},
	}
}

// Load reads the toml file at path on top of the defaults, then applies the
// environment. Variables from a .env file in the working directory are loaded
// first if the file exists. An empty path skips the toml file.
func Load(path string) (Configs, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return cfg, err
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, err
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func applyEnv(cfg *Configs) error {
	setString(&cfg.Env, "ENV")
	setString(&cfg.LogLevel, "LOG_LEVEL")

	setString(&cfg.Database.Host, "DB_HOST")
	setString(&cfg.Database.Port, "DB_PORT")
	setString(&cfg.Database.Database, "DB_DATABASE")
	setString(&cfg.Database.User, "DB_USER")
	setString(&cfg.Database.Password, "DB_PASSWORD")

	setString(&cfg.ApiServer.Host, "API_HOST")
	setString(&cfg.ApiServer.Port, "API_PORT")
	if v, ok := os.LookupEnv("API_ALLOWED_ORIGINS"); ok {
		cfg.ApiServer.AllowedOrigins = strings.Split(v, ",")
	}

	setString(&cfg.Auth.TokenSecret, "TOKEN_SECRET")
	setString(&cfg.Session.Secret, "SESSION_SECRET")

	setString(&cfg.Storage.Region, "AWS_REGION")
	setString(&cfg.Storage.Endpoint, "S3_ENDPOINT")
	setString(&cfg.Storage.PublicEndpoint, "S3_PUBLIC_ENDPOINT")
	setString(&cfg.Storage.AccessKey, "AWS_ACCESS_KEY_ID")
	setString(&cfg.Storage.SecretKey, "AWS_SECRET_ACCESS_KEY")
	setString(&cfg.Storage.Bucket, "S3_BUCKET")

	setString(&cfg.Rekognition.Region, "AWS_REGION")
	setString(&cfg.Rekognition.AccessKey, "AWS_ACCESS_KEY_ID")
	setString(&cfg.Rekognition.SecretKey, "AWS_SECRET_ACCESS_KEY")
	setString(&cfg.Rekognition.CollectionID, "REKOGNITION_COLLECTION_ID")
	if v, ok := os.LookupEnv("REKOGNITION_ENABLED"); ok {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		cfg.Rekognition.Enabled = enabled
	}

	setString(&cfg.Redis.Addr, "REDIS_ADDR")
	setString(&cfg.Redis.Password, "REDIS_PASSWORD")
	setString(&cfg.Kafka.Addr, "KAFKA_ADDR")

	return nil
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}
