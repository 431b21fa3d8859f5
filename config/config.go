package config

import (
	"fmt"
	"time"
)

type Configs struct {
	Env      string
	LogLevel string

	Database    DatabaseConfigs
	ApiServer   APIServerConfigs
	Auth        AuthConfigs
	Session     SessionConfigs
	Storage     S3Configs
	Rekognition RekognitionConfigs
	File        FileConfigs
	Redis       RedisConfigs
	Kafka       KafkaConfigs
	Leaderboard LeaderboardConfigs
	RateLimit   RateLimitConfigs
}

type DatabaseConfigs struct {
	Host     string
	Port     string
	Database string
	User     string
	Password string
	LogLevel string
}

func (d *DatabaseConfigs) ConnectionString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC&multiStatements=true",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type APIServerConfigs struct {
	Host           string
	Port           string
	Cert           string
	Key            string
	AllowedOrigins []string
}

type AuthConfigs struct {
	TokenSecret string
	Session     TokenConfigs
}

type TokenConfigs struct {
	Name       string
	Expiration Duration
}

type SessionConfigs struct {
	Secret string
	Name   string
}

type S3Configs struct {
	Region         string
	Endpoint       string
	PublicEndpoint string
	AccessKey      string
	SecretKey      string
	SSLDisabled    bool
	Bucket         string
	Prefix         string
}

type RekognitionConfigs struct {
	Enabled        bool
	Region         string
	AccessKey      string
	SecretKey      string
	CollectionID   string
	MatchThreshold float64
	MaxFaces       int64
	QualityFilter  string
	Timeout        Duration
}

type FileConfigs struct {
	MaxSize int64
}

type RedisConfigs struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

type KafkaConfigs struct {
	Addr    string
	Topic   string
	GroupID string
}

type LeaderboardConfigs struct {
	DefaultLimit int
	MaxLimit     int
	CacheTTL     Duration
}

type RateLimitConfigs struct {
	PhotoRequestsPerMinute float64
	PhotoBurst             int
}

type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}

	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}
