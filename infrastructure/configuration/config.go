package configuration

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"social-publisher/infrastructure/logger"

	"github.com/spf13/viper"
)

type Config struct {
	App         App         `json:"app"`
	Database    Database    `json:"database"`
	Google      Google      `json:"google"`
	Poster      Poster      `json:"poster"`
	Pubsub      Pubsub      `json:"pubsub"`
	ServiceBus  ServiceBus  `json:"serviceBus"`
	RedisClient RedisClient `json:"redisClient"`
	Auth        Auth        `json:"auth"`
	Logger      Logger      `json:"logger"`
}

type App struct {
	Port        int      `json:"port"`
	TLSEnabled  bool     `json:"tlsEnabled"`
	TLSCertFile string   `json:"tlsCertFile"`
	TLSKeyFile  string   `json:"tlsKeyFile"`
	CORSOrigins []string `json:"corsOrigins"`
}

type Database struct {
	Vendor string `json:"vendor"` // postgres | mssql
	Psql   Db     `json:"psql"`
	Mssql  Db     `json:"mssql"`
}

type Db struct {
	Name     string `json:"name"`
	Host     string `json:"host"`
	Port     string `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	SSLMode  string `json:"sslMode"`
}

// Google holds the OAuth client used for YouTube uploads.
type Google struct {
	ClientID       string   `json:"clientId"`
	ClientSecret   string   `json:"clientSecret"`
	RedirectURI    string   `json:"redirectURI"`
	TokenURL       string   `json:"tokenURL"`
	UploadEndpoint string   `json:"uploadEndpoint"`
	Scopes         []string `json:"scopes"`
}

// Poster tunes the scheduled-post publisher.
type Poster struct {
	Schedule        string        `json:"schedule"`
	RunTimeout      time.Duration `json:"runTimeout"`
	HTTPTimeout     time.Duration `json:"httpTimeout"`
	RefreshMargin   time.Duration `json:"refreshMargin"`
	DefaultPrivacy  string        `json:"defaultPrivacy"`
	StaleClaimAfter time.Duration `json:"staleClaimAfter"`
}

type Pubsub struct {
	ProjectID string `json:"projectID"`
	Topic     string `json:"topic"`
}

// ServiceBus is an optional second sink for post events.
type ServiceBus struct {
	Namespace        string `json:"namespace"`
	ConnectionString string `json:"connectionString"`
	Queue            string `json:"queue"`
}

// RedisClient enables cross-instance delivery of stream events when Host is set.
type RedisClient struct {
	Host     string `json:"host"`
	Port     string `json:"port"`
	Password string `json:"password"`
	Username string `json:"username"`
	Channel  string `json:"channel"`
}

type Auth struct {
	JWTSecret string `json:"jwtSecret"`
}

type Logger struct {
	Format string `json:"format"`
	Level  string `json:"level"`
}

var C Config

func init() {
	Reload()
}

// Reload re-reads the config file and the environment into C. main calls it
// after loading env files so their values take effect.
func Reload() {
	C = Config{}
	LoadConfig()
	initDatabase(&C)
	initApp(&C)
	initGoogle(&C)
	initPoster(&C)
}

func LoadConfig() {
	name := getConfig()
	viper.SetConfigName(name)
	viper.SetConfigType("json")
	viper.AddConfigPath(".")
	viper.AddConfigPath("../")
	viper.AddConfigPath("../../")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logger.GetLogger().Warn("Config file not found")
		} else {
			logger.GetLogger().WithField("error", err).Error("Error reading config file")
		}
	}

	logger.GetLogger().WithField("config", name).Info("Config set up successfully")
	if err := viper.Unmarshal(&C); err != nil {
		logger.GetLogger().WithField("error", err).Error("Viper unable to decode into struct")
	}
	logger.Configure(C.Logger.Format, C.Logger.Level)
}

func getConfig() string {
	name := "config"
	env := os.Getenv("ENV")
	if env != "" {
		name = fmt.Sprintf("%s-%s", name, env)
	}
	return name
}

func initDatabase(C *Config) {
	if v := os.Getenv("DB_VENDOR"); v != "" {
		C.Database.Vendor = v
	}
	if C.Database.Vendor == "" {
		C.Database.Vendor = "postgres"
	}

	C.Database.Psql.Name = firstNonEmpty(C.Database.Psql.Name, os.Getenv("DB_NAME"))
	C.Database.Psql.Host = firstNonEmpty(C.Database.Psql.Host, os.Getenv("DB_HOST"), "localhost")
	C.Database.Psql.Port = firstNonEmpty(C.Database.Psql.Port, os.Getenv("DB_PORT"), "5432")
	C.Database.Psql.User = firstNonEmpty(C.Database.Psql.User, os.Getenv("DB_USER"))
	C.Database.Psql.Password = firstNonEmpty(C.Database.Psql.Password, os.Getenv("DB_PASSWORD"))
	C.Database.Psql.SSLMode = firstNonEmpty(C.Database.Psql.SSLMode, os.Getenv("DB_SSLMODE"), "disable")

	// Optional MSSQL config via environment variables (for Azure SQL in production)
	C.Database.Mssql.Name = firstNonEmpty(C.Database.Mssql.Name, os.Getenv("MSSQL_DB_NAME"))
	C.Database.Mssql.Host = firstNonEmpty(C.Database.Mssql.Host, os.Getenv("MSSQL_HOST"), "localhost")
	C.Database.Mssql.Port = firstNonEmpty(C.Database.Mssql.Port, os.Getenv("MSSQL_PORT"), "1433")
	C.Database.Mssql.User = firstNonEmpty(C.Database.Mssql.User, os.Getenv("MSSQL_USER"))
	C.Database.Mssql.Password = firstNonEmpty(C.Database.Mssql.Password, os.Getenv("MSSQL_PASSWORD"))

	logger.GetLogger().WithFields(map[string]interface{}{
		"vendor": C.Database.Vendor,
		"host":   C.Database.Psql.Host,
		"name":   C.Database.Psql.Name,
	}).Info("Database configuration")
}

func initApp(C *Config) {
	// Port resolution order (env overrides config): APP_PORT -> PORT -> config -> default 10001
	if v := os.Getenv("APP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			C.App.Port = p
		}
	} else if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			C.App.Port = p
		}
	}
	if C.App.Port == 0 {
		C.App.Port = 10001
	}
	if v := os.Getenv("TLS_ENABLED"); v != "" {
		switch v {
		case "1", "true", "TRUE", "True":
			C.App.TLSEnabled = true
		case "0", "false", "FALSE", "False":
			C.App.TLSEnabled = false
		}
	}
	C.App.TLSCertFile = firstNonEmpty(C.App.TLSCertFile, os.Getenv("TLS_CERT_FILE"))
	C.App.TLSKeyFile = firstNonEmpty(C.App.TLSKeyFile, os.Getenv("TLS_KEY_FILE"))
	if len(C.App.CORSOrigins) == 0 {
		C.App.CORSOrigins = []string{"http://localhost:3000"}
	}

	if v := os.Getenv("JWT_SECRET"); v != "" {
		C.Auth.JWTSecret = v
	}
	if C.Auth.JWTSecret == "" {
		logger.GetLogger().Warn("Auth.JWTSecret not set; user endpoints will reject every token. Provide JWT_SECRET via environment.")
	}
}

func initGoogle(C *Config) {
	C.Google.ClientID = firstNonEmpty(os.Getenv("GOOGLE_CLIENT_ID"), C.Google.ClientID)
	C.Google.ClientSecret = firstNonEmpty(os.Getenv("GOOGLE_CLIENT_SECRET"), C.Google.ClientSecret)
	C.Google.RedirectURI = firstNonEmpty(os.Getenv("GOOGLE_REDIRECT_URI"), C.Google.RedirectURI)
	if C.App.TLSEnabled && C.Google.RedirectURI != "" && !hasHTTPS(C.Google.RedirectURI) {
		C.Google.RedirectURI = toHTTPSCallback(C.Google.RedirectURI)
	}
	if C.Google.ClientID == "" || C.Google.ClientSecret == "" {
		logger.GetLogger().Warn("Google OAuth client not configured; token refresh and account connection will fail")
	}
}

func initPoster(C *Config) {
	if v, ok := os.LookupEnv("POSTER_SCHEDULE"); ok {
		C.Poster.Schedule = v
	}
	if C.Poster.RunTimeout == 0 {
		C.Poster.RunTimeout = 10 * time.Minute
	}
	if C.Poster.RefreshMargin == 0 {
		C.Poster.RefreshMargin = 5 * time.Minute
	}
	if C.Poster.DefaultPrivacy == "" {
		C.Poster.DefaultPrivacy = "private"
	}
	if C.Poster.StaleClaimAfter == 0 {
		C.Poster.StaleClaimAfter = time.Hour
	}
	C.Pubsub.ProjectID = firstNonEmpty(C.Pubsub.ProjectID, os.Getenv("PUBSUB_PROJECT_ID"))
	C.Pubsub.Topic = firstNonEmpty(C.Pubsub.Topic, os.Getenv("PUBSUB_TOPIC"))

	C.ServiceBus.Namespace = firstNonEmpty(C.ServiceBus.Namespace, os.Getenv("SERVICEBUS_NAMESPACE"))
	C.ServiceBus.ConnectionString = firstNonEmpty(C.ServiceBus.ConnectionString, os.Getenv("SERVICEBUS_CONNECTION_STRING"))
	C.ServiceBus.Queue = firstNonEmpty(C.ServiceBus.Queue, os.Getenv("SERVICEBUS_QUEUE"), "post-events")

	C.RedisClient.Host = firstNonEmpty(C.RedisClient.Host, os.Getenv("REDIS_HOST"))
	C.RedisClient.Port = firstNonEmpty(C.RedisClient.Port, os.Getenv("REDIS_PORT"), "6379")
	C.RedisClient.Username = firstNonEmpty(C.RedisClient.Username, os.Getenv("REDIS_USERNAME"))
	C.RedisClient.Password = firstNonEmpty(C.RedisClient.Password, os.Getenv("REDIS_PASSWORD"))
	C.RedisClient.Channel = firstNonEmpty(C.RedisClient.Channel, os.Getenv("REDIS_CHANNEL"), "post-status")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// helpers to coerce local callback to https
func hasHTTPS(u string) bool { return len(u) >= 8 && u[:8] == "https://" }
func toHTTPSCallback(u string) string {
	if len(u) >= 7 && u[:7] == "http://" {
		return "https://" + u[7:]
	}
	return u
}
