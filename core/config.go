package core

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type (
	ServerConfig struct {
		Host               string
		Address            string
		DebugHost          string
		AllowedOrigins     []string
		ShutdownTimeout    time.Duration
		JWTExpirationDelta time.Duration
		SessionTTL         time.Duration
		MaxUploadSize      int64
	}

	DatabaseConfig struct {
		Engine        string
		Host          string
		Port          string
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		DisableTLS    bool
		// InMemory keeps the collections in process memory instead of PostgreSQL.
		InMemory      bool
	}

	// StorageConfig configures the object store holding uploaded resources.
	StorageConfig struct {
		Endpoint      string
		AccessKey     string
		SecretKey     string
		Bucket        string
		UseSSL        bool
		PublicBaseURL string
		InMemory      bool
	}

	PrefsConfig struct {
		Path       string
		StorageKey string
	}

	Config struct {
		Env          string
		Build        string
		Debug        bool
		TestMode     bool
		AppName      string
		SecretKey    string
		RollbarToken string

		// ElevationSecretHash is the bcrypt hash of the registration secret granting the DEV role.
		// When empty, nobody can self-register as DEV.
		ElevationSecretHash string

		Server   ServerConfig
		Database DatabaseConfig
		Storage  StorageConfig
		Prefs    PrefsConfig
	}
)

func (dbc DatabaseConfig) Address() string {
	if dbc.Port == "" {
		return dbc.Host
	}
	return dbc.Host + ":" + dbc.Port
}

// NewConfig loads the configuration from defaults, an optional `config/.env.<env>` file and the environment.
// ENV selects the environment: DEV (default), TEST, QA, PROD. Variables are read with the env name as prefix.
func NewConfig() (*Config, error) {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("testMode", false)
	v.SetDefault("build", "develop")
	v.SetDefault("appName", "1Bacsm 2")
	v.SetDefault("secretKey", "poq5-wer)enb$+57=dz&uoxh2(h!x)#*c2(#yg4h^$cegm2emy")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("elevationSecretHash", "")

	v.SetDefault("serverHost", "localhost")
	v.SetDefault("serverAddress", ":8000")
	v.SetDefault("serverDebugHost", ":4000")
	v.SetDefault("serverAllowedOrigins", []string{"*"})
	v.SetDefault("serverShutdownTimeout", 5*time.Second)
	v.SetDefault("jwtExpirationDelta", 7*24*time.Hour)
	v.SetDefault("sessionTTL", 12*time.Hour)
	v.SetDefault("maxUploadSize", int64(32<<20))

	v.SetDefault("dbEngine", "postgres")
	v.SetDefault("dbHost", "localhost")
	v.SetDefault("dbPort", "5432")
	v.SetDefault("dbName", "classhub")
	v.SetDefault("dbUser", "classhub")
	v.SetDefault("dbPassword", "classhub")
	v.SetDefault("dbAdminUser", "")
	v.SetDefault("dbAdminPassword", "")
	v.SetDefault("dbDisableTLS", true)
	v.SetDefault("dbInMemory", false)

	v.SetDefault("storageEndpoint", "localhost:9000")
	v.SetDefault("storageAccessKey", "minioadmin")
	v.SetDefault("storageSecretKey", "minioadmin")
	v.SetDefault("storageBucket", "resources")
	v.SetDefault("storageUseSSL", false)
	v.SetDefault("storagePublicBaseURL", "")
	v.SetDefault("storageInMemory", false)

	v.SetDefault("prefsPath", filepath.Join("data", "prefs.db"))
	v.SetDefault("prefsStorageKey", "1bacsm2_state")

	env := strings.ToUpper(os.Getenv("ENV"))
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			return nil, errors.Wrapf(err, "loading %s", dotEnvPath)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "checking %s", dotEnvPath)
	}
	v.AutomaticEnv()

	conf := &Config{
		Env:                 env,
		Build:               v.GetString("build"),
		Debug:               v.GetBool("debug"),
		TestMode:            v.GetBool("testMode"),
		AppName:             v.GetString("appName"),
		SecretKey:           v.GetString("secretKey"),
		RollbarToken:        v.GetString("rollbarToken"),
		ElevationSecretHash: v.GetString("elevationSecretHash"),
		Server: ServerConfig{
			Host:               v.GetString("serverHost"),
			Address:            v.GetString("serverAddress"),
			DebugHost:          v.GetString("serverDebugHost"),
			AllowedOrigins:     v.GetStringSlice("serverAllowedOrigins"),
			ShutdownTimeout:    v.GetDuration("serverShutdownTimeout"),
			JWTExpirationDelta: v.GetDuration("jwtExpirationDelta"),
			SessionTTL:         v.GetDuration("sessionTTL"),
			MaxUploadSize:      v.GetInt64("maxUploadSize"),
		},
		Database: DatabaseConfig{
			Engine:        v.GetString("dbEngine"),
			Host:          v.GetString("dbHost"),
			Port:          v.GetString("dbPort"),
			Name:          v.GetString("dbName"),
			User:          v.GetString("dbUser"),
			Password:      v.GetString("dbPassword"),
			AdminUser:     v.GetString("dbAdminUser"),
			AdminPassword: v.GetString("dbAdminPassword"),
			DisableTLS:    v.GetBool("dbDisableTLS"),
			InMemory:      v.GetBool("dbInMemory"),
		},
		Storage: StorageConfig{
			Endpoint:      v.GetString("storageEndpoint"),
			AccessKey:     v.GetString("storageAccessKey"),
			SecretKey:     v.GetString("storageSecretKey"),
			Bucket:        v.GetString("storageBucket"),
			UseSSL:        v.GetBool("storageUseSSL"),
			PublicBaseURL: v.GetString("storagePublicBaseURL"),
			InMemory:      v.GetBool("storageInMemory"),
		},
		Prefs: PrefsConfig{
			Path:       v.GetString("prefsPath"),
			StorageKey: v.GetString("prefsStorageKey"),
		},
	}
	return conf, nil
}
