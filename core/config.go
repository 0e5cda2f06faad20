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
	Config struct {
		Env                 string
		Debug               bool
		TestMode            bool
		AppName             string
		Build               string
		SecretKey           string
		RollbarToken        string
		CommonPasswordsPath string

		Server  ServerConfig
		DB      DBConfig
		Payment PaymentConfig
	}

	ServerConfig struct {
		Host                      string
		Addr                      string
		DebugHost                 string
		ReadTimeout               time.Duration
		WriteTimeout              time.Duration
		ShutdownTimeout           time.Duration
		JWTExpirationDelta        time.Duration
		JWTRefreshExpirationDelta time.Duration
	}

	DBConfig struct {
		Path           string
		FlushInterval  time.Duration
		PersistOnWrite bool
	}

	PaymentConfig struct {
		SuccessRate float64
	}
)

// NewConfig reads the configuration for the current environment.
//
// ENV selects the environment (DEV by default, TEST, QA, PROD) and the prefix of the env vars that override
// the defaults, eg. DEV_SERVER_ADDR=:9000. A dotenv file at config/.env.<env> is loaded when it exists.
func NewConfig() (*Config, error) {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("testMode", false)
	v.SetDefault("appName", "Darasa")
	v.SetDefault("build", "develop")
	v.SetDefault("secretKey", "poq5-wer)enb$+57=dz&uoxh2(h!x)#*c2(#yg4h^$cegm2emy")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("commonPasswordsPath", filepath.Join("assets", "common-passwords.txt.gz"))

	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.addr", ":5000")
	v.SetDefault("server.debugHost", ":5001")
	v.SetDefault("server.readTimeout", 5*time.Second)
	v.SetDefault("server.writeTimeout", 5*time.Second)
	v.SetDefault("server.shutdownTimeout", 5*time.Second)
	v.SetDefault("server.jwtExpirationDelta", time.Hour)
	v.SetDefault("server.jwtRefreshExpirationDelta", 4*time.Hour)

	v.SetDefault("db.path", "db.json")
	v.SetDefault("db.flushInterval", 5*time.Minute)
	v.SetDefault("db.persistOnWrite", true)

	v.SetDefault("payment.successRate", 0.9)

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	case "PROD":
		v.SetDefault("debug", false)
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	confDir := os.Getenv("CONFIG_DIR")
	if confDir == "" {
		confDir = "config"
	}
	dotEnvPath := filepath.Join(confDir, ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			return nil, errors.Wrapf(err, "loading %s", dotEnvPath)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "checking %s", dotEnvPath)
	}
	v.AutomaticEnv()

	return &Config{
		Env:                 env,
		Debug:               v.GetBool("debug"),
		TestMode:            v.GetBool("testMode"),
		AppName:             v.GetString("appName"),
		Build:               v.GetString("build"),
		SecretKey:           v.GetString("secretKey"),
		RollbarToken:        v.GetString("rollbarToken"),
		CommonPasswordsPath: v.GetString("commonPasswordsPath"),
		Server: ServerConfig{
			Host:                      v.GetString("server.host"),
			Addr:                      v.GetString("server.addr"),
			DebugHost:                 v.GetString("server.debugHost"),
			ReadTimeout:               v.GetDuration("server.readTimeout"),
			WriteTimeout:              v.GetDuration("server.writeTimeout"),
			ShutdownTimeout:           v.GetDuration("server.shutdownTimeout"),
			JWTExpirationDelta:        v.GetDuration("server.jwtExpirationDelta"),
			JWTRefreshExpirationDelta: v.GetDuration("server.jwtRefreshExpirationDelta"),
		},
		DB: DBConfig{
			Path:           v.GetString("db.path"),
			FlushInterval:  v.GetDuration("db.flushInterval"),
			PersistOnWrite: v.GetBool("db.persistOnWrite"),
		},
		Payment: PaymentConfig{
			SuccessRate: v.GetFloat64("payment.successRate"),
		},
	}, nil
}
