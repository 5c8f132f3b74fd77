package core

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Conf holds the app configuration. It is loaded once at startup from
// defaults, an optional config/.env.<env> file and environment variables
// (prefixed with the current ENV).
var Conf *Config

type Config struct {
	Debug     bool
	TestMode  bool
	Env       string
	Build     string
	AppName   string
	SecretKey string
	WorkDir   string

	DefaultFromEmail string
	SendgridAPIKey   string
	RollbarToken     string

	Server struct {
		Host                      string
		Port                      string
		ShutdownTimeout           time.Duration
		JWTExpirationDelta        time.Duration
		JWTRefreshExpirationDelta time.Duration
	}

	// Report holds the recognized aggregation options.
	Report struct {
		WeakThreshold float64 // per-subject weak-learner threshold
		PassThreshold float64 // overall percentage pass threshold
		TopN          int
		Precision     int // decimal places for percentages & averages
	}

	Identity struct {
		APIKey  string
		BaseURL string
		Timeout time.Duration
	}

	Database struct {
		Engine     string
		Host       string
		Port       string
		Name       string
		User       string
		Password   string
		DisableTLS bool
	}
}

func (c *Config) Address() string {
	return c.Server.Host + ":" + c.Server.Port
}

func (c *Config) DatabaseAddress() string {
	return c.Database.Host + ":" + c.Database.Port
}

func init() {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("appName", "Alama")
	v.SetDefault("secretKey", "w3ak-d3v-k3y-!ch4ng3-m3-1n-pr0d")
	v.SetDefault("defaultFromEmail", "noreply@localhost")
	v.SetDefault("serverHost", "")
	v.SetDefault("serverPort", "8000")
	v.SetDefault("shutdownTimeout", 20*time.Second)
	v.SetDefault("jwtExpirationDelta", 7*24*time.Hour)
	v.SetDefault("jwtRefreshExpirationDelta", 4*time.Hour)

	v.SetDefault("weakThreshold", 40.0)
	v.SetDefault("passThreshold", 40.0)
	v.SetDefault("topN", 3)
	v.SetDefault("precision", 2)

	v.SetDefault("identityBaseURL", "https://identitytoolkit.googleapis.com/v1")
	v.SetDefault("identityTimeout", 20*time.Second)

	v.SetDefault("dbEngine", "postgres")
	v.SetDefault("dbHost", "localhost")
	v.SetDefault("dbPort", "5432")
	v.SetDefault("dbName", "alama")
	v.SetDefault("dbUser", "postgres")
	v.SetDefault("dbDisableTLS", true)

	env := os.Getenv("ENV") // DEV (local; default), TEST, QA, PROD
	var testMode bool
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		testMode = true
	}
	v.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(Getwd(), "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatal(fmt.Errorf("config.godotenv(%s): %v", dotEnvPath, err))
		}
	} else if !os.IsNotExist(err) {
		log.Fatal(fmt.Errorf("config.os.Stat(%s): %v", dotEnvPath, err))
	}
	v.AutomaticEnv()

	conf := &Config{
		Debug:            v.GetBool("debug"),
		TestMode:         testMode,
		Env:              env,
		Build:            v.GetString("build"),
		AppName:          v.GetString("appName"),
		SecretKey:        v.GetString("secretKey"),
		WorkDir:          Getwd(),
		DefaultFromEmail: v.GetString("defaultFromEmail"),
		SendgridAPIKey:   v.GetString("sendgridApiKey"),
		RollbarToken:     v.GetString("rollbarToken"),
	}
	conf.Server.Host = v.GetString("serverHost")
	conf.Server.Port = v.GetString("serverPort")
	conf.Server.ShutdownTimeout = v.GetDuration("shutdownTimeout")
	conf.Server.JWTExpirationDelta = v.GetDuration("jwtExpirationDelta")
	conf.Server.JWTRefreshExpirationDelta = v.GetDuration("jwtRefreshExpirationDelta")
	conf.Report.WeakThreshold = v.GetFloat64("weakThreshold")
	conf.Report.PassThreshold = v.GetFloat64("passThreshold")
	conf.Report.TopN = v.GetInt("topN")
	conf.Report.Precision = v.GetInt("precision")
	conf.Identity.APIKey = v.GetString("identityApiKey")
	conf.Identity.BaseURL = v.GetString("identityBaseURL")
	conf.Identity.Timeout = v.GetDuration("identityTimeout")
	conf.Database.Engine = v.GetString("dbEngine")
	conf.Database.Host = v.GetString("dbHost")
	conf.Database.Port = v.GetString("dbPort")
	conf.Database.Name = v.GetString("dbName")
	conf.Database.User = v.GetString("dbUser")
	conf.Database.Password = v.GetString("dbPassword")
	conf.Database.DisableTLS = v.GetBool("dbDisableTLS")

	Conf = conf
}
