package core

import (
	"fmt"
	"log"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Document store engines
const (
	EngineMemory    = "memory"
	EngineFirestore = "firestore"
	EngineMongo     = "mongo"
	EnginePostgres  = "postgres"
)

// Identity providers
const (
	IdentityFirebase = "firebase"
	IdentityLocal    = "local"
)

// Mail backends
const (
	MailSMTP     = "smtp"
	MailSendgrid = "sendgrid"
	MailConsole  = "console"
)

type (
	ServerConfig struct {
		Addr               string
		DebugHost          string
		Host               string
		ShutdownTimeout    time.Duration
		JWTExpirationDelta time.Duration
		CORSAllowedOrigins []string
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
	}

	MongoConfig struct {
		URI      string
		Database string
	}

	FirebaseConfig struct {
		ProjectID       string
		CredentialsFile string
		WebAPIKey       string
	}

	IdentityConfig struct {
		Provider       string
		GoogleClientID string
	}

	MailConfig struct {
		Backend          string
		GmailUser        string
		GmailPassword    string
		SMTPHost         string
		SMTPPort         int
		SendgridAPIKey   string
		DefaultFromEmail string
	}

	Config struct {
		Env                       string
		Build                     string
		Debug                     bool
		TestMode                  bool
		AppName                   string
		SecretKey                 string
		FrontendBaseURL           string
		SeedToken                 string
		RollbarToken              string
		PasswordResetTimeoutDelta time.Duration
		WorkDir                   string

		Server   ServerConfig
		Database DatabaseConfig
		Mongo    MongoConfig
		Firebase FirebaseConfig
		Identity IdentityConfig
		Mail     MailConfig
	}
)

// Address returns the postgres host:port pair.
func (c DatabaseConfig) Address() string {
	return c.Host + ":" + c.Port
}

// Configured reports whether outbound mail credentials are present for the selected backend.
func (c MailConfig) Configured() bool {
	switch c.Backend {
	case MailConsole:
		return true
	case MailSendgrid:
		return c.SendgridAPIKey != ""
	default:
		return c.GmailUser != "" && c.GmailPassword != ""
	}
}

// DefaultFrom returns the sender address; the Gmail user wins when SMTP is used.
func (c MailConfig) DefaultFrom() mail.Address {
	if c.Backend == MailSMTP && c.GmailUser != "" {
		return mail.Address{Address: c.GmailUser}
	}
	addr, err := mail.ParseAddress(c.DefaultFromEmail)
	if err != nil {
		return mail.Address{Address: c.DefaultFromEmail}
	}
	return *addr
}

func NewConfig() *Config {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("testMode", false)
	v.SetDefault("build", "dev")
	v.SetDefault("appName", "Venz Edu")
	v.SetDefault("secretKey", "vz9-k2u)q7e$+4l=xr&0bn(h!t)#*d8(#ja5^$wcfm3pv")
	v.SetDefault("frontendBaseURL", "https://venz-edu-app.web.app")
	v.SetDefault("seedToken", "")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("passwordResetTimeoutDelta", 3*24*time.Hour)

	v.SetDefault("serverAddr", ":8000")
	v.SetDefault("serverDebugHost", ":4000")
	v.SetDefault("serverHost", "localhost")
	v.SetDefault("serverShutdownTimeout", 5*time.Second)
	v.SetDefault("jwtExpirationDelta", 7*24*time.Hour)
	v.SetDefault("corsAllowedOrigins", []string{"*"})

	v.SetDefault("docstoreEngine", EngineMemory)
	v.SetDefault("databaseHost", "localhost")
	v.SetDefault("databasePort", "5432")
	v.SetDefault("databaseName", "venz_edu")
	v.SetDefault("databaseUser", "")
	v.SetDefault("databasePassword", "")
	v.SetDefault("databaseAdminUser", "postgres")
	v.SetDefault("databaseAdminPassword", "")
	v.SetDefault("databaseDisableTLS", true)

	v.SetDefault("mongoURI", "mongodb://localhost:27017")
	v.SetDefault("mongoDatabase", "venz_edu")

	v.SetDefault("firebaseProjectID", "venz-edu-app")
	v.SetDefault("firebaseCredentialsFile", "")
	v.SetDefault("firebaseWebAPIKey", "")

	v.SetDefault("identityProvider", IdentityLocal)
	v.SetDefault("googleClientID", "")

	v.SetDefault("mailBackend", MailSMTP)
	v.SetDefault("gmailUser", "")
	v.SetDefault("gmailPassword", "")
	v.SetDefault("smtpHost", "smtp.gmail.com")
	v.SetDefault("smtpPort", 587)
	v.SetDefault("sendgridApiKey", "")
	v.SetDefault("defaultFromEmail", "Venz Edu <noreply@venz-edu.local>")

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)

	workDir := Getwd()

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(workDir, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	// the original deployment reads these two without prefix
	gmailUser := firstNonEmpty(v.GetString("gmailUser"), os.Getenv("GMAIL_USER"))
	gmailPassword := firstNonEmpty(v.GetString("gmailPassword"), os.Getenv("GMAIL_PASSWORD"))

	return &Config{
		Env:                       env,
		Build:                     v.GetString("build"),
		Debug:                     v.GetBool("debug"),
		TestMode:                  v.GetBool("testMode"),
		AppName:                   v.GetString("appName"),
		SecretKey:                 v.GetString("secretKey"),
		FrontendBaseURL:           strings.TrimRight(v.GetString("frontendBaseURL"), "/"),
		SeedToken:                 v.GetString("seedToken"),
		RollbarToken:              v.GetString("rollbarToken"),
		PasswordResetTimeoutDelta: v.GetDuration("passwordResetTimeoutDelta"),
		WorkDir:                   workDir,
		Server: ServerConfig{
			Addr:               v.GetString("serverAddr"),
			DebugHost:          v.GetString("serverDebugHost"),
			Host:               v.GetString("serverHost"),
			ShutdownTimeout:    v.GetDuration("serverShutdownTimeout"),
			JWTExpirationDelta: v.GetDuration("jwtExpirationDelta"),
			CORSAllowedOrigins: v.GetStringSlice("corsAllowedOrigins"),
		},
		Database: DatabaseConfig{
			Engine:        v.GetString("docstoreEngine"),
			Host:          v.GetString("databaseHost"),
			Port:          v.GetString("databasePort"),
			Name:          v.GetString("databaseName"),
			User:          v.GetString("databaseUser"),
			Password:      v.GetString("databasePassword"),
			AdminUser:     v.GetString("databaseAdminUser"),
			AdminPassword: v.GetString("databaseAdminPassword"),
			DisableTLS:    v.GetBool("databaseDisableTLS"),
		},
		Mongo: MongoConfig{
			URI:      v.GetString("mongoURI"),
			Database: v.GetString("mongoDatabase"),
		},
		Firebase: FirebaseConfig{
			ProjectID:       v.GetString("firebaseProjectID"),
			CredentialsFile: v.GetString("firebaseCredentialsFile"),
			WebAPIKey:       v.GetString("firebaseWebAPIKey"),
		},
		Identity: IdentityConfig{
			Provider:       v.GetString("identityProvider"),
			GoogleClientID: v.GetString("googleClientID"),
		},
		Mail: MailConfig{
			Backend:          v.GetString("mailBackend"),
			GmailUser:        gmailUser,
			GmailPassword:    gmailPassword,
			SMTPHost:         v.GetString("smtpHost"),
			SMTPPort:         v.GetInt("smtpPort"),
			SendgridAPIKey:   v.GetString("sendgridApiKey"),
			DefaultFromEmail: v.GetString("defaultFromEmail"),
		},
	}
}

// NewTestConfig returns a Config suitable for unit tests: no .env lookup, console mail.
func NewTestConfig() *Config {
	return &Config{
		Env:                       "TEST",
		Build:                     "test",
		TestMode:                  true,
		AppName:                   "Venz Edu",
		SecretKey:                 "test-secret",
		FrontendBaseURL:           "https://venz-edu-app.web.app",
		PasswordResetTimeoutDelta: 3 * 24 * time.Hour,
		Server: ServerConfig{
			Addr:               ":0",
			ShutdownTimeout:    time.Second,
			JWTExpirationDelta: time.Hour,
			CORSAllowedOrigins: []string{"*"},
		},
		Database: DatabaseConfig{Engine: EngineMemory},
		Identity: IdentityConfig{Provider: IdentityLocal},
		Mail: MailConfig{
			Backend:          MailConsole,
			DefaultFromEmail: "Venz Edu <noreply@venz-edu.local>",
		},
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// String hides secrets.
func (c *Config) String() string {
	return fmt.Sprintf("Config{Env:%s Build:%s Debug:%t Engine:%s Identity:%s Mail:%s}",
		c.Env, c.Build, c.Debug, c.Database.Engine, c.Identity.Provider, c.Mail.Backend)
}
