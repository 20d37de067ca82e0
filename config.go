package main

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is read from the environment. A .env file in the working directory
// is loaded first by godotenv.
type Config struct {
	Port     string `env:"PORT" envDefault:"8080"`
	Env      string `env:"APP_ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	DBPath   string `env:"DB_PATH" envDefault:"./data/portfolio.db"`

	AdminUsername string `env:"ADMIN_USERNAME"`
	AdminPassword string `env:"ADMIN_PASSWORD"`

	// emailjs or smtp
	MailTransport string `env:"MAIL_TRANSPORT" envDefault:"emailjs"`

	EmailJSEndpoint   string `env:"EMAILJS_ENDPOINT" envDefault:"https://api.emailjs.com/api/v1.0/email/send"`
	EmailJSServiceID  string `env:"EMAILJS_SERVICE_ID" envDefault:"service_ew4yi3g"`
	EmailJSTemplateID string `env:"EMAILJS_TEMPLATE_ID" envDefault:"template_067ycoc"`
	EmailJSPublicKey  string `env:"EMAILJS_PUBLIC_KEY" envDefault:"zjhe-3e5yh_Vk49cF"`
	EmailJSPrivateKey string `env:"EMAILJS_PRIVATE_KEY"`

	SMTPHost string `env:"SMTP_HOST"`
	SMTPPort string `env:"SMTP_PORT"`
	SMTPUser string `env:"SMTP_USER"`
	SMTPPass string `env:"SMTP_PASS"`
	ToEmail  string `env:"TO_EMAIL"`

	ContactToName      string        `env:"CONTACT_TO_NAME" envDefault:"Mila"`
	ContactResetDelay  time.Duration `env:"CONTACT_RESET_DELAY" envDefault:"5s"`
	ContactSendTimeout time.Duration `env:"CONTACT_SEND_TIMEOUT" envDefault:"10s"`
	ContactRatePerMin  int           `env:"CONTACT_RATE_PER_MIN" envDefault:"5"`
	SessionIdleTimeout time.Duration `env:"SESSION_IDLE_TIMEOUT" envDefault:"30m"`
	SessionMax         int           `env:"SESSION_MAX" envDefault:"10000"`
	VisitorRetention   time.Duration `env:"VISITOR_RETENTION" envDefault:"8760h"`
}

// IsDevelopment reports whether default admin credentials may be used.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Addr returns the listen address.
func (c Config) Addr() string {
	return ":" + c.Port
}

// loadConfig parses the environment.
func loadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	switch cfg.MailTransport {
	case "emailjs", "smtp":
	default:
		return nil, fmt.Errorf("MAIL_TRANSPORT must be emailjs or smtp, got %q", cfg.MailTransport)
	}
	if cfg.ContactRatePerMin <= 0 {
		return nil, fmt.Errorf("CONTACT_RATE_PER_MIN must be positive, got %d", cfg.ContactRatePerMin)
	}
	if !cfg.IsDevelopment() && (cfg.AdminUsername == "" || cfg.AdminPassword == "") {
		return nil, fmt.Errorf("ADMIN_USERNAME and ADMIN_PASSWORD are required when APP_ENV=%s", cfg.Env)
	}
	return cfg, nil
}
