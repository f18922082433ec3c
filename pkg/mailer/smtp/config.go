package smtp

// Config holds SMTP relay credentials. Embed in the app config for env
// parsing with caarlos0/env; use envPrefix to carry separate credential
// sets (e.g. bulk vs OTP sending).
type Config struct {
	Host        string `env:"SMTP_HOST"`
	Port        int    `env:"SMTP_PORT" envDefault:"587"`
	Username    string `env:"SMTP_USERNAME"`
	Password    string `env:"SMTP_PASSWORD"`
	SenderEmail string `env:"SMTP_FROM_EMAIL"`
	SenderName  string `env:"SMTP_FROM_NAME"`
}

// Configured reports whether the credential set points at a relay.
func (c Config) Configured() bool {
	return c.Host != ""
}
