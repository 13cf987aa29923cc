package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DB       DBConfig
	HTTP     HTTPConfig
	Robot    RobotConfig
	SMTP     SMTPConfig
	Telegram TelegramConfig
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

type HTTPConfig struct {
	Addr string
}

type RobotConfig struct {
	BaseURL string // empty disables robot dispatch
}

type SMTPConfig struct {
	Host     string // empty disables receipt mail
	Port     int
	User     string
	Password string
	From     string
}

type TelegramConfig struct {
	Token       string // empty disables admin notifications
	AdminChatID int64
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	dbPort, _ := strconv.Atoi(getEnv("DB_PORT", "5432"))
	smtpPort, _ := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	adminChat, _ := strconv.ParseInt(getEnv("TELEGRAM_ADMIN_CHAT_ID", "0"), 10, 64)

	return &Config{
		DB: DBConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "restaurant"),
		},
		HTTP: HTTPConfig{
			Addr: getEnv("HTTP_ADDR", ":3000"),
		},
		Robot: RobotConfig{
			BaseURL: getEnv("ROBOT_URL", ""),
		},
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     smtpPort,
			User:     getEnv("SMTP_USER", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("SMTP_FROM", getEnv("SMTP_USER", "")),
		},
		Telegram: TelegramConfig{
			Token:       getEnv("TELEGRAM_TOKEN", ""),
			AdminChatID: adminChat,
		},
	}, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
