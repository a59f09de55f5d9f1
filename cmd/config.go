package cmd

import (
	"fmt"
	"time"
)

// Config is read once at startup and passed by value from then on.
type Config struct {
	HTTPPort string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	RabbitMQURL         string
	RabbitMQDialTimeout time.Duration
	Exchange            string
	CreatedQueue        string
	CreatedRoutingKey   string
	OnCourseQueue       string
	OnCourseRoutingKey  string
	HandshakeTimeout    time.Duration

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SMTPFrom     string
	SMTPTimeout  time.Duration

	ViaCEPURL string

	OverdueSchedule string
}

// DSN builds the PostgreSQL connection string.
func (c Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode,
	)
}
