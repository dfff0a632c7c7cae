package config

import "os"

// Config holds the environment surface consumed by both services.
// The deployment tags (Domain, Country, Environment) only dimension
// observability output; they never change behavior.
type Config struct {
	TableName      string
	ServiceName    string
	Domain         string
	Country        string
	Environment    string
	Region         string
	OrderEventsURL string
	RunLocal       bool
}

// Load reads the configuration from the environment with the same defaults
// the deployment stacks assume.
func Load() Config {
	return Config{
		TableName:      getenv("TABLE_NAME", "tableName"),
		ServiceName:    getenv("SERVICE_NAME", "serviceName"),
		Domain:         getenv("DOMAIN", "ORDER"),
		Country:        getenv("COUNTRY", "GB"),
		Environment:    getenv("ENVIRONMENT", "undefined"),
		Region:         getenv("AWS_REGION", "us-east-1"),
		OrderEventsURL: os.Getenv("ORDER_EVENTS_QUEUE_URL"),
		RunLocal:       os.Getenv("RUN_LOCAL") == "true",
	}
}

// Production reports whether the service runs with production flags set.
func (c Config) Production() bool {
	return c.Environment == "production" || c.Environment == "prod"
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
