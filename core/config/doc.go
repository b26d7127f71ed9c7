// Package config provides type-safe environment variable loading with caching
// using Go generics. Each configuration type is loaded once and cached for
// subsequent calls.
//
// The package loads a .env file from the working directory on first use and
// uses the caarlos0/env library for parsing environment variables into struct
// fields. Required variables are declared with the ",required" tag option;
// when one is missing the returned error names it.
//
// Basic usage:
//
//	import "github.com/dmitrymomot/mailrelay/core/config"
//
//	type SMTPConfig struct {
//		Host     string `env:"SMTP_HOST" envDefault:"smtp.gmail.com"`
//		Port     int    `env:"SMTP_PORT" envDefault:"587"`
//		Username string `env:"SMTP_USERNAME,required"`
//		Password string `env:"SMTP_PASSWORD,required,notEmpty"`
//	}
//
//	func main() {
//		var cfg SMTPConfig
//
//		// Load with error handling
//		if err := config.Load(&cfg); err != nil {
//			log.Fatal(err)
//		}
//
//		// Or panic on failure (useful for startup)
//		config.MustLoad(&cfg)
//	}
//
// # Caching Behavior
//
// Each configuration type is loaded only once per application lifetime.
// Different types are cached independently.
package config
