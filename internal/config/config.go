// Package config provides functionality for managing configuration options
// for the application using command-line flags and environment variables.
package config

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"strconv"
)

// Options holds the configuration values for the application.
type Options struct {
	// Address defines the server's listening address (ip:port).
	Address string

	// DatabaseDSN holds the store location: a SQLite file path, or a
	// postgres:// DSN to run against PostgreSQL instead.
	DatabaseDSN string

	// SessionTTLMinutes is how long an authenticated session stays valid.
	SessionTTLMinutes int

	// Config is the path to the Config file.
	Config string
}

// options holds the current configuration values.
var options = &Options{}

// init initializes command-line flags and sets default values.
func init() {
	flag.StringVar(&options.Address, "a", ":3000", "run on ip:port server")
	flag.StringVar(&options.DatabaseDSN, "d", "contacts.db", "store location: sqlite file path or postgres DSN")
	flag.IntVar(&options.SessionTTLMinutes, "session-ttl", 60, "session lifetime in minutes")
	flag.StringVar(&options.Config, "config", "config.json", "path to config file")
	flag.StringVar(&options.Config, "c", "config.json", "path to config file (shorthand)")
}

// Parse parses the command-line flags and environment variables to set
// configuration values. It returns a pointer to the Options struct containing
// the parsed configuration values.
func Parse() *Options {
	flag.Parse()

	// Override flags with environment variables if set
	if configPath := os.Getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}

	if options.Config != "" {
		if _, err := os.Stat(options.Config); err == nil {
			data, err := os.ReadFile(options.Config)
			if err != nil {
				log.Fatalf("error while reading config file: %v", err)
			}
			if err := json.Unmarshal(data, options); err != nil {
				log.Fatalf("error while parsing config file: %v", err)
			}
		}
	}

	if port := os.Getenv("PORT"); port != "" {
		options.Address = ":" + port
	}
	if serverAddress := os.Getenv("SERVER_ADDRESS"); serverAddress != "" {
		options.Address = serverAddress
	}
	if dbPath := os.Getenv("DBPATH"); dbPath != "" {
		options.DatabaseDSN = dbPath
	}
	if ttl := os.Getenv("SESSION_TTL_MINUTES"); ttl != "" {
		if minutes, err := strconv.Atoi(ttl); err == nil && minutes > 0 {
			options.SessionTTLMinutes = minutes
		}
	}

	return options
}
