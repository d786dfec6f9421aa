// Package config loads the factory configuration described by the
// library's external environment-variable contract and models it as
// a tagged variant rather than a dotted-path dynamic import: at most
// one of the Factory's backend fields is populated (none for
// plain_memory), selected by INFRASTRUCTURE_FACTORY.
package config

import (
	"fmt"
	"strings"
)

// InfrastructureFactory names the recorder backend to construct.
type InfrastructureFactory string

const (
	PlainMemory InfrastructureFactory = "plain_memory"
	Sqlite      InfrastructureFactory = "sqlite"
	Postgres    InfrastructureFactory = "postgres"
	MySQL       InfrastructureFactory = "mysql"
)

// SqliteConfig is the backend-specific configuration for the sqlite
// recorder.
type SqliteConfig struct {
	Path        string
	CreateTable bool
}

// PostgresConfig is the backend-specific configuration for the
// postgres recorder.
type PostgresConfig struct {
	Host        string
	Database    string
	User        string
	Password    string
	CreateTable bool
}

// MySQLConfig is the backend-specific configuration for the mysql
// recorder.
type MySQLConfig struct {
	Host        string
	Database    string
	User        string
	Password    string
	CreateTable bool
}

// Factory is the tagged-variant result of Load. Exactly one of
// Sqlite, Postgres, MySQL is meaningful, selected by Backend; the
// PlainMemory backend carries no further configuration.
type Factory struct {
	Backend InfrastructureFactory

	Sqlite   SqliteConfig
	Postgres PostgresConfig
	MySQL    MySQLConfig

	// SnapshottingEnabled mirrors IS_SNAPSHOTTING_ENABLED.
	SnapshottingEnabled bool

	// CipherTopic and CipherKey select and key the cipher stage; both
	// empty means no cipher (identity transform).
	CipherTopic string
	CipherKey   string

	// CompressorTopic selects the compressor stage; empty means no
	// compressor (identity transform).
	CompressorTopic string
}

var truthyTokens = map[string]bool{
	"y": true, "yes": true, "t": true, "true": true, "on": true, "1": true,
}

var falsyTokens = map[string]bool{
	"n": true, "no": true, "f": true, "false": true, "off": true, "0": true,
}

// ParseBool parses one of the twelve recognized truthy/falsy tokens,
// case-insensitively. Any other value is rejected.
func ParseBool(value string) (bool, error) {
	lower := strings.ToLower(strings.TrimSpace(value))
	if truthyTokens[lower] {
		return true, nil
	}
	if falsyTokens[lower] {
		return false, nil
	}
	return false, fmt.Errorf("config: %q is not a recognized truthy or falsy token", value)
}

// Load reads the external configuration contract from getenv (which
// callers typically supply as os.Getenv) and produces a Factory. getenv
// returning "" is treated as "not set".
func Load(getenv func(string) string) (Factory, error) {
	factory := Factory{}

	backend := InfrastructureFactory(getenv("INFRASTRUCTURE_FACTORY"))
	if backend == "" {
		backend = PlainMemory
	}
	factory.Backend = backend

	if raw := getenv("IS_SNAPSHOTTING_ENABLED"); raw != "" {
		enabled, err := ParseBool(raw)
		if err != nil {
			return Factory{}, fmt.Errorf("config: IS_SNAPSHOTTING_ENABLED: %w", err)
		}
		factory.SnapshottingEnabled = enabled
	}

	factory.CipherTopic = getenv("CIPHER_TOPIC")
	factory.CipherKey = getenv("CIPHER_KEY")
	factory.CompressorTopic = getenv("COMPRESSOR_TOPIC")

	switch backend {
	case PlainMemory:
		// No further configuration.
	case Sqlite:
		createTable, err := parseCreateTableFlag(getenv("SQLITE_CREATE_TABLE"))
		if err != nil {
			return Factory{}, err
		}
		factory.Sqlite = SqliteConfig{
			Path:        getenv("SQLITE_PATH"),
			CreateTable: createTable,
		}
	case Postgres:
		createTable, err := parseCreateTableFlag(getenv("POSTGRES_CREATE_TABLE"))
		if err != nil {
			return Factory{}, err
		}
		factory.Postgres = PostgresConfig{
			Host:        getenv("POSTGRES_HOST"),
			Database:    getenv("POSTGRES_DATABASE"),
			User:        getenv("POSTGRES_USER"),
			Password:    getenv("POSTGRES_PASSWORD"),
			CreateTable: createTable,
		}
	case MySQL:
		createTable, err := parseCreateTableFlag(getenv("MYSQL_CREATE_TABLE"))
		if err != nil {
			return Factory{}, err
		}
		factory.MySQL = MySQLConfig{
			Host:        getenv("MYSQL_HOST"),
			Database:    getenv("MYSQL_DATABASE"),
			User:        getenv("MYSQL_USER"),
			Password:    getenv("MYSQL_PASSWORD"),
			CreateTable: createTable,
		}
	default:
		return Factory{}, fmt.Errorf("config: unrecognized INFRASTRUCTURE_FACTORY %q", backend)
	}

	return factory, nil
}

// parseCreateTableFlag treats an unset CREATE_TABLE var as falsy,
// rather than an error, since most deployments manage schema out of
// band.
func parseCreateTableFlag(raw string) (bool, error) {
	if raw == "" {
		return false, nil
	}
	value, err := ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("config: CREATE_TABLE flag: %w", err)
	}
	return value, nil
}
