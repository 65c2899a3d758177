package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultFileName is the name of the database file in the home directory
const DefaultFileName = ".sqkv.db"

// Config holds the options a store is constructed with.
type Config struct {
	// Path overrides the location of the database file (default: ~/.sqkv.db).
	Path string
	// Durable enables full fsync and a rollback journal (default: false).
	Durable bool
}

// DefaultPath returns the default database location in the home directory of the user.
// If the home directory cannot be resolved, the file is placed in the working directory.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultFileName
	}
	return filepath.Join(home, DefaultFileName)
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Path:    DefaultPath(),
		Durable: false,
	}
}

// String returns a formatted string representation of the configuration
func (c Config) String() string {
	var sb strings.Builder

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	sb.WriteString("\nSTORE\n")
	addField("Path", c.Path)
	addField("Durable", fmt.Sprintf("%t", c.Durable))

	return sb.String()
}
