package store

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// TableMap names the table and columns holding one entity type's attributes.
type TableMap struct {
	// Table is the meta table name.
	Table string `yaml:"table"`

	// IDColumn is the column holding the entity id.
	IDColumn string `yaml:"id_column"`

	// KeyColumn is the column holding the attribute key.
	KeyColumn string `yaml:"key_column"`

	// ValueColumn is the column holding the serialized attribute value.
	ValueColumn string `yaml:"value_column"`
}

// Config maps entity types to their backing tables. Types not listed fall
// back to the naming convention: table "<type>meta", id column "<type>_id",
// key column "meta_key", value column "meta_value".
type Config struct {
	Tables map[string]TableMap `yaml:"tables"`
}

// LoadConfig reads a Config from a YAML file and validates every identifier.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	for entityType, tm := range cfg.Tables {
		if err := tm.Validate(); err != nil {
			return Config{}, fmt.Errorf("table map for %q: %w", entityType, err)
		}
	}

	return cfg, nil
}

// TableFor resolves the table map for an entity type, applying the naming
// convention for unconfigured types.
func (c Config) TableFor(entityType string) TableMap {
	if tm, ok := c.Tables[entityType]; ok {
		return tm
	}
	return TableMap{
		Table:       entityType + "meta",
		IDColumn:    entityType + "_id",
		KeyColumn:   "meta_key",
		ValueColumn: "meta_value",
	}
}

// validIdentifier matches the SQL identifiers a table map may supply.
// Table and column names are spliced into query text, so anything outside
// this set is rejected up front. Values never take this path - they are
// always bound as parameters.
var validIdentifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Validate rejects table maps whose identifiers could not be safely spliced
// into SQL.
func (tm TableMap) Validate() error {
	for _, ident := range []string{tm.Table, tm.IDColumn, tm.KeyColumn, tm.ValueColumn} {
		if !validIdentifier.MatchString(ident) {
			return fmt.Errorf("invalid SQL identifier %q", ident)
		}
	}
	return nil
}
