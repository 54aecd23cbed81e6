package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileValues holds the optional overlay loaded from MARQUEE_CONFIG_FILE.
// The environment always wins over the file.
var fileValues map[string]string

// lookupEnv reads key from the environment, falling back to the overlay file.
func lookupEnv(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fileValues[key]
}

// loadFile parses a flat YAML map of variable name -> value.
//
//	MARQUEE_OMDB_API_KEY: abcd1234
//	MARQUEE_TERM_STORE: redis
//	REDIS_POOL_SIZE: 20
func loadFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse config yaml: %w", err)
	}

	values := make(map[string]string, len(raw))
	for k, v := range raw {
		switch tv := v.(type) {
		case nil:
			continue
		case string:
			values[k] = tv
		case map[string]interface{}, []interface{}:
			return nil, fmt.Errorf("config key %s must be a scalar", k)
		default:
			values[k] = fmt.Sprint(tv)
		}
	}
	return values, nil
}
