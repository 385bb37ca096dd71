package stage

import (
	"fmt"

	"github.com/spf13/viper"
)

// Load reads a stage description from a TOML file and validates it.
func Load(path string) (*Stage, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read stage %s: %w", path, err)
	}

	var s Stage
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("unmarshal stage %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}
