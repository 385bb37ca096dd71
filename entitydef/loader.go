package entitydef

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Load reads a TOML move-definition table and validates it. A failed
// validation refuses the whole table: the simulation never starts on
// malformed data.
func Load(path string) (Defs, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read entity defs %s: %w", path, err)
	}

	var defs Defs
	if err := v.UnmarshalKey("entities", &defs); err != nil {
		return nil, fmt.Errorf("unmarshal entity defs %s: %w", path, err)
	}
	if len(defs) == 0 {
		return nil, fmt.Errorf("entity defs %s: no entities declared", path)
	}
	if err := defs.Validate(); err != nil {
		return nil, err
	}

	log.Debug().Str("path", path).Int("entities", len(defs)).Msg("loaded entity defs")
	return defs, nil
}
