package gaspricecfg

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// NetworkConfig is one network entry in a networks config file: a chain id
// plus its (optional) gas-price cache settings.
type NetworkConfig struct {
	ChainID       uint64  `yaml:"chain_id"`
	GasPriceCache *Config `yaml:"gas_price_cache"`
}

// File is the top-level shape of a networks config file.
type File struct {
	Networks []NetworkConfig `yaml:"networks"`
}

// LoadFile reads and strict-decodes a networks config file, filling in
// DefaultConfig for any network that omits gas_price_cache and validating
// every resulting Config. Unknown keys are rejected at the file and network
// level; keys inside a gas_price_cache block go through
// Config.UnmarshalYAML, which does not reject unknown keys.
func LoadFile(path string) ([]NetworkConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gaspricecfg: open %s: %w", path, err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)

	var parsed File
	if err := dec.Decode(&parsed); err != nil {
		return nil, fmt.Errorf("gaspricecfg: decode %s: %w", path, err)
	}

	for i := range parsed.Networks {
		if parsed.Networks[i].GasPriceCache == nil {
			parsed.Networks[i].GasPriceCache = DefaultConfig()
		}
		if err := parsed.Networks[i].GasPriceCache.Validate(); err != nil {
			return nil, fmt.Errorf("gaspricecfg: network %d: %w", parsed.Networks[i].ChainID, err)
		}
	}

	return parsed.Networks, nil
}
