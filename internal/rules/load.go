package rules

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Load reads, decodes, and validates a rule set from a TOML file.
func Load(path string) (*RuleSet, error) {
	var rs RuleSet
	meta, err := toml.DecodeFile(path, &rs)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if err := checkDecoded(meta); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := rs.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	rs.Path = path
	return &rs, nil
}

// Parse decodes and validates a rule set from raw TOML bytes.
func Parse(data []byte) (*RuleSet, error) {
	var rs RuleSet
	meta, err := toml.Decode(string(data), &rs)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}
	if err := checkDecoded(meta); err != nil {
		return nil, err
	}
	if err := rs.Validate(); err != nil {
		return nil, err
	}
	return &rs, nil
}

// checkDecoded rejects keys the schema does not know about. A typo like
// "postion" disables a rule silently otherwise.
func checkDecoded(meta toml.MetaData) error {
	undecoded := meta.Undecoded()
	if len(undecoded) == 0 {
		return nil
	}
	return fmt.Errorf("unknown key %q in rule set", undecoded[0].String())
}
