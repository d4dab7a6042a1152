package am

import (
	"sort"

	"github.com/BurntSushi/toml"

	"github.com/teranos/qntx-eurostat/errors"
)

// UnknownKeys decodes a TOML config file against the Config schema and returns the keys
// it sets that no field consumes, typically typos such as "eurostat.langauge".
func UnknownKeys(path string) ([]string, error) {
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", path)
	}

	var unknown []string
	for _, key := range md.Undecoded() {
		unknown = append(unknown, key.String())
	}
	sort.Strings(unknown)
	return unknown, nil
}
