package config

import (
	"github.com/BurntSushi/toml"
	"github.com/cristalhq/aconfig"
	"github.com/rotisserie/eris"
)

// tomlDecoder reads launchgen.toml files for aconfig
type tomlDecoder struct{}

var _ aconfig.FileDecoder = tomlDecoder{}

func (tomlDecoder) Format() string {
	return "toml"
}

func (tomlDecoder) DecodeFile(filename string) (map[string]interface{}, error) {
	var raw map[string]interface{}
	_, err := toml.DecodeFile(filename, &raw)
	if err != nil {
		return nil, eris.Wrapf(err, "Failed to parse %s", filename)
	}

	return raw, nil
}
