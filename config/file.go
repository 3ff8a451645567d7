/*
DESCRIPTION
  file.go reads configuration variables from a TOML file so that a session
  can be configured in the same way as through Update.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

// Load reads the TOML file at path and returns its top level keys and values
// as a variable map suitable for Config.Update. Keys are the variable names
// listed in Variables, e.g.
//
//	SensitivityThreshold = 900
//	SignalPeriod = 200
//	Background = "MOG"
func Load(path string) (map[string]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file: %w", err)
	}

	var raw map[string]interface{}
	err = toml.Unmarshal(b, &raw)
	if err != nil {
		return nil, fmt.Errorf("could not parse config file: %w", err)
	}

	vars := make(map[string]string, len(raw))
	for k, v := range raw {
		switch v := v.(type) {
		case string:
			vars[k] = v
		case int64:
			vars[k] = strconv.FormatInt(v, 10)
		case float64:
			vars[k] = strconv.FormatFloat(v, 'f', -1, 64)
		case bool:
			vars[k] = strconv.FormatBool(v)
		default:
			return nil, fmt.Errorf("unsupported value for %s: %T", k, v)
		}
	}
	return vars, nil
}
