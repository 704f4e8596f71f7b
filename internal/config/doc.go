// Package config handles loading and validation of the badge configuration
// from YAML files, covering the I2S microphone bus, recording parameters,
// the UI driver, the optional debug server, and logging.
package config
