package config

import (
	_ "embed"
)

//go:embed defaults/config.yaml
var defaultConfigYAML []byte

// DefaultConfig returns the hardcoded default configuration, used when the
// embedded YAML cannot be parsed.
func DefaultConfig() Config {
	return Config{
		Profile: "default",
		Display: DisplayConfig{
			Fullscreen: true,
		},
		Audio: AudioConfig{
			SoundEnabled: true,
		},
		Extensions: ExtensionsConfig{
			Roots:  []string{"extensions"},
			Active: "alphanumeric-en_US",
		},
		Themes: ThemesConfig{
			Active: "default",
		},
		Rotation: RotationConfig{
			Extension:  RotationTrigger{MinKeypresses: 50, MaxKeypresses: 150},
			Theme:      RotationTrigger{MinKeypresses: 50, MaxKeypresses: 150},
			Background: RotationTrigger{MinKeypresses: 30, MaxKeypresses: 100},
		},
		Remote: RemoteConfig{
			Address: ":8080",
		},
	}
}
