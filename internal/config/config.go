// Package config provides YAML-based settings for the bambam engine:
// display and audio flags, extension and theme selection, rotation
// trigger ranges, and the remote control server.
package config

import "fmt"

// DisplayConfig holds display-related flags.
type DisplayConfig struct {
	DarkMode   bool `yaml:"dark_mode"`
	Uppercase  bool `yaml:"uppercase"`
	Fullscreen bool `yaml:"fullscreen"`
}

// AudioConfig holds audio-related flags.
type AudioConfig struct {
	StartMuted          bool     `yaml:"start_muted"`
	SoundEnabled        bool     `yaml:"sound_enabled"`
	DeterministicSounds bool     `yaml:"deterministic_sounds"`
	SoundBlacklist      []string `yaml:"sound_blacklist"`
}

// ExtensionsConfig selects which content extensions are in play.
type ExtensionsConfig struct {
	// Roots are the directories scanned for extensions.
	Roots []string `yaml:"roots"`
	// Active is the extension selected at startup. Empty means let the
	// engagement tracker suggest one.
	Active string `yaml:"active"`
	// AllModes makes every discovered extension eligible for rotation.
	AllModes bool `yaml:"all_modes"`
	// Enabled restricts the rotation pool when AllModes is off.
	Enabled []string `yaml:"enabled"`
}

// ThemesConfig selects the visual theme set.
type ThemesConfig struct {
	// Directory holds custom theme YAML files layered over the builtins.
	Directory string `yaml:"directory"`
	// Active is the theme selected at startup.
	Active string `yaml:"active"`
}

// BackgroundsConfig points at the background image directory.
type BackgroundsConfig struct {
	Directory string `yaml:"directory"`
}

// RotationTrigger configures one randomized keypress-interval trigger.
// A disabled trigger is represented by Enabled: false, never by a zero
// range.
type RotationTrigger struct {
	Enabled       bool `yaml:"enabled"`
	MinKeypresses int  `yaml:"min_keypresses"`
	MaxKeypresses int  `yaml:"max_keypresses"`
}

// Validate rejects ranges the rotation scheduler would refuse. An
// inverted range is rejected, not swapped; the engine does not guess
// intent.
func (t RotationTrigger) Validate(name string) error {
	if !t.Enabled {
		return nil
	}
	if t.MinKeypresses < 1 {
		return fmt.Errorf("config: %s rotation min_keypresses must be >= 1, got %d", name, t.MinKeypresses)
	}
	if t.MinKeypresses > t.MaxKeypresses {
		return fmt.Errorf("config: %s rotation range [%d, %d] has min above max",
			name, t.MinKeypresses, t.MaxKeypresses)
	}
	return nil
}

// RotationConfig groups the three swap triggers.
type RotationConfig struct {
	Extension  RotationTrigger `yaml:"extension"`
	Theme      RotationTrigger `yaml:"theme"`
	Background RotationTrigger `yaml:"background"`
}

// RemoteConfig configures the parent control web server.
type RemoteConfig struct {
	Enabled bool   `yaml:"enabled"`
	Address string `yaml:"address"`
}

// Config is the root settings container.
type Config struct {
	// Profile is the child profile activated at startup.
	Profile     string            `yaml:"profile"`
	ProfilesDir string            `yaml:"profiles_dir"`
	Display     DisplayConfig     `yaml:"display"`
	Audio       AudioConfig       `yaml:"audio"`
	Extensions  ExtensionsConfig  `yaml:"extensions"`
	Themes      ThemesConfig      `yaml:"themes"`
	Backgrounds BackgroundsConfig `yaml:"backgrounds"`
	Rotation    RotationConfig    `yaml:"rotation"`
	Remote      RemoteConfig      `yaml:"remote"`
}

// Validate checks the parts of the config the engine cannot self-heal.
func (c Config) Validate() error {
	if err := c.Rotation.Extension.Validate("extension"); err != nil {
		return err
	}
	if err := c.Rotation.Theme.Validate("theme"); err != nil {
		return err
	}
	return c.Rotation.Background.Validate("background")
}
