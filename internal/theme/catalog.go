package theme

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/user-mgrei/bambam-extended/internal/rng"
	"github.com/user-mgrei/bambam-extended/internal/rotation"
)

// themeYAML is the on-disk shape of a custom theme file.
type themeYAML struct {
	Name            string    `yaml:"name"`
	DisplayName     string    `yaml:"display_name"`
	Description     string    `yaml:"description"`
	BackgroundColor []uint8   `yaml:"background_color"`
	BackgroundImage string    `yaml:"background_image"`
	ColorPalette    [][]uint8 `yaml:"color_palette"`
	Extensions      []string  `yaml:"extensions"`
	Enabled         *bool     `yaml:"enabled"`
}

// Catalog holds the known themes and drives theme rotation. Built-in
// themes are always present; LoadDir layers custom YAML themes on top.
type Catalog struct {
	themes   map[string]Theme
	order    []string
	rotation *rotation.Manager
}

// NewCatalog creates a catalog seeded with the built-in themes.
func NewCatalog(src rng.Source) *Catalog {
	c := &Catalog{
		themes:   make(map[string]Theme),
		rotation: rotation.NewManager(src),
	}
	for _, t := range Builtins() {
		c.put(t)
	}
	c.refreshCandidates()
	return c
}

// LoadDir reads custom themes from *.yaml files in dir. A missing
// directory is fine; an unreadable or unparseable file is skipped so one
// bad theme never takes down the catalog.
func (c *Catalog) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("theme: cannot read directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || (!strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml")) {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			continue
		}
		var raw themeYAML
		if err := yaml.Unmarshal(data, &raw); err != nil {
			continue
		}
		if raw.Name == "" {
			stem := strings.TrimSuffix(strings.TrimSuffix(name, ".yaml"), ".yml")
			raw.Name = stem
		}
		c.put(fromYAML(raw))
	}

	c.refreshCandidates()
	return nil
}

func fromYAML(raw themeYAML) Theme {
	t := Theme{
		Name:            raw.Name,
		DisplayName:     raw.DisplayName,
		Description:     raw.Description,
		BackgroundColor: RGB{250, 250, 250},
		BackgroundImage: raw.BackgroundImage,
		Extensions:      raw.Extensions,
		Enabled:         true,
	}
	if t.DisplayName == "" {
		t.DisplayName = titleCase(raw.Name)
	}
	if len(raw.BackgroundColor) == 3 {
		t.BackgroundColor = RGB{raw.BackgroundColor[0], raw.BackgroundColor[1], raw.BackgroundColor[2]}
	}
	for _, p := range raw.ColorPalette {
		if len(p) == 3 {
			t.ColorPalette = append(t.ColorPalette, RGB{p[0], p[1], p[2]})
		}
	}
	if raw.Enabled != nil {
		t.Enabled = *raw.Enabled
	}
	return t
}

func titleCase(name string) string {
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

func (c *Catalog) put(t Theme) {
	if _, exists := c.themes[t.Name]; !exists {
		c.order = append(c.order, t.Name)
	}
	c.themes[t.Name] = t
}

func (c *Catalog) refreshCandidates() {
	c.rotation.SetCandidates(c.Names())
}

// Names lists the enabled theme names in catalog order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.order))
	for _, name := range c.order {
		if c.themes[name].Enabled {
			names = append(names, name)
		}
	}
	return names
}

// Get returns a theme by name.
func (c *Catalog) Get(name string) (Theme, bool) {
	t, ok := c.themes[name]
	return t, ok
}

// Select makes the named theme current and reports whether it exists in
// the rotation candidate set.
func (c *Catalog) Select(name string) bool {
	return c.rotation.Select(name)
}

// Current returns the active theme, if any.
func (c *Catalog) Current() (Theme, bool) {
	name := c.rotation.Current()
	if name == "" {
		return Theme{}, false
	}
	return c.Get(name)
}

// Rotation exposes the underlying rotation manager for trigger
// configuration.
func (c *Catalog) Rotation() *rotation.Manager {
	return c.rotation
}

// OnKeypress advances the rotation trigger and returns the newly selected
// theme when a swap fired.
func (c *Catalog) OnKeypress() (Theme, bool) {
	name := c.rotation.OnKeypress()
	if name == "" {
		return Theme{}, false
	}
	return c.Get(name)
}
