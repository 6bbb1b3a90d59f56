// Package level loads the ingredient and level catalog and tracks the current level.
package level

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/lixenwraith/color-mixer/blend"
	"github.com/lixenwraith/color-mixer/core"
	"github.com/lixenwraith/color-mixer/parameter"
)

var (
	ErrUnknownIngredient = errors.New("unknown ingredient")
	ErrNoLevels          = errors.New("catalog defines no levels")
)

// Ingredient is one kind of ingredient that can appear on the shelf
type Ingredient struct {
	Name       string
	Color      core.Color
	RenewDelay time.Duration
}

// Entry is an ingredient with the number of units the recipe calls for
type Entry struct {
	Ingredient
	Count int
}

// Level is one recipe; its target is the count-weighted mix of its entries
type Level struct {
	Name    string
	Entries []Entry
}

// Target returns the color the player has to reproduce
func (l Level) Target() core.Color {
	items := make([]blend.Counted, len(l.Entries))
	for i, e := range l.Entries {
		items[i] = blend.Counted{Color: e.Color, Count: e.Count}
	}
	return blend.FinalMix(items)
}

// Ingredients returns the distinct shelf ingredients in recipe order
func (l Level) Ingredients() []Ingredient {
	seen := make(map[string]bool, len(l.Entries))
	out := make([]Ingredient, 0, len(l.Entries))
	for _, e := range l.Entries {
		if seen[e.Name] {
			continue
		}
		seen[e.Name] = true
		out = append(out, e.Ingredient)
	}
	return out
}

// Catalog is a parsed levels file
type Catalog struct {
	Ingredients map[string]Ingredient
	Levels      []Level
}

// Names returns the ingredient names sorted
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.Ingredients))
	for name := range c.Ingredients {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type catalogFile struct {
	Ingredients map[string]ingredientFile `toml:"ingredients"`
	Levels      []levelFile               `toml:"levels"`
}

type ingredientFile struct {
	Color      string        `toml:"color"`
	RenewDelay time.Duration `toml:"renew_delay"`
}

type levelFile struct {
	Name        string      `toml:"name"`
	Ingredients []entryFile `toml:"ingredients"`
}

type entryFile struct {
	Name  string `toml:"name"`
	Count int    `toml:"count"`
}

// Parse decodes a TOML catalog, ingredients without renew_delay get the parameter default
func Parse(data []byte) (*Catalog, error) {
	return ParseWithDefaults(data, parameter.RenewDelay)
}

// ParseWithDefaults decodes a TOML catalog using renewDelay for ingredients that omit one
func ParseWithDefaults(data []byte, renewDelay time.Duration) (*Catalog, error) {
	if renewDelay <= 0 {
		renewDelay = parameter.RenewDelay
	}

	var f catalogFile
	if _, err := toml.Decode(string(data), &f); err != nil {
		return nil, fmt.Errorf("failed to decode level catalog: %w", err)
	}

	cat := &Catalog{Ingredients: make(map[string]Ingredient, len(f.Ingredients))}
	for name, in := range f.Ingredients {
		c, err := core.ParseHex(in.Color)
		if err != nil {
			return nil, fmt.Errorf("ingredient '%s': %w", name, err)
		}
		delay := in.RenewDelay
		if delay <= 0 {
			delay = renewDelay
		}
		cat.Ingredients[name] = Ingredient{Name: name, Color: c, RenewDelay: delay}
	}

	for i, lf := range f.Levels {
		lvl := Level{Name: lf.Name}
		if lvl.Name == "" {
			lvl.Name = fmt.Sprintf("Level %d", i+1)
		}
		for _, ef := range lf.Ingredients {
			in, ok := cat.Ingredients[ef.Name]
			if !ok {
				return nil, fmt.Errorf("level '%s' ingredient '%s': %w", lvl.Name, ef.Name, ErrUnknownIngredient)
			}
			count := ef.Count
			if count == 0 {
				count = 1
			}
			if count < 0 {
				return nil, fmt.Errorf("level '%s' ingredient '%s': negative count %d", lvl.Name, ef.Name, count)
			}
			lvl.Entries = append(lvl.Entries, Entry{Ingredient: in, Count: count})
		}
		if len(lvl.Entries) == 0 {
			return nil, fmt.Errorf("level '%s' has no ingredients", lvl.Name)
		}
		cat.Levels = append(cat.Levels, lvl)
	}

	if len(cat.Levels) == 0 {
		return nil, ErrNoLevels
	}
	return cat, nil
}

// LoadFile reads and parses a catalog from disk
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read level catalog: %w", err)
	}
	return Parse(data)
}

// Load reads the catalog at path, or the built-in one when path is empty
func Load(path string, renewDelay time.Duration) (*Catalog, error) {
	if path == "" {
		return ParseWithDefaults(defaultCatalog, renewDelay)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read level catalog: %w", err)
	}
	return ParseWithDefaults(data, renewDelay)
}
