// Package theme loads color themes for syntax highlighting. Themes are
// YAML files mapping highlight categories to colors and font attributes.
package theme

import (
	"errors"
	"fmt"
	"os"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"

	"github.com/dshills/loom/internal/highlight"
)

var (
	// ErrInvalidColor indicates a color value that is not a #RRGGBB hex string.
	ErrInvalidColor = errors.New("invalid color")
	// ErrUnknownCategory indicates a style key that names no highlight category.
	ErrUnknownCategory = errors.New("unknown highlight category")
)

// Style is the rendering attributes for one highlight category.
type Style struct {
	Color     colorful.Color
	Bold      bool
	Italic    bool
	Underline bool
}

// Theme is a fully resolved color theme. Categories without an explicit
// style render in the foreground color.
type Theme struct {
	Name       string
	Foreground colorful.Color
	Background colorful.Color
	Cursor     colorful.Color
	Selection  colorful.Color
	styles     map[highlight.Category]Style
}

// StyleFor returns the style for a category, falling back to a plain
// foreground style.
func (t *Theme) StyleFor(cat highlight.Category) Style {
	if s, ok := t.styles[cat]; ok {
		return s
	}
	return Style{Color: t.Foreground}
}

type themeFile struct {
	Name       string               `yaml:"name"`
	Foreground string               `yaml:"foreground"`
	Background string               `yaml:"background"`
	Cursor     string               `yaml:"cursor"`
	Selection  string               `yaml:"selection"`
	Styles     map[string]styleFile `yaml:"styles"`
}

type styleFile struct {
	Color     string `yaml:"color"`
	Bold      bool   `yaml:"bold"`
	Italic    bool   `yaml:"italic"`
	Underline bool   `yaml:"underline"`
}

func parseColor(field, s string) (colorful.Color, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("%w: %s: %q", ErrInvalidColor, field, s)
	}
	return c, nil
}

// Parse decodes and validates a YAML theme.
func Parse(data []byte) (*Theme, error) {
	var tf themeFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return nil, fmt.Errorf("parse theme: %w", err)
	}

	th := &Theme{
		Name:   tf.Name,
		styles: make(map[highlight.Category]Style, len(tf.Styles)),
	}
	var err error
	if th.Foreground, err = parseColor("foreground", tf.Foreground); err != nil {
		return nil, err
	}
	if th.Background, err = parseColor("background", tf.Background); err != nil {
		return nil, err
	}
	if tf.Cursor != "" {
		if th.Cursor, err = parseColor("cursor", tf.Cursor); err != nil {
			return nil, err
		}
	} else {
		th.Cursor = th.Foreground
	}
	if tf.Selection != "" {
		if th.Selection, err = parseColor("selection", tf.Selection); err != nil {
			return nil, err
		}
	} else {
		// Blend a selection color when the theme does not name one.
		th.Selection = th.Background.BlendLab(th.Foreground, 0.2)
	}

	for name, sf := range tf.Styles {
		cat, ok := highlight.CategoryFromName(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, name)
		}
		st := Style{Bold: sf.Bold, Italic: sf.Italic, Underline: sf.Underline}
		if sf.Color != "" {
			if st.Color, err = parseColor("styles."+name, sf.Color); err != nil {
				return nil, err
			}
		} else {
			st.Color = th.Foreground
		}
		th.styles[cat] = st
	}
	return th, nil
}

// Load reads and parses a theme file from disk.
func Load(path string) (*Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load theme: %w", err)
	}
	return Parse(data)
}

const defaultTheme = `
name: loom-dark
foreground: "#cbccc6"
background: "#1f2430"
cursor: "#ffcc66"
selection: "#33415e"
styles:
  comment: {color: "#5c6773", italic: true}
  string: {color: "#bae67e"}
  number: {color: "#ffcc66"}
  keyword: {color: "#ffa759", bold: true}
  operator: {color: "#f29e74"}
  punctuation: {color: "#cbccc6"}
  identifier: {color: "#cbccc6"}
  function: {color: "#ffd580"}
  type: {color: "#73d0ff"}
`

// Default returns the built-in theme.
func Default() *Theme {
	th, err := Parse([]byte(defaultTheme))
	if err != nil {
		panic(fmt.Sprintf("built-in theme invalid: %v", err))
	}
	return th
}
