package theme

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// TypeStyle is one entry of the type scale. Sizes are in CSS pixels; the
// terminal renderer only honors Weight.
type TypeStyle struct {
	Size       int `toml:"size" yaml:"size"`
	LineHeight int `toml:"line_height" yaml:"line_height"`
	Weight     int `toml:"weight" yaml:"weight"`
}

// Bold reports whether the style renders bold in a terminal.
func (s TypeStyle) Bold() bool { return s.Weight >= 600 }

// TypeScale is the product type scale keyed by token name.
var TypeScale = map[string]TypeStyle{
	"4xl-medium":   {40, 48, 500},
	"3xl-bold":     {32, 38, 700},
	"3xl-semibold": {32, 38, 600},
	"2xl-bold":     {24, 28, 700},
	"2xl-semibold": {24, 28, 600},
	"2xl-medium":   {24, 28, 500},
	"2xl-regular":  {24, 28, 400},
	"xl-bold":      {20, 24, 700},
	"xl-semibold":  {20, 24, 600},
	"xl-medium":    {20, 24, 500},
	"xl-regular":   {20, 24, 400},
	"2lg-bold":     {18, 21, 700},
	"2lg-semibold": {18, 21, 600},
	"2lg-medium":   {18, 21, 500},
	"2lg-regular":  {18, 21, 400},
	"lg-bold":      {16, 19, 700},
	"lg-semibold":  {16, 19, 600},
	"lg-medium":    {16, 19, 500},
	"lg-regular":   {16, 19, 400},
	"md-bold":      {14, 17, 700},
	"md-semibold":  {14, 17, 600},
	"md-medium":    {14, 17, 500},
	"md-regular":   {14, 17, 400},
	"sm-semibold":  {13, 16, 600},
	"sm-medium":    {13, 16, 500},
	"xs-semibold":  {12, 14, 600},
	"xs-medium":    {12, 14, 500},
	"xs-regular":   {12, 14, 400},
}

// tokenFile is the on-disk shape shared by the TOML and YAML encodings.
type tokenFile struct {
	Name   string                       `toml:"name" yaml:"name"`
	Colors map[string]map[string]string `toml:"colors" yaml:"colors"`
	Type   map[string]TypeStyle         `toml:"type,omitempty" yaml:"type,omitempty"`
}

var hexColorRegex = regexp.MustCompile(`^#[0-9a-fA-F]{6}([0-9a-fA-F]{2})?$`)

func toFile(t Theme, withType bool) tokenFile {
	f := tokenFile{Name: t.Name, Colors: map[string]map[string]string{}}
	for _, c := range t.colors() {
		group, name, _ := strings.Cut(c.key, ".")
		if f.Colors[group] == nil {
			f.Colors[group] = map[string]string{}
		}
		f.Colors[group][name] = *c.value
	}
	if withType {
		f.Type = TypeScale
	}
	return f
}

// fromFile overlays the colors in f onto the default palette. Unknown
// tokens and malformed colors are errors.
func fromFile(f tokenFile) (Theme, error) {
	if f.Name == "" {
		return Theme{}, fmt.Errorf("theme: missing required field %q", "name")
	}
	t := Default()
	t.Name = f.Name
	fields := map[string]*string{}
	for _, c := range t.colors() {
		fields[c.key] = c.value
	}
	for group, names := range f.Colors {
		for name, value := range names {
			key := group + "." + name
			dst, ok := fields[key]
			if !ok {
				return Theme{}, fmt.Errorf("theme: unknown color token %q", key)
			}
			if !hexColorRegex.MatchString(value) {
				return Theme{}, fmt.Errorf("theme: invalid hex color %q for %q (expected #RRGGBB or #RRGGBBAA)", value, key)
			}
			*dst = value
		}
	}
	return t, nil
}

// LoadFromTOML parses a TOML token file. Colors it omits keep their
// default value.
func LoadFromTOML(data []byte) (Theme, error) {
	var f tokenFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return Theme{}, fmt.Errorf("theme: parse TOML: %w", err)
	}
	return fromFile(f)
}

// SaveToTOML serializes t, with the type scale, as TOML.
func SaveToTOML(t Theme) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(toFile(t, true)); err != nil {
		return nil, fmt.Errorf("theme: encode TOML: %w", err)
	}
	return buf.Bytes(), nil
}

// LoadFromYAML parses a YAML token file.
func LoadFromYAML(data []byte) (Theme, error) {
	var f tokenFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Theme{}, fmt.Errorf("theme: parse YAML: %w", err)
	}
	return fromFile(f)
}

// SaveToYAML serializes t, with the type scale, as YAML.
func SaveToYAML(t Theme) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(toFile(t, true)); err != nil {
		return nil, fmt.Errorf("theme: encode YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("theme: encode YAML: %w", err)
	}
	return buf.Bytes(), nil
}

// LoadFile reads a token file, choosing the decoder by extension
// (.yaml/.yml, otherwise TOML).
func LoadFile(path string) (Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Theme{}, fmt.Errorf("theme: read %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return LoadFromYAML(data)
	default:
		return LoadFromTOML(data)
	}
}
