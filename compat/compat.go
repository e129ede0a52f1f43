/*
Package compat models browser capability targets. A Targets set maps
browsers to the minimum version the output must run on; transform passes
query it to decide whether a modern construct needs downleveling or a
vendor prefix.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package compat

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/npillmayer/schuko/tracing"
	"gopkg.in/yaml.v3"
)

// tracer traces with key 'csskit.compat'.
func tracer() tracing.Trace {
	return tracing.Select("csskit.compat")
}

// Browser identifies a browser line.
type Browser string

// The browser lines the capability tables know about.
const (
	Chrome  Browser = "chrome"
	Firefox Browser = "firefox"
	Safari  Browser = "safari"
	Edge    Browser = "edge"
	Opera   Browser = "opera"
	IOSSaf  Browser = "ios_saf"
	Android Browser = "android"
	Samsung Browser = "samsung"
)

var knownBrowsers = map[Browser]bool{
	Chrome: true, Firefox: true, Safari: true, Edge: true,
	Opera: true, IOSSaf: true, Android: true, Samsung: true,
}

// Version encodes major.minor.patch into a single comparable integer.
type Version uint32

// V builds a Version from its parts.
func V(major, minor, patch int) Version {
	return Version(major)<<16 | Version(minor)<<8 | Version(patch)
}

// Parts decomposes a version.
func (v Version) Parts() (major, minor, patch int) {
	return int(v >> 16), int(v >> 8 & 0xff), int(v & 0xff)
}

func (v Version) String() string {
	major, minor, patch := v.Parts()
	switch {
	case patch != 0:
		return fmt.Sprintf("%d.%d.%d", major, minor, patch)
	case minor != 0:
		return fmt.Sprintf("%d.%d", major, minor)
	}
	return strconv.Itoa(major)
}

// ParseVersion reads "90", "13.1" or "13.1.2".
func ParseVersion(s string) (Version, error) {
	parts := strings.SplitN(strings.TrimSpace(s), ".", 3)
	var nums [3]int
	for i, p := range parts {
		limit := 0xffff // major has 16 bits, minor and patch 8 each
		if i > 0 {
			limit = 0xff
		}
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || n > limit {
			return 0, fmt.Errorf("malformed version %q", s)
		}
		nums[i] = n
	}
	return V(nums[0], nums[1], nums[2]), nil
}

// Feature identifies a CSS capability a transform pass may have to
// downlevel or prefix.
type Feature string

// The features the transform passes consult.
const (
	HexAlpha          Feature = "hex-alpha"
	ModernColorSyntax Feature = "modern-color-syntax"
	LabColors         Feature = "lab-colors"
	OKLabColors       Feature = "oklab-colors"
	HWBColors         Feature = "hwb-colors"
	MediaRangeSyntax  Feature = "media-range-syntax"
	Nesting           Feature = "nesting"
	InsetProperty     Feature = "inset-property"
	UserSelect        Feature = "user-select"
	Appearance        Feature = "appearance"
	BackdropFilter    Feature = "backdrop-filter"
	MaskProperty      Feature = "mask-property"
	TextSizeAdjust    Feature = "text-size-adjust"
)

// FeatureTable maps each feature to the minimum browser versions that
// support it natively. A browser absent from a feature's row never
// supports it.
type FeatureTable map[Feature]map[Browser]Version

// Targets is the set of browsers the output must run on.
type Targets map[Browser]Version

// IsEmpty reports whether no targets are set; with no targets every
// construct passes through unchanged.
func (t Targets) IsEmpty() bool { return len(t) == 0 }

// Supports reports whether every targeted browser supports the feature
// natively. An empty target set supports everything.
func (t Targets) Supports(table FeatureTable, f Feature) bool {
	if t.IsEmpty() {
		return true
	}
	row, ok := table[f]
	if !ok {
		tracer().Debugf("feature %q not in capability table, assuming unsupported", f)
		return false
	}
	for browser, min := range t {
		since, ok := row[browser]
		if !ok || min < since {
			return false
		}
	}
	return true
}

// ParseTargets reads a YAML mapping of browser names to version strings,
// e.g. "chrome: 90\nsafari: 13.1".
func ParseTargets(data []byte) (Targets, error) {
	var raw map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("targets: %w", err)
	}
	targets := make(Targets, len(raw))
	for name, vs := range raw {
		b := Browser(strings.ToLower(name))
		if !knownBrowsers[b] {
			return nil, fmt.Errorf("targets: unknown browser %q", name)
		}
		v, err := ParseVersion(vs)
		if err != nil {
			return nil, fmt.Errorf("targets: %s: %w", name, err)
		}
		targets[b] = v
	}
	return targets, nil
}

// ParseFeatureTable reads a YAML capability table: feature names mapping
// to browser/version rows. Loaded rows override the built-in defaults
// feature by feature.
func ParseFeatureTable(data []byte) (FeatureTable, error) {
	var raw map[string]map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("feature table: %w", err)
	}
	table := make(FeatureTable, len(defaultTable)+len(raw))
	for f, row := range defaultTable {
		table[f] = row
	}
	for fname, rawRow := range raw {
		row := make(map[Browser]Version, len(rawRow))
		for bname, vs := range rawRow {
			b := Browser(strings.ToLower(bname))
			if !knownBrowsers[b] {
				return nil, fmt.Errorf("feature table: unknown browser %q", bname)
			}
			v, err := ParseVersion(vs)
			if err != nil {
				return nil, fmt.Errorf("feature table: %s/%s: %w", fname, bname, err)
			}
			row[b] = v
		}
		table[Feature(fname)] = row
	}
	return table, nil
}

// DefaultTable returns the built-in capability table.
func DefaultTable() FeatureTable {
	table := make(FeatureTable, len(defaultTable))
	for f, row := range defaultTable {
		table[f] = row
	}
	return table
}
