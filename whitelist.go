package xssfilter

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// Whitelist maps each permitted tag name to the set of attribute names
// that may pass through on it.
//
// Names are matched exactly as the tokenizer reports them. The
// golang.org/x/net/html tokenizer lowercases ASCII tag and attribute
// names, so entries should be registered in lower case.
//
// A Whitelist is not safe for concurrent mutation. Populate it, then
// share it read-only (see Clone).
type Whitelist struct {
	tags map[string]map[string]struct{}
}

// NewWhitelist returns an empty Whitelist. An empty whitelist is valid
// and causes every tag to be escaped.
func NewWhitelist() *Whitelist {
	return &Whitelist{tags: make(map[string]map[string]struct{})}
}

// Permit registers tag with the given attribute names, replacing any
// set previously registered for the same tag. Calling Permit with no
// attributes allows the bare tag.
func (wl *Whitelist) Permit(tag string, attrs ...string) {
	if wl.tags == nil {
		wl.tags = make(map[string]map[string]struct{})
	}
	wl.tags[tag] = sliceToSet(attrs)
}

// LoadDefault registers the minimal baseline: anchors with href and
// title.
func (wl *Whitelist) LoadDefault() {
	wl.Permit("a", "href", "title")
}

// IsTagPermitted reports whether tag is registered.
func (wl *Whitelist) IsTagPermitted(tag string) bool {
	_, ok := wl.tags[tag]
	return ok
}

// IsAttributePermitted reports whether attr may appear on tag. It is
// false whenever tag itself is not permitted.
func (wl *Whitelist) IsAttributePermitted(tag, attr string) bool {
	set, ok := wl.tags[tag]
	if !ok {
		return false
	}
	_, ok = set[attr]
	return ok
}

// Tags returns the permitted tag names in sorted order.
func (wl *Whitelist) Tags() []string {
	out := make([]string, 0, len(wl.tags))
	for tag := range wl.tags {
		out = append(out, tag)
	}
	slices.Sort(out)
	return out
}

// Attributes returns the attribute names permitted on tag in sorted
// order, or nil if tag is not permitted.
func (wl *Whitelist) Attributes(tag string) []string {
	set, ok := wl.tags[tag]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(set))
	for attr := range set {
		out = append(out, attr)
	}
	slices.Sort(out)
	return out
}

// Len returns the number of permitted tags.
func (wl *Whitelist) Len() int {
	return len(wl.tags)
}

// Clone returns a deep copy of wl. Handing a clone to concurrent
// sanitizers keeps later Permit calls on the original from racing with
// them.
func (wl *Whitelist) Clone() *Whitelist {
	c := NewWhitelist()
	for tag, set := range wl.tags {
		cs := make(map[string]struct{}, len(set))
		for attr := range set {
			cs[attr] = struct{}{}
		}
		c.tags[tag] = cs
	}
	return c
}

// DecideTag implements Policy.
func (wl *Whitelist) DecideTag(name string, _ Position) Decision {
	if wl.IsTagPermitted(name) {
		return Allow
	}
	return Deny
}

// DecideAttribute implements Policy.
func (wl *Whitelist) DecideAttribute(tag, attr string, _ Position) Decision {
	if wl.IsAttributePermitted(tag, attr) {
		return Allow
	}
	return Deny
}

// whitelistFile is the YAML layout read by LoadWhitelist.
type whitelistFile struct {
	Defaults bool                `yaml:"defaults"`
	Tags     map[string][]string `yaml:"tags"`
}

// LoadWhitelist decodes a YAML whitelist document:
//
//	defaults: true
//	tags:
//	  a: [href, title]
//	  b: []
//
// When defaults is set the baseline from LoadDefault is registered
// first, so entries under tags override it.
func LoadWhitelist(r io.Reader) (*Whitelist, error) {
	var f whitelistFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Join(ErrInvalidWhitelist, err)
	}

	wl := NewWhitelist()
	if f.Defaults {
		wl.LoadDefault()
	}
	for tag, attrs := range f.Tags {
		if tag == "" {
			return nil, fmt.Errorf("%w: empty tag name", ErrInvalidWhitelist)
		}
		if slices.Contains(attrs, "") {
			return nil, fmt.Errorf("%w: empty attribute name on %q", ErrInvalidWhitelist, tag)
		}
		wl.Permit(tag, attrs...)
	}
	return wl, nil
}

// LoadWhitelistFile reads a YAML whitelist from path.
func LoadWhitelistFile(path string) (*Whitelist, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	wl, err := LoadWhitelist(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return wl, nil
}

func sliceToSet(s []string) map[string]struct{} {
	m := make(map[string]struct{}, len(s))
	for _, v := range s {
		m[v] = struct{}{}
	}
	return m
}
