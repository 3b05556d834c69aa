package catalog

import (
	"fmt"
	"strconv"
	"strings"
)

// ID identifies a numbering scheme. The built-ins occupy [0, MaxBuiltinCatalog);
// custom catalogs use any id at or above MaxBuiltinCatalog.
type ID int

// Built-in catalogs.
const (
	HenryDraper ID = iota
	Gliese
	SAO
	Hipparcos
	Tycho
	MaxBuiltinCatalog
)

// Tycho designations are packed as tyc3*TychoTYC3 + tyc2*TychoTYC2 + tyc1.
const (
	TychoTYC2 = 10_000
	TychoTYC3 = 1_000_000_000
)

// Catalog describes one numbering scheme: the prefix used for its canonical
// textual form and the cross index holding its mapping.
type Catalog struct {
	ID     ID
	Name   string
	Prefix string

	// Aliases are extra prefixes accepted when parsing, e.g. "GJ" for Gliese.
	Aliases []string

	// Format renders the number part of a designation. Nil means decimal.
	Format func(Number) string

	// Parse reads the number part of a designation. Nil means decimal.
	Parse func(string) (Number, bool)

	xindex *CrossIndex
}

// New returns a catalog with an empty cross index.
func New(id ID, name, prefix string, aliases ...string) *Catalog {
	return &Catalog{
		ID:      id,
		Name:    name,
		Prefix:  prefix,
		Aliases: aliases,
		xindex:  NewCrossIndex(),
	}
}

// CrossIndex returns the catalog's mapping.
func (c *Catalog) CrossIndex() *CrossIndex {
	if c.xindex == nil {
		c.xindex = NewCrossIndex()
	}
	return c.xindex
}

// Designation formats num as "<Prefix> <Number>".
func (c *Catalog) Designation(num Number) string {
	return c.Prefix + " " + c.formatNumber(num)
}

func (c *Catalog) formatNumber(num Number) string {
	if c.Format != nil {
		return c.Format(num)
	}
	return strconv.FormatUint(uint64(num), 10)
}

func (c *Catalog) parseNumber(s string) (Number, bool) {
	if c.Parse != nil {
		return c.Parse(s)
	}
	return parseDecimal(s)
}

func parseDecimal(s string) (Number, bool) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil || n == 0 {
		return InvalidNumber, false
	}
	return Number(n), true
}

// PackTycho packs a TYC1-TYC2-TYC3 triple into a Number.
func PackTycho(tyc1, tyc2, tyc3 uint32) Number {
	return Number(tyc3)*TychoTYC3 + Number(tyc2)*TychoTYC2 + Number(tyc1)
}

// UnpackTycho reverses PackTycho.
func UnpackTycho(n Number) (tyc1, tyc2, tyc3 uint32) {
	tyc3 = uint32(n / TychoTYC3)
	n %= TychoTYC3
	tyc2 = uint32(n / TychoTYC2)
	tyc1 = uint32(n % TychoTYC2)
	return tyc1, tyc2, tyc3
}

func formatTycho(n Number) string {
	t1, t2, t3 := UnpackTycho(n)
	return fmt.Sprintf("%d-%d-%d", t1, t2, t3)
}

func parseTycho(s string) (Number, bool) {
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return InvalidNumber, false
	}
	var v [3]uint64
	for i, p := range parts {
		n, err := strconv.ParseUint(p, 10, 32)
		if err != nil {
			return InvalidNumber, false
		}
		v[i] = n
	}
	if v[0] == 0 || v[0] >= TychoTYC2 || v[1] >= TychoTYC3/TychoTYC2 || v[2] == 0 {
		return InvalidNumber, false
	}
	return PackTycho(uint32(v[0]), uint32(v[1]), uint32(v[2])), true
}

// parseGliese accepts component suffixes such as "559A" and drops them.
func parseGliese(s string) (Number, bool) {
	end := len(s)
	for end > 0 && (s[end-1] < '0' || s[end-1] > '9') {
		end--
	}
	if end == 0 || end < len(s)-1 {
		return InvalidNumber, false
	}
	return parseDecimal(s[:end])
}
