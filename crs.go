package vectorpipe

import (
	"fmt"
	"strings"
)

// CRS identifies a coordinate reference system by authority code and carries
// its proj4 definition string, which is what the transform machinery consumes.
type CRS struct {
	Code string // authority code, e.g. "EPSG:3857"
	Def  string // proj4 definition
}

// Built-in registry of commonly requested reference systems.
// Callers with other systems construct a CRS value directly from a proj4
// definition; the registry only saves typing for the usual suspects.
var crsRegistry = map[string]string{
	"EPSG:4326":   "+proj=longlat +datum=WGS84 +no_defs",
	"CRS:84":      "+proj=longlat +datum=WGS84 +no_defs",
	"EPSG:3857":   "+proj=merc +a=6378137 +b=6378137 +lon_0=0 +x_0=0 +y_0=0 +k=1.0 +units=m +no_defs",
	"EPSG:900913": "+proj=merc +a=6378137 +b=6378137 +lon_0=0 +x_0=0 +y_0=0 +k=1.0 +units=m +no_defs",
	"EPSG:32633":  "+proj=utm +zone=33 +datum=WGS84 +units=m +no_defs",
	"EPSG:32617":  "+proj=utm +zone=17 +datum=WGS84 +units=m +no_defs",
	"EPSG:2056":   "+proj=somerc +lat_0=46.9524055555556 +lon_0=7.43958333333333 +k_0=1 +x_0=2600000 +y_0=1200000 +ellps=bessel +units=m +no_defs",
}

// LookupCRS resolves an authority code (e.g. "EPSG:3857") against the
// built-in registry. Returns ErrUnknownCRS for codes it does not know.
func LookupCRS(code string) (CRS, error) {
	def, ok := crsRegistry[code]
	if !ok {
		return CRS{}, fmt.Errorf("%w: %q", ErrUnknownCRS, code)
	}
	return CRS{Code: code, Def: def}, nil
}

// IsGeographic reports whether the reference system expresses coordinates in
// longitude/latitude degrees rather than projected units.
func (c CRS) IsGeographic() bool {
	return strings.Contains(c.Def, "+proj=longlat")
}

// projectionFamily returns the proj4 projection name ("merc", "utm", ...),
// or "" when the definition carries none.
func (c CRS) projectionFamily() string {
	for _, tok := range strings.Fields(c.Def) {
		if v, ok := strings.CutPrefix(tok, "+proj="); ok {
			return v
		}
	}
	return ""
}

// equalTo reports whether two CRS values name the same system. Codes win when
// both are set; otherwise the definitions are compared verbatim.
func (c CRS) equalTo(other CRS) bool {
	if c.Code != "" && other.Code != "" {
		return c.Code == other.Code
	}
	return c.Def == other.Def
}
