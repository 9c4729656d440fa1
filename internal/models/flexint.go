package models

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// FlexInt is an integer that tolerates sloppy client input. Numbers and
// numeric strings parse normally; anything else (null, booleans, objects,
// garbage strings) coerces to zero instead of failing the request.
type FlexInt int

// Int returns the plain integer value.
func (f FlexInt) Int() int {
	return int(f)
}

// UnmarshalJSON implements json.Unmarshaler with coerce-to-zero semantics.
func (f *FlexInt) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "" || s == "null" {
		*f = 0
		return nil
	}

	// Quoted numeric strings are accepted as numbers.
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			*f = 0
			return nil
		}
		s = strings.TrimSpace(str)
	}

	if n, err := strconv.Atoi(s); err == nil {
		*f = FlexInt(n)
		return nil
	}
	if fl, err := strconv.ParseFloat(s, 64); err == nil {
		// Values outside the int range (huge exponents, NaN) would make
		// the float-to-int conversion implementation-defined, so they
		// coerce to zero like any other garbage input.
		if math.IsNaN(fl) || fl <= float64(math.MinInt) || fl >= float64(math.MaxInt) {
			*f = 0
			return nil
		}
		*f = FlexInt(int(fl))
		return nil
	}

	*f = 0
	return nil
}

// MarshalJSON renders the value as a plain JSON number.
func (f FlexInt) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Itoa(int(f))), nil
}
