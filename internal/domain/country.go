package domain

import "time"

// Country is immutable reference data.
// IsoCode is the 3-letter ISO 3166-1 alpha-3 code; IsoCode2 the 2-letter
// alpha-2 code. Both are unique. Flight legs carry alpha-2 codes, so visit
// derivation resolves countries through IsoCode2.
type Country struct {
	ID        int64
	Name      string
	IsoCode   string
	IsoCode2  string
	CreatedAt time.Time
}
