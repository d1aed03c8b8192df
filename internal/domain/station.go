package domain

// Station is immutable reference data for one transit station.
// Key is the normalized form of Name and is unique within an index.
type Station struct {
	Name   string
	Key    string
	Coords Coordinates
	Lines  []string
}

// SharesLine reports whether both stations are served by at least one common line.
func (s *Station) SharesLine(o *Station) bool {
	for _, a := range s.Lines {
		for _, b := range o.Lines {
			if a == b {
				return true
			}
		}
	}
	return false
}
