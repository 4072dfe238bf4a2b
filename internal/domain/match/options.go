package match

// Option applies a configuration option to the Matcher.
type Option func(*Matcher)

// WithWeights sets the composite weights. All four must be positive and sum
// to 1.0; invalid weights are ignored and the defaults kept.
func WithWeights(breed, color, location, timeWeight float64) Option {
	return func(m *Matcher) {
		if breed <= 0 || color <= 0 || location <= 0 || timeWeight <= 0 {
			return
		}
		const tolerance = 1e-9
		sum := breed + color + location + timeWeight
		if sum < 1-tolerance || sum > 1+tolerance {
			return
		}
		m.breedWeight = breed
		m.colorWeight = color
		m.locationWeight = location
		m.timeWeight = timeWeight
	}
}

// WithGeoRadiusKM sets the distance at which the location score decays to 0.
func WithGeoRadiusKM(km float64) Option {
	return func(m *Matcher) {
		if km > 0 {
			m.geoRadiusKM = km
		}
	}
}

// WithTimeWindowDays sets the anchor-date gap at which the time score decays
// to 0.
func WithTimeWindowDays(days float64) Option {
	return func(m *Matcher) {
		if days > 0 {
			m.timeWindowDays = days
		}
	}
}
