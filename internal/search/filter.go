package search

import (
	"strconv"
	"strings"

	"rideNext/internal/models"
)

// Criteria is the filter exactly as entered. Blank fields are not applied.
type Criteria struct {
	FromCity string
	ToCity   string
	MinPrice string
	MaxPrice string
	MinSeats string
}

// Filter is a compiled Criteria. Nil bounds are unset.
type Filter struct {
	from     string
	to       string
	minPrice *int
	maxPrice *int
	minSeats *int
}

// Compile parses the numeric fields of c.
func (c Criteria) Compile() (Filter, error) {
	f := Filter{
		from: strings.ToLower(strings.TrimSpace(c.FromCity)),
		to:   strings.ToLower(strings.TrimSpace(c.ToCity)),
	}
	var err error
	if f.minPrice, err = parseBound("minPrice", c.MinPrice); err != nil {
		return Filter{}, err
	}
	if f.maxPrice, err = parseBound("maxPrice", c.MaxPrice); err != nil {
		return Filter{}, err
	}
	if f.minSeats, err = parseBound("minSeats", c.MinSeats); err != nil {
		return Filter{}, err
	}
	return f, nil
}

func parseBound(field, raw string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, models.ValidationError{Field: field, Msg: "must be a whole number"}
	}
	return &v, nil
}

// Match reports whether ride satisfies every set condition.
func (f Filter) Match(ride models.Ride) bool {
	if f.from != "" && !strings.Contains(strings.ToLower(ride.FromCity), f.from) {
		return false
	}
	if f.to != "" && !strings.Contains(strings.ToLower(ride.ToCity), f.to) {
		return false
	}
	if f.minSeats != nil && ride.AvailableSeats < *f.minSeats {
		return false
	}
	if f.minPrice != nil && ride.PricePerSeat < float64(*f.minPrice) {
		return false
	}
	if f.maxPrice != nil && ride.PricePerSeat > float64(*f.maxPrice) {
		return false
	}
	return true
}

// Apply returns the matching rides in catalog order. The result is never nil.
func (f Filter) Apply(rides []models.Ride) []models.Ride {
	out := make([]models.Ride, 0, len(rides))
	for _, r := range rides {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}
