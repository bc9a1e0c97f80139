package entities

// BusinessFilter holds optional listing criteria. Empty strings and a nil
// MinRating mean no constraint.
type BusinessFilter struct {
	SearchTerm string   `json:"searchTerm,omitempty"`
	Category   string   `json:"category,omitempty"`
	Location   string   `json:"location,omitempty"`
	MinRating  *float64 `json:"minRating,omitempty"`
}

// IsEmpty reports whether the filter has no constraints
func (f *BusinessFilter) IsEmpty() bool {
	return f == nil || (f.SearchTerm == "" && f.Category == "" && f.Location == "" && f.MinRating == nil)
}

// BusinessFacets lists the distinct filter values present in a business list
type BusinessFacets struct {
	Categories []string `json:"categories"`
	Locations  []string `json:"locations"`
}
