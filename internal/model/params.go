package model

// Params holds the tuning knobs of a single cleaning run.
// This struct is plain data: validation lives in the clean package so
// the same checks guard both CLI-built and programmatic parameters.
type Params struct {
	// MinArea is the minimum polygon-estimated area, in square cells, an
	// obstacle region must reach to survive filtering. Regions below it
	// are erased. Zero disables filtering; negative values are rejected.
	MinArea float64 `json:"min_area"`

	// FreeThresh is the lower intensity bound for free space. Cells with
	// intensity >= FreeThresh are classified free.
	FreeThresh int `json:"free_thresh"`

	// OccupiedThresh is the upper intensity bound for obstacles. Cells
	// with intensity < OccupiedThresh are classified occupied.
	OccupiedThresh int `json:"occupied_thresh"`
}

// Stats reports what the region filter did during one run. The counts
// replace the progress printing of earlier iterations of this tool so
// observability is an explicit return value rather than global state.
type Stats struct {
	// RegionsFound is the number of connected obstacle regions extracted
	// from the obstacle mask.
	RegionsFound int `json:"regions_found"`

	// RegionsRemoved is how many of those regions fell below MinArea and
	// were erased.
	RegionsRemoved int `json:"regions_removed"`
}
