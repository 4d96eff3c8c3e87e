package domain

// PersonMention is one person identified in a testimony.
type PersonMention struct {
	Name   string `json:"name"`
	Role   string `json:"role"`
	Region string `json:"region"`
}

// LocationDetail describes how a place figures in a testimony.
type LocationDetail struct {
	Count       int    `json:"count"`
	Description string `json:"description"`
}

// Analysis is the AI-generated result the backend returns for a testimony.
// Emotion intensities are 0-100; topic weights are backend-defined.
type Analysis struct {
	Emotions        map[string]float64        `json:"emotions"`
	Topics          map[string]float64        `json:"topics"`
	PeopleMentioned []PersonMention           `json:"people_mentioned"`
	WriterInfo      map[string]string         `json:"writer_info"`
	Locations       map[string]LocationDetail `json:"locations"`
}

// TestimonySummary is one row of a museum's testimony listing.
type TestimonySummary struct {
	Filename   string `json:"filename"`
	Title      string `json:"title"`
	UploadDate string `json:"upload_date"`
	FileType   string `json:"file_type"`
}

// Testimony is the full stored record for a single uploaded file.
type Testimony struct {
	Filename    string    `json:"filename"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	UploadDate  string    `json:"upload_date"`
	FileType    string    `json:"file_type"`
	Analysis    *Analysis `json:"analysis,omitempty"`
}

// GeocodedLocation is a testimony location resolved to map coordinates.
type GeocodedLocation struct {
	Name        string  `json:"name"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Count       int     `json:"count"`
	Description string  `json:"description"`
}
