package dto

import "github.com/historisense/portal/internal/domain"

// AnalysisResponse returns the analysis alongside geocoded map markers.
type AnalysisResponse struct {
	Analysis *domain.Analysis          `json:"analysis"`
	Geocoded []domain.GeocodedLocation `json:"geocoded_locations"`
}

// TestimonyListResponse wraps the museum's uploaded testimonies.
type TestimonyListResponse struct {
	Testimonies []domain.TestimonySummary `json:"testimonies"`
}

// TestimonyDetailResponse provides one full testimony record.
type TestimonyDetailResponse struct {
	Testimony domain.Testimony `json:"testimony"`
}
