package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/historisense/portal/internal/backend"
	"github.com/historisense/portal/internal/domain"
	"github.com/historisense/portal/internal/events"
	"github.com/historisense/portal/internal/geocode"
)

// TestimonyService coordinates testimony analysis and retrieval.
type TestimonyService struct {
	backend    *backend.Client
	geocoder   *geocode.Client
	dispatcher events.Dispatcher
}

// NewTestimonyService builds the service.
func NewTestimonyService(backendClient *backend.Client, geocoder *geocode.Client, dispatcher events.Dispatcher) *TestimonyService {
	return &TestimonyService{
		backend:    backendClient,
		geocoder:   geocoder,
		dispatcher: dispatcher,
	}
}

// AnalysisReport pairs the backend analysis with geocoded map markers.
type AnalysisReport struct {
	Analysis *domain.Analysis          `json:"analysis"`
	Geocoded []domain.GeocodedLocation `json:"geocoded_locations"`
}

// Analyze uploads the files for analysis and geocodes the resulting
// locations. Geocoding failures degrade to fewer markers, never to a failed
// analysis.
func (s *TestimonyService) Analyze(ctx context.Context, sessionID string, files []backend.UploadFile) (AnalysisReport, error) {
	analysis, err := s.backend.AnalyzeTestimony(ctx, sessionID, files)
	if err != nil {
		return AnalysisReport{}, err
	}

	var geocoded []domain.GeocodedLocation
	if len(analysis.Locations) > 0 {
		geocoded = s.geocoder.ResolveAll(ctx, analysis.Locations)
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventTestimonyAnalyzed,
			SessionID: sessionID,
			Timestamp: time.Now(),
			Payload: events.TestimonyAnalyzedPayload{
				Files:     len(files),
				Locations: len(analysis.Locations),
				Geocoded:  len(geocoded),
			},
		})
	}

	return AnalysisReport{Analysis: analysis, Geocoded: geocoded}, nil
}

// List returns the museum's uploaded testimonies.
func (s *TestimonyService) List(ctx context.Context, sessionID string) ([]domain.TestimonySummary, error) {
	return s.backend.ListTestimonies(ctx, sessionID)
}

// Get returns one full testimony record.
func (s *TestimonyService) Get(ctx context.Context, sessionID, filename string) (domain.Testimony, error) {
	return s.backend.GetTestimony(ctx, sessionID, filename)
}

// Delete removes one testimony record.
func (s *TestimonyService) Delete(ctx context.Context, sessionID, filename string) error {
	return s.backend.DeleteTestimony(ctx, sessionID, filename)
}
