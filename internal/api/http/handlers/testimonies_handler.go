package handlers

import (
	"io"
	"mime/multipart"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/historisense/portal/internal/api/dto"
	"github.com/historisense/portal/internal/backend"
	"github.com/historisense/portal/internal/service"
	"github.com/historisense/portal/internal/session"
	apperrors "github.com/historisense/portal/pkg/util"
)

// TestimoniesHandler exposes the testimony analysis and management API.
type TestimoniesHandler struct {
	testimonies *service.TestimonyService
}

// NewTestimoniesHandler constructs handler.
func NewTestimoniesHandler(testimonies *service.TestimonyService) *TestimoniesHandler {
	return &TestimoniesHandler{testimonies: testimonies}
}

// Analyze handles POST /api/testimonies/analyze. The multipart form carries
// the documents under "files" plus per-file "title_<name>" and
// "description_<name>" fields.
func (h *TestimoniesHandler) Analyze(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return apperrors.NewValidationError("expected a multipart form", nil)
	}

	headers := form.File["files"]
	if len(headers) == 0 {
		return apperrors.NewValidationError("at least one file is required", nil)
	}

	files := make([]backend.UploadFile, 0, len(headers))
	for _, header := range headers {
		content, err := readFormFile(header)
		if err != nil {
			return apperrors.NewValidationError("could not read uploaded file: "+header.Filename, nil)
		}
		files = append(files, backend.UploadFile{
			Name:        header.Filename,
			Title:       firstValue(form.Value, "title_"+header.Filename),
			Description: firstValue(form.Value, "description_"+header.Filename),
			Content:     content,
		})
	}

	report, err := h.testimonies.Analyze(c.Context(), session.IDFromContext(c), files)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": dto.AnalysisResponse{
			Analysis: report.Analysis,
			Geocoded: report.Geocoded,
		},
	})
}

// List handles GET /api/testimonies.
func (h *TestimoniesHandler) List(c *fiber.Ctx) error {
	testimonies, err := h.testimonies.List(c.Context(), session.IDFromContext(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.TestimonyListResponse{Testimonies: testimonies}})
}

// Get handles GET /api/testimonies/:filename.
func (h *TestimoniesHandler) Get(c *fiber.Ctx) error {
	testimony, err := h.testimonies.Get(c.Context(), session.IDFromContext(c), filenameParam(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.TestimonyDetailResponse{Testimony: testimony}})
}

// Delete handles DELETE /api/testimonies/:filename.
func (h *TestimoniesHandler) Delete(c *fiber.Ctx) error {
	if err := h.testimonies.Delete(c.Context(), session.IDFromContext(c), filenameParam(c)); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.MessageResponse{Message: "testimony deleted"}})
}

func filenameParam(c *fiber.Ctx) string {
	raw := c.Params("filename")
	if decoded, err := url.PathUnescape(raw); err == nil {
		return decoded
	}
	return raw
}

func firstValue(values map[string][]string, key string) string {
	if list, ok := values[key]; ok && len(list) > 0 {
		return list[0]
	}
	return ""
}

func readFormFile(header *multipart.FileHeader) ([]byte, error) {
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}
