package application

import (
	"errors"
	"fmt"
	"time"

	"github.com/Hannlytics/rams-generator/internal/domain"
	"go.uber.org/zap"
)

// ExportService renders a form into a downloadable PDF or Word document.
type ExportService struct {
	renderers map[domain.DocumentFormat]domain.DocumentRenderer
	logger    *zap.Logger
	now       func() time.Time
}

func NewExportService(logger *zap.Logger, renderers ...domain.DocumentRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := make(map[domain.DocumentFormat]domain.DocumentRenderer, len(renderers))
	for _, r := range renderers {
		m[r.Format()] = r
	}
	return &ExportService{renderers: m, logger: logger, now: time.Now}
}

// Export renders the form. On any failure it returns an error and no
// document, never a partial one.
func (s *ExportService) Export(form domain.FormSnapshot, format domain.DocumentFormat) (*domain.ExportedDocument, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	r, ok := s.renderers[format]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, format)
	}

	at := s.now()
	data, err := r.Render(domain.Document{Form: form, GeneratedAt: at})
	if err != nil {
		s.logger.Error("document render failed", zap.String("format", string(format)), zap.Error(err))
		return nil, fmt.Errorf("rendering %s: %w", format, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("rendering %s: %w", format, errors.New("renderer produced no output"))
	}

	return &domain.ExportedDocument{
		Filename: domain.DocumentFilename(form.ProjectName, at, format),
		Format:   format,
		Data:     data,
	}, nil
}
