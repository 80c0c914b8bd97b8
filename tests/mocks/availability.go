package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/davicafu/availability-relay/internal/availability/domain"
	sharedEvents "github.com/davicafu/availability-relay/internal/shared/events"
)

// ---------- ChangeDetector ----------

type MockChangeDetector struct {
	mock.Mock
}

func (m *MockChangeDetector) Extract(before, after sharedEvents.RawRecord) (*domain.ChangeClassification, error) {
	args := m.Called(before, after)
	if c := args.Get(0); c != nil {
		return c.(*domain.ChangeClassification), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockChangeDetector) HasChanged(oldAvailability, newAvailability domain.Availability) bool {
	args := m.Called(oldAvailability, newAvailability)
	return args.Bool(0)
}

// ---------- Templates ----------

type MockTemplateSource struct {
	mock.Mock
}

func (m *MockTemplateSource) Load(ctx context.Context) (domain.EmailTemplates, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.EmailTemplates), args.Error(1)
}

type MockTemplateStore struct {
	mock.Mock
}

func (m *MockTemplateStore) FetchTemplate(ctx context.Context, bucket, key string) (string, error) {
	args := m.Called(ctx, bucket, key)
	return args.String(0), args.Error(1)
}

type MockRenderer struct {
	mock.Mock
}

func (m *MockRenderer) Render(templateText string, values map[string]any) (string, error) {
	args := m.Called(templateText, values)
	return args.String(0), args.Error(1)
}

// Verificación estática
var (
	_ domain.ChangeDetector = (*MockChangeDetector)(nil)
	_ domain.TemplateSource = (*MockTemplateSource)(nil)
	_ domain.TemplateStore  = (*MockTemplateStore)(nil)
	_ domain.Renderer       = (*MockRenderer)(nil)
)

// ---------- BatchProcessor ----------

type MockBatchProcessor struct {
	mock.Mock
}

func (m *MockBatchProcessor) ProcessBatch(ctx context.Context, batch []sharedEvents.ChangeEvent) error {
	args := m.Called(ctx, batch)
	return args.Error(0)
}

var _ domain.BatchProcessor = (*MockBatchProcessor)(nil)
