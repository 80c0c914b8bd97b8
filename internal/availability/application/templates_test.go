package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/davicafu/availability-relay/internal/availability/domain"
	"github.com/davicafu/availability-relay/tests/mocks"
)

var testLocation = TemplateLocation{
	Bucket:         "templates",
	AvailableKey:   "available.njk",
	FullyBookedKey: "fully-booked.njk",
}

func TestTemplateLoader_Load(t *testing.T) {
	store := new(mocks.MockTemplateStore)
	store.On("FetchTemplate", mock.Anything, "templates", "available.njk").Return("A", nil)
	store.On("FetchTemplate", mock.Anything, "templates", "fully-booked.njk").Return("F", nil)

	tpl, err := NewTemplateLoader(store, testLocation, zap.NewNop()).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.EmailTemplates{Available: "A", FullyBooked: "F"}, tpl)
	store.AssertExpectations(t)
}

func TestTemplateLoader_FetchFailure(t *testing.T) {
	boom := errors.New("access denied")
	store := new(mocks.MockTemplateStore)
	store.On("FetchTemplate", mock.Anything, "templates", "available.njk").Return("A", nil)
	store.On("FetchTemplate", mock.Anything, "templates", "fully-booked.njk").Return("", boom)

	_, err := NewTemplateLoader(store, testLocation, zap.NewNop()).Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTemplateFetch)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "templates/fully-booked.njk")
}
