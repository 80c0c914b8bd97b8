package templates

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/davicafu/availability-relay/tests/mocks"
)

type fakeS3 struct {
	objects map[string]string
	err     error
	calls   int
}

func (f *fakeS3) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	body, ok := f.objects[*params.Bucket+"/"+*params.Key]
	if !ok {
		return nil, &smithy.GenericAPIError{Code: "NoSuchKey", Message: "The specified key does not exist."}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(body))}, nil
}

func TestS3Store_FetchTemplate(t *testing.T) {
	client := &fakeS3{objects: map[string]string{"templates/available.njk": "Hola {{ atf_name }}"}}
	store := NewS3Store(client)

	text, err := store.FetchTemplate(context.Background(), "templates", "available.njk")
	require.NoError(t, err)
	assert.Equal(t, "Hola {{ atf_name }}", text)

	_, err = store.FetchTemplate(context.Background(), "templates", "missing.njk")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NoSuchKey")
	assert.Contains(t, err.Error(), "s3://templates/missing.njk")
}

func TestS3Store_TransportError(t *testing.T) {
	boom := errors.New("dial tcp: connection refused")
	store := NewS3Store(&fakeS3{err: boom})

	_, err := store.FetchTemplate(context.Background(), "templates", "available.njk")
	assert.ErrorIs(t, err, boom)
}

func TestCachedStore_HitAvoidsStore(t *testing.T) {
	next := new(mocks.MockTemplateStore)
	next.On("FetchTemplate", mock.Anything, "templates", "available.njk").Return("texto", nil).Once()
	cache := mocks.NewDummyCache()
	store := NewCachedStore(next, cache, time.Minute, zap.NewNop())

	for i := 0; i < 3; i++ {
		text, err := store.FetchTemplate(context.Background(), "templates", "available.njk")
		require.NoError(t, err)
		assert.Equal(t, "texto", text)
	}

	next.AssertNumberOfCalls(t, "FetchTemplate", 1)
	assert.Equal(t, 1, cache.Sets)
}

func TestCachedStore_CacheDownFallsBack(t *testing.T) {
	next := new(mocks.MockTemplateStore)
	next.On("FetchTemplate", mock.Anything, "templates", "available.njk").Return("texto", nil)
	cache := mocks.NewDummyCache()
	cache.Down = true
	store := NewCachedStore(next, cache, time.Minute, zap.NewNop())

	text, err := store.FetchTemplate(context.Background(), "templates", "available.njk")
	require.NoError(t, err)
	assert.Equal(t, "texto", text)

	text, err = store.FetchTemplate(context.Background(), "templates", "available.njk")
	require.NoError(t, err)
	assert.Equal(t, "texto", text)
	next.AssertNumberOfCalls(t, "FetchTemplate", 2)
}

func TestCachedStore_StoreErrorIsNotCached(t *testing.T) {
	boom := errors.New("access denied")
	next := new(mocks.MockTemplateStore)
	next.On("FetchTemplate", mock.Anything, "templates", "available.njk").Return("", boom)
	cache := mocks.NewDummyCache()
	store := NewCachedStore(next, cache, time.Minute, zap.NewNop())

	_, err := store.FetchTemplate(context.Background(), "templates", "available.njk")
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, cache.Sets)
}

func TestPongoRenderer_Render(t *testing.T) {
	r := NewPongoRenderer()
	values := map[string]any{
		"atf_name":                   "Acme",
		"additional_open_date_start": "09 November 2020",
		"additional_open_date_end":   "07 December 2020",
		"link":                       "https://atf.example.com/update?token=abc",
	}

	out, err := r.Render("{{ atf_name }}: {{ additional_open_date_start }} - {{ additional_open_date_end }} ({{ link }})", values)
	require.NoError(t, err)
	assert.Equal(t, "Acme: 09 November 2020 - 07 December 2020 (https://atf.example.com/update?token=abc)", out)

	// Segunda llamada con la plantilla ya compilada.
	out, err = r.Render("Hola {{ atf_name }}", values)
	require.NoError(t, err)
	assert.Equal(t, "Hola Acme", out)
	out, err = r.Render("Hola {{ atf_name }}", map[string]any{"atf_name": "Beta"})
	require.NoError(t, err)
	assert.Equal(t, "Hola Beta", out)
}

func TestPongoRenderer_InvalidTemplate(t *testing.T) {
	_, err := NewPongoRenderer().Render("{% if %}", nil)
	assert.Error(t, err)
}
