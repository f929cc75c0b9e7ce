package swapi

import (
	"context"
	"testing"
	"time"

	"holocron/application/ports/mocks"
	"holocron/domain/character"
	"holocron/pkg/errors"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Name:             "test",
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          time.Minute,
		FailureThreshold: 0.5,
		MinRequests:      2,
	}
}

func TestBreakerAPI_OpensAfterUpstreamFailures(t *testing.T) {
	ctx := context.Background()
	next := new(mocks.MockCharacterAPI)
	next.On("GetCharacter", ctx, "1").Return(nil, errors.NewHTTPError(500)).Twice()

	api := NewBreakerAPI(next, testBreakerConfig(), zap.NewNop())

	for i := 0; i < 2; i++ {
		_, err := api.GetCharacter(ctx, "1")
		assert.True(t, errors.IsHTTPError(err))
	}
	assert.Equal(t, gobreaker.StateOpen, api.State())

	_, err := api.GetCharacter(ctx, "1")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeUnavailable))
	next.AssertExpectations(t)
}

func TestBreakerAPI_NotFoundDoesNotTrip(t *testing.T) {
	ctx := context.Background()
	next := new(mocks.MockCharacterAPI)
	next.On("GetCharacter", ctx, "999").Return(nil, errors.NewHTTPError(404))

	api := NewBreakerAPI(next, testBreakerConfig(), zap.NewNop())

	for i := 0; i < 5; i++ {
		_, err := api.GetCharacter(ctx, "999")
		assert.True(t, errors.IsHTTPError(err))
	}
	assert.Equal(t, gobreaker.StateClosed, api.State())
}

func TestBreakerAPI_PassesThroughResults(t *testing.T) {
	ctx := context.Background()
	params := character.NewSearchParams(1, "")
	page := &character.Page{Count: 1, Results: []character.Character{{Name: "Luke"}}}

	next := new(mocks.MockCharacterAPI)
	next.On("ListCharacters", ctx, params).Return(page, nil)

	api := NewBreakerAPI(next, DefaultBreakerConfig(), zap.NewNop())

	got, err := api.ListCharacters(ctx, params)

	require.NoError(t, err)
	assert.Same(t, page, got)
	next.AssertExpectations(t)
}
