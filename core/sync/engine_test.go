package sync

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"admanager-sync/core/gam"
	"admanager-sync/core/gam/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// valuePage builds a page of values with sequential IDs starting at firstID.
func valuePage(keyID, firstID int64, total int, names ...string) *gam.ValuePage {
	page := &gam.ValuePage{TotalResultSetSize: total}
	for i, name := range names {
		page.Values = append(page.Values, gam.Value{
			ID:    firstID + int64(i),
			Name:  name,
			KeyID: keyID,
		})
	}
	return page
}

// atOffset matches a ListValues statement by its paging offset.
func atOffset(offset int) interface{} {
	return mock.MatchedBy(func(stmt gam.Statement) bool {
		return stmt.Offset == offset
	})
}

func TestFetchValues_Pagination(t *testing.T) {
	// 1200 values: exactly ceil(1200/500) = 3 calls at offsets 0, 500, 1000.
	targeting := new(mocks.TargetingService)

	makeNames := func(start, n int) []string {
		names := make([]string, n)
		for i := range names {
			names[i] = fmt.Sprintf("v%04d", start+i)
		}
		return names
	}

	targeting.On("ListValues", mock.Anything, atOffset(0)).
		Return(valuePage(1, 1, 1200, makeNames(0, 500)...), nil).Once()
	targeting.On("ListValues", mock.Anything, atOffset(500)).
		Return(valuePage(1, 501, 1200, makeNames(500, 500)...), nil).Once()
	targeting.On("ListValues", mock.Anything, atOffset(1000)).
		Return(valuePage(1, 1001, 1200, makeNames(1000, 200)...), nil).Once()

	var ticks [][2]int
	engine := NewEngine(targeting, nil)
	values, err := engine.FetchValues(context.Background(), 1, AttributeName, func(done, total int) {
		ticks = append(ticks, [2]int{done, total})
	})

	assert.NoError(t, err)
	assert.Len(t, values, 1200)

	// No duplicates, no omissions.
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		_, dup := seen[v]
		assert.False(t, dup, "duplicate value %s", v)
		seen[v] = struct{}{}
	}

	assert.Equal(t, [][2]int{{500, 1200}, {1000, 1200}, {1200, 1200}}, ticks)
	targeting.AssertExpectations(t)
}

func TestFetchValues_EmptyPageTerminates(t *testing.T) {
	// A platform that reports more rows than it returns must not spin the
	// pager forever; retrieval stops at the first empty page.
	targeting := new(mocks.TargetingService)

	targeting.On("ListValues", mock.Anything, atOffset(0)).
		Return(valuePage(1, 1, 3, "US", "CA"), nil).Once()
	targeting.On("ListValues", mock.Anything, atOffset(500)).
		Return(valuePage(1, 0, 3), nil).Once()

	engine := NewEngine(targeting, nil)
	values, err := engine.FetchValues(context.Background(), 1, AttributeName, nil)

	assert.NoError(t, err)
	assert.Equal(t, []string{"US", "CA"}, values)
	targeting.AssertExpectations(t)
}

func TestFetchValues_EmptySet(t *testing.T) {
	targeting := new(mocks.TargetingService)
	targeting.On("ListValues", mock.Anything, mock.Anything).
		Return(valuePage(1, 0, 0), nil).Once()

	engine := NewEngine(targeting, nil)
	values, err := engine.FetchValues(context.Background(), 1, AttributeName, nil)

	assert.NoError(t, err)
	assert.Empty(t, values)
	targeting.AssertNumberOfCalls(t, "ListValues", 1)
}

func TestFetchValues_IDProjection(t *testing.T) {
	targeting := new(mocks.TargetingService)
	targeting.On("ListValues", mock.Anything, mock.Anything).
		Return(valuePage(1, 41, 2, "a", "b"), nil).Once()

	engine := NewEngine(targeting, nil)
	values, err := engine.FetchValues(context.Background(), 1, AttributeID, nil)

	assert.NoError(t, err)
	assert.Equal(t, []string{"41", "42"}, values)
}

func TestUploadValues_GeoScenario(t *testing.T) {
	// Key "geo" holds {US, CA}; candidates [US CA MX US] at batch size 200
	// plan exactly {MX} and submit one chunk.
	targeting := new(mocks.TargetingService)
	key := &gam.Key{ID: 10, Name: "geo", Type: gam.KeyTypeFreeform}

	targeting.On("GetKeyByName", mock.Anything, "geo").Return(key, nil).Once()
	targeting.On("ListValues", mock.Anything, mock.Anything).
		Return(valuePage(10, 1, 2, "US", "CA"), nil).Once()
	targeting.On("CreateValues", mock.Anything, []gam.Value{{KeyID: 10, Name: "MX"}}).
		Return([]gam.Value{{ID: 3, KeyID: 10, Name: "MX"}}, nil).Once()

	engine := NewEngine(targeting, nil)
	result, err := engine.UploadValues(context.Background(), "geo", []string{"US", "CA", "MX", "US"}, UploadOptions{BatchSize: 200})

	assert.NoError(t, err)
	assert.Equal(t, 1, result.Planned)
	assert.Equal(t, 1, result.Uploaded)
	assert.Empty(t, result.Skipped)
	targeting.AssertNumberOfCalls(t, "CreateValues", 1)
}

func TestUploadValues_NoNewValuesIsNoop(t *testing.T) {
	targeting := new(mocks.TargetingService)
	key := &gam.Key{ID: 10, Name: "geo"}

	targeting.On("GetKeyByName", mock.Anything, "geo").Return(key, nil).Once()
	targeting.On("ListValues", mock.Anything, mock.Anything).
		Return(valuePage(10, 1, 2, "US", "CA"), nil).Once()

	engine := NewEngine(targeting, nil)
	result, err := engine.UploadValues(context.Background(), "geo", []string{"US", "CA"}, UploadOptions{})

	assert.NoError(t, err)
	assert.Equal(t, 0, result.Planned)
	assert.Equal(t, 0, result.Uploaded)
	targeting.AssertNotCalled(t, "CreateValues", mock.Anything, mock.Anything)
}

func TestUploadValues_MissingKeyWithoutCreate(t *testing.T) {
	targeting := new(mocks.TargetingService)
	targeting.On("GetKeyByName", mock.Anything, "geo").
		Return(nil, fmt.Errorf("custom targeting key %q: %w", "geo", gam.ErrNotFound)).Once()

	engine := NewEngine(targeting, nil)
	result, err := engine.UploadValues(context.Background(), "geo", []string{"MX"}, UploadOptions{})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, gam.ErrNotFound)

	// No remote mutation of any kind.
	targeting.AssertNotCalled(t, "CreateKey", mock.Anything, mock.Anything)
	targeting.AssertNotCalled(t, "CreateValues", mock.Anything, mock.Anything)
}

func TestUploadValues_AutoCreatesKey(t *testing.T) {
	targeting := new(mocks.TargetingService)
	created := &gam.Key{ID: 99, Name: "geo", Type: gam.KeyTypeFreeform}

	targeting.On("GetKeyByName", mock.Anything, "geo").
		Return(nil, fmt.Errorf("custom targeting key %q: %w", "geo", gam.ErrNotFound)).Once()
	targeting.On("CreateKey", mock.Anything, "geo").Return(created, nil).Once()
	targeting.On("ListValues", mock.Anything, mock.Anything).
		Return(valuePage(99, 0, 0), nil).Once()
	targeting.On("CreateValues", mock.Anything, []gam.Value{{KeyID: 99, Name: "MX"}}).
		Return([]gam.Value{{ID: 1, KeyID: 99, Name: "MX"}}, nil).Once()

	engine := NewEngine(targeting, nil)
	result, err := engine.UploadValues(context.Background(), "geo", []string{"MX"}, UploadOptions{CreateKey: true})

	assert.NoError(t, err)
	assert.Equal(t, created.ID, result.Key.ID)
	assert.Equal(t, 1, result.Uploaded)
	targeting.AssertExpectations(t)
}

func TestUploadValues_BatchFailureAborts(t *testing.T) {
	// Batch size >1: the first rejected chunk aborts the whole run.
	targeting := new(mocks.TargetingService)
	key := &gam.Key{ID: 10, Name: "geo"}

	targeting.On("GetKeyByName", mock.Anything, "geo").Return(key, nil).Once()
	targeting.On("ListValues", mock.Anything, mock.Anything).
		Return(valuePage(10, 0, 0), nil).Once()
	targeting.On("CreateValues", mock.Anything, mock.Anything).
		Return(nil, errors.New("quota exceeded")).Once()

	engine := NewEngine(targeting, nil)
	result, err := engine.UploadValues(context.Background(), "geo", []string{"a", "b", "c", "d"}, UploadOptions{BatchSize: 2})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
	// The aborting chunk was the first of two: nothing was uploaded.
	assert.Equal(t, 0, result.Uploaded)
	targeting.AssertNumberOfCalls(t, "CreateValues", 1)
}

func TestUploadValues_SingletonFailureSkips(t *testing.T) {
	// Batch size 1: a rejected singleton is skipped and the rest proceed.
	targeting := new(mocks.TargetingService)
	key := &gam.Key{ID: 10, Name: "geo"}

	targeting.On("GetKeyByName", mock.Anything, "geo").Return(key, nil).Once()
	targeting.On("ListValues", mock.Anything, mock.Anything).
		Return(valuePage(10, 0, 0), nil).Once()

	targeting.On("CreateValues", mock.Anything, []gam.Value{{KeyID: 10, Name: "a"}}).
		Return([]gam.Value{{ID: 1, KeyID: 10, Name: "a"}}, nil).Once()
	targeting.On("CreateValues", mock.Anything, []gam.Value{{KeyID: 10, Name: "b"}}).
		Return(nil, errors.New("already exists")).Once()
	targeting.On("CreateValues", mock.Anything, []gam.Value{{KeyID: 10, Name: "c"}}).
		Return([]gam.Value{{ID: 3, KeyID: 10, Name: "c"}}, nil).Once()

	engine := NewEngine(targeting, nil)
	result, err := engine.UploadValues(context.Background(), "geo", []string{"a", "b", "c"}, UploadOptions{BatchSize: 1})

	assert.NoError(t, err)
	assert.Equal(t, 2, result.Uploaded)
	assert.Equal(t, []string{"b"}, result.Skipped)
	targeting.AssertNumberOfCalls(t, "CreateValues", 3)
}

func TestDeactivateValues_ReportsMissingNames(t *testing.T) {
	targeting := new(mocks.TargetingService)
	key := &gam.Key{ID: 10, Name: "geo"}

	targeting.On("GetKeyByName", mock.Anything, "geo").Return(key, nil).Once()
	targeting.On("ListValues", mock.Anything, mock.Anything).
		Return(valuePage(10, 7, 1, "US"), nil).Once()
	targeting.On("DeactivateValues", mock.Anything, mock.MatchedBy(func(stmt gam.Statement) bool {
		return stmt.Filter() != ""
	})).Return(1, nil).Once()

	engine := NewEngine(targeting, nil)
	result, err := engine.DeactivateValues(context.Background(), "geo", []string{"US", "XX"})

	assert.NoError(t, err)
	assert.Equal(t, 1, result.Deactivated)
	assert.Equal(t, []string{"XX"}, result.NotFound)
}

func TestDeactivateValues_AllMissingStillSucceeds(t *testing.T) {
	targeting := new(mocks.TargetingService)
	key := &gam.Key{ID: 10, Name: "geo"}

	targeting.On("GetKeyByName", mock.Anything, "geo").Return(key, nil).Once()
	targeting.On("ListValues", mock.Anything, mock.Anything).
		Return(valuePage(10, 0, 0), nil).Once()

	engine := NewEngine(targeting, nil)
	result, err := engine.DeactivateValues(context.Background(), "geo", []string{"XX", "YY"})

	assert.NoError(t, err)
	assert.Equal(t, 0, result.Deactivated)
	assert.Equal(t, []string{"XX", "YY"}, result.NotFound)
	targeting.AssertNotCalled(t, "DeactivateValues", mock.Anything, mock.Anything)
}

func TestDeactivateValues_MissingKey(t *testing.T) {
	targeting := new(mocks.TargetingService)
	targeting.On("GetKeyByName", mock.Anything, "geo").
		Return(nil, fmt.Errorf("custom targeting key %q: %w", "geo", gam.ErrNotFound)).Once()

	engine := NewEngine(targeting, nil)
	result, err := engine.DeactivateValues(context.Background(), "geo", []string{"US"})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, gam.ErrNotFound)
}
