package listing

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID       string
	Category string
}

func (i item) CategoryOf() string { return i.Category }

func sample() []item {
	return []item{
		{ID: "1", Category: "PVC"},
		{ID: "2", Category: "Aluminium"},
		{ID: "3", Category: "PVC"},
		{ID: "4", Category: "Bois"},
	}
}

func TestPreview(t *testing.T) {
	items := sample()

	got := Preview(items, 3)
	require.Len(t, got, 3)
	assert.Equal(t, items[:3], got)

	assert.Len(t, Preview(items, 10), 4)
	assert.Empty(t, Preview(items, 0))
	assert.Empty(t, Preview([]item{}, 3))

	got[0].ID = "mutated"
	assert.Equal(t, "1", items[0].ID)
}

func TestCategories(t *testing.T) {
	assert.Equal(t, []string{"all", "PVC", "Aluminium"}, Categories([]string{"PVC", "Aluminium"}))
	assert.Equal(t, []string{"all", "PVC"}, Categories([]string{"PVC", "", "PVC", "all"}))
	assert.Equal(t, []string{"all"}, Categories(nil))
}

func TestFilterAllIsIdentity(t *testing.T) {
	items := sample()
	assert.Equal(t, items, Filter(items, AllCategories))
}

func TestFilterByCategory(t *testing.T) {
	items := sample()

	got := Filter(items, "PVC")
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "3", got[1].ID)
	for _, it := range got {
		assert.Equal(t, "PVC", it.Category)
	}

	assert.Equal(t, got, Filter(got, "PVC"))
	assert.Empty(t, Filter(items, "Acier"))
	assert.Len(t, items, 4)
}

func TestNormalize(t *testing.T) {
	known := Categories([]string{"PVC", "Aluminium"})
	assert.Equal(t, "PVC", Normalize("PVC", known))
	assert.Equal(t, AllCategories, Normalize("Acier", known))
	assert.Equal(t, AllCategories, Normalize("", known))
}

func TestLoaderKeepsPriorItemsOnFailure(t *testing.T) {
	calls := 0
	fail := errors.New("connection refused")
	loader := NewLoader("catalogues", func(context.Context) ([]item, error) {
		calls++
		if calls == 2 {
			return nil, fail
		}
		return sample()[:calls], nil
	})

	got, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = loader.Load(context.Background())
	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, "catalogues", fetchErr.Resource)
	assert.ErrorIs(t, err, fail)
	assert.Len(t, got, 1)
	assert.Equal(t, err, loader.Err())

	got, err = loader.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 3)
	assert.NoError(t, loader.Err())
	assert.Equal(t, got[:2], loader.Preview(2))
}

func TestLoaderKeepsNewestOfOverlappingLoads(t *testing.T) {
	slow := make(chan struct{})
	var calls atomic.Int32
	loader := NewLoader("catalogues", func(context.Context) ([]item, error) {
		if calls.Add(1) == 1 {
			<-slow
			return sample()[:1], nil
		}
		return sample(), nil
	})

	done := make(chan []item)
	go func() {
		got, _ := loader.Load(context.Background())
		done <- got
	}()
	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, time.Millisecond)

	got, err := loader.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 4)

	close(slow)
	assert.Len(t, <-done, 4, "late result of the older load is discarded")
	assert.Len(t, loader.Items(), 4)
}

func TestLoaderStartsEmptyOnFailure(t *testing.T) {
	loader := NewLoader("realisations", func(context.Context) ([]item, error) {
		return nil, errors.New("boom")
	})
	got, err := loader.Load(context.Background())
	require.Error(t, err)
	assert.Empty(t, got)
	assert.Empty(t, loader.Items())
}
