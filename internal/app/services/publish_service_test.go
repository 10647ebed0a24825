package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terratensor/geopicker/internal/config"
	"github.com/terratensor/geopicker/internal/core/domain"
)

type fakeIndex struct {
	mu        sync.Mutex
	calls     []string
	inserted  map[int64]domain.HierarchyItem
	failBatch int64 // id, при котором BulkInsertItems падает
	delay     time.Duration

	active    atomic.Int32
	maxActive atomic.Int32
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{inserted: make(map[int64]domain.HierarchyItem)}
}

func (f *fakeIndex) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeIndex) Table() string { return "items" }

func (f *fakeIndex) EnsureItemsTable(ctx context.Context) error {
	f.record("ensure")
	return nil
}

func (f *fakeIndex) TruncateTable(ctx context.Context, tableName string) error {
	f.record("truncate " + tableName)
	return nil
}

func (f *fakeIndex) BulkInsertItems(ctx context.Context, items []domain.HierarchyItem) error {
	n := f.active.Add(1)
	defer f.active.Add(-1)
	for {
		m := f.maxActive.Load()
		if n <= m || f.maxActive.CompareAndSwap(m, n) {
			break
		}
	}
	time.Sleep(f.delay)

	f.mu.Lock()
	defer f.mu.Unlock()
	for _, item := range items {
		if item.ID == f.failBatch {
			return errors.New("insert rejected")
		}
		f.inserted[item.ID] = item
	}
	return nil
}

func (f *fakeIndex) GetTableCount(ctx context.Context, tableName string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.inserted)), nil
}

func manyItems(n int) []domain.HierarchyItem {
	items := make([]domain.HierarchyItem, n)
	for i := range items {
		id := int64(i + 1)
		items[i] = domain.HierarchyItem{ID: id, Name: "item", Level: 1, Relatives: []int64{id}}
	}
	return items
}

func TestPublish(t *testing.T) {
	index := newFakeIndex()
	index.delay = 5 * time.Millisecond
	svc := NewPublishService(&config.Config{BatchSize: 10, WorkersCount: 3}, index)

	n, err := svc.Publish(context.Background(), manyItems(95), PublishOptions{Truncate: true})
	require.NoError(t, err)

	assert.Equal(t, 95, n)
	assert.Len(t, index.inserted, 95)
	assert.Equal(t, []string{"ensure", "truncate items"}, index.calls)
	assert.LessOrEqual(t, index.maxActive.Load(), int32(3))

	count, err := index.GetTableCount(context.Background(), "items")
	require.NoError(t, err)
	assert.Equal(t, int64(95), count)
}

func TestPublishWithoutTruncate(t *testing.T) {
	index := newFakeIndex()
	svc := NewPublishService(&config.Config{}, index)

	n, err := svc.Publish(context.Background(), scenarioItems(t), PublishOptions{})
	require.NoError(t, err)
	assert.Equal(t, 7, n)
	assert.Equal(t, []string{"ensure"}, index.calls)
}

func TestPublishBatchError(t *testing.T) {
	index := newFakeIndex()
	index.failBatch = 42
	svc := NewPublishService(&config.Config{BatchSize: 10, WorkersCount: 1}, index)

	n, err := svc.Publish(context.Background(), manyItems(100), PublishOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to insert batch 4")
	assert.Less(t, n, 100)
}

func TestSplitBatches(t *testing.T) {
	items := manyItems(25)

	batches := splitBatches(items, 10)
	require.Len(t, batches, 3)
	assert.Len(t, batches[0], 10)
	assert.Len(t, batches[2], 5)
	assert.Equal(t, int64(21), batches[2][0].ID)

	// appending to a batch must not overwrite the next one
	_ = append(batches[0], domain.HierarchyItem{ID: 999})
	assert.Equal(t, int64(11), batches[1][0].ID)

	assert.Nil(t, splitBatches(nil, 10))
	assert.Len(t, splitBatches(items, 100), 1)
}
