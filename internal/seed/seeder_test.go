package seed

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newsdesk/newsapi/internal/categories"
	"github.com/newsdesk/newsapi/internal/logger"
	"github.com/newsdesk/newsapi/internal/media"
	"github.com/newsdesk/newsapi/internal/news"
)

type fakeContent struct {
	items   []news.Item
	cleared bool
	failID  int64
}

func (f *fakeContent) Upsert(_ context.Context, item news.Item) (news.Item, error) {
	if item.ID == f.failID {
		return news.Item{}, errors.New("write failed")
	}
	f.items = append(f.items, item)
	return item, nil
}

func (f *fakeContent) DeleteAll(context.Context) (int64, error) {
	f.cleared = true
	return int64(len(f.items)), nil
}

type fakeCategories struct {
	items   []categories.Category
	cleared bool
}

func (f *fakeCategories) Upsert(_ context.Context, c categories.Category) (categories.Category, error) {
	f.items = append(f.items, c)
	return c, nil
}

func (f *fakeCategories) DeleteAll(context.Context) (int64, error) {
	f.cleared = true
	return 0, nil
}

type fakeIngester struct {
	batches [][]media.SourceItem
	result  media.BatchResult
	err     error
	cleared bool
}

func (f *fakeIngester) IngestBatch(_ context.Context, items []media.SourceItem) (media.BatchResult, error) {
	f.batches = append(f.batches, items)
	return f.result, f.err
}

func (f *fakeIngester) DeleteAll(context.Context) (int64, error) {
	f.cleared = true
	return 0, nil
}

func TestSeederRun(t *testing.T) {
	ds, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)

	content := &fakeContent{}
	cats := &fakeCategories{}
	ingester := &fakeIngester{result: media.BatchResult{Succeeded: 1, Skipped: 1}}
	seeder := NewSeeder(logger.Discard(), content, cats, ingester)

	report, err := seeder.Run(context.Background(), ds, Options{Reset: true})
	require.NoError(t, err)
	assert.True(t, content.cleared)
	assert.True(t, cats.cleared)
	assert.True(t, ingester.cleared)

	assert.Equal(t, Report{Categories: 1, Items: 2, MediaCreated: 1, MediaSkipped: 1}, report)
	require.Len(t, content.items, 2)
	assert.Equal(t, int64(10), content.items[0].ID, "videos are inserted first")

	require.Len(t, ingester.batches, 1)
	batch := ingester.batches[0]
	require.Len(t, batch, 2)
	assert.Equal(t, media.SourceItem{ContentID: 10}, batch[0])
	assert.Equal(t, media.SourceItem{
		ContentID: 20,
		ImageURL:  "https://cdn.example.org/ward.jpg",
		AltText:   "Ward entrance",
		Caption:   "<p>The new ward</p>",
	}, batch[1])
}

func TestSeederWithoutResetKeepsData(t *testing.T) {
	content := &fakeContent{}
	cats := &fakeCategories{}
	ingester := &fakeIngester{}
	_, err := NewSeeder(logger.Discard(), content, cats, ingester).Run(context.Background(), Dataset{}, Options{})
	require.NoError(t, err)
	assert.False(t, content.cleared)
	assert.False(t, ingester.cleared)
	require.Len(t, ingester.batches, 1)
	assert.Empty(t, ingester.batches[0])
}

func TestSeederStopsOnContentError(t *testing.T) {
	ds, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)
	content := &fakeContent{failID: 20}
	ingester := &fakeIngester{}

	report, err := NewSeeder(logger.Discard(), content, &fakeCategories{}, ingester).Run(context.Background(), ds, Options{})
	require.Error(t, err)
	assert.Equal(t, 1, report.Items)
	assert.Empty(t, ingester.batches, "no ingestion after a failed insert")
}

func TestSeederReportsCollision(t *testing.T) {
	ds, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)
	collision := &media.PersistError{ID: 1, Collision: true, Err: errors.New("duplicate")}
	ingester := &fakeIngester{result: media.BatchResult{Failed: 1}, err: collision}

	report, err := NewSeeder(logger.Discard(), &fakeContent{}, &fakeCategories{}, ingester).Run(context.Background(), ds, Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, media.ErrIDCollision))
	assert.Equal(t, 1, report.MediaFailed)
}
