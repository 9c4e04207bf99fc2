package handlers

import (
	"context"
	"errors"
	"os"
	"sort"

	"github.com/newsdesk/newsapi/internal/categories"
	"github.com/newsdesk/newsapi/internal/media"
	"github.com/newsdesk/newsapi/internal/news"
)

type fakeMedia struct {
	assets     map[int64]media.Asset
	uploads    []media.UploadInput
	urls       []media.URLInput
	ingestErr  error
	lastFilter media.ListFilter
	baseURL    string
}

func newFakeMedia() *fakeMedia {
	return &fakeMedia{assets: map[int64]media.Asset{}, baseURL: "http://media.test"}
}

func (f *fakeMedia) IngestUpload(_ context.Context, in media.UploadInput) (media.Summary, error) {
	data, err := os.ReadFile(in.Path)
	if err != nil {
		return media.Summary{}, err
	}
	f.uploads = append(f.uploads, in)
	if f.ingestErr != nil {
		return media.Summary{}, f.ingestErr
	}
	id := int64(len(f.assets) + 1)
	_ = os.Remove(in.Path)
	return media.Summary{ID: id, Filename: "upload.webp", Size: int64(len(data)), AltText: in.AltText}, nil
}

func (f *fakeMedia) IngestURL(_ context.Context, in media.URLInput) (media.Summary, error) {
	f.urls = append(f.urls, in)
	if f.ingestErr != nil {
		return media.Summary{}, f.ingestErr
	}
	return media.Summary{ID: int64(len(f.urls)), Filename: "download.webp"}, nil
}

func (f *fakeMedia) Get(_ context.Context, id int64) (media.Asset, error) {
	asset, ok := f.assets[id]
	if !ok {
		return media.Asset{}, &media.NotFoundError{Kind: "media", ID: id}
	}
	return asset, nil
}

func (f *fakeMedia) List(_ context.Context, filter media.ListFilter) ([]media.Asset, int64, error) {
	f.lastFilter = filter
	ids := make([]int64, 0, len(f.assets))
	for id := range f.assets {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] })
	var out []media.Asset
	for _, id := range ids {
		out = append(out, f.assets[id])
	}
	total := int64(len(out))
	start := filter.Offset()
	if start > len(out) {
		start = len(out)
	}
	end := start + filter.Limit
	if end > len(out) {
		end = len(out)
	}
	return out[start:end], total, nil
}

func (f *fakeMedia) UpdateMetadata(_ context.Context, id int64, update media.MetadataUpdate) (media.Asset, error) {
	asset, ok := f.assets[id]
	if !ok {
		return media.Asset{}, &media.NotFoundError{Kind: "media", ID: id}
	}
	if update.AltText != nil {
		asset.AltText = *update.AltText
	}
	if update.Caption != nil {
		asset.Caption = *update.Caption
	}
	f.assets[id] = asset
	return asset, nil
}

func (f *fakeMedia) Delete(_ context.Context, id int64) error {
	if _, ok := f.assets[id]; !ok {
		return &media.NotFoundError{Kind: "media", ID: id}
	}
	delete(f.assets, id)
	return nil
}

func (f *fakeMedia) Lookup(_ context.Context, ids []int64) (map[int64]media.Asset, error) {
	out := map[int64]media.Asset{}
	for _, id := range ids {
		if asset, ok := f.assets[id]; ok {
			out[id] = asset
		}
	}
	return out, nil
}

func (f *fakeMedia) Renditions(asset media.Asset, baseURL string) media.RenditionSet {
	return media.DescribeAsset(asset, baseURL)
}

func (f *fakeMedia) BaseURL() string { return f.baseURL }

type fakeNews struct {
	items     map[int64]news.Item
	lastQuery news.ListQuery
}

func newFakeNews(items ...news.Item) *fakeNews {
	f := &fakeNews{items: map[int64]news.Item{}}
	for _, item := range items {
		f.items[item.ID] = item
	}
	return f
}

func (f *fakeNews) Get(_ context.Context, id int64) (news.Item, error) {
	item, ok := f.items[id]
	if !ok {
		return news.Item{}, news.ErrNotFound
	}
	return item, nil
}

func (f *fakeNews) GetTyped(ctx context.Context, id int64, itemType string) (news.Item, error) {
	item, err := f.Get(ctx, id)
	if err != nil {
		return news.Item{}, err
	}
	if item.Type != itemType {
		return news.Item{}, news.ErrNotFound
	}
	return item, nil
}

func (f *fakeNews) List(_ context.Context, q news.ListQuery) ([]news.Item, int64, error) {
	f.lastQuery = q
	var out []news.Item
	for _, item := range f.items {
		if q.Type != "" && item.Type != q.Type {
			continue
		}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (f *fakeNews) Create(ctx context.Context, item news.Item) (news.Item, error) {
	if item.ID == 0 {
		item.ID = int64(len(f.items) + 100)
	}
	return f.Upsert(ctx, item)
}

func (f *fakeNews) Upsert(_ context.Context, item news.Item) (news.Item, error) {
	if item.Title.Rendered == "" {
		return news.Item{}, errors.Join(news.ErrInvalid, errors.New("title is required"))
	}
	f.items[item.ID] = item
	return item, nil
}

func (f *fakeNews) Delete(_ context.Context, id int64) error {
	if _, ok := f.items[id]; !ok {
		return news.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

type fakeCategories struct {
	items map[int64]categories.Category
}

func (f *fakeCategories) List(context.Context) ([]categories.Category, error) {
	out := make([]categories.Category, 0, len(f.items))
	for _, c := range f.items {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeCategories) Get(_ context.Context, id int64) (categories.Category, error) {
	c, ok := f.items[id]
	if !ok {
		return categories.Category{}, categories.ErrNotFound
	}
	return c, nil
}

func (f *fakeCategories) Create(ctx context.Context, c categories.Category) (categories.Category, error) {
	if c.ID == 0 {
		c.ID = int64(len(f.items) + 1)
	}
	return f.Upsert(ctx, c)
}

func (f *fakeCategories) Upsert(_ context.Context, c categories.Category) (categories.Category, error) {
	if c.Name == "" {
		return categories.Category{}, errors.Join(categories.ErrInvalid, errors.New("name is required"))
	}
	if c.Slug == "" {
		c.Slug = categories.Slugify(c.Name)
	}
	f.items[c.ID] = c
	return c, nil
}

func (f *fakeCategories) Delete(_ context.Context, id int64) error {
	if _, ok := f.items[id]; !ok {
		return categories.ErrNotFound
	}
	delete(f.items, id)
	return nil
}
