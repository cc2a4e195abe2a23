package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/user/storefront-catalog/internal/entity"
	"github.com/user/storefront-catalog/internal/repository"
)

type fakeFetcher struct {
	pages map[string]string
	fails map[string]int // url -> status code
	calls []string
	after func(url string)
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) (string, error) {
	f.calls = append(f.calls, url)
	if status, ok := f.fails[url]; ok {
		return "", &repository.PageFetchError{URL: url, StatusCode: status}
	}
	if f.after != nil {
		f.after(url)
	}
	return f.pages[url], nil
}

type fakeDownloader struct {
	images map[string][]byte
	calls  map[string]int
}

func newFakeDownloader(images map[string][]byte) *fakeDownloader {
	return &fakeDownloader{images: images, calls: make(map[string]int)}
}

func (d *fakeDownloader) Download(ctx context.Context, url string) ([]byte, error) {
	d.calls[url]++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, ok := d.images[url]
	if !ok {
		return nil, &repository.StatusError{StatusCode: 404}
	}
	return data, nil
}

type memoryImageStore struct {
	files   map[string][]byte
	prepErr error
}

func newMemoryImageStore() *memoryImageStore {
	return &memoryImageStore{files: make(map[string][]byte)}
}

func (s *memoryImageStore) Prepare(ctx context.Context) error { return s.prepErr }

func (s *memoryImageStore) Save(ctx context.Context, filename string, data []byte) (string, error) {
	s.files[filename] = data
	return "/products/" + filename, nil
}

type memoryCatalog struct {
	mu        sync.Mutex
	products  []entity.Product
	generated []entity.Product
	writes    int
	afterLoad func()
}

func (c *memoryCatalog) Load(ctx context.Context) ([]entity.Product, error) {
	c.mu.Lock()
	out := append([]entity.Product(nil), c.products...)
	if len(c.generated) > 0 {
		out = append([]entity.Product(nil), c.generated...)
	}
	c.mu.Unlock()
	if c.afterLoad != nil {
		c.afterLoad()
	}
	return out, nil
}

func (c *memoryCatalog) LoadEditable(ctx context.Context) (string, []entity.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return "memory", append([]entity.Product(nil), c.products...), nil
}

func (c *memoryCatalog) Mutate(ctx context.Context, fn repository.MutateFunc) ([]entity.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	next, err := fn(append([]entity.Product(nil), c.products...))
	if err != nil {
		return nil, err
	}
	c.products = next
	c.writes++
	return next, nil
}

func (c *memoryCatalog) ReplaceGenerated(ctx context.Context, products []entity.Product) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generated = products
	c.writes++
	return nil
}

type fakeCache struct {
	products    []entity.Product
	present     bool
	version     int64
	sets        int
	invalidated int
}

func (c *fakeCache) Get(ctx context.Context) ([]entity.Product, bool, error) {
	return c.products, c.present, nil
}

func (c *fakeCache) Version(ctx context.Context) (int64, error) {
	return c.version, nil
}

func (c *fakeCache) Set(ctx context.Context, products []entity.Product, version int64, ttl time.Duration) error {
	if version != c.version {
		return nil
	}
	c.products, c.present = products, true
	c.sets++
	return nil
}

func (c *fakeCache) Invalidate(ctx context.Context) error {
	c.products, c.present = nil, false
	c.version++
	c.invalidated++
	return nil
}

type fakeRunRepo struct {
	runs []entity.SyncRun
}

func (r *fakeRunRepo) Save(ctx context.Context, run *entity.SyncRun) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	run.ID = int64(len(r.runs) + 1)
	r.runs = append(r.runs, *run)
	return nil
}

func (r *fakeRunRepo) Latest(ctx context.Context) (*entity.SyncRun, error) {
	if len(r.runs) == 0 {
		return nil, repository.ErrNotFound
	}
	run := r.runs[len(r.runs)-1]
	return &run, nil
}

type fakeOptimizer struct{}

func (fakeOptimizer) Optimize(data []byte, filename string) ([]byte, error) {
	if len(data) == 0 {
		return nil, errors.New("empty image")
	}
	return append([]byte("small:"), data...), nil
}
