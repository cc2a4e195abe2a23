package usecase

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/user/storefront-catalog/internal/entity"
)

func TestLocalize(t *testing.T) {
	shared := "https://static.example.com/media/shared.jpg/v1/fill/w_600/shared.jpg"
	downloader := newFakeDownloader(map[string][]byte{
		shared: []byte("jpeg"),
		"https://static.example.com/media/bici.PNG": []byte("png"),
		"https://static.example.com/media/raw":      []byte("raw"),
	})
	store := newMemoryImageStore()
	localizer := NewImageLocalizer(downloader, store, nil, "/file.svg", zap.NewNop())

	products := []entity.Product{
		{Slug: "gorra-a", Images: []string{shared}},
		{Slug: "gorra-b", Images: []string{shared}},
		{Slug: "bici", Images: []string{"https://static.example.com/media/bici.PNG"}},
		{Slug: "sin-extension", Images: []string{"https://static.example.com/media/raw"}},
		{Slug: "relativa", Images: []string{"/media/local.jpg"}},
		{Slug: "sin-imagen"},
		{Slug: "rota", Images: []string{"https://static.example.com/media/missing.webp"}},
	}

	stats, err := localizer.Localize(context.Background(), products)
	if err != nil {
		t.Fatalf("Localize() error = %v", err)
	}

	want := []string{
		"/products/gorra-a.jpg",
		"/products/gorra-a.jpg",
		"/products/bici.png",
		"/products/sin-extension.jpg",
		"/file.svg",
		"/file.svg",
		"/file.svg",
	}
	for i, p := range products {
		if len(p.Images) != 1 || p.Images[0] != want[i] {
			t.Errorf("%s images = %v, want [%s]", p.Slug, p.Images, want[i])
		}
	}

	if downloader.calls[shared] != 1 {
		t.Errorf("shared URL downloaded %d times, want 1", downloader.calls[shared])
	}
	if _, ok := store.files["gorra-b.jpg"]; ok {
		t.Error("reused image was stored a second time")
	}
	if stats != (LocalizeStats{Downloaded: 3, Reused: 1, Placeholder: 3}) {
		t.Errorf("stats = %+v", stats)
	}
}

func TestLocalizeOptimizes(t *testing.T) {
	url := "https://static.example.com/a.jpg"
	store := newMemoryImageStore()
	localizer := NewImageLocalizer(newFakeDownloader(map[string][]byte{url: []byte("jpeg")}), store, fakeOptimizer{}, "/file.svg", zap.NewNop())

	products := []entity.Product{{Slug: "a", Images: []string{url}}}
	if _, err := localizer.Localize(context.Background(), products); err != nil {
		t.Fatal(err)
	}
	if string(store.files["a.jpg"]) != "small:jpeg" {
		t.Errorf("stored %q, want optimized bytes", store.files["a.jpg"])
	}
}

func TestLocalizeFailsWhenStoreUnavailable(t *testing.T) {
	store := newMemoryImageStore()
	store.prepErr = errors.New("read-only filesystem")
	localizer := NewImageLocalizer(newFakeDownloader(nil), store, nil, "/file.svg", zap.NewNop())

	if _, err := localizer.Localize(context.Background(), []entity.Product{{Slug: "a"}}); err == nil {
		t.Fatal("expected an error when the store cannot be prepared")
	}
}

type cancelingDownloader struct {
	cancel context.CancelFunc
	calls  int
}

func (d *cancelingDownloader) Download(ctx context.Context, url string) ([]byte, error) {
	d.calls++
	d.cancel()
	return nil, ctx.Err()
}

func TestLocalizeStopsWhenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	downloader := &cancelingDownloader{cancel: cancel}
	localizer := NewImageLocalizer(downloader, newMemoryImageStore(), nil, "/file.svg", zap.NewNop())

	products := []entity.Product{
		{Slug: "a", Images: []string{"https://img.example/a.jpg"}},
		{Slug: "b", Images: []string{"https://img.example/b.jpg"}},
	}
	stats, err := localizer.Localize(ctx, products)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Localize() error = %v, want context.Canceled", err)
	}
	if downloader.calls != 1 {
		t.Errorf("downloads after cancellation: %d calls", downloader.calls)
	}
	if stats.Placeholder != 0 || products[0].Images[0] != "https://img.example/a.jpg" {
		t.Errorf("cancellation treated as a download failure: %+v %v", stats, products[0].Images)
	}
}
