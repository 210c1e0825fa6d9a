package content

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	pkgerrors "github.com/samboni/storefront-backend/pkg/errors"
	"github.com/samboni/storefront-backend/pkg/logger"
)

type fakeCMS struct {
	globals     map[string]string
	listResult  string
	err         error
	globalCalls int
	listCalls   int
	lastParams  url.Values
}

func (f *fakeCMS) GetGlobal(_ context.Context, slug string, out any) error {
	f.globalCalls++
	if f.err != nil {
		return f.err
	}
	raw, ok := f.globals[slug]
	if !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "cms document not found")
	}
	return json.Unmarshal([]byte(raw), out)
}

func (f *fakeCMS) ListDocuments(_ context.Context, _ string, params url.Values, out any) error {
	f.listCalls++
	f.lastParams = params
	if f.err != nil {
		return f.err
	}
	return json.Unmarshal([]byte(f.listResult), out)
}

type memoryCache struct {
	mu      sync.Mutex
	entries map[string]string
	getErr  error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string]string{}}
}

func (m *memoryCache) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return "", m.getErr
	}
	return m.entries[key], nil
}

func (m *memoryCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = value.(string)
	return nil
}

func (m *memoryCache) ContentKey(parts ...string) string {
	return "test:content:" + strings.Join(parts, ":")
}

func newTestService(t *testing.T, cmsClient *fakeCMS, cache Cache) Service {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	svc, err := NewService(cmsClient, cache, time.Minute, logg)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestNavigationFiltersAndDefaults(t *testing.T) {
	cmsClient := &fakeCMS{globals: map[string]string{
		"navigation": `{"navItems":[
			{"label":"Shop","link":"/shop","showOnSite":true},
			{"label":"Hidden","link":"/hidden","showOnSite":false}
		]}`,
	}}
	svc := newTestService(t, cmsClient, nil)

	nav, err := svc.Navigation(context.Background())
	if err != nil {
		t.Fatalf("Navigation: %v", err)
	}
	if nav.BrandName != "Samboni" || nav.BrandLink != "/" {
		t.Errorf("missing brand fields should default, got %+v", nav)
	}
	if len(nav.NavItems) != 1 || nav.NavItems[0].Label != "Shop" {
		t.Errorf("hidden items should be filtered, got %+v", nav.NavItems)
	}
}

func TestNavigationSecondReadServedFromCache(t *testing.T) {
	cmsClient := &fakeCMS{globals: map[string]string{
		"navigation": `{"brandName":"Samboni","brandLink":"/","navItems":[]}`,
	}}
	cache := newMemoryCache()
	svc := newTestService(t, cmsClient, cache)
	ctx := context.Background()

	if _, err := svc.Navigation(ctx); err != nil {
		t.Fatalf("first read: %v", err)
	}
	if _, err := svc.Navigation(ctx); err != nil {
		t.Fatalf("second read: %v", err)
	}
	if cmsClient.globalCalls != 1 {
		t.Errorf("second read should hit the cache, cms called %d times", cmsClient.globalCalls)
	}
}

func TestCacheFailureFallsThroughToCMS(t *testing.T) {
	cmsClient := &fakeCMS{globals: map[string]string{
		"navigation": `{"brandName":"Samboni","navItems":[]}`,
	}}
	cache := newMemoryCache()
	cache.getErr = errors.New("redis down")
	svc := newTestService(t, cmsClient, cache)

	nav, err := svc.Navigation(context.Background())
	if err != nil {
		t.Fatalf("cache failure must not surface, got %v", err)
	}
	if nav.BrandName != "Samboni" {
		t.Errorf("unexpected navigation: %+v", nav)
	}
	if cmsClient.globalCalls != 1 {
		t.Errorf("expected CMS fallthrough, called %d times", cmsClient.globalCalls)
	}
}

func TestListArticlesBuildsPayloadQuery(t *testing.T) {
	cmsClient := &fakeCMS{listResult: `{"docs":[{"id":"a1","title":"Post","slug":"post","status":"published","createdAt":"2025-06-01","updatedAt":"2025-06-01"}],"totalDocs":1,"limit":10,"totalPages":1,"page":1}`}
	svc := newTestService(t, cmsClient, nil)

	list, err := svc.ListArticles(context.Background(), 0, 0)
	if err != nil {
		t.Fatalf("ListArticles: %v", err)
	}
	if list.TotalDocs != 1 || list.Docs[0].Slug != "post" {
		t.Errorf("unexpected list: %+v", list)
	}
	params := cmsClient.lastParams
	if params.Get("limit") != "10" || params.Get("page") != "1" {
		t.Errorf("zero limit/page should default, got %v", params)
	}
	if params.Get("where[status][equals]") != "published" {
		t.Errorf("only published articles should be listed, got %v", params)
	}
	if params.Get("sort") != "-publishedAt" {
		t.Errorf("articles should sort newest first, got %v", params)
	}
}

func TestArticleBySlug(t *testing.T) {
	cmsClient := &fakeCMS{listResult: `{"docs":[{"id":"a1","title":"Post","slug":"post","status":"published","createdAt":"2025-06-01","updatedAt":"2025-06-01"}],"totalDocs":1}`}
	svc := newTestService(t, cmsClient, nil)

	article, err := svc.ArticleBySlug(context.Background(), "post")
	if err != nil {
		t.Fatalf("ArticleBySlug: %v", err)
	}
	if article.ID != "a1" {
		t.Errorf("unexpected article: %+v", article)
	}
	if cmsClient.lastParams.Get("where[slug][equals]") != "post" {
		t.Errorf("slug filter missing, got %v", cmsClient.lastParams)
	}
}

func TestArticleBySlugNoMatchIsNotFound(t *testing.T) {
	cmsClient := &fakeCMS{listResult: `{"docs":[],"totalDocs":0}`}
	svc := newTestService(t, cmsClient, newMemoryCache())

	_, err := svc.ArticleBySlug(context.Background(), "missing")
	if !pkgerrors.IsNotFound(err) {
		t.Fatalf("expected not-found, got %v", err)
	}
	// A miss must not poison the cache.
	if _, err := svc.ArticleBySlug(context.Background(), "missing"); !pkgerrors.IsNotFound(err) {
		t.Fatalf("expected not-found on second read, got %v", err)
	}
	if cmsClient.listCalls != 2 {
		t.Errorf("not-found should never be cached, cms called %d times", cmsClient.listCalls)
	}
}

func TestArticleBySlugEmptyIsValidation(t *testing.T) {
	svc := newTestService(t, &fakeCMS{}, nil)
	_, err := svc.ArticleBySlug(context.Background(), " ")
	domainErr := pkgerrors.As(err)
	if domainErr == nil || domainErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestFAQAndAboutNormalizeEmptyFields(t *testing.T) {
	cmsClient := &fakeCMS{globals: map[string]string{
		"faq-page":   `{}`,
		"about-page": `{"content":{"root":{}}}`,
	}}
	svc := newTestService(t, cmsClient, nil)
	ctx := context.Background()

	faq, err := svc.FAQ(ctx)
	if err != nil {
		t.Fatalf("FAQ: %v", err)
	}
	if faq.FAQItems == nil {
		t.Error("faqItems should serialize as an empty list, not null")
	}

	about, err := svc.About(ctx)
	if err != nil {
		t.Fatalf("About: %v", err)
	}
	if about.Videos == nil {
		t.Error("videos should serialize as an empty list, not null")
	}
	if len(about.Content) == 0 {
		t.Error("rich text content should pass through")
	}
}

func TestWarmLayoutPrimesCache(t *testing.T) {
	cmsClient := &fakeCMS{globals: map[string]string{
		"navigation": `{"brandName":"Samboni","navItems":[]}`,
		"faq-page":   `{"faqItems":[]}`,
		"about-page": `{"videos":[],"content":null}`,
	}}
	cache := newMemoryCache()
	svc := newTestService(t, cmsClient, cache)
	ctx := context.Background()

	if err := svc.WarmLayout(ctx); err != nil {
		t.Fatalf("WarmLayout: %v", err)
	}
	if cmsClient.globalCalls != 3 {
		t.Fatalf("expected 3 global fetches, got %d", cmsClient.globalCalls)
	}

	if _, err := svc.Navigation(ctx); err != nil {
		t.Fatalf("Navigation after warm: %v", err)
	}
	if cmsClient.globalCalls != 3 {
		t.Errorf("warmed read should come from cache, cms called %d times", cmsClient.globalCalls)
	}
}
