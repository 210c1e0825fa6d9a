package content

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/samboni/storefront-backend/pkg/cms"
	pkgerrors "github.com/samboni/storefront-backend/pkg/errors"
	"github.com/samboni/storefront-backend/pkg/logger"
)

const (
	DefaultArticleLimit = 10

	defaultBrandName = "Samboni"
	defaultBrandLink = "/"

	globalNavigation = "navigation"
	globalFAQ        = "faq-page"
	globalAbout      = "about-page"
)

var (
	errCMSRequired    = errors.New("cms client is required")
	errLoggerRequired = errors.New("content logger is required")
)

// Cache is the read-through cache in front of the CMS. *redis.Client
// satisfies it; tests use an in-memory map.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	ContentKey(parts ...string) string
}

// Service serves reshaped CMS content. Every read goes through the
// cache; a cache miss or cache failure falls through to the CMS and
// repopulates on success.
type Service interface {
	Navigation(ctx context.Context) (*Navigation, error)
	ListArticles(ctx context.Context, limit, page int) (*ArticleList, error)
	ArticleBySlug(ctx context.Context, slug string) (*Article, error)
	FAQ(ctx context.Context) (*FAQPage, error)
	About(ctx context.Context) (*AboutPage, error)
	WarmLayout(ctx context.Context) error
}

type service struct {
	cms   cms.Doer
	cache Cache
	ttl   time.Duration
	logg  *logger.Logger
}

// NewService wires the content gateway. cache may be nil, which
// disables caching entirely.
func NewService(cmsClient cms.Doer, cache Cache, ttl time.Duration, logg *logger.Logger) (Service, error) {
	if cmsClient == nil {
		return nil, errCMSRequired
	}
	if logg == nil {
		return nil, errLoggerRequired
	}
	return &service{cms: cmsClient, cache: cache, ttl: ttl, logg: logg}, nil
}

func (s *service) Navigation(ctx context.Context) (*Navigation, error) {
	nav := &Navigation{}
	err := s.cached(ctx, []string{globalNavigation}, nav, func(out any) error {
		var raw Navigation
		if err := s.cms.GetGlobal(ctx, globalNavigation, &raw); err != nil {
			return err
		}
		*out.(*Navigation) = reshapeNavigation(raw)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return nav, nil
}

func reshapeNavigation(raw Navigation) Navigation {
	nav := Navigation{
		BrandName: raw.BrandName,
		BrandLink: raw.BrandLink,
		NavItems:  make([]NavItem, 0, len(raw.NavItems)),
	}
	if nav.BrandName == "" {
		nav.BrandName = defaultBrandName
	}
	if nav.BrandLink == "" {
		nav.BrandLink = defaultBrandLink
	}
	for _, item := range raw.NavItems {
		if item.ShowOnSite {
			nav.NavItems = append(nav.NavItems, item)
		}
	}
	return nav
}

func (s *service) ListArticles(ctx context.Context, limit, page int) (*ArticleList, error) {
	if limit <= 0 {
		limit = DefaultArticleLimit
	}
	if page <= 0 {
		page = 1
	}

	list := &ArticleList{}
	key := []string{"articles", strconv.Itoa(limit), strconv.Itoa(page)}
	err := s.cached(ctx, key, list, func(out any) error {
		params := url.Values{}
		params.Set("limit", strconv.Itoa(limit))
		params.Set("page", strconv.Itoa(page))
		params.Set("sort", "-publishedAt")
		params.Set("where[status][equals]", "published")
		params.Set("depth", "1")
		return s.cms.ListDocuments(ctx, "articles", params, out)
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (s *service) ArticleBySlug(ctx context.Context, slug string) (*Article, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "article slug is required")
	}

	article := &Article{}
	err := s.cached(ctx, []string{"article", slug}, article, func(out any) error {
		params := url.Values{}
		params.Set("where[slug][equals]", slug)
		params.Set("depth", "1")

		var list ArticleList
		if err := s.cms.ListDocuments(ctx, "articles", params, &list); err != nil {
			return err
		}
		if len(list.Docs) == 0 {
			return pkgerrors.New(pkgerrors.CodeNotFound, "article not found")
		}
		*out.(*Article) = list.Docs[0]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return article, nil
}

func (s *service) FAQ(ctx context.Context) (*FAQPage, error) {
	page := &FAQPage{}
	err := s.cached(ctx, []string{globalFAQ}, page, func(out any) error {
		return s.cms.GetGlobal(ctx, globalFAQ, out)
	})
	if err != nil {
		return nil, err
	}
	if page.FAQItems == nil {
		page.FAQItems = []FAQItem{}
	}
	return page, nil
}

func (s *service) About(ctx context.Context) (*AboutPage, error) {
	page := &AboutPage{}
	err := s.cached(ctx, []string{globalAbout}, page, func(out any) error {
		return s.cms.GetGlobal(ctx, globalAbout, out)
	})
	if err != nil {
		return nil, err
	}
	if page.Videos == nil {
		page.Videos = []VideoItem{}
	}
	return page, nil
}

// WarmLayout fetches the globals the storefront layout needs in
// parallel, priming the cache so first page loads hit Redis.
func (s *service) WarmLayout(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := s.Navigation(ctx)
		return err
	})
	g.Go(func() error {
		_, err := s.FAQ(ctx)
		return err
	})
	g.Go(func() error {
		_, err := s.About(ctx)
		return err
	})
	return g.Wait()
}

// cached runs fetch through the cache. Cache failures are logged and
// treated as misses; NotFound from the CMS is never cached.
func (s *service) cached(ctx context.Context, keyParts []string, out any, fetch func(out any) error) error {
	var key string
	if s.cache != nil {
		key = s.cache.ContentKey(keyParts...)
		if cachedValue, err := s.cache.Get(ctx, key); err == nil && cachedValue != "" {
			if err := json.Unmarshal([]byte(cachedValue), out); err == nil {
				return nil
			}
			s.logg.Warn(ctx, "discarding undecodable cached content for "+key)
		}
	}

	if err := fetch(out); err != nil {
		return err
	}

	if s.cache != nil {
		encoded, err := json.Marshal(out)
		if err == nil {
			err = s.cache.Set(ctx, key, string(encoded), s.ttl)
		}
		if err != nil {
			s.logg.Warn(ctx, "failed to cache content for "+key)
		}
	}
	return nil
}
