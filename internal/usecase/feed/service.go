package feed

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/narongrit/meme-hub/domain"
)

// Service serves feed pages through a read-through cache. Cache entries are
// keyed by the normalized query only and hold viewer-agnostic rows; the
// per-viewer IsLiked flag is joined in live after the cache read, so a
// shared entry can never leak one viewer's like state to another.
type Service struct {
	memeRepo  domain.MemeRepository
	userRepo  domain.UserRepository
	cache     domain.FeedCache
	blobs     domain.BlobStore
	loadGroup singleflight.Group
}

var _ domain.MemeUsecase = (*Service)(nil)

// NewService will create a new feed service object
func NewService(m domain.MemeRepository, u domain.UserRepository, c domain.FeedCache, b domain.BlobStore) *Service {
	return &Service{
		memeRepo: m,
		userRepo: u,
		cache:    c,
		blobs:    b,
	}
}

// GetFeed returns one normalized feed page. The cache is best-effort: any
// cache failure degrades to a direct store read and is never surfaced.
func (s *Service) GetFeed(ctx context.Context, page, pageSize int, search, category string, viewerID int64) (domain.FeedPage, error) {
	q := domain.NormalizeFeedQuery(page, pageSize, search, category)

	res, err := s.cache.GetPage(ctx, q)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			logrus.Warnf("feed cache get failed for %s: %v", q.CacheKey(), err)
		}

		// The flight is shared with later joiners and may outlive the
		// caller that started it.
		loadCtx := context.WithoutCancel(ctx)
		v, err, _ := s.loadGroup.Do(q.CacheKey(), func() (any, error) {
			return s.loadPage(loadCtx, q)
		})
		if err != nil {
			return domain.FeedPage{}, err
		}
		// Every caller joined into the flight gets the same Items slice.
		// Clone it so the like join below never writes into another
		// caller's page or the entry handed to the cache.
		shared := v.(domain.FeedPage)
		items := make([]domain.FeedItem, len(shared.Items))
		copy(items, shared.Items)
		res = domain.FeedPage{Items: items, HasMore: shared.HasMore}
	}

	s.resolveLikes(ctx, res.Items, viewerID)
	return res, nil
}

// loadPage reads one page from the store and repopulates the cache without
// any viewer data. Concurrent misses on the same key collapse into one load
// through the singleflight group.
func (s *Service) loadPage(ctx context.Context, q domain.FeedQuery) (domain.FeedPage, error) {
	memes, err := s.memeRepo.FindMemes(ctx, q)
	if err != nil {
		return domain.FeedPage{}, err
	}

	uploaders := s.uploaderNames(ctx, memes)

	items := make([]domain.FeedItem, len(memes))
	for i := range memes {
		items[i] = domain.FeedItem{
			ID:        memes[i].ID,
			Title:     memes[i].Title,
			Category:  memes[i].Category,
			ImageRef:  memes[i].ImageRef,
			Likes:     memes[i].Likes,
			Uploader:  uploaders[memes[i].CreatedBy.ID],
			CreatedBy: memes[i].CreatedBy.ID,
			CreatedAt: memes[i].CreatedAt,
		}
	}

	page := domain.FeedPage{
		Items: items,
		// Heuristic: a full page probably has a successor. The last exactly
		// full page reports one phantom extra page, which is acceptable.
		HasMore: len(items) >= q.PageSize,
	}

	if err := s.cache.SetPage(ctx, q, page); err != nil {
		logrus.Warnf("feed cache set failed for %s: %v", q.CacheKey(), err)
	}
	return page, nil
}

// resolveLikes joins the viewer's like state onto items. Anonymous viewers
// keep everything unliked. A failed lookup degrades to unliked rather than
// failing the read.
func (s *Service) resolveLikes(ctx context.Context, items []domain.FeedItem, viewerID int64) {
	if viewerID <= 0 || len(items) == 0 {
		return
	}

	ids := make([]int64, len(items))
	for i := range items {
		ids[i] = items[i].ID
	}

	status, err := s.memeRepo.FindLikeStatus(ctx, ids, viewerID)
	if err != nil {
		logrus.Warnf("like status lookup failed for viewer %d: %v", viewerID, err)
		return
	}
	for i := range items {
		items[i].IsLiked = status[items[i].ID]
	}
}

func (s *Service) uploaderNames(ctx context.Context, memes []domain.Meme) map[int64]string {
	res := make(map[int64]string)
	if len(memes) == 0 {
		return res
	}

	ids := make([]int64, 0, len(memes))
	for i := range memes {
		if _, ok := res[memes[i].CreatedBy.ID]; !ok {
			ids = append(ids, memes[i].CreatedBy.ID)
			res[memes[i].CreatedBy.ID] = ""
		}
	}

	users, err := s.userRepo.GetByIDs(ctx, ids)
	if err != nil {
		logrus.Warnf("uploader lookup failed: %v", err)
		return res
	}
	for _, u := range users {
		res[u.ID] = u.Name
	}
	return res
}

// CreateMeme stores the image, inserts the row and drops the first-page
// entries the new meme is visible on.
func (s *Service) CreateMeme(ctx context.Context, m *domain.Meme, image []byte, ext string) error {
	if m.Category == "" {
		m.Category = "General"
	}
	if !domain.ValidCategory(m.Category) {
		return domain.ErrBadParamInput
	}

	ref, err := s.blobs.Put(ctx, image, ext)
	if err != nil {
		return err
	}
	m.ImageRef = ref

	if err := s.memeRepo.Store(ctx, m); err != nil {
		if delErr := s.blobs.Delete(ctx, ref); delErr != nil {
			logrus.Warnf("orphan blob %s left behind: %v", ref, delErr)
		}
		return err
	}

	s.OnMemeCreated(ctx, *m)
	return nil
}

// OnMemeCreated invalidates the unfiltered first pages for CategoryAll and
// the meme's own category. Search-filtered entries are left to age out: a
// new meme cannot meaningfully change an already-cached search result
// within the TTL window.
func (s *Service) OnMemeCreated(ctx context.Context, m domain.Meme) {
	if err := s.cache.InvalidateFirstPages(ctx, domain.CategoryAll, m.Category); err != nil {
		logrus.Warnf("feed cache invalidation after create failed: %v", err)
	}
}

// DeleteMeme removes the meme for its uploader or an admin. The store
// cascades the ledger rows; the blob delete is best-effort.
func (s *Service) DeleteMeme(ctx context.Context, id int64, requester domain.User) error {
	m, err := s.memeRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if requester.Role != domain.RoleAdmin && requester.ID != m.CreatedBy.ID {
		return domain.ErrForbidden
	}

	if err := s.memeRepo.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.blobs.Delete(ctx, m.ImageRef); err != nil {
		logrus.Warnf("failed to delete blob %s: %v", m.ImageRef, err)
	}

	s.OnMemeDeleted(ctx, id)
	return nil
}

// OnMemeDeleted flushes the whole feed cache. Any page may have referenced
// the meme, and deletes are rare enough that a full flush beats tracking
// per-entry membership.
func (s *Service) OnMemeDeleted(ctx context.Context, memeID int64) {
	if err := s.cache.InvalidateAll(ctx); err != nil {
		logrus.Warnf("feed cache invalidation after delete of %d failed: %v", memeID, err)
	}
}

func (s *Service) GetImage(ctx context.Context, id int64) ([]byte, error) {
	m, err := s.memeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.blobs.Get(ctx, m.ImageRef)
}
