package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"sync"
	"time"

	"page-pipeline/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError, // Only errors in tests
	}))
}

// --- In-memory page repository ---

type memPageRepo struct {
	mu     sync.Mutex
	pages  map[int64]*domain.Page
	nextID int64

	// taskRepo mirrors the lateral join in the production due query:
	// a page whose latest task is completed, or pending but not yet
	// scheduled, is never due.
	taskRepo *memTaskRepo

	findDueErr error
	createErr  error
}

func newMemPageRepo() *memPageRepo {
	return &memPageRepo{pages: make(map[int64]*domain.Page), nextID: 1}
}

func (r *memPageRepo) Create(ctx context.Context, page *domain.Page) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.createErr != nil {
		return 0, r.createErr
	}

	id := r.nextID
	r.nextID++

	stored := *page
	stored.ID = id
	stored.CreatedAt = time.Now()
	r.pages[id] = &stored

	return id, nil
}

func (r *memPageRepo) FindByID(ctx context.Context, pageID int64) (*domain.Page, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	page, ok := r.pages[pageID]
	if !ok {
		return nil, domain.ErrPageNotFound
	}

	copied := *page

	return &copied, nil
}

func (r *memPageRepo) FindByTopic(ctx context.Context, topic string) (*domain.Page, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, page := range r.pages {
		if page.Topic == topic {
			copied := *page
			return &copied, nil
		}
	}

	return nil, domain.ErrPageNotFound
}

func (r *memPageRepo) RecentActiveTopics(ctx context.Context, limit int) ([]domain.TopicRef, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var refs []domain.TopicRef

	for _, page := range r.pages {
		if page.Status == domain.PageStatusActive {
			refs = append(refs, domain.TopicRef{ID: page.ID, Topic: page.Topic})
		}
	}

	sort.Slice(refs, func(i, j int) bool { return refs[i].ID > refs[j].ID })

	if len(refs) > limit {
		refs = refs[:limit]
	}

	return refs, nil
}

func (r *memPageRepo) MostViewed(ctx context.Context, limit int) ([]*domain.Page, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var pages []*domain.Page
	for _, page := range r.pages {
		if page.Status == domain.PageStatusActive {
			copied := *page
			pages = append(pages, &copied)
		}
	}

	sort.Slice(pages, func(i, j int) bool { return pages[i].ViewCount > pages[j].ViewCount })

	if len(pages) > limit {
		pages = pages[:limit]
	}

	return pages, nil
}

func (r *memPageRepo) FindDue(ctx context.Context, cutoff time.Time, limit int) ([]*domain.Page, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.findDueErr != nil {
		return nil, r.findDueErr
	}

	var pages []*domain.Page

	for _, page := range r.pages {
		if page.Status != domain.PageStatusActive {
			continue
		}

		if page.LastRefreshedAt != nil && !page.LastRefreshedAt.Before(cutoff) {
			continue
		}

		if r.taskRepo != nil {
			if task := r.taskRepo.latest(page.ID); task != nil {
				if task.Status == domain.TaskStatusCompleted {
					continue
				}
				if task.Status == domain.TaskStatusPending && task.ScheduledAt.After(time.Now()) {
					continue
				}
			}
		}

		copied := *page
		pages = append(pages, &copied)
	}

	sort.Slice(pages, func(i, j int) bool { return pages[i].ID < pages[j].ID })

	if len(pages) > limit {
		pages = pages[:limit]
	}

	return pages, nil
}

func (r *memPageRepo) UpdateContent(ctx context.Context, pageID int64, body string, relevanceScore float64, refreshedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	page, ok := r.pages[pageID]
	if !ok {
		return domain.ErrPageNotFound
	}

	page.Body = body
	page.RelevanceScore = relevanceScore
	page.LastRefreshedAt = &refreshedAt

	return nil
}

func (r *memPageRepo) IncrementViewCount(ctx context.Context, pageID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	page, ok := r.pages[pageID]
	if !ok {
		return domain.ErrPageNotFound
	}

	page.ViewCount++

	return nil
}

func (r *memPageRepo) SetQualityScore(ctx context.Context, pageID int64, score float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	page, ok := r.pages[pageID]
	if !ok {
		return domain.ErrPageNotFound
	}

	page.QualityScore = &score

	return nil
}

// addPage seeds a page directly, bypassing the pipeline.
func (r *memPageRepo) addPage(page domain.Page) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextID
	r.nextID++
	page.ID = id

	if page.CreatedAt.IsZero() {
		page.CreatedAt = time.Now()
	}

	r.pages[id] = &page

	return id
}

func (r *memPageRepo) get(pageID int64) *domain.Page {
	r.mu.Lock()
	defer r.mu.Unlock()

	page, ok := r.pages[pageID]
	if !ok {
		return nil
	}

	copied := *page

	return &copied
}

// --- In-memory snippet repository ---

type memSnippetRepo struct {
	mu       sync.Mutex
	snippets map[int64][]domain.Snippet
	findErr  error
}

func newMemSnippetRepo() *memSnippetRepo {
	return &memSnippetRepo{snippets: make(map[int64][]domain.Snippet)}
}

func (r *memSnippetRepo) FindByPageID(ctx context.Context, pageID int64) ([]domain.Snippet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.findErr != nil {
		return nil, r.findErr
	}

	return append([]domain.Snippet(nil), r.snippets[pageID]...), nil
}

func (r *memSnippetRepo) ReplaceForPage(ctx context.Context, pageID int64, snippets []domain.Snippet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.snippets[pageID] = append([]domain.Snippet(nil), snippets...)

	return nil
}

// --- In-memory task repository ---

type memTaskRepo struct {
	mu     sync.Mutex
	tasks  map[int64][]*domain.RefreshTask
	nextID int64
}

func newMemTaskRepo() *memTaskRepo {
	return &memTaskRepo{tasks: make(map[int64][]*domain.RefreshTask), nextID: 1}
}

func (r *memTaskRepo) Create(ctx context.Context, pageID int64, scheduledAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	task := &domain.RefreshTask{
		ID:          r.nextID,
		PageID:      pageID,
		ScheduledAt: scheduledAt,
		Status:      domain.TaskStatusPending,
		CreatedAt:   time.Now(),
	}
	r.nextID++

	r.tasks[pageID] = append(r.tasks[pageID], task)

	return nil
}

func (r *memTaskRepo) latest(pageID int64) *domain.RefreshTask {
	r.mu.Lock()
	defer r.mu.Unlock()

	tasks := r.tasks[pageID]
	if len(tasks) == 0 {
		return nil
	}

	copied := *tasks[len(tasks)-1]

	return &copied
}

func (r *memTaskRepo) FindLatest(ctx context.Context, pageID int64) (*domain.RefreshTask, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tasks := r.tasks[pageID]
	if len(tasks) == 0 {
		return nil, domain.ErrTaskNotFound
	}

	copied := *tasks[len(tasks)-1]

	return &copied, nil
}

func (r *memTaskRepo) SetLatestStatus(ctx context.Context, pageID int64, status domain.TaskStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tasks := r.tasks[pageID]

	for i := len(tasks) - 1; i >= 0; i-- {
		if tasks[i].Status != domain.TaskStatusCompleted {
			tasks[i].Status = status
			return nil
		}
	}

	return nil
}

// --- In-memory score repository ---

type memScoreRepo struct {
	mu         sync.Mutex
	records    map[int64]*domain.QualityScoreRecord
	engagement map[int64]domain.EngagementStats
	elements   map[int64]domain.ElementCounts

	engagementErr error
	elementsErr   error
}

func newMemScoreRepo() *memScoreRepo {
	return &memScoreRepo{
		records:    make(map[int64]*domain.QualityScoreRecord),
		engagement: make(map[int64]domain.EngagementStats),
		elements:   make(map[int64]domain.ElementCounts),
	}
}

func (r *memScoreRepo) Upsert(ctx context.Context, record *domain.QualityScoreRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *record
	r.records[record.PageID] = &copied

	return nil
}

func (r *memScoreRepo) Find(ctx context.Context, pageID int64) (*domain.QualityScoreRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.records[pageID]
	if !ok {
		return nil, domain.ErrPageNotFound
	}

	copied := *record

	return &copied, nil
}

func (r *memScoreRepo) EngagementStats(ctx context.Context, pageID int64, since time.Time) (*domain.EngagementStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.engagementErr != nil {
		return nil, r.engagementErr
	}

	stats := r.engagement[pageID]

	return &stats, nil
}

func (r *memScoreRepo) ElementCounts(ctx context.Context, pageID int64) (*domain.ElementCounts, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.elementsErr != nil {
		return nil, r.elementsErr
	}

	counts := r.elements[pageID]

	return &counts, nil
}

// --- In-memory cache access log ---

type memCacheLog struct {
	mu     sync.Mutex
	hits   int64
	misses int64
}

func (r *memCacheLog) Record(ctx context.Context, cacheKey string, hit bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if hit {
		r.hits++
	} else {
		r.misses++
	}

	return nil
}

func (r *memCacheLog) Counts(ctx context.Context, since time.Time) (int64, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.hits, r.misses, nil
}

// --- In-memory fast cache tier ---

type fastCacheEntry struct {
	snapshot  domain.CacheSnapshot
	expiresAt time.Time
}

type memFastCache struct {
	mu      sync.Mutex
	entries map[string]fastCacheEntry

	getErr error
	setErr error
}

func newMemFastCache() *memFastCache {
	return &memFastCache{entries: make(map[string]fastCacheEntry)}
}

func (c *memFastCache) Get(ctx context.Context, key string) (*domain.CacheSnapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.getErr != nil {
		return nil, c.getErr
	}

	entry, ok := c.entries[key]
	if !ok || time.Now().After(entry.expiresAt) {
		delete(c.entries, key)
		return nil, nil
	}

	copied := entry.snapshot

	return &copied, nil
}

func (c *memFastCache) Set(ctx context.Context, key string, snapshot *domain.CacheSnapshot, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.setErr != nil {
		return c.setErr
	}

	c.entries[key] = fastCacheEntry{snapshot: *snapshot, expiresAt: time.Now().Add(ttl)}

	return nil
}

func (c *memFastCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)

	return nil
}

func (c *memFastCache) EntryCount(ctx context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return int64(len(c.entries)), nil
}

func (c *memFastCache) MemoryUsed(ctx context.Context) (int64, error) {
	return 4096, nil
}

// --- Stub external API repository ---

type stubAPIRepo struct {
	mu sync.Mutex

	aggregateFunc func(topic string) ([]domain.Snippet, error)
	generateFunc  func(topic string, snippets []domain.Snippet) (string, error)

	aggregateCalls int
	generateCalls  int
}

func (r *stubAPIRepo) AggregateSnippets(ctx context.Context, topic string) ([]domain.Snippet, error) {
	r.mu.Lock()
	r.aggregateCalls++
	r.mu.Unlock()

	if r.aggregateFunc != nil {
		return r.aggregateFunc(topic)
	}

	return nil, nil
}

func (r *stubAPIRepo) GenerateContent(ctx context.Context, topic string, snippets []domain.Snippet) (string, error) {
	r.mu.Lock()
	r.generateCalls++
	r.mu.Unlock()

	if r.generateFunc != nil {
		return r.generateFunc(topic, snippets)
	}

	return fmt.Sprintf("<article>%s</article>", topic), nil
}
