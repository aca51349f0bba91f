package ingest_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"bias-lens/cluster"
	"bias-lens/compare"
	"bias-lens/ingest"
	"bias-lens/models"
	"bias-lens/similarity"
)

type fakeArticleStore struct {
	mu   sync.Mutex
	byID map[primitive.ObjectID]*models.Article
}

func newFakeArticleStore() *fakeArticleStore {
	return &fakeArticleStore{byID: map[primitive.ObjectID]*models.Article{}}
}

func (s *fakeArticleStore) UpsertByURL(_ context.Context, a *models.Article) (*mongo.UpdateResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.byID {
		if existing.URL == a.URL {
			id, createdAt, ingestedAt := existing.ID, existing.CreatedAt, existing.IngestedAt
			cp := *a
			cp.ID, cp.CreatedAt, cp.IngestedAt = id, createdAt, ingestedAt
			s.byID[id] = &cp
			return &mongo.UpdateResult{MatchedCount: 1}, nil
		}
	}
	cp := *a
	if cp.ID.IsZero() {
		cp.ID = primitive.NewObjectID()
	}
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now().UTC()
	}
	s.byID[cp.ID] = &cp
	return &mongo.UpdateResult{UpsertedID: cp.ID}, nil
}

func (s *fakeArticleStore) FindByURL(_ context.Context, url string) (*models.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.byID {
		if a.URL == url {
			cp := *a
			return &cp, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (s *fakeArticleStore) FindByHash(_ context.Context, hash string) (*models.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.byID {
		if a.ContentHash == hash {
			cp := *a
			return &cp, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (s *fakeArticleStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.byID[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := *a
	return &cp, nil
}

func (s *fakeArticleStore) UpdateBias(_ context.Context, id primitive.ObjectID, status models.BiasStatus, bias *models.BiasVector) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.byID[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	a.BiasStatus = status
	if bias != nil {
		cp := *bias
		a.Bias = &cp
	}
	return nil
}

func (s *fakeArticleStore) SetCluster(_ context.Context, id, clusterID primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.byID[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	a.ClusterID = clusterID
	return nil
}

func (s *fakeArticleStore) QueryCandidates(_ context.Context, excludeSource string, from, to time.Time) ([]*models.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Article
	for _, a := range s.byID {
		if a.SourceName == excludeSource {
			continue
		}
		if a.PublishedAt.Before(from) || a.PublishedAt.After(to) {
			continue
		}
		cp := *a
		out = append(out, &cp)
	}
	return out, nil
}

func (s *fakeArticleStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}

type fakeClusterStore struct {
	mu       sync.Mutex
	articles *fakeArticleStore
	clusters map[primitive.ObjectID]*models.StoryCluster
}

func newFakeClusterStore(articles *fakeArticleStore) *fakeClusterStore {
	return &fakeClusterStore{
		articles: articles,
		clusters: map[primitive.ObjectID]*models.StoryCluster{},
	}
}

func (s *fakeClusterStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.StoryCluster, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.clusters[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := *c
	cp.MemberIDs = append([]primitive.ObjectID(nil), c.MemberIDs...)
	return &cp, nil
}

func (s *fakeClusterStore) Insert(_ context.Context, c *models.StoryCluster) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	cp := *c
	s.clusters[c.ID] = &cp
	return nil
}

func (s *fakeClusterStore) AddMember(_ context.Context, clusterID, articleID primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.clusters[clusterID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	if !c.HasMember(articleID) {
		c.MemberIDs = append(c.MemberIDs, articleID)
	}
	return nil
}

func (s *fakeClusterStore) Members(ctx context.Context, clusterID primitive.ObjectID) ([]*models.Article, error) {
	s.mu.Lock()
	c, ok := s.clusters[clusterID]
	if !ok {
		s.mu.Unlock()
		return nil, mongo.ErrNoDocuments
	}
	ids := append([]primitive.ObjectID(nil), c.MemberIDs...)
	s.mu.Unlock()

	out := make([]*models.Article, 0, len(ids))
	for _, id := range ids {
		a, err := s.articles.FindByID(ctx, id)
		if err != nil {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (s *fakeClusterStore) SaveReport(_ context.Context, clusterID primitive.ObjectID, report *models.ComparisonReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.clusters[clusterID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	c.Report = report
	return nil
}

func (s *fakeClusterStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clusters)
}

type fakeRequester struct {
	mu        sync.Mutex
	requested []primitive.ObjectID
}

func (r *fakeRequester) RequestScore(_ context.Context, a *models.Article) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requested = append(r.requested, a.ID)
	return nil
}

func newTestPipeline(requester ingest.ScoreRequester) (*ingest.Pipeline, *fakeArticleStore, *fakeClusterStore) {
	articles := newFakeArticleStore()
	clusters := newFakeClusterStore(articles)
	p := ingest.NewPipeline(ingest.PipelineDeps{
		Articles:   articles,
		Clusters:   clusters,
		Clusterer:  cluster.NewClusterer(similarity.NewEngine(), clusters, 0.42),
		Comparator: compare.NewComparator(),
		Requester:  requester,
		Weights:    models.BiasWeights{Emotional: 1},
		WindowDays: 3,
	})
	return p, articles, clusters
}

const budgetStory = "Parliament approved the national budget today after a lengthy debate over spending priorities and development allocation across districts."
const budgetStoryVariant = "The national budget was approved by parliament today following lengthy debate over development spending and allocation priorities in districts."
const budgetStoryThird = "Lawmakers in parliament today approved the national budget, ending lengthy debate about development allocation and spending priorities for districts."
const cycloneStory = "Coastal districts began evacuation as the cyclone approached with heavy rainfall and storm surge warnings issued overnight by authorities."

func draft(source, url, body string) models.ArticleDraft {
	return models.ArticleDraft{
		URL:         url,
		Title:       "Story",
		Body:        body,
		SourceName:  source,
		Language:    "english",
		PublishedAt: time.Now().UTC(),
	}
}

func TestProcessRejectsMalformedDraft(t *testing.T) {
	p, articles, _ := newTestPipeline(nil)

	_, err := p.Process(context.Background(), models.ArticleDraft{URL: "https://news.example/a"})

	assert.ErrorIs(t, err, ingest.ErrMalformedDraft)
	assert.Zero(t, articles.count())
}

func TestProcessStoresArticleAndRequestsScore(t *testing.T) {
	requester := &fakeRequester{}
	p, articles, clusters := newTestPipeline(requester)

	a, err := p.Process(context.Background(), draft("SourceX", "https://news.example/a", budgetStory))
	require.NoError(t, err)

	assert.False(t, a.ID.IsZero())
	assert.NotEmpty(t, a.ContentHash)
	assert.Equal(t, models.BiasPending, a.BiasStatus)
	assert.False(t, a.ClusterID.IsZero())
	assert.Equal(t, []primitive.ObjectID{a.ID}, requester.requested)

	assert.Equal(t, 1, articles.count())
	assert.Equal(t, 1, clusters.count())

	cl, err := clusters.FindByID(context.Background(), a.ClusterID)
	require.NoError(t, err)
	require.NotNil(t, cl.Report)
	assert.Equal(t, 1, cl.Report.PendingMembers)
	assert.Zero(t, cl.Report.ScoredMembers)
}

func TestProcessWithoutRequesterLeavesBiasAbsent(t *testing.T) {
	p, _, _ := newTestPipeline(nil)

	a, err := p.Process(context.Background(), draft("SourceX", "https://news.example/a", budgetStory))
	require.NoError(t, err)

	assert.Equal(t, models.BiasAbsent, a.BiasStatus)
}

func TestProcessSameURLTwiceUpdatesInPlace(t *testing.T) {
	p, articles, clusters := newTestPipeline(nil)
	ctx := context.Background()

	first, err := p.Process(ctx, draft("SourceX", "https://news.example/a", budgetStory))
	require.NoError(t, err)
	second, err := p.Process(ctx, draft("SourceX", "https://news.example/a", budgetStory))
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.ClusterID, second.ClusterID)
	assert.Equal(t, 1, articles.count())
	assert.Equal(t, 1, clusters.count())

	cl, err := clusters.FindByID(ctx, second.ClusterID)
	require.NoError(t, err)
	assert.Len(t, cl.MemberIDs, 1)
}

func TestProcessSameTextDifferentURLDeduplicates(t *testing.T) {
	p, articles, _ := newTestPipeline(nil)
	ctx := context.Background()

	first, err := p.Process(ctx, draft("SourceX", "https://news.example/a", budgetStory))
	require.NoError(t, err)
	second, err := p.Process(ctx, draft("SourceX", "https://news.example/a-amp", budgetStory))
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.URL, second.URL)
	assert.Equal(t, 1, articles.count())
}

func TestAttachScoreDerivesOverallAndRefreshesReport(t *testing.T) {
	p, articles, clusters := newTestPipeline(&fakeRequester{})
	ctx := context.Background()

	a, err := p.Process(ctx, draft("SourceX", "https://news.example/a", budgetStory))
	require.NoError(t, err)

	err = p.AttachScore(ctx, a.ID, models.BiasVector{EmotionalLanguage: 0.7, FactualVsOpinion: 1})
	require.NoError(t, err)

	stored, err := articles.FindByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BiasScored, stored.BiasStatus)
	require.NotNil(t, stored.Bias)
	assert.InDelta(t, 0.7, stored.Bias.OverallBias, 1e-9)

	cl, err := clusters.FindByID(ctx, a.ClusterID)
	require.NoError(t, err)
	require.NotNil(t, cl.Report)
	assert.Equal(t, 1, cl.Report.ScoredMembers)
	assert.Zero(t, cl.Report.PendingMembers)
	assert.InDelta(t, 0.7, cl.Report.ClusterMean, 1e-9)
}

func TestCrossSourceStoryComparison(t *testing.T) {
	p, _, clusters := newTestPipeline(&fakeRequester{})
	ctx := context.Background()

	a1, err := p.Process(ctx, draft("SourceX", "https://x.example/story", budgetStory))
	require.NoError(t, err)
	a2, err := p.Process(ctx, draft("SourceY", "https://y.example/story", budgetStoryVariant))
	require.NoError(t, err)
	a3, err := p.Process(ctx, draft("SourceZ", "https://z.example/story", budgetStoryThird))
	require.NoError(t, err)

	require.Equal(t, a1.ClusterID, a2.ClusterID, "same story should share a cluster")
	require.Equal(t, a1.ClusterID, a3.ClusterID, "same story should share a cluster")
	assert.Equal(t, 1, clusters.count())

	require.NoError(t, p.AttachScore(ctx, a1.ID, models.BiasVector{EmotionalLanguage: 0.9}))
	require.NoError(t, p.AttachScore(ctx, a2.ID, models.BiasVector{EmotionalLanguage: 0.5}))
	require.NoError(t, p.AttachScore(ctx, a3.ID, models.BiasVector{EmotionalLanguage: 0.5}))

	cl, err := clusters.FindByID(ctx, a1.ClusterID)
	require.NoError(t, err)
	report := cl.Report
	require.NotNil(t, report)

	assert.Equal(t, 3, report.ScoredMembers)
	assert.InDelta(t, 0.6333, report.ClusterMean, 0.001)

	require.Len(t, report.SourceDeltas, 3)
	byName := map[string]models.SourceBiasDelta{}
	for _, d := range report.SourceDeltas {
		byName[d.SourceName] = d
	}
	assert.InDelta(t, 42.1, byName["SourceX"].PctDiff, 0.1)
	assert.InDelta(t, -21.05, byName["SourceY"].PctDiff, 0.1)
	assert.InDelta(t, -21.05, byName["SourceZ"].PctDiff, 0.1)
}

func TestProcessUnrelatedStoriesSplitClusters(t *testing.T) {
	p, _, clusters := newTestPipeline(nil)
	ctx := context.Background()

	a, err := p.Process(ctx, draft("SourceX", "https://x.example/budget", budgetStory))
	require.NoError(t, err)
	b, err := p.Process(ctx, draft("SourceY", "https://y.example/cyclone", cycloneStory))
	require.NoError(t, err)

	assert.NotEqual(t, a.ClusterID, b.ClusterID)
	assert.Equal(t, 2, clusters.count())
}

func TestProcessBatchSummaryCounts(t *testing.T) {
	p, articles, _ := newTestPipeline(&fakeRequester{})

	drafts := []models.ArticleDraft{
		draft("SourceX", "https://x.example/budget", budgetStory),
		draft("SourceY", "https://y.example/cyclone", cycloneStory),
		{URL: "https://x.example/broken"}, // no body, no source
		draft("SourceX", "https://x.example/budget", budgetStory),
	}

	summary := p.ProcessBatch(context.Background(), drafts, 2)

	assert.Equal(t, 3, summary.Processed)
	assert.Equal(t, 1, summary.SkippedMalformed)
	assert.Equal(t, 3, summary.PendingAnalysis)
	assert.Zero(t, summary.FailedStore)
	assert.Equal(t, 2, articles.count())
}

func TestProcessBatchCancelledContextStopsFeeding(t *testing.T) {
	p, _, _ := newTestPipeline(nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary := p.ProcessBatch(ctx, []models.ArticleDraft{
		draft("SourceX", "https://x.example/budget", budgetStory),
	}, 1)

	assert.Zero(t, summary.FailedStore)
	assert.LessOrEqual(t, summary.Processed, 1)
}
