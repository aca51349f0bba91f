package cluster_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"bias-lens/cluster"
	"bias-lens/fingerprint"
	"bias-lens/models"
	"bias-lens/similarity"
)

type fakeStore struct {
	clusters map[primitive.ObjectID]*models.StoryCluster
	articles map[primitive.ObjectID]*models.Article
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		clusters: map[primitive.ObjectID]*models.StoryCluster{},
		articles: map[primitive.ObjectID]*models.Article{},
	}
}

func (s *fakeStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.StoryCluster, error) {
	c, ok := s.clusters[id]
	if !ok {
		return nil, context.Canceled
	}
	cp := *c
	cp.MemberIDs = append([]primitive.ObjectID(nil), c.MemberIDs...)
	return &cp, nil
}

func (s *fakeStore) Insert(_ context.Context, c *models.StoryCluster) error {
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	cp := *c
	s.clusters[c.ID] = &cp
	return nil
}

func (s *fakeStore) AddMember(_ context.Context, clusterID, articleID primitive.ObjectID) error {
	c := s.clusters[clusterID]
	if !c.HasMember(articleID) {
		c.MemberIDs = append(c.MemberIDs, articleID)
	}
	return nil
}

func (s *fakeStore) Members(_ context.Context, clusterID primitive.ObjectID) ([]*models.Article, error) {
	c := s.clusters[clusterID]
	out := make([]*models.Article, 0, len(c.MemberIDs))
	for _, id := range c.MemberIDs {
		if a, ok := s.articles[id]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *fakeStore) addArticle(title, body string) *models.Article {
	hash, _ := fingerprint.Fingerprint(body)
	a := &models.Article{
		ID:          primitive.NewObjectID(),
		Title:       title,
		Body:        body,
		ContentHash: hash,
	}
	s.articles[a.ID] = a
	return a
}

func (s *fakeStore) allArticles() []*models.Article {
	out := make([]*models.Article, 0, len(s.articles))
	for _, a := range s.articles {
		out = append(out, a)
	}
	return out
}

func newClusterer(store cluster.Store) *cluster.Clusterer {
	return cluster.NewClusterer(similarity.NewEngine(), store, 0.42)
}

const budgetStory = "Parliament approved the national budget today after a lengthy debate over spending priorities and development allocation."
const budgetStoryVariant = "The national budget was approved by parliament today following debate over development spending and allocation priorities."
const cycloneStory = "Coastal districts began evacuation as the cyclone approached with heavy rainfall and storm surge warnings issued overnight."

func TestAssignFirstArticleStartsSingleton(t *testing.T) {
	store := newFakeStore()
	c := newClusterer(store)

	a := store.addArticle("Budget approved", budgetStory)
	cl, err := c.Assign(context.Background(), a, nil)
	require.NoError(t, err)

	assert.False(t, cl.ID.IsZero())
	assert.Equal(t, []primitive.ObjectID{a.ID}, cl.MemberIDs)
	assert.Equal(t, cl.ID, a.ClusterID)
	assert.Equal(t, 0.42, cl.Threshold)
}

func TestAssignSimilarArticleJoinsCluster(t *testing.T) {
	store := newFakeStore()
	c := newClusterer(store)
	ctx := context.Background()

	a := store.addArticle("Budget approved", budgetStory)
	_, err := c.Assign(ctx, a, nil)
	require.NoError(t, err)

	b := store.addArticle("Budget passes", budgetStoryVariant)
	cl, err := c.Assign(ctx, b, store.allArticles())
	require.NoError(t, err)

	assert.Equal(t, a.ClusterID, cl.ID)
	assert.True(t, cl.HasMember(a.ID))
	assert.True(t, cl.HasMember(b.ID))
}

func TestAssignDissimilarArticleStartsNewCluster(t *testing.T) {
	store := newFakeStore()
	c := newClusterer(store)
	ctx := context.Background()

	a := store.addArticle("Budget approved", budgetStory)
	_, err := c.Assign(ctx, a, nil)
	require.NoError(t, err)

	b := store.addArticle("Cyclone warning", cycloneStory)
	cl, err := c.Assign(ctx, b, store.allArticles())
	require.NoError(t, err)

	assert.NotEqual(t, a.ClusterID, cl.ID)
	assert.Equal(t, []primitive.ObjectID{b.ID}, cl.MemberIDs)
}

func TestAssignIdempotentOnReprocessing(t *testing.T) {
	store := newFakeStore()
	c := newClusterer(store)
	ctx := context.Background()

	a := store.addArticle("Budget approved", budgetStory)
	first, err := c.Assign(ctx, a, nil)
	require.NoError(t, err)

	again, err := c.Assign(ctx, a, store.allArticles())
	require.NoError(t, err)

	assert.Equal(t, first.ID, again.ID)
	assert.Len(t, again.MemberIDs, 1)
	assert.Len(t, store.clusters, 1)
}

func TestAssignStableOnUnchangedCorpus(t *testing.T) {
	store := newFakeStore()
	c := newClusterer(store)
	ctx := context.Background()

	a := store.addArticle("Budget approved", budgetStory)
	_, err := c.Assign(ctx, a, nil)
	require.NoError(t, err)
	b := store.addArticle("Budget passes", budgetStoryVariant)
	first, err := c.Assign(ctx, b, store.allArticles())
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		cl, err := c.Assign(ctx, b, store.allArticles())
		require.NoError(t, err)
		assert.Equal(t, first.ID, cl.ID)
		assert.Len(t, cl.MemberIDs, 2)
	}
}

func TestAssignTieBreaksTowardEarliestCluster(t *testing.T) {
	store := newFakeStore()
	c := newClusterer(store)
	ctx := context.Background()

	// two clusters whose members have identical text, created apart
	early := store.addArticle("Budget approved", budgetStory)
	earlyCluster, err := c.Assign(ctx, early, nil)
	require.NoError(t, err)
	store.clusters[earlyCluster.ID].CreatedAt = time.Now().Add(-time.Hour)

	late := store.addArticle("Budget approved again", budgetStory)
	lateCluster, err := c.Assign(ctx, late, nil)
	require.NoError(t, err)
	require.NotEqual(t, earlyCluster.ID, lateCluster.ID)

	incoming := store.addArticle("Budget story", budgetStory)
	got, err := c.Assign(ctx, incoming, []*models.Article{early, late})
	require.NoError(t, err)

	assert.Equal(t, earlyCluster.ID, got.ID)
}

func TestAssignIgnoresUnclusteredCandidates(t *testing.T) {
	store := newFakeStore()
	c := newClusterer(store)
	ctx := context.Background()

	stray := store.addArticle("Budget draft", budgetStory)
	incoming := store.addArticle("Budget approved", budgetStory)

	cl, err := c.Assign(ctx, incoming, []*models.Article{stray})
	require.NoError(t, err)

	assert.Equal(t, []primitive.ObjectID{incoming.ID}, cl.MemberIDs)
}
