package ingest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"bias-lens/cluster"
	"bias-lens/compare"
	"bias-lens/config"
	"bias-lens/fingerprint"
	"bias-lens/models"
)

// ErrMalformedDraft marks drafts missing url, body or source; they are
// rejected at ingress and never enter the pipeline.
var ErrMalformedDraft = errors.New("malformed article draft")

// Pipeline runs the per-article ingestion flow: fingerprint, dedup
// check, score request, candidate scan, cluster assignment, report
// recompute. Each stage is idempotent, so a cancelled batch leaves
// already-written articles valid and resumable.
type Pipeline struct {
	articles   ArticleStore
	clusters   ClusterStore
	clusterer  *cluster.Clusterer
	comparator *compare.Comparator
	requester  ScoreRequester
	weights    models.BiasWeights
	windowDays int

	dedupLocks *keyedMutex
}

// PipelineDeps wires the pipeline's collaborators.
// Requester may be nil; articles then stay in the absent bias state.
type PipelineDeps struct {
	Articles   ArticleStore
	Clusters   ClusterStore
	Clusterer  *cluster.Clusterer
	Comparator *compare.Comparator
	Requester  ScoreRequester
	Weights    models.BiasWeights
	WindowDays int
}

func NewPipeline(deps PipelineDeps) *Pipeline {
	windowDays := deps.WindowDays
	if windowDays <= 0 {
		windowDays = 3
	}
	return &Pipeline{
		articles:   deps.Articles,
		clusters:   deps.Clusters,
		clusterer:  deps.Clusterer,
		comparator: deps.Comparator,
		requester:  deps.Requester,
		weights:    deps.Weights,
		windowDays: windowDays,
		dedupLocks: newKeyedMutex(),
	}
}

// Process ingests one draft end to end and returns the stored article.
// Reingesting the same url or the same normalized text updates the
// existing document instead of duplicating it.
func (p *Pipeline) Process(ctx context.Context, draft models.ArticleDraft) (*models.Article, error) {
	if !draft.Valid() {
		return nil, ErrMalformedDraft
	}

	hash, _ := fingerprint.Fingerprint(draft.Body)

	// guard the dedup check-and-insert per content hash; the url-level
	// race is absorbed by the atomic upsert on the unique url index
	unlock := p.dedupLocks.Lock(hash)
	defer unlock()

	article, err := p.storeDeduped(ctx, draft, hash)
	if err != nil {
		return nil, err
	}

	if err := p.requestScore(ctx, article); err != nil {
		// a missing score never blocks clustering
		config.Logger.Warnf("score request failed for %s, article stays pending: %v", article.URL, err)
	}

	if err := p.assignCluster(ctx, article); err != nil {
		return nil, err
	}
	return article, nil
}

// storeDeduped resolves the draft against the url and content-hash
// uniqueness constraints and upserts exactly one document.
func (p *Pipeline) storeDeduped(ctx context.Context, draft models.ArticleDraft, hash string) (*models.Article, error) {
	article := &models.Article{
		URL:         draft.URL,
		Title:       draft.Title,
		Body:        draft.Body,
		Author:      draft.Author,
		SourceName:  draft.SourceName,
		Language:    draft.Language,
		PublishedAt: draft.PublishedAt,
		IngestedAt:  time.Now().UTC(),
		ContentHash: hash,
		BiasStatus:  models.BiasAbsent,
	}

	existing, err := p.articles.FindByHash(ctx, hash)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("dedup lookup by hash: %w", err)
	}
	if existing == nil {
		existing, err = p.articles.FindByURL(ctx, draft.URL)
		if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("dedup lookup by url: %w", err)
		}
	}

	if existing != nil {
		// duplicate: update in place, carrying immutable identity and
		// everything already computed for the stored copy
		article.ID = existing.ID
		article.URL = existing.URL
		article.CreatedAt = existing.CreatedAt
		article.IngestedAt = existing.IngestedAt
		article.ClusterID = existing.ClusterID
		article.BiasStatus = existing.BiasStatus
		article.Bias = existing.Bias
	}

	if _, err := p.articles.UpsertByURL(ctx, article); err != nil {
		return nil, fmt.Errorf("upsert article: %w", err)
	}

	if article.ID.IsZero() {
		stored, err := p.articles.FindByURL(ctx, article.URL)
		if err != nil {
			return nil, fmt.Errorf("reload article: %w", err)
		}
		article.ID = stored.ID
		article.CreatedAt = stored.CreatedAt
	}
	return article, nil
}

// requestScore hands the article to the scoring collaborator unless a
// valid score is already attached.
func (p *Pipeline) requestScore(ctx context.Context, article *models.Article) error {
	if p.requester == nil || article.BiasStatus == models.BiasScored {
		return nil
	}
	if err := p.articles.UpdateBias(ctx, article.ID, models.BiasPending, nil); err != nil {
		return err
	}
	article.BiasStatus = models.BiasPending
	return p.requester.RequestScore(ctx, article)
}

// assignCluster pulls the windowed cross-source candidate set, lets the
// clusterer place the article and refreshes the cluster's report.
func (p *Pipeline) assignCluster(ctx context.Context, article *models.Article) error {
	anchor := article.PublishedAt
	if anchor.IsZero() {
		anchor = article.IngestedAt
	}
	from := anchor.AddDate(0, 0, -p.windowDays)
	to := anchor.AddDate(0, 0, p.windowDays)

	candidates, err := p.articles.QueryCandidates(ctx, article.SourceName, from, to)
	if err != nil {
		return fmt.Errorf("query candidates: %w", err)
	}

	assigned, err := p.clusterer.Assign(ctx, article, candidates)
	if err != nil {
		return fmt.Errorf("assign cluster: %w", err)
	}

	if err := p.articles.SetCluster(ctx, article.ID, assigned.ID); err != nil {
		return fmt.Errorf("persist cluster assignment: %w", err)
	}

	return p.RecomputeReport(ctx, assigned.ID)
}

// RecomputeReport rebuilds and caches the comparison report of a
// cluster from its current member set.
func (p *Pipeline) RecomputeReport(ctx context.Context, clusterID primitive.ObjectID) error {
	cl, err := p.clusters.FindByID(ctx, clusterID)
	if err != nil {
		return fmt.Errorf("load cluster: %w", err)
	}
	members, err := p.clusters.Members(ctx, clusterID)
	if err != nil {
		return fmt.Errorf("load cluster members: %w", err)
	}
	report := p.comparator.Compare(cl, members)
	if err := p.clusters.SaveReport(ctx, clusterID, report); err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	return nil
}

// AttachScore records a bias vector delivered by the scoring
// collaborator: derives the overall score, marks the article scored and
// refreshes its cluster's report. Idempotent per article content.
func (p *Pipeline) AttachScore(ctx context.Context, articleID primitive.ObjectID, vector models.BiasVector) error {
	vector.OverallBias = models.DeriveOverall(vector, p.weights)

	if err := p.articles.UpdateBias(ctx, articleID, models.BiasScored, &vector); err != nil {
		return fmt.Errorf("attach bias: %w", err)
	}

	article, err := p.articles.FindByID(ctx, articleID)
	if err != nil {
		return fmt.Errorf("reload article: %w", err)
	}
	if article.ClusterID.IsZero() {
		return nil
	}
	return p.RecomputeReport(ctx, article.ClusterID)
}

// BatchSummary is the operator-visible result of one ingestion batch.
type BatchSummary struct {
	Processed        int `json:"processed"`
	SkippedMalformed int `json:"skipped_malformed"`
	PendingAnalysis  int `json:"pending_analysis"`
	FailedStore      int `json:"failed_store"`
}

// ProcessBatch ingests drafts concurrently across the given number of
// workers. Failures are counted, never fatal: one bad article does not
// abort its siblings. A cancelled context stops feeding new drafts;
// articles already written stay valid.
func (p *Pipeline) ProcessBatch(ctx context.Context, drafts []models.ArticleDraft, workers int) BatchSummary {
	if workers < 1 {
		workers = 1
	}

	var (
		mu      sync.Mutex
		summary BatchSummary
		wg      sync.WaitGroup
	)
	jobs := make(chan models.ArticleDraft)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for draft := range jobs {
				article, err := p.Process(ctx, draft)

				mu.Lock()
				switch {
				case errors.Is(err, ErrMalformedDraft):
					summary.SkippedMalformed++
				case err != nil:
					summary.FailedStore++
					config.Logger.Errorf("ingest failed for %s: %v", draft.URL, err)
				default:
					summary.Processed++
					if article.BiasStatus != models.BiasScored {
						summary.PendingAnalysis++
					}
				}
				mu.Unlock()
			}
		}()
	}

feed:
	for _, draft := range drafts {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- draft:
		}
	}
	close(jobs)
	wg.Wait()
	return summary
}
