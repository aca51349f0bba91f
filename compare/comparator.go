package compare

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"bias-lens/fingerprint"
	"bias-lens/models"
)

// maxTermsPerSignal bounds how many terms one key-difference line names.
const maxTermsPerSignal = 4

// minTokensForDiff is the per-source token floor under which emphasis
// extraction degrades to no signal instead of noise.
const minTokensForDiff = 20

// Comparator builds ComparisonReports for story clusters.
type Comparator struct{}

func NewComparator() *Comparator {
	return &Comparator{}
}

// Compare recomputes the cluster's comparison report from its member
// articles. Members still pending bias analysis are counted but excluded
// from the percentage math. The result is fully regenerable: callers may
// cache it on the cluster but must never prefer the cache over a fresh
// recomputation.
func (c *Comparator) Compare(cluster *models.StoryCluster, members []*models.Article) *models.ComparisonReport {
	report := &models.ComparisonReport{
		GeneratedAt: time.Now().UTC(),
	}

	scoredBySource := map[string][]float64{}
	var sum float64
	var scored int
	for _, a := range members {
		if a.BiasStatus != models.BiasScored || a.Bias == nil {
			report.PendingMembers++
			continue
		}
		scored++
		sum += a.Bias.OverallBias
		scoredBySource[a.SourceName] = append(scoredBySource[a.SourceName], a.Bias.OverallBias)
	}
	report.ScoredMembers = scored

	var clusterMean float64
	if scored > 0 {
		clusterMean = sum / float64(scored)
	}
	report.ClusterMean = clusterMean

	names := make([]string, 0, len(scoredBySource))
	for name := range scoredBySource {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		vals := scoredBySource[name]
		var srcSum float64
		for _, v := range vals {
			srcSum += v
		}
		srcMean := srcSum / float64(len(vals))

		// zero-mean guard: a degenerate cluster reports 0%, never NaN
		var pct float64
		if clusterMean != 0 {
			pct = (srcMean - clusterMean) / clusterMean * 100
		}

		report.SourceDeltas = append(report.SourceDeltas, models.SourceBiasDelta{
			SourceName:   name,
			ArticleCount: len(vals),
			SourceMean:   srcMean,
			PctDiff:      pct,
		})
	}

	report.KeyDifferences = keyDifferences(members)
	return report
}

// keyDifferences extracts emphasis/omission signals: terms one source's
// coverage repeats that no other source in the cluster mentions, and
// terms every other source carries that this one lacks. Deterministic
// for identical inputs; returns an empty list when texts are too short
// or too uniform to differentiate.
func keyDifferences(members []*models.Article) []string {
	termsBySource := map[string]map[string]int{}
	for _, a := range members {
		tokens := fingerprint.Tokenize(fingerprint.Normalize(a.Title + " " + a.Body))
		if len(tokens) < minTokensForDiff {
			continue
		}
		counts := termsBySource[a.SourceName]
		if counts == nil {
			counts = map[string]int{}
			termsBySource[a.SourceName] = counts
		}
		for _, t := range tokens {
			counts[t]++
		}
	}
	if len(termsBySource) < 2 {
		return nil
	}

	names := make([]string, 0, len(termsBySource))
	for name := range termsBySource {
		names = append(names, name)
	}
	sort.Strings(names)

	var out []string
	for _, name := range names {
		own := termsBySource[name]

		var unique []string
		for term, count := range own {
			if count < 2 {
				continue // one-off mentions are not emphasis
			}
			if seenElsewhere(term, name, termsBySource) {
				continue
			}
			unique = append(unique, term)
		}
		if line := signalLine(name, "emphasizes", unique, own); line != "" {
			out = append(out, line)
		}

		var missing []string
		for term := range sharedByOthers(name, termsBySource) {
			if _, ok := own[term]; !ok {
				missing = append(missing, term)
			}
		}
		if line := signalLine(name, "omits", missing, nil); line != "" {
			out = append(out, line)
		}
	}
	return out
}

func seenElsewhere(term, source string, termsBySource map[string]map[string]int) bool {
	for name, counts := range termsBySource {
		if name == source {
			continue
		}
		if _, ok := counts[term]; ok {
			return true
		}
	}
	return false
}

// sharedByOthers returns terms present in every source except the given one.
func sharedByOthers(source string, termsBySource map[string]map[string]int) map[string]bool {
	shared := map[string]bool{}
	first := true
	for name, counts := range termsBySource {
		if name == source {
			continue
		}
		if first {
			for t := range counts {
				shared[t] = true
			}
			first = false
			continue
		}
		for t := range shared {
			if _, ok := counts[t]; !ok {
				delete(shared, t)
			}
		}
	}
	return shared
}

// signalLine renders one key-difference string, keeping at most
// maxTermsPerSignal terms. Terms are ranked by own-count (when known)
// and then lexicographically so equal inputs render identically.
func signalLine(source, verb string, terms []string, counts map[string]int) string {
	if len(terms) == 0 {
		return ""
	}
	sort.Slice(terms, func(i, j int) bool {
		if counts != nil && counts[terms[i]] != counts[terms[j]] {
			return counts[terms[i]] > counts[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if len(terms) > maxTermsPerSignal {
		terms = terms[:maxTermsPerSignal]
	}
	return fmt.Sprintf("%s %s: %s", source, verb, strings.Join(terms, ", "))
}
