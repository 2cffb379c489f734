package retriever

import (
	"strings"
	"unicode"

	"contractiq/internal/domain"
)

// MMRReranker implements Maximal Marginal Relevance to diversify retrieved
// clauses. Contracts repeat boilerplate heavily, so near-duplicate clauses
// crowd out relevant ones without this step.
type MMRReranker struct {
	lambda       float64
	dedupJaccard float64
}

func NewMMRReranker(lambda, dedupJaccard float64) *MMRReranker {
	return &MMRReranker{
		lambda:       lambda,
		dedupJaccard: dedupJaccard,
	}
}

// Rerank applies MMR to the candidates.
// MMR(c) = λ * relevance(c) - (1-λ) * max_similarity(c, selected)
func (r *MMRReranker) Rerank(candidates []domain.ScoredClause, k int) []domain.ScoredClause {
	if len(candidates) == 0 {
		return nil
	}

	if k > len(candidates) {
		k = len(candidates)
	}

	// Normalize scores to [0, 1] for fair comparison
	maxScore := candidates[0].Score
	for _, c := range candidates {
		if c.Score > maxScore {
			maxScore = c.Score
		}
	}
	if maxScore == 0 {
		maxScore = 1
	}

	tokens := make([][]string, len(candidates))
	for i, c := range candidates {
		tokens[i] = tokenize(c.Clause.Text)
	}

	selected := make([]domain.ScoredClause, 0, k)
	var selectedTokens [][]string
	remaining := make([]int, len(candidates))
	for i := range remaining {
		remaining[i] = i
	}

	for len(selected) < k && len(remaining) > 0 {
		bestPos := -1
		bestMMR := -1e9

		for pos, idx := range remaining {
			relevance := candidates[idx].Score / maxScore

			maxSim := 0.0
			for _, sel := range selectedTokens {
				sim := jaccardSimilarity(tokens[idx], sel)
				if sim > maxSim {
					maxSim = sim
				}
			}

			// Hard deduplication threshold on top of the MMR penalty
			if maxSim > r.dedupJaccard {
				continue
			}

			mmr := r.lambda*relevance - (1-r.lambda)*maxSim
			if mmr > bestMMR {
				bestMMR = mmr
				bestPos = pos
			}
		}

		if bestPos == -1 {
			// Everything left is too similar to a selected clause
			break
		}

		idx := remaining[bestPos]
		selected = append(selected, candidates[idx])
		selectedTokens = append(selectedTokens, tokens[idx])
		remaining = append(remaining[:bestPos], remaining[bestPos+1:]...)
	}

	return selected
}

// tokenize lowercases and splits on non-alphanumeric runes.
func tokenize(text string) []string {
	var tokens []string
	var current strings.Builder

	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			current.WriteRune(r)
		} else if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}
	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}

	return tokens
}

func jaccardSimilarity(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}

	setA := make(map[string]struct{}, len(a))
	for _, t := range a {
		setA[t] = struct{}{}
	}

	setB := make(map[string]struct{}, len(b))
	for _, t := range b {
		setB[t] = struct{}{}
	}

	intersection := 0
	for t := range setA {
		if _, exists := setB[t]; exists {
			intersection++
		}
	}

	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0.0
	}

	return float64(intersection) / float64(union)
}
