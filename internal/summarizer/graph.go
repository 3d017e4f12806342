package summarizer

import (
	"math"

	"studygen/internal/domain"
	"studygen/internal/features"
)

// GraphVariant selects the edge weighting of the sentence similarity graph.
type GraphVariant int

const (
	// TextRank divides the term overlap by the sum of log sentence lengths
	// and has no self-loops.
	TextRank GraphVariant = iota
	// LexRank divides the term overlap by the geometric mean of the sentence
	// lengths and keeps self-loops.
	LexRank
)

const (
	damping       = 0.85
	maxIterations = 100
	convergence   = 1e-4
)

// GraphScorer ranks sentences by weighted PageRank centrality over a
// similarity graph of shared content terms.
type GraphScorer struct {
	Variant GraphVariant
}

func (g GraphScorer) Score(doc *domain.Document, set *features.Set, _ Options) ([]float64, error) {
	if set == nil {
		set = features.Extract(doc, features.Options{})
	}
	n := doc.Len()
	if n == 1 {
		return []float64{1}, nil
	}
	terms := make([]map[string]struct{}, n)
	for i, f := range set.Sentences {
		terms[i] = make(map[string]struct{}, len(f.Terms))
		for _, t := range f.Terms {
			terms[i][t] = struct{}{}
		}
	}
	w := make([][]float64, n)
	for i := range w {
		w[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			if i == j && g.Variant == TextRank {
				continue
			}
			weight := g.edge(terms[i], terms[j])
			w[i][j] = weight
			w[j][i] = weight
		}
	}
	return pageRank(w), nil
}

func (g GraphScorer) edge(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	shared := 0
	for t := range a {
		if _, ok := b[t]; ok {
			shared++
		}
	}
	if shared == 0 {
		return 0
	}
	la, lb := float64(len(a)), float64(len(b))
	if g.Variant == LexRank {
		return float64(shared) / math.Sqrt(la*lb)
	}
	if denom := math.Log(la) + math.Log(lb); denom > 0 {
		return float64(shared) / denom
	}
	return float64(shared) / math.Max(la, lb)
}

// pageRank runs damped power iteration over a symmetric weight matrix. Each
// node passes its score along its out-edges in proportion to their weight;
// nodes without edges spread their score over every node.
func pageRank(w [][]float64) []float64 {
	n := len(w)
	out := make([]float64, n)
	for i, row := range w {
		for _, v := range row {
			out[i] += v
		}
	}
	scores := make([]float64, n)
	for i := range scores {
		scores[i] = 1 / float64(n)
	}
	next := make([]float64, n)
	for iter := 0; iter < maxIterations; iter++ {
		dangling := 0.0
		for j := range scores {
			if out[j] == 0 {
				dangling += scores[j]
			}
		}
		base := (1-damping)/float64(n) + damping*dangling/float64(n)
		for i := range next {
			sum := 0.0
			for j := range scores {
				if out[j] > 0 && w[j][i] > 0 {
					sum += w[j][i] / out[j] * scores[j]
				}
			}
			next[i] = base + damping*sum
		}
		delta := 0.0
		for i := range next {
			delta += math.Abs(next[i] - scores[i])
		}
		scores, next = next, scores
		if delta < convergence {
			break
		}
	}
	return scores
}
