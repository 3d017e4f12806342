package summarizer

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"

	"studygen/internal/domain"
	"studygen/internal/features"
)

const (
	maxComponents   = 3
	componentCutoff = 0.5
)

var errNoConvergence = errors.New("singular value decomposition did not converge")

// LatentScorer scores sentences by their weight in the strongest latent
// topics of the tf·idf term/sentence matrix.
type LatentScorer struct{}

func (LatentScorer) Score(doc *domain.Document, set *features.Set, _ Options) ([]float64, error) {
	if set == nil {
		set = features.Extract(doc, features.Options{})
	}
	n := doc.Len()
	rows := set.TermSentenceMatrix()
	scores := make([]float64, n)
	if len(rows) == 0 {
		return scores, nil
	}
	data := make([]float64, 0, len(rows)*n)
	for _, r := range rows {
		data = append(data, r...)
	}
	a := mat.NewDense(len(rows), n, data)

	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDThin); !ok {
		return nil, errNoConvergence
	}
	values := svd.Values(nil)
	var v mat.Dense
	svd.VTo(&v)

	k := 0
	for k < len(values) && k < maxComponents && values[k] > 0 && values[k] >= componentCutoff*values[0] {
		k++
	}
	for j := 0; j < n; j++ {
		sum := 0.0
		for c := 0; c < k; c++ {
			x := values[c] * v.At(j, c)
			sum += x * x
		}
		scores[j] = math.Sqrt(sum)
	}
	return scores, nil
}
