package textmodel

// logreg.go - Binary logistic regression over sparse feature vectors

import "math"

// Logistic regression defaults for the fitted models.
const (
	DefaultMaxIter      = 300
	DefaultLearningRate = 0.5
	DefaultC            = 2.0
)

// LogisticRegression is a binary classifier trained with full-batch
// gradient descent and L2 regularization. Class imbalance is
// compensated with balanced sample weights.
type LogisticRegression struct {
	Weights []float64 `json:"weights"`
	Bias    float64   `json:"bias"`

	// MaxIter is the number of gradient descent epochs.
	MaxIter int `json:"max_iter"`
	// LearningRate is the gradient step size.
	LearningRate float64 `json:"learning_rate"`
	// C is the inverse regularization strength; smaller values
	// regularize harder.
	C float64 `json:"c"`
}

// NewLogisticRegression returns a classifier with default
// hyperparameters.
func NewLogisticRegression() *LogisticRegression {
	return &LogisticRegression{
		MaxIter:      DefaultMaxIter,
		LearningRate: DefaultLearningRate,
		C:            DefaultC,
	}
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

// Fit trains the classifier on sparse vectors of dimension numFeatures
// with binary labels. Positive and negative classes receive balanced
// weights (n / 2*n_class) so a rare positive class still moves the
// decision boundary.
func (lr *LogisticRegression) Fit(vectors []map[int]float64, labels []bool, numFeatures int) {
	lr.Weights = make([]float64, numFeatures)
	lr.Bias = 0

	n := len(vectors)
	if n == 0 || numFeatures == 0 {
		return
	}

	var positives int
	for _, y := range labels {
		if y {
			positives++
		}
	}
	negatives := n - positives

	// Balanced class weights; degenerate single-class corpora train
	// with uniform weights and converge to the prior.
	posWeight, negWeight := 1.0, 1.0
	if positives > 0 && negatives > 0 {
		posWeight = float64(n) / (2 * float64(positives))
		negWeight = float64(n) / (2 * float64(negatives))
	}

	lambda := 1 / lr.C
	grad := make([]float64, numFeatures)

	for iter := 0; iter < lr.MaxIter; iter++ {
		for i := range grad {
			grad[i] = 0
		}
		var gradBias float64

		for i, vec := range vectors {
			var z float64
			for idx, val := range vec {
				z += lr.Weights[idx] * val
			}
			z += lr.Bias

			y := 0.0
			w := negWeight
			if labels[i] {
				y = 1.0
				w = posWeight
			}
			err := w * (sigmoid(z) - y)

			for idx, val := range vec {
				grad[idx] += err * val
			}
			gradBias += err
		}

		scale := lr.LearningRate / float64(n)
		for i := range lr.Weights {
			lr.Weights[i] -= scale * (grad[i] + lambda*lr.Weights[i])
		}
		lr.Bias -= scale * gradBias
	}
}

// PredictProba returns the probability of the positive class for a
// sparse feature vector.
func (lr *LogisticRegression) PredictProba(vec map[int]float64) float64 {
	var z float64
	for idx, val := range vec {
		if idx < len(lr.Weights) {
			z += lr.Weights[idx] * val
		}
	}
	return sigmoid(z + lr.Bias)
}
