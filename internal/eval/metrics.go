// metrics.go - precision, recall, and F1 computation for binary labels.

package eval

// LabelResult holds per-label binary classification metrics. Support is
// the number of positive ground-truth rows.
type LabelResult struct {
	Label     string  `json:"label"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	Support   int     `json:"support"`
}

// confusion counts binary outcomes for one class treated as positive.
type confusion struct {
	tp, fp, fn, tn int
}

func confusionOf(yTrue, yPred []bool, positive bool) confusion {
	var c confusion
	for i := range yTrue {
		t := yTrue[i] == positive
		p := yPred[i] == positive
		switch {
		case t && p:
			c.tp++
		case !t && p:
			c.fp++
		case t && !p:
			c.fn++
		default:
			c.tn++
		}
	}
	return c
}

func (c confusion) precision() float64 {
	if c.tp+c.fp == 0 {
		return 0
	}
	return float64(c.tp) / float64(c.tp+c.fp)
}

func (c confusion) recall() float64 {
	if c.tp+c.fn == 0 {
		return 0
	}
	return float64(c.tp) / float64(c.tp+c.fn)
}

func (c confusion) f1() float64 {
	p, r := c.precision(), c.recall()
	if p+r == 0 {
		return 0
	}
	return 2 * p * r / (p + r)
}

// Score computes metrics for one label with true as the positive
// class. Undefined ratios (empty denominators) score zero.
func Score(label string, yTrue, yPred []bool) LabelResult {
	return labelResult(label, yTrue, yPred)
}

func labelResult(label string, yTrue, yPred []bool) LabelResult {
	c := confusionOf(yTrue, yPred, true)
	return LabelResult{
		Label:     label,
		Precision: c.precision(),
		Recall:    c.recall(),
		F1:        c.f1(),
		Support:   c.tp + c.fn,
	}
}

// Aggregates holds metrics pooled across every final label.
type Aggregates struct {
	MacroF1    float64 `json:"macro_f1"`
	MicroF1    float64 `json:"micro_f1"`
	WeightedF1 float64 `json:"weighted_f1"`
	Accuracy   float64 `json:"accuracy"`
}

// aggregate pools the per-row outcomes of all final labels into one
// two-class problem. Macro F1 averages the F1 of the negative and
// positive classes, weighted F1 weights them by support, and micro F1
// over a single-label two-class pool equals plain accuracy.
func aggregate(yTrue, yPred []bool) Aggregates {
	if len(yTrue) == 0 {
		return Aggregates{}
	}

	pos := confusionOf(yTrue, yPred, true)
	neg := confusionOf(yTrue, yPred, false)

	matches := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			matches++
		}
	}
	acc := float64(matches) / float64(len(yTrue))

	posSupport := float64(pos.tp + pos.fn)
	negSupport := float64(neg.tp + neg.fn)
	var weighted float64
	if posSupport+negSupport > 0 {
		weighted = (negSupport*neg.f1() + posSupport*pos.f1()) / (posSupport + negSupport)
	}

	return Aggregates{
		MacroF1:    (neg.f1() + pos.f1()) / 2,
		MicroF1:    acc,
		WeightedF1: weighted,
		Accuracy:   acc,
	}
}
