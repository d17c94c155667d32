package analysis

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"

	randomforest "github.com/malaschitz/randomForest"
)

// Sample is one labeled observation with categorical feature values, in a
// fixed column order shared by every sample.
type Sample struct {
	Features []string
	Label    string
}

// ClassifierConfig controls forest training and evaluation.
type ClassifierConfig struct {
	Trees      int     // number of trees in the forest
	TrainRatio float64 // fraction of samples used for training, in (0, 1)
	Seed       int64   // RNG seed for the shuffled train/test split
}

// ClassRates holds the confusion-matrix-derived rates for one class.
type ClassRates struct {
	Class     string  `json:"class"`
	Support   int     `json:"support"` // test observations with this actual class
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
}

// Evaluation is the held-out evaluation of a trained forest.
type Evaluation struct {
	Classes []string `json:"classes"`
	// Confusion is indexed [actual][predicted], aligned with Classes.
	Confusion [][]int      `json:"confusion"`
	PerClass  []ClassRates `json:"per_class"`
	Accuracy  float64      `json:"accuracy"`
	Misclass  float64      `json:"misclassification_rate"`
	TrainSize int          `json:"train_size"`
	TestSize  int          `json:"test_size"`
}

// TrainAndEvaluate index-encodes the categorical features, splits the samples
// into seeded train/test partitions, fits a random forest on the training
// partition, and scores the held-out partition.
func TrainAndEvaluate(samples []Sample, cfg ClassifierConfig) (Evaluation, error) {
	if err := validateClassifierConfig(cfg); err != nil {
		return Evaluation{}, err
	}
	if len(samples) < 10 {
		return Evaluation{}, fmt.Errorf("classifier needs at least 10 samples, got %d", len(samples))
	}

	width := len(samples[0].Features)
	for i := range samples {
		if len(samples[i].Features) != width {
			return Evaluation{}, fmt.Errorf("sample %d has %d features, want %d", i, len(samples[i].Features), width)
		}
	}

	classes := collectClasses(samples)
	if len(classes) < 2 {
		return Evaluation{}, errors.New("classifier needs at least two classes")
	}

	x, y := encode(samples, classes)

	rng := rand.New(rand.NewSource(cfg.Seed))
	perm := rng.Perm(len(samples))
	trainSize := int(float64(len(samples)) * cfg.TrainRatio)
	if trainSize < 1 || trainSize >= len(samples) {
		return Evaluation{}, fmt.Errorf("train ratio %g leaves no held-out data", cfg.TrainRatio)
	}

	trainX := make([][]float64, 0, trainSize)
	trainY := make([]int, 0, trainSize)
	for _, i := range perm[:trainSize] {
		trainX = append(trainX, x[i])
		trainY = append(trainY, y[i])
	}

	forest := randomforest.Forest{}
	forest.Data = randomforest.ForestData{X: trainX, Class: trainY}
	forest.Train(cfg.Trees)

	confusion := make([][]int, len(classes))
	for i := range confusion {
		confusion[i] = make([]int, len(classes))
	}

	correct := 0
	testSize := len(samples) - trainSize
	for _, i := range perm[trainSize:] {
		predicted := argmax(forest.Vote(x[i]))
		confusion[y[i]][predicted]++
		if predicted == y[i] {
			correct++
		}
	}

	accuracy := float64(correct) / float64(testSize)
	return Evaluation{
		Classes:   classes,
		Confusion: confusion,
		PerClass:  classRates(classes, confusion),
		Accuracy:  accuracy,
		Misclass:  1 - accuracy,
		TrainSize: trainSize,
		TestSize:  testSize,
	}, nil
}

func validateClassifierConfig(cfg ClassifierConfig) error {
	if cfg.Trees <= 0 {
		return fmt.Errorf("trees must be positive, got %d", cfg.Trees)
	}
	if cfg.TrainRatio <= 0 || cfg.TrainRatio >= 1 {
		return fmt.Errorf("train ratio must be in (0, 1), got %g", cfg.TrainRatio)
	}
	return nil
}

// collectClasses returns the sorted distinct labels.
func collectClasses(samples []Sample) []string {
	seen := make(map[string]struct{})
	for i := range samples {
		seen[samples[i].Label] = struct{}{}
	}
	classes := make([]string, 0, len(seen))
	for c := range seen {
		classes = append(classes, c)
	}
	sort.Strings(classes)
	return classes
}

// encode index-encodes feature values per column and labels against classes.
// Index encoding (rather than one-hot) is sufficient for tree ensembles,
// which split on thresholds over the level indices.
func encode(samples []Sample, classes []string) ([][]float64, []int) {
	width := len(samples[0].Features)
	levels := make([]map[string]int, width)
	for col := range levels {
		levels[col] = make(map[string]int)
	}

	classIdx := make(map[string]int, len(classes))
	for i, c := range classes {
		classIdx[c] = i
	}

	x := make([][]float64, len(samples))
	y := make([]int, len(samples))
	for i := range samples {
		row := make([]float64, width)
		for col, v := range samples[i].Features {
			idx, ok := levels[col][v]
			if !ok {
				idx = len(levels[col])
				levels[col][v] = idx
			}
			row[col] = float64(idx)
		}
		x[i] = row
		y[i] = classIdx[samples[i].Label]
	}
	return x, y
}

func classRates(classes []string, confusion [][]int) []ClassRates {
	rates := make([]ClassRates, len(classes))
	for i, class := range classes {
		var support, predicted int
		truePositive := confusion[i][i]
		for j := range classes {
			support += confusion[i][j]
			predicted += confusion[j][i]
		}

		r := ClassRates{Class: class, Support: support}
		if predicted > 0 {
			r.Precision = float64(truePositive) / float64(predicted)
		}
		if support > 0 {
			r.Recall = float64(truePositive) / float64(support)
		}
		rates[i] = r
	}
	return rates
}

// argmax returns the index of the largest vote share.
func argmax(votes []float64) int {
	best := 0
	for i, v := range votes {
		if v > votes[best] {
			best = i
		}
	}
	return best
}
