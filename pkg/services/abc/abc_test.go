package abc

import (
	"testing"

	"github.com/sell-tools/margin-atlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
)

func TestClassify_NoPositiveProfitIsAllC(t *testing.T) {
	classes := Classify(map[domain.SKU]float64{1: 0, 2: -50, 3: -1})

	for sku, class := range classes {
		assert.Equal(t, domain.AbcC, class, "sku %d", sku)
	}
	assert.Len(t, classes, 3)
}

func TestClassify_SingleProfitableSkuIsA(t *testing.T) {
	classes := Classify(map[domain.SKU]float64{1: 500, 2: -20, 3: 0})

	assert.Equal(t, domain.AbcA, classes[1])
	assert.Equal(t, domain.AbcC, classes[2])
	assert.Equal(t, domain.AbcC, classes[3])
}

func TestClassify_CumulativeShareThresholds(t *testing.T) {
	// Shares of total positive profit: 50%, 30%, 15%, 4%, 1%.
	// Cumulative share before each SKU: 0, 50, 80, 95, 99.
	classes := Classify(map[domain.SKU]float64{
		1: 500,
		2: 300,
		3: 150,
		4: 40,
		5: 10,
	})

	assert.Equal(t, domain.AbcA, classes[1])
	assert.Equal(t, domain.AbcA, classes[2])
	assert.Equal(t, domain.AbcA, classes[3]) // boundary: 80% is still A
	assert.Equal(t, domain.AbcB, classes[4]) // boundary: 95% is still B
	assert.Equal(t, domain.AbcC, classes[5])
}

func TestClassify_NegativeProfitIsCRegardlessOfRank(t *testing.T) {
	classes := Classify(map[domain.SKU]float64{1: 100, 2: -1000})

	assert.Equal(t, domain.AbcA, classes[1])
	assert.Equal(t, domain.AbcC, classes[2])
}

func TestClassify_TiesAreStable(t *testing.T) {
	profit := map[domain.SKU]float64{10: 100, 20: 100, 30: 100}

	first := Classify(profit)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Classify(profit))
	}
}

func TestClassify_Empty(t *testing.T) {
	assert.Empty(t, Classify(nil))
	assert.Empty(t, Classify(map[domain.SKU]float64{}))
}
