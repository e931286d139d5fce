package services

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aimosphere-network/airo-wingman/models"
)

func TestInMemoryModelRepository_SaveGetRemove(t *testing.T) {
	repo := NewModelRepository()

	_, ok := repo.Get("resnet")
	assert.False(t, ok, "empty repo must not contain any model")
	assert.False(t, repo.Contains("resnet"))
	assert.Empty(t, repo.List())

	details := models.ModelDetails{PricePerRequest: big.NewInt(42), InferenceURL: "http://localhost:5000"}
	repo.Save(models.Model{ID: "resnet", Details: details})

	assert.True(t, repo.Contains("resnet"))
	got, ok := repo.Get("resnet")
	assert.True(t, ok)
	assert.Equal(t, "resnet", string(got.ID))
	assert.Equal(t, details.PricePerRequest, got.Details.PricePerRequest)
	assert.Len(t, repo.List(), 1)

	// Save is an upsert.
	updated := models.ModelDetails{PricePerRequest: big.NewInt(100), InferenceURL: "http://localhost:6000"}
	repo.Save(models.Model{ID: "resnet", Details: updated})
	got, _ = repo.Get("resnet")
	assert.Equal(t, updated.PricePerRequest, got.Details.PricePerRequest)
	assert.Len(t, repo.List(), 1, "upsert must not create a duplicate entry")

	assert.True(t, repo.Remove("resnet"))
	assert.False(t, repo.Contains("resnet"))
	assert.False(t, repo.Remove("resnet"), "removing an absent model reports false")
}

func TestInMemoryModelRepository_ListIsIndependentOfInsertionOrder(t *testing.T) {
	repo := NewModelRepository()
	repo.Save(models.Model{ID: "b", Details: models.ModelDetails{PricePerRequest: big.NewInt(2)}})
	repo.Save(models.Model{ID: "a", Details: models.ModelDetails{PricePerRequest: big.NewInt(1)}})

	ids := make(map[models.ModelId]bool)
	for _, m := range repo.List() {
		ids[m.ID] = true
	}
	assert.True(t, ids["a"])
	assert.True(t, ids["b"])
	assert.Len(t, ids, 2)
}
