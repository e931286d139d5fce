package handlers

import (
	"math/big"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aimosphere-network/airo-wingman/models"
	"github.com/aimosphere-network/airo-wingman/services"
)

// ModelsHandler exposes CRUD over the Model Repository.
type ModelsHandler struct {
	repo services.ModelRepository
}

// NewModelsHandler creates a new models handler.
func NewModelsHandler(repo services.ModelRepository) *ModelsHandler {
	return &ModelsHandler{repo: repo}
}

// List handles GET /v1/models.
func (h *ModelsHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.repo.List())
}

// modelDetailsRequest carries the same two fields as models.ModelDetails, but
// under snake_case keys (models.ModelDetails serializes as pricePerRequest /
// inferenceUrl), and accepts the price as a decimal string on the wire, since
// JSON numbers can't carry a u128 safely.
type modelDetailsRequest struct {
	PricePerRequest string `json:"price_per_request" binding:"required"`
	InferenceURL    string `json:"inference_url" binding:"required"`
}

// Upsert handles PUT /v1/models/:id.
func (h *ModelsHandler) Upsert(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "model id is required"})
		return
	}

	var req modelDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	price, ok := new(big.Int).SetString(req.PricePerRequest, 10)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "price_per_request is not a valid integer"})
		return
	}

	h.repo.Save(models.Model{
		ID: models.ModelId(id),
		Details: models.ModelDetails{
			PricePerRequest: price,
			InferenceURL:    req.InferenceURL,
		},
	})

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Remove handles DELETE /v1/models/:id.
func (h *ModelsHandler) Remove(c *gin.Context) {
	id := c.Param("id")
	if !h.repo.Remove(models.ModelId(id)) {
		c.JSON(http.StatusNotFound, gin.H{"error": "model not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
