package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/domain"
	"storefront/internal/service/cart"
)

type addLineRequest struct {
	VariantID string `json:"variantId"`
	Quantity  *int   `json:"quantity"`
}

type updateLineRequest struct {
	Quantity *int `json:"quantity"`
}

// storeFor resolves the cart store of the current session, writing the error
// response itself when it cannot.
func storeFor(c *gin.Context, sessions sessionService) (*cart.Store, bool) {
	store, err := sessions.Store(c.Request.Context(), c.GetString(sessionCtxKey))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session"})
		return nil, false
	}
	return store, true
}

func getCartHandler(sessions sessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		store, ok := storeFor(c, sessions)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, toSnapshotView(store.Snapshot()))
	}
}

func addLineHandler(sessions sessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addLineRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		store, ok := storeFor(c, sessions)
		if !ok {
			return
		}
		quantity := 1
		if req.Quantity != nil {
			quantity = *req.Quantity
		}
		if _, err := store.AddProduct(c.Request.Context(), req.VariantID, quantity); err != nil {
			writeCartError(c, err)
			return
		}
		c.JSON(http.StatusOK, toSnapshotView(store.Snapshot()))
	}
}

func updateLineHandler(sessions sessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateLineRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Quantity == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Quantity is required"})
			return
		}
		store, ok := storeFor(c, sessions)
		if !ok {
			return
		}
		if _, err := store.UpdateQuantity(c.Request.Context(), c.Param("lineId"), *req.Quantity); err != nil {
			writeCartError(c, err)
			return
		}
		c.JSON(http.StatusOK, toSnapshotView(store.Snapshot()))
	}
}

func removeLineHandler(sessions sessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		store, ok := storeFor(c, sessions)
		if !ok {
			return
		}
		if _, err := store.RemoveProduct(c.Request.Context(), c.Param("lineId")); err != nil {
			writeCartError(c, err)
			return
		}
		c.JSON(http.StatusOK, toSnapshotView(store.Snapshot()))
	}
}

func resetCartHandler(sessions sessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		store, ok := storeFor(c, sessions)
		if !ok {
			return
		}
		if err := store.Reset(c.Request.Context()); err != nil {
			writeCartError(c, err)
			return
		}
		c.JSON(http.StatusOK, toSnapshotView(store.Snapshot()))
	}
}

func writeCartError(c *gin.Context, err error) {
	_ = c.Error(err)
	msg := domain.DisplayMessage(err)
	switch {
	case domain.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
	case len(domain.UserErrorsOf(err)) > 0:
		c.JSON(http.StatusBadRequest, gin.H{"error": msg, "details": domain.UserErrorsOf(err)})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": msg})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
	}
}
