package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"storefront/internal/domain"
)

type checkoutRequest struct {
	VariantID string `json:"variantId"`
	Quantity  *int   `json:"quantity"`
}

// checkoutHandler creates a fresh cart for one variant and hands back its
// checkout URL.
func checkoutHandler(gateway checkoutGateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req checkoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		if strings.TrimSpace(req.VariantID) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Variant ID is required"})
			return
		}
		quantity := 1
		if req.Quantity != nil {
			quantity = *req.Quantity
		}
		if quantity < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Quantity must be at least 1"})
			return
		}

		log := zerolog.Ctx(c.Request.Context())
		cart, err := gateway.CreateCart(c.Request.Context(), req.VariantID, quantity)
		if err != nil {
			log.Warn().Err(err).Str("variant_id", req.VariantID).Msg("cart creation failed")
			switch {
			case domain.IsValidation(err):
				c.JSON(http.StatusBadRequest, gin.H{"error": domain.DisplayMessage(err)})
			case len(domain.UserErrorsOf(err)) > 0:
				c.JSON(http.StatusBadRequest, gin.H{"error": domain.DisplayMessage(err), "details": domain.UserErrorsOf(err)})
			case domain.IsParse(err):
				c.JSON(http.StatusInternalServerError, gin.H{"error": "No cart data returned"})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create cart", "details": domain.DisplayMessage(err)})
			}
			return
		}

		c.JSON(http.StatusOK, gin.H{"cart": toCartView(*cart), "success": true})
	}
}

// rawCartHandler returns the backend's cart data unmodified.
func rawCartHandler(gateway checkoutGateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := gateway.FetchCartRaw(c.Request.Context(), c.Param("cartId"))
		if err != nil {
			zerolog.Ctx(c.Request.Context()).Warn().Err(err).Msg("fetch cart data failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart data"})
			return
		}
		c.Data(http.StatusOK, "application/json; charset=utf-8", raw)
	}
}

func productsHandler(products productService) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := products.List(c.Request.Context())
		if err != nil {
			zerolog.Ctx(c.Request.Context()).Warn().Err(err).Msg("list products failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products", "details": domain.DisplayMessage(err)})
			return
		}
		c.JSON(http.StatusOK, gin.H{"products": toProductViews(list)})
	}
}

func productHandler(products productService) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := products.Get(c.Request.Context(), c.Param("productId"))
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		if err != nil {
			zerolog.Ctx(c.Request.Context()).Warn().Err(err).Msg("get product failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product", "details": domain.DisplayMessage(err)})
			return
		}
		c.JSON(http.StatusOK, gin.H{"product": toProductView(*p)})
	}
}
