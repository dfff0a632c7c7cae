package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/orderstack/commerce-services/internal/errs"
	"github.com/orderstack/commerce-services/internal/products"
)

// RegisterProductsRoutes registers the product-service routes.
func RegisterProductsRoutes(r *gin.Engine, cfg HandlerConfig) {
	store := products.NewStore(cfg.DynamoDBClient, cfg.TableName, cfg.Logger, cfg.Metrics)

	r.POST("/products", func(c *gin.Context) {
		var req products.CreateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			errs.Respond(c, errs.NewValidation("invalid request body: %v", err), cfg.Production)
			return
		}

		product, err := store.Create(c.Request.Context(), req)
		if err != nil {
			errs.Respond(c, err, cfg.Production)
			return
		}
		c.JSON(http.StatusCreated, product)
	})

	r.GET("/products/:id", func(c *gin.Context) {
		id, ok := productID(c, cfg)
		if !ok {
			return
		}

		product, err := store.GetByID(c.Request.Context(), id)
		if err != nil {
			errs.Respond(c, err, cfg.Production)
			return
		}
		if product == nil {
			errs.Respond(c, errs.NewNotFound("product with id %q not found", id), cfg.Production)
			return
		}
		c.JSON(http.StatusOK, product)
	})

	r.PUT("/products/:id", func(c *gin.Context) {
		id, ok := productID(c, cfg)
		if !ok {
			return
		}

		var req products.UpdateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			errs.Respond(c, errs.NewValidation("invalid request body: %v", err), cfg.Production)
			return
		}

		product, err := store.Update(c.Request.Context(), id, req)
		if err != nil {
			errs.Respond(c, err, cfg.Production)
			return
		}
		c.JSON(http.StatusOK, product)
	})

	r.DELETE("/products/:id", func(c *gin.Context) {
		id, ok := productID(c, cfg)
		if !ok {
			return
		}

		deleted, err := store.Delete(c.Request.Context(), id)
		if err != nil {
			errs.Respond(c, err, cfg.Production)
			return
		}
		if !deleted {
			errs.Respond(c, errs.NewNotFound("product with id %q not found", id), cfg.Production)
			return
		}
		c.Status(http.StatusNoContent)
	})

	r.GET("/products", func(c *gin.Context) {
		limit, err := parseLimit(c.Query("limit"))
		if err != nil {
			errs.Respond(c, err, cfg.Production)
			return
		}

		filter := products.Filter{
			ProductType:     c.Query("productType"),
			ProductCategory: c.Query("productCategory"),
			Status:          products.ProductStatus(c.Query("status")),
			Brand:           c.Query("brand"),
			Manufacturer:    c.Query("manufacturer"),
		}
		if filter.PriceMin, err = parsePrice(c.Query("priceMin")); err != nil {
			errs.Respond(c, err, cfg.Production)
			return
		}
		if filter.PriceMax, err = parsePrice(c.Query("priceMax")); err != nil {
			errs.Respond(c, err, cfg.Production)
			return
		}

		list, err := store.List(c.Request.Context(), filter, limit, c.Query("nextToken"))
		if err != nil {
			errs.Respond(c, err, cfg.Production)
			return
		}
		c.JSON(http.StatusOK, list)
	})
}

func productID(c *gin.Context, cfg HandlerConfig) (string, bool) {
	id := c.Param("id")
	if !idPattern.MatchString(id) {
		errs.Respond(c, errs.NewValidation("invalid product id"), cfg.Production)
		return "", false
	}
	return id, true
}

func parseLimit(raw string) (int32, error) {
	if raw == "" {
		return products.DefaultLimit, nil
	}
	parsed, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || parsed <= 0 {
		return 0, errs.NewValidation("invalid pagination parameters")
	}
	return int32(parsed), nil
}

func parsePrice(raw string) (*float64, error) {
	if raw == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, errs.NewValidation("invalid price filter")
	}
	return &parsed, nil
}
