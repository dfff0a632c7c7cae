package handlers

import (
	"context"
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/orderstack/commerce-services/internal/auth"
	"github.com/orderstack/commerce-services/internal/aws"
	"github.com/orderstack/commerce-services/internal/errs"
	"github.com/orderstack/commerce-services/internal/orders"
	"github.com/orderstack/commerce-services/internal/pagination"
)

// HandlerConfig groups the dependencies both route sets are built from.
type HandlerConfig struct {
	DynamoDBClient aws.DynamoDBAPI
	TableName      string
	Logger         *zap.Logger
	Metrics        *aws.Metrics
	Publisher      *aws.Publisher
	Production     bool
}

var idPattern = regexp.MustCompile(`^[A-Za-z0-9-]+$`)

// RegisterOrdersRoutes registers the order-service routes.
func RegisterOrdersRoutes(r *gin.Engine, cfg HandlerConfig) {
	store := orders.NewStore(cfg.DynamoDBClient, cfg.TableName, cfg.Logger, cfg.Metrics)

	r.POST("/orders", func(c *gin.Context) {
		ctx := c.Request.Context()

		var dto orders.NewOrderDTO
		if err := c.ShouldBindJSON(&dto); err != nil {
			errs.Respond(c, errs.NewValidation("invalid request body: %v", err), cfg.Production)
			return
		}

		createdBy := auth.FromContext(c).Username
		order, err := store.Create(ctx, dto, createdBy)
		if err != nil {
			errs.Respond(c, err, cfg.Production)
			return
		}

		publishOrderEvent(ctx, cfg, order.ID, "ORDER_CREATED")
		c.JSON(http.StatusCreated, order)
	})

	r.GET("/orders/:id", func(c *gin.Context) {
		id, ok := orderID(c, cfg)
		if !ok {
			return
		}

		order, err := store.Get(c.Request.Context(), id)
		if err != nil {
			errs.Respond(c, err, cfg.Production)
			return
		}
		c.JSON(http.StatusOK, order)
	})

	r.PUT("/orders/:id", func(c *gin.Context) {
		id, ok := orderID(c, cfg)
		if !ok {
			return
		}

		var dto orders.UpdatedOrderDTO
		if err := c.ShouldBindJSON(&dto); err != nil {
			errs.Respond(c, errs.NewValidation("invalid request body: %v", err), cfg.Production)
			return
		}

		order, err := store.Update(c.Request.Context(), id, dto)
		if err != nil {
			errs.Respond(c, err, cfg.Production)
			return
		}
		c.JSON(http.StatusCreated, order)
	})

	r.DELETE("/orders/:id", func(c *gin.Context) {
		id, ok := orderID(c, cfg)
		if !ok {
			return
		}

		ctx := c.Request.Context()
		if err := store.Delete(ctx, id); err != nil {
			errs.Respond(c, err, cfg.Production)
			return
		}

		publishOrderEvent(ctx, cfg, id, "ORDER_DELETED")
		c.Status(http.StatusNoContent)
	})

	r.GET("/orders", func(c *gin.Context) {
		params, err := pagination.ParseParams(c.Query("limit"), c.Query("offset"), orders.DefaultLimit)
		if err != nil {
			errs.Respond(c, err, cfg.Production)
			return
		}

		filter := orders.ListFilter{
			CustomerID:     c.Query("customerId"),
			AccountManager: c.Query("accountManager"),
			CustomerEmail:  c.Query("customerEmail"),
			BranchID:       c.Query("branchId"),
			CreatedBy:      c.Query("createdBy"),
		}

		list, err := store.List(c.Request.Context(), params, filter)
		if err != nil {
			errs.Respond(c, err, cfg.Production)
			return
		}
		c.JSON(http.StatusOK, list)
	})
}

// orderID extracts and validates the id path parameter, writing a 400 itself
// when the value is malformed.
func orderID(c *gin.Context, cfg HandlerConfig) (string, bool) {
	id := c.Param("id")
	if !idPattern.MatchString(id) {
		errs.Respond(c, errs.NewValidation("invalid order id"), cfg.Production)
		return "", false
	}
	return id, true
}

// publishOrderEvent emits a lifecycle event after a successful mutation.
// Publish failures never fail the request.
func publishOrderEvent(ctx context.Context, cfg HandlerConfig, orderID, event string) {
	if cfg.Publisher == nil {
		return
	}
	if err := cfg.Publisher.PublishOrderEvent(ctx, orderID, event, nil); err != nil {
		cfg.Logger.Error("could not publish order event",
			zap.String("orderId", orderID), zap.String("event", event), zap.Error(err))
	}
}
