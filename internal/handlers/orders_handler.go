package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hazelbrew/cafe-orderflow/internal/catalog"
	"github.com/hazelbrew/cafe-orderflow/internal/feed"
	"github.com/hazelbrew/cafe-orderflow/internal/identity"
	"github.com/hazelbrew/cafe-orderflow/internal/orders"
	"github.com/hazelbrew/cafe-orderflow/internal/store"
	"github.com/hazelbrew/cafe-orderflow/internal/validation"
)

// HandlerConfig groups dependencies for the orders API.
type HandlerConfig struct {
	Store    store.OrderStore
	Catalog  *catalog.Catalog // optional; menu routes are skipped when nil
	Identity *identity.Provider
	Log      *slog.Logger
}

// RegisterOrdersRoutes registers the API under /api.
//
// PATCH drives the staff workflow; customers cancel through the dedicated
// cancel route so the lifecycle can apply the customer rules.
func RegisterOrdersRoutes(r *gin.Engine, cfg HandlerConfig) {
	if cfg.Log == nil {
		cfg.Log = slog.Default()
	}
	v := validation.New()

	api := r.Group("/api")
	api.Use(identity.Middleware(cfg.Identity))

	api.POST("/orders", func(c *gin.Context) {
		var req validation.CreateOrderRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			// BindAndValidate already wrote a 400
			return
		}

		draft := orders.Draft{
			CustomerName:        req.CustomerName,
			DrinkName:           req.DrinkName,
			SeatingLocation:     req.SeatingLocation,
			SpecialInstructions: req.SpecialInstructions,
			Toppings:            req.Toppings,
		}
		o, err := cfg.Store.Create(c.Request.Context(), draft, identity.FromContext(c))
		if err != nil {
			writeError(c, cfg.Log, err)
			return
		}
		c.JSON(http.StatusCreated, o)
	})

	api.GET("/orders", func(c *gin.Context) {
		list, err := cfg.Store.ListAll(c.Request.Context())
		if err != nil {
			writeError(c, cfg.Log, err)
			return
		}
		c.JSON(http.StatusOK, orderList(list))
	})

	api.GET("/orders/:customerId", func(c *gin.Context) {
		list, err := cfg.Store.ListByCustomer(c.Request.Context(), c.Param("customerId"))
		if err != nil {
			writeError(c, cfg.Log, err)
			return
		}
		c.JSON(http.StatusOK, orderList(list))
	})

	api.PATCH("/orders/:orderId", func(c *gin.Context) {
		var req validation.UpdateStatusRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}

		o, err := cfg.Store.UpdateStatus(c.Request.Context(), c.Param("orderId"), req.OrderStatus, orders.ActorStaff)
		if err != nil {
			writeError(c, cfg.Log, err)
			return
		}
		c.JSON(http.StatusOK, o)
	})

	api.POST("/orders/:orderId/cancel", func(c *gin.Context) {
		o, err := cfg.Store.UpdateStatus(c.Request.Context(), c.Param("orderId"), orders.StatusCancelled, orders.ActorCustomer)
		if err != nil {
			writeError(c, cfg.Log, err)
			return
		}
		c.JSON(http.StatusOK, o)
	})

	api.POST("/orders/:orderId/feedback", func(c *gin.Context) {
		var req validation.FeedbackRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}

		if err := cfg.Store.AttachFeedback(c.Request.Context(), c.Param("orderId"), req.Rating, req.Comment); err != nil {
			writeError(c, cfg.Log, err)
			return
		}
		c.Status(http.StatusNoContent)
	})

	api.GET("/stats", func(c *gin.Context) {
		list, err := cfg.Store.ListAll(c.Request.Context())
		if err != nil {
			writeError(c, cfg.Log, err)
			return
		}
		c.JSON(http.StatusOK, store.ComputeStats(list))
	})

	if cfg.Catalog != nil {
		api.GET("/menu", func(c *gin.Context) {
			drinks, err := cfg.Catalog.Drinks(c.Request.Context())
			if err != nil {
				writeError(c, cfg.Log, err)
				return
			}
			c.JSON(http.StatusOK, drinks)
		})

		api.GET("/toppings", func(c *gin.Context) {
			toppings, err := cfg.Catalog.Toppings(c.Request.Context())
			if err != nil {
				writeError(c, cfg.Log, err)
				return
			}
			c.JSON(http.StatusOK, toppings)
		})
	}
}

// orderList keeps empty results as [] on the wire, not null.
func orderList(list []orders.Order) []orders.Order {
	if list == nil {
		return []orders.Order{}
	}
	return list
}

// writeError maps the error taxonomy to HTTP statuses.
func writeError(c *gin.Context, log *slog.Logger, err error) {
	var (
		ve  *orders.ValidationError
		ise *orders.InvalidStateError
		te  *orders.TransportError
		dqe *feed.DataQualityError
	)
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_failed", "msg": ve.Error()})
	case errors.Is(err, orders.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "order_not_found"})
	case errors.As(err, &ise):
		c.JSON(http.StatusConflict, gin.H{"error": "invalid_state", "msg": ise.Error()})
	case errors.As(err, &dqe):
		log.Error("feed data quality error", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "feed_inconsistent", "msg": dqe.Error()})
	case errors.As(err, &te):
		log.Error("storage failure", "op", te.Op, "error", te.Err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "storage_unavailable", "msg": "write not saved, please retry"})
	default:
		log.Error("unhandled error", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
	}
}
