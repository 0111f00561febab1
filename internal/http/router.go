package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mudhasirp/Leather-Ecommerce-API/internal/service"
	"github.com/mudhasirp/Leather-Ecommerce-API/pkg/metrics"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type Services struct {
	Checkout  service.CheckoutService
	Orders    OrderService
	Carts     CartService
	Catalog   CatalogService
	Enquiries EnquiryService
	Addresses AddressService
	Pricing   service.Pricing
}

type RouterConfig struct {
	Service        string
	Logger         zerolog.Logger
	Metrics        *metrics.ServerMetrics
	MetricsHandler http.Handler
	RequestTimeout time.Duration
	MaxBodyBytes   int64
}

func NewRouter(svc Services, cfg RouterConfig) http.Handler {
	orders := NewOrdersHandler(svc.Checkout, svc.Orders)
	carts := NewCartHandler(svc.Carts, svc.Pricing)
	products := NewProductHandler(svc.Catalog)
	enquiries := NewEnquiryHandler(svc.Enquiries)
	addresses := NewAddressHandler(svc.Addresses)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(RequestLogger(cfg.Logger))
	r.Use(middleware.Recoverer)
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware)
	}
	if cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
	}
	r.Use(LimitBody(cfg.MaxBodyBytes))
	r.Use(MockAuthMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	r.Get("/products", products.ListProducts)
	r.Get("/products/{id}", products.GetProduct)

	r.Group(func(r chi.Router) {
		r.Use(RequireUser)

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", orders.PlaceOrder)
			r.Get("/mine", orders.ListMyOrders)
			r.Get("/{id}", orders.GetOrder)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", carts.GetCart)
			r.Delete("/", carts.ClearCart)
			r.Post("/items", carts.AddItem)
			r.Patch("/items/{productID}/{unitLabel}", carts.UpdateQuantity)
			r.Delete("/items/{productID}/{unitLabel}", carts.RemoveItem)
		})

		r.Post("/enquiries", enquiries.CreateEnquiry)

		r.Post("/addresses", addresses.SaveAddress)
		r.Get("/addresses/default", addresses.GetDefaultAddress)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(RequireAdmin)

		r.Get("/orders", orders.ListAllOrders)
		r.Patch("/orders/{id}/status", orders.UpdateStatus)
		r.Post("/orders/{id}/paid", orders.MarkPaid)

		r.Post("/products", products.CreateProduct)
		r.Put("/products/{id}/variants/{label}/stock", products.SetVariantStock)

		r.Get("/enquiries", enquiries.ListEnquiries)
		r.Patch("/enquiries/{id}/status", enquiries.UpdateStatus)
	})

	return otelhttp.NewHandler(r, cfg.Service)
}
