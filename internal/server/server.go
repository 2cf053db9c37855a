package server

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	"github.com/chi157/Exchange-Platform-sub000/internal/chat"
	"github.com/chi157/Exchange-Platform-sub000/internal/config"
	"github.com/chi157/Exchange-Platform-sub000/internal/handler"
	appmw "github.com/chi157/Exchange-Platform-sub000/internal/middleware"
	"github.com/chi157/Exchange-Platform-sub000/internal/notify"
	"github.com/chi157/Exchange-Platform-sub000/internal/repository"
	"github.com/chi157/Exchange-Platform-sub000/internal/service"
	"github.com/chi157/Exchange-Platform-sub000/internal/tracking"
)

type Server struct {
	e     *echo.Echo
	sha   string
	build string
}

func New(db *gorm.DB, cfg *config.Config, sha, buildTime string) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Content-Type", "Authorization", appmw.ActorHeader},
		AllowCredentials: true,
		AllowOriginFunc: func(origin string) (bool, error) {
			low := strings.ToLower(origin)
			if strings.HasPrefix(low, "http://localhost:") || strings.HasPrefix(low, "http://127.0.0.1:") ||
				strings.HasPrefix(low, "https://localhost:") || strings.HasPrefix(low, "https://127.0.0.1:") {
				return true, nil
			}
			u, err := url.Parse(origin)
			if err != nil {
				return false, nil
			}
			if u.Scheme != "http" && u.Scheme != "https" {
				return false, nil
			}
			return strings.HasSuffix(u.Hostname(), "vercel.app"), nil
		},
	}))

	listingRepo := repository.NewListingRepository(db)
	proposalRepo := repository.NewProposalRepository(db)
	swapRepo := repository.NewSwapRepository(db)
	shipmentRepo := repository.NewShipmentRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	notifier := notify.NewOutboxNotifier(notificationRepo)
	chatClient := chat.NewClient(cfg.ChatServiceURL)
	trackingStore := tracking.NewStore(time.Duration(cfg.TrackingSessionTTLSeconds) * time.Second)

	listingSvc := service.NewListingService(listingRepo)
	proposalSvc := service.NewProposalService(db, proposalRepo, listingRepo, swapRepo, notifier)
	swapSvc := service.NewSwapService(db, swapRepo, proposalRepo, listingRepo, chatClient, notifier)
	shipmentSvc := service.NewShipmentService(db, shipmentRepo, swapRepo, notifier)

	listingHandler := handler.NewListingHandler(listingSvc)
	proposalHandler := handler.NewProposalHandler(proposalSvc)
	swapHandler := handler.NewSwapHandler(swapSvc)
	shipmentHandler := handler.NewShipmentHandler(shipmentSvc)
	notificationHandler := handler.NewNotificationHandler(notificationRepo)
	trackingHandler := handler.NewTrackingHandler(trackingStore)

	authMw := appmw.NewAuthMiddleware()

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"ok":         "true",
			"git_sha":    sha,
			"build_time": buildTime,
		})
	})

	api := e.Group("/api")
	api.GET("/listings", listingHandler.List, authMw.RequireAuth)
	api.POST("/listings", listingHandler.Create, authMw.RequireAuth)
	api.GET("/listings/:id", listingHandler.Get, authMw.RequireAuth)
	api.PUT("/listings/:id", listingHandler.Update, authMw.RequireAuth)
	api.DELETE("/listings/:id", listingHandler.Delete, authMw.RequireAuth)
	api.GET("/me/listings", listingHandler.ListMine, authMw.RequireAuth)

	api.POST("/proposals", proposalHandler.Create, authMw.RequireAuth)
	api.GET("/proposals/:id", proposalHandler.Get, authMw.RequireAuth)
	api.POST("/proposals/:id/accept", proposalHandler.Accept, authMw.RequireAuth)
	api.POST("/proposals/:id/reject", proposalHandler.Reject, authMw.RequireAuth)
	api.GET("/me/proposals", proposalHandler.ListMine, authMw.RequireAuth)
	api.GET("/me/proposals/received", proposalHandler.ListReceived, authMw.RequireAuth)
	api.GET("/listings/:id/proposals", proposalHandler.ListByListing, authMw.RequireAuth)

	api.GET("/swaps/:id", swapHandler.Get, authMw.RequireAuth)
	api.GET("/me/swaps", swapHandler.ListMine, authMw.RequireAuth)
	api.POST("/swaps/:id/confirm-received", swapHandler.ConfirmReceived, authMw.RequireAuth)

	api.PUT("/swaps/:id/shipments/my", shipmentHandler.UpsertMine, authMw.RequireAuth)
	api.GET("/swaps/:id/shipments/my", shipmentHandler.GetMine, authMw.RequireAuth)
	api.GET("/swaps/:id/shipments", shipmentHandler.ListBySwap, authMw.RequireAuth)
	api.POST("/shipments/:id/events", shipmentHandler.AddEvent, authMw.RequireAuth)
	api.GET("/shipments/:id/events", shipmentHandler.ListEvents, authMw.RequireAuth)

	api.GET("/me/notifications", notificationHandler.ListMine, authMw.RequireAuth)

	api.POST("/tracking/sessions", trackingHandler.CreateSession, authMw.RequireAuth)
	api.GET("/tracking/sessions/:id", trackingHandler.GetSession, authMw.RequireAuth)
	api.DELETE("/tracking/sessions/:id", trackingHandler.DeleteSession, authMw.RequireAuth)

	return &Server{e: e, sha: sha, build: buildTime}
}

func (s *Server) Start(addr string) error {
	return s.e.Start(addr)
}
