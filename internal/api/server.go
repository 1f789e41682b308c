package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/jrmz14/proyecto-rifas/docs"
	v1 "github.com/jrmz14/proyecto-rifas/internal/api/handler/v1"
	"github.com/jrmz14/proyecto-rifas/internal/api/middleware"
	"github.com/jrmz14/proyecto-rifas/internal/config"
	"github.com/jrmz14/proyecto-rifas/internal/repository"
	"github.com/jrmz14/proyecto-rifas/internal/repository/dao"
	"github.com/jrmz14/proyecto-rifas/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

func NewServer(conf *config.AppConfig, db *gorm.DB) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	raffleHandler := s.initRaffleHandler(db)
	ticketHandler := s.initTicketHandler(db)
	adminHandler := s.initAdminHandler(db)
	s.MountHandlers(raffleHandler, ticketHandler, adminHandler)

	return s
}

func (s *Server) initRaffleHandler(db *gorm.DB) *v1.RaffleHandler {
	svc := newRaffleService(db)
	handler := v1.NewRaffleHandler(svc)

	return handler
}

func (s *Server) initTicketHandler(db *gorm.DB) *v1.TicketHandler {
	svc := newTicketService(db)
	handler := v1.NewTicketHandler(svc, newRaffleService(db))

	return handler
}

func (s *Server) initAdminHandler(db *gorm.DB) *v1.AdminHandler {
	svc := newTicketService(db)
	handler := v1.NewAdminHandler(svc, newRaffleService(db))

	return handler
}

func newRaffleService(db *gorm.DB) *service.RaffleService {
	raffleRepo := repository.NewRaffleRepository(dao.NewRaffleDAO(db))
	ticketRepo := repository.NewTicketRepository(dao.NewTicketDAO(db))

	return service.NewRaffleService(raffleRepo, ticketRepo)
}

func newTicketService(db *gorm.DB) *service.TicketService {
	ticketRepo := repository.NewTicketRepository(dao.NewTicketDAO(db))

	return service.NewTicketService(ticketRepo)
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(raffleHandler *v1.RaffleHandler, ticketHandler *v1.TicketHandler, adminHandler *v1.AdminHandler) {
	const basePath = "/api/v1"

	public := s.Router.Group(basePath)
	{
		public.GET("/raffles", raffleHandler.HandleGetRaffles)
		public.GET("/raffles/:raffleID/tickets", ticketHandler.HandleListTickets)
		public.GET("/tickets/search", ticketHandler.HandleSearch)
		public.GET("/tickets/status", ticketHandler.HandleGetStatuses)
		public.POST("/purchases", ticketHandler.HandlePurchase)
	}

	admin := s.Router.Group(basePath, middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT())
	{
		admin.POST("/raffles", raffleHandler.HandleCreateRaffle)
		admin.DELETE("/raffles/:raffleID", raffleHandler.HandleDeleteRaffle)
		admin.GET("/admin/tickets", adminHandler.HandleGetQueue)
		admin.POST("/admin/tickets/:ticketID/confirm", adminHandler.HandleConfirmSale)
		admin.POST("/admin/tickets/:ticketID/cancel", adminHandler.HandleCancelReservation)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "API for proyecto-rifas"
	docs.SwaggerInfo.Description = "Raffle ticket sales API."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
