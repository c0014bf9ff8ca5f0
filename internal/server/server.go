// Package server wires repositories, services and handlers into the HTTP router.
package server

import (
	"net/http"

	"retreatdesk/internal/allocation"
	"retreatdesk/internal/events"
	"retreatdesk/internal/lock"
	"retreatdesk/internal/middleware"
	allocationmod "retreatdesk/internal/modules/allocation"
	"retreatdesk/internal/modules/auth"
	"retreatdesk/internal/modules/hallconfig"
	"retreatdesk/internal/modules/roster"
	"retreatdesk/internal/modules/seat"
	"retreatdesk/internal/pkg/jwt"
	"retreatdesk/internal/repository"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Options struct {
	DB  *gorm.DB
	JWT *jwt.Service

	// Locker defaults to an in-process lock.
	Locker lock.SessionLocker
	// Publisher is the broker side; the seat board is always added.
	Publisher events.Publisher
	Board     *events.Board

	ShuffleSeed     *uint64
	MonasticMarkers []string
	CORSOrigins     []string
}

func New(opts Options) *gin.Engine {
	if opts.Locker == nil {
		opts.Locker = lock.NewLocalLocker()
	}
	if opts.Board == nil {
		opts.Board = events.NewBoard()
	}
	if opts.Publisher == nil {
		opts.Publisher = events.NopPublisher{}
	}
	publisher := events.Multi(opts.Publisher, opts.Board)

	sessionRepo := repository.NewSessionRepository(opts.DB)
	participantRepo := repository.NewParticipantRepository(opts.DB)
	roomRepo := repository.NewRoomRepository(opts.DB)
	allocationRepo := repository.NewAllocationRepository(opts.DB)
	seatRepo := repository.NewSeatRepository(opts.DB)
	hallRepo := repository.NewHallConfigRepository(opts.DB)
	operatorRepo := repository.NewOperatorRepository(opts.DB)

	classifier := allocation.NewClassifier(opts.MonasticMarkers)

	authService := auth.NewService(operatorRepo, opts.JWT)
	rosterService := roster.NewService(sessionRepo, participantRepo, roomRepo, classifier)
	hallService := hallconfig.NewService(hallRepo)
	seatService := seat.NewService(seatRepo, participantRepo, allocationRepo, roomRepo, hallService, classifier, opts.Locker, publisher)
	allocationService := allocationmod.NewService(
		participantRepo,
		roomRepo,
		allocationRepo,
		seatService,
		classifier,
		opts.Locker,
		allocationmod.WithSeed(opts.ShuffleSeed),
		allocationmod.WithPublisher(publisher),
	)

	authHandler := auth.NewHandler(authService)
	rosterHandler := roster.NewHandler(rosterService)
	hallHandler := hallconfig.NewHandler(hallService)
	seatHandler := seat.NewHandler(seatService, opts.Board)
	allocationHandler := allocationmod.NewHandler(allocationService)

	r := gin.New()
	r.Use(middleware.RequestLogger())
	r.Use(middleware.ErrorLogger())
	r.Use(middleware.CORS(opts.CORSOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	{
		authHandler.RegisterPublicRoutes(v1)

		protected := v1.Group("")
		protected.Use(middleware.JWTAuth(opts.JWT))
		{
			authHandler.RegisterProtectedRoutes(protected)
			rosterHandler.RegisterRoutes(protected)
			hallHandler.RegisterRoutes(protected)
			allocationHandler.RegisterRoutes(protected)
			seatHandler.RegisterRoutes(protected)
		}
	}
	return r
}
