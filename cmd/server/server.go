package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/thereayou/voxus/internal/config"
	"github.com/thereayou/voxus/internal/database"
	"github.com/thereayou/voxus/internal/handlers"
	"github.com/thereayou/voxus/internal/presence"
	"github.com/thereayou/voxus/internal/room"
	ws "github.com/thereayou/voxus/internal/websocket"
	"github.com/thereayou/voxus/pkg/auth"
)

type Server struct {
	Config     config.Config
	Log        *slog.Logger
	Router     *gin.Engine
	HTTP       *http.Server
	Hub        *ws.Hub
	Rooms      *room.Registry
	Presence   *presence.Manager
	DB         *database.Database
	Redis      *redis.Client
	JWTManager *auth.JWTManager
}

// NewServer собирает зависимости. Архив, Redis и JWT необязательны.
func NewServer(cfg config.Config, log *slog.Logger) (*Server, error) {
	s := &Server{Config: cfg, Log: log}

	s.Rooms = room.NewRegistry(cfg.HistoryCap)
	if _, err := s.Rooms.Create(cfg.DefaultRoom, room.DefaultName(cfg.DefaultRoom)); err != nil {
		return nil, fmt.Errorf("default room: %w", err)
	}

	var (
		store    handlers.MessageStore
		archive  handlers.ArchiveReader
		activity handlers.ActivityRecorder
	)
	if cfg.DatabaseURL != "" {
		db, err := database.Connect(cfg.DBDriver, cfg.DatabaseURL, log)
		if err != nil {
			return nil, fmt.Errorf("database connect failed: %w", err)
		}
		s.DB = db
		store, archive, activity = db, db, db
		log.Info("Message archive enabled", "driver", cfg.DBDriver)
	} else {
		log.Warn("DATABASE_URL is not set, messages are kept in memory only")
	}

	var blacklist auth.Blacklist
	if cfg.RedisURL != "" {
		redisOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		s.Redis = redis.NewClient(redisOpts)
		if err := s.Redis.Ping(context.Background()).Err(); err != nil {
			return nil, fmt.Errorf("redis connect failed: %w", err)
		}
		blacklist = auth.NewRedisBlacklist(s.Redis)
	}

	var authH *handlers.AuthHandler
	if cfg.JWTSecret != "" {
		s.JWTManager = auth.NewJWTManager(cfg.JWTSecret, cfg.TokenDuration)
		authH = handlers.NewAuthHandler(s.JWTManager, blacklist)
	}

	s.Hub = ws.NewHub(log)
	s.Presence = presence.NewManager(s.Rooms, cfg.DefaultRoom, cfg.CatchUpLimit)
	events := handlers.NewEventHandler(s.Rooms, s.Presence, ws.NewDispatcher(s.Hub, log), store, log)
	events.SetPersistTimeout(cfg.PersistTimeout)

	s.Router = gin.Default()
	APIEndpoints(s.Router, routes{
		rooms:     handlers.NewRoomHandler(s.Rooms, s.Hub, s.Presence),
		archive:   handlers.NewHTTPMessageHandler(archive),
		ws:        handlers.NewWebSocketHandler(s.Hub, events, activity, cfg.SendBuffer, log),
		auth:      authH,
		jwt:       s.JWTManager,
		blacklist: blacklist,
		log:       log,
	})

	s.HTTP = &http.Server{Addr: cfg.Addr(), Handler: s.Router}
	return s, nil
}

// Start запускает hub и HTTP сервер, не блокируя вызывающего
func (s *Server) Start() {
	go s.Hub.Run()

	go func() {
		s.Log.Info("Server starting", "addr", s.HTTP.Addr)
		if err := s.HTTP.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.Log.Error("Server run error", "error", err)
		}
	}()
}

func (s *Server) StopHTTP(ctx context.Context) error {
	return s.HTTP.Shutdown(ctx)
}

func (s *Server) StopHub(context.Context) error {
	s.Hub.Stop()
	return nil
}

func (s *Server) CloseStores(context.Context) error {
	var errs []error
	if s.DB != nil {
		errs = append(errs, s.DB.Close())
	}
	if s.Redis != nil {
		errs = append(errs, s.Redis.Close())
	}
	return errors.Join(errs...)
}
