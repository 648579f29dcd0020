package server

import (
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/staffdir/staffdir/pkg/directory"
	"github.com/staffdir/staffdir/pkg/scan"
	"github.com/staffdir/staffdir/pkg/server/middleware"
	"github.com/staffdir/staffdir/pkg/server/store"
	"github.com/staffdir/staffdir/pkg/vault"
)

type Server struct {
	Router *mux.Router
	DB     *gorm.DB
	Vault  *vault.Vault
	Logger *zap.Logger

	Auth *middleware.Authenticator

	ShareLinks store.ShareLinkStore
	Settings   store.SettingsStore
	SyncRuns   store.SyncRunStore
	Contacts   store.ContactStore
	Devices    store.DeviceStore
	Health     store.HealthStore

	Engine *directory.Engine
	Scans  *scan.Recorder

	srv *http.Server
}

func NewServer(
	db *gorm.DB,
	v *vault.Vault,
	auth *middleware.Authenticator,
	engine *directory.Engine,
	scans *scan.Recorder,
	logger *zap.Logger,
	host string,
	port string,
) *Server {

	router := mux.NewRouter().UseEncodedPath()
	srv := &http.Server{
		Handler: handlers.LoggingHandler(os.Stdout, router),
		Addr:    host + ":" + port,
		// Good practice: enforce timeouts for servers you create!
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	return &Server{
		Router: router,
		DB:     db,
		Vault:  v,
		Logger: logger,
		Auth:   auth,
		Engine: engine,
		Scans:  scans,
		srv:    srv,
	}
}

func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}
