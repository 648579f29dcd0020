package endpoints

import (
	"github.com/staffdir/staffdir/pkg/server"
)

// RegisterAll registers all API endpoints on the server
func RegisterAll(srv *server.Server) {
	RegisterShareLinkEndpoints(srv)
	RegisterIntegrationEndpoints(srv)
	RegisterSyncEndpoints(srv)
	RegisterStatusEndpoints(srv)
}
