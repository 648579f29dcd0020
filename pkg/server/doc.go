// Package server wires the HTTP API together: the router, the storage
// layer, the credential vault, and the sync engine. Endpoint handlers live
// in the endpoints subpackage; request authentication in middleware.
package server
