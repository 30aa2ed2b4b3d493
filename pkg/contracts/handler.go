package contracts

import "github.com/julienschmidt/httprouter"

// Handler is implemented by each service's HTTP surface so the shared
// application runner can mount it without knowing the routes.
type Handler interface {
	RegisterRoutes(*httprouter.Router)
}
