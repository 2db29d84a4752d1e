package routes

import (
	"github.com/FranciscoBraga/projeto-node-react-moda-viva/app/controllers"
	"github.com/FranciscoBraga/projeto-node-react-moda-viva/pkg/router"
)

// RegisterAPI mounts the application routes. Anything not listed here gets
// the router's JSON 404.
func RegisterAPI(r *router.Router) {
	health := controllers.NewHealthController()

	r.Get("/health", "health", health.Show)
}
