package controllers

import (
	"net/http"

	"github.com/FranciscoBraga/projeto-node-react-moda-viva/pkg/response"
)

type HealthController struct{}

func NewHealthController() *HealthController {
	return &HealthController{}
}

// Show answers the liveness check.
func (c *HealthController) Show(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, map[string]string{"status": "ok"})
}
