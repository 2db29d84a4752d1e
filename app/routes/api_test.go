package routes_test

import (
	"testing"

	"github.com/FranciscoBraga/projeto-node-react-moda-viva/app/routes"
	"github.com/FranciscoBraga/projeto-node-react-moda-viva/pkg/app"
	"github.com/FranciscoBraga/projeto-node-react-moda-viva/pkg/testkit"
)

func TestAPI(t *testing.T) {
	testkit.RunDir(t, app.New().Routes(routes.RegisterAPI).Handler(), "testdata")
}
