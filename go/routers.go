package inventoryserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apierrors "github.com/Apurer/go-inventory-service/internal/shared/errors"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
}

// NewRouter returns a new router.
func NewRouter(handleFunctions ApiHandleFunctions) *gin.Engine {
	return NewRouterWithGinEngine(gin.Default(), handleFunctions)
}

// NewRouterWithGinEngine adds the inventory routes to an existing gin engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		switch route.Method {
		case http.MethodGet:
			router.GET(route.Pattern, route.HandlerFunc)
		case http.MethodPost:
			router.POST(route.Pattern, route.HandlerFunc)
		case http.MethodPut:
			router.PUT(route.Pattern, route.HandlerFunc)
		case http.MethodPatch:
			router.PATCH(route.Pattern, route.HandlerFunc)
		case http.MethodDelete:
			router.DELETE(route.Pattern, route.HandlerFunc)
		}
	}
	router.NoRoute(NoRouteHandleFunc)
	return router
}

// NoRouteHandleFunc answers unknown paths with a not-found problem.
func NoRouteHandleFunc(c *gin.Context) {
	respondProblem(c, apierrors.ErrNotFound.WithDetail("no route for "+c.Request.Method+" "+c.Request.URL.Path))
}

// DefaultHandleFunc answers routes that have no handler wired.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

type ApiHandleFunctions struct {
	// Routes for the product tag.
	ProductAPI ProductAPI
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	return []Route{
		{
			"FindProduct",
			http.MethodGet,
			"/v1/products/:productId",
			handleFunctions.ProductAPI.FindProduct,
		},
		{
			"CreateProduct",
			http.MethodPost,
			"/v1/products",
			handleFunctions.ProductAPI.CreateProduct,
		},
		{
			"DecreaseStock",
			http.MethodPost,
			"/v1/products/:productId/decrease-stock",
			handleFunctions.ProductAPI.DecreaseStock,
		},
	}
}
