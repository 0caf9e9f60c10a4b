package http_metrics

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	handler http.Handler
}

func New(handler http.Handler) *Controller {
	return &Controller{handler: handler}
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/metrics", gin.WrapH(c.handler))
}
