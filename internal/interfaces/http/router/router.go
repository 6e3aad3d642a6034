// Package router mounts the versioned API onto a gin engine.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Route is one endpoint inside a Group
type Route struct {
	Method   string
	Path     string
	Handlers []gin.HandlerFunc
}

// Group is a path prefix with its own middleware, routes and nested groups
type Group struct {
	Prefix     string
	Middleware []gin.HandlerFunc
	Routes     []Route
	Children   []Group
}

func (g Group) mount(parent *gin.RouterGroup) {
	rg := parent.Group(g.Prefix, g.Middleware...)
	for _, r := range g.Routes {
		rg.Handle(r.Method, r.Path, r.Handlers...)
	}
	for _, child := range g.Children {
		child.mount(rg)
	}
}

// Mount registers groups under /api/<version>. mw runs before any group middleware.
func Mount(engine *gin.Engine, version string, mw []gin.HandlerFunc, groups ...Group) {
	api := engine.Group("/api/"+version, mw...)
	for _, g := range groups {
		g.mount(api)
	}
}

func get(path string, h ...gin.HandlerFunc) Route    { return Route{http.MethodGet, path, h} }
func post(path string, h ...gin.HandlerFunc) Route   { return Route{http.MethodPost, path, h} }
func put(path string, h ...gin.HandlerFunc) Route    { return Route{http.MethodPut, path, h} }
func patch(path string, h ...gin.HandlerFunc) Route  { return Route{http.MethodPatch, path, h} }
func remove(path string, h ...gin.HandlerFunc) Route { return Route{http.MethodDelete, path, h} }
