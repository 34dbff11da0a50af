package handlers

import (
	"net/http"

	"carwash/services/catalog"

	"github.com/gin-gonic/gin"
)

type PackageHandler struct {
	Catalog catalog.Catalog
}

func NewPackageHandler(cat catalog.Catalog) *PackageHandler {
	return &PackageHandler{Catalog: cat}
}

func (h *PackageHandler) ListPackagesHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"packages": h.Catalog.ListPackages()})
}
