package handler

import (
	"net/http"
	"strconv"

	"github.com/greenworld/garden-backend/internal/middleware"
	"github.com/greenworld/garden-backend/internal/model"
	"github.com/greenworld/garden-backend/internal/service"
	"github.com/labstack/echo/v4"
)

type CatalogHandler struct {
	catalog service.CatalogService
	garden  service.GardenService
}

func NewCatalogHandler(catalog service.CatalogService, garden service.GardenService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, garden: garden}
}

type CatalogEntryResponse struct {
	ID          uint64  `json:"id"`
	Name        string  `json:"name"`
	Price       int64   `json:"price"`
	Description string  `json:"description,omitempty"`
	ImageURL    *string `json:"imageUrl,omitempty"`
}

func (h *CatalogHandler) List(c echo.Context) error {
	entries, err := h.catalog.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch catalog"))
	}
	resp := make([]CatalogEntryResponse, 0, len(entries))
	for i := range entries {
		resp = append(resp, toCatalogEntryResponse(&entries[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

type BuyTreeRequest struct {
	CustomName string `json:"customName"`
}

func (h *CatalogHandler) Buy(c echo.Context) error {
	catalogID, err := strconv.ParseUint(c.Param("catalogId"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid catalog id"))
	}
	var req BuyTreeRequest
	if c.Request().ContentLength > 0 {
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
		}
	}
	if req.CustomName == "" {
		req.CustomName = c.QueryParam("custom_name")
	}
	tree, err := h.garden.BuyAndPlant(c.Request().Context(), middleware.UserID(c), catalogID, req.CustomName)
	if err != nil {
		return respondEconomyError(c, err)
	}
	return c.JSON(http.StatusCreated, toTreeResponse(tree))
}

func toCatalogEntryResponse(e *model.TreeCatalog) CatalogEntryResponse {
	return CatalogEntryResponse{
		ID:          e.ID,
		Name:        e.Name,
		Price:       e.Price,
		Description: e.Description,
		ImageURL:    e.ImageURL,
	}
}
