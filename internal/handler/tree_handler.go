package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/greenworld/garden-backend/internal/middleware"
	"github.com/greenworld/garden-backend/internal/model"
	"github.com/greenworld/garden-backend/internal/service"
	"github.com/labstack/echo/v4"
)

type TreeHandler struct {
	garden service.GardenService
}

func NewTreeHandler(garden service.GardenService) *TreeHandler {
	return &TreeHandler{garden: garden}
}

type TreeResponse struct {
	ID            uint64  `json:"id"`
	TreeTypeID    uint64  `json:"treeTypeId"`
	Name          string  `json:"name"`
	Price         int64   `json:"price"`
	Lvl           int     `json:"lvl"`
	NextUpgradeAt *string `json:"nextUpgradeAt,omitempty"`
	CreatedAt     string  `json:"createdAt"`
}

func (h *TreeHandler) ListMine(c echo.Context) error {
	trees, err := h.garden.ListOwned(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch trees"))
	}
	resp := make([]TreeResponse, 0, len(trees))
	for i := range trees {
		resp = append(resp, toTreeResponse(&trees[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *TreeHandler) Get(c echo.Context) error {
	treeID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	tree, err := h.garden.GetOwned(c.Request().Context(), middleware.UserID(c), treeID)
	if err != nil {
		return respondEconomyError(c, err)
	}
	return c.JSON(http.StatusOK, toTreeResponse(tree))
}

type UpdateTreeRequest struct {
	Name  *string `json:"name"`
	Price *int64  `json:"price"`
}

func (h *TreeHandler) Update(c echo.Context) error {
	treeID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	var req UpdateTreeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	tree, err := h.garden.UpdateTree(c.Request().Context(), middleware.UserID(c), treeID, req.Name, req.Price)
	if err != nil {
		return respondEconomyError(c, err)
	}
	return c.JSON(http.StatusOK, toTreeResponse(tree))
}

type UpgradeTreeRequest struct {
	UseCoins *bool `json:"useCoins"`
}

type UpgradeTreeResponse struct {
	Lvl           int    `json:"lvl"`
	NextUpgradeAt string `json:"nextUpgradeAt"`
}

func (h *TreeHandler) Upgrade(c echo.Context) error {
	treeID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	useCoins := true
	if c.Request().ContentLength > 0 {
		var req UpgradeTreeRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
		}
		if req.UseCoins != nil {
			useCoins = *req.UseCoins
		}
	}
	result, err := h.garden.Upgrade(c.Request().Context(), middleware.UserID(c), treeID, useCoins)
	if err != nil {
		return respondEconomyError(c, err)
	}
	return c.JSON(http.StatusOK, UpgradeTreeResponse{
		Lvl:           result.Lvl,
		NextUpgradeAt: result.NextUpgradeAt.Format(time.RFC3339),
	})
}

func toTreeResponse(t *model.Tree) TreeResponse {
	resp := TreeResponse{
		ID:         t.ID,
		TreeTypeID: t.TreeTypeID,
		Name:       t.Name,
		Price:      t.Price,
		Lvl:        t.Lvl,
		CreatedAt:  t.CreatedAt.Format(time.RFC3339),
	}
	if t.NextUpgradeAt != nil {
		next := t.NextUpgradeAt.Format(time.RFC3339)
		resp.NextUpgradeAt = &next
	}
	return resp
}
