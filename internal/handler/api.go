package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/user/cinehub/internal/controller"
	"github.com/user/cinehub/internal/middleware"
	"github.com/user/cinehub/internal/model"
	"github.com/user/cinehub/internal/utils"
)

// ListingAPI 列表 JSON 接口，返回控制器快照
func (h *Handler) ListingAPI(c *gin.Context) {
	var p ListingParams
	if err := c.ShouldBindQuery(&p); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}
	view := p.View
	if view == "" {
		view = ViewHome
	}

	q, notice := buildQuery(view, p)
	if notice != "" {
		utils.BadRequest(c, noticeMessage(notice))
		return
	}

	ctrl := h.Controllers.Get(middleware.GetSessionID(c), "api:"+view)
	snap, err := ctrl.Load(c.Request.Context(), q, controller.NoLocation)
	switch {
	case errors.Is(err, controller.ErrOutOfRange):
		utils.ErrorWithData(c, http.StatusRequestedRangeNotSatisfiable, err.Error(), snap)
		return
	case errors.Is(err, controller.ErrSuperseded):
		utils.ErrorWithData(c, http.StatusConflict, err.Error(), snap)
		return
	}

	if snap.State == controller.StateFailed {
		status := http.StatusBadGateway
		if snap.ErrorKind() == "timeout" {
			status = http.StatusGatewayTimeout
		}
		utils.ErrorWithData(c, status, snap.Error, snap)
		return
	}
	utils.Success(c, snap)
}

// MovieAPI 详情 JSON 接口
func (h *Handler) MovieAPI(c *gin.Context) {
	slug := c.Param("slug")
	if !utils.IsSlug(slug) {
		utils.BadRequest(c, "invalid slug")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.Config.FetchTimeout)
	defer cancel()

	movie, err := h.Catalog.Detail(ctx, slug)
	if err != nil {
		status := http.StatusBadGateway
		if controller.ErrorKind(err) == "timeout" {
			status = http.StatusGatewayTimeout
		}
		utils.Error(c, status, err.Error())
		return
	}
	if movie == nil {
		utils.NotFound(c, "movie not found")
		return
	}
	utils.Success(c, movie)
}

// FacetsAPI 分面索引 JSON 接口，kind 为空时返回页脚三组
func (h *Handler) FacetsAPI(c *gin.Context) {
	kind := model.ParseFacetKind(c.Query("type"))
	switch kind {
	case model.FacetNone:
		utils.Success(c, h.footer(c.Request.Context()))
		return
	case model.FacetInvalid, model.FacetList:
		utils.BadRequest(c, "unsupported facet type")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.Config.FetchTimeout)
	defer cancel()

	entries, err := h.Catalog.FacetIndex(ctx, kind)
	if err != nil {
		utils.Error(c, http.StatusBadGateway, err.Error())
		return
	}
	utils.Success(c, entries)
}
