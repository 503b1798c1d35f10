package handler

import (
	"errors"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/user/cinehub/internal/model"
	"github.com/user/cinehub/internal/utils"
)

// ListingParams 列表类请求的查询参数
type ListingParams struct {
	View   string `form:"view" binding:"omitempty,oneof=home browse search"`
	Filter string `form:"filter" binding:"omitempty,max=32"`
	Sort   string `form:"sort" binding:"omitempty,max=16"`
	Page   int    `form:"page" binding:"omitempty,min=1,max=100000"`
	Q      string `form:"q" binding:"omitempty,max=100"`
	Type   string `form:"type" binding:"omitempty,max=32"`
	Slug   string `form:"slug" binding:"omitempty,slug"`
}

// MovieParams 详情页查询参数
type MovieParams struct {
	Server int    `form:"server" binding:"omitempty,min=0,max=100"`
	Ep     string `form:"ep" binding:"omitempty,max=64"`
	Order  string `form:"order" binding:"omitempty,oneof=asc desc"`
}

// 列表无法加载时的提示
const (
	NoticeNoFilter      = "no-filter"
	NoticeInvalidFilter = "invalid-filter"
	NoticeNoQuery       = "no-query"
)

var registerOnce sync.Once

// RegisterValidators 注册自定义校验规则，可重复调用
func RegisterValidators() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = errors.New("unexpected validator engine")
			return
		}
		err = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
			return utils.IsSlug(fl.Field().String())
		})
	})
	return err
}

// buildQuery 由参数生成列表条件；返回非空 notice 时不应发起请求
func buildQuery(view string, p ListingParams) (model.PageQuery, string) {
	q := model.NewPageQuery().
		WithFilter(model.ParseFilterKind(p.Filter)).
		WithSort(model.ParseSortKey(p.Sort))

	switch view {
	case ViewBrowse:
		kind := model.ParseFacetKind(p.Type)
		switch kind {
		case model.FacetNone:
			return q, NoticeNoFilter
		case model.FacetInvalid:
			return q, NoticeInvalidFilter
		}
		q = q.WithFacet(kind, p.Slug)
	case ViewSearch:
		q = q.WithSearch(p.Q)
		if q.Search == "" {
			return q, NoticeNoQuery
		}
	}

	page := p.Page
	if page < 1 {
		page = 1
	}
	return q.WithPage(page), ""
}

// noticeMessage 提示文案
func noticeMessage(notice string) string {
	switch notice {
	case NoticeNoFilter:
		return "No filter selected. Pick a genre, country or year."
	case NoticeInvalidFilter:
		return "This filter is not supported."
	case NoticeNoQuery:
		return "Type something to search."
	default:
		return ""
	}
}
