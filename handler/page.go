package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/AnTengye/casebrief/middleware"
	"github.com/AnTengye/casebrief/model"
	"github.com/AnTengye/casebrief/pkg/logger"
	"github.com/AnTengye/casebrief/service"
	"github.com/gin-gonic/gin"
)

// DashboardPage is the data handed to the dashboard template.
type DashboardPage struct {
	Cases     []model.CaseSummary
	Total     int
	Query     string
	Selected  int
	Dashboard *service.Dashboard
	Viewer    string
}

type PageHandler struct {
	store    *service.CaseStore
	renderer *service.Renderer
}

func NewPageHandler(store *service.CaseStore, renderer *service.Renderer) *PageHandler {
	return &PageHandler{store: store, renderer: renderer}
}

// Dashboard renders the viewer for the case chosen by /cases/:index or
// ?case=N. Without a selection the first listed case is shown.
func (h *PageHandler) Dashboard(c *gin.Context) {
	raw := c.Param("index")
	if raw == "" {
		raw = c.Query("case")
	}

	page := DashboardPage{
		Cases:    h.store.List(c.Query("q")),
		Total:    h.store.Count(),
		Query:    c.Query("q"),
		Selected: -1,
		Viewer:   middleware.GetViewer(c),
	}

	if raw == "" {
		if len(page.Cases) == 0 {
			c.HTML(http.StatusOK, "dashboard.html", page)
			return
		}
		raw = strconv.Itoa(page.Cases[0].Index)
	}

	index, err := strconv.Atoi(raw)
	if err != nil {
		renderError(c, http.StatusBadRequest, "Invalid case index")
		return
	}
	ctx := logger.WithCaseIndex(c.Request.Context(), index)
	c.Request = c.Request.WithContext(ctx)

	selected, err := h.store.Get(index)
	if err != nil {
		if errors.Is(err, service.ErrCaseNotFound) {
			renderError(c, http.StatusNotFound, "Case not found")
			return
		}
		logger.Error(ctx, "failed to get case", "error", err)
		renderError(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	dashboard, err := h.renderer.Dashboard(selected)
	if err != nil {
		logger.Error(ctx, "failed to render case", "error", err)
		renderError(c, http.StatusInternalServerError, "Failed to render case")
		return
	}

	page.Selected = index
	page.Dashboard = dashboard
	c.HTML(http.StatusOK, "dashboard.html", page)
}

func renderError(c *gin.Context, status int, message string) {
	c.HTML(status, "error.html", gin.H{
		"Status":    status,
		"Message":   message,
		"RequestID": middleware.GetRequestID(c),
	})
}
