package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/AnTengye/casebrief/model"
	"github.com/AnTengye/casebrief/pkg/logger"
	"github.com/AnTengye/casebrief/service"
	"github.com/gin-gonic/gin"
)

type CaseHandler struct {
	store    *service.CaseStore
	renderer *service.Renderer
}

func NewCaseHandler(store *service.CaseStore, renderer *service.Renderer) *CaseHandler {
	return &CaseHandler{store: store, renderer: renderer}
}

// List returns case summaries, optionally filtered by ?q=
func (h *CaseHandler) List(c *gin.Context) {
	cases := h.store.List(c.Query("q"))

	c.JSON(http.StatusOK, gin.H{
		"cases": cases,
		"total": h.store.Count(),
	})
}

// Get returns the full record of one case
func (h *CaseHandler) Get(c *gin.Context) {
	selected, ok := h.lookup(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, selected)
}

// Markdown returns the whole brief as a markdown document. ?opinion=true
// appends the original opinion text.
func (h *CaseHandler) Markdown(c *gin.Context) {
	selected, ok := h.lookup(c)
	if !ok {
		return
	}

	includeOpinion, _ := strconv.ParseBool(c.Query("opinion"))
	md := h.renderer.Markdown(selected, service.MarkdownOptions{IncludeOpinion: includeOpinion})

	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="case-%d.md"`, selected.Index))
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(md))
}

// lookup resolves the :index parameter and writes the error response itself
// when it cannot.
func (h *CaseHandler) lookup(c *gin.Context) (*model.Case, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid case index"})
		return nil, false
	}
	c.Request = c.Request.WithContext(logger.WithCaseIndex(c.Request.Context(), index))

	selected, err := h.store.Get(index)
	if err != nil {
		if errors.Is(err, service.ErrCaseNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Case not found"})
			return nil, false
		}
		logger.Error(c.Request.Context(), "failed to get case", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return nil, false
	}
	return selected, true
}
