package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	services "github.com/tieubaoca/prism-be/service"
	"github.com/tieubaoca/prism-be/types"
)

type ResearchHandler struct {
	researchService *services.ResearchService
}

func NewResearchHandler(researchService *services.ResearchService) *ResearchHandler {
	return &ResearchHandler{
		researchService: researchService,
	}
}

// HandleRoadmap accepts the topic as a query parameter or as a JSON body.
func (h *ResearchHandler) HandleRoadmap(c *gin.Context) {
	var req types.RoadmapRequest
	req.Topic = c.Query("topic")
	if req.Topic == "" && c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			sendBadRequest(c, "invalid request body", err)
			return
		}
	}

	roadmap, err := h.researchService.GenerateRoadmap(c.Request.Context(), req.Topic)
	if err != nil {
		sendError(c, err)
		return
	}
	c.JSON(http.StatusOK, roadmap)
}

func (h *ResearchHandler) HandleEnrich(c *gin.Context) {
	var req types.EnrichmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendBadRequest(c, "invalid request body", err)
		return
	}

	enriched, err := h.researchService.EnrichModelStructure(c.Request.Context(), req)
	if err != nil {
		sendError(c, err)
		return
	}
	c.JSON(http.StatusOK, enriched)
}

func (h *ResearchHandler) HandleAblation(c *gin.Context) {
	var req types.AblationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendBadRequest(c, "invalid request body", err)
		return
	}
	c.JSON(http.StatusOK, h.researchService.PredictAblation(c.Request.Context(), req))
}

func (h *ResearchHandler) HandleQuiz(c *gin.Context) {
	var req types.QuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendBadRequest(c, "invalid request body", err)
		return
	}
	c.JSON(http.StatusOK, h.researchService.GenerateQuiz(c.Request.Context(), req))
}

func (h *ResearchHandler) HandleModelQuery(c *gin.Context) {
	var req types.ModelQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendBadRequest(c, "invalid request body", err)
		return
	}

	graph, err := h.researchService.GenerateModelFromQuery(c.Request.Context(), req.Query)
	if err != nil {
		sendError(c, err)
		return
	}
	c.JSON(http.StatusOK, graph)
}
