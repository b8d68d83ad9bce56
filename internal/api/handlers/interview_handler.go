package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/interviewiq/internal/models"
	"github.com/yoockh/interviewiq/internal/services"
	"github.com/yoockh/interviewiq/internal/utils"
)

type InterviewHandler struct {
	svc services.InterviewService
}

func NewInterviewHandler(svc services.InterviewService) *InterviewHandler {
	return &InterviewHandler{svc: svc}
}

// Fields outside these request types (ownerId, id, timestamps) are dropped
// by the decoder and never reach the service.
type CreateInterviewRequest struct {
	Role       string           `json:"role"`
	Difficulty string           `json:"difficulty"`
	Question   string           `json:"question"`
	UserAnswer string           `json:"userAnswer"`
	Feedback   *models.Feedback `json:"feedback"`
	AudioURL   string           `json:"audioUrl"`
}

type UpdateInterviewRequest struct {
	Role       *string         `json:"role"`
	Difficulty *string         `json:"difficulty"`
	Question   *string         `json:"question"`
	UserAnswer *string         `json:"userAnswer"`
	Feedback   json.RawMessage `json:"feedback"`
	AudioURL   *string         `json:"audioUrl"`
}

func (r UpdateInterviewRequest) toInput() (services.UpdateInterviewInput, error) {
	in := services.UpdateInterviewInput{
		Role:       r.Role,
		Difficulty: r.Difficulty,
		Question:   r.Question,
		UserAnswer: r.UserAnswer,
		AudioURL:   r.AudioURL,
	}
	raw := bytes.TrimSpace(r.Feedback)
	switch {
	case len(raw) == 0:
	case bytes.Equal(raw, []byte("null")) || bytes.Equal(raw, []byte(`""`)):
		in.ClearFeedback = true
	default:
		var fb models.Feedback
		if err := json.Unmarshal(raw, &fb); err != nil {
			return in, err
		}
		in.Feedback = &fb
	}
	return in, nil
}

func (h *InterviewHandler) Create(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req CreateInterviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "InterviewHandler.Create", "Invalid request body", err))
		return
	}

	s, err := h.svc.Create(c.Request.Context(), userID, services.CreateInterviewInput{
		Role:       req.Role,
		Difficulty: req.Difficulty,
		Question:   req.Question,
		UserAnswer: req.UserAnswer,
		AudioURL:   req.AudioURL,
		Feedback:   req.Feedback,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	writeOK(c, http.StatusCreated, "Interview session created", s)
}

func (h *InterviewHandler) List(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	list, err := h.svc.List(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	n := len(list)
	c.JSON(http.StatusOK, Envelope{Success: true, Count: &n, Data: list})
}

func (h *InterviewHandler) Get(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	s, err := h.svc.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	writeOK(c, http.StatusOK, "", s)
}

func (h *InterviewHandler) Update(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req UpdateInterviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "InterviewHandler.Update", "Invalid request body", err))
		return
	}
	in, err := req.toInput()
	if err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "InterviewHandler.Update", "Invalid feedback", err))
		return
	}

	s, err := h.svc.Update(c.Request.Context(), userID, c.Param("id"), in)
	if err != nil {
		writeError(c, err)
		return
	}
	writeOK(c, http.StatusOK, "Interview session updated", s)
}

func (h *InterviewHandler) Delete(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	writeOK(c, http.StatusOK, "Interview session deleted", gin.H{})
}
