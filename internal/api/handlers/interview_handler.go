package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sandy0637R/AI-Interviewer-Backend/internal/models"
	"github.com/sandy0637R/AI-Interviewer-Backend/internal/services"
	"github.com/sandy0637R/AI-Interviewer-Backend/internal/utils"
)

type InterviewHandler struct {
	svc services.InterviewService
}

func NewInterviewHandler(svc services.InterviewService) *InterviewHandler {
	return &InterviewHandler{svc: svc}
}

type StartInterviewRequest struct {
	Role           string `json:"role" binding:"required"`
	TotalQuestions int    `json:"totalQuestions" binding:"required"`
	UserID         string `json:"userId"`
	IsAnonymous    *bool  `json:"isAnonymous"`
}

type StartInterviewResponse struct {
	Success        bool   `json:"success"`
	SessionID      string `json:"sessionId"`
	QuestionNumber int    `json:"questionNumber"`
	Question       string `json:"question"`
}

func (h *InterviewHandler) Start(c *gin.Context) {
	var req StartInterviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "InterviewHandler.Start", "role and totalQuestions are required", err))
		return
	}

	// a verified token wins over whatever the body claims
	userID := tokenUserID(c)
	if userID == nil && req.UserID != "" && (req.IsAnonymous == nil || !*req.IsAnonymous) {
		userID = &req.UserID
	}

	out, err := h.svc.Start(c.Request.Context(), services.StartInput{
		Role:           req.Role,
		TotalQuestions: req.TotalQuestions,
		UserID:         userID,
		IP:             c.ClientIP(),
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, StartInterviewResponse{
		Success:        true,
		SessionID:      out.SessionID,
		QuestionNumber: out.QuestionNumber,
		Question:       out.Question,
	})
}

type SubmitAnswerRequest struct {
	SessionID string `json:"sessionId" binding:"required"`
	Answer    string `json:"answer" binding:"required"`
}

func (h *InterviewHandler) Next(c *gin.Context) {
	var req SubmitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "InterviewHandler.Next", "sessionId and answer are required", err))
		return
	}

	out, err := h.svc.SubmitAnswer(c.Request.Context(), req.SessionID, req.Answer)
	if err != nil {
		writeError(c, err)
		return
	}

	switch {
	case out.Repeat:
		c.JSON(http.StatusOK, gin.H{
			"success":        true,
			"repeat":         true,
			"questionNumber": out.QuestionNumber,
			"question":       out.Question,
		})
	case out.AskAgain:
		c.JSON(http.StatusOK, gin.H{
			"success":  false,
			"askAgain": true,
			"message":  "That answer didn't address the question. Please try again.",
		})
	case out.Completed:
		c.JSON(http.StatusOK, gin.H{
			"success":   true,
			"completed": true,
			"feedback":  out.Feedback,
		})
	default:
		c.JSON(http.StatusOK, gin.H{
			"success":        true,
			"questionNumber": out.QuestionNumber,
			"question":       out.Question,
		})
	}
}

type ResumeRequest struct {
	SessionID string `json:"sessionId" binding:"required"`
}

type sessionView struct {
	*models.InterviewSession
	IsCompleted bool `json:"isCompleted"`
}

func (h *InterviewHandler) Resume(c *gin.Context) {
	var req ResumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "InterviewHandler.Resume", "sessionId is required", err))
		return
	}

	sess, err := h.svc.Resume(c.Request.Context(), req.SessionID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"session": sessionView{InterviewSession: sess, IsCompleted: sess.IsCompleted()},
	})
}
