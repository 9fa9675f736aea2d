package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/caseforge/casechat/internal/chat"
	"github.com/caseforge/casechat/internal/common"
	"github.com/caseforge/casechat/internal/session"
)

// CreateSession opens a new interactive session awaiting its identity
// submission.
func (h *Handler) CreateSession(c *gin.Context) {
	s := h.Sessions.Begin()
	common.OK(c, gin.H{
		"session_id": s.ID,
		"state":      s.State(),
	})
}

type submitIdentityReq struct {
	SessionID string `json:"session_id" binding:"required"`
	Name      string `json:"name"`
	Email     string `json:"email"`
}

// SubmitIdentity is the one-shot name/email gate.
func (h *Handler) SubmitIdentity(c *gin.Context) {
	var req submitIdentityReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}

	err := h.Sessions.SubmitIdentity(req.SessionID, req.Name, req.Email)
	switch {
	case errors.Is(err, session.ErrNotFound):
		common.Fail(c, http.StatusNotFound, 40004, "session not found")
		return
	case errors.Is(err, session.ErrIdentityRequired):
		common.Fail(c, http.StatusBadRequest, 10010, "name and email are required")
		return
	case errors.Is(err, session.ErrAlreadyActive):
		common.Fail(c, http.StatusConflict, 10011, "identity already submitted")
		return
	case err != nil:
		common.Fail(c, http.StatusInternalServerError, 50001, "internal error")
		return
	}

	common.OK(c, gin.H{"session_id": req.SessionID, "state": session.Active})
}

type sendMessageReq struct {
	SessionID string `json:"session_id" binding:"required"`
	Message   string `json:"message" binding:"required"`
}

func (h *Handler) SendChatMessage(c *gin.Context) {
	var req sendMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}

	sess, err := h.Sessions.Get(req.SessionID)
	if err != nil {
		common.Fail(c, http.StatusNotFound, 40004, "session not found")
		return
	}

	reply, err := h.ChatSvc.Send(c.Request.Context(), sess, req.Message)
	switch {
	case errors.Is(err, chat.ErrSessionNotActive):
		common.Fail(c, http.StatusConflict, 10012, "submit your name and email first")
		return
	case errors.Is(err, chat.ErrEmptyMessage):
		common.Fail(c, http.StatusBadRequest, 10013, "message must not be empty")
		return
	case err != nil:
		// Completion failure: the user's turn is already persisted and the
		// client may simply resubmit.
		log.Printf("[SendChatMessage] completion failed session=%s err=%v", req.SessionID, err)
		common.Fail(c, http.StatusBadGateway, 50201, "assistant is unavailable, please try again")
		return
	}

	resp := gin.H{
		"session_id": req.SessionID,
		"reply":      reply.Text,
	}
	if reply.StoreWarning {
		resp["warning"] = "your message could not be recorded"
	}
	common.OK(c, resp)
}

// ListSessionMessages renders the in-memory conversation, system turn
// excluded.
func (h *Handler) ListSessionMessages(c *gin.Context) {
	sess, err := h.Sessions.Get(c.Param("session_id"))
	if err != nil {
		common.Fail(c, http.StatusNotFound, 40004, "session not found")
		return
	}
	common.OK(c, gin.H{
		"session_id": sess.ID,
		"state":      sess.State(),
		"messages":   sess.History(),
	})
}
