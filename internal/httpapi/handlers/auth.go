package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/caseforge/casechat/internal/auth"
	"github.com/caseforge/casechat/internal/common"
)

const tokenTTL = 24 * time.Hour

func (h *Handler) Ping(c *gin.Context) {
	common.OK(c, gin.H{"pong": true})
}

type loginReq struct {
	Password string `json:"password" binding:"required"`
}

// Login is the end-user access gate. A wrong password changes no state.
func (h *Handler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}
	if !auth.CheckPassword(h.Cfg.AppPassword, req.Password) {
		common.Fail(c, http.StatusUnauthorized, 40103, "invalid password")
		return
	}
	token, err := auth.SignToken(auth.RoleUser, h.Cfg.JWTSecret, tokenTTL)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 20003, "failed to sign token")
		return
	}
	common.OK(c, gin.H{"token": token})
}

// AdminLogin is the separate admin gate.
func (h *Handler) AdminLogin(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}
	if !auth.CheckPassword(h.Cfg.AdminPassword, req.Password) {
		common.Fail(c, http.StatusUnauthorized, 40104, "invalid admin password")
		return
	}
	token, err := auth.SignToken(auth.RoleAdmin, h.Cfg.JWTSecret, tokenTTL)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 20003, "failed to sign token")
		return
	}
	common.OK(c, gin.H{"token": token})
}
