package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/caseforge/casechat/internal/admin"
	"github.com/caseforge/casechat/internal/common"
	"github.com/caseforge/casechat/internal/transcript"
)

// AdminOverview lists identities grouped by email, served through the
// transcript cache.
func (h *Handler) AdminOverview(c *gin.Context) {
	ids, err := h.AdminSvc.Overview(c.Request.Context())
	if err != nil {
		log.Printf("[AdminOverview] load failed err=%v", err)
		common.Fail(c, http.StatusInternalServerError, 50002, "failed to load chat logs")
		return
	}
	common.OK(c, gin.H{"identities": ids})
}

// AdminRefresh drops the cached log view.
func (h *Handler) AdminRefresh(c *gin.Context) {
	if err := h.AdminSvc.Refresh(c.Request.Context()); err != nil {
		common.Fail(c, http.StatusInternalServerError, 50003, "failed to refresh")
		return
	}
	common.OK(c, gin.H{"refreshed": true})
}

func (h *Handler) AdminTranscript(c *gin.Context) {
	email := c.Param("email")
	turns, err := h.AdminSvc.Transcript(c.Request.Context(), email)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 50002, "failed to load transcript")
		return
	}
	common.OK(c, gin.H{"email": email, "turns": turns})
}

func csvAttachment(c *gin.Context, filename string, body []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", body)
}

func (h *Handler) AdminExportTranscript(c *gin.Context) {
	b, fname, err := h.AdminSvc.ExportTranscript(c.Request.Context(), c.Param("email"))
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 50004, "failed to export transcript")
		return
	}
	csvAttachment(c, fname, b)
}

func (h *Handler) AdminExportAll(c *gin.Context) {
	b, fname, err := h.AdminSvc.ExportAll(c.Request.Context())
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 50004, "failed to export chat logs")
		return
	}
	csvAttachment(c, fname, b)
}

func (h *Handler) AdminDeleteTranscript(c *gin.Context) {
	email := c.Param("email")
	n, err := h.AdminSvc.Delete(c.Request.Context(), email)
	if err != nil {
		log.Printf("[AdminDeleteTranscript] delete failed email=%s err=%v", email, err)
		common.Fail(c, http.StatusInternalServerError, 50005, "failed to delete chat history")
		return
	}
	common.OK(c, gin.H{"email": email, "deleted": n})
}

type createExportJobReq struct {
	// Empty email requests the combined all-identities export.
	Email string `json:"email"`
}

func (h *Handler) CreateExportJob(c *gin.Context) {
	var req createExportJobReq
	_ = c.ShouldBindJSON(&req) // allow empty {}

	job, err := h.AdminSvc.CreateExportJob(c.Request.Context(), req.Email)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 50001, "internal error")
		return
	}

	if err := h.Rabbit.PublishExportJob(c.Request.Context(), job.ID); err != nil {
		log.Printf("[CreateExportJob] publish failed job_id=%s err=%v", job.ID, err)
		common.Fail(c, http.StatusInternalServerError, 50006, "enqueue failed")
		return
	}

	common.OK(c, gin.H{"job_id": job.ID})
}

func (h *Handler) GetExportJob(c *gin.Context) {
	job, err := h.AdminSvc.GetExportJob(c.Request.Context(), c.Param("job_id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			common.Fail(c, http.StatusNotFound, 40402, "job not found")
			return
		}
		common.Fail(c, http.StatusInternalServerError, 50001, "internal error")
		return
	}
	common.OK(c, gin.H{"job": job})
}

func (h *Handler) DownloadExportJob(c *gin.Context) {
	job, err := h.AdminSvc.GetExportJob(c.Request.Context(), c.Param("job_id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			common.Fail(c, http.StatusNotFound, 40402, "job not found")
			return
		}
		common.Fail(c, http.StatusInternalServerError, 50001, "internal error")
		return
	}
	if job.Status != admin.JobSucceeded || job.FilePath == nil {
		common.Fail(c, http.StatusConflict, 10030, "export not ready")
		return
	}
	c.FileAttachment(*job.FilePath, downloadName(job))
}

func downloadName(job *admin.ExportJob) string {
	if job.Email == "" {
		return transcript.AllExportFilename
	}
	return transcript.ExportFilename(job.Email)
}
