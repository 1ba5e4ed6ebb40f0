package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/loan_desk_app/internal/core/ports/services"
	"github.com/SscSPs/loan_desk_app/internal/dto"
	"github.com/gin-gonic/gin"
)

// loanCommentHandler serves the comment thread of a loan to its participants:
// the borrower, the borrower's company and platform admins.
type loanCommentHandler struct {
	loans portssvc.LoanSvcFacade
}

func registerLoanCommentRoutes(rg *gin.RouterGroup, loans portssvc.LoanSvcFacade) {
	h := &loanCommentHandler{loans: loans}

	comments := rg.Group("/loans/:loan_id/comments")
	{
		comments.GET("", h.listComments)
		comments.POST("", h.addComment)
	}
}

// listComments godoc
// @Summary List comments on a loan
// @Tags loans
// @Produce json
// @Param loan_id path string true "Loan ID"
// @Success 200 {object} dto.ListLoanCommentsResponse
// @Failure 403 {object} ErrorResponse "Not a participant"
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /loans/{loan_id}/comments [get]
func (h *loanCommentHandler) listComments(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	comments, err := h.loans.ListComments(c.Request.Context(), principal, c.Param("loan_id"))
	if err != nil {
		respondError(c, err, "Failed to list comments")
		return
	}
	c.JSON(http.StatusOK, dto.ListLoanCommentsResponse{Comments: comments})
}

// addComment godoc
// @Summary Comment on a loan
// @Tags loans
// @Accept json
// @Produce json
// @Param loan_id path string true "Loan ID"
// @Param comment body dto.AddLoanCommentRequest true "Comment"
// @Success 201 {object} domain.LoanComment
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse "Not a participant"
// @Security BearerAuth
// @Router /loans/{loan_id}/comments [post]
func (h *loanCommentHandler) addComment(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	var req dto.AddLoanCommentRequest
	if !bindJSON(c, &req) {
		return
	}
	comment, err := h.loans.AddComment(c.Request.Context(), principal, c.Param("loan_id"), req.Comment)
	if err != nil {
		respondError(c, err, "Failed to add comment")
		return
	}
	c.JSON(http.StatusCreated, comment)
}
