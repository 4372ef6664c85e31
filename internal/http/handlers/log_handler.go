// Interaction log HTTP handler.
//
//   - GET /logs  (list the current user's completion audit trail, newest first)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/g8d3/ai-chat-dev/internal/domain"
)

// ListLogsResponse contains a page of interaction log rows and pagination
// metadata.
type ListLogsResponse struct {
	Logs       []domain.InteractionLog `json:"logs"`
	Pagination Pagination              `json:"pagination"`
}

// ListLogs godoc
// @ID          listLogs
// @Summary     List interaction logs
// @Description Returns the current user's completion audit trail, newest first.
// @Tags        Logs
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       page       query   int     false "Page number"            minimum(1) default(1)
// @Param       page_size  query   int     false "Items per page"         minimum(1) maximum(100) default(20)
//
// @Success     200  {object}  handlers.ListLogsResponse
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /logs [get]
func (h *Handlers) ListLogs(c *gin.Context) {
	page, pageSize := clampPagination(c)

	items, total, err := h.logSvc.ListPage(c.Request.Context(), userID(c), page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, ListLogsResponse{
		Logs:       items,
		Pagination: paginationFor(page, pageSize, total),
	})
}
