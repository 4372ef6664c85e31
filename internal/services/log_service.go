// Package services – LogService
//
// Read-only access to the interaction audit trail. Rows are written by the
// message orchestrator; this service only lists them, newest first.
package services

import (
	"context"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/g8d3/ai-chat-dev/internal/domain"
	"github.com/g8d3/ai-chat-dev/internal/repo"
)

// LogService lists a user's interaction log entries.
type LogService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
}

// ListPage returns a page of log rows for userID, newest first, together
// with the total count.
func (s *LogService) ListPage(ctx context.Context, userID string, page, pageSize int) ([]domain.InteractionLog, int64, error) {
	tr := otel.Tracer("services/LogService")
	ctx, span := tr.Start(ctx, "ListPage",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	total, err := repo.CountLogs(ctx, s.DB, userID)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.InteractionLog{}, 0, nil
	}
	items, err := repo.ListLogsPage(ctx, s.DB, userID, offset, pageSize)
	return items, total, err
}
