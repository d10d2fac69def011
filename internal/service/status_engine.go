package service

import (
	"context"
	"strings"

	"rpl-backend/internal/model"
	"rpl-backend/internal/repository"

	"github.com/google/uuid"
)

// StatusEngine derives an application's status from its comment log.
type StatusEngine interface {
	// Recompute maps the latest decision-typed comment to a status and
	// persists it with a conditional update. Returns the new status, or nil
	// when nothing changed. Obsolete applications are never touched.
	Recompute(ctx context.Context, appID uuid.UUID) (*string, error)
}

type statusEngine struct {
	apps     repository.ApplicationRepository
	comments repository.CommentRepository
}

func NewStatusEngine(apps repository.ApplicationRepository, comments repository.CommentRepository) StatusEngine {
	return &statusEngine{apps: apps, comments: comments}
}

func (e *statusEngine) Recompute(ctx context.Context, appID uuid.UUID) (*string, error) {
	app, err := e.apps.FindByID(ctx, appID)
	if err != nil {
		return nil, err
	}

	// Obsolete is terminal; no comment can resurrect the application.
	if app.Status == model.StatusObsolete {
		return nil, nil
	}

	latest, err := e.comments.FindLatestDecision(ctx, appID)
	if err != nil {
		return nil, err
	}
	if latest == nil {
		return nil, nil
	}

	newStatus := statusForCommentType(latest.Type)
	if newStatus == "" || newStatus == app.Status {
		return nil, nil
	}

	// Conditional write: if the stored status moved under us (e.g. a
	// concurrent revision marked it Obsolete) the update loses and the
	// conflict surfaces to the caller.
	if err := e.apps.UpdateStatusIf(ctx, appID, app.Status, newStatus); err != nil {
		return nil, err
	}
	return &newStatus, nil
}

// statusForCommentType maps a decision comment type to the status it
// implies. Types with no status implication (Obsolete, Pending) return "".
func statusForCommentType(commentType string) string {
	switch NormalizeCommentType(commentType) {
	case model.CommentTypeReject, model.CommentTypeRejected:
		return model.StatusReject
	case model.CommentTypeApprove, model.CommentTypeApproved:
		return model.StatusApprove
	case model.CommentTypeComment:
		return model.StatusRequestInfo
	default:
		return ""
	}
}

// NormalizeCommentType canonicalizes stored comment types, e.g.
// "approved" -> "Approved". Empty input defaults to a plain comment.
func NormalizeCommentType(commentType string) string {
	trimmed := strings.TrimSpace(commentType)
	if trimmed == "" {
		return model.CommentTypeComment
	}
	lower := strings.ToLower(trimmed)
	return strings.ToUpper(lower[:1]) + lower[1:]
}
