package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"rpl-backend/internal/model"
	"rpl-backend/internal/notify"
	"rpl-backend/internal/repository"
	"rpl-backend/pkg/apperr"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- Collaborator interfaces ---

// UnitCatalog resolves UWA unit codes against the handbook scraper.
type UnitCatalog interface {
	Lookup(ctx context.Context, code string) (*model.UnitInfo, error)
	IsValidUnitCode(ctx context.Context, code string) bool
}

// StatusBroadcaster pushes live updates to connected review dashboards.
type StatusBroadcaster interface {
	PublishApplicationUpdate(applicationID, status string)
}

// --- DTOs ---

type ExternalUnitDTO struct {
	Code          string          `json:"code" binding:"required"`
	Name          string          `json:"name"`
	Level         string          `json:"level"`
	ContactHours  int             `json:"contactHours"`
	Outcomes      string          `json:"outcomes"`
	Assessments   string          `json:"assessments"`
	CreditPoints  decimal.Decimal `json:"creditPoints"`
	OutlineLink   string          `json:"outlineLink"`
	YearCompleted int             `json:"yearCompleted"`
}

type UnitRefDTO struct {
	Code string `json:"code" binding:"required"`
}

// UnitEquivalenceDTO is one requested equivalence: a set of external
// units proposed against one UWA unit. Institution names arrive in a
// parallel slice to the units, matched by index.
type UnitEquivalenceDTO struct {
	UWA               UnitRefDTO        `json:"uwa" binding:"required"`
	OtherInstitutions []string          `json:"otherInstitutions" binding:"required"`
	Others            []ExternalUnitDTO `json:"others" binding:"required,min=1"`
	Attachments       []string          `json:"attachments"`
}

type SubmitRequestDTO struct {
	FirstName      string               `json:"firstName" binding:"required"`
	LastName       string               `json:"lastName" binding:"required"`
	EmailAddress   string               `json:"emailAddress" binding:"required,email"`
	RequestedUnits []UnitEquivalenceDTO `json:"requestedUnits" binding:"required,min=1"`
	// OriginalIds names applications this submission supersedes, matched by
	// index against the applications created here.
	OriginalIds []string `json:"originalIds"`
}

type CommentView struct {
	ApplicationID string    `json:"application_id"`
	Author        string    `json:"author"`
	Text          string    `json:"text"`
	Type          string    `json:"type"`
	Timestamp     time.Time `json:"timestamp"`
}

// CommentResult is what AddComment hands back: the recorded comment plus
// the status it produced (nil when the status did not move).
type CommentResult struct {
	Comment CommentView `json:"comment"`
	Status  *string     `json:"status"`
}

type PersonalView struct {
	FirstName string `json:"firstName"`
	Surname   string `json:"surname"`
	Email     string `json:"email"`
}

// UnitView is the UWA unit with its proposed incoming units nested.
type UnitView struct {
	model.UnitInfo
	Incoming []model.UnitInfo `json:"incoming"`
}

type SupportingDocView struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// ApplicationView is the normalized single-application shape the review
// page renders.
type ApplicationView struct {
	ID             string              `json:"_id"`
	Status         string              `json:"status"`
	Personal       PersonalView        `json:"personal"`
	Units          []UnitView          `json:"units"`
	IncomingUnits  []model.UnitInfo    `json:"incomingUnits"`
	Comments       []CommentView       `json:"comments"`
	Timestamp      time.Time           `json:"timestamp"`
	PreviousID     *string             `json:"previousId"`
	NewestVersion  string              `json:"newestVersion"`
	SupportingDocs []SupportingDocView `json:"supportingDocs"`
}

// ApplicationSummary is one row of the review dashboard listing.
type ApplicationSummary struct {
	ApplicationID          string          `json:"application_id"`
	FirstName              string          `json:"first_name"`
	LastName               string          `json:"last_name"`
	Email                  string          `json:"email"`
	UWAUnitCode            string          `json:"uwa_unit_code"`
	Status                 string          `json:"status"`
	Timestamp              time.Time       `json:"timestamp"`
	FirstProposedUnit      *model.UnitInfo `json:"first_proposed_unit,omitempty"`
	IncomingUnitSummary    string          `json:"incomingunit_summary"`
	LatestCommentAuthor    string          `json:"latest_comment_author"`
	LatestCommentTimestamp time.Time       `json:"latest_comment_timestamp"`
	LatestCommentText      string          `json:"latest_comment_text"`
}

// --- Interface ---

// ApplicationService orchestrates the unit-equivalence lifecycle:
// submission with auto-resolution against prior decisions, revision
// linking, comment-driven status updates and review queries.
type ApplicationService interface {
	Submit(ctx context.Context, req SubmitRequestDTO) ([]string, error)
	AddComment(ctx context.Context, applicationID, author, text, commentType string) (*CommentResult, error)
	GetApplicationView(ctx context.Context, applicationID string) (*ApplicationView, error)
	EscalateToCoordinator(ctx context.Context, applicationID, actorUsername string, recipients []string) error
	ListApplications(ctx context.Context, filter repository.ApplicationFilter, page, limit int) ([]ApplicationSummary, int64, error)
	UnlinkSupportingDocument(ctx context.Context, applicationID, ref string) (bool, error)
}

type applicationService struct {
	apps        repository.ApplicationRepository
	units       repository.IncomingUnitRepository
	comments    repository.CommentRepository
	files       repository.FileRepository
	txManager   repository.TransactionManager
	matcher     EquivalenceMatcher
	status      StatusEngine
	revisions   RevisionGraph
	catalog     UnitCatalog
	notifier    notify.Notifier
	broadcaster StatusBroadcaster // optional
}

func NewApplicationService(
	apps repository.ApplicationRepository,
	units repository.IncomingUnitRepository,
	comments repository.CommentRepository,
	files repository.FileRepository,
	txManager repository.TransactionManager,
	matcher EquivalenceMatcher,
	status StatusEngine,
	revisions RevisionGraph,
	catalog UnitCatalog,
	notifier notify.Notifier,
	broadcaster StatusBroadcaster,
) ApplicationService {
	return &applicationService{
		apps:        apps,
		units:       units,
		comments:    comments,
		files:       files,
		txManager:   txManager,
		matcher:     matcher,
		status:      status,
		revisions:   revisions,
		catalog:     catalog,
		notifier:    notifier,
		broadcaster: broadcaster,
	}
}

// --- Submit ---

func (s *applicationService) Submit(ctx context.Context, req SubmitRequestDTO) ([]string, error) {
	if err := validateSubmit(req); err != nil {
		return nil, err
	}

	originalIDs, err := parseIDList(req.OriginalIds)
	if err != nil {
		return nil, err
	}
	if len(originalIDs) > len(req.RequestedUnits) {
		return nil, apperr.New(apperr.Validation,
			"%d original ids but only %d requested units", len(originalIDs), len(req.RequestedUnits))
	}

	submittedIDs := make([]string, 0, len(req.RequestedUnits))
	newIDs := make([]uuid.UUID, 0, len(req.RequestedUnits))

	for _, entry := range req.RequestedUnits {
		incoming := buildIncomingUnits(entry)

		pairs := make([]model.UnitPair, 0, len(incoming))
		for _, u := range incoming {
			pairs = append(pairs, u.Pair())
		}

		// Prior identical decided request? Inherit its outcome.
		matched, err := s.matcher.FindEquivalentDecided(ctx, entry.UWA.Code, pairs)
		if err != nil {
			return nil, err
		}

		app := model.Application{
			FirstName:           req.FirstName,
			LastName:            req.LastName,
			Email:               req.EmailAddress,
			UWAUnitCode:         entry.UWA.Code,
			Status:              model.StatusPending,
			Submitted:           true,
			Reviewed:            true,
			Comments:            model.CommentList{},
			SupportingDocuments: model.StringList(entry.Attachments),
		}
		if matched != nil {
			app.Status = matched.Status
		}

		// Application and its owned unit records land atomically.
		err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
			if err := s.apps.Create(txCtx, &app); err != nil {
				return err
			}
			for i := range incoming {
				incoming[i].ApplicationID = app.ID
			}
			return s.units.CreateBatch(txCtx, incoming)
		})
		if err != nil {
			return nil, err
		}

		submittedIDs = append(submittedIDs, app.ID.String())
		newIDs = append(newIDs, app.ID)

		s.sendSubmissionEmails(req, entry, app)
		s.publish(app.ID.String(), app.Status)
	}

	// This submission answers a request for more information: link each
	// superseded application to its replacement and retire it.
	for i, originalID := range originalIDs {
		if err := s.revisions.Link(ctx, originalID, newIDs[i]); err != nil {
			return nil, err
		}
		if err := s.apps.MarkObsolete(ctx, originalID); err != nil {
			return nil, err
		}
		s.publish(originalID.String(), model.StatusObsolete)
	}

	return submittedIDs, nil
}

func validateSubmit(req SubmitRequestDTO) error {
	if strings.TrimSpace(req.FirstName) == "" || strings.TrimSpace(req.LastName) == "" {
		return apperr.New(apperr.Validation, "applicant name is required")
	}
	if strings.TrimSpace(req.EmailAddress) == "" {
		return apperr.New(apperr.Validation, "applicant email is required")
	}
	if len(req.RequestedUnits) == 0 {
		return apperr.New(apperr.Validation, "at least one requested unit is required")
	}
	for i, entry := range req.RequestedUnits {
		if strings.TrimSpace(entry.UWA.Code) == "" {
			return apperr.New(apperr.Validation, "requested unit %d is missing a UWA unit code", i)
		}
		if len(entry.Others) == 0 {
			return apperr.New(apperr.Validation, "requested unit %d has no external units", i)
		}
		if len(entry.OtherInstitutions) != len(entry.Others) {
			return apperr.New(apperr.Validation,
				"requested unit %d has %d institutions for %d units", i, len(entry.OtherInstitutions), len(entry.Others))
		}
		for j, other := range entry.Others {
			if strings.TrimSpace(other.Code) == "" {
				return apperr.New(apperr.Validation, "external unit %d of requested unit %d is missing a code", j, i)
			}
			if strings.TrimSpace(entry.OtherInstitutions[j]) == "" {
				return apperr.New(apperr.Validation, "external unit %d of requested unit %d is missing an institution", j, i)
			}
		}
	}
	return nil
}

func parseIDList(raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, r := range raw {
		id, err := uuid.Parse(r)
		if err != nil {
			return nil, apperr.Wrap(apperr.Validation, err, "invalid application id %q", r)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// buildIncomingUnits pairs institution names with their units by index.
func buildIncomingUnits(entry UnitEquivalenceDTO) []model.IncomingUnit {
	units := make([]model.IncomingUnit, 0, len(entry.Others))
	for i, other := range entry.Others {
		units = append(units, model.IncomingUnit{
			UniversityName:        entry.OtherInstitutions[i],
			UnitCode:              other.Code,
			UnitName:              other.Name,
			Level:                 other.Level,
			ContactHours:          other.ContactHours,
			LearningOutcomes:      other.Outcomes,
			IndicativeAssessments: other.Assessments,
			CreditPoints:          other.CreditPoints,
			OutlineLink:           other.OutlineLink,
			CompletedYear:         other.YearCompleted,
		})
	}
	return units
}

func (s *applicationService) sendSubmissionEmails(req SubmitRequestDTO, entry UnitEquivalenceDTO, app model.Application) {
	codes := make([]string, 0, len(entry.Others))
	for _, other := range entry.Others {
		codes = append(codes, other.Code)
	}
	externalCodes := strings.Join(codes, ", ")

	notify.Dispatch(s.notifier,
		"Thanks for submitting your unit equivalence request!",
		[]string{req.EmailAddress},
		fmt.Sprintf("Thanks for submitting your request for unit(s) %s to be equivalent to UWA unit %s.\n"+
			"Your application number is %s.\n"+
			"You will be contacted with the result of your application, or if more information is required.\nThanks!",
			externalCodes, app.UWAUnitCode, app.ID))

	notify.Dispatch(s.notifier,
		fmt.Sprintf("New RPL request pending for %s!", app.UWAUnitCode),
		[]string{coordinatorEmail(app.UWAUnitCode)},
		"A unit equivalence request for your unit has been made using the RPL app!\nPlease review it as soon as possible.")

	if app.IsDecided() {
		action := "approved"
		if app.Status == model.StatusReject {
			action = "rejected"
		}
		notify.Dispatch(s.notifier,
			"Automatic unit equivalence outcome",
			[]string{req.EmailAddress},
			fmt.Sprintf("Your request for unit(s) %s to be equivalent to UWA unit %s has been automatically %s based on past data.",
				externalCodes, app.UWAUnitCode, action))
	}
}

// --- AddComment ---

func (s *applicationService) AddComment(ctx context.Context, applicationID, author, text, commentType string) (*CommentResult, error) {
	appID, err := uuid.Parse(applicationID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Validation, err, "invalid application id")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperr.New(apperr.Validation, "empty comment")
	}
	if strings.TrimSpace(author) == "" {
		author = "Unknown"
	}

	app, err := s.apps.FindByID(ctx, appID)
	if err != nil {
		return nil, err
	}

	comment := model.Comment{
		ApplicationID: appID,
		Author:        author,
		Text:          text,
		Type:          NormalizeCommentType(commentType),
	}

	// Dual write: the indexable log row and the embedded copy move together.
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.comments.Create(txCtx, &comment); err != nil {
			return err
		}
		return s.apps.AppendEmbeddedComment(txCtx, appID, model.CommentEntry{
			Author:    comment.Author,
			Text:      comment.Text,
			Type:      comment.Type,
			Timestamp: comment.CreatedAt,
		})
	})
	if err != nil {
		return nil, err
	}

	newStatus, err := s.status.Recompute(ctx, appID)
	if err != nil {
		return nil, err
	}

	s.sendCommentEmails(app, text, newStatus)
	if newStatus != nil {
		s.publish(appID.String(), *newStatus)
	}

	return &CommentResult{
		Comment: CommentView{
			ApplicationID: appID.String(),
			Author:        comment.Author,
			Text:          comment.Text,
			Type:          comment.Type,
			Timestamp:     comment.CreatedAt,
		},
		Status: newStatus,
	}, nil
}

func (s *applicationService) sendCommentEmails(app *model.Application, text string, newStatus *string) {
	statusLabel := app.Status
	if newStatus != nil {
		statusLabel = *newStatus
	}

	if statusLabel == model.StatusRequestInfo {
		notify.Dispatch(s.notifier,
			"Update on your unit equivalence application",
			[]string{app.Email},
			fmt.Sprintf("Additional information has been requested for your application! Here is the request:\n\n%s\n\n"+
				"Please submit a new form using the .json file provided upon submission of most recently updated form to add this information. Thanks!",
				text))
	} else {
		notify.Dispatch(s.notifier,
			"Update on your unit equivalence application",
			[]string{app.Email},
			fmt.Sprintf("Your application is being reviewed - the current status is %s. "+
				"Here is the most recent comment made on your application:\n\n%s\n\n"+
				"If your application is reviewed further, you will receive another email. Thanks!",
				statusLabel, text))
	}

	notify.Dispatch(s.notifier,
		"An application for one of your units has been reviewed!",
		[]string{coordinatorEmail(app.UWAUnitCode)},
		fmt.Sprintf("Here is the latest review for application %s:\n\n"+
			"Current Status: %s, New Comment: %s\n\nFor more details, see the RPL website. Thanks!",
			app.ID, statusLabel, text))
}

// --- GetApplicationView ---

func (s *applicationService) GetApplicationView(ctx context.Context, applicationID string) (*ApplicationView, error) {
	appID, err := uuid.Parse(applicationID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Validation, err, "invalid application id")
	}

	app, err := s.apps.FindByIDWithUnits(ctx, appID)
	if err != nil {
		return nil, err
	}

	incoming := make([]model.UnitInfo, 0, len(app.ProposedUnits))
	for _, u := range app.ProposedUnits {
		incoming = append(incoming, model.FromIncomingUnit(u))
	}

	uwaUnit := s.resolveUWAUnit(ctx, app)

	history, err := s.revisions.ResolveHistory(ctx, appID)
	if err != nil {
		return nil, err
	}
	latest, err := s.revisions.ResolveLatest(ctx, appID)
	if err != nil {
		return nil, err
	}

	// Comment history spans every prior version of this application.
	logComments, err := s.comments.ListByApplicationIDs(ctx, history)
	if err != nil {
		return nil, err
	}
	commentViews := make([]CommentView, 0, len(logComments))
	for _, c := range logComments {
		commentViews = append(commentViews, CommentView{
			ApplicationID: c.ApplicationID.String(),
			Author:        c.Author,
			Text:          c.Text,
			Type:          c.Type,
			Timestamp:     c.CreatedAt,
		})
	}

	var previousID *string
	if len(history) > 1 {
		prev := history[1].String()
		previousID = &prev
	}

	return &ApplicationView{
		ID:       app.ID.String(),
		Status:   app.Status,
		Personal: PersonalView{FirstName: app.FirstName, Surname: app.LastName, Email: app.Email},
		Units: []UnitView{{
			UnitInfo: uwaUnit,
			Incoming: incoming,
		}},
		IncomingUnits:  incoming,
		Comments:       commentViews,
		Timestamp:      app.CreatedAt,
		PreviousID:     previousID,
		NewestVersion:  latest.String(),
		SupportingDocs: s.normalizeSupportingDocs(ctx, app.SupportingDocuments),
	}, nil
}

// resolveUWAUnit prefers a live catalog lookup, refreshing the cached
// copy on success; on failure it falls back to the cache, and as a last
// resort to a bare code with the handbook link.
func (s *applicationService) resolveUWAUnit(ctx context.Context, app *model.Application) model.UnitInfo {
	info, err := s.catalog.Lookup(ctx, app.UWAUnitCode)
	if err != nil {
		log.Printf("catalog lookup failed for %s: %v", app.UWAUnitCode, err)
	}
	if info != nil {
		if err := s.apps.SaveUnitCache(ctx, app.ID, info); err != nil {
			log.Printf("caching unit info for %s failed: %v", app.ID, err)
		}
		return *info
	}
	if app.UWAUnitCache != nil {
		return *app.UWAUnitCache
	}
	return model.UnitInfo{
		Code:       app.UWAUnitCode,
		University: "UWA",
		Outline:    "https://handbooks.uwa.edu.au/unitdetails?code=" + app.UWAUnitCode,
	}
}

// normalizeSupportingDocs turns stored references (blob ids or URLs) into
// display name/url pairs. Unresolvable references degrade instead of
// failing the response.
func (s *applicationService) normalizeSupportingDocs(ctx context.Context, refs model.StringList) []SupportingDocView {
	docs := make([]SupportingDocView, 0, len(refs))
	for _, ref := range refs {
		lower := strings.ToLower(ref)
		if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
			name := ref
			if i := strings.LastIndex(ref, "/"); i >= 0 && i < len(ref)-1 {
				name = ref[i+1:]
			}
			docs = append(docs, SupportingDocView{Name: name, URL: ref})
			continue
		}
		if fileID, err := uuid.Parse(ref); err == nil {
			name := ref
			if stored, err := s.files.Fetch(ctx, fileID); err == nil {
				name = stored.Filename
			}
			docs = append(docs, SupportingDocView{Name: name, URL: "/api/files/" + ref})
			continue
		}
		docs = append(docs, SupportingDocView{Name: ref, URL: ""})
	}
	return docs
}

// --- EscalateToCoordinator ---

func (s *applicationService) EscalateToCoordinator(ctx context.Context, applicationID, actorUsername string, recipients []string) error {
	if !strings.EqualFold(actorUsername, model.RoleStudentServices) {
		return apperr.New(apperr.Forbidden, "only studentservices can assign unit coordinator review")
	}

	appID, err := uuid.Parse(applicationID)
	if err != nil {
		return apperr.Wrap(apperr.Validation, err, "invalid application id")
	}

	app, err := s.apps.FindByID(ctx, appID)
	if err != nil {
		return err
	}

	comment := model.Comment{
		ApplicationID: appID,
		Author:        actorUsername,
		Text:          "Requested Unit Coordinator review",
		Type:          model.CommentTypePending,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.apps.UpdateFields(txCtx, appID, map[string]interface{}{
			"status":            model.StatusPending,
			"assigned_to":       "uc",
			"assigned_unitcode": app.UWAUnitCode,
		}); err != nil {
			return err
		}
		if err := s.comments.Create(txCtx, &comment); err != nil {
			return err
		}
		return s.apps.AppendEmbeddedComment(txCtx, appID, model.CommentEntry{
			Author:    comment.Author,
			Text:      comment.Text,
			Type:      comment.Type,
			Timestamp: comment.CreatedAt,
		})
	})
	if err != nil {
		return err
	}

	if len(recipients) > 0 {
		notify.Dispatch(s.notifier,
			"RPL application requires Unit Coordinator review",
			recipients,
			fmt.Sprintf("Application %s requires UC review for UWA unit %s.", appID, app.UWAUnitCode))
	}
	s.publish(appID.String(), model.StatusPending)

	return nil
}

// --- ListApplications ---

func (s *applicationService) ListApplications(ctx context.Context, filter repository.ApplicationFilter, page, limit int) ([]ApplicationSummary, int64, error) {
	apps, total, err := s.apps.List(ctx, filter, page, limit)
	if err != nil {
		return nil, 0, err
	}

	summaries := make([]ApplicationSummary, 0, len(apps))
	for _, app := range apps {
		summary := ApplicationSummary{
			ApplicationID:          app.ID.String(),
			FirstName:              app.FirstName,
			LastName:               app.LastName,
			Email:                  app.Email,
			UWAUnitCode:            app.UWAUnitCode,
			Status:                 app.Status,
			Timestamp:              app.CreatedAt,
			IncomingUnitSummary:    incomingUnitSummary(app.ProposedUnits),
			LatestCommentAuthor:    "N/A",
			LatestCommentTimestamp: app.CreatedAt,
			LatestCommentText:      "N/A",
		}
		if len(app.ProposedUnits) > 0 {
			first := model.FromIncomingUnit(app.ProposedUnits[0])
			summary.FirstProposedUnit = &first
		}
		if latest, err := s.comments.FindLatest(ctx, app.ID); err == nil && latest != nil {
			summary.LatestCommentAuthor = latest.Author
			summary.LatestCommentTimestamp = latest.CreatedAt
			summary.LatestCommentText = latest.Text
		}
		summaries = append(summaries, summary)
	}

	return summaries, total, nil
}

func incomingUnitSummary(units []model.IncomingUnit) string {
	parts := make([]string, 0, len(units))
	for _, u := range units {
		parts = append(parts, fmt.Sprintf("%s: %s (%s)", u.UniversityName, u.UnitName, u.UnitCode))
	}
	return strings.Join(parts, " and ")
}

// --- UnlinkSupportingDocument ---

func (s *applicationService) UnlinkSupportingDocument(ctx context.Context, applicationID, ref string) (bool, error) {
	appID, err := uuid.Parse(applicationID)
	if err != nil {
		return false, apperr.Wrap(apperr.Validation, err, "invalid application id")
	}
	if strings.TrimSpace(ref) == "" {
		return false, apperr.New(apperr.Validation, "missing fileId")
	}
	// The blob itself is kept; only the reference goes away.
	return s.apps.RemoveSupportingDocument(ctx, appID, ref)
}

// --- helpers ---

func coordinatorEmail(unitCode string) string {
	return unitCode + "_coordinator@uwa.edu.au"
}

func (s *applicationService) publish(applicationID, status string) {
	if s.broadcaster != nil {
		s.broadcaster.PublishApplicationUpdate(applicationID, status)
	}
}
