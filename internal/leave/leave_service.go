package leave

import (
	"context"
	"errors"
	"strings"
	"time"

	"go-leave-portal/internal/approvaltoken"
	"go-leave-portal/internal/balance"
	"go-leave-portal/internal/domain"
	"go-leave-portal/internal/employee"
	"go-leave-portal/internal/events"
	leaveerrors "go-leave-portal/internal/leave/errors"
	"go-leave-portal/internal/messaging/kafka"
	"go-leave-portal/internal/permission"
	"go-leave-portal/internal/shared/apperror"
	"go-leave-portal/internal/shared/contextutil"
	"go-leave-portal/internal/shared/dbtx"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PermissionChecker is the slice of the permission engine the lifecycle uses.
type PermissionChecker interface {
	Require(ctx context.Context, userID, key string) error
	CheckAny(ctx context.Context, userID string, keys ...string) bool
}

type TierPolicy interface {
	Require(role string, tier domain.Tier) error
}

type BalanceLedger interface {
	CheckSufficient(ctx context.Context, employeeID, leaveType string, year, days int) error
	Debit(ctx context.Context, employeeID, leaveType string, year, days int) (balance.BalanceResponse, error)
}

type EmployeeDirectory interface {
	FindByID(ctx context.Context, id string) (*employee.Employee, error)
}

// Notifier pushes a lifecycle event to connected clients. Delivery is best
// effort and never affects the outcome of an operation.
type Notifier interface {
	NotifyLeave(ctx context.Context, event events.LeaveEvent)
}

type Service interface {
	Create(ctx context.Context, actor domain.Actor, req CreateLeaveRequest) (LeaveResponse, error)
	Update(ctx context.Context, actor domain.Actor, id string, req UpdateLeaveRequest) (LeaveResponse, error)
	Delete(ctx context.Context, actor domain.Actor, id string) error
	GetByID(ctx context.Context, actor domain.Actor, id string) (LeaveResponse, error)
	ListMine(ctx context.Context, actor domain.Actor) ([]LeaveResponse, error)
	ListHODWorklist(ctx context.Context, actor domain.Actor, status string) ([]LeaveResponse, error)
	ListAdminWorklist(ctx context.Context, actor domain.Actor, status string) ([]LeaveResponse, error)

	DecideHOD(ctx context.Context, actor domain.Actor, id string, req DecisionRequest) (LeaveResponse, error)
	DecideAdmin(ctx context.Context, actor domain.Actor, id string, req DecisionRequest) (LeaveResponse, error)
	BulkDecide(ctx context.Context, actor domain.Actor, req BulkDecisionRequest) (BulkDecisionResult, error)

	IssueApprovalToken(ctx context.Context, actor domain.Actor, id string, req IssueTokenRequest) (ApprovalTokenResponse, error)
	ConsumeApprovalToken(ctx context.Context, token string) (LeaveResponse, error)
}

type Deps struct {
	Repo      Repository
	Tx        dbtx.Manager
	Perms     PermissionChecker
	Tiers     TierPolicy
	Ledger    BalanceLedger
	Employees EmployeeDirectory
	Outbox    kafka.OutboxRepository
	Tokens    approvaltoken.Store
	Notifier  Notifier
}

type service struct {
	Deps
	now    func() time.Time
	logger *zap.Logger
}

func NewService(deps Deps, logger ...*zap.Logger) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{
		Deps:   deps,
		now:    func() time.Time { return time.Now().UTC() },
		logger: l,
	}
}

func (s *service) log(ctx context.Context) *zap.Logger {
	return contextutil.Logger(ctx, s.logger)
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(v))
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return t, nil
}

type validatedDetails struct {
	leaveType string
	start     time.Time
	end       time.Time
	days      int
	reason    string
}

func validateDetails(req CreateLeaveRequest) (validatedDetails, error) {
	leaveType := strings.TrimSpace(req.LeaveType)
	if leaveType == "" {
		return validatedDetails{}, leaveerrors.ErrLeaveTypeRequired
	}
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return validatedDetails{}, leaveerrors.ErrReasonRequired
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		return validatedDetails{}, err
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return validatedDetails{}, err
	}
	if start.After(end) {
		return validatedDetails{}, leaveerrors.ErrInvalidDateRange
	}
	return validatedDetails{
		leaveType: leaveType,
		start:     start,
		end:       end,
		days:      CountDays(start, end),
		reason:    reason,
	}, nil
}

func parseActor(actor domain.Actor) (uuid.UUID, error) {
	id, err := uuid.Parse(actor.UserID)
	if err != nil {
		return uuid.Nil, leaveerrors.ErrInvalidActorID
	}
	return id, nil
}

func (s *service) findLeave(ctx context.Context, id string) (*LeaveApplication, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, leaveerrors.ErrInvalidLeaveID
	}
	l, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, leaveerrors.ErrLeaveNotFound
		}
		s.log(ctx).Error("find leave failed", zap.String("leave_id", id), zap.Error(err))
		return nil, apperror.Storage(err)
	}
	return l, nil
}

// checkOverlap returns OverlapConflict naming the colliding leave.
func (s *service) checkOverlap(ctx context.Context, employeeID string, d validatedDetails, excludeID *string) error {
	existing, err := s.Repo.FindOverlap(ctx, employeeID, d.start, d.end, excludeID)
	if err != nil {
		s.log(ctx).Error("overlap check failed", zap.String("employee_id", employeeID), zap.Error(err))
		return apperror.Storage(err)
	}
	if existing != nil {
		s.log(ctx).Warn("leave overlap detected",
			zap.String("employee_id", employeeID),
			zap.String("conflicting_leave_id", existing.ID.String()),
			zap.String("start_date", d.start.Format(dateLayout)),
			zap.String("end_date", d.end.Format(dateLayout)),
		)
		return leaveerrors.ErrOverlapConflict.WithDetails(mapToOverlapDetails(*existing))
	}
	return nil
}

func isExclusionViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23P01"
}

// errStorageOverlap marks a write the exclusion constraint refused. It never
// leaves the service; overlapAfterConflict turns it into ErrOverlapConflict.
var errStorageOverlap = errors.New("leave overlap rejected by storage")

// overlapAfterConflict reads the committed conflicting leave once the failed
// transaction is gone, so the conflict carries the same details as the
// pre-check.
func (s *service) overlapAfterConflict(ctx context.Context, employeeID string, d validatedDetails, excludeID *string) error {
	existing, err := s.Repo.FindOverlap(ctx, employeeID, d.start, d.end, excludeID)
	if err != nil || existing == nil {
		if err != nil {
			s.log(ctx).Warn("overlap details lookup failed", zap.String("employee_id", employeeID), zap.Error(err))
		}
		return leaveerrors.ErrOverlapConflict
	}
	return leaveerrors.ErrOverlapConflict.WithDetails(mapToOverlapDetails(*existing))
}

func (s *service) writeEvent(ctx context.Context, eventType string, l LeaveApplication, actorID string) (events.LeaveEvent, error) {
	ev := events.LeaveEvent{
		EventType:   eventType,
		LeaveID:     l.ID.String(),
		EmployeeID:  l.EmployeeID.String(),
		LeaveType:   l.LeaveType,
		StartDate:   l.StartDate.Format(dateLayout),
		EndDate:     l.EndDate.Format(dateLayout),
		HODStatus:   string(l.HODStatus),
		AdminStatus: string(l.AdminStatus),
		ActorID:     actorID,
		OccurredAt:  s.now(),
	}
	if s.Outbox == nil {
		return ev, nil
	}
	outboxEvent, err := kafka.NewOutboxEvent(ctx, "leave", ev.LeaveID, eventType, events.LeaveLifecycleTopic, ev)
	if err != nil {
		return ev, apperror.Storage(err)
	}
	if err := s.Outbox.Create(ctx, outboxEvent); err != nil {
		s.log(ctx).Error("write leave outbox event failed",
			zap.String("leave_id", ev.LeaveID),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return ev, apperror.Storage(err)
	}
	return ev, nil
}

func (s *service) notify(ctx context.Context, ev events.LeaveEvent) {
	if s.Notifier == nil {
		return
	}
	s.Notifier.NotifyLeave(ctx, ev)
}

func (s *service) Create(ctx context.Context, actor domain.Actor, req CreateLeaveRequest) (LeaveResponse, error) {
	s.log(ctx).Debug("create leave requested",
		zap.String("actor_id", actor.UserID),
		zap.String("leave_type", req.LeaveType),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	employeeID, err := parseActor(actor)
	if err != nil {
		return LeaveResponse{}, err
	}
	d, err := validateDetails(req)
	if err != nil {
		s.log(ctx).Warn("create leave validation failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := s.Perms.Require(ctx, actor.UserID, permission.KeyLeaveCreate); err != nil {
		return LeaveResponse{}, err
	}

	if _, err := s.Employees.FindByID(ctx, actor.UserID); err != nil {
		if employee.IsNotFound(err) {
			return LeaveResponse{}, leaveerrors.ErrEmployeeNotFound
		}
		return LeaveResponse{}, apperror.Storage(err)
	}

	if err := s.checkOverlap(ctx, actor.UserID, d, nil); err != nil {
		return LeaveResponse{}, err
	}

	if err := s.Ledger.CheckSufficient(ctx, actor.UserID, d.leaveType, balance.YearOf(d.start), d.days); err != nil {
		return LeaveResponse{}, err
	}

	l := &LeaveApplication{
		ID:           uuid.New(),
		EmployeeID:   employeeID,
		LeaveType:    d.leaveType,
		StartDate:    d.start,
		EndDate:      d.end,
		NumberOfDays: d.days,
		Reason:       d.reason,
		HODStatus:    StatusPending,
		AdminStatus:  StatusPending,
	}

	var ev events.LeaveEvent
	err = s.Tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.Repo.Create(txCtx, l); err != nil {
			if isExclusionViolation(err) {
				s.log(ctx).Warn("create leave overlap rejected by storage", zap.String("employee_id", actor.UserID))
				return errStorageOverlap
			}
			s.log(ctx).Error("create leave persist failed", zap.Error(err))
			return apperror.Storage(err)
		}
		var err error
		ev, err = s.writeEvent(txCtx, events.LeaveCreated, *l, actor.UserID)
		return err
	})
	if errors.Is(err, errStorageOverlap) {
		return LeaveResponse{}, s.overlapAfterConflict(ctx, actor.UserID, d, nil)
	}
	if err != nil {
		return LeaveResponse{}, err
	}

	s.log(ctx).Info("create leave success",
		zap.String("leave_id", l.ID.String()),
		zap.String("employee_id", actor.UserID),
		zap.Int("number_of_days", l.NumberOfDays),
	)
	s.notify(ctx, ev)
	return mapToResponse(*l), nil
}

// frozenOrMissing explains why a conditional owner write matched no row.
func (s *service) frozenOrMissing(ctx context.Context, id string) error {
	l, err := s.findLeave(ctx, id)
	if err != nil {
		return err
	}
	if l.HODStatus != StatusPending {
		return leaveerrors.ErrLeaveFrozen
	}
	return leaveerrors.ErrNotOwner
}

func (s *service) Update(ctx context.Context, actor domain.Actor, id string, req UpdateLeaveRequest) (LeaveResponse, error) {
	s.log(ctx).Debug("update leave requested", zap.String("leave_id", id), zap.String("actor_id", actor.UserID))

	if _, err := parseActor(actor); err != nil {
		return LeaveResponse{}, err
	}
	d, err := validateDetails(req)
	if err != nil {
		s.log(ctx).Warn("update leave validation failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	l, err := s.findLeave(ctx, id)
	if err != nil {
		return LeaveResponse{}, err
	}
	if l.EmployeeID.String() != actor.UserID {
		return LeaveResponse{}, leaveerrors.ErrNotOwner
	}
	if l.HODStatus != StatusPending {
		return LeaveResponse{}, leaveerrors.ErrLeaveFrozen
	}

	if err := s.checkOverlap(ctx, actor.UserID, d, &id); err != nil {
		return LeaveResponse{}, err
	}
	if err := s.Ledger.CheckSufficient(ctx, actor.UserID, d.leaveType, balance.YearOf(d.start), d.days); err != nil {
		return LeaveResponse{}, err
	}

	var ev events.LeaveEvent
	err = s.Tx.RunInTx(ctx, func(txCtx context.Context) error {
		n, err := s.Repo.UpdateDetailsIfHODPending(txCtx, id, actor.UserID, DetailsUpdate{
			LeaveType:    d.leaveType,
			StartDate:    d.start,
			EndDate:      d.end,
			NumberOfDays: d.days,
			Reason:       d.reason,
		})
		if err != nil {
			if isExclusionViolation(err) {
				s.log(ctx).Warn("update leave overlap rejected by storage", zap.String("leave_id", id))
				return errStorageOverlap
			}
			s.log(ctx).Error("update leave persist failed", zap.String("leave_id", id), zap.Error(err))
			return apperror.Storage(err)
		}
		if n == 0 {
			return s.frozenOrMissing(txCtx, id)
		}

		l.LeaveType = d.leaveType
		l.StartDate = d.start
		l.EndDate = d.end
		l.NumberOfDays = d.days
		l.Reason = d.reason

		ev, err = s.writeEvent(txCtx, events.LeaveUpdated, *l, actor.UserID)
		return err
	})
	if errors.Is(err, errStorageOverlap) {
		return LeaveResponse{}, s.overlapAfterConflict(ctx, actor.UserID, d, &id)
	}
	if err != nil {
		return LeaveResponse{}, err
	}

	s.log(ctx).Info("update leave success", zap.String("leave_id", id))
	s.notify(ctx, ev)
	return mapToResponse(*l), nil
}

func (s *service) Delete(ctx context.Context, actor domain.Actor, id string) error {
	s.log(ctx).Debug("delete leave requested", zap.String("leave_id", id), zap.String("actor_id", actor.UserID))

	if _, err := parseActor(actor); err != nil {
		return err
	}
	l, err := s.findLeave(ctx, id)
	if err != nil {
		return err
	}
	if l.EmployeeID.String() != actor.UserID {
		return leaveerrors.ErrNotOwner
	}
	if l.HODStatus != StatusPending {
		return leaveerrors.ErrLeaveFrozen
	}

	var ev events.LeaveEvent
	err = s.Tx.RunInTx(ctx, func(txCtx context.Context) error {
		n, err := s.Repo.DeleteIfHODPending(txCtx, id, actor.UserID)
		if err != nil {
			s.log(ctx).Error("delete leave persist failed", zap.String("leave_id", id), zap.Error(err))
			return apperror.Storage(err)
		}
		if n == 0 {
			return s.frozenOrMissing(txCtx, id)
		}
		ev, err = s.writeEvent(txCtx, events.LeaveDeleted, *l, actor.UserID)
		return err
	})
	if err != nil {
		return err
	}

	s.log(ctx).Info("delete leave success", zap.String("leave_id", id))
	s.notify(ctx, ev)
	return nil
}

func (s *service) GetByID(ctx context.Context, actor domain.Actor, id string) (LeaveResponse, error) {
	l, err := s.findLeave(ctx, id)
	if err != nil {
		return LeaveResponse{}, err
	}
	if l.EmployeeID.String() != actor.UserID &&
		!s.Perms.CheckAny(ctx, actor.UserID, permission.KeyLeaveViewAll, permission.KeyLeaveApprove) {
		return LeaveResponse{}, apperror.PermissionDenied(permission.KeyLeaveViewAll)
	}
	return mapToResponse(*l), nil
}

func (s *service) ListMine(ctx context.Context, actor domain.Actor) ([]LeaveResponse, error) {
	if _, err := parseActor(actor); err != nil {
		return nil, err
	}
	leaves, err := s.Repo.ListByEmployee(ctx, actor.UserID)
	if err != nil {
		s.log(ctx).Error("list leaves failed", zap.String("employee_id", actor.UserID), zap.Error(err))
		return nil, apperror.Storage(err)
	}
	return mapToListResponse(leaves), nil
}

func parseStatusFilter(status string) (ApprovalStatus, error) {
	if status == "" {
		return StatusPending, nil
	}
	for _, st := range []ApprovalStatus{StatusPending, StatusApproved, StatusRejected} {
		if strings.EqualFold(status, string(st)) {
			return st, nil
		}
	}
	return "", apperror.InvalidField("Status")
}

func (s *service) requireApprover(ctx context.Context, actor domain.Actor, tier domain.Tier) error {
	if err := s.Perms.Require(ctx, actor.UserID, permission.KeyLeaveApprove); err != nil {
		return err
	}
	return s.Tiers.Require(actor.Role, tier)
}

// ListHODWorklist is scoped to the HOD's department when they have one.
func (s *service) ListHODWorklist(ctx context.Context, actor domain.Actor, status string) ([]LeaveResponse, error) {
	st, err := parseStatusFilter(status)
	if err != nil {
		return nil, err
	}
	if err := s.requireApprover(ctx, actor, domain.TierHOD); err != nil {
		return nil, err
	}

	hod, err := s.Employees.FindByID(ctx, actor.UserID)
	if err != nil {
		if employee.IsNotFound(err) {
			return nil, leaveerrors.ErrEmployeeNotFound
		}
		return nil, apperror.Storage(err)
	}
	var departmentID *string
	if hod.DepartmentID != nil {
		v := hod.DepartmentID.String()
		departmentID = &v
	}

	leaves, err := s.Repo.ListByHODStatus(ctx, st, departmentID)
	if err != nil {
		s.log(ctx).Error("list hod worklist failed", zap.Error(err))
		return nil, apperror.Storage(err)
	}
	return mapToListResponse(leaves), nil
}

func (s *service) ListAdminWorklist(ctx context.Context, actor domain.Actor, status string) ([]LeaveResponse, error) {
	st, err := parseStatusFilter(status)
	if err != nil {
		return nil, err
	}
	if err := s.requireApprover(ctx, actor, domain.TierAdmin); err != nil {
		return nil, err
	}

	leaves, err := s.Repo.ListByAdminStatus(ctx, st)
	if err != nil {
		s.log(ctx).Error("list admin worklist failed", zap.Error(err))
		return nil, apperror.Storage(err)
	}
	return mapToListResponse(leaves), nil
}

func (s *service) DecideHOD(ctx context.Context, actor domain.Actor, id string, req DecisionRequest) (LeaveResponse, error) {
	return s.decideAuthorized(ctx, actor, id, domain.TierHOD, domain.Decision(req.Action), req.Comment)
}

func (s *service) DecideAdmin(ctx context.Context, actor domain.Actor, id string, req DecisionRequest) (LeaveResponse, error) {
	return s.decideAuthorized(ctx, actor, id, domain.TierAdmin, domain.Decision(req.Action), req.Comment)
}

func (s *service) decideAuthorized(ctx context.Context, actor domain.Actor, id string, tier domain.Tier, action domain.Decision, comment string) (LeaveResponse, error) {
	if !tier.Valid() {
		return LeaveResponse{}, leaveerrors.ErrInvalidTier
	}
	if !action.Valid() {
		return LeaveResponse{}, leaveerrors.ErrInvalidDecision
	}
	if err := s.requireApprover(ctx, actor, tier); err != nil {
		return LeaveResponse{}, err
	}
	return s.decide(ctx, actor, id, tier, action, comment)
}

// decide applies one tier decision. The status write, the debit on full
// approval and the outbox event commit together or not at all.
func (s *service) decide(ctx context.Context, actor domain.Actor, id string, tier domain.Tier, action domain.Decision, comment string) (LeaveResponse, error) {
	s.log(ctx).Debug("leave decision requested",
		zap.String("leave_id", id),
		zap.String("actor_id", actor.UserID),
		zap.String("tier", string(tier)),
		zap.String("action", string(action)),
	)

	approverID, err := parseActor(actor)
	if err != nil {
		return LeaveResponse{}, err
	}

	status := StatusApproved
	if action == domain.DecisionReject {
		status = StatusRejected
	}
	var commentPtr *string
	if c := strings.TrimSpace(comment); c != "" {
		commentPtr = &c
	}

	var (
		l  *LeaveApplication
		ev events.LeaveEvent
	)
	err = s.Tx.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		l, err = s.findLeave(txCtx, id)
		if err != nil {
			return err
		}
		if l.EmployeeID == approverID {
			return leaveerrors.ErrSelfDecision
		}
		if tier == domain.TierHOD {
			if err := s.requireSameDepartment(txCtx, actor.UserID, l.EmployeeID.String()); err != nil {
				return err
			}
		}

		current := l.Approval().Of(tier)
		if current != StatusPending {
			s.log(ctx).Warn("leave decision already processed",
				zap.String("leave_id", id),
				zap.String("tier", string(tier)),
				zap.String("status", string(current)),
			)
			return leaveerrors.ErrAlreadyProcessed.WithDetails(StatusDetails{Tier: string(tier), Status: string(current)})
		}
		if tier == domain.TierAdmin && l.HODStatus != StatusApproved {
			s.log(ctx).Warn("admin decision before hod approval",
				zap.String("leave_id", id),
				zap.String("hod_status", string(l.HODStatus)),
			)
			return leaveerrors.ErrHODDecisionRequired.WithDetails(StatusDetails{Tier: string(domain.TierHOD), Status: string(l.HODStatus)})
		}

		decidedAt := s.now()
		n, err := s.Repo.Decide(txCtx, id, tier, TierDecision{
			Status:     status,
			ApproverID: approverID,
			Comment:    commentPtr,
			DecidedAt:  decidedAt,
		})
		if err != nil {
			s.log(ctx).Error("leave decision persist failed", zap.String("leave_id", id), zap.Error(err))
			return apperror.Storage(err)
		}
		if n == 0 {
			// Lost a race against a concurrent decision on the same tier.
			return leaveerrors.ErrAlreadyProcessed.WithDetails(StatusDetails{Tier: string(tier)})
		}

		switch tier {
		case domain.TierHOD:
			l.HODStatus, l.ApprovedByHOD, l.HODDecidedAt, l.HODComment = status, &approverID, &decidedAt, commentPtr
		case domain.TierAdmin:
			l.AdminStatus, l.ApprovedByAdmin, l.AdminDecidedAt, l.AdminComment = status, &approverID, &decidedAt, commentPtr
		}

		if l.Approval().IsFullyApproved() {
			if _, err := s.Ledger.Debit(txCtx, l.EmployeeID.String(), l.LeaveType, balance.YearOf(l.StartDate), l.NumberOfDays); err != nil {
				s.log(ctx).Warn("leave debit failed, rolling back decision",
					zap.String("leave_id", id),
					zap.String("code", apperror.CodeOf(err)),
				)
				return err
			}
		}

		ev, err = s.writeEvent(txCtx, decisionEventType(tier, status), *l, actor.UserID)
		return err
	})
	if err != nil {
		return LeaveResponse{}, err
	}

	s.log(ctx).Info("leave decision success",
		zap.String("leave_id", id),
		zap.String("tier", string(tier)),
		zap.String("status", string(status)),
		zap.Bool("fully_approved", l.Approval().IsFullyApproved()),
	)
	s.notify(ctx, ev)
	return mapToResponse(*l), nil
}

// requireSameDepartment mirrors the HOD worklist scope: an approver with a
// department decides only leave of employees in that department.
func (s *service) requireSameDepartment(ctx context.Context, approverID, applicantID string) error {
	approver, err := s.Employees.FindByID(ctx, approverID)
	if err != nil {
		if employee.IsNotFound(err) {
			return leaveerrors.ErrEmployeeNotFound
		}
		return apperror.Storage(err)
	}
	if approver.DepartmentID == nil {
		return nil
	}
	applicant, err := s.Employees.FindByID(ctx, applicantID)
	if err != nil {
		if employee.IsNotFound(err) {
			return leaveerrors.ErrEmployeeNotFound
		}
		return apperror.Storage(err)
	}
	if applicant.DepartmentID == nil || *applicant.DepartmentID != *approver.DepartmentID {
		s.log(ctx).Warn("hod decision outside department",
			zap.String("approver_id", approverID),
			zap.String("applicant_id", applicantID),
		)
		return leaveerrors.ErrOutsideDepartment
	}
	return nil
}

func decisionEventType(tier domain.Tier, status ApprovalStatus) string {
	switch {
	case tier == domain.TierHOD && status == StatusApproved:
		return events.LeaveHODApproved
	case tier == domain.TierHOD:
		return events.LeaveHODRejected
	case status == StatusApproved:
		return events.LeaveAdminApproved
	default:
		return events.LeaveAdminRejected
	}
}

// BulkDecide runs each id in its own unit of work; one failure never stops the
// rest of the batch.
func (s *service) BulkDecide(ctx context.Context, actor domain.Actor, req BulkDecisionRequest) (BulkDecisionResult, error) {
	tier := domain.Tier(req.Tier)
	action := domain.Decision(req.Action)
	if !tier.Valid() {
		return BulkDecisionResult{}, leaveerrors.ErrInvalidTier
	}
	if !action.Valid() {
		return BulkDecisionResult{}, leaveerrors.ErrInvalidDecision
	}
	if err := s.requireApprover(ctx, actor, tier); err != nil {
		return BulkDecisionResult{}, err
	}

	result := BulkDecisionResult{Succeeded: []string{}, Failed: []BulkFailure{}}
	seen := make(map[string]struct{}, len(req.IDs))
	for _, id := range req.IDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		if _, err := s.decide(ctx, actor, id, tier, action, req.Comment); err != nil {
			httpErr := apperror.ToHTTP(err)
			result.Failed = append(result.Failed, BulkFailure{ID: id, Code: httpErr.Code, Reason: httpErr.Message})
			continue
		}
		result.Succeeded = append(result.Succeeded, id)
	}

	s.log(ctx).Info("bulk leave decision finished",
		zap.String("actor_id", actor.UserID),
		zap.String("tier", req.Tier),
		zap.Int("succeeded", len(result.Succeeded)),
		zap.Int("failed", len(result.Failed)),
	)
	return result, nil
}

// IssueApprovalToken lets the applicant (or an admin) send a one-time decision
// link to an approver eligible for the tier.
func (s *service) IssueApprovalToken(ctx context.Context, actor domain.Actor, id string, req IssueTokenRequest) (ApprovalTokenResponse, error) {
	tier := domain.Tier(req.Tier)
	action := domain.Decision(req.Action)
	if !tier.Valid() {
		return ApprovalTokenResponse{}, leaveerrors.ErrInvalidTier
	}
	if !action.Valid() {
		return ApprovalTokenResponse{}, leaveerrors.ErrInvalidDecision
	}

	l, err := s.findLeave(ctx, id)
	if err != nil {
		return ApprovalTokenResponse{}, err
	}
	if l.EmployeeID.String() != actor.UserID && actor.Role != employee.RoleAdmin {
		return ApprovalTokenResponse{}, leaveerrors.ErrNotOwner
	}
	if current := l.Approval().Of(tier); current != StatusPending {
		return ApprovalTokenResponse{}, leaveerrors.ErrAlreadyProcessed.WithDetails(StatusDetails{Tier: string(tier), Status: string(current)})
	}
	if tier == domain.TierAdmin && l.HODStatus != StatusApproved {
		return ApprovalTokenResponse{}, leaveerrors.ErrHODDecisionRequired
	}

	approver, err := s.Employees.FindByID(ctx, req.ApproverID)
	if err != nil {
		if employee.IsNotFound(err) {
			return ApprovalTokenResponse{}, leaveerrors.ErrEmployeeNotFound
		}
		return ApprovalTokenResponse{}, apperror.Storage(err)
	}
	if approver.ID == l.EmployeeID || s.Tiers.Require(approver.Role, tier) != nil {
		return ApprovalTokenResponse{}, leaveerrors.ErrApproverNotEligible
	}
	if tier == domain.TierHOD {
		if err := s.requireSameDepartment(ctx, approver.ID.String(), l.EmployeeID.String()); err != nil {
			return ApprovalTokenResponse{}, err
		}
	}

	token, expiresAt, err := s.Tokens.Issue(ctx, approvaltoken.Grant{
		LeaveID:    l.ID.String(),
		Tier:       tier,
		Action:     action,
		ApproverID: approver.ID.String(),
	})
	if err != nil {
		return ApprovalTokenResponse{}, err
	}
	return ApprovalTokenResponse{
		LeaveID:   l.ID.String(),
		Token:     token,
		ExpiresAt: expiresAt.UTC().Format(time.RFC3339),
	}, nil
}

// ConsumeApprovalToken performs the decision encoded in the link as the
// approver it was issued to. The approver's permission and tier eligibility
// are checked again against current data.
func (s *service) ConsumeApprovalToken(ctx context.Context, token string) (LeaveResponse, error) {
	g, err := s.Tokens.Consume(ctx, token)
	if err != nil {
		return LeaveResponse{}, err
	}

	approver, err := s.Employees.FindByID(ctx, g.ApproverID)
	if err != nil {
		if employee.IsNotFound(err) {
			return LeaveResponse{}, leaveerrors.ErrEmployeeNotFound
		}
		return LeaveResponse{}, apperror.Storage(err)
	}
	actor := domain.Actor{UserID: approver.ID.String(), Role: approver.Role}

	s.log(ctx).Info("approval token consumed",
		zap.String("leave_id", g.LeaveID),
		zap.String("tier", string(g.Tier)),
		zap.String("approver_id", actor.UserID),
	)
	return s.decideAuthorized(ctx, actor, g.LeaveID, g.Tier, g.Action, "")
}
