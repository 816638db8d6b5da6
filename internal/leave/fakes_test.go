package leave_test

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go-leave-portal/internal/approvaltoken"
	approvaltokenerrors "go-leave-portal/internal/approvaltoken/errors"
	"go-leave-portal/internal/balance"
	"go-leave-portal/internal/domain"
	"go-leave-portal/internal/employee"
	"go-leave-portal/internal/events"
	"go-leave-portal/internal/leave"
	"go-leave-portal/internal/messaging/kafka"
	"go-leave-portal/internal/rbac"
	"go-leave-portal/internal/shared/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// store backs both fake repositories so one fake transaction can roll back
// leave rows and balance rows together.
type store struct {
	leaves   map[string]leave.LeaveApplication
	balances map[string]balance.LeaveBalance
	outbox   []kafka.OutboxEvent

	// writeErr fails the next Create or UpdateDetailsIfHODPending.
	writeErr error
	// staleOverlapReads makes that many FindOverlap calls miss, as a read
	// taken before a concurrent insert committed would.
	staleOverlapReads int
	// beforeDecide runs inside Decide before the conditional write, standing
	// in for a concurrent transaction that commits first.
	beforeDecide func(id string)
}

func newStore() *store {
	return &store{
		leaves:   map[string]leave.LeaveApplication{},
		balances: map[string]balance.LeaveBalance{},
	}
}

func balanceKey(employeeID, leaveType string, year int) string {
	return fmt.Sprintf("%s|%s|%d", employeeID, leaveType, year)
}

func (s *store) seedBalance(employeeID uuid.UUID, leaveType string, year int, total, used int64) {
	s.balances[balanceKey(employeeID.String(), leaveType, year)] = balance.LeaveBalance{
		ID:         uuid.New(),
		EmployeeID: employeeID,
		LeaveType:  leaveType,
		Year:       year,
		Total:      decimal.NewFromInt(total),
		Used:       decimal.NewFromInt(used),
	}
}

func (s *store) balanceOf(employeeID uuid.UUID, leaveType string, year int) balance.LeaveBalance {
	return s.balances[balanceKey(employeeID.String(), leaveType, year)]
}

type snapshot struct {
	leaves   map[string]leave.LeaveApplication
	balances map[string]balance.LeaveBalance
	outbox   int
}

func (s *store) snapshot() snapshot {
	snap := snapshot{
		leaves:   make(map[string]leave.LeaveApplication, len(s.leaves)),
		balances: make(map[string]balance.LeaveBalance, len(s.balances)),
		outbox:   len(s.outbox),
	}
	for k, v := range s.leaves {
		snap.leaves[k] = v
	}
	for k, v := range s.balances {
		snap.balances[k] = v
	}
	return snap
}

func (s *store) restore(snap snapshot) {
	s.leaves = snap.leaves
	s.balances = snap.balances
	s.outbox = s.outbox[:snap.outbox]
}

type fakeTx struct {
	st *store
}

func (f fakeTx) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	snap := f.st.snapshot()
	if err := fn(ctx); err != nil {
		f.st.restore(snap)
		return err
	}
	return nil
}

type fakeLeaveRepo struct {
	st *store
}

func (r fakeLeaveRepo) takeWriteErr() error {
	err := r.st.writeErr
	r.st.writeErr = nil
	return err
}

func (r fakeLeaveRepo) Create(_ context.Context, l *leave.LeaveApplication) error {
	if err := r.takeWriteErr(); err != nil {
		return err
	}
	l.CreatedAt = time.Date(2026, 1, 2, 9, 0, 0, 0, time.UTC)
	r.st.leaves[l.ID.String()] = *l
	return nil
}

func (r fakeLeaveRepo) FindByID(_ context.Context, id string) (*leave.LeaveApplication, error) {
	l, ok := r.st.leaves[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &l, nil
}

func (r fakeLeaveRepo) sorted() []leave.LeaveApplication {
	out := make([]leave.LeaveApplication, 0, len(r.st.leaves))
	for _, l := range r.st.leaves {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out
}

func (r fakeLeaveRepo) FindOverlap(_ context.Context, employeeID string, start, end time.Time, excludeID *string) (*leave.LeaveApplication, error) {
	if r.st.staleOverlapReads > 0 {
		r.st.staleOverlapReads--
		return nil, nil
	}
	for _, l := range r.sorted() {
		if l.EmployeeID.String() != employeeID || l.Approval().IsRejected() {
			continue
		}
		if excludeID != nil && l.ID.String() == *excludeID {
			continue
		}
		if !l.StartDate.After(end) && !l.EndDate.Before(start) {
			return &l, nil
		}
	}
	return nil, nil
}

func (r fakeLeaveRepo) UpdateDetailsIfHODPending(_ context.Context, id, employeeID string, u leave.DetailsUpdate) (int64, error) {
	if err := r.takeWriteErr(); err != nil {
		return 0, err
	}
	l, ok := r.st.leaves[id]
	if !ok || l.EmployeeID.String() != employeeID || l.HODStatus != leave.StatusPending {
		return 0, nil
	}
	l.LeaveType, l.StartDate, l.EndDate, l.NumberOfDays, l.Reason = u.LeaveType, u.StartDate, u.EndDate, u.NumberOfDays, u.Reason
	r.st.leaves[id] = l
	return 1, nil
}

func (r fakeLeaveRepo) DeleteIfHODPending(_ context.Context, id, employeeID string) (int64, error) {
	l, ok := r.st.leaves[id]
	if !ok || l.EmployeeID.String() != employeeID || l.HODStatus != leave.StatusPending {
		return 0, nil
	}
	delete(r.st.leaves, id)
	return 1, nil
}

func (r fakeLeaveRepo) Decide(_ context.Context, id string, tier domain.Tier, d leave.TierDecision) (int64, error) {
	if r.st.beforeDecide != nil {
		r.st.beforeDecide(id)
	}
	l, ok := r.st.leaves[id]
	if !ok {
		return 0, nil
	}
	approver := d.ApproverID
	decidedAt := d.DecidedAt
	switch tier {
	case domain.TierHOD:
		if l.HODStatus != leave.StatusPending {
			return 0, nil
		}
		l.HODStatus, l.ApprovedByHOD, l.HODDecidedAt, l.HODComment = d.Status, &approver, &decidedAt, d.Comment
	case domain.TierAdmin:
		if l.AdminStatus != leave.StatusPending || l.HODStatus != leave.StatusApproved {
			return 0, nil
		}
		l.AdminStatus, l.ApprovedByAdmin, l.AdminDecidedAt, l.AdminComment = d.Status, &approver, &decidedAt, d.Comment
	}
	r.st.leaves[id] = l
	return 1, nil
}

func (r fakeLeaveRepo) ListByEmployee(_ context.Context, employeeID string) ([]leave.LeaveApplication, error) {
	var out []leave.LeaveApplication
	for _, l := range r.sorted() {
		if l.EmployeeID.String() == employeeID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r fakeLeaveRepo) ListByHODStatus(_ context.Context, status leave.ApprovalStatus, _ *string) ([]leave.LeaveApplication, error) {
	var out []leave.LeaveApplication
	for _, l := range r.sorted() {
		if l.HODStatus == status {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r fakeLeaveRepo) ListByAdminStatus(_ context.Context, status leave.ApprovalStatus) ([]leave.LeaveApplication, error) {
	var out []leave.LeaveApplication
	for _, l := range r.sorted() {
		if l.HODStatus == leave.StatusApproved && l.AdminStatus == status {
			out = append(out, l)
		}
	}
	return out, nil
}

type fakeBalanceRepo struct {
	st *store
}

func (r fakeBalanceRepo) Find(_ context.Context, employeeID, leaveType string, year int) (*balance.LeaveBalance, error) {
	b, ok := r.st.balances[balanceKey(employeeID, leaveType, year)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &b, nil
}

func (r fakeBalanceRepo) ListByEmployee(_ context.Context, employeeID string, year int) ([]balance.LeaveBalance, error) {
	var out []balance.LeaveBalance
	for _, b := range r.st.balances {
		if b.EmployeeID.String() == employeeID && b.Year == year {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r fakeBalanceRepo) Debit(_ context.Context, employeeID, leaveType string, year int, days decimal.Decimal) (int64, error) {
	key := balanceKey(employeeID, leaveType, year)
	b, ok := r.st.balances[key]
	if !ok || b.Remaining().LessThan(days) {
		return 0, nil
	}
	b.Used = b.Used.Add(days)
	r.st.balances[key] = b
	return 1, nil
}

type fakeOutbox struct {
	st *store
}

func (o fakeOutbox) Create(_ context.Context, event kafka.OutboxEvent) error {
	o.st.outbox = append(o.st.outbox, event)
	return nil
}

func (o fakeOutbox) ListPending(context.Context, int) ([]kafka.OutboxEvent, error) {
	return o.st.outbox, nil
}

func (o fakeOutbox) MarkSent(context.Context, string) error { return nil }

func (o fakeOutbox) MarkFailed(context.Context, string, string) error { return nil }

func (s *store) eventTypes() []string {
	out := make([]string, len(s.outbox))
	for i, e := range s.outbox {
		out[i] = e.EventType
	}
	return out
}

// fakePerms grants keys per user; admins bypass everything except
// dashboard.view, which these tests never ask for.
type fakePerms struct {
	roles  map[string]string
	grants map[string]map[string]bool
}

func (p *fakePerms) allowed(userID, key string) bool {
	return p.roles[userID] == employee.RoleAdmin || p.grants[userID][key]
}

func (p *fakePerms) Require(_ context.Context, userID, key string) error {
	if !p.allowed(userID, key) {
		return apperror.PermissionDenied(key)
	}
	return nil
}

func (p *fakePerms) CheckAny(_ context.Context, userID string, keys ...string) bool {
	for _, k := range keys {
		if p.allowed(userID, k) {
			return true
		}
	}
	return false
}

type fakeDirectory struct {
	employees map[string]employee.Employee
}

func (d fakeDirectory) FindByID(_ context.Context, id string) (*employee.Employee, error) {
	e, ok := d.employees[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &e, nil
}

type fakeNotifier struct {
	events []events.LeaveEvent
}

func (n *fakeNotifier) NotifyLeave(_ context.Context, ev events.LeaveEvent) {
	n.events = append(n.events, ev)
}

// fakeTokens hands out the grant id as the token and forgets it on use.
type fakeTokens struct {
	issued map[string]approvaltoken.Grant
}

func (f *fakeTokens) Issue(_ context.Context, g approvaltoken.Grant) (string, time.Time, error) {
	token := uuid.NewString()
	f.issued[token] = g
	return token, time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), nil
}

func (f *fakeTokens) Consume(_ context.Context, token string) (approvaltoken.Grant, error) {
	g, ok := f.issued[token]
	if !ok {
		return approvaltoken.Grant{}, approvaltokenerrors.ErrAlreadyUsed
	}
	delete(f.issued, token)
	return g, nil
}

// emptyTierPolicies makes the tier policy service fall back to its defaults.
type emptyTierPolicies struct{}

func (emptyTierPolicies) List(context.Context) ([]rbac.TierPolicyRow, error) { return nil, nil }

func (emptyTierPolicies) Find(context.Context, string, string) (*rbac.TierPolicyRow, error) {
	return nil, gorm.ErrRecordNotFound
}

func (emptyTierPolicies) Create(context.Context, *rbac.TierPolicyRow) (bool, error) {
	return false, nil
}

func (emptyTierPolicies) DeleteUnlessLast(context.Context, string, string) (int64, error) {
	return 0, nil
}
