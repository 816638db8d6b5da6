package balance

import "github.com/shopspring/decimal"

type BalanceResponse struct {
	EmployeeID string          `json:"employee_id"`
	LeaveType  string          `json:"leave_type"`
	Year       int             `json:"year"`
	Total      decimal.Decimal `json:"total_balance"`
	Used       decimal.Decimal `json:"used_balance"`
	Remaining  decimal.Decimal `json:"remaining_balance"`
}

func mapToResponse(b LeaveBalance) BalanceResponse {
	return BalanceResponse{
		EmployeeID: b.EmployeeID.String(),
		LeaveType:  b.LeaveType,
		Year:       b.Year,
		Total:      b.Total,
		Used:       b.Used,
		Remaining:  b.Remaining(),
	}
}
