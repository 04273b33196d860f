package rotation

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidChange     = errors.New("rotation: change requires reason and new person")
	ErrSlotNotScheduled  = errors.New("rotation: slot has no assignment on this date")
	ErrOriginalMismatch  = errors.New("rotation: original person does not hold the slot")
	ErrAlreadyOnDuty     = errors.New("rotation: new person already on duty that day")
	ErrUnknownChangeType = errors.New("rotation: unknown change type")
)

// ChangeRequest 换班/替班请求
type ChangeRequest struct {
	Date             time.Time
	SlotID           string
	OriginalPersonID string
	NewPersonID      string
	Reason           string
	OperatorID       string
	Type             ChangeType
}

// Validate 边界校验：原因与新人员必填
func (r ChangeRequest) Validate() error {
	if strings.TrimSpace(r.Reason) == "" || r.NewPersonID == "" || r.SlotID == "" {
		return ErrInvalidChange
	}
	if r.Type != ChangeSwap && r.Type != ChangeStandby {
		return ErrUnknownChangeType
	}
	return nil
}

// ApplyChange 替换某日某岗位的当班人员，返回新的当日排班与审计记录
//
// 不修改入参 day；从不触碰轮换状态。
func ApplyChange(day Day, req ChangeRequest, now time.Time) (Day, ChangeLog, error) {
	if err := req.Validate(); err != nil {
		return day, ChangeLog{}, err
	}
	current, ok := day.PersonOn(req.SlotID)
	if !ok {
		return day, ChangeLog{}, ErrSlotNotScheduled
	}
	if current != req.OriginalPersonID {
		return day, ChangeLog{}, ErrOriginalMismatch
	}
	if req.NewPersonID != current && day.Has(req.NewPersonID) {
		return day, ChangeLog{}, ErrAlreadyOnDuty
	}

	out := day
	out.Assignments = make([]Assignment, len(day.Assignments))
	copy(out.Assignments, day.Assignments)
	for i := range out.Assignments {
		if out.Assignments[i].SlotID == req.SlotID {
			out.Assignments[i].PersonID = req.NewPersonID
		}
	}

	return out, ChangeLog{
		Date:             DateOf(day.Date),
		SlotID:           req.SlotID,
		OriginalPersonID: req.OriginalPersonID,
		NewPersonID:      req.NewPersonID,
		Reason:           strings.TrimSpace(req.Reason),
		OperatorID:       req.OperatorID,
		Type:             req.Type,
		CreatedAt:        now,
	}, nil
}
