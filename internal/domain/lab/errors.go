package lab

import "github.com/labcore/backend/internal/domain/shared"

// Error codes owned by the lab order context
var (
	ErrOrderNotFound         = shared.NewDomainError("ORDER_NOT_FOUND", "Lab order not found")
	ErrResultNotFound        = shared.NewDomainError("RESULT_NOT_FOUND", "Lab result not found")
	ErrNoTestsSelected       = shared.NewDomainError("NO_TESTS_SELECTED", "At least one test or panel must be selected")
	ErrOrderAlreadyDelivered = shared.NewDomainError("ORDER_ALREADY_DELIVERED", "Results of a delivered order can only be changed through an edit")
	ErrEditReasonRequired    = shared.NewDomainError("EDIT_REASON_REQUIRED", "An edit reason is required once the report has been delivered")
	ErrOrderNotCompleted     = shared.NewDomainError("ORDER_NOT_COMPLETED", "Operation requires a completed order")
	ErrOrderNotCancellable   = shared.NewDomainError("ORDER_NOT_CANCELLABLE", "Order can no longer be cancelled because lab work has started")
)

func init() {
	shared.RegisterErrorCategory(shared.CategoryNotFound, ErrOrderNotFound.Code, ErrResultNotFound.Code)
	shared.RegisterErrorCategory(shared.CategoryInput, ErrNoTestsSelected.Code)
	shared.RegisterErrorCategory(shared.CategoryNotPermitted,
		ErrOrderAlreadyDelivered.Code,
		ErrEditReasonRequired.Code,
		ErrOrderNotCompleted.Code,
		ErrOrderNotCancellable.Code,
	)
}
