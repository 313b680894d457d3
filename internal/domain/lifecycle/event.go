package lifecycle

type EventKey string

const (
	EventViewingRequested   EventKey = "viewingRequested"
	EventViewingConfirmed   EventKey = "viewingConfirmed"
	EventViewingRescheduled EventKey = "viewingRescheduled"
	EventViewingCancelled   EventKey = "viewingCancelled"
	EventContractInvited    EventKey = "contractInvited"
	EventContractSigned     EventKey = "contractSigned"
	EventContractTerminated EventKey = "contractTerminated"
	EventPaymentReminder    EventKey = "paymentReminder"
	EventPaymentReceived    EventKey = "paymentReceived"
	EventRepairRequested    EventKey = "repairRequested"
	EventRepairCompleted    EventKey = "repairCompleted"
)

const (
	RelatedViewing  = "viewing"
	RelatedContract = "contract"
	RelatedPayment  = "payment"
	RelatedRepair   = "repair"
)

// Template parameter names shared by workflows and the notification catalog.
const (
	ParamPropertyTitle = "PropertyTitle"
	ParamTenantName    = "TenantName"
	ParamInitiatorName = "InitiatorName"
	ParamDate          = "Date"
	ParamTime          = "Time"
	ParamReason        = "Reason"
	ParamAmount        = "Amount"
	ParamDueDate       = "DueDate"
)

// Event is a templated message for one recipient, written to the outbox in
// the same transaction as the state change that caused it.
type Event struct {
	Key         EventKey
	UserID      string
	UserRole    Role
	RelatedID   string
	RelatedType string
	Params      map[string]string
}
