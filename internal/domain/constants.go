package domain

const (
	RoleAdmin  = "admin"
	RoleClient = "client"
)

// Payment lifecycle. due -> invoiced -> pending -> received, with overdue
// reachable from any unpaid status once the due date has passed and canceled
// reachable from any non-received status. received and canceled are terminal.
const (
	PaymentStatusDue      = "due"
	PaymentStatusInvoiced = "invoiced"
	PaymentStatusPending  = "pending"
	PaymentStatusReceived = "received"
	PaymentStatusOverdue  = "overdue"
	PaymentStatusCanceled = "canceled"
)

// PaymentStatuses is the full status universe, in lifecycle order.
var PaymentStatuses = []string{
	PaymentStatusDue,
	PaymentStatusInvoiced,
	PaymentStatusPending,
	PaymentStatusReceived,
	PaymentStatusOverdue,
	PaymentStatusCanceled,
}

func ValidPaymentStatus(s string) bool {
	for _, v := range PaymentStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// TerminalPaymentStatus reports whether no further transition is defined out
// of s. A reopening request (received -> anything, canceled -> anything) is a
// validation error, not a supported flow.
func TerminalPaymentStatus(s string) bool {
	return s == PaymentStatusReceived || s == PaymentStatusCanceled
}

// PayableStatus reports whether a client may initiate checkout for a payment
// in status s.
func PayableStatus(s string) bool {
	return s == PaymentStatusInvoiced || s == PaymentStatusPending || s == PaymentStatusOverdue
}

const (
	ClientStatusActive = "active"
	ClientStatusIdle   = "idle"
	ClientStatusGone   = "gone"
)

func ValidClientStatus(s string) bool {
	return s == ClientStatusActive || s == ClientStatusIdle || s == ClientStatusGone
}

const (
	TaskStatusRequirements = "requirements"
	TaskStatusQuote        = "quote"
	TaskStatusApproved     = "approved"
	TaskStatusProgress     = "progress"
	TaskStatusSubmitted    = "submitted"
	TaskStatusFeedback     = "feedback"
	TaskStatusComplete     = "complete"
)

var TaskStatuses = []string{
	TaskStatusRequirements,
	TaskStatusQuote,
	TaskStatusApproved,
	TaskStatusProgress,
	TaskStatusSubmitted,
	TaskStatusFeedback,
	TaskStatusComplete,
}

func ValidTaskStatus(s string) bool {
	for _, v := range TaskStatuses {
		if v == s {
			return true
		}
	}
	return false
}

const (
	NotificationTypePayment = "payment"
	NotificationTypeTask    = "task"
	NotificationTypeClient  = "client"
)

const (
	DocumentTypePDF   = "pdf"
	DocumentTypeImage = "image"
)

// ImageExtensions is the raster extension set accepted for document type "image".
var ImageExtensions = []string{"jpg", "jpeg", "png", "gif"}

// Actor is the authenticated principal a mutation runs as. It is threaded
// explicitly through every service call; there is no ambient auth state.
type Actor struct {
	UserID   string
	Role     string
	ClientID string // set when Role is client
}

func (a Actor) IsAdmin() bool  { return a.Role == RoleAdmin }
func (a Actor) IsClient() bool { return a.Role == RoleClient }
