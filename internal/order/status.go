package order

type PaymentMethod string

const (
	// MethodTransfer settles at checkout; the order is created already
	// completed and processed, with no expiration deadline.
	MethodTransfer PaymentMethod = "transfer"
	// MethodCOD is pay-on-delivery; the order starts pending and expires
	// if payment is never confirmed.
	MethodCOD PaymentMethod = "cod"
)

// ParsePaymentMethod reports whether s is a recognized payment method.
func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	switch PaymentMethod(s) {
	case MethodTransfer:
		return MethodTransfer, true
	case MethodCOD:
		return MethodCOD, true
	default:
		return "", false
	}
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentCompleted PaymentStatus = "COMPLETED"
	PaymentCanceled  PaymentStatus = "CANCELED"
)

func (s PaymentStatus) Terminal() bool {
	return s == PaymentCompleted || s == PaymentCanceled
}

// ParsePaymentStatus reports whether s is a recognized payment status.
func ParsePaymentStatus(s string) (PaymentStatus, bool) {
	switch PaymentStatus(s) {
	case PaymentPending, PaymentCompleted, PaymentCanceled:
		return PaymentStatus(s), true
	default:
		return "", false
	}
}

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusProcessed Status = "PROCESSED"
	StatusCanceled  Status = "CANCELED"
)

func (s Status) Terminal() bool {
	return s == StatusProcessed || s == StatusCanceled
}
