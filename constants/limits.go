package constants

// Word quotas per identity tier. Anonymous and free-account tiers are the ones
// the server enforces today; the paid tiers exist so the limits live in one
// place when billing lands.
const (
	LimitAnonymous = 5000
	LimitAccount   = 10000
	LimitPro       = 100000
	LimitBusiness  = 500000
)

// Hard character budgets applied to document text before it is sent upstream.
// The cutoff is a plain character slice, not sentence-aware.
const (
	TruncateDocument = 50000
	TruncatePopup    = 30000
	TruncateDetect   = 15000
)

// MinContentChars is the smallest extracted text considered analyzable.
const MinContentChars = 200

// MaxUploadBytes caps the multipart body on /analyze.
const MaxUploadBytes = 10 << 20
