package constants

// Stage is the canonical position of a request inside the ingestion pipeline.
type Stage string

// Stable values (these exact strings appear in logs and error payloads).
const (
	StageReceived      Stage = "RECEIVED"
	StageExtracting    Stage = "EXTRACTING"
	StageQuotaChecking Stage = "QUOTA_CHECKING"
	StageRequesting    Stage = "REQUESTING"
	StageNormalizing   Stage = "NORMALIZING"
	StageComplete      Stage = "COMPLETE"
	StageFailed        Stage = "FAILED"
)
