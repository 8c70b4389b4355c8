package verdict

import "time"

// ServiceType classifies the disputed service for refund purposes.
type ServiceType string

const (
	ServiceCreative     ServiceType = "CREATIVE"
	ServiceDevelopment  ServiceType = "DEVELOPMENT"
	ServiceLesson       ServiceType = "LESSON"
	ServiceConsultation ServiceType = "CONSULTATION"
	ServiceAgency       ServiceType = "AGENCY"
	ServiceErrand       ServiceType = "ERRAND"
	ServiceOffline      ServiceType = "OFFLINE"
)

// Divisible reports whether the work product is separable into
// partially-valuable increments. An errand run or an on-site job is consumed
// whole and cannot be fractionally refunded by rule.
func (t ServiceType) Divisible() bool {
	switch t {
	case ServiceErrand, ServiceOffline:
		return false
	}
	return true
}

var serviceTypeByCategory = map[string]ServiceType{
	"design":       ServiceCreative,
	"development":  ServiceDevelopment,
	"lesson":       ServiceLesson,
	"consultation": ServiceConsultation,
	"translation":  ServiceAgency,
	"errand":       ServiceErrand,
	"offline":      ServiceOffline,
}

// ServiceStage is how far the disputed order has progressed.
type ServiceStage string

const (
	StageBeforeStart ServiceStage = "BEFORE_START"
	StageInProgress  ServiceStage = "IN_PROGRESS"
	StageRevision    ServiceStage = "REVISION"
	StageDelivered   ServiceStage = "DELIVERED"
	StageCompleted   ServiceStage = "COMPLETED"
)

var stageByOrderStatus = map[string]ServiceStage{
	"pending":     StageBeforeStart,
	"paid":        StageBeforeStart,
	"in_progress": StageInProgress,
	"delivered":   StageDelivered,
	"revision":    StageRevision,
	"completed":   StageCompleted,
}

// Fixed progress scale per stage. Real per-order progress tracking is a
// pending integration; until then the stage is the only progress signal.
var progressByStage = map[ServiceStage]int{
	StageBeforeStart: 0,
	StageInProgress:  50,
	StageRevision:    70,
	StageDelivered:   80,
	StageCompleted:   100,
}

var rankByStage = map[ServiceStage]int{
	StageBeforeStart: 0,
	StageInProgress:  1,
	StageRevision:    2,
	StageDelivered:   3,
	StageCompleted:   4,
}

// Progress returns the fixed progress percentage for the stage.
func (s ServiceStage) Progress() int {
	if p, ok := progressByStage[s]; ok {
		return p
	}
	return 50
}

func (s ServiceStage) rank() int {
	if r, ok := rankByStage[s]; ok {
		return r
	}
	return rankByStage[StageInProgress]
}

// Dispute type catalog. Only DisputeMismatch is rule-significant; the rest
// flow through the staged rules and are kept for classification and display.
const (
	DisputeRefundRequest   = "refund"
	DisputeQuality         = "quality"
	DisputeMismatch        = "mismatch"
	DisputeNoResponse      = "no_response"
	DisputeDeadlineMissed  = "deadline"
	DisputeIncomplete      = "incomplete"
	DisputeDamagedGoods    = "damaged"
	DisputeScopeCreep      = "extra_charge"
	DisputeBuyerNoResponse = "buyer_no_response"
	DisputeUnfairReview    = "unfair_review"
	DisputeBuyerCancel     = "buyer_cancel"
	DisputeModAbuse        = "mod_abuse"
)

// DisputeTypeInfo describes a dispute type for display purposes.
type DisputeTypeInfo struct {
	Name          string
	PlaintiffSide string // which order role files this type
}

var DisputeTypes = map[string]DisputeTypeInfo{
	DisputeRefundRequest:   {Name: "Refund request", PlaintiffSide: "buyer"},
	DisputeQuality:         {Name: "Quality complaint", PlaintiffSide: "buyer"},
	DisputeMismatch:        {Name: "Contract/advertising mismatch", PlaintiffSide: "buyer"},
	DisputeNoResponse:      {Name: "Unresponsive seller", PlaintiffSide: "buyer"},
	DisputeDeadlineMissed:  {Name: "Missed deadline", PlaintiffSide: "buyer"},
	DisputeIncomplete:      {Name: "Incomplete delivery", PlaintiffSide: "buyer"},
	DisputeDamagedGoods:    {Name: "Damaged or lost goods", PlaintiffSide: "buyer"},
	DisputeScopeCreep:      {Name: "Out-of-scope demands", PlaintiffSide: "seller"},
	DisputeBuyerNoResponse: {Name: "Unresponsive buyer", PlaintiffSide: "seller"},
	DisputeUnfairReview:    {Name: "Unfair review", PlaintiffSide: "seller"},
	DisputeBuyerCancel:     {Name: "Unilateral cancellation", PlaintiffSide: "seller"},
	DisputeModAbuse:        {Name: "Excessive revision requests", PlaintiffSide: "seller"},
}

// DisputeTypeName returns the display name of a dispute type, falling back
// to the raw identifier.
func DisputeTypeName(disputeType string) string {
	if info, ok := DisputeTypes[disputeType]; ok {
		return info.Name
	}
	return disputeType
}

type ContractDetails struct {
	TotalAmount   int64
	RevisionLimit int
}

type Progress struct {
	Percentage    int
	RevisionsUsed int
}

type Evidence struct {
	ChatLogs bool
	Contract bool
}

type Claims struct {
	Plaintiff string
	Defendant string
}

// DecisionContext is the normalized view of a case a verdict is decided on.
// It is rebuilt from raw facts on every verdict request.
type DecisionContext struct {
	ServiceType    ServiceType
	DisputeType    string
	ServiceStage   ServiceStage
	PlaintiffRole  string
	Contract       ContractDetails
	Progress       Progress
	Evidence       Evidence
	Claims         Claims
	OrderCreatedAt time.Time
	FiledAt        time.Time
}

// CaseFacts are the raw inputs of a verdict request, as read from the
// dispute and its order/service records.
type CaseFacts struct {
	ServiceCategory   string
	OrderStatus       string
	OrderCreatedAt    time.Time
	FiledAt           time.Time
	PlaintiffRole     string
	DisputeType       string
	DisputeAmount     int64
	RevisionLimit     int
	PlaintiffClaim    string
	DefendantResponse string
}

// BuildContext maps raw case facts into a DecisionContext. The mapping is
// total: unknown categories and statuses fall back to defaults instead of
// failing, so a verdict can always be produced.
func BuildContext(facts CaseFacts) DecisionContext {
	serviceType, ok := serviceTypeByCategory[facts.ServiceCategory]
	if !ok {
		serviceType = ServiceCreative
	}
	stage, ok := stageByOrderStatus[facts.OrderStatus]
	if !ok {
		stage = StageInProgress
	}

	return DecisionContext{
		ServiceType:   serviceType,
		DisputeType:   facts.DisputeType,
		ServiceStage:  stage,
		PlaintiffRole: facts.PlaintiffRole,
		Contract: ContractDetails{
			TotalAmount:   facts.DisputeAmount,
			RevisionLimit: facts.RevisionLimit,
		},
		Progress: Progress{
			Percentage: stage.Progress(),
			// TODO: count actual revision requests once order chat history
			// is reachable from this service.
			RevisionsUsed: 0,
		},
		Evidence: Evidence{
			// Placeholders until dispute evidence records are integrated.
			ChatLogs: true,
			Contract: true,
		},
		Claims: Claims{
			Plaintiff: facts.PlaintiffClaim,
			Defendant: facts.DefendantResponse,
		},
		OrderCreatedAt: facts.OrderCreatedAt,
		FiledAt:        facts.FiledAt,
	}
}
