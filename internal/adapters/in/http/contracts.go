package http

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type LineItemRequest struct {
	Description    string `json:"description"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unitPriceCents"`
	CustomGlass    bool   `json:"customGlass"`
}

type CreateOrderRequest struct {
	Number          string            `json:"number"`
	SupplierID      string            `json:"supplierId"`
	Priority        string            `json:"priority"`
	LineItems       []LineItemRequest `json:"lineItems"`
	InvoiceRequired bool              `json:"invoiceRequired"`
	Role            string            `json:"role"`
}

type DecisionView struct {
	Allowed            bool   `json:"allowed"`
	Reason             string `json:"reason,omitempty"`
	RequiresApproval   bool   `json:"requiresApproval"`
	EscalationRequired bool   `json:"escalationRequired"`
}

type CreateOrderResponse struct {
	ID       string       `json:"id,omitempty"`
	Decision DecisionView `json:"decision"`
}

// TransitionOrderRequest carries the action attempt. ObservedUpdatedAt is the
// updatedAt the caller last read; a stale value is rejected with 409.
type TransitionOrderRequest struct {
	Action            string `json:"action"`
	Role              string `json:"role"`
	Actor             string `json:"actor"`
	ObservedUpdatedAt string `json:"observedUpdatedAt"`
}

type TransitionOrderResponse struct {
	Allowed            bool     `json:"allowed"`
	Reasons            []string `json:"reasons,omitempty"`
	RequiresApproval   bool     `json:"requiresApproval"`
	EscalationRequired bool     `json:"escalationRequired"`
}

type ViolationView struct {
	RuleID   string `json:"ruleId"`
	RuleName string `json:"ruleName"`
	Category string `json:"category"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

type OrderViolationsResponse struct {
	Violations   []ViolationView `json:"violations"`
	CanDispatch  bool            `json:"canDispatch"`
	CanComplete  bool            `json:"canComplete"`
	ErrorCount   int             `json:"errorCount"`
	WarningCount int             `json:"warningCount"`
}

type EvaluateActionResponse struct {
	Allowed            bool     `json:"allowed"`
	Reasons            []string `json:"reasons,omitempty"`
	RequiresApproval   bool     `json:"requiresApproval"`
	EscalationRequired bool     `json:"escalationRequired"`
}

type ResolveTimeoutEventRequest struct {
	Role   string `json:"role"`
	Actor  string `json:"actor"`
	Reason string `json:"reason"`
}

type OverdueSupplierSummaryView struct {
	SupplierID           string  `json:"supplierId"`
	SupplierName         string  `json:"supplierName"`
	OverdueCount         int     `json:"overdueCount"`
	OverdueValueCents    int64   `json:"overdueValueCents"`
	AvgConfirmationHours float64 `json:"avgConfirmationHours"`
	ResponseRate         float64 `json:"responseRate"`
	EscalationRequired   bool    `json:"escalationRequired"`
}

type EscalationStateResponse struct {
	Paused bool `json:"paused"`
}
