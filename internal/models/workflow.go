package models

import "github.com/shopspring/decimal"

// Flow is the workflow key of a document: its variant refined by loan kind
// or asset direction.
type Flow string

const (
	FlowExpense       Flow = "expense"
	FlowIncome        Flow = "income"
	FlowTransfer      Flow = "transfer"
	FlowLoanEmployee  Flow = "loan_employee"
	FlowLoanExternal  Flow = "loan_external"
	FlowAssetPurchase Flow = "asset_purchase"
	FlowAssetSale     Flow = "asset_sale"
	FlowPayable       Flow = "payable"
	FlowReceivable    Flow = "receivable"
	FlowPayroll       Flow = "payroll"
)

// Status is a document lifecycle state.
type Status string

const (
	StatusRequested      Status = "Requested"
	StatusApproved       Status = "Approved"
	StatusRejected       Status = "Rejected"
	StatusPaid           Status = "Paid"
	StatusReceived       Status = "Received"
	StatusSettled        Status = "Settled"
	StatusPending        Status = "Pending"
	StatusGiveRequest    Status = "Give_Request"
	StatusGiveRejected   Status = "Give_Rejected"
	StatusGiven          Status = "Given"
	StatusReturnRequest  Status = "Return_Request"
	StatusReturnRejected Status = "Return_Rejected"
	StatusReturned       Status = "Returned"
)

// FeeRate is the surcharge applied to every settling debit.
var FeeRate = decimal.RequireFromString("0.02")

// WithFee returns amount plus the settlement fee.
func WithFee(amount decimal.Decimal) decimal.Decimal {
	return amount.Add(amount.Mul(FeeRate))
}

type edge struct {
	from Status
	to   Status
}

type flowTable struct {
	initial     Status
	transitions map[Status][]Status
	terminal    map[Status]bool
	receipt     map[edge]bool
}

var flowTables = map[Flow]flowTable{
	FlowExpense: {
		initial: StatusRequested,
		transitions: map[Status][]Status{
			StatusRequested: {StatusApproved, StatusRejected},
			StatusApproved:  {StatusPaid},
		},
		terminal: map[Status]bool{StatusRejected: true, StatusPaid: true},
		receipt:  map[edge]bool{{StatusApproved, StatusPaid}: true},
	},
	FlowIncome: {
		initial:  StatusReceived,
		terminal: map[Status]bool{StatusReceived: true},
	},
	FlowTransfer: {
		initial:  StatusSettled,
		terminal: map[Status]bool{StatusSettled: true},
	},
	FlowLoanEmployee: {
		initial: StatusGiveRequest,
		transitions: map[Status][]Status{
			StatusGiveRequest:   {StatusGiven, StatusGiveRejected},
			StatusGiven:         {StatusReturnRequest},
			StatusReturnRequest: {StatusReturned, StatusReturnRejected},
			StatusReturned:      {StatusPaid},
		},
		terminal: map[Status]bool{StatusGiveRejected: true, StatusReturnRejected: true, StatusPaid: true},
	},
	FlowLoanExternal: {
		initial: StatusReceived,
		transitions: map[Status][]Status{
			StatusReceived:      {StatusReturnRequest},
			StatusReturnRequest: {StatusReturned},
		},
		terminal: map[Status]bool{StatusReturned: true},
		receipt:  map[edge]bool{{StatusReturnRequest, StatusReturned}: true},
	},
	FlowAssetPurchase: {
		initial: StatusRequested,
		transitions: map[Status][]Status{
			StatusRequested: {StatusApproved, StatusRejected},
			StatusApproved:  {StatusPaid},
		},
		terminal: map[Status]bool{StatusRejected: true, StatusPaid: true},
		receipt:  map[edge]bool{{StatusApproved, StatusPaid}: true},
	},
	FlowAssetSale: {
		initial: StatusRequested,
		transitions: map[Status][]Status{
			StatusRequested: {StatusApproved, StatusRejected},
			StatusApproved:  {StatusReceived},
		},
		terminal: map[Status]bool{StatusRejected: true, StatusReceived: true},
		receipt: map[edge]bool{
			{StatusRequested, StatusApproved}: true,
			{StatusApproved, StatusReceived}:  true,
		},
	},
	FlowPayable: {
		initial: StatusPending,
		transitions: map[Status][]Status{
			StatusPending: {StatusApproved, StatusRejected},
		},
		terminal: map[Status]bool{StatusApproved: true, StatusRejected: true},
		receipt:  map[edge]bool{{StatusPending, StatusApproved}: true},
	},
	FlowReceivable: {
		initial: StatusPending,
		transitions: map[Status][]Status{
			StatusPending: {StatusApproved, StatusRejected},
		},
		terminal: map[Status]bool{StatusApproved: true, StatusRejected: true},
		receipt:  map[edge]bool{{StatusPending, StatusApproved}: true},
	},
	FlowPayroll: {
		initial: StatusPending,
		transitions: map[Status][]Status{
			StatusPending: {StatusPaid},
		},
		terminal: map[Status]bool{StatusPaid: true},
	},
}

// InitialStatus returns the status a new document of flow starts in.
func InitialStatus(f Flow) Status { return flowTables[f].initial }

// IsLegalTransition reports whether from→to is listed for flow.
func IsLegalTransition(f Flow, from, to Status) bool {
	for _, s := range flowTables[f].transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether s ends the lifecycle of flow.
func IsTerminal(f Flow, s Status) bool { return flowTables[f].terminal[s] }

// RequiresReceipt reports whether the from→to edge needs a receipt.
func RequiresReceipt(f Flow, from, to Status) bool {
	return flowTables[f].receipt[edge{from, to}]
}

// IsKnownStatus reports whether s appears anywhere in flow's table.
func IsKnownStatus(f Flow, s Status) bool {
	t, ok := flowTables[f]
	if !ok {
		return false
	}
	if s == t.initial || t.terminal[s] {
		return true
	}
	for from, tos := range t.transitions {
		if from == s {
			return true
		}
		for _, to := range tos {
			if to == s {
				return true
			}
		}
	}
	return false
}
