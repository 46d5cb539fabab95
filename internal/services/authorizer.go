package services

import "treasury/internal/models"

type statusSet map[models.Status]bool

// transitionGrants lists, per role and flow, the target statuses the role may
// move a document into. Accountants review, Cashiers move money, Managers
// request loan returns.
var transitionGrants = map[models.Role]map[models.Flow]statusSet{
	models.RoleAccountant: {
		models.FlowExpense:       {models.StatusApproved: true, models.StatusRejected: true},
		models.FlowAssetPurchase: {models.StatusApproved: true, models.StatusRejected: true},
		models.FlowAssetSale:     {models.StatusApproved: true, models.StatusRejected: true},
		models.FlowPayable:       {models.StatusRejected: true},
		models.FlowReceivable:    {models.StatusRejected: true},
		models.FlowLoanEmployee:  {models.StatusGiveRejected: true, models.StatusReturnRejected: true},
	},
	models.RoleCashier: {
		models.FlowExpense:       {models.StatusPaid: true},
		models.FlowAssetPurchase: {models.StatusPaid: true},
		models.FlowAssetSale:     {models.StatusReceived: true},
		models.FlowPayable:       {models.StatusApproved: true},
		models.FlowReceivable:    {models.StatusApproved: true},
		models.FlowPayroll:       {models.StatusPaid: true},
		models.FlowLoanEmployee:  {models.StatusGiven: true, models.StatusReturned: true, models.StatusPaid: true},
		models.FlowLoanExternal:  {models.StatusReturned: true},
	},
	models.RoleManager: {
		models.FlowLoanEmployee: {models.StatusReturnRequest: true},
		models.FlowLoanExternal: {models.StatusReturnRequest: true},
	},
}

type flowSet map[models.Flow]bool

var allFlows = flowSet{
	models.FlowExpense: true, models.FlowIncome: true, models.FlowTransfer: true,
	models.FlowLoanEmployee: true, models.FlowLoanExternal: true,
	models.FlowAssetPurchase: true, models.FlowAssetSale: true,
	models.FlowPayable: true, models.FlowReceivable: true, models.FlowPayroll: true,
}

var createGrants = map[models.Role]flowSet{
	models.RoleManager:    allFlows,
	models.RoleAccountant: {models.FlowPayable: true, models.FlowReceivable: true, models.FlowPayroll: true},
	models.RoleCashier:    {models.FlowIncome: true, models.FlowTransfer: true},
}

// roleAuthorizer answers from static tables.
type roleAuthorizer struct{}

// NewAuthorizer creates the static role Authorizer.
func NewAuthorizer() Authorizer {
	return roleAuthorizer{}
}

// CanTransition checks the target status only. Whether from→to is a legal
// edge at all is the workflow engine's concern.
func (roleAuthorizer) CanTransition(role models.Role, flow models.Flow, _, to models.Status) bool {
	return transitionGrants[role][flow][to]
}

func (roleAuthorizer) CanCreate(role models.Role, flow models.Flow) bool {
	return createGrants[role][flow]
}

func (roleAuthorizer) CanDelete(role models.Role) bool {
	return role == models.RoleManager
}

func (roleAuthorizer) CanManageAccounts(role models.Role) bool {
	return role == models.RoleManager
}
