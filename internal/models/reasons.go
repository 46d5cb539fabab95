package models

// Expense reasons. Payables draw from the same list.
const (
	ReasonOfficeAdministration = "Office & Administration"
	ReasonEmployeeCosts        = "Employee Costs"
	ReasonTechnology           = "Technology and infrastructure"
	ReasonSalesMarketing       = "Sales & Marketing"
	ReasonFinanceLegal         = "Finance & Legal"
	ReasonTravelMisc           = "Travel & Miscellaneous"
	ReasonProjectExpenses      = "Project expenses"
	ReasonEmployeeLoan         = "Expense for employee loan"
	ReasonRepaidLoanExpense    = "Repaid for loan expense"
	ReasonEmployeeSalary       = "Employee salary costs"
	ReasonExternalLoanReturn   = "Expense for returning external loan"
	ReasonAssetPurchase        = "Expense for asset purchase"
	ReasonAllowance            = "Allowance expense"
	ReasonOther                = "Other"
)

// Income sources. Receivables draw from the same list.
const (
	SourceSoftwareSales  = "Software sales"
	SourceSubscription   = "Subscription"
	SourceSupport        = "Support & maintenance contracts"
	SourceTraining       = "Training & workshops"
	SourceAPIUsage       = "API usage charges"
	SourceMarketplace    = "Marketplace / app store income"
	SourceProjectIncome  = "Project income"
	SourceRepaidEmployee = "Repaid from employee loan"
	SourceLoans          = "Income from loans"
	SourceAssetSales     = "Income from asset sales"
	SourceOther          = "Other"
)

var expenseReasons = map[string]bool{
	ReasonOfficeAdministration: true,
	ReasonEmployeeCosts:        true,
	ReasonTechnology:           true,
	ReasonSalesMarketing:       true,
	ReasonFinanceLegal:         true,
	ReasonTravelMisc:           true,
	ReasonProjectExpenses:      true,
	ReasonEmployeeLoan:         true,
	ReasonRepaidLoanExpense:    true,
	ReasonEmployeeSalary:       true,
	ReasonExternalLoanReturn:   true,
	ReasonAssetPurchase:        true,
	ReasonAllowance:            true,
	ReasonOther:                true,
}

var incomeSources = map[string]bool{
	SourceSoftwareSales:  true,
	SourceSubscription:   true,
	SourceSupport:        true,
	SourceTraining:       true,
	SourceAPIUsage:       true,
	SourceMarketplace:    true,
	SourceProjectIncome:  true,
	SourceRepaidEmployee: true,
	SourceLoans:          true,
	SourceAssetSales:     true,
	SourceOther:          true,
}

// IsValidExpenseReason reports whether r is a known expense or payable reason
func IsValidExpenseReason(r string) bool { return expenseReasons[r] }

// IsValidIncomeSource reports whether s is a known income or receivable source
func IsValidIncomeSource(s string) bool { return incomeSources[s] }
