package payroll

const (
	EarningBasicPay        = "basicPay"
	EarningOvertime        = "overtime"
	EarningHouseAllowance  = "houseAllowance"
	EarningTravelAllowance = "travelAllowance"
	EarningBonus           = "bonus"

	DeductionPAYE           = "paye"
	DeductionNSSF           = "nssf"
	DeductionSHA            = "sha"
	DeductionHousingLevy    = "housingLevy"
	DeductionAdvances       = "advances"
	DeductionLoanRepayments = "loanRepayments"
	DeductionSaccos         = "saccos"

	MaxInitialsLength   = 3
	PayrollNumberPrefix = "POP"
	DateLayout          = "2006-01-02"
)

var Months = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// DefaultDeductions are the statutory and recurring deductions a new entry
// starts from.
var DefaultDeductions = Deductions{
	PAYE:           0,
	NSSF:           300,
	SHA:            200,
	HousingLevy:    150,
	Advances:       1000,
	LoanRepayments: 1000,
	Saccos:         1000,
}

func IsMonth(value string) bool {
	for _, month := range Months {
		if month == value {
			return true
		}
	}
	return false
}
