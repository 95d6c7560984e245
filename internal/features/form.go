package features

import "strconv"

type FieldKind string

const (
	KindNumber FieldKind = "number"
	KindSelect FieldKind = "select"
)

// Form keys shared by the template and the request binder.
const (
	KeyApplicantIncome   = "applicant_income"
	KeyCoapplicantIncome = "coapplicant_income"
	KeyLoanAmount        = "loan_amount"
	KeyLoanAmountTerm    = "loan_amount_term"
	KeyCreditHistory     = "credit_history"
	KeyGender            = "gender"
	KeyMarried           = "married"
	KeyDependents        = "dependents"
	KeyEducation         = "education"
	KeySelfEmployed      = "self_employed"
	KeyPropertyArea      = "property_area"
)

// Field describes one form control. Column 0 holds the numeric block,
// column 1 the demographic selectors.
type Field struct {
	Key     string
	Label   string
	Kind    FieldKind
	Min     float64
	Step    float64
	Options []string
	Column  int
}

// Fields lists the controls in display order.
func Fields() []Field {
	return []Field{
		{Key: KeyApplicantIncome, Label: "Applicant Income", Kind: KindNumber, Step: 100},
		{Key: KeyCoapplicantIncome, Label: "Coapplicant Income", Kind: KindNumber, Step: 100},
		{Key: KeyLoanAmount, Label: "Loan Amount", Kind: KindNumber, Step: 10},
		{Key: KeyLoanAmountTerm, Label: "Loan Amount Term (days)", Kind: KindSelect, Options: intOptions(LoanTerms)},
		{Key: KeyCreditHistory, Label: "Credit History", Kind: KindSelect, Options: creditOptions()},
		{Key: KeyGender, Label: "Gender", Kind: KindSelect, Options: Genders, Column: 1},
		{Key: KeyMarried, Label: "Married", Kind: KindSelect, Options: YesNo, Column: 1},
		{Key: KeyDependents, Label: "Dependents", Kind: KindSelect, Options: DependentsOpts, Column: 1},
		{Key: KeyEducation, Label: "Education", Kind: KindSelect, Options: Educations, Column: 1},
		{Key: KeySelfEmployed, Label: "Self Employed", Kind: KindSelect, Options: YesNo, Column: 1},
		{Key: KeyPropertyArea, Label: "Property Area", Kind: KindSelect, Options: PropertyAreas, Column: 1},
	}
}

// FormValues renders an input back into the string values the controls hold.
func FormValues(in ApplicantInput) map[string]string {
	return map[string]string{
		KeyApplicantIncome:   strconv.FormatFloat(in.ApplicantIncome, 'f', -1, 64),
		KeyCoapplicantIncome: strconv.FormatFloat(in.CoapplicantIncome, 'f', -1, 64),
		KeyLoanAmount:        strconv.FormatFloat(in.LoanAmount, 'f', -1, 64),
		KeyLoanAmountTerm:    strconv.Itoa(in.LoanAmountTerm),
		KeyCreditHistory:     FormatCreditHistory(in.CreditHistory),
		KeyGender:            in.Gender,
		KeyMarried:           in.Married,
		KeyDependents:        in.Dependents,
		KeyEducation:         in.Education,
		KeySelfEmployed:      in.SelfEmployed,
		KeyPropertyArea:      in.PropertyArea,
	}
}

func intOptions(vals []int) []string {
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = strconv.Itoa(v)
	}
	return out
}

func creditOptions() []string {
	out := make([]string, len(CreditHistories))
	for i, v := range CreditHistories {
		out[i] = FormatCreditHistory(v)
	}
	return out
}
