package features

// Training column names, in the order the classifiers were fitted on.
const (
	ColApplicantIncome      = "ApplicantIncome"
	ColCoapplicantIncome    = "CoapplicantIncome"
	ColLoanAmount           = "LoanAmount"
	ColLoanAmountTerm       = "Loan_Amount_Term"
	ColCreditHistory        = "Credit_History"
	ColGenderMale           = "Gender_Male"
	ColMarriedYes           = "Married_Yes"
	ColDependents1          = "Dependents_1"
	ColDependents2          = "Dependents_2"
	ColDependents3Plus      = "Dependents_3+"
	ColEducationNotGraduate = "Education_Not Graduate"
	ColSelfEmployedYes      = "Self_Employed_Yes"
	ColPropertySemiurban    = "Property_Area_Semiurban"
	ColPropertyUrban        = "Property_Area_Urban"
)

var columns = [...]string{
	ColApplicantIncome,
	ColCoapplicantIncome,
	ColLoanAmount,
	ColLoanAmountTerm,
	ColCreditHistory,
	ColGenderMale,
	ColMarriedYes,
	ColDependents1,
	ColDependents2,
	ColDependents3Plus,
	ColEducationNotGraduate,
	ColSelfEmployedYes,
	ColPropertySemiurban,
	ColPropertyUrban,
}

// NumColumns is the width of every encoded row.
const NumColumns = len(columns)

// Columns returns a copy of the training schema.
func Columns() []string {
	return append([]string(nil), columns[:]...)
}

// Vector is one encoded row: Values[i] belongs to column Names[i].
type Vector struct {
	Names  []string
	Values []float64
}

// Get looks a column up by name.
func (v Vector) Get(name string) (float64, bool) {
	for i, n := range v.Names {
		if n == name {
			return v.Values[i], true
		}
	}
	return 0, false
}

func (v Vector) Len() int {
	return len(v.Values)
}

// Encode maps form values onto the one-hot training schema. Baseline
// categories (Female, unmarried, 0 dependents, Graduate, not self-employed,
// Rural) encode as all-zero indicators.
func Encode(in ApplicantInput) Vector {
	values := []float64{
		in.ApplicantIncome,
		in.CoapplicantIncome,
		in.LoanAmount,
		float64(in.LoanAmountTerm),
		in.CreditHistory,
		indicator(in.Gender == GenderMale),
		indicator(in.Married == Yes),
		indicator(in.Dependents == Dependents1),
		indicator(in.Dependents == Dependents2),
		indicator(in.Dependents == Dependents3Plus),
		indicator(in.Education == EducationNotGraduate),
		indicator(in.SelfEmployed == Yes),
		indicator(in.PropertyArea == AreaSemiurban),
		indicator(in.PropertyArea == AreaUrban),
	}
	return Vector{Names: Columns(), Values: values}
}

func indicator(hot bool) float64 {
	if hot {
		return 1
	}
	return 0
}
