package features

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// ErrInvalidInput marks applicant values outside the form's closed sets.
var ErrInvalidInput = errors.New("invalid applicant input")

const (
	GenderFemale = "Female"
	GenderMale   = "Male"

	No  = "No"
	Yes = "Yes"

	Dependents0     = "0"
	Dependents1     = "1"
	Dependents2     = "2"
	Dependents3Plus = "3+"

	EducationGraduate    = "Graduate"
	EducationNotGraduate = "Not Graduate"

	AreaRural     = "Rural"
	AreaSemiurban = "Semiurban"
	AreaUrban     = "Urban"
)

var (
	// LoanTerms lists the selectable loan terms; the first one is preselected.
	LoanTerms       = []int{360, 180, 120, 84, 60, 36}
	CreditHistories = []float64{1.0, 0.0}

	Genders        = []string{GenderFemale, GenderMale}
	YesNo          = []string{No, Yes}
	DependentsOpts = []string{Dependents0, Dependents1, Dependents2, Dependents3Plus}
	Educations     = []string{EducationGraduate, EducationNotGraduate}
	PropertyAreas  = []string{AreaRural, AreaSemiurban, AreaUrban}
)

// ApplicantInput carries the raw values captured by one form submission.
type ApplicantInput struct {
	ApplicantIncome   float64
	CoapplicantIncome float64
	LoanAmount        float64
	LoanAmountTerm    int
	CreditHistory     float64

	Gender       string
	Married      string
	Dependents   string
	Education    string
	SelfEmployed string
	PropertyArea string
}

// DefaultInput is what a freshly rendered form shows.
func DefaultInput() ApplicantInput {
	return ApplicantInput{
		LoanAmountTerm: LoanTerms[0],
		CreditHistory:  CreditHistories[0],
		Gender:         Genders[0],
		Married:        YesNo[0],
		Dependents:     DependentsOpts[0],
		Education:      Educations[0],
		SelfEmployed:   YesNo[0],
		PropertyArea:   PropertyAreas[0],
	}
}

// Validate enforces the constraints the form widgets apply.
func (in ApplicantInput) Validate() error {
	numeric := []struct {
		name string
		val  float64
	}{
		{"ApplicantIncome", in.ApplicantIncome},
		{"CoapplicantIncome", in.CoapplicantIncome},
		{"LoanAmount", in.LoanAmount},
	}
	for _, f := range numeric {
		if math.IsNaN(f.val) || math.IsInf(f.val, 0) || f.val < 0 {
			return fmt.Errorf("%w: %s must be a non-negative number", ErrInvalidInput, f.name)
		}
	}
	if !containsInt(LoanTerms, in.LoanAmountTerm) {
		return fmt.Errorf("%w: Loan_Amount_Term %d not in %v", ErrInvalidInput, in.LoanAmountTerm, LoanTerms)
	}
	if in.CreditHistory != 0 && in.CreditHistory != 1 {
		return fmt.Errorf("%w: Credit_History must be 1.0 or 0.0", ErrInvalidInput)
	}
	choices := []struct {
		name    string
		val     string
		allowed []string
	}{
		{"Gender", in.Gender, Genders},
		{"Married", in.Married, YesNo},
		{"Dependents", in.Dependents, DependentsOpts},
		{"Education", in.Education, Educations},
		{"Self_Employed", in.SelfEmployed, YesNo},
		{"Property_Area", in.PropertyArea, PropertyAreas},
	}
	for _, c := range choices {
		if !containsString(c.allowed, c.val) {
			return fmt.Errorf("%w: %s %q not in %v", ErrInvalidInput, c.name, c.val, c.allowed)
		}
	}
	return nil
}

// FormatCreditHistory renders the credit flag the way the selector shows it.
func FormatCreditHistory(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func containsInt(list []int, v int) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func containsString(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
