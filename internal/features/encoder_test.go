package features

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenarioInput() ApplicantInput {
	return ApplicantInput{
		ApplicantIncome:   5000,
		CoapplicantIncome: 0,
		LoanAmount:        128,
		LoanAmountTerm:    360,
		CreditHistory:     1.0,
		Gender:            GenderMale,
		Married:           Yes,
		Dependents:        Dependents0,
		Education:         EducationGraduate,
		SelfEmployed:      No,
		PropertyArea:      AreaUrban,
	}
}

// allInputs enumerates every categorical combination with fixed numerics.
func allInputs() []ApplicantInput {
	var out []ApplicantInput
	for _, term := range LoanTerms {
		for _, credit := range CreditHistories {
			for _, g := range Genders {
				for _, m := range YesNo {
					for _, d := range DependentsOpts {
						for _, e := range Educations {
							for _, s := range YesNo {
								for _, a := range PropertyAreas {
									out = append(out, ApplicantInput{
										ApplicantIncome:   4500,
										CoapplicantIncome: 1200,
										LoanAmount:        140,
										LoanAmountTerm:    term,
										CreditHistory:     credit,
										Gender:            g,
										Married:           m,
										Dependents:        d,
										Education:         e,
										SelfEmployed:      s,
										PropertyArea:      a,
									})
								}
							}
						}
					}
				}
			}
		}
	}
	return out
}

func TestEncode_Scenario(t *testing.T) {
	vec := Encode(scenarioInput())
	require.Equal(t, 14, vec.Len())

	expect := map[string]float64{
		ColApplicantIncome:      5000,
		ColCoapplicantIncome:    0,
		ColLoanAmount:           128,
		ColLoanAmountTerm:       360,
		ColCreditHistory:        1,
		ColGenderMale:           1,
		ColMarriedYes:           1,
		ColDependents1:          0,
		ColDependents2:          0,
		ColDependents3Plus:      0,
		ColEducationNotGraduate: 0,
		ColSelfEmployedYes:      0,
		ColPropertySemiurban:    0,
		ColPropertyUrban:        1,
	}
	for name, want := range expect {
		got, ok := vec.Get(name)
		require.True(t, ok, name)
		assert.Equal(t, want, got, name)
	}
}

func TestEncode_ColumnOrder(t *testing.T) {
	vec := Encode(DefaultInput())
	assert.Equal(t, []string{
		"ApplicantIncome", "CoapplicantIncome", "LoanAmount", "Loan_Amount_Term", "Credit_History",
		"Gender_Male", "Married_Yes", "Dependents_1", "Dependents_2", "Dependents_3+",
		"Education_Not Graduate", "Self_Employed_Yes", "Property_Area_Semiurban", "Property_Area_Urban",
	}, vec.Names)
}

func TestEncode_BaselineIsAllZero(t *testing.T) {
	vec := Encode(DefaultInput())
	for _, name := range vec.Names[5:] {
		v, _ := vec.Get(name)
		assert.Zero(t, v, name)
	}
}

func TestEncode_Properties(t *testing.T) {
	for _, in := range allInputs() {
		require.NoError(t, in.Validate())
		vec := Encode(in)
		require.Equal(t, NumColumns, vec.Len())
		require.Equal(t, NumColumns, len(vec.Names))

		// raw numerics pass through
		assert.Equal(t, in.ApplicantIncome, vec.Values[0])
		assert.Equal(t, in.CoapplicantIncome, vec.Values[1])
		assert.Equal(t, in.LoanAmount, vec.Values[2])
		assert.Equal(t, float64(in.LoanAmountTerm), vec.Values[3])
		assert.Equal(t, in.CreditHistory, vec.Values[4])

		for i := 5; i < NumColumns; i++ {
			assert.Contains(t, []float64{0, 1}, vec.Values[i], vec.Names[i])
		}

		d1, _ := vec.Get(ColDependents1)
		d2, _ := vec.Get(ColDependents2)
		d3, _ := vec.Get(ColDependents3Plus)
		assert.LessOrEqual(t, d1+d2+d3, 1.0)

		semi, _ := vec.Get(ColPropertySemiurban)
		urban, _ := vec.Get(ColPropertyUrban)
		assert.LessOrEqual(t, semi+urban, 1.0)

		assert.Equal(t, vec, Encode(in), "encoding must be deterministic")
	}
}

func TestEncode_DependentsIndicators(t *testing.T) {
	cases := map[string]string{
		Dependents1:     ColDependents1,
		Dependents2:     ColDependents2,
		Dependents3Plus: ColDependents3Plus,
	}
	for value, hot := range cases {
		in := DefaultInput()
		in.Dependents = value
		vec := Encode(in)
		for _, col := range []string{ColDependents1, ColDependents2, ColDependents3Plus} {
			v, _ := vec.Get(col)
			if col == hot {
				assert.Equal(t, 1.0, v, "%s -> %s", value, col)
			} else {
				assert.Equal(t, 0.0, v, "%s -> %s", value, col)
			}
		}
	}
}

func TestValidate_RejectsOutOfSet(t *testing.T) {
	mutate := []func(*ApplicantInput){
		func(in *ApplicantInput) { in.ApplicantIncome = -1 },
		func(in *ApplicantInput) { in.LoanAmount = -0.5 },
		func(in *ApplicantInput) { in.LoanAmountTerm = 240 },
		func(in *ApplicantInput) { in.CreditHistory = 0.5 },
		func(in *ApplicantInput) { in.Gender = "Other" },
		func(in *ApplicantInput) { in.Married = "maybe" },
		func(in *ApplicantInput) { in.Dependents = "4" },
		func(in *ApplicantInput) { in.Education = "PhD" },
		func(in *ApplicantInput) { in.SelfEmployed = "" },
		func(in *ApplicantInput) { in.PropertyArea = "Suburban" },
	}
	for i, fn := range mutate {
		in := DefaultInput()
		fn(&in)
		assert.ErrorIs(t, in.Validate(), ErrInvalidInput, "case %d", i)
	}
}

func TestFormValues_RoundTripsSelectorLabels(t *testing.T) {
	vals := FormValues(scenarioInput())
	assert.Equal(t, "5000", vals[KeyApplicantIncome])
	assert.Equal(t, "360", vals[KeyLoanAmountTerm])
	assert.Equal(t, "1.0", vals[KeyCreditHistory])
	assert.Equal(t, "Urban", vals[KeyPropertyArea])

	for _, f := range Fields() {
		_, ok := vals[f.Key]
		assert.True(t, ok, f.Key)
		if f.Kind == KindSelect {
			assert.Contains(t, f.Options, FormValues(DefaultInput())[f.Key], f.Key)
		}
	}
}
