package server

import "github.com/sells-group/evolsynth-api/internal/model"

// SampleDocuments returns a small document set for trying the API without
// supplying content.
func SampleDocuments() []model.Document {
	return []model.Document{
		{
			Content: "Federal student loans are available to students who complete the FAFSA. " +
				"Direct Subsidized Loans do not accrue interest while the borrower is enrolled at least half-time, " +
				"while Direct Unsubsidized Loans accrue interest from disbursement. " +
				"The standard repayment term is ten years, though income-driven plans can extend it to twenty or twenty-five years.",
			Metadata: map[string]string{"source": "federal_loans_overview.txt", "topic": "loans"},
		},
		{
			Content: "Pell Grants are awarded to undergraduate students with exceptional financial need and do not require repayment. " +
				"The award amount depends on the student's expected family contribution, cost of attendance, and enrollment status. " +
				"A student may receive Pell Grant funding for no more than twelve semesters.",
			Metadata: map[string]string{"source": "pell_grants_guide.txt", "topic": "grants"},
		},
		{
			Content: "Public Service Loan Forgiveness cancels the remaining balance on Direct Loans after the borrower makes " +
				"one hundred twenty qualifying monthly payments while employed full-time by a government or eligible non-profit employer. " +
				"Payments made under an income-driven repayment plan count toward forgiveness; payments made while loans are in deferment do not.",
			Metadata: map[string]string{"source": "loan_forgiveness_programs.txt", "topic": "forgiveness"},
		},
	}
}
