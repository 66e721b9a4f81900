package http_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/insurance-quote-service/internal/domain"
)

const (
	fullJSON = `{
		"name": "Marie Curie", "mobile": "+33 6 12 34 56 78", "email": "marie@example.fr",
		"age": 35, "income": 3000, "employment": "Employed",
		"dependents": [{"name": "Irène", "age": 5}],
		"covers": ["Tooth", "Accidental"]
	}`
	quickJSON = `{
		"name": "Jean", "age": 40, "employment": "Teacher",
		"health_issues": ["Diabetes", "Asthma"], "dependents": 1
	}`
)

func TestAPIQuoteFull(t *testing.T) {
	in := &mockIntake{}
	rec := do(t, newTestServer(in), http.MethodPost, "/api/v1/quotes/full", "application/json", fullJSON)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		InsuranceType string   `json:"insurance_type"`
		CoverCost     int      `json:"cover_cost"`
		ChildrenCost  int      `json:"children_cover_cost"`
		Monthly       int      `json:"monthly_cost_eur"`
		Yearly        int      `json:"yearly_cost_eur"`
		Covers        []string `json:"covers"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Private", body.InsuranceType)
	assert.Equal(t, 35, body.CoverCost)
	assert.Equal(t, 40, body.ChildrenCost)
	assert.Equal(t, 175, body.Monthly)
	assert.Equal(t, 2100, body.Yearly)
	assert.Equal(t, []string{"Accidental", "Tooth"}, body.Covers)
	assert.Empty(t, in.fullCalls, "quoting must not submit")
}

func TestAPIQuoteFullRejectsUnknownCover(t *testing.T) {
	rec := do(t, newTestServer(&mockIntake{}), http.MethodPost, "/api/v1/quotes/full", "application/json",
		`{"income": 1000, "covers": ["Dental"]}`)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), `unknown cover \"Dental\"`)
}

func TestAPIQuoteQuick(t *testing.T) {
	rec := do(t, newTestServer(&mockIntake{}), http.MethodPost, "/api/v1/quotes/quick", "application/json", quickJSON)

	require.Equal(t, http.StatusOK, rec.Code)
	var q domain.QuickQuote
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &q))
	assert.Equal(t, domain.QuickQuote{AgeCost: 400, HealthCost: 400, DependentCost: 150, Cost: 1950}, q)
}

func TestAPIInvalidBody(t *testing.T) {
	rec := do(t, newTestServer(&mockIntake{}), http.MethodPost, "/api/v1/quotes/quick", "application/json", `{"age": "forty"`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"invalid request body"}`, rec.Body.String())
}

func TestAPIRejectsNonJSONContentType(t *testing.T) {
	rec := do(t, newTestServer(&mockIntake{}), http.MethodPost, "/api/v1/quotes/quick", "text/plain", quickJSON)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestAPISubmitFullReturnsPDF(t *testing.T) {
	in := &mockIntake{}
	rec := do(t, newTestServer(in), http.MethodPost, "/api/v1/applications/full", "application/json; charset=utf-8", fullJSON)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.ContentTypePDF, rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="insurance_summary.pdf"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "sub-1", rec.Header().Get("X-Submission-ID"))
	assert.Equal(t, pdfBody, rec.Body.Bytes())

	require.Len(t, in.fullCalls, 1)
	assert.Equal(t, "Marie Curie", in.fullCalls[0].Name)
	assert.Equal(t, []domain.Dependent{{Name: "Irène", Age: 5}}, in.fullCalls[0].Dependents)
}

func TestAPISubmitQuickReturnsPDF(t *testing.T) {
	rec := do(t, newTestServer(&mockIntake{}), http.MethodPost, "/api/v1/applications/quick", "application/json", quickJSON)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="health_insurance_summary.pdf"`, rec.Header().Get("Content-Disposition"))
}

func TestAPISubmitErrors(t *testing.T) {
	tests := []struct {
		name       string
		intake     *mockIntake
		body       string
		wantStatus int
		check      func(t *testing.T, body map[string]any)
	}{
		{
			name:       "validation",
			intake:     &mockIntake{},
			body:       `{"age": 35, "income": 1000}`,
			wantStatus: http.StatusUnprocessableEntity,
			check: func(t *testing.T, body map[string]any) {
				assert.ElementsMatch(t, []any{"Name", "Mobile", "Email", "Employment"}, body["missing"])
			},
		},
		{
			name:       "age out of range",
			intake:     &mockIntake{},
			body:       `{"name": "A", "mobile": "1", "email": "a@b", "employment": "x", "age": 17}`,
			wantStatus: http.StatusUnprocessableEntity,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, []any{"age must be between 18 and 120"}, body["violations"])
			},
		},
		{
			name:       "store failure",
			intake:     &mockIntake{submitErr: &domain.StoreError{Op: "submit", Err: errors.New("disk full")}},
			body:       fullJSON,
			wantStatus: http.StatusInternalServerError,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "could not save the application", body["error"])
				assert.NotContains(t, body, "submission_id")
			},
		},
		{
			name:       "render failure keeps submission id",
			intake:     &mockIntake{renderFails: true},
			body:       fullJSON,
			wantStatus: http.StatusInternalServerError,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "sub-1", body["submission_id"])
				assert.Contains(t, body["error"], "insurance_summary.pdf")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, newTestServer(tt.intake), http.MethodPost, "/api/v1/applications/full", "application/json", tt.body)

			require.Equal(t, tt.wantStatus, rec.Code)
			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			tt.check(t, body)
		})
	}
}

func TestAPIListRecords(t *testing.T) {
	cost := 1950
	in := &mockIntake{records: []domain.Record{{Name: "Jean", Age: 40, Employment: "Teacher", Dependents: 1, Cost: &cost}}}
	rec := do(t, newTestServer(in), http.MethodGet, "/api/v1/records", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var got []domain.Record
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, in.records, got)
}

func TestAPIListRecordsStoreFailure(t *testing.T) {
	in := &mockIntake{recordsErr: &domain.StoreError{Op: "load", Err: errors.New("corrupt")}}
	rec := do(t, newTestServer(in), http.MethodGet, "/api/v1/records", "", "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestAPIListLandmarks(t *testing.T) {
	rec := do(t, newTestServer(&mockIntake{}), http.MethodGet, "/api/v1/landmarks", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var got []domain.Landmark
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, domain.Landmarks(), got)
}

func TestAPILocate(t *testing.T) {
	srv := newTestServer(&mockIntake{})

	t.Run("known landmark", func(t *testing.T) {
		rec := do(t, srv, http.MethodGet, "/api/v1/landmarks/Eiffel%20Tower", "", "")

		require.Equal(t, http.StatusOK, rec.Code)
		var got domain.LocateResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "Eiffel Tower", got.Name)
		assert.InDelta(t, 48.8588443, got.Geo.Lat, 1e-9)
		assert.InDelta(t, 2.2943506, got.Geo.Lon, 1e-9)
		assert.Equal(t, domain.SourceLandmark, got.Source)
	})

	t.Run("unknown name", func(t *testing.T) {
		rec := do(t, srv, http.MethodGet, "/api/v1/landmarks/Big%20Ben", "", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"error":"Location not found"}`, rec.Body.String())
	})

	t.Run("names match exactly", func(t *testing.T) {
		rec := do(t, srv, http.MethodGet, "/api/v1/landmarks/eiffel%20tower", "", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestAPIQuoteQuickRejectsUnknownHealthIssue(t *testing.T) {
	rec := do(t, newTestServer(&mockIntake{}), http.MethodPost, "/api/v1/quotes/quick", "application/json",
		`{"age": 40, "health_issues": ["Diabetes", "Cancer"], "dependents": 1}`)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), `unknown health issue \"Cancer\"`)
}

func TestAPIHealthIssuesMatchCaseInsensitively(t *testing.T) {
	in := &mockIntake{}
	srv := newTestServer(in)
	body := `{"name": "Jean", "age": 40, "employment": "Teacher", "health_issues": ["diabetes", "ASTHMA"], "dependents": 1}`

	rec := do(t, srv, http.MethodPost, "/api/v1/quotes/quick", "application/json", body)
	require.Equal(t, http.StatusOK, rec.Code)
	var q domain.QuickQuote
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &q))
	assert.Equal(t, 1950, q.Cost)

	rec = do(t, srv, http.MethodPost, "/api/v1/applications/quick", "application/json", body)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, in.quickCalls, 1)
	stored, quote := in.quickCalls[0].Normalize()
	assert.Equal(t, []domain.HealthIssue{domain.IssueDiabetes, domain.IssueAsthma}, stored.HealthIssues)
	assert.Equal(t, 1950, quote.Cost)
}
