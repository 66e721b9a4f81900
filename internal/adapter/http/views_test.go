package http_test

import (
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/insurance-quote-service/internal/domain"
)

const formContentType = "application/x-www-form-urlencoded"

func fullFormValues(action string) url.Values {
	return url.Values{
		"name":             {"Marie Curie"},
		"mobile":           {"+33 6 12 34 56 78"},
		"email":            {"marie@example.fr"},
		"age":              {"35"},
		"income":           {"3000"},
		"employment":       {"Employed"},
		"num_dependents":   {"1"},
		"dependent_name_0": {"Irène"},
		"dependent_age_0":  {"5"},
		"covers":           {"Tooth", "Accidental"},
		"action":           {action},
	}
}

func quickFormValues(action string) url.Values {
	return url.Values{
		"name":          {"Jean"},
		"age":           {"40"},
		"employment":    {"Teacher"},
		"health_issues": {"Diabetes", "Asthma"},
		"dependents":    {"1"},
		"action":        {action},
	}
}

func TestFullFormRenders(t *testing.T) {
	rec := do(t, newTestServer(&mockIntake{}), http.MethodGet, "/apply", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.Contains(t, body, "<!doctype html>")
	assert.Contains(t, body, "Insurance Application")
	for _, c := range domain.CoverCatalog {
		assert.Contains(t, body, c.Label())
	}
	assert.Contains(t, body, `name="age" value="18"`)
}

func TestFullFormEstimate(t *testing.T) {
	in := &mockIntake{}
	rec := do(t, newTestServer(in), http.MethodPost, "/apply", formContentType, fullFormValues("estimate").Encode())

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Private")
	assert.Contains(t, body, "€175")
	assert.Contains(t, body, "€2100")
	assert.Contains(t, body, `name="dependent_name_0"`)
	assert.Empty(t, in.fullCalls)
}

func TestFullFormSave(t *testing.T) {
	in := &mockIntake{}
	rec := do(t, newTestServer(in), http.MethodPost, "/apply", formContentType, fullFormValues("save").Encode())

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Data saved successfully!")
	assert.Contains(t, body, "data:application/pdf;base64,")
	assert.Contains(t, body, `download="insurance_summary.pdf"`)

	require.Len(t, in.fullCalls, 1)
	got := in.fullCalls[0]
	assert.Equal(t, 3000, got.Income)
	assert.Equal(t, []domain.Dependent{{Name: "Irène", Age: 5}}, got.Dependents)
	assert.Equal(t, []domain.Cover{domain.CoverTooth, domain.CoverAccidental}, got.Covers)
}

func TestFullFormSaveMissingFields(t *testing.T) {
	v := fullFormValues("save")
	v.Del("name")
	rec := do(t, newTestServer(&mockIntake{}), http.MethodPost, "/apply", formContentType, v.Encode())

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "please fill in all required fields (Name)")
	assert.NotContains(t, rec.Body.String(), "Data saved successfully!")
}

func TestFullFormSaveMalformedNumber(t *testing.T) {
	in := &mockIntake{}
	v := fullFormValues("save")
	v.Set("income", "lots")
	rec := do(t, newTestServer(in), http.MethodPost, "/apply", formContentType, v.Encode())

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Income must be a whole number")
	assert.Empty(t, in.fullCalls)
}

func TestFullFormSaveRenderFailure(t *testing.T) {
	rec := do(t, newTestServer(&mockIntake{renderFails: true}), http.MethodPost, "/apply", formContentType, fullFormValues("save").Encode())

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "The application was saved, but the PDF summary could not be generated.")
}

func TestFullFormSaveStoreFailure(t *testing.T) {
	in := &mockIntake{submitErr: &domain.StoreError{Op: "submit", Err: errors.New("read-only file system")}}
	rec := do(t, newTestServer(in), http.MethodPost, "/apply", formContentType, fullFormValues("save").Encode())

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "The application could not be saved.")
}

func TestQuickFormEstimateAndSave(t *testing.T) {
	in := &mockIntake{}
	srv := newTestServer(in)

	rec := do(t, srv, http.MethodPost, "/health-quick", formContentType, quickFormValues("estimate").Encode())
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "€1950")
	assert.Empty(t, in.quickCalls)

	rec = do(t, srv, http.MethodPost, "/health-quick", formContentType, quickFormValues("save").Encode())
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Health Insurance Application saved successfully!")
	assert.Contains(t, rec.Body.String(), `download="health_insurance_summary.pdf"`)
	require.Len(t, in.quickCalls, 1)
	assert.Equal(t, []domain.HealthIssue{domain.IssueDiabetes, domain.IssueAsthma}, in.quickCalls[0].HealthIssues)
}

func TestQuickFormRenders(t *testing.T) {
	rec := do(t, newTestServer(&mockIntake{}), http.MethodGet, "/health-quick", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	for _, h := range domain.HealthIssueCatalog {
		assert.Contains(t, rec.Body.String(), `value="`+string(h)+`"`)
	}
}

func TestRecordsPage(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		rec := do(t, newTestServer(&mockIntake{}), http.MethodGet, "/records", "", "")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "No applications have been saved yet.")
	})

	t.Run("rows", func(t *testing.T) {
		cost := 1950
		in := &mockIntake{records: []domain.Record{{
			Name: "Jean", Age: 40, Employment: "Teacher", Dependents: 1,
			HealthIssues: []domain.HealthIssue{domain.IssueDiabetes, domain.IssueAsthma}, Cost: &cost,
		}}}
		rec := do(t, newTestServer(in), http.MethodGet, "/records", "", "")

		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		for _, col := range domain.Columns {
			assert.Contains(t, body, "<th>"+col+"</th>")
		}
		assert.Contains(t, body, "<td>Jean</td>")
		assert.Contains(t, body, "<td>Diabetes, Asthma</td>")
		assert.Contains(t, body, "<td>1950</td>")
	})

	t.Run("store failure", func(t *testing.T) {
		in := &mockIntake{recordsErr: &domain.StoreError{Op: "load", Err: errors.New("corrupt")}}
		rec := do(t, newTestServer(in), http.MethodGet, "/records", "", "")

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), "The records could not be loaded.")
	})
}
