package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/couchcryptid/insurance-quote-service/internal/domain"
)

// Form actions.
const (
	actionEstimate = "estimate"
	actionSave     = "save"
)

// Form field names.
const (
	fieldName          = "name"
	fieldMobile        = "mobile"
	fieldEmail         = "email"
	fieldAge           = "age"
	fieldIncome        = "income"
	fieldEmployment    = "employment"
	fieldNumDependents = "num_dependents"
	fieldCovers        = "covers"
	fieldHealthIssues  = "health_issues"
	fieldDependents    = "dependents"
	fieldAction        = "action"
)

func dependentNameField(i int) string { return fmt.Sprintf("dependent_name_%d", i) }
func dependentAgeField(i int) string  { return fmt.Sprintf("dependent_age_%d", i) }

// fullForm is the state of the full application form between requests.
type fullForm struct {
	App      domain.FullApplication
	Problems []string
}

// quickForm is the state of the quick health form between requests.
type quickForm struct {
	App      domain.QuickHealthApplication
	Problems []string
}

func newFullForm() fullForm {
	return fullForm{App: domain.FullApplication{Age: domain.FullMinAge}}
}

func parseFullForm(r *http.Request) (fullForm, error) {
	if err := r.ParseForm(); err != nil {
		return fullForm{}, err
	}
	var f fullForm
	p := formParser{form: r.PostForm}

	f.App = domain.FullApplication{
		Name:       p.text(fieldName),
		Mobile:     p.text(fieldMobile),
		Email:      p.text(fieldEmail),
		Age:        p.number(fieldAge, "Age", domain.FullMinAge),
		Income:     p.number(fieldIncome, "Income", 0),
		Employment: p.text(fieldEmployment),
	}

	n := min(max(p.number(fieldNumDependents, "Number of Dependents", 0), 0), domain.MaxDependents)
	f.App.Dependents = make([]domain.Dependent, n)
	for i := range n {
		f.App.Dependents[i] = domain.Dependent{
			Name: p.text(dependentNameField(i)),
			Age:  p.number(dependentAgeField(i), fmt.Sprintf("Dependent %d Age", i+1), 0),
		}
	}

	for _, v := range r.PostForm[fieldCovers] {
		c, err := domain.ParseCover(v)
		if err != nil {
			p.problems = append(p.problems, err.Error())
			continue
		}
		f.App.Covers = append(f.App.Covers, c)
	}

	f.Problems = p.problems
	return f, nil
}

func parseQuickForm(r *http.Request) (quickForm, error) {
	if err := r.ParseForm(); err != nil {
		return quickForm{}, err
	}
	var f quickForm
	p := formParser{form: r.PostForm}

	f.App = domain.QuickHealthApplication{
		Name:       p.text(fieldName),
		Age:        p.number(fieldAge, "Age", 0),
		Employment: p.text(fieldEmployment),
		Dependents: p.number(fieldDependents, "Number of Dependents", 0),
	}
	for _, v := range r.PostForm[fieldHealthIssues] {
		h, err := domain.ParseHealthIssue(v)
		if err != nil {
			p.problems = append(p.problems, err.Error())
			continue
		}
		f.App.HealthIssues = append(f.App.HealthIssues, h)
	}

	f.Problems = p.problems
	return f, nil
}

// formParser reads typed values from a posted form, collecting problems
// instead of failing on the first one.
type formParser struct {
	form     map[string][]string
	problems []string
}

func (p *formParser) text(key string) string {
	if vs := p.form[key]; len(vs) > 0 {
		return vs[0]
	}
	return ""
}

func (p *formParser) number(key, label string, fallback int) int {
	s := strings.TrimSpace(p.text(key))
	if s == "" {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		p.problems = append(p.problems, label+" must be a whole number")
		return fallback
	}
	return n
}

// problemsOf flattens an intake error into messages for the form banner.
func problemsOf(err error) []string {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return []string{ve.Error()}
	}
	return nil
}
