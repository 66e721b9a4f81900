package http

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"strconv"

	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"github.com/couchcryptid/insurance-quote-service/internal/domain"
)

const pageCSS = `
body { font-family: system-ui, sans-serif; margin: 0; background: #f8fafc; color: #0f172a; }
nav { background: #0f172a; padding: .75rem 1.5rem; }
nav a { color: #cbd5e1; margin-right: 1.5rem; text-decoration: none; }
nav a.active { color: #fff; font-weight: 600; }
main { max-width: 60rem; margin: 0 auto; padding: 1.5rem; }
fieldset { border: 1px solid #cbd5e1; border-radius: .5rem; margin-bottom: 1rem; }
label { display: block; margin: .5rem 0 .25rem; }
input[type=text], input[type=email], input[type=number] { width: 100%; max-width: 24rem; padding: .35rem; }
.check { display: inline-block; margin-right: 1rem; }
.estimate { background: #e0f2fe; border-radius: .5rem; padding: .75rem 1rem; margin: 1rem 0; }
.warning { background: #fef3c7; border-radius: .5rem; padding: .75rem 1rem; margin: 1rem 0; }
.success { background: #dcfce7; border-radius: .5rem; padding: .75rem 1rem; margin: 1rem 0; }
table { border-collapse: collapse; font-size: .85rem; width: 100%; }
th, td { border: 1px solid #cbd5e1; padding: .25rem .5rem; text-align: left; }
button { margin-right: .5rem; padding: .4rem 1rem; }
`

// notice is a banner shown above a form.
type notice struct {
	Class string
	Text  string
}

func (s *Server) handleFullForm(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, http.StatusOK, "Insurance Application", "/apply", fullFormView(newFullForm(), nil, nil, nil))
}

func (s *Server) handleFullFormPost(w http.ResponseWriter, r *http.Request) {
	f, err := parseFullForm(r)
	if err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	var (
		quote  *domain.FullQuote
		saved  *domain.Submission
		banner *notice
		status = http.StatusOK
	)
	if len(f.Problems) == 0 {
		q := f.App.Quote()
		quote = &q
	}

	if r.PostFormValue(fieldAction) == actionSave {
		switch {
		case len(f.Problems) > 0:
			s.metrics.ValidationFailures.WithLabelValues(string(domain.FlowFull)).Inc()
			status = http.StatusUnprocessableEntity
		default:
			sub, err := s.intake.SubmitFull(r.Context(), f.App)
			status, banner, saved = s.submitOutcome(sub, err)
			f.Problems = append(f.Problems, problemsOf(err)...)
		}
	}

	s.renderPage(w, r, status, "Insurance Application", "/apply", fullFormView(f, quote, saved, banner))
}

func (s *Server) handleQuickForm(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, http.StatusOK, "Health Insurance Quick Form", "/health-quick", quickFormView(quickForm{}, nil, nil, nil))
}

func (s *Server) handleQuickFormPost(w http.ResponseWriter, r *http.Request) {
	f, err := parseQuickForm(r)
	if err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	var (
		quote  *domain.QuickQuote
		saved  *domain.Submission
		banner *notice
		status = http.StatusOK
	)
	if len(f.Problems) == 0 {
		q := f.App.Quote()
		quote = &q
	}

	if r.PostFormValue(fieldAction) == actionSave {
		switch {
		case len(f.Problems) > 0:
			s.metrics.ValidationFailures.WithLabelValues(string(domain.FlowQuick)).Inc()
			status = http.StatusUnprocessableEntity
		default:
			sub, err := s.intake.SubmitQuick(r.Context(), f.App)
			status, banner, saved = s.submitOutcome(sub, err)
			f.Problems = append(f.Problems, problemsOf(err)...)
		}
	}

	s.renderPage(w, r, status, "Health Insurance Quick Form", "/health-quick", quickFormView(f, quote, saved, banner))
}

// submitOutcome maps an intake result onto the page status and banner.
func (s *Server) submitOutcome(sub domain.Submission, err error) (int, *notice, *domain.Submission) {
	switch {
	case err == nil:
		return http.StatusOK, nil, &sub
	case domain.IsValidation(err):
		return http.StatusUnprocessableEntity, nil, nil
	case sub.ID != "":
		return http.StatusInternalServerError, &notice{
			Class: "warning",
			Text:  "The application was saved, but the PDF summary could not be generated.",
		}, nil
	default:
		return http.StatusInternalServerError, &notice{
			Class: "warning",
			Text:  "The application could not be saved. Please try again.",
		}, nil
	}
}

func (s *Server) handleRecordsPage(w http.ResponseWriter, r *http.Request) {
	records, err := s.intake.Records(r.Context())
	if err != nil {
		s.renderPage(w, r, http.StatusInternalServerError, "Insurance Records", "/records",
			Div(Class("warning"), g.Text("The records could not be loaded.")))
		return
	}
	s.renderPage(w, r, http.StatusOK, "Insurance Records", "/records", recordsView(records))
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, status int, title, current string, content g.Node) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := page(title, current, content).Render(w); err != nil {
		s.logger.Warn("render page failed", "error", err, "request_id", GetRequestID(r.Context()))
	}
}

func page(title, current string, content g.Node) g.Node {
	return Doctype(
		HTML(Lang("en"),
			Head(
				Meta(Charset("utf-8")),
				Meta(Name("viewport"), Content("width=device-width, initial-scale=1")),
				TitleEl(g.Text(title)),
				StyleEl(g.Raw(pageCSS)),
			),
			Body(
				Nav(
					navLink("/apply", "Insurance Application", current),
					navLink("/health-quick", "Health Insurance Quick Form", current),
					navLink("/records", "Insurance Records", current),
				),
				Main(
					H1(g.Text(title)),
					content,
				),
			),
		),
	)
}

func navLink(href, text, current string) g.Node {
	return A(Href(href), g.If(href == current, Class("active")), g.Text(text))
}

func fullFormView(f fullForm, quote *domain.FullQuote, saved *domain.Submission, banner *notice) g.Node {
	app := f.App
	selected := make(map[domain.Cover]bool, len(app.Covers))
	for _, c := range app.Covers {
		selected[c] = true
	}

	return g.Group{
		problemsView(f.Problems),
		bannerView(banner),
		savedView(saved, "Data saved successfully!", "Download PDF Summary"),
		Form(Method("post"), Action("/apply"),
			FieldSet(
				Legend(g.Text("Contributor Information")),
				textField(fieldName, "Full Name", "text", app.Name),
				numberField(fieldAge, "Age", app.Age, domain.FullMinAge, domain.MaxAge),
				textField(fieldMobile, "Mobile Number", "text", app.Mobile),
				textField(fieldEmail, "Email Address", "email", app.Email),
				textField(fieldEmployment, "Employment Status (e.g. Employed, Self-employed, Unemployed)", "text", app.Employment),
				numberField(fieldIncome, "Monthly Income (€)", app.Income, 0, -1),
			),
			FieldSet(
				Legend(g.Text("Dependents (0-18 years)")),
				numberField(fieldNumDependents, "Number of Dependents", len(app.Dependents), 0, domain.MaxDependents),
				P(g.Text("Change the number and press Update estimate to add or remove rows.")),
				g.Map(indexed(app.Dependents), func(d indexedDependent) g.Node {
					return Div(
						textField(dependentNameField(d.i), fmt.Sprintf("Dependent %d Name", d.i+1), "text", d.Name),
						numberField(dependentAgeField(d.i), fmt.Sprintf("Dependent %d Age", d.i+1), d.Age, 0, domain.MaxDependentAge),
					)
				}),
			),
			FieldSet(
				Legend(g.Text("Cover Options")),
				g.Map(domain.CoverCatalog, func(c domain.Cover) g.Node {
					return Label(Class("check"),
						Input(Type("checkbox"), Name(fieldCovers), Value(string(c)), g.If(selected[c], Checked())),
						g.Text(" "+c.Label()),
					)
				}),
			),
			g.If(quote != nil, fullEstimateView(quote)),
			Button(Type("submit"), Name(fieldAction), Value(actionEstimate), g.Text("Update estimate")),
			Button(Type("submit"), Name(fieldAction), Value(actionSave), g.Text("Save Application")),
		),
	}
}

func fullEstimateView(q *domain.FullQuote) g.Node {
	if q == nil {
		return g.Group(nil)
	}
	return Div(Class("estimate"),
		P(Strong(g.Text("Insurance Type: ")), g.Text(string(q.InsuranceType))),
		P(Strong(g.Text("Estimated Monthly Cost: ")), g.Textf("€%d", q.MonthlyCost)),
		P(Strong(g.Text("Estimated Yearly Cost: ")), g.Textf("€%d", q.YearlyCost)),
	)
}

func quickFormView(f quickForm, quote *domain.QuickQuote, saved *domain.Submission, banner *notice) g.Node {
	app := f.App
	selected := make(map[domain.HealthIssue]bool, len(app.HealthIssues))
	for _, h := range app.HealthIssues {
		selected[h] = true
	}

	return g.Group{
		problemsView(f.Problems),
		bannerView(banner),
		savedView(saved, "Health Insurance Application saved successfully!", "Download Health PDF Summary"),
		Form(Method("post"), Action("/health-quick"),
			textField(fieldName, "Full Name", "text", app.Name),
			numberField(fieldAge, "Age", app.Age, domain.QuickMinAge, domain.MaxAge),
			FieldSet(
				Legend(g.Text("Known Health Issues")),
				g.Map(domain.HealthIssueCatalog, func(h domain.HealthIssue) g.Node {
					return Label(Class("check"),
						Input(Type("checkbox"), Name(fieldHealthIssues), Value(string(h)), g.If(selected[h], Checked())),
						g.Text(" "+string(h)),
					)
				}),
			),
			textField(fieldEmployment, "Employment Status", "text", app.Employment),
			numberField(fieldDependents, "Number of Dependents under 18", app.Dependents, 0, domain.MaxDependents),
			g.If(quote != nil, quickEstimateView(quote)),
			Button(Type("submit"), Name(fieldAction), Value(actionEstimate), g.Text("Update estimate")),
			Button(Type("submit"), Name(fieldAction), Value(actionSave), g.Text("Save Health Application")),
		),
	}
}

func quickEstimateView(q *domain.QuickQuote) g.Node {
	if q == nil {
		return g.Group(nil)
	}
	return Div(Class("estimate"),
		P(Strong(g.Text("Estimated Cost: ")), g.Textf("€%d", q.Cost)),
	)
}

func recordsView(records []domain.Record) g.Node {
	if len(records) == 0 {
		return P(g.Text("No applications have been saved yet."))
	}
	return Table(
		THead(Tr(g.Map(domain.Columns, func(c string) g.Node { return Th(g.Text(c)) }))),
		TBody(g.Map(records, func(rec domain.Record) g.Node {
			row, err := rec.Row()
			if err != nil {
				return Tr(Td(g.Attr("colspan", strconv.Itoa(len(domain.Columns))), g.Text("unreadable record")))
			}
			return Tr(g.Map(row, func(cell string) g.Node { return Td(g.Text(cell)) }))
		})),
	)
}

func problemsView(problems []string) g.Node {
	if len(problems) == 0 {
		return g.Group(nil)
	}
	return Div(Class("warning"), Ul(g.Map(problems, func(p string) g.Node { return Li(g.Text(p)) })))
}

func bannerView(n *notice) g.Node {
	if n == nil {
		return g.Group(nil)
	}
	return Div(Class(n.Class), g.Text(n.Text))
}

// savedView confirms a submission and offers the summary as an inline download.
func savedView(sub *domain.Submission, message, label string) g.Node {
	if sub == nil {
		return g.Group(nil)
	}
	href := "data:" + sub.Document.ContentType + ";base64," + base64.StdEncoding.EncodeToString(sub.Document.Body)
	return Div(Class("success"),
		P(g.Text(message)),
		A(Href(href), g.Attr("download", sub.Document.Filename), g.Text(label)),
	)
}

func textField(name, label, typ, value string) g.Node {
	return g.Group{
		Label(For(name), g.Text(label)),
		Input(Type(typ), ID(name), Name(name), Value(value)),
	}
}

// numberField renders a bounded integer input. A negative maximum means unbounded.
func numberField(name, label string, value, lo, hi int) g.Node {
	return g.Group{
		Label(For(name), g.Text(label)),
		Input(Type("number"), ID(name), Name(name), Value(strconv.Itoa(value)),
			Min(strconv.Itoa(lo)),
			g.If(hi >= 0, Max(strconv.Itoa(hi))),
			g.Attr("step", "1"),
		),
	}
}

type indexedDependent struct {
	i int
	domain.Dependent
}

func indexed(deps []domain.Dependent) []indexedDependent {
	out := make([]indexedDependent, len(deps))
	for i, d := range deps {
		out[i] = indexedDependent{i: i, Dependent: d}
	}
	return out
}
