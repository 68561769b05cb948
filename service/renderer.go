package service

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/AnTengye/casebrief/model"
	"github.com/AnTengye/casebrief/pkg/casename"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Fact is a labelled metadata value shown under the case header.
type Fact struct {
	Label string
	Value string
}

// Tab is one rendered brief section.
type Tab struct {
	ID    string
	Label string
	HTML  template.HTML
	Empty bool
}

// Dashboard is the view model of one selected case.
type Dashboard struct {
	Index        int
	Title        string
	SourceURL    string
	CivilNumber  string
	Court        string
	Facts        []Fact
	Disposition  template.HTML
	Keywords     []string
	Plaintiffs   []string
	Defendants   []string
	Tabs         []Tab
	OriginalText string
	BriefError   string
}

type section struct {
	id          string
	label       string
	placeholder string
	build       func(*model.Brief) string
}

// Tab order follows the dashboard layout; the original opinion tab is added by
// the page template.
var sections = []section{
	{"issues", "Issues", "No issues recorded.", issuesMarkdown},
	{"decision", "Decision", "No decision recorded.", decisionMarkdown},
	{"timeline", "Timeline", "No timeline recorded.", timelineMarkdown},
	{"history", "Procedural History", "No procedural history recorded.", historyMarkdown},
	{"background", "Background", "No background recorded.", backgroundMarkdown},
	{"citations", "Citations", "No citations recorded.", citationsMarkdown},
}

// Renderer turns cases into dashboard view models and markdown documents.
type Renderer struct {
	markdown goldmark.Markdown
	policy   *bluemonday.Policy
}

func NewRenderer() *Renderer {
	return &Renderer{
		markdown: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
		),
		policy: bluemonday.UGCPolicy(),
	}
}

// Dashboard builds the view model for c. Fields that are absent, blank or
// "none" are left out.
func (r *Renderer) Dashboard(c *model.Case) (*Dashboard, error) {
	d := &Dashboard{
		Index:        c.Index,
		Title:        c.Name,
		SourceURL:    c.SourceURL,
		OriginalText: c.OriginalText,
		BriefError:   c.BriefError,
	}

	brief := c.Brief
	if brief == nil {
		brief = &model.Brief{}
	}

	meta := brief.CaseMetadata
	if meta.CivilNumber.Present() {
		d.CivilNumber = meta.CivilNumber.String()
	}
	if meta.Court.Present() {
		d.Court = meta.Court.String()
	}
	for _, f := range []struct {
		label string
		value model.Text
	}{
		{"Date Filed", meta.DateFiled},
		{"Decision Date", meta.DecisionDate},
		{"Judge", meta.Judge},
	} {
		if f.value.Present() {
			d.Facts = append(d.Facts, Fact{Label: f.label, Value: f.value.String()})
		}
	}
	if meta.Disposition.Present() {
		html, err := r.HTML(meta.Disposition.String())
		if err != nil {
			return nil, err
		}
		d.Disposition = html
	}

	d.Keywords = brief.Keywords.Present()
	d.Plaintiffs = brief.Parties.Plaintiffs.Present()
	d.Defendants = brief.Parties.Defendants.Present()

	for _, sec := range sections {
		md := sec.build(brief)
		tab := Tab{ID: sec.id, Label: sec.label}
		if strings.TrimSpace(md) == "" {
			md = "_" + sec.placeholder + "_"
			tab.Empty = true
		}
		html, err := r.HTML(md)
		if err != nil {
			return nil, fmt.Errorf("failed to render %s: %w", sec.id, err)
		}
		tab.HTML = html
		d.Tabs = append(d.Tabs, tab)
	}

	return d, nil
}

// HTML converts markdown to sanitized HTML.
func (r *Renderer) HTML(md string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.markdown.Convert([]byte(md), &buf); err != nil {
		return "", err
	}
	return template.HTML(r.policy.SanitizeBytes(buf.Bytes())), nil
}

// MarkdownOptions controls the whole-brief markdown export.
type MarkdownOptions struct {
	IncludeOpinion bool
}

// Markdown renders the whole case as one markdown document.
func (r *Renderer) Markdown(c *model.Case, opts MarkdownOptions) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# ⚖️ %s\n\n", c.Name)

	brief := c.Brief
	if brief == nil {
		brief = &model.Brief{}
	}
	if c.BriefError != "" {
		fmt.Fprintf(&b, "> Brief unavailable: %s\n\n", c.BriefError)
	}

	meta := brief.CaseMetadata
	if meta.CivilNumber.Present() {
		fmt.Fprintf(&b, "**%s**\n\n", meta.CivilNumber)
	}
	if meta.Court.Present() {
		fmt.Fprintf(&b, "%s\n\n", meta.Court)
	}

	var facts []string
	for _, f := range []struct {
		label string
		value model.Text
	}{
		{"Date Filed", meta.DateFiled},
		{"Decision Date", meta.DecisionDate},
		{"Judge", meta.Judge},
	} {
		if f.value.Present() {
			facts = append(facts, fmt.Sprintf("- **%s:** %s", f.label, f.value))
		}
	}
	if len(facts) > 0 {
		b.WriteString(strings.Join(facts, "\n"))
		b.WriteString("\n\n")
	}
	if meta.Disposition.Present() {
		fmt.Fprintf(&b, "**Disposition**\n\n%s\n\n", meta.Disposition)
	}

	if kws := brief.Keywords.Present(); len(kws) > 0 {
		fmt.Fprintf(&b, "## Keywords\n\n%s\n\n", strings.Join(kws, " · "))
	}

	plaintiffs := brief.Parties.Plaintiffs.Present()
	defendants := brief.Parties.Defendants.Present()
	if len(plaintiffs) > 0 || len(defendants) > 0 {
		b.WriteString("## Parties\n\n")
		if len(plaintiffs) > 0 {
			fmt.Fprintf(&b, "**Plaintiffs:** %s\n\n", strings.Join(plaintiffs, "; "))
		}
		if len(defendants) > 0 {
			fmt.Fprintf(&b, "**Defendants:** %s\n\n", strings.Join(defendants, "; "))
		}
	}

	for _, sec := range sections {
		md := strings.TrimSpace(sec.build(brief))
		if md == "" {
			continue
		}
		fmt.Fprintf(&b, "## %s\n\n%s\n\n", sec.label, md)
	}

	if c.SourceURL != "" || opts.IncludeOpinion {
		b.WriteString("## Original Opinion\n\n")
		if c.SourceURL != "" {
			fmt.Fprintf(&b, "[Open Source Link](%s)\n\n", c.SourceURL)
		}
		if opts.IncludeOpinion && strings.TrimSpace(c.OriginalText) != "" {
			for _, line := range strings.Split(strings.TrimSpace(c.OriginalText), "\n") {
				fmt.Fprintf(&b, "    %s\n", line)
			}
			b.WriteString("\n")
		}
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}

func issuesMarkdown(brief *model.Brief) string {
	var b strings.Builder
	for i, issue := range brief.IssuesAnalysis {
		number := fmt.Sprint(i + 1)
		if issue.IssueNumber.Present() {
			number = issue.IssueNumber.String()
		}
		fmt.Fprintf(&b, "### Issue %s\n\n", number)
		writeLabelled(&b, "Question", issue.Question)
		writeLabelled(&b, "Holding", issue.Holding)
		writeLabelled(&b, "Ratio", issue.Ratio)
		if i < len(brief.IssuesAnalysis)-1 {
			b.WriteString("---\n\n")
		}
	}
	return b.String()
}

func decisionMarkdown(brief *model.Brief) string {
	var b strings.Builder
	decision := brief.CourtDecision
	writeLabelled(&b, "Holding", decision.Holding)
	writeLabelled(&b, "Outcome", decision.Outcome)
	if reasons := decision.Reasoning.Present(); len(reasons) > 0 {
		b.WriteString("**Reasoning**\n\n")
		for _, reason := range reasons {
			fmt.Fprintf(&b, "%s\n\n", reason)
		}
	}
	return b.String()
}

func timelineMarkdown(brief *model.Brief) string {
	var b strings.Builder
	for _, t := range brief.CaseTimeline {
		switch {
		case t.Date.Present() && t.Event.Present():
			fmt.Fprintf(&b, "**%s** — %s\n\n", t.Date, t.Event)
		case t.Event.Present():
			fmt.Fprintf(&b, "%s\n\n", t.Event)
		case t.Date.Present():
			fmt.Fprintf(&b, "**%s**\n\n", t.Date)
		}
	}
	return b.String()
}

func historyMarkdown(brief *model.Brief) string {
	var b strings.Builder
	for _, h := range brief.ProceduralHistory {
		var heading []string
		if h.Date.Present() {
			heading = append(heading, h.Date.String())
		}
		if h.Court.Present() {
			heading = append(heading, h.Court.String())
		}
		if len(heading) > 0 {
			fmt.Fprintf(&b, "**%s**\n\n", strings.Join(heading, " | "))
		}
		if h.Event.Present() {
			fmt.Fprintf(&b, "%s\n\n", h.Event)
		}
	}
	return b.String()
}

func backgroundMarkdown(brief *model.Brief) string {
	var b strings.Builder
	if brief.Background.Summary.Present() {
		fmt.Fprintf(&b, "%s\n\n", brief.Background.Summary)
	}
	if facts := brief.Background.KeyFacts.Present(); len(facts) > 0 {
		b.WriteString("**Key Facts**\n\n")
		writeBullets(&b, facts)
	}
	return b.String()
}

func citationsMarkdown(brief *model.Brief) string {
	var b strings.Builder
	for _, group := range brief.Citations {
		items := group.Items.Present()
		if len(items) == 0 {
			continue
		}
		fmt.Fprintf(&b, "**%s**\n\n", CategoryTitle(group.Category))
		writeBullets(&b, items)
	}
	return b.String()
}

// CategoryTitle turns a citation key such as "statutes_cited" into a heading.
func CategoryTitle(category string) string {
	return casename.TitleWords(strings.ReplaceAll(category, "_", " "))
}

func writeLabelled(b *strings.Builder, label string, value model.Text) {
	if !value.Present() {
		return
	}
	fmt.Fprintf(b, "**%s**\n\n%s\n\n", label, strings.TrimSpace(value.String()))
}

func writeBullets(b *strings.Builder, items []string) {
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
	b.WriteString("\n")
}
