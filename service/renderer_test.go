package service

import (
	"strings"
	"testing"

	"github.com/AnTengye/casebrief/model"
)

func TestRendererDashboard(t *testing.T) {
	store := loadTestRecords(t)
	c, err := store.Get(0)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	d, err := NewRenderer().Dashboard(c)
	if err != nil {
		t.Fatalf("Dashboard failed: %v", err)
	}

	if d.Title != "Smith Vs Jones Logistics Llc" {
		t.Errorf("Unexpected title: %s", d.Title)
	}
	if d.CivilNumber != "Civil Action No. 19-2265" {
		t.Errorf("Unexpected civil number: %s", d.CivilNumber)
	}
	if len(d.Facts) != 3 || d.Facts[0].Label != "Date Filed" || d.Facts[2].Value != "Rudolph Contreras" {
		t.Errorf("Unexpected facts: %+v", d.Facts)
	}
	if !strings.Contains(string(d.Disposition), "<strong>granted</strong>") {
		t.Errorf("Expected disposition markdown rendered, got %s", d.Disposition)
	}
	if len(d.Keywords) != 2 {
		t.Errorf("Expected empty keyword dropped, got %v", d.Keywords)
	}
	if len(d.Defendants) != 2 {
		t.Errorf("Expected 2 defendants, got %v", d.Defendants)
	}

	labels := make([]string, len(d.Tabs))
	for i, tab := range d.Tabs {
		labels[i] = tab.Label
	}
	expected := "Issues,Decision,Timeline,Procedural History,Background,Citations"
	if strings.Join(labels, ",") != expected {
		t.Errorf("Expected tabs %s, got %s", expected, strings.Join(labels, ","))
	}

	issues := string(d.Tabs[0].HTML)
	for _, want := range []string{"Issue 1", "Issue 2", "Question", "Discovery rule applies."} {
		if !strings.Contains(issues, want) {
			t.Errorf("Expected %q in issues tab: %s", want, issues)
		}
	}

	timeline := string(d.Tabs[2].HTML)
	if !strings.Contains(timeline, "<strong>2019-07-30</strong> — Complaint filed") {
		t.Errorf("Unexpected timeline rendering: %s", timeline)
	}

	history := string(d.Tabs[3].HTML)
	if !strings.Contains(history, "2019-10-01 | D.D.C.") {
		t.Errorf("Unexpected procedural history rendering: %s", history)
	}

	citations := string(d.Tabs[5].HTML)
	if !strings.Contains(citations, "Cases Cited") || !strings.Contains(citations, "Statutes Cited") {
		t.Errorf("Expected title-cased citation categories: %s", citations)
	}
	if strings.Index(citations, "Cases Cited") > strings.Index(citations, "Statutes Cited") {
		t.Error("Expected citation categories in document order")
	}
}

func TestRendererOmitsNoneFields(t *testing.T) {
	store := loadTestRecords(t)
	c, err := store.Get(1)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	d, err := NewRenderer().Dashboard(c)
	if err != nil {
		t.Fatalf("Dashboard failed: %v", err)
	}

	if d.CivilNumber != "" {
		t.Errorf("Expected 'None' civil number omitted, got %q", d.CivilNumber)
	}
	if d.Court != "Court of Appeals" {
		t.Errorf("Expected court kept, got %q", d.Court)
	}
	if len(d.Facts) != 0 {
		t.Errorf("Expected no facts, got %+v", d.Facts)
	}
	if d.Disposition != "" {
		t.Errorf("Expected no disposition, got %s", d.Disposition)
	}
	for _, tab := range d.Tabs {
		if !tab.Empty {
			t.Errorf("Expected tab %s to be empty, got %s", tab.Label, tab.HTML)
		}
		if strings.Contains(strings.ToLower(string(tab.HTML)), ">none<") {
			t.Errorf("Tab %s rendered a none value: %s", tab.Label, tab.HTML)
		}
	}
	if !strings.Contains(string(d.Tabs[1].HTML), "No decision recorded.") {
		t.Errorf("Expected placeholder in decision tab, got %s", d.Tabs[1].HTML)
	}
}

func TestRendererOmitsNoneSections(t *testing.T) {
	brief, err := model.ParseBrief(`{
		"case_metadata": "None",
		"parties": null,
		"keywords": ["venue"],
		"issues_analysis": [{"issue_number": "1", "question": "Is venue proper?", "holding": "Yes."}],
		"court_decision": "none",
		"case_timeline": [{"date": "2020-02-03", "event": "Transfer ordered"}],
		"procedural_history": "None",
		"background": "None",
		"citations": "NONE"
	}`)
	if err != nil {
		t.Fatalf("ParseBrief failed: %v", err)
	}
	c := &model.Case{Name: "Doe Vs Roe", OpinionRecord: model.OpinionRecord{Index: 9, Brief: brief}}

	r := NewRenderer()
	d, err := r.Dashboard(c)
	if err != nil {
		t.Fatalf("Dashboard failed: %v", err)
	}
	if d.CivilNumber != "" || d.Court != "" || len(d.Facts) != 0 || len(d.Plaintiffs) != 0 {
		t.Errorf("Expected metadata and parties omitted, got %+v", d)
	}
	if len(d.Keywords) != 1 || d.Keywords[0] != "venue" {
		t.Errorf("Expected keywords kept, got %v", d.Keywords)
	}

	filled := map[string]string{
		"issues":   "Is venue proper?",
		"timeline": "Transfer ordered",
	}
	for _, tab := range d.Tabs {
		want, ok := filled[tab.ID]
		if tab.Empty == ok {
			t.Errorf("Tab %s: expected empty=%v", tab.Label, !ok)
		}
		if ok && !strings.Contains(string(tab.HTML), want) {
			t.Errorf("Expected %q in %s tab: %s", want, tab.Label, tab.HTML)
		}
	}

	md := r.Markdown(c, MarkdownOptions{})
	for _, want := range []string{"## Keywords", "## Issues", "## Timeline"} {
		if !strings.Contains(md, want) {
			t.Errorf("Expected %q in markdown:\n%s", want, md)
		}
	}
	for _, unwanted := range []string{"## Decision", "## Background", "## Citations", "## Parties"} {
		if strings.Contains(md, unwanted) {
			t.Errorf("Unexpected %q in markdown:\n%s", unwanted, md)
		}
	}
}

func TestRendererBrokenBrief(t *testing.T) {
	store := loadTestRecords(t)
	c, err := store.Get(2)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	d, err := NewRenderer().Dashboard(c)
	if err != nil {
		t.Fatalf("Dashboard failed: %v", err)
	}
	if d.BriefError == "" {
		t.Error("Expected brief error on dashboard")
	}
	if d.Title != "Unknown Case" {
		t.Errorf("Expected fallback title, got %s", d.Title)
	}
	if len(d.Tabs) != 6 {
		t.Errorf("Expected all tabs present, got %d", len(d.Tabs))
	}
}

func TestRendererHTMLSanitizes(t *testing.T) {
	html, err := NewRenderer().HTML("Holding <script>alert(1)</script> [x](javascript:alert(1))")
	if err != nil {
		t.Fatalf("HTML failed: %v", err)
	}
	out := string(html)
	if strings.Contains(out, "<script") || strings.Contains(out, "javascript:") {
		t.Errorf("Expected unsafe content removed, got %s", out)
	}
}

func TestRendererMarkdown(t *testing.T) {
	store := loadTestRecords(t)
	c, err := store.Get(0)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	md := NewRenderer().Markdown(c, MarkdownOptions{})
	for _, want := range []string{
		"# ⚖️ Smith Vs Jones Logistics Llc",
		"**Civil Action No. 19-2265**",
		"- **Judge:** Rudolph Contreras",
		"## Keywords",
		"**Plaintiffs:** Maria Smith",
		"## Issues",
		"### Issue 2",
		"## Citations",
		"- Lujan v. Defenders of Wildlife, 504 U.S. 555 (1992)",
		"[Open Source Link](https://www.courtlistener.com/opinion/4718291/smith-v-jones-logistics-llc/)",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("Expected %q in markdown:\n%s", want, md)
		}
	}
	if strings.Contains(md, "MEMORANDUM OPINION") {
		t.Error("Expected opinion text excluded by default")
	}

	full := NewRenderer().Markdown(c, MarkdownOptions{IncludeOpinion: true})
	if !strings.Contains(full, "    MEMORANDUM OPINION") {
		t.Errorf("Expected indented opinion text, got:\n%s", full)
	}
}

func TestRendererMarkdownSkipsEmptySections(t *testing.T) {
	c := &model.Case{
		Name:          "Appeal",
		OpinionRecord: model.OpinionRecord{Brief: &model.Brief{}},
	}
	md := NewRenderer().Markdown(c, MarkdownOptions{})
	if md != "# ⚖️ Appeal\n" {
		t.Errorf("Expected only the title, got %q", md)
	}
}

func TestCategoryTitle(t *testing.T) {
	tests := map[string]string{
		"statutes_cited":      "Statutes Cited",
		"CASES_REFERRED_TO":   "Cases Referred To",
		"other":               "Other",
		"constitutional__art": "Constitutional Art",
	}
	for in, expected := range tests {
		if got := CategoryTitle(in); got != expected {
			t.Errorf("CategoryTitle(%q): expected %q, got %q", in, expected, got)
		}
	}
}
