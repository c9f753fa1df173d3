package parser

var testHeader = []string{
	"ID (Kapitel)", "Kriterium", "Unterkriterium", "Prüfverfahren",
	"Scoring (0-2)", "Kommentar", "Evidenz-Typ", "Evidenz / Quelle",
}

var testRules = []ColumnRule{
	{Column: ColChapter, Needles: []string{"kapitel", "chapter"}},
	{Column: ColSubcriterion, Needles: []string{"unterkriterium", "sub-criterion"}},
	{Column: ColCriterion, Needles: []string{"kriterium", "criterion"}},
	{Column: ColDescription, Needles: []string{"prüfverfahren", "beschreibung"}},
	{Column: ColScore, Needles: []string{"scoring", "score"}},
	{Column: ColComment, Needles: []string{"kommentar", "comment"}},
	{Column: ColEvidenceType, Needles: []string{"evidenz-typ", "evidence type"}},
	{Column: ColEvidence, Needles: []string{"evidenz", "evidence"}},
}

var testHeaderRules = HeaderRules{
	KeyTokens:          []string{"id"},
	ChapterTokens:      []string{"kapitel"},
	SubcriterionTokens: []string{"unterkriterium"},
}

func testDomains() DomainTable {
	return NewDomainTable(
		DomainRef{Label: "Security & Compliance", ID: "d1", Name: "Sicherheit & Compliance"},
		DomainRef{Label: "Datenschutz", ID: "d2", Name: "Datenschutz"},
	)
}

func testLayout() Layout {
	return Layout{
		Bounds:  DefaultBounds(),
		Header:  testHeaderRules,
		Columns: testRules,
		Domains: testDomains(),
	}
}

// testSheet puts a title row and the header row above body; body starts at row 3.
func testSheet(title string, body ...[]string) *Grid {
	rows := [][]string{{"Kriterienkatalog"}, testHeader}
	return NewGrid(title, append(rows, body...))
}
