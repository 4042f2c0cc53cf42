package ingest

import "egzamin-backend/lib/scrapers/praktyka"

// QuestionProfile is one theory question bank on praktycznyegzamin.pl.
// older and newer exam tracks covering the same material share a table
// (EE.08 feeds the INF.02 table, the combined INF.03/EE.09/E.14 listing
// feeds the INF.03 table).
type QuestionProfile struct {
	Key   string
	Table string
	URL   string
}

var QuestionProfiles = []QuestionProfile{
	{Key: "e12", Table: "questions_e12", URL: "https://www.praktycznyegzamin.pl/e12/teoria/wszystko/"},
	{Key: "e13", Table: "questions_e13", URL: "https://www.praktycznyegzamin.pl/e13/teoria/wszystko/"},
	{Key: "ee08", Table: "questions_inf02", URL: "https://www.praktycznyegzamin.pl/ee08/teoria/wszystko/"},
	{Key: "inf03ee09e14", Table: "questions_inf03", URL: "https://www.praktycznyegzamin.pl/inf03ee09e14/teoria/wszystko/"},
	{Key: "inf04", Table: "questions_inf04", URL: "https://www.praktycznyegzamin.pl/inf04/teoria/wszystko/"},
}

// PracticeProfile is one exam track stored in its own practice table.
type PracticeProfile struct {
	Key   string
	Table string
	// free-text type tag stored with every archive of this track
	Label string
	// extra downloadable roles beyond sheet/files/solution
	Extras []praktyka.ExtraRole
}

// PracticeGroup is one listing page on ee-informatyk.pl. multi-profile
// groups filter server side through the "egzamin" query parameter and
// every item's code is still checked against the profile it is filed
// under.
type PracticeGroup struct {
	Name     string
	BaseURL  string
	Profiles []PracticeProfile
}

// Multi reports whether the group's listing mixes several exam tracks.
func (g PracticeGroup) Multi() bool {
	return len(g.Profiles) > 1
}

var PracticeGroups = []PracticeGroup{
	{
		Name:    "INF.04",
		BaseURL: "https://ee-informatyk.pl/inf04/praktyka/",
		Profiles: []PracticeProfile{
			{Key: "inf04", Table: "practice_inf04", Label: "INF.04", Extras: praktyka.Inf04ExtraRoles},
		},
	},
	{
		Name:    "INF.02 / EE.08 / E.13 / E.12",
		BaseURL: "https://ee-informatyk.pl/inf02-ee08/praktyka/",
		Profiles: []PracticeProfile{
			{Key: "inf02", Table: "practice_inf02", Label: "INF02"},
			{Key: "ee08", Table: "practice_ee08", Label: "EE08"},
			{Key: "e13", Table: "practice_e13", Label: "E13"},
			{Key: "e12", Table: "practice_e12", Label: "E12"},
		},
	},
	{
		Name:    "INF.03 / EE.09 / E.14",
		BaseURL: "https://ee-informatyk.pl/inf03-ee09/praktyka/",
		Profiles: []PracticeProfile{
			{Key: "inf03", Table: "practice_inf03", Label: "INF03"},
			{Key: "ee09", Table: "practice_ee09", Label: "EE09"},
			{Key: "e14", Table: "practice_e14", Label: "E14"},
		},
	},
}
