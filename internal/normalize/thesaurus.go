package normalize

// Thesaurus supplies synonym candidates for the expansion stage of the
// pipeline. Implementations may be backed by any lexical resource; the
// pipeline only requires that returned synonyms are lowercase and distinct
// from the queried word.
type Thesaurus interface {
	// Synonyms returns synonym candidates for word, or nil when none exist.
	Synonyms(word string) []string
}

// StaticThesaurus is a Thesaurus backed by an in-memory table.
type StaticThesaurus struct {
	entries map[string][]string
}

// NewStaticThesaurus creates a StaticThesaurus from the given table. The
// table is used as-is; callers should not mutate it afterwards.
func NewStaticThesaurus(entries map[string][]string) *StaticThesaurus {
	return &StaticThesaurus{entries: entries}
}

// Synonyms returns the table entry for word.
func (t *StaticThesaurus) Synonyms(word string) []string {
	return t.entries[word]
}

// NopThesaurus returns a Thesaurus with no entries, disabling synonym
// expansion entirely.
func NopThesaurus() Thesaurus {
	return &StaticThesaurus{}
}

// builtinSynonyms is a compact general-English synonym table used by the
// default pipeline. Entries skew toward vocabulary common in dataset titles,
// descriptions, and research metadata.
var builtinSynonyms = map[string][]string{
	"analyze":    {"examine", "study"},
	"analysis":   {"examination", "study"},
	"approach":   {"method", "technique"},
	"article":    {"paper", "publication"},
	"assess":     {"evaluate", "measure"},
	"big":        {"large", "great"},
	"build":      {"construct", "create"},
	"collection": {"set", "compilation"},
	"compare":    {"contrast"},
	"comprehensive": {"complete", "thorough"},
	"create":     {"make", "produce"},
	"data":       {"information"},
	"dataset":    {"corpus", "collection"},
	"describe":   {"explain", "detail"},
	"detect":     {"identify", "find"},
	"develop":    {"create", "design"},
	"error":      {"mistake", "fault"},
	"evaluate":   {"assess", "measure"},
	"examine":    {"inspect", "analyze"},
	"experiment": {"trial", "test"},
	"explore":    {"investigate", "examine"},
	"fast":       {"quick", "rapid"},
	"feature":    {"attribute", "characteristic"},
	"find":       {"discover", "locate"},
	"goal":       {"aim", "objective"},
	"great":      {"large", "significant"},
	"group":      {"cluster", "set"},
	"important":  {"significant", "essential"},
	"improve":    {"enhance", "refine"},
	"investigate": {"examine", "explore"},
	"large":      {"big", "extensive"},
	"measure":    {"quantify", "assess"},
	"method":     {"approach", "technique"},
	"model":      {"representation"},
	"new":        {"novel", "recent"},
	"novel":      {"new", "original"},
	"paper":      {"article", "publication"},
	"predict":    {"forecast", "estimate"},
	"problem":    {"issue", "challenge"},
	"project":    {"undertaking", "effort"},
	"quick":      {"fast", "rapid"},
	"record":     {"entry", "register"},
	"research":   {"study", "investigation"},
	"result":     {"outcome", "finding"},
	"sample":     {"specimen", "example"},
	"search":     {"lookup", "query"},
	"show":       {"demonstrate", "display"},
	"small":      {"little", "minor"},
	"software":   {"program", "application"},
	"study":      {"research", "analysis"},
	"survey":     {"study", "review"},
	"test":       {"trial", "experiment"},
	"tool":       {"instrument", "utility"},
	"use":        {"employ", "apply"},
}

// DefaultThesaurus returns the built-in general-English thesaurus.
func DefaultThesaurus() Thesaurus {
	return NewStaticThesaurus(builtinSynonyms)
}
