package store

// PublicationType classifies a dataset's associated publication. The zero
// meaningful value is PublicationNone, which contributes nothing to the
// recommendation corpus.
type PublicationType string

const (
	PublicationNone            PublicationType = "none"
	PublicationJournalArticle  PublicationType = "article"
	PublicationBook            PublicationType = "book"
	PublicationConferencePaper PublicationType = "conferencepaper"
	PublicationDataPlan        PublicationType = "datamanagementplan"
	PublicationPatent          PublicationType = "patent"
	PublicationPreprint        PublicationType = "preprint"
	PublicationReport          PublicationType = "report"
	PublicationSoftwareDoc     PublicationType = "softwaredocumentation"
	PublicationTechnicalNote   PublicationType = "technicalnote"
	PublicationThesis          PublicationType = "thesis"
	PublicationWorkingPaper    PublicationType = "workingpaper"
	PublicationOther           PublicationType = "other"
)

// displayNames maps publication types to their human-readable form, which is
// what the corpus extractor feeds into the full-text field.
var displayNames = map[PublicationType]string{
	PublicationJournalArticle:  "Journal Article",
	PublicationBook:            "Book",
	PublicationConferencePaper: "Conference Paper",
	PublicationDataPlan:        "Data Management Plan",
	PublicationPatent:          "Patent",
	PublicationPreprint:        "Preprint",
	PublicationReport:          "Report",
	PublicationSoftwareDoc:     "Software Documentation",
	PublicationTechnicalNote:   "Technical Note",
	PublicationThesis:          "Thesis",
	PublicationWorkingPaper:    "Working Paper",
	PublicationOther:           "Other",
}

// Display returns the human-readable name for the publication type, or the
// empty string for PublicationNone and unknown values. A dataset without a
// publication type contributes no placeholder text to the corpus.
func (pt PublicationType) Display() string {
	return displayNames[pt]
}

// Author is one dataset author; the affiliation is optional.
type Author struct {
	Name        string
	Affiliation string
}

// Dataset is one stored dataset record. The recommendation engine treats it
// as read-only input.
type Dataset struct {
	ID              int64
	Title           string
	Description     string
	PublicationType PublicationType
	Authors         []Author
	Tags            string // comma-separated
	DatasetDOI      string // empty when no DOI is assigned
}
