package domain

import (
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// DocumentFormat is an export file type.
type DocumentFormat string

const (
	FormatPDF  DocumentFormat = "pdf"
	FormatDOCX DocumentFormat = "docx"
)

func (f DocumentFormat) MIMEType() string {
	switch f {
	case FormatPDF:
		return "application/pdf"
	case FormatDOCX:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	default:
		return "application/octet-stream"
	}
}

func ParseDocumentFormat(s string) (DocumentFormat, error) {
	switch f := DocumentFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatPDF, FormatDOCX:
		return f, nil
	case "word":
		return FormatDOCX, nil
	default:
		return "", fmt.Errorf("%w: %q (valid: pdf, docx)", ErrUnsupportedFormat, s)
	}
}

// LegalDisclaimer is printed on every exported document and returned with
// every validation response.
const LegalDisclaimer = "This RAMS document has been generated with the assistance of software and must be " +
	"reviewed and approved by a competent person before work commences. Under CDM 2015 you must ensure a " +
	"competent person reviews all risk assessments, and generic assessments must be adapted to actual site " +
	"conditions. The software provider accepts no responsibility for the accuracy, completeness or " +
	"suitability of generated content. Users are solely responsible for compliance with current UK " +
	"regulations including CDM 2015, COSHH and relevant British Standards."

const notProvided = "Not provided"

// Document is a form ready to render.
type Document struct {
	Form        FormSnapshot
	GeneratedAt time.Time
}

// Title is the document heading.
func (d Document) Title() string {
	if name := strings.TrimSpace(d.Form.ProjectName); name != "" {
		return "Risk Assessment & Method Statement: " + name
	}
	return "Risk Assessment & Method Statement"
}

// Section is one titled block of a rendered document.
type Section struct {
	Title   string
	Entries []Entry
	Bullets []string
	Body    string
}

// Entry is a labelled value inside a section.
type Entry struct {
	Label string
	Value string
}

// Sections lays the form out in document order. Renderers only decide
// typography; content and order are fixed here.
func (d Document) Sections() []Section {
	f := d.Form
	return []Section{
		{Title: "Project Information", Entries: entries(f,
			FieldProjectName, FieldClientName, FieldSiteAddress, FieldSiteContactPerson,
			FieldJobReference, FieldStartDate, FieldEndDate, FieldDuration)},
		{Title: "Work Details", Entries: entries(f,
			FieldTrade, FieldTaskType, FieldScopeOfWork, FieldMethodStatement,
			FieldSequenceOfOperations, FieldPersonsAtRisk)},
		{Title: "Identified Hazards", Bullets: hazardBullets(f)},
		{Title: "Control Measures", Entries: entries(f,
			FieldControls, FieldSpecialEquipment, FieldToolingSafety, FieldSignageAndBarriers)},
		{Title: "PPE Requirements", Bullets: orNone(ppeStrings(f.SelectedPPE))},
		{Title: "Emergency Arrangements", Entries: entries(f,
			FieldFirstAidArrangements, FieldFirePrecautions, FieldEmergencyContacts,
			FieldSiteManager, FieldContactNumber)},
		{Title: "Authorisation", Entries: append(entries(f,
			FieldPreparedBy, FieldReviewedBy, FieldReviewDate, FieldRevisionNumber),
			Entry{Label: FieldLabel(FieldCompetentPersonVerified), Value: yesNo(f.CompetentPersonVerified)})},
		{Title: "Legal Disclaimer", Body: LegalDisclaimer},
	}
}

func entries(f FormSnapshot, fields ...string) []Entry {
	out := make([]Entry, 0, len(fields))
	for _, name := range fields {
		v := strings.TrimSpace(f.Text(name))
		if v == "" {
			v = notProvided
		}
		out = append(out, Entry{Label: FieldLabel(name), Value: v})
	}
	return out
}

func hazardBullets(f FormSnapshot) []string {
	out := hazardStrings(f.SelectedHazards)
	if c := strings.TrimSpace(f.CustomHazards); c != "" {
		out = append(out, "Other: "+c)
	}
	return orNone(out)
}

func orNone(items []string) []string {
	if len(items) == 0 {
		return []string{"None identified"}
	}
	return items
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// ExportedDocument is a rendered file plus the metadata needed to serve it.
type ExportedDocument struct {
	Filename string         `json:"filename"`
	Format   DocumentFormat `json:"format"`
	Data     []byte         `json:"-"`
}

// DataURI encodes the document as a base64 data URI.
func (e ExportedDocument) DataURI() string {
	return "data:" + e.Format.MIMEType() + ";base64," + base64.StdEncoding.EncodeToString(e.Data)
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_\-.\s]`)

// DocumentFilename builds RAMS_<project>_<unix-millis>.<ext>. Unsafe
// characters are dropped and whitespace runs become "_". An empty result
// falls back to "document".
func DocumentFilename(projectName string, at time.Time, format DocumentFormat) string {
	name := unsafeFilenameChars.ReplaceAllString(projectName, "")
	name = strings.Join(strings.Fields(name), "_")
	if strings.Trim(name, "_.-") == "" {
		name = "document"
	}
	return fmt.Sprintf("RAMS_%s_%d.%s", name, at.UnixMilli(), format)
}
