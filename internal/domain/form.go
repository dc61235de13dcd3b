package domain

import (
	"fmt"
	"strings"

	"github.com/fatih/camelcase"
)

// Hazard is one of the fixed hazard categories a RAMS can select.
type Hazard string

const (
	HazardWorkingAtHeight Hazard = "Working at Height"
	HazardElectrical      Hazard = "Electrical"
	HazardManualHandling  Hazard = "Manual Handling"
	HazardPowerTools      Hazard = "Power Tools / Equipment"
	HazardCOSHH           Hazard = "Hazardous Substances (COSHH)"
	HazardSlipsTrips      Hazard = "Slips, Trips and Falls"
	HazardNoiseVibration  Hazard = "Noise & Vibration"
	HazardDust            Hazard = "Dust / Airborne Particles"
	HazardHotWorks        Hazard = "Hot Works"
	HazardConfinedSpaces  Hazard = "Confined Spaces"
	HazardLoneWorking     Hazard = "Lone Working"
	HazardVehicles        Hazard = "Vehicular Movement"
	HazardFire            Hazard = "Fire / Emergency Risks"
	HazardPublicInterface Hazard = "Public Interface (e.g., schools, retail)"
	HazardOther           Hazard = "Other / Custom Hazards"
)

// ValidHazards enumerates all recognized hazards in form order.
var ValidHazards = []Hazard{
	HazardWorkingAtHeight, HazardElectrical, HazardManualHandling, HazardPowerTools,
	HazardCOSHH, HazardSlipsTrips, HazardNoiseVibration, HazardDust, HazardHotWorks,
	HazardConfinedSpaces, HazardLoneWorking, HazardVehicles, HazardFire,
	HazardPublicInterface, HazardOther,
}

// PPE is one item of personal protective equipment.
type PPE string

const (
	PPEHardHat       PPE = "Hard Hat"
	PPESafetyBoots   PPE = "Safety Boots (Steel Toe)"
	PPEHiVis         PPE = "High-Visibility Vest"
	PPEGlasses       PPE = "Safety Glasses / Goggles"
	PPEGloves        PPE = "Gloves"
	PPEEarDefenders  PPE = "Ear Defenders / Plugs"
	PPERespirator    PPE = "Dust Mask / Respirator"
	PPEHarness       PPE = "Fall Arrest Harness"
	PPEFaceShield    PPE = "Face Shield / Visor"
	PPECoveralls     PPE = "Coveralls / Protective Suit"
	PPEKneePads      PPE = "Knee Pads"
	PPEWeldingShield PPE = "Welding Shield"
	PPEThermalGear   PPE = "Thermal Gear / Waterproofs"
	PPELifeJacket    PPE = "Life Jacket"
)

// ValidPPE enumerates all recognized PPE items in form order.
var ValidPPE = []PPE{
	PPEHardHat, PPESafetyBoots, PPEHiVis, PPEGlasses, PPEGloves, PPEEarDefenders,
	PPERespirator, PPEHarness, PPEFaceShield, PPECoveralls, PPEKneePads,
	PPEWeldingShield, PPEThermalGear, PPELifeJacket,
}

// FormSnapshot is the in-progress or submitted RAMS document.
// Validators read it and never mutate it; only ApplyFix and user input write to it.
type FormSnapshot struct {
	// Step 1: project
	ProjectName       string `json:"projectName,omitempty"       yaml:"projectName,omitempty"`
	ClientName        string `json:"clientName,omitempty"        yaml:"clientName,omitempty"`
	StartDate         string `json:"startDate,omitempty"         yaml:"startDate,omitempty"`
	EndDate           string `json:"endDate,omitempty"           yaml:"endDate,omitempty"`
	Duration          string `json:"duration,omitempty"          yaml:"duration,omitempty"`
	JobReference      string `json:"jobReference,omitempty"      yaml:"jobReference,omitempty"`
	SiteAddress       string `json:"siteAddress,omitempty"       yaml:"siteAddress,omitempty"`
	SiteContactPerson string `json:"siteContactPerson,omitempty" yaml:"siteContactPerson,omitempty"`

	// Step 2: work
	Trade                string `json:"trade,omitempty"                yaml:"trade,omitempty"`
	TaskType             string `json:"taskType,omitempty"             yaml:"taskType,omitempty"`
	ScopeOfWork          string `json:"scopeOfWork,omitempty"          yaml:"scopeOfWork,omitempty"`
	MethodStatement      string `json:"methodStatement,omitempty"      yaml:"methodStatement,omitempty"`
	SequenceOfOperations string `json:"sequenceOfOperations,omitempty" yaml:"sequenceOfOperations,omitempty"`
	PersonsAtRisk        string `json:"personsAtRisk,omitempty"        yaml:"personsAtRisk,omitempty"`

	// Step 3: hazards and controls
	SelectedHazards    []Hazard `json:"selectedHazards,omitempty"    yaml:"selectedHazards,omitempty"`
	CustomHazards      string   `json:"customHazards,omitempty"      yaml:"customHazards,omitempty"`
	SelectedPPE        []PPE    `json:"selectedPPE,omitempty"        yaml:"selectedPPE,omitempty"`
	Controls           string   `json:"controls,omitempty"           yaml:"controls,omitempty"`
	SpecialEquipment   string   `json:"specialEquipment,omitempty"   yaml:"specialEquipment,omitempty"`
	ToolingSafety      string   `json:"toolingSafety,omitempty"      yaml:"toolingSafety,omitempty"`
	SignageAndBarriers string   `json:"signageAndBarriers,omitempty" yaml:"signageAndBarriers,omitempty"`

	// Step 4: emergency
	FirstAidArrangements string `json:"firstAidArrangements,omitempty" yaml:"firstAidArrangements,omitempty"`
	FirePrecautions      string `json:"firePrecautions,omitempty"      yaml:"firePrecautions,omitempty"`
	EmergencyContacts    string `json:"emergencyContacts,omitempty"    yaml:"emergencyContacts,omitempty"`
	SiteManager          string `json:"siteManager,omitempty"          yaml:"siteManager,omitempty"`
	ContactNumber        string `json:"contactNumber,omitempty"        yaml:"contactNumber,omitempty"`

	// Step 5: sign-off
	PreparedBy              string `json:"preparedBy,omitempty"              yaml:"preparedBy,omitempty"`
	ReviewedBy              string `json:"reviewedBy,omitempty"              yaml:"reviewedBy,omitempty"`
	ReviewDate              string `json:"reviewDate,omitempty"              yaml:"reviewDate,omitempty"`
	RevisionNumber          string `json:"revisionNumber,omitempty"          yaml:"revisionNumber,omitempty"`
	CompetentPersonVerified bool   `json:"competentPersonVerified,omitempty" yaml:"competentPersonVerified,omitempty"`
	Acknowledgement         bool   `json:"acknowledgement,omitempty"         yaml:"acknowledgement,omitempty"`
}

// Field names as they appear on the wire.
const (
	FieldProjectName             = "projectName"
	FieldClientName              = "clientName"
	FieldStartDate               = "startDate"
	FieldEndDate                 = "endDate"
	FieldDuration                = "duration"
	FieldJobReference            = "jobReference"
	FieldSiteAddress             = "siteAddress"
	FieldSiteContactPerson       = "siteContactPerson"
	FieldTrade                   = "trade"
	FieldTaskType                = "taskType"
	FieldScopeOfWork             = "scopeOfWork"
	FieldMethodStatement         = "methodStatement"
	FieldSequenceOfOperations    = "sequenceOfOperations"
	FieldPersonsAtRisk           = "personsAtRisk"
	FieldSelectedHazards         = "selectedHazards"
	FieldCustomHazards           = "customHazards"
	FieldSelectedPPE             = "selectedPPE"
	FieldControls                = "controls"
	FieldSpecialEquipment        = "specialEquipment"
	FieldToolingSafety           = "toolingSafety"
	FieldSignageAndBarriers      = "signageAndBarriers"
	FieldFirstAidArrangements    = "firstAidArrangements"
	FieldFirePrecautions         = "firePrecautions"
	FieldEmergencyContacts       = "emergencyContacts"
	FieldSiteManager             = "siteManager"
	FieldContactNumber           = "contactNumber"
	FieldPreparedBy              = "preparedBy"
	FieldReviewedBy              = "reviewedBy"
	FieldReviewDate              = "reviewDate"
	FieldRevisionNumber          = "revisionNumber"
	FieldCompetentPersonVerified = "competentPersonVerified"
	FieldAcknowledgement         = "acknowledgement"
)

// FieldKind describes the semantic type of a form field.
type FieldKind string

const (
	KindText FieldKind = "text"
	KindTags FieldKind = "tags"
	KindBool FieldKind = "bool"
)

// FormStep is the page of the multi-step form a field lives on.
type FormStep int

const (
	StepProject   FormStep = 1
	StepWork      FormStep = 2
	StepHazards   FormStep = 3
	StepEmergency FormStep = 4
	StepSignOff   FormStep = 5
)

// Valid reports whether s is a known step. Zero means the whole form.
func (s FormStep) Valid() bool { return s >= 0 && s <= StepSignOff }

// FieldInfo is the public description of a form field.
type FieldInfo struct {
	Name  string    `json:"name"`
	Label string    `json:"label"`
	Kind  FieldKind `json:"kind"`
	Step  FormStep  `json:"step"`
}

type fieldSpec struct {
	name string
	kind FieldKind
	step FormStep
	text func(*FormSnapshot) *string
	tags func(*FormSnapshot) []string
	set  func(*FormSnapshot, []string)
	flag func(*FormSnapshot) *bool
}

func textField(name string, step FormStep, ptr func(*FormSnapshot) *string) fieldSpec {
	return fieldSpec{name: name, kind: KindText, step: step, text: ptr}
}

var fieldTable = []fieldSpec{
	textField(FieldProjectName, StepProject, func(f *FormSnapshot) *string { return &f.ProjectName }),
	textField(FieldClientName, StepProject, func(f *FormSnapshot) *string { return &f.ClientName }),
	textField(FieldStartDate, StepProject, func(f *FormSnapshot) *string { return &f.StartDate }),
	textField(FieldEndDate, StepProject, func(f *FormSnapshot) *string { return &f.EndDate }),
	textField(FieldDuration, StepProject, func(f *FormSnapshot) *string { return &f.Duration }),
	textField(FieldJobReference, StepProject, func(f *FormSnapshot) *string { return &f.JobReference }),
	textField(FieldSiteAddress, StepProject, func(f *FormSnapshot) *string { return &f.SiteAddress }),
	textField(FieldSiteContactPerson, StepProject, func(f *FormSnapshot) *string { return &f.SiteContactPerson }),

	textField(FieldTrade, StepWork, func(f *FormSnapshot) *string { return &f.Trade }),
	textField(FieldTaskType, StepWork, func(f *FormSnapshot) *string { return &f.TaskType }),
	textField(FieldScopeOfWork, StepWork, func(f *FormSnapshot) *string { return &f.ScopeOfWork }),
	textField(FieldMethodStatement, StepWork, func(f *FormSnapshot) *string { return &f.MethodStatement }),
	textField(FieldSequenceOfOperations, StepWork, func(f *FormSnapshot) *string { return &f.SequenceOfOperations }),
	textField(FieldPersonsAtRisk, StepWork, func(f *FormSnapshot) *string { return &f.PersonsAtRisk }),

	{
		name: FieldSelectedHazards, kind: KindTags, step: StepHazards,
		tags: func(f *FormSnapshot) []string { return hazardStrings(f.SelectedHazards) },
		set: func(f *FormSnapshot, v []string) {
			f.SelectedHazards = make([]Hazard, len(v))
			for i, s := range v {
				f.SelectedHazards[i] = Hazard(s)
			}
		},
	},
	textField(FieldCustomHazards, StepHazards, func(f *FormSnapshot) *string { return &f.CustomHazards }),
	{
		name: FieldSelectedPPE, kind: KindTags, step: StepHazards,
		tags: func(f *FormSnapshot) []string { return ppeStrings(f.SelectedPPE) },
		set: func(f *FormSnapshot, v []string) {
			f.SelectedPPE = make([]PPE, len(v))
			for i, s := range v {
				f.SelectedPPE[i] = PPE(s)
			}
		},
	},
	textField(FieldControls, StepHazards, func(f *FormSnapshot) *string { return &f.Controls }),
	textField(FieldSpecialEquipment, StepHazards, func(f *FormSnapshot) *string { return &f.SpecialEquipment }),
	textField(FieldToolingSafety, StepHazards, func(f *FormSnapshot) *string { return &f.ToolingSafety }),
	textField(FieldSignageAndBarriers, StepHazards, func(f *FormSnapshot) *string { return &f.SignageAndBarriers }),

	textField(FieldFirstAidArrangements, StepEmergency, func(f *FormSnapshot) *string { return &f.FirstAidArrangements }),
	textField(FieldFirePrecautions, StepEmergency, func(f *FormSnapshot) *string { return &f.FirePrecautions }),
	textField(FieldEmergencyContacts, StepEmergency, func(f *FormSnapshot) *string { return &f.EmergencyContacts }),
	textField(FieldSiteManager, StepEmergency, func(f *FormSnapshot) *string { return &f.SiteManager }),
	textField(FieldContactNumber, StepEmergency, func(f *FormSnapshot) *string { return &f.ContactNumber }),

	textField(FieldPreparedBy, StepSignOff, func(f *FormSnapshot) *string { return &f.PreparedBy }),
	textField(FieldReviewedBy, StepSignOff, func(f *FormSnapshot) *string { return &f.ReviewedBy }),
	textField(FieldReviewDate, StepSignOff, func(f *FormSnapshot) *string { return &f.ReviewDate }),
	textField(FieldRevisionNumber, StepSignOff, func(f *FormSnapshot) *string { return &f.RevisionNumber }),
	{name: FieldCompetentPersonVerified, kind: KindBool, step: StepSignOff, flag: func(f *FormSnapshot) *bool { return &f.CompetentPersonVerified }},
	{name: FieldAcknowledgement, kind: KindBool, step: StepSignOff, flag: func(f *FormSnapshot) *bool { return &f.Acknowledgement }},
}

var fieldIndex = func() map[string]*fieldSpec {
	m := make(map[string]*fieldSpec, len(fieldTable))
	for i := range fieldTable {
		m[fieldTable[i].name] = &fieldTable[i]
	}
	return m
}()

// Fields lists every form field in form order.
func Fields() []FieldInfo {
	out := make([]FieldInfo, len(fieldTable))
	for i, fs := range fieldTable {
		out[i] = fs.info()
	}
	return out
}

// LookupField returns the description of the named field.
func LookupField(name string) (FieldInfo, bool) {
	fs, ok := fieldIndex[name]
	if !ok {
		return FieldInfo{}, false
	}
	return fs.info(), true
}

func (fs fieldSpec) info() FieldInfo {
	return FieldInfo{Name: fs.name, Label: FieldLabel(fs.name), Kind: fs.kind, Step: fs.step}
}

// FieldLabel turns a camelCase field name into a human label,
// e.g. "methodStatement" -> "Method Statement".
func FieldLabel(name string) string {
	words := camelcase.Split(name)
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// Text returns the named field as text. Tag fields are joined with ", ".
// Unknown fields and booleans yield "".
func (f FormSnapshot) Text(name string) string {
	fs, ok := fieldIndex[name]
	if !ok {
		return ""
	}
	switch fs.kind {
	case KindText:
		return *fs.text(&f)
	case KindTags:
		return strings.Join(fs.tags(&f), ", ")
	default:
		return ""
	}
}

// HasHazard reports whether h is among the selected hazards.
func (f FormSnapshot) HasHazard(h Hazard) bool {
	for _, s := range f.SelectedHazards {
		if s == h {
			return true
		}
	}
	return false
}

// HasPPE reports whether p is among the selected PPE.
func (f FormSnapshot) HasPPE(p PPE) bool {
	for _, s := range f.SelectedPPE {
		if s == p {
			return true
		}
	}
	return false
}

// Validate checks enumerated fields. It runs at the API boundary, before rules.
func (f FormSnapshot) Validate() error {
	for _, h := range f.SelectedHazards {
		if !isValidHazard(h) {
			return fmt.Errorf("%w: unknown hazard %q in selectedHazards", ErrInvalidForm, h)
		}
	}
	for _, p := range f.SelectedPPE {
		if !isValidPPE(p) {
			return fmt.Errorf("%w: unknown PPE %q in selectedPPE", ErrInvalidForm, p)
		}
	}
	return nil
}

// ApplyFix overwrites field with content verbatim. The content is trusted:
// a human reviews it, nothing here checks it.
func ApplyFix(f *FormSnapshot, field string, content FixContent) error {
	fs, ok := fieldIndex[field]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}

	switch fs.kind {
	case KindText:
		if content.IsTags() {
			*fs.text(f) = strings.Join(content.Tags, "\n")
		} else {
			*fs.text(f) = content.Text
		}
	case KindTags:
		if content.IsTags() {
			fs.set(f, append([]string(nil), content.Tags...))
		} else {
			fs.set(f, splitTags(content.Text))
		}
	default:
		return fmt.Errorf("%w: %q is a %s field", ErrFieldNotFixable, field, fs.kind)
	}
	return nil
}

func splitTags(s string) []string {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == '\n' })
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func hazardStrings(hs []Hazard) []string {
	out := make([]string, len(hs))
	for i, h := range hs {
		out[i] = string(h)
	}
	return out
}

func ppeStrings(ps []PPE) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = string(p)
	}
	return out
}

func isValidHazard(h Hazard) bool {
	for _, v := range ValidHazards {
		if v == h {
			return true
		}
	}
	return false
}

func isValidPPE(p PPE) bool {
	for _, v := range ValidPPE {
		if v == p {
			return true
		}
	}
	return false
}
