package models

import "encoding/json"

// EducationEntry represents one education item in a parsed resume
type EducationEntry struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	StartYear   string `json:"start_year"`
	EndYear     string `json:"end_year"`
	Description string `json:"description"`
}

// ExperienceEntry represents one work experience item in a parsed resume.
// Description is an ordered list of bullet lines.
type ExperienceEntry struct {
	Company     string   `json:"company"`
	Title       string   `json:"title"`
	StartYear   string   `json:"start_year"`
	EndYear     string   `json:"end_year"`
	Description []string `json:"description"`
}

// ProjectEntry represents one project item in a parsed resume.
// Description is an ordered list of bullet lines.
type ProjectEntry struct {
	ProjectName string   `json:"project_name"`
	StartYear   string   `json:"start_year"`
	EndYear     string   `json:"end_year"`
	Description []string `json:"description"`
}

// ResumeDocument is the structured resume returned by the parser backend.
// Fields the editor does not know about are kept verbatim in Extra so they
// survive edit cycles and round-trip back to the backend unchanged.
type ResumeDocument struct {
	FullName        string
	Email           string
	Phone           string
	LinkedIn        string
	Education       []EducationEntry
	Experience      []ExperienceEntry
	Projects        []ProjectEntry
	TechnicalSkills []string
	Certifications  []string
	Languages       []string
	Extra           map[string]json.RawMessage
}

// knownDocumentKeys are the schema fields handled by the typed struct.
// Anything else lands in Extra.
var knownDocumentKeys = []string{
	"full_name", "email", "phone", "linkedin",
	"education", "experience", "projects",
	"technical_skills", "certifications", "languages",
}

// MarshalJSON emits the typed fields under their schema names and merges the
// Extra map back in. Typed fields win on key collision.
func (d ResumeDocument) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(knownDocumentKeys)+len(d.Extra))
	for k, v := range d.Extra {
		out[k] = v
	}

	put := func(key string, value interface{}) error {
		raw, err := json.Marshal(value)
		if err != nil {
			return err
		}
		out[key] = raw
		return nil
	}

	fields := map[string]interface{}{
		"full_name":        d.FullName,
		"email":            d.Email,
		"phone":            d.Phone,
		"linkedin":         d.LinkedIn,
		"education":        emptyIfNilEducation(d.Education),
		"experience":       emptyIfNilExperience(d.Experience),
		"projects":         emptyIfNilProjects(d.Projects),
		"technical_skills": emptyIfNilStrings(d.TechnicalSkills),
		"certifications":   emptyIfNilStrings(d.Certifications),
		"languages":        emptyIfNilStrings(d.Languages),
	}
	for key, value := range fields {
		if err := put(key, value); err != nil {
			return nil, err
		}
	}

	return json.Marshal(out)
}

// UnmarshalJSON splits the payload into typed fields and unknown extras
func (d *ResumeDocument) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	doc := ResumeDocument{}

	take := func(key string, dst interface{}) error {
		value, ok := raw[key]
		if !ok || string(value) == "null" {
			delete(raw, key)
			return nil
		}
		delete(raw, key)
		return json.Unmarshal(value, dst)
	}

	if err := take("full_name", &doc.FullName); err != nil {
		return err
	}
	if err := take("email", &doc.Email); err != nil {
		return err
	}
	if err := take("phone", &doc.Phone); err != nil {
		return err
	}
	if err := take("linkedin", &doc.LinkedIn); err != nil {
		return err
	}
	if err := take("education", &doc.Education); err != nil {
		return err
	}
	if err := take("experience", &doc.Experience); err != nil {
		return err
	}
	if err := take("projects", &doc.Projects); err != nil {
		return err
	}
	if err := take("technical_skills", &doc.TechnicalSkills); err != nil {
		return err
	}
	if err := take("certifications", &doc.Certifications); err != nil {
		return err
	}
	if err := take("languages", &doc.Languages); err != nil {
		return err
	}

	if len(raw) > 0 {
		doc.Extra = raw
	}

	*d = doc
	return nil
}

// Clone returns a deep copy of the document. Every mutation path works on a
// clone so the previous document is never touched in place.
func (d *ResumeDocument) Clone() *ResumeDocument {
	if d == nil {
		return &ResumeDocument{}
	}

	out := &ResumeDocument{
		FullName: d.FullName,
		Email:    d.Email,
		Phone:    d.Phone,
		LinkedIn: d.LinkedIn,
	}

	if d.Education != nil {
		out.Education = make([]EducationEntry, len(d.Education))
		copy(out.Education, d.Education)
	}
	if d.Experience != nil {
		out.Experience = make([]ExperienceEntry, len(d.Experience))
		for i, entry := range d.Experience {
			entry.Description = cloneStrings(entry.Description)
			out.Experience[i] = entry
		}
	}
	if d.Projects != nil {
		out.Projects = make([]ProjectEntry, len(d.Projects))
		for i, entry := range d.Projects {
			entry.Description = cloneStrings(entry.Description)
			out.Projects[i] = entry
		}
	}
	out.TechnicalSkills = cloneStrings(d.TechnicalSkills)
	out.Certifications = cloneStrings(d.Certifications)
	out.Languages = cloneStrings(d.Languages)

	if d.Extra != nil {
		out.Extra = make(map[string]json.RawMessage, len(d.Extra))
		for k, v := range d.Extra {
			out.Extra[k] = v
		}
	}

	return out
}

func cloneStrings(values []string) []string {
	if values == nil {
		return nil
	}
	out := make([]string, len(values))
	copy(out, values)
	return out
}

func emptyIfNilStrings(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func emptyIfNilEducation(entries []EducationEntry) []EducationEntry {
	if entries == nil {
		return []EducationEntry{}
	}
	return entries
}

func emptyIfNilExperience(entries []ExperienceEntry) []ExperienceEntry {
	if entries == nil {
		return []ExperienceEntry{}
	}
	return entries
}

func emptyIfNilProjects(entries []ProjectEntry) []ProjectEntry {
	if entries == nil {
		return []ProjectEntry{}
	}
	return entries
}
