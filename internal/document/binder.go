// Package document implements the immutable mutation protocol for parsed
// resumes: binding single fields, editing list-valued sections, and the
// comma-separated convention for bulk text fields. Every operation returns a
// fresh document and leaves its input untouched.
package document

import (
	"encoding/json"
	"strings"

	"resume-editor/pkg/models"
)

// Schema field names understood by the binder.
const (
	FieldFullName        = "full_name"
	FieldEmail           = "email"
	FieldPhone           = "phone"
	FieldLinkedIn        = "linkedin"
	FieldEducation       = "education"
	FieldExperience      = "experience"
	FieldProjects        = "projects"
	FieldTechnicalSkills = "technical_skills"
	FieldCertifications  = "certifications"
	FieldLanguages       = "languages"
)

// IsListField reports whether the field holds structured list entries
func IsListField(field string) bool {
	switch field {
	case FieldEducation, FieldExperience, FieldProjects:
		return true
	}
	return false
}

// IsBulkField reports whether the field holds a flat list of text values
func IsBulkField(field string) bool {
	switch field {
	case FieldTechnicalSkills, FieldCertifications, FieldLanguages:
		return true
	}
	return false
}

// SetField returns a copy of doc with the named text field bound to value.
// A nil doc is treated as an empty document. Names outside the known schema
// are kept in Extra so the backend sees them again on save. Value shape is a
// caller contract, not validated here.
func SetField(doc *models.ResumeDocument, field, value string) *models.ResumeDocument {
	next := doc.Clone()

	switch field {
	case FieldFullName:
		next.FullName = value
	case FieldEmail:
		next.Email = value
	case FieldPhone:
		next.Phone = value
	case FieldLinkedIn:
		next.LinkedIn = value
	default:
		raw, err := json.Marshal(value)
		if err != nil {
			return next
		}
		if next.Extra == nil {
			next.Extra = make(map[string]json.RawMessage)
		}
		next.Extra[field] = raw
	}

	return next
}

// SetBulkField returns a copy of doc with the named bulk list field replaced
// by values. Unknown field names are stored in Extra as a JSON array.
func SetBulkField(doc *models.ResumeDocument, field string, values []string) *models.ResumeDocument {
	next := doc.Clone()

	switch field {
	case FieldTechnicalSkills:
		next.TechnicalSkills = values
	case FieldCertifications:
		next.Certifications = values
	case FieldLanguages:
		next.Languages = values
	default:
		raw, err := json.Marshal(values)
		if err != nil {
			return next
		}
		if next.Extra == nil {
			next.Extra = make(map[string]json.RawMessage)
		}
		next.Extra[field] = raw
	}

	return next
}

// AppendEntry returns a copy of doc with one default-valued entry appended to
// the named list: text subfields empty, bullet lists a single empty line. An
// absent list becomes a one-element list. Non-list fields are left unchanged.
func AppendEntry(doc *models.ResumeDocument, field string) *models.ResumeDocument {
	next := doc.Clone()

	switch field {
	case FieldEducation:
		next.Education = append(next.Education, models.EducationEntry{})
	case FieldExperience:
		next.Experience = append(next.Experience, models.ExperienceEntry{Description: []string{""}})
	case FieldProjects:
		next.Projects = append(next.Projects, models.ProjectEntry{Description: []string{""}})
	}

	return next
}

// RemoveEntryAt returns a copy of doc with the entry at index removed from
// the named list, preserving the order of the remaining entries. An
// out-of-range index leaves the list unchanged.
func RemoveEntryAt(doc *models.ResumeDocument, field string, index int) *models.ResumeDocument {
	next := doc.Clone()

	switch field {
	case FieldEducation:
		next.Education = removeAt(next.Education, index)
	case FieldExperience:
		next.Experience = removeAt(next.Experience, index)
	case FieldProjects:
		next.Projects = removeAt(next.Projects, index)
	}

	return next
}

// UpdateEntryField returns a copy of doc with one subfield of the entry at
// index replaced. Sibling entries and other subfields keep their values. For
// the bullet-list description of experience and project entries the value is
// split into lines on "\n". Unknown subfields and out-of-range indices leave
// the document unchanged.
func UpdateEntryField(doc *models.ResumeDocument, field string, index int, subfield, value string) *models.ResumeDocument {
	next := doc.Clone()

	switch field {
	case FieldEducation:
		next.Education = replaceAt(next.Education, index, func(e models.EducationEntry) models.EducationEntry {
			switch subfield {
			case "degree":
				e.Degree = value
			case "institution":
				e.Institution = value
			case "start_year":
				e.StartYear = value
			case "end_year":
				e.EndYear = value
			case "description":
				e.Description = value
			}
			return e
		})
	case FieldExperience:
		next.Experience = replaceAt(next.Experience, index, func(e models.ExperienceEntry) models.ExperienceEntry {
			switch subfield {
			case "company":
				e.Company = value
			case "title":
				e.Title = value
			case "start_year":
				e.StartYear = value
			case "end_year":
				e.EndYear = value
			case "description":
				e.Description = strings.Split(value, "\n")
			}
			return e
		})
	case FieldProjects:
		next.Projects = replaceAt(next.Projects, index, func(e models.ProjectEntry) models.ProjectEntry {
			switch subfield {
			case "project_name":
				e.ProjectName = value
			case "start_year":
				e.StartYear = value
			case "end_year":
				e.EndYear = value
			case "description":
				e.Description = strings.Split(value, "\n")
			}
			return e
		})
	}

	return next
}

// removeAt deletes index i from s, shifting later elements down. Out-of-range
// indices return s unchanged.
func removeAt[T any](s []T, i int) []T {
	if i < 0 || i >= len(s) {
		return s
	}
	out := make([]T, 0, len(s)-1)
	out = append(out, s[:i]...)
	return append(out, s[i+1:]...)
}

// replaceAt swaps the element at index i for transform(element) without
// touching the input slice. Out-of-range indices return s unchanged.
func replaceAt[T any](s []T, i int, transform func(T) T) []T {
	if i < 0 || i >= len(s) {
		return s
	}
	out := make([]T, len(s))
	copy(out, s)
	out[i] = transform(out[i])
	return out
}
