// internal/scoring/source/source.go

// Package source maps raw per-source records onto the canonical field set
// the scoring engine consumes. Each supported source gets one adapter; the
// adapter knows the source's attribute names and nothing else.
package source

import (
	"fmt"

	"kyb-workers/internal/common/errors"
	"kyb-workers/internal/models"
)

// Kind identifies a supported data source.
type Kind string

const (
	KindPracto    Kind = "practo"
	KindJustdial  Kind = "justdial"
	KindNMC       Kind = "nmc"
	KindBajaj     Kind = "bajaj"
	KindSavein    Kind = "savein"
	KindPractoNew Kind = "practo_new"
)

// Fields is the canonical view of a provider record. Absent attributes are
// empty strings; the normalize package treats those as defaults.
type Fields struct {
	Name              string
	Qualification     string
	Experience        string
	Rating            string
	RatingCount       string
	Address           string
	RegistrationID    string
	Specialization    string
	AssociatedDoctors []string
}

// Adapter extracts canonical fields from a raw record of one source.
type Adapter interface {
	Kind() Kind
	Extract(rec models.SourceRecord) Fields
}

var adapters = map[Kind]Adapter{
	KindPracto:    practoAdapter{},
	KindJustdial:  justdialAdapter{},
	KindNMC:       nmcAdapter{},
	KindBajaj:     bajajAdapter{},
	KindSavein:    saveinAdapter{},
	KindPractoNew: practoNewAdapter{},
}

// AdapterFor returns the adapter for the named source, or an
// UNSUPPORTED_SOURCE error for anything else. Unknown sources fail hard;
// scoring a record with the wrong field mapping is worse than no score.
func AdapterFor(source string) (Adapter, error) {
	if a, ok := adapters[Kind(source)]; ok {
		return a, nil
	}
	return nil, errors.New(errors.ErrCodeUnsupportedSource,
		fmt.Sprintf("no adapter for source %q", source))
}

// SupportedKinds lists the sources with a registered adapter.
func SupportedKinds() []Kind {
	kinds := make([]Kind, 0, len(adapters))
	for k := range adapters {
		kinds = append(kinds, k)
	}
	return kinds
}

type practoAdapter struct{}

func (practoAdapter) Kind() Kind { return KindPracto }

func (practoAdapter) Extract(rec models.SourceRecord) Fields {
	addr := rec.Attr("doctor_address")
	if loc := rec.Attr("location"); loc != "" {
		if addr != "" {
			addr += ", " + loc
		} else {
			addr = loc
		}
	}
	return Fields{
		Name:           rec.Attr("doctor_name"),
		Qualification:  rec.Attr("detailed_qualifications"),
		Experience:     rec.Attr("experience"),
		Rating:         rec.Attr("recommendation_percent"),
		RatingCount:    rec.Attr("patient_stories"),
		Address:        addr,
		RegistrationID: rec.Attr("registration"),
		Specialization: rec.Attr("specialization"),
	}
}

type justdialAdapter struct{}

func (justdialAdapter) Kind() Kind { return KindJustdial }

func (justdialAdapter) Extract(rec models.SourceRecord) Fields {
	return Fields{
		Name:           rec.Attr("name"),
		Qualification:  rec.Attr("qualification"),
		Experience:     rec.Attr("experience"),
		Rating:         rec.Attr("rating"),
		RatingCount:    rec.Attr("rating_count"),
		Address:        rec.Attr("clinic_address"),
		RegistrationID: rec.Attr("registration"),
		Specialization: rec.Attr("specialization"),
	}
}

// nmcAdapter covers the national medical register. The register carries no
// practice metadata, so experience and rating stay empty and the degree
// doubles as the specialization hint.
type nmcAdapter struct{}

func (nmcAdapter) Kind() Kind { return KindNMC }

func (nmcAdapter) Extract(rec models.SourceRecord) Fields {
	return Fields{
		Name:           rec.Attr("doctorName"),
		Qualification:  rec.Attr("doctorDegree"),
		Address:        rec.Attr("address"),
		RegistrationID: rec.Attr("registrationNo"),
		Specialization: rec.Attr("doctorDegree"),
	}
}

type bajajAdapter struct{}

func (bajajAdapter) Kind() Kind { return KindBajaj }

func (bajajAdapter) Extract(rec models.SourceRecord) Fields {
	return Fields{
		Name:           rec.Attr("name"),
		Qualification:  rec.Attr("qualifications"),
		Experience:     rec.Attr("experience"),
		Rating:         rec.Attr("rating_percent"),
		RatingCount:    rec.Attr("rating_count"),
		Address:        rec.Attr("clinic_address"),
		RegistrationID: rec.Attr("registration"),
		Specialization: rec.Attr("specialization"),
	}
}

type saveinAdapter struct{}

func (saveinAdapter) Kind() Kind { return KindSavein }

func (saveinAdapter) Extract(rec models.SourceRecord) Fields {
	return Fields{
		Name:           rec.Attr("name"),
		Qualification:  rec.Attr("qualification"),
		Experience:     rec.Attr("experience"),
		Rating:         rec.Attr("rating"),
		RatingCount:    rec.Attr("reviews_count"),
		Address:        rec.Attr("address"),
		RegistrationID: rec.Attr("registration"),
		Specialization: rec.Attr("specialization"),
	}
}

type practoNewAdapter struct{}

func (practoNewAdapter) Kind() Kind { return KindPractoNew }

func (practoNewAdapter) Extract(rec models.SourceRecord) Fields {
	return Fields{
		Name:           rec.Attr("name"),
		Qualification:  rec.Attr("qualification"),
		Experience:     rec.Attr("experience"),
		Rating:         rec.Attr("rating"),
		RatingCount:    rec.Attr("rating_count"),
		Address:        rec.Attr("address"),
		RegistrationID: rec.Attr("registration"),
		Specialization: rec.Attr("specialization"),
	}
}
