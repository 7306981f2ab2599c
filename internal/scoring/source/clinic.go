// internal/scoring/source/clinic.go
package source

import (
	"fmt"
	"strings"

	"kyb-workers/internal/common/errors"
	"kyb-workers/internal/models"
)

// Clinic records only come from one directory today, so clinic adapters get
// their own registry rather than overloading the doctor one.
var clinicAdapters = map[Kind]Adapter{
	KindJustdial: justdialClinicAdapter{},
}

// ClinicAdapterFor returns the clinic adapter for the named source.
func ClinicAdapterFor(source string) (Adapter, error) {
	if a, ok := clinicAdapters[Kind(source)]; ok {
		return a, nil
	}
	return nil, errors.New(errors.ErrCodeUnsupportedSource,
		fmt.Sprintf("no clinic adapter for source %q", source))
}

type justdialClinicAdapter struct{}

func (justdialClinicAdapter) Kind() Kind { return KindJustdial }

func (justdialClinicAdapter) Extract(rec models.SourceRecord) Fields {
	return Fields{
		Name:              rec.Attr("name"),
		Rating:            rec.Attr("rating"),
		RatingCount:       rec.Attr("rating_count"),
		Address:           rec.Attr("clinic_address"),
		Specialization:    rec.Attr("specialization"),
		AssociatedDoctors: splitDoctorNames(rec.Attr("doctors")),
	}
}

// splitDoctorNames parses the serialized doctor-name list carried on clinic
// records. Names are pipe-separated; a bare comma-separated list is accepted
// for older records.
func splitDoctorNames(raw string) []string {
	if raw == "" {
		return nil
	}
	sep := ","
	if strings.Contains(raw, "|") {
		sep = "|"
	}
	var names []string
	for _, part := range strings.Split(raw, sep) {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}
