package model

import (
	"fmt"

	"stockbrief/customerrors"
)

// Section identifies one independently fetched analysis category.
// The set is fixed at design time; prompts.yaml must define every key.
type Section string

const (
	SectionBusiness  Section = "biz"
	SectionExecutive Section = "exec"
	SectionFinance   Section = "finance"
	SectionCall      Section = "call"
	SectionPrice     Section = "ta_price"
	SectionAnalyst   Section = "ta_analyst"
	SectionSocial    Section = "ta_social"
)

// sectionOrder is the display order used by the sections endpoint and the
// terminal client. Keep in sync with the constants above.
var sectionOrder = []Section{
	SectionBusiness,
	SectionExecutive,
	SectionFinance,
	SectionCall,
	SectionPrice,
	SectionAnalyst,
	SectionSocial,
}

// AllSections returns every section in display order.
func AllSections() []Section {
	out := make([]Section, len(sectionOrder))
	copy(out, sectionOrder)
	return out
}

// ParseSection validates a raw section key from a URL or message.
func ParseSection(raw string) (Section, error) {
	s := Section(raw)
	for _, known := range sectionOrder {
		if s == known {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %q", customerrors.ErrUnknownSection, raw)
}

func (s Section) String() string {
	return string(s)
}
