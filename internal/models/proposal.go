// Gabinete - Legislative Proposal Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gabinete

package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ProposalType is the siglaTipo of a legislative proposal.
type ProposalType string

// Supported proposal types.
const (
	ProposalTypePL  ProposalType = "PL"  // Projeto de Lei
	ProposalTypePEC ProposalType = "PEC" // Proposta de Emenda à Constituição
	ProposalTypePLP ProposalType = "PLP" // Projeto de Lei Complementar
)

// AllProposalTypes lists the supported types in their default query order.
var AllProposalTypes = []ProposalType{ProposalTypePL, ProposalTypePEC, ProposalTypePLP}

// Valid reports whether t is a supported proposal type.
func (t ProposalType) Valid() bool {
	switch t {
	case ProposalTypePL, ProposalTypePEC, ProposalTypePLP:
		return true
	}
	return false
}

// ParseProposalTypes converts configuration strings into proposal types,
// preserving order and rejecting unknown values.
func ParseProposalTypes(values []string) ([]ProposalType, error) {
	types := make([]ProposalType, 0, len(values))
	for _, v := range values {
		t := ProposalType(strings.ToUpper(strings.TrimSpace(v)))
		if !t.Valid() {
			return nil, fmt.Errorf("unsupported proposal type %q", v)
		}
		types = append(types, t)
	}
	return types, nil
}

// ProposalKey is the identity of a proposal.
type ProposalKey struct {
	Type   ProposalType
	Number int
	Year   int
}

// String renders the key the way proposals are cited, e.g. "PL 10/2024".
func (k ProposalKey) String() string {
	return string(k.Type) + " " + strconv.Itoa(k.Number) + "/" + strconv.Itoa(k.Year)
}

// KnowledgeID returns the deterministic knowledge base identifier, e.g. "PROJ-PL-10-2024".
func (k ProposalKey) KnowledgeID() string {
	return fmt.Sprintf("PROJ-%s-%d-%d", k.Type, k.Number, k.Year)
}

// Proposal is a legislative bill from the open-data API.
type Proposal struct {
	// ID is the API internal identifier.
	ID               int          `json:"id" validate:"gt=0"`
	Type             ProposalType `json:"type" validate:"required,proposal_type"`
	Number           int          `json:"number" validate:"gt=0"`
	Year             int          `json:"year" validate:"gte=1000,lte=9999"`
	Ementa           string       `json:"ementa"`
	PresentationDate *time.Time   `json:"presentation_date,omitempty"`
	// AuthorsRef is the reference used to fetch the author list.
	AuthorsRef string `json:"authors_ref,omitempty"`
	URL        string `json:"url" validate:"omitempty,url"`
}

// Key returns the proposal identity.
func (p *Proposal) Key() ProposalKey {
	return ProposalKey{Type: p.Type, Number: p.Number, Year: p.Year}
}

// PersonIdentifiers carries both the numeric ID and the display name of a
// legislator. Either may be zero-valued when unknown.
type PersonIdentifiers struct {
	ID   int    `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// IsZero reports whether neither identifier is known.
func (p PersonIdentifiers) IsZero() bool {
	return p.ID <= 0 && strings.TrimSpace(p.Name) == ""
}

// Deputy is a legislator as returned by /deputados/{id}.
type Deputy struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	CivilName string `json:"civil_name,omitempty"`
	Party     string `json:"party,omitempty"`
	State     string `json:"state,omitempty"`
	Email     string `json:"email,omitempty"`
	PhotoURL  string `json:"photo_url,omitempty"`
}

// Author is one entry of a proposal's author list.
type Author struct {
	ID   int    `json:"id,omitempty"`
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}
