// Gabinete - Legislative Proposal Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gabinete

package camara

import (
	"strconv"
	"strings"
)

// ListEnvelope wraps list responses.
type ListEnvelope[T any] struct {
	Dados []T    `json:"dados"`
	Links []Link `json:"links,omitempty"`
}

// ObjectEnvelope wraps detail responses.
type ObjectEnvelope[T any] struct {
	Dados *T     `json:"dados"`
	Links []Link `json:"links,omitempty"`
}

// Link is a HATEOAS link returned alongside the payload.
type Link struct {
	Rel  string `json:"rel"`
	Href string `json:"href"`
}

// Proposicao is an entry of GET /proposicoes.
type Proposicao struct {
	ID               int    `json:"id"`
	URI              string `json:"uri"`
	SiglaTipo        string `json:"siglaTipo"`
	CodTipo          int    `json:"codTipo"`
	Numero           int    `json:"numero"`
	Ano              int    `json:"ano"`
	Ementa           string `json:"ementa"`
	DataApresentacao string `json:"dataApresentacao,omitempty"`
}

// Autor is an entry of GET /proposicoes/{id}/autores.
type Autor struct {
	URI             string `json:"uri"`
	Nome            string `json:"nome"`
	CodTipo         int    `json:"codTipo"`
	Tipo            string `json:"tipo"`
	OrdemAssinatura int    `json:"ordemAssinatura"`
	Proponente      int    `json:"proponente"`
}

// ID extracts the author's numeric identifier from the trailing segment of
// its URI, e.g. ".../deputados/204554" yields 204554. Zero means unknown.
func (a *Autor) ID() int {
	return idFromURI(a.URI)
}

// Deputado is the payload of GET /deputados/{id}.
type Deputado struct {
	ID           int          `json:"id"`
	URI          string       `json:"uri"`
	NomeCivil    string       `json:"nomeCivil"`
	UltimoStatus UltimoStatus `json:"ultimoStatus"`
}

// UltimoStatus is the deputy's most recent mandate information.
type UltimoStatus struct {
	ID            int    `json:"id"`
	Nome          string `json:"nome"`
	NomeEleitoral string `json:"nomeEleitoral"`
	SiglaPartido  string `json:"siglaPartido"`
	SiglaUf       string `json:"siglaUf"`
	Email         string `json:"email"`
	URLFoto       string `json:"urlFoto"`
}

// DisplayName prefers the electoral name, then the status name, then the civil name.
func (d *Deputado) DisplayName() string {
	for _, n := range []string{d.UltimoStatus.NomeEleitoral, d.UltimoStatus.Nome, d.NomeCivil} {
		if n = strings.TrimSpace(n); n != "" {
			return n
		}
	}
	return ""
}

func idFromURI(uri string) int {
	uri = strings.TrimRight(uri, "/")
	idx := strings.LastIndexByte(uri, '/')
	if idx < 0 || idx == len(uri)-1 {
		return 0
	}
	id, err := strconv.Atoi(uri[idx+1:])
	if err != nil || id < 0 {
		return 0
	}
	return id
}
