// Gabinete - Legislative Proposal Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gabinete

/*
Package camara contains wire models for the Câmara dos Deputados open-data API v2
(https://dadosabertos.camara.leg.br/api/v2).

Every response is wrapped in an envelope whose payload lives under "dados".
List endpoints return an array, detail endpoints a single object:

	{"dados": [{"id": 2345678, "siglaTipo": "PL", "numero": 10, "ano": 2024, ...}], "links": [...]}
	{"dados": {"id": 204554, "nomeCivil": "...", "ultimoStatus": {...}}}

A missing "dados" key decodes to a nil slice and is treated as an empty list.
*/
package camara
