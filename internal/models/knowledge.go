// Gabinete - Legislative Proposal Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gabinete

package models

import "time"

// KnowledgeSourceCamara marks items created from the Câmara open-data API.
const KnowledgeSourceCamara = "camara-dados-abertos"

// KnowledgeItem is a knowledge base entry consumed by the chatbot.
type KnowledgeItem struct {
	KBID      string    `json:"kb_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Response  string    `json:"response"`
	Source    string    `json:"source"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
