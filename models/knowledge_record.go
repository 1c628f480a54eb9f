// models/knowledge_record.go
package models

import (
	"strconv"
	"strings"
)

// KnowledgeRecord is the structured JSON record stored in a knowledge
// document's first text blob. It mixes knowledge-base data with a derived
// per-date availability/price projection; the relational tables stay the
// source of truth and this record is never read back to reconstruct them.
type KnowledgeRecord struct {
	// Legacy flat table, used when DailyRatesByRoomType is absent.
	DailyRates []DailyRate `json:"dailyRates,omitempty"`

	// Per-room-type tables keyed by room type id (as a decimal string) or by
	// room type name for hand-edited documents.
	DailyRatesByRoomType map[string][]DailyRate `json:"dailyRatesByRoomType,omitempty"`

	Rules     PricingRules       `json:"rules,omitempty"`
	Discounts []CampaignDiscount `json:"discounts,omitempty"`

	FacilityInfo string `json:"facilityInfo,omitempty"`
}

// DailyRate is one date's availability counter and per-person prices.
type DailyRate struct {
	Date      string  `json:"date"` // YYYY-MM-DD
	Available int     `json:"available"`
	Adult     float64 `json:"priceAdult,omitempty"`
	Child     float64 `json:"priceChild,omitempty"`
	Infant    float64 `json:"priceInfant,omitempty"`
}

// PricingRules are the age multipliers the conversational agent layers on top
// of the resolved nightly price.
type PricingRules struct {
	ChildRatio   float64 `json:"childRatio,omitempty"`  // e.g. 0.5
	InfantRatio  float64 `json:"infantRatio,omitempty"` // e.g. 0
	ChildMaxAge  int     `json:"childMaxAge,omitempty"`
	InfantMaxAge int     `json:"infantMaxAge,omitempty"`
}

// CampaignDiscount is a named discount bounded by a sale window (when it can
// be offered) and a stay window (which nights it covers).
type CampaignDiscount struct {
	Name       string  `json:"name"`
	Percent    float64 `json:"percent,omitempty"`
	Amount     float64 `json:"amount,omitempty"`
	SaleFrom   string  `json:"saleFrom,omitempty"` // YYYY-MM-DD
	SaleUntil  string  `json:"saleUntil,omitempty"`
	StayFrom   string  `json:"stayFrom,omitempty"`
	StayUntil  string  `json:"stayUntil,omitempty"`
	RoomTypeID uint    `json:"roomTypeId,omitempty"` // 0 = all room types
}

// RatesKeyCandidates lists the map keys that can hold a room type's table,
// strongest match first: id, then name. Lookups over the result must compare
// names case-insensitively.
func RatesKeyCandidates(rt *RoomType) []string {
	return []string{strconv.FormatUint(uint64(rt.ID), 10), rt.Name}
}

// LegacyRatesKey is the fallback bucket some hand-edited documents carry
// inside dailyRatesByRoomType.
const LegacyRatesKey = "default"

// FindRates picks the daily-rate table for a room type: id key first, then
// case-insensitive name, then the legacy/default bucket, then the flat legacy
// list. Returns the map key used ("" for the flat list) and the table, or
// nil when the record has no usable table.
func (rec *KnowledgeRecord) FindRates(rt *RoomType) (string, []DailyRate) {
	if rec == nil {
		return "", nil
	}
	if len(rec.DailyRatesByRoomType) > 0 {
		idKey := strconv.FormatUint(uint64(rt.ID), 10)
		if rates, ok := rec.DailyRatesByRoomType[idKey]; ok {
			return idKey, rates
		}
		for key, rates := range rec.DailyRatesByRoomType {
			if strings.EqualFold(key, rt.Name) {
				return key, rates
			}
		}
		if rates, ok := rec.DailyRatesByRoomType[LegacyRatesKey]; ok {
			return LegacyRatesKey, rates
		}
		return "", nil
	}
	return "", rec.DailyRates
}
