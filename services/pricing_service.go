// services/pricing_service.go
package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"voicedesk-backend/models"
	"voicedesk-backend/utils"

	"gorm.io/gorm"
)

// PricingService resolves nightly prices for a room type against the layered
// rule set: manual per-date override first, then the document's daily-rate
// base, then priority-ordered price rules composing sequentially.
type PricingService struct {
	DB        *gorm.DB
	Documents *DocumentService
}

func NewPricingService(db *gorm.DB, docs *DocumentService) *PricingService {
	return &PricingService{DB: db, Documents: docs}
}

// NightlyPrice is one resolved night. ActiveRule names the last rule applied,
// not the full chain.
type NightlyPrice struct {
	Date       string  `json:"date"`
	Price      float64 `json:"price"`
	ActiveRule string  `json:"active_rule,omitempty"`
	Overridden bool    `json:"overridden,omitempty"`
}

// StayQuote aggregates per-night prices for the conversational tool layer.
type StayQuote struct {
	RoomTypeID   uint           `json:"room_type_id"`
	RoomTypeName string         `json:"room_type_name"`
	Nights       []NightlyPrice `json:"nights"`
	Total        float64        `json:"total"`
}

func ruleWeekdays(r *models.PriceRule) []int {
	if len(r.Weekdays) == 0 {
		return nil
	}
	var days []int
	if err := json.Unmarshal(r.Weekdays, &days); err != nil {
		return nil
	}
	return days
}

func rateFor(rates []models.DailyRate, date time.Time) *models.DailyRate {
	key := utils.FormatDate(date)
	for i := range rates {
		if rates[i].Date == key {
			return &rates[i]
		}
	}
	return nil
}

// ResolveNightly prices one night. Precedence: a manual per-date override
// returns immediately with no rules applied; otherwise the daily-rate base
// (falling back to the room type's base price) runs through every matching
// rule in ascending priority order. Percentage rules adjust the already-
// adjusted running price, so rules compose, they do not apply independently.
func (s *PricingService) ResolveNightly(rt *models.RoomType, rules []models.PriceRule, rates []models.DailyRate, override *models.RoomAvailability, date time.Time) NightlyPrice {
	out := NightlyPrice{Date: utils.FormatDate(date)}

	if override != nil && override.PriceOverride != nil {
		out.Price = *override.PriceOverride
		out.Overridden = true
		return out
	}

	price := rt.BasePrice
	if dr := rateFor(rates, date); dr != nil && dr.Adult > 0 {
		price = dr.Adult
	}

	applicable := make([]models.PriceRule, 0, len(rules))
	for _, r := range rules {
		if r.AppliesTo(date, ruleWeekdays(&r)) {
			applicable = append(applicable, r)
		}
	}
	sort.SliceStable(applicable, func(i, j int) bool {
		return applicable[i].Priority < applicable[j].Priority
	})

	for _, r := range applicable {
		switch r.Kind {
		case models.RuleKindFixed:
			price = r.Value
		case models.RuleKindAdd:
			price += r.Value
		case models.RuleKindPercent:
			price += price * r.Value / 100
		default:
			continue
		}
		out.ActiveRule = r.Name
	}

	out.Price = price
	return out
}

// QuoteStay resolves every night of [checkIn, checkOut) for one room type.
func (s *PricingService) QuoteStay(customerID, roomTypeID uint, checkIn, checkOut time.Time) (*StayQuote, error) {
	var rt models.RoomType
	if err := s.DB.Where("customer_id = ?", customerID).First(&rt, roomTypeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("room_type_not_found")
		}
		return nil, fmt.Errorf("failed to load room type %d: %w", roomTypeID, err)
	}

	var rules []models.PriceRule
	if err := s.DB.Where("room_type_id = ?", rt.ID).Find(&rules).Error; err != nil {
		return nil, fmt.Errorf("failed to load price rules: %w", err)
	}

	var overrides []models.RoomAvailability
	if err := s.DB.Where("room_type_id = ? AND date >= ? AND date < ?", rt.ID, utils.Truncate(checkIn), utils.Truncate(checkOut)).
		Find(&overrides).Error; err != nil {
		return nil, fmt.Errorf("failed to load availability overrides: %w", err)
	}
	overrideByDate := make(map[string]*models.RoomAvailability, len(overrides))
	for i := range overrides {
		overrideByDate[utils.FormatDate(overrides[i].Date)] = &overrides[i]
	}

	// Missing or unparseable document data degrades to the relational base
	// price, never to an error.
	var rates []models.DailyRate
	if doc, err := s.Documents.GetForCustomer(customerID); err == nil {
		if rec := s.Documents.Record(doc); rec != nil {
			_, rates = rec.FindRates(&rt)
		}
	}

	quote := &StayQuote{RoomTypeID: rt.ID, RoomTypeName: rt.Name}
	utils.EachDate(checkIn, checkOut, func(d time.Time) {
		night := s.ResolveNightly(&rt, rules, rates, overrideByDate[utils.FormatDate(d)], d)
		quote.Nights = append(quote.Nights, night)
		quote.Total += night.Price
	})
	return quote, nil
}

// BuildPricePrompt renders the price-calculation protocol block injected into
// a lodging bot's prompt. The agent itself layers the age multipliers and
// campaign discounts described here on top of the resolved nightly prices; the
// resolver does not recompute them.
func (s *PricingService) BuildPricePrompt(customer *models.Customer) string {
	var b strings.Builder
	b.WriteString("Price calculation protocol:\n")
	b.WriteString("1. Use the nightly prices returned by the pricing tool as the adult base price.\n")

	var rec *models.KnowledgeRecord
	if doc, err := s.Documents.GetForCustomer(customer.ID); err == nil {
		rec = s.Documents.Record(doc)
	}

	if rec != nil {
		if rec.Rules.ChildRatio > 0 {
			fmt.Fprintf(&b, "2. Children (age <= %d) pay %.0f%% of the adult price.\n",
				rec.Rules.ChildMaxAge, rec.Rules.ChildRatio*100)
		}
		if rec.Rules.InfantMaxAge > 0 {
			fmt.Fprintf(&b, "3. Infants (age <= %d) pay %.0f%% of the adult price.\n",
				rec.Rules.InfantMaxAge, rec.Rules.InfantRatio*100)
		}
		for _, d := range rec.Discounts {
			line := fmt.Sprintf("Campaign %q", d.Name)
			if d.Percent > 0 {
				line += fmt.Sprintf(": %.0f%% off", d.Percent)
			} else if d.Amount > 0 {
				line += fmt.Sprintf(": %.0f off", d.Amount)
			}
			if d.SaleFrom != "" || d.SaleUntil != "" {
				line += fmt.Sprintf(", bookable %s..%s", d.SaleFrom, d.SaleUntil)
			}
			if d.StayFrom != "" || d.StayUntil != "" {
				line += fmt.Sprintf(", for stays %s..%s", d.StayFrom, d.StayUntil)
			}
			if d.RoomTypeID != 0 {
				line += fmt.Sprintf(", room type %d only", d.RoomTypeID)
			}
			b.WriteString(line + ".\n")
		}
	}

	b.WriteString("Quote the final total including every applicable discount.")
	return b.String()
}
