package ebay

import (
	"encoding/json"
	"fmt"
	"strings"

	"deal-scanner/models"
)

// RawItem is one upstream item record in the Finding API JSON shape, where
// every scalar is wrapped in an array and any field may be missing.
// Backends that scrape other sources convert into this shape so a single
// normalization step serves all of them.
type RawItem struct {
	ItemID          []string           `json:"itemId"`
	Title           []string           `json:"title"`
	ViewItemURL     []string           `json:"viewItemURL"`
	GalleryURL      []string           `json:"galleryURL"`
	Location        []string           `json:"location"`
	ProductID       []rawValue         `json:"productId"`
	PrimaryCategory []rawCategory      `json:"primaryCategory"`
	Condition       []rawCondition     `json:"condition"`
	SellingStatus   []rawSellingStatus `json:"sellingStatus"`
	ListingInfo     []rawListingInfo   `json:"listingInfo"`
}

type rawValue struct {
	Type       string `json:"@type,omitempty"`
	CurrencyID string `json:"@currencyId,omitempty"`
	Value      string `json:"__value__"`
}

type rawCategory struct {
	CategoryID []string `json:"categoryId"`
}

type rawCondition struct {
	DisplayName []string `json:"conditionDisplayName"`
}

type rawSellingStatus struct {
	CurrentPrice []rawValue `json:"currentPrice"`
	BidCount     []string   `json:"bidCount"`
	TimeLeft     []string   `json:"timeLeft"`
}

type rawListingInfo struct {
	ListingType []string `json:"listingType"`
	EndTime     []string `json:"endTime"`
}

// RawResult is the decoded body of one backend call.
type RawResult struct {
	Items []RawItem
}

type rawEnvelope struct {
	Ack          []string          `json:"ack"`
	ErrorMessage []rawErrorMessage `json:"errorMessage"`
	SearchResult []rawSearchResult `json:"searchResult"`
	Item         []RawItem         `json:"item"`
}

type rawSearchResult struct {
	Count string    `json:"@count"`
	Item  []RawItem `json:"item"`
}

type rawErrorMessage struct {
	Error []struct {
		ErrorID []string `json:"errorId"`
		Message []string `json:"message"`
	} `json:"error"`
}

func (m rawErrorMessage) String() string {
	var parts []string
	for _, e := range m.Error {
		parts = append(parts, strings.TrimSpace(first(e.ErrorID)+" "+first(e.Message)))
	}
	return strings.Join(parts, "; ")
}

// decodeResponse unwraps "<operation>Response":[{...}] and returns the item
// records, accepting both the searchResult.item and the bare item shapes.
func decodeResponse(op Operation, body []byte) (*RawResult, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(body, &top); err != nil {
		return nil, fmt.Errorf("%w: decode %s response: %v", models.ErrUpstreamUnavailable, op, err)
	}

	payload, ok := top[string(op)+"Response"]
	if !ok {
		if msg, ok := top["errorMessage"]; ok {
			var errs []rawErrorMessage
			_ = json.Unmarshal(msg, &errs)
			detail := "unknown error"
			if len(errs) > 0 {
				detail = errs[0].String()
			}
			return nil, fmt.Errorf("%w: %s rejected: %s", models.ErrUpstreamUnavailable, op, detail)
		}
		return nil, fmt.Errorf("%w: %s response has unexpected shape", models.ErrUpstreamUnavailable, op)
	}

	var envs []rawEnvelope
	if err := json.Unmarshal(payload, &envs); err != nil {
		return nil, fmt.Errorf("%w: decode %s envelope: %v", models.ErrUpstreamUnavailable, op, err)
	}
	if len(envs) == 0 {
		return &RawResult{}, nil
	}
	env := envs[0]

	if ack := first(env.Ack); strings.EqualFold(ack, "Failure") || strings.EqualFold(ack, "PartialFailure") {
		detail := ack
		if len(env.ErrorMessage) > 0 {
			detail = env.ErrorMessage[0].String()
		}
		return nil, fmt.Errorf("%w: %s failed: %s", models.ErrUpstreamUnavailable, op, detail)
	}

	if len(env.SearchResult) > 0 {
		return &RawResult{Items: env.SearchResult[0].Item}, nil
	}
	return &RawResult{Items: env.Item}, nil
}

func first(ss []string) string {
	if len(ss) == 0 {
		return ""
	}
	return ss[0]
}
