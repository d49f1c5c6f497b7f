package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ProductEntry is one product listed on a business profile. Clients send
// either a bare string or an object with a description.
type ProductEntry struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
}

// UnmarshalJSON accepts both "wooden toys" and {"description": "wooden toys"}.
func (p *ProductEntry) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		p.Description = s
		return nil
	}

	type plain ProductEntry
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("product entry: %w", err)
	}
	*p = ProductEntry(v)
	return nil
}

// Text returns the free text used for matching
func (p ProductEntry) Text() string {
	if strings.TrimSpace(p.Description) != "" {
		return p.Description
	}
	return p.Name
}

// ProductList is the products field of a profile. It also accepts a single
// string in place of a list.
type ProductList []ProductEntry

func (l *ProductList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*l = nil
		return nil
	case data[0] == '"':
		var entry ProductEntry
		if err := entry.UnmarshalJSON(data); err != nil {
			return err
		}
		*l = ProductList{entry}
		return nil
	}

	var entries []ProductEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("products: %w", err)
	}
	*l = entries
	return nil
}

// MSEProfile is the registration profile of a micro/small enterprise
type MSEProfile struct {
	CompanyName        string      `json:"company_name"`
	OwnerName          string      `json:"owner_name"`
	Phone              string      `json:"phone"`
	Email              string      `json:"email"`
	State              string      `json:"state"`
	City               string      `json:"city"`
	Address            string      `json:"address,omitempty"`
	Pincode            string      `json:"pincode,omitempty"`
	Products           ProductList `json:"products,omitempty"`
	ProductionCapacity string      `json:"production_capacity,omitempty"`
}

// MatchRequest is the body of a vendor recommendation call. The frontend
// sends the location either flat or nested under business_info.
type MatchRequest struct {
	State              string      `json:"state,omitempty"`
	Requirement        string      `json:"requirement,omitempty"`
	Products           ProductList `json:"products,omitempty"`
	ProductionCapacity string      `json:"production_capacity,omitempty"`
	BusinessInfo       *MSEProfile `json:"business_info,omitempty"`
}

// BusinessProfile is the normalized input of the matching pipeline.
// Both fields are lower-cased and may be empty.
type BusinessProfile struct {
	State       string
	ProductText string
}

// HasState reports whether a location is known
func (p BusinessProfile) HasState() bool { return p.State != "" }

// HasProductText reports whether product or requirement text is known
func (p BusinessProfile) HasProductText() bool { return p.ProductText != "" }

// Normalize resolves the flat/nested request shape into a BusinessProfile.
// A flat state wins over business_info.state. Product text is the
// requirement followed by every product text, space separated.
func (r *MatchRequest) Normalize() BusinessProfile {
	if r == nil {
		return BusinessProfile{}
	}

	state := strings.TrimSpace(r.State)
	if state == "" && r.BusinessInfo != nil {
		state = strings.TrimSpace(r.BusinessInfo.State)
	}

	products := r.Products
	if len(products) == 0 && r.BusinessInfo != nil {
		products = r.BusinessInfo.Products
	}

	parts := make([]string, 0, len(products)+1)
	parts = append(parts, r.Requirement)
	for _, p := range products {
		parts = append(parts, p.Text())
	}

	return BusinessProfile{
		State:       strings.ToLower(state),
		ProductText: strings.ToLower(strings.Join(strings.Fields(strings.Join(parts, " ")), " ")),
	}
}
