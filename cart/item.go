package cart

import "encoding/json"

// Item is one line of the cart. Display fields are snapshotted when the
// item is first added and are not refreshed from the catalog afterwards.
type Item struct {
	ProductID   string `json:"_id"`
	Name        string `json:"name"`
	ImageURL    string `json:"imageUrl"`
	Category    Label  `json:"category"`
	HasVariants bool   `json:"hasSizeVariants"`
	Variant     string `json:"selectedSize,omitempty"`
	Quantity    int    `json:"quantity"`
}

// QuotationItem is the shape a cart line takes inside a quotation request.
type QuotationItem struct {
	Name         string `json:"name"`
	Quantity     int    `json:"quantity"`
	Category     Label  `json:"category,omitempty"`
	SelectedSize string `json:"selectedSize,omitempty"`
}

// matches reports whether productID/variant address this line. Lines of
// products without variants are addressed by product alone.
func (it Item) matches(productID, variant string) bool {
	if it.ProductID != productID {
		return false
	}
	return !it.HasVariants || it.Variant == variant
}

// normalized clears the variant of products that do not carry variants.
func (it Item) normalized() Item {
	if !it.HasVariants {
		it.Variant = ""
	}
	return it
}

// Label is a display string. Carts written by the storefront stored the
// category as an object with a name, so both forms decode.
type Label string

// UnmarshalJSON implements json.Unmarshaler.
func (l *Label) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*l = Label(s)
		return nil
	}

	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*l = Label(obj.Name)
	return nil
}
