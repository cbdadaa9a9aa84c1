package service

import (
	"fmt"
	"strings"
	"time"

	"labelscan/internal/models"
)

// promptField describes one output field the model is asked to fill.
type promptField struct {
	Name        string
	Description string
}

// promptFields is the fixed extraction schema, in the order it appears in the
// prompt text.
var promptFields = []promptField{
	{"product_name", "The name of the product (string)."},
	{"price", "The price of the item (string)."},
	{"unit", "The unit of measure (e.g., kg, lb, each) if available (string)."},
	{"sale_price", "If it exists a sale price for the item (string)."},
	{"original_price", "If it exists a regular price for the item (string)."},
	{"currency", "The currency, such as '$' or '£' (string)."},
	{"valid_until", "An expiration date if available (string, format YYYY-MM-DD, can be null)."},
	{"barcode", "The product barcode if available (string, or null if not present)."},
	{"weight", "If the item is sold by weight the weight value (string, such as '100g')."},
}

// buildExtractionPrompt composes the instruction text sent to the model after
// the image part. address is the resolved location for labelCtx.Coords, empty
// when geocoding failed or was not attempted.
func buildExtractionPrompt(labelCtx models.LabelContext, address string) string {
	parts := []string{"Analyze the image for supermarket price label details. Return a JSON object with these fields:"}

	for _, field := range promptFields {
		parts = append(parts, fmt.Sprintf(" - `%s`: %s", field.Name, field.Description))
	}

	parts = append(parts, "\nAdditional context:")
	if labelCtx.ShopName != "" {
		parts = append(parts, fmt.Sprintf("- The shop name is '%s'.", labelCtx.ShopName))
	}
	if labelCtx.Coords != nil {
		if address != "" {
			parts = append(parts, fmt.Sprintf("- Location is at approximately '%s'.", address))
		}
		parts = append(parts, fmt.Sprintf("- GPS coordinates are Latitude: %s, Longitude: %s.",
			formatCoordinate(labelCtx.Coords.Latitude),
			formatCoordinate(labelCtx.Coords.Longitude),
		))
	}
	if labelCtx.DateTime != "" {
		parts = append(parts, formatDateTimeSentence(labelCtx.DateTime))
	}
	if labelCtx.HintText != "" {
		parts = append(parts, fmt.Sprintf("- The following hint information was given: '%s'.", labelCtx.HintText))
	}

	parts = append(parts, "\nIf some fields are not present or cannot be determined, use `null` for their value instead of leaving them out. If you are unsure of a value, still make your best guess.")
	parts = append(parts, "\nLook out for discounts and deals, typically there may be a full price such as 10 in large digits sometimes crossed out, then a deal price such as 15.90/2 meaning $15.90 for 2, so the unit price is 7.95. Return fields showing the discount is true, the total price, and the discount terms, in this case 'buy 2'.")
	parts = append(parts, "\nReturn only the JSON.")

	return strings.Join(parts, " ")
}

// dateTimeLayouts covers the ISO-8601 shapes accepted for the date_time field.
var dateTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// formatDateTimeSentence normalizes an ISO-8601 timestamp into the prompt's
// canonical form. Unparseable input is still surfaced verbatim so the model
// sees what the user typed.
func formatDateTimeSentence(raw string) string {
	for _, layout := range dateTimeLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return fmt.Sprintf("- Date and time is '%s'.", parsed.Format("2006-01-02 15:04:05"))
		}
	}
	return fmt.Sprintf("- The user has provided a date and time, but it was not valid %s.", raw)
}
