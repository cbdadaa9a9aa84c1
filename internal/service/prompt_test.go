package service

import (
	"strings"
	"testing"

	"labelscan/internal/models"
)

func TestBuildExtractionPrompt_FieldOrder(t *testing.T) {
	prompt := buildExtractionPrompt(models.LabelContext{}, "")

	last := -1
	for _, field := range promptFields {
		idx := strings.Index(prompt, "`"+field.Name+"`")
		if idx == -1 {
			t.Fatalf("field %q missing from prompt", field.Name)
		}
		if idx <= last {
			t.Fatalf("field %q out of order", field.Name)
		}
		last = idx
	}
}

func TestBuildExtractionPrompt_Directives(t *testing.T) {
	prompt := buildExtractionPrompt(models.LabelContext{}, "")

	for _, want := range []string{
		"use `null` for their value instead of leaving them out",
		"still make your best guess",
		"'buy 2'",
		"Return only the JSON.",
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q", want)
		}
	}

	if !strings.HasSuffix(prompt, "Return only the JSON.") {
		t.Fatalf("prompt does not end with the JSON-only directive")
	}
}

func TestBuildExtractionPrompt_ShopAndHint(t *testing.T) {
	prompt := buildExtractionPrompt(models.LabelContext{
		ShopName: "Aldi",
		HintText: "dairy aisle",
	}, "")

	if !strings.Contains(prompt, "- The shop name is 'Aldi'.") {
		t.Fatalf("shop sentence missing: %s", prompt)
	}
	if !strings.Contains(prompt, "- The following hint information was given: 'dairy aisle'.") {
		t.Fatalf("hint sentence missing: %s", prompt)
	}
}

func TestBuildExtractionPrompt_OmitsAbsentContext(t *testing.T) {
	prompt := buildExtractionPrompt(models.LabelContext{}, "")

	for _, absent := range []string{"shop name is", "GPS coordinates", "Date and time", "hint information"} {
		if strings.Contains(prompt, absent) {
			t.Fatalf("prompt contains %q without context: %s", absent, prompt)
		}
	}
}

func TestBuildExtractionPrompt_CoordinatesWithoutAddress(t *testing.T) {
	prompt := buildExtractionPrompt(models.LabelContext{
		Coords: &models.Coordinates{Latitude: 51.5, Longitude: -0.12},
	}, "")

	if !strings.Contains(prompt, "- GPS coordinates are Latitude: 51.5, Longitude: -0.12.") {
		t.Fatalf("coordinates sentence missing: %s", prompt)
	}
	if strings.Contains(prompt, "approximately") {
		t.Fatalf("address sentence present without an address: %s", prompt)
	}
}

func TestBuildExtractionPrompt_AddressPrecedesCoordinates(t *testing.T) {
	prompt := buildExtractionPrompt(models.LabelContext{
		Coords: &models.Coordinates{Latitude: 51.5, Longitude: -0.12},
	}, "1 Main St, Springfield")

	addrIdx := strings.Index(prompt, "- Location is at approximately '1 Main St, Springfield'.")
	gpsIdx := strings.Index(prompt, "- GPS coordinates are")
	if addrIdx == -1 || gpsIdx == -1 {
		t.Fatalf("address or coordinates sentence missing: %s", prompt)
	}
	if addrIdx > gpsIdx {
		t.Fatalf("address sentence should precede the coordinates sentence")
	}
}

func TestFormatDateTimeSentence_ValidISO(t *testing.T) {
	got := formatDateTimeSentence("2024-03-05T14:30:00")
	want := "- Date and time is '2024-03-05 14:30:00'."
	if got != want {
		t.Fatalf("expected %q got %q", want, got)
	}
}

func TestFormatDateTimeSentence_DateOnly(t *testing.T) {
	got := formatDateTimeSentence("2024-03-05")
	want := "- Date and time is '2024-03-05 00:00:00'."
	if got != want {
		t.Fatalf("expected %q got %q", want, got)
	}
}

func TestFormatDateTimeSentence_InvalidSurfacesRawText(t *testing.T) {
	got := formatDateTimeSentence("next tuesday")
	if !strings.Contains(got, "was not valid") {
		t.Fatalf("expected invalid-date sentence got %q", got)
	}
	if !strings.Contains(got, "next tuesday") {
		t.Fatalf("raw text dropped from invalid-date sentence: %q", got)
	}
}

func TestBuildExtractionPrompt_InvalidDateInContext(t *testing.T) {
	prompt := buildExtractionPrompt(models.LabelContext{DateTime: "yesterday-ish"}, "")

	if !strings.Contains(prompt, "yesterday-ish") {
		t.Fatalf("invalid timestamp not surfaced in prompt: %s", prompt)
	}
}
