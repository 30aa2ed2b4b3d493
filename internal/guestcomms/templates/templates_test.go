package templates

import (
	"strings"
	"testing"
	"time"

	"ciaohost/pkg/model"
)

func fixtureBooking() *model.Booking {
	return &model.Booking{
		ID:         "64b0c1d2e3f4a5b6c7d8e9aa",
		PropertyID: "64b0c1d2e3f4a5b6c7d8e9f0",
		GuestName:  "Maria Bianchi",
		CheckIn:    time.Date(2026, time.September, 5, 0, 0, 0, 0, time.UTC),
		CheckOut:   time.Date(2026, time.September, 8, 0, 0, 0, 0, time.UTC),
	}
}

func fixtureProperty() *model.Property {
	return &model.Property{
		ID:        "64b0c1d2e3f4a5b6c7d8e9f0",
		Name:      "Trastevere Loft",
		Address:   "Via della Scala 17",
		Bedrooms:  2,
		Bathrooms: 1,
		Amenities: []string{"WiFi", "Air Conditioning"},
	}
}

var testTimes = StayTimes{CheckinTime: "15:00", CheckoutTime: "11:00"}

func TestWelcomeMessage_English(t *testing.T) {
	subject, content := WelcomeMessage(fixtureBooking(), fixtureProperty(), LanguageEnglish, testTimes)

	if subject != "Welcome to Trastevere Loft" {
		t.Errorf("unexpected subject: %q", subject)
	}

	for _, want := range []string{
		"Dear Maria Bianchi",
		"from 05 Sep 2026 to 08 Sep 2026",
		"Check-in: from 15:00",
		"Check-out: by 11:00",
		"2 bedrooms and 1 bathrooms",
		"- WiFi",
		"- Air Conditioning",
		"The CiaoHost Team",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("welcome message missing %q\n%s", want, content)
		}
	}
}

func TestWelcomeMessage_Italian(t *testing.T) {
	subject, content := WelcomeMessage(fixtureBooking(), fixtureProperty(), LanguageItalian, testTimes)

	if subject != "Benvenuto a Trastevere Loft" {
		t.Errorf("unexpected subject: %q", subject)
	}

	for _, want := range []string{
		"Gentile Maria Bianchi",
		"Benvenuto a Trastevere Loft",
		"Check-in: dalle 15:00",
		"Check-out: entro le 11:00",
		"2 camere da letto e 1 bagni",
		"Il team di CiaoHost",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("welcome message missing %q\n%s", want, content)
		}
	}
}

func TestWelcomeMessage_UnknownLanguageFallsBackToEnglish(t *testing.T) {
	_, content := WelcomeMessage(fixtureBooking(), fixtureProperty(), "french", testTimes)

	if !strings.Contains(content, "Dear Maria Bianchi") {
		t.Errorf("expected English fallback, got:\n%s", content)
	}
}

func TestWelcomeMessage_NoAmenitiesSection(t *testing.T) {
	property := fixtureProperty()
	property.Amenities = nil

	_, content := WelcomeMessage(fixtureBooking(), property, LanguageEnglish, testTimes)

	if strings.Contains(content, "Available amenities") {
		t.Error("amenities section should be omitted when the property has none")
	}
}

func TestCheckoutInstructions(t *testing.T) {
	tests := []struct {
		language    string
		wantSubject string
		wantParts   []string
	}{
		{
			language:    LanguageEnglish,
			wantSubject: "Checkout Instructions",
			wantParts: []string{
				"Dear Maria Bianchi",
				"checkout instructions for 08 Sep 2026",
				"Checkout time is by 11:00",
				"leave the keys on the table",
			},
		},
		{
			language:    LanguageItalian,
			wantSubject: "Istruzioni per il check-out",
			wantParts: []string{
				"Gentile Maria Bianchi",
				"check-out del 08 Sep 2026",
				"entro le ore 11:00",
				"lasciare le chiavi sul tavolo",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.language, func(t *testing.T) {
			subject, content := CheckoutInstructions(fixtureBooking(), fixtureProperty(), tt.language, testTimes)

			if subject != tt.wantSubject {
				t.Errorf("unexpected subject: %q", subject)
			}
			for _, want := range tt.wantParts {
				if !strings.Contains(content, want) {
					t.Errorf("checkout instructions missing %q\n%s", want, content)
				}
			}
		})
	}
}

func TestCleaningNotice(t *testing.T) {
	subject, content := CleaningNotice(fixtureBooking(), fixtureProperty())

	if subject != "Cleaning scheduled: Trastevere Loft" {
		t.Errorf("unexpected subject: %q", subject)
	}
	for _, want := range []string{
		"Via della Scala 17",
		"Maria Bianchi checked out on 08 Sep 2026",
		"3-night stay",
		"2 bedrooms, 1 bathrooms",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("cleaning notice missing %q\n%s", want, content)
		}
	}
}

func TestRendering_Deterministic(t *testing.T) {
	_, first := WelcomeMessage(fixtureBooking(), fixtureProperty(), LanguageEnglish, testTimes)
	_, second := WelcomeMessage(fixtureBooking(), fixtureProperty(), LanguageEnglish, testTimes)

	if first != second {
		t.Error("rendering the same input twice must produce identical output")
	}
}
