// Package templates renders guest-facing messages from booking and
// property data. Rendering is pure string assembly: no model calls, no
// I/O, deterministic output for a given input.
package templates

import (
	"fmt"
	"strings"
	"time"

	"ciaohost/pkg/model"
)

const (
	LanguageEnglish = "english"
	LanguageItalian = "italian"
)

// StayTimes carries the house check-in and check-out times in HH:MM
// format, as configured per deployment.
type StayTimes struct {
	CheckinTime  string
	CheckoutTime string
}

func formatDate(t time.Time) string {
	return t.Format("02 Jan 2006")
}

// WelcomeMessage builds the message sent to a guest at check-in.
// Unsupported languages fall back to English.
func WelcomeMessage(booking *model.Booking, property *model.Property, language string, times StayTimes) (subject, content string) {
	checkIn := formatDate(booking.CheckIn)
	checkOut := formatDate(booking.CheckOut)

	var b strings.Builder
	if language == LanguageItalian {
		subject = fmt.Sprintf("Benvenuto a %s", property.Name)

		fmt.Fprintf(&b, "Gentile %s,\n\n", booking.GuestName)
		fmt.Fprintf(&b, "Benvenuto a %s! Siamo lieti di averla con noi dal %s al %s.\n\n", property.Name, checkIn, checkOut)
		b.WriteString("Informazioni importanti sul suo soggiorno:\n")
		fmt.Fprintf(&b, "- Check-in: dalle %s\n", times.CheckinTime)
		fmt.Fprintf(&b, "- Check-out: entro le %s\n", times.CheckoutTime)
		b.WriteString("- WiFi: disponibile in tutta la struttura (la password sarà nella sua camera)\n\n")
		fmt.Fprintf(&b, "La proprietà dispone di %d camere da letto e %d bagni.\n", property.Bedrooms, property.Bathrooms)
		if len(property.Amenities) > 0 {
			b.WriteString("\nServizi disponibili:\n")
			for _, amenity := range property.Amenities {
				fmt.Fprintf(&b, "- %s\n", amenity)
			}
		}
		b.WriteString("\nPer qualsiasi domanda o richiesta durante il suo soggiorno, non esiti a contattarci.\n\n")
		b.WriteString("Cordiali saluti,\nIl team di CiaoHost\n")
		return subject, b.String()
	}

	subject = fmt.Sprintf("Welcome to %s", property.Name)

	fmt.Fprintf(&b, "Dear %s,\n\n", booking.GuestName)
	fmt.Fprintf(&b, "Welcome to %s! We're delighted to have you staying with us from %s to %s.\n\n", property.Name, checkIn, checkOut)
	b.WriteString("Important information about your stay:\n")
	fmt.Fprintf(&b, "- Check-in: from %s\n", times.CheckinTime)
	fmt.Fprintf(&b, "- Check-out: by %s\n", times.CheckoutTime)
	b.WriteString("- WiFi: available throughout the property (password will be in your room)\n\n")
	fmt.Fprintf(&b, "The property features %d bedrooms and %d bathrooms.\n", property.Bedrooms, property.Bathrooms)
	if len(property.Amenities) > 0 {
		b.WriteString("\nAvailable amenities:\n")
		for _, amenity := range property.Amenities {
			fmt.Fprintf(&b, "- %s\n", amenity)
		}
	}
	b.WriteString("\nIf you have any questions or requests during your stay, please don't hesitate to contact us.\n\n")
	b.WriteString("Best regards,\nThe CiaoHost Team\n")
	return subject, b.String()
}

// CheckoutInstructions builds the message sent to a guest at check-out.
func CheckoutInstructions(booking *model.Booking, property *model.Property, language string, times StayTimes) (subject, content string) {
	checkOut := formatDate(booking.CheckOut)

	var b strings.Builder
	if language == LanguageItalian {
		subject = "Istruzioni per il check-out"

		fmt.Fprintf(&b, "Gentile %s,\n\n", booking.GuestName)
		fmt.Fprintf(&b, "Speriamo che il suo soggiorno a %s sia stato piacevole.\n\n", property.Name)
		fmt.Fprintf(&b, "Ecco le istruzioni per il check-out del %s:\n\n", checkOut)
		fmt.Fprintf(&b, "1. Il check-out è previsto entro le ore %s\n", times.CheckoutTime)
		b.WriteString("2. Si prega di lasciare le chiavi sul tavolo della camera\n")
		b.WriteString("3. Controllare di aver preso tutti gli effetti personali\n")
		b.WriteString("4. Se ha utilizzato la cucina, si prega di lavarla e riporla\n\n")
		b.WriteString("Grazie per aver scelto di soggiornare con noi. Le auguriamo buon viaggio e speriamo di rivederla presto!\n\n")
		b.WriteString("Cordiali saluti,\nIl team di CiaoHost\n")
		return subject, b.String()
	}

	subject = "Checkout Instructions"

	fmt.Fprintf(&b, "Dear %s,\n\n", booking.GuestName)
	fmt.Fprintf(&b, "We hope your stay at %s has been enjoyable.\n\n", property.Name)
	fmt.Fprintf(&b, "Here are the checkout instructions for %s:\n\n", checkOut)
	fmt.Fprintf(&b, "1. Checkout time is by %s\n", times.CheckoutTime)
	b.WriteString("2. Please leave the keys on the table in your room\n")
	b.WriteString("3. Check that you've taken all your personal belongings\n")
	b.WriteString("4. If you've used the kitchen, please wash and put away any dishes\n\n")
	b.WriteString("Thank you for choosing to stay with us. We wish you safe travels and hope to see you again soon!\n\n")
	b.WriteString("Best regards,\nThe CiaoHost Team\n")
	return subject, b.String()
}

// CleaningNotice builds the internal record that a turnover clean is due
// after a check-out. It is addressed to operations staff, not the guest,
// so it is not localized.
func CleaningNotice(booking *model.Booking, property *model.Property) (subject, content string) {
	subject = fmt.Sprintf("Cleaning scheduled: %s", property.Name)

	var b strings.Builder
	fmt.Fprintf(&b, "Turnover cleaning required at %s (%s).\n\n", property.Name, property.Address)
	fmt.Fprintf(&b, "Guest %s checked out on %s after a %d-night stay.\n", booking.GuestName, formatDate(booking.CheckOut), booking.Nights())
	fmt.Fprintf(&b, "Rooms: %d bedrooms, %d bathrooms.\n", property.Bedrooms, property.Bathrooms)
	return subject, b.String()
}
