// Package cohost implements the automated guest-chat responder. All
// replies are canned text selected by keyword matching over the prompt
// and the current conversation stage. No model is called; ModelConfig
// exists so a hosted model can be slotted in later without changing the
// call sites.
package cohost

import (
	"fmt"
	"strings"
)

// Stage is the conversation state of a guided booking chat.
type Stage string

const (
	StageInitial        Stage = "initial"
	StageCollectingInfo Stage = "collecting_info"
	StageConfirmation   Stage = "confirmation"
	StageCompleted      Stage = "completed"
)

func (s Stage) Valid() bool {
	switch s {
	case StageInitial, StageCollectingInfo, StageConfirmation, StageCompleted:
		return true
	}
	return false
}

// Draft holds the booking fields collected so far during a chat.
type Draft struct {
	GuestName    string `json:"guest_name,omitempty"`
	GuestEmail   string `json:"guest_email,omitempty"`
	GuestPhone   string `json:"guest_phone,omitempty"`
	PropertyID   string `json:"property_id,omitempty"`
	PropertyName string `json:"property_name,omitempty"`
	CheckIn      string `json:"check_in,omitempty"`
	CheckOut     string `json:"check_out,omitempty"`
	GuestsCount  int    `json:"guests_count,omitempty"`
}

// MissingFields lists what is still needed before the draft can be
// confirmed. The phone number is optional.
func (d Draft) MissingFields() []string {
	var missing []string
	if d.GuestName == "" {
		missing = append(missing, "name")
	}
	if d.GuestEmail == "" {
		missing = append(missing, "email")
	}
	if d.PropertyID == "" {
		missing = append(missing, "property")
	}
	if d.CheckIn == "" {
		missing = append(missing, "check-in date")
	}
	if d.CheckOut == "" {
		missing = append(missing, "check-out date")
	}
	if d.GuestsCount == 0 {
		missing = append(missing, "number of guests")
	}
	return missing
}

func (d Draft) Complete() bool {
	return len(d.MissingFields()) == 0
}

// ModelConfig is the placeholder configuration for a future hosted-model
// integration. Nothing in this package dials it.
type ModelConfig struct {
	ModelName   string  `json:"model_name"`
	APIKey      string  `json:"-"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
}

func DefaultModelConfig() ModelConfig {
	return ModelConfig{
		ModelName:   "llama-3.3",
		Temperature: 0.7,
		MaxTokens:   1024,
	}
}

var bookingIntentKeywords = []string{
	"prenot", "book", "riserv", "reserve", "allogg", "soggiorn", "stay",
}

var confirmationKeywords = []string{
	"confirm", "confermo", "conferma", "yes", "sì", "va bene",
}

func containsAny(prompt string, keywords []string) bool {
	lower := strings.ToLower(prompt)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// HasBookingIntent reports whether the prompt looks like the start of a
// booking request.
func HasBookingIntent(prompt string) bool {
	return containsAny(prompt, bookingIntentKeywords)
}

// NextStage advances the conversation: a booking intent opens the
// collection phase, a complete draft moves to confirmation, and an
// affirmative answer during confirmation completes the booking chat.
// All other inputs leave the stage unchanged; completed is terminal.
func NextStage(stage Stage, draft Draft, prompt string) Stage {
	switch stage {
	case StageInitial:
		if HasBookingIntent(prompt) {
			return StageCollectingInfo
		}
		return StageInitial
	case StageCollectingInfo:
		if draft.Complete() {
			return StageConfirmation
		}
		return StageCollectingInfo
	case StageConfirmation:
		if containsAny(prompt, confirmationKeywords) {
			return StageCompleted
		}
		return StageConfirmation
	default:
		return StageCompleted
	}
}

// Reply produces the co-host's answer for a prompt. Topical questions
// (pricing, cleaning, reviews) are answered from the canned table in any
// stage; everything else gets a stage-specific response.
func Reply(stage Stage, draft Draft, prompt, language string) string {
	if reply, ok := topicalReply(prompt, language); ok {
		return reply
	}

	italian := language == "italian"

	switch stage {
	case StageInitial:
		if HasBookingIntent(prompt) {
			if italian {
				return "Con piacere la aiuto a prenotare! Per iniziare, mi dica in quale città sta cercando alloggio e per quali date."
			}
			return "I'd be happy to help you book a stay! To get started, let me know which city you're looking at and for which dates."
		}
		if italian {
			return "Benvenuto! Sono l'assistente di CiaoHost. Posso aiutarla a trovare un alloggio o rispondere a domande sul suo soggiorno."
		}
		return "Welcome! I'm the CiaoHost assistant. I can help you find a place to stay or answer questions about your visit."

	case StageCollectingInfo:
		missing := draft.MissingFields()
		if len(missing) == 0 {
			if italian {
				return "Perfetto, ho tutte le informazioni necessarie. Controlliamo insieme i dettagli della prenotazione."
			}
			return "Great, I have everything I need. Let's review your booking details together."
		}
		if italian {
			return fmt.Sprintf("Grazie per le informazioni! Per completare la prenotazione mi servono ancora: %s.", strings.Join(missing, ", "))
		}
		return fmt.Sprintf("Thanks for the details! To complete your booking I still need: %s.", strings.Join(missing, ", "))

	case StageConfirmation:
		summary := draftSummary(draft, italian)
		if italian {
			return fmt.Sprintf("Ecco il riepilogo della sua prenotazione:\n%s\nConferma questi dettagli?", summary)
		}
		return fmt.Sprintf("Here is your booking summary:\n%s\nShall I confirm these details?", summary)

	default:
		if italian {
			return "La sua prenotazione è stata registrata! Riceverà presto un'email con le istruzioni dettagliate per il check-in. Sono qui per qualsiasi altra domanda."
		}
		return "Your booking has been recorded! You'll receive an email with detailed check-in instructions shortly. I'm here if you have any other questions."
	}
}

func draftSummary(draft Draft, italian bool) string {
	property := draft.PropertyName
	if property == "" {
		property = draft.PropertyID
	}

	if italian {
		return fmt.Sprintf("- Proprietà: %s\n- Check-in: %s\n- Check-out: %s\n- Ospiti: %d\n- Nome: %s\n- Email: %s",
			property, draft.CheckIn, draft.CheckOut, draft.GuestsCount, draft.GuestName, draft.GuestEmail)
	}
	return fmt.Sprintf("- Property: %s\n- Check-in: %s\n- Check-out: %s\n- Guests: %d\n- Name: %s\n- Email: %s",
		property, draft.CheckIn, draft.CheckOut, draft.GuestsCount, draft.GuestName, draft.GuestEmail)
}

type cannedTopic struct {
	keywords []string
	english  string
	italian  string
}

var cannedTopics = []cannedTopic{
	{
		keywords: []string{"checkout", "check-out", "partenza"},
		english:  "Checkout is by the time shown in your booking confirmation. Please leave the keys on the table in your room and check that you've taken all your personal belongings.",
		italian:  "Il check-out è previsto entro l'orario indicato nella conferma di prenotazione. Si prega di lasciare le chiavi sul tavolo della camera e di controllare di aver preso tutti gli effetti personali.",
	},
	{
		keywords: []string{"check-in", "checkin", "arrivo", "chiavi", "keys"},
		english:  "Check-in details are sent by email before your arrival. If you expect to arrive outside the standard window, let us know in advance and we'll arrange it.",
		italian:  "I dettagli per il check-in vengono inviati via email prima dell'arrivo. Se prevede di arrivare fuori dall'orario standard, ce lo comunichi in anticipo e ci organizzeremo.",
	},
	{
		keywords: []string{"wifi", "internet", "password"},
		english:  "All our properties have free high-speed WiFi. The access credentials are in the guest manual inside the property.",
		italian:  "Tutti i nostri immobili sono dotati di WiFi gratuito ad alta velocità. Le credenziali di accesso sono nel manuale dell'ospite all'interno dell'immobile.",
	},
	{
		keywords: []string{"pricing", "price", "rates", "prezzo", "tariff", "costo"},
		english:  "The nightly rate and cleaning fee are shown on each property listing; the total for your dates is computed when you book. Longer stays may qualify for a discount - just ask.",
		italian:  "Il prezzo per notte e la tariffa di pulizia sono indicati nella scheda di ogni immobile; il totale per le sue date viene calcolato al momento della prenotazione. Per soggiorni lunghi possiamo valutare uno sconto.",
	},
	{
		keywords: []string{"cleaning", "housekeeping", "pulizia", "pulizie"},
		english:  "The property is professionally cleaned before every arrival. If you need an extra clean during a longer stay, contact us and we'll schedule one.",
		italian:  "L'immobile viene pulito professionalmente prima di ogni arrivo. Se desidera una pulizia extra durante un soggiorno lungo, ci contatti e la organizzeremo.",
	},
	{
		keywords: []string{"review", "rating", "feedback", "recension"},
		english:  "We'd love to hear about your stay! After checkout you'll receive a link where you can leave a review; your feedback helps us improve.",
		italian:  "Ci farebbe piacere sapere com'è andato il suo soggiorno! Dopo il check-out riceverà un link per lasciare una recensione; il suo feedback ci aiuta a migliorare.",
	},
}

func topicalReply(prompt, language string) (string, bool) {
	for _, topic := range cannedTopics {
		if containsAny(prompt, topic.keywords) {
			if language == "italian" {
				return topic.italian, true
			}
			return topic.english, true
		}
	}
	return "", false
}
