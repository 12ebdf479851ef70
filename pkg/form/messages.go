package form

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/dmitrymomot/formguard/pkg/validator"
)

const (
	msgValueMissing       = "Please fill out this field."
	msgSelectMissing      = "Please select an item in the list."
	msgEmailMismatch      = "Please enter an email address."
	msgURLMismatch        = "Please enter a URL."
	msgPatternMismatch    = "Please match the requested format."
	msgTooLong            = "Please shorten this text to %d characters or less (you are currently using %d characters)."
	msgTooShort           = "Please lengthen this text to %d characters or more (you are currently using %d characters)."
	msgRangeUnderflow     = "Value must be greater than or equal to %v."
	msgRangeOverflow      = "Value must be less than or equal to %v."
	msgStepMismatch       = "Please enter a valid value. The nearest valid values are multiples of %v."
	msgBadInput           = "Please enter a number."
	msgInvalidValueFormat = "Please enter a valid value."
)

func init() {
	catalogs := map[language.Tag]map[string]string{
		language.German: {
			msgValueMissing:       "Füllen Sie dieses Feld aus.",
			msgSelectMissing:      "Wählen Sie ein Element aus der Liste aus.",
			msgEmailMismatch:      "Geben Sie eine E-Mail-Adresse ein.",
			msgURLMismatch:        "Geben Sie eine URL ein.",
			msgPatternMismatch:    "Halten Sie sich an das vorgegebene Format.",
			msgTooLong:            "Kürzen Sie diesen Text auf maximal %d Zeichen (derzeit %d Zeichen).",
			msgTooShort:           "Verlängern Sie diesen Text auf mindestens %d Zeichen (derzeit %d Zeichen).",
			msgRangeUnderflow:     "Der Wert muss größer oder gleich %v sein.",
			msgRangeOverflow:      "Der Wert muss kleiner oder gleich %v sein.",
			msgStepMismatch:       "Geben Sie einen gültigen Wert ein. Gültige Werte sind Vielfache von %v.",
			msgBadInput:           "Geben Sie eine Zahl ein.",
			msgInvalidValueFormat: "Geben Sie einen gültigen Wert ein.",
		},
		language.French: {
			msgValueMissing:       "Veuillez renseigner ce champ.",
			msgSelectMissing:      "Veuillez sélectionner un élément dans la liste.",
			msgEmailMismatch:      "Veuillez saisir une adresse e-mail.",
			msgURLMismatch:        "Veuillez saisir une URL.",
			msgPatternMismatch:    "Veuillez respecter le format requis.",
			msgTooLong:            "Veuillez raccourcir ce texte à %d caractères maximum (vous utilisez actuellement %d caractères).",
			msgTooShort:           "Veuillez allonger ce texte à %d caractères minimum (vous utilisez actuellement %d caractères).",
			msgRangeUnderflow:     "La valeur doit être supérieure ou égale à %v.",
			msgRangeOverflow:      "La valeur doit être inférieure ou égale à %v.",
			msgStepMismatch:       "Veuillez saisir une valeur valide. Les valeurs valides sont des multiples de %v.",
			msgBadInput:           "Veuillez saisir un nombre.",
			msgInvalidValueFormat: "Veuillez saisir une valeur valide.",
		},
	}
	for tag, entries := range catalogs {
		for key, msg := range entries {
			if err := message.SetString(tag, key, msg); err != nil {
				panic(err)
			}
		}
	}
}

// Messages renders native constraint messages in one language.
type Messages struct {
	printer *message.Printer
}

// NewMessages returns messages for tag. Languages without a catalog fall
// back to English.
func NewMessages(tag language.Tag) *Messages {
	return &Messages{printer: message.NewPrinter(tag)}
}

var defaultMessages = NewMessages(language.English)

// Native returns the message for a failed native constraint.
func (m *Messages) Native(kind Kind, c Constraints, code string, length int) string {
	p := m.printer
	switch code {
	case validator.CodeValueMissing:
		if kind == KindSelect {
			return p.Sprintf(msgSelectMissing)
		}
		return p.Sprintf(msgValueMissing)
	case validator.CodeTypeMismatch:
		if c.Type == TypeURL {
			return p.Sprintf(msgURLMismatch)
		}
		return p.Sprintf(msgEmailMismatch)
	case validator.CodePatternMismatch:
		return p.Sprintf(msgPatternMismatch)
	case validator.CodeTooLong:
		return p.Sprintf(msgTooLong, c.MaxLength, length)
	case validator.CodeTooShort:
		return p.Sprintf(msgTooShort, c.MinLength, length)
	case validator.CodeRangeUnderflow:
		return p.Sprintf(msgRangeUnderflow, *c.Min)
	case validator.CodeRangeOverflow:
		return p.Sprintf(msgRangeOverflow, *c.Max)
	case validator.CodeStepMismatch:
		return p.Sprintf(msgStepMismatch, c.Step)
	case validator.CodeBadInput:
		return p.Sprintf(msgBadInput)
	default:
		return p.Sprintf(msgInvalidValueFormat)
	}
}
