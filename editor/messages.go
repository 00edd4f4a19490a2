package editor

import (
	"errors"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"twibbon-campaign/compositor"
)

// Message keys; the key doubles as the English text
const (
	msgNotImage        = "The file must be an image"
	msgTooLarge        = "Maximum file size is %dMB"
	msgUnreadable      = "The image file is not valid"
	msgDownloadFailed  = "Failed to download the image. Please try again."
	msgDownloadPending = "Finish positioning the photo before downloading"
	msgTooSoon         = "Please wait a moment"
	msgNameRequired    = "Please enter your name"
)

// DefaultLanguage is used when the requested language is not supported
var DefaultLanguage = language.Indonesian

var supportedLanguages = []language.Tag{language.Indonesian, language.English}

var languageMatcher = language.NewMatcher(supportedLanguages)

func init() {
	id := map[string]string{
		msgNotImage:        "File harus berupa gambar",
		msgTooLarge:        "Ukuran file maksimal %dMB",
		msgUnreadable:      "File gambar tidak valid",
		msgDownloadFailed:  "Gagal mengunduh gambar. Coba lagi.",
		msgDownloadPending: "Selesaikan posisi foto sebelum mengunduh",
		msgTooSoon:         "Tunggu sebentar",
		msgNameRequired:    "Nama wajib diisi",
	}
	for key, text := range id {
		_ = message.SetString(language.Indonesian, key, text)
		_ = message.SetString(language.English, key, key)
	}
}

// ResolveLanguage picks the supported language closest to lang,
// falling back to Indonesian
func ResolveLanguage(lang string) language.Tag {
	tag, err := language.Parse(lang)
	if err != nil {
		return DefaultLanguage
	}
	_, idx, conf := languageMatcher.Match(tag)
	if conf == language.No {
		return DefaultLanguage
	}
	return supportedLanguages[idx]
}

// UserMessage converts an error from the editor into text for the user
func UserMessage(err error, lang string) string {
	p := message.NewPrinter(ResolveLanguage(lang))

	var ve *ValidationError
	var de *compositor.ImageDecodeError
	var te *compositor.TaintedCanvasError
	switch {
	case errors.As(err, &ve):
		switch ve.Reason {
		case ReasonNotImage:
			return p.Sprintf(msgNotImage)
		case ReasonTooLarge:
			return p.Sprintf(msgTooLarge, ve.MaxBytes>>20)
		default:
			return p.Sprintf(msgUnreadable)
		}
	case errors.As(err, &de), errors.As(err, &te):
		return p.Sprintf(msgDownloadFailed)
	case errors.Is(err, ErrDownloadDisabled):
		return p.Sprintf(msgDownloadPending)
	case errors.Is(err, ErrDebounced):
		return p.Sprintf(msgTooSoon)
	case errors.Is(err, ErrNameRequired):
		return p.Sprintf(msgNameRequired)
	case err == nil:
		return ""
	default:
		return p.Sprintf(msgDownloadFailed)
	}
}
