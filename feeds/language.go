package feeds

import (
	"strings"

	"eduhub/models"

	lingua "github.com/pemistahl/lingua-go"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

// Posts shorter than this are too ambiguous to classify
const minTaggableWords = 3

// LanguageTagger detects the language of post text among a fixed set of languages
type LanguageTagger struct {
	detector  lingua.LanguageDetector
	languages map[lingua.Language]string
}

// NewLanguageTagger builds a tagger for the given ISO 639-1 codes. Unknown
// codes are ignored. English is always a candidate. Returns nil when no known code is given.
func NewLanguageTagger(isoCodes []string) *LanguageTagger {
	targets := isoCodesToLingua(isoCodes)
	if len(targets) == 0 {
		return nil
	}
	if !lo.Contains(targets, lingua.English) {
		targets = append(targets, lingua.English)
	}

	return &LanguageTagger{
		detector: lingua.NewLanguageDetectorBuilder().
			FromLanguages(targets...).
			WithMinimumRelativeDistance(0.1).
			Build(),
		languages: getSupportedLanguages(),
	}
}

// Tag sets Lang on posts that have text and no language yet
func (t *LanguageTagger) Tag(posts []models.SocialPost) {
	for i := range posts {
		if posts[i].Lang != "" || len(strings.Fields(posts[i].Text)) < minTaggableWords {
			continue
		}
		lang, ok := t.detector.DetectLanguageOf(posts[i].Text)
		if !ok {
			continue
		}
		posts[i].Lang = t.languages[lang]
	}
}

// Map all lingua languages to their ISO 639-1 codes
func getSupportedLanguages() map[lingua.Language]string {
	languages := make(map[lingua.Language]string)
	for _, lang := range lingua.AllLanguages() {
		languages[lang] = strings.ToLower(lang.IsoCode639_1().String())
	}
	return languages
}

func isoCodesToLingua(codes []string) []lingua.Language {
	supported := getSupportedLanguages()
	languages := []lingua.Language{}

	for _, code := range codes {
		code = strings.ToLower(strings.TrimSpace(code))
		lang, ok := lo.FindKeyBy(supported, func(_ lingua.Language, iso string) bool {
			return iso == code
		})
		if !ok {
			log.WithFields(log.Fields{
				"language": code,
			}).Warn("Unsupported language code")
			continue
		}
		if !lo.Contains(languages, lang) {
			languages = append(languages, lang)
		}
	}

	return languages
}
