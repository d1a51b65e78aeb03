// Package locale holds user-facing text as data, keyed by language, and
// formats numbers for display. Services never embed literal messages.
package locale

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"golang.org/x/text/number"
)

// Message keys.
const (
	MsgUnknownHolder     = "holder.unknown"
	MsgInvalidNationalID = "search.invalid_national_id"
	MsgFound             = "search.found"
	MsgNotFound          = "search.not_found"
	MsgListed            = "list.retrieved"
	MsgSourceOffline     = "status.offline"
	MsgNotAvailable      = "display.not_available"
)

var messages = map[language.Tag]map[string]string{
	language.Thai: {
		MsgUnknownHolder:     "ผู้ถือหุ้น (ไม่ระบุชื่อ)",
		MsgInvalidNationalID: "กรุณากรอกเลขบัตรประชาชน 13 หลักให้ถูกต้อง",
		MsgFound:             "พบข้อมูล %d รายการ",
		MsgNotFound:          "ไม่พบข้อมูลผู้ถือหุ้นกู้จากเลขบัตรประชาชนที่กรอก",
		MsgListed:            "ดึงข้อมูลสำเร็จ %d รายการ",
		MsgSourceOffline:     "ไม่สามารถเชื่อมต่อได้",
		MsgNotAvailable:      "N/A",
	},
	language.English: {
		MsgUnknownHolder:     "Holder (name unknown)",
		MsgInvalidNationalID: "Please enter a valid 13-digit national ID number",
		MsgFound:             "Found %d record(s)",
		MsgNotFound:          "No holdings found for the national ID entered",
		MsgListed:            "Retrieved %d record(s)",
		MsgSourceOffline:     "Unable to connect",
		MsgNotAvailable:      "N/A",
	},
}

// Localizer resolves message keys and number formats for a set of supported
// languages. It is safe for concurrent use.
type Localizer struct {
	catalog  *catalog.Builder
	matcher  language.Matcher
	tags     []language.Tag
	fallback language.Tag
}

// Default is the process-wide localizer with Thai as the fallback language.
var Default = New(language.Thai)

// New builds a Localizer over the bundled message table. fallback is used
// when no requested language is supported.
func New(fallback language.Tag) *Localizer {
	b := catalog.NewBuilder(catalog.Fallback(fallback))
	tags := []language.Tag{fallback}
	for tag, table := range messages {
		if tag != fallback {
			tags = append(tags, tag)
		}
		for key, msg := range table {
			// SetString only fails for malformed tags or messages; both are
			// static here.
			_ = b.SetString(tag, key, msg)
		}
	}
	return &Localizer{
		catalog:  b,
		matcher:  language.NewMatcher(tags),
		tags:     tags,
		fallback: fallback,
	}
}

// Fallback returns the language used when nothing else matches.
func (l *Localizer) Fallback() language.Tag {
	return l.fallback
}

// Match picks the best supported language for an Accept-Language header
// value. Empty or unparsable headers yield the fallback.
func (l *Localizer) Match(acceptLanguage string) language.Tag {
	if acceptLanguage == "" {
		return l.fallback
	}
	requested, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(requested) == 0 {
		return l.fallback
	}
	_, idx, conf := l.matcher.Match(requested...)
	if conf == language.No {
		return l.fallback
	}
	return l.tags[idx]
}

// Parse resolves a language name such as "en" or "th-TH" to a supported tag.
func (l *Localizer) Parse(name string) language.Tag {
	return l.Match(name)
}

// Text returns the message for key in tag, formatted with args.
func (l *Localizer) Text(tag language.Tag, key string, args ...any) string {
	return message.NewPrinter(tag, message.Catalog(l.catalog)).Sprintf(key, args...)
}

// FormatNumber renders v with locale grouping and at most two fraction
// digits. Non-finite values render as "0".
func (l *Localizer) FormatNumber(tag language.Tag, v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	p := message.NewPrinter(tag, message.Catalog(l.catalog))
	return p.Sprint(number.Decimal(v, number.MaxFractionDigits(2)))
}
