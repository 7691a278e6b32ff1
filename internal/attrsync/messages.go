package attrsync

import "strings"

// Language selects the message catalog shown to the user
type Language string

const (
	LanguageEN Language = "EN"
	LanguageDE Language = "DE"
)

// ParseLanguage maps a HOMEMODE lang value to a Language. Anything but DE is English.
func ParseLanguage(s string) Language {
	if strings.EqualFold(strings.TrimSpace(s), string(LanguageDE)) {
		return LanguageDE
	}
	return LanguageEN
}

// MessageKey identifies a user-facing message
type MessageKey int

const (
	MsgAttrNotSet MessageKey = iota
	MsgAlarmDelay
	MsgOpenMaxTrigger
	MsgOpenTimes
	MsgOpenTimeDividers
	MsgSingleWord
	MsgValueRegex
	MsgDivider
	MsgBatteryLow
	MsgDeleteHint
	MsgHideInternals
	MsgShowInternals
	MsgIllegalNames
)

var catalogs = map[Language][]string{
	LanguageEN: {
		"Can't delete this attribute because it is not set!",
		"Invalid value!\nMust be a single number (seconds) or three space separated numbers (seconds)\nfor each alarm mode individually (armaway armnight armhome).",
		"Invalid value!\nThis should be the maximum number how often open warnings should be repeated.",
		"Invalid value!\nYou have to provide space separated numbers, e.g. 5 10 15 17.5",
		"Invalid value!\nYou have to provide space separated numbers for each season in order of the seasons provided in attribute HomeSeasons, e.g. 2 1 2 3.333",
		"Invalid value!\nMust be a single word.",
		"Invalid value!\nYou have to provide a regex of matching values.",
		"Invalid value!\nYou have to provide a single number, but not 0, p.e. 1000 or 0.001!",
		"Invalid value!\nMust be a number with max. 2 digits greater than 4.",
		"The choosen attribut will be deleted without asking if it was set already",
		"hide internals and readings",
		"show internals and readings",
		"Illegal characters in the name(s)",
	},
	LanguageDE: {
		"Kann dieses Attribut nicht löschen weil es nicht gesetzt ist!",
		"Ungültiger Wert!\nMuss eine einzelne Zahl (Sekunden) oder 3 leerzeichenseparierte Zahlen (Sekunden)\nfür jeden Alarmmodus individuell (armaway armnight armhome).",
		"Ungültiger Wert!\nDas ist die maximale Anzahl wie oft Offenwarnungen wiederholt werden sollen.",
		"Ungültiger Wert!\nEs sind nur leerzeichenseparierte Zahlen erlaubt, z.B. 5 10 15 17.5",
		"Ungültiger Wert!\nEs sind nur leerzeichenseparierte Zahlen erlaubt, eine für jede Jahreszeit die im Attribut HomeSeasons gesetzt wurden, z.B. 2 1 2 3.333",
		"Ungültiger Wert!\nEs ist nur ein einzelnes Wort erlaubt.",
		"Ungültiger Wert!\nErlaubt ist nur ein Regex für passende Werte.",
		"Ungültiger Wert!\nEs ist nur eine einzelne Zahl erlaubt, aber nicht 0, z.B. 1000 or 0.001!",
		"Ungültiger Wert!\nMuss eine Zahl mit maximal 2 Stellen und größer als 4 sein.",
		"Das ausgewählte Attribut wird ohne Nachfrage gelöscht sofern es gesetzt ist.",
		"Verstecke Internals und Readings",
		"Zeige Internals und Readings",
		"Ungültige Zeichen im Namen",
	},
}

// Message returns the text for key in lang, falling back to English.
func Message(lang Language, key MessageKey) string {
	catalog, ok := catalogs[lang]
	if !ok {
		catalog = catalogs[LanguageEN]
	}
	if int(key) < 0 || int(key) >= len(catalog) {
		return ""
	}
	return catalog[key]
}
